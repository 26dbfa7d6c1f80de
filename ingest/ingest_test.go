package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/perf/benchfmt"
)

const testOutput = `goos: linux
goarch: amd64
pkg: example.com/serialization
BenchmarkEncode/label=JSON/mb=1-8         	      10	 100000000 ns/op	         1.5 encoded-MB
BenchmarkEncode/label=JSON/mb=1-8         	      10	 300000000 ns/op	         1.5 encoded-MB
BenchmarkEncode/label=JSON/mb=1-8         	      10	 200000000 ns/op	         1.5 encoded-MB
BenchmarkEncode/label=JSON/mb=10-8        	       1	2000000000 ns/op	        15 encoded-MB
BenchmarkDecode/label=JSON/mb=1-8         	      10	  50000000 ns/op
BenchmarkEncode/label=PROTOBUF_JS/mb=10-8 	       1	1000000000 ns/op	         6 encoded-MB
BenchmarkChecksum-8                       	 1000000	      1000 ns/op
BenchmarkEncode/label=JSON/mb=big-8       	       1	         5 ns/op
PASS
`

func TestParseName(t *testing.T) {
	p, err := ParseName(benchfmt.Name("Encode/label=PROTOBUF_Pbf/mb=0.5-8"))
	require.NoError(t, err)
	assert.Equal(t, Point{Op: OpEncode, Label: "PROTOBUF Pbf", MB: 0.5}, p)

	p, err = ParseName(benchfmt.Name("Decode/mb=2000/label=JSON"))
	require.NoError(t, err)
	assert.Equal(t, Point{Op: OpDecode, Label: "JSON", MB: 2000}, p)

	for _, name := range []string{
		"Checksum-8",
		"Encode/label=JSON",
		"Encode/mb=1",
		"Encode/label=/mb=1",
		"Encode/label=JSON/mb=big",
		"Roundtrip/label=JSON/mb=1",
	} {
		_, err := ParseName(benchfmt.Name(name))
		assert.ErrorIs(t, err, ErrNotApplicable, name)
	}
}

func TestCollectorRead(t *testing.T) {
	c := NewCollector()
	n, err := c.Read(benchfmt.NewReader(strings.NewReader(testOutput), "test"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	series := c.Series()
	require.Len(t, series, 2)

	json := series[0]
	assert.Equal(t, "JSON", json.Label)
	assert.Equal(t, []float64{1, 10}, json.X)
	enc := json.Y[backend.MetricEncodedTime]
	require.Len(t, enc, 2)
	assert.InDelta(t, 0.2, enc[0], 1e-12, "repeated runs are summarized by the median")
	assert.InDelta(t, 2, enc[1], 1e-12)
	assert.Equal(t, []float64{1.5, 15}, json.Y[backend.MetricEncodedSize])
	dec := json.Y[backend.MetricDecodedTime]
	require.Len(t, dec, 2)
	assert.InDelta(t, 0.05, dec[0], 1e-12)
	assert.Zero(t, dec[1], "sizes without a measurement hold 0")

	proto := series[1]
	assert.Equal(t, "PROTOBUF JS", proto.Label)
	assert.Equal(t, []float64{10}, proto.X)
	assert.ElementsMatch(t, []string{backend.MetricEncodedSize, backend.MetricEncodedTime}, proto.Metrics())
}

func TestCollectorReadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	require.NoError(t, os.WriteFile(first, []byte(testOutput), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("BenchmarkDecode/label=JSON/mb=10-8 1 100000000 ns/op\n"), 0o644))

	c := NewCollector()
	n, err := c.ReadFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	json := c.Series()[0]
	assert.InDelta(t, 0.1, json.Y[backend.MetricDecodedTime][1], 1e-12)

	_, err = NewCollector().ReadFiles(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestMedian(t *testing.T) {
	assert.Zero(t, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{3}))
	assert.Equal(t, 2.0, Median([]float64{5, 1, 2}))
}

func TestFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.txt")
	require.NoError(t, os.WriteFile(path, []byte("BenchmarkEncode/label=JSON/mb=1-8 10 100000000 ns/op\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	updates := make(chan []*backend.Series, 8)
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, func(s []*backend.Series) error {
			updates <- s
			return nil
		})
	}()

	next := func() []*backend.Series {
		select {
		case s := <-updates:
			return s
		case <-ctx.Done():
			t.Fatalf("timed out waiting for an update")
			return nil
		}
	}
	first := next()
	require.Len(t, first, 1)
	assert.Equal(t, []float64{1}, first[0].X)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("BenchmarkEncode/label=JSON/mb=10-8 1 ")
	require.NoError(t, err)
	_, err = f.WriteString("1000000000 ns/op\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	second := next()
	require.Len(t, second, 1)
	assert.Equal(t, []float64{1, 10}, second[0].X)

	cancel()
	assert.NoError(t, <-done)
}
