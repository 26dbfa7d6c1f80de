package render

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPanels() []backend.PanelTraces {
	return []backend.PanelTraces{
		{
			Panel: backend.Panel{Metric: backend.MetricEncodedTime, YLabel: "Encode time (s)", LogY: true},
			Traces: []backend.Trace{
				{Label: "JSON", X: []float64{1, 5, 10}, Y: []float64{0.1, 0.2, 0.4}},
				{Label: "PROTOBUF JS", X: []float64{1, 5, 10}, Y: []float64{0.2, 0, 0.8}},
			},
		},
		{
			Panel: backend.Panel{Metric: backend.MetricEncodedTime, Baseline: "JSON", YLabel: "Encode time (ratio)"},
			Traces: []backend.Trace{
				{Label: "JSON", X: []float64{1, 5, 10}, Y: []float64{1, 1, 1}},
				{Label: "PROTOBUF JS", X: []float64{1, 5, 10}, Y: []float64{2, 0, 2}},
			},
		},
	}
}

func TestDrawable(t *testing.T) {
	trace := backend.Trace{
		Label: "JSON",
		X:     []float64{0, 1, 2, 3, 4, 5},
		Y:     []float64{1, 0, -1, math.NaN(), 2, 3},
	}
	xs, ys := drawable(trace, backend.MetricEncodedTime, true)
	assert.Equal(t, []float64{4, 5}, xs)
	assert.Equal(t, []float64{2, 3}, ys)

	_, _, dropped := Points(trace, true)
	assert.Equal(t, 4, dropped)

	xs, ys = drawable(trace, backend.MetricEncodedTime, false)
	assert.Equal(t, []float64{1, 2, 4, 5}, xs)
	assert.Equal(t, []float64{0, -1, 2, 3}, ys)

	xs, ys = drawable(backend.Trace{X: []float64{1, 2}, Y: []float64{1}}, backend.MetricEncodedTime, false)
	assert.Equal(t, []float64{1}, xs)
	assert.Equal(t, []float64{1}, ys)
}

func TestColors(t *testing.T) {
	assert.Nil(t, Colors(0))
	assert.Len(t, Colors(1), 1)
	assert.Len(t, Colors(8), 8)
	many := Colors(20)
	require.Len(t, many, 20)
	for i, c := range many {
		assert.NotNil(t, c, "color %d", i)
	}
	nrgba := NRGBA(3)
	require.Len(t, nrgba, 3)
	assert.Equal(t, uint8(0xff), nrgba[0].A)
	assert.NotEqual(t, nrgba[0], nrgba[1])
}

func TestImageSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Image(&buf, testPanels(), backend.DefaultOptions(), "svg"))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "PROTOBUF JS")
	assert.Contains(t, out, "Encode time (ratio)")
}

func TestImagePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Image(&buf, testPanels(), backend.DefaultOptions(), "png"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestImageWithoutDrawablePoints(t *testing.T) {
	panels := []backend.PanelTraces{{
		Panel:  backend.Panel{Metric: backend.MetricEncodedSize, LogY: true},
		Traces: []backend.Trace{{Label: "JSON"}, {Label: "BSON", X: []float64{10}, Y: []float64{3}}},
	}}
	var buf bytes.Buffer
	assert.NoError(t, Image(&buf, panels, backend.DefaultOptions(), "svg"))
}

func TestImageErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Image(&buf, nil, backend.DefaultOptions(), "svg"), ErrNoPanels)
	assert.Error(t, Image(&buf, testPanels(), backend.DefaultOptions(), "bmp"))
	assert.ErrorIs(t, HTML(&buf, "empty", nil, backend.DefaultOptions()), ErrNoPanels)
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, "bench-full.html", testPanels(), backend.DefaultOptions()))
	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "bench-full.html")
	assert.Contains(t, out, "PROTOBUF JS")
}

func TestFormatOf(t *testing.T) {
	for path, expected := range map[string]string{
		"img/bench-full.svg": "svg",
		"out/FIG.PNG":        "png",
		"page.html":          "html",
	} {
		got, err := FormatOf(path)
		assert.NoError(t, err, path)
		assert.Equal(t, expected, got, path)
	}
	_, err := FormatOf("bench-full")
	assert.Error(t, err)
	_, err = FormatOf("bench.gif")
	assert.ErrorContains(t, err, "gif")
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bench-full.svg", "nested/bench-full.html"} {
		path := filepath.Join(dir, name)
		require.NoError(t, File(path, name, testPanels(), backend.DefaultOptions()))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), name)
	}
	assert.Error(t, File(filepath.Join(dir, "bench.gif"), "bench", testPanels(), backend.DefaultOptions()))
}
