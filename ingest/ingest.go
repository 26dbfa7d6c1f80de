// Package ingest converts Go benchmark output into benchmark series.
//
// Benchmarks are expected to be named
//
//	Benchmark<Op>/label=<label>/mb=<size>
//
// where Op is Encode or Decode, label names the serialization format and size
// is the input size in megabytes. Since benchmark names cannot hold spaces,
// underscores in the label are turned back into spaces. Encode contributes the
// time per operation as encodedTime and the custom unit "encoded-MB" as
// encodedSize; Decode contributes the time per operation as decodedTime.
// Repeated runs of the same benchmark are summarized by their median.
package ingest

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"golang.org/x/perf/benchfmt"
	"golang.org/x/perf/benchmath"
)

const (
	OpEncode = "Encode"
	OpDecode = "Decode"

	// UnitEncodedSize is the custom benchmark unit reporting the encoded size.
	UnitEncodedSize = "encoded-MB"
)

// ErrNotApplicable is returned for results that do not follow the benchmark
// naming convention.
var ErrNotApplicable = errors.New("benchmark does not follow the Op/label=/mb= naming")

// Point identifies the benchmark a result belongs to.
type Point struct {
	Op    string
	Label string
	MB    float64
}

// ParseName extracts the operation, label and size from a benchmark name.
func ParseName(name benchfmt.Name) (Point, error) {
	base, parts := name.Parts()
	p := Point{Op: strings.TrimPrefix(string(base), "Benchmark")}
	if p.Op != OpEncode && p.Op != OpDecode {
		return Point{}, fmt.Errorf("%w: unknown operation %q", ErrNotApplicable, p.Op)
	}
	var haveLabel, haveSize bool
	for _, part := range parts {
		// Parts keep their separator; "-N" is the GOMAXPROCS suffix.
		if len(part) == 0 || part[0] != '/' {
			continue
		}
		key, value, ok := strings.Cut(string(part[1:]), "=")
		if !ok {
			continue
		}
		switch key {
		case "label":
			p.Label = strings.ReplaceAll(value, "_", " ")
			haveLabel = p.Label != ""
		case "mb":
			mb, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Point{}, fmt.Errorf("%w: bad size %q: %v", ErrNotApplicable, value, err)
			}
			p.MB = mb
			haveSize = true
		}
	}
	if !haveLabel || !haveSize {
		return Point{}, fmt.Errorf("%w: %s", ErrNotApplicable, name)
	}
	return p, nil
}

// seconds returns the time per operation of res. The reader normalizes ns/op to
// sec/op, but results built by hand may still carry the original unit.
func seconds(res *benchfmt.Result) (float64, bool) {
	if v, ok := res.Value("sec/op"); ok {
		return v, true
	}
	if v, ok := res.Value("ns/op"); ok {
		return v * 1e-9, true
	}
	return 0, false
}

func encodedSize(res *benchfmt.Result) (float64, bool) {
	for _, v := range res.Values {
		if v.Unit == UnitEncodedSize {
			return v.Value, true
		}
		if v.OrigUnit == UnitEncodedSize {
			return v.OrigValue, true
		}
	}
	return 0, false
}

// Collector accumulates benchmark results and summarizes them as series.
type Collector struct {
	// samples holds label -> metric -> size -> measured values.
	samples map[string]map[string]map[float64][]float64
	// order lists labels in the order they were first seen.
	order []string
	added int
}

func NewCollector() *Collector {
	return &Collector{
		samples: make(map[string]map[string]map[float64][]float64),
	}
}

func (c *Collector) sample(label, metric string, mb, value float64) {
	byMetric, ok := c.samples[label]
	if !ok {
		byMetric = make(map[string]map[float64][]float64)
		c.samples[label] = byMetric
		c.order = append(c.order, label)
	}
	bySize, ok := byMetric[metric]
	if !ok {
		bySize = make(map[float64][]float64)
		byMetric[metric] = bySize
	}
	bySize[mb] = append(bySize[mb], value)
	c.added++
}

// Add records the measurements of one result.
func (c *Collector) Add(res *benchfmt.Result) error {
	p, err := ParseName(res.Name)
	if err != nil {
		return err
	}
	secs, ok := seconds(res)
	if !ok {
		return fmt.Errorf("%s: no time per operation", res.Name)
	}
	switch p.Op {
	case OpEncode:
		c.sample(p.Label, backend.MetricEncodedTime, p.MB, secs)
		if size, ok := encodedSize(res); ok {
			c.sample(p.Label, backend.MetricEncodedSize, p.MB, size)
		}
	case OpDecode:
		c.sample(p.Label, backend.MetricDecodedTime, p.MB, secs)
	}
	return nil
}

// Samples returns the number of measurements recorded so far.
func (c *Collector) Samples() int {
	return c.added
}

// record adds rec if it is a usable result. Syntax errors and results that do
// not follow the naming convention are logged and skipped.
func (c *Collector) record(rec benchfmt.Record) bool {
	switch rec := rec.(type) {
	case *benchfmt.Result:
		if err := c.Add(rec); err != nil {
			if !errors.Is(err, ErrNotApplicable) {
				log.Printf("skipping result: %v", err)
			}
			return false
		}
		return true
	case *benchfmt.SyntaxError:
		log.Printf("skipping line: %v", rec)
	}
	return false
}

// Read adds every result r yields until it is exhausted and returns the number
// of results added.
func (c *Collector) Read(r *benchfmt.Reader) (int, error) {
	n := 0
	for r.Scan() {
		if c.record(r.Result()) {
			n++
		}
	}
	return n, r.Err()
}

// ReadFiles adds every result of the named files. A path of "-" reads standard
// input.
func (c *Collector) ReadFiles(paths ...string) (int, error) {
	files := &benchfmt.Files{
		Paths:      paths,
		AllowStdin: true,
	}
	n := 0
	for files.Scan() {
		if c.record(files.Result()) {
			n++
		}
	}
	return n, files.Err()
}

// Series summarizes the collected samples. Every series covers the union of the
// sizes measured for any of its metrics, sorted ascending; a metric that was not
// measured at a size holds 0 there.
func (c *Collector) Series() []*backend.Series {
	out := make([]*backend.Series, 0, len(c.order))
	for _, label := range c.order {
		byMetric := c.samples[label]
		var xs []float64
		for _, bySize := range byMetric {
			for mb := range bySize {
				xs = append(xs, mb)
			}
		}
		slices.Sort(xs)
		xs = slices.Compact(xs)

		s := &backend.Series{Label: label, X: xs, Y: make(map[string][]float64, len(byMetric))}
		for metric, bySize := range byMetric {
			ys := make([]float64, len(xs))
			for i, mb := range xs {
				values, ok := bySize[mb]
				if !ok {
					log.Printf("%s, %s: no measurement at %v MB", label, metric, mb)
					continue
				}
				ys[i] = Median(values)
			}
			s.Y[metric] = ys
		}
		out = append(out, s)
	}
	return out
}

// Median summarizes repeated measurements of one benchmark.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sample := benchmath.NewSample(values, &benchmath.DefaultThresholds)
	return benchmath.AssumeNothing.Summary(sample, 0.95).Center
}
