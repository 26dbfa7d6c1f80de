package backend

import (
	"fmt"
	"sort"
)

// Well-known metric names recorded by the benchmark harness.
const (
	MetricEncodedTime = "encodedTime"
	MetricDecodedTime = "decodedTime"
	MetricEncodedSize = "encodedSize"
)

// Series represents one benchmark result set: the input sizes it was measured at
// and one sequence of measurements per metric, index-aligned with X.
type Series struct {
	// Key identifies the series within a dataset. Empty means Label.
	Key string
	// Label is the name shown in legends.
	Label string
	X     []float64
	Y     map[string][]float64
}

// ID returns the key the series is stored under in a dataset.
func (s *Series) ID() string {
	if s.Key != "" {
		return s.Key
	}
	return s.Label
}

// Metric returns the y-values recorded for the named metric.
func (s *Series) Metric(name string) ([]float64, error) {
	ys, ok := s.Y[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no metric %q", ErrUnknownMetric, s.ID(), name)
	}
	return ys, nil
}

// Metrics returns the names of the metrics in the series in sorted order.
func (s *Series) Metrics() []string {
	names := make([]string, 0, len(s.Y))
	for name := range s.Y {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Window is the half-open index range [Start,Stop) selecting the in-bounds portion
// of a series.
type Window struct {
	Start, Stop int
}

// Len returns the number of indices covered by the window.
func (w Window) Len() int {
	return w.Stop - w.Start
}

// Slice applies the window to values. Sequences shorter than the window are
// clipped rather than indexed out of range.
func (w Window) Slice(values []float64) []float64 {
	start := min(w.Start, len(values))
	stop := min(w.Stop, len(values))
	if stop < start {
		stop = start
	}
	return values[start:stop]
}

// FindWindow returns the window of the ascending sequence xs that lies within
// [xMin,xMax]. Start is the first index whose value is at least xMin, or zero if
// there is no such index. Stop is the first index whose value exceeds xMax, so the
// last included index is the one before it. If no value exceeds xMax the window
// extends through the end of xs.
func FindWindow(xs []float64, xMin, xMax float64) Window {
	w := Window{Start: 0, Stop: len(xs)}
	for i, x := range xs {
		if x >= xMin {
			w.Start = i
			break
		}
	}
	for i, x := range xs {
		if x > xMax {
			w.Stop = i
			break
		}
	}
	if w.Stop < w.Start {
		w.Stop = w.Start
	}
	return w
}

// Ratios divides candidate by baseline elementwise. The result has the length of
// candidate. Any element without a corresponding baseline value, or whose baseline
// value is zero, is zero.
func Ratios(candidate, baseline []float64) []float64 {
	out := make([]float64, len(candidate))
	for i, v := range candidate {
		if i < len(baseline) && baseline[i] != 0 {
			out[i] = v / baseline[i]
		}
	}
	return out
}

// Windowed returns the x-values and the named metric's y-values of the series
// restricted to w.
func (s *Series) Windowed(metric string, w Window) (xs, ys []float64, err error) {
	values, err := s.Metric(metric)
	if err != nil {
		return nil, nil, err
	}
	xs = w.Slice(s.X)
	ys = w.Slice(values)
	// Keep the pair index-aligned when a metric was recorded for fewer sizes.
	n := min(len(xs), len(ys))
	return xs[:n], ys[:n], nil
}
