package backend

import (
	"fmt"
	"log"
	"math"
)

// Options is the configuration for assembling one figure. It is passed by value
// into every call; nothing about a figure depends on previously rendered figures.
type Options struct {
	// XMin and XMax bound the window of every series.
	XMin, XMax float64
	// Labels lists the dataset keys of the series to include in order. Empty
	// means every series in dataset order.
	Labels []string
	// XLabel is the human readable name of the x axis.
	XLabel string
}

// DefaultOptions returns options that include every point of every series.
func DefaultOptions() Options {
	return Options{
		XMin:   math.Inf(-1),
		XMax:   math.Inf(1),
		XLabel: "JSON size (MB)",
	}
}

// Panel describes one subplot of a figure.
type Panel struct {
	Metric string
	// Baseline names the series every other series is divided by. Empty means
	// absolute values are plotted.
	Baseline string
	YLabel   string
	LogY     bool
}

// Title returns the y-axis label of the panel, defaulting to the metric name.
func (p Panel) Title() string {
	if p.YLabel != "" {
		return p.YLabel
	}
	return p.Metric
}

// Figure is a named, ordered set of panels rendered into one output.
type Figure struct {
	Name   string
	Panels []Panel
}

// Layout names a built-in arrangement of panels.
type Layout string

const (
	// LayoutFull shows absolute and relative encode and decode times.
	LayoutFull Layout = "full"
	// LayoutRatio shows only encode and decode times relative to the baseline.
	LayoutRatio Layout = "ratio"
	// LayoutSize shows the encoded size relative to the baseline.
	LayoutSize Layout = "size"
)

// Panels returns the panels of a built-in layout normalized against baseline.
func (l Layout) Panels(baseline string) ([]Panel, error) {
	switch l {
	case LayoutFull:
		return []Panel{
			{Metric: MetricEncodedTime, YLabel: "Encode time (s)", LogY: true},
			{Metric: MetricEncodedTime, Baseline: baseline, YLabel: "Encode time (ratio)"},
			{Metric: MetricDecodedTime, YLabel: "Decode time (s)", LogY: true},
			{Metric: MetricDecodedTime, Baseline: baseline, YLabel: "Decode time (ratio)"},
		}, nil
	case LayoutRatio:
		return []Panel{
			{Metric: MetricEncodedTime, Baseline: baseline, YLabel: "Encode time (ratio)"},
			{Metric: MetricDecodedTime, Baseline: baseline, YLabel: "Decode time (ratio)"},
		}, nil
	case LayoutSize:
		return []Panel{
			{Metric: MetricEncodedSize, Baseline: baseline, YLabel: "Encoded size", LogY: true},
		}, nil
	default:
		return nil, fmt.Errorf("unknown layout %q", string(l))
	}
}

// Trace is one line of a panel. Key is the dataset key of the series it was
// computed from, Label its display name.
type Trace struct {
	Key   string
	Label string
	X, Y  []float64
}

// PanelTraces pairs a panel with the traces assembled for it.
type PanelTraces struct {
	Panel
	Traces []Trace
}

// AssemblePanel computes the traces of a single panel.
func AssemblePanel(ds *Dataset, panel Panel, opts Options) ([]Trace, error) {
	var baseline *Series
	if panel.Baseline != "" {
		var err error
		baseline, err = ds.Lookup(panel.Baseline)
		if err != nil {
			return nil, fmt.Errorf("baseline: %w", err)
		}
	}
	series, err := ds.Select(opts.Labels)
	if err != nil {
		return nil, err
	}
	traces := make([]Trace, 0, len(series))
	for _, s := range series {
		w := FindWindow(s.X, opts.XMin, opts.XMax)
		xs, ys, err := s.Windowed(panel.Metric, w)
		if err != nil {
			return nil, err
		}
		if baseline != nil {
			base, err := baseline.Metric(panel.Metric)
			if err != nil {
				return nil, fmt.Errorf("baseline: %w", err)
			}
			// The baseline is index-aligned with the candidate, so it shares
			// the candidate's window.
			ys = Ratios(ys, w.Slice(base))
		}
		if len(xs) > 0 {
			log.Printf("%s, %s, start x:%.2f, y:%.2f", s.Label, panel.Metric, xs[0], ys[0])
		}
		traces = append(traces, Trace{Key: s.ID(), Label: s.Label, X: xs, Y: ys})
	}
	return traces, nil
}

// Assemble computes the traces of every panel of fig. A lookup failure in any
// panel aborts the whole figure.
func Assemble(ds *Dataset, fig Figure, opts Options) ([]PanelTraces, error) {
	out := make([]PanelTraces, 0, len(fig.Panels))
	for _, panel := range fig.Panels {
		traces, err := AssemblePanel(ds, panel, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fig.Name, err)
		}
		out = append(out, PanelTraces{Panel: panel, Traces: traces})
	}
	return out, nil
}

// FirstPoint is the first windowed point of one trace.
type FirstPoint struct {
	Label  string
	Metric string
	X, Y   float64
	// Empty is set when the window of the series held no points.
	Empty bool
}

// Report lists the first windowed point of every trace of fig.
func Report(ds *Dataset, fig Figure, opts Options) ([]FirstPoint, error) {
	panels, err := Assemble(ds, fig, opts)
	if err != nil {
		return nil, err
	}
	var out []FirstPoint
	for _, p := range panels {
		for _, t := range p.Traces {
			fp := FirstPoint{Label: t.Label, Metric: p.Metric, Empty: len(t.X) == 0}
			if !fp.Empty {
				fp.X, fp.Y = t.X[0], t.Y[0]
			}
			out = append(out, fp)
		}
	}
	return out, nil
}
