// Package render writes assembled figures to image and HTML files.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	figureWidth = 10 * vg.Inch
	panelHeight = 2.125 * vg.Inch
)

// ErrNoPanels is returned when asked to render a figure without panels.
var ErrNoPanels = errors.New("figure has no panels")

// Formats lists the file extensions File accepts.
var Formats = []string{"svg", "png", "pdf", "eps", "jpg", "jpeg", "tif", "tiff", "html"}

// panelPlot builds the plot of a single panel. The legend is only drawn when
// legend is set, so that stacked panels show it once.
func panelPlot(panel backend.PanelTraces, xLabel string, legend bool) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = panel.Title()
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	if panel.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = vg.Millimeter

	colors := Colors(len(panel.Traces))
	for i, t := range panel.Traces {
		xs, ys := drawable(t, panel.Metric, panel.LogY)
		xys := make(plotter.XYs, len(xs))
		for j := range xs {
			xys[j].X, xys[j].Y = xs[j], ys[j]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Label, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1.5)
		if len(xys) > 0 {
			p.Add(line)
		}
		if legend {
			p.Legend.Add(t.Label, line)
		}
	}
	fixLogRange(&p.X)
	if panel.LogY {
		fixLogRange(&p.Y)
	}
	return p, nil
}

// fixLogRange makes sure a logarithmic axis spans a positive, non-empty range
// even when the panel holds fewer than two distinct values.
func fixLogRange(a *plot.Axis) {
	switch {
	case a.Min > a.Max || math.IsInf(a.Min, 0) || math.IsInf(a.Max, 0):
		a.Min, a.Max = 1, 10
	case a.Min == a.Max:
		a.Min, a.Max = a.Min/2, a.Max*2
	}
}

// Image draws the panels stacked vertically and writes them to w in the given
// format (any format gonum/plot supports, such as "svg" or "png").
func Image(w io.Writer, panels []backend.PanelTraces, opts backend.Options, format string) error {
	if len(panels) == 0 {
		return ErrNoPanels
	}
	plots := make([][]*plot.Plot, len(panels))
	for i, panel := range panels {
		p, err := panelPlot(panel, opts.XLabel, i == 0)
		if err != nil {
			return fmt.Errorf("panel %d (%s): %w", i, panel.Title(), err)
		}
		plots[i] = []*plot.Plot{p}
	}

	c, err := draw.NewFormattedCanvas(figureWidth, panelHeight*vg.Length(len(panels)), format)
	if err != nil {
		return err
	}
	tiles := draw.Tiles{
		Rows:      len(panels),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      2 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed writing %s image: %w", format, err)
	}
	return nil
}

// FormatOf returns the output format implied by the extension of path.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range Formats {
		if f == ext {
			return ext, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q for %s", ext, path)
}

// File renders the panels to path, choosing the renderer from the file
// extension. Parent directories are created as needed.
func File(path, title string, panels []backend.PanelTraces, opts backend.Options) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if format == "html" {
		return HTML(f, title, panels, opts)
	}
	return Image(f, panels, opts, format)
}
