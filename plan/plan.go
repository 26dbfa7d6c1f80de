// Package plan describes which figures to draw from a benchmark data file.
//
// A plan is a YAML document holding defaults for every figure (input file,
// output directory, x-axis bounds, baseline series) and a list of figures that
// may override them. Resolving a plan yields one job per figure, each carrying
// its own immutable options.
package plan

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultPlan []byte

// Plan is the decoded plan document. Its fields are defaults for every figure.
type Plan struct {
	Input     string       `yaml:"input"`
	OutputDir string       `yaml:"outputDir"`
	XLabel    string       `yaml:"xLabel"`
	XMin      *float64     `yaml:"xMin"`
	XMax      *float64     `yaml:"xMax"`
	Baseline  string       `yaml:"baseline"`
	Labels    []string     `yaml:"labels"`
	Figures   []FigureSpec `yaml:"figures"`
}

// FigureSpec describes one figure. Set fields override the plan defaults.
type FigureSpec struct {
	Name     string      `yaml:"name"`
	Layout   string      `yaml:"layout"`
	Labels   []string    `yaml:"labels"`
	XLabel   string      `yaml:"xLabel"`
	XMin     *float64    `yaml:"xMin"`
	XMax     *float64    `yaml:"xMax"`
	Baseline string      `yaml:"baseline"`
	Panels   []PanelSpec `yaml:"panels"`
}

// PanelSpec lists a panel explicitly instead of using a built-in layout.
type PanelSpec struct {
	Metric   string `yaml:"metric"`
	Baseline string `yaml:"baseline"`
	YLabel   string `yaml:"yLabel"`
	LogY     bool   `yaml:"logY"`
}

// Job is a fully resolved figure ready to be assembled and rendered.
type Job struct {
	Figure  backend.Figure
	Options backend.Options
	// Output is the path the figure is written to.
	Output string
}

// Parse decodes a plan document. Unknown fields are rejected so that typos in
// option names do not go unnoticed.
func Parse(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("plan is empty")
		}
		return nil, fmt.Errorf("failed decoding plan: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads the plan at path.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Default returns the built-in plan.
func Default() *Plan {
	p, err := Parse(defaultPlan)
	if err != nil {
		panic(fmt.Errorf("built-in plan is invalid: %w", err))
	}
	return p
}

func (p *Plan) validate() error {
	if len(p.Figures) == 0 {
		return errors.New("plan has no figures")
	}
	seen := make(map[string]bool, len(p.Figures))
	for i, f := range p.Figures {
		if f.Name == "" {
			return fmt.Errorf("figure %d has no name", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("figure %q is listed more than once", f.Name)
		}
		seen[f.Name] = true
		for j, panel := range f.Panels {
			if panel.Metric == "" {
				return fmt.Errorf("figure %q panel %d has no metric", f.Name, j)
			}
		}
	}
	return nil
}

func pick[T comparable](override, fallback T) T {
	var zero T
	if override != zero {
		return override
	}
	return fallback
}

func bound(override, fallback *float64, inf float64) float64 {
	switch {
	case override != nil:
		return *override
	case fallback != nil:
		return *fallback
	default:
		return inf
	}
}

func (p *Plan) resolve(f FigureSpec) (Job, error) {
	opts := backend.Options{
		XMin:   bound(f.XMin, p.XMin, math.Inf(-1)),
		XMax:   bound(f.XMax, p.XMax, math.Inf(1)),
		XLabel: pick(f.XLabel, pick(p.XLabel, backend.DefaultOptions().XLabel)),
		Labels: f.Labels,
	}
	if len(opts.Labels) == 0 {
		opts.Labels = p.Labels
	}
	baseline := pick(f.Baseline, p.Baseline)
	var panels []backend.Panel
	if len(f.Panels) > 0 {
		for _, ps := range f.Panels {
			panels = append(panels, backend.Panel{
				Metric:   ps.Metric,
				Baseline: ps.Baseline,
				YLabel:   ps.YLabel,
				LogY:     ps.LogY,
			})
		}
	} else {
		if baseline == "" {
			return Job{}, fmt.Errorf("figure %q: layouts need a baseline series", f.Name)
		}
		var err error
		panels, err = backend.Layout(pick(f.Layout, string(backend.LayoutFull))).Panels(baseline)
		if err != nil {
			return Job{}, fmt.Errorf("figure %q: %w", f.Name, err)
		}
	}
	return Job{
		Figure:  backend.Figure{Name: f.Name, Panels: panels},
		Options: opts,
		Output:  filepath.Join(p.OutputDir, f.Name),
	}, nil
}

// Jobs resolves every figure of the plan in order.
func (p *Plan) Jobs() ([]Job, error) {
	jobs := make([]Job, 0, len(p.Figures))
	for _, f := range p.Figures {
		job, err := p.resolve(f)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Job resolves the figure with the given name.
func (p *Plan) Job(name string) (Job, error) {
	for _, f := range p.Figures {
		if f.Name == name {
			return p.resolve(f)
		}
	}
	return Job{}, fmt.Errorf("plan has no figure %q", name)
}
