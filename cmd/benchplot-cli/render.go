package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"git.sr.ht/~whereswaldon/benchplot/plan"
	"git.sr.ht/~whereswaldon/benchplot/render"
)

const renderUsage = `benchplot-cli render - render the figures of a plan

Usage:
  benchplot-cli render [options]

Options:
  --plan FILE     Plan file (default: built-in plan)
  --data FILE     Data file (default: the plan's input)
  --out DIR       Output directory (default: the plan's output directory)
  --only NAME     Render only the named figure
  --format EXT    Replace the extension of every output (e.g. png, html)
`

const watchUsage = `benchplot-cli watch - render the figures of a plan on every data change

Usage:
  benchplot-cli watch [options]

Options are the same as for render. Stop with Ctrl-C.
`

type renderFlags struct {
	inputFlags
	out    string
	only   string
	format string
}

func (r *renderFlags) register(fs *flag.FlagSet) {
	r.inputFlags.register(fs)
	fs.StringVar(&r.out, "out", "", "output directory")
	fs.StringVar(&r.only, "only", "", "render only the named figure")
	fs.StringVar(&r.format, "format", "", "output format")
}

// jobs resolves the figures to render and rewrites their output paths.
func (r *renderFlags) jobs(p *plan.Plan) ([]plan.Job, error) {
	var jobs []plan.Job
	if r.only != "" {
		job, err := p.Job(r.only)
		if err != nil {
			return nil, err
		}
		jobs = []plan.Job{job}
	} else {
		var err error
		jobs, err = p.Jobs()
		if err != nil {
			return nil, err
		}
	}
	for i := range jobs {
		if r.out != "" {
			jobs[i].Output = filepath.Join(r.out, filepath.Base(jobs[i].Output))
		}
		if r.format != "" {
			ext := filepath.Ext(jobs[i].Output)
			jobs[i].Output = strings.TrimSuffix(jobs[i].Output, ext) + "." + strings.TrimPrefix(r.format, ".")
		}
	}
	return jobs, nil
}

// renderJobs writes every job. A failing figure does not stop the others; the
// failures are returned together.
func renderJobs(ds *backend.Dataset, jobs []plan.Job, stdout io.Writer) error {
	var errs []error
	for _, job := range jobs {
		panels, err := backend.Assemble(ds, job.Figure, job.Options)
		if err == nil {
			err = render.File(job.Output, job.Figure.Name, panels, job.Options)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Output, err))
			continue
		}
		fmt.Fprintf(stdout, "wrote %s\n", job.Output)
	}
	return errors.Join(errs...)
}

func parseRender(name, usage string, args []string) (*renderFlags, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	var r renderFlags
	r.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return &r, nil
}

func runRender(args []string, stdout io.Writer) error {
	r, err := parseRender("render", renderUsage, args)
	if err != nil {
		return err
	}
	p, ds, err := r.load()
	if err != nil {
		return err
	}
	jobs, err := r.jobs(p)
	if err != nil {
		return err
	}
	return renderJobs(ds, jobs, stdout)
}

func runWatch(args []string, stdout io.Writer) error {
	r, err := parseRender("watch", watchUsage, args)
	if err != nil {
		return err
	}
	p, err := r.loadPlan()
	if err != nil {
		return err
	}
	jobs, err := r.jobs(p)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watch(ctx, backend.NewSource(r.dataPath(p)), jobs, stdout)
}

// watch renders jobs from every snapshot of src until ctx is done. Load and
// render failures are logged and the previous outputs are left in place.
func watch(ctx context.Context, src *backend.Source, jobs []plan.Job, stdout io.Writer) error {
	log.Printf("watching %s", src.Path())
	for snap := range src.Stream(ctx) {
		if snap.Err != nil {
			log.Printf("failed loading %s: %v", snap.Path, snap.Err)
			continue
		}
		if err := renderJobs(snap.Data, jobs, stdout); err != nil {
			log.Printf("render failed: %v", err)
		}
	}
	return nil
}
