package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"git.sr.ht/~whereswaldon/benchplot/backend"
)

const reportUsage = `benchplot-cli report - print the first point of every trace of a figure

Usage:
  benchplot-cli report [options]

Options:
  --plan FILE     Plan file (default: built-in plan)
  --data FILE     Data file (default: the plan's input)
  --figure NAME   Figure to report on (default: bench-size.svg)
`

const listUsage = `benchplot-cli list - list the series of a data file

Usage:
  benchplot-cli list [options]

Options:
  --plan FILE     Plan file (default: built-in plan)
  --data FILE     Data file (default: the plan's input)
`

func runReport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, reportUsage) }
	var in inputFlags
	in.register(fs)
	figure := fs.String("figure", "bench-size.svg", "figure to report on")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	p, ds, err := in.load()
	if err != nil {
		return err
	}
	job, err := p.Job(*figure)
	if err != nil {
		return err
	}
	points, err := backend.Report(ds, job.Figure, job.Options)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "Label\tMetric\tX\tY\n")
	fmt.Fprint(w, "-----\t------\t-\t-\n")
	for _, pt := range points {
		if pt.Empty {
			fmt.Fprintf(w, "%s\t%s\t-\t-\n", pt.Label, pt.Metric)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\n", pt.Label, pt.Metric, pt.X, pt.Y)
	}
	return w.Flush()
}

func runList(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, listUsage) }
	var in inputFlags
	in.register(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	_, ds, err := in.load()
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		return errors.New("data file holds no series")
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "Label\tPoints\tX range\tMetrics\n")
	fmt.Fprint(w, "-----\t------\t-------\t-------\n")
	for _, label := range ds.Labels() {
		s, err := ds.Lookup(label)
		if err != nil {
			return err
		}
		xRange := "-"
		if len(s.X) > 0 {
			xRange = fmt.Sprintf("%g..%g", slices.Min(s.X), slices.Max(s.X))
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Label, len(s.X), xRange, strings.Join(s.Metrics(), ", "))
	}
	return w.Flush()
}
