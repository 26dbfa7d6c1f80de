package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"git.sr.ht/~whereswaldon/benchplot/ingest"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: convert go benchmark output into a benchplot data file
Usage:

 go test -bench . -count 5 | %[1]s -o tmp/plot.json

OR

 %[1]s -o tmp/plot.json bench-old.txt bench-new.txt

OR, while the benchmarks are still running

 go test -bench . > bench.txt &
 %[1]s -follow -o tmp/plot.json bench.txt

Benchmarks must be named Benchmark<Encode|Decode>/label=<label>/mb=<size>.
Results are merged into the output file, replacing series with the same label.

`, os.Args[0])
	flag.PrintDefaults()
}

// merge replaces the series of the output file with the given ones and writes
// it back.
func merge(output string, series []*backend.Series) error {
	existing, err := backend.LoadOrEmpty(output)
	if err != nil {
		return err
	}
	if err := backend.Save(output, existing.Merge(series...)); err != nil {
		return err
	}
	for _, s := range series {
		log.Printf("%s: %d points, metrics %v", s.Label, len(s.X), s.Metrics())
	}
	return nil
}

func main() {
	flag.Usage = usage
	output := flag.String("o", "tmp/plot.json", "Data file to merge results into")
	follow := flag.Bool("follow", false, "Keep reading the input file as it grows")
	flag.Parse()
	inputs := flag.Args()

	if *follow {
		if len(inputs) != 1 || inputs[0] == "-" {
			log.Fatalf("-follow needs exactly one input file")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := ingest.Follow(ctx, inputs[0], func(series []*backend.Series) error {
			return merge(*output, series)
		})
		if err != nil {
			log.Fatalf("failed following %q: %v", inputs[0], err)
		}
		return
	}

	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	c := ingest.NewCollector()
	n, err := c.ReadFiles(inputs...)
	if err != nil {
		log.Fatalf("failed reading benchmark results: %v", err)
	}
	if n == 0 {
		log.Fatalf("no benchmark results named Benchmark<Encode|Decode>/label=<label>/mb=<size> found")
	}
	log.Printf("read %d results (%d measurements)", n, c.Samples())
	if err := merge(*output, c.Series()); err != nil {
		log.Fatalf("failed writing %q: %v", *output, err)
	}
}
