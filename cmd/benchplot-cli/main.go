// benchplot-cli renders the figures of a benchmark plan without opening a window.
//
// Usage:
//
//	benchplot-cli render [options]
//	benchplot-cli watch [options]
//	benchplot-cli report [options]
//	benchplot-cli list [options]
//
// See 'benchplot-cli <command> --help' for command-specific options.
package main

import (
	"fmt"
	"os"
)

const usage = `benchplot-cli - render serialization benchmark figures

Usage:
  benchplot-cli <command> [options]

Commands:
  render   Render every figure of the plan to files
  watch    Render, then render again whenever the data file changes
  report   Print the first point of every trace of a figure
  list     List the series of the data file

Examples:
  # Render the built-in figures from tmp/plot.json into ../img
  benchplot-cli render

  # Render one figure as an interactive page
  benchplot-cli render --only bench-full.svg --out site --format html

  # Relative encoded size at 10 MB
  benchplot-cli report --figure bench-size.svg

Run 'benchplot-cli <command> --help' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "render":
		err = runRender(args, os.Stdout)
	case "watch":
		err = runWatch(args, os.Stdout)
	case "report":
		err = runReport(args, os.Stdout)
	case "list":
		err = runList(args, os.Stdout)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
