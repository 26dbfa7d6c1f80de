// Command benchplot displays the figures of a plot plan in a window, redrawing
// them whenever the data file changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/x/explorer"
	"git.sr.ht/~whereswaldon/benchplot/plan"
)

func main() {
	planPath := flag.String("plan", "", "plan file (default: built-in plan)")
	dataPath := flag.String("data", "", "data file (default: the plan's input)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-plan file] [-data file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	p := plan.Default()
	if *planPath != "" {
		var err error
		if p, err = plan.Load(*planPath); err != nil {
			log.Fatalf("failed loading plan: %v", err)
		}
	}
	jobs, err := p.Jobs()
	if err != nil {
		log.Fatalf("failed resolving plan: %v", err)
	}
	data := p.Input
	if *dataPath != "" {
		data = *dataPath
	}
	bundle := NewBundle(data)

	go func() {
		w := app.NewWindow(app.Title("benchplot"))
		if err := loop(w, bundle, jobs); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, bundle Bundle, jobs []plan.Job) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	expl := explorer.NewExplorer(w)
	ws := NewWindowState(ctx, bundle, w)
	ui := NewUI(ws, expl, jobs, w.Invalidate)
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
