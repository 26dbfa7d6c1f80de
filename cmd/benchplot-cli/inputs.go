package main

import (
	"flag"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"git.sr.ht/~whereswaldon/benchplot/plan"
)

// inputFlags are the flags shared by every command.
type inputFlags struct {
	plan string
	data string
}

func (in *inputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&in.plan, "plan", "", "plan file (default: built-in plan)")
	fs.StringVar(&in.data, "data", "", "data file (default: the plan's input)")
}

func (in *inputFlags) loadPlan() (*plan.Plan, error) {
	if in.plan == "" {
		return plan.Default(), nil
	}
	return plan.Load(in.plan)
}

// dataPath returns the data file named on the command line, falling back to the
// plan's input.
func (in *inputFlags) dataPath(p *plan.Plan) string {
	if in.data != "" {
		return in.data
	}
	return p.Input
}

func (in *inputFlags) load() (*plan.Plan, *backend.Dataset, error) {
	p, err := in.loadPlan()
	if err != nil {
		return nil, nil, err
	}
	ds, err := backend.Load(in.dataPath(p))
	if err != nil {
		return nil, nil, err
	}
	return p, ds, nil
}
