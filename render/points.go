package render

import (
	"log"
	"math"

	"git.sr.ht/~whereswaldon/benchplot/backend"
)

// Points returns the points of t that can be placed on a panel. The x axis is
// always logarithmic, so non-positive x values are dropped, as are non-positive
// y values on a logarithmic y axis. Non-finite values are always dropped. The
// number of dropped points is returned alongside.
func Points(t backend.Trace, logY bool) (xs, ys []float64, dropped int) {
	n := min(len(t.X), len(t.Y))
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x, y := t.X[i], t.Y[i]
		if !finite(x) || !finite(y) || x <= 0 || (logY && y <= 0) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, n - len(xs)
}

// drawable is Points, logging what was dropped.
func drawable(t backend.Trace, metric string, logY bool) (xs, ys []float64) {
	xs, ys, dropped := Points(t, logY)
	if dropped > 0 {
		log.Printf("%s, %s: skipped %d of %d points outside the axis domain", t.Label, metric, dropped, dropped+len(xs))
	}
	return xs, ys
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
