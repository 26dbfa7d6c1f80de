package main

import (
	"math"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/plot"
)

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

// log10 is math.Log10 with exact powers of ten mapped to whole exponents.
func log10(v float64) float64 {
	e := math.Log10(v)
	if r := math.Round(e); math.Abs(e-r) < 1e-9 {
		return r
	}
	return e
}

// scale maps data values of one panel axis onto the unit interval using the
// same normalizers and tick markers as the image renderer.
type scale struct {
	min, max float64
	log      bool
}

// newScale returns a scale covering values. Logarithmic scales ignore
// non-positive values. A scale without usable values spans [1, 10] when
// logarithmic and [0, 1] otherwise; a single value is padded on both sides.
func newScale(log bool, values ...[]float64) scale {
	s := scale{min: math.Inf(1), max: math.Inf(-1), log: log}
	for _, vs := range values {
		for _, v := range vs {
			if log && v <= 0 {
				continue
			}
			s.min = min(s.min, v)
			s.max = max(s.max, v)
		}
	}
	switch {
	case s.min > s.max:
		if log {
			s.min, s.max = 1, 10
		} else {
			s.min, s.max = 0, 1
		}
	case s.min == s.max:
		if log {
			s.min, s.max = s.min/2, s.max*2
		} else {
			s.min, s.max = s.min-1, s.max+1
		}
	}
	if log {
		// Snap to whole decades so that grid lines land on the edges.
		s.min = math.Pow(10, floor(log10(s.min)))
		s.max = math.Pow(10, ceil(log10(s.max)))
	}
	return s
}

func (s scale) normalizer() plot.Normalizer {
	if s.log {
		return plot.LogScale{}
	}
	return plot.LinearScale{}
}

func (s scale) ticker() plot.Ticker {
	if s.log {
		return plot.LogTicks{Prec: -1}
	}
	return plot.DefaultTicks{}
}

// norm returns the position of v within the scale, 0 at min and 1 at max.
func (s scale) norm(v float64) float32 {
	return float32(s.normalizer().Normalize(s.min, s.max, v))
}

// value is the inverse of norm.
func (s scale) value(n float32) float64 {
	if s.log {
		lo, hi := math.Log10(s.min), math.Log10(s.max)
		return math.Pow(10, lo+float64(n)*(hi-lo))
	}
	return s.min + float64(n)*(s.max-s.min)
}

// ticks returns the labelled ticks within the scale: every decade of a
// logarithmic scale, or a handful of round numbers otherwise.
func (s scale) ticks() []plot.Tick {
	lo := s.min
	if s.log {
		// LogTicks starts at the decade of min truncated towards zero, which
		// misses the lowest decade below 1 when min is exactly a power of ten.
		lo /= 2
	}
	eps := 1e-9 * (s.max - s.min)
	var out []plot.Tick
	for _, t := range s.ticker().Ticks(lo, s.max) {
		if t.IsMinor() {
			continue
		}
		if t.Value < s.min-eps || t.Value > s.max+eps {
			continue
		}
		out = append(out, t)
	}
	return out
}
