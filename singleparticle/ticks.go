package main

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks places labelled ticks on round values, with unlabelled minor
// ticks in between. A degenerate range gets a single tick.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	if t.NSuggestedTicks < 2 {
		t.NSuggestedTicks = 4
	}
	if !(max > min) || math.IsInf(max-min, 0) {
		return []plot.Tick{{Value: min, Label: formatTick(min)}}
	}

	major, mult := majorStep(max-min, t.NSuggestedTicks)
	var ticks []plot.Tick
	for _, v := range steps(min, max, major) {
		v = roundTo(v, -int(math.Floor(math.Log10(major))))
		ticks = append(ticks, plot.Tick{Value: v, Label: formatTick(v)})
	}

	for _, v := range steps(min, max, minorStep(major, mult)) {
		if !hasTick(ticks, v, major) {
			ticks = append(ticks, plot.Tick{Value: v})
		}
	}
	return ticks
}

// majorStep returns a step of the form mult*10^k giving about n ticks
// over span.
func majorStep(span float64, n int) (step float64, mult int) {
	tens := math.Pow10(int(math.Floor(math.Log10(span))))
	for span/tens < float64(n)-1 {
		tens /= 10
	}
	mult = int(span / tens / float64(n-1))
	switch {
	case mult < 1:
		mult = 1
	case mult == 7:
		mult = 6
	case mult == 9:
		mult = 8
	}
	return float64(mult) * tens, mult
}

func minorStep(major float64, mult int) float64 {
	switch mult {
	case 3, 6:
		return major / 3
	case 5:
		return major / 5
	}
	return major / 2
}

// steps returns the multiples of step within [min, max], up to rounding.
func steps(min, max, step float64) []float64 {
	const eps = 1e-9
	var vs []float64
	for i := math.Ceil(min/step - eps); i*step <= max+eps*step; i++ {
		vs = append(vs, i*step)
	}
	return vs
}

func hasTick(ticks []plot.Tick, v, major float64) bool {
	for _, t := range ticks {
		if math.Abs(t.Value-v) < 1e-9*major {
			return true
		}
	}
	return false
}

func roundTo(x float64, prec int) float64 {
	if x == 0 {
		// no negative zero
		return 0
	}
	pow := math.Pow10(prec)
	if math.IsInf(x*pow, 0) {
		return x
	}
	x = math.Round(x*pow) / pow
	if x == 0 {
		return 0
	}
	return x
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
