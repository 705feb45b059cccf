// Package signal implements spec.md §4.6's Signal Engine: topic, narrative,
// and entity signals computed by comparing a current 30-day window to the
// prior 30-day window and by inspecting per-article peer structure. The
// formulas here are grounded directly in original_source/
// orchestra_signals_engine.py, which spec.md §4.6 distills; where that
// prototype's code diverges from spec.md's explicit text, spec.md wins.
package signal

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean of vals and true, or (0, false) if vals
// is empty — mirroring _mean_safe's NaN-on-empty behavior as an explicit ok
// flag instead of a sentinel float.
func mean(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), true
}

// stddev is the population standard deviation (ddof=0), matching
// _std_safe. Returns 0 for an empty input.
func stddev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m, _ := mean(vals)
	var sq float64
	for _, v := range vals {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)))
}

// percentile uses linear interpolation between closest ranks, matching
// numpy.percentile's default. sorted must already be ascending.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// iqr is the interquartile range (Q3-Q1), matching _iqr_safe.
func iqr(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return percentile(sorted, 75) - percentile(sorted, 25)
}

// median matches the median used by the Echo (tight) computation.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return percentile(sorted, 50)
}
