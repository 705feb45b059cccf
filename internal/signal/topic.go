package signal

import (
	"github.com/yourorg/md-spec-tool/internal/config"
	"github.com/yourorg/md-spec-tool/internal/normalize"
)

// TopicSignals is the Signal Engine's overall-topic output: an article-level
// flag per row plus a fixed set of window-level tags broadcast to every row
// regardless of window membership (spec.md §4.6 — grounded in
// orchestra_signals_engine.py's compute_topic_signals).
type TopicSignals struct {
	Hot     []bool
	Window  []string
}

// ForRow returns the full signal list for row i: Hot first (if set), then
// the window-level tags, matching the prototype's append order.
func (ts TopicSignals) ForRow(i int) []string {
	var out []string
	if i < len(ts.Hot) && ts.Hot[i] {
		out = append(out, "Hot")
	}
	out = append(out, ts.Window...)
	return out
}

// ComputeTopicSignals evaluates the overall-topic signal family over rows,
// given the current/prior window row indices from internal/window.Split.
func ComputeTopicSignals(rows []normalize.RowFeatures, currentIdx, priorIdx []int) TopicSignals {
	ts := TopicSignals{Hot: make([]bool, len(rows))}
	for i, rf := range rows {
		if rf.Topic.Prominence >= 3.5 && rf.Topic.Sentiment >= 3.0 {
			ts.Hot[i] = true
		}
	}

	volCur, volPrior := len(currentIdx), len(priorIdx)
	if volPrior > 0 && float64(volCur) >= 1.30*float64(volPrior) {
		ts.Window = append(ts.Window, "Growing")
	}
	if volPrior > 0 && float64(volCur) <= 0.70*float64(volPrior) {
		ts.Window = append(ts.Window, "Fading")
	}

	avgLow, okLow := mean(tierFilteredTopicProms(rows, currentIdx, config.LowTier))
	avgMH, okMH := mean(tierFilteredTopicProms(rows, currentIdx, config.MidHighTier))
	if okLow && okMH && avgLow >= 2.5 && avgMH < 1.5 {
		ts.Window = append(ts.Window, "Trade-Locked")
	}

	curProms := topicProms(rows, currentIdx)
	curSents := topicSents(rows, currentIdx)
	if stddev(curProms) >= 1.0 || stddev(curSents) >= 1.5 {
		ts.Window = append(ts.Window, "Fragmented Framing")
	}

	shareNoNarr := shareNoNarrative(rows, currentIdx)
	shareLow := shareLowTier(rows, currentIdx)
	avgTopicProm, okAvg := mean(curProms)
	if okAvg && avgTopicProm >= 2.5 && shareNoNarr >= 0.30 && shareLow >= 0.60 {
		ts.Window = append(ts.Window, "Coverage Split")
	}

	return ts
}

func topicProms(rows []normalize.RowFeatures, idx []int) []float64 {
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, rows[i].Topic.Prominence)
	}
	return vals
}

func topicSents(rows []normalize.RowFeatures, idx []int) []float64 {
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, rows[i].Topic.Sentiment)
	}
	return vals
}

func tierFilteredTopicProms(rows []normalize.RowFeatures, idx []int, tiers map[int]bool) []float64 {
	var vals []float64
	for _, i := range idx {
		if tiers[rows[i].OutletTier] {
			vals = append(vals, rows[i].Topic.Prominence)
		}
	}
	return vals
}

func shareLowTier(rows []normalize.RowFeatures, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	n := 0
	for _, i := range idx {
		if config.LowTier[rows[i].OutletTier] {
			n++
		}
	}
	return float64(n) / float64(len(idx))
}

// shareNoNarrative is the share of window rows where every tracked narrative
// has zero prominence. Returns 0 when the schema tracks no narratives at all
// (mirrors the prototype's "if narratives:" guard).
func shareNoNarrative(rows []normalize.RowFeatures, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	if len(rows[idx[0]].Narratives) == 0 {
		return 0
	}
	n := 0
	for _, i := range idx {
		none := true
		for _, nsub := range rows[i].Narratives {
			if nsub.Prominence > 0 {
				none = false
				break
			}
		}
		if none {
			n++
		}
	}
	return float64(n) / float64(len(idx))
}
