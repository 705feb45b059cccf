package signal

import "github.com/yourorg/md-spec-tool/internal/normalize"

// NarrativeSignals is one narrative's signal output across all rows. Unlike
// topic signals, window-level narrative tags are broadcast only to rows
// where that narrative is present (prominence > 0) — grounded in
// orchestra_signals_engine.py's compute_narrative_signals, which builds a
// present_mask over the full row set (not just the current window) before
// assigning window_signals.
type NarrativeSignals struct {
	Hot     []bool
	Present []bool
	Window  []string
}

// ForRow returns this narrative's signal list for row i.
func (ns NarrativeSignals) ForRow(i int) []string {
	var out []string
	if i < len(ns.Hot) && ns.Hot[i] {
		out = append(out, "Hot")
	}
	if i < len(ns.Present) && ns.Present[i] {
		out = append(out, ns.Window...)
	}
	return out
}

// OverlapShare is the share of current-window rows carrying two or more
// narratives at prominence >= 2.0. It is computed once across all narratives
// and reused per narrative (the prototype recomputes it per-narrative but
// the value doesn't depend on which narrative is being evaluated).
func OverlapShare(rows []normalize.RowFeatures, currentIdx []int) float64 {
	if len(currentIdx) == 0 {
		return 0
	}
	n := 0
	for _, i := range currentIdx {
		count := 0
		for _, nsub := range rows[i].Narratives {
			if nsub.Prominence >= 2.0 {
				count++
			}
		}
		if count >= 2 {
			n++
		}
	}
	return float64(n) / float64(len(currentIdx))
}

// ComputeNarrativeSignals evaluates the per-narrative signal family for one
// narrative key (spec.md §4.6, gated to rows where that narrative's
// prominence is > 0).
func ComputeNarrativeSignals(rows []normalize.RowFeatures, key string, currentIdx, priorIdx []int, overlapShare float64) NarrativeSignals {
	ns := NarrativeSignals{
		Hot:     make([]bool, len(rows)),
		Present: make([]bool, len(rows)),
	}
	for i, rf := range rows {
		nsub, ok := rf.Narratives[key]
		if !ok {
			continue
		}
		ns.Present[i] = nsub.Prominence > 0
		if nsub.Prominence >= 3.5 && nsub.Sentiment >= 3.0 {
			ns.Hot[i] = true
		}
	}

	curProms := narrativeProms(rows, currentIdx, key)
	curSents := narrativeSents(rows, currentIdx, key)

	volCur, volPrior := len(currentIdx), len(priorIdx)

	shareWithNarr := shareCond(curProms, func(v float64) bool { return v > 0 })
	sharePromGE25 := shareCond(curProms, func(v float64) bool { return v >= 2.5 })
	if shareWithNarr >= 0.66 || sharePromGE25 >= 0.50 {
		ns.Window = append(ns.Window, "Dominant")
	}

	promRows := narrativePromIdx(rows, currentIdx, key, 2.5)
	if captured, unowned := ownershipShares(rows, promRows, key); len(promRows) > 0 {
		if captured >= 0.50 {
			ns.Window = append(ns.Window, "Captured")
		}
		if unowned >= 0.50 {
			ns.Window = append(ns.Window, "Unowned")
		}
	}
	presentRows := narrativePromIdx(rows, currentIdx, key, 0.0001)
	if _, unownedPresent := ownershipShares(rows, presentRows, key); len(presentRows) > 0 && unownedPresent >= 0.50 {
		ns.Window = append(ns.Window, "Media-Led")
	}

	if stddev(curProms) >= 1.0 || stddev(curSents) >= 1.5 {
		ns.Window = append(ns.Window, "Fragmented")
	}
	if overlapShare >= 0.30 {
		ns.Window = append(ns.Window, "Overlapping")
	}

	lowVals := tierFilteredNarrativeProms(rows, currentIdx, key, func(tier int) bool { return tier == 1 || tier == 2 })
	mhVals := tierFilteredNarrativeProms(rows, currentIdx, key, func(tier int) bool { return tier >= 3 })
	avgLow, okLow := mean(lowVals)
	avgMH, okMH := mean(mhVals)
	if okLow && okMH && avgLow >= 2.5 && avgMH < 1.5 {
		ns.Window = append(ns.Window, "Trade-Locked")
	}

	avgProm, okAvg := mean(curProms)
	noCompanionShare := shareNoOtherNarrative(rows, currentIdx, key)
	shareLow := shareLowTier(rows, currentIdx)
	if okAvg && avgProm >= 2.5 && noCompanionShare >= 0.30 && shareLow >= 0.60 {
		ns.Window = append(ns.Window, "Coverage Split")
	}

	switch {
	case volCur == 0:
		ns.Window = append(ns.Window, "Dead")
	case volPrior > 0 && float64(volCur) >= 1.30*float64(volPrior):
		ns.Window = append(ns.Window, "Growing")
	case volPrior > 0 && float64(volCur) <= 0.70*float64(volPrior):
		ns.Window = append(ns.Window, "Fatigue")
	}

	if volCur > 0 && volPrior > 0 {
		prevProms := narrativeProms(rows, priorIdx, key)
		prevSents := narrativeSents(rows, priorIdx, key)
		avgSentCur, okSC := mean(curSents)
		avgSentPrev, okSP := mean(prevSents)
		avgPromCur, okPC := mean(curProms)
		avgPromPrev, okPP := mean(prevProms)
		if okSC && okSP && okPC && okPP {
			if (avgSentCur-avgSentPrev) >= 1.5 || avgPromCur >= 1.30*avgPromPrev {
				ns.Window = append(ns.Window, "Strengthening")
			}
			if (avgSentPrev - avgSentCur) >= 1.5 {
				ns.Window = append(ns.Window, "Deteriorating")
			}
			if avgPromPrev > 0 && avgPromCur >= 1.30*avgPromPrev {
				ns.Window = append(ns.Window, "Gaining Prominence")
			}
		}
	}

	return ns
}

func narrativeProms(rows []normalize.RowFeatures, idx []int, key string) []float64 {
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, rows[i].Narratives[key].Prominence)
	}
	return vals
}

func narrativeSents(rows []normalize.RowFeatures, idx []int, key string) []float64 {
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, rows[i].Narratives[key].Sentiment)
	}
	return vals
}

func tierFilteredNarrativeProms(rows []normalize.RowFeatures, idx []int, key string, tierOK func(int) bool) []float64 {
	var vals []float64
	for _, i := range idx {
		if tierOK(rows[i].OutletTier) {
			vals = append(vals, rows[i].Narratives[key].Prominence)
		}
	}
	return vals
}

func shareCond(vals []float64, cond func(float64) bool) float64 {
	if len(vals) == 0 {
		return 0
	}
	n := 0
	for _, v := range vals {
		if cond(v) {
			n++
		}
	}
	return float64(n) / float64(len(vals))
}

// narrativePromIdx returns the subset of idx where narrative key's
// prominence is >= floor.
func narrativePromIdx(rows []normalize.RowFeatures, idx []int, key string, floor float64) []int {
	var out []int
	for _, i := range idx {
		if rows[i].Narratives[key].Prominence >= floor {
			out = append(out, i)
		}
	}
	return out
}

// ownershipShares computes, over rows, the share where some tracked entity
// reaches prominence >= 2.5 ("captured" share, the max across entities) and
// the share where no entity does ("unowned" share).
func ownershipShares(rows []normalize.RowFeatures, idx []int, narrKey string) (captured, unowned float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	entityMax := map[string]int{}
	noneCount := 0
	for _, i := range idx {
		anyOwner := false
		for ek, esub := range rows[i].Entities {
			if esub.Prominence >= 2.5 {
				entityMax[ek]++
				anyOwner = true
			}
		}
		if !anyOwner {
			noneCount++
		}
	}
	best := 0
	for _, n := range entityMax {
		if n > best {
			best = n
		}
	}
	return float64(best) / float64(len(idx)), float64(noneCount) / float64(len(idx))
}

// shareNoOtherNarrative is the share of idx rows where every narrative
// except key has zero prominence.
func shareNoOtherNarrative(rows []normalize.RowFeatures, idx []int, key string) float64 {
	if len(idx) == 0 {
		return 0
	}
	n := 0
	for _, i := range idx {
		none := true
		for ok, osub := range rows[i].Narratives {
			if ok == key {
				continue
			}
			if osub.Prominence > 0 {
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
