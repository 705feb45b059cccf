package classify

import "math"

// NarrativeFeatures is the minimal per-narrative input the central-narrative
// selection needs: its gated prominence and sentiment for one row.
type NarrativeFeatures struct {
	Prominence float64
	Sentiment  float64
}

// CentralNarrative is the result of spec.md §4.4's central-narrative
// selection: the narrative picked by the tie-precedence-and-tie rule, used
// by any modifier rule that needs a "dominant narrative" (the Off-Stage
// cascade, and the Central_Narrative_* output columns).
type CentralNarrative struct {
	Key        string
	Prominence float64
	Sentiment  float64
	Found      bool
}

// SelectCentralNarrative iterates narratives in tiePrecedence order and
// picks the one with strictly greater prominence than the current best; on
// a prominence tie, the narrative with the higher |sentiment| wins; ties
// beyond that resolve by precedence order (the earlier-precedence narrative
// already held as best is kept). This affirmatively resolves spec.md Open
// Question 3 in favor of the |sentiment| tie-break, per original_source's
// pick_central_narrative.
func SelectCentralNarrative(narratives map[string]NarrativeFeatures, tiePrecedence []string) CentralNarrative {
	var best CentralNarrative
	for _, key := range tiePrecedence {
		nf, ok := narratives[key]
		if !ok {
			continue
		}
		if !best.Found {
			best = CentralNarrative{Key: key, Prominence: nf.Prominence, Sentiment: nf.Sentiment, Found: true}
			continue
		}
		if nf.Prominence > best.Prominence {
			best = CentralNarrative{Key: key, Prominence: nf.Prominence, Sentiment: nf.Sentiment, Found: true}
			continue
		}
		if nf.Prominence == best.Prominence && math.Abs(nf.Sentiment) > math.Abs(best.Sentiment) {
			best = CentralNarrative{Key: key, Prominence: nf.Prominence, Sentiment: nf.Sentiment, Found: true}
		}
	}
	return best
}
