package signal

import (
	"math"
	"sort"

	"github.com/yourorg/md-spec-tool/internal/normalize"
)

// candidate is one signal name proposed for a (row, entity) pair, carrying
// the row-level context the rank-and-cap step sorts on.
type candidate struct {
	name       string
	severity   int
	structural int
	outlet     int
	prominence float64
	recency    int64
}

// NarrativeGainMap precomputes, once per narrative, whether that narrative's
// average prominence grew at least 30% from the prior window to the
// current one — the narr_gain test several entity signals (Rising
// Threat/Opportunity) share.
func NarrativeGainMap(rows []normalize.RowFeatures, narrativeOrder []string, currentIdx, priorIdx []int) map[string]bool {
	out := make(map[string]bool, len(narrativeOrder))
	for _, k := range narrativeOrder {
		avgPrev, okPrev := mean(narrativeProms(rows, priorIdx, k))
		avgCur, okCur := mean(narrativeProms(rows, currentIdx, k))
		out[k] = okPrev && okCur && avgPrev > 0 && avgCur >= 1.30*avgPrev
	}
	return out
}

// ComputeEntitySignals evaluates the full entity signal family (spec.md
// §4.6) for one entity across every row, returning the ranked, capped
// signal list per row. allModifiers supplies every tracked entity's Pass-1
// modifier label per row (keyed by entity key), since several signals here
// (Ricochet Risk, Narrative Shaping) read a peer's or the entity's own
// modifier rather than its raw prominence/sentiment.
func ComputeEntitySignals(
	rows []normalize.RowFeatures,
	entityKey string,
	allEntityKeys []string,
	narrativeOrder []string,
	allModifiers map[string][]string,
	narrGain map[string]bool,
	currentIdx, priorIdx []int,
	cap int,
) [][]string {
	curProms := entityProms(rows, currentIdx, entityKey)
	curSents := entitySents(rows, currentIdx, entityKey)
	prevProms := entityProms(rows, priorIdx, entityKey)
	prevSents := entitySents(rows, priorIdx, entityKey)
	curQual := entityQualities(rows, currentIdx, entityKey)
	prevQual := entityQualities(rows, priorIdx, entityKey)

	avgPromCur, okPC := mean(curProms)
	avgPromPrev, okPP := mean(prevProms)
	avgSentCur, okSC := mean(curSents)
	avgSentPrev, okSP := mean(prevSents)
	avgQCur, okQC := mean(curQual)
	avgQPrev, okQP := mean(prevQual)

	myMods := allModifiers[entityKey]
	hadTakedownPrev := anyModifier(myMods, priorIdx, "Takedown")
	hadBreakthroughPrev := anyModifier(myMods, priorIdx, "Breakthrough")

	peerAvgCur, peerAvgPrev, peerOk := peerProminenceAverages(rows, allEntityKeys, entityKey, currentIdx, priorIdx)

	results := make([][]string, len(rows))

	for i, rf := range rows {
		esub, tracked := rf.Entities[entityKey]
		if !tracked {
			continue
		}
		outlet := rf.OutletTier
		prom := esub.Prominence
		entityPresent := prom > 0
		var recency int64
		if rf.DateOK {
			recency = rf.Date.UnixNano()
		}

		var cands []candidate
		add := func(name string) {
			w := entitySignalWeights[name]
			cands = append(cands, candidate{name: name, severity: w.Severity, structural: w.Structural, outlet: outlet, prominence: prom, recency: recency})
		}

		peerMaxProm, peerMaxSent := 0.0, 0.0
		for ek, other := range rf.Entities {
			if ek == entityKey {
				continue
			}
			if other.Prominence > peerMaxProm {
				peerMaxProm = other.Prominence
			}
			if other.Sentiment > peerMaxSent {
				peerMaxSent = other.Sentiment
			}
		}

		hasAnyNarrative := len(rf.Narratives) > 0
		anyNarrPresent := false
		for _, nsub := range rf.Narratives {
			if nsub.Prominence > 0 {
				anyNarrPresent = true
				break
			}
		}

		var mod string
		if i < len(myMods) {
			mod = myMods[i]
		}

		// Narrative Shaping.
		if mod == "Takedown" || mod == "Breakthrough" || (prom >= 4 && outlet >= 4) {
			add("Narrative Shaping")
		}

		// Wedge Potential: entity noticeably more favorably covered than some
		// other tracked entity on the same article, with a narrative live.
		if entityPresent && hasAnyNarrative && anyNarrPresent {
			for _, pk := range allEntityKeys {
				if pk == entityKey {
					continue
				}
				if peer, ok := rf.Entities[pk]; ok && esub.Sentiment-peer.Sentiment >= 1.5 {
					add("Wedge Potential")
					break
				}
			}
		}

		// Second Fiddle / Peer Pressure: compared against the sharpest peer on
		// the article, excluding the entity itself (spec.md's Peer definition).
		if entityPresent && prom < 3.0 && peerMaxProm >= 3.0 {
			add("Second Fiddle")
		}
		if entityPresent && peerMaxSent >= 2.5 && esub.Sentiment >= 0 && esub.Sentiment <= 1.0 {
			add("Peer Pressure")
		}

		// Contrast Framing / Polarized Framing: first qualifying peer wins.
		if entityPresent {
			for _, pk := range allEntityKeys {
				if pk == entityKey {
					continue
				}
				if peer, ok := rf.Entities[pk]; ok && math.Abs(esub.Sentiment-peer.Sentiment) >= 2.0 {
					add("Contrast Framing")
					break
				}
			}
			for _, pk := range allEntityKeys {
				if pk == entityKey {
					continue
				}
				if peer, ok := rf.Entities[pk]; ok && peer.Sentiment-esub.Sentiment >= 4.0 {
					add("Polarized Framing")
					break
				}
			}
		}

		// Ricochet Risk / Cautious Schadenfreude: a peer is taking the brunt
		// of coverage while this entity escapes it.
		severeMods := map[string]bool{"Narrative Shaper": true, "Takedown": true, "Body Blow": true, "Stinger": true, "Collateral Damage": true}
		ricochet := false
		if entityPresent {
			for _, pk := range allEntityKeys {
				if pk == entityKey {
					continue
				}
				if pmods, ok := allModifiers[pk]; ok && i < len(pmods) && severeMods[pmods[i]] {
					ricochet = true
					break
				}
			}
		}
		if ricochet {
			add("Ricochet Risk")
			if prom == 0 || esub.Sentiment >= 0 {
				add("Cautious Schadenfreude")
			}
		}

		// Captured Narrative (article): this entity clearly leads the article
		// while every other tracked entity stays below the threshold.
		if entityPresent && prom >= 2.5 && peerMaxProm < 2.5 {
			add("Captured Narrative (article)")
		}

		// Narrative Vacuum: entity covered on an article where every tracked
		// narrative sits at zero.
		if entityPresent && hasAnyNarrative && !anyNarrPresent {
			add("Narrative Vacuum")
		}

		// Strategic Fallout / Uplift: quality score drifted opposite the prior
		// window's defining modifier event.
		if hadTakedownPrev && okQC && okQP && (avgQCur-avgQPrev) <= -0.5 {
			add("Strategic Fallout")
		}
		if hadBreakthroughPrev && okQC && okQP && (avgQCur-avgQPrev) >= 0.5 {
			add("Strategic Uplift")
		}

		topKey, topProm, topOK := topNarrative(rf, narrativeOrder)

		// Echo (tight): coverage of this entity inside the row's dominant
		// narrative is clustered tightly across at least 3 distinct outlets.
		if topOK && topProm >= 2.0 && echoTight(rows, currentIdx, topKey, entityKey) {
			add("Echo (tight)")
		}

		// Rising Threat / Rising Opportunity: entity sits inside a narrative
		// that's gaining prominence, with the window's average sentiment
		// pointing negative or strongly positive.
		if topOK && topProm >= 2.0 && narrGain[topKey] && okSC {
			if avgSentCur < 0 {
				add("Rising Threat")
			}
			if avgSentCur > 1.0 {
				add("Rising Opportunity")
			}
		}

		// Deepening Exposure / Strengthening Position.
		if okSC && okSP {
			if (avgSentPrev - avgSentCur) >= 1.5 {
				add("Deepening Exposure")
			}
			if (avgSentCur - avgSentPrev) >= 1.5 {
				add("Strengthening Position")
			}
		}

		// Lost Momentum / Prominence Spike / Momentum Gap.
		if okPC && okPP {
			if avgPromCur < avgPromPrev && okSC && okSP && avgSentCur < avgSentPrev {
				add("Lost Momentum")
			}
			if (avgPromCur - avgPromPrev) >= 2.0 {
				add("Prominence Spike")
			}
			if peerOk && peerAvgCur > avgPromCur && (peerAvgCur-peerAvgPrev) >= 0.5 && (avgPromCur-avgPromPrev) <= 0 {
				add("Momentum Gap")
			}
		}

		// Framing Cage (tight): entity is persistently overshadowed within its
		// own dominant narrative.
		if topOK && topProm > 0 && framingCageTight(rows, currentIdx, topKey, entityKey, allEntityKeys) {
			add("Framing Cage (tight)")
		}

		// Turbulent Frame (tight): the entity's own coverage swings widely
		// across the current window.
		if stddev(curProms) >= 1.0 || stddev(curSents) >= 1.5 || iqr(curSents) >= 2.0 {
			add("Turbulent Frame (tight)")
		}

		// Narrative Expansion / Fragmentation.
		posNarrs, sentMeans, anyPromGE2 := narrativeExposureStats(rows, currentIdx, narrativeOrder, entityKey)
		if posNarrs >= 2 {
			add("Narrative Expansion")
		}
		if len(sentMeans) >= 2 && anyPromGE2 {
			maxS, minS := sentMeans[0], sentMeans[0]
			for _, v := range sentMeans {
				if v > maxS {
					maxS = v
				}
				if v < minS {
					minS = v
				}
			}
			if maxS-minS > 3.0 {
				add("Narrative Fragmentation")
			}
		}

		results[i] = rankAndCap(cands, cap)
	}

	return results
}

func rankAndCap(cands []candidate, cap int) []string {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.severity != b.severity {
			return a.severity > b.severity
		}
		if a.structural != b.structural {
			return a.structural > b.structural
		}
		if a.outlet != b.outlet {
			return a.outlet > b.outlet
		}
		if a.prominence != b.prominence {
			return a.prominence > b.prominence
		}
		return a.recency > b.recency
	})
	if len(cands) > cap {
		cands = cands[:cap]
	}
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.name
	}
	return names
}

func topNarrative(rf normalize.RowFeatures, narrativeOrder []string) (key string, prom float64, ok bool) {
	best := -1.0
	for _, k := range narrativeOrder {
		nsub, exists := rf.Narratives[k]
		if !exists {
			continue
		}
		if nsub.Prominence > best {
			best = nsub.Prominence
			key = k
			ok = true
		}
	}
	if !ok {
		return "", 0, false
	}
	return key, best, true
}

func echoTight(rows []normalize.RowFeatures, currentIdx []int, narrKey, entityKey string) bool {
	var idxs []int
	for _, i := range currentIdx {
		if rows[i].Narratives[narrKey].Prominence >= 2.0 {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) < 3 {
		return false
	}
	esents := make([]float64, len(idxs))
	nsents := make([]float64, len(idxs))
	for j, i := range idxs {
		esents[j] = rows[i].Entities[entityKey].Sentiment
		nsents[j] = rows[i].Narratives[narrKey].Sentiment
	}
	medE, medN := median(esents), median(nsents)
	pubs := map[string]bool{}
	for _, i := range idxs {
		es := rows[i].Entities[entityKey].Sentiment
		ns := rows[i].Narratives[narrKey].Sentiment
		if math.Abs(es-medE) <= 0.5 && math.Abs(ns-medN) <= 0.5 && rows[i].Publication != "" {
			pubs[rows[i].Publication] = true
		}
	}
	return len(pubs) >= 3
}

func framingCageTight(rows []normalize.RowFeatures, currentIdx []int, narrKey, entityKey string, allEntityKeys []string) bool {
	var idxs []int
	for _, i := range currentIdx {
		if rows[i].Narratives[narrKey].Prominence > 0 {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return false
	}
	caseCount, ge3Count := 0, 0
	for _, i := range idxs {
		prom := rows[i].Entities[entityKey].Prominence
		peerMax := 0.0
		for _, pk := range allEntityKeys {
			if pk == entityKey {
				continue
			}
			if v := rows[i].Entities[pk].Prominence; v > peerMax {
				peerMax = v
			}
		}
		if peerMax >= 3 && prom < 3 {
			caseCount++
		}
		if prom >= 3 {
			ge3Count++
		}
	}
	shareCase := float64(caseCount) / float64(len(idxs))
	shareGE3 := float64(ge3Count) / float64(len(idxs))
	return shareCase >= 0.60 && shareGE3 <= 0.10
}

// narrativeExposureStats computes, for entityKey and each narrative present
// in at least one current-window row, the entity's average prominence and
// sentiment over those rows. It returns how many narratives have average
// prominence >= 2.5 and average sentiment > 1.0, the average sentiment for
// every such present narrative, and whether any of them has average
// prominence >= 2.0.
func narrativeExposureStats(rows []normalize.RowFeatures, currentIdx []int, narrativeOrder []string, entityKey string) (posNarrs int, sentMeans []float64, anyPromGE2 bool) {
	for _, nk := range narrativeOrder {
		var proms, sents []float64
		for _, i := range currentIdx {
			if rows[i].Narratives[nk].Prominence > 0 {
				e := rows[i].Entities[entityKey]
				proms = append(proms, e.Prominence)
				sents = append(sents, e.Sentiment)
			}
		}
		if len(proms) == 0 {
			continue
		}
		avgP, _ := mean(proms)
		avgS, _ := mean(sents)
		if avgP >= 2.5 && avgS > 1.0 {
			posNarrs++
		}
		if avgP >= 2.0 {
			anyPromGE2 = true
		}
		sentMeans = append(sentMeans, avgS)
	}
	return posNarrs, sentMeans, anyPromGE2
}

func entityProms(rows []normalize.RowFeatures, idx []int, key string) []float64 {
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, rows[i].Entities[key].Prominence)
	}
	return vals
}

func entitySents(rows []normalize.RowFeatures, idx []int, key string) []float64 {
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, rows[i].Entities[key].Sentiment)
	}
	return vals
}

func entityQualities(rows []normalize.RowFeatures, idx []int, key string) []float64 {
	var vals []float64
	for _, i := range idx {
		e := rows[i].Entities[key]
		if e.HasQuality {
			vals = append(vals, e.Quality)
		}
	}
	return vals
}

func peerProminenceAverages(rows []normalize.RowFeatures, allEntityKeys []string, self string, currentIdx, priorIdx []int) (peerAvgCur, peerAvgPrev float64, ok bool) {
	var curs, prevs []float64
	for _, k := range allEntityKeys {
		if k == self {
			continue
		}
		c, okc := mean(entityProms(rows, currentIdx, k))
		p, okp := mean(entityProms(rows, priorIdx, k))
		if okc && okp {
			curs = append(curs, c)
			prevs = append(prevs, p)
		}
	}
	ac, oka := mean(curs)
	ap, okp := mean(prevs)
	return ac, ap, oka && okp
}

func anyModifier(mods []string, idx []int, label string) bool {
	for _, i := range idx {
		if i < len(mods) && mods[i] == label {
			return true
		}
	}
	return false
}
