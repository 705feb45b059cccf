// Package classify implements the two cascades spec.md §4.3 (state) and
// §4.4 (modifier) define: deterministic, short-circuiting rule tables
// evaluated top to bottom, one predicate->label pair at a time. Each
// cascade is represented as an explicit ordered slice of rules rather than
// a nested if/else tree (spec.md §9's "Row-at-a-time dispatch with many
// cascades" design note) so the evaluation order — and therefore precedence
// — is visible at a glance and independently testable.
package classify

// State is a coarse posture label for a (subject, row) pair, plus
// Undetermined for a row no cascade rule matches (reachable for entities,
// e.g. a present entity with sentiment exactly 0).
type State string

const (
	StateAbsent       State = "Absent"
	StateHighRisk     State = "High Risk"
	StateRisky        State = "Risky"
	StateHealthy      State = "Healthy"
	StateAmbientRisk  State = "Ambient Risk"
	StateNiche        State = "Niche"
	StatePeripheral   State = "Peripheral"
	StateOffStage     State = "Off-Stage"
	StateUnderFire    State = "Under Fire"
	StateLeader       State = "Leader"
	StateSupporting   State = "Supporting Player"
	StateUndetermined State = "Undetermined"
)

type stateRule struct {
	match func(prom, sent float64) bool
	label State
}

// subjectCascade builds the topic/narrative state cascade (spec.md §4.3):
// identical for both subjects except the low-prominence, non-negative
// sentiment label ("Niche" for topic, "Peripheral" for narratives — spec.md
// Open Question 2 leaves these as two distinct labels for two distinct
// subjects, not a naming inconsistency to reconcile).
func subjectCascade(lowProminenceLabel State) []stateRule {
	return []stateRule{
		{func(p, s float64) bool { return p == 0 }, StateAbsent},
		{func(p, s float64) bool { return p >= 2.5 && s < -2.0 }, StateHighRisk},
		{func(p, s float64) bool { return p >= 2.5 && s < 0 }, StateRisky},
		{func(p, s float64) bool { return p >= 2.5 }, StateHealthy},
		{func(p, s float64) bool { return s < 0 }, StateAmbientRisk},
		{func(p, s float64) bool { return true }, lowProminenceLabel},
	}
}

func evalStateRules(rules []stateRule, prom, sent float64) State {
	for _, r := range rules {
		if r.match(prom, sent) {
			return r.label
		}
	}
	return StateUndetermined
}

// TopicState classifies the overall-topic state for one row.
func TopicState(prom, sent float64) State {
	return evalStateRules(subjectCascade(StateNiche), prom, sent)
}

// NarrativeState classifies one narrative's state for one row.
func NarrativeState(prom, sent float64) State {
	return evalStateRules(subjectCascade(StatePeripheral), prom, sent)
}

// EntityState classifies one entity's state for one row (spec.md §4.3).
// topicProm and maxNarrativeProm are gated/raw prominence values from the
// same row; entityProm/entitySent are the entity's own gated features.
func EntityState(topicProm, entityProm, entitySent, maxNarrativeProm float64) State {
	rules := []struct {
		match func() bool
		label State
	}{
		{func() bool { return topicProm > 0 && entityProm == 0 && maxNarrativeProm > 0 }, StateOffStage},
		{func() bool { return topicProm > 0 && entityProm == 0 }, StateAbsent},
		{func() bool { return entityProm > 0 && entitySent < 0 }, StateUnderFire},
		{func() bool { return entityProm >= 3 && entitySent > 0 }, StateLeader},
		{func() bool { return entityProm > 0 && entityProm < 3 && entitySent > 0 }, StateSupporting},
	}
	for _, r := range rules {
		if r.match() {
			return r.label
		}
	}
	return StateUndetermined
}

// ResolvePreexisting implements spec.md §9's "Pre-existing labels" policy:
// a non-empty state value already present on the input row is preserved
// verbatim; the cascade fills only empty or null cells.
func ResolvePreexisting(existing string, cascade func() State) State {
	if existing != "" {
		return State(existing)
	}
	return cascade()
}
