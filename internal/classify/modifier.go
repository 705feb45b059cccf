package classify

// ModifierInputs bundles the per-row features spec.md §4.4's modifier
// cascades dispatch on. Which fields matter depends on the entity's state;
// callers populate all of them from normalize.RowFeatures and
// SelectCentralNarrative regardless, since a cascade simply ignores the
// fields it doesn't need.
type ModifierInputs struct {
	EntityProm float64
	EntitySent float64
	OutletTier int

	TopicProm float64
	TopicSent float64

	CentralNarrProm float64
	CentralNarrSent float64

	// PeersGE2 is the count of *other* tracked entities with prominence
	// >= 2.0 on the same row (spec.md §4.4's peers_ge_2).
	PeersGE2 int
}

type modifierRule struct {
	match func(ModifierInputs) bool
	label string
}

func evalModifierRules(rules []modifierRule, in ModifierInputs) string {
	for _, r := range rules {
		if r.match(in) {
			return r.label
		}
	}
	return ""
}

var absentRules = []modifierRule{
	{func(in ModifierInputs) bool { return in.TopicProm < 2 }, "Not Relevant"},
	{func(in ModifierInputs) bool { return in.TopicSent >= 0 }, "Narrative Drift"},
	{func(in ModifierInputs) bool { return true }, "Framing Risk"},
}

// offStageRules implements spec.md §4.4's Off-Stage cascade, resolved in
// favor of the stricter Overlooked guard per spec.md Open Question 1
// ("narr_prom < 2.5 ∧ peers_ge_2 == 0").
var offStageRules = []modifierRule{
	{func(in ModifierInputs) bool { return in.CentralNarrSent >= 0 && in.PeersGE2 >= 1 }, "Competitor-Led"},
	{func(in ModifierInputs) bool { return in.CentralNarrSent >= 0 && in.CentralNarrProm >= 2.5 && in.PeersGE2 == 0 }, "Missed Opportunity"},
	{func(in ModifierInputs) bool { return in.CentralNarrSent < 0 && in.PeersGE2 >= 2 }, "Guilt by Association"},
	{func(in ModifierInputs) bool { return in.CentralNarrSent < 0 && in.PeersGE2 == 1 }, "Innocent Bystander"},
	{func(in ModifierInputs) bool { return in.CentralNarrSent < 0 && in.CentralNarrProm >= 2.5 && in.PeersGE2 == 0 }, "Reporter-Led Risk"},
	{func(in ModifierInputs) bool { return in.CentralNarrProm < 2.5 && in.PeersGE2 == 0 }, "Overlooked"},
}

var supportingRules = []modifierRule{
	{func(in ModifierInputs) bool { return in.OutletTier >= 3 && in.EntitySent >= 3 }, "Strategic Signal"},
	{func(in ModifierInputs) bool { return in.OutletTier >= 3 && in.EntitySent >= 0.5 && in.EntitySent < 3 }, "Low-Heat Visibility"},
	{func(in ModifierInputs) bool { return in.OutletTier < 3 && in.EntitySent >= 3 }, "Check the Box"},
	{func(in ModifierInputs) bool { return in.OutletTier < 3 && in.EntitySent >= 0.5 && in.EntitySent < 3 }, "Background Noise"},
}

// underFireRules implements spec.md §4.4's Under Fire cascade including the
// gap-bridge rule (2 <= p < 3 ∧ s <= -2 ∧ t >= 4 -> Stinger), which fills
// the one (prominence, outlet) combination the seven primary rules leave
// unmatched.
var underFireRules = []modifierRule{
	{func(in ModifierInputs) bool { return in.EntityProm >= 4 && in.EntitySent <= -3 && in.OutletTier == 5 }, "Narrative Shaper"},
	{func(in ModifierInputs) bool { return in.EntityProm >= 3 && in.EntitySent <= -2 && in.OutletTier == 4 }, "Takedown"},
	{func(in ModifierInputs) bool { return in.EntityProm >= 3 && in.EntitySent <= -2 && in.OutletTier > 2 }, "Body Blow"},
	{func(in ModifierInputs) bool { return in.EntityProm >= 2 && in.EntitySent <= -2 && in.OutletTier <= 3 }, "Stinger"},
	{func(in ModifierInputs) bool { return in.EntityProm >= 2 && in.EntitySent < 0 && in.EntitySent > -2 }, "Light Jab"},
	{func(in ModifierInputs) bool { return in.EntityProm < 2 && in.EntitySent <= -2 }, "Collateral Damage"},
	{func(in ModifierInputs) bool { return in.EntityProm < 2 && in.EntitySent < 0 && in.EntitySent > -2 }, "Peripheral Hit"},
	{func(in ModifierInputs) bool {
		return in.EntityProm >= 2 && in.EntityProm < 3 && in.EntitySent <= -2 && in.OutletTier >= 4
	}, "Stinger"},
}

var leaderRules = []modifierRule{
	{func(in ModifierInputs) bool { return in.EntityProm >= 4 && in.EntitySent >= 3 && in.OutletTier == 5 }, "Narrative Setter"},
	{func(in ModifierInputs) bool { return in.EntityProm >= 4 && in.EntitySent >= 3 && in.OutletTier >= 4 }, "Breakthrough"},
	{func(in ModifierInputs) bool { return in.EntityProm >= 3 && in.EntitySent >= 2 && in.OutletTier >= 3 }, "Great Story"},
	{func(in ModifierInputs) bool {
		if in.EntityProm < 3 {
			return false
		}
		goodA := in.OutletTier >= 3 && in.EntitySent >= 1 && in.EntitySent < 2
		goodB := in.OutletTier < 3 && in.EntitySent >= 2
		return goodA || goodB
	}, "Good Story"},
	{func(in ModifierInputs) bool { return in.EntityProm >= 3 && in.EntitySent >= 0 }, "Routine Positive"},
}

// ClassifyModifier dispatches to the rule table for state and returns the
// first matching label, or "" if nothing matches (spec.md §4.4: "empty
// string allowed only if no rule matches").
func ClassifyModifier(state State, in ModifierInputs) string {
	switch state {
	case StateAbsent:
		return evalModifierRules(absentRules, in)
	case StateOffStage:
		return evalModifierRules(offStageRules, in)
	case StateSupporting:
		return evalModifierRules(supportingRules, in)
	case StateUnderFire:
		return evalModifierRules(underFireRules, in)
	case StateLeader:
		return evalModifierRules(leaderRules, in)
	default:
		return ""
	}
}
