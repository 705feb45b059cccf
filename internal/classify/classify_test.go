package classify

import "testing"

func TestTopicState_BoundaryAt2_5AndMinus2(t *testing.T) {
	// spec.md §8 boundary test: prominence exactly 2.5, sentiment -2.0 ->
	// Risky, because sentiment is not strictly < -2.0.
	got := TopicState(2.5, -2.0)
	if got != StateRisky {
		t.Fatalf("TopicState(2.5, -2.0) = %v, want %v", got, StateRisky)
	}
}

func TestTopicState_AllBranches(t *testing.T) {
	cases := []struct {
		prom, sent float64
		want       State
	}{
		{0, 5, StateAbsent},
		{3.0, -3.0, StateHighRisk},
		{3.0, -1.0, StateRisky},
		{3.0, 0, StateHealthy},
		{3.0, 2.0, StateHealthy},
		{1.0, -1.0, StateAmbientRisk},
		{1.0, 0, StateNiche},
		{1.0, 2.0, StateNiche},
	}
	for _, c := range cases {
		if got := TopicState(c.prom, c.sent); got != c.want {
			t.Errorf("TopicState(%v, %v) = %v, want %v", c.prom, c.sent, got, c.want)
		}
	}
}

func TestNarrativeState_UsesPeripheralLabel(t *testing.T) {
	if got := NarrativeState(1.0, 0); got != StatePeripheral {
		t.Fatalf("NarrativeState(1.0, 0) = %v, want %v", got, StatePeripheral)
	}
}

func TestEntityState(t *testing.T) {
	cases := []struct {
		name                                         string
		topicProm, entityProm, entitySent, maxNarrow float64
		want                                         State
	}{
		{"off-stage when narrative present", 3.0, 0, 0, 2.0, StateOffStage},
		{"absent when no narrative present", 3.0, 0, 0, 0, StateAbsent},
		{"under fire", 3.0, 2.0, -1.0, 0, StateUnderFire},
		{"leader", 3.0, 4.0, 3.0, 0, StateLeader},
		{"supporting player", 3.0, 1.5, 1.0, 0, StateSupporting},
	}
	for _, c := range cases {
		got := EntityState(c.topicProm, c.entityProm, c.entitySent, c.maxNarrow)
		if got != c.want {
			t.Errorf("%s: EntityState(...) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestResolvePreexisting(t *testing.T) {
	called := false
	cascade := func() State { called = true; return StateHealthy }
	if got := ResolvePreexisting("Custom State", cascade); got != "Custom State" {
		t.Fatalf("expected preserved pre-existing state, got %v", got)
	}
	if called {
		t.Fatal("cascade must not run when a pre-existing state is present")
	}
	if got := ResolvePreexisting("", cascade); got != StateHealthy {
		t.Fatalf("expected cascade result for empty pre-existing state, got %v", got)
	}
	if !called {
		t.Fatal("cascade should run when pre-existing state is empty")
	}
}

func TestClassifyModifier_UnderFireBoundaries(t *testing.T) {
	// spec.md §8 boundary tests.
	takedown := ClassifyModifier(StateUnderFire, ModifierInputs{EntityProm: 3, EntitySent: -2, OutletTier: 4})
	if takedown != "Takedown" {
		t.Fatalf("(3,-2,4) modifier = %q, want Takedown", takedown)
	}
	gapBridge := ClassifyModifier(StateUnderFire, ModifierInputs{EntityProm: 2.5, EntitySent: -2.5, OutletTier: 4})
	if gapBridge != "Stinger" {
		t.Fatalf("(2.5,-2.5,4) modifier = %q, want Stinger (gap bridge)", gapBridge)
	}
}

func TestClassifyModifier_LeaderBoundaries(t *testing.T) {
	breakthrough := ClassifyModifier(StateLeader, ModifierInputs{EntityProm: 4, EntitySent: 3, OutletTier: 4})
	if breakthrough != "Breakthrough" {
		t.Fatalf("(4,3,4) modifier = %q, want Breakthrough", breakthrough)
	}
	setter := ClassifyModifier(StateLeader, ModifierInputs{EntityProm: 4, EntitySent: 3, OutletTier: 5})
	if setter != "Narrative Setter" {
		t.Fatalf("(4,3,5) modifier = %q, want Narrative Setter", setter)
	}
}

func TestClassifyModifier_OffStageOverlooked(t *testing.T) {
	got := ClassifyModifier(StateOffStage, ModifierInputs{CentralNarrProm: 2.0, CentralNarrSent: 1.0, PeersGE2: 0})
	if got != "Overlooked" {
		t.Fatalf("peers_ge_2=0, narr_prom<2.5 modifier = %q, want Overlooked", got)
	}
}

func TestClassifyModifier_EndToEndScenarios(t *testing.T) {
	// spec.md §8 end-to-end scenario table, entity column only.
	cases := []struct {
		name                     string
		topicProm, topicSent     float64
		narrProm, narrSent       float64
		entityProm, entitySent   float64
		outlet, peers            int
		wantState                State
		wantModifier             string
	}{
		{"scenario 1", 3.0, 1.0, 2.0, 1.0, 0, 0, 4, 0, StateOffStage, "Overlooked"},
		{"scenario 2", 3.0, -3.0, 2.8, -3.0, 0, 0, 4, 2, StateOffStage, "Guilt by Association"},
		{"scenario 3", 3.0, 2.0, 2.6, 2.0, 4, 3, 5, 0, StateLeader, "Narrative Setter"},
		{"scenario 4", 3.0, -2.5, 2.0, -2.0, 3, -2, 4, 0, StateUnderFire, "Takedown"},
		{"scenario 5", 1.5, 0.5, 0, 0, 0, 0, 3, 0, StateAbsent, "Not Relevant"},
		{"scenario 6", 3.0, -1.0, 0, 0, 1.5, -0.5, 2, 0, StateUnderFire, "Peripheral Hit"},
	}
	for _, c := range cases {
		maxNarr := c.narrProm
		state := EntityState(c.topicProm, c.entityProm, c.entitySent, maxNarr)
		if state != c.wantState {
			t.Errorf("%s: state = %v, want %v", c.name, state, c.wantState)
			continue
		}
		in := ModifierInputs{
			EntityProm:      c.entityProm,
			EntitySent:      c.entitySent,
			OutletTier:      c.outlet,
			TopicProm:       c.topicProm,
			TopicSent:       c.topicSent,
			CentralNarrProm: c.narrProm,
			CentralNarrSent: c.narrSent,
			PeersGE2:        c.peers,
		}
		mod := ClassifyModifier(state, in)
		if mod != c.wantModifier {
			t.Errorf("%s: modifier = %q, want %q", c.name, mod, c.wantModifier)
		}
	}
}

func TestSelectCentralNarrative_TieBreakByAbsSentiment(t *testing.T) {
	narratives := map[string]NarrativeFeatures{
		"A": {Prominence: 2.0, Sentiment: 1.0},
		"B": {Prominence: 2.0, Sentiment: -2.5},
		"C": {Prominence: 1.0, Sentiment: 4.0},
	}
	got := SelectCentralNarrative(narratives, []string{"A", "B", "C"})
	if got.Key != "B" {
		t.Fatalf("central narrative = %q, want B (higher |sentiment| on prominence tie)", got.Key)
	}
}

func TestSelectCentralNarrative_PrecedenceOrderOnFullTie(t *testing.T) {
	narratives := map[string]NarrativeFeatures{
		"A": {Prominence: 2.0, Sentiment: 1.0},
		"B": {Prominence: 2.0, Sentiment: -1.0},
	}
	got := SelectCentralNarrative(narratives, []string{"A", "B"})
	if got.Key != "A" {
		t.Fatalf("central narrative = %q, want A (precedence order on full tie)", got.Key)
	}
}
