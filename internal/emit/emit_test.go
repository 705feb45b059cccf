package emit

import (
	"testing"

	"github.com/yourorg/md-spec-tool/internal/classify"
	"github.com/yourorg/md-spec-tool/internal/normalize"
	"github.com/yourorg/md-spec-tool/internal/schema"
	"github.com/yourorg/md-spec-tool/internal/table"
)

func TestValidateRow_RangeChecks(t *testing.T) {
	cases := []struct {
		name           string
		rf             normalize.RowFeatures
		prominentCount int
		trackedCount   int
		wantNotes      []string
	}{
		{
			name:      "in range",
			rf:        normalize.RowFeatures{Topic: normalize.Subject{Prominence: 3, RawSentiment: 1}, OutletTier: 4},
			wantNotes: nil,
		},
		{
			name:      "topic prominence out of range",
			rf:        normalize.RowFeatures{Topic: normalize.Subject{Prominence: 6, RawSentiment: 1}, OutletTier: 3},
			wantNotes: []string{"topic_prominence_out_of_range"},
		},
		{
			name:      "topic sentiment out of range",
			rf:        normalize.RowFeatures{Topic: normalize.Subject{Prominence: 3, RawSentiment: 5}, OutletTier: 3},
			wantNotes: []string{"topic_sentiment_out_of_range"},
		},
		{
			name:      "outlet tier out of range",
			rf:        normalize.RowFeatures{Topic: normalize.Subject{Prominence: 3, RawSentiment: 1}, OutletTier: 9},
			wantNotes: []string{"outlet_score_out_of_range"},
		},
		{
			name:           "prominent exceeds tracked",
			rf:             normalize.RowFeatures{Topic: normalize.Subject{Prominence: 3, RawSentiment: 1}, OutletTier: 3},
			prominentCount: 5,
			trackedCount:   2,
			wantNotes:      []string{"prominent_count_exceeds_tracked"},
		},
	}
	for _, c := range cases {
		vr := ValidateRow(c.rf, c.prominentCount, c.trackedCount)
		if len(vr.Notes) != len(c.wantNotes) {
			t.Errorf("%s: notes = %v, want %v", c.name, vr.Notes, c.wantNotes)
			continue
		}
		for i, n := range c.wantNotes {
			if vr.Notes[i] != n {
				t.Errorf("%s: notes[%d] = %q, want %q", c.name, i, vr.Notes[i], n)
			}
		}
		wantValid := len(c.wantNotes) == 0
		if vr.IsValid != wantValid {
			t.Errorf("%s: IsValid = %v, want %v", c.name, vr.IsValid, wantValid)
		}
	}
}

func TestAnnotatePass1Row_WritesDerivedColumns(t *testing.T) {
	b := &schema.Bindings{
		Entities:   []schema.SubjectBinding{{Key: "BMW", Label: "BMW"}},
		Narratives: []schema.SubjectBinding{{Key: "Trade", Label: "Trade"}},
	}
	row := table.NewRow([]string{"2024-06-01"})
	rf := normalize.RowFeatures{
		Topic:      normalize.Subject{Prominence: 3, Sentiment: -2.5, Present: true},
		Narratives: map[string]normalize.Subject{"Trade": {Prominence: 2, Sentiment: -2, Present: true}},
		Entities:   map[string]normalize.Subject{"BMW": {Prominence: 3, Sentiment: -2, Present: true}},
		OutletTier: 4,
	}
	rc := RowClassification{
		TopicState:      classify.StateHighRisk,
		NarrativeStates: map[string]classify.State{"Trade": classify.StateAmbientRisk},
		EntityStates:    map[string]classify.State{"BMW": classify.StateUnderFire},
		EntityModifiers: map[string]string{"BMW": "Takedown"},
		Central:         classify.CentralNarrative{Key: "Trade", Prominence: 2, Sentiment: -2, Found: true},
	}
	vr := AnnotatePass1Row(&row, b, rf, rc, 2.0)
	if !vr.IsValid {
		t.Fatalf("expected valid row, got notes %v", vr.Notes)
	}
	if got := row.Get("Entity_BMW_Modifier"); got != "Takedown" {
		t.Fatalf("Entity_BMW_Modifier = %q, want Takedown", got)
	}
	if got := row.Get("Topic_State"); got != "High Risk" {
		t.Fatalf("Topic_State = %q, want High Risk", got)
	}
	if got := row.Get("Central_Narrative_Key"); got != "Trade" {
		t.Fatalf("Central_Narrative_Key = %q, want Trade", got)
	}
	if got := row.Get("tracked_entities_in_article"); got != "1" {
		t.Fatalf("tracked_entities_in_article = %q, want 1", got)
	}
}

func TestPass2Columns_AppendsSignalColumns(t *testing.T) {
	b := &schema.Bindings{
		Entities:   []schema.SubjectBinding{{Key: "BMW", Label: "BMW"}},
		Narratives: []schema.SubjectBinding{{Key: "Trade", Label: "Trade"}},
	}
	cols := Pass2Columns(b)
	want := []string{"Topic_Signals", "Narrative_Trade_Signals", "Entity_BMW_Signals"}
	for _, w := range want {
		found := false
		for _, c := range cols {
			if c == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Pass2Columns missing %q in %v", w, cols)
		}
	}
}
