package schema

import "testing"

func baseHeaders(extra ...string) []string {
	h := []string{"Date", "Publication", "Topic_Prominence", "Topic_Sentiment"}
	return append(h, extra...)
}

func TestResolve_PrefixDialectBasic(t *testing.T) {
	headers := baseHeaders("Entity_BMW_Prominence", "Entity_BMW_Sentiment", "Entity_BMW_State", "Entity_BMW_Modifier")
	b, err := Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.Dialect != DialectPrefix {
		t.Fatalf("dialect = %v, want prefix", b.Dialect)
	}
	e, ok := b.EntityByKey("BMW")
	if !ok {
		t.Fatal("entity BMW not discovered")
	}
	if !e.HasField(FieldProminence) || !e.HasField(FieldSentiment) || !e.HasField(FieldState) || !e.HasField(FieldModifier) {
		t.Fatalf("entity BMW missing fields: %+v", e.Columns)
	}
}

func TestResolve_KnownTypoSubstitution(t *testing.T) {
	headers := baseHeaders("Enity_BMW_Prominence", "Enity_BMW_Sentiment", "Entity_BMW_Qulaity_Score")
	b, err := Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	e, ok := b.EntityByKey("BMW")
	if !ok {
		t.Fatal("entity BMW not discovered despite Enity_ typo")
	}
	if !e.HasField(FieldQuality) {
		t.Fatal("Qulaity_Score typo not bound to quality_score field")
	}
}

func TestResolve_DoubleUnderscoreStateDoesNotBind(t *testing.T) {
	// "Entity_BMW__State" must NOT bind via the double-underscore tolerance:
	// that tolerance is restricted to data fields only (spec.md §4.1 rule 3's
	// cross-entity contamination guard).
	headers := baseHeaders("Entity_BMW_Prominence", "Entity_BMW_Sentiment", "Entity_BMW__State")
	b, err := Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	e, ok := b.EntityByKey("BMW")
	if !ok {
		t.Fatal("entity BMW not discovered")
	}
	if e.HasField(FieldState) {
		t.Fatal("Entity_BMW__State must not bind to the state field")
	}
	found := false
	for _, u := range b.UnmappedColumns {
		if u == "Entity_BMW__State" {
			found = true
		}
	}
	if !found {
		t.Fatal("Entity_BMW__State should remain unmapped")
	}
}

func TestResolve_DoubleUnderscoreDataFieldBinds(t *testing.T) {
	headers := baseHeaders("Entity_BMW__Prominence", "Entity_BMW_Sentiment")
	b, err := Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	e, ok := b.EntityByKey("BMW")
	if !ok {
		t.Fatal("entity BMW not discovered")
	}
	if !e.HasField(FieldProminence) {
		t.Fatal("double-underscore tolerance should bind a data field like Prominence")
	}
}

func TestResolve_FuzzyMatchDataColumnOnly(t *testing.T) {
	// "Entity_BMW_Prominense" (misspelled, not a known typo) should still
	// resolve via fuzzy match since its similarity to "Entity_BMW_Prominence"
	// clears the 0.8 threshold.
	headers := baseHeaders("Entity_BMW_Prominense", "Entity_BMW_Sentiment")
	b, err := Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	e, ok := b.EntityByKey("BMW")
	if !ok {
		t.Fatal("entity BMW not discovered")
	}
	if !e.HasField(FieldProminence) {
		t.Fatal("misspelled prominence column should resolve via fuzzy match")
	}
	if !e.HasField(FieldSentiment) {
		t.Fatal("sentiment should resolve normally")
	}
}

func TestResolve_CodedDialect(t *testing.T) {
	headers := baseHeaders(
		"1_BMW - Company-Level Prominence",
		"1_BMW - Company-Level Sentiment",
		"O_Overall - Message 1 Prominence (Supply chain risk)",
		"O_Overall - Message 1 Sentiment (Supply chain risk)",
	)
	b, err := Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.Dialect != DialectCoded {
		t.Fatalf("dialect = %v, want coded", b.Dialect)
	}
	e, ok := b.EntityByKey("1")
	if !ok {
		t.Fatal("coded entity 1 not discovered")
	}
	if e.Label != "BMW" {
		t.Fatalf("entity label = %q, want BMW", e.Label)
	}
	n, ok := b.NarrativeByKey("1")
	if !ok {
		t.Fatal("coded narrative 1 not discovered")
	}
	if n.Label != "Supply chain risk" {
		t.Fatalf("narrative label = %q, want %q", n.Label, "Supply chain risk")
	}
}

func TestResolve_CodedShorthand(t *testing.T) {
	headers := baseHeaders("O_M_2prom", "O_M_2sent", "2_C_Prom", "2_C_Sent", "2_C_State", "2_C_Modifier", "2_Orchestra_Quality_Score")
	b, err := Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	n, ok := b.NarrativeByKey("2")
	if !ok {
		t.Fatal("narrative 2 not discovered from shorthand")
	}
	if !n.HasField(FieldProminence) || !n.HasField(FieldSentiment) {
		t.Fatal("narrative shorthand prominence/sentiment not bound")
	}
	e, ok := b.EntityByKey("2")
	if !ok {
		t.Fatal("entity 2 not discovered from shorthand")
	}
	for _, f := range []Field{FieldProminence, FieldSentiment, FieldState, FieldModifier, FieldQuality} {
		if !e.HasField(f) {
			t.Fatalf("entity 2 missing shorthand field %v", f)
		}
	}
}

func TestResolve_TopicFallsBackToFirstEntity(t *testing.T) {
	headers := []string{
		"Date", "Publication",
		"Entity_BMW_Prominence", "Entity_BMW_Sentiment",
	}
	b, err := Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.TopicProminenceCol < 0 || b.TopicSentimentCol < 0 {
		t.Fatal("topic columns should fall back to the first entity's columns")
	}
	foundWarning := false
	for _, w := range b.Warnings {
		if w != "" {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatal("expected a fallback warning to be recorded")
	}
}

func TestResolve_MissingRequiredFieldsProducesSchemaError(t *testing.T) {
	headers := []string{"Some_Unrelated_Column"}
	_, err := Resolve(headers)
	if err == nil {
		t.Fatal("expected SchemaError, got nil")
	}
	se, ok := err.(*SchemaError)
	if !ok {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	if len(se.Missing) == 0 {
		t.Fatal("expected at least one missing field listed")
	}
}

func TestResolve_OutletTierDualNameAcceptance(t *testing.T) {
	for _, name := range []string{"Outlet score", "Orchestra_Pub_Tier"} {
		headers := baseHeaders("Entity_BMW_Prominence", "Entity_BMW_Sentiment", name)
		b, err := Resolve(headers)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", name, err)
		}
		if b.OutletTierCol < 0 {
			t.Fatalf("outlet tier column %q was not recognized", name)
		}
	}
}
