package normalize

import (
	"testing"

	"github.com/yourorg/md-spec-tool/internal/schema"
	"github.com/yourorg/md-spec-tool/internal/table"
)

func TestGatedSentiment(t *testing.T) {
	cases := []struct {
		raw     float64
		present bool
		want    float64
	}{
		{0.6, true, 1},
		{-0.6, true, -1},
		{0, true, 0},
		{2.5, true, 2.5},
		{-3.0, true, -3.0},
		{3.0, false, 0}, // gated: absent subject's sentiment forced to 0
		{-0.4, false, 0},
	}
	for _, c := range cases {
		got := GatedSentiment(c.raw, c.present)
		if got != c.want {
			t.Errorf("GatedSentiment(%v, %v) = %v, want %v", c.raw, c.present, got, c.want)
		}
	}
}

func TestParseDate_AcceptedLayouts(t *testing.T) {
	for _, cell := range []string{"2024-03-05", "3/5/2024", "3/5/24"} {
		if _, ok := ParseDate(cell); !ok {
			t.Errorf("ParseDate(%q) failed to parse", cell)
		}
	}
	if _, ok := ParseDate("not-a-date"); ok {
		t.Error("ParseDate should reject garbage input")
	}
	if _, ok := ParseDate(""); ok {
		t.Error("ParseDate should reject empty input")
	}
}

func TestRow_PresenceAndGating(t *testing.T) {
	headers := []string{"Date", "Outlet score", "Entity_BMW_Prominence", "Entity_BMW_Sentiment", "Topic_Prominence", "Topic_Sentiment"}
	b, err := schema.Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	row := table.NewRow([]string{"2024-01-15", "4", "0", "-2.5", "3.0", "1.0"})
	rf := Row(row, b)

	bmw := rf.Entities["BMW"]
	if bmw.Present {
		t.Fatal("entity with prominence 0 should not be present")
	}
	if bmw.Sentiment != 0 {
		t.Fatalf("gated sentiment should be 0 for absent entity, got %v", bmw.Sentiment)
	}
	if rf.Topic.Sentiment != 1 {
		t.Fatalf("topic sentiment should weak-collapse to 1, got %v", rf.Topic.Sentiment)
	}
	if rf.OutletTier != 4 {
		t.Fatalf("outlet tier = %d, want 4", rf.OutletTier)
	}
	if !rf.DateOK {
		t.Fatal("expected date to parse")
	}
}
