package window

import (
	"testing"
	"time"

	"github.com/yourorg/md-spec-tool/internal/normalize"
)

func TestBounds_InclusiveThirtyDayWindows(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	current, prior := Bounds(asOf, 30)

	wantCurrentStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !current.Start.Equal(wantCurrentStart) {
		t.Fatalf("current.Start = %v, want %v", current.Start, wantCurrentStart)
	}
	if !current.End.Equal(asOf) {
		t.Fatalf("current.End = %v, want %v", current.End, asOf)
	}

	wantPriorEnd := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	if !prior.End.Equal(wantPriorEnd) {
		t.Fatalf("prior.End = %v, want %v", prior.End, wantPriorEnd)
	}
	wantPriorStart := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	if !prior.Start.Equal(wantPriorStart) {
		t.Fatalf("prior.Start = %v, want %v", prior.Start, wantPriorStart)
	}
}

func TestSplit_ExcludesUnparseableDates(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	rows := []normalize.RowFeatures{
		{Date: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), DateOK: true},
		{Date: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), DateOK: true},
		{DateOK: false},
	}
	cur, prior := Split(rows, asOf, 30)
	if len(cur) != 1 || cur[0] != 0 {
		t.Fatalf("current indices = %v, want [0]", cur)
	}
	if len(prior) != 1 || prior[0] != 1 {
		t.Fatalf("prior indices = %v, want [1]", prior)
	}
}

func TestMaxDate(t *testing.T) {
	rows := []normalize.RowFeatures{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DateOK: true},
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), DateOK: true},
		{DateOK: false},
	}
	max, ok := MaxDate(rows)
	if !ok {
		t.Fatal("expected a max date to be found")
	}
	if !max.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("MaxDate = %v, want 2024-03-01", max)
	}
}
