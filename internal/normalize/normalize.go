// Package normalize type-coerces raw CSV cells into the numeric subject
// features (presence, gated sentiment) every later pipeline stage consumes,
// per spec.md §4.2. Rows are read-only inputs here; the RowFeatures this
// package produces are a derived, parallel structure — spec.md §3's
// "Rows are immutable after Row Normalizer annotates them" is honored by
// never writing back into table.Row.Cells.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/yourorg/md-spec-tool/internal/schema"
	"github.com/yourorg/md-spec-tool/internal/table"
)

// Subject holds one subject's (topic, narrative, or entity) per-row
// features after numeric coercion, presence derivation, and sentiment
// weak-collapse/gating (spec.md §3).
type Subject struct {
	Key          string
	Label        string
	Prominence   float64 // raw, coerced; 0 if missing/non-numeric
	RawSentiment float64 // coerced, pre-collapse, pre-gate
	Sentiment    float64 // weak-collapsed and presence-gated
	Present      bool
	Quality      float64
	HasQuality   bool
	State        string // pre-existing state, if the input row carried one
}

// RowFeatures is the Row Normalizer's output for a single row: every
// subject's coerced numeric features plus the row-level fields the later
// stages (State/Modifier Classifier, Window Engine) need.
type RowFeatures struct {
	Topic       Subject
	Narratives  map[string]Subject // keyed by schema.SubjectBinding.Key
	Entities    map[string]Subject
	OutletTier  int
	BodyLength  int
	Date        time.Time
	DateOK      bool
	Publication string
}

// TrackedEntityCount returns the number of entities bound by the schema,
// i.e. spec.md §3's tracked_count.
func (rf RowFeatures) TrackedEntityCount() int { return len(rf.Entities) }

// ProminentEntityCount returns the number of entities with prominence >=
// floor (spec.md §3's prominent_count, floor fixed at 2.0).
func (rf RowFeatures) ProminentEntityCount(floor float64) int {
	n := 0
	for _, e := range rf.Entities {
		if e.Prominence >= floor {
			n++
		}
	}
	return n
}

// MaxNarrativeProminence returns the largest narrative prominence on the
// row, used by the entity Off-Stage/Absent split (spec.md §4.3).
func (rf RowFeatures) MaxNarrativeProminence() float64 {
	max := 0.0
	for _, n := range rf.Narratives {
		if n.Prominence > max {
			max = n.Prominence
		}
	}
	return max
}

// Row normalizes a single table row against the resolved schema bindings.
func Row(r table.Row, b *schema.Bindings) RowFeatures {
	rf := RowFeatures{
		Narratives: make(map[string]Subject, len(b.Narratives)),
		Entities:   make(map[string]Subject, len(b.Entities)),
	}

	rf.Topic = subjectFromCols(r, "topic", "Topic", b.TopicProminenceCol, b.TopicSentimentCol, -1)

	for _, nb := range b.Narratives {
		rf.Narratives[nb.Key] = subjectFromBinding(r, nb)
	}
	for _, eb := range b.Entities {
		rf.Entities[eb.Key] = subjectFromBinding(r, eb)
	}

	rf.OutletTier = int(coerceFloat(r.Cell(b.OutletTierCol)))
	rf.BodyLength = int(coerceFloat(r.Cell(b.BodyLengthCol)))
	if b.PublicationCol >= 0 {
		rf.Publication = norm.NFC.String(strings.TrimSpace(r.Cell(b.PublicationCol)))
	}
	rf.Date, rf.DateOK = ParseDate(r.Cell(b.DateCol))

	return rf
}

func subjectFromBinding(r table.Row, sb schema.SubjectBinding) Subject {
	s := subjectFromCols(r, sb.Key, sb.Label, sb.Col(schema.FieldProminence), sb.Col(schema.FieldSentiment), sb.Col(schema.FieldQuality))
	if sb.HasField(schema.FieldState) {
		s.State = strings.TrimSpace(r.Cell(sb.Col(schema.FieldState)))
	}
	return s
}

func subjectFromCols(r table.Row, key, label string, promCol, sentCol, qualCol int) Subject {
	s := Subject{Key: key, Label: label}
	if promCol >= 0 {
		s.Prominence = coerceFloat(r.Cell(promCol))
	}
	s.Present = s.Prominence > 0
	if sentCol >= 0 {
		s.RawSentiment = coerceFloat(r.Cell(sentCol))
	}
	s.Sentiment = GatedSentiment(s.RawSentiment, s.Present)
	if qualCol >= 0 {
		q := coerceFloat(r.Cell(qualCol))
		s.Quality = q
		s.HasQuality = true
	}
	return s
}

// coerceFloat type-coerces a cell value to float64, defaulting non-numeric
// or empty cells to 0.0 (spec.md §4.2's numeric coercion rule).
func coerceFloat(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return v
}

// WeakCollapse applies spec.md §3's weak-collapse rule to a raw sentiment
// value: (0, 1] -> +1, [-1, 0) -> -1, exact 0 -> 0, otherwise unchanged.
func WeakCollapse(raw float64) float64 {
	switch {
	case raw > 0 && raw <= 1:
		return 1
	case raw < 0 && raw >= -1:
		return -1
	default:
		return raw
	}
}

// GatedSentiment applies the weak-collapse rule and then spec.md §3's
// gating rule: sentiment is forced to 0 whenever the subject isn't present,
// regardless of the (possibly nonzero) raw value.
func GatedSentiment(raw float64, present bool) float64 {
	if !present {
		return 0
	}
	return WeakCollapse(raw)
}

// acceptedDateLayouts lists the formats spec.md §4.5 requires the Window
// Engine's date parser to try, in order, before falling back to Go's more
// permissive layouts.
var acceptedDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate tries the accepted date layouts in order, returning ok=false if
// none parse — spec.md §4.5's "Rows with unparseable dates are excluded
// from windowed aggregations but still receive article-level signals".
func ParseDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
