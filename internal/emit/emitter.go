package emit

import (
	"sort"

	"github.com/yourorg/md-spec-tool/internal/classify"
	"github.com/yourorg/md-spec-tool/internal/normalize"
	"github.com/yourorg/md-spec-tool/internal/schema"
	"github.com/yourorg/md-spec-tool/internal/table"
)

// Pass1Columns builds the ordered list of derived columns spec.md §6 lists
// for the Pass-1 output, in a fixed order: per-subject presence/sentiment/
// state, per-entity modifier, the central-narrative trio, the two tracked-
// entity counts, and the validation pair. Column names follow the prefix
// dialect's own naming convention (spec.md §4.1) so a Pass-1 CSV re-fed
// through the Schema Resolver binds its own derived columns cleanly.
func Pass1Columns(b *schema.Bindings) []string {
	var cols []string
	cols = append(cols, "Topic_Present", "Topic_Sentiment_Normalized", "Topic_State")
	for _, n := range b.Narratives {
		cols = append(cols,
			"Narrative_"+n.Label+"_Present",
			"Narrative_"+n.Label+"_Sentiment_Normalized",
			"Narrative_"+n.Label+"_State",
		)
	}
	for _, e := range b.Entities {
		cols = append(cols,
			"Entity_"+e.Label+"_Present",
			"Entity_"+e.Label+"_Sentiment_Normalized",
			"Entity_"+e.Label+"_State",
			"Entity_"+e.Label+"_Modifier",
		)
	}
	cols = append(cols,
		"Central_Narrative_Key",
		"Central_Narrative_Prominence",
		"Central_Narrative_Sentiment",
		"tracked_entities_in_article",
		"prominent_tracked_entities_in_article",
		"validation_notes",
		"is_valid_row",
	)
	return cols
}

// Pass2Columns appends the Signal Engine's list-valued columns to whatever
// Pass1Columns produced, per spec.md §6's Pass-2 output description: "Pass-1
// columns + topic.signals column, per-narrative signals columns, per-entity
// signals columns".
func Pass2Columns(b *schema.Bindings) []string {
	cols := append([]string(nil), Pass1Columns(b)...)
	cols = append(cols, "Topic_Signals")
	for _, n := range b.Narratives {
		cols = append(cols, "Narrative_"+n.Label+"_Signals")
	}
	for _, e := range b.Entities {
		cols = append(cols, "Entity_"+e.Label+"_Signals")
	}
	return cols
}

// RowClassification bundles one row's Pass-1 classifier outputs, keyed by
// subject key, ready for AnnotatePass1Row to flatten onto a table.Row.
type RowClassification struct {
	TopicState      classify.State
	NarrativeStates map[string]classify.State
	EntityStates    map[string]classify.State
	EntityModifiers map[string]string
	Central         classify.CentralNarrative
}

// AnnotatePass1Row writes one row's full set of Pass-1 derived columns onto
// row.Derived, preserving spec.md §3's "Pass 1... never mutate source
// columns" invariant — Cells is untouched; only Derived is written.
func AnnotatePass1Row(row *table.Row, b *schema.Bindings, rf normalize.RowFeatures, rc RowClassification, prominentFloor float64) ValidationResult {
	row.Set("Topic_Present", FormatBool(rf.Topic.Present))
	row.Set("Topic_Sentiment_Normalized", FormatFloat(rf.Topic.Sentiment))
	row.Set("Topic_State", string(rc.TopicState))

	for _, n := range b.Narratives {
		sub := rf.Narratives[n.Key]
		st := rc.NarrativeStates[n.Key]
		row.Set("Narrative_"+n.Label+"_Present", FormatBool(sub.Present))
		row.Set("Narrative_"+n.Label+"_Sentiment_Normalized", FormatFloat(sub.Sentiment))
		row.Set("Narrative_"+n.Label+"_State", string(st))
	}

	trackedCount := rf.TrackedEntityCount()
	prominentCount := rf.ProminentEntityCount(prominentFloor)

	for _, e := range b.Entities {
		sub := rf.Entities[e.Key]
		st := rc.EntityStates[e.Key]
		mod := rc.EntityModifiers[e.Key]
		row.Set("Entity_"+e.Label+"_Present", FormatBool(sub.Present))
		row.Set("Entity_"+e.Label+"_Sentiment_Normalized", FormatFloat(sub.Sentiment))
		row.Set("Entity_"+e.Label+"_State", string(st))
		row.Set("Entity_"+e.Label+"_Modifier", mod)
	}

	row.Set("Central_Narrative_Key", rc.Central.Key)
	row.Set("Central_Narrative_Prominence", FormatFloat(rc.Central.Prominence))
	row.Set("Central_Narrative_Sentiment", FormatFloat(rc.Central.Sentiment))
	row.Set("tracked_entities_in_article", FormatInt(trackedCount))
	row.Set("prominent_tracked_entities_in_article", FormatInt(prominentCount))

	vr := ValidateRow(rf, prominentCount, trackedCount)
	row.Set("validation_notes", joinNotes(vr.Notes))
	row.Set("is_valid_row", FormatBool(vr.IsValid))
	return vr
}

func joinNotes(notes []string) string {
	if len(notes) == 0 {
		return ""
	}
	sorted := append([]string(nil), notes...)
	sort.Strings(sorted)
	out := sorted[0]
	for _, n := range sorted[1:] {
		out += ", " + n
	}
	return out
}

// AnnotatePass2Row appends one row's signal lists onto row.Lists. Signal
// slices are pre-computed by internal/signal over the full table and
// indexed by row position; rowIdx selects this row's slice from each.
func AnnotatePass2Row(row *table.Row, b *schema.Bindings, rowIdx int, topicSignals []string, narrativeSignals map[string][]string, entitySignals map[string][]string) {
	for _, s := range topicSignals {
		row.AppendList("Topic_Signals", s)
	}
	for _, n := range b.Narratives {
		for _, s := range narrativeSignals[n.Key] {
			row.AppendList("Narrative_"+n.Label+"_Signals", s)
		}
	}
	for _, e := range b.Entities {
		for _, s := range entitySignals[e.Key] {
			row.AppendList("Entity_"+e.Label+"_Signals", s)
		}
	}
}

// WritePass1 serializes a fully-annotated table to CSV with Pass1Columns'
// derived fields appended after the original input columns.
func WritePass1(path string, t *table.Table, b *schema.Bindings) error {
	cols := Pass1Columns(b)
	return table.WriteCSV(path, t, cols, func(r table.Row, col string) string {
		return r.Get(col)
	})
}

// WritePass2 serializes a fully-annotated table to CSV with Pass2Columns'
// derived and list-valued fields appended after the original input columns.
// List-valued signal cells are rendered ", "-joined (spec.md §3).
func WritePass2(path string, t *table.Table, b *schema.Bindings) error {
	cols := Pass2Columns(b)
	listCols := map[string]bool{"Topic_Signals": true}
	for _, n := range b.Narratives {
		listCols["Narrative_"+n.Label+"_Signals"] = true
	}
	for _, e := range b.Entities {
		listCols["Entity_"+e.Label+"_Signals"] = true
	}
	return table.WriteCSV(path, t, cols, func(r table.Row, col string) string {
		if listCols[col] {
			return r.JoinedList(col)
		}
		return r.Get(col)
	})
}
