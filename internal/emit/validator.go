// Package emit implements spec.md §4.7: per-row range validation plus
// serialization of the annotated table back to CSV. It is the only package
// downstream of the classifiers and Signal Engine that touches output
// column names directly.
package emit

import (
	"strconv"

	"github.com/yourorg/md-spec-tool/internal/config"
	"github.com/yourorg/md-spec-tool/internal/normalize"
)

// ValidationResult is one row's §4.7 validation outcome: the ordered set of
// anomaly notes found (empty if none) and whether the row is valid overall.
type ValidationResult struct {
	Notes   []string
	IsValid bool
}

// ValidateRow runs spec.md §4.7's four range checks against a normalized
// row. None of these are fatal (spec.md §7): a failing row still flows
// through emission with its output columns populated, just flagged.
func ValidateRow(rf normalize.RowFeatures, prominentCount, trackedCount int) ValidationResult {
	var notes []string

	if rf.Topic.Prominence < 0 || rf.Topic.Prominence > 5 {
		notes = append(notes, "topic_prominence_out_of_range")
	}
	if rf.Topic.RawSentiment < -4 || rf.Topic.RawSentiment > 4 {
		notes = append(notes, "topic_sentiment_out_of_range")
	}
	if rf.OutletTier != 0 && (rf.OutletTier < 1 || rf.OutletTier > 5) {
		notes = append(notes, "outlet_score_out_of_range")
	}
	if prominentCount > trackedCount {
		notes = append(notes, "prominent_count_exceeds_tracked")
	}

	return ValidationResult{Notes: notes, IsValid: len(notes) == 0}
}

// FormatFloat renders a float64 the way emitted CSV cells do: fixed,
// minimal trailing zeros trimmed by strconv's 'g'-free %v-equivalent
// behavior via FormatFloat's -1 precision.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatBool renders a presence/validity flag as the lowercase string CSV
// consumers expect ("true"/"false"), matching Go's strconv.ParseBool.
func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}

// FormatInt renders an integer count cell.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// ProminentFloor is spec.md §3's "prominent tracked entity" threshold
// (prominence >= 2.0), re-exported here so callers building ValidateRow's
// prominentCount argument use the same fixed constant the rest of the
// pipeline does.
const ProminentFloor = config.DefaultProminentFloor
