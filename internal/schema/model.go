// Package schema discovers entities and narratives from a table's column
// headers and produces a validated, canonical mapping from logical fields
// (prominence, sentiment, description, quality score, state, modifier) to
// physical column indices. It tolerates two header-naming dialects, known
// typos, and (for data columns only) fuzzy near-misses. See spec.md §4.1.
package schema

import (
	"fmt"
	"strings"
)

// Field identifies one of the logical slots a subject (topic, narrative, or
// entity) can bind a physical column to.
type Field string

const (
	FieldProminence  Field = "prominence"
	FieldSentiment   Field = "sentiment"
	FieldDescription Field = "description"
	FieldQuality     Field = "quality_score"
	FieldState       Field = "state"
	FieldModifier    Field = "modifier"
)

// dataFields are eligible for fuzzy matching (spec.md §4.1 rule 3).
// FieldState and FieldModifier are deliberately excluded — binding those via
// fuzzy match risks cross-entity contamination, per the same rule and the
// §9 "Cross-entity contamination guard" design note.
var dataFields = map[Field]bool{
	FieldProminence:  true,
	FieldSentiment:   true,
	FieldDescription: true,
	FieldQuality:     true,
}

// Dialect names the header-naming convention a column set was detected under.
type Dialect string

const (
	DialectPrefix Dialect = "prefix"
	DialectCoded  Dialect = "coded"
	DialectMixed  Dialect = "mixed"
)

// SubjectBinding holds the physical column index (into the source Table's
// Headers) for each logical field discovered for one entity or narrative.
// A zero value (absent key) means the field was not bound.
type SubjectBinding struct {
	Key     string // stable discovery key: entity/narrative name, or coded numeric id
	Label   string // human-readable label for reports (name if known, else Key)
	Columns map[Field]int
}

// HasField reports whether a logical field was bound to a physical column.
func (b SubjectBinding) HasField(f Field) bool {
	_, ok := b.Columns[f]
	return ok
}

// Col returns the physical column index bound to field f, or -1.
func (b SubjectBinding) Col(f Field) int {
	if idx, ok := b.Columns[f]; ok {
		return idx
	}
	return -1
}

// Bindings is the Schema Resolver's output: every canonical field→column
// binding needed to run the rest of the pipeline, plus a human-readable
// preview of what was discovered and tolerated.
type Bindings struct {
	Dialect Dialect

	TopicProminenceCol int
	TopicSentimentCol  int
	OutletTierCol      int
	BodyLengthCol      int // -1 if absent; only used by the Validator
	DateCol            int
	PublicationCol     int

	Entities   []SubjectBinding
	Narratives []SubjectBinding

	// NarrativeTiePrecedence lists narrative keys in stable discovery order,
	// used by the central-narrative tie-break (spec.md §4.4).
	NarrativeTiePrecedence []string

	Warnings        []string
	UnmappedColumns []string
	Preview         string
}

// EntityByKey looks up a discovered entity binding by its key.
func (b *Bindings) EntityByKey(key string) (SubjectBinding, bool) {
	for _, e := range b.Entities {
		if e.Key == key {
			return e, true
		}
	}
	return SubjectBinding{}, false
}

// NarrativeByKey looks up a discovered narrative binding by its key.
func (b *Bindings) NarrativeByKey(key string) (SubjectBinding, bool) {
	for _, n := range b.Narratives {
		if n.Key == key {
			return n, true
		}
	}
	return SubjectBinding{}, false
}

// SchemaError is the only fatal error the core produces (spec.md §7): one or
// more required bindings could not be resolved from the header list.
type SchemaError struct {
	Missing []string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(
		"schema resolution failed: missing required field(s) [%s]; available columns: [%s]",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Columns, ", "),
	)
}
