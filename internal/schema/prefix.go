package schema

import "strings"

type fieldSuffix struct {
	suffix  string
	field   Field
	isSuper bool
}

// knownFieldSuffixes lists the prefix-dialect field tokens in match order.
// "Super_Prominence" must be tried before plain "Prominence" so a header
// like "Entity_BMW_Super_Prominence" isn't mis-split as field "Prominence"
// with name "BMW_Super". The Quality_Score variants absorb the "Qulaity_"
// typo and the lowercase-"score" drift named in spec.md §4.1 rule 2.
var knownFieldSuffixes = []fieldSuffix{
	{"Super_Prominence", FieldProminence, true},
	{"Prominence", FieldProminence, false},
	{"Sentiment", FieldSentiment, false},
	{"Quality_Score", FieldQuality, false},
	{"Quality_score", FieldQuality, false},
	{"Qulaity_Score", FieldQuality, false},
	{"Qulaity_score", FieldQuality, false},
	{"Description", FieldDescription, false},
	{"Modifiers", FieldModifier, false},
	{"Modifier", FieldModifier, false},
	{"State", FieldState, false},
}

// subjectPrefixes maps a recognized prefix-dialect lead token (including its
// known-typo spelling) to the subject kind it introduces.
var subjectPrefixes = []struct {
	prefix string
	kind   string // "entity" or "narrative"
}{
	{"Entity_", "entity"},
	{"Enity_", "entity"}, // spec.md §4.1 rule 2 typo
	{"Narrative_", "narrative"},
	{"Narrtaive_", "narrative"}, // spec.md §4.1 rule 2 typo
}

// parsedPrefixHeader is the result of successfully splitting a prefix-dialect
// header into subject kind, subject name, and field.
type parsedPrefixHeader struct {
	kind    string
	name    string
	field   Field
	isSuper bool
}

// parsePrefixHeader attempts to split header into (kind, name, field) under
// the prefix dialect (spec.md §4.1). Label fields (State/Modifier) never
// tolerate the double-underscore-before-field substitution — only data
// fields do — per the rule-3 cross-entity contamination guard, confirmed by
// the boundary test where "Entity_X__State" must NOT bind.
func parsePrefixHeader(header string) (parsedPrefixHeader, bool) {
	trimmed := strings.TrimRight(header, " \t")

	for _, pfx := range subjectPrefixes {
		if !strings.HasPrefix(trimmed, pfx.prefix) {
			continue
		}
		rest := trimmed[len(pfx.prefix):]

		for _, fs := range knownFieldSuffixes {
			isLabel := fs.field == FieldState || fs.field == FieldModifier

			// Check the double-underscore form first: "_X" is always also a
			// suffix match whenever "__X" is, so testing single-underscore
			// first would swallow the extra underscore into the name
			// (e.g. "BMW_" instead of "BMW") and never let this tolerance
			// fire cleanly.
			if !isLabel && strings.HasSuffix(rest, "__"+fs.suffix) {
				name := strings.TrimSuffix(rest, "__"+fs.suffix)
				if name == "" {
					continue
				}
				return parsedPrefixHeader{kind: pfx.kind, name: name, field: fs.field, isSuper: fs.isSuper}, true
			}
			if strings.HasSuffix(rest, "_"+fs.suffix) {
				name := strings.TrimSuffix(rest, "_"+fs.suffix)
				if name == "" {
					continue
				}
				if isLabel && strings.HasSuffix(name, "_") {
					return parsedPrefixHeader{}, false
				}
				return parsedPrefixHeader{kind: pfx.kind, name: name, field: fs.field, isSuper: fs.isSuper}, true
			}
		}
	}
	return parsedPrefixHeader{}, false
}

// expectedPrefixHeader reconstructs the canonical prefix-dialect header name
// for a (kind, name, field) triple, used as the fuzzy-match target when a
// required data field wasn't found by exact/typo matching.
func expectedPrefixHeader(kind, name string, field Field) string {
	lead := "Entity_"
	if kind == "narrative" {
		lead = "Narrative_"
	}
	var suffix string
	switch field {
	case FieldProminence:
		suffix = "Prominence"
	case FieldSentiment:
		suffix = "Sentiment"
	case FieldDescription:
		suffix = "Description"
	case FieldQuality:
		suffix = "Quality_Score"
	case FieldState:
		suffix = "State"
	case FieldModifier:
		suffix = "Modifier"
	}
	return lead + name + "_" + suffix
}
