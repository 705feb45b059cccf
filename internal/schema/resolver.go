package schema

import (
	"strings"
)

// auxColumn describes a single non-subject column the resolver must locate:
// the shared topic prominence/sentiment pair, the outlet tier, the
// publication date, the publication/outlet name, and (optionally) a body
// length column used only by the Validator's range checks.
type auxColumn struct {
	target    *int
	label     string
	exact     []string // case-insensitive exact candidates, tried in order
	required  bool
	fieldKind Field // for fuzzy fallback bookkeeping only; "" if not data-like
}

// Resolve discovers entities, narratives, and shared columns from headers
// and produces a validated Bindings, implementing the full cascade of
// spec.md §4.1: exact match, then known-typo substitution (folded into the
// prefix/coded parsers themselves), then fuzzy match at >=0.8 similarity
// for data columns only, then the topic->first-entity fallback, then a
// SchemaError if anything required remains unbound.
func Resolve(headers []string) (*Bindings, error) {
	b := &Bindings{
		TopicProminenceCol: -1,
		TopicSentimentCol:  -1,
		OutletTierCol:      -1,
		BodyLengthCol:      -1,
		DateCol:            -1,
		PublicationCol:     -1,
	}

	entityIdx := map[string]int{}  // key -> index into b.Entities
	narrIdx := map[string]int{}    // key -> index into b.Narratives
	claimed := make([]bool, len(headers))

	sawPrefix := false
	sawCoded := false

	// superBoundProm tracks, per "kind:key" subject, whether its prominence
	// column was already bound from a Super_Prominence header — spec.md
	// §4.1's "Super_Prominence variant preferred over Prominence when both
	// present" must hold regardless of which header appears first in the
	// column order.
	superBoundProm := map[string]bool{}

	bindingFor := func(kind, key, label string) *SubjectBinding {
		if kind == "entity" {
			if i, ok := entityIdx[key]; ok {
				return &b.Entities[i]
			}
			b.Entities = append(b.Entities, SubjectBinding{Key: key, Label: label, Columns: map[Field]int{}})
			entityIdx[key] = len(b.Entities) - 1
			return &b.Entities[len(b.Entities)-1]
		}
		if i, ok := narrIdx[key]; ok {
			return &b.Narratives[i]
		}
		b.Narratives = append(b.Narratives, SubjectBinding{Key: key, Label: label, Columns: map[Field]int{}})
		narrIdx[key] = len(b.Narratives) - 1
		b.NarrativeTiePrecedence = append(b.NarrativeTiePrecedence, key)
		return &b.Narratives[len(b.Narratives)-1]
	}

	// Pass 1: prefix dialect and coded dialect, both tolerate their own
	// known-typo substitutions internally.
	for i, h := range headers {
		if pp, ok := parsePrefixHeader(h); ok {
			sawPrefix = true
			sb := bindingFor(pp.kind, pp.name, pp.name)
			if pp.field == FieldProminence {
				subjKey := pp.kind + ":" + pp.name
				if superBoundProm[subjKey] && !pp.isSuper {
					claimed[i] = true
					continue
				}
				if pp.isSuper {
					superBoundProm[subjKey] = true
				}
			}
			sb.Columns[pp.field] = i
			claimed[i] = true
			continue
		}
		if cp, ok := parseCodedHeader(h); ok {
			switch cp.kind {
			case "topic":
				if cp.field == FieldProminence {
					b.TopicProminenceCol = i
				} else if cp.field == FieldSentiment {
					b.TopicSentimentCol = i
				}
				claimed[i] = true
			case "entity":
				sawCoded = true
				label := cp.name
				if label == "" {
					label = "entity_" + cp.key
				}
				sb := bindingFor("entity", cp.key, label)
				sb.Columns[cp.field] = i
				claimed[i] = true
			case "narrative":
				sawCoded = true
				label := cp.name
				if label == "" {
					label = "narrative_" + cp.key
				}
				sb := bindingFor("narrative", cp.key, label)
				sb.Columns[cp.field] = i
				claimed[i] = true
			}
		}
	}

	switch {
	case sawPrefix && sawCoded:
		b.Dialect = DialectMixed
	case sawCoded:
		b.Dialect = DialectCoded
	default:
		b.Dialect = DialectPrefix
	}

	// Pass 2: shared, non-subject columns by exact (case-insensitive) name.
	aux := []auxColumn{
		{&b.TopicProminenceCol, "topic prominence", []string{"Topic_Prominence", "Topic Prominence"}, true, FieldProminence},
		{&b.TopicSentimentCol, "topic sentiment", []string{"Topic_Sentiment", "Topic Sentiment"}, true, FieldSentiment},
		{&b.OutletTierCol, "outlet tier", []string{"Outlet score", "Outlet_Score", "Orchestra_Pub_Tier", "Outlet Tier"}, false, ""},
		{&b.DateCol, "date", []string{"Date", "Publication_Date", "Pub_Date"}, true, ""},
		{&b.PublicationCol, "publication", []string{"Publication", "Outlet", "Outlet_Name", "Source"}, false, ""},
		{&b.BodyLengthCol, "body length", []string{"Body_Length", "Word_Count", "Article_Length"}, false, ""},
	}
	for _, a := range aux {
		if *a.target >= 0 {
			continue
		}
		for i, h := range headers {
			if claimed[i] {
				continue
			}
			for _, cand := range a.exact {
				if strings.EqualFold(strings.TrimSpace(h), cand) {
					*a.target = i
					claimed[i] = true
					break
				}
			}
			if *a.target >= 0 {
				break
			}
		}
	}

	// Pass 3: fuzzy match any still-unresolved aux data column against the
	// remaining unclaimed headers (data columns only — Date/Publication are
	// structural, not data, so they stay exact-only per rule 3's guard).
	for _, a := range aux {
		if *a.target >= 0 || a.fieldKind == "" {
			continue
		}
		var remaining []string
		var remainingIdx []int
		for i, h := range headers {
			if claimed[i] {
				continue
			}
			remaining = append(remaining, h)
			remainingIdx = append(remainingIdx, i)
		}
		if idx, ok := bestFuzzyMatch(a.exact[0], remaining); ok {
			col := remainingIdx[idx]
			*a.target = col
			claimed[col] = true
			b.Warnings = append(b.Warnings, "fuzzy-matched "+a.label+" to column \""+headers[col]+"\"")
		}
	}

	// Pass 4: fuzzy match missing data fields on already-discovered subjects
	// (e.g. an entity whose Sentiment column is misspelled beyond the known
	// typo list) against still-unclaimed columns, data fields only.
	resolveSubjectFuzzy := func(subjects []SubjectBinding, kind string) {
		for si := range subjects {
			sb := &subjects[si]
			for f := range dataFields {
				if sb.HasField(f) {
					continue
				}
				var remaining []string
				var remainingIdx []int
				for i, h := range headers {
					if claimed[i] {
						continue
					}
					remaining = append(remaining, h)
					remainingIdx = append(remainingIdx, i)
				}
				target := expectedPrefixHeader(kind, sb.Label, f)
				if idx, ok := bestFuzzyMatch(target, remaining); ok {
					col := remainingIdx[idx]
					sb.Columns[f] = col
					claimed[col] = true
					b.Warnings = append(b.Warnings, "fuzzy-matched "+kind+" \""+sb.Label+"\" "+string(f)+" to column \""+headers[col]+"\"")
				}
			}
		}
	}
	resolveSubjectFuzzy(b.Entities, "entity")
	resolveSubjectFuzzy(b.Narratives, "narrative")

	// Pass 5: topic prominence/sentiment fall back to the first discovered
	// entity's columns, with a warning, when no dedicated topic column
	// exists — spec.md §4.1's topic fallback rule.
	if len(b.Entities) > 0 {
		first := b.Entities[0]
		if b.TopicProminenceCol < 0 && first.HasField(FieldProminence) {
			b.TopicProminenceCol = first.Col(FieldProminence)
			b.Warnings = append(b.Warnings, "no dedicated topic prominence column found; falling back to entity \""+first.Label+"\"")
		}
		if b.TopicSentimentCol < 0 && first.HasField(FieldSentiment) {
			b.TopicSentimentCol = first.Col(FieldSentiment)
			b.Warnings = append(b.Warnings, "no dedicated topic sentiment column found; falling back to entity \""+first.Label+"\"")
		}
	}

	// Coded-dialect keys are numeric subject ids; original_source's
	// sorted(entity_ids)/sorted(narrative_ids) discovery order is natural
	// numeric order, not column-appearance order (a header set can list a
	// subject's Sentiment column before its Prominence column). Prefix
	// dialect keys are names and already in first-appearance order from the
	// Pass-1 loop above, which is the discovery order the tie-precedence
	// list is defined over.
	if b.Dialect != DialectPrefix {
		b.NarrativeTiePrecedence = codedKeyOrder(b.NarrativeTiePrecedence)
		reorderSubjectsByKey(b.Entities, codedKeyOrder)
		reorderSubjectsByKey(b.Narratives, codedKeyOrder)
	}

	for i, h := range headers {
		if !claimed[i] {
			b.UnmappedColumns = append(b.UnmappedColumns, h)
		}
	}

	var missing []string
	if b.TopicProminenceCol < 0 {
		missing = append(missing, "topic prominence")
	}
	if b.TopicSentimentCol < 0 {
		missing = append(missing, "topic sentiment")
	}
	if b.DateCol < 0 {
		missing = append(missing, "date")
	}
	if len(b.Entities) == 0 && len(b.Narratives) == 0 {
		missing = append(missing, "at least one entity or narrative")
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Columns: headers}
	}

	b.Preview = buildPreview(b)
	return b, nil
}

// reorderSubjectsByKey permutes subjects in place so its order matches
// orderFn applied to its keys.
func reorderSubjectsByKey(subjects []SubjectBinding, orderFn func([]string) []string) {
	if len(subjects) < 2 {
		return
	}
	keys := make([]string, len(subjects))
	byKey := make(map[string]SubjectBinding, len(subjects))
	for i, s := range subjects {
		keys[i] = s.Key
		byKey[s.Key] = s
	}
	ordered := orderFn(keys)
	for i, k := range ordered {
		subjects[i] = byKey[k]
	}
}

func buildPreview(b *Bindings) string {
	var sb strings.Builder
	sb.WriteString("dialect: ")
	sb.WriteString(string(b.Dialect))
	sb.WriteString("\n")
	for _, e := range b.Entities {
		sb.WriteString("entity \"" + e.Label + "\": ")
		writeFieldList(&sb, e)
		sb.WriteString("\n")
	}
	for _, n := range b.Narratives {
		sb.WriteString("narrative \"" + n.Label + "\": ")
		writeFieldList(&sb, n)
		sb.WriteString("\n")
	}
	for _, w := range b.Warnings {
		sb.WriteString("warning: " + w + "\n")
	}
	return sb.String()
}

func writeFieldList(sb *strings.Builder, s SubjectBinding) {
	first := true
	for _, f := range []Field{FieldProminence, FieldSentiment, FieldDescription, FieldQuality, FieldState, FieldModifier} {
		if !s.HasField(f) {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		sb.WriteString(string(f))
		first = false
	}
}
