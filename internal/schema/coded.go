package schema

import (
	"regexp"
	"strconv"
)

var (
	codedEntityRe    = regexp.MustCompile(`^(\d+)_(.+?)\s*-\s*Company-Level\s+(Prominence|Sentiment|Description|Quality_Score|Quality_score|State|Modifier|Modifiers)\s*$`)
	codedNarrativeRe = regexp.MustCompile(`^O_Overall\s*-\s*Message\s+(\d+)\s+(Prominence|Sentiment|Description|Quality_Score|State|Modifier|Modifiers)\s*(?:\(([^)]*)\))?\s*$`)
	codedTopicRe     = regexp.MustCompile(`^O_Overall\s*-\s*Overall-Level\s+(Prominence|Sentiment)\s*$`)
	shorthandNarrRe  = regexp.MustCompile(`^O_M_(\d+)(prom|sent)$`)
	shorthandEntRe   = regexp.MustCompile(`^(\d+)_C_(Prom|Sent|State|Modifier)$`)
	shorthandEntQual = regexp.MustCompile(`^(\d+)_Orchestra_Quality_Score$`)
)

func codedFieldFromToken(tok string) Field {
	switch tok {
	case "Prominence":
		return FieldProminence
	case "Sentiment":
		return FieldSentiment
	case "Description":
		return FieldDescription
	case "Quality_Score", "Quality_score":
		return FieldQuality
	case "State":
		return FieldState
	case "Modifier", "Modifiers":
		return FieldModifier
	}
	return ""
}

type parsedCodedHeader struct {
	kind  string // "entity", "narrative", "topic"
	key   string // numeric id as string
	name  string // entity display name, if the coded header carried one
	field Field
}

// parseCodedHeader attempts to split header under the coded dialect
// (spec.md §4.1): long-form "<k>_<Name> - Company-Level <Field>" for
// entities, "O_Overall - Message <k> <Field> (<Description>)" for
// narratives, "O_Overall - Overall-Level {Prominence,Sentiment}" for the
// topic, and the abbreviated Pass-2 shorthand forms
// (O_M_<k>prom/sent, <k>_C_Prom/Sent/State/Modifier,
// <k>_Orchestra_Quality_Score) confirmed by original_source's
// orchestra_signals_engine.py column-discovery regexes.
func parseCodedHeader(header string) (parsedCodedHeader, bool) {
	if m := codedTopicRe.FindStringSubmatch(header); m != nil {
		return parsedCodedHeader{kind: "topic", field: codedFieldFromToken(m[1])}, true
	}
	if m := codedEntityRe.FindStringSubmatch(header); m != nil {
		return parsedCodedHeader{kind: "entity", key: m[1], name: m[2], field: codedFieldFromToken(m[3])}, true
	}
	if m := codedNarrativeRe.FindStringSubmatch(header); m != nil {
		name := m[3]
		return parsedCodedHeader{kind: "narrative", key: m[1], name: name, field: codedFieldFromToken(m[2])}, true
	}
	if m := shorthandNarrRe.FindStringSubmatch(header); m != nil {
		field := FieldProminence
		if m[2] == "sent" {
			field = FieldSentiment
		}
		return parsedCodedHeader{kind: "narrative", key: m[1], field: field}, true
	}
	if m := shorthandEntRe.FindStringSubmatch(header); m != nil {
		var field Field
		switch m[2] {
		case "Prom":
			field = FieldProminence
		case "Sent":
			field = FieldSentiment
		case "State":
			field = FieldState
		case "Modifier":
			field = FieldModifier
		}
		return parsedCodedHeader{kind: "entity", key: m[1], field: field}, true
	}
	if m := shorthandEntQual.FindStringSubmatch(header); m != nil {
		return parsedCodedHeader{kind: "entity", key: m[1], field: FieldQuality}, true
	}
	return parsedCodedHeader{}, false
}

// codedKeyOrder sorts a set of discovered coded numeric keys in natural
// numeric order, matching original_source's sorted(entity_ids)/
// sorted(narrative_ids) discovery ordering.
func codedKeyOrder(keys []string) []string {
	out := append([]string(nil), keys...)
	less := func(i, j int) bool {
		ni, _ := strconv.Atoi(out[i])
		nj, _ := strconv.Atoi(out[j])
		return ni < nj
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
