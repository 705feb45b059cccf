// Package pipeline orchestrates the full two-pass diagnostic run spec.md §2
// describes: Schema Resolver -> Row Normalizer -> State Classifier ->
// Modifier Classifier -> (Pass-1 emit) -> Window Engine -> Signal Engine ->
// Validator & Emitter -> (Pass-2 emit). It holds no state of its own beyond
// the Config threaded into every stage (spec.md §9's "Global configuration"
// design note); each Engine call processes one table to completion.
package pipeline

import (
	"fmt"
	"time"

	"github.com/yourorg/md-spec-tool/internal/classify"
	"github.com/yourorg/md-spec-tool/internal/config"
	"github.com/yourorg/md-spec-tool/internal/emit"
	"github.com/yourorg/md-spec-tool/internal/normalize"
	"github.com/yourorg/md-spec-tool/internal/schema"
	"github.com/yourorg/md-spec-tool/internal/signal"
	"github.com/yourorg/md-spec-tool/internal/table"
	"github.com/yourorg/md-spec-tool/internal/window"
)

// Engine runs Pass 1 and Pass 2 against a loaded table. It is built once per
// run from a resolved Config and is safe to reuse across tables since it
// carries no per-run mutable state.
type Engine struct {
	Cfg *config.Config
}

// New builds an Engine bound to cfg.
func New(cfg *config.Config) *Engine {
	return &Engine{Cfg: cfg}
}

// Pass1Result is everything Pass 1 produces for a table: the resolved
// schema bindings, each row's normalized features, its classification, and
// its validation outcome — the full set AnnotatePass1Row/WritePass1 need,
// plus what Pass 2 reuses instead of recomputing.
type Pass1Result struct {
	Bindings    *schema.Bindings
	Rows        []normalize.RowFeatures
	Classified  []emit.RowClassification
	Validations []emit.ValidationResult
}

// RunPass1 implements spec.md §2's first half: Schema Resolver -> Row
// Normalizer -> State Classifier -> Modifier Classifier, annotating t's
// rows in place with every Pass-1 derived column.
func (e *Engine) RunPass1(t *table.Table) (*Pass1Result, error) {
	b, err := schema.Resolve(t.Headers)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}

	rows := make([]normalize.RowFeatures, len(t.Rows))
	classified := make([]emit.RowClassification, len(t.Rows))
	validations := make([]emit.ValidationResult, len(t.Rows))

	for i := range t.Rows {
		rf := normalize.Row(t.Rows[i], b)
		rows[i] = rf

		rc := classifyRow(b, rf)
		classified[i] = rc

		vr := emit.AnnotatePass1Row(&t.Rows[i], b, rf, rc, config.DefaultProminentFloor)
		validations[i] = vr
	}

	return &Pass1Result{Bindings: b, Rows: rows, Classified: classified, Validations: validations}, nil
}

// classifyRow runs the State Classifier (spec.md §4.3) and Modifier
// Classifier (spec.md §4.4) for a single row's topic, narratives, and
// entities, honoring the pre-existing-label preservation policy (spec.md
// §9) and selecting the row's central narrative first since the Off-Stage
// modifier cascade and the Central_Narrative_* output columns both need it.
func classifyRow(b *schema.Bindings, rf normalize.RowFeatures) emit.RowClassification {
	topicState := classify.ResolvePreexisting(rf.Topic.State, func() classify.State {
		return classify.TopicState(rf.Topic.Prominence, rf.Topic.Sentiment)
	})

	narrStates := make(map[string]classify.State, len(rf.Narratives))
	narrFeatures := make(map[string]classify.NarrativeFeatures, len(rf.Narratives))
	for _, nb := range b.Narratives {
		sub := rf.Narratives[nb.Key]
		narrFeatures[nb.Key] = classify.NarrativeFeatures{Prominence: sub.Prominence, Sentiment: sub.Sentiment}
		narrStates[nb.Key] = classify.ResolvePreexisting(sub.State, func() classify.State {
			return classify.NarrativeState(sub.Prominence, sub.Sentiment)
		})
	}

	central := classify.SelectCentralNarrative(narrFeatures, b.NarrativeTiePrecedence)
	maxNarrProm := rf.MaxNarrativeProminence()

	entStates := make(map[string]classify.State, len(rf.Entities))
	entMods := make(map[string]string, len(rf.Entities))
	for _, eb := range b.Entities {
		sub := rf.Entities[eb.Key]
		st := classify.ResolvePreexisting(sub.State, func() classify.State {
			return classify.EntityState(rf.Topic.Prominence, sub.Prominence, sub.Sentiment, maxNarrProm)
		})
		entStates[eb.Key] = st

		peersGE2 := 0
		for _, ob := range b.Entities {
			if ob.Key == eb.Key {
				continue
			}
			if rf.Entities[ob.Key].Prominence >= 2.0 {
				peersGE2++
			}
		}

		entMods[eb.Key] = classify.ClassifyModifier(st, classify.ModifierInputs{
			EntityProm:      sub.Prominence,
			EntitySent:      sub.Sentiment,
			OutletTier:      rf.OutletTier,
			TopicProm:       rf.Topic.Prominence,
			TopicSent:       rf.Topic.Sentiment,
			CentralNarrProm: central.Prominence,
			CentralNarrSent: central.Sentiment,
			PeersGE2:        peersGE2,
		})
	}

	return emit.RowClassification{
		TopicState:      topicState,
		NarrativeStates: narrStates,
		EntityStates:    entStates,
		EntityModifiers: entMods,
		Central:         central,
	}
}

// Pass2Result is everything Pass 2 adds on top of a Pass1Result: the
// current/prior window split and the per-subject signal lists (spec.md
// §4.6), already attached to t's rows as list-valued derived fields.
type Pass2Result struct {
	AsOf              string
	CurrentWindowSize int
	PriorWindowSize   int
}

// RunPass2 implements spec.md §2's second half: Window Engine -> Signal
// Engine -> (annotate). It consumes a Pass1Result rather than recomputing
// it, per spec.md §2's "Pass 2 consumes the Pass-1 output when available,
// else the raw input" — callers that only have raw input should run
// RunPass1 first and feed its result here regardless.
func (e *Engine) RunPass2(t *table.Table, p1 *Pass1Result, asOf *string) (*Pass2Result, error) {
	b := p1.Bindings
	rows := p1.Rows

	if (asOf == nil || *asOf == "") && e.Cfg.HasAsOf {
		cfgAsOf := e.Cfg.AsOf.Format("2006-01-02")
		asOf = &cfgAsOf
	}
	ref, err := resolveAsOf(rows, asOf)
	if err != nil {
		return nil, err
	}

	currentIdx, priorIdx := window.Split(rows, ref, e.Cfg.WindowDays)

	topicSignals := signal.ComputeTopicSignals(rows, currentIdx, priorIdx)

	narrativeOrder := b.NarrativeTiePrecedence
	overlapShare := signal.OverlapShare(rows, currentIdx)
	narrativeSigs := make(map[string]signal.NarrativeSignals, len(narrativeOrder))
	for _, nb := range b.Narratives {
		narrativeSigs[nb.Key] = signal.ComputeNarrativeSignals(rows, nb.Key, currentIdx, priorIdx, overlapShare)
	}

	entityKeys := make([]string, 0, len(b.Entities))
	allModifiers := make(map[string][]string, len(b.Entities))
	for _, eb := range b.Entities {
		entityKeys = append(entityKeys, eb.Key)
		mods := make([]string, len(p1.Classified))
		for i, rc := range p1.Classified {
			mods[i] = rc.EntityModifiers[eb.Key]
		}
		allModifiers[eb.Key] = mods
	}
	narrGain := signal.NarrativeGainMap(rows, narrativeOrder, currentIdx, priorIdx)

	entitySigsByKey := make(map[string][][]string, len(entityKeys))
	for _, ek := range entityKeys {
		entitySigsByKey[ek] = signal.ComputeEntitySignals(rows, ek, entityKeys, narrativeOrder, allModifiers, narrGain, currentIdx, priorIdx, e.Cfg.EntitySignalCap)
	}

	for i := range t.Rows {
		narrativeRowSigs := make(map[string][]string, len(b.Narratives))
		for _, nb := range b.Narratives {
			narrativeRowSigs[nb.Key] = narrativeSigs[nb.Key].ForRow(i)
		}
		entityRowSigs := make(map[string][]string, len(entityKeys))
		for _, ek := range entityKeys {
			entityRowSigs[ek] = entitySigsByKey[ek][i]
		}
		emit.AnnotatePass2Row(&t.Rows[i], b, i, topicSignals.ForRow(i), narrativeRowSigs, entityRowSigs)
	}

	return &Pass2Result{
		AsOf:              ref.Format("2006-01-02"),
		CurrentWindowSize: len(currentIdx),
		PriorWindowSize:   len(priorIdx),
	}, nil
}

// resolveAsOf picks the Window Engine's reference date: an explicit override
// if given, else the maximum parseable date across rows (spec.md §4.5).
func resolveAsOf(rows []normalize.RowFeatures, override *string) (time.Time, error) {
	if override != nil && *override != "" {
		t, ok := normalize.ParseDate(*override)
		if !ok {
			return time.Time{}, fmt.Errorf("as-of date %q did not parse under any accepted layout", *override)
		}
		return t, nil
	}
	t, ok := window.MaxDate(rows)
	if !ok {
		return time.Time{}, fmt.Errorf("no row in the input has a parseable date; as-of must be given explicitly")
	}
	return t, nil
}
