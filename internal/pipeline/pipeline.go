package pipeline

import (
	"context"
	"errors"
	"strings"

	"vqabuild/internal/config"
	"vqabuild/internal/kb"
	"vqabuild/internal/mention"
	"vqabuild/internal/models"
	"vqabuild/internal/parse"
	"vqabuild/internal/sample"
	"vqabuild/internal/util"
)

const (
	StageValidation        = "validation"
	StageSpanDetection     = "span_detection"
	StageDisambiguation    = "disambiguation"
	StageAttributeLookup   = "attribute_lookup"
	StageMentionGeneration = "mention_generation"
	StageSampling          = "sampling"
)

const (
	ReasonMalformedRecord         = "malformed_record"
	ReasonParseFailed             = "parse_failed"
	ReasonNoMentionSpan           = "no_mention_span"
	ReasonNoKBLink                = "no_kb_link"
	ReasonWERAboveThreshold       = "wer_above_threshold"
	ReasonMissingAttributes       = "missing_attributes"
	ReasonNoApplicableMention     = "no_applicable_mention"
	ReasonNoRoleCompatibleMention = "no_role_compatible_mention"
	ReasonNoImageCandidate        = "no_image_candidate"
)

type Options struct {
	WERThreshold     float64
	Seed             int64
	Workers          int
	EntityTypes      map[string]bool
	DependencyLabels map[string]bool
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		WERThreshold:     cfg.WERThreshold,
		Seed:             cfg.RandomSeed,
		Workers:          cfg.Workers,
		EntityTypes:      mention.SetFromList(cfg.EntityTypes, mention.DefaultEntityTypes()),
		DependencyLabels: mention.SetFromList(cfg.DependencyRoles, mention.DefaultDependencyLabels()),
	}
}

func (o Options) withDefaults() Options {
	// Zero is a legal threshold (exact matches only); only a negative value
	// means unset.
	if o.WERThreshold < 0 {
		o.WERThreshold = 0.5
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	return o
}

// Pipeline chains span detection, disambiguation, mention generation and
// sampling over one question at a time. The parser and resource tables are
// shared and read-only; each record only ever produces new derived records.
type Pipeline struct {
	parser parse.Parser
	res    *kb.Resources
	opts   Options
}

func New(parser parse.Parser, res *kb.Resources, opts Options) *Pipeline {
	return &Pipeline{parser: parser, res: res, opts: opts.withDefaults()}
}

// Result is either an emitted record or a discard entry, never both.
type Result struct {
	Record  *models.VisualQuestionRecord
	Discard *models.DiscardEntry
}

func discard(q models.QuestionRecord, stage, reason string) Result {
	return Result{Discard: &models.DiscardEntry{QuestionID: q.ID, Stage: stage, Reason: reason}}
}

// Process runs one question through every stage. Per-record failures of any
// kind become discard entries; only the parser can return an error worth
// logging, and even that is converted to a skip so a batch never aborts on
// one bad record.
func (p *Pipeline) Process(ctx context.Context, q models.QuestionRecord) Result {
	if strings.TrimSpace(q.ID) == "" || strings.TrimSpace(q.InputText) == "" {
		return discard(q, StageValidation, ReasonMalformedRecord)
	}

	tokens, err := p.parser.Parse(ctx, q.InputText)
	if err != nil {
		return discard(q, StageSpanDetection, ReasonParseFailed)
	}
	span, ok := mention.Detect(q.InputText, tokens, mention.DetectorOptions{
		EntityTypes:      p.opts.EntityTypes,
		DependencyLabels: p.opts.DependencyLabels,
	})
	if !ok {
		return discard(q, StageSpanDetection, ReasonNoMentionSpan)
	}

	candidate, ok := kb.Disambiguate(span.EntitySurfaceForm, q.KiltID, p.res.Aliases)
	if !ok {
		return discard(q, StageDisambiguation, ReasonNoKBLink)
	}
	if candidate.MatchScore > p.opts.WERThreshold {
		return discard(q, StageDisambiguation, ReasonWERAboveThreshold)
	}

	entityID := q.WikidataID
	if entityID == "" {
		entityID = candidate.EntityID
	}
	attrs, ok := p.res.AttributesFor(entityID)
	if !ok {
		return discard(q, StageAttributeLookup, ReasonMissingAttributes)
	}

	mentions := mention.Generate(attrs)
	if len(mentions) == 0 {
		return discard(q, StageMentionGeneration, ReasonNoApplicableMention)
	}

	placeholdered := mention.ApplyPlaceholder(q.InputText, span)
	seed := util.DeriveSeed(p.opts.Seed, q.ID)
	record, err := sample.Triple(q, placeholdered, span, mentions, p.res.ImagesFor(entityID), seed)
	switch {
	case errors.Is(err, sample.ErrNoCompatibleMention):
		return discard(q, StageSampling, ReasonNoRoleCompatibleMention)
	case errors.Is(err, sample.ErrNoImageCandidate):
		return discard(q, StageSampling, ReasonNoImageCandidate)
	case err != nil:
		return discard(q, StageSampling, ReasonNoRoleCompatibleMention)
	}
	record.WikidataID = entityID
	return Result{Record: &record}
}
