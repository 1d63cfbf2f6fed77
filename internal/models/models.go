package models

import "time"

// Placeholder marks the removed mention span inside a question until the
// sampler substitutes a generated mention for it.
const Placeholder = "{mention}"

type Answer struct {
	OriginalAnswer string   `json:"original_answer"`
	AnswerStrings  []string `json:"answer_strings,omitempty"`
}

type QuestionRecord struct {
	ID         string         `json:"id"`
	InputText  string         `json:"input"`
	KiltID     string         `json:"kilt_id,omitempty"`
	WikidataID string         `json:"wikidata_id,omitempty"`
	Output     Answer         `json:"output"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// MentionSpan is the syntactic extent of the entity mention in a question,
// head token plus its dependent modifiers. Start/End are byte offsets into
// the question text; Start < End always holds for a detected span.
type MentionSpan struct {
	Text              string `json:"text"`
	Start             int    `json:"start"`
	End               int    `json:"end"`
	DependencyRole    string `json:"dependency_role"`
	EntitySurfaceForm string `json:"entity_surface_form"`
}

type CandidateEntity struct {
	EntityID        string   `json:"entity_id"`
	Title           string   `json:"title"`
	Aliases         []string `json:"aliases,omitempty"`
	MatchScore      float64  `json:"match_score"`
	SourceArticleID string   `json:"source_article_id"`
}

type ImageCandidate struct {
	Filename       string  `json:"filename"`
	HeuristicScore float64 `json:"heuristic_score"`
	Source         string  `json:"source,omitempty"`
}

type EntityAttributes struct {
	EntityID string `json:"entity_id"`
	// Gender is the knowledge-base sex-or-gender value; GenderIdentity, when
	// recorded, takes precedence over it for mention wording.
	Gender         string           `json:"gender,omitempty"`
	GenderIdentity string           `json:"gender_identity,omitempty"`
	IsHuman        bool             `json:"is_human"`
	Occupations    []string         `json:"occupations,omitempty"`
	Classes        []string         `json:"classes,omitempty"`
	TaxonRank      string           `json:"taxon_rank,omitempty"`
	Images         []ImageCandidate `json:"images,omitempty"`
}

type MentionType string

const (
	MentionPronoun       MentionType = "pronoun"
	MentionGenericPerson MentionType = "generic_person"
	MentionOccupation    MentionType = "occupation"
	MentionTaxon         MentionType = "taxon"
	MentionClass         MentionType = "class"
)

type GeneratedMention struct {
	Text                    string      `json:"text"`
	MentionType             MentionType `json:"mention_type"`
	RequiredDependencyRoles []string    `json:"required_dependency_roles"`
}

type VisualQuestionRecord struct {
	ID               string      `json:"id"`
	InputText        string      `json:"input"`
	OriginalQuestion string      `json:"original_question"`
	Image            string      `json:"image"`
	WikidataID       string      `json:"wikidata_id"`
	MentionType      MentionType `json:"mention_type"`
	Output           Answer      `json:"output"`
}

type DiscardEntry struct {
	QuestionID string `json:"question_id"`
	Stage      string `json:"stage"`
	Reason     string `json:"reason"`
}

type Run struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	Seed      int64     `json:"seed"`
	Total     int       `json:"total"`
	Emitted   int       `json:"emitted"`
	Discarded int       `json:"discarded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Shard struct {
	RunID      string    `json:"run_id"`
	ShardIndex int       `json:"shard_index"`
	Status     string    `json:"status"`
	FailReason string    `json:"fail_reason,omitempty"`
	Emitted    int       `json:"emitted"`
	Discarded  int       `json:"discarded"`
	UpdatedAt  time.Time `json:"updated_at"`
}
