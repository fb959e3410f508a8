package domain

import "slices"

// QuestionKind defines how a question is answered.
type QuestionKind string

const (
	KindSingleChoice QuestionKind = "single_choice"
	KindMultiChoice  QuestionKind = "multi_choice"
	KindContactForm  QuestionKind = "contact_form"
)

// IsChoice reports whether answers to this kind are option selections.
func (k QuestionKind) IsChoice() bool {
	return k == KindSingleChoice || k == KindMultiChoice
}

// Affinity routes an option's score to a track tally.
// The zero value routes the score nowhere.
type Affinity string

const (
	AffinityNone Affinity = ""
	// AffinityAny adds the full score to every track.
	AffinityAny Affinity = "any"
)

// AffinityFor returns the affinity that routes a score to a single track.
func AffinityFor(t Track) Affinity {
	return Affinity(t)
}

// Option is a selectable answer of a choice question.
type Option struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Score    int      `json:"score" yaml:"score"`
	Affinity Affinity `json:"affinity,omitempty" yaml:"affinity,omitempty"`
}

// Condition makes a question visible only when a prior answer matches.
type Condition struct {
	DependsOn    int      `json:"depends_on" yaml:"depends_on"`
	MatchesAnyOf []string `json:"matches_any_of" yaml:"matches_any_of"`
}

// Satisfied reports whether any of the selected option ids is in MatchesAnyOf.
func (c Condition) Satisfied(selected []string) bool {
	for _, id := range selected {
		if slices.Contains(c.MatchesAnyOf, id) {
			return true
		}
	}
	return false
}

// Question is an immutable step of the assessment.
type Question struct {
	ID         int          `json:"id" yaml:"id"`
	Prompt     string       `json:"prompt" yaml:"prompt"`
	Kind       QuestionKind `json:"kind" yaml:"kind"`
	Options    []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	Visibility *Condition   `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// Option looks up an option by id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
