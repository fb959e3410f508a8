package domain

import (
	"maps"
	"slices"
	"time"
)

// Phase defines where a session is in the wizard state machine.
type Phase string

const (
	PhaseAnswering   Phase = "answering"    // Collecting answers (initial)
	PhaseSubmitting  Phase = "submitting"   // Last step advanced, result being computed
	PhaseResultShown Phase = "result_shown" // Recommendation and quote available
)

// Result is the outcome of a completed assessment.
type Result struct {
	Track    Track          `json:"track"`
	Tallies  map[Track]int  `json:"tallies"`
	Delivery DeliveryMode   `json:"delivery"`
	Quote    QuoteBreakdown `json:"quote"`
}

// WizardState is an immutable snapshot of an assessment session.
// Transitions never modify a state; they return a new one.
type WizardState struct {
	SessionID string         `json:"session_id"`
	Phase     Phase          `json:"phase"`
	Index     int            `json:"index"`
	Answers   AnswerSet      `json:"answers"`
	Result    *Result        `json:"result,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	History   []HistoryEntry `json:"history,omitempty"`

	// Sealed carries an opaque encrypted payload written by storage
	// middleware. When set, the other content fields are placeholders.
	Sealed []byte `json:"sealed,omitempty"`
}

// HistoryEntry records a navigation step, for auditing and flow overlays.
type HistoryEntry struct {
	QuestionID int       `json:"question_id"`
	At         time.Time `json:"at"`
}

// NewWizardState creates a clean state at the first question.
func NewWizardState(sessionID string) WizardState {
	return WizardState{
		SessionID: sessionID,
		Phase:     PhaseAnswering,
		Index:     0,
		Answers:   NewAnswerSet(),
		StartedAt: time.Now().UTC(),
	}
}

// Clone returns a deep copy, safe to hand to stores and callers.
func (s WizardState) Clone() WizardState {
	next := s
	next.Answers = s.Answers.Clone()
	if s.Result != nil {
		r := *s.Result
		r.Tallies = maps.Clone(s.Result.Tallies)
		next.Result = &r
	}
	next.History = slices.Clone(s.History)
	next.Sealed = slices.Clone(s.Sealed)
	return next
}

// Terminal reports whether the session has a result to present.
func (s WizardState) Terminal() bool {
	return s.Phase == PhaseResultShown
}
