package runtime

import (
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
)

// View is everything a presenter needs to draw a session without knowing the flow rules.
// CanAdvance reports whether the completion gate of the current question passes.
type View struct {
	SessionID  string            `json:"session_id"`
	Phase      domain.Phase      `json:"phase"`
	Index      int               `json:"index"`
	Total      int               `json:"total"`
	Question   *domain.Question  `json:"question,omitempty"`
	Visible    []domain.Question `json:"visible"`
	Answers    domain.AnswerSet  `json:"answers"`
	CanAdvance bool              `json:"can_advance"`
	CanRetreat bool              `json:"can_retreat"`
	Result     *domain.Result    `json:"result,omitempty"`
}

// Render builds the View of a state. It never changes the state.
func Render(cat *catalog.Catalog, state domain.WizardState) View {
	visible := VisibleQuestions(cat, state.Answers)
	v := View{
		SessionID: state.SessionID,
		Phase:     state.Phase,
		Index:     state.Index,
		Total:     len(visible),
		Visible:   visible,
		Answers:   state.Answers.Clone(),
	}
	if q, ok := CurrentQuestion(cat, state); ok {
		v.Question = &q
		v.CanAdvance = StepComplete(cat, q, state.Answers)
		v.CanRetreat = state.Index > 0
	}
	if state.Result != nil {
		v.Result = state.Clone().Result
	}
	return v
}
