package runtime

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
)

// VisibleQuestions filters the catalog down to the questions whose visibility
// condition is absent or satisfied by the answers, preserving catalog order.
// It must be recomputed after every answer change.
func VisibleQuestions(cat *catalog.Catalog, answers domain.AnswerSet) []domain.Question {
	out := make([]domain.Question, 0, len(cat.Questions))
	for _, q := range cat.Questions {
		if q.Visibility == nil || q.Visibility.Satisfied(answers.Selected(q.Visibility.DependsOn)) {
			out = append(out, q)
		}
	}
	return out
}

// CurrentQuestion returns the question the state points at.
// It reports false outside the answering phase.
func CurrentQuestion(cat *catalog.Catalog, state domain.WizardState) (domain.Question, bool) {
	if state.Phase != domain.PhaseAnswering {
		return domain.Question{}, false
	}
	visible := VisibleQuestions(cat, state.Answers)
	if state.Index < 0 || state.Index >= len(visible) {
		return domain.Question{}, false
	}
	return visible[state.Index], true
}

// StepComplete is the completion gate of a question.
// Choice questions need at least one selection. The contact form needs every
// mandatory field and a team size within the catalog bounds.
func StepComplete(cat *catalog.Catalog, q domain.Question, answers domain.AnswerSet) bool {
	if q.Kind == domain.KindContactForm {
		return answers.Contact.Complete() && cat.CheckTeamSize(answers.Contact.TeamSize) == nil
	}
	return answers.Answered(q.ID)
}

// SetAnswer records the selection of a visible choice question.
// An empty selection clears the answer. The position stays on the same
// question when it remains visible, otherwise it is clamped to the new sequence.
func SetAnswer(cat *catalog.Catalog, state domain.WizardState, questionID int, optionIDs []string) (domain.WizardState, error) {
	if state.Phase != domain.PhaseAnswering {
		return state, fmt.Errorf("%w: cannot answer in phase %s", domain.ErrInvalidTransition, state.Phase)
	}
	q, ok := cat.Question(questionID)
	if !ok {
		return state, fmt.Errorf("%w: %d", domain.ErrUnknownQuestion, questionID)
	}
	if !q.Kind.IsChoice() {
		return state, fmt.Errorf("%w: question %d is a contact form", domain.ErrUnknownOption, questionID)
	}
	if !isVisible(VisibleQuestions(cat, state.Answers), questionID) {
		return state, fmt.Errorf("%w: %d", domain.ErrQuestionHidden, questionID)
	}

	var selection []string
	for _, id := range optionIDs {
		id = strings.TrimSpace(id)
		if slices.Contains(selection, id) {
			continue
		}
		if _, ok := q.Option(id); !ok {
			return state, fmt.Errorf("%w: %q for question %d", domain.ErrUnknownOption, id, questionID)
		}
		selection = append(selection, id)
	}
	if q.Kind == domain.KindSingleChoice && len(selection) > 1 {
		return state, fmt.Errorf("%w: question %d accepts one option, got %d", domain.ErrTooManySelections, questionID, len(selection))
	}

	current, hasCurrent := CurrentQuestion(cat, state)

	next := state.Clone()
	next.Answers = state.Answers.WithSelection(questionID, selection)
	next.Index = reposition(VisibleQuestions(cat, next.Answers), current.ID, hasCurrent, state.Index)
	return next, nil
}

// SetContact replaces the contact record. Text fields are trimmed.
// Zero team size leaves the step incomplete; any other size outside the
// catalog bounds is rejected.
func SetContact(cat *catalog.Catalog, state domain.WizardState, contact domain.Contact) (domain.WizardState, error) {
	if state.Phase != domain.PhaseAnswering {
		return state, fmt.Errorf("%w: cannot edit contact in phase %s", domain.ErrInvalidTransition, state.Phase)
	}
	if contact.TeamSize != 0 {
		if err := cat.CheckTeamSize(contact.TeamSize); err != nil {
			return state, err
		}
	}
	contact.CompanyName = strings.TrimSpace(contact.CompanyName)
	contact.ContactName = strings.TrimSpace(contact.ContactName)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)

	next := state.Clone()
	next.Answers = state.Answers.WithContact(contact)
	return next, nil
}

// Advance moves to the next visible question, or to PhaseSubmitting from the last one.
// A failed completion gate is not an error: the state is returned unchanged with advanced=false.
func Advance(cat *catalog.Catalog, state domain.WizardState, at time.Time) (domain.WizardState, bool, error) {
	if state.Phase != domain.PhaseAnswering {
		return state, false, fmt.Errorf("%w: cannot advance in phase %s", domain.ErrInvalidTransition, state.Phase)
	}
	visible := VisibleQuestions(cat, state.Answers)
	if state.Index < 0 || state.Index >= len(visible) {
		return state, false, fmt.Errorf("%w: index %d outside %d visible questions", domain.ErrInvalidTransition, state.Index, len(visible))
	}
	q := visible[state.Index]
	if !StepComplete(cat, q, state.Answers) {
		return state, false, nil
	}

	next := state.Clone()
	next.History = append(next.History, domain.HistoryEntry{QuestionID: q.ID, At: at})
	if state.Index < len(visible)-1 {
		next.Index++
	} else {
		next.Phase = domain.PhaseSubmitting
	}
	return next, true, nil
}

// Retreat moves back one visible question. It is a no-op at the first question.
// Answers are retained.
func Retreat(state domain.WizardState) (domain.WizardState, bool, error) {
	if state.Phase != domain.PhaseAnswering {
		return state, false, fmt.Errorf("%w: cannot retreat in phase %s", domain.ErrInvalidTransition, state.Phase)
	}
	if state.Index <= 0 {
		return state, false, nil
	}
	next := state.Clone()
	next.Index--
	return next, true, nil
}

// Reset starts the assessment over with an empty answer set.
// Only a session showing its result can be reset.
func Reset(state domain.WizardState, at time.Time) (domain.WizardState, error) {
	if state.Phase != domain.PhaseResultShown {
		return state, fmt.Errorf("%w: cannot reset in phase %s", domain.ErrInvalidTransition, state.Phase)
	}
	next := domain.NewWizardState(state.SessionID)
	next.StartedAt = at
	return next, nil
}

// Complete attaches the result and moves to PhaseResultShown.
func Complete(state domain.WizardState, result domain.Result) (domain.WizardState, error) {
	if state.Phase != domain.PhaseSubmitting {
		return state, fmt.Errorf("%w: cannot complete in phase %s", domain.ErrInvalidTransition, state.Phase)
	}
	next := state.Clone()
	next.Phase = domain.PhaseResultShown
	next.Result = &result
	return next, nil
}

func isVisible(visible []domain.Question, questionID int) bool {
	return slices.ContainsFunc(visible, func(q domain.Question) bool { return q.ID == questionID })
}

func reposition(visible []domain.Question, currentID int, hasCurrent bool, index int) int {
	if hasCurrent {
		if i := slices.IndexFunc(visible, func(q domain.Question) bool { return q.ID == currentID }); i >= 0 {
			return i
		}
	}
	return max(0, min(index, len(visible)-1))
}
