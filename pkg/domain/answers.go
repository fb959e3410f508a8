package domain

import (
	"maps"
	"slices"
	"strings"
)

// Contact is the free-text record collected by the contact form step.
type Contact struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	TeamSize    int    `json:"team_size"`
}

// Complete reports whether every mandatory field is filled.
// Phone is optional.
func (c Contact) Complete() bool {
	return strings.TrimSpace(c.CompanyName) != "" &&
		strings.TrimSpace(c.ContactName) != "" &&
		strings.TrimSpace(c.Email) != "" &&
		c.TeamSize > 0
}

// AnswerSet holds the selections of a session.
// Values are treated as immutable: every change goes through With* and returns a copy.
type AnswerSet struct {
	Selections map[int][]string `json:"selections"`
	Contact    Contact          `json:"contact"`
}

// NewAnswerSet returns an empty answer set.
func NewAnswerSet() AnswerSet {
	return AnswerSet{Selections: make(map[int][]string)}
}

// Selected returns the option ids recorded for a question.
func (a AnswerSet) Selected(questionID int) []string {
	return a.Selections[questionID]
}

// Answered reports whether at least one option is recorded for a question.
func (a AnswerSet) Answered(questionID int) bool {
	return len(a.Selections[questionID]) > 0
}

// Empty reports whether nothing has been answered yet.
func (a AnswerSet) Empty() bool {
	for _, sel := range a.Selections {
		if len(sel) > 0 {
			return false
		}
	}
	return true
}

// QuestionIDs returns the answered question ids in ascending order.
func (a AnswerSet) QuestionIDs() []int {
	ids := slices.Collect(maps.Keys(a.Selections))
	slices.Sort(ids)
	return ids
}

// WithSelection returns a copy with the selection of a question replaced.
// An empty selection removes the entry.
func (a AnswerSet) WithSelection(questionID int, optionIDs []string) AnswerSet {
	next := a.Clone()
	if len(optionIDs) == 0 {
		delete(next.Selections, questionID)
		return next
	}
	next.Selections[questionID] = slices.Clone(optionIDs)
	return next
}

// WithContact returns a copy with the contact record replaced.
func (a AnswerSet) WithContact(c Contact) AnswerSet {
	next := a.Clone()
	next.Contact = c
	return next
}

// Clone returns a deep copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	next := AnswerSet{
		Selections: make(map[int][]string, len(a.Selections)),
		Contact:    a.Contact,
	}
	for k, v := range a.Selections {
		next.Selections[k] = slices.Clone(v)
	}
	return next
}
