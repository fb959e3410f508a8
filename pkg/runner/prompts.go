package runner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/upskill"
	"github.com/aretw0/upskill/pkg/domain"
)

const (
	navigationHelp = "Enter to continue, `back` to go back, `quit` to leave."
	selectHelp     = "Type option numbers or ids (comma separated)."
)

// questionMarkdown renders the current question of a view with its options
// numbered from 1 and the current selection checked.
func questionMarkdown(v upskill.View) string {
	q := v.Question
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Question %d of %d\n\n", v.Index+1, v.Total)
	fmt.Fprintf(&sb, "%s\n\n", q.Prompt)

	if q.Kind == domain.KindMultiChoice {
		sb.WriteString("_Select all that apply._\n\n")
	}

	selected := v.Answers.Selected(q.ID)
	for i, opt := range q.Options {
		mark := " "
		if slices.Contains(selected, opt.ID) {
			mark = "x"
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, mark, opt.Label)
	}
	return sb.String()
}

func questionPrompt(v upskill.View) string {
	if v.Question.Kind.IsChoice() && v.CanAdvance {
		return selectHelp + " " + navigationHelp
	}
	return selectHelp
}

// contactMarkdown introduces the contact form step.
func contactMarkdown(v upskill.View) string {
	return fmt.Sprintf("## Question %d of %d\n\n%s\n", v.Index+1, v.Total, v.Question.Prompt)
}

// contactField is a single prompt of the contact form.
type contactField struct {
	label    string
	optional bool
	current  func(domain.Contact) string
	set      func(*domain.Contact, string) error
}
