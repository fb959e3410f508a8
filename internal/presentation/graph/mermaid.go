package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
)

// ResultNode is the node id of the final result step.
const ResultNode = "result"

// GraphOverlay contains session data to highlight on the graph.
type GraphOverlay struct {
	VisitedQuestions []int
	CurrentQuestion  int // 0 when the session shows its result
	Finished         bool
}

// OverlayFor derives the overlay of a session from its navigation history.
func OverlayFor(state domain.WizardState, current int) *GraphOverlay {
	o := &GraphOverlay{CurrentQuestion: current, Finished: state.Terminal()}
	for _, h := range state.History {
		o.VisitedQuestions = append(o.VisitedQuestions, h.QuestionID)
	}
	if o.Finished {
		o.CurrentQuestion = 0
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the question sequence.
// Shapes:
// - choice question: [/Parallelogram/]
// - contact form: [[Subroutine]]
// - result: ((Circle))
// Solid arrows follow catalog order. A question with a visibility condition
// also gets a dotted arrow from its governing question, labeled with the
// matching option ids.
func GenerateMermaid(cat *catalog.Catalog, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, q := range cat.Questions {
		opener, closer := "[/", "/]"
		if q.Kind == domain.KindContactForm {
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%d. %s\"%s\n", nodeID(q.ID), opener, q.ID, escape(q.Prompt), closer)
	}
	fmt.Fprintf(&sb, "    %s((\"Result\"))\n", ResultNode)

	for i, q := range cat.Questions {
		next := ResultNode
		if i+1 < len(cat.Questions) {
			next = nodeID(cat.Questions[i+1].ID)
		}
		fmt.Fprintf(&sb, "    %s --> %s\n", nodeID(q.ID), next)

		if q.Visibility != nil {
			label := escape(strings.Join(q.Visibility.MatchesAnyOf, " | "))
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", nodeID(q.Visibility.DependsOn), label, nodeID(q.ID))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, id := range overlay.VisitedQuestions {
			if seen[id] {
				continue
			}
			if _, ok := cat.Question(id); !ok {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(id))
		}

		switch {
		case overlay.Finished:
			fmt.Fprintf(&sb, "    class %s current;\n", ResultNode)
		case overlay.CurrentQuestion != 0:
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.CurrentQuestion))
		}
	}

	return sb.String()
}

func nodeID(questionID int) string {
	return fmt.Sprintf("q%d", questionID)
}

// escape keeps labels inside Mermaid double quotes.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
