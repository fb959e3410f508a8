/*
Package upskill is the assessment engine behind a corporate AI-training lead
wizard: a short questionnaire that recommends a training track and prices it.

The engine is deterministic. Given a catalog (questions, tracks and pricing
tables) and an answer set, the visible question sequence, the recommended track
and the itemized quote are pure functions of their inputs. Sessions are
immutable WizardState values replaced by every transition, so hosts (CLI,
HTTP server, MCP agent) decide where state lives.

# Flow

A session starts in the answering phase at the first visible question.
Answering an earlier question may show or hide later ones; the sequence is
recomputed after every change. Advance is gated: choice questions need a
selection and the contact form needs company, contact name, email and team
size. Advancing past the last visible question computes the result and moves
the session to the result phase, from which it can only be reset.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/upskill"
		"github.com/aretw0/upskill/pkg/domain"
	)

	func main() {
		eng, err := upskill.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state := eng.Start(ctx, "")
		for !state.Terminal() {
			view := eng.View(state)
			// Present view.Question, collect the visitor's choice...
			state, err = eng.Answer(ctx, state, view.Question.ID, []string{view.Question.Options[0].ID})
			// ...
		}
		fmt.Println(state.Result.Track, state.Result.Quote.FinalTotal)
	}

# Side effects

Captured leads (ports.LeadStore) and analytics events (ports.AnalyticsSink)
are fire-and-forget. Their failures are logged and never change the result the
visitor sees. Call Wait before shutting down to let in-flight calls finish.
*/
package upskill
