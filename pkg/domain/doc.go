/*
Package domain contains the core domain models of the upskill assessment engine.

It defines the questionnaire (Questions, Options, visibility Conditions), the
training Tracks with their pricing tables, the user's AnswerSet and the
WizardState that the flow controller replaces on every transition. This package
is kept pure and free of I/O or persistence concerns.

# Key Entities

  - Question: a step of the assessment (single choice, multi choice or contact form).
  - Track: one of the fixed training curricula, ordered by tie-break priority.
  - PricingTable: per delivery mode base price, per-head overage and travel surcharge.
  - QuoteBreakdown: the itemized, derived price of a track for a team.
  - WizardState: the immutable snapshot of a session (phase, position, answers, result).
*/
package domain
