package dsl

import (
	"maps"
	"slices"

	"github.com/aretw0/upskill/pkg/domain"
)

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	q domain.Question
}

// Option appends a selectable answer.
func (qb *QuestionBuilder) Option(id, label string, score int, affinity domain.Affinity) *QuestionBuilder {
	qb.q.Options = append(qb.q.Options, domain.Option{ID: id, Label: label, Score: score, Affinity: affinity})
	return qb
}

// VisibleWhen shows the question only while question dependsOn has any of optionIDs selected.
func (qb *QuestionBuilder) VisibleWhen(dependsOn int, optionIDs ...string) *QuestionBuilder {
	qb.q.Visibility = &domain.Condition{DependsOn: dependsOn, MatchesAnyOf: slices.Clone(optionIDs)}
	return qb
}

// Build returns a copy of the question.
func (qb *QuestionBuilder) Build() domain.Question {
	q := qb.q
	q.Options = slices.Clone(qb.q.Options)
	if qb.q.Visibility != nil {
		v := *qb.q.Visibility
		v.MatchesAnyOf = slices.Clone(v.MatchesAnyOf)
		q.Visibility = &v
	}
	return q
}

// TrackBuilder provides a fluent API for configuring a track.
type TrackBuilder struct {
	info domain.TrackInfo
}

// Describe sets the track description.
func (tb *TrackBuilder) Describe(text string) *TrackBuilder {
	tb.info.Description = text
	return tb
}

// Workshops appends workshops to the track.
func (tb *TrackBuilder) Workshops(titles ...string) *TrackBuilder {
	tb.info.Workshops = append(tb.info.Workshops, titles...)
	return tb
}

// Price sets the pricing row of one delivery mode.
func (tb *TrackBuilder) Price(mode domain.DeliveryMode, basePriceFor8, perAdditionalHead, travelSurcharge domain.Money) *TrackBuilder {
	tb.info.Pricing[mode] = domain.PriceRow{
		BasePriceFor8:     basePriceFor8,
		PerAdditionalHead: perAdditionalHead,
		TravelSurcharge:   travelSurcharge,
	}
	return tb
}

// Build returns a copy of the track.
func (tb *TrackBuilder) Build() domain.TrackInfo {
	info := tb.info
	info.Workshops = slices.Clone(tb.info.Workshops)
	info.Pricing = maps.Clone(tb.info.Pricing)
	return info
}
