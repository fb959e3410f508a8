package dsl

import (
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
)

// Builder assembles a catalog. Questions keep the order they are added in.
type Builder struct {
	cat       catalog.Catalog
	questions []*QuestionBuilder
	tracks    map[domain.Track]*TrackBuilder
}

// New creates a builder with the settings of the built-in catalog:
// "$" currency, a minimum team size of 8 and remote as the default delivery.
func New() *Builder {
	return &Builder{
		cat: catalog.Catalog{
			Currency:        "$",
			MinTeamSize:     domain.BaseTeamSize,
			MaxTeamSize:     catalog.DefaultMaxTeamSize,
			DefaultDelivery: domain.DeliveryRemote,
		},
		tracks: make(map[domain.Track]*TrackBuilder),
	}
}

// Currency sets the symbol printed in front of amounts.
func (b *Builder) Currency(symbol string) *Builder {
	b.cat.Currency = symbol
	return b
}

// MinTeamSize sets the smallest team size the contact step accepts.
func (b *Builder) MinTeamSize(n int) *Builder {
	b.cat.MinTeamSize = n
	return b
}

// MaxTeamSize sets the largest team size accepted anywhere.
func (b *Builder) MaxTeamSize(n int) *Builder {
	b.cat.MaxTeamSize = n
	return b
}

// DefaultDelivery sets the mode priced when the delivery question is unanswered.
func (b *Builder) DefaultDelivery(mode domain.DeliveryMode) *Builder {
	b.cat.DefaultDelivery = mode
	return b
}

func (b *Builder) add(id int, prompt string, kind domain.QuestionKind) *QuestionBuilder {
	qb := &QuestionBuilder{q: domain.Question{ID: id, Prompt: prompt, Kind: kind}}
	b.questions = append(b.questions, qb)
	return qb
}

// Single adds a single choice question.
func (b *Builder) Single(id int, prompt string) *QuestionBuilder {
	return b.add(id, prompt, domain.KindSingleChoice)
}

// Multi adds a multiple choice question.
func (b *Builder) Multi(id int, prompt string) *QuestionBuilder {
	return b.add(id, prompt, domain.KindMultiChoice)
}

// Delivery adds a single choice question offering every delivery mode and
// marks it as the question the quote reads the delivery mode from.
func (b *Builder) Delivery(id int, prompt string) *QuestionBuilder {
	qb := b.Single(id, prompt)
	for _, mode := range domain.DeliveryModes {
		qb.Option(string(mode), mode.Label(), 0, domain.AffinityNone)
	}
	b.cat.DeliveryQuestionID = id
	return qb
}

// Contact adds the contact form step.
func (b *Builder) Contact(id int, prompt string) *QuestionBuilder {
	return b.add(id, prompt, domain.KindContactForm)
}

// Track returns the builder of a track, creating it on first use.
func (b *Builder) Track(t domain.Track, title string) *TrackBuilder {
	if tb, ok := b.tracks[t]; ok {
		tb.info.Title = title
		return tb
	}
	tb := &TrackBuilder{info: domain.TrackInfo{Track: t, Title: title, Pricing: domain.PricingTable{}}}
	b.tracks[t] = tb
	return tb
}

// Build returns the validated catalog. Each call returns an independent copy.
func (b *Builder) Build() (*catalog.Catalog, error) {
	cat := b.cat
	cat.Questions = make([]domain.Question, 0, len(b.questions))
	for _, qb := range b.questions {
		cat.Questions = append(cat.Questions, qb.Build())
	}
	cat.Tracks = make(map[domain.Track]domain.TrackInfo, len(b.tracks))
	for t, tb := range b.tracks {
		cat.Tracks[t] = tb.Build()
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}
