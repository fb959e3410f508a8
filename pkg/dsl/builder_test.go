package dsl_test

import (
	"testing"

	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priced(tb *dsl.TrackBuilder, base domain.Money) *dsl.TrackBuilder {
	return tb.
		Price(domain.DeliveryRemote, base, domain.Units(100), 0).
		Price(domain.DeliveryOurLocation, base+domain.Units(1000), domain.Units(150), 0).
		Price(domain.DeliveryTheirOffice, base+domain.Units(1000), domain.Units(150), domain.Units(500)).
		Price(domain.DeliveryHybrid, base+domain.Units(500), domain.Units(120), 0)
}

func minimal() *dsl.Builder {
	b := dsl.New().Currency("€").MinTeamSize(5)

	b.Single(1, "Who attends?").
		Option("developers", "Developers", 3, domain.AffinityFor(domain.TrackEngineer)).
		Option("analysts", "Analysts", 3, domain.AffinityFor(domain.TrackData)).
		Option("everyone", "Everyone", 1, domain.AffinityAny)
	b.Multi(2, "Which languages?").
		VisibleWhen(1, "developers").
		Option("go", "Go", 2, domain.AffinityFor(domain.TrackEngineer))
	b.Delivery(3, "Where?")
	b.Contact(4, "Contact details")

	priced(b.Track(domain.TrackBeginner, "Foundations").Workshops("Intro"), domain.Units(2000))
	priced(b.Track(domain.TrackEngineer, "Engineering").Workshops("APIs", "Agents"), domain.Units(4000))
	priced(b.Track(domain.TrackData, "Data").Describe("Analytics with AI").Workshops("Notebooks"), domain.Units(3000))
	return b
}

func TestBuilder_Build(t *testing.T) {
	cat, err := minimal().Build()
	require.NoError(t, err)

	assert.Equal(t, "€", cat.Currency)
	assert.Equal(t, 5, cat.MinTeamSize)
	assert.Equal(t, 3, cat.DeliveryQuestionID)
	assert.Equal(t, domain.DeliveryRemote, cat.DefaultDelivery)
	require.Len(t, cat.Questions, 4)

	ids := make([]int, 0, len(cat.Questions))
	for _, q := range cat.Questions {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids)

	langs, ok := cat.Question(2)
	require.True(t, ok)
	assert.Equal(t, domain.KindMultiChoice, langs.Kind)
	require.NotNil(t, langs.Visibility)
	assert.Equal(t, []string{"developers"}, langs.Visibility.MatchesAnyOf)

	delivery, ok := cat.Question(3)
	require.True(t, ok)
	require.Len(t, delivery.Options, len(domain.DeliveryModes))
	assert.Equal(t, domain.DeliveryRemote.Label(), delivery.Options[0].Label)

	engineer, err := cat.Track(domain.TrackEngineer)
	require.NoError(t, err)
	assert.Equal(t, 2, engineer.WorkshopCount())
	assert.Equal(t, domain.Units(500), engineer.Pricing[domain.DeliveryTheirOffice].TravelSurcharge)
}

func TestBuilder_BuildReturnsIndependentCopies(t *testing.T) {
	b := minimal()
	first, err := b.Build()
	require.NoError(t, err)

	first.Questions[0].Options[0].Label = "changed"
	first.Tracks[domain.TrackData].Pricing[domain.DeliveryRemote] = domain.PriceRow{}

	second, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "Developers", second.Questions[0].Options[0].Label)
	assert.Equal(t, domain.Units(3000), second.Tracks[domain.TrackData].Pricing[domain.DeliveryRemote].BasePriceFor8)
}

func TestBuilder_TrackIsReusable(t *testing.T) {
	b := minimal()
	b.Track(domain.TrackData, "Data & Analytics").Workshops("Dashboards")

	cat, err := b.Build()
	require.NoError(t, err)
	data, err := cat.Track(domain.TrackData)
	require.NoError(t, err)
	assert.Equal(t, "Data & Analytics", data.Title)
	assert.Equal(t, []string{"Notebooks", "Dashboards"}, data.Workshops)
}

func TestBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *dsl.Builder)
	}{
		{"second contact form", func(b *dsl.Builder) { b.Contact(5, "Again") }},
		{"unknown visibility option", func(b *dsl.Builder) {
			b.Single(5, "Follow up").VisibleWhen(1, "managers").Option("yes", "Yes", 1, domain.AffinityNone)
		}},
		{"choice without options", func(b *dsl.Builder) { b.Multi(5, "Empty") }},
		{"zero team size", func(b *dsl.Builder) { b.MinTeamSize(0) }},
		{"max team size below min", func(b *dsl.Builder) { b.MaxTeamSize(4) }},
		{"unknown default delivery", func(b *dsl.Builder) { b.DefaultDelivery("moon") }},
		{"travel on remote", func(b *dsl.Builder) {
			b.Track(domain.TrackData, "Data").Price(domain.DeliveryRemote, domain.Units(3000), 0, domain.Units(10))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := minimal()
			tt.mutate(b)
			_, err := b.Build()
			assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
		})
	}
}
