package catalog_test

import (
	"testing"

	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cat := catalog.Default()
	require.NoError(t, cat.Validate())

	engineer, err := cat.Track(domain.TrackEngineer)
	require.NoError(t, err)
	assert.Equal(t, 4, engineer.WorkshopCount())
	assert.Equal(t, domain.Units(60000), engineer.Pricing[domain.DeliveryOurLocation].BasePriceFor8)
	assert.Equal(t, domain.Units(7500), engineer.Pricing[domain.DeliveryOurLocation].PerAdditionalHead)
	assert.Equal(t, domain.Units(12000), engineer.Pricing[domain.DeliveryTheirOffice].TravelSurcharge)
}

func TestCatalog_OrderedTracks(t *testing.T) {
	tracks := catalog.Default().OrderedTracks()
	require.Len(t, tracks, 3)
	for i, info := range tracks {
		assert.Equal(t, domain.TrackPriority[i], info.Track)
	}
}

func TestCatalog_DeliveryMode(t *testing.T) {
	cat := catalog.Default()

	mode, ok := cat.DeliveryMode(domain.NewAnswerSet())
	assert.False(t, ok)
	assert.Equal(t, domain.DeliveryRemote, mode)

	answers := domain.NewAnswerSet().WithSelection(catalog.QuestionDelivery, []string{"their_office"})
	mode, ok = cat.DeliveryMode(answers)
	assert.True(t, ok)
	assert.Equal(t, domain.DeliveryTheirOffice, mode)
}

func TestCatalog_TrackUnknown(t *testing.T) {
	_, err := catalog.Default().Track("astronaut")
	assert.ErrorIs(t, err, domain.ErrUnknownTrack)
}

func TestCatalog_CheckTeamSize(t *testing.T) {
	cat := catalog.Default()

	for _, n := range []int{cat.MinTeamSize, 12, cat.MaxTeamSize} {
		assert.NoError(t, cat.CheckTeamSize(n), n)
	}
	for _, n := range []int{-1, 0, 2, cat.MinTeamSize - 1, cat.MaxTeamSize + 1, 250_000_000_000} {
		assert.ErrorIs(t, cat.CheckTeamSize(n), domain.ErrInvalidTeamSize, n)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *catalog.Catalog)
		want   string
	}{
		{
			name: "forward visibility reference",
			mutate: func(c *catalog.Catalog) {
				c.Questions[0].Visibility = &domain.Condition{DependsOn: catalog.QuestionGoals, MatchesAnyOf: []string{"build"}}
			},
			want: "not an earlier question",
		},
		{
			name: "self reference",
			mutate: func(c *catalog.Catalog) {
				c.Questions[1].Visibility = &domain.Condition{DependsOn: catalog.QuestionExperience, MatchesAnyOf: []string{"none"}}
			},
			want: "not an earlier question",
		},
		{
			name: "unknown option in condition",
			mutate: func(c *catalog.Catalog) {
				c.Questions[2].Visibility = &domain.Condition{DependsOn: catalog.QuestionExperience, MatchesAnyOf: []string{"expert"}}
			},
			want: "unknown option \"expert\"",
		},
		{
			name: "duplicate question id",
			mutate: func(c *catalog.Catalog) {
				c.Questions[1].ID = c.Questions[0].ID
			},
			want: "duplicate id",
		},
		{
			name: "unknown affinity",
			mutate: func(c *catalog.Catalog) {
				c.Questions[0].Options[0].Affinity = "wizard"
			},
			want: "unknown affinity",
		},
		{
			name: "travel baked into base",
			mutate: func(c *catalog.Catalog) {
				info := c.Tracks[domain.TrackData]
				row := info.Pricing[domain.DeliveryTheirOffice]
				row.BasePriceFor8 += domain.Units(1)
				info.Pricing[domain.DeliveryTheirOffice] = row
			},
			want: "base price must equal",
		},
		{
			name: "travel surcharge outside their office",
			mutate: func(c *catalog.Catalog) {
				info := c.Tracks[domain.TrackBeginner]
				row := info.Pricing[domain.DeliveryRemote]
				row.TravelSurcharge = domain.Units(100)
				info.Pricing[domain.DeliveryRemote] = row
			},
			want: "travel surcharge only applies",
		},
		{
			name: "negative price",
			mutate: func(c *catalog.Catalog) {
				info := c.Tracks[domain.TrackBeginner]
				row := info.Pricing[domain.DeliveryHybrid]
				row.PerAdditionalHead = -1
				info.Pricing[domain.DeliveryHybrid] = row
			},
			want: "negative price",
		},
		{
			name: "missing track",
			mutate: func(c *catalog.Catalog) {
				delete(c.Tracks, domain.TrackData)
			},
			want: "track \"data\": missing",
		},
		{
			name: "missing contact form",
			mutate: func(c *catalog.Catalog) {
				c.Questions = c.Questions[:len(c.Questions)-1]
			},
			want: "exactly one contact form",
		},
		{
			name: "delivery question not single choice",
			mutate: func(c *catalog.Catalog) {
				c.DeliveryQuestionID = catalog.QuestionGoals
			},
			want: "must be single choice",
		},
		{
			name: "max team size below min",
			mutate: func(c *catalog.Catalog) {
				c.MaxTeamSize = c.MinTeamSize - 1
			},
			want: "max team size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := catalog.Default()
			tt.mutate(cat)

			err := cat.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
