package upskill_test

import (
	"context"
	"testing"

	"github.com/aretw0/upskill"
	"github.com/aretw0/upskill/pkg/adapters/memory"
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidCatalog(t *testing.T) {
	cat := catalog.Default()
	delete(cat.Tracks, domain.TrackData)

	_, err := upskill.New(upskill.WithCatalog(cat))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestEngine_FullAssessment(t *testing.T) {
	leads := memory.NewLeadStore()
	eng, err := upskill.New(upskill.WithLeadStore(leads))
	require.NoError(t, err)

	ctx := context.Background()
	state := eng.Start(ctx, "visitor-1")

	answers := map[int][]string{
		catalog.QuestionAudience:   {"analysts"},
		catalog.QuestionExperience: {"some"},
		catalog.QuestionTools:      {"notebooks"},
		catalog.QuestionGoals:      {"insights"},
		catalog.QuestionData:       {"warehouse"},
		catalog.QuestionDelivery:   {"remote"},
		catalog.QuestionTimeline:   {"quarter"},
	}

	for !state.Terminal() {
		view := eng.View(state)
		require.NotNil(t, view.Question)

		// The gate holds until the step is complete.
		_, advanced, err := eng.Advance(ctx, state)
		require.NoError(t, err)
		require.False(t, advanced)

		if view.Question.Kind == domain.KindContactForm {
			state, err = eng.SetContact(ctx, state, domain.Contact{
				CompanyName: "Globex", ContactName: "Hank", Email: "hank@globex.test", TeamSize: 25,
			})
		} else {
			state, err = eng.Answer(ctx, state, view.Question.ID, answers[view.Question.ID])
		}
		require.NoError(t, err)

		state, advanced, err = eng.Advance(ctx, state)
		require.NoError(t, err)
		require.True(t, advanced)
	}
	eng.Wait()

	require.NotNil(t, state.Result)
	assert.Equal(t, domain.TrackData, state.Result.Track)

	// Data track, remote: 30000 x 1.5 = 45000 base, 3500 x 1.5 = 5250 per head.
	q := state.Result.Quote
	assert.Equal(t, domain.Units(45000), q.BasePrice)
	assert.Equal(t, domain.Units(5250*17), q.AdditionalHeadCost)
	assert.Equal(t, 25, q.DiscountPercent)
	assert.Equal(t, q.Subtotal-q.DiscountAmount, q.FinalTotal)

	saved, err := leads.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Globex", saved[0].CompanyName)
	assert.Equal(t, q.FinalTotal, saved[0].QuoteValue)
}

func TestEngine_ContactEnforcesTeamSizeBounds(t *testing.T) {
	leads := memory.NewLeadStore()
	eng, err := upskill.New(upskill.WithLeadStore(leads))
	require.NoError(t, err)

	ctx := context.Background()
	state := eng.Start(ctx, "visitor-2")
	for eng.View(state).Question.Kind != domain.KindContactForm {
		q := eng.View(state).Question
		state, err = eng.Answer(ctx, state, q.ID, []string{q.Options[0].ID})
		require.NoError(t, err)
		state, _, err = eng.Advance(ctx, state)
		require.NoError(t, err)
	}

	for _, size := range []int{2, 1001} {
		_, err = eng.SetContact(ctx, state, domain.Contact{
			CompanyName: "Initech", ContactName: "Peter", Email: "peter@initech.test", TeamSize: size,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTeamSize, size)
	}

	next, advanced, err := eng.Advance(ctx, state)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, domain.PhaseAnswering, next.Phase)
	assert.Nil(t, next.Result)

	eng.Wait()
	saved, err := leads.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, saved, "no lead is captured for a rejected contact")
}

func TestEngine_QuoteAndRecommend(t *testing.T) {
	eng, err := upskill.New()
	require.NoError(t, err)

	q, err := eng.Quote(domain.TrackEngineer, domain.DeliveryTheirOffice, 8)
	require.NoError(t, err)
	assert.Equal(t, domain.Units(132000), q.FinalTotal)

	small, err := eng.Quote(domain.TrackEngineer, domain.DeliveryRemote, 3)
	require.NoError(t, err, "teams below the contact minimum are still priced")
	assert.Zero(t, small.AdditionalHeads)

	_, err = eng.Quote(domain.TrackEngineer, domain.DeliveryOurLocation, 250_000_000_000)
	assert.ErrorIs(t, err, domain.ErrInvalidTeamSize)

	track, _ := eng.Recommend(domain.NewAnswerSet())
	assert.Equal(t, domain.TrackBeginner, track)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, upskill.Version)
}
