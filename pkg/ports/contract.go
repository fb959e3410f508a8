package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/upskill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405.000000")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewWizardState(sessionID)
		state.Index = 2
		state.Answers = state.Answers.
			WithSelection(1, []string{"developers"}).
			WithSelection(4, []string{"build", "insights"}).
			WithContact(domain.Contact{CompanyName: "Acme", ContactName: "Ana", Email: "ana@acme.test", TeamSize: 12})

		err := store.Save(ctx, sessionID, &state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.SessionID)
		assert.Equal(t, domain.PhaseAnswering, loaded.Phase)
		assert.Equal(t, 2, loaded.Index)
		assert.Equal(t, []string{"developers"}, loaded.Answers.Selected(1))
		assert.Equal(t, []string{"build", "insights"}, loaded.Answers.Selected(4))
		assert.Equal(t, "ana@acme.test", loaded.Answers.Contact.Email)
		assert.Equal(t, 12, loaded.Answers.Contact.TeamSize)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		state := domain.NewWizardState(sessionID)
		state.Phase = domain.PhaseResultShown
		state.Result = &domain.Result{
			Track:    domain.TrackEngineer,
			Tallies:  map[domain.Track]int{domain.TrackEngineer: 5},
			Delivery: domain.DeliveryRemote,
		}
		require.NoError(t, store.Save(ctx, sessionID, &state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseResultShown, loaded.Phase)
		require.NotNil(t, loaded.Result)
		assert.Equal(t, domain.TrackEngineer, loaded.Result.Track)
		assert.Equal(t, 5, loaded.Result.Tallies[domain.TrackEngineer])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		state := domain.NewWizardState(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, &state))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		s1 := domain.NewWizardState(id1)
		s2 := domain.NewWizardState(id2)
		require.NoError(t, store.Save(ctx, id1, &s1))
		require.NoError(t, store.Save(ctx, id2, &s2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunLeadStoreContract runs a suite of tests to verify that a LeadStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunLeadStoreContract(t *testing.T, store LeadStore) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	lead := func(i int) domain.Lead {
		return domain.Lead{
			ID:               fmt.Sprintf("lead-%d", i),
			SessionID:        fmt.Sprintf("session-%d", i),
			CompanyName:      fmt.Sprintf("Company %d", i),
			ContactName:      "Ana",
			Email:            fmt.Sprintf("ana%d@example.test", i),
			Phone:            "+1 555 0100",
			TeamSize:         8 + i,
			RecommendedTrack: domain.TrackEngineer,
			Delivery:         domain.DeliveryOurLocation,
			QuoteValue:       domain.Units(153000),
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
		}
	}

	t.Run("Save and List", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			require.NoError(t, store.Save(ctx, lead(i)))
		}

		leads, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, leads, 3)

		// Most recent first.
		assert.Equal(t, "lead-3", leads[0].ID)
		assert.Equal(t, "lead-1", leads[2].ID)

		got := leads[0]
		want := lead(3)
		assert.Equal(t, want.SessionID, got.SessionID)
		assert.Equal(t, want.CompanyName, got.CompanyName)
		assert.Equal(t, want.Email, got.Email)
		assert.Equal(t, want.Phone, got.Phone)
		assert.Equal(t, want.TeamSize, got.TeamSize)
		assert.Equal(t, want.RecommendedTrack, got.RecommendedTrack)
		assert.Equal(t, want.Delivery, got.Delivery)
		assert.Equal(t, want.QuoteValue, got.QuoteValue)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "CreatedAt should round-trip")
	})

	t.Run("List With Limit", func(t *testing.T) {
		leads, err := store.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, leads, 2)
		assert.Equal(t, "lead-3", leads[0].ID)
		assert.Equal(t, "lead-2", leads[1].ID)
	})

	t.Run("Save Is Idempotent", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, lead(1)))

		leads, err := store.List(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, leads, 3)
	})
}
