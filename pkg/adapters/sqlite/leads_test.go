package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *LeadStore {
	t.Helper()
	s, err := NewLeadStore(filepath.Join(t.TempDir(), "data", "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLeadStore_Contract(t *testing.T) {
	ports.RunLeadStoreContract(t, newStore(t))
}

func TestLeadStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.db")
	ctx := context.Background()

	s, err := NewLeadStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, domain.Lead{
		ID: "lead-1", SessionID: "s-1", CompanyName: "Acme", ContactName: "Ana",
		Email: "ana@acme.test", TeamSize: 12, RecommendedTrack: domain.TrackData,
		Delivery: domain.DeliveryRemote, QuoteValue: domain.Units(1234),
	}))
	require.NoError(t, s.Close())

	reopened, err := NewLeadStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	leads, err := reopened.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, domain.TrackData, leads[0].RecommendedTrack)
	assert.Equal(t, domain.Units(1234), leads[0].QuoteValue)
}

func TestLeadStore_SaveReplaces(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	lead := domain.Lead{ID: "lead-1", CompanyName: "Acme", TeamSize: 10}
	require.NoError(t, s.Save(ctx, lead))
	lead.TeamSize = 20
	require.NoError(t, s.Save(ctx, lead))

	leads, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, 20, leads[0].TeamSize)
}

func TestNewLeadStore_OpenFailure(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("disk on fire") }

	_, err := NewLeadStore(filepath.Join(t.TempDir(), "leads.db"))
	assert.ErrorContains(t, err, "disk on fire")
}
