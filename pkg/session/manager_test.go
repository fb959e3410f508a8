package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/upskill/pkg/adapters/memory"
	"github.com/aretw0/upskill/pkg/adapters/redis"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore simulates IO latency to provoke lost updates if locking is missing.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, id string) (*domain.WizardState, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func (s slowStore) Save(ctx context.Context, id string, state *domain.WizardState) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, id, state)
}

func TestManager_UpdateSerializesWriters(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	_, created, err := manager.LoadOrStart(ctx, id, domain.NewWizardState)
	require.NoError(t, err)
	require.True(t, created)

	var wg sync.WaitGroup
	const writers = 20
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(s domain.WizardState) (domain.WizardState, error) {
				s.History = append(s.History, domain.HistoryEntry{QuestionID: len(s.History) + 1})
				return s, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, state.History, writers, "no update may be lost")
}

func TestManager_LoadOrStart(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	first, created, err := manager.LoadOrStart(ctx, "s1", domain.NewWizardState)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "s1", first.SessionID)

	first.Index = 3
	require.NoError(t, manager.Save(ctx, "s1", first))

	again, created, err := manager.LoadOrStart(ctx, "s1", domain.NewWizardState)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 3, again.Index)
}

func TestManager_UpdateKeepsStateOnError(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, _, err := manager.LoadOrStart(ctx, "s1", domain.NewWizardState)
	require.NoError(t, err)

	boom := errors.New("rejected")
	_, err = manager.Update(ctx, "s1", func(s domain.WizardState) (domain.WizardState, error) {
		s.Index = 7
		return s, boom
	})
	assert.ErrorIs(t, err, boom)

	state, err := manager.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Index)

	_, err = manager.Update(ctx, "missing", func(s domain.WizardState) (domain.WizardState, error) { return s, nil })
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_DeleteAndList(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		_, _, err := manager.LoadOrStart(ctx, id, domain.NewWizardState)
		require.NoError(t, err)
	}
	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, manager.Delete(ctx, "a"))
	_, err = manager.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	manager := session.NewManager(memory.NewStore(),
		session.WithLocker(redis.NewLocker(client, "test:")),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	err := manager.WithLock(ctx, "s1", func(ctx context.Context) error {
		assert.True(t, mr.Exists("test:lock:s1"), "distributed lock held during fn")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:lock:s1"), "distributed lock released after fn")
}
