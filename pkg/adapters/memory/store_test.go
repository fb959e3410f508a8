package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/upskill/pkg/adapters/memory"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryLeadStore_Contract(t *testing.T) {
	ports.RunLeadStoreContract(t, memory.NewLeadStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	state := domain.NewWizardState("s1")
	state.Answers = state.Answers.WithSelection(1, []string{"business"})
	require.NoError(t, store.Save(ctx, "s1", &state))

	state.Answers.Selections[1][0] = "mutated"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"business"}, loaded.Answers.Selected(1))

	loaded.Answers.Selections[1][0] = "mutated-again"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"business"}, again.Answers.Selected(1))
}
