package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/upskill/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func files(t *testing.T, input string) (in, out *os.File) {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(inPath, []byte(input), 0o600))

	in, err := os.Open(inPath)
	require.NoError(t, err)
	out, err = os.Create(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	t.Cleanup(func() {
		in.Close()
		out.Close()
	})
	return in, out
}

func readOut(t *testing.T, out *os.File) string {
	t.Helper()
	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	return string(data)
}

func TestRunWizard_SavesProgress(t *testing.T) {
	app, err := Build(context.Background(), baseConfig(), logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	in, out := files(t, "developers\nadvanced\n")
	require.NoError(t, RunWizard(context.Background(), app, RunOptions{SessionID: "cli-1", In: in, Out: out}))

	text := readOut(t, out)
	assert.Contains(t, text, "## Question 1 of 7")
	assert.Contains(t, text, "Resume with --session cli-1")

	state, err := app.Sessions.Load(context.Background(), "cli-1")
	require.NoError(t, err)
	assert.Equal(t, 2, state.Index)
}

func TestRunWizard_Fresh(t *testing.T) {
	app, err := Build(context.Background(), baseConfig(), logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	in, out := files(t, "developers\n")
	require.NoError(t, RunWizard(context.Background(), app, RunOptions{SessionID: "cli-1", In: in, Out: out}))

	in, out = files(t, "")
	require.NoError(t, RunWizard(context.Background(), app, RunOptions{SessionID: "cli-1", Fresh: true, In: in, Out: out}))
	assert.NotContains(t, readOut(t, out), "Resuming session")

	state, err := app.Sessions.Load(context.Background(), "cli-1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Index)
}

func TestRunWizard_JSON(t *testing.T) {
	app, err := Build(context.Background(), baseConfig(), logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	in, out := files(t, "\"developers\"\n\"quit\"\n")
	require.NoError(t, RunWizard(context.Background(), app, RunOptions{JSON: true, In: in, Out: out}))

	lines := strings.Split(strings.TrimSpace(readOut(t, out)), "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "{"), l)
	}
}

func TestRunWizard_Cancelled(t *testing.T) {
	app, err := Build(context.Background(), baseConfig(), logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in, out := files(t, "developers\n")
	require.NoError(t, RunWizard(ctx, app, RunOptions{SessionID: "cli-2", In: in, Out: out}))
	assert.Contains(t, readOut(t, out), "Interrupted")
}
