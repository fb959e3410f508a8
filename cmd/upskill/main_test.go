package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "upskill version "), out)
}

func TestQuoteCommand_JSON(t *testing.T) {
	out, err := execute(t, "quote", "--track", "engineer", "--delivery", "our_location", "--team-size", "12", "--json")
	require.NoError(t, err)

	var got struct {
		FinalTotal int64 `json:"final_total"`
		LineItems  []any `json:"line_items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, int64(15300000), got.FinalTotal)
	assert.NotEmpty(t, got.LineItems)
}

func TestQuoteCommand_RejectsTeamSizesOutOfRange(t *testing.T) {
	for _, size := range []string{"3", "1001", "250000000000"} {
		_, err := execute(t, "quote", "--track", "engineer", "--team-size", size)
		assert.ErrorContains(t, err, "between 8 and 1000", size)
	}
}

func TestValidateCommand(t *testing.T) {
	catalogPath, err := filepath.Abs(filepath.Join("..", "..", "pkg", "catalog", "testdata", "catalog.yaml"))
	require.NoError(t, err)

	out, err := execute(t, "validate", catalogPath)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid!")

	_, err = execute(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "validation failed")
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD"), out)
	assert.Contains(t, out, "result((")
}

func TestLeadsCommand_Empty(t *testing.T) {
	out, err := execute(t, "leads")
	require.NoError(t, err)
	assert.Equal(t, "No leads yet.\n", out)
}
