package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Input(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader("  2 \nback\n"), &out)

	got, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	got, err = h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "back", got)

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF, "EOF is sticky")
	assert.Equal(t, "> > > > ", out.String())
	require.NoError(t, h.Close())
}

func TestTextHandler_FeedInput(t *testing.T) {
	h := NewTextHandler(strings.NewReader(""), io.Discard, WithExternalInput())
	ctx := context.Background()

	go h.FeedInput(" back ", nil)
	got, err := h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "back", got)

	go h.FeedInput("", ErrQuit)
	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, ErrQuit)
}

func TestTextHandler_CloseReleasesReaders(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	h := NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.Input(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	// The pump is parked on the pipe. A line written now must not block forever
	// even though nobody calls Input anymore.
	written := make(chan struct{})
	go func() {
		_, _ = pw.Write([]byte("late\n"))
		close(written)
	}()
	select {
	case <-written:
	case <-time.After(time.Second):
		t.Fatal("pump did not consume the pending line after Close")
	}

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	done := make(chan struct{})
	go func() {
		h.FeedInput("ignored", nil)
		h.FeedInput("ignored", nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("FeedInput blocked after Close")
	}
}

func TestTextHandler_InputRetriesInvalidUTF8(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader("\xff\xfe\nok\n"), &out)

	got, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Contains(t, out.String(), "Please try again.")
}

func TestTextHandler_InputHonorsContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	h := NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTextHandler_Output(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader(""), &out, WithTextHandlerRenderer(func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}))

	require.NoError(t, h.Output(context.Background(), Frame{Content: "## hello\n", Prompt: "pick one"}))
	require.NoError(t, h.Output(context.Background(), Frame{Prompt: "Email:"}))
	require.NoError(t, h.SystemOutput(context.Background(), "saved"))

	assert.Equal(t, "## HELLO\npick one\nEmail:\n\n! saved\n", out.String())
}

func TestJSONHandler(t *testing.T) {
	var out bytes.Buffer
	h := NewJSONHandler(strings.NewReader("\"2\"\n[\"chat\",\"copilot\"]\nback\n"), &out)
	ctx := context.Background()

	for _, want := range []string{"2", "chat,copilot", "back"} {
		got, err := h.Input(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, h.Output(ctx, Frame{Content: "body", Prompt: "p"}))
	require.NoError(t, h.SystemOutput(ctx, "hi"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var frame map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &frame))
	assert.Equal(t, "body", frame["content"])
	assert.Equal(t, "p", frame["prompt"])
	assert.Contains(t, frame, "view")
	assert.JSONEq(t, `{"system":"hi"}`, lines[1])
}

func TestJSONHandler_DrivesRunner(t *testing.T) {
	var out bytes.Buffer
	h := NewJSONHandler(strings.NewReader("\"developers\"\n\"quit\"\n"), &out)
	r, _, _ := newTestRunner(t, h)

	final, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, final.Index)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}
