package analytics_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/upskill/pkg/analytics"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopAndLogNeverFail(t *testing.T) {
	ctx := context.Background()
	event := domain.NewEvent(domain.EventAssessmentStarted, "s1", map[string]any{"questions": 6})

	assert.NoError(t, analytics.Nop{}.Emit(ctx, event))

	var buf bytes.Buffer
	sink := analytics.NewLog(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, sink.Emit(ctx, event))
	assert.Contains(t, buf.String(), "event=assessment_started")
	assert.Contains(t, buf.String(), "session_id=s1")
	assert.Contains(t, buf.String(), "questions=6")
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	var got []string
	record := func(name string, err error) analytics.Func {
		return func(_ context.Context, e domain.Event) error {
			got = append(got, name)
			return err
		}
	}
	boom := errors.New("boom")

	sink := analytics.Multi{record("a", boom), record("b", nil)}
	err := sink.Emit(context.Background(), domain.NewEvent(domain.EventAssessmentReset, "s1", nil))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestRedact_MasksWithoutTouchingCaller(t *testing.T) {
	var seen domain.Event
	next := analytics.Func(func(_ context.Context, e domain.Event) error {
		seen = e
		return nil
	})
	sink := analytics.Redact(next)

	props := map[string]any{
		"track": "engineer",
		"email": "ana@acme.test",
		"contact": map[string]any{
			"Phone":     "+1 555",
			"team_size": 12,
		},
	}
	require.NoError(t, sink.Emit(context.Background(), domain.NewEvent(domain.EventAssessmentCompleted, "s1", props)))

	assert.Equal(t, "engineer", seen.Properties["track"])
	assert.Equal(t, analytics.Mask, seen.Properties["email"])
	nested := seen.Properties["contact"].(map[string]any)
	assert.Equal(t, analytics.Mask, nested["Phone"])
	assert.Equal(t, 12, nested["team_size"])

	assert.Equal(t, "ana@acme.test", props["email"], "the caller's map is untouched")
	assert.Equal(t, "+1 555", props["contact"].(map[string]any)["Phone"])
}

func TestPrometheus_RecordsCompletions(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := analytics.NewPrometheus(reg)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, sink.Emit(ctx, domain.NewEvent(domain.EventAssessmentStarted, "s1", nil)))
	require.NoError(t, sink.Emit(ctx, domain.NewEvent(domain.EventAssessmentCompleted, "s1", map[string]any{
		"track":       "engineer",
		"delivery":    "our_location",
		"team_size":   12,
		"final_total": int64(domain.Units(153000)),
	})))

	expected := `
# HELP upskill_assessments_completed_total Completed assessments by recommended track and delivery mode
# TYPE upskill_assessments_completed_total counter
upskill_assessments_completed_total{delivery="our_location",track="engineer"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "upskill_assessments_completed_total"))

	count, err := testutil.GatherAndCount(reg, "upskill_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = analytics.NewPrometheus(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestNewRedact_InvalidPattern(t *testing.T) {
	_, err := analytics.NewRedact(analytics.Nop{}, "(?i)email", "([")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"(["`)

	assert.Panics(t, func() { analytics.Redact(analytics.Nop{}, "([") })
}
