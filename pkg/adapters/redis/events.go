package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/upskill/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultStream is the stream key analytics events are appended to.
const DefaultStream = "upskill:events"

// EventStream implements ports.AnalyticsSink by appending events to a Redis stream,
// for downstream consumers (dashboards, CRM sync) to read with XREAD.
type EventStream struct {
	client backend.UniversalClient
	stream string
	maxLen int64
}

// NewEventStream creates a sink writing to stream. maxLen > 0 caps the stream approximately.
func NewEventStream(client backend.UniversalClient, stream string, maxLen int64) *EventStream {
	if stream == "" {
		stream = DefaultStream
	}
	return &EventStream{client: client, stream: stream, maxLen: maxLen}
}

// Emit appends the event. Properties are stored as one JSON field.
func (s *EventStream) Emit(ctx context.Context, event domain.Event) error {
	props, err := json.Marshal(event.Properties)
	if err != nil {
		return fmt.Errorf("failed to marshal event properties: %w", err)
	}

	args := &backend.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"name":       string(event.Name),
			"session_id": event.SessionID,
			"timestamp":  event.Timestamp.Format(time.RFC3339Nano),
			"properties": string(props),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}
