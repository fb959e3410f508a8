package domain

import "time"

// EventName identifies an analytics event.
type EventName string

const (
	EventAssessmentStarted   EventName = "assessment_started"
	EventQuestionAnswered    EventName = "question_answered"
	EventStepAdvanced        EventName = "step_advanced"
	EventStepRetreated       EventName = "step_retreated"
	EventAssessmentCompleted EventName = "assessment_completed"
	EventAssessmentReset     EventName = "assessment_reset"
	EventLeadCaptureFailed   EventName = "lead_capture_failed"
)

// Event is a named analytics signal with a property bag.
type Event struct {
	Name       EventName      `json:"name"`
	SessionID  string         `json:"session_id"`
	Timestamp  time.Time      `json:"timestamp"`
	Properties map[string]any `json:"properties,omitempty"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(name EventName, sessionID string, props map[string]any) Event {
	if props == nil {
		props = make(map[string]any)
	}
	return Event{
		Name:       name,
		SessionID:  sessionID,
		Timestamp:  time.Now().UTC(),
		Properties: props,
	}
}
