package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CRISIS_ESCALATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain value implementation of Event.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the safety core.
const (
	TypeCrisisEscalated = "CRISIS_ESCALATED"
	TypeManualAlertSent = "MANUAL_ALERT_SENT"
)

// NewCrisisEscalated builds the ops event published when an automatic
// escalation fires. Payload mirrors the audit record, minus the resource
// block.
func NewCrisisEscalated(userID, sessionID string, count int, emailSent bool) Event {
	return BaseEvent{
		Type: TypeCrisisEscalated,
		Data: map[string]interface{}{
			"user_id":    userID,
			"session_id": sessionID,
			"count":      count,
			"email_sent": emailSent,
		},
		OccurredAt: time.Now(),
	}
}
