package dto

import "github.com/google/uuid"

// AnalyticsEventMessage is the payload published to the analytics topic and
// consumed asynchronously for persistence.
type AnalyticsEventMessage struct {
	UserId          uuid.UUID              `json:"user_id"`
	SessionId       *uuid.UUID             `json:"session_id,omitempty"`
	TherapyMode     string                 `json:"therapy_mode,omitempty"`
	InteractionType string                 `json:"interaction_type"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}
