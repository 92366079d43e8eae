package mapper

import (
	"encoding/json"

	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/model"

	"gorm.io/datatypes"
)

type EmergencyMapper struct{}

func NewEmergencyMapper() *EmergencyMapper {
	return &EmergencyMapper{}
}

func (m *EmergencyMapper) ToModel(e *entity.EmergencyNotification) *model.EmergencyNotification {
	if e == nil {
		return nil
	}

	var matched datatypes.JSON
	if len(e.MatchedKeywords) > 0 {
		if raw, err := json.Marshal(e.MatchedKeywords); err == nil {
			matched = raw
		}
	}

	var progress datatypes.JSON
	if len(e.ProgressData) > 0 {
		if raw, err := json.Marshal(e.ProgressData); err == nil {
			progress = raw
		}
	}

	return &model.EmergencyNotification{
		Id:               e.Id,
		UserId:           e.UserId,
		SessionId:        e.SessionId,
		EmergencyEmail:   e.EmergencyEmail,
		NotificationType: e.NotificationType,
		TriggerType:      e.TriggerType,
		KeywordCount:     e.KeywordCount,
		MatchedKeywords:  matched,
		EmailSent:        e.EmailSent,
		ProviderRef:      e.ProviderRef,
		FailureReason:    e.FailureReason,
		ProgressData:     progress,
		CreatedAt:        e.CreatedAt,
	}
}

func (m *EmergencyMapper) ToEntity(n *model.EmergencyNotification) *entity.EmergencyNotification {
	if n == nil {
		return nil
	}

	var matched []string
	if len(n.MatchedKeywords) > 0 {
		_ = json.Unmarshal(n.MatchedKeywords, &matched)
	}

	var progress map[string]interface{}
	if len(n.ProgressData) > 0 {
		_ = json.Unmarshal(n.ProgressData, &progress)
	}

	return &entity.EmergencyNotification{
		Id:               n.Id,
		UserId:           n.UserId,
		SessionId:        n.SessionId,
		EmergencyEmail:   n.EmergencyEmail,
		NotificationType: n.NotificationType,
		TriggerType:      n.TriggerType,
		KeywordCount:     n.KeywordCount,
		MatchedKeywords:  matched,
		EmailSent:        n.EmailSent,
		ProviderRef:      n.ProviderRef,
		FailureReason:    n.FailureReason,
		ProgressData:     progress,
		CreatedAt:        n.CreatedAt,
	}
}
