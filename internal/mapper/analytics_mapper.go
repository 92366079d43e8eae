package mapper

import (
	"encoding/json"

	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/model"

	"gorm.io/datatypes"
)

type AnalyticsMapper struct{}

func NewAnalyticsMapper() *AnalyticsMapper {
	return &AnalyticsMapper{}
}

func (m *AnalyticsMapper) ToModel(e *entity.UserAnalytics) *model.UserAnalytics {
	if e == nil {
		return nil
	}

	var metadata datatypes.JSON
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.UserAnalytics{
		Id:              e.Id,
		UserId:          e.UserId,
		SessionId:       e.SessionId,
		TherapyMode:     e.TherapyMode,
		InteractionType: e.InteractionType,
		Metadata:        metadata,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *AnalyticsMapper) ToEntity(a *model.UserAnalytics) *entity.UserAnalytics {
	if a == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(a.Metadata) > 0 {
		_ = json.Unmarshal(a.Metadata, &metadata)
	}

	return &entity.UserAnalytics{
		Id:              a.Id,
		UserId:          a.UserId,
		SessionId:       a.SessionId,
		TherapyMode:     a.TherapyMode,
		InteractionType: a.InteractionType,
		Metadata:        metadata,
		CreatedAt:       a.CreatedAt,
	}
}
