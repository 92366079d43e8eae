package contract

import (
	"context"

	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/specification"
)

type AnalyticsRepository interface {
	Create(ctx context.Context, event *entity.UserAnalytics) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserAnalytics, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
