package implementation

import (
	"context"

	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/mapper"
	"github.com/TheTechnextInc/mindful-chatbot/internal/model"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/contract"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/specification"

	"gorm.io/gorm"
)

type EmergencyNotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmergencyMapper
}

func NewEmergencyNotificationRepository(db *gorm.DB) contract.EmergencyNotificationRepository {
	return &EmergencyNotificationRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmergencyMapper(),
	}
}

func (r *EmergencyNotificationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EmergencyNotificationRepositoryImpl) Create(ctx context.Context, notification *entity.EmergencyNotification) error {
	m := r.mapper.ToModel(notification)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*notification = *r.mapper.ToEntity(m)
	return nil
}

func (r *EmergencyNotificationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmergencyNotification, error) {
	var models []*model.EmergencyNotification
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.EmergencyNotification, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *EmergencyNotificationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.EmergencyNotification{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
