package mapper

import (
	"time"

	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var deletedAt *time.Time
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	return &entity.User{
		Id:             u.Id,
		Email:          u.Email,
		FullName:       u.FullName,
		EmergencyEmail: u.EmergencyEmail,
		Role:           u.Role,
		Status:         u.Status,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      u.DeletedAt.Valid,
	}
}
