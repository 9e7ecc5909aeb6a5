package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRoleRepo struct {
	db *gorm.DB
}

func NewUserRoleRepo(db *gorm.DB) *UserRoleRepo {
	return &UserRoleRepo{db}
}

// HasRole is a single filtered lookup on (user_id, role).
func (r *UserRoleRepo) HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count > 0, err
}

// Grant gives the user a role. Granting a role the user already holds is a no-op.
func (r *UserRoleRepo) Grant(ctx context.Context, userID uuid.UUID, role models.Role) error {
	userRole := models.UserRole{UserID: userID, Role: role}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&userRole).Error
}

func (r *UserRoleRepo) Revoke(ctx context.Context, userID uuid.UUID, role models.Role) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&models.UserRole{}).Error
}
