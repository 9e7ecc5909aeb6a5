package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepo struct {
	db *gorm.DB
}

func NewLikeRepo(db *gorm.DB) *LikeRepo {
	return &LikeRepo{db}
}

// Toggle removes the user's like if present and adds it otherwise. It returns the persisted
// state and the project's like count, both read inside the same transaction.
func (r *LikeRepo) Toggle(ctx context.Context, projectID, userID uuid.UUID) (bool, int64, error) {
	var liked bool
	var count int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			like := models.Like{ProjectID: projectID, UserID: userID}
			// A concurrent toggle may have inserted the same pair first
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
			liked = true
		}

		return tx.Model(&models.Like{}).Where("project_id = ?", projectID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *LikeRepo) Count(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

func (r *LikeRepo) Exists(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}
