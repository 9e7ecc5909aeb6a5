package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

func (r *ProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Ensure creates the profile for an identity if it does not exist yet. An existing profile
// is left untouched.
func (r *ProfileRepo) Ensure(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error) {
	profile := models.Profile{ID: id}
	if fullName != "" {
		profile.FullName = &fullName
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&profile).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *ProfileRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Profile, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}
