package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-showcase-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SiteSettingsRepo struct {
	db *gorm.DB
}

func NewSiteSettingsRepo(db *gorm.DB) *SiteSettingsRepo {
	return &SiteSettingsRepo{db}
}

// Get returns the singleton settings row, creating it with defaults the first time.
func (r *SiteSettingsRepo) Get(ctx context.Context) (*models.SiteSettings, error) {
	db := r.db.WithContext(ctx)

	var settings models.SiteSettings
	err := db.First(&settings, "id = ?", models.SiteSettingsID).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := models.DefaultSiteSettings()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, err
	}
	if err := db.First(&settings, "id = ?", models.SiteSettingsID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update applies a partial update to the singleton row and returns it.
func (r *SiteSettingsRepo) Update(ctx context.Context, fields map[string]any) (*models.SiteSettings, error) {
	if _, err := r.Get(ctx); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).
			Model(&models.SiteSettings{}).
			Where("id = ?", models.SiteSettingsID).
			Updates(fields).Error
		if err != nil {
			return nil, err
		}
	}
	return r.Get(ctx)
}
