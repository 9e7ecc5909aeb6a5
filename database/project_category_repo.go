package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"gorm.io/gorm"
)

type ProjectCategoryRepo struct {
	db *gorm.DB
}

func NewProjectCategoryRepo(db *gorm.DB) *ProjectCategoryRepo {
	return &ProjectCategoryRepo{db}
}

// ErrUnknownCategory is returned when a category link names a category that does not exist.
var ErrUnknownCategory = errors.New("unknown category")

// Replace drops every existing category link of the given projects and links each of them
// to exactly categoryIDs. Unknown project ids are skipped, an unknown category id fails the
// whole call. It returns how many projects were relinked. An empty categoryIDs leaves the
// projects uncategorized.
func (r *ProjectCategoryRepo) Replace(ctx context.Context, projectIDs, categoryIDs []uuid.UUID) (int64, error) {
	var linked int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := replaceCategories(tx, projectIDs, categoryIDs)
		linked = n
		return err
	})
	return linked, err
}

// replaceCategories runs Replace inside an existing transaction.
func replaceCategories(tx *gorm.DB, projectIDs, categoryIDs []uuid.UUID) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}

	var existing []uuid.UUID
	err := tx.Model(&models.Project{}).Where("id IN ?", uniqueIDs(projectIDs)).Pluck("id", &existing).Error
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, nil
	}

	categoryIDs = uniqueIDs(categoryIDs)
	if len(categoryIDs) > 0 {
		var known int64
		if err := tx.Model(&models.Category{}).Where("id IN ?", categoryIDs).Count(&known).Error; err != nil {
			return 0, err
		}
		if known != int64(len(categoryIDs)) {
			return 0, ErrUnknownCategory
		}
	}

	if err := tx.Where("project_id IN ?", existing).Delete(&models.ProjectCategory{}).Error; err != nil {
		return 0, err
	}
	if len(categoryIDs) == 0 {
		return int64(len(existing)), nil
	}

	links := make([]models.ProjectCategory, 0, len(existing)*len(categoryIDs))
	for _, projectID := range existing {
		for _, categoryID := range categoryIDs {
			links = append(links, models.ProjectCategory{ProjectID: projectID, CategoryID: categoryID})
		}
	}
	if err := tx.Create(&links).Error; err != nil {
		return 0, err
	}
	return int64(len(existing)), nil
}

func (r *ProjectCategoryRepo) CategoryIDsFor(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.ProjectCategory{}).
		Where("project_id = ?", projectID).
		Pluck("category_id", &ids).Error
	return ids, err
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
