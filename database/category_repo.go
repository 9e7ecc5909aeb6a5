package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// FindAll returns categories in display order, ties broken by name
func (r *CategoryRepo) FindAll(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("display_order ASC").Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepo) Add(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Category, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes a category and unlinks it from every project.
func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.ProjectCategory{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ForProjects returns the categories linked to each of the given projects.
func (r *CategoryRepo) ForProjects(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	result := make(map[uuid.UUID][]models.Category, len(projectIDs))
	if len(projectIDs) == 0 {
		return result, nil
	}

	db := r.db.WithContext(ctx)

	var links []models.ProjectCategory
	if err := db.Where("project_id IN ?", projectIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return result, nil
	}

	categoryIDs := make([]uuid.UUID, 0, len(links))
	seen := make(map[uuid.UUID]bool, len(links))
	for _, link := range links {
		if !seen[link.CategoryID] {
			seen[link.CategoryID] = true
			categoryIDs = append(categoryIDs, link.CategoryID)
		}
	}

	var categories []models.Category
	err := db.Where("id IN ?", categoryIDs).
		Order("display_order ASC").
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	linked := make(map[uuid.UUID]map[uuid.UUID]bool, len(projectIDs))
	for _, link := range links {
		if linked[link.ProjectID] == nil {
			linked[link.ProjectID] = make(map[uuid.UUID]bool)
		}
		linked[link.ProjectID][link.CategoryID] = true
	}
	for projectID, ids := range linked {
		for _, category := range categories {
			if ids[category.ID] {
				result[projectID] = append(result[projectID], category)
			}
		}
	}
	return result, nil
}
