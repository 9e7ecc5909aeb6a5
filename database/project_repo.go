package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rpupo63/portfolio-showcase-backend/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// ListQuery selects one page of the public listing.
type ListQuery struct {
	Page        int
	PageSize    int
	CategoryIDs []uuid.UUID
}

type ProjectPage struct {
	Projects []*models.Project `json:"projects"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	HasMore  bool              `json:"has_more"`
}

// ProjectStats are the engagement numbers shown next to a project.
type ProjectStats struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Liked    bool  `json:"liked"`
}

// ListPublished returns published projects newest first. A non-empty CategoryIDs keeps only
// projects joined to at least one of those categories.
func (r *ProjectRepo) ListPublished(ctx context.Context, q ListQuery) (ProjectPage, error) {
	page, size := services.ClampPage(q.Page, q.PageSize)
	db := r.db.WithContext(ctx)

	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("published = ?", true)
		if len(q.CategoryIDs) > 0 {
			joined := db.Model(&models.ProjectCategory{}).
				Select("project_id").
				Where("category_id IN ?", q.CategoryIDs)
			tx = tx.Where("id IN (?)", joined)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Project{}).Scopes(scope).Count(&total).Error; err != nil {
		return ProjectPage{}, err
	}

	projects := make([]*models.Project, 0, size)
	offset := services.Offset(page, size)
	if int64(offset) >= total {
		return ProjectPage{Projects: projects, Total: total, Page: page, PageSize: size}, nil
	}
	err := db.Scopes(scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(size).
		Find(&projects).Error
	if err != nil {
		return ProjectPage{}, err
	}

	return ProjectPage{
		Projects: projects,
		Total:    total,
		Page:     page,
		PageSize: size,
		HasMore:  services.HasMore(total, page, size),
	}, nil
}

// ListAll returns every project, published or not, for the admin dashboard
func (r *ProjectRepo) ListAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDs returns the listed projects newest first; unknown ids are skipped.
func (r *ProjectRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Project, error) {
	projects := make([]*models.Project, 0, len(ids))
	if len(ids) == 0 {
		return projects, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindPublished returns a project only if it is published.
func (r *ProjectRepo) FindPublished(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND published = ?", id, true).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.AddWithCategories(ctx, project, nil)
}

// AddWithCategories inserts a project and its category links in one transaction.
func (r *ProjectRepo) AddWithCategories(ctx context.Context, project *models.Project, categoryIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		_, err := replaceCategories(tx, []uuid.UUID{project.ID}, categoryIDs)
		return err
	})
}

// Update applies a partial update filtered by primary key and returns the updated row.
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Project, error) {
	return r.UpdateWithCategories(ctx, id, fields, nil)
}

// UpdateWithCategories applies a partial update and, when categoryIDs is set, replaces the
// project's categories, all in one transaction.
func (r *ProjectRepo) UpdateWithCategories(ctx context.Context, id uuid.UUID, fields map[string]any, categoryIDs *[]uuid.UUID) (*models.Project, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			res := tx.Model(&models.Project{}).Where("id = ?", id).Updates(fields)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		if categoryIDs == nil {
			return nil
		}
		linked, err := replaceCategories(tx, []uuid.UUID{id}, *categoryIDs)
		if err != nil {
			return err
		}
		if linked == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *ProjectRepo) SetImages(ctx context.Context, id uuid.UUID, images []string) (*models.Project, error) {
	return r.Update(ctx, id, map[string]any{"images": datatypes.JSONSlice[string](images)})
}

func (r *ProjectRepo) SetThumbnail(ctx context.Context, id uuid.UUID, url string) (*models.Project, error) {
	return r.Update(ctx, id, map[string]any{"thumbnail_url": url})
}

// SetPublished flips the published flag on every listed project in a single statement.
func (r *ProjectRepo) SetPublished(ctx context.Context, ids []uuid.UUID, published bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"published": published})
	return res.RowsAffected, res.Error
}

// Delete removes a project along with its category links, likes and comments.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := r.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteMany removes exactly the listed projects and their dependent rows in one transaction.
func (r *ProjectRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []any{&models.ProjectCategory{}, &models.Like{}, &models.Comment{}}
		for _, model := range dependents {
			if err := tx.Where("project_id IN ?", ids).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

type projectCount struct {
	ProjectID uuid.UUID
	N         int64
}

// Stats returns likes, comments and, when viewer is set, whether the viewer liked each
// project. It issues one grouped query per measure regardless of how many ids are given.
func (r *ProjectRepo) Stats(ctx context.Context, ids []uuid.UUID, viewer *uuid.UUID) (map[uuid.UUID]ProjectStats, error) {
	stats := make(map[uuid.UUID]ProjectStats, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}
	for _, id := range ids {
		stats[id] = ProjectStats{}
	}

	db := r.db.WithContext(ctx)

	var likeCounts []projectCount
	err := db.Model(&models.Like{}).
		Select("project_id, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&likeCounts).Error
	if err != nil {
		return nil, err
	}
	for _, row := range likeCounts {
		s := stats[row.ProjectID]
		s.Likes = row.N
		stats[row.ProjectID] = s
	}

	var commentCounts []projectCount
	err = db.Model(&models.Comment{}).
		Select("project_id, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&commentCounts).Error
	if err != nil {
		return nil, err
	}
	for _, row := range commentCounts {
		s := stats[row.ProjectID]
		s.Comments = row.N
		stats[row.ProjectID] = s
	}

	if viewer == nil {
		return stats, nil
	}

	var liked []uuid.UUID
	err = db.Model(&models.Like{}).
		Where("project_id IN ? AND user_id = ?", ids, *viewer).
		Pluck("project_id", &liked).Error
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		s := stats[id]
		s.Liked = true
		stats[id] = s
	}

	return stats, nil
}
