package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Category struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name         string    `json:"name" db:"name" gorm:"type:text;not null"`
	Slug         string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_categories_slug"`
	Color        *string   `json:"color" db:"color" gorm:"type:text"`
	Icon         *string   `json:"icon" db:"icon" gorm:"type:text"`
	Description  *string   `json:"description" db:"description" gorm:"type:text"`
	DisplayOrder int       `json:"display_order" db:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at" gorm:"not null"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeCreate fills in the id and derives the slug from the name when none was given.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

// ProjectCategory is the join row between a project and a category
type ProjectCategory struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID  uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_categories_project_id;uniqueIndex:idx_project_categories_unique"`
	CategoryID uuid.UUID `json:"category_id" db:"category_id" gorm:"type:uuid;not null;index:idx_project_categories_category_id;uniqueIndex:idx_project_categories_unique"`
	CreatedAt  time.Time `json:"created_at" db:"created_at" gorm:"not null"`
}

func (ProjectCategory) TableName() string {
	return "project_categories"
}

func (pc *ProjectCategory) BeforeCreate(tx *gorm.DB) error {
	if pc.ID == uuid.Nil {
		pc.ID = uuid.New()
	}
	return nil
}
