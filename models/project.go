package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a showcased piece of work. Only published projects are publicly visible.
type Project struct {
	ID           uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title        string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Description  string                      `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	ThumbnailURL *string                     `json:"thumbnail_url" db:"thumbnail_url" gorm:"type:text"`
	Images       datatypes.JSONSlice[string] `json:"images" db:"images" gorm:"not null"`
	TechStack    datatypes.JSONSlice[string] `json:"tech_stack" db:"tech_stack" gorm:"not null"`
	ProjectURL   *string                     `json:"project_url" db:"project_url" gorm:"type:text"`
	DemoURL      *string                     `json:"demo_url" db:"demo_url" gorm:"type:text"`
	Published    bool                        `json:"published" db:"published" gorm:"not null;default:false;index:idx_projects_published_created,priority:1"`
	Featured     bool                        `json:"featured" db:"featured" gorm:"not null;default:false"`
	CreatedAt    time.Time                   `json:"created_at" db:"created_at" gorm:"not null;index:idx_projects_published_created,priority:2,sort:desc"`
	UpdatedAt    time.Time                   `json:"updated_at" db:"updated_at" gorm:"not null"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	if p.TechStack == nil {
		p.TechStack = datatypes.JSONSlice[string]{}
	}
	return nil
}

// NormalizeTechStack trims every entry and drops blanks and repeats, keeping first-seen order.
func NormalizeTechStack(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
