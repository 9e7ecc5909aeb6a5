package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile shares its id with the authenticated identity it describes.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	FullName  *string   `json:"full_name" db:"full_name" gorm:"type:text"`
	AvatarURL *string   `json:"avatar_url" db:"avatar_url" gorm:"type:text"`
	Bio       *string   `json:"bio" db:"bio" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"not null"`
}

func (Profile) TableName() string {
	return "profiles"
}
