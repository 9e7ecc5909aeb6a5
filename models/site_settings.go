package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SiteSettingsID addresses the single site_settings row.
var SiteSettingsID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// SiteSettings holds the site copy, branding and SEO fields edited from the admin dashboard.
type SiteSettings struct {
	ID uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`

	HeroHeading  *string `json:"hero_heading" db:"hero_heading" gorm:"type:text"`
	HeroSubtitle *string `json:"hero_subtitle" db:"hero_subtitle" gorm:"type:text"`

	AboutTitle          *string                     `json:"about_title" db:"about_title" gorm:"type:text"`
	AboutLeftHeading    *string                     `json:"about_left_heading" db:"about_left_heading" gorm:"type:text"`
	AboutLeftParagraph1 *string                     `json:"about_left_paragraph1" db:"about_left_paragraph1" gorm:"type:text"`
	AboutLeftParagraph2 *string                     `json:"about_left_paragraph2" db:"about_left_paragraph2" gorm:"type:text"`
	AboutRightHeading   *string                     `json:"about_right_heading" db:"about_right_heading" gorm:"type:text"`
	AboutServices       datatypes.JSONSlice[string] `json:"about_services" db:"about_services" gorm:"not null"`

	ContactTitle        *string `json:"contact_title" db:"contact_title" gorm:"type:text"`
	ContactHeading      *string `json:"contact_heading" db:"contact_heading" gorm:"type:text"`
	ContactDescription  *string `json:"contact_description" db:"contact_description" gorm:"type:text"`
	ContactEmail        *string `json:"contact_email" db:"contact_email" gorm:"type:text"`
	ContactAvailability *string `json:"contact_availability" db:"contact_availability" gorm:"type:text"`

	SocialGithub   *string `json:"social_github" db:"social_github" gorm:"type:text"`
	SocialLinkedin *string `json:"social_linkedin" db:"social_linkedin" gorm:"type:text"`
	SocialTwitter  *string `json:"social_twitter" db:"social_twitter" gorm:"type:text"`
	FooterText     *string `json:"footer_text" db:"footer_text" gorm:"type:text"`

	SiteTitle       *string `json:"site_title" db:"site_title" gorm:"type:text"`
	SiteDescription *string `json:"site_description" db:"site_description" gorm:"type:text"`
	SiteKeywords    *string `json:"site_keywords" db:"site_keywords" gorm:"type:text"`
	GoogleAnalytics *string `json:"google_analytics" db:"google_analytics" gorm:"type:text"`

	LogoURL             *string `json:"logo_url" db:"logo_url" gorm:"type:text"`
	FaviconURL          *string `json:"favicon_url" db:"favicon_url" gorm:"type:text"`
	ProfilePhotoURL     *string `json:"profile_photo_url" db:"profile_photo_url" gorm:"type:text"`
	DefaultThumbnailURL *string `json:"default_thumbnail_url" db:"default_thumbnail_url" gorm:"type:text"`

	MaintenanceMode bool `json:"maintenance_mode" db:"maintenance_mode" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"not null"`
}

func (SiteSettings) TableName() string {
	return "site_settings"
}

// DefaultSiteSettings is the row written the first time settings are read.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		ID:            SiteSettingsID,
		AboutServices: datatypes.JSONSlice[string]{},
	}
}
