package models

import "gorm.io/gorm"

// AllModels lists every table the application owns, in dependency order.
func AllModels() []any {
	return []any{
		&Profile{},
		&UserRole{},
		&Project{},
		&Category{},
		&ProjectCategory{},
		&Comment{},
		&Like{},
		&SiteSettings{},
	}
}

// Migrate creates or updates every table and index.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
