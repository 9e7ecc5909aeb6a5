package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	return db
}

func TestNormalizeTechStack(t *testing.T) {
	got := NormalizeTechStack([]string{" Go ", "React", "", "Go", "  ", "Postgres"})
	assert.Equal(t, []string{"Go", "React", "Postgres"}, got)
	assert.Empty(t, NormalizeTechStack(nil))
}

func TestBeforeCreateFillsDefaults(t *testing.T) {
	db := setupTestDB(t)

	project := Project{Title: "Portfolio"}
	require.NoError(t, db.Create(&project).Error)
	assert.NotEqual(t, uuid.Nil, project.ID)

	var stored Project
	require.NoError(t, db.First(&stored, "id = ?", project.ID).Error)
	assert.Empty(t, stored.Images)
	assert.Empty(t, stored.TechStack)
	assert.False(t, stored.Published)

	category := Category{Name: "Web Apps & APIs"}
	require.NoError(t, db.Create(&category).Error)
	assert.Equal(t, "web-apps-and-apis", category.Slug)
}

func TestCommentAuthorName(t *testing.T) {
	name := "Ada Lovelace"
	assert.Equal(t, "Ada Lovelace", Comment{Profile: &Profile{FullName: &name}}.AuthorName())
	assert.Equal(t, "Anonymous", Comment{}.AuthorName())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("owner").Valid())
}

func TestModelColumns(t *testing.T) {
	cols := ModelColumns(&Comment{}, nil)
	assert.Equal(t, []string{"id", "project_id", "user_id", "content", "created_at", "updated_at"}, cols)

	settings := ModelColumns(SiteSettings{}, nil)
	assert.Contains(t, settings, "about_services")
	assert.Contains(t, settings, "default_thumbnail_url")
	assert.Contains(t, settings, "maintenance_mode")
}

func TestFindColumnMismatches(t *testing.T) {
	got := FindColumnMismatches(
		[]string{"id", "title", "views", "archived_at"},
		[]string{"id", "title"},
	)
	assert.Equal(t, []string{"archived_at", "views"}, got)
}

func TestTableNames(t *testing.T) {
	names := make([]string, 0)
	for _, m := range AllModels() {
		names = append(names, tableNameOf(m))
	}
	assert.ElementsMatch(t, []string{
		"projects", "categories", "project_categories", "comments",
		"likes", "profiles", "user_roles", "site_settings",
	}, names)
}
