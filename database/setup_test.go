package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	// every connection to :memory: is its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	d := New(db)
	require.NoError(t, d.Migrate(context.Background()))
	return d
}

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// seedProjects inserts n projects, the i-th created i minutes after baseTime.
func seedProjects(t *testing.T, d Database, n int, published bool) []*models.Project {
	t.Helper()
	projects := make([]*models.Project, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Project{
			Title:     fmt.Sprintf("project %d", i),
			Published: published,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, d.ProjectRepo().Add(context.Background(), p))
		projects = append(projects, p)
	}
	return projects
}

func ids(projects []*models.Project) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

// link replaces the categories of projectIDs and requires it to succeed.
func link(t *testing.T, d Database, projectIDs, categoryIDs []uuid.UUID) {
	t.Helper()
	_, err := d.ProjectCategoryRepo().Replace(context.Background(), projectIDs, categoryIDs)
	require.NoError(t, err)
}
