package database

import (
	"context"

	"github.com/rpupo63/portfolio-showcase-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db                  *gorm.DB
	projectRepo         *ProjectRepo
	categoryRepo        *CategoryRepo
	projectCategoryRepo *ProjectCategoryRepo
	commentRepo         *CommentRepo
	likeRepo            *LikeRepo
	profileRepo         *ProfileRepo
	userRoleRepo        *UserRoleRepo
	siteSettingsRepo    *SiteSettingsRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                  db,
		projectRepo:         NewProjectRepo(db),
		categoryRepo:        NewCategoryRepo(db),
		projectCategoryRepo: NewProjectCategoryRepo(db),
		commentRepo:         NewCommentRepo(db),
		likeRepo:            NewLikeRepo(db),
		profileRepo:         NewProfileRepo(db),
		userRoleRepo:        NewUserRoleRepo(db),
		siteSettingsRepo:    NewSiteSettingsRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) ProjectCategoryRepo() *ProjectCategoryRepo {
	return d.projectCategoryRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) LikeRepo() *LikeRepo {
	return d.likeRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) UserRoleRepo() *UserRoleRepo {
	return d.userRoleRepo
}

func (d Database) SiteSettingsRepo() *SiteSettingsRepo {
	return d.siteSettingsRepo
}

// Ping checks that the database answers within ctx.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d Database) Migrate(ctx context.Context) error {
	return models.Migrate(d.db.WithContext(ctx))
}
