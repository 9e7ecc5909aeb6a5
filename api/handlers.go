package api

import (
	"time"

	"github.com/rpupo63/portfolio-showcase-backend/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Deps, c config.Config, settings *settingsCache, startupTime time.Time) *routeHandlers {
	db := deps.Database
	siteURL := config.GetString(c, "SITE_BASE_URL", "http://localhost:5173")

	return &routeHandlers{
		healthHandler:   newHealthHandler(db, startupTime),
		authHandler:     newAuthHandler(deps.Authenticator, deps.Sessions),
		projectHandler:  newProjectHandler(db.ProjectRepo(), db.CategoryRepo(), siteURL),
		adminHandler:    newAdminProjectHandler(db.ProjectRepo(), db.CategoryRepo(), db.ProjectCategoryRepo()),
		commentHandler:  newCommentHandler(db.ProjectRepo(), db.CommentRepo(), db.LikeRepo(), db.ProfileRepo()),
		categoryHandler: newCategoryHandler(db.CategoryRepo()),
		profileHandler:  newProfileHandler(db.ProfileRepo()),
		settingsHandler: newSettingsHandler(settings),
		uploadHandler:   newUploadHandler(deps.Storage, db.ProjectRepo(), settings),
		contactHandler:  newContactHandler(deps.Mailer, settings, config.GetString(c, "CONTACT_RECIPIENT", "")),
	}
}
