package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/errs"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rpupo63/portfolio-showcase-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectRepo  *database.ProjectRepo
	categoryRepo *database.CategoryRepo
	siteURL      string
}

func newProjectHandler(projectRepo *database.ProjectRepo, categoryRepo *database.CategoryRepo, siteURL string) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
		siteURL:      siteURL,
	}
}

// ProjectView is a project with its categories and engagement numbers
type ProjectView struct {
	*models.Project
	Categories []models.Category     `json:"categories"`
	Stats      database.ProjectStats `json:"stats"`
}

// ProjectListResponse is one page of the public listing
type ProjectListResponse struct {
	Projects []ProjectView `json:"projects"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	HasMore  bool          `json:"has_more"`
}

// ShareResponse lists the share menu of a project
type ShareResponse struct {
	URL   string               `json:"url"`
	Title string               `json:"title"`
	Links []services.ShareLink `json:"links"`
}

// buildViews attaches categories and stats to projects with one query per measure.
func buildViews(ctx context.Context, projectRepo *database.ProjectRepo, categoryRepo *database.CategoryRepo, projects []*models.Project, viewer *uuid.UUID) ([]ProjectView, error) {
	projectIDs := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	stats, err := projectRepo.Stats(ctx, projectIDs, viewer)
	if err != nil {
		return nil, wrapDatabaseError("count engagement for", "projects", err)
	}
	categories, err := categoryRepo.ForProjects(ctx, projectIDs)
	if err != nil {
		return nil, wrapDatabaseError("find categories for", "projects", err)
	}

	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		cats := categories[p.ID]
		if cats == nil {
			cats = []models.Category{}
		}
		views = append(views, ProjectView{Project: p, Categories: cats, Stats: stats[p.ID]})
	}
	return views, nil
}

func viewerID(ctx context.Context) *uuid.UUID {
	if identity := ctxGetIdentity(ctx); identity != nil {
		id := identity.ID
		return &id
	}
	return nil
}

// getProjects returns one page of published projects
// @Summary List published projects
// @Description Newest first, six per page. Repeat category (or pass a comma separated list) to keep projects in any of those categories.
// @Tags Projects
// @Produce json
// @Param page query int false "Zero based page number"
// @Param category query []string false "Category IDs"
// @Success 200 {object} ProjectListResponse
// @Failure 400 {object} ErrorResponse
// @Router /projects [get]
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := intQuery(r, "page", 0)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if page > services.MaxPage(services.PageSize) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("page", fmt.Sprintf("must be at most %d", services.MaxPage(services.PageSize))))
			return
		}
		categoryIDs, err := parseIDs("category", r.URL.Query()["category"])
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.projectRepo.ListPublished(r.Context(), database.ListQuery{
			Page:        page,
			PageSize:    services.PageSize,
			CategoryIDs: categoryIDs,
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		views, err := buildViews(r.Context(), h.projectRepo, h.categoryRepo, result.Projects, viewerID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectListResponse{
			Projects: views,
			Total:    result.Total,
			Page:     result.Page,
			PageSize: result.PageSize,
			HasMore:  result.HasMore,
		})
	}
}

// getProject retrieves a published project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectView
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found or not published"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindPublished(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		views, err := buildViews(r.Context(), h.projectRepo, h.categoryRepo, []*models.Project{project}, viewerID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, views[0])
	}
}

func (h projectHandler) getShareLinks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindPublished(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		pageURL := services.ProjectURL(h.siteURL, project.ID)
		h.responder.WriteJSON(w, ShareResponse{
			URL:   pageURL,
			Title: project.Title,
			Links: services.ShareLinks(project.Title, pageURL, project.TechStack),
		})
	}
}
