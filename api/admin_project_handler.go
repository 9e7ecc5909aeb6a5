package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/errs"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type adminProjectHandler struct {
	responder           Responder
	logger              zerolog.Logger
	projectRepo         *database.ProjectRepo
	categoryRepo        *database.CategoryRepo
	projectCategoryRepo *database.ProjectCategoryRepo
}

func newAdminProjectHandler(projectRepo *database.ProjectRepo, categoryRepo *database.CategoryRepo, projectCategoryRepo *database.ProjectCategoryRepo) adminProjectHandler {
	logger := log.With().Str("handlerName", "adminProjectHandler").Logger()

	return adminProjectHandler{
		responder:           NewResponder(logger),
		logger:              logger,
		projectRepo:         projectRepo,
		categoryRepo:        categoryRepo,
		projectCategoryRepo: projectCategoryRepo,
	}
}

// ProjectInput is the body of a project create
type ProjectInput struct {
	Title        string      `json:"title" validate:"required,max=200"`
	Description  string      `json:"description" validate:"max=10000"`
	ThumbnailURL *string     `json:"thumbnail_url" validate:"omitempty,url"`
	Images       []string    `json:"images" validate:"omitempty,max=50,dive,url"`
	TechStack    []string    `json:"tech_stack" validate:"omitempty,max=50,dive,max=50"`
	ProjectURL   *string     `json:"project_url" validate:"omitempty,url"`
	DemoURL      *string     `json:"demo_url" validate:"omitempty,url"`
	Published    bool        `json:"published"`
	Featured     bool        `json:"featured"`
	CategoryIDs  []uuid.UUID `json:"category_ids"`
}

// ProjectPatch is a partial project update; absent fields are left unchanged
type ProjectPatch struct {
	Title        *string      `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string      `json:"description" validate:"omitempty,max=10000"`
	ThumbnailURL *string      `json:"thumbnail_url" validate:"omitempty,url"`
	Images       *[]string    `json:"images" validate:"omitempty,max=50,dive,url"`
	TechStack    *[]string    `json:"tech_stack" validate:"omitempty,max=50,dive,max=50"`
	ProjectURL   *string      `json:"project_url" validate:"omitempty,url"`
	DemoURL      *string      `json:"demo_url" validate:"omitempty,url"`
	Published    *bool        `json:"published"`
	Featured     *bool        `json:"featured"`
	CategoryIDs  *[]uuid.UUID `json:"category_ids"`
}

// fields maps the patch to column updates. Link fields sent as "" are cleared.
func (p ProjectPatch) fields() map[string]any {
	fields := map[string]any{}
	if p.Title != nil {
		fields["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.ThumbnailURL != nil {
		fields["thumbnail_url"] = nullable(*p.ThumbnailURL)
	}
	if p.Images != nil {
		fields["images"] = datatypes.JSONSlice[string](nonNil(*p.Images))
	}
	if p.TechStack != nil {
		fields["tech_stack"] = datatypes.JSONSlice[string](models.NormalizeTechStack(*p.TechStack))
	}
	if p.ProjectURL != nil {
		fields["project_url"] = nullable(*p.ProjectURL)
	}
	if p.DemoURL != nil {
		fields["demo_url"] = nullable(*p.DemoURL)
	}
	if p.Published != nil {
		fields["published"] = *p.Published
	}
	if p.Featured != nil {
		fields["featured"] = *p.Featured
	}
	return fields
}

func nullable(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

type BulkAction string

const (
	BulkPublish          BulkAction = "publish"
	BulkUnpublish        BulkAction = "unpublish"
	BulkDelete           BulkAction = "delete"
	BulkAssignCategories BulkAction = "assign_categories"
)

// BulkRequest applies one action to every selected project
type BulkRequest struct {
	Action      BulkAction  `json:"action" validate:"required,oneof=publish unpublish delete assign_categories"`
	ProjectIDs  []uuid.UUID `json:"project_ids" validate:"required,min=1,max=200"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
	Confirm     bool        `json:"confirm"`
}

// BulkResponse reports what a bulk action changed. Projects holds the updated rows and is
// empty after a delete.
type BulkResponse struct {
	Action   BulkAction        `json:"action"`
	Affected int64             `json:"affected"`
	Projects []*models.Project `json:"projects"`
}

func (h adminProjectHandler) view(r *http.Request, project *models.Project) (ProjectView, error) {
	views, err := buildViews(r.Context(), h.projectRepo, h.categoryRepo, []*models.Project{project}, nil)
	if err != nil {
		return ProjectView{}, err
	}
	return views[0], nil
}

// getAllProjects lists every project, drafts included
// @Summary List all projects
// @Tags Admin
// @Produce json
// @Success 200 {array} ProjectView
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/projects [get]
func (h adminProjectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.ListAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		views, err := buildViews(r.Context(), h.projectRepo, h.categoryRepo, projects, nil)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, views)
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Admin
// @Accept json
// @Produce json
// @Param project body ProjectInput true "Project data"
// @Success 201 {object} ProjectView
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Router /admin/projects [post]
func (h adminProjectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ProjectInput
		if err := decodeJSON(w, r, "project", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := models.Project{
			Title:        strings.TrimSpace(input.Title),
			Description:  input.Description,
			ThumbnailURL: nullableRef(input.ThumbnailURL),
			Images:       datatypes.JSONSlice[string](nonNil(input.Images)),
			TechStack:    datatypes.JSONSlice[string](models.NormalizeTechStack(input.TechStack)),
			ProjectURL:   nullableRef(input.ProjectURL),
			DemoURL:      nullableRef(input.DemoURL),
			Published:    input.Published,
			Featured:     input.Featured,
		}
		if project.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		if err := h.projectRepo.AddWithCategories(r.Context(), &project, input.CategoryIDs); err != nil {
			h.responder.WriteError(w, wrapCategoryLinkError("create", "project", err))
			return
		}

		view, err := h.view(r, &project)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, view)
	}
}

// wrapCategoryLinkError reports an unknown category as a bad category_ids field.
func wrapCategoryLinkError(operation, entity string, err error) error {
	if errors.Is(err, database.ErrUnknownCategory) {
		return errs.NewInvalidFieldError("category_ids", "references a category that does not exist")
	}
	return wrapDatabaseError(operation, entity, err)
}

func nullableRef(s *string) *string {
	if s == nil {
		return nil
	}
	return nullable(*s)
}

// updateProject applies a partial update
// @Summary Update project
// @Tags Admin
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body ProjectPatch true "Fields to change"
// @Success 200 {object} ProjectView
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{projectID} [patch]
func (h adminProjectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch ProjectPatch
		if err := decodeJSON(w, r, "project", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.UpdateWithCategories(r.Context(), projectID, patch.fields(), patch.CategoryIDs)
		if err != nil {
			h.responder.WriteError(w, wrapCategoryLinkError("update", "project", err))
			return
		}

		view, err := h.view(r, project)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, view)
	}
}

// deleteProject deletes a project with its comments, likes and category links
// @Summary Delete project
// @Tags Admin
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param confirm query bool true "Must be true"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 428 {object} ErrorResponse "confirm=true missing"
// @Router /admin/projects/{projectID} [delete]
func (h adminProjectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !confirmed(r) {
			h.responder.WriteError(w, errs.NewConfirmationRequiredError("delete this project"))
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.logger.Info().Str("projectID", projectID.String()).Msg("project deleted")
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "project deleted successfully"})
	}
}

// setCategories replaces a project's categories
// @Summary Set project categories
// @Tags Admin
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectView
// @Router /admin/projects/{projectID}/categories [put]
func (h adminProjectHandler) setCategories() http.HandlerFunc {
	type request struct {
		CategoryIDs []uuid.UUID `json:"category_ids"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body request
		if err := decodeJSON(w, r, "categories", &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		if _, err := h.projectCategoryRepo.Replace(r.Context(), []uuid.UUID{projectID}, body.CategoryIDs); err != nil {
			h.responder.WriteError(w, wrapCategoryLinkError("link categories to", "project", err))
			return
		}

		view, err := h.view(r, project)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, view)
	}
}

// bulkAction publishes, unpublishes, deletes or recategorizes the selected projects
// @Summary Bulk project action
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body BulkRequest true "Action and selection"
// @Success 200 {object} BulkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 428 {object} ErrorResponse "delete without confirm"
// @Router /admin/projects/bulk [post]
func (h adminProjectHandler) bulkAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkRequest
		if err := decodeJSON(w, r, "bulk action", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ctx := r.Context()
		response := BulkResponse{Action: req.Action, Projects: []*models.Project{}}

		switch req.Action {
		case BulkPublish, BulkUnpublish:
			affected, err := h.projectRepo.SetPublished(ctx, req.ProjectIDs, req.Action == BulkPublish)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update", "projects", err))
				return
			}
			response.Affected = affected

		case BulkAssignCategories:
			linked, err := h.projectCategoryRepo.Replace(ctx, req.ProjectIDs, req.CategoryIDs)
			if err != nil {
				h.responder.WriteError(w, wrapCategoryLinkError("link categories to", "projects", err))
				return
			}
			response.Affected = linked

		case BulkDelete:
			if !req.Confirm && !confirmed(r) {
				h.responder.WriteError(w, errs.NewConfirmationRequiredError("delete the selected projects"))
				return
			}
			deleted, err := h.projectRepo.DeleteMany(ctx, req.ProjectIDs)
			if err != nil {
				h.responder.WriteError(w, errs.NewTransactionFailedError("bulk delete", err))
				return
			}
			response.Affected = deleted
			h.logger.Info().Int64("deleted", deleted).Msg("bulk delete")
			h.responder.WriteJSON(w, response)
			return
		}

		projects, err := h.projectRepo.FindByIDs(ctx, req.ProjectIDs)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}
		response.Projects = projects
		h.responder.WriteJSON(w, response)
	}
}
