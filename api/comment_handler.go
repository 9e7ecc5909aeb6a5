package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/errs"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// commentHandler serves the engagement endpoints of a project: comments and likes.
type commentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	commentRepo *database.CommentRepo
	likeRepo    *database.LikeRepo
	profileRepo *database.ProfileRepo
}

func newCommentHandler(projectRepo *database.ProjectRepo, commentRepo *database.CommentRepo, likeRepo *database.LikeRepo, profileRepo *database.ProfileRepo) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		profileRepo: profileRepo,
	}
}

type CommentView struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	UserID     uuid.UUID `json:"user_id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func commentView(c *models.Comment) CommentView {
	return CommentView{
		ID:         c.ID,
		ProjectID:  c.ProjectID,
		UserID:     c.UserID,
		Content:    c.Content,
		AuthorName: c.AuthorName(),
		CreatedAt:  c.CreatedAt,
	}
}

type CommentInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// LikeResponse is the persisted like state after a toggle
type LikeResponse struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// getComments lists a published project's comments, newest first
// @Summary List comments
// @Tags Engagement
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {array} CommentView
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/comments [get]
func (h commentHandler) getComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if _, err := h.projectRepo.FindPublished(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		comments, err := h.commentRepo.ListByProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comments", err))
			return
		}

		views := make([]CommentView, 0, len(comments))
		for _, c := range comments {
			views = append(views, commentView(c))
		}
		h.responder.WriteJSON(w, views)
	}
}

// createComment posts a comment as the signed-in user
// @Summary Add comment
// @Tags Engagement
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param comment body CommentInput true "Comment"
// @Success 201 {object} CommentView
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /projects/{projectID}/comments [post]
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := ctxGetIdentity(r.Context())
		if identity == nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError("comment"))
			return
		}

		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input CommentInput
		if err := decodeJSON(w, r, "comment", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		content := strings.TrimSpace(input.Content)
		if content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}

		if _, err := h.projectRepo.FindPublished(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		// comments.user_id references profiles; accounts created elsewhere may not have one yet
		if _, err := h.profileRepo.Ensure(r.Context(), identity.ID, identity.FullName); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}

		comment := models.Comment{ProjectID: projectID, UserID: identity.ID, Content: content}
		if err := h.commentRepo.Add(r.Context(), &comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "comment", err))
			return
		}

		created, err := h.commentRepo.FindByID(r.Context(), comment.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comment", err))
			return
		}
		h.responder.WriteCreated(w, commentView(created))
	}
}

// toggleLike likes or unlikes a project and answers with the stored state
// @Summary Toggle like
// @Tags Engagement
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} LikeResponse
// @Failure 401 {object} ErrorResponse
// @Router /projects/{projectID}/like [post]
func (h commentHandler) toggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := ctxGetIdentity(r.Context())
		if identity == nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError("like projects"))
			return
		}

		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if _, err := h.projectRepo.FindPublished(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		liked, count, err := h.likeRepo.Toggle(r.Context(), projectID, identity.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("toggle like on", "project", err))
			return
		}
		h.responder.WriteJSON(w, LikeResponse{Liked: liked, Count: count})
	}
}

// deleteComment removes a comment from the admin dashboard
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuidParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.commentRepo.Delete(r.Context(), commentID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "comment", err))
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "comment deleted"})
	}
}
