package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/errs"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rpupo63/portfolio-showcase-backend/services"
	"github.com/rpupo63/portfolio-showcase-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxUploadBytes    = 5 << 20
	maxGalleryUploads = 10
)

// settingColumns says which settings column an upload kind writes its URL into.
var settingColumns = map[storage.Kind]string{
	storage.KindLogo:             "logo_url",
	storage.KindFavicon:          "favicon_url",
	storage.KindProfilePhoto:     "profile_photo_url",
	storage.KindDefaultThumbnail: "default_thumbnail_url",
}

type uploadHandler struct {
	responder   Responder
	logger      zerolog.Logger
	storage     ObjectStorage
	projectRepo *database.ProjectRepo
	settings    *settingsCache
}

func newUploadHandler(store ObjectStorage, projectRepo *database.ProjectRepo, settings *settingsCache) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()
	return uploadHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		storage:     store,
		projectRepo: projectRepo,
		settings:    settings,
	}
}

// UploadResponse is the stored object plus whichever row now references it
type UploadResponse struct {
	Object   storage.Object       `json:"object"`
	Project  *models.Project      `json:"project,omitempty"`
	Settings *models.SiteSettings `json:"settings,omitempty"`
}

// GalleryResponse is a project's gallery after a change
type GalleryResponse struct {
	Project *models.Project         `json:"project"`
	Images  []services.GalleryImage `json:"images"`
}

func (h uploadHandler) available() error {
	if h.storage == nil {
		return errs.NewServiceUnreachableError("storage", errors.New("object storage is not configured"))
	}
	return nil
}

// readPart loads one uploaded file and checks its type and size.
func readPart(fh *multipart.FileHeader) ([]byte, string, error) {
	if fh.Size > maxUploadBytes {
		return nil, "", errs.NewUnsupportedUploadError(fmt.Sprintf("%s is larger than %d MB", fh.Filename, maxUploadBytes>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", errs.NewMalformedPayloadError("upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", errs.NewMalformedPayloadError("upload", err)
	}
	if len(data) > maxUploadBytes {
		return nil, "", errs.NewUnsupportedUploadError(fmt.Sprintf("%s is larger than %d MB", fh.Filename, maxUploadBytes>>20))
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !storage.AllowedContentType(contentType) {
		return nil, "", errs.NewUnsupportedUploadError(fmt.Sprintf("%s is not a supported image type", contentType))
	}
	return data, contentType, nil
}

func (h uploadHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxGalleryUploads*maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return errs.NewMalformedPayloadError("multipart", err)
	}
	return nil
}

func (h uploadHandler) store(r *http.Request, kind storage.Kind, fh *multipart.FileHeader) (storage.Object, error) {
	data, contentType, err := readPart(fh)
	if err != nil {
		return storage.Object{}, err
	}
	obj, err := h.storage.Upload(r.Context(), kind, fh.Filename, contentType, data)
	if err != nil {
		return storage.Object{}, errs.NewStorageError("upload image", err)
	}
	h.logger.Info().Str("key", obj.Key).Str("kind", string(kind)).Int("bytes", len(data)).Msg("stored upload")
	return obj, nil
}

// upload stores one image and writes its URL where the kind says
// @Summary Upload image
// @Description kind is one of thumbnail, gallery, profile, logo, favicon, default_thumbnail. thumbnail and gallery need project_id.
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param kind query string true "Upload kind"
// @Param project_id query string false "Project for thumbnail and gallery uploads"
// @Param file formData file true "Image"
// @Success 201 {object} UploadResponse
// @Failure 415 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Storage failed"
// @Router /admin/uploads [post]
func (h uploadHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.available(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		kind, ok := storage.ParseKind(r.URL.Query().Get("kind"))
		if !ok {
			h.responder.WriteError(w, errs.NewInvalidFieldError("kind", "must be one of thumbnail, gallery, profile, logo, favicon, default_thumbnail"))
			return
		}

		var project *models.Project
		if kind == storage.KindThumbnail || kind == storage.KindGallery {
			projectIDs, err := parseIDs("project_id", []string{r.URL.Query().Get("project_id")})
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			if len(projectIDs) != 1 {
				h.responder.WriteError(w, errs.NewMissingRequiredFieldError("project_id"))
				return
			}
			if project, err = h.projectRepo.FindByID(r.Context(), projectIDs[0]); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
				return
			}
		}

		if err := h.parseForm(w, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		files := r.MultipartForm.File["file"]
		switch {
		case len(files) == 0:
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		case len(files) > 1:
			h.responder.WriteError(w, errs.NewInvalidFieldError("file", "send exactly one file"))
			return
		}

		obj, err := h.store(r, kind, files[0])
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response := UploadResponse{Object: obj}
		switch {
		case kind == storage.KindThumbnail:
			response.Project, err = h.projectRepo.SetThumbnail(r.Context(), project.ID, obj.URL)
		case kind == storage.KindGallery:
			gallery := services.NewGallery(project.Images, h.storage.KeyFromURL)
			if err = gallery.Add(services.GalleryImage{ID: obj.Key, URL: obj.URL}); err == nil {
				response.Project, err = h.projectRepo.SetImages(r.Context(), project.ID, gallery.URLs())
			}
		default:
			response.Settings, err = h.settings.update(r.Context(), map[string]any{settingColumns[kind]: obj.URL})
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save upload for", string(kind), err))
			return
		}

		h.responder.WriteCreated(w, response)
	}
}

func (h uploadHandler) loadGallery(r *http.Request) (*models.Project, *services.Gallery, error) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		return nil, nil, err
	}
	project, err := h.projectRepo.FindByID(r.Context(), projectID)
	if err != nil {
		return nil, nil, wrapDatabaseError("find", "project", err)
	}

	var keyOf func(string) (string, bool)
	if h.storage != nil {
		keyOf = h.storage.KeyFromURL
	}
	return project, services.NewGallery(project.Images, keyOf), nil
}

func (h uploadHandler) saveGallery(w http.ResponseWriter, r *http.Request, status int, project *models.Project, gallery *services.Gallery) {
	updated, err := h.projectRepo.SetImages(r.Context(), project.ID, gallery.URLs())
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("update images of", "project", err))
		return
	}
	h.responder.WriteJSONStatus(w, status, GalleryResponse{Project: updated, Images: gallery.Images()})
}

// addGalleryImages uploads every "files" part and appends them to the gallery in order
func (h uploadHandler) addGalleryImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.available(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, gallery, err := h.loadGallery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.parseForm(w, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("files"))
			return
		}
		if len(files) > maxGalleryUploads {
			h.responder.WriteError(w, errs.NewInvalidFieldError("files", fmt.Sprintf("at most %d images per request", maxGalleryUploads)))
			return
		}

		for _, fh := range files {
			obj, err := h.store(r, storage.KindGallery, fh)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			if err := gallery.Add(services.GalleryImage{ID: obj.Key, URL: obj.URL}); err != nil {
				h.responder.WriteError(w, errs.NewConflictError(err.Error()))
				return
			}
		}

		h.saveGallery(w, r, http.StatusCreated, project, gallery)
	}
}

type GalleryOrder struct {
	IDs []string `json:"ids" validate:"required"`
}

// reorderGallery sets the gallery order; ids must list every image exactly once
func (h uploadHandler) reorderGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, gallery, err := h.loadGallery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var order GalleryOrder
		if err := decodeJSON(w, r, "gallery order", &order); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := gallery.Reorder(order.IDs); err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("ids", err.Error()))
			return
		}

		h.saveGallery(w, r, http.StatusOK, project, gallery)
	}
}

// removeGalleryImage drops one image by ID and deletes the stored object when the image
// was uploaded here.
func (h uploadHandler) removeGalleryImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, gallery, err := h.loadGallery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		imageID, err := url.PathUnescape(chiWildcard(r))
		if err != nil || imageID == "" {
			h.responder.WriteError(w, errs.NewInvalidFieldError("imageID", "missing or malformed"))
			return
		}

		removed, err := gallery.Remove(imageID)
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFoundError(err.Error()))
			return
		}

		updated, err := h.projectRepo.SetImages(r.Context(), project.ID, gallery.URLs())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update images of", "project", err))
			return
		}

		if h.storage != nil && removed.ID != removed.URL {
			if err := h.storage.Delete(r.Context(), removed.ID); err != nil {
				h.logger.Warn().Err(err).Str("key", removed.ID).Msg("image unlinked but object not deleted")
			}
		}

		h.responder.WriteJSON(w, GalleryResponse{Project: updated, Images: gallery.Images()})
	}
}
