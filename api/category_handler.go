package api

import (
	"net/http"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/errs"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.CategoryRepo
}

func newCategoryHandler(categoryRepo *database.CategoryRepo) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
	}
}

type CategoryInput struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Slug         string  `json:"slug" validate:"omitempty,max=100"`
	Color        *string `json:"color" validate:"omitempty,max=32"`
	Icon         *string `json:"icon" validate:"omitempty,max=64"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	DisplayOrder int     `json:"display_order"`
}

type CategoryPatch struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug         *string `json:"slug" validate:"omitempty,min=1,max=100"`
	Color        *string `json:"color" validate:"omitempty,max=32"`
	Icon         *string `json:"icon" validate:"omitempty,max=64"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	DisplayOrder *int    `json:"display_order"`
}

func (p CategoryPatch) fields() map[string]any {
	fields := map[string]any{}
	if p.Name != nil {
		fields["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Slug != nil {
		fields["slug"] = slug.Make(*p.Slug)
	}
	if p.Color != nil {
		fields["color"] = nullable(*p.Color)
	}
	if p.Icon != nil {
		fields["icon"] = nullable(*p.Icon)
	}
	if p.Description != nil {
		fields["description"] = nullable(*p.Description)
	}
	if p.DisplayOrder != nil {
		fields["display_order"] = *p.DisplayOrder
	}
	return fields
}

// getCategories lists categories for the listing filter
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h categoryHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "categories", err))
			return
		}
		if categories == nil {
			categories = []*models.Category{}
		}
		h.responder.WriteJSON(w, categories)
	}
}

func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CategoryInput
		if err := decodeJSON(w, r, "category", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category := models.Category{
			Name:         strings.TrimSpace(input.Name),
			Color:        nullableRef(input.Color),
			Icon:         nullableRef(input.Icon),
			Description:  nullableRef(input.Description),
			DisplayOrder: input.DisplayOrder,
		}
		if input.Slug != "" {
			category.Slug = slug.Make(input.Slug)
		}
		if category.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		if err := h.categoryRepo.Add(r.Context(), &category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "category", err))
			return
		}
		h.responder.WriteCreated(w, category)
	}
}

func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuidParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch CategoryPatch
		if err := decodeJSON(w, r, "category", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.categoryRepo.Update(r.Context(), categoryID, patch.fields())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "category", err))
			return
		}
		h.responder.WriteJSON(w, category)
	}
}

// deleteCategory removes a category and unlinks it from its projects. Requires confirm=true.
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuidParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !confirmed(r) {
			h.responder.WriteError(w, errs.NewConfirmationRequiredError("delete this category"))
			return
		}

		if err := h.categoryRepo.Delete(r.Context(), categoryID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "category", err))
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "category deleted"})
	}
}
