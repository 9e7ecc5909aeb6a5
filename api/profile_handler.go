package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-showcase-backend/auth"
	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type profileHandler struct {
	responder   Responder
	logger      zerolog.Logger
	profileRepo *database.ProfileRepo
}

func newProfileHandler(profileRepo *database.ProfileRepo) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		profileRepo: profileRepo,
	}
}

type ProfilePatch struct {
	FullName  *string `json:"full_name" validate:"omitempty,max=100"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
}

// getProfile returns the caller's profile, creating it on first access
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := ctxGetIdentity(r.Context())
		if identity == nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError("view your profile"))
			return
		}

		profile, err := h.profileRepo.Ensure(r.Context(), identity.ID, identity.FullName)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

func (h profileHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := ctxGetIdentity(r.Context())
		if identity == nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError("edit your profile"))
			return
		}

		var patch ProfilePatch
		if err := decodeJSON(w, r, "profile", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields := map[string]any{}
		if patch.FullName != nil {
			name := auth.NormalizeName(auth.SanitizeInput(*patch.FullName))
			if name != "" {
				if msg := auth.ValidateName(name); msg != "" {
					h.responder.WriteError(w, errs.NewValidationErrors([]string{msg}))
					return
				}
			}
			fields["full_name"] = nullable(name)
		}
		if patch.AvatarURL != nil {
			fields["avatar_url"] = nullable(*patch.AvatarURL)
		}
		if patch.Bio != nil {
			fields["bio"] = nullable(strings.TrimSpace(*patch.Bio))
		}

		if _, err := h.profileRepo.Ensure(r.Context(), identity.ID, identity.FullName); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		profile, err := h.profileRepo.Update(r.Context(), identity.ID, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "profile", err))
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}
