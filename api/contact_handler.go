package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-showcase-backend/auth"
	"github.com/rpupo63/portfolio-showcase-backend/errs"
	"github.com/rpupo63/portfolio-showcase-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	mailer    ContactSender
	settings  *settingsCache
	recipient string
}

func newContactHandler(mailer ContactSender, settings *settingsCache, recipient string) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()
	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		mailer:    mailer,
		settings:  settings,
		recipient: recipient,
	}
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

type ContactResponse struct {
	Status string `json:"status" example:"sent"`
	ID     string `json:"id,omitempty"`
}

// recipientFor prefers the configured recipient and falls back to the public contact email.
func (h contactHandler) recipientFor(r *http.Request) string {
	if h.recipient != "" {
		return h.recipient
	}
	settings, err := h.settings.get(r.Context())
	if err != nil || settings.ContactEmail == nil {
		return ""
	}
	return strings.TrimSpace(*settings.ContactEmail)
}

// sendContact forwards a visitor's message by email
// @Summary Send contact message
// @Tags Site
// @Accept json
// @Produce json
// @Param message body ContactInput true "Message"
// @Success 202 {object} ContactResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Email could not be sent"
// @Failure 503 {object} ErrorResponse "Email is not configured"
// @Router /contact [post]
func (h contactHandler) sendContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ContactInput
		if err := decodeJSON(w, r, "contact", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipient := h.recipientFor(r)
		if h.mailer == nil || !h.mailer.Configured() || recipient == "" {
			h.responder.WriteError(w, errs.NewServiceUnreachableError("email", errors.New("contact email is not configured")))
			return
		}

		msg := services.ContactMessage{
			Name:    auth.NormalizeName(auth.SanitizeInput(input.Name)),
			Email:   auth.NormalizeEmail(input.Email),
			Message: strings.TrimSpace(input.Message),
		}

		id, err := h.mailer.SendContact(r.Context(), recipient, msg)
		if err != nil {
			h.responder.WriteError(w, errs.NewEmailDeliveryError(err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusAccepted, ContactResponse{Status: "sent", ID: id})
	}
}
