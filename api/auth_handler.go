package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/auth"
	"github.com/rpupo63/portfolio-showcase-backend/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	authenticator *auth.Authenticator
	sessions      *session.Controller
}

func newAuthHandler(authenticator *auth.Authenticator, sessions *session.Controller) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		authenticator: authenticator,
		sessions:      sessions,
	}
}

// SessionResponse is the current session as seen by the front end. Cleared is set when
// the presented token was invalid and has been signed out.
type SessionResponse struct {
	session.State
	Cleared bool `json:"cleared,omitempty"`
}

// signUp registers a new account
// @Summary Sign up
// @Description Creates an account and sends a confirmation email. Does not sign in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param form body auth.SignUpForm true "Sign-up form"
// @Success 201 {object} auth.SignUpResult
// @Failure 400 {object} ErrorResponse "Validation failed; errors lists every message"
// @Failure 409 {object} ErrorResponse "Email already in use"
// @Router /auth/signup [post]
func (h authHandler) signUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form auth.SignUpForm
		if err := decodeJSON(w, r, "sign-up", &form); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.authenticator.SignUp(r.Context(), form)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, result)
	}
}

// signIn exchanges credentials for a session
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param form body auth.SignInForm true "Credentials"
// @Success 200 {object} auth.SignInResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Invalid email or password"
// @Failure 429 {object} ErrorResponse "Locked out; see retry_after_seconds"
// @Router /auth/signin [post]
func (h authHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form auth.SignInForm
		if err := decodeJSON(w, r, "sign-in", &form); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.authenticator.SignIn(r.Context(), form)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

func (h authHandler) signOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "signed out"})
			return
		}

		userID := uuid.Nil
		if identity, err := h.sessions.Resolve(r.Context(), token); err == nil {
			userID = identity.ID
		}

		if err := h.authenticator.SignOut(r.Context(), token, userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "signed out"})
	}
}

// getSession reports who the bearer token belongs to and whether they are an admin. A
// token that no longer verifies is signed out and an anonymous session is returned.
func (h authHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.responder.WriteJSON(w, SessionResponse{})
			return
		}

		state, err := h.sessions.State(r.Context(), token)
		if err != nil {
			h.logger.Info().Err(err).Msg("clearing invalid session")
			if signOutErr := h.authenticator.SignOut(r.Context(), token, uuid.Nil); signOutErr != nil {
				h.logger.Warn().Err(signOutErr).Msg("failed to sign out invalid session")
			}
			h.responder.WriteJSON(w, SessionResponse{Cleared: true})
			return
		}
		h.responder.WriteJSON(w, SessionResponse{State: state})
	}
}
