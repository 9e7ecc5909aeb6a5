package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/errs"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rpupo63/portfolio-showcase-backend/ratelimit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event announces a session change for one identity.
type Event struct {
	Kind   EventKind
	UserID uuid.UUID
}

type EventPublisher interface {
	Publish(event Event)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) bool
}

type ProfileStore interface {
	Ensure(ctx context.Context, id uuid.UUID, fullName string) (*models.Profile, error)
}

type RoleGranter interface {
	Grant(ctx context.Context, userID uuid.UUID, role models.Role) error
}

const signUpSuccessMessage = "Account created successfully! Please check your email to verify."

type SignInResult struct {
	Session  *Session  `json:"session"`
	Identity *Identity `json:"identity"`
	IsAdmin  bool      `json:"is_admin"`
	Redirect string    `json:"redirect"`
}

type SignUpResult struct {
	User    *User  `json:"user"`
	Message string `json:"message"`
}

// Authenticator runs the sign-in, sign-up and sign-out flows against the auth provider.
type Authenticator struct {
	provider        Provider
	limiter         *ratelimit.Limiter
	profiles        ProfileStore
	roles           RoleGranter
	admins          AdminChecker
	events          EventPublisher
	redirectURL     string
	bootstrapAdmins map[string]bool
	logger          zerolog.Logger
}

type Option func(*Authenticator)

func WithAdminChecker(admins AdminChecker) Option {
	return func(a *Authenticator) {
		a.admins = admins
	}
}

func WithEvents(events EventPublisher) Option {
	return func(a *Authenticator) {
		a.events = events
	}
}

// WithRedirectURL sets where the confirmation email sends new users.
func WithRedirectURL(url string) Option {
	return func(a *Authenticator) {
		a.redirectURL = url
	}
}

// WithBootstrapAdmins grants the admin role to these emails when they sign up.
func WithBootstrapAdmins(emails []string) Option {
	return func(a *Authenticator) {
		for _, email := range emails {
			if email = NormalizeEmail(email); email != "" {
				a.bootstrapAdmins[email] = true
			}
		}
	}
}

func NewAuthenticator(provider Provider, limiter *ratelimit.Limiter, profiles ProfileStore, roles RoleGranter, opts ...Option) *Authenticator {
	a := &Authenticator{
		provider:        provider,
		limiter:         limiter,
		profiles:        profiles,
		roles:           roles,
		bootstrapAdmins: make(map[string]bool),
		logger:          log.With().Str("component", "authenticator").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.limiter == nil {
		a.limiter = ratelimit.New(nil)
	}
	return a
}

// SignIn validates the form, consults the rate limiter and only then calls the provider.
// Every provider failure counts against the email; a success clears its record.
func (a *Authenticator) SignIn(ctx context.Context, form SignInForm) (*SignInResult, error) {
	if messages := form.Validate(); len(messages) > 0 {
		return nil, errs.NewValidationErrors(messages)
	}
	form = form.Normalize()

	decision, err := a.limiter.Check(ctx, form.Email)
	if err != nil {
		// the limiter is a speed bump; an unavailable store must not block sign-in
		a.logger.Warn().Err(err).Msg("rate limit check failed, allowing attempt")
	} else if !decision.Allowed {
		return nil, errs.NewTooManyAttemptsError(decision.Remaining)
	}

	session, err := a.provider.SignInWithPassword(ctx, form.Email, form.Password)
	if err != nil {
		if _, recErr := a.limiter.RecordFailure(ctx, form.Email); recErr != nil {
			a.logger.Warn().Err(recErr).Msg("failed to record sign-in failure")
		}
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, errs.NewInvalidCredentialsError()
		}
		a.logger.Error().Err(err).Msg("auth provider sign-in failed")
		return nil, errs.NewAuthServiceError(err)
	}

	if err := a.limiter.Reset(ctx, form.Email); err != nil {
		a.logger.Warn().Err(err).Msg("failed to reset sign-in failures")
	}

	identity := &Identity{
		ID:       session.User.ID,
		Email:    session.User.Email,
		FullName: session.User.FullName(),
	}

	isAdmin := a.admins != nil && a.admins.IsAdmin(ctx, identity.ID)
	redirect := "/"
	if isAdmin {
		redirect = "/admin"
	}

	a.publish(EventSignedIn, identity.ID)

	return &SignInResult{
		Session:  session,
		Identity: identity,
		IsAdmin:  isAdmin,
		Redirect: redirect,
	}, nil
}

// SignUp registers a new account. It never signs the user in: the provider sends a
// confirmation email first.
func (a *Authenticator) SignUp(ctx context.Context, form SignUpForm) (*SignUpResult, error) {
	if messages := form.Validate(); len(messages) > 0 {
		return nil, errs.NewValidationErrors(messages)
	}
	form = form.Normalize()

	user, err := a.provider.SignUp(ctx, SignUpRequest{
		Email:      form.Email,
		Password:   form.Password,
		RedirectTo: a.redirectURL,
		Metadata:   map[string]any{"full_name": form.FullName},
	})
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return nil, errs.NewEmailInUseError()
		}
		a.logger.Error().Err(err).Msg("auth provider sign-up failed")
		return nil, errs.NewSignUpFailedError(err)
	}

	if user.ID != uuid.Nil && a.profiles != nil {
		if _, err := a.profiles.Ensure(ctx, user.ID, form.FullName); err != nil {
			a.logger.Error().Err(err).Str("userID", user.ID.String()).Msg("failed to create profile")
		}
	}

	if user.ID != uuid.Nil && a.roles != nil && a.bootstrapAdmins[form.Email] {
		if err := a.roles.Grant(ctx, user.ID, models.RoleAdmin); err != nil {
			a.logger.Error().Err(err).Str("userID", user.ID.String()).Msg("failed to grant bootstrap admin role")
		} else {
			a.logger.Info().Str("userID", user.ID.String()).Msg("granted bootstrap admin role")
		}
	}

	return &SignUpResult{User: user, Message: signUpSuccessMessage}, nil
}

// SignOut revokes the session at the provider and announces it.
func (a *Authenticator) SignOut(ctx context.Context, accessToken string, userID uuid.UUID) error {
	err := a.provider.SignOut(ctx, accessToken)
	if err != nil && !errors.Is(err, ErrInvalidToken) {
		a.logger.Error().Err(err).Msg("auth provider sign-out failed")
		return errs.NewAuthServiceError(err)
	}
	a.publish(EventSignedOut, userID)
	return nil
}

func (a *Authenticator) publish(kind EventKind, userID uuid.UUID) {
	if a.events != nil {
		a.events.Publish(Event{Kind: kind, UserID: userID})
	}
}
