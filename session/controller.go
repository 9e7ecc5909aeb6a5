// Package session resolves the caller behind a request and whether they are an admin.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rpupo63/portfolio-showcase-backend/auth"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*auth.Identity, error)
}

type RoleLookup interface {
	HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
}

// State is what the front end needs to render for the current session.
type State struct {
	Identity *auth.Identity `json:"identity"`
	IsAdmin  bool           `json:"is_admin"`
}

type Controller struct {
	verifier TokenVerifier
	roles    RoleLookup
	admins   *expirable.LRU[uuid.UUID, bool]
	hub      *Hub
	logger   zerolog.Logger
}

type Option func(*options)

type options struct {
	cacheSize int
	cacheTTL  time.Duration
	hub       *Hub
}

func WithRoleCache(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.cacheSize = size
		o.cacheTTL = ttl
	}
}

func WithHub(hub *Hub) Option {
	return func(o *options) {
		o.hub = hub
	}
}

func NewController(verifier TokenVerifier, roles RoleLookup, opts ...Option) *Controller {
	o := options{cacheSize: 1024, cacheTTL: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hub == nil {
		o.hub = NewHub()
	}

	c := &Controller{
		verifier: verifier,
		roles:    roles,
		admins:   expirable.NewLRU[uuid.UUID, bool](o.cacheSize, nil, o.cacheTTL),
		hub:      o.hub,
		logger:   log.With().Str("component", "sessionController").Logger(),
	}

	// a sign-in or sign-out forces a fresh role lookup
	c.hub.Subscribe(func(e auth.Event) {
		c.admins.Remove(e.UserID)
	})
	return c
}

// Resolve returns the identity behind an access token.
func (c *Controller) Resolve(ctx context.Context, accessToken string) (*auth.Identity, error) {
	return c.verifier.Verify(ctx, accessToken)
}

// IsAdmin looks up the admin role for userID. A failed lookup is logged and answered with
// false, and is not cached.
func (c *Controller) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	if isAdmin, ok := c.admins.Get(userID); ok {
		return isAdmin
	}

	isAdmin, err := c.roles.HasRole(ctx, userID, models.RoleAdmin)
	if err != nil {
		c.logger.Error().Err(err).Str("userID", userID.String()).Msg("role lookup failed, treating as non-admin")
		return false
	}
	c.admins.Add(userID, isAdmin)
	return isAdmin
}

// State resolves the token and the identity's admin flag in one call.
func (c *Controller) State(ctx context.Context, accessToken string) (State, error) {
	identity, err := c.Resolve(ctx, accessToken)
	if err != nil {
		return State{}, err
	}
	return State{Identity: identity, IsAdmin: c.IsAdmin(ctx, identity.ID)}, nil
}

func (c *Controller) Subscribe(fn func(auth.Event)) func() {
	return c.hub.Subscribe(fn)
}

func (c *Controller) Publish(event auth.Event) {
	c.hub.Publish(event)
}

// Forget drops the cached role of userID, e.g. after an admin grants or revokes a role.
func (c *Controller) Forget(userID uuid.UUID) {
	c.admins.Remove(userID)
}
