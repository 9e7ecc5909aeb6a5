package api

import (
	"context"

	"github.com/rpupo63/portfolio-showcase-backend/auth"
)

type keyType string

const (
	identityKey    keyType = "identity"
	accessTokenKey keyType = "accessToken"
	isAdminKey     keyType = "isAdmin"
)

// ctxWithIdentity adds the authenticated caller and their token to the context
func ctxWithIdentity(ctx context.Context, identity *auth.Identity, accessToken string) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return context.WithValue(ctx, accessTokenKey, accessToken)
}

func ctxWithAdmin(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, isAdminKey, isAdmin)
}

// ctxGetIdentity returns the caller, or nil for anonymous requests
func ctxGetIdentity(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}

func ctxGetAccessToken(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

func ctxIsAdmin(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(isAdminKey).(bool)
	return isAdmin
}
