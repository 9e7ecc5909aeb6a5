package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated caller behind an access token.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name,omitempty"`
}

type UserFetcher interface {
	GetUser(ctx context.Context, accessToken string) (*User, error)
}

type accessClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Verifier turns access tokens into identities. With a JWT secret it verifies tokens
// locally; without one it asks the auth service for the token's user.
type Verifier struct {
	secret []byte
	users  UserFetcher
}

func NewVerifier(secret string, users UserFetcher) *Verifier {
	return &Verifier{secret: []byte(secret), users: users}
}

func (v *Verifier) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}
	if len(v.secret) > 0 {
		return v.verifyLocally(accessToken)
	}
	if v.users == nil {
		return nil, errors.New("no token verification method configured")
	}

	user, err := v.users.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: user.ID, Email: user.Email, FullName: user.FullName()}, nil
}

func (v *Verifier) verifyLocally(accessToken string) (*Identity, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject claim", ErrInvalidToken)
	}
	// anon and service keys are signed with the same secret but carry no user
	if claims.Role != "" && claims.Role != "authenticated" {
		return nil, fmt.Errorf("%w: role %q is not a user session", ErrInvalidToken, claims.Role)
	}

	name, _ := claims.UserMetadata["full_name"].(string)
	return &Identity{ID: id, Email: claims.Email, FullName: name}, nil
}
