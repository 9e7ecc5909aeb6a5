package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "anon-key"

func newGoTrueServer(t *testing.T, userID uuid.UUID) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.Header.Get("apikey"))
		assert.Equal(t, "https://site.dev/", r.URL.Query().Get("redirect_to"))

		var body signUpPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Email == "taken@site.dev" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
			return
		}
		assert.Equal(t, "Ada", body.Data["full_name"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            userID,
			"email":         body.Email,
			"user_metadata": body.Data,
		})
	})

	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch body["email"] {
		case "ok@site.dev":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "token-123",
				"token_type":    "bearer",
				"expires_in":    3600,
				"refresh_token": "refresh-123",
				"user":          map[string]any{"id": userID, "email": "ok@site.dev", "user_metadata": map[string]any{"full_name": "Ada"}},
			})
		case "legacy@site.dev":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
		case "down@site.dev":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`upstream unavailable`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
		}
	})

	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"error_code":"bad_jwt","msg":"invalid JWT"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"error_code":"bad_jwt","msg":"invalid JWT"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": userID, "email": "ok@site.dev"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientSignUp(t *testing.T) {
	userID := uuid.New()
	server := newGoTrueServer(t, userID)
	client := NewClient(server.URL+"/", testAPIKey, server.Client())
	ctx := context.Background()

	user, err := client.SignUp(ctx, SignUpRequest{
		Email:      "new@site.dev",
		Password:   "Abcdef1!",
		RedirectTo: "https://site.dev/",
		Metadata:   map[string]any{"full_name": "Ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "Ada", user.FullName())

	_, err = client.SignUp(ctx, SignUpRequest{Email: "taken@site.dev", Password: "Abcdef1!", RedirectTo: "https://site.dev/"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusUnprocessableEntity, pe.StatusCode)
}

func TestClientSignIn(t *testing.T) {
	userID := uuid.New()
	server := newGoTrueServer(t, userID)
	client := NewClient(server.URL, testAPIKey, nil)
	ctx := context.Background()

	session, err := client.SignInWithPassword(ctx, "ok@site.dev", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, "token-123", session.AccessToken)
	assert.Equal(t, userID, session.User.ID)

	_, err = client.SignInWithPassword(ctx, "wrong@site.dev", "Abcdef1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = client.SignInWithPassword(ctx, "legacy@site.dev", "Abcdef1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = client.SignInWithPassword(ctx, "down@site.dev", "Abcdef1!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "upstream unavailable", pe.Message)
}

func TestClientSessionCalls(t *testing.T) {
	userID := uuid.New()
	server := newGoTrueServer(t, userID)
	client := NewClient(server.URL, testAPIKey, nil)
	ctx := context.Background()

	user, err := client.GetUser(ctx, "token-123")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	_, err = client.GetUser(ctx, "stale")
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.NoError(t, client.SignOut(ctx, "token-123"))
	assert.ErrorIs(t, client.SignOut(ctx, "stale"), ErrInvalidToken)
}

func TestClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	_, err := NewClient(server.URL, testAPIKey, nil).SignInWithPassword(context.Background(), "a@b.io", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
