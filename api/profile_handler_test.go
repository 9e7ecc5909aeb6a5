package api

import (
	"net/http"
	"testing"

	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/me/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	id, token := env.user("ana@example.com")

	rec = env.do(http.MethodGet, "/me/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, id, decode[models.Profile](t, rec).ID)

	rec = env.do(http.MethodPatch, "/me/profile", token, map[string]any{
		"full_name": "  Ana   <Lima> ",
		"bio":       "  Go and Vue  ",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decode[models.Profile](t, rec)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Ana Lima", *profile.FullName)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "Go and Vue", *profile.Bio)

	rec = env.do(http.MethodPatch, "/me/profile", token, map[string]any{"bio": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.Profile](t, rec).Bio)

	rec = env.do(http.MethodPatch, "/me/profile", token, map[string]any{"full_name": "A"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Name must be at least 2 characters"}, decode[ErrorResponse](t, rec).Errors)
}
