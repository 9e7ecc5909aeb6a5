package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProjectsPaginates(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		env.project(fmt.Sprintf("Project %d", i), true, base.Add(time.Duration(i)*time.Hour))
	}
	env.project("Draft", false, base.Add(24*time.Hour))

	rec := env.do(http.MethodGet, "/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[ProjectListResponse](t, rec)
	assert.Equal(t, int64(8), first.Total)
	assert.Equal(t, 6, first.PageSize)
	assert.True(t, first.HasMore)
	require.Len(t, first.Projects, 6)
	assert.Equal(t, "Project 7", first.Projects[0].Title)
	assert.NotNil(t, first.Projects[0].Categories)

	rec = env.do(http.MethodGet, "/projects?page=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[ProjectListResponse](t, rec)
	assert.False(t, second.HasMore)
	require.Len(t, second.Projects, 2)
	assert.Equal(t, "Project 0", second.Projects[1].Title)
}

func TestGetProjectsPageBounds(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		env.project(fmt.Sprintf("Project %d", i), true, time.Now())
	}

	rec := env.do(http.MethodGet, "/projects?page=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	past := decode[ProjectListResponse](t, rec)
	assert.Empty(t, past.Projects)
	assert.Equal(t, int64(3), past.Total)
	assert.False(t, past.HasMore)

	rec = env.do(http.MethodGet, "/projects?page=1537228672809129302", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "page", decode[ErrorResponse](t, rec).Field)

	rec = env.do(http.MethodGet, "/projects?page=99999999999999999999", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProjectsFiltersByCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	web := &models.Category{Name: "Web"}
	cli := &models.Category{Name: "CLI Tools"}
	require.NoError(t, env.db.CategoryRepo().Add(ctx, web))
	require.NoError(t, env.db.CategoryRepo().Add(ctx, cli))

	site := env.project("Site", true, now)
	tool := env.project("Tool", true, now.Add(-time.Hour))
	env.project("Other", true, now.Add(-2*time.Hour))
	env.link([]uuid.UUID{site.ID}, []uuid.UUID{web.ID})
	env.link([]uuid.UUID{tool.ID}, []uuid.UUID{cli.ID})

	rec := env.do(http.MethodGet, "/projects?category="+web.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[ProjectListResponse](t, rec)
	require.Len(t, page.Projects, 1)
	assert.Equal(t, "Site", page.Projects[0].Title)
	require.Len(t, page.Projects[0].Categories, 1)
	assert.Equal(t, "web", page.Projects[0].Categories[0].Slug)

	rec = env.do(http.MethodGet, "/projects?category="+web.ID.String()+","+cli.ID.String(), "", nil)
	page = decode[ProjectListResponse](t, rec)
	assert.Equal(t, int64(2), page.Total)

	rec = env.do(http.MethodGet, "/projects?category=not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProjectHidesDrafts(t *testing.T) {
	env := newTestEnv(t)
	draft := env.project("Draft", false, time.Now())
	live := env.project("Live", true, time.Now())

	rec := env.do(http.MethodGet, "/projects/"+draft.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/projects/"+live.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[ProjectView](t, rec)
	assert.Equal(t, "Live", view.Title)
	assert.Zero(t, view.Stats.Likes)

	rec = env.do(http.MethodGet, "/projects/nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProjectReportsViewerLike(t *testing.T) {
	env := newTestEnv(t)
	p := env.project("Liked", true, time.Now())
	userID, token := env.user("fan@example.com")

	_, _, err := env.db.LikeRepo().Toggle(context.Background(), p.ID, userID)
	require.NoError(t, err)

	view := decode[ProjectView](t, env.do(http.MethodGet, "/projects/"+p.ID.String(), token, nil))
	assert.True(t, view.Stats.Liked)
	assert.Equal(t, int64(1), view.Stats.Likes)

	anonymous := decode[ProjectView](t, env.do(http.MethodGet, "/projects/"+p.ID.String(), "", nil))
	assert.False(t, anonymous.Stats.Liked)
	assert.Equal(t, int64(1), anonymous.Stats.Likes)

	// a bad token is treated as anonymous on public reads
	rec := env.do(http.MethodGet, "/projects/"+p.ID.String(), "garbage", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetShareLinks(t *testing.T) {
	env := newTestEnv(t)
	p := &models.Project{Title: "Weather App", Published: true, TechStack: []string{"Go", "Vue 3"}}
	require.NoError(t, env.db.ProjectRepo().Add(context.Background(), p))

	rec := env.do(http.MethodGet, "/projects/"+p.ID.String()+"/share", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	share := decode[ShareResponse](t, rec)
	assert.Equal(t, "https://jane.dev/project/"+p.ID.String(), share.URL)
	assert.Equal(t, "Weather App", share.Title)
	require.Len(t, share.Links, 4)
	assert.Equal(t, "linkedin", share.Links[0].Network)
	assert.Contains(t, share.Links[1].URL, "hashtags=go%2Cvue3")
}
