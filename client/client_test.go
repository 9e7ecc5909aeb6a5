package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/api"
	"github.com/rpupo63/portfolio-showcase-backend/auth"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fakeAPI serves a small in-memory version of the public and auth endpoints.
type fakeAPI struct {
	mu        sync.Mutex
	projects  []api.ProjectView
	likes     map[uuid.UUID]int64
	liked     map[uuid.UUID]bool
	failLikes bool
	bulk      []api.BulkRequest
	admins    map[string]bool
	requests  []*http.Request
}

func newFakeAPI(t *testing.T, projects int) (*fakeAPI, *httptest.Server) {
	f := &fakeAPI{likes: map[uuid.UUID]int64{}, liked: map[uuid.UUID]bool{}, admins: map[string]bool{}}
	for i := 0; i < projects; i++ {
		f.projects = append(f.projects, api.ProjectView{Project: &models.Project{ID: uuid.New(), Title: fmt.Sprintf("Project %d", i)}})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", f.listProjects)
	mux.HandleFunc("POST /projects/{id}/like", f.toggleLike)
	mux.HandleFunc("POST /auth/signin", f.signIn)
	mux.HandleFunc("POST /auth/signup", f.signUp)
	mux.HandleFunc("GET /auth/session", f.session)
	mux.HandleFunc("POST /admin/projects/bulk", f.bulkAction)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(context.Background()))
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) listProjects(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	projects := f.projects
	if cats := r.URL.Query()["category"]; len(cats) > 0 {
		projects = projects[:1]
	}
	start, end := page*3, page*3+3
	start, end = min(start, len(projects)), min(end, len(projects))
	writeJSON(w, http.StatusOK, api.ProjectListResponse{
		Projects: projects[start:end],
		Total:    int64(len(projects)),
		Page:     page,
		PageSize: 3,
		HasMore:  end < len(projects),
	})
}

func (f *fakeAPI) toggleLike(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "sign in required: unauthorized", Status: "error"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLikes {
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: "Something went wrong. Please try again.", Status: "error"})
		return
	}
	id := uuid.MustParse(r.PathValue("id"))
	f.liked[id] = !f.liked[id]
	if f.liked[id] {
		f.likes[id]++
	} else {
		f.likes[id]--
	}
	writeJSON(w, http.StatusOK, api.LikeResponse{Liked: f.liked[id], Count: f.likes[id]})
}

func (f *fakeAPI) signIn(w http.ResponseWriter, r *http.Request) {
	var form auth.SignInForm
	_ = json.NewDecoder(r.Body).Decode(&form)
	switch {
	case form.Email == "locked@example.com":
		w.Header().Set("Retry-After", "600")
		writeJSON(w, http.StatusTooManyRequests, api.ErrorResponse{
			Error:             "too many failed attempts",
			Details:           "Too many failed attempts. Please try again in 10 minutes.",
			RetryAfterSeconds: 600,
		})
	case form.Password != "Abcdef1!":
		writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid email or password. Please try again.", Status: "error"})
	default:
		isAdmin := f.admins[form.Email]
		redirect := "/"
		if isAdmin {
			redirect = "/admin"
		}
		writeJSON(w, http.StatusOK, auth.SignInResult{
			Session:  &auth.Session{AccessToken: "token-for-" + form.Email},
			Identity: &auth.Identity{ID: uuid.New(), Email: form.Email},
			IsAdmin:  isAdmin,
			Redirect: redirect,
		})
	}
}

func (f *fakeAPI) signUp(w http.ResponseWriter, r *http.Request) {
	var form auth.SignUpForm
	_ = json.NewDecoder(r.Body).Decode(&form)
	if form.Email == "taken@example.com" {
		writeJSON(w, http.StatusConflict, api.ErrorResponse{Error: "This email is already in use. Please sign in instead.", Field: "email"})
		return
	}
	writeJSON(w, http.StatusCreated, auth.SignUpResult{
		User:    &auth.User{ID: uuid.New(), Email: form.Email},
		Message: "Account created successfully! Please check your email to verify.",
	})
}

func (f *fakeAPI) session(w http.ResponseWriter, r *http.Request) {
	switch r.Header.Get("Authorization") {
	case "":
		writeJSON(w, http.StatusOK, api.SessionResponse{})
	case "Bearer admin-token":
		resp := api.SessionResponse{}
		resp.Identity = &auth.Identity{ID: uuid.New(), Email: "admin@example.com"}
		resp.IsAdmin = true
		writeJSON(w, http.StatusOK, resp)
	default:
		writeJSON(w, http.StatusOK, api.SessionResponse{Cleared: true})
	}
}

func (f *fakeAPI) bulkAction(w http.ResponseWriter, r *http.Request) {
	var req api.BulkRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Action == api.BulkDelete && !req.Confirm {
		writeJSON(w, http.StatusPreconditionRequired, api.ErrorResponse{Error: "confirmation required", Field: "confirm"})
		return
	}
	f.mu.Lock()
	f.bulk = append(f.bulk, req)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, api.BulkResponse{Action: req.Action, Affected: int64(len(req.ProjectIDs))})
}

func TestClientSendsTokenAndParsesErrors(t *testing.T) {
	fake, srv := newFakeAPI(t, 1)
	c := New(srv.URL)
	id := fake.projects[0].ID

	_, err := c.ToggleLike(context.Background(), id)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = c.SignIn(context.Background(), auth.SignInForm{Email: "locked@example.com", Password: "Abcdef1!"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 10*time.Minute, apiErr.RetryAfter)
	assert.Equal(t, []string{"Too many failed attempts. Please try again in 10 minutes."}, apiErr.UserMessages())

	result, err := c.SignIn(context.Background(), auth.SignInForm{Email: "ana@example.com", Password: "Abcdef1!"})
	require.NoError(t, err)
	assert.Equal(t, "/", result.Redirect)
	assert.Equal(t, "token-for-ana@example.com", c.Token())

	like, err := c.ToggleLike(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, api.LikeResponse{Liked: true, Count: 1}, like)

	last := fake.requests[len(fake.requests)-1]
	assert.Equal(t, "Bearer token-for-ana@example.com", last.Header.Get("Authorization"))
}

func TestClientHonorsContext(t *testing.T) {
	_, srv := newFakeAPI(t, 1)
	c := New(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Projects(ctx, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientProjectsQuery(t *testing.T) {
	fake, srv := newFakeAPI(t, 2)
	c := New(srv.URL + "/")
	cat := uuid.New()

	_, err := c.Projects(context.Background(), 2, []uuid.UUID{cat})
	require.NoError(t, err)
	last := fake.requests[len(fake.requests)-1]
	assert.Equal(t, "/projects", last.URL.Path)
	assert.Equal(t, "2", last.URL.Query().Get("page"))
	assert.Equal(t, []string{cat.String()}, last.URL.Query()["category"])
}
