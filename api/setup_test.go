package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/auth"
	"github.com/rpupo63/portfolio-showcase-backend/config"
	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rpupo63/portfolio-showcase-backend/ratelimit"
	"github.com/rpupo63/portfolio-showcase-backend/services"
	"github.com/rpupo63/portfolio-showcase-backend/session"
	"github.com/rpupo63/portfolio-showcase-backend/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	jwtSecret    = "test-jwt-secret"
	goodPassword = "Abcdef1!"
	cdnBase      = "https://cdn.test/storage/v1/object/public/project-images"
)

// fakeProvider stands in for the auth service and issues real HS256 access tokens.
type fakeProvider struct {
	t           *testing.T
	mu          sync.Mutex
	users       map[string]uuid.UUID
	passwords   map[string]string
	signInCalls int
	signOuts    []string
}

func (p *fakeProvider) token(id uuid.UUID, email string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.String(),
		"email": email,
		"role":  "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(jwtSecret))
	require.NoError(p.t, err)
	return token
}

func (p *fakeProvider) SignUp(_ context.Context, req auth.SignUpRequest) (*auth.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.users[req.Email]; ok {
		return nil, auth.ErrUserAlreadyExists
	}
	id := uuid.New()
	p.users[req.Email] = id
	p.passwords[req.Email] = req.Password
	return &auth.User{ID: id, Email: req.Email, UserMetadata: req.Metadata}, nil
}

func (p *fakeProvider) SignInWithPassword(_ context.Context, email, password string) (*auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signInCalls++
	id, ok := p.users[email]
	if !ok || p.passwords[email] != password {
		return nil, auth.ErrInvalidCredentials
	}
	return &auth.Session{
		AccessToken: p.token(id, email),
		TokenType:   "bearer",
		ExpiresIn:   3600,
		User:        auth.User{ID: id, Email: email},
	}, nil
}

func (p *fakeProvider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOuts = append(p.signOuts, token)
	return nil
}

func (p *fakeProvider) GetUser(context.Context, string) (*auth.User, error) {
	return nil, auth.ErrInvalidToken
}

type fakeStorage struct {
	mu       sync.Mutex
	uploads  []storage.Object
	types    []string
	deleted  []string
	failNext bool
}

func (s *fakeStorage) Upload(_ context.Context, kind storage.Kind, originalName, contentType string, _ []byte) (storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return storage.Object{}, fmt.Errorf("bucket unavailable")
	}
	key := storage.ObjectName(kind.Prefix(), originalName, time.UnixMilli(int64(1000+len(s.uploads))), "tok")
	obj := storage.Object{Key: key, URL: cdnBase + "/" + key}
	s.uploads = append(s.uploads, obj)
	s.types = append(s.types, contentType)
	return obj, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) KeyFromURL(rawURL string) (string, bool) {
	return strings.CutPrefix(rawURL, cdnBase+"/")
}

type fakeMailer struct {
	configured bool
	sent       []services.ContactMessage
	recipients []string
	err        error
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) SendContact(_ context.Context, recipient string, msg services.ContactMessage) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.recipients = append(m.recipients, recipient)
	m.sent = append(m.sent, msg)
	return "em_1", nil
}

type testEnv struct {
	t        *testing.T
	db       database.Database
	provider *fakeProvider
	storage  *fakeStorage
	mailer   *fakeMailer
	handler  http.Handler
}

func newTestEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	return newTestEnvOn(t, openTestDB(t, false), opts...)
}

// openTestDB opens an in-memory database. With foreignKeys the migration creates the
// constraints the production schema has and sqlite enforces them.
func openTestDB(t *testing.T, foreignKeys bool) database.Database {
	t.Helper()

	dsn := ":memory:"
	if foreignKeys {
		dsn = "file::memory:?_foreign_keys=on"
	}
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: !foreignKeys,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.New(gdb)
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func newTestEnvOn(t *testing.T, db database.Database, opts ...func(*Deps)) *testEnv {
	t.Helper()

	provider := &fakeProvider{t: t, users: map[string]uuid.UUID{}, passwords: map[string]string{}}
	sessions := session.NewController(auth.NewVerifier(jwtSecret, provider), db.UserRoleRepo())
	authenticator := auth.NewAuthenticator(provider, ratelimit.New(ratelimit.NewMemoryStore()), db.ProfileRepo(), db.UserRoleRepo(),
		auth.WithAdminChecker(sessions),
		auth.WithEvents(sessions),
	)

	env := &testEnv{
		t:        t,
		db:       db,
		provider: provider,
		storage:  &fakeStorage{},
		mailer:   &fakeMailer{configured: true},
	}

	cfg := config.FromEnviron([]string{
		"LOG_FORMAT=json",
		"ACCEPTED_ORIGINS=https://jane.dev",
		"SITE_BASE_URL=https://jane.dev",
		"CONTACT_RECIPIENT=jane@jane.dev",
	})

	deps := Deps{
		Database:      db,
		Authenticator: authenticator,
		Sessions:      sessions,
		Storage:       env.storage,
		Mailer:        env.mailer,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	env.handler = newRouter(deps, withConfig(cfg))
	return env
}

// user registers an account with the fake provider and returns its id and access token.
func (e *testEnv) user(email string) (uuid.UUID, string) {
	e.provider.mu.Lock()
	id := uuid.New()
	e.provider.users[email] = id
	e.provider.passwords[email] = goodPassword
	e.provider.mu.Unlock()
	return id, e.provider.token(id, email)
}

func (e *testEnv) admin(email string) (uuid.UUID, string) {
	id, token := e.user(email)
	require.NoError(e.t, e.db.UserRoleRepo().Grant(context.Background(), id, models.RoleAdmin))
	return id, token
}

func (e *testEnv) project(title string, published bool, created time.Time) *models.Project {
	p := &models.Project{Title: title, Published: published, CreatedAt: created}
	require.NoError(e.t, e.db.ProjectRepo().Add(context.Background(), p))
	return p
}

func (e *testEnv) link(projectIDs, categoryIDs []uuid.UUID) {
	e.t.Helper()
	_, err := e.db.ProjectCategoryRepo().Replace(context.Background(), projectIDs, categoryIDs)
	require.NoError(e.t, err)
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
