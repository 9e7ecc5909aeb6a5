package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-showcase-backend/models"
	"github.com/rpupo63/portfolio-showcase-backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type upload struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func (e *testEnv) upload(path, token string, files ...upload) *httptest.ResponseRecorder {
	e.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		if f.contentType != "" {
			header.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(header)
		require.NoError(e.t, err)
		_, err = part.Write(f.data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestUploadBrandingUpdatesSettings(t *testing.T) {
	env := newTestEnv(t)
	_, admin := env.admin("admin@example.com")

	rec := env.upload("/admin/uploads?kind=logo", admin, upload{field: "file", name: "Logo.PNG", data: pngBytes})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[UploadResponse](t, rec)
	assert.True(t, strings.HasPrefix(resp.Object.Key, storage.KindLogo.Prefix()+"/"))
	assert.True(t, strings.HasSuffix(resp.Object.Key, ".png"))
	require.NotNil(t, resp.Settings)
	require.NotNil(t, resp.Settings.LogoURL)
	assert.Equal(t, resp.Object.URL, *resp.Settings.LogoURL)
	assert.Equal(t, []string{"image/png"}, env.storage.types)

	site := decode[models.SiteSettings](t, env.do(http.MethodGet, "/site", "", nil))
	require.NotNil(t, site.LogoURL)
	assert.Equal(t, resp.Object.URL, *site.LogoURL)
}

func TestUploadRejections(t *testing.T) {
	env := newTestEnv(t)
	_, admin := env.admin("admin@example.com")
	file := upload{field: "file", name: "a.png", data: pngBytes}

	rec := env.upload("/admin/uploads?kind=banner", admin, file)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.upload("/admin/uploads?kind=thumbnail", admin, file)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "project_id", decode[ErrorResponse](t, rec).Field)

	rec = env.upload("/admin/uploads?kind=logo", admin, upload{field: "file", name: "notes.txt", data: []byte("just some text")})
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, env.storage.uploads)

	rec = env.upload("/admin/uploads?kind=logo", admin, upload{field: "other", name: "a.png", data: pngBytes})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.storage.failNext = true
	rec = env.upload("/admin/uploads?kind=logo", admin, file)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	_, user := env.user("user@example.com")
	rec = env.upload("/admin/uploads?kind=logo", user, file)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUploadThumbnail(t *testing.T) {
	env := newTestEnv(t)
	_, admin := env.admin("admin@example.com")
	p := env.project("Pictured", true, time.Now())

	rec := env.upload("/admin/uploads?kind=thumbnail&project_id="+p.ID.String(), admin,
		upload{field: "file", name: "cover.png", contentType: "image/png", data: pngBytes})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[UploadResponse](t, rec)
	require.NotNil(t, resp.Project)
	require.NotNil(t, resp.Project.ThumbnailURL)
	assert.Equal(t, resp.Object.URL, *resp.Project.ThumbnailURL)
}

func TestUploadWithoutStorage(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.Storage = nil })
	_, admin := env.admin("admin@example.com")

	rec := env.upload("/admin/uploads?kind=logo", admin, upload{field: "file", name: "a.png", data: pngBytes})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGalleryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, admin := env.admin("admin@example.com")

	external := "https://elsewhere.test/shot.png"
	p := &models.Project{Title: "Gallery", Published: true, Images: []string{external}}
	require.NoError(t, env.db.ProjectRepo().Add(t.Context(), p))
	base := "/admin/projects/" + p.ID.String() + "/images"

	rec := env.upload(base, admin,
		upload{field: "files", name: "one.png", data: pngBytes},
		upload{field: "files", name: "two.png", data: pngBytes},
	)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[GalleryResponse](t, rec)
	require.Len(t, added.Images, 3)
	assert.Equal(t, external, added.Images[0].ID)
	first, second := added.Images[1], added.Images[2]
	assert.Equal(t, "gallery/tok-1000.png", first.ID)
	assert.Equal(t, cdnBase+"/gallery/tok-1001.png", second.URL)
	assert.Equal(t, []string{external, first.URL, second.URL}, []string(added.Project.Images))

	rec = env.do(http.MethodPut, base+"/order", admin, GalleryOrder{IDs: []string{second.ID, external, first.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{second.URL, external, first.URL}, []string(decode[GalleryResponse](t, rec).Project.Images))

	rec = env.do(http.MethodPut, base+"/order", admin, GalleryOrder{IDs: []string{second.ID, first.ID}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, base+"/"+first.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{second.URL, external}, []string(decode[GalleryResponse](t, rec).Project.Images))
	assert.Equal(t, []string{first.ID}, env.storage.deleted)

	// images hosted elsewhere are unlinked without touching storage
	rec = env.do(http.MethodDelete, base+"/"+url.PathEscape(external), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{second.URL}, []string(decode[GalleryResponse](t, rec).Project.Images))
	assert.Len(t, env.storage.deleted, 1)

	rec = env.do(http.MethodDelete, base+"/gallery/missing.png", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadTakesExactlyOneFile(t *testing.T) {
	env := newTestEnv(t)
	_, admin := env.admin("admin@example.com")

	rec := env.upload("/admin/uploads?kind=logo", admin,
		upload{field: "file", name: "a.png", data: pngBytes},
		upload{field: "file", name: "b.png", data: pngBytes},
	)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "file", decode[ErrorResponse](t, rec).Field)
	assert.Empty(t, env.storage.uploads)

	rec = env.upload("/admin/uploads?kind=logo", admin, upload{field: "file", name: "a.png", data: pngBytes})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, env.storage.uploads, 1)
}
