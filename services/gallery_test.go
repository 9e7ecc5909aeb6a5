package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cdn = "https://cdn.test/project-images/"

func keyOf(u string) (string, bool) {
	return strings.CutPrefix(u, cdn)
}

func newTestGallery() *Gallery {
	return NewGallery([]string{
		cdn + "gallery/a-1.png",
		cdn + "gallery/b-2.png",
		"https://imgur.com/c.png",
	}, keyOf)
}

func TestNewGalleryIDs(t *testing.T) {
	g := newTestGallery()
	ids := []string{}
	for _, img := range g.Images() {
		ids = append(ids, img.ID)
	}
	assert.Equal(t, []string{"gallery/a-1.png", "gallery/b-2.png", "https://imgur.com/c.png"}, ids)
}

func TestGalleryRemoveByID(t *testing.T) {
	g := newTestGallery()

	removed, err := g.Remove("gallery/b-2.png")
	require.NoError(t, err)
	assert.Equal(t, cdn+"gallery/b-2.png", removed.URL)
	assert.Equal(t, []string{cdn + "gallery/a-1.png", "https://imgur.com/c.png"}, g.URLs())

	_, err = g.Remove("gallery/b-2.png")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestGalleryDuplicateURLsStayDistinct(t *testing.T) {
	g := NewGallery(nil, nil)
	require.NoError(t, g.Add(GalleryImage{ID: "gallery/x-1.png", URL: "same"}))
	require.NoError(t, g.Add(GalleryImage{ID: "gallery/x-2.png", URL: "same"}))
	assert.ErrorIs(t, g.Add(GalleryImage{ID: "gallery/x-2.png", URL: "other"}), ErrDuplicateImage)

	_, err := g.Remove("gallery/x-2.png")
	require.NoError(t, err)
	assert.Equal(t, "gallery/x-1.png", g.Images()[0].ID)
}

func TestGalleryMove(t *testing.T) {
	g := newTestGallery()

	require.NoError(t, g.Move("https://imgur.com/c.png", 0))
	assert.Equal(t, "https://imgur.com/c.png", g.URLs()[0])

	require.NoError(t, g.Move("https://imgur.com/c.png", 99))
	assert.Equal(t, "https://imgur.com/c.png", g.URLs()[2])
	assert.Equal(t, 3, g.Len())

	assert.ErrorIs(t, g.Move("missing", 1), ErrImageNotFound)
}

func TestGalleryReorder(t *testing.T) {
	g := newTestGallery()

	require.NoError(t, g.Reorder([]string{"https://imgur.com/c.png", "gallery/a-1.png", "gallery/b-2.png"}))
	assert.Equal(t, []string{"https://imgur.com/c.png", cdn + "gallery/a-1.png", cdn + "gallery/b-2.png"}, g.URLs())

	before := g.URLs()
	assert.ErrorIs(t, g.Reorder([]string{"gallery/a-1.png"}), ErrBadOrder)
	assert.ErrorIs(t, g.Reorder([]string{"gallery/a-1.png", "gallery/a-1.png", "gallery/b-2.png"}), ErrBadOrder)
	assert.ErrorIs(t, g.Reorder([]string{"gallery/a-1.png", "gallery/b-2.png", "nope"}), ErrBadOrder)
	assert.Equal(t, before, g.URLs())
}
