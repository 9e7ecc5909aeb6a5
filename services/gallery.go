package services

import (
	"errors"
	"fmt"
)

var (
	ErrImageNotFound  = errors.New("image not found in gallery")
	ErrDuplicateImage = errors.New("image already in gallery")
	ErrBadOrder       = errors.New("order must list every gallery image exactly once")
)

// GalleryImage is one entry of a project's image list. ID is the storage key the image was
// uploaded under, or the URL itself for images hosted elsewhere.
type GalleryImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Gallery is an ordered list of images addressed by ID.
type Gallery struct {
	images []GalleryImage
}

// NewGallery loads a stored image list. keyOf maps a URL to its storage key and may be nil.
func NewGallery(urls []string, keyOf func(string) (string, bool)) *Gallery {
	g := &Gallery{images: make([]GalleryImage, 0, len(urls))}
	for _, u := range urls {
		id := u
		if keyOf != nil {
			if key, ok := keyOf(u); ok {
				id = key
			}
		}
		g.images = append(g.images, GalleryImage{ID: id, URL: u})
	}
	return g
}

func (g *Gallery) Images() []GalleryImage {
	return append([]GalleryImage(nil), g.images...)
}

func (g *Gallery) URLs() []string {
	urls := make([]string, len(g.images))
	for i, img := range g.images {
		urls[i] = img.URL
	}
	return urls
}

func (g *Gallery) Len() int { return len(g.images) }

func (g *Gallery) index(id string) int {
	for i, img := range g.images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// Add appends img to the end of the gallery.
func (g *Gallery) Add(img GalleryImage) error {
	if g.index(img.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateImage, img.ID)
	}
	g.images = append(g.images, img)
	return nil
}

// Remove drops the image and returns it.
func (g *Gallery) Remove(id string) (GalleryImage, error) {
	i := g.index(id)
	if i < 0 {
		return GalleryImage{}, fmt.Errorf("%w: %s", ErrImageNotFound, id)
	}
	removed := g.images[i]
	g.images = append(g.images[:i], g.images[i+1:]...)
	return removed, nil
}

// Move puts the image at position to, clamped to the gallery bounds.
func (g *Gallery) Move(id string, to int) error {
	img, err := g.Remove(id)
	if err != nil {
		return err
	}
	if to < 0 {
		to = 0
	}
	if to > len(g.images) {
		to = len(g.images)
	}
	g.images = append(g.images[:to], append([]GalleryImage{img}, g.images[to:]...)...)
	return nil
}

// Reorder replaces the order with ids, which must be a permutation of the current IDs.
func (g *Gallery) Reorder(ids []string) error {
	if len(ids) != len(g.images) {
		return ErrBadOrder
	}

	byID := make(map[string]GalleryImage, len(g.images))
	for _, img := range g.images {
		byID[img.ID] = img
	}

	reordered := make([]GalleryImage, 0, len(ids))
	for _, id := range ids {
		img, ok := byID[id]
		if !ok {
			return ErrBadOrder
		}
		delete(byID, id)
		reordered = append(reordered, img)
	}
	g.images = reordered
	return nil
}
