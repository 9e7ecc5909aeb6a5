package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectURL(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-3d4b-4c5a-9e7f-0a1b2c3d4e5f")
	assert.Equal(t, "https://jane.dev/project/6f1c2a8e-3d4b-4c5a-9e7f-0a1b2c3d4e5f", ProjectURL("https://jane.dev/", id))
}

func TestShareLinks(t *testing.T) {
	links := ShareLinks("Ray tracer & friends", "https://jane.dev/project/1", nil)
	require.Len(t, links, 4)

	byNetwork := map[string]string{}
	for _, l := range links {
		byNetwork[l.Network] = l.URL
	}

	assert.Equal(t, "https://www.linkedin.com/sharing/share-offsite/?url=https%3A%2F%2Fjane.dev%2Fproject%2F1", byNetwork["linkedin"])
	assert.Equal(t, "https://twitter.com/intent/tweet?text=Ray%20tracer%20%26%20friends&url=https%3A%2F%2Fjane.dev%2Fproject%2F1", byNetwork["x"])
	assert.Equal(t, "https://www.facebook.com/sharer/sharer.php?u=https%3A%2F%2Fjane.dev%2Fproject%2F1", byNetwork["facebook"])
	assert.Equal(t, "mailto:?subject=Ray%20tracer%20%26%20friends&body=Check out this project: https%3A%2F%2Fjane.dev%2Fproject%2F1", byNetwork["email"])
}

func TestShareLinksHashtags(t *testing.T) {
	links := ShareLinks("Site", "https://jane.dev", []string{"Go", "Next.js", "go", "3D"})
	assert.Contains(t, links[1].URL, "&hashtags=go%2Cnextjs")
}

func TestFormatHashtag(t *testing.T) {
	assert.Equal(t, "typescript", FormatHashtag(" TypeScript "))
	assert.Equal(t, "node_js", FormatHashtag("node_js"))
	assert.Equal(t, "vue3", FormatHashtag("Vue 3"))
	assert.Equal(t, "", FormatHashtag("2fa"))
	assert.Equal(t, "", FormatHashtag("  "))
}
