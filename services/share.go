package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ShareLink is one entry of a project's share menu.
type ShareLink struct {
	Network string `json:"network"`
	Label   string `json:"label"`
	URL     string `json:"url"`
}

// ProjectURL is the public detail page of a project on the site.
func ProjectURL(baseURL string, projectID uuid.UUID) string {
	return fmt.Sprintf("%s/project/%s", strings.TrimSuffix(baseURL, "/"), projectID)
}

// ShareLinks builds the LinkedIn, X, Facebook and email links for a page. Tags that survive
// FormatHashtag are passed to X as hashtags.
func ShareLinks(title, pageURL string, tags []string) []ShareLink {
	u := encodeComponent(pageURL)
	text := encodeComponent(title)

	tweet := fmt.Sprintf("https://twitter.com/intent/tweet?text=%s&url=%s", text, u)
	if hashtags := Hashtags(tags); len(hashtags) > 0 {
		tweet += "&hashtags=" + encodeComponent(strings.Join(hashtags, ","))
	}

	return []ShareLink{
		{Network: "linkedin", Label: "LinkedIn", URL: "https://www.linkedin.com/sharing/share-offsite/?url=" + u},
		{Network: "x", Label: "X (Twitter)", URL: tweet},
		{Network: "facebook", Label: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + u},
		{Network: "email", Label: "Email", URL: fmt.Sprintf("mailto:?subject=%s&body=Check out this project: %s", text, u)},
	}
}

// encodeComponent escapes s the way a browser's encodeURIComponent does.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Hashtags formats each tag with FormatHashtag, dropping empties and duplicates.
func Hashtags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, tag := range tags {
		h := FormatHashtag(tag)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

// FormatHashtag keeps letters, digits and underscores, lower-cased. Tags that would start
// with a digit are rejected since the networks do not link them.
func FormatHashtag(tag string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(tag) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}

	formatted := strings.ToLower(b.String())
	if formatted == "" || (formatted[0] >= '0' && formatted[0] <= '9') {
		return ""
	}
	return formatted
}
