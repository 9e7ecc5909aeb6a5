package client

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/api"
)

// Feed is the infinite project listing. Reload starts over for a category filter and
// LoadMore appends the next page.
type Feed struct {
	client *Client

	mu         sync.Mutex
	categories []uuid.UUID
	page       int
	projects   []api.ProjectView
	total      int64
	hasMore    bool
	loaded     bool
}

func NewFeed(client *Client) *Feed {
	return &Feed{client: client}
}

// Reload fetches page 0 for categories and replaces whatever was loaded.
func (f *Feed) Reload(ctx context.Context, categories []uuid.UUID) error {
	categories = slices.Clone(categories)
	resp, err := f.client.Projects(ctx, 0, categories)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = categories
	f.page = resp.Page
	f.projects = slices.Clone(resp.Projects)
	f.total = resp.Total
	f.hasMore = resp.HasMore
	f.loaded = true
	return nil
}

// LoadMore appends the next page. It does nothing when the last page is already loaded.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if !f.loaded {
		f.mu.Unlock()
		return f.Reload(ctx, nil)
	}
	if !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	next, categories := f.page+1, f.categories
	f.mu.Unlock()

	resp, err := f.client.Projects(ctx, next, categories)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	// a Reload that finished in the meantime wins
	if !slices.Equal(categories, f.categories) || f.page+1 != next {
		return nil
	}
	f.page = resp.Page
	f.projects = append(f.projects, resp.Projects...)
	f.total = resp.Total
	f.hasMore = resp.HasMore
	return nil
}

func (f *Feed) Projects() []api.ProjectView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.projects)
}

func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

func (f *Feed) Total() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// Apply replaces the like numbers of one loaded project, e.g. after a LikeState toggle.
func (f *Feed) Apply(projectID uuid.UUID, like api.LikeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.projects {
		if f.projects[i].Project != nil && f.projects[i].ID == projectID {
			f.projects[i].Stats.Liked = like.Liked
			f.projects[i].Stats.Likes = like.Count
		}
	}
}
