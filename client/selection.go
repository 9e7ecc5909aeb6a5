package client

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/api"
)

// Selection is the set of projects ticked in the admin table.
type Selection struct {
	mu  sync.Mutex
	ids map[uuid.UUID]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[uuid.UUID]struct{})}
}

// Toggle flips one project in or out and reports whether it is now selected.
func (s *Selection) Toggle(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// SelectAll selects exactly ids, or clears the selection when all of them are already
// selected.
func (s *Selection) SelectAll(ids []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := len(ids) == len(s.ids)
	for _, id := range ids {
		if _, ok := s.ids[id]; !ok {
			all = false
			break
		}
	}
	clear(s.ids)
	if all {
		return
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) Has(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the selection in a stable order.
func (s *Selection) IDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.ids)
}

// Apply runs a bulk action on the selection and clears it once the action succeeded.
// An empty selection is not sent.
func (s *Selection) Apply(ctx context.Context, c *Client, action api.BulkAction, categoryIDs []uuid.UUID, confirm bool) (*api.BulkResponse, error) {
	ids := s.IDs()
	if len(ids) == 0 {
		return &api.BulkResponse{Action: action}, nil
	}

	resp, err := c.Bulk(ctx, api.BulkRequest{
		Action:      action,
		ProjectIDs:  ids,
		CategoryIDs: categoryIDs,
		Confirm:     confirm,
	})
	if err != nil {
		return nil, err
	}
	s.Clear()
	return resp, nil
}
