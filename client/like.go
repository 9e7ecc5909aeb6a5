package client

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/api"
)

var ErrTogglePending = errors.New("a like toggle is already in flight")

// LikeState is the like button of one project. The shown state changes only once the
// server answers, and then to exactly what the server persisted.
type LikeState struct {
	client    *Client
	projectID uuid.UUID

	mu      sync.Mutex
	liked   bool
	count   int64
	pending bool
}

func NewLikeState(client *Client, projectID uuid.UUID, liked bool, count int64) *LikeState {
	return &LikeState{client: client, projectID: projectID, liked: liked, count: count}
}

func (s *LikeState) Current() api.LikeResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return api.LikeResponse{Liked: s.liked, Count: s.count}
}

func (s *LikeState) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Toggle asks the server to flip the like. On error the state is left as it was.
func (s *LikeState) Toggle(ctx context.Context) (api.LikeResponse, error) {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return api.LikeResponse{}, ErrTogglePending
	}
	s.pending = true
	s.mu.Unlock()

	resp, err := s.client.ToggleLike(ctx, s.projectID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		return api.LikeResponse{Liked: s.liked, Count: s.count}, err
	}
	s.liked, s.count = resp.Liked, resp.Count
	return resp, nil
}
