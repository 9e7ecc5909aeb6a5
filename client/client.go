// Package client is a typed client for the portfolio API plus the stateful flows the site
// runs on top of it: the sign-in form, the project feed, likes and admin selection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-showcase-backend/api"
	"github.com/rpupo63/portfolio-showcase-backend/auth"
	"github.com/rpupo63/portfolio-showcase-backend/models"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	Field      string
	Details    string
	Messages   []string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// UserMessages is what a form shows for the error: every validation message when
// there are several, otherwise the most specific line.
func (e *APIError) UserMessages() []string {
	switch {
	case len(e.Messages) > 0:
		return e.Messages
	case e.StatusCode == http.StatusTooManyRequests && e.Details != "":
		return []string{e.Details}
	case e.Message != "":
		return []string{e.Message}
	}
	return []string{"Something went wrong. Please try again."}
}

type Client struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token is the access token sent with every request, or "" when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp, respBody)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func parseError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		apiErr.Message = errResp.Error
		apiErr.Field = errResp.Field
		apiErr.Details = errResp.Details
		apiErr.Messages = errResp.Errors
		if errResp.RetryAfterSeconds > 0 {
			apiErr.RetryAfter = time.Duration(errResp.RetryAfterSeconds) * time.Second
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}

	if apiErr.RetryAfter == 0 {
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
		}
	}
	return apiErr
}

func (c *Client) Session(ctx context.Context) (api.SessionResponse, error) {
	var out api.SessionResponse
	err := c.do(ctx, http.MethodGet, "/auth/session", nil, &out)
	return out, err
}

// SignIn stores the returned access token on success.
func (c *Client) SignIn(ctx context.Context, form auth.SignInForm) (*auth.SignInResult, error) {
	var out auth.SignInResult
	if err := c.do(ctx, http.MethodPost, "/auth/signin", form, &out); err != nil {
		return nil, err
	}
	if out.Session != nil {
		c.SetToken(out.Session.AccessToken)
	}
	return &out, nil
}

func (c *Client) SignUp(ctx context.Context, form auth.SignUpForm) (*auth.SignUpResult, error) {
	var out auth.SignUpResult
	if err := c.do(ctx, http.MethodPost, "/auth/signup", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignOut forgets the token even when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) Site(ctx context.Context) (*models.SiteSettings, error) {
	var out models.SiteSettings
	if err := c.do(ctx, http.MethodGet, "/site", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.do(ctx, http.MethodGet, "/categories", nil, &out)
	return out, err
}

// Projects fetches one page of the public listing, optionally limited to categories.
func (c *Client) Projects(ctx context.Context, page int, categories []uuid.UUID) (*api.ProjectListResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	for _, id := range categories {
		query.Add("category", id.String())
	}

	var out api.ProjectListResponse
	if err := c.do(ctx, http.MethodGet, "/projects?"+query.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Project(ctx context.Context, id uuid.UUID) (*api.ProjectView, error) {
	var out api.ProjectView
	if err := c.do(ctx, http.MethodGet, "/projects/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Share(ctx context.Context, id uuid.UUID) (*api.ShareResponse, error) {
	var out api.ShareResponse
	if err := c.do(ctx, http.MethodGet, "/projects/"+id.String()+"/share", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Comments(ctx context.Context, projectID uuid.UUID) ([]api.CommentView, error) {
	var out []api.CommentView
	err := c.do(ctx, http.MethodGet, "/projects/"+projectID.String()+"/comments", nil, &out)
	return out, err
}

func (c *Client) AddComment(ctx context.Context, projectID uuid.UUID, content string) (*api.CommentView, error) {
	var out api.CommentView
	err := c.do(ctx, http.MethodPost, "/projects/"+projectID.String()+"/comments", api.CommentInput{Content: content}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleLike(ctx context.Context, projectID uuid.UUID) (api.LikeResponse, error) {
	var out api.LikeResponse
	err := c.do(ctx, http.MethodPost, "/projects/"+projectID.String()+"/like", nil, &out)
	return out, err
}

func (c *Client) Contact(ctx context.Context, input api.ContactInput) (api.ContactResponse, error) {
	var out api.ContactResponse
	err := c.do(ctx, http.MethodPost, "/contact", input, &out)
	return out, err
}

func (c *Client) AdminProjects(ctx context.Context) ([]api.ProjectView, error) {
	var out []api.ProjectView
	err := c.do(ctx, http.MethodGet, "/admin/projects", nil, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, input api.ProjectInput) (*api.ProjectView, error) {
	var out api.ProjectView
	if err := c.do(ctx, http.MethodPost, "/admin/projects", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id uuid.UUID, patch api.ProjectPatch) (*api.ProjectView, error) {
	var out api.ProjectView
	if err := c.do(ctx, http.MethodPatch, "/admin/projects/"+id.String(), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject always sends confirm=true; callers are expected to have asked first.
func (c *Client) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/admin/projects/"+id.String()+"?confirm=true", nil, nil)
}

func (c *Client) Bulk(ctx context.Context, req api.BulkRequest) (*api.BulkResponse, error) {
	var out api.BulkResponse
	if err := c.do(ctx, http.MethodPost, "/admin/projects/bulk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, patch map[string]any) (*models.SiteSettings, error) {
	var out models.SiteSettings
	if err := c.do(ctx, http.MethodPatch, "/admin/settings", patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
