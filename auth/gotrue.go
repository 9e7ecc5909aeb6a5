package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserAlreadyExists  = errors.New("user already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Provider is the managed authentication service.
type Provider interface {
	SignUp(ctx context.Context, req SignUpRequest) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*User, error)
}

type User struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

func (u User) FullName() string {
	name, _ := u.UserMetadata["full_name"].(string)
	return name
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type SignUpRequest struct {
	Email      string
	Password   string
	RedirectTo string
	Metadata   map[string]any
}

// ProviderError is a non-2xx answer from the auth service.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth provider error (status %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("auth provider error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to a GoTrue-compatible REST API, such as the one behind SUPABASE_URL.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/auth/v1",
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type signUpPayload struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// signUpResponse is either a bare user (email confirmation pending) or a full session.
type signUpResponse struct {
	User
	Session
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	path := "/signup"
	if req.RedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(req.RedirectTo)
	}

	var resp signUpResponse
	payload := signUpPayload{Email: req.Email, Password: req.Password, Data: req.Metadata}
	if err := c.do(ctx, http.MethodPost, path, "", payload, &resp); err != nil {
		return nil, classify(err)
	}

	if resp.Session.User.ID != uuid.Nil {
		return &resp.Session.User, nil
	}
	return &resp.User, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", payload, &session); err != nil {
		return nil, classify(err)
	}
	return &session, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return classify(c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil))
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal auth payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach auth provider: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseProviderError(resp.StatusCode, bodyBytes)
	}

	if out == nil || len(bodyBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	return nil
}

// parseProviderError understands both the current ({code, error_code, msg}) and the
// older OAuth style ({error, error_description}) error bodies.
func parseProviderError(status int, body []byte) *ProviderError {
	var raw struct {
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	pe := &ProviderError{StatusCode: status}
	if err := json.Unmarshal(body, &raw); err != nil {
		pe.Message = strings.TrimSpace(string(body))
		return pe
	}

	pe.Code = firstNonEmpty(raw.ErrorCode, raw.Error)
	pe.Message = firstNonEmpty(raw.Msg, raw.Message, raw.ErrorDescription, raw.Error)
	return pe
}

func classify(err error) error {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return err
	}

	message := strings.ToLower(pe.Message)
	switch {
	case pe.Code == "user_already_exists", pe.Code == "email_exists", strings.Contains(message, "already registered"):
		return fmt.Errorf("%w: %w", ErrUserAlreadyExists, pe)
	case pe.Code == "invalid_credentials", pe.Code == "invalid_grant", strings.Contains(message, "invalid login credentials"):
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, pe)
	case pe.StatusCode == http.StatusUnauthorized, pe.Code == "bad_jwt", pe.Code == "session_not_found":
		return fmt.Errorf("%w: %w", ErrInvalidToken, pe)
	}
	return pe
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
