package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP implementation of the API interface. All calls share a
// bounded timeout; timeouts and connection failures surface as ErrUnreachable.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ API = (*Client)(nil)

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient substitutes the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a Client for the auth service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type signupPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPayload struct {
	RefreshToken string `json:"refresh_token"`
}

type loginReply struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshReply struct {
	Token string `json:"token"`
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (*UserSummary, error) {
	var out UserSummary
	err := c.do(ctx, http.MethodPost, "/user", signupPayload{username, email, password}, "", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, string, error) {
	var out loginReply
	if err := c.do(ctx, http.MethodPost, "/login", loginPayload{email, password}, "", &out); err != nil {
		return "", "", err
	}
	return out.Token, out.RefreshToken, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out refreshReply
	if err := c.do(ctx, http.MethodPost, "/refresh", tokenPayload{refreshToken}, "", &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodDelete, "/logout", tokenPayload{refreshToken}, "", nil)
}

func (c *Client) FetchUser(ctx context.Context, id, accessToken string) (*UserRecord, error) {
	var out UserRecord
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchProfile(ctx context.Context, id, accessToken string) (map[string]any, error) {
	out := map[string]any{}
	if err := c.do(ctx, http.MethodGet, "/profiles/"+id, nil, accessToken, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do performs one round trip. body is JSON-encoded when non-nil, bearer is
// attached when non-empty, and out is JSON-decoded from the response unless
// nil or the server replied 204.
func (c *Client) do(ctx context.Context, method, path string, body any, bearer string, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnreachable, err)
	}
	return nil
}

// decodeAPIError turns a non-2xx response into an *APIError. Non-JSON bodies
// fall back to the transport's status text.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	var envelope struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
		apiErr.Details = envelope.Details
	}
	return apiErr
}
