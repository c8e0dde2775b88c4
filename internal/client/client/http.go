package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/netx"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type errorBody struct {
	Errors []struct {
		Msg string `json:"msg"`
	} `json:"errors"`
}

type tokenBody struct {
	Token string `json:"token"`
}

// NewHTTPClient returns a client for the API rooted at baseURL. Every call is
// bounded by timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Register creates an account and keeps the returned token.
func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	req := map[string]string{"name": name, "email": email, "password": password}
	return c.obtainToken(ctx, "/api/users", req)
}

// Login exchanges credentials for a token and keeps it.
func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	req := map[string]string{"email": email, "password": password}
	return c.obtainToken(ctx, "/api/auth", req)
}

// Me returns the profile of the user the current token belongs to.
func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrUnauthorized
	}

	headers := map[string]string{
		common.AuthorizationHeaderName: common.BearerScheme + " " + token,
	}

	var u User
	if err := netx.DoJSON(ctx, c.http, http.MethodGet, c.baseURL+"/api/auth", headers, nil, &u); err != nil {
		return nil, c.mapError(err)
	}
	return &u, nil
}

func (c *HTTPClient) obtainToken(ctx context.Context, path string, req any) error {
	var resp tokenBody
	if err := netx.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+path, nil, req, &resp); err != nil {
		// a 401 here means bad credentials, not a lost session
		var se *netx.StatusError
		if errors.As(err, &se) {
			return newAPIError(se)
		}
		return c.mapError(err)
	}
	if resp.Token == "" {
		return &APIError{StatusCode: http.StatusOK, Messages: []string{"empty token in response"}}
	}
	c.SetToken(resp.Token)
	return nil
}

func (c *HTTPClient) mapError(err error) error {
	var se *netx.StatusError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return ErrUnavailable
	}

	if se.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return newAPIError(se)
}

func newAPIError(se *netx.StatusError) *APIError {
	apiErr := &APIError{StatusCode: se.StatusCode}
	var body errorBody
	if json.Unmarshal(se.Body, &body) == nil {
		for _, e := range body.Errors {
			apiErr.Messages = append(apiErr.Messages, e.Msg)
		}
	}
	if len(apiErr.Messages) == 0 {
		if msg := strings.TrimSpace(string(se.Body)); msg != "" {
			apiErr.Messages = []string{msg}
		} else {
			apiErr.Messages = []string{se.Status}
		}
	}
	return apiErr
}
