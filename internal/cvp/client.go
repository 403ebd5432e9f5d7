// Package cvp is a REST client for the CloudVision Portal provisioning API.
//
// The portal reports application errors inside HTTP 200 bodies as
// {"errorCode": "...", "errorMessage": "..."}; transport helpers surface
// those as *APIError, with the missing-entity code mapped to ErrNotFound.
package cvp

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to one CVP server. The session cookie issued at login lives
// in the client's cookie jar, so Connect must complete before other calls.
type Client struct {
	endpoint  string
	user      string
	pass      string
	http      *http.Client
	sessionID string
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithTLSVerification toggles certificate checks. CVP appliances usually run
// self-signed certificates, so verification defaults to off.
func WithTLSVerification(verify bool) Option {
	return func(c *Client) {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: !verify},
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. The login cookie jar
// is kept when the replacement does not bring its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc.Jar == nil {
			hc.Jar = c.http.Jar
		}
		c.http = hc
	}
}

// New creates a client for the server at endpoint, e.g. "https://cvp1:443".
func New(endpoint, user, pass string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		user:     user,
		pass:     pass,
		http: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type loginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionID string `json:"sessionId"`
}

// Connect authenticates with the server. The session cookie set by the
// response authorizes every later call.
func (c *Client) Connect(ctx context.Context) error {
	var resp loginResponse
	payload := loginRequest{UserID: c.user, Password: c.pass}
	if err := c.post(ctx, "/web/login/authenticate.do", payload, &resp); err != nil {
		return fmt.Errorf("failed to authenticate with %s: %w", c.endpoint, err)
	}
	c.sessionID = resp.SessionID
	return nil
}

// SessionID returns the identifier issued at login, or "" before Connect.
func (c *Client) SessionID() string {
	return c.sessionID
}

// taskIDsResponse carries the IDs of tasks spawned by a provisioning change.
type taskIDsResponse struct {
	Data struct {
		TaskIDs []string `json:"taskIds"`
	} `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", req.URL.Path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s %s: unexpected status %d: %s", req.Method, req.URL.Path, resp.StatusCode, excerpt(body))
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		if apiErr.Code == errCodeEntityNotFound {
			return fmt.Errorf("%s: %w", apiErr.Message, ErrNotFound)
		}
		return &apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

func excerpt(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
