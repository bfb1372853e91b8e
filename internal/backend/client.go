package backend

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/pkg/model"
)

// tunnelBypassHeader skips the interstitial page of the development
// tunneling proxy in front of the backend.
const tunnelBypassHeader = "ngrok-skip-browser-warning"

// TokenStore is the durable storage the client persists credentials to.
// Implemented by tokenstore.Store; tests supply in-memory fakes.
type TokenStore interface {
	Save(tokens model.Tokens) error
	Load() (*model.Tokens, bool, error)
	Clear() error
}

// Client is the sole owner of network I/O against the remote health
// backend. Every method is stateless with respect to the others: no call
// depends on another call's in-memory result, only on the token store.
type Client struct {
	http   *resty.Client
	base   *url.URL
	tokens TokenStore
	logger *zap.Logger
}

// New creates a backend client for the given base URL
func New(baseURL string, timeout time.Duration, store TokenStore, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", baseURL)
	}
	if store == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader(tunnelBypassHeader, "true")

	return &Client{
		http:   httpClient,
		base:   base,
		tokens: store,
		logger: logger,
	}, nil
}

// SetTokens persists the access/refresh pair to durable storage
func (c *Client) SetTokens(access, refresh string) error {
	return c.tokens.Save(model.Tokens{Access: access, Refresh: refresh})
}

// Logout erases the token pair from durable storage. No server-side
// revocation call is made: the backend issues stateless JWTs.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// FileURL rewrites a server-relative media path into an absolute URL by
// stripping the API prefix segment from the configured base URL.
func (c *Client) FileURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	origin := *c.base
	origin.Path = strings.TrimSuffix(origin.Path, "/api")
	origin.RawQuery = ""
	base := strings.TrimRight(origin.String(), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// newRequest builds a request with the standard JSON headers, attaching
// the bearer token from durable storage when authed is set. A missing
// token is not an error here: the backend rejects the bare request and
// that rejection is surfaced as KindAuth.
func (c *Client) newRequest(authed bool) *resty.Request {
	req := c.http.R().SetHeader("Content-Type", "application/json")
	if authed {
		if tokens, ok, err := c.tokens.Load(); err == nil && ok && tokens.Access != "" {
			req.SetHeader("Authorization", "Bearer "+tokens.Access)
		}
	}
	return req
}

// newFormRequest is newRequest without the JSON content type, so the
// multipart writer can set the boundary itself.
func (c *Client) newFormRequest() *resty.Request {
	req := c.http.R()
	if tokens, ok, err := c.tokens.Load(); err == nil && ok && tokens.Access != "" {
		req.SetHeader("Authorization", "Bearer "+tokens.Access)
	}
	return req
}

// decode handles a settled response: non-2xx bodies become tagged errors,
// 2xx bodies are unmarshalled into out (when out is non-nil), tolerating
// the backend's {"data": ...} envelope.
func (c *Client) decode(resp *resty.Response, out any, fallback string, oauth bool) error {
	if resp.IsError() {
		err := httpError(resp.StatusCode(), resp.Body(), fallback, oauth)
		c.logger.Warn("backend request failed",
			zap.String("path", resp.Request.URL),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("kind", err.Kind.String()),
		)
		return err
	}
	if out == nil {
		return nil
	}
	if err := unwrapData(resp.Body(), out); err != nil {
		return &Error{
			Kind:       KindUnexpected,
			StatusCode: resp.StatusCode(),
			Message:    fallback,
			cause:      err,
		}
	}
	return nil
}

// unwrapData unmarshals body into out, looking through a {"data": ...}
// wrapper when one is present. Bodies without the wrapper decode as-is,
// so applying the unwrap to an already-bare payload is a no-op.
func unwrapData(body []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(body, out)
}
