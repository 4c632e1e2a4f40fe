// Package posapi is a typed client for the store's /pos REST API. All
// endpoints return a {status, message, data, pagination} envelope; failures
// are classified into the tagged Error type so callers switch on Error.Kind
// rather than inspecting raw responses.
package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Config holds the client's connection settings.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.example.com". The /pos
	// prefix is appended per request.
	BaseURL string
	// Token is the bearer token attached to every request. Token refresh is
	// handled outside this client.
	Token string
	// HTTPClient overrides the transport when set. The default client carries
	// no request timeout; in-flight requests are bounded only by the caller's
	// context.
	HTTPClient *http.Client
}

// Client talks to the /pos API.
type Client struct {
	base string
	http *http.Client
	lg   *zap.Logger
}

// New creates a Client for the given configuration.
func New(cfg Config, lg *zap.Logger) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, errors.New("base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: newTransport(cfg.Token)}
	}

	return &Client{base: base, http: hc, lg: lg}, nil
}

// envelope is the wire wrapper common to every endpoint.
type envelope struct {
	Status     int             `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// do issues a request and decodes the envelope's data payload into out.
// out may be nil when the caller only cares about success.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*Pagination, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.lg.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	var env envelope
	if len(raw) > 0 {
		// A body that is not the standard envelope (e.g. a proxy error page)
		// is reported with the status classification alone.
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, errors.Wrap(err, "decode response envelope")
		}
	}

	if resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, errors.Wrap(err, "decode response data")
		}
	}
	return env.Pagination, nil
}
