// Package pharmacyapi is the REST client for the pharmacy backend. Every
// method performs exactly one HTTP call; there are no retries or caching.
package pharmacyapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"go.uber.org/zap"
)

// Client talks to {base}api/<resource>/ endpoints of the pharmacy backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("pharmacyapi: base URL is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("pharmacyapi: invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("pharmacyapi: base URL %q must be absolute", baseURL)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

type tokenKey struct{}

// WithToken attaches the caller's bearer token so it is forwarded upstream.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	header      http.Header
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: "api/" + path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// send executes the request and returns the response for any status below 400.
// The caller owns the response body.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), r.body)
	if err != nil {
		return nil, fmt.Errorf("pharmacyapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for k, vals := range r.header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("pharmacy api unreachable",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Error(err),
		)
		return nil, apperror.ErrUpstreamUnavailable
	}

	c.log.Debug("pharmacy api call",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		appErr := decodeError(resp)
		c.log.Info("pharmacy api rejected request",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", appErr.Message),
		)
		return nil, appErr
	}
	return resp, nil
}

// doJSON executes the request and decodes the JSON body into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperror.NewUpstreamError(http.StatusBadGateway, "Unexpected response from the pharmacy server", nil)
	}
	return nil
}

// envelopeKeys are the keys that may sit next to "data" in a wrapped response.
var envelopeKeys = map[string]bool{
	"data":        true,
	"message":     true,
	"success":     true,
	"status":      true,
	"code":        true,
	"total_items": true,
}

// unwrapData returns the "data" member of an envelope object, or raw unchanged
// when raw is not an envelope.
func unwrapData(raw json.RawMessage) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return raw
	}
	data, ok := obj["data"]
	if !ok {
		return raw
	}
	for k := range obj {
		if !envelopeKeys[k] {
			return raw
		}
	}
	return data
}

// flexString accepts a JSON string, number, or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*f = flexString(num.String())
	return nil
}

func (f flexString) String() string {
	return string(f)
}
