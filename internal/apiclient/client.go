// Package apiclient is the typed client for the catalog REST API. Every
// response is decoded and checked here; callers only ever see domain records
// or errors from pkg/errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/eximroyals/storefront/pkg/errors"
	"github.com/eximroyals/storefront/pkg/httpclient"
)

const maxBodyBytes = 4 << 20

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token of the admin session a client is
// bound to. An empty token sends no Authorization header.
type TokenSource interface {
	Token() string
}

// Client calls the catalog API.
type Client struct {
	doer    HTTPDoer
	baseURL string
	logger  *slog.Logger
	session TokenSource
}

// New creates a client for the API rooted at baseURL (e.g.
// "http://localhost:8080/api"). The client carries no session.
func New(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// WithSession returns a copy of the client that authenticates every request
// with the token from ts. The receiver is left unchanged.
func (c *Client) WithSession(ts TokenSource) *Client {
	cp := *c
	cp.session = ts
	return &cp
}

// request is one outbound call.
type request struct {
	method      string
	path        string
	resource    string
	body        io.Reader
	contentType string
}

// send performs the call and maps every failure into the error taxonomy.
// On success the caller owns the response body.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	body := r.body
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("build %s request: %w", r.resource, err))
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.session != nil {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog api call failed",
			slog.String("method", r.method),
			slog.String("path", r.path),
			slog.String("error", err.Error()),
		)
		return nil, httpclient.TransportError(r.resource, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := httpclient.ParseResponseError(resp, r.resource)
		c.logger.WarnContext(ctx, "catalog api rejected call",
			slog.String("method", r.method),
			slog.String("path", r.path),
			slog.Int("status", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return resp, nil
}

// exec performs a call whose response body is not needed.
func (c *Client) exec(ctx context.Context, r request) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return resp.Body.Close()
}

// errEmptyBody marks a 2xx answer without a payload.
var errEmptyBody = errors.New("empty response body")

// decode reads a JSON payload into out. A body that does not match the
// expected shape is a NetworkFailure; an empty body is reported as
// errEmptyBody for the caller to classify.
func decode(resp *http.Response, resource string, out any) error {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NetworkFailure(resource+" response unreadable", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errEmptyBody
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NetworkFailure(resource+" response malformed", err)
	}
	return nil
}

// getOne fetches a single record. A missing body counts as not found.
func (c *Client) getOne(ctx context.Context, resource, path, id string, out any) error {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, resource: resource})
	if err != nil {
		return err
	}
	if err := decode(resp, resource, out); err != nil {
		if errors.Is(err, errEmptyBody) {
			return apperrors.NotFound(resource, id)
		}
		return err
	}
	return nil
}

// getList fetches a collection. A missing body is an empty collection.
func (c *Client) getList(ctx context.Context, resource, path string, out any) error {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, resource: resource})
	if err != nil {
		return err
	}
	if err := decode(resp, resource, out); err != nil && !errors.Is(err, errEmptyBody) {
		return err
	}
	return nil
}

// shapeError reports a payload that decoded but is missing required fields.
func shapeError(resource, detail string) error {
	return apperrors.NetworkFailure(resource+" response malformed", errors.New(detail))
}
