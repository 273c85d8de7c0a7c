// Package api talks to the learning platform's mobile API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/network"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 15 * time.Second

const maxBody = 8 << 20

// TokenSource supplies the bearer token. An empty token means the user is signed out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Options configure a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource

	// OnUnauthorized runs whenever the server answers 401 or 403.
	OnUnauthorized func()

	HTTP *http.Client
}

// Client performs requests against the API. It never retries.
type Client struct {
	base           string
	timeout        time.Duration
	tokens         TokenSource
	onUnauthorized func()
	http           *http.Client
}

// New returns a Client. Zero options fall back to the shared network client and DefaultTimeout.
func New(opts Options) *Client {
	c := &Client{
		base:           strings.TrimRight(opts.BaseURL, "/"),
		timeout:        opts.Timeout,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		http:           opts.HTTP,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = network.Client
	}
	return c
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Get fetches path and decodes the envelope payload into T.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return call[T](ctx, c, http.MethodGet, path, nil)
}

// Post sends body as JSON to path and decodes the envelope payload into T.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return call[T](ctx, c, http.MethodPost, path, body)
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T

	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return out, err
	}

	if len(data) == 0 || string(data) == "null" {
		return out, nil
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, &Error{Kind: InvalidResponse, Method: method, Path: path, Body: excerpt(data), Err: err}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	fail := func(kind Kind, status int, err error) *Error {
		return &Error{Kind: kind, Method: method, Path: path, Status: status, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			log.Warnf("api: no token for %s %s: %v", method, path, err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		log.Debugf("api: %s %s failed after %s: %v", method, path, time.Since(started), err)
		return nil, fail(classify(ctx, err), 0, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, fail(classify(ctx, err), res.StatusCode, err)
	}
	log.Debugf("api: %s %s -> %d in %s", method, path, res.StatusCode, time.Since(started))

	switch res.StatusCode {
	case http.StatusUnauthorized:
		c.unauthorized()
		return nil, fail(Unauthorized, res.StatusCode, nil)
	case http.StatusForbidden:
		c.unauthorized()
		return nil, fail(Forbidden, res.StatusCode, nil)
	}

	if !isJSON(res.Header.Get("Content-Type")) {
		e := fail(InvalidResponse, res.StatusCode, fmt.Errorf("unexpected content type %q", res.Header.Get("Content-Type")))
		e.Body = excerpt(raw)
		return nil, e
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		e := fail(InvalidResponse, res.StatusCode, err)
		e.Body = excerpt(raw)
		return nil, e
	}

	if env.Success != nil && *env.Success && res.StatusCode < 300 {
		return env.Data, nil
	}

	if env.Success == nil && env.Error == nil {
		e := fail(InvalidResponse, res.StatusCode, errors.New("missing response envelope"))
		e.Body = excerpt(raw)
		return nil, e
	}

	e := fail(APIError, res.StatusCode, nil)
	if env.Error != nil {
		e.Code, e.Message = env.Error.Code, env.Error.Message
	}
	if e.Code == "" {
		e.Code = fmt.Sprintf("HTTP_%d", res.StatusCode)
	}
	if e.Message == "" {
		e.Message = http.StatusText(res.StatusCode)
	}
	return nil, e
}

func (c *Client) unauthorized() {
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func classify(ctx context.Context, err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	return NetworkError
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
