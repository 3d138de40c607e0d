// Package expenseapi is the HTTP client for the expense tracker backend.
//
// The backend is split across three base URLs: expenses and their summaries,
// user profile and limit, and authentication.
package expenseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"expensedash/internal/credentials"
	applog "expensedash/internal/log"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 10 << 20

// Config holds the backend base URLs and transport settings.
type Config struct {
	ExpenseURL string
	UserURL    string
	AuthURL    string
	// Timeout is the overall per-request timeout; zero leaves it to the transport.
	Timeout    time.Duration
	HTTPClient *http.Client

	// MaxBodySize caps response bodies; zero means 10 MiB.
	MaxBodySize int64
}

// Client talks to the expense backend on behalf of one credential provider.
type Client struct {
	expenseURL string
	userURL    string
	authURL    string
	http       *http.Client
	creds      credentials.Provider
	logger     *applog.StructuredLogger
	maxBody    int64
}

// New creates a client. A nil provider sends every request unauthenticated.
func New(cfg Config, creds credentials.Provider, logger *applog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = newHTTPClientWithPooling(cfg.Timeout)
	}
	if creds == nil {
		creds = credentials.Static("")
	}
	if logger == nil {
		logger = applog.Discard()
	}
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = maxBodySize
	}
	return &Client{
		expenseURL: strings.TrimRight(cfg.ExpenseURL, "/"),
		userURL:    strings.TrimRight(cfg.UserURL, "/"),
		authURL:    strings.TrimRight(cfg.AuthURL, "/"),
		http:       hc,
		creds:      creds,
		logger:     applog.NewStructuredLogger(logger),
		maxBody:    maxBody,
	}
}

// WithCredentials returns a copy of c using a different credential provider.
// The transport is shared.
func (c *Client) WithCredentials(p credentials.Provider) *Client {
	cp := *c
	if p == nil {
		p = credentials.Static("")
	}
	cp.creds = p
	return &cp
}

// newHTTPClientWithPooling creates an HTTP client with connection pooling and
// keep-alive. Timeout zero means no overall deadline.
func newHTTPClientWithPooling(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		// Five dashboard calls fan out to two hosts at once.
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// do sends one request and returns the raw 2xx body. in, when non-nil, is
// encoded as the JSON request body.
func (c *Client) do(ctx context.Context, method, base, path string, in any, authenticated bool) ([]byte, error) {
	endpoint := path
	if endpoint == "" {
		endpoint = "/"
	}
	url := base + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		tok, err := c.creds.Token(ctx)
		switch {
		case err == nil:
			req.Header.Set("Authorization", "Bearer "+tok)
		case errors.Is(err, credentials.ErrNoCredential):
			// Let the backend answer 401.
		default:
			return nil, fmt.Errorf("load credential: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := &Error{Kind: KindNetwork, Endpoint: endpoint, Err: err}
		c.logger.LogFetch(ctx, endpoint, 0, time.Since(start), apiErr.Kind.String(), apiErr)
		return nil, apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		apiErr := &Error{Kind: KindNetwork, StatusCode: resp.StatusCode, Endpoint: endpoint, Err: err}
		c.logger.LogFetch(ctx, endpoint, resp.StatusCode, time.Since(start), apiErr.Kind.String(), apiErr)
		return nil, apiErr
	}
	if int64(len(raw)) > c.maxBody {
		apiErr := &Error{Kind: KindStatus, StatusCode: resp.StatusCode, Endpoint: endpoint, Err: ErrBodyTooLarge}
		c.logger.LogFetch(ctx, endpoint, resp.StatusCode, time.Since(start), apiErr.Kind.String(), apiErr)
		return nil, apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := statusError(endpoint, resp.StatusCode, raw)
		c.logger.LogFetch(ctx, endpoint, resp.StatusCode, time.Since(start), apiErr.Kind.String(), apiErr)
		return nil, apiErr
	}

	c.logger.LogFetch(ctx, endpoint, resp.StatusCode, time.Since(start), "", nil)
	return raw, nil
}

// doJSON is do followed by decoding the body into out. An empty body leaves
// out untouched.
func (c *Client) doJSON(ctx context.Context, method, base, path string, in, out any, authenticated bool) error {
	raw, err := c.do(ctx, method, base, path, in, authenticated)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
