package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/autotrack/autotrack/internal/config"
	"github.com/google/uuid"
)

// CredentialSource supplies the bearer token attached to authenticated
// requests. Absence of a token means the request goes out unauthenticated.
// SetToken is used by Login only; everything else just reads.
type CredentialSource interface {
	Token(ctx context.Context) (string, bool, error)
	SetToken(ctx context.Context, token string) error
}

// Client is the single authenticated request executor for the AutoTracker
// server. All typed resource operations are built on its do method; no other
// component constructs requests or hard-codes a path.
type Client struct {
	cfg    config.APIConfig
	creds  CredentialSource
	client *http.Client

	closed int32 // atomic flag for Close()
}

// NewClient creates a client for the given server. A nil httpClient gets a
// plain client with the configured timeout.
func NewClient(cfg config.APIConfig, creds CredentialSource, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		cfg:    cfg,
		creds:  creds,
		client: httpClient,
	}
	logger.Info("api: NewClient created", slog.String("base_url", cfg.BaseURL), slog.Duration("timeout", cfg.Timeout))
	return c, nil
}

// NewDefaultClient creates a client with a tuned default transport.
func NewDefaultClient(cfg config.APIConfig, creds CredentialSource) (*Client, error) {
	defaultClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return NewClient(cfg, creds, defaultClient)
}

// Close releases any resources held by the client. Close is idempotent and
// safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
	return nil
}

// package-level logger for pkg/api; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/api. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func (c *Client) resolve(path string) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", err
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}

	return base.ResolveReference(ref).String(), nil
}

// do executes one JSON request against the server. A non-nil body is
// serialized as JSON; a non-nil out receives the decoded success body. The
// bearer token is attached whenever the credential source holds one.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if err := c.attachToken(ctx, req); err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("api: request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Any("err", err),
		)
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	logger.Info("api: request",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return errorFromResponse(resp.StatusCode, b)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func (c *Client) attachToken(ctx context.Context, req *http.Request) error {
	if c.creds == nil {
		return nil
	}

	token, ok, err := c.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

// doForm executes a form-encoded POST. Only the login endpoint speaks this
// shape; everything else is JSON.
func (c *Client) doForm(ctx context.Context, path string, form url.Values, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: "POST " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return errorFromResponse(resp.StatusCode, b)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: "POST " + path, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
