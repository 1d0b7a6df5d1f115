// Package postnl provides a client for the PostNL consumer tracking API.
package postnl

import (
	"context"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds client configuration.
type Config struct {
	Username   string
	Password   string
	BaseURL    string // defaults to the public provider URL
	SensorData string
	UseMock    bool
}

// Client is the PostNL consumer API client.
//
// The client caches the session token and renews it transparently. It is not
// safe for concurrent use beyond the token cache; callers wanting parallelism
// should use independent instances.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer

	mu    sync.Mutex
	token *Token
}

// New creates a new client. Username and password must be non-empty.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, NewClientError("new", "MISSING_CREDENTIALS",
			"username and password must be non-empty").
			WithCause(ErrInvalidCredentials)
	}

	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:    cfg.BaseURL,
			SensorData: cfg.SensorData,
			Timeout:    30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}, nil
}

// NewWithAPIClient creates a new client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, NewClientError("new", "MISSING_CREDENTIALS",
			"username and password must be non-empty").
			WithCause(ErrInvalidCredentials)
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}, nil
}

// Login performs the login handshake and caches the resulting token.
func (c *Client) Login(ctx context.Context) error {
	ctx, end := c.startSpan(ctx, "postnl.Login")
	defer end()

	c.logger.Info("Logging in", zap.String("username", c.config.Username))

	token, err := c.apiClient.Login(ctx, c.config.Username, c.config.Password)
	if err != nil {
		c.logger.Error("Login failed", zap.Error(err))
		return err
	}

	c.setToken(token)
	return nil
}

// GetPackages fetches the user's tracked packages. An expired session is
// renewed (refresh grant first, full login as fallback) before the fetch;
// the fetch itself is a single attempt.
func (c *Client) GetPackages(ctx context.Context) ([]Package, error) {
	ctx, end := c.startSpan(ctx, "postnl.GetPackages")
	defer end()

	access, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	inbox, err := c.apiClient.GetInbox(ctx, access)
	if err != nil {
		c.logger.Error("Inbox fetch failed", zap.Error(err))
		return nil, err
	}

	c.logger.Info("Fetched packages", zap.Int("count", len(inbox.Receiver)))
	return inbox.Receiver, nil
}

// GetPackage fetches the detail record for a single package key.
func (c *Client) GetPackage(ctx context.Context, key string) (*Package, error) {
	ctx, end := c.startSpan(ctx, "postnl.GetPackage")
	defer end()

	access, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	pkg, err := c.apiClient.GetPackage(ctx, access, key)
	if err != nil {
		c.logger.Error("Package fetch failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return pkg, nil
}

// Token returns a valid session token, renewing or logging in as needed.
// Embedding applications can persist it and restore it with SetToken.
func (c *Client) Token(ctx context.Context) (*Token, error) {
	if _, err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	token := *c.token
	return &token, nil
}

// SetToken installs a previously cached token.
func (c *Client) SetToken(token *Token) {
	c.setToken(token)
}

// authenticate ensures a live token and returns its access component.
func (c *Client) authenticate(ctx context.Context) (AccessToken, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token != nil && !token.NeedsRefresh() {
		return token.Access, nil
	}

	if token != nil {
		refreshed, err := c.apiClient.Refresh(ctx, token)
		if err == nil {
			c.setToken(refreshed)
			return refreshed.Access, nil
		}
		c.logger.Warn("Token refresh failed, performing full login", zap.Error(err))
	}

	fresh, err := c.apiClient.Login(ctx, c.config.Username, c.config.Password)
	if err != nil {
		return "", err
	}

	c.setToken(fresh)
	return fresh.Access, nil
}

func (c *Client) setToken(token *Token) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, func()) {
	if c.tracer == nil {
		return ctx, func() {}
	}
	ctx, span := c.tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}
