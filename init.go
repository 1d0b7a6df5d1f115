package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/parcelwatch/postnl/internal/config"
	"github.com/parcelwatch/postnl/internal/telemetry"
	"github.com/parcelwatch/postnl/internal/tokencache"
	"github.com/parcelwatch/postnl/pkg/postnl"
)

// cliEnv bundles everything a command needs after setup.
type cliEnv struct {
	cfg     *config.Config
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
	client  *postnl.Client
	started time.Time

	tracerShutdown func(context.Context) error
}

func setup(ctx context.Context) (*cliEnv, error) {
	// Credentials are commonly kept in a .env file next to the binary.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var tracer trace.Tracer
	tracerShutdown := func(context.Context) error { return nil }
	if cfg.OTELEnabled {
		t, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
		if err != nil {
			logger.Warn("Failed to initialize tracer", zap.Error(err))
		} else {
			tracer = t
			tracerShutdown = shutdown
		}
	}

	// The mock API accepts any credential pair; give it one so the client
	// constructor's non-empty check passes.
	username, password := cfg.Username, cfg.Password
	if cfg.UseMock && username == "" {
		username, password = "demo", "demo"
	}

	client, err := postnl.New(postnl.Config{
		Username:   username,
		Password:   password,
		BaseURL:    cfg.BaseURL,
		SensorData: cfg.SensorData,
		UseMock:    cfg.UseMock,
	}, logger, tracer)
	if err != nil {
		return nil, err
	}

	env := &cliEnv{
		cfg:            cfg,
		logger:         logger,
		metrics:        telemetry.NewMetrics(),
		client:         client,
		started:        time.Now(),
		tracerShutdown: tracerShutdown,
	}

	env.restoreToken()
	return env, nil
}

// restoreToken installs a cached session token if one is available.
func (e *cliEnv) restoreToken() {
	if e.cfg.TokenFile == "" {
		return
	}

	token, err := tokencache.Load(e.cfg.TokenFile)
	if err != nil {
		e.logger.Warn("Ignoring unreadable token cache", zap.Error(err))
		return
	}
	if token == nil {
		return
	}

	e.logger.Info("Restoring cached token", zap.Time("expires", token.Expires))
	e.client.SetToken(token)
}

// saveToken persists the current session token for the next invocation.
func (e *cliEnv) saveToken(ctx context.Context) error {
	if e.cfg.TokenFile == "" {
		return nil
	}

	token, err := e.client.Token(ctx)
	if err != nil {
		return err
	}
	return tokencache.Save(e.cfg.TokenFile, token)
}

func (e *cliEnv) elapsed() float64 {
	return time.Since(e.started).Seconds()
}

func (e *cliEnv) shutdown(ctx context.Context) {
	_ = e.tracerShutdown(ctx)
	_ = e.logger.Sync()
}
