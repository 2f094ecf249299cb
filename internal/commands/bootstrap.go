package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/diogo/netchat/internal/api"
	"github.com/diogo/netchat/internal/chat"
	"github.com/diogo/netchat/internal/config"
	"github.com/diogo/netchat/internal/logging"
	"github.com/diogo/netchat/internal/models"
	"github.com/diogo/netchat/internal/prompt"
	"github.com/diogo/netchat/internal/session"
	"github.com/diogo/netchat/internal/telemetry"
)

// app is everything one session needs, built once at startup
type app struct {
	cfg    config.Config
	model  models.Model
	logger zerolog.Logger
	ctrl   *chat.Controller

	gen       api.Generator
	tel       *telemetry.Telemetry
	logCloser io.Closer
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(f *rootFlags) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}
	if f.model != "" {
		cfg.DefaultModel = f.model
	}
	if f.topic != "" {
		cfg.Topic = f.topic
	}
	if f.theme != "" {
		cfg.TUITheme = f.theme
	}
	return cfg, nil
}

// bootstrap performs the startup sequence. Any error it returns is fatal:
// no chat turn may happen without a credential and a client.
func bootstrap(ctx context.Context, deps *Dependencies, f *rootFlags) (*app, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		model:     models.ModelFromName(cfg.DefaultModel),
		logger:    logging.Nop(),
		tel:       telemetry.Noop(),
		logCloser: nopCloser{},
	}

	logDir, dirErr := config.GetLogDir()
	if dirErr == nil {
		if logger, closer, err := logging.New(logging.Options{Dir: logDir, Level: cfg.LogLevel}); err == nil {
			a.logger, a.logCloser = logger, closer
		}
	}

	apiKey, err := config.Credential()
	if err != nil {
		a.logger.Error().Err(err).Msg("startup aborted")
		a.close()
		return nil, err
	}

	if cfg.Telemetry && dirErr == nil {
		tel, err := telemetry.Init(ctx, logDir, Version)
		if err != nil {
			a.logger.Warn().Err(err).Msg("telemetry disabled")
		} else {
			a.tel = tel
		}
	}

	gen, err := deps.NewGenerator(ctx, apiKey, a.model, a.logger)
	if err != nil {
		a.logger.Error().Err(err).Msg("client construction failed")
		a.close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	a.gen = gen

	transcript := session.New()

	invoker := api.NewInvoker(gen,
		api.WithInvokerLogger(a.logger),
		api.WithTelemetry(a.tel),
	)
	a.ctrl = chat.NewController(transcript, invoker, prompt.New(cfg.Topic), chat.WithLogger(a.logger))

	a.logger.Info().
		Str("session", transcript.ID).
		Str("model", a.model.Name).
		Str("topic", a.ctrl.Instruction().Topic()).
		Msg("session started")

	return a, nil
}

// close releases the client, flushes telemetry and closes the log file
func (a *app) close() {
	if a.gen != nil {
		if err := a.gen.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close client")
		}
	}
	a.tel.Shutdown(a.logger)
	_ = a.logCloser.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
