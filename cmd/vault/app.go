package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Cyclone1070/vault/internal/archive"
	"github.com/Cyclone1070/vault/internal/assistant/gemini"
	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/execution"
	"github.com/Cyclone1070/vault/internal/logging"
	"github.com/Cyclone1070/vault/internal/metrics"
	"github.com/Cyclone1070/vault/internal/persist"
	"github.com/Cyclone1070/vault/internal/picker"
	"github.com/Cyclone1070/vault/internal/remote/github"
	"github.com/Cyclone1070/vault/internal/template"
	"github.com/Cyclone1070/vault/internal/workspace"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// app holds the wired components shared by every command.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	store   *persist.Store
	ws      *workspace.Workspace
	stdin   io.Reader
	stdout  io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout io.Writer) (*app, error) {
	log := logging.L()

	dir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}

	m := metrics.New(prometheus.NewRegistry())
	store := persist.NewStore(
		persist.NewFileSlot(dir, cfg.Storage.Slot),
		time.Duration(cfg.Storage.DebounceMs)*time.Millisecond,
		persist.WithLogger(log),
		persist.WithMetrics(m),
	)
	doc, restored, err := store.Load(template.Kind(cfg.Storage.DefaultTemplate))
	if err != nil {
		return nil, err
	}

	codec := archive.NewCodec(cfg.Archive, archive.WithLogger(log))
	deps := workspace.Dependencies{
		Config:   cfg,
		Observer: store,
		Archive:  codec,
		Picker:   picker.NewImporter(cfg.Archive, codec, picker.WithLogger(log)),
		Remote:   github.NewClient(cfg.Remote, github.WithLogger(log)),
		Executor: execution.NewLocalRunner(cfg.Execution, log),
		Metrics:  m,
		Logger:   log,
	}
	if key := os.Getenv(config.EnvGeminiAPIKey); key != "" {
		client, err := gemini.NewSDKClient(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		deps.Assistant = gemini.New(client, cfg.Assistant, log)
	}

	ws, err := workspace.New(doc, deps)
	if err != nil {
		return nil, err
	}
	if !restored {
		store.Observe(ws.State())
	}
	log.Debug("workspace loaded", zap.String("dir", dir), zap.Bool("restored", restored))

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: m,
		store:   store,
		ws:      ws,
		stdin:   stdin,
		stdout:  stdout,
	}, nil
}

// close writes the pending document.
func (a *app) close() error {
	return a.store.Close()
}
