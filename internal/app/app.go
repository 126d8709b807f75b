// Package app assembles the question pipeline and its collaborators from
// configuration. Both the HTTP server and the terminal chat start here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/projectsamarth/samarth/internal/config"
	"github.com/projectsamarth/samarth/internal/conversation"
	"github.com/projectsamarth/samarth/internal/history"
	historypostgres "github.com/projectsamarth/samarth/internal/history/postgres"
	"github.com/projectsamarth/samarth/internal/llm"
	"github.com/projectsamarth/samarth/internal/nl2sql"
	"github.com/projectsamarth/samarth/internal/observability"
	"github.com/projectsamarth/samarth/internal/pipeline"
	"github.com/projectsamarth/samarth/internal/query"
	duckdbengine "github.com/projectsamarth/samarth/internal/query/duckdb"
	"github.com/projectsamarth/samarth/internal/schema"
	"github.com/projectsamarth/samarth/internal/storage"
	s3store "github.com/projectsamarth/samarth/internal/storage/s3"
)

type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Engine    *duckdbengine.Engine
	Completer *llm.Client
	Pipeline  *pipeline.Pipeline
	History   history.Store
	Surface   *conversation.Surface

	checks  []func(ctx context.Context) error
	closers []func() error
}

// Bootstrap fails if the dataset cannot be opened or described, so nothing
// starts serving questions without a schema.
func Bootstrap(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	a := &App{Config: cfg, Logger: logger}

	if err := a.openDataset(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	var provider schema.Provider = a.Engine
	if strings.TrimSpace(cfg.Dataset.SchemaFile) != "" {
		provider = schema.FileProvider{Path: cfg.Dataset.SchemaFile}
	}
	executor := query.NewExecutor(a.Engine,
		query.WithRowLimit(cfg.Dataset.RowLimit),
		query.WithLogger(logger),
	)
	runtime, err := pipeline.NewRuntime(ctx, provider, executor)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("load dataset schema: %w", err)
	}
	logger.Info("dataset schema loaded", slog.Int("bytes", len(runtime.Schema().String())))

	completer, err := llm.New(ctx, llm.Config{
		Provider:    cfg.AI.Provider,
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("initialize completion provider: %w", err)
	}
	a.Completer = completer
	a.closers = append(a.closers, completer.Close)
	logger.Info("completion provider ready",
		slog.String("provider", completer.Provider()),
		slog.String("model", completer.Model()),
	)

	a.Pipeline, err = pipeline.New(runtime,
		nl2sql.NewTranslator(completer),
		nl2sql.NewNarrator(completer),
		pipeline.WithLogger(logger),
	)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if err := a.openHistory(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Surface = conversation.NewSurface(a.Pipeline, a.History, logger)
	return a, nil
}

func (a *App) openDataset(ctx context.Context) error {
	cfg := a.Config
	engineCfg := duckdbengine.Config{
		ReadOnly:   cfg.Dataset.ReadOnly,
		SampleRows: cfg.Dataset.SampleRows,
	}

	switch cfg.Dataset.Source {
	case config.DatasetSourceObjectStore:
		store, err := OpenObjectStore(ctx, cfg)
		if err != nil {
			return err
		}
		engineCfg.Store = store
		engineCfg.TablePrefix = cfg.Dataset.TablePrefix
	default:
		engineCfg.Path = cfg.Dataset.Path
	}

	engine, err := duckdbengine.Open(ctx, engineCfg)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	a.Engine = engine
	a.closers = append(a.closers, engine.Close)
	a.checks = append(a.checks, engine.HealthCheck)
	a.Logger.Info("dataset opened",
		slog.String("source", cfg.Dataset.Source),
		slog.String("path", engineCfg.Path),
		slog.String("table_prefix", engineCfg.TablePrefix),
	)
	return nil
}

func (a *App) openHistory(ctx context.Context) error {
	cfg := a.Config
	switch cfg.History.Backend {
	case config.HistoryBackendPostgres:
		db, err := historypostgres.Open(ctx, historypostgres.DBConfig{
			DSN:             cfg.History.DSN,
			MaxOpenConns:    cfg.History.MaxOpenConns,
			MaxIdleConns:    cfg.History.MaxIdleConns,
			ConnMaxIdleTime: cfg.History.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.History.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		store := historypostgres.NewStore(db)
		a.History = store
		a.closers = append(a.closers, db.Close)
		a.checks = append(a.checks, store.HealthCheck)
	default:
		a.History = history.NewMemoryStore()
	}
	return nil
}

// OpenObjectStore connects to the configured S3-compatible bucket.
func OpenObjectStore(ctx context.Context, cfg config.Config) (storage.ObjectStore, error) {
	store, err := s3store.New(ctx, s3store.Config{
		Endpoint:         cfg.ObjectStore.Endpoint,
		Region:           cfg.ObjectStore.Region,
		Bucket:           cfg.ObjectStore.Bucket,
		AccessKeyID:      cfg.ObjectStore.AccessKeyID,
		SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
		UseSSL:           cfg.ObjectStore.UseSSL,
		Prefix:           cfg.ObjectStore.Prefix,
		AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize object store: %w", err)
	}
	return store, nil
}

func (a *App) Schema() string {
	if a.Pipeline == nil {
		return ""
	}
	return a.Pipeline.Schema().String()
}

func (a *App) Ready(ctx context.Context) error {
	for _, check := range a.checks {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
