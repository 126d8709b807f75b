package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/projectsamarth/samarth/internal/observability"
)

// Executor runs model-generated query text against an Engine. The text is
// not validated or sanitized. Execute never returns an error and never
// panics; every failure is folded into the returned Outcome.
type Executor struct {
	engine   Engine
	rowLimit int
	logger   *slog.Logger
}

type ExecutorOption func(*Executor)

func WithRowLimit(limit int) ExecutorOption {
	return func(e *Executor) {
		if limit > 0 {
			e.rowLimit = limit
		}
	}
}

func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewExecutor(engine Engine, opts ...ExecutorOption) *Executor {
	e := &Executor{engine: engine, logger: observability.DiscardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Execute(ctx context.Context, queryText string) Outcome {
	if e == nil || e.engine == nil {
		observability.IncrementQueryExecutionFailure()
		return Failed(errors.New("query engine is not configured"))
	}

	start := time.Now()
	outcome := e.run(ctx, queryText)
	logger := e.logger
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	if outcome.Failed {
		observability.IncrementQueryExecutionFailure()
		logger.WarnContext(ctx, "query execution failed",
			slog.String("turn_id", observability.TurnIDFromContext(ctx)),
			slog.String("error", outcome.ErrorMsg),
			slog.Duration("duration", time.Since(start)),
		)
		return outcome
	}
	logger.DebugContext(ctx, "query executed",
		slog.String("turn_id", observability.TurnIDFromContext(ctx)),
		slog.Int("rows", outcome.RowCount),
		slog.Duration("duration", time.Since(start)),
	)
	return outcome
}

func (e *Executor) run(ctx context.Context, queryText string) (outcome Outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = Failed(fmt.Errorf("query engine panicked: %v", recovered))
		}
	}()

	result, err := e.engine.Execute(ctx, Request{SQL: queryText, RowLimit: e.rowLimit})
	if err != nil {
		return Failed(err)
	}
	return Succeeded(FormatRows(result.Rows), len(result.Rows))
}
