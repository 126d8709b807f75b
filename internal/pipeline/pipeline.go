// Package pipeline runs one question through the two-stage prompt chain:
// question to query, query execution, and query results to answer.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectsamarth/samarth/internal/observability"
	"github.com/projectsamarth/samarth/internal/query"
	"github.com/projectsamarth/samarth/internal/schema"
)

//go:generate mockgen -source=pipeline.go -destination=mock_pipeline.go -package=pipeline QueryStage,QueryExecutor,AnswerStage

type QueryStage interface {
	ToQuery(ctx context.Context, question, schema string) (string, error)
}

// QueryExecutor must not return an error: failures are carried in the Outcome.
type QueryExecutor interface {
	Execute(ctx context.Context, queryText string) query.Outcome
}

type AnswerStage interface {
	ToAnswer(ctx context.Context, question string, outcome query.Outcome) (string, error)
}

const (
	StepQuestionToQuery = "question_to_query"
	StepExecuteQuery    = "execute_query"
	StepQueryToAnswer   = "query_to_answer"
)

// Runtime is the state shared by every turn of the process: the schema read
// once at startup and the long-lived executor.
type Runtime struct {
	schema   schema.Description
	executor QueryExecutor
}

func NewRuntime(ctx context.Context, provider schema.Provider, executor QueryExecutor) (*Runtime, error) {
	if executor == nil {
		return nil, fmt.Errorf("query executor is required")
	}
	description, err := schema.Load(ctx, provider)
	if err != nil {
		return nil, err
	}
	return &Runtime{schema: description, executor: executor}, nil
}

func (r *Runtime) Schema() schema.Description {
	return r.schema
}

type StepTiming struct {
	Step     string
	Duration time.Duration
}

// Turn records a single Run.
type Turn struct {
	ID        string
	Question  string
	Query     string
	Outcome   query.Outcome
	Answer    string
	StartedAt time.Time
	Duration  time.Duration
	Steps     []StepTiming
}

type step struct {
	name  string
	apply func(ctx context.Context, turn *Turn) error
}

type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type Pipeline struct {
	runtime *Runtime
	steps   []step
	logger  *slog.Logger

	// One turn runs at a time.
	mu sync.Mutex
}

func New(runtime *Runtime, toQuery QueryStage, toAnswer AnswerStage, opts ...Option) (*Pipeline, error) {
	if runtime == nil {
		return nil, fmt.Errorf("runtime is required")
	}
	if toQuery == nil {
		return nil, fmt.Errorf("question to query stage is required")
	}
	if toAnswer == nil {
		return nil, fmt.Errorf("query to answer stage is required")
	}

	p := &Pipeline{runtime: runtime, logger: observability.DiscardLogger()}
	for _, opt := range opts {
		opt(p)
	}

	schemaText := runtime.schema.String()
	p.steps = []step{
		{
			name: StepQuestionToQuery,
			apply: func(ctx context.Context, turn *Turn) error {
				text, err := toQuery.ToQuery(ctx, turn.Question, schemaText)
				if err != nil {
					return err
				}
				turn.Query = text
				return nil
			},
		},
		{
			name: StepExecuteQuery,
			apply: func(ctx context.Context, turn *Turn) error {
				turn.Outcome = runtime.executor.Execute(ctx, turn.Query)
				return nil
			},
		},
		{
			name: StepQueryToAnswer,
			apply: func(ctx context.Context, turn *Turn) error {
				text, err := toAnswer.ToAnswer(ctx, turn.Question, turn.Outcome)
				if err != nil {
					return err
				}
				turn.Answer = text
				return nil
			},
		},
	}
	return p, nil
}

func (p *Pipeline) Schema() schema.Description {
	return p.runtime.schema
}

// Run applies every step once, in order. A failed query execution does not
// stop the turn; only a stage error does.
func (p *Pipeline) Run(ctx context.Context, question string) (Turn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	turnStarted := time.Now()
	turn := Turn{
		ID:        uuid.NewString(),
		Question:  question,
		StartedAt: turnStarted.UTC(),
	}
	ctx = observability.ContextWithTurnID(ctx, turn.ID)

	for _, s := range p.steps {
		started := time.Now()
		err := s.apply(ctx, &turn)
		elapsed := time.Since(started)
		observability.ObserveStage(s.name, elapsed)
		turn.Steps = append(turn.Steps, StepTiming{Step: s.name, Duration: elapsed})
		if err != nil {
			turn.Duration = time.Since(turnStarted)
			observability.ObserveTurn(true, turn.Duration)
			p.logger.ErrorContext(ctx, "turn failed", slog.String("step", s.name), slog.Any("error", err))
			return turn, fmt.Errorf("%s: %w", s.name, err)
		}
	}

	turn.Duration = time.Since(turnStarted)
	observability.ObserveTurn(false, turn.Duration)
	p.logger.InfoContext(ctx, "turn answered",
		slog.Bool("query_failed", turn.Outcome.Failed),
		slog.Int("row_count", turn.Outcome.RowCount),
		slog.Duration("duration", turn.Duration),
	)
	return turn, nil
}

func (p *Pipeline) Answer(ctx context.Context, question string) (string, error) {
	turn, err := p.Run(ctx, question)
	if err != nil {
		return "", err
	}
	return turn.Answer, nil
}
