// Package analytics derives health, history, cleanup and summary reports
// from a Trello board. Every analysis starts from a snapshot so that one
// run sees one consistent view of the board; the engine never mutates
// anything upstream.
package analytics

import (
	"context"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
	"go.uber.org/zap"
)

// BoardReader is the read-only slice of the Trello client the engine
// consumes. Kept narrow so tests can fake a whole board in memory.
type BoardReader interface {
	GetBoard(ctx context.Context, boardNameOrID string) (*models.Board, error)
	GetOpenLists(ctx context.Context, boardID string) ([]models.List, error)
	GetListCards(ctx context.Context, listID string, opts trello.CardListOptions) ([]models.Card, error)
	GetBoardActions(ctx context.Context, boardID string, opts trello.ActionsOptions) ([]models.Action, error)
}

// TextGenerator produces the narrative part of the executive summary.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error)
}

// Engine runs the board analyses.
type Engine struct {
	reader    BoardReader
	generator TextGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithGenerator enables executive summaries.
func WithGenerator(g TextGenerator) Option {
	return func(e *Engine) { e.generator = g }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides the wall clock (used by tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an analytics engine over the given reader.
func NewEngine(reader BoardReader, opts ...Option) *Engine {
	e := &Engine{
		reader: reader,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// generatedAt stamps a report with the current wall clock.
func (e *Engine) generatedAt() string {
	return e.now().UTC().Format(time.RFC3339)
}
