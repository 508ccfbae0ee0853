package analytics

import (
	"context"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
)

// fakeReader satisfies BoardReader with function fields, so each test
// fakes exactly the calls it cares about.
type fakeReader struct {
	getBoardFunc        func(ctx context.Context, boardNameOrID string) (*models.Board, error)
	getOpenListsFunc    func(ctx context.Context, boardID string) ([]models.List, error)
	getListCardsFunc    func(ctx context.Context, listID string, opts trello.CardListOptions) ([]models.Card, error)
	getBoardActionsFunc func(ctx context.Context, boardID string, opts trello.ActionsOptions) ([]models.Action, error)
}

func (f *fakeReader) GetBoard(ctx context.Context, boardNameOrID string) (*models.Board, error) {
	return f.getBoardFunc(ctx, boardNameOrID)
}

func (f *fakeReader) GetOpenLists(ctx context.Context, boardID string) ([]models.List, error) {
	return f.getOpenListsFunc(ctx, boardID)
}

func (f *fakeReader) GetListCards(ctx context.Context, listID string, opts trello.CardListOptions) ([]models.Card, error) {
	return f.getListCardsFunc(ctx, listID, opts)
}

func (f *fakeReader) GetBoardActions(ctx context.Context, boardID string, opts trello.ActionsOptions) ([]models.Action, error) {
	return f.getBoardActionsFunc(ctx, boardID, opts)
}

// fixtureReader serves a static in-memory board named Sprint.
func fixtureReader(lists []models.List, cardsByList map[string][]models.Card, actions []models.Action) *fakeReader {
	return &fakeReader{
		getBoardFunc: func(ctx context.Context, boardNameOrID string) (*models.Board, error) {
			return &models.Board{ID: "b1", Name: "Sprint"}, nil
		},
		getOpenListsFunc: func(ctx context.Context, boardID string) ([]models.List, error) {
			return lists, nil
		},
		getListCardsFunc: func(ctx context.Context, listID string, opts trello.CardListOptions) ([]models.Card, error) {
			return cardsByList[listID], nil
		},
		getBoardActionsFunc: func(ctx context.Context, boardID string, opts trello.ActionsOptions) ([]models.Action, error) {
			return actions, nil
		},
	}
}

// testNow is the fixed clock used across the analytics tests.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestEngine(reader BoardReader, opts ...Option) *Engine {
	opts = append(opts, WithClock(func() time.Time { return testNow }))
	return NewEngine(reader, opts...)
}

// anomaliesOfType filters a history report down to one anomaly type.
func anomaliesOfType(anomalies []models.Anomaly, anomalyType string) []models.Anomaly {
	var filtered []models.Anomaly
	for _, a := range anomalies {
		if a.Type == anomalyType {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
