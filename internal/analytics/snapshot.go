package analytics

import (
	"context"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
)

// snapshotCardOptions resolves members and checklists alongside card
// fields, so every downstream analysis works from a single fetch.
var snapshotCardOptions = trello.CardListOptions{
	Members:    true,
	Checklists: true,
}

// BuildSnapshot materializes a board into a snapshot, walking its open
// lists in board order and aggregating the stats counters in the same
// pass. The counters cache what re-scanning the lists would yield.
func (e *Engine) BuildSnapshot(ctx context.Context, boardRef string) (*models.Snapshot, error) {
	board, err := e.reader.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	lists, err := e.reader.GetOpenLists(ctx, board.ID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	weekAhead := now.Add(7 * 24 * time.Hour)
	var stats models.BoardStats
	snapshotLists := make([]models.SnapshotList, 0, len(lists))

	for _, list := range lists {
		cards, err := e.reader.GetListCards(ctx, list.ID, snapshotCardOptions)
		if err != nil {
			return nil, err
		}
		snapshotCards := make([]models.SnapshotCard, 0, len(cards))
		for _, card := range cards {
			stats.TotalCards++

			due, hasDue := models.ParseTime(card.Due)
			if !hasDue {
				// Absent and unparsable due dates count the same.
				stats.NoDue++
			} else {
				if !card.DueComplete && due.Before(now) {
					stats.Overdue++
				}
				if sameDay(due, now) {
					stats.DueToday++
				} else if due.After(now) && !due.After(weekAhead) {
					stats.DueThisWeek++
				}
			}

			members := card.Members
			if members == nil {
				members = []models.Member{}
			}
			if len(members) == 0 {
				stats.Unassigned++
			}

			checklists := card.Checklists
			if checklists == nil {
				checklists = []models.Checklist{}
			}
			if len(checklists) > 0 {
				stats.WithChecklists++
				for _, checklist := range checklists {
					if len(checklist.CheckItems) > 0 && allItemsComplete(checklist.CheckItems) {
						stats.CompletedChecklists++
					}
				}
			}

			labels := card.Labels
			if labels == nil {
				labels = []models.Label{}
			}
			snapshotCards = append(snapshotCards, models.SnapshotCard{
				ID:          card.ID,
				Name:        card.Name,
				Desc:        card.Desc,
				Due:         card.Due,
				DueComplete: card.DueComplete,
				Labels:      labels,
				Members:     members,
				Checklists:  checklists,
			})
		}
		snapshotLists = append(snapshotLists, models.SnapshotList{
			ID:    list.ID,
			Name:  list.Name,
			Cards: snapshotCards,
		})
	}

	return &models.Snapshot{
		BoardName: board.Name,
		BoardID:   board.ID,
		Lists:     snapshotLists,
		Stats:     stats,
	}, nil
}

func allItemsComplete(items []models.CheckItem) bool {
	for _, item := range items {
		if item.State != models.CheckItemComplete {
			return false
		}
	}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
