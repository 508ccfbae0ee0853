package analytics

import (
	"context"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/models"
)

const (
	// doneArchiveAge is how long a completed card may keep its due date
	// before it becomes an archive candidate.
	doneArchiveAge = 30 * 24 * time.Hour
	// rebalanceFactor flags a list holding more than this multiple of
	// the average list size. The average includes the overloaded list
	// itself.
	rebalanceFactor = 2.0
)

// Cleanup suggestion values, kept verbatim as surfaced to the user.
const (
	suggestShiftThreeDays = "+3d"
	suggestBacklogList    = "Backlog"
	suggestDefineProcess  = "Définir le process"
)

// SuggestCleanup derives a housekeeping plan from a snapshot. The plan is
// advisory only: nothing here mutates the board. Buckets with no actions
// are omitted entirely.
func (e *Engine) SuggestCleanup(ctx context.Context, boardRef string) (*models.CleanupPlan, error) {
	snapshot, err := e.BuildSnapshot(ctx, boardRef)
	if err != nil {
		return nil, err
	}

	now := e.now()
	archiveBefore := now.Add(-doneArchiveAge)

	var (
		archiveActions      []models.CleanupAction
		addDueActions       []models.CleanupAction
		labelActions        []models.CleanupAction
		emptyListActions    []models.CleanupAction
		rebalanceActions    []models.CleanupAction
		shiftOverdueActions []models.CleanupAction
		addChecklistActions []models.CleanupAction
	)

	for _, list := range snapshot.Lists {
		if len(list.Cards) == 0 {
			emptyListActions = append(emptyListActions, models.CleanupAction{
				Action:   "archiveList",
				ListName: list.Name,
			})
		}
		for _, card := range list.Cards {
			due, hasDue := models.ParseTime(card.Due)

			if card.DueComplete && hasDue && due.Before(archiveBefore) {
				archiveActions = append(archiveActions, models.CleanupAction{
					Action:   "archiveCard",
					CardID:   card.ID,
					ListName: list.Name,
				})
			}
			if card.Due == "" {
				addDueActions = append(addDueActions, models.CleanupAction{
					Action:         "addChecklistItem",
					CardID:         card.ID,
					ListName:       list.Name,
					SuggestedValue: map[string]any{"itemName": suggestDefineDueDate},
				})
			}
			if len(card.Labels) == 0 {
				labelActions = append(labelActions, models.CleanupAction{
					Action:         "applyLabel",
					CardID:         card.ID,
					ListName:       list.Name,
					SuggestedValue: map[string]any{"label": suggestCategorize},
				})
			}
			if hasDue && !card.DueComplete && due.Before(now) {
				shiftOverdueActions = append(shiftOverdueActions, models.CleanupAction{
					Action:         "shiftDueDates",
					CardID:         card.ID,
					ListName:       list.Name,
					SuggestedValue: suggestShiftThreeDays,
				})
			}
			if len(card.Checklists) == 0 {
				addChecklistActions = append(addChecklistActions, models.CleanupAction{
					Action:         "addChecklistItem",
					CardID:         card.ID,
					ListName:       list.Name,
					SuggestedValue: suggestDefineProcess,
				})
			}
		}
	}

	if len(snapshot.Lists) > 0 {
		totalCards := 0
		for _, list := range snapshot.Lists {
			totalCards += len(list.Cards)
		}
		threshold := float64(totalCards) / float64(len(snapshot.Lists)) * rebalanceFactor
		if threshold > 0 {
			for _, list := range snapshot.Lists {
				if float64(len(list.Cards)) <= threshold {
					continue
				}
				for _, card := range list.Cards {
					rebalanceActions = append(rebalanceActions, models.CleanupAction{
						Action:         "moveCardToList",
						CardID:         card.ID,
						ListName:       list.Name,
						SuggestedValue: suggestBacklogList,
					})
				}
			}
		}
	}

	suggestions := []models.CleanupSuggestion{}
	addSuggestion := func(suggestionType, message string, actions []models.CleanupAction) {
		if len(actions) == 0 {
			return
		}
		suggestions = append(suggestions, models.CleanupSuggestion{
			Type:    suggestionType,
			Message: message,
			Actions: actions,
		})
	}
	addSuggestion("archive_old_done_cards", "Archiver les cartes terminées depuis plus de 30 jours.", archiveActions)
	addSuggestion("add_missing_due_dates", "Ajouter des dates d'échéance aux cartes qui n'en ont pas.", addDueActions)
	addSuggestion("label_missing", "Appliquer un label aux cartes non catégorisées.", labelActions)
	addSuggestion("cleanup_empty_lists", "Archiver ou fusionner les listes vides.", emptyListActions)
	addSuggestion("rebalance_lists", "Rééquilibrer les listes trop chargées vers Backlog.", rebalanceActions)
	addSuggestion("shift_overdue", "Proposer un décalage de 3 jours pour les cartes en retard.", shiftOverdueActions)
	addSuggestion("add_checklist_for_missing_process", "Ajouter une checklist de process aux cartes qui n'en ont pas.", addChecklistActions)

	return &models.CleanupPlan{
		BoardName:   snapshot.BoardName,
		GeneratedAt: e.generatedAt(),
		Suggestions: suggestions,
	}, nil
}
