package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
	"go.uber.org/zap"
)

const (
	// soonWindow is the horizon under which an upcoming due date becomes
	// a due_soon problem.
	soonWindow = 48 * time.Hour
	// stalledAfter is how long a card may go without an action before it
	// counts as stalled.
	stalledAfter = 7 * 24 * time.Hour
	// maxLabels and maxDescriptionLen bound the cosmetic rules.
	maxLabels         = 5
	maxDescriptionLen = 2000

	// Board verdict thresholds: good up to boardMediumFrom-1 problems,
	// bad above boardBadAbove.
	boardMediumFrom = 4
	boardBadAbove   = 10
	// List thresholds are stricter.
	listMediumFrom = 2
	listBadAbove   = 5
)

// Remediation suggestion values surfaced to the user. These are product
// strings, kept verbatim.
const (
	suggestDefineDueDate = "Définir une date d'échéance"
	suggestAssignLabel   = "À assigner"
	suggestAddSteps      = "Ajouter étapes"
	suggestReviewList    = "En revue"
	suggestCategorize    = "À catégoriser"
)

// activityIndex is the last-action-per-card lookup used by the stalled
// rule. The action feed is refined context, not ground truth: when the
// feed could not be fetched the index is empty and every card reads as
// never touched, which the stalled rule treats as stalled.
type activityIndex struct {
	lastAction map[string]time.Time
	available  bool
}

func (a activityIndex) lastActionFor(cardID string) (time.Time, bool) {
	t, ok := a.lastAction[cardID]
	return t, ok
}

// fetchActivityIndex builds the index from updateCard and commentCard
// actions. Failure is logged, never propagated.
func (e *Engine) fetchActivityIndex(ctx context.Context, boardID string) activityIndex {
	actions, err := e.reader.GetBoardActions(ctx, boardID, trello.ActionsOptions{
		Filter: []string{"updateCard", "commentCard"},
	})
	if err != nil {
		e.logger.Warn("activity_feed_unavailable",
			zap.String("board_id", boardID),
			zap.Error(err),
		)
		return activityIndex{lastAction: map[string]time.Time{}}
	}
	index := activityIndex{lastAction: make(map[string]time.Time, len(actions)), available: true}
	for _, action := range actions {
		if action.Data.Card == nil || action.Data.Card.ID == "" {
			continue
		}
		when, ok := models.ParseTime(action.Date)
		if !ok {
			continue
		}
		cardID := action.Data.Card.ID
		if existing, seen := index.lastAction[cardID]; !seen || when.After(existing) {
			index.lastAction[cardID] = when
		}
	}
	return index
}

// ruleCollector accumulates problems and recommendations while cards are
// evaluated. Recommendations are deduplicated on action plus target, so
// two problems pointing at the same fix yield one recommendation.
type ruleCollector struct {
	problems        []models.Problem
	recommendations []models.Recommendation
	seen            map[string]struct{}
}

func newRuleCollector() *ruleCollector {
	return &ruleCollector{
		problems:        []models.Problem{},
		recommendations: []models.Recommendation{},
		seen:            map[string]struct{}{},
	}
}

func (c *ruleCollector) addProblem(problemType string, card models.SnapshotCard, listName string, details map[string]any) {
	c.problems = append(c.problems, models.Problem{
		Type:     problemType,
		CardID:   card.ID,
		CardName: card.Name,
		ListName: listName,
		Details:  details,
	})
}

func (c *ruleCollector) addRecommendation(action, cardID, listName string, suggested any) {
	key := action + "-" + cardID
	if cardID == "" {
		key = action + "-" + listName
	}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.recommendations = append(c.recommendations, models.Recommendation{
		Action:         action,
		CardID:         cardID,
		ListName:       listName,
		SuggestedValue: suggested,
	})
}

// evaluateCard applies every health rule to one card. Rules are
// independent: a card can collect several problems in one pass.
func (c *ruleCollector) evaluateCard(card models.SnapshotCard, listName string, activity activityIndex, now time.Time) {
	due, hasDue := models.ParseTime(card.Due)
	if hasDue {
		if !card.DueComplete && due.Before(now) {
			c.addProblem("overdue", card, listName, nil)
			c.addRecommendation("shiftDueDates", card.ID, listName, map[string]any{"days": 3})
		} else if !due.Before(now) && due.Sub(now) <= soonWindow {
			c.addProblem("due_soon", card, listName, map[string]any{"due": card.Due})
		}
	} else {
		c.addProblem("no_due_date", card, listName, nil)
		c.addRecommendation("addChecklistItem", card.ID, listName, map[string]any{"itemName": suggestDefineDueDate})
	}

	if len(card.Members) == 0 {
		c.addProblem("unassigned", card, listName, nil)
		c.addRecommendation("applyLabel", card.ID, listName, map[string]any{"label": suggestAssignLabel})
	}

	if len(card.Checklists) > 0 && allChecklistsEmpty(card.Checklists) {
		c.addProblem("empty_checklist", card, listName, nil)
		c.addRecommendation("addChecklistItem", card.ID, listName, map[string]any{"itemName": suggestAddSteps})
	}

	lastAction, touched := activity.lastActionFor(card.ID)
	if !touched || lastAction.Before(now.Add(-stalledAfter)) {
		var lastActivity any
		if touched {
			lastActivity = lastAction.UTC().Format(time.RFC3339)
		}
		c.addProblem("stalled", card, listName, map[string]any{"lastActivity": lastActivity})
		c.addRecommendation("moveCardToList", card.ID, listName, map[string]any{"targetList": suggestReviewList})
	}

	if len(card.Labels) == 0 {
		c.addProblem("no_label", card, listName, nil)
		c.addRecommendation("applyLabel", card.ID, listName, map[string]any{"label": suggestCategorize})
	} else if len(card.Labels) > maxLabels {
		c.addProblem("too_many_labels", card, listName, map[string]any{"labelsCount": len(card.Labels)})
	}

	if len(card.Desc) > maxDescriptionLen {
		c.addProblem("long_description", card, listName, map[string]any{"length": len(card.Desc)})
	}
}

func allChecklistsEmpty(checklists []models.Checklist) bool {
	for _, checklist := range checklists {
		if len(checklist.CheckItems) > 0 {
			return false
		}
	}
	return true
}

// verdict maps a problem count onto the 3-level health scale.
func verdict(problemCount, mediumFrom, badAbove int) models.Health {
	switch {
	case problemCount > badAbove:
		return models.HealthBad
	case problemCount >= mediumFrom:
		return models.HealthMedium
	default:
		return models.HealthGood
	}
}

// AnalyzeBoardHealth evaluates every card of a board against the health
// rules and renders a board-level verdict.
func (e *Engine) AnalyzeBoardHealth(ctx context.Context, boardRef string) (*models.HealthReport, error) {
	snapshot, err := e.BuildSnapshot(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	activity := e.fetchActivityIndex(ctx, snapshot.BoardID)

	now := e.now()
	collector := newRuleCollector()
	for _, list := range snapshot.Lists {
		for _, card := range list.Cards {
			collector.evaluateCard(card, list.Name, activity, now)
		}
	}

	return &models.HealthReport{
		BoardName:       snapshot.BoardName,
		GeneratedAt:     e.generatedAt(),
		Health:          verdict(len(collector.problems), boardMediumFrom, boardBadAbove),
		Problems:        collector.problems,
		Recommendations: collector.recommendations,
	}, nil
}

// AuditList evaluates a single list, matched case-insensitively, with the
// stricter list-level verdict thresholds.
func (e *Engine) AuditList(ctx context.Context, boardRef, listName string) (*models.ListHealthReport, error) {
	snapshot, err := e.BuildSnapshot(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	var target *models.SnapshotList
	for i := range snapshot.Lists {
		if strings.EqualFold(snapshot.Lists[i].Name, listName) {
			target = &snapshot.Lists[i]
			break
		}
	}
	if target == nil {
		return nil, trello.NewListNotFound(listName, snapshot.BoardName)
	}
	activity := e.fetchActivityIndex(ctx, snapshot.BoardID)

	now := e.now()
	collector := newRuleCollector()
	for _, card := range target.Cards {
		collector.evaluateCard(card, target.Name, activity, now)
	}

	return &models.ListHealthReport{
		BoardName:       snapshot.BoardName,
		ListName:        target.Name,
		GeneratedAt:     e.generatedAt(),
		Health:          verdict(len(collector.problems), listMediumFrom, listBadAbove),
		Problems:        collector.problems,
		Recommendations: collector.recommendations,
	}, nil
}
