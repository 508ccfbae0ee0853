package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
	"gonum.org/v1/gonum/stat"
)

const (
	// inactivityWindow is both the stalled-card and inactive-member
	// horizon of the history audit.
	inactivityWindow = 7 * 24 * time.Hour
	// gapWindow is the silence between two consecutive actions that
	// counts as a dead period, and the sliding window of the frequent
	// moves rule.
	gapWindow = 48 * time.Hour
	// cycleLimit is the first-to-last action span above which a card's
	// cycle time is anomalous.
	cycleLimit = 21 * 24 * time.Hour
	// spikeFactor flags a day whose action count exceeds this multiple
	// of the daily mean.
	spikeFactor = 3.0
	// frequentMoveLimit is the move count a card may reach inside one
	// gapWindow before it is flagged.
	frequentMoveLimit = 5
)

// timedAction pairs an action with its parsed timestamp. Actions whose
// date cannot be parsed are dropped before analysis.
type timedAction struct {
	action models.Action
	at     time.Time
}

// cardRef ties a card id back to its name and list for anomaly messages.
type cardRef struct {
	name     string
	listName string
}

// AuditHistory scans a board's action feed for timeline anomalies. Since
// and before bound the fetched window and are echoed in the report; empty
// values leave the window open on that side.
func (e *Engine) AuditHistory(ctx context.Context, boardRef, since, before string) (*models.HistoryReport, error) {
	board, err := e.reader.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	actions, err := e.reader.GetBoardActions(ctx, board.ID, trello.ActionsOptions{
		Since:  since,
		Before: before,
	})
	if err != nil {
		return nil, err
	}
	snapshot, err := e.BuildSnapshot(ctx, boardRef)
	if err != nil {
		return nil, err
	}

	sorted := make([]timedAction, 0, len(actions))
	for _, action := range actions {
		if at, ok := models.ParseTime(action.Date); ok {
			sorted = append(sorted, timedAction{action: action, at: at})
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].at.Before(sorted[j].at) })

	// One pass over the sorted feed builds every per-card and per-member
	// index the anomaly rules need.
	cardLast := map[string]time.Time{}
	cardFirst := map[string]time.Time{}
	var cardOrder []string
	memberLast := map[string]time.Time{}
	dayCounts := map[string]int{}
	moveTimes := map[string][]time.Time{}
	var moveOrder []string

	for _, entry := range sorted {
		action := entry.action
		var cardID string
		if action.Data.Card != nil {
			cardID = action.Data.Card.ID
		}
		if cardID != "" {
			if _, seen := cardLast[cardID]; !seen {
				cardOrder = append(cardOrder, cardID)
				cardFirst[cardID] = entry.at
			}
			cardLast[cardID] = entry.at
		}
		if memberID := action.MemberCreator.ID; memberID != "" {
			memberLast[memberID] = entry.at
		}
		if len(action.Date) >= 10 {
			dayCounts[action.Date[:10]]++
		}
		if cardID != "" && action.Type == "updateCard" &&
			action.Data.ListBefore != nil && action.Data.ListAfter != nil {
			if _, seen := moveTimes[cardID]; !seen {
				moveOrder = append(moveOrder, cardID)
			}
			moveTimes[cardID] = append(moveTimes[cardID], entry.at)
		}
	}

	cardContext := map[string]cardRef{}
	for _, list := range snapshot.Lists {
		for _, card := range list.Cards {
			if card.ID != "" {
				cardContext[card.ID] = cardRef{name: card.Name, listName: list.Name}
			}
		}
	}

	now := e.now()
	anomalies := []models.Anomaly{}

	// Stalled cards: present on the board, no action for over 7 days.
	staleBefore := now.Add(-inactivityWindow)
	for _, list := range snapshot.Lists {
		for _, card := range list.Cards {
			if card.ID == "" {
				continue
			}
			last, touched := cardLast[card.ID]
			if touched && !last.Before(staleBefore) {
				continue
			}
			var lastActionAt any
			if touched {
				lastActionAt = last.UTC().Format(time.RFC3339)
			}
			anomalies = append(anomalies, models.Anomaly{
				Type:    "stalled_card",
				Message: fmt.Sprintf("La carte %q n'a aucune activité depuis plus de 7 jours.", card.Name),
				Details: map[string]any{
					"cardId":       card.ID,
					"cardName":     card.Name,
					"listName":     list.Name,
					"lastActionAt": lastActionAt,
				},
			})
		}
	}

	// Inactive members: assigned somewhere on the board, silent for over
	// 7 days. Membership comes from the snapshot, activity from the feed.
	memberNames := map[string]string{}
	var memberOrder []string
	for _, list := range snapshot.Lists {
		for _, card := range list.Cards {
			for _, member := range card.Members {
				id := member.ID
				if id == "" {
					id = member.Username
				}
				name := member.FullName
				if name == "" {
					name = member.Username
				}
				if name == "" {
					name = id
				}
				if id == "" || name == "" {
					continue
				}
				if _, seen := memberNames[id]; !seen {
					memberOrder = append(memberOrder, id)
				}
				memberNames[id] = name
			}
		}
	}
	for _, memberID := range memberOrder {
		last, active := memberLast[memberID]
		if active && !last.Before(staleBefore) {
			continue
		}
		var lastActionAt any
		if active {
			lastActionAt = last.UTC().Format(time.RFC3339)
		}
		anomalies = append(anomalies, models.Anomaly{
			Type:    "inactive_member",
			Message: fmt.Sprintf("Le membre %q est inactif depuis plus de 7 jours.", memberNames[memberID]),
			Details: map[string]any{
				"memberId":     memberID,
				"memberName":   memberNames[memberID],
				"lastActionAt": lastActionAt,
			},
		})
	}

	// Activity spikes: any day above three times the daily mean. Every
	// spiking day is reported, never just the worst one.
	if len(dayCounts) > 0 {
		days := make([]string, 0, len(dayCounts))
		counts := make([]float64, 0, len(dayCounts))
		for day := range dayCounts {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			counts = append(counts, float64(dayCounts[day]))
		}
		average := stat.Mean(counts, nil)
		for _, day := range days {
			count := dayCounts[day]
			if average > 0 && float64(count) > average*spikeFactor {
				anomalies = append(anomalies, models.Anomaly{
					Type:    "high_activity_spike",
					Message: fmt.Sprintf("Pic d'activité détecté le %s (%d actions, moyenne %.1f).", day, count, average),
					Details: map[string]any{"day": day, "count": count, "average": average},
				})
			}
		}
	}

	// Dead periods: over 48 hours between two consecutive actions. An
	// empty feed is itself an anomaly, not a silent success.
	for i := 1; i < len(sorted); i++ {
		previous, current := sorted[i-1], sorted[i]
		if current.at.Sub(previous.at) > gapWindow {
			anomalies = append(anomalies, models.Anomaly{
				Type:    "no_activity_period",
				Message: fmt.Sprintf("Aucune action enregistrée entre %s et %s.", previous.action.Date, current.action.Date),
				Details: map[string]any{
					"start": previous.action.Date,
					"end":   current.action.Date,
				},
			})
		}
	}
	if len(sorted) == 0 {
		anomalies = append(anomalies, models.Anomaly{
			Type:    "no_activity_period",
			Message: "Aucune action trouvée sur la période analysée.",
			Details: map[string]any{"since": since, "before": before},
		})
	}

	// Frequent moves: more than 5 list changes inside any sliding 48h
	// window. One anomaly per card no matter how many windows qualify.
	for _, cardID := range moveOrder {
		times := moveTimes[cardID]
		if !hasBurst(times, frequentMoveLimit, gapWindow) {
			continue
		}
		ref := cardContext[cardID]
		name := ref.name
		if name == "" {
			name = cardID
		}
		anomalies = append(anomalies, models.Anomaly{
			Type:    "frequent_moves",
			Message: fmt.Sprintf("La carte %q a été déplacée plus de 5 fois en 48h.", name),
			Details: map[string]any{
				"cardId":   cardID,
				"cardName": ref.name,
				"listName": ref.listName,
			},
		})
	}

	// Long cycle time: over 21 days between a card's first and last
	// action in the window.
	for _, cardID := range cardOrder {
		first := cardFirst[cardID]
		last := cardLast[cardID]
		span := last.Sub(first)
		if span <= cycleLimit {
			continue
		}
		ref := cardContext[cardID]
		name := ref.name
		if name == "" {
			name = cardID
		}
		anomalies = append(anomalies, models.Anomaly{
			Type:    "long_cycle_time",
			Message: fmt.Sprintf("Le cycle de la carte %q dépasse 21 jours.", name),
			Details: map[string]any{
				"cardId":        cardID,
				"cardName":      ref.name,
				"listName":      ref.listName,
				"cycleTimeDays": int(math.Round(span.Hours() / 24)),
			},
		})
	}

	return &models.HistoryReport{
		BoardName:   snapshot.BoardName,
		GeneratedAt: e.generatedAt(),
		PeriodAnalyzed: models.AnalyzedPeriod{
			Since:        since,
			Before:       before,
			TotalActions: len(actions),
		},
		Anomalies: anomalies,
	}, nil
}

// hasBurst reports whether more than limit timestamps fall inside any
// sliding window of the given width. Input must be sorted ascending,
// which the caller guarantees by building move lists from a sorted feed.
func hasBurst(times []time.Time, limit int, window time.Duration) bool {
	start := 0
	for end := range times {
		for times[end].Sub(times[start]) > window {
			start++
		}
		if end-start+1 > limit {
			return true
		}
	}
	return false
}
