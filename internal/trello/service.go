package trello

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultInboxList receives new tasks when no list is named.
	DefaultInboxList = "Nouvelles taches"
	// soonWindow is the horizon under which an upcoming due date raises
	// a card's priority score.
	soonWindow = 48 * time.Hour
)

// doneListNames are the list names, tried in order, that completeTask
// moves a finished card into.
var doneListNames = []string{"Terminé", "Termine", "Done", "Fait", "Completed"}

// highPriorityLabelNames mark a card as high priority regardless of due
// date. Matching is case-insensitive, on name first then color.
var (
	highPriorityLabelNames  = []string{"urgent", "p1", "priority", "haute priorité"}
	highPriorityLabelColors = []string{"red"}
)

// TextGenerator produces free-form text from a prompt. Satisfied by the
// ai provider; nil disables the operations that need it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error)
}

// Service implements the card and list operations on top of the REST
// client. Every method resolves names to ids itself, so callers only ever
// pass human-readable references.
type Service struct {
	client    *Client
	generator TextGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithTextGenerator enables description rewriting.
func WithTextGenerator(g TextGenerator) ServiceOption {
	return func(s *Service) { s.generator = g }
}

// WithServiceLogger attaches a logger.
func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithServiceClock overrides the wall clock (used by tests).
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService builds an operations service over the given client.
func NewService(client *Client, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTaskParams names the board, list and card for CreateTask. An
// empty List falls back to DefaultInboxList.
type CreateTaskParams struct {
	Board       string
	List        string
	Title       string
	Description string
	DueDate     string
}

// CreateTask creates a card on the named list.
func (s *Service) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Card, error) {
	board, err := s.client.GetBoard(ctx, params.Board)
	if err != nil {
		return nil, err
	}
	listName := params.List
	if listName == "" {
		listName = DefaultInboxList
	}
	list, err := s.client.GetList(ctx, board.ID, listName)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"name":   params.Title,
		"idList": list.ID,
	}
	if params.Description != "" {
		payload["desc"] = params.Description
	}
	if params.DueDate != "" {
		payload["due"] = params.DueDate
	}
	card, err := s.client.CreateCard(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("task_created",
		zap.String("board", board.Name),
		zap.String("list", listName),
		zap.String("card", card.Name),
	)
	return card, nil
}

// CompleteTask marks a card's due date complete and, when the board has a
// done-style list, moves the card there. Absence of such a list is not an
// error.
func (s *Service) CompleteTask(ctx context.Context, boardRef, taskName string) (*models.Card, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, taskName)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"dueComplete": true}
	for _, name := range doneListNames {
		list, err := s.client.GetList(ctx, board.ID, name)
		if err == nil {
			updates["idList"] = list.ID
			break
		}
		if !IsKind(err, KindNotFound) {
			return nil, err
		}
	}
	return s.client.UpdateCard(ctx, card.ID, updates)
}

// UpdateDueDate replaces a card's due date.
func (s *Service) UpdateDueDate(ctx context.Context, boardRef, taskName, dueDate string) (*models.Card, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, taskName)
	if err != nil {
		return nil, err
	}
	return s.client.UpdateCard(ctx, card.ID, map[string]any{"due": dueDate})
}

// ArchiveCard closes a card without deleting it.
func (s *Service) ArchiveCard(ctx context.Context, boardRef, cardName string) error {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, cardName)
	if err != nil {
		return err
	}
	_, err = s.client.UpdateCard(ctx, card.ID, map[string]any{"closed": true})
	return err
}

// DeleteCard permanently deletes a card.
func (s *Service) DeleteCard(ctx context.Context, boardRef, cardName string) error {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, cardName)
	if err != nil {
		return err
	}
	return s.client.DeleteCard(ctx, card.ID)
}

// MoveResult describes a card move.
type MoveResult struct {
	CardName string `json:"cardName"`
	OldList  string `json:"oldList"`
	NewList  string `json:"newList"`
}

// MoveCard moves a card to another list on the same board.
func (s *Service) MoveCard(ctx context.Context, boardRef, cardName, targetList string) (*MoveResult, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, cardName)
	if err != nil {
		return nil, err
	}
	full, err := s.client.GetCard(ctx, card.ID, "idList,idBoard,name")
	if err != nil {
		return nil, err
	}
	oldList, err := s.client.GetListByID(ctx, full.ListID)
	if err != nil {
		return nil, err
	}
	list, err := s.client.GetList(ctx, full.BoardID, targetList)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.UpdateCard(ctx, card.ID, map[string]any{"idList": list.ID}); err != nil {
		return nil, err
	}
	return &MoveResult{CardName: full.Name, OldList: oldList.Name, NewList: list.Name}, nil
}

// FieldUpdateResult echoes an applied field update.
type FieldUpdateResult struct {
	CardName string `json:"cardName"`
	Field    string `json:"field"`
	Value    any    `json:"value"`
}

// UpdateCardField sets a single upstream card field by name.
func (s *Service) UpdateCardField(ctx context.Context, boardRef, cardName, field string, value any) (*FieldUpdateResult, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, cardName)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.UpdateCard(ctx, card.ID, map[string]any{field: value}); err != nil {
		return nil, err
	}
	return &FieldUpdateResult{CardName: cardName, Field: field, Value: value}, nil
}

// ChecklistResult describes a created checklist.
type ChecklistResult struct {
	CardName      string   `json:"cardName"`
	ChecklistName string   `json:"checklistName"`
	ChecklistID   string   `json:"checklistId"`
	Items         []string `json:"items"`
}

// CreateChecklist creates a checklist on a card and populates it with the
// given items. Blank items are skipped.
func (s *Service) CreateChecklist(ctx context.Context, boardRef, cardName, checklistName string, items []string) (*ChecklistResult, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, cardName)
	if err != nil {
		return nil, err
	}
	checklist, err := s.client.CreateChecklist(ctx, card.ID, checklistName)
	if err != nil {
		return nil, err
	}
	created := []string{}
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, err := s.client.AddCheckItem(ctx, checklist.ID, trimmed); err != nil {
			return nil, err
		}
		created = append(created, trimmed)
	}
	return &ChecklistResult{
		CardName:      cardName,
		ChecklistName: checklistName,
		ChecklistID:   checklist.ID,
		Items:         created,
	}, nil
}

// ChecklistItemResult describes a checklist item addition or state change.
type ChecklistItemResult struct {
	CardName      string `json:"cardName"`
	ChecklistName string `json:"checklistName"`
	ItemName      string `json:"itemName"`
	ChecklistID   string `json:"checklistId"`
	ItemID        string `json:"itemId"`
	State         string `json:"state,omitempty"`
}

// AddChecklistItem appends an item to an existing checklist, matched by
// case-insensitive name.
func (s *Service) AddChecklistItem(ctx context.Context, boardRef, cardName, checklistName, itemName string) (*ChecklistItemResult, error) {
	checklist, _, err := s.findChecklist(ctx, boardRef, cardName, checklistName)
	if err != nil {
		return nil, err
	}
	item, err := s.client.AddCheckItem(ctx, checklist.ID, itemName)
	if err != nil {
		return nil, err
	}
	return &ChecklistItemResult{
		CardName:      cardName,
		ChecklistName: checklistName,
		ItemName:      itemName,
		ChecklistID:   checklist.ID,
		ItemID:        item.ID,
	}, nil
}

// CheckChecklistItem marks a checklist item complete.
func (s *Service) CheckChecklistItem(ctx context.Context, boardRef, cardName, checklistName, itemName string) (*ChecklistItemResult, error) {
	checklist, card, err := s.findChecklist(ctx, boardRef, cardName, checklistName)
	if err != nil {
		return nil, err
	}
	var item *models.CheckItem
	for i := range checklist.CheckItems {
		if strings.EqualFold(checklist.CheckItems[i].Name, itemName) {
			item = &checklist.CheckItems[i]
			break
		}
	}
	if item == nil {
		return nil, NewCheckItemNotFound(itemName, checklistName)
	}
	if err := s.client.SetCheckItemState(ctx, card.ID, item.ID, models.CheckItemComplete); err != nil {
		return nil, err
	}
	return &ChecklistItemResult{
		CardName:      cardName,
		ChecklistName: checklistName,
		ItemName:      itemName,
		ChecklistID:   checklist.ID,
		ItemID:        item.ID,
		State:         models.CheckItemComplete,
	}, nil
}

// findChecklist resolves a card's checklist by case-insensitive name.
func (s *Service) findChecklist(ctx context.Context, boardRef, cardName, checklistName string) (*models.Checklist, *models.Card, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, nil, err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, cardName)
	if err != nil {
		return nil, nil, err
	}
	checklists, err := s.client.GetCardChecklists(ctx, card.ID)
	if err != nil {
		return nil, nil, err
	}
	for i := range checklists {
		if strings.EqualFold(checklists[i].Name, checklistName) {
			return &checklists[i], card, nil
		}
	}
	return nil, nil, NewChecklistNotFound(checklistName, cardName)
}

// LabelResult describes a label attached to a card.
type LabelResult struct {
	CardName   string `json:"cardName"`
	LabelID    string `json:"labelId"`
	LabelName  string `json:"labelName"`
	LabelColor string `json:"labelColor"`
	Attached   bool   `json:"attached"`
}

// AddLabel attaches a board label to a card. The reference matches label
// names first, then colors, case-insensitively.
func (s *Service) AddLabel(ctx context.Context, boardRef, cardName, labelNameOrColor string) (*LabelResult, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, cardName)
	if err != nil {
		return nil, err
	}
	boardID := card.BoardID
	if boardID == "" {
		boardID = board.ID
	}
	labels, err := s.client.BoardLabels(ctx, boardID)
	if err != nil {
		return nil, err
	}
	var label *models.Label
	for i := range labels {
		if strings.EqualFold(labels[i].Name, labelNameOrColor) {
			label = &labels[i]
			break
		}
	}
	if label == nil {
		for i := range labels {
			if strings.EqualFold(labels[i].Color, labelNameOrColor) {
				label = &labels[i]
				break
			}
		}
	}
	if label == nil {
		return nil, NewLabelNotFound(labelNameOrColor, board.Name)
	}
	if err := s.client.AddLabelToCard(ctx, card.ID, label.ID); err != nil {
		return nil, err
	}
	return &LabelResult{
		CardName:   cardName,
		LabelID:    label.ID,
		LabelName:  label.Name,
		LabelColor: label.Color,
		Attached:   true,
	}, nil
}

// ListBoardLabels returns every label defined on a board.
func (s *Service) ListBoardLabels(ctx context.Context, boardRef string) ([]models.Label, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	return s.client.BoardLabels(ctx, board.ID)
}

// ShiftedDue records one rescheduled card.
type ShiftedDue struct {
	CardName string `json:"cardName"`
	OldDue   string `json:"oldDue"`
	NewDue   string `json:"newDue"`
}

// ShiftDueDates moves every due date in a list by the given number of
// days. Cards without a parseable due date are left alone.
func (s *Service) ShiftDueDates(ctx context.Context, boardRef, listName string, days int) ([]ShiftedDue, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	list, err := s.client.GetList(ctx, board.ID, listName)
	if err != nil {
		return nil, err
	}
	cards, err := s.client.GetListCards(ctx, list.ID, CardListOptions{Fields: "name,due"})
	if err != nil {
		return nil, err
	}
	offset := time.Duration(days) * 24 * time.Hour
	shifted := []ShiftedDue{}
	for _, card := range cards {
		due, ok := models.ParseTime(card.Due)
		if !ok {
			continue
		}
		newDue := due.Add(offset).UTC().Format(time.RFC3339Nano)
		if _, err := s.client.UpdateCard(ctx, card.ID, map[string]any{"due": newDue}); err != nil {
			return nil, err
		}
		shifted = append(shifted, ShiftedDue{CardName: card.Name, OldDue: card.Due, NewDue: newDue})
	}
	return shifted, nil
}

// OverdueTask is a card whose due date is in the past and not marked
// complete.
type OverdueTask struct {
	CardName      string `json:"cardName"`
	ListName      string `json:"listName"`
	Due           string `json:"due"`
	OverdueByDays int    `json:"overdueByDays"`
}

// ListOverdueTasks scans every open list of a board for overdue cards.
func (s *Service) ListOverdueTasks(ctx context.Context, boardRef string) ([]OverdueTask, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	lists, err := s.client.GetOpenLists(ctx, board.ID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	overdue := []OverdueTask{}
	for _, list := range lists {
		cards, err := s.client.GetListCards(ctx, list.ID, CardListOptions{Fields: "name,due,dueComplete"})
		if err != nil {
			return nil, err
		}
		for _, card := range cards {
			if card.DueComplete {
				continue
			}
			due, ok := models.ParseTime(card.Due)
			if !ok || !due.Before(now) {
				continue
			}
			days := int(now.Sub(due).Hours() / 24)
			overdue = append(overdue, OverdueTask{
				CardName:      card.Name,
				ListName:      list.Name,
				Due:           card.Due,
				OverdueByDays: days,
			})
		}
	}
	return overdue, nil
}

// SortedCard records a card's new position after a sort.
type SortedCard struct {
	CardName string `json:"cardName"`
	Due      string `json:"due"`
	NewPos   int    `json:"newPos"`
}

// SortListByDueDate reorders the dated cards of a list by due date.
// Order is "asc" unless "desc" is given; cards without a due date keep
// their positions.
func (s *Service) SortListByDueDate(ctx context.Context, boardRef, listName, order string) ([]SortedCard, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	list, err := s.client.GetList(ctx, board.ID, listName)
	if err != nil {
		return nil, err
	}
	cards, err := s.client.GetListCards(ctx, list.ID, CardListOptions{Fields: "name,due"})
	if err != nil {
		return nil, err
	}

	type datedCard struct {
		card models.Card
		due  time.Time
	}
	var dated []datedCard
	for _, card := range cards {
		if due, ok := models.ParseTime(card.Due); ok {
			dated = append(dated, datedCard{card: card, due: due})
		}
	}
	desc := order == "desc"
	sort.SliceStable(dated, func(i, j int) bool {
		if desc {
			return dated[i].due.After(dated[j].due)
		}
		return dated[i].due.Before(dated[j].due)
	})

	sorted := []SortedCard{}
	for i, entry := range dated {
		pos := i + 1
		if _, err := s.client.UpdateCard(ctx, entry.card.ID, map[string]any{"pos": pos}); err != nil {
			return nil, err
		}
		sorted = append(sorted, SortedCard{CardName: entry.card.Name, Due: entry.card.Due, NewPos: pos})
	}
	return sorted, nil
}

// PrioritizedCard records a card's score and new position.
type PrioritizedCard struct {
	CardName      string `json:"cardName"`
	Due           string `json:"due"`
	PriorityScore int    `json:"priorityScore"`
	NewPos        int    `json:"newPos"`
}

// PrioritizeList reorders a list by a priority score. Overdue cards score
// 100, high-priority labels 50, due within 48 hours 30, no due date 10;
// ties break on the earlier due date, dated cards before undated ones.
func (s *Service) PrioritizeList(ctx context.Context, boardRef, listName string) ([]PrioritizedCard, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	list, err := s.client.GetList(ctx, board.ID, listName)
	if err != nil {
		return nil, err
	}
	cards, err := s.client.GetListCards(ctx, list.ID, CardListOptions{Fields: "name,due,dueComplete,labels"})
	if err != nil {
		return nil, err
	}

	now := s.now()
	type scoredCard struct {
		card   models.Card
		score  int
		due    time.Time
		hasDue bool
	}
	scored := make([]scoredCard, 0, len(cards))
	for _, card := range cards {
		entry := scoredCard{card: card}
		entry.due, entry.hasDue = models.ParseTime(card.Due)
		if entry.hasDue && entry.due.Before(now) {
			entry.score += 100
		}
		if hasHighPriorityLabel(card.Labels) {
			entry.score += 50
		}
		if entry.hasDue && !entry.due.Before(now) && entry.due.Sub(now) <= soonWindow {
			entry.score += 30
		}
		if !entry.hasDue {
			entry.score += 10
		}
		scored = append(scored, entry)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].hasDue && scored[j].hasDue {
			return scored[i].due.Before(scored[j].due)
		}
		return scored[i].hasDue && !scored[j].hasDue
	})

	prioritized := []PrioritizedCard{}
	for i, entry := range scored {
		pos := i + 1
		if _, err := s.client.UpdateCard(ctx, entry.card.ID, map[string]any{"pos": pos}); err != nil {
			return nil, err
		}
		prioritized = append(prioritized, PrioritizedCard{
			CardName:      entry.card.Name,
			Due:           entry.card.Due,
			PriorityScore: entry.score,
			NewPos:        pos,
		})
	}
	return prioritized, nil
}

func hasHighPriorityLabel(labels []models.Label) bool {
	for _, label := range labels {
		name := strings.ToLower(label.Name)
		for _, candidate := range highPriorityLabelNames {
			if name == candidate {
				return true
			}
		}
		color := strings.ToLower(label.Color)
		for _, candidate := range highPriorityLabelColors {
			if color == candidate {
				return true
			}
		}
	}
	return false
}

// GroupedCard records one card moved during grouping.
type GroupedCard struct {
	CardName   string `json:"cardName"`
	ListBefore string `json:"listBefore"`
	ListAfter  string `json:"listAfter"`
}

// CardGroup is one grouping bucket with the cards moved into it.
type CardGroup struct {
	GroupName string        `json:"groupName"`
	CardCount int           `json:"cardCount"`
	Cards     []GroupedCard `json:"cards"`
}

// GroupingResult is the outcome of GroupCards.
type GroupingResult struct {
	Criteria string      `json:"criteria"`
	Groups   []CardGroup `json:"groups"`
}

// GroupCards regroups every card of a board into lists named after the
// grouping buckets, creating missing lists. Criteria is one of "label",
// "member" or "due". A card carrying several labels or members lands in
// each matching group in turn.
func (s *Service) GroupCards(ctx context.Context, boardRef, criteria string) (*GroupingResult, error) {
	if criteria != "label" && criteria != "member" && criteria != "due" {
		return nil, NewUpstream(fmt.Sprintf("critère de regroupement invalide: %q", criteria), 0, nil)
	}
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	lists, err := s.client.GetOpenLists(ctx, board.ID)
	if err != nil {
		return nil, err
	}

	type groupEntry struct {
		card       models.Card
		listBefore string
	}
	groups := map[string][]groupEntry{}
	var groupOrder []string
	addToGroup := func(name string, entry groupEntry) {
		if _, seen := groups[name]; !seen {
			groupOrder = append(groupOrder, name)
		}
		groups[name] = append(groups[name], entry)
	}

	now := s.now()
	for _, list := range lists {
		cards, err := s.client.GetListCards(ctx, list.ID, CardListOptions{Fields: "name,due,idList,labels,idMembers"})
		if err != nil {
			return nil, err
		}
		for _, card := range cards {
			entry := groupEntry{card: card, listBefore: list.Name}
			for _, name := range groupNamesFor(card, criteria, now) {
				addToGroup(name, entry)
			}
		}
	}

	listByName := map[string]*models.List{}
	for i := range lists {
		listByName[lists[i].Name] = &lists[i]
	}
	ensureList := func(name string) (*models.List, error) {
		if list, ok := listByName[name]; ok {
			return list, nil
		}
		list, err := s.client.CreateList(ctx, board.ID, name)
		if err != nil {
			return nil, err
		}
		listByName[name] = list
		return list, nil
	}

	memberNames := map[string]string{}
	displayName := func(group string) (string, error) {
		if criteria != "member" || group == "Unassigned" {
			return group, nil
		}
		if name, ok := memberNames[group]; ok {
			return name, nil
		}
		member, err := s.client.GetMember(ctx, group)
		if err != nil {
			return "", err
		}
		memberNames[group] = member.FullName
		return member.FullName, nil
	}

	result := &GroupingResult{Criteria: criteria, Groups: []CardGroup{}}
	for _, groupName := range groupOrder {
		target, err := ensureList(groupName)
		if err != nil {
			return nil, err
		}
		display, err := displayName(groupName)
		if err != nil {
			return nil, err
		}
		moved := []GroupedCard{}
		for _, entry := range groups[groupName] {
			if _, err := s.client.UpdateCard(ctx, entry.card.ID, map[string]any{"idList": target.ID}); err != nil {
				return nil, err
			}
			moved = append(moved, GroupedCard{
				CardName:   entry.card.Name,
				ListBefore: entry.listBefore,
				ListAfter:  display,
			})
		}
		result.Groups = append(result.Groups, CardGroup{
			GroupName: display,
			CardCount: len(moved),
			Cards:     moved,
		})
	}
	return result, nil
}

// groupNamesFor buckets a card for GroupCards. Member groups are keyed by
// member id; the caller resolves display names.
func groupNamesFor(card models.Card, criteria string, now time.Time) []string {
	switch criteria {
	case "label":
		if len(card.Labels) == 0 {
			return []string{"No Label"}
		}
		names := make([]string, 0, len(card.Labels))
		for _, label := range card.Labels {
			switch {
			case strings.TrimSpace(label.Name) != "":
				names = append(names, label.Name)
			case label.Color != "":
				names = append(names, label.Color)
			default:
				names = append(names, "No Label")
			}
		}
		return names
	case "member":
		if len(card.MemberIDs) == 0 {
			return []string{"Unassigned"}
		}
		return card.MemberIDs
	default: // due
		due, ok := models.ParseTime(card.Due)
		if !ok {
			return []string{"No Due Date"}
		}
		switch {
		case due.Before(now):
			return []string{"Overdue"}
		case sameDay(due, now):
			return []string{"Today"}
		case due.Sub(now) <= 7*24*time.Hour:
			return []string{"This Week"}
		default:
			return []string{"Later"}
		}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ImproveCardDescription rewrites a card's description through the text
// generator without changing its meaning. Optional instructions steer the
// rewrite. Fails with KindGeneration when no generator is configured or
// the generated text is empty.
func (s *Service) ImproveCardDescription(ctx context.Context, boardRef, cardName, instructions string) (string, error) {
	if s.generator == nil {
		return "", NewGenerationUnavailable("aucun fournisseur de génération de texte n'est configuré")
	}
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return "", err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, cardName)
	if err != nil {
		return "", err
	}
	full, err := s.client.GetCard(ctx, card.ID, "desc")
	if err != nil {
		return "", err
	}
	current := full.Desc
	if current == "" {
		current = "(vide)"
	}
	sections := []string{
		"Voici la description d'une carte Trello. Améliore-la selon les instructions éventuelles.",
		"Ne change pas le sens. Retourne uniquement la nouvelle description.",
		"Description actuelle:\n" + current,
	}
	if trimmed := strings.TrimSpace(instructions); trimmed != "" {
		sections = append(sections, "Instructions supplémentaires:\n"+trimmed)
	}
	improved, err := s.generator.GenerateText(ctx, strings.Join(sections, "\n\n"), "", 0.7)
	if err != nil {
		return "", NewGenerationUnavailable(fmt.Sprintf("la génération de la description a échoué: %v", err))
	}
	improved = strings.TrimSpace(improved)
	if improved == "" {
		return "", NewGenerationUnavailable("la description générée est vide")
	}
	if _, err := s.client.UpdateCard(ctx, card.ID, map[string]any{"desc": improved}); err != nil {
		return "", err
	}
	return improved, nil
}

// BoardActions returns the action feed of a board.
func (s *Service) BoardActions(ctx context.Context, boardRef string, opts ActionsOptions) ([]models.Action, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	return s.client.GetBoardActions(ctx, board.ID, opts)
}

// CardActions returns the action feed of a card resolved by name.
func (s *Service) CardActions(ctx context.Context, boardRef, cardName string, opts ActionsOptions) ([]models.Action, error) {
	board, err := s.client.GetBoard(ctx, boardRef)
	if err != nil {
		return nil, err
	}
	card, err := s.client.FindCardByName(ctx, board.ID, cardName)
	if err != nil {
		return nil, err
	}
	return s.client.GetCardActions(ctx, card.ID, opts)
}
