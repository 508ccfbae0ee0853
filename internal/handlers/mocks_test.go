package handlers

import (
	"context"

	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
)

// The mocks below satisfy the handler-facing interfaces with function
// fields, so each test wires only the calls it expects.

type mockEngine struct {
	buildSnapshotFunc      func(ctx context.Context, boardRef string) (*models.Snapshot, error)
	analyzeBoardHealthFunc func(ctx context.Context, boardRef string) (*models.HealthReport, error)
	auditListFunc          func(ctx context.Context, boardRef, listName string) (*models.ListHealthReport, error)
	auditHistoryFunc       func(ctx context.Context, boardRef, since, before string) (*models.HistoryReport, error)
	suggestCleanupFunc     func(ctx context.Context, boardRef string) (*models.CleanupPlan, error)
	generateSummaryFunc    func(ctx context.Context, boardRef string) (*models.SummaryReport, error)
}

func (m *mockEngine) BuildSnapshot(ctx context.Context, boardRef string) (*models.Snapshot, error) {
	return m.buildSnapshotFunc(ctx, boardRef)
}

func (m *mockEngine) AnalyzeBoardHealth(ctx context.Context, boardRef string) (*models.HealthReport, error) {
	return m.analyzeBoardHealthFunc(ctx, boardRef)
}

func (m *mockEngine) AuditList(ctx context.Context, boardRef, listName string) (*models.ListHealthReport, error) {
	return m.auditListFunc(ctx, boardRef, listName)
}

func (m *mockEngine) AuditHistory(ctx context.Context, boardRef, since, before string) (*models.HistoryReport, error) {
	return m.auditHistoryFunc(ctx, boardRef, since, before)
}

func (m *mockEngine) SuggestCleanup(ctx context.Context, boardRef string) (*models.CleanupPlan, error) {
	return m.suggestCleanupFunc(ctx, boardRef)
}

func (m *mockEngine) GenerateSummary(ctx context.Context, boardRef string) (*models.SummaryReport, error) {
	return m.generateSummaryFunc(ctx, boardRef)
}

type mockBoardOps struct {
	groupCardsFunc       func(ctx context.Context, boardRef, criteria string) (*trello.GroupingResult, error)
	listOverdueTasksFunc func(ctx context.Context, boardRef string) ([]trello.OverdueTask, error)
	listBoardLabelsFunc  func(ctx context.Context, boardRef string) ([]models.Label, error)
	boardActionsFunc     func(ctx context.Context, boardRef string, opts trello.ActionsOptions) ([]models.Action, error)
}

func (m *mockBoardOps) GroupCards(ctx context.Context, boardRef, criteria string) (*trello.GroupingResult, error) {
	return m.groupCardsFunc(ctx, boardRef, criteria)
}

func (m *mockBoardOps) ListOverdueTasks(ctx context.Context, boardRef string) ([]trello.OverdueTask, error) {
	return m.listOverdueTasksFunc(ctx, boardRef)
}

func (m *mockBoardOps) ListBoardLabels(ctx context.Context, boardRef string) ([]models.Label, error) {
	return m.listBoardLabelsFunc(ctx, boardRef)
}

func (m *mockBoardOps) BoardActions(ctx context.Context, boardRef string, opts trello.ActionsOptions) ([]models.Action, error) {
	return m.boardActionsFunc(ctx, boardRef, opts)
}

type mockCardOps struct {
	createTaskFunc             func(ctx context.Context, params trello.CreateTaskParams) (*models.Card, error)
	completeTaskFunc           func(ctx context.Context, boardRef, taskName string) (*models.Card, error)
	updateDueDateFunc          func(ctx context.Context, boardRef, taskName, dueDate string) (*models.Card, error)
	archiveCardFunc            func(ctx context.Context, boardRef, cardName string) error
	deleteCardFunc             func(ctx context.Context, boardRef, cardName string) error
	moveCardFunc               func(ctx context.Context, boardRef, cardName, targetList string) (*trello.MoveResult, error)
	updateCardFieldFunc        func(ctx context.Context, boardRef, cardName, field string, value any) (*trello.FieldUpdateResult, error)
	createChecklistFunc        func(ctx context.Context, boardRef, cardName, checklistName string, items []string) (*trello.ChecklistResult, error)
	addChecklistItemFunc       func(ctx context.Context, boardRef, cardName, checklistName, itemName string) (*trello.ChecklistItemResult, error)
	checkChecklistItemFunc     func(ctx context.Context, boardRef, cardName, checklistName, itemName string) (*trello.ChecklistItemResult, error)
	addLabelFunc               func(ctx context.Context, boardRef, cardName, labelNameOrColor string) (*trello.LabelResult, error)
	improveCardDescriptionFunc func(ctx context.Context, boardRef, cardName, instructions string) (string, error)
	cardActionsFunc            func(ctx context.Context, boardRef, cardName string, opts trello.ActionsOptions) ([]models.Action, error)
}

func (m *mockCardOps) CreateTask(ctx context.Context, params trello.CreateTaskParams) (*models.Card, error) {
	return m.createTaskFunc(ctx, params)
}

func (m *mockCardOps) CompleteTask(ctx context.Context, boardRef, taskName string) (*models.Card, error) {
	return m.completeTaskFunc(ctx, boardRef, taskName)
}

func (m *mockCardOps) UpdateDueDate(ctx context.Context, boardRef, taskName, dueDate string) (*models.Card, error) {
	return m.updateDueDateFunc(ctx, boardRef, taskName, dueDate)
}

func (m *mockCardOps) ArchiveCard(ctx context.Context, boardRef, cardName string) error {
	return m.archiveCardFunc(ctx, boardRef, cardName)
}

func (m *mockCardOps) DeleteCard(ctx context.Context, boardRef, cardName string) error {
	return m.deleteCardFunc(ctx, boardRef, cardName)
}

func (m *mockCardOps) MoveCard(ctx context.Context, boardRef, cardName, targetList string) (*trello.MoveResult, error) {
	return m.moveCardFunc(ctx, boardRef, cardName, targetList)
}

func (m *mockCardOps) UpdateCardField(ctx context.Context, boardRef, cardName, field string, value any) (*trello.FieldUpdateResult, error) {
	return m.updateCardFieldFunc(ctx, boardRef, cardName, field, value)
}

func (m *mockCardOps) CreateChecklist(ctx context.Context, boardRef, cardName, checklistName string, items []string) (*trello.ChecklistResult, error) {
	return m.createChecklistFunc(ctx, boardRef, cardName, checklistName, items)
}

func (m *mockCardOps) AddChecklistItem(ctx context.Context, boardRef, cardName, checklistName, itemName string) (*trello.ChecklistItemResult, error) {
	return m.addChecklistItemFunc(ctx, boardRef, cardName, checklistName, itemName)
}

func (m *mockCardOps) CheckChecklistItem(ctx context.Context, boardRef, cardName, checklistName, itemName string) (*trello.ChecklistItemResult, error) {
	return m.checkChecklistItemFunc(ctx, boardRef, cardName, checklistName, itemName)
}

func (m *mockCardOps) AddLabel(ctx context.Context, boardRef, cardName, labelNameOrColor string) (*trello.LabelResult, error) {
	return m.addLabelFunc(ctx, boardRef, cardName, labelNameOrColor)
}

func (m *mockCardOps) ImproveCardDescription(ctx context.Context, boardRef, cardName, instructions string) (string, error) {
	return m.improveCardDescriptionFunc(ctx, boardRef, cardName, instructions)
}

func (m *mockCardOps) CardActions(ctx context.Context, boardRef, cardName string, opts trello.ActionsOptions) ([]models.Action, error) {
	return m.cardActionsFunc(ctx, boardRef, cardName, opts)
}

type mockListOps struct {
	shiftDueDatesFunc     func(ctx context.Context, boardRef, listName string, days int) ([]trello.ShiftedDue, error)
	sortListByDueDateFunc func(ctx context.Context, boardRef, listName, order string) ([]trello.SortedCard, error)
	prioritizeListFunc    func(ctx context.Context, boardRef, listName string) ([]trello.PrioritizedCard, error)
}

func (m *mockListOps) ShiftDueDates(ctx context.Context, boardRef, listName string, days int) ([]trello.ShiftedDue, error) {
	return m.shiftDueDatesFunc(ctx, boardRef, listName, days)
}

func (m *mockListOps) SortListByDueDate(ctx context.Context, boardRef, listName, order string) ([]trello.SortedCard, error) {
	return m.sortListByDueDateFunc(ctx, boardRef, listName, order)
}

func (m *mockListOps) PrioritizeList(ctx context.Context, boardRef, listName string) ([]trello.PrioritizedCard, error) {
	return m.prioritizeListFunc(ctx, boardRef, listName)
}
