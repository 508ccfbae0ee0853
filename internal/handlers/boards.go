package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
	"github.com/pberthonneau/trello-copilot/internal/validation"
)

// AnalyticsEngine is the slice of the analytics engine the handlers call.
type AnalyticsEngine interface {
	BuildSnapshot(ctx context.Context, boardRef string) (*models.Snapshot, error)
	AnalyzeBoardHealth(ctx context.Context, boardRef string) (*models.HealthReport, error)
	AuditList(ctx context.Context, boardRef, listName string) (*models.ListHealthReport, error)
	AuditHistory(ctx context.Context, boardRef, since, before string) (*models.HistoryReport, error)
	SuggestCleanup(ctx context.Context, boardRef string) (*models.CleanupPlan, error)
	GenerateSummary(ctx context.Context, boardRef string) (*models.SummaryReport, error)
}

// BoardOperations is the slice of the operations service scoped to whole
// boards.
type BoardOperations interface {
	GroupCards(ctx context.Context, boardRef, criteria string) (*trello.GroupingResult, error)
	ListOverdueTasks(ctx context.Context, boardRef string) ([]trello.OverdueTask, error)
	ListBoardLabels(ctx context.Context, boardRef string) ([]models.Label, error)
	BoardActions(ctx context.Context, boardRef string, opts trello.ActionsOptions) ([]models.Action, error)
}

// BoardHandler handles board-scope analytics and operations
type BoardHandler struct {
	engine AnalyticsEngine
	ops    BoardOperations
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(engine AnalyticsEngine, ops BoardOperations) *BoardHandler {
	return &BoardHandler{engine: engine, ops: ops}
}

// RegisterRoutes registers board routes on the given router
// The router should already have the /boards prefix
func (h *BoardHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/snapshot", h.Snapshot).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("POST")
	r.HandleFunc("/history", h.History).Methods("POST")
	r.HandleFunc("/cleanup", h.Cleanup).Methods("POST")
	r.HandleFunc("/summary", h.Summary).Methods("POST")
	r.HandleFunc("/group", h.Group).Methods("POST")
	r.HandleFunc("/overdue", h.Overdue).Methods("POST")
	r.HandleFunc("/labels", h.Labels).Methods("POST")
	r.HandleFunc("/actions", h.Actions).Methods("POST")
}

// boardRequest accepts every historical spelling of the board reference.
// Normalization happens here, once; the core only sees the canonical
// value.
type boardRequest struct {
	Board      string `json:"board"`
	BoardSnake string `json:"board_name"`
	BoardCamel string `json:"boardName"`
}

func (b boardRequest) boardRef() string {
	return firstNonEmpty(b.Board, b.BoardSnake, b.BoardCamel)
}

// historyRequest bounds the audited window.
type historyRequest struct {
	boardRequest
	Since  string `json:"since"`
	Before string `json:"before"`
}

// groupRequest selects the grouping criteria.
type groupRequest struct {
	boardRequest
	Criteria string `json:"criteria"`
}

// actionsRequest narrows an action feed fetch.
type actionsRequest struct {
	boardRequest
	Filter []string `json:"filter"`
	Since  string   `json:"since"`
	Before string   `json:"before"`
	Limit  int      `json:"limit"`
}

// Snapshot handles POST /boards/snapshot
func (h *BoardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	snapshot, err := h.engine.BuildSnapshot(r.Context(), req.boardRef())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// Health handles POST /boards/health
func (h *BoardHandler) Health(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	report, err := h.engine.AnalyzeBoardHealth(r.Context(), req.boardRef())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// History handles POST /boards/history
func (h *BoardHandler) History(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	report, err := h.engine.AuditHistory(r.Context(), req.boardRef(), req.Since, req.Before)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Cleanup handles POST /boards/cleanup
func (h *BoardHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	plan, err := h.engine.SuggestCleanup(r.Context(), req.boardRef())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// Summary handles POST /boards/summary
func (h *BoardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	report, err := h.engine.GenerateSummary(r.Context(), req.boardRef())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Group handles POST /boards/group
func (h *BoardHandler) Group(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateGroupCriteria(req.Criteria); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	result, err := h.ops.GroupCards(r.Context(), req.boardRef(), req.Criteria)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Overdue handles POST /boards/overdue
func (h *BoardHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tasks, err := h.ops.ListOverdueTasks(r.Context(), req.boardRef())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Labels handles POST /boards/labels
func (h *BoardHandler) Labels(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	labels, err := h.ops.ListBoardLabels(r.Context(), req.boardRef())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, labels)
}

// Actions handles POST /boards/actions
func (h *BoardHandler) Actions(w http.ResponseWriter, r *http.Request) {
	var req actionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actions, err := h.ops.BoardActions(r.Context(), req.boardRef(), trello.ActionsOptions{
		Filter: req.Filter,
		Since:  req.Since,
		Before: req.Before,
		Limit:  req.Limit,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, actions)
}
