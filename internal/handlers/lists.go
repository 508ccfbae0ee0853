package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pberthonneau/trello-copilot/internal/trello"
	"github.com/pberthonneau/trello-copilot/internal/validation"
)

// ListOperations is the slice of the operations service scoped to lists.
type ListOperations interface {
	ShiftDueDates(ctx context.Context, boardRef, listName string, days int) ([]trello.ShiftedDue, error)
	SortListByDueDate(ctx context.Context, boardRef, listName, order string) ([]trello.SortedCard, error)
	PrioritizeList(ctx context.Context, boardRef, listName string) ([]trello.PrioritizedCard, error)
}

// ListHandler handles list-scope analytics and operations
type ListHandler struct {
	engine AnalyticsEngine
	ops    ListOperations
}

// NewListHandler creates a new list handler
func NewListHandler(engine AnalyticsEngine, ops ListOperations) *ListHandler {
	return &ListHandler{engine: engine, ops: ops}
}

// RegisterRoutes registers list routes on the given router
// The router should already have the /lists prefix
func (h *ListHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/audit", h.Audit).Methods("POST")
	r.HandleFunc("/shift-due-dates", h.ShiftDueDates).Methods("POST")
	r.HandleFunc("/sort", h.Sort).Methods("POST")
	r.HandleFunc("/prioritize", h.Prioritize).Methods("POST")
}

// listRequest accepts every historical spelling of the list reference.
type listRequest struct {
	boardRequest
	List      string `json:"list"`
	ListSnake string `json:"list_name"`
	ListCamel string `json:"listName"`
}

func (l listRequest) listName() string {
	return firstNonEmpty(l.List, l.ListSnake, l.ListCamel)
}

func (l listRequest) requireListName(w http.ResponseWriter) (string, bool) {
	name := l.listName()
	if name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "list name is required")
		return "", false
	}
	return name, true
}

type shiftDueDatesRequest struct {
	listRequest
	Days *int `json:"days"`
}

type sortListRequest struct {
	listRequest
	Order string `json:"order" validate:"sort_order"`
}

// Audit handles POST /lists/audit
func (h *ListHandler) Audit(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireListName(w)
	if !ok {
		return
	}
	report, err := h.engine.AuditList(r.Context(), req.boardRef(), name)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// ShiftDueDates handles POST /lists/shift-due-dates
func (h *ListHandler) ShiftDueDates(w http.ResponseWriter, r *http.Request) {
	var req shiftDueDatesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireListName(w)
	if !ok {
		return
	}
	if req.Days == nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "days is required")
		return
	}
	shifted, err := h.ops.ShiftDueDates(r.Context(), req.boardRef(), name, *req.Days)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, shifted)
}

// Sort handles POST /lists/sort
func (h *ListHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req sortListRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireListName(w)
	if !ok {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "order must be 'asc' or 'desc'")
		return
	}
	sorted, err := h.ops.SortListByDueDate(r.Context(), req.boardRef(), name, req.Order)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sorted)
}

// Prioritize handles POST /lists/prioritize
func (h *ListHandler) Prioritize(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireListName(w)
	if !ok {
		return
	}
	prioritized, err := h.ops.PrioritizeList(r.Context(), req.boardRef(), name)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prioritized)
}
