package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
	"github.com/pberthonneau/trello-copilot/internal/validation"
)

// CardOperations is the slice of the operations service scoped to single
// cards.
type CardOperations interface {
	CreateTask(ctx context.Context, params trello.CreateTaskParams) (*models.Card, error)
	CompleteTask(ctx context.Context, boardRef, taskName string) (*models.Card, error)
	UpdateDueDate(ctx context.Context, boardRef, taskName, dueDate string) (*models.Card, error)
	ArchiveCard(ctx context.Context, boardRef, cardName string) error
	DeleteCard(ctx context.Context, boardRef, cardName string) error
	MoveCard(ctx context.Context, boardRef, cardName, targetList string) (*trello.MoveResult, error)
	UpdateCardField(ctx context.Context, boardRef, cardName, field string, value any) (*trello.FieldUpdateResult, error)
	CreateChecklist(ctx context.Context, boardRef, cardName, checklistName string, items []string) (*trello.ChecklistResult, error)
	AddChecklistItem(ctx context.Context, boardRef, cardName, checklistName, itemName string) (*trello.ChecklistItemResult, error)
	CheckChecklistItem(ctx context.Context, boardRef, cardName, checklistName, itemName string) (*trello.ChecklistItemResult, error)
	AddLabel(ctx context.Context, boardRef, cardName, labelNameOrColor string) (*trello.LabelResult, error)
	ImproveCardDescription(ctx context.Context, boardRef, cardName, instructions string) (string, error)
	CardActions(ctx context.Context, boardRef, cardName string, opts trello.ActionsOptions) ([]models.Action, error)
}

// CardHandler handles card-scope operations
type CardHandler struct {
	ops CardOperations
}

// NewCardHandler creates a new card handler
func NewCardHandler(ops CardOperations) *CardHandler {
	return &CardHandler{ops: ops}
}

// RegisterRoutes registers card routes on the given router
// The router should already have the /cards prefix
func (h *CardHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/complete", h.Complete).Methods("POST")
	r.HandleFunc("/due-date", h.UpdateDueDate).Methods("POST")
	r.HandleFunc("/move", h.Move).Methods("POST")
	r.HandleFunc("/archive", h.Archive).Methods("POST")
	r.HandleFunc("/delete", h.Delete).Methods("POST")
	r.HandleFunc("/field", h.UpdateField).Methods("POST")
	r.HandleFunc("/checklist", h.CreateChecklist).Methods("POST")
	r.HandleFunc("/checklist/item", h.AddChecklistItem).Methods("POST")
	r.HandleFunc("/checklist/check", h.CheckChecklistItem).Methods("POST")
	r.HandleFunc("/label", h.AddLabel).Methods("POST")
	r.HandleFunc("/improve-description", h.ImproveDescription).Methods("POST")
	r.HandleFunc("/actions", h.Actions).Methods("POST")
}

// cardRequest accepts every historical spelling of the card reference.
type cardRequest struct {
	boardRequest
	TaskName  string `json:"task_name"`
	CardSnake string `json:"card_name"`
	CardCamel string `json:"cardName"`
}

func (c cardRequest) cardName() string {
	return firstNonEmpty(c.TaskName, c.CardSnake, c.CardCamel)
}

// requireCardName validates the card reference, responding 400 when every
// alias is empty.
func (c cardRequest) requireCardName(w http.ResponseWriter) (string, bool) {
	name := c.cardName()
	if name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "card name is required")
		return "", false
	}
	return name, true
}

type createTaskRequest struct {
	boardRequest
	List        string `json:"list"`
	ListSnake   string `json:"list_name"`
	ListCamel   string `json:"listName"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueSnake    string `json:"due_date"`
	DueCamel    string `json:"dueDate"`
}

type dueDateRequest struct {
	cardRequest
	DueSnake string `json:"due_date"`
	DueCamel string `json:"dueDate"`
}

type moveCardRequest struct {
	cardRequest
	TargetList  string `json:"target_list"`
	TargetCamel string `json:"targetList"`
	ListSnake   string `json:"list_name"`
	ListCamel   string `json:"listName"`
}

type updateFieldRequest struct {
	cardRequest
	Field string `json:"field"`
	Value any    `json:"value"`
}

type checklistRequest struct {
	cardRequest
	ChecklistSnake string   `json:"checklist_name"`
	ChecklistCamel string   `json:"checklistName"`
	Items          []string `json:"items"`
	ItemSnake      string   `json:"item_name"`
	ItemCamel      string   `json:"itemName"`
}

func (c checklistRequest) checklistName() string {
	return firstNonEmpty(c.ChecklistSnake, c.ChecklistCamel)
}

func (c checklistRequest) itemName() string {
	return firstNonEmpty(c.ItemSnake, c.ItemCamel)
}

type labelRequest struct {
	cardRequest
	LabelSnake string `json:"label_name_or_color"`
	LabelCamel string `json:"labelNameOrColor"`
	Label      string `json:"label"`
}

type improveDescriptionRequest struct {
	cardRequest
	Instructions string `json:"instructions"`
}

type cardActionsRequest struct {
	cardRequest
	Filter []string `json:"filter"`
	Since  string   `json:"since"`
	Before string   `json:"before"`
	Limit  int      `json:"limit"`
}

// Create handles POST /cards
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	title := validation.SanitizeText(req.Title)
	if title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "title is required")
		return
	}
	card, err := h.ops.CreateTask(r.Context(), trello.CreateTaskParams{
		Board:       req.boardRef(),
		List:        firstNonEmpty(req.List, req.ListSnake, req.ListCamel),
		Title:       title,
		Description: req.Description,
		DueDate:     firstNonEmpty(req.DueSnake, req.DueCamel),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

// Complete handles POST /cards/complete
func (h *CardHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	card, err := h.ops.CompleteTask(r.Context(), req.boardRef(), name)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

// UpdateDueDate handles POST /cards/due-date
func (h *CardHandler) UpdateDueDate(w http.ResponseWriter, r *http.Request) {
	var req dueDateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	due := firstNonEmpty(req.DueSnake, req.DueCamel)
	if due == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "due_date is required")
		return
	}
	card, err := h.ops.UpdateDueDate(r.Context(), req.boardRef(), name, due)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

// Move handles POST /cards/move
func (h *CardHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	target := firstNonEmpty(req.TargetList, req.TargetCamel, req.ListSnake, req.ListCamel)
	if target == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "target_list is required")
		return
	}
	result, err := h.ops.MoveCard(r.Context(), req.boardRef(), name, target)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Archive handles POST /cards/archive
func (h *CardHandler) Archive(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	if err := h.ops.ArchiveCard(r.Context(), req.boardRef(), name); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cardName": name, "archived": true})
}

// Delete handles POST /cards/delete
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	if err := h.ops.DeleteCard(r.Context(), req.boardRef(), name); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cardName": name, "deleted": true})
}

// UpdateField handles POST /cards/field
func (h *CardHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req updateFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	if req.Field == "" || req.Value == nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "field and value are required")
		return
	}
	result, err := h.ops.UpdateCardField(r.Context(), req.boardRef(), name, req.Field, req.Value)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// CreateChecklist handles POST /cards/checklist
func (h *CardHandler) CreateChecklist(w http.ResponseWriter, r *http.Request) {
	var req checklistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	checklistName := req.checklistName()
	if checklistName == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "checklist_name is required")
		return
	}
	result, err := h.ops.CreateChecklist(r.Context(), req.boardRef(), name, checklistName, req.Items)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// AddChecklistItem handles POST /cards/checklist/item
func (h *CardHandler) AddChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req checklistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	checklistName, itemName := req.checklistName(), req.itemName()
	if checklistName == "" || itemName == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "checklist_name and item_name are required")
		return
	}
	result, err := h.ops.AddChecklistItem(r.Context(), req.boardRef(), name, checklistName, itemName)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// CheckChecklistItem handles POST /cards/checklist/check
func (h *CardHandler) CheckChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req checklistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	checklistName, itemName := req.checklistName(), req.itemName()
	if checklistName == "" || itemName == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "checklist_name and item_name are required")
		return
	}
	result, err := h.ops.CheckChecklistItem(r.Context(), req.boardRef(), name, checklistName, itemName)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// AddLabel handles POST /cards/label
func (h *CardHandler) AddLabel(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	label := firstNonEmpty(req.LabelSnake, req.LabelCamel, req.Label)
	if label == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "label_name_or_color is required")
		return
	}
	result, err := h.ops.AddLabel(r.Context(), req.boardRef(), name, label)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ImproveDescription handles POST /cards/improve-description
func (h *CardHandler) ImproveDescription(w http.ResponseWriter, r *http.Request) {
	var req improveDescriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	updated, err := h.ops.ImproveCardDescription(r.Context(), req.boardRef(), name, req.Instructions)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"updated": updated})
}

// Actions handles POST /cards/actions
func (h *CardHandler) Actions(w http.ResponseWriter, r *http.Request) {
	var req cardActionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, ok := req.requireCardName(w)
	if !ok {
		return
	}
	actions, err := h.ops.CardActions(r.Context(), req.boardRef(), name, trello.ActionsOptions{
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
