package trello

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/logger"
	"github.com/pberthonneau/trello-copilot/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Trello REST API root.
	DefaultBaseURL = "https://api.trello.com/1"
	// DefaultTimeout bounds every upstream call; cancellation beyond that
	// is the caller's context.
	DefaultTimeout = 30 * time.Second

	// snapshotCardFields are the card fields a snapshot needs.
	snapshotCardFields = "name,desc,due,dueComplete,labels,idMembers"
	// searchCardFields are the fields requested from the search endpoint.
	searchCardFields = "id,name,desc,due,dueComplete,idList,idBoard,labels"
)

// boardIDPattern matches an opaque Trello id (24 hex chars).
var boardIDPattern = regexp.MustCompile(`^[a-f0-9]{24}$`)

// Client is a thin typed client for the Trello REST API. Credentials are
// sent as query parameters on every request, per the Trello auth model.
// It implements the read surface the analytics engine consumes and the
// write surface the operations service needs.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	apiToken       string
	defaultBoardID string
	logger         *zap.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithDefaultBoard sets the board used when an operation names none.
func WithDefaultBoard(id string) ClientOption {
	return func(c *Client) { c.defaultBoardID = id }
}

// WithLogger attaches a logger for upstream diagnostics.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a Trello client. Key and token are required; the server
// refuses to start without them.
func NewClient(apiKey, apiToken string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		apiToken:   apiToken,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one API call. Body (when non-nil) is JSON-encoded; out (when
// non-nil) is JSON-decoded from the response. Non-2xx responses become
// KindUpstream errors carrying the upstream status.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return NewUpstream(fmt.Sprintf("URL invalide %q: %v", path, err), 0, err)
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.apiKey)
	query.Set("token", c.apiToken)
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewUpstream(fmt.Sprintf("encodage de la requête %s %s: %v", method, path, err), 0, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return NewUpstream(fmt.Sprintf("création de la requête %s %s: %v", method, path, err), 0, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewUpstream(fmt.Sprintf("appel Trello %s %s: %v", method, path, err), 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("trello_api_error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", logger.SanitizeString(string(detail), 512)),
		)
		return NewUpstream(
			fmt.Sprintf("l'API Trello a répondu %s: %s", resp.Status, strings.TrimSpace(string(detail))),
			resp.StatusCode, nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewUpstream(fmt.Sprintf("décodage de la réponse %s %s: %v", method, path, err), 0, err)
	}
	return nil
}

// GetBoard resolves a board by opaque id or exact name. An empty argument
// falls back to the configured default board.
func (c *Client) GetBoard(ctx context.Context, boardNameOrID string) (*models.Board, error) {
	ref := boardNameOrID
	if ref == "" {
		ref = c.defaultBoardID
	}
	if ref == "" {
		return nil, NewBoardNotFound("(aucun board spécifié et aucun board par défaut configuré)")
	}

	if boardIDPattern.MatchString(strings.ToLower(ref)) {
		var board models.Board
		err := c.do(ctx, http.MethodGet, "/boards/"+ref, nil, nil, &board)
		if err != nil {
			var te *Error
			if errors.As(err, &te) && te.UpstreamStatus == http.StatusNotFound {
				return nil, NewBoardNotFound(ref)
			}
			return nil, err
		}
		return &board, nil
	}

	query := url.Values{}
	query.Set("filter", "open")
	var boards []models.Board
	if err := c.do(ctx, http.MethodGet, "/members/me/boards", query, nil, &boards); err != nil {
		return nil, err
	}
	for i := range boards {
		if boards[i].Name == ref {
			return &boards[i], nil
		}
	}
	return nil, NewBoardNotFound(ref)
}

// GetOpenLists fetches the open lists of a board, in board order.
func (c *Client) GetOpenLists(ctx context.Context, boardID string) ([]models.List, error) {
	query := url.Values{}
	query.Set("filter", "open")
	var lists []models.List
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID+"/lists", query, nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetList resolves an open list by exact name on a board.
func (c *Client) GetList(ctx context.Context, boardID, listName string) (*models.List, error) {
	lists, err := c.GetOpenLists(ctx, boardID)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if lists[i].Name == listName {
			return &lists[i], nil
		}
	}
	return nil, NewListNotFound(listName, "")
}

// GetListByID fetches a single list.
func (c *Client) GetListByID(ctx context.Context, listID string) (*models.List, error) {
	var list models.List
	if err := c.do(ctx, http.MethodGet, "/lists/"+listID, nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CardListOptions restricts a per-list card fetch.
type CardListOptions struct {
	// Fields is the comma-separated card field list; empty means the
	// snapshot field set.
	Fields string
	// Members resolves member objects (fullName, username) on each card.
	Members bool
	// Checklists resolves every checklist with its items.
	Checklists bool
}

// GetListCards fetches the cards of one list.
func (c *Client) GetListCards(ctx context.Context, listID string, opts CardListOptions) ([]models.Card, error) {
	query := url.Values{}
	fields := opts.Fields
	if fields == "" {
		fields = snapshotCardFields
	}
	query.Set("fields", fields)
	if opts.Members {
		query.Set("members", "true")
		query.Set("member_fields", "fullName,username")
	}
	if opts.Checklists {
		query.Set("checklists", "all")
	}
	var cards []models.Card
	if err := c.do(ctx, http.MethodGet, "/lists/"+listID+"/cards", query, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetCard fetches a single card restricted to the given fields.
func (c *Client) GetCard(ctx context.Context, cardID, fields string) (*models.Card, error) {
	query := url.Values{}
	if fields != "" {
		query.Set("fields", fields)
	}
	var card models.Card
	if err := c.do(ctx, http.MethodGet, "/cards/"+cardID, query, nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// FindCardByName resolves a card by exact name (case-insensitive) on a
// board via the search endpoint. Zero matches is KindNotFound; several
// matches is KindAmbiguous rather than a guess.
func (c *Client) FindCardByName(ctx context.Context, boardID, cardName string) (*models.Card, error) {
	query := url.Values{}
	query.Set("query", cardName)
	query.Set("modelTypes", "cards")
	query.Set("idBoards", boardID)
	query.Set("card_fields", searchCardFields)

	var result struct {
		Cards []models.Card `json:"cards"`
	}
	if err := c.do(ctx, http.MethodGet, "/search", query, nil, &result); err != nil {
		return nil, err
	}

	var matches []models.Card
	for _, card := range result.Cards {
		if strings.EqualFold(card.Name, cardName) {
			matches = append(matches, card)
		}
	}
	switch len(matches) {
	case 0:
		return nil, NewCardNotFound(cardName, "")
	case 1:
		return &matches[0], nil
	default:
		return nil, NewAmbiguousCard(cardName, len(matches))
	}
}

// ActionsOptions narrows an action feed fetch.
type ActionsOptions struct {
	// Filter restricts action types; blank entries are dropped.
	Filter []string
	// Since and Before bound the window as upstream timestamps.
	Since  string
	Before string
	// Limit caps the number of entries; 0 means the upstream default.
	Limit int
}

func (o ActionsOptions) query() url.Values {
	query := url.Values{}
	var filters []string
	for _, f := range o.Filter {
		if f = strings.TrimSpace(f); f != "" {
			filters = append(filters, f)
		}
	}
	if len(filters) > 0 {
		query.Set("filter", strings.Join(filters, ","))
	}
	if o.Since != "" {
		query.Set("since", o.Since)
	}
	if o.Before != "" {
		query.Set("before", o.Before)
	}
	if o.Limit > 0 {
		query.Set("limit", strconv.Itoa(o.Limit))
	}
	return query
}

// GetBoardActions fetches the audit-log feed of a board. Ordering is NOT
// guaranteed by upstream; consumers sort by date.
func (c *Client) GetBoardActions(ctx context.Context, boardID string, opts ActionsOptions) ([]models.Action, error) {
	var actions []models.Action
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID+"/actions", opts.query(), nil, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// GetCardActions fetches the audit-log feed of one card.
func (c *Client) GetCardActions(ctx context.Context, cardID string, opts ActionsOptions) ([]models.Action, error) {
	var actions []models.Action
	if err := c.do(ctx, http.MethodGet, "/cards/"+cardID+"/actions", opts.query(), nil, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// BoardLabels fetches every label defined on a board.
func (c *Client) BoardLabels(ctx context.Context, boardID string) ([]models.Label, error) {
	var labels []models.Label
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID+"/labels", nil, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// GetCardChecklists fetches the checklists of a card with their items.
func (c *Client) GetCardChecklists(ctx context.Context, cardID string) ([]models.Checklist, error) {
	var checklists []models.Checklist
	if err := c.do(ctx, http.MethodGet, "/cards/"+cardID+"/checklists", nil, nil, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

// GetMember fetches a member's display name.
func (c *Client) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	query := url.Values{}
	query.Set("fields", "fullName")
	var member models.Member
	if err := c.do(ctx, http.MethodGet, "/members/"+memberID, query, nil, &member); err != nil {
		return nil, err
	}
	if member.ID == "" {
		member.ID = memberID
	}
	return &member, nil
}

// Ping verifies credentials against the API with a minimal call.
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("fields", "id")
	var member models.Member
	return c.do(ctx, http.MethodGet, "/members/me", query, nil, &member)
}

// CreateCard creates a card from the given upstream payload.
func (c *Client) CreateCard(ctx context.Context, payload map[string]any) (*models.Card, error) {
	var card models.Card
	if err := c.do(ctx, http.MethodPost, "/cards", nil, payload, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCard applies a partial update to a card.
func (c *Client) UpdateCard(ctx context.Context, cardID string, payload map[string]any) (*models.Card, error) {
	var card models.Card
	if err := c.do(ctx, http.MethodPut, "/cards/"+cardID, nil, payload, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteCard permanently deletes a card.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	return c.do(ctx, http.MethodDelete, "/cards/"+cardID, nil, nil, nil)
}

// CreateList creates a new open list on a board.
func (c *Client) CreateList(ctx context.Context, boardID, name string) (*models.List, error) {
	payload := map[string]any{"name": name, "idBoard": boardID}
	var list models.List
	if err := c.do(ctx, http.MethodPost, "/lists", nil, payload, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateChecklist creates an empty checklist on a card.
func (c *Client) CreateChecklist(ctx context.Context, cardID, name string) (*models.Checklist, error) {
	payload := map[string]any{"name": name}
	var checklist models.Checklist
	if err := c.do(ctx, http.MethodPost, "/cards/"+cardID+"/checklists", nil, payload, &checklist); err != nil {
		return nil, err
	}
	return &checklist, nil
}

// AddCheckItem appends an item to a checklist.
func (c *Client) AddCheckItem(ctx context.Context, checklistID, name string) (*models.CheckItem, error) {
	payload := map[string]any{"name": name}
	var item models.CheckItem
	if err := c.do(ctx, http.MethodPost, "/checklists/"+checklistID+"/checkItems", nil, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetCheckItemState updates an item's state through its card.
func (c *Client) SetCheckItemState(ctx context.Context, cardID, itemID, state string) error {
	payload := map[string]any{"state": state}
	return c.do(ctx, http.MethodPut, "/cards/"+cardID+"/checkItem/"+itemID, nil, payload, nil)
}

// AddLabelToCard attaches an existing board label to a card.
func (c *Client) AddLabelToCard(ctx context.Context, cardID, labelID string) error {
	payload := map[string]any{"value": labelID}
	return c.do(ctx, http.MethodPost, "/cards/"+cardID+"/idLabels", nil, payload, nil)
}
