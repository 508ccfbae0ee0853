package models

import "time"

// Trello wire entities, as returned by the Trello REST API. Field names and
// JSON tags follow the upstream API, not this project's conventions.

// Board is the top-level Trello workspace container.
type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List is an ordered column of cards within a board. Only open
// (non-archived) lists are ever fetched.
type List struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BoardID string `json:"idBoard,omitempty"`
}

// Label is a colored tag attached to a card. Name and color are both
// optional upstream.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// Member is a Trello user referenced by a card or an action.
type Member struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username,omitempty"`
}

// CheckItemComplete is the state Trello reports for a finished checklist item.
const CheckItemComplete = "complete"

// CheckItem is a single step inside a checklist.
type CheckItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Checklist is a named group of check items on a card.
type Checklist struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	CheckItems []CheckItem `json:"checkItems"`
}

// Card is the unit of work. Due is kept as the raw upstream string and
// parsed defensively wherever it is consumed; an unparsable due date is
// treated as absent, never as an error.
type Card struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Desc        string      `json:"desc,omitempty"`
	Due         string      `json:"due,omitempty"`
	DueComplete bool        `json:"dueComplete"`
	ListID      string      `json:"idList,omitempty"`
	BoardID     string      `json:"idBoard,omitempty"`
	Labels      []Label     `json:"labels,omitempty"`
	Members     []Member    `json:"members,omitempty"`
	MemberIDs   []string    `json:"idMembers,omitempty"`
	Checklists  []Checklist `json:"checklists,omitempty"`
	Closed      bool        `json:"closed,omitempty"`
}

// ActionCard is the card reference embedded in an action payload.
type ActionCard struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ActionData is the variable payload of an action. ListBefore/ListAfter are
// only present on card-move actions; their absence means the move-related
// anomaly passes silently never fire.
type ActionData struct {
	Card       *ActionCard `json:"card,omitempty"`
	ListBefore *List       `json:"listBefore,omitempty"`
	ListAfter  *List       `json:"listAfter,omitempty"`
}

// Action is an immutable audit-log entry. Date is the raw upstream string;
// the analytics layer sorts by parsed date and skips unparsable entries.
type Action struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Date          string     `json:"date"`
	Data          ActionData `json:"data"`
	MemberCreator Member     `json:"memberCreator"`
}

// ParseTime parses an upstream timestamp. Trello emits RFC3339 with
// millisecond precision; plain RFC3339 is accepted too.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
