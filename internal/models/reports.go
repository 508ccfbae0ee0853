package models

// Derived report types produced by the analytics engine. These are the
// structures serialized directly into HTTP responses; JSON tags match the
// assistant tool contract.

// SnapshotCard is a card as materialized into a snapshot, with members and
// checklists already resolved.
type SnapshotCard struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Desc        string      `json:"desc,omitempty"`
	Due         string      `json:"due,omitempty"`
	DueComplete bool        `json:"dueComplete"`
	Labels      []Label     `json:"labels"`
	Members     []Member    `json:"members"`
	Checklists  []Checklist `json:"checklists"`
}

// SnapshotList is one open list and its cards at snapshot time.
type SnapshotList struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Cards []SnapshotCard `json:"cards"`
}

// BoardStats are the aggregate counters computed in a single pass while
// building a snapshot. They are a cache of what re-scanning the lists would
// yield, never an independent source of truth.
type BoardStats struct {
	TotalCards          int `json:"totalCards"`
	Overdue             int `json:"overdue"`
	DueToday            int `json:"dueToday"`
	DueThisWeek         int `json:"dueThisWeek"`
	NoDue               int `json:"noDue"`
	Unassigned          int `json:"unassigned"`
	WithChecklists      int `json:"withChecklists"`
	CompletedChecklists int `json:"completedChecklists"`
}

// Snapshot is a point-in-time materialization of a board. All downstream
// analytics operate on a snapshot, never on live API calls, so that one
// analysis run sees one consistent view.
type Snapshot struct {
	BoardName string         `json:"boardName"`
	BoardID   string         `json:"boardId"`
	Lists     []SnapshotList `json:"lists"`
	Stats     BoardStats     `json:"stats"`
}

// Health is the 3-level verdict attached to a health report.
type Health string

const (
	HealthGood   Health = "good"
	HealthMedium Health = "medium"
	HealthBad    Health = "bad"
)

// Problem is one detected issue on one card.
type Problem struct {
	Type     string         `json:"type"`
	CardID   string         `json:"cardId"`
	CardName string         `json:"cardName"`
	ListName string         `json:"listName"`
	Details  map[string]any `json:"details,omitempty"`
}

// Recommendation is a remediation suggested for a problem. At most one
// recommendation of a given action exists per card (or per list when no
// card applies) within one report.
type Recommendation struct {
	Action         string `json:"action"`
	CardID         string `json:"cardId,omitempty"`
	ListName       string `json:"listName,omitempty"`
	SuggestedValue any    `json:"suggestedValue,omitempty"`
}

// HealthReport is the board-scope output of the health analyzer.
type HealthReport struct {
	BoardName       string           `json:"boardName"`
	GeneratedAt     string           `json:"generatedAt"`
	Health          Health           `json:"health"`
	Problems        []Problem        `json:"problems"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ListHealthReport is the single-list variant, with its own (stricter)
// verdict thresholds.
type ListHealthReport struct {
	BoardName       string           `json:"boardName"`
	ListName        string           `json:"listName"`
	GeneratedAt     string           `json:"generatedAt"`
	Health          Health           `json:"health"`
	Problems        []Problem        `json:"problems"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Anomaly is one irregularity found in the action timeline. Anomalies are
// not deduplicated: several activity spikes on different days are all
// reported.
type Anomaly struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// AnalyzedPeriod describes the window an audit covered.
type AnalyzedPeriod struct {
	Since        string `json:"since,omitempty"`
	Before       string `json:"before,omitempty"`
	TotalActions int    `json:"totalActions"`
}

// HistoryReport is the output of the history auditor.
type HistoryReport struct {
	BoardName      string         `json:"boardName"`
	GeneratedAt    string         `json:"generatedAt"`
	PeriodAnalyzed AnalyzedPeriod `json:"periodAnalyzed"`
	Anomalies      []Anomaly      `json:"anomalies"`
}

// CleanupAction is one concrete, non-mutating housekeeping proposal.
type CleanupAction struct {
	Action         string `json:"action"`
	CardID         string `json:"cardId,omitempty"`
	ListName       string `json:"listName,omitempty"`
	SuggestedValue any    `json:"suggestedValue,omitempty"`
}

// CleanupSuggestion is one non-empty bucket of cleanup actions. Buckets
// with zero actions are omitted from the plan entirely.
type CleanupSuggestion struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Actions []CleanupAction `json:"actions"`
}

// CleanupPlan is the output of the cleanup planner.
type CleanupPlan struct {
	BoardName   string              `json:"boardName"`
	GeneratedAt string              `json:"generatedAt"`
	Suggestions []CleanupSuggestion `json:"suggestions"`
}

// SummaryReport bundles the four raw analyses with the parsed narrative.
// Nothing in it is recomputed from the sub-reports.
type SummaryReport struct {
	BoardName     string         `json:"boardName"`
	GeneratedAt   string         `json:"generatedAt"`
	Snapshot      *Snapshot      `json:"snapshot"`
	HealthReport  *HealthReport  `json:"healthReport"`
	HistoryReport *HistoryReport `json:"historyReport"`
	CleanupPlan   *CleanupPlan   `json:"cleanupPlan"`
	SummaryText   string         `json:"summaryText"`
	KeyFindings   []string       `json:"keyFindings"`
	ActionItems   []string       `json:"actionItems"`
}
