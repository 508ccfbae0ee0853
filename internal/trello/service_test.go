package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/models"
)

// fakeUpstream is a canned Trello API. Responses are keyed by
// "METHOD /path"; unknown routes return 404. Write requests have their
// JSON bodies recorded for assertion.
type fakeUpstream struct {
	mu        sync.Mutex
	responses map[string]any
	requests  []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{responses: map[string]any{}}
}

func (f *fakeUpstream) on(method, path string, response any) {
	f.responses[method+" "+path] = response
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
	response, ok := f.responses[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if fn, dynamic := response.(func(map[string]any) any); dynamic {
		response = fn(body)
	}
	_ = json.NewEncoder(w).Encode(response)
}

// bodiesFor returns the recorded bodies of every call to method+path.
func (f *fakeUpstream) bodiesFor(method, path string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var bodies []map[string]any
	for _, req := range f.requests {
		if req.Method == method && req.Path == path {
			bodies = append(bodies, req.Body)
		}
	}
	return bodies
}

func newTestService(t *testing.T, upstream *fakeUpstream, opts ...ServiceOption) *Service {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	client := NewClient("k", "t", WithBaseURL(srv.URL))
	return NewService(client, opts...)
}

// board and list fixtures shared by the service tests
func boardFixture(upstream *fakeUpstream, lists ...map[string]string) {
	upstream.on("GET", "/boards/"+testBoardID, map[string]string{"id": testBoardID, "name": "Sprint"})
	if lists == nil {
		lists = []map[string]string{}
	}
	upstream.on("GET", "/boards/"+testBoardID+"/lists", lists)
}

func searchFixture(upstream *fakeUpstream, cards ...map[string]any) {
	upstream.on("GET", "/search", map[string]any{"cards": cards})
}

func TestCreateTaskDefaultList(t *testing.T) {
	t.Parallel()

	upstream := newFakeUpstream()
	boardFixture(upstream,
		map[string]string{"id": "l1", "name": DefaultInboxList},
		map[string]string{"id": "l2", "name": "En cours"},
	)
	upstream.on("POST", "/cards", func(body map[string]any) any {
		return map[string]any{"id": "c1", "name": body["name"]}
	})

	svc := newTestService(t, upstream)
	card, err := svc.CreateTask(context.Background(), CreateTaskParams{
		Board: testBoardID,
		Title: "Réviser le contrat",
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if card.Name != "Réviser le contrat" {
		t.Errorf("card.Name = %q, want the title", card.Name)
	}

	bodies := upstream.bodiesFor("POST", "/cards")
	if len(bodies) != 1 {
		t.Fatalf("POST /cards called %d times, want 1", len(bodies))
	}
	if bodies[0]["idList"] != "l1" {
		t.Errorf("idList = %v, want the inbox list l1", bodies[0]["idList"])
	}
	if _, hasDesc := bodies[0]["desc"]; hasDesc {
		t.Error("desc should be omitted when empty")
	}
}

func TestCreateTaskMissingList(t *testing.T) {
	t.Parallel()

	upstream := newFakeUpstream()
	boardFixture(upstream, map[string]string{"id": "l2", "name": "En cours"})

	svc := newTestService(t, upstream)
	_, err := svc.CreateTask(context.Background(), CreateTaskParams{
		Board: testBoardID,
		List:  "Inexistante",
		Title: "X",
	})
	if !IsKind(err, KindNotFound) {
		t.Errorf("CreateTask() error = %v, want not-found kind", err)
	}
}

func TestCompleteTask(t *testing.T) {
	t.Parallel()

	t.Run("moves to done list", func(t *testing.T) {
		t.Parallel()
		upstream := newFakeUpstream()
		boardFixture(upstream,
			map[string]string{"id": "l1", "name": "En cours"},
			map[string]string{"id": "l9", "name": "Done"},
		)
		searchFixture(upstream, map[string]any{"id": "c1", "name": "Déployer"})
		upstream.on("PUT", "/cards/c1", map[string]any{"id": "c1", "name": "Déployer", "dueComplete": true})

		svc := newTestService(t, upstream)
		if _, err := svc.CompleteTask(context.Background(), testBoardID, "Déployer"); err != nil {
			t.Fatalf("CompleteTask() error = %v", err)
		}

		bodies := upstream.bodiesFor("PUT", "/cards/c1")
		if len(bodies) != 1 {
			t.Fatalf("PUT /cards/c1 called %d times, want 1", len(bodies))
		}
		if bodies[0]["dueComplete"] != true {
			t.Errorf("dueComplete = %v, want true", bodies[0]["dueComplete"])
		}
		if bodies[0]["idList"] != "l9" {
			t.Errorf("idList = %v, want the Done list l9", bodies[0]["idList"])
		}
	})

	t.Run("no done list is not an error", func(t *testing.T) {
		t.Parallel()
		upstream := newFakeUpstream()
		boardFixture(upstream, map[string]string{"id": "l1", "name": "En cours"})
		searchFixture(upstream, map[string]any{"id": "c1", "name": "Déployer"})
		upstream.on("PUT", "/cards/c1", map[string]any{"id": "c1", "dueComplete": true})

		svc := newTestService(t, upstream)
		if _, err := svc.CompleteTask(context.Background(), testBoardID, "Déployer"); err != nil {
			t.Fatalf("CompleteTask() error = %v", err)
		}

		bodies := upstream.bodiesFor("PUT", "/cards/c1")
		if len(bodies) != 1 {
			t.Fatalf("PUT /cards/c1 called %d times, want 1", len(bodies))
		}
		if _, hasList := bodies[0]["idList"]; hasList {
			t.Error("idList should be absent when no done-style list exists")
		}
	})
}

func TestShiftDueDates(t *testing.T) {
	t.Parallel()

	upstream := newFakeUpstream()
	boardFixture(upstream, map[string]string{"id": "l1", "name": "En cours"})
	upstream.on("GET", "/lists/l1/cards", []map[string]any{
		{"id": "c1", "name": "Datée", "due": "2026-03-01T10:00:00.000Z"},
		{"id": "c2", "name": "Sans date", "due": ""},
	})
	upstream.on("PUT", "/cards/c1", map[string]any{"id": "c1"})

	svc := newTestService(t, upstream)
	shifted, err := svc.ShiftDueDates(context.Background(), testBoardID, "En cours", 3)
	if err != nil {
		t.Fatalf("ShiftDueDates() error = %v", err)
	}
	if len(shifted) != 1 {
		t.Fatalf("len(shifted) = %d, want 1 (undated card skipped)", len(shifted))
	}
	wantDue := "2026-03-04T10:00:00Z"
	if shifted[0].NewDue != wantDue {
		t.Errorf("NewDue = %q, want %q", shifted[0].NewDue, wantDue)
	}
	if bodies := upstream.bodiesFor("PUT", "/cards/c2"); len(bodies) != 0 {
		t.Error("the undated card must not be updated")
	}
}

func TestListOverdueTasks(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	upstream := newFakeUpstream()
	boardFixture(upstream, map[string]string{"id": "l1", "name": "En cours"})
	upstream.on("GET", "/lists/l1/cards", []map[string]any{
		{"id": "c1", "name": "En retard", "due": "2026-03-05T12:00:00.000Z"},
		{"id": "c2", "name": "Complétée", "due": "2026-03-01T12:00:00.000Z", "dueComplete": true},
		{"id": "c3", "name": "À venir", "due": "2026-03-20T12:00:00.000Z"},
		{"id": "c4", "name": "Sans date"},
	})

	svc := newTestService(t, upstream, WithServiceClock(func() time.Time { return now }))
	overdue, err := svc.ListOverdueTasks(context.Background(), testBoardID)
	if err != nil {
		t.Fatalf("ListOverdueTasks() error = %v", err)
	}
	if len(overdue) != 1 {
		t.Fatalf("len(overdue) = %d, want 1", len(overdue))
	}
	if overdue[0].CardName != "En retard" {
		t.Errorf("CardName = %q, want En retard", overdue[0].CardName)
	}
	if overdue[0].OverdueByDays != 5 {
		t.Errorf("OverdueByDays = %d, want 5", overdue[0].OverdueByDays)
	}
	if overdue[0].ListName != "En cours" {
		t.Errorf("ListName = %q, want En cours", overdue[0].ListName)
	}
}

func TestSortListByDueDate(t *testing.T) {
	t.Parallel()

	newUpstream := func() *fakeUpstream {
		upstream := newFakeUpstream()
		boardFixture(upstream, map[string]string{"id": "l1", "name": "En cours"})
		upstream.on("GET", "/lists/l1/cards", []map[string]any{
			{"id": "c1", "name": "Mars", "due": "2026-03-15T00:00:00.000Z"},
			{"id": "c2", "name": "Janvier", "due": "2026-01-15T00:00:00.000Z"},
			{"id": "c3", "name": "Sans date"},
			{"id": "c4", "name": "Février", "due": "2026-02-15T00:00:00.000Z"},
		})
		for _, id := range []string{"c1", "c2", "c4"} {
			upstream.on("PUT", "/cards/"+id, map[string]any{"id": id})
		}
		return upstream
	}

	tests := []struct {
		name      string
		order     string
		wantNames []string
	}{
		{"ascending by default", "", []string{"Janvier", "Février", "Mars"}},
		{"descending", "desc", []string{"Mars", "Février", "Janvier"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, newUpstream())
			sorted, err := svc.SortListByDueDate(context.Background(), testBoardID, "En cours", tt.order)
			if err != nil {
				t.Fatalf("SortListByDueDate() error = %v", err)
			}
			if len(sorted) != len(tt.wantNames) {
				t.Fatalf("len(sorted) = %d, want %d (undated cards untouched)", len(sorted), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if sorted[i].CardName != want {
					t.Errorf("sorted[%d] = %q, want %q", i, sorted[i].CardName, want)
				}
				if sorted[i].NewPos != i+1 {
					t.Errorf("sorted[%d].NewPos = %d, want %d", i, sorted[i].NewPos, i+1)
				}
			}
		})
	}
}

func TestPrioritizeList(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	upstream := newFakeUpstream()
	boardFixture(upstream, map[string]string{"id": "l1", "name": "En cours"})
	upstream.on("GET", "/lists/l1/cards", []map[string]any{
		{"id": "c1", "name": "Sans date"},
		{"id": "c2", "name": "En retard urgente", "due": "2026-03-08T12:00:00.000Z",
			"labels": []map[string]string{{"name": "Urgent", "color": "yellow"}}},
		{"id": "c3", "name": "Bientôt due", "due": "2026-03-11T12:00:00.000Z"},
		{"id": "c4", "name": "Label rouge", "due": "2026-04-01T12:00:00.000Z",
			"labels": []map[string]string{{"name": "infra", "color": "red"}}},
	})
	for _, id := range []string{"c1", "c2", "c3", "c4"} {
		upstream.on("PUT", "/cards/"+id, map[string]any{"id": id})
	}

	svc := newTestService(t, upstream, WithServiceClock(func() time.Time { return now }))
	prioritized, err := svc.PrioritizeList(context.Background(), testBoardID, "En cours")
	if err != nil {
		t.Fatalf("PrioritizeList() error = %v", err)
	}

	wantScores := map[string]int{
		"En retard urgente": 150, // overdue + high-priority name
		"Label rouge":       50,  // red color counts as high priority
		"Bientôt due":       30,  // due within 48h
		"Sans date":         10,
	}
	wantOrder := []string{"En retard urgente", "Label rouge", "Bientôt due", "Sans date"}
	if len(prioritized) != len(wantOrder) {
		t.Fatalf("len(prioritized) = %d, want %d", len(prioritized), len(wantOrder))
	}
	for i, entry := range prioritized {
		if entry.CardName != wantOrder[i] {
			t.Errorf("position %d = %q, want %q", i, entry.CardName, wantOrder[i])
		}
		if entry.PriorityScore != wantScores[entry.CardName] {
			t.Errorf("%s score = %d, want %d", entry.CardName, entry.PriorityScore, wantScores[entry.CardName])
		}
		if entry.NewPos != i+1 {
			t.Errorf("%s NewPos = %d, want %d", entry.CardName, entry.NewPos, i+1)
		}
	}
}

func TestGroupCardsByDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	upstream := newFakeUpstream()
	boardFixture(upstream,
		map[string]string{"id": "l1", "name": "En cours"},
		map[string]string{"id": "l2", "name": "Overdue"},
	)
	upstream.on("GET", "/lists/l1/cards", []map[string]any{
		{"id": "c1", "name": "Passée", "due": "2026-03-05T12:00:00.000Z"},
		{"id": "c2", "name": "Aujourd'hui", "due": "2026-03-10T18:00:00.000Z"},
		{"id": "c3", "name": "Sans date"},
	})
	upstream.on("GET", "/lists/l2/cards", []map[string]any{})
	upstream.on("POST", "/lists", func(body map[string]any) any {
		return map[string]any{"id": "new-" + fmt.Sprint(body["name"]), "name": body["name"]}
	})
	for _, id := range []string{"c1", "c2", "c3"} {
		upstream.on("PUT", "/cards/"+id, map[string]any{"id": id})
	}

	svc := newTestService(t, upstream, WithServiceClock(func() time.Time { return now }))
	result, err := svc.GroupCards(context.Background(), testBoardID, "due")
	if err != nil {
		t.Fatalf("GroupCards() error = %v", err)
	}

	if result.Criteria != "due" {
		t.Errorf("Criteria = %q, want due", result.Criteria)
	}
	groupsByName := map[string]CardGroup{}
	for _, g := range result.Groups {
		groupsByName[g.GroupName] = g
	}
	if g, ok := groupsByName["Overdue"]; !ok || g.CardCount != 1 {
		t.Errorf("Overdue group = %+v, want one card", groupsByName["Overdue"])
	}
	if g, ok := groupsByName["Today"]; !ok || g.CardCount != 1 {
		t.Errorf("Today group = %+v, want one card", groupsByName["Today"])
	}
	if g, ok := groupsByName["No Due Date"]; !ok || g.CardCount != 1 {
		t.Errorf("No Due Date group = %+v, want one card", groupsByName["No Due Date"])
	}

	// The Overdue list existed; Today and No Due Date had to be created.
	createBodies := upstream.bodiesFor("POST", "/lists")
	created := map[string]bool{}
	for _, body := range createBodies {
		created[fmt.Sprint(body["name"])] = true
	}
	if created["Overdue"] {
		t.Error("the existing Overdue list must not be recreated")
	}
	if !created["Today"] || !created["No Due Date"] {
		t.Errorf("created lists = %v, want Today and No Due Date", created)
	}

	// The overdue card lands in the pre-existing list l2.
	bodies := upstream.bodiesFor("PUT", "/cards/c1")
	if len(bodies) != 1 || bodies[0]["idList"] != "l2" {
		t.Errorf("card c1 moves = %v, want a single move to l2", bodies)
	}
}

func TestGroupCardsInvalidCriteria(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUpstream())
	if _, err := svc.GroupCards(context.Background(), testBoardID, "color"); err == nil {
		t.Error("GroupCards() with invalid criteria should fail")
	}
}

func TestAddLabel(t *testing.T) {
	t.Parallel()

	newUpstream := func() *fakeUpstream {
		upstream := newFakeUpstream()
		boardFixture(upstream)
		searchFixture(upstream, map[string]any{"id": "c1", "name": "Déployer", "idBoard": testBoardID})
		upstream.on("GET", "/boards/"+testBoardID+"/labels", []map[string]string{
			{"id": "lab1", "name": "Urgent", "color": "red"},
			{"id": "lab2", "name": "", "color": "green"},
		})
		upstream.on("POST", "/cards/c1/idLabels", map[string]any{})
		return upstream
	}

	tests := []struct {
		name     string
		ref      string
		wantID   string
		wantKind ErrorKind
	}{
		{"by name case-insensitive", "urgent", "lab1", ""},
		{"by color", "green", "lab2", ""},
		{"name matches before color", "red", "lab1", ""},
		{"unknown", "violet", "", KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, newUpstream())
			result, err := svc.AddLabel(context.Background(), testBoardID, "Déployer", tt.ref)
			if tt.wantKind != "" {
				if !IsKind(err, tt.wantKind) {
					t.Errorf("AddLabel() error = %v, want kind %q", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddLabel() error = %v", err)
			}
			if result.LabelID != tt.wantID {
				t.Errorf("LabelID = %q, want %q", result.LabelID, tt.wantID)
			}
			if !result.Attached {
				t.Error("Attached = false, want true")
			}
		})
	}
}

func TestCreateChecklistSkipsBlankItems(t *testing.T) {
	t.Parallel()

	upstream := newFakeUpstream()
	boardFixture(upstream)
	searchFixture(upstream, map[string]any{"id": "c1", "name": "Déployer"})
	upstream.on("POST", "/cards/c1/checklists", map[string]any{"id": "chk1", "name": "Process"})
	upstream.on("POST", "/checklists/chk1/checkItems", func(body map[string]any) any {
		return map[string]any{"id": "i-" + fmt.Sprint(body["name"]), "name": body["name"]}
	})

	svc := newTestService(t, upstream)
	result, err := svc.CreateChecklist(context.Background(), testBoardID, "Déployer", "Process",
		[]string{"Construire", "  ", "", "Tester"})
	if err != nil {
		t.Fatalf("CreateChecklist() error = %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2 (blanks skipped)", len(result.Items))
	}
	if result.Items[0] != "Construire" || result.Items[1] != "Tester" {
		t.Errorf("Items = %v, want [Construire Tester]", result.Items)
	}
}

func TestCheckChecklistItem(t *testing.T) {
	t.Parallel()

	newUpstream := func() *fakeUpstream {
		upstream := newFakeUpstream()
		boardFixture(upstream)
		searchFixture(upstream, map[string]any{"id": "c1", "name": "Déployer"})
		upstream.on("GET", "/cards/c1/checklists", []map[string]any{
			{"id": "chk1", "name": "Process", "checkItems": []map[string]string{
				{"id": "i1", "name": "Tester", "state": "incomplete"},
			}},
		})
		upstream.on("PUT", "/cards/c1/checkItem/i1", map[string]any{})
		return upstream
	}

	t.Run("case-insensitive match", func(t *testing.T) {
		t.Parallel()
		upstream := newUpstream()
		svc := newTestService(t, upstream)
		result, err := svc.CheckChecklistItem(context.Background(), testBoardID, "Déployer", "process", "TESTER")
		if err != nil {
			t.Fatalf("CheckChecklistItem() error = %v", err)
		}
		if result.State != models.CheckItemComplete {
			t.Errorf("State = %q, want %q", result.State, models.CheckItemComplete)
		}
		bodies := upstream.bodiesFor("PUT", "/cards/c1/checkItem/i1")
		if len(bodies) != 1 || bodies[0]["state"] != models.CheckItemComplete {
			t.Errorf("checkItem update = %v, want state complete", bodies)
		}
	})

	t.Run("missing item", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newUpstream())
		_, err := svc.CheckChecklistItem(context.Background(), testBoardID, "Déployer", "Process", "Inexistant")
		if !IsKind(err, KindNotFound) {
			t.Errorf("CheckChecklistItem() error = %v, want not-found kind", err)
		}
	})

	t.Run("missing checklist", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newUpstream())
		_, err := svc.CheckChecklistItem(context.Background(), testBoardID, "Déployer", "Autre", "Tester")
		if !IsKind(err, KindNotFound) {
			t.Errorf("CheckChecklistItem() error = %v, want not-found kind", err)
		}
	})
}

// fakeGenerator satisfies TextGenerator with a function field.
type fakeGenerator struct {
	generateFunc func(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error)
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
	return f.generateFunc(ctx, prompt, systemPrompt, temperature)
}

func TestImproveCardDescription(t *testing.T) {
	t.Parallel()

	newUpstream := func() *fakeUpstream {
		upstream := newFakeUpstream()
		boardFixture(upstream)
		searchFixture(upstream, map[string]any{"id": "c1", "name": "Déployer"})
		upstream.on("GET", "/cards/c1", map[string]any{"id": "c1", "desc": "faire le déploiement"})
		upstream.on("PUT", "/cards/c1", map[string]any{"id": "c1"})
		return upstream
	}

	t.Run("rewrites and saves", func(t *testing.T) {
		t.Parallel()
		upstream := newUpstream()
		var gotPrompt string
		gen := &fakeGenerator{generateFunc: func(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
			gotPrompt = prompt
			if temperature != 0.7 {
				t.Errorf("temperature = %v, want 0.7", temperature)
			}
			return "  Déploiement structuré de la version.  ", nil
		}}

		svc := newTestService(t, upstream, WithTextGenerator(gen))
		improved, err := svc.ImproveCardDescription(context.Background(), testBoardID, "Déployer", "plus formel")
		if err != nil {
			t.Fatalf("ImproveCardDescription() error = %v", err)
		}
		if improved != "Déploiement structuré de la version." {
			t.Errorf("improved = %q, want trimmed generation", improved)
		}
		if !strings.Contains(gotPrompt, "faire le déploiement") {
			t.Error("prompt must include the current description")
		}
		if !strings.Contains(gotPrompt, "plus formel") {
			t.Error("prompt must include the extra instructions")
		}
		bodies := upstream.bodiesFor("PUT", "/cards/c1")
		if len(bodies) != 1 || bodies[0]["desc"] != "Déploiement structuré de la version." {
			t.Errorf("card update = %v, want the new description", bodies)
		}
	})

	t.Run("no generator configured", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newUpstream())
		_, err := svc.ImproveCardDescription(context.Background(), testBoardID, "Déployer", "")
		if !IsKind(err, KindGeneration) {
			t.Errorf("error = %v, want generation kind", err)
		}
	})

	t.Run("generator failure", func(t *testing.T) {
		t.Parallel()
		gen := &fakeGenerator{generateFunc: func(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
			return "", errors.New("quota")
		}}
		svc := newTestService(t, newUpstream(), WithTextGenerator(gen))
		_, err := svc.ImproveCardDescription(context.Background(), testBoardID, "Déployer", "")
		if !IsKind(err, KindGeneration) {
			t.Errorf("error = %v, want generation kind", err)
		}
	})

	t.Run("empty generation", func(t *testing.T) {
		t.Parallel()
		gen := &fakeGenerator{generateFunc: func(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
			return "   ", nil
		}}
		svc := newTestService(t, newUpstream(), WithTextGenerator(gen))
		_, err := svc.ImproveCardDescription(context.Background(), testBoardID, "Déployer", "")
		if !IsKind(err, KindGeneration) {
			t.Errorf("error = %v, want generation kind", err)
		}
	})
}

func TestMoveCard(t *testing.T) {
	t.Parallel()

	upstream := newFakeUpstream()
	boardFixture(upstream,
		map[string]string{"id": "l1", "name": "En cours"},
		map[string]string{"id": "l2", "name": "En revue"},
	)
	searchFixture(upstream, map[string]any{"id": "c1", "name": "Déployer"})
	upstream.on("GET", "/cards/c1", map[string]any{"id": "c1", "name": "Déployer", "idList": "l1", "idBoard": testBoardID})
	upstream.on("GET", "/lists/l1", map[string]string{"id": "l1", "name": "En cours"})
	upstream.on("PUT", "/cards/c1", map[string]any{"id": "c1"})

	svc := newTestService(t, upstream)
	result, err := svc.MoveCard(context.Background(), testBoardID, "Déployer", "En revue")
	if err != nil {
		t.Fatalf("MoveCard() error = %v", err)
	}
	if result.OldList != "En cours" || result.NewList != "En revue" {
		t.Errorf("result = %+v, want En cours -> En revue", result)
	}
	bodies := upstream.bodiesFor("PUT", "/cards/c1")
	if len(bodies) != 1 || bodies[0]["idList"] != "l2" {
		t.Errorf("card update = %v, want idList l2", bodies)
	}
}
