package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
	"go.uber.org/zap"
)

// fakeGenerator satisfies TextGenerator with a function field.
type fakeGenerator struct {
	generateFunc func(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error)
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
	return f.generateFunc(ctx, prompt, systemPrompt, temperature)
}

func summaryFixture() *fakeReader {
	lists := []models.List{{ID: "l1", Name: "En cours"}}
	cards := map[string][]models.Card{"l1": {{ID: "c1", Name: "Unique"}}}
	return fixtureReader(lists, cards, nil)
}

func TestGenerateSummaryNoGenerator(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(summaryFixture())
	_, err := engine.GenerateSummary(context.Background(), "Sprint")
	if !trello.IsKind(err, trello.KindGeneration) {
		t.Errorf("GenerateSummary() error = %v, want generation kind", err)
	}
}

func TestGenerateSummary(t *testing.T) {
	t.Parallel()

	var gotPrompt, gotSystem string
	var gotTemperature float64
	gen := &fakeGenerator{generateFunc: func(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
		gotPrompt = prompt
		gotSystem = systemPrompt
		gotTemperature = temperature
		return `{"summary_text":"Le board est sous contrôle.","key_findings":["Une carte sans date"],"action_items":["Définir les échéances"]}`, nil
	}}

	engine := newTestEngine(summaryFixture(), WithGenerator(gen))
	report, err := engine.GenerateSummary(context.Background(), "Sprint")
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}

	if report.SummaryText != "Le board est sous contrôle." {
		t.Errorf("SummaryText = %q, want the generated narrative", report.SummaryText)
	}
	if len(report.KeyFindings) != 1 || report.KeyFindings[0] != "Une carte sans date" {
		t.Errorf("KeyFindings = %v, want the parsed finding", report.KeyFindings)
	}
	if len(report.ActionItems) != 1 || report.ActionItems[0] != "Définir les échéances" {
		t.Errorf("ActionItems = %v, want the parsed action", report.ActionItems)
	}
	if report.Snapshot == nil || report.HealthReport == nil || report.HistoryReport == nil || report.CleanupPlan == nil {
		t.Error("every underlying report must be attached to the summary")
	}
	if report.BoardName != "Sprint" {
		t.Errorf("BoardName = %q, want Sprint", report.BoardName)
	}

	if gotTemperature != summaryTemperature {
		t.Errorf("temperature = %v, want %v", gotTemperature, summaryTemperature)
	}
	if gotSystem != summarySystemPrompt {
		t.Errorf("system prompt = %q, want the consultant framing", gotSystem)
	}
	if !strings.Contains(gotPrompt, `"boardName": "Sprint"`) {
		t.Error("prompt must embed the combined report JSON")
	}
	if !strings.Contains(gotPrompt, "summary_text") {
		t.Error("prompt must describe the expected JSON structure")
	}
}

func TestGenerateSummaryGeneratorFailure(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{generateFunc: func(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
		return "", errors.New("quota dépassé")
	}}
	engine := newTestEngine(summaryFixture(), WithGenerator(gen))
	_, err := engine.GenerateSummary(context.Background(), "Sprint")
	if !trello.IsKind(err, trello.KindGeneration) {
		t.Errorf("GenerateSummary() error = %v, want generation kind", err)
	}
}

func TestGenerateSummaryAnalysisFailure(t *testing.T) {
	t.Parallel()

	reader := summaryFixture()
	reader.getOpenListsFunc = func(ctx context.Context, boardID string) ([]models.List, error) {
		return nil, trello.NewUpstream("panne", 502, nil)
	}
	gen := &fakeGenerator{generateFunc: func(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
		t.Error("the generator must not run when an analysis fails")
		return "", nil
	}}

	engine := newTestEngine(reader, WithGenerator(gen))
	_, err := engine.GenerateSummary(context.Background(), "Sprint")
	if !trello.IsKind(err, trello.KindUpstream) {
		t.Errorf("GenerateSummary() error = %v, want the upstream failure", err)
	}
}

func TestParseSummaryPayload(t *testing.T) {
	t.Parallel()

	logger := zap.NewNop()
	tests := []struct {
		name         string
		raw          string
		wantText     string
		wantFindings []string
		wantItems    []string
	}{
		{
			name:         "direct JSON",
			raw:          `{"summary_text":"ok","key_findings":["a"],"action_items":["b"]}`,
			wantText:     "ok",
			wantFindings: []string{"a"},
			wantItems:    []string{"b"},
		},
		{
			name:         "fenced JSON",
			raw:          "Voici le rapport :\n```json\n{\"summary_text\":\"ok\",\"key_findings\":[],\"action_items\":[]}\n```",
			wantText:     "ok",
			wantFindings: []string{},
			wantItems:    []string{},
		},
		{
			name:         "camelCase keys accepted",
			raw:          `{"summary_text":"ok","keyFindings":["a"],"actionItems":["b"]}`,
			wantText:     "ok",
			wantFindings: []string{"a"},
			wantItems:    []string{"b"},
		},
		{
			name:         "plain text falls back to raw",
			raw:          "  Le board va bien.  ",
			wantText:     "Le board va bien.",
			wantFindings: []string{},
			wantItems:    []string{},
		},
		{
			name:         "empty summary text falls back to raw",
			raw:          `{"summary_text":"","key_findings":["a"],"action_items":[]}`,
			wantText:     `{"summary_text":"","key_findings":["a"],"action_items":[]}`,
			wantFindings: []string{"a"},
			wantItems:    []string{},
		},
		{
			name:         "loose value types coerced",
			raw:          `{"summary_text":"ok","key_findings":[1,"  deux  ",""],"action_items":[true]}`,
			wantText:     "ok",
			wantFindings: []string{"1", "deux"},
			wantItems:    []string{"true"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text, findings, items := parseSummaryPayload(tt.raw, logger)
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if len(findings) != len(tt.wantFindings) {
				t.Fatalf("findings = %v, want %v", findings, tt.wantFindings)
			}
			for i := range findings {
				if findings[i] != tt.wantFindings[i] {
					t.Errorf("findings[%d] = %q, want %q", i, findings[i], tt.wantFindings[i])
				}
			}
			if len(items) != len(tt.wantItems) {
				t.Fatalf("items = %v, want %v", items, tt.wantItems)
			}
			for i := range items {
				if items[i] != tt.wantItems[i] {
					t.Errorf("items[%d] = %q, want %q", i, items[i], tt.wantItems[i])
				}
			}
		})
	}
}
