package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pberthonneau/trello-copilot/internal/models"
	"github.com/pberthonneau/trello-copilot/internal/trello"
	"go.uber.org/zap"
)

// summaryTemperature keeps the executive summary deterministic enough to
// be parseable.
const summaryTemperature = 0.1

// summarySystemPrompt frames the narrative generator as a governance
// consultant. Kept verbatim as a product string.
const summarySystemPrompt = "Tu es un consultant senior en gouvernance Trello. Tes réponses sont synthétiques, orientées décision, et toujours structurées."

// GenerateSummary runs the four analyses concurrently, then asks the text
// generator for an executive narrative over their combined JSON. The four
// raw reports are returned as-is alongside the narrative; nothing is
// recomputed from them.
func (e *Engine) GenerateSummary(ctx context.Context, boardRef string) (*models.SummaryReport, error) {
	if e.generator == nil {
		return nil, trello.NewGenerationUnavailable("aucun fournisseur de génération de texte n'est configuré")
	}

	var (
		snapshot *models.Snapshot
		health   *models.HealthReport
		history  *models.HistoryReport
		cleanup  *models.CleanupPlan
		errs     [4]error
	)
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		snapshot, errs[0] = e.BuildSnapshot(ctx, boardRef)
	}()
	go func() {
		defer wg.Done()
		health, errs[1] = e.AnalyzeBoardHealth(ctx, boardRef)
	}()
	go func() {
		defer wg.Done()
		history, errs[2] = e.AuditHistory(ctx, boardRef, "", "")
	}()
	go func() {
		defer wg.Done()
		cleanup, errs[3] = e.SuggestCleanup(ctx, boardRef)
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	payload, err := json.MarshalIndent(map[string]any{
		"boardName":     snapshot.BoardName,
		"snapshot":      snapshot,
		"healthReport":  health,
		"historyReport": history,
		"cleanupPlan":   cleanup,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sérialisation des rapports: %w", err)
	}

	instructions := strings.Join([]string{
		"Tu es un consultant Trello senior chargé de produire un rapport exécutif clair et actionnable.",
		"Analyse les données JSON fournies et construis un résumé destiné à une direction opérationnelle.",
		"Inclue impérativement : synthèse générale, problèmes majeurs, risques, points critiques, recommandations stratégiques, quick wins, points bloquants, plan d'action.",
		"Retourne STRICTEMENT un JSON respectant la structure suivante :",
		"{\n  \"summary_text\": \"<texte narratif structuré>\",\n  \"key_findings\": [\"<point clé 1>\", \"<point clé 2>\", \"...\"],\n  \"action_items\": [\"<action prioritaire 1>\", \"<action prioritaire 2>\", \"...\"]\n}",
		"Ne rajoute aucun commentaire en dehors du JSON.",
		"Données JSON à analyser :\n" + string(payload),
	}, "\n\n")

	raw, err := e.generator.GenerateText(ctx, instructions, summarySystemPrompt, summaryTemperature)
	if err != nil {
		return nil, trello.NewGenerationUnavailable(fmt.Sprintf("la génération du résumé exécutif a échoué: %v", err))
	}

	summaryText, keyFindings, actionItems := parseSummaryPayload(raw, e.logger)

	return &models.SummaryReport{
		BoardName:     snapshot.BoardName,
		GeneratedAt:   e.generatedAt(),
		Snapshot:      snapshot,
		HealthReport:  health,
		HistoryReport: history,
		CleanupPlan:   cleanup,
		SummaryText:   summaryText,
		KeyFindings:   keyFindings,
		ActionItems:   actionItems,
	}, nil
}

// parseSummaryPayload extracts the structured summary from raw model
// output. Parsing is defensive: try the whole output as JSON, then the
// first brace-to-last-brace slice, then fall back to the raw text as the
// narrative with empty findings. A malformed payload never fails the
// summary.
func parseSummaryPayload(raw string, logger *zap.Logger) (string, []string, []string) {
	type structured struct {
		SummaryText  string `json:"summary_text"`
		KeyFindings  []any  `json:"key_findings"`
		ActionItems  []any  `json:"action_items"`
		KeyFindings2 []any  `json:"keyFindings"`
		ActionItems2 []any  `json:"actionItems"`
	}

	tryParse := func(payload string) *structured {
		var parsed structured
		if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
			return nil
		}
		return &parsed
	}

	parsed := tryParse(raw)
	if parsed == nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start >= 0 && end > start {
			parsed = tryParse(raw[start : end+1])
		}
	}
	if parsed == nil {
		logger.Warn("summary_payload_unstructured", zap.Int("raw_length", len(raw)))
		return strings.TrimSpace(raw), []string{}, []string{}
	}

	summaryText := strings.TrimSpace(parsed.SummaryText)
	if summaryText == "" {
		summaryText = strings.TrimSpace(raw)
	}
	findings := parsed.KeyFindings
	if len(findings) == 0 {
		findings = parsed.KeyFindings2
	}
	items := parsed.ActionItems
	if len(items) == 0 {
		items = parsed.ActionItems2
	}
	return summaryText, toStringSlice(findings), toStringSlice(items)
}

// toStringSlice coerces a loosely typed array into trimmed non-empty
// strings.
func toStringSlice(values []any) []string {
	result := []string{}
	for _, value := range values {
		var s string
		if str, ok := value.(string); ok {
			s = strings.TrimSpace(str)
		} else {
			s = strings.TrimSpace(fmt.Sprint(value))
		}
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
