package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pberthonneau/trello-copilot/internal/analytics"
	"github.com/pberthonneau/trello-copilot/internal/config"
	"github.com/pberthonneau/trello-copilot/internal/logger"
	"github.com/pberthonneau/trello-copilot/internal/services/ai"
	"github.com/pberthonneau/trello-copilot/internal/trello"
)

// newEngine wires a ready-to-use analytics engine from the environment
// configuration. The OpenAI provider is only attached when a key is set.
func newEngine() (*analytics.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	zapLogger, err := logger.NewDevelopmentLogger(cfg.ServerDebugMode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	clientOpts := []trello.ClientOption{trello.WithLogger(zapLogger)}
	if cfg.TrelloBaseURL != "" {
		clientOpts = append(clientOpts, trello.WithBaseURL(cfg.TrelloBaseURL))
	}
	if cfg.DefaultBoard != "" {
		clientOpts = append(clientOpts, trello.WithDefaultBoard(cfg.DefaultBoard))
	}
	client := trello.NewClient(cfg.TrelloAPIKey, cfg.TrelloAPIToken, clientOpts...)

	engineOpts := []analytics.Option{analytics.WithLogger(zapLogger)}
	if cfg.OpenAIKey != "" {
		provider := ai.NewOpenAIProviderWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger, cfg.ServerDebugMode)
		engineOpts = append(engineOpts, analytics.WithGenerator(provider))
	}

	return analytics.NewEngine(client, engineOpts...), nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
