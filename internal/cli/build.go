package cli

import (
	"context"
	"fmt"
	"net/http"

	agent "github.com/Protocol-Lattice/planagent"
	"github.com/Protocol-Lattice/planagent/internal/config"
	"github.com/Protocol-Lattice/planagent/pkg/logger"
	"github.com/Protocol-Lattice/planagent/pkg/tools"
	"github.com/Protocol-Lattice/planagent/src/models"
)

// Hooks replace external collaborators; zero values use the real ones.
type Hooks struct {
	Model      models.ChatModel
	UTCPClient tools.UTCPInvoker
}

// BuildAgent wires the configured model provider, the built-in tools and,
// when a providers file is configured, the UTCP tools.
func BuildAgent(ctx context.Context, cfg *config.Config, hooks Hooks) (*agent.Agent, error) {
	model, modelName := hooks.Model, cfg.Model
	if model == nil {
		var err error
		model, modelName, err = models.NewLLMProvider(ctx, models.ProviderConfig{
			Provider: cfg.Provider,
			Model:    cfg.Model,
			BaseURL:  cfg.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("model provider: %w", err)
		}
	}
	logger.Info("[CLI] provider=%s model=%s", cfg.Provider, modelName)

	builtin, err := tools.Builtin(&http.Client{Timeout: cfg.HTTPTimeout})
	if err != nil {
		return nil, err
	}

	a, err := agent.New(agent.Options{
		Model:     model,
		ModelName: modelName,
		Tools:     builtin,
	})
	if err != nil {
		return nil, err
	}

	client := hooks.UTCPClient
	if client == nil && cfg.UTCPProviders != "" {
		c, err := tools.NewUTCPClient(ctx, cfg.UTCPProviders)
		if err != nil {
			return nil, err
		}
		client = c
	}
	if client != nil {
		remote, err := tools.UTCPTools(client, "", cfg.UTCPSearchLimit)
		if err != nil {
			return nil, err
		}
		for _, tool := range remote {
			if err := a.AddTool(tool); err != nil {
				return nil, err
			}
		}
		logger.Info("[CLI] registered %d UTCP tools", len(remote))
	}

	return a, nil
}
