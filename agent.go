// Package agent runs a single tool-using assistant. Every query goes through
// plan, reflect, an optional re-plan and a response step; the outcome of each
// query is kept in an interaction log.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Protocol-Lattice/planagent/pkg/logger"
	"github.com/Protocol-Lattice/planagent/pkg/utils/json"
	"github.com/Protocol-Lattice/planagent/src/memory"
	"github.com/Protocol-Lattice/planagent/src/models"
	"github.com/Protocol-Lattice/planagent/src/protocol"
	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

const (
	// LLMErrorPrefix starts the text that stands in for a failed model call.
	LLMErrorPrefix = "Error calling LLM: "

	noReflectionYet      = "No previous interactions to reflect on"
	noImprovements       = "No improvements suggested"
	resultSeparator      = ". "
	planSeparator        = ". "
	reflectionAnnotation = "\n\nReflection: "
)

// Agent orchestrates model calls, the tool catalog and the interaction log.
// It serves one logical thread of control.
type Agent struct {
	model     models.ChatModel
	modelName string
	catalog   *Catalog
	log       *memory.Log
	now       func() time.Time
}

// Options configure a new Agent.
type Options struct {
	Model     models.ChatModel
	ModelName string
	Tools     []*tooldef.Tool
	Catalog   *Catalog
	Log       *memory.Log
	Now       func() time.Time
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, errors.New("agent requires a language model")
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = NewCatalog()
	}
	for _, tool := range opts.Tools {
		if err := catalog.Register(tool); err != nil {
			return nil, err
		}
	}

	log := opts.Log
	if log == nil {
		log = memory.NewLog()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Agent{
		model:     opts.Model,
		modelName: opts.ModelName,
		catalog:   catalog,
		log:       log,
		now:       now,
	}, nil
}

// AddTool registers tool, replacing a tool of the same name.
func (a *Agent) AddTool(tool *tooldef.Tool) error {
	if err := a.catalog.Register(tool); err != nil {
		return err
	}
	logger.Debug("[Agent] registered tool %s", tool.Name())
	return nil
}

// UseTool invokes a registered tool directly.
func (a *Agent) UseTool(ctx context.Context, name string, args tooldef.Args) (string, error) {
	return a.catalog.Invoke(ctx, name, args)
}

func (a *Agent) Catalog() *Catalog { return a.catalog }

// Interactions returns a snapshot of the interaction log.
func (a *Agent) Interactions() []memory.Record { return a.log.Records() }

// SystemPrompt renders the planning prompt for the tools registered right now.
func (a *Agent) SystemPrompt() (string, error) {
	return protocol.SystemPrompt(a.catalog.Descriptors())
}

// Plan asks the model how to handle query and logs the raw plan as a new
// interaction.
func (a *Agent) Plan(ctx context.Context, query string) (protocol.PlanResponse, error) {
	interaction, _, err := a.plan(ctx, query)
	if err != nil {
		return protocol.PlanResponse{}, err
	}
	return interaction.Plan, nil
}

func (a *Agent) plan(ctx context.Context, query string) (memory.Interaction, string, error) {
	system, err := a.SystemPrompt()
	if err != nil {
		return memory.Interaction{}, "", err
	}

	text := a.complete(ctx, []models.Message{
		models.System(system),
		models.User(query),
	})
	plan, err := protocol.DecodePlan(text)
	if err != nil {
		return memory.Interaction{}, "", fmt.Errorf("decode plan: %w", err)
	}
	logger.Debug("[Agent] plan: %s", json.MarshalString(plan))

	interaction := memory.NewInteraction(a.now(), query, plan)
	a.log.Append(interaction)
	return interaction, system, nil
}

// Reflect asks the model to critique the plan of the newest interaction.
func (a *Agent) Reflect(ctx context.Context) (protocol.ReflectionResult, error) {
	last, ok := a.log.Last()
	if !ok {
		return protocol.ReflectionResult{RequiresChanges: false, Reflection: noReflectionYet}, nil
	}

	msgs, err := protocol.ReflectionMessages(last.Meta().Query, last.CurrentPlan())
	if err != nil {
		return protocol.ReflectionResult{}, err
	}
	res, err := protocol.DecodeReflection(a.complete(ctx, msgs))
	if err != nil {
		return protocol.ReflectionResult{}, fmt.Errorf("decode reflection: %w", err)
	}
	logger.Debug("[Agent] reflection: requires_changes=%t %s", res.RequiresChanges, res.Reflection)
	return res, nil
}

// Execute runs the full pipeline for one query and returns the composed answer.
// Decoding failures and unknown tools abort the query.
func (a *Agent) Execute(ctx context.Context, query string) (string, error) {
	interaction, system, err := a.plan(ctx, query)
	if err != nil {
		return "", err
	}

	reflection, err := a.Reflect(ctx)
	if err != nil {
		return "", err
	}

	final := interaction.Plan
	if reflection.RequiresChanges {
		logger.Info("[Agent] reflection requested changes, re-planning")
		msgs, err := protocol.RevisionMessages(system, query, interaction.Plan, reflection.Reflection)
		if err != nil {
			return "", err
		}
		final, err = protocol.DecodePlan(a.complete(ctx, msgs))
		if err != nil {
			return "", fmt.Errorf("decode revised plan: %w", err)
		}
	}

	if err := a.log.ReplaceLast(interaction.Reflected(reflection, final)); err != nil {
		return "", err
	}

	return a.respond(ctx, interaction.Plan, reflection, final)
}

func (a *Agent) respond(ctx context.Context, initial protocol.PlanResponse, reflection protocol.ReflectionResult, final protocol.PlanResponse) (string, error) {
	note := reflection.Reflection
	if strings.TrimSpace(note) == "" {
		note = noImprovements
	}

	if !final.NeedsTools() {
		if final.DirectResponse == nil {
			return "", fmt.Errorf("%w: direct_response", protocol.ErrMissingKey)
		}
		return *final.DirectResponse + reflectionAnnotation + note, nil
	}

	if final.ToolCalls == nil {
		return "", fmt.Errorf("%w: tool_calls", protocol.ErrMissingKey)
	}

	results := make([]string, 0, len(final.ToolCalls))
	for _, call := range final.ToolCalls {
		logger.WithFields(logrus.Fields{"tool": call.Tool, "args": len(call.Args)}).Info("[Agent] invoking tool")
		result, err := a.catalog.Invoke(ctx, call.Tool, tooldef.Args(call.Args))
		if err != nil {
			logger.Error("[Agent] aborting query: %v", err)
			return "", err
		}
		results = append(results, result)
	}

	var sb strings.Builder
	sb.WriteString("Initial Thought: ")
	sb.WriteString(initial.ThoughtText())
	sb.WriteString("\nInitial Plan: ")
	sb.WriteString(strings.Join(initial.Plan, planSeparator))
	sb.WriteString("\nReflection: ")
	sb.WriteString(note)
	sb.WriteString("\nFinal Plan: ")
	sb.WriteString(strings.Join(final.Plan, planSeparator))
	sb.WriteString("\nResults: ")
	sb.WriteString(strings.Join(results, resultSeparator))
	return sb.String(), nil
}

// complete performs one model call at zero temperature. A provider failure is
// returned as text so that it surfaces through decoding.
func (a *Agent) complete(ctx context.Context, msgs []models.Message) string {
	text, err := a.model.Chat(ctx, models.Request{
		Model:       a.modelName,
		Messages:    msgs,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("[Agent] model call failed: %v", err)
		return LLMErrorPrefix + err.Error()
	}
	return text
}
