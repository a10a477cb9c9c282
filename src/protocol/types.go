// Package protocol holds the JSON contract spoken with the model: the system
// prompt that describes it, the messages of the reflection round and the
// decoders for the model's answers.
package protocol

import "errors"

// ErrMissingKey is reported when a decoded plan lacks a key the agent needs.
var ErrMissingKey = errors.New("response is missing a required key")

// ToolCall names one tool invocation requested by the model.
type ToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// PlanResponse is the model's decision for a query. Optional keys stay nil
// when absent so the agent can tell "missing" from "empty".
type PlanResponse struct {
	RequiresTools  *bool      `json:"requires_tools,omitempty"`
	DirectResponse *string    `json:"direct_response,omitempty"`
	Thought        *string    `json:"thought,omitempty"`
	Plan           []string   `json:"plan,omitempty"`
	ToolCalls      []ToolCall `json:"tool_calls,omitempty"`
}

// NeedsTools reports the requires_tools flag; a missing flag means true.
func (p PlanResponse) NeedsTools() bool {
	if p.RequiresTools == nil {
		return true
	}
	return *p.RequiresTools
}

func (p PlanResponse) ThoughtText() string {
	if p.Thought == nil {
		return ""
	}
	return *p.Thought
}

// DirectPlan builds a plan that answers without tools.
func DirectPlan(response string) PlanResponse {
	no := false
	return PlanResponse{RequiresTools: &no, DirectResponse: &response}
}

// ToolPlan builds a plan that calls tools in order.
func ToolPlan(thought string, steps []string, calls ...ToolCall) PlanResponse {
	yes := true
	return PlanResponse{RequiresTools: &yes, Thought: &thought, Plan: steps, ToolCalls: calls}
}

// ReflectionResult is the model's critique of a plan.
type ReflectionResult struct {
	RequiresChanges bool     `json:"requires_changes"`
	Reflection      string   `json:"reflection"`
	Suggestions     []string `json:"suggestions,omitempty"`
}
