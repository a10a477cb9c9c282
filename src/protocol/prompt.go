package protocol

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/Protocol-Lattice/planagent/pkg/utils/json"
	"github.com/Protocol-Lattice/planagent/src/models"
	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

type promptConfig struct {
	Role           string               `json:"role"`
	Capabilities   []string             `json:"capabilities"`
	Instructions   []string             `json:"instructions"`
	Tools          []tooldef.Descriptor `json:"tools"`
	ResponseFormat responseFormat       `json:"response_format"`
}

type responseFormat struct {
	Type     string         `json:"type"`
	Schema   responseSchema `json:"schema"`
	Examples []example      `json:"examples"`
}

type schemaField struct {
	Type        string       `json:"type"`
	Items       *schemaField `json:"items,omitempty"`
	Properties  any          `json:"properties,omitempty"`
	Description string       `json:"description,omitempty"`
	Optional    bool         `json:"optional,omitempty"`
}

type responseSchema struct {
	RequiresTools  schemaField `json:"requires_tools"`
	DirectResponse schemaField `json:"direct_response"`
	Thought        schemaField `json:"thought"`
	Plan           schemaField `json:"plan"`
	ToolCalls      schemaField `json:"tool_calls"`
}

type toolCallProperties struct {
	Tool schemaField `json:"tool"`
	Args schemaField `json:"args"`
}

type example struct {
	Query    string       `json:"query"`
	Response PlanResponse `json:"response"`
}

var schema = responseSchema{
	RequiresTools: schemaField{
		Type:        "boolean",
		Description: "whether tools are needed for this query",
	},
	DirectResponse: schemaField{
		Type:        "string",
		Description: "response when no tools are needed",
		Optional:    true,
	},
	Thought: schemaField{
		Type:        "string",
		Description: "reasoning about how to solve the task (when tools are needed)",
		Optional:    true,
	},
	Plan: schemaField{
		Type:        "array",
		Items:       &schemaField{Type: "string"},
		Description: "steps to solve the task (when tools are needed)",
		Optional:    true,
	},
	ToolCalls: schemaField{
		Type: "array",
		Items: &schemaField{
			Type: "object",
			Properties: toolCallProperties{
				Tool: schemaField{Type: "string", Description: "name of the tool"},
				Args: schemaField{Type: "object", Description: "parameters for the tool"},
			},
		},
		Description: "tools to call in sequence (when tools are needed)",
		Optional:    true,
	},
}

func examples() []example {
	return []example{
		{
			Query: "Convert 100 USD to EUR",
			Response: ToolPlan(
				"I need to use the currency conversion tool to convert USD to EUR",
				[]string{
					"Use convert_currency tool to convert 100 USD to EUR",
					"Return the conversion result",
				},
				ToolCall{Tool: "convert_currency", Args: map[string]any{
					"amount": 100, "from_currency": "USD", "to_currency": "EUR",
				}},
			),
		},
		{
			Query: "What's 500 Japanese Yen in British Pounds?",
			Response: ToolPlan(
				"I need to convert JPY to GBP using the currency converter",
				[]string{
					"Use convert_currency tool to convert 500 JPY to GBP",
					"Return the conversion result",
				},
				ToolCall{Tool: "convert_currency", Args: map[string]any{
					"amount": 500, "from_currency": "JPY", "to_currency": "GBP",
				}},
			),
		},
		{
			Query: "What currency does Japan use?",
			Response: DirectPlan("Japan uses the Japanese Yen (JPY) as its official currency. " +
				"This is common knowledge that doesn't require using the currency conversion tool."),
		},
	}
}

// SystemPrompt renders the assistant configuration, the given tools, the
// response schema and worked examples. Callers pass the current tool set on
// every call.
func SystemPrompt(descriptors []tooldef.Descriptor) (string, error) {
	cfg := promptConfig{
		Role: "AI Assistant",
		Capabilities: []string{
			"Using provided tools to help users when necessary",
			"Responding directly without tools for questions that don't require tool usage",
			"Planning efficient tool usage sequences",
		},
		Instructions: []string{
			"Use tools only when they are necessary for the task",
			"If a query can be answered directly, respond with a simple message instead of using tools",
			"When tools are needed, plan their usage efficiently to minimize tool calls",
		},
		Tools: append([]tooldef.Descriptor{}, descriptors...),
		ResponseFormat: responseFormat{
			Type:     "json",
			Schema:   schema,
			Examples: examples(),
		},
	}

	body, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode prompt configuration: %w", err)
	}

	return heredoc.Docf(`
		You are an AI assistant that helps users by providing direct answers or using tools when necessary.
		Configuration, instructions, and available tools are provided in JSON format below:

		%s

		Always respond with a JSON object following the response_format schema above.
		Remember to use tools only when they are actually needed for the task.`, body), nil
}

var reflectionInstructions = heredoc.Doc(`
	You are a critical reviewer of plans produced by an AI assistant that can call tools.
	Check whether the plan answers the user's query, whether the chosen tools and their
	arguments are correct and complete, and whether any step is unnecessary.
	Only ask for changes when the plan is wrong or clearly improvable.

	Respond with a JSON object of the form:
	{
	  "requires_changes": boolean,
	  "reflection": "short critique of the plan",
	  "suggestions": ["concrete improvement", ...]
	}`)

// ReflectionMessages asks the model to critique plan for query.
func ReflectionMessages(query string, plan PlanResponse) ([]models.Message, error) {
	encoded, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	user := heredoc.Docf(`
		User query:
		%s

		Proposed plan:
		%s

		Review the plan and answer with the JSON object described above.`, query, encoded)

	return []models.Message{
		models.System(reflectionInstructions),
		models.User(user),
	}, nil
}

// RevisionMessages replays the planning exchange and asks for a revised plan
// that takes reflection into account.
func RevisionMessages(system, query string, plan PlanResponse, reflection string) ([]models.Message, error) {
	encoded, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	revise := heredoc.Docf(`
		Your plan was reviewed. Reflection on it:
		%s

		Produce an improved plan for the original query. Respond with a JSON object
		following the response_format schema from the system prompt.`, reflection)

	return []models.Message{
		models.System(system),
		models.User(query),
		models.Assistant(string(encoded)),
		models.User(revise),
	}, nil
}
