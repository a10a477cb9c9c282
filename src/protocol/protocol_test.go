package protocol

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Protocol-Lattice/planagent/pkg/utils/json"
	"github.com/Protocol-Lattice/planagent/src/models"
	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

func TestDecodeFencedAndBare(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"fenced json", "```json\n{\"a\": 1}\n```"},
		{"fenced untagged", "```\n{\"a\": 1}\n```"},
		{"bare", `{"a": 1}`},
		{"bare with whitespace", "  \n{\"a\": 1}\n  "},
		{"fenced with prose", "Here is my answer:\n```json\n{\"a\": 1}\n```\nThanks."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.text)
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if len(got) != 1 || got["a"] != float64(1) {
				t.Fatalf("unexpected mapping %v", got)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, text := range []string{"not json", "", "Error calling LLM: connection refused", "[1, 2]"} {
		_, err := Decode(text)
		if err == nil {
			t.Fatalf("expected error for %q", text)
		}
		var ire *InvalidResponseError
		if !errors.As(err, &ire) {
			t.Fatalf("expected *InvalidResponseError for %q, got %T", text, err)
		}
		if !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("expected errors.Is(err, ErrInvalidResponse) for %q", text)
		}
		if ire.Raw != text {
			t.Fatalf("raw text not preserved: %q", ire.Raw)
		}
	}
}

func TestExtractJSONTakesFirstFence(t *testing.T) {
	text := "```json\n{\"first\": {\"nested\": true}}\n```\n```json\n{\"second\": 2}\n```"
	if got := ExtractJSON(text); got != `{"first": {"nested": true}}` {
		t.Fatalf("ExtractJSON = %q", got)
	}
}

func TestDecodePlan(t *testing.T) {
	plan, err := DecodePlan("```json\n" + `{
		"requires_tools": true,
		"thought": "convert",
		"plan": ["step one", "step two"],
		"tool_calls": [{"tool": "convert_currency", "args": {"amount": 100, "from_currency": "USD"}}]
	}` + "\n```")
	if err != nil {
		t.Fatalf("DecodePlan returned error: %v", err)
	}
	if !plan.NeedsTools() || plan.ThoughtText() != "convert" || len(plan.Plan) != 2 {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if len(plan.ToolCalls) != 1 || plan.ToolCalls[0].Tool != "convert_currency" {
		t.Fatalf("unexpected tool calls %+v", plan.ToolCalls)
	}
	if plan.ToolCalls[0].Args["amount"] != float64(100) {
		t.Fatalf("unexpected args %+v", plan.ToolCalls[0].Args)
	}
}

func TestPlanDefaults(t *testing.T) {
	plan, err := DecodePlan(`{"direct_response": "hi"}`)
	if err != nil {
		t.Fatalf("DecodePlan returned error: %v", err)
	}
	if !plan.NeedsTools() {
		t.Fatalf("missing requires_tools must default to true")
	}
	if plan.ThoughtText() != "" || plan.ToolCalls != nil {
		t.Fatalf("unexpected defaults %+v", plan)
	}
	if DirectPlan("x").NeedsTools() {
		t.Fatalf("DirectPlan must not need tools")
	}
}

func TestDecodeReflection(t *testing.T) {
	res, err := DecodeReflection(`{"requires_changes": true, "reflection": "use EUR", "suggestions": ["a"]}`)
	if err != nil {
		t.Fatalf("DecodeReflection returned error: %v", err)
	}
	if !res.RequiresChanges || res.Reflection != "use EUR" || len(res.Suggestions) != 1 {
		t.Fatalf("unexpected reflection %+v", res)
	}
}

func echoTool(_ context.Context, args tooldef.Args) string {
	s, _ := args.String("text")
	return s
}

func TestSystemPromptListsTools(t *testing.T) {
	tool := tooldef.MustNew(echoTool,
		tooldef.WithName("echo"),
		tooldef.WithDoc("Echo text back.\n\nParameters:\n- text: what to echo"),
		tooldef.WithParams(tooldef.Param("text", tooldef.String)),
	)

	prompt, err := SystemPrompt([]tooldef.Descriptor{tool.Descriptor()})
	if err != nil {
		t.Fatalf("SystemPrompt returned error: %v", err)
	}
	if !strings.HasPrefix(prompt, "You are an AI assistant that helps users") {
		t.Fatalf("unexpected prompt start: %q", prompt[:40])
	}
	if !strings.HasSuffix(prompt, "actually needed for the task.") {
		t.Fatalf("unexpected prompt end")
	}

	start := strings.Index(prompt, "{")
	end := strings.LastIndex(prompt, "}")
	var cfg map[string]any
	if err := json.Unmarshal([]byte(prompt[start:end+1]), &cfg); err != nil {
		t.Fatalf("embedded configuration is not JSON: %v", err)
	}

	tools, _ := cfg["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("expected one tool, got %v", cfg["tools"])
	}
	entry := tools[0].(map[string]any)
	if entry["name"] != "echo" || entry["description"] != "Echo text back." {
		t.Fatalf("unexpected tool entry %v", entry)
	}
	params := entry["parameters"].(map[string]any)
	text := params["text"].(map[string]any)
	if text["type"] != "string" || text["description"] != "what to echo" || len(text) != 2 {
		t.Fatalf("unexpected parameter entry %v", text)
	}

	format := cfg["response_format"].(map[string]any)
	schema := format["schema"].(map[string]any)
	for _, key := range []string{"requires_tools", "direct_response", "thought", "plan", "tool_calls"} {
		if _, ok := schema[key]; !ok {
			t.Fatalf("schema lacks %s", key)
		}
	}
	if ex, _ := format["examples"].([]any); len(ex) != 3 {
		t.Fatalf("expected 3 examples, got %d", len(ex))
	}
}

func TestSystemPromptKeepsHTMLCharacters(t *testing.T) {
	tool := tooldef.MustNew(echoTool,
		tooldef.WithName("greet"),
		tooldef.WithDoc("Greet <someone> & co."),
	)
	prompt, err := SystemPrompt([]tooldef.Descriptor{tool.Descriptor()})
	if err != nil {
		t.Fatalf("SystemPrompt returned error: %v", err)
	}
	if !strings.Contains(prompt, `"Greet <someone> & co."`) {
		t.Fatalf("description must not be escaped:\n%s", prompt)
	}
	if strings.Contains(prompt, `\u003c`) || strings.Contains(prompt, `\u0026`) {
		t.Fatalf("prompt contains HTML escapes")
	}
}

func TestSystemPromptWithoutTools(t *testing.T) {
	prompt, err := SystemPrompt(nil)
	if err != nil {
		t.Fatalf("SystemPrompt returned error: %v", err)
	}
	start := strings.Index(prompt, "{")
	end := strings.LastIndex(prompt, "}")
	var cfg map[string]any
	if err := json.Unmarshal([]byte(prompt[start:end+1]), &cfg); err != nil {
		t.Fatalf("embedded configuration is not JSON: %v", err)
	}
	tools, ok := cfg["tools"].([]any)
	if !ok || len(tools) != 0 {
		t.Fatalf("expected empty tool list, got %v", cfg["tools"])
	}
}

func TestReflectionMessages(t *testing.T) {
	plan := ToolPlan("think", []string{"call echo"}, ToolCall{Tool: "echo", Args: map[string]any{"text": "hi"}})
	msgs, err := ReflectionMessages("say hi", plan)
	if err != nil {
		t.Fatalf("ReflectionMessages returned error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != models.RoleSystem || msgs[1].Role != models.RoleUser {
		t.Fatalf("unexpected messages %+v", msgs)
	}
	if !strings.Contains(msgs[0].Content, `"requires_changes"`) {
		t.Fatalf("critique instructions must describe the answer format")
	}
	if !strings.Contains(msgs[1].Content, "say hi") || !strings.Contains(msgs[1].Content, `"tool": "echo"`) {
		t.Fatalf("user turn must embed query and plan: %s", msgs[1].Content)
	}
}

func TestRevisionMessages(t *testing.T) {
	plan := DirectPlan("hello")
	msgs, err := RevisionMessages("SYSTEM", "greet me", plan, "be more formal")
	if err != nil {
		t.Fatalf("RevisionMessages returned error: %v", err)
	}
	roles := []models.Role{models.RoleSystem, models.RoleUser, models.RoleAssistant, models.RoleUser}
	if len(msgs) != len(roles) {
		t.Fatalf("expected %d messages, got %d", len(roles), len(msgs))
	}
	for i, role := range roles {
		if msgs[i].Role != role {
			t.Fatalf("message %d role = %s, want %s", i, msgs[i].Role, role)
		}
	}
	if msgs[0].Content != "SYSTEM" || msgs[1].Content != "greet me" {
		t.Fatalf("unexpected replay %+v", msgs[:2])
	}
	replayed, err := DecodePlan(msgs[2].Content)
	if err != nil || replayed.NeedsTools() || *replayed.DirectResponse != "hello" {
		t.Fatalf("assistant turn must carry the original plan: %q (%v)", msgs[2].Content, err)
	}
	if !strings.Contains(msgs[3].Content, "be more formal") {
		t.Fatalf("revision request must embed the reflection verbatim")
	}
}
