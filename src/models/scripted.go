package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/Protocol-Lattice/planagent/pkg/utils/json"
)

// Reply is one canned answer of a ScriptedLLM.
type Reply struct {
	Text string
	Err  error
}

// ScriptedLLM replays canned replies in order and records every request. Once
// the script is exhausted it answers directly, echoing the last user turn, so
// that it can also drive the REPL without an API key.
type ScriptedLLM struct {
	Prefix   string
	Replies  []Reply
	Requests []Request
}

func NewScriptedLLM(replies ...string) *ScriptedLLM {
	s := &ScriptedLLM{Prefix: "Dummy response:"}
	for _, r := range replies {
		s.Replies = append(s.Replies, Reply{Text: r})
	}
	return s
}

// Push queues a textual reply.
func (s *ScriptedLLM) Push(text string) *ScriptedLLM {
	s.Replies = append(s.Replies, Reply{Text: text})
	return s
}

// Fail queues a provider failure.
func (s *ScriptedLLM) Fail(err error) *ScriptedLLM {
	s.Replies = append(s.Replies, Reply{Err: err})
	return s
}

// Calls reports how many requests were made.
func (s *ScriptedLLM) Calls() int { return len(s.Requests) }

func (s *ScriptedLLM) Chat(_ context.Context, req Request) (string, error) {
	req.Messages = append([]Message(nil), req.Messages...)
	s.Requests = append(s.Requests, req)

	if len(s.Replies) > 0 {
		next := s.Replies[0]
		s.Replies = s.Replies[1:]
		return next.Text, next.Err
	}
	return s.echo(req)
}

func (s *ScriptedLLM) echo(req Request) (string, error) {
	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role != RoleUser {
			continue
		}
		if candidate := strings.TrimSpace(req.Messages[i].Content); candidate != "" {
			last = candidate
			break
		}
	}
	if last == "" {
		last = "<empty prompt>"
	}
	if i := strings.LastIndexByte(last, '\n'); i >= 0 {
		last = strings.TrimSpace(last[i+1:])
	}

	// Valid both as a plan and as a reflection.
	return json.MarshalString(map[string]any{
		"requires_tools":   false,
		"direct_response":  fmt.Sprintf("%s %s", s.Prefix, last),
		"requires_changes": false,
		"reflection":       "Scripted model has nothing to add.",
	}), nil
}

var _ ChatModel = (*ScriptedLLM)(nil)
