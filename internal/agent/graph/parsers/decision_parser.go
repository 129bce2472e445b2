package parsers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/steward-ai/steward/internal/agent/model"
	logx "github.com/steward-ai/steward/pkg/logger"
)

// ErrMalformedDecision marks classifier output that matches neither JSON shape.
// Callers map it to the fixed fallback reply; it never escapes the graph.
var ErrMalformedDecision = errors.New("malformed classifier decision")

// Reply-channel names accepted in the "tool" field. The original prompt
// generation used both spellings, so both stay valid.
const (
	replyChannel     = "ui"
	replyChannelNode = "ui_node"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxErrSnippet = 200
)

type decisionEnvelope struct {
	Tool      string          `json:"tool"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// ParseDecision extracts exactly one Decision from raw classifier output.
//
// Accepted shapes:
//
//	{"tool": "ui", "tool_input": "<reply text>"}            → reply
//	{"tool": "<name>", "tool_input": {...}}                  → invoke_tool
//
// Some models emit several JSON blobs separated by blank lines; only the first
// parsed object counts and the rest is discarded. Anything else is
// ErrMalformedDecision.
func ParseDecision(content string) (decision model.Decision, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "decision_parser").Msgf("panic recovered: %v", r)
			decision = model.Decision{}
			err = fmt.Errorf("%w: parser panic", ErrMalformedDecision)
		}
	}()

	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "decision_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	content = stripCodeFences(content)

	start := strings.IndexByte(content, '{')
	if start < 0 {
		return model.Decision{}, fmt.Errorf("%w: no JSON object in %q", ErrMalformedDecision, snippet(content))
	}

	// Decode only the first object; trailing blobs are ignored on purpose.
	var env decisionEnvelope
	dec := json.NewDecoder(strings.NewReader(content[start:]))
	if derr := dec.Decode(&env); derr != nil {
		return model.Decision{}, fmt.Errorf("%w: %v", ErrMalformedDecision, derr)
	}

	name := strings.TrimSpace(env.Tool)
	if name == "" {
		return model.Decision{}, fmt.Errorf("%w: empty tool field", ErrMalformedDecision)
	}

	if name == replyChannel || name == replyChannelNode {
		var text string
		if uerr := json.Unmarshal(env.ToolInput, &text); uerr != nil {
			// A dict where a plain string reply was expected is a shape
			// mismatch, not something to repair by guessing at fields.
			return model.Decision{}, fmt.Errorf("%w: reply tool_input is not a string", ErrMalformedDecision)
		}
		if strings.TrimSpace(text) == "" {
			return model.Decision{}, fmt.Errorf("%w: empty reply text", ErrMalformedDecision)
		}
		return model.ReplyDecision(text), nil
	}

	// An absent tool_input means "no arguments"; InvokeToolDecision fills in
	// the empty object. Any present-but-non-object value is a shape mismatch.
	if len(env.ToolInput) > 0 && !isJSONObject(env.ToolInput) {
		return model.Decision{}, fmt.Errorf("%w: tool_input for %q is not an object", ErrMalformedDecision, name)
	}
	return model.InvokeToolDecision(name, env.ToolInput), nil
}

// stripCodeFences unwraps ```json ... ``` style fencing some models add
// despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.ContainsAny(s[:idx], "{}") {
		s = s[idx+1:] // drop the language tag line
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func isJSONObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
