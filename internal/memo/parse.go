package memo

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Extract parses a model response into a CashMemo. The raw text is
// untrusted: it may wrap the JSON in markdown code fences or surround it
// with prose, or be malformed altogether. On any failure the second return
// is false and no record is produced; this boundary never panics and never
// propagates an error.
func Extract(raw string) (*CashMemo, bool) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	// The model sometimes pads the object with prose; keep only the
	// outermost braces.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		slog.Debug("no JSON object in extraction response")
		return nil, false
	}
	text = text[start : end+1]

	var env Envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		slog.Debug("extraction response is not valid JSON", "error", err)
		return nil, false
	}
	if env.CashMemo == nil {
		slog.Debug("extraction response has no cashMemo object")
		return nil, false
	}
	return env.CashMemo, true
}
