package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StripCodeFence removes a wrapping ```json or ``` block from model
// output. Text without a fence is returned trimmed.
func StripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeJSON decodes one JSON value embedded in model output into target.
// The fence is stripped first; if that still fails, the outermost {...}
// span is tried. Errors carry a snippet of the payload.
func DecodeJSON(content string, target any) error {
	stripped := StripCodeFence(content)
	if stripped == "" {
		return errors.New("agent: empty payload")
	}

	directErr := json.Unmarshal([]byte(stripped), target)
	if directErr == nil {
		return nil
	}

	extracted := extractObject(stripped)
	if extracted == "" || extracted == stripped {
		return fmt.Errorf("agent: decode model output: %w (payload snippet: %s)", directErr, summarize(stripped))
	}
	if err := json.Unmarshal([]byte(extracted), target); err != nil {
		return fmt.Errorf("agent: decode model output: %w (payload snippet: %s)", err, summarize(extracted))
	}
	return nil
}

func extractObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}

// summarize collapses whitespace and caps the text for log and error output.
func summarize(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return clean
}
