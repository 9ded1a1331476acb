package story

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Turn is one parsed narrator response: the next story segment, the options
// offered to the player and an optional image generation prompt.
type Turn struct {
	StorySegment string   `json:"st"`
	ChoiceTexts  []string `json:"ch"`
	ImagePrompt  string   `json:"img"`
}

// ParseTurn parses JSON from the narrator prompt into a Turn.
// Models occasionally wrap the object in markdown fences despite
// instructions, so fences are stripped before unmarshalling.
func ParseTurn(data []byte) (*Turn, error) {
	cleaned := stripCodeFences(string(data))
	var turn Turn
	if err := json.Unmarshal([]byte(cleaned), &turn); err != nil {
		return nil, fmt.Errorf("failed to parse narrator turn: %w", err)
	}
	if strings.TrimSpace(turn.StorySegment) == "" {
		return nil, fmt.Errorf("narrator turn has empty story segment")
	}
	if len(turn.ChoiceTexts) == 0 {
		return nil, fmt.Errorf("narrator turn offers no choices")
	}
	return &turn, nil
}

// stripCodeFences removes a surrounding ```...``` block (with an optional
// language tag) and returns the inner payload trimmed.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", ...), if any.
		firstLine := strings.TrimSpace(s[:idx])
		if !strings.HasPrefix(firstLine, "{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
