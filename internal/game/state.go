package game

import "time"

// Choice is one selectable option offered to the player. IDs are unique per
// render batch even when two options carry identical text.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SessionState is the complete mutable state of one adventure session.
// The GameController is its only writer; everyone else receives copies.
type SessionState struct {
	// StoryText is the current narrative segment shown to the player.
	StoryText string
	// ImageData holds the currently displayed illustration, or nil.
	ImageData []byte
	// ImagePrompt is the last prompt sent to the image service, kept for
	// display and debugging.
	ImagePrompt string
	// Choices are the currently offered options, in presentation order.
	Choices []Choice
	// StoryLoading and ImageLoading are raised together when a fetch cycle
	// begins and lowered together when the whole cycle finishes.
	StoryLoading bool
	ImageLoading bool
	// Error is the last user-facing error message, empty when none.
	Error string
	// ServiceAvailable is false when the backend is unconfigured; the
	// session is then permanently degraded until process restart.
	ServiceAvailable bool
	// Generation counts fetch cycles; results of stale cycles are discarded.
	Generation uint64
	UpdatedAt  time.Time
}

// clone returns a deep copy safe to hand to readers.
func (s SessionState) clone() SessionState {
	out := s
	if s.ImageData != nil {
		out.ImageData = make([]byte, len(s.ImageData))
		copy(out.ImageData, s.ImageData)
	}
	if s.Choices != nil {
		out.Choices = make([]Choice, len(s.Choices))
		copy(out.Choices, s.Choices)
	}
	return out
}
