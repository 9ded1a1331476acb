package handler

import (
	"encoding/base64"
	"time"

	"adventure-server/internal/game"
)

// ChoiceResponse is one selectable option in API responses.
type ChoiceResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// StateResponse is the full session state as rendered to presentation
// clients, over both HTTP and WebSocket.
type StateResponse struct {
	StoryText        string           `json:"story_text"`
	ImageData        string           `json:"image_data,omitempty"` // base64
	ImagePrompt      string           `json:"image_prompt,omitempty"`
	Choices          []ChoiceResponse `json:"choices"`
	StoryLoading     bool             `json:"story_loading"`
	ImageLoading     bool             `json:"image_loading"`
	Error            string           `json:"error,omitempty"`
	ServiceAvailable bool             `json:"service_available"`
	Generation       uint64           `json:"generation"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ChooseRequest carries the player's selected option text.
type ChooseRequest struct {
	Text string `json:"text"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewStateResponse maps a session state snapshot to its API representation.
func NewStateResponse(s game.SessionState) StateResponse {
	resp := StateResponse{
		StoryText:        s.StoryText,
		ImagePrompt:      s.ImagePrompt,
		Choices:          make([]ChoiceResponse, 0, len(s.Choices)),
		StoryLoading:     s.StoryLoading,
		ImageLoading:     s.ImageLoading,
		Error:            s.Error,
		ServiceAvailable: s.ServiceAvailable,
		Generation:       s.Generation,
		UpdatedAt:        s.UpdatedAt,
	}
	if len(s.ImageData) > 0 {
		resp.ImageData = base64.StdEncoding.EncodeToString(s.ImageData)
	}
	for _, ch := range s.Choices {
		resp.Choices = append(resp.Choices, ChoiceResponse{ID: ch.ID, Text: ch.Text})
	}
	return resp
}
