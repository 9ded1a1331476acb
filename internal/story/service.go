package story

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"adventure-server/internal/config"
)

// Service запрашивает у AI очередной ход приключения: сегмент истории,
// варианты выбора и промпт для иллюстрации.
type Service struct {
	ai     AIClient
	params GenerationParams
	logger *zap.Logger
}

// NewService создает новый Service поверх AIClient.
func NewService(ai AIClient, cfg *config.Config, logger *zap.Logger) *Service {
	temperature := cfg.AITemperature
	maxTokens := cfg.AIMaxTokens
	topP := cfg.AITopP
	return &Service{
		ai: ai,
		params: GenerationParams{
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
			TopP:        &topP,
		},
		logger: logger.Named("StoryService"),
	}
}

// Fetch запрашивает продолжение истории. Пустой priorStory означает начало
// нового приключения; chosenOption — действие, выбранное игроком.
func (s *Service) Fetch(ctx context.Context, priorStory, chosenOption string) (*Turn, error) {
	userInput := buildUserInput(priorStory, chosenOption)

	raw, usage, err := s.ai.GenerateText(ctx, narratorSystemPrompt, userInput, s.params)
	if err != nil {
		return nil, err
	}

	turn, err := ParseTurn([]byte(raw))
	if err != nil {
		s.logger.Error("Failed to parse narrator response",
			zap.Error(err),
			zap.Int("response_chars", len(raw)),
		)
		return nil, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	s.logger.Info("Story turn fetched",
		zap.Int("segment_chars", len(turn.StorySegment)),
		zap.Int("choices", len(turn.ChoiceTexts)),
		zap.Bool("has_image_prompt", turn.ImagePrompt != ""),
		zap.Int("total_tokens", usage.TotalTokens),
	)

	return turn, nil
}
