package story_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adventure-server/internal/config"
	"adventure-server/internal/story"
	"adventure-server/internal/story/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		AITemperature: 0.8,
		AIMaxTokens:   1024,
		AITopP:        0.95,
	}
}

func TestServiceFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockAI := mocks.NewMockAIClient(t)
		svc := story.NewService(mockAI, testConfig(), zap.NewNop())

		raw := `{"st": "You wake in a forest.", "ch": ["Go north", "Go south"], "img": "a dark forest"}`
		mockAI.On("GenerateText", mock.Anything, mock.AnythingOfType("string"), "Begin a new adventure.", mock.AnythingOfType("story.GenerationParams")).
			Return(raw, story.UsageInfo{PromptTokens: 120, CompletionTokens: 60, TotalTokens: 180}, nil).Once()

		turn, err := svc.Fetch(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, "You wake in a forest.", turn.StorySegment)
		assert.Equal(t, []string{"Go north", "Go south"}, turn.ChoiceTexts)
		assert.Equal(t, "a dark forest", turn.ImagePrompt)
		mockAI.AssertExpectations(t)
	})

	t.Run("Continuation forwards prior story and option", func(t *testing.T) {
		mockAI := mocks.NewMockAIClient(t)
		svc := story.NewService(mockAI, testConfig(), zap.NewNop())

		raw := `{"st": "The trees thin out.", "ch": ["Keep walking"]}`
		mockAI.On("GenerateText", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(input string) bool {
			return strings.Contains(input, "You wake in a forest.") &&
				strings.Contains(input, "The player chose: Go north")
		}), mock.AnythingOfType("story.GenerationParams")).
			Return(raw, story.UsageInfo{}, nil).Once()

		turn, err := svc.Fetch(ctx, "You wake in a forest.", "Go north")
		require.NoError(t, err)
		assert.Equal(t, "The trees thin out.", turn.StorySegment)
		mockAI.AssertExpectations(t)
	})

	t.Run("AI error is returned as-is", func(t *testing.T) {
		mockAI := mocks.NewMockAIClient(t)
		svc := story.NewService(mockAI, testConfig(), zap.NewNop())

		genErr := errors.New("quota exceeded")
		mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", story.UsageInfo{}, genErr).Once()

		turn, err := svc.Fetch(ctx, "", "")
		require.Error(t, err)
		assert.Nil(t, turn)
		assert.ErrorIs(t, err, genErr)
	})

	t.Run("Unparseable response maps to generation failure", func(t *testing.T) {
		mockAI := mocks.NewMockAIClient(t)
		svc := story.NewService(mockAI, testConfig(), zap.NewNop())

		mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("Once upon a time, with no JSON in sight.", story.UsageInfo{}, nil).Once()

		turn, err := svc.Fetch(ctx, "", "")
		require.Error(t, err)
		assert.Nil(t, turn)
		assert.ErrorIs(t, err, story.ErrAIGenerationFailed)
	})
}
