package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTurn(t *testing.T) {
	t.Run("Plain JSON", func(t *testing.T) {
		raw := `{"st": "You wake in a forest.", "ch": ["Go north", "Go south"], "img": "a dark forest at dawn"}`
		turn, err := ParseTurn([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "You wake in a forest.", turn.StorySegment)
		assert.Equal(t, []string{"Go north", "Go south"}, turn.ChoiceTexts)
		assert.Equal(t, "a dark forest at dawn", turn.ImagePrompt)
	})

	t.Run("Fenced JSON with language tag", func(t *testing.T) {
		raw := "```json\n{\"st\": \"A door.\", \"ch\": [\"Enter\"], \"img\": \"\"}\n```"
		turn, err := ParseTurn([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "A door.", turn.StorySegment)
		assert.Empty(t, turn.ImagePrompt)
	})

	t.Run("Fenced JSON without language tag", func(t *testing.T) {
		raw := "```\n{\"st\": \"A door.\", \"ch\": [\"Enter\"]}\n```"
		turn, err := ParseTurn([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "A door.", turn.StorySegment)
	})

	t.Run("Surrounding whitespace", func(t *testing.T) {
		raw := "\n\n  {\"st\": \"A door.\", \"ch\": [\"Enter\"]}  \n"
		_, err := ParseTurn([]byte(raw))
		require.NoError(t, err)
	})

	t.Run("Missing image prompt is allowed", func(t *testing.T) {
		raw := `{"st": "A door.", "ch": ["Enter", "Knock"]}`
		turn, err := ParseTurn([]byte(raw))
		require.NoError(t, err)
		assert.Empty(t, turn.ImagePrompt)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		_, err := ParseTurn([]byte("The dragon says: no JSON today"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse narrator turn")
	})

	t.Run("Empty story segment", func(t *testing.T) {
		_, err := ParseTurn([]byte(`{"st": "  ", "ch": ["Enter"]}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty story segment")
	})

	t.Run("No choices", func(t *testing.T) {
		_, err := ParseTurn([]byte(`{"st": "The end.", "ch": []}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})
}

func TestBuildUserInput(t *testing.T) {
	t.Run("New adventure", func(t *testing.T) {
		assert.Equal(t, "Begin a new adventure.", buildUserInput("", ""))
		assert.Equal(t, "Begin a new adventure.", buildUserInput("   ", "ignored"))
	})

	t.Run("Continuation includes prior story and chosen option", func(t *testing.T) {
		input := buildUserInput("You wake in a forest.", "Go north")
		assert.Contains(t, input, "You wake in a forest.")
		assert.Contains(t, input, "The player chose: Go north")
		assert.Contains(t, input, "Continue the story.")
	})

	t.Run("Continuation without an option", func(t *testing.T) {
		input := buildUserInput("You wake in a forest.", "")
		assert.Contains(t, input, "You wake in a forest.")
		assert.NotContains(t, input, "The player chose")
	})
}
