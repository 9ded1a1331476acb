package story

import (
	"fmt"
	"strings"
)

// narratorSystemPrompt is the system prompt for every turn of the adventure.
// The model must answer with a single JSON object using compact keys:
// "st" is the next story segment, "ch" the list of options offered to the
// player, "img" an optional image generation prompt for the scene.
const narratorSystemPrompt = `You are the narrator of an interactive text adventure.
Write vivid second-person prose, two to four sentences per turn.
Always answer with a single JSON object and nothing else, using this exact shape:
{"st": "<next story segment>", "ch": ["<option 1>", "<option 2>", "<option 3>"], "img": "<short visual prompt for an illustration of the scene, or an empty string>"}
Offer between two and four options in "ch". Options are short imperative phrases.
Do not wrap the JSON in markdown fences. Do not add commentary.`

// buildUserInput formats the turn request for the model. An empty prior story
// means a brand-new adventure.
func buildUserInput(priorStory, chosenOption string) string {
	if strings.TrimSpace(priorStory) == "" {
		return "Begin a new adventure."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The story so far:\n%s\n", priorStory)
	if strings.TrimSpace(chosenOption) != "" {
		fmt.Fprintf(&b, "\nThe player chose: %s\n", chosenOption)
	}
	b.WriteString("\nContinue the story.")
	return b.String()
}
