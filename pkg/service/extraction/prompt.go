package extraction

import (
	"fmt"
	"strings"

	"github.com/kayacancode/voice-network/pkg/domain/model"
)

// personNameAbsent is what the model answers when no person is named
const personNameAbsent = "NONE"

// buildExtractionPrompt creates the fixed system prompt for fact extraction
func buildExtractionPrompt() string {
	var sb strings.Builder

	sb.WriteString("You extract facts about people from short transcribed voice notes. The text may contain speech recognition errors.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Identify the single person the statement is mainly about.\n")
	sb.WriteString("2. Return a JSON object with:\n")
	sb.WriteString("   - person: the person's name as spoken (e.g. \"Sarah\", \"John Smith\")\n")
	sb.WriteString("   - details: a concise fact about them that reads naturally after their name (e.g. \"works at Google as a software engineer\")\n")
	sb.WriteString("   - confidence: a number between 0 and 1 for how certain you are that this is a valid, meaningful fact about a real person\n")
	sb.WriteString("   - context: an optional short note such as where or when they met\n")
	sb.WriteString("3. If the text does not name an identifiable person, still return the object with an empty person and confidence 0.\n")
	sb.WriteString("4. Return only the JSON object.\n")

	return sb.String()
}

// buildPersonNamePrompt creates the system prompt for recall-query name extraction
func buildPersonNamePrompt() string {
	var sb strings.Builder

	sb.WriteString("You read questions about people the user has met and return the name of the person the question is about.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Answer with the person's name only, exactly as spoken, with no punctuation or explanation.\n")
	fmt.Fprintf(&sb, "2. If the question does not name a single specific person, answer %s.\n", personNameAbsent)
	sb.WriteString("3. If the question refers to someone with a pronoun, use the conversation history to resolve who it is.\n")

	return sb.String()
}

// buildPersonNameInput creates the user prompt with optional conversation history
func buildPersonNameInput(query string, state *model.ConversationState) string {
	if state.IsEmpty() {
		return query
	}

	var sb strings.Builder
	sb.WriteString("## Conversation history:\n\n")
	if state.Context != "" {
		fmt.Fprintf(&sb, "Context: %s\n", state.Context)
	}
	for i, q := range state.PriorQueries {
		fmt.Fprintf(&sb, "- Question: %s\n", q)
		if i < len(state.PriorResults) {
			fmt.Fprintf(&sb, "  Answer: %s\n", state.PriorResults[i])
		}
	}
	sb.WriteString("\n## Question:\n\n")
	sb.WriteString(query)
	sb.WriteString("\n")

	return sb.String()
}
