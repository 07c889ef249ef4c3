package extraction

import (
	"context"

	"github.com/kayacancode/voice-network/pkg/domain/model"
)

// Service pulls structured data out of transcribed speech with a language model
type Service interface {
	// Extract returns the person/fact pair stated in text. It returns nil
	// without error when the model output is missing or malformed. When the
	// model names no person the extraction is returned with empty fields and
	// the model's confidence. An error is returned only when the model call
	// itself fails.
	Extract(ctx context.Context, text string) (*model.Extraction, error)

	// ExtractPersonName returns the person a recall query is about, or an
	// empty string when no single person is named. Failures are logged and
	// reported as an empty string.
	ExtractPersonName(ctx context.Context, query string, state *model.ConversationState) string
}

// llmExtraction is the structured output from the LLM
type llmExtraction struct {
	Person     string  `json:"person"`
	Details    string  `json:"details"`
	Confidence float64 `json:"confidence"`
	Context    *string `json:"context"`
}
