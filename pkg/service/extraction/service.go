package extraction

import (
	"context"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// maxPersonNameWords bounds how long a name answer may be before it is
// treated as the model talking instead of naming someone
const maxPersonNameWords = 5

// extractionTemperature keeps extraction close to deterministic
const extractionTemperature = 0.1

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new extraction service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Extract analyzes a transcript and returns the stated person/fact pair
func (c *client) Extract(ctx context.Context, text string) (*model.Extraction, error) {
	logger := logging.From(ctx)

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildExtractionPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(text)},
		gollem.WithTemperature(extractionTemperature))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}

	if resp == nil || len(resp.Texts) == 0 || strings.TrimSpace(strings.Join(resp.Texts, "")) == "" {
		logger.Warn("extraction returned no content")
		return nil, nil
	}
	raw := strings.Join(resp.Texts, "")

	parsed, err := parseExtraction(raw)
	if err != nil {
		logger.Warn("extraction output rejected", "error", err, "response", raw)
		return nil, nil
	}

	result := &model.Extraction{
		Person:     strings.TrimSpace(parsed.Person),
		Details:    strings.TrimSpace(parsed.Details),
		Confidence: parsed.Confidence,
	}
	if !result.Complete() {
		logger.Debug("extraction found no person or details", "confidence", parsed.Confidence)
	}
	if parsed.Context != nil {
		result.Context = strings.TrimSpace(*parsed.Context)
	}

	return result, nil
}

// parseExtraction validates the raw model output against the schema and decodes it
func parseExtraction(raw string) (*llmExtraction, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, goerr.Wrap(err, "extraction output is not JSON")
	}
	if err := extractionSchema.Validate(doc); err != nil {
		return nil, goerr.Wrap(err, "extraction output does not match schema")
	}

	var parsed llmExtraction
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode extraction output")
	}
	return &parsed, nil
}

// ExtractPersonName asks the model which person a recall query is about
func (c *client) ExtractPersonName(ctx context.Context, query string, state *model.ConversationState) string {
	logger := logging.From(ctx)

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(buildPersonNamePrompt()),
	)
	if err != nil {
		logger.Warn("person name extraction unavailable",
			model.StageKey, model.StagePersonName,
			"error", goerr.Wrap(err, "failed to create LLM session"))
		return ""
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(buildPersonNameInput(query, state))},
		gollem.WithTemperature(extractionTemperature))
	if err != nil {
		logger.Warn("person name extraction failed",
			model.StageKey, model.StagePersonName,
			"error", goerr.Wrap(err, "failed to generate content from LLM"))
		return ""
	}
	if resp == nil {
		return ""
	}

	return normalizePersonName(strings.Join(resp.Texts, ""))
}

// normalizePersonName maps the model's answer to a name or the empty string
func normalizePersonName(answer string) string {
	name := strings.TrimFunc(answer, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if name == "" || strings.EqualFold(name, personNameAbsent) {
		return ""
	}
	if len(strings.Fields(name)) > maxPersonNameWords {
		return ""
	}
	return name
}
