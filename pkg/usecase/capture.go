package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/domain/model/config"
	"github.com/kayacancode/voice-network/pkg/service/embedding"
	"github.com/kayacancode/voice-network/pkg/service/extraction"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type CaptureUseCase struct {
	repo      interfaces.Repository
	extractor extraction.Service
	embedder  embedding.Service
	config    *config.PipelineConfig
	now       func() time.Time
}

func NewCaptureUseCase(repo interfaces.Repository, extractor extraction.Service, embedder embedding.Service, cfg *config.PipelineConfig, now func() time.Time) *CaptureUseCase {
	return &CaptureUseCase{
		repo:      repo,
		extractor: extractor,
		embedder:  embedder,
		config:    cfg,
		now:       now,
	}
}

// Capture extracts a person/fact pair from the input and stores it as a
// Memory when the extraction is confident enough. The memory is upserted
// before the result is returned.
func (uc *CaptureUseCase) Capture(ctx context.Context, input model.CaptureInput) (*model.CaptureResult, error) {
	logger := logging.From(ctx)

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, goerr.Wrap(ErrEmptyText, "capture text is empty")
	}
	if length := utf8.RuneCountInString(text); length < uc.config.MinTextLength {
		return nil, goerr.Wrap(ErrTextTooShort, "capture text is too short",
			goerr.V("length", length),
			goerr.V("minimum", uc.config.MinTextLength))
	}

	userID := input.UserID
	if userID == "" {
		userID = uc.config.DefaultUserID
	}

	extracted, err := uc.extractor.Extract(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract memory", goerr.V(StageKey, StageExtract))
	}

	if !extracted.Complete() || extracted.Confidence < uc.config.ConfidenceThreshold {
		var confidence float64
		if extracted != nil {
			confidence = extracted.Confidence
		}
		logger.Info("memory not captured",
			"confidence", confidence,
			"threshold", uc.config.ConfidenceThreshold,
			"user_id", userID,
		)
		return &model.CaptureResult{
			Success:    false,
			Confidence: confidence,
			Message:    model.LowConfidenceMessage,
			SSML:       plainSpeech(model.LowConfidenceMessage),
		}, nil
	}

	vector, err := uc.embedder.Embed(ctx, model.EmbeddingText(extracted.Person, extracted.Details))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed memory", goerr.V(StageKey, StageEmbed))
	}

	memory := &model.Memory{
		ID:            model.NewMemoryID(),
		PersonKey:     model.PersonKey(extracted.Person),
		PersonDisplay: extracted.Person,
		Details:       extracted.Details,
		OriginalText:  text,
		UserID:        userID,
		SessionID:     input.SessionID,
		Timestamp:     uc.captureTime(input.Timestamp).Format(time.RFC3339),
		Confidence:    extracted.Confidence,
		Context:       extracted.Context,
		Embedding:     vector,
	}

	if err := uc.repo.Memory().Upsert(ctx, memory); err != nil {
		return nil, goerr.Wrap(err, "failed to store memory",
			goerr.V(StageKey, StageStore),
			goerr.V(model.MemoryIDKey, memory.ID))
	}

	logger.Info("memory captured",
		"memory_id", memory.ID,
		"person", memory.PersonKey,
		"confidence", memory.Confidence,
		"user_id", userID,
	)

	message, ssml := buildConfirmation(memory.PersonDisplay, memory.Details)
	return &model.CaptureResult{
		Success:    true,
		Memory:     memory,
		Confidence: memory.Confidence,
		Message:    message,
		SSML:       ssml,
	}, nil
}

// captureTime uses the supplied RFC3339 timestamp when it parses, else now
func (uc *CaptureUseCase) captureTime(timestamp string) time.Time {
	if timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, timestamp); err == nil {
			return ts.UTC()
		}
	}
	return uc.now().UTC()
}
