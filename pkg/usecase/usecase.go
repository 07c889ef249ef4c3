package usecase

import (
	"time"

	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/kayacancode/voice-network/pkg/domain/model/config"
	"github.com/kayacancode/voice-network/pkg/service/embedding"
	"github.com/kayacancode/voice-network/pkg/service/extraction"
	"github.com/m-mizutani/gollem"
)

type UseCases struct {
	repo           interfaces.Repository
	extractor      extraction.Service
	embedder       embedding.Service
	llmClient      gollem.LLMClient
	pipelineConfig *config.PipelineConfig
	now            func() time.Time
	Capture        *CaptureUseCase
	Recall         *RecallUseCase
	Memory         *MemoryUseCase
	Contact        *ContactUseCase
	Assistant      *AssistantUseCase
}

type Option func(*UseCases)

func WithPipelineConfig(cfg *config.PipelineConfig) Option {
	return func(uc *UseCases) {
		uc.pipelineConfig = cfg
	}
}

// WithLLMClient enables the conversational assistant
func WithLLMClient(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = client
	}
}

// WithClock replaces the time source used for timestamps and recency phrasing
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, extractor extraction.Service, embedder embedding.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		extractor: extractor,
		embedder:  embedder,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.pipelineConfig == nil {
		uc.pipelineConfig = config.DefaultPipelineConfig()
	}

	uc.Capture = NewCaptureUseCase(repo, extractor, embedder, uc.pipelineConfig, uc.now)
	uc.Recall = NewRecallUseCase(repo, extractor, embedder, uc.pipelineConfig, uc.now)
	uc.Memory = NewMemoryUseCase(repo)
	uc.Contact = NewContactUseCase(repo, embedder, uc.pipelineConfig)
	uc.Assistant = NewAssistantUseCase(uc.llmClient, uc.Capture, uc.Recall, uc.Memory, uc.Contact, uc.now)

	return uc
}

// DefaultUserID returns the user applied to requests that carry none
func (uc *UseCases) DefaultUserID() string {
	return uc.pipelineConfig.DefaultUserID
}
