package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// LLM holds configuration for the completion and embedding provider
type LLM struct {
	provider       string
	openaiAPIKey   string
	openaiModel    string
	geminiProject  string
	geminiLocation string
	cacheSize      int64
}

// Flags returns CLI flags for LLM configuration
func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider for extraction and embeddings (openai, gemini)",
			Value:       ProviderOpenAI,
			Category:    "LLM",
			Sources:     cli.EnvVars("VOICENET_LLM_PROVIDER"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("VOICENET_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI chat model",
			Value:       "gpt-4o-mini",
			Category:    "LLM",
			Sources:     cli.EnvVars("VOICENET_OPENAI_MODEL"),
			Destination: &x.openaiModel,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Category:    "LLM",
			Sources:     cli.EnvVars("VOICENET_GEMINI_PROJECT"),
			Destination: &x.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Category:    "LLM",
			Sources:     cli.EnvVars("VOICENET_GEMINI_LOCATION"),
			Destination: &x.geminiLocation,
		},
		&cli.Int64Flag{
			Name:        "embedding-cache-size",
			Usage:       "Number of embeddings kept in memory (0 disables the cache)",
			Category:    "LLM",
			Sources:     cli.EnvVars("VOICENET_EMBEDDING_CACHE_SIZE"),
			Destination: &x.cacheSize,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration
func (x *LLM) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("provider", x.provider),
		slog.Int64("embedding_cache_size", x.cacheSize),
	}
	switch x.provider {
	case ProviderOpenAI:
		attrs = append(attrs,
			slog.String("model", x.openaiModel),
			slog.Bool("api_key_set", x.openaiAPIKey != ""),
		)
	case ProviderGemini:
		attrs = append(attrs,
			slog.String("project_id", x.geminiProject),
			slog.String("location", x.geminiLocation),
		)
	}
	return attrs
}

// EmbeddingCacheSize returns the configured embedding cache capacity
func (x *LLM) EmbeddingCacheSize() int64 {
	return x.cacheSize
}

// Configure creates the LLM client for the selected provider
func (x *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch x.provider {
	case ProviderOpenAI:
		if x.openaiAPIKey == "" {
			return nil, goerr.Wrap(ErrMissingOption, "openai-api-key is required for openai provider",
				goerr.V(OptionKey, "openai-api-key"))
		}
		client, err := openai.New(ctx, x.openaiAPIKey, openai.WithModel(x.openaiModel))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	case ProviderGemini:
		if x.geminiProject == "" {
			return nil, goerr.Wrap(ErrMissingOption, "gemini-project is required for gemini provider",
				goerr.V(OptionKey, "gemini-project"))
		}
		client, err := gemini.New(ctx, x.geminiProject, x.geminiLocation)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid llm provider", goerr.V("provider", x.provider))
	}
}
