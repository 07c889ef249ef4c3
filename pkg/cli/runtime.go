package cli

import (
	"context"
	"log/slog"

	"github.com/kayacancode/voice-network/pkg/cli/config"
	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/kayacancode/voice-network/pkg/service/embedding"
	"github.com/kayacancode/voice-network/pkg/service/extraction"
	"github.com/kayacancode/voice-network/pkg/usecase"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/kayacancode/voice-network/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// pipelineConfig groups the flags every pipeline-running command shares
type pipelineConfig struct {
	llm      config.LLM
	repo     config.Repository
	pipeline config.Pipeline
}

func (x *pipelineConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.llm.Flags()...)
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.pipeline.Flags()...)
	return flags
}

// runtime holds the wired use cases and the repository they share
type runtime struct {
	repo interfaces.Repository
	uc   *usecase.UseCases
}

func (r *runtime) Close(ctx context.Context) {
	safe.Close(ctx, r.repo)
}

// build wires the LLM client, repository and services into use cases. The
// caller must Close the returned runtime.
func (x *pipelineConfig) build(ctx context.Context, c *cli.Command) (*runtime, error) {
	pipelineCfg, err := x.pipeline.Configure(c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load pipeline configuration")
	}

	llmClient, err := x.llm.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize LLM client")
	}

	extractor, err := extraction.New(llmClient)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize extraction service")
	}

	embedder, err := embedding.New(llmClient, embedding.WithCache(x.llm.EmbeddingCacheSize()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize embedding service")
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}

	logging.Default().Info("Pipeline configured",
		slog.Any("llm", slog.GroupValue(x.llm.LogAttrs()...)),
		slog.Any("repository", slog.GroupValue(x.repo.LogAttrs()...)),
		slog.Any("pipeline", slog.GroupValue(x.pipeline.LogAttrs()...)),
	)

	uc := usecase.New(repo, extractor, embedder,
		usecase.WithPipelineConfig(pipelineCfg),
		usecase.WithLLMClient(llmClient),
	)

	return &runtime{repo: repo, uc: uc}, nil
}
