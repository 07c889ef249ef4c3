package cli

import (
	"context"

	"github.com/kayacancode/voice-network/pkg/cli/config"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var pipelineCfg config.Pipeline
	var repoCfg config.Repository
	var checkRepository bool

	var flags []cli.Flag
	flags = append(flags, pipelineCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "check-repository",
		Usage:       "Also open the configured repository backend",
		Sources:     cli.EnvVars("VOICENET_CHECK_REPOSITORY"),
		Destination: &checkRepository,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate pipeline configuration and optionally the repository connection",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			cfg, err := pipelineCfg.Configure(c)
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}
			logger.Info("Pipeline configuration passed",
				"confidence_threshold", cfg.ConfidenceThreshold,
				"relevance_threshold", cfg.RelevanceThreshold,
				"top_k", cfg.TopK,
				"min_text_length", cfg.MinTextLength,
				"default_user_id", cfg.DefaultUserID,
			)

			if !checkRepository {
				logger.Info("Repository check skipped")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "repository check failed")
			}
			if err := repo.Close(); err != nil {
				return goerr.Wrap(err, "failed to close repository")
			}

			logger.Info("Repository check passed", "backend", repoCfg.Backend())
			return nil
		},
	}
}
