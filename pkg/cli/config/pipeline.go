package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	domainConfig "github.com/kayacancode/voice-network/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Pipeline holds the capture and recall tuning flags. Values come from the
// defaults, then the TOML file, then explicitly set flags.
type Pipeline struct {
	path                string
	confidenceThreshold float64
	relevanceThreshold  float64
	contactThreshold    float64
	topK                int
	minTextLength       int
	defaultUserID       string
}

// pipelineFile is the TOML layout of --pipeline-config
type pipelineFile struct {
	ConfidenceThreshold *float64 `toml:"confidence_threshold"`
	RelevanceThreshold  *float64 `toml:"relevance_threshold"`
	ContactThreshold    *float64 `toml:"contact_threshold"`
	TopK                *int     `toml:"top_k"`
	MinTextLength       *int     `toml:"min_text_length"`
	DefaultUserID       *string  `toml:"default_user_id"`
}

// Flags returns CLI flags for pipeline configuration
func (x *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "pipeline-config",
			Usage:       "Path to a TOML file with pipeline thresholds",
			Category:    "Pipeline",
			Sources:     cli.EnvVars("VOICENET_PIPELINE_CONFIG"),
			Destination: &x.path,
		},
		&cli.FloatFlag{
			Name:        "confidence-threshold",
			Usage:       "Minimum extraction confidence for a memory to be saved",
			Value:       domainConfig.DefaultConfidenceThreshold,
			Category:    "Pipeline",
			Sources:     cli.EnvVars("VOICENET_CONFIDENCE_THRESHOLD"),
			Destination: &x.confidenceThreshold,
		},
		&cli.FloatFlag{
			Name:        "relevance-threshold",
			Usage:       "Similarity score a memory must exceed to be recalled",
			Value:       domainConfig.DefaultRelevanceThreshold,
			Category:    "Pipeline",
			Sources:     cli.EnvVars("VOICENET_RELEVANCE_THRESHOLD"),
			Destination: &x.relevanceThreshold,
		},
		&cli.FloatFlag{
			Name:        "contact-threshold",
			Usage:       "Similarity score a contact must exceed to be found by network search",
			Value:       domainConfig.DefaultContactThreshold,
			Category:    "Pipeline",
			Sources:     cli.EnvVars("VOICENET_CONTACT_THRESHOLD"),
			Destination: &x.contactThreshold,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Maximum number of memories returned by recall",
			Value:       domainConfig.DefaultTopK,
			Category:    "Pipeline",
			Sources:     cli.EnvVars("VOICENET_TOP_K"),
			Destination: &x.topK,
		},
		&cli.IntFlag{
			Name:        "min-text-length",
			Usage:       "Minimum number of characters accepted by capture",
			Value:       domainConfig.DefaultMinTextLength,
			Category:    "Pipeline",
			Sources:     cli.EnvVars("VOICENET_MIN_TEXT_LENGTH"),
			Destination: &x.minTextLength,
		},
		&cli.StringFlag{
			Name:        "default-user-id",
			Usage:       "User ID applied when a request carries none",
			Category:    "Pipeline",
			Sources:     cli.EnvVars("VOICENET_DEFAULT_USER_ID"),
			Destination: &x.defaultUserID,
		},
	}
}

// LogAttrs returns log attributes for the pipeline configuration
func (x *Pipeline) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("path", x.path),
		slog.Float64("confidence_threshold", x.confidenceThreshold),
		slog.Float64("relevance_threshold", x.relevanceThreshold),
		slog.Float64("contact_threshold", x.contactThreshold),
		slog.Int("top_k", x.topK),
		slog.Int("min_text_length", x.minTextLength),
	}
}

// LoadPipelineFile reads pipeline thresholds from a TOML file on top of the defaults
func LoadPipelineFile(path string) (*domainConfig.PipelineConfig, error) {
	cfg := domainConfig.DefaultPipelineConfig()

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "pipeline config file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read pipeline config file", goerr.V(ConfigPathKey, path))
	}

	var file pipelineFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if file.ConfidenceThreshold != nil {
		cfg.ConfidenceThreshold = *file.ConfidenceThreshold
	}
	if file.RelevanceThreshold != nil {
		cfg.RelevanceThreshold = *file.RelevanceThreshold
	}
	if file.ContactThreshold != nil {
		cfg.ContactThreshold = *file.ContactThreshold
	}
	if file.TopK != nil {
		cfg.TopK = *file.TopK
	}
	if file.MinTextLength != nil {
		cfg.MinTextLength = *file.MinTextLength
	}
	if file.DefaultUserID != nil {
		cfg.DefaultUserID = *file.DefaultUserID
	}

	return cfg, nil
}

// Configure builds the validated pipeline configuration
func (x *Pipeline) Configure(c *cli.Command) (*domainConfig.PipelineConfig, error) {
	cfg := domainConfig.DefaultPipelineConfig()
	if x.path != "" {
		loaded, err := LoadPipelineFile(x.path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("confidence-threshold") {
		cfg.ConfidenceThreshold = x.confidenceThreshold
	}
	if c.IsSet("relevance-threshold") {
		cfg.RelevanceThreshold = x.relevanceThreshold
	}
	if c.IsSet("contact-threshold") {
		cfg.ContactThreshold = x.contactThreshold
	}
	if c.IsSet("top-k") {
		cfg.TopK = x.topK
	}
	if c.IsSet("min-text-length") {
		cfg.MinTextLength = x.minTextLength
	}
	if c.IsSet("default-user-id") {
		cfg.DefaultUserID = x.defaultUserID
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "pipeline config validation failed",
			goerr.V(ConfigPathKey, x.path), goerr.V("error", err.Error()))
	}

	return cfg, nil
}
