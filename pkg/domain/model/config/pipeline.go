package config

import (
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Default pipeline tuning values
const (
	DefaultConfidenceThreshold = 0.7
	DefaultRelevanceThreshold  = 0.3
	DefaultContactThreshold    = 0.25
	DefaultTopK                = 5
	DefaultMinTextLength       = 10
)

// PipelineConfig holds the capture and recall tuning values
type PipelineConfig struct {
	// ConfidenceThreshold is the minimum extraction confidence that is persisted (inclusive)
	ConfidenceThreshold float64
	// RelevanceThreshold is the score a match must exceed to be returned (exclusive)
	RelevanceThreshold float64
	// ContactThreshold is the score a contact must exceed to be returned (exclusive)
	ContactThreshold float64
	TopK             int
	MinTextLength    int
	DefaultUserID    string
}

// DefaultPipelineConfig returns the standard thresholds
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		RelevanceThreshold:  DefaultRelevanceThreshold,
		ContactThreshold:    DefaultContactThreshold,
		TopK:                DefaultTopK,
		MinTextLength:       DefaultMinTextLength,
		DefaultUserID:       model.DefaultUserID,
	}
}

// Validate checks if the PipelineConfig is valid
func (c *PipelineConfig) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return goerr.New("confidence threshold must be between 0 and 1", goerr.V("value", c.ConfidenceThreshold))
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1 {
		return goerr.New("relevance threshold must be between 0 and 1", goerr.V("value", c.RelevanceThreshold))
	}
	if c.ContactThreshold < 0 || c.ContactThreshold > 1 {
		return goerr.New("contact threshold must be between 0 and 1", goerr.V("value", c.ContactThreshold))
	}
	if c.TopK < 1 {
		return goerr.New("topK must be at least 1", goerr.V("value", c.TopK))
	}
	if c.MinTextLength < 0 {
		return goerr.New("minimum text length must not be negative", goerr.V("value", c.MinTextLength))
	}
	if c.DefaultUserID == "" {
		return goerr.New("default user ID is required")
	}
	return nil
}
