package usecase

import (
	"errors"

	"github.com/kayacancode/voice-network/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrEmptyText    = model.ErrEmptyText
	ErrTextTooShort = model.ErrTextTooShort
	ErrEmptyQuery   = model.ErrEmptyQuery

	// Not found errors
	ErrMemoryNotFound = errors.New("memory not found")
)

// Context keys for error values
const (
	StageKey = model.StageKey
)

// Pipeline stages attached to hard failures
const (
	StageExtract    = model.StageExtract
	StageEmbed      = model.StageEmbed
	StageStore      = model.StageStore
	StagePersonName = model.StagePersonName
	StageQuery      = model.StageQuery
)
