package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrInvalidMemory      = goerr.New("invalid memory")
	ErrInvalidContact     = goerr.New("invalid contact")
	ErrEmbeddingDimension = goerr.New("embedding dimension mismatch")
)

// Input validation errors
var (
	ErrEmptyText    = goerr.New("text is required")
	ErrTextTooShort = goerr.New("text is too short")
	ErrEmptyQuery   = goerr.New("query is required")
)

// ErrNotFound is returned by every MemoryStore backend for unknown records
var ErrNotFound = goerr.New("not found")

// Context keys for error values
const (
	MemoryIDKey  = "memory_id"
	ContactIDKey = "contact_id"
	UserIDKey    = "user_id"
	PersonKeyKey = "person_key"
)

// StageKey names the pipeline stage a failure belongs to
const StageKey = "stage"

// Pipeline stages
const (
	StageExtract    = "extract"
	StageEmbed      = "embed"
	StageStore      = "store"
	StagePersonName = "person_name"
	StageQuery      = "query"
)
