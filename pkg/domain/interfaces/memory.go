package interfaces

import (
	"context"

	"github.com/kayacancode/voice-network/pkg/domain/model"
)

// MemoryStore is the vector index holding Memory records. Implementations
// share the index with other record kinds, so every write is tagged and every
// read is filtered with model.RecordTypeMemory.
type MemoryStore interface {
	// Upsert writes the memory with its embedding and metadata
	Upsert(ctx context.Context, memory *model.Memory) error

	// Query performs cosine similarity search and returns up to topK matches
	// ordered by descending score
	Query(ctx context.Context, embedding []float32, filter model.MemoryFilter, topK int) ([]*model.RecallMatch, error)

	// Get retrieves a memory by ID. Records of another type are reported as not found.
	Get(ctx context.Context, id model.MemoryID) (*model.Memory, error)

	// Delete removes a memory by ID
	Delete(ctx context.Context, id model.MemoryID) error
}
