package interfaces

import (
	"context"

	"github.com/kayacancode/voice-network/pkg/domain/model"
)

// ContactStore reads and writes contacts in the vector index shared with
// memories. Every write is tagged and every read is filtered with
// model.RecordTypeContact.
type ContactStore interface {
	// Upsert writes the contact with its embedding and profile metadata
	Upsert(ctx context.Context, contact *model.Contact) error

	// Query performs cosine similarity search over the user's contacts and
	// returns up to topK matches ordered by descending score
	Query(ctx context.Context, embedding []float32, userID string, topK int) ([]*model.ContactMatch, error)
}
