package memory

import (
	"context"
	"sort"

	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type contactStore struct {
	idx *index
}

func (r *contactStore) Upsert(ctx context.Context, contact *model.Contact) error {
	if err := contact.Validate(); err != nil {
		return goerr.Wrap(err, "refusing to store invalid contact")
	}

	r.idx.mu.Lock()
	defer r.idx.mu.Unlock()

	r.idx.put(contact.ID.String(), &record{
		recordType: model.RecordTypeContact,
		contact:    contact.Copy(),
	})
	return nil
}

func (r *contactStore) Query(ctx context.Context, embedding []float32, userID string, topK int) ([]*model.ContactMatch, error) {
	if err := checkQuery(embedding, topK); err != nil {
		return nil, err
	}

	r.idx.mu.RLock()
	defer r.idx.mu.RUnlock()

	candidates := r.idx.scan(model.RecordTypeContact, func(rec *record) bool {
		return rec.contact.UserID == userID
	})

	matches := make([]*model.ContactMatch, 0, len(candidates))
	for _, rec := range candidates {
		matches = append(matches, &model.ContactMatch{
			Contact: rec.contact.Copy(),
			Score:   cosineSimilarity(embedding, rec.contact.Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}
