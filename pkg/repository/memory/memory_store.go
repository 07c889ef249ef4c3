package memory

import (
	"context"
	"sort"

	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type memoryStore struct {
	idx *index
}

func (r *memoryStore) Upsert(ctx context.Context, mem *model.Memory) error {
	if err := mem.Validate(); err != nil {
		return goerr.Wrap(err, "refusing to store invalid memory")
	}

	r.idx.mu.Lock()
	defer r.idx.mu.Unlock()

	r.idx.put(mem.ID.String(), &record{
		recordType: model.RecordTypeMemory,
		memory:     mem.Copy(),
	})
	return nil
}

func (r *memoryStore) Get(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	r.idx.mu.RLock()
	defer r.idx.mu.RUnlock()

	rec, exists := r.idx.records[id.String()]
	if !exists || rec.recordType != model.RecordTypeMemory {
		return nil, goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, id))
	}

	return rec.memory.Copy(), nil
}

func (r *memoryStore) Delete(ctx context.Context, id model.MemoryID) error {
	r.idx.mu.Lock()
	defer r.idx.mu.Unlock()

	rec, exists := r.idx.records[id.String()]
	if !exists || rec.recordType != model.RecordTypeMemory {
		return goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, id))
	}

	delete(r.idx.records, id.String())
	return nil
}

func (r *memoryStore) Query(ctx context.Context, embedding []float32, filter model.MemoryFilter, topK int) ([]*model.RecallMatch, error) {
	if err := checkQuery(embedding, topK); err != nil {
		return nil, err
	}

	r.idx.mu.RLock()
	defer r.idx.mu.RUnlock()

	candidates := r.idx.scan(model.RecordTypeMemory, func(rec *record) bool {
		if rec.memory.UserID != filter.UserID {
			return false
		}
		return filter.PersonKey == "" || rec.memory.PersonKey == filter.PersonKey
	})

	matches := make([]*model.RecallMatch, 0, len(candidates))
	for _, rec := range candidates {
		matches = append(matches, &model.RecallMatch{
			Memory: rec.memory.Copy(),
			Score:  cosineSimilarity(embedding, rec.memory.Embedding),
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

func checkQuery(embedding []float32, topK int) error {
	if len(embedding) != model.EmbeddingDimension {
		return goerr.Wrap(model.ErrEmbeddingDimension, "query embedding has wrong dimension",
			goerr.V("expected", model.EmbeddingDimension),
			goerr.V("actual", len(embedding)),
		)
	}
	if topK <= 0 {
		return goerr.New("topK must be positive", goerr.V("topK", topK))
	}
	return nil
}
