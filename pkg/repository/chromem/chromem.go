package chromem

import (
	"context"
	"strconv"
	"sync"

	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "records"

// Metadata keys of a memory record
const (
	keyType          = "type"
	keyPerson        = "person"
	keyPersonDisplay = "personDisplay"
	keyDetails       = "details"
	keyOriginalText  = "originalText"
	keyUserID        = "userId"
	keySessionID     = "sessionId"
	keyTimestamp     = "timestamp"
	keyConfidence    = "confidence"
	keyContext       = "context"
)

var ErrNotFound = model.ErrNotFound

// Chromem is an embedded vector index backend built on chromem-go
type Chromem struct {
	db      *chromem.DB
	memory  *memoryStore
	contact *contactStore
}

var _ interfaces.Repository = &Chromem{}

// New creates a chromem backend. An empty path keeps everything in memory,
// otherwise the index is persisted under path.
func New(path string) (*Chromem, error) {
	db := chromem.NewDB()
	if path != "" {
		persistent, err := chromem.NewPersistentDB(path, true)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open chromem database", goerr.V("path", path))
		}
		db = persistent
	}

	// Embeddings are always provided by the caller, so no embedding func is set
	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create chromem collection", goerr.V("collection", collectionName))
	}

	idx := &index{col: col}
	return &Chromem{
		db:      db,
		memory:  &memoryStore{idx: idx},
		contact: &contactStore{idx: idx},
	}, nil
}

func (c *Chromem) Memory() interfaces.MemoryStore {
	return c.memory
}

func (c *Chromem) Contact() interfaces.ContactStore {
	return c.contact
}

func (c *Chromem) Close() error {
	return nil
}

// index is the collection shared by every store of one backend.
// chromem-go rejects queries asking for more results than it holds;
// the lock keeps Count and QueryEmbedding consistent with concurrent writes.
type index struct {
	mu  sync.RWMutex
	col *chromem.Collection
}

// query runs a similarity search for at most topK documents matching where
func (x *index) query(ctx context.Context, embedding []float32, where map[string]string, topK int) ([]chromem.Result, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	n := min(topK, x.col.Count())
	if n == 0 {
		return nil, nil
	}

	query := make([]float32, len(embedding))
	copy(query, embedding)

	return x.col.QueryEmbedding(ctx, query, n, where, nil)
}

func (x *index) add(ctx context.Context, doc chromem.Document) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.col.AddDocument(ctx, doc)
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

type memoryStore struct {
	idx *index
}

func toMetadata(m *model.Memory) map[string]string {
	return map[string]string{
		keyType:          string(model.RecordTypeMemory),
		keyPerson:        m.PersonKey,
		keyPersonDisplay: m.PersonDisplay,
		keyDetails:       m.Details,
		keyOriginalText:  m.OriginalText,
		keyUserID:        m.UserID,
		keySessionID:     m.SessionID,
		keyTimestamp:     m.Timestamp,
		keyConfidence:    strconv.FormatFloat(m.Confidence, 'f', -1, 64),
		keyContext:       m.Context,
	}
}

func fromMetadata(id string, md map[string]string, embedding []float32) *model.Memory {
	// an unparsable confidence degrades to zero rather than hiding the record
	confidence, _ := strconv.ParseFloat(md[keyConfidence], 64)
	return &model.Memory{
		ID:            model.MemoryID(id),
		PersonKey:     md[keyPerson],
		PersonDisplay: md[keyPersonDisplay],
		Details:       md[keyDetails],
		OriginalText:  md[keyOriginalText],
		UserID:        md[keyUserID],
		SessionID:     md[keySessionID],
		Timestamp:     md[keyTimestamp],
		Confidence:    confidence,
		Context:       md[keyContext],
		Embedding:     embedding,
	}
}

func (r *memoryStore) Upsert(ctx context.Context, mem *model.Memory) error {
	if err := mem.Validate(); err != nil {
		return goerr.Wrap(err, "refusing to store invalid memory")
	}

	embedding := make([]float32, len(mem.Embedding))
	copy(embedding, mem.Embedding)

	doc := chromem.Document{
		ID:        mem.ID.String(),
		Metadata:  toMetadata(mem),
		Embedding: embedding,
		Content:   model.EmbeddingText(mem.PersonDisplay, mem.Details),
	}

	if err := r.idx.add(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to upsert memory", goerr.V(model.MemoryIDKey, mem.ID))
	}
	return nil
}

func (r *memoryStore) Get(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	r.idx.mu.RLock()
	defer r.idx.mu.RUnlock()

	doc, err := r.idx.col.GetByID(ctx, id.String())
	if err != nil {
		return nil, goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, id), goerr.V("cause", err.Error()))
	}
	if doc.Metadata[keyType] != string(model.RecordTypeMemory) {
		return nil, goerr.Wrap(ErrNotFound, "record is not a memory",
			goerr.V(model.MemoryIDKey, id),
			goerr.V("type", doc.Metadata[keyType]),
		)
	}

	return fromMetadata(doc.ID, doc.Metadata, doc.Embedding), nil
}

func (r *memoryStore) Delete(ctx context.Context, id model.MemoryID) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	r.idx.mu.Lock()
	defer r.idx.mu.Unlock()

	if err := r.idx.col.Delete(ctx, nil, nil, id.String()); err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.V(model.MemoryIDKey, id))
	}
	return nil
}

func (r *memoryStore) Query(ctx context.Context, embedding []float32, filter model.MemoryFilter, topK int) ([]*model.RecallMatch, error) {
	if err := checkQuery(embedding, topK); err != nil {
		return nil, err
	}

	where := map[string]string{
		keyType:   string(model.RecordTypeMemory),
		keyUserID: filter.UserID,
	}
	if filter.PersonKey != "" {
		where[keyPerson] = filter.PersonKey
	}

	results, err := r.idx.query(ctx, embedding, where, topK)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query chromem collection",
			goerr.V(model.UserIDKey, filter.UserID),
			goerr.V(model.PersonKeyKey, filter.PersonKey),
		)
	}

	matches := make([]*model.RecallMatch, 0, len(results))
	for _, res := range results {
		matches = append(matches, &model.RecallMatch{
			Memory: fromMetadata(res.ID, res.Metadata, res.Embedding),
			Score:  float64(res.Similarity),
		})
	}
	return matches, nil
}
