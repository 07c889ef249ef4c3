package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// distanceField receives the cosine distance computed by FindNearest
const distanceField = "vector_distance"

// memoryDoc is the Firestore document representation of model.Memory.
// Field names follow the metadata layout shared with other writers of the index.
type memoryDoc struct {
	Type          model.RecordType   `firestore:"type"`
	Person        string             `firestore:"person"`
	PersonDisplay string             `firestore:"personDisplay"`
	Details       string             `firestore:"details"`
	OriginalText  string             `firestore:"originalText"`
	UserID        string             `firestore:"userId"`
	SessionID     string             `firestore:"sessionId,omitempty"`
	Timestamp     string             `firestore:"timestamp"`
	Confidence    float64            `firestore:"confidence"`
	Context       string             `firestore:"context"`
	Embedding     firestore.Vector32 `firestore:"embedding"`
}

func toMemoryDoc(m *model.Memory) *memoryDoc {
	return &memoryDoc{
		Type:          model.RecordTypeMemory,
		Person:        m.PersonKey,
		PersonDisplay: m.PersonDisplay,
		Details:       m.Details,
		OriginalText:  m.OriginalText,
		UserID:        m.UserID,
		SessionID:     m.SessionID,
		Timestamp:     m.Timestamp,
		Confidence:    m.Confidence,
		Context:       m.Context,
		Embedding:     firestore.Vector32(m.Embedding),
	}
}

func fromMemoryDoc(id string, d *memoryDoc) *model.Memory {
	m := &model.Memory{
		ID:            model.MemoryID(id),
		PersonKey:     d.Person,
		PersonDisplay: d.PersonDisplay,
		Details:       d.Details,
		OriginalText:  d.OriginalText,
		UserID:        d.UserID,
		SessionID:     d.SessionID,
		Timestamp:     d.Timestamp,
		Confidence:    d.Confidence,
		Context:       d.Context,
	}
	if len(d.Embedding) > 0 {
		m.Embedding = []float32(d.Embedding)
	}
	return m
}

type memoryStore struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMemoryStore(client *firestore.Client) *memoryStore {
	return &memoryStore{client: client}
}

func (r *memoryStore) records() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + defaultCollection)
}

func (r *memoryStore) Upsert(ctx context.Context, mem *model.Memory) error {
	if err := mem.Validate(); err != nil {
		return goerr.Wrap(err, "refusing to store invalid memory")
	}

	docRef := r.records().Doc(mem.ID.String())
	if _, err := docRef.Set(ctx, toMemoryDoc(mem)); err != nil {
		return goerr.Wrap(err, "failed to upsert memory", goerr.V(model.MemoryIDKey, mem.ID))
	}

	return nil
}

func (r *memoryStore) Get(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	doc, err := r.records().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get memory", goerr.V(model.MemoryIDKey, id))
	}

	var d memoryDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal memory", goerr.V(model.MemoryIDKey, id))
	}
	if d.Type != model.RecordTypeMemory {
		return nil, goerr.Wrap(ErrNotFound, "record is not a memory",
			goerr.V(model.MemoryIDKey, id),
			goerr.V("type", d.Type),
		)
	}

	return fromMemoryDoc(doc.Ref.ID, &d), nil
}

func (r *memoryStore) Delete(ctx context.Context, id model.MemoryID) error {
	// Get enforces the record type before anything is removed
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	if _, err := r.records().Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.V(model.MemoryIDKey, id))
	}

	return nil
}

// Query requires a composite vector index on (type, userId[, person], embedding).
func (r *memoryStore) Query(ctx context.Context, embedding []float32, filter model.MemoryFilter, topK int) ([]*model.RecallMatch, error) {
	if err := checkQuery(embedding, topK); err != nil {
		return nil, err
	}

	q := r.records().
		Where("type", "==", string(model.RecordTypeMemory)).
		Where("userId", "==", filter.UserID)
	if filter.PersonKey != "" {
		q = q.Where("person", "==", filter.PersonKey)
	}

	vq := q.FindNearest("embedding", firestore.Vector32(embedding), topK, firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{DistanceResultField: distanceField})

	iter := vq.Documents(ctx)
	defer iter.Stop()

	matches := make([]*model.RecallMatch, 0, topK)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memory vector search results",
				goerr.V(model.UserIDKey, filter.UserID),
				goerr.V(model.PersonKeyKey, filter.PersonKey),
			)
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory from vector search", goerr.V(model.MemoryIDKey, doc.Ref.ID))
		}

		score, err := similarity(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid memory vector search result", goerr.V(model.MemoryIDKey, doc.Ref.ID))
		}

		matches = append(matches, &model.RecallMatch{
			Memory: fromMemoryDoc(doc.Ref.ID, &d),
			Score:  score,
		})
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

// similarity reads the cosine distance FindNearest wrote into the result
func similarity(doc *firestore.DocumentSnapshot) (float64, error) {
	distance, err := doc.DataAt(distanceField)
	if err != nil {
		return 0, goerr.Wrap(err, "vector search result has no distance")
	}
	d64, ok := distance.(float64)
	if !ok {
		return 0, goerr.New("vector search distance is not a number", goerr.V("distance", distance))
	}
	// cosine distance is 1 - cosine similarity
	return 1 - d64, nil
}
