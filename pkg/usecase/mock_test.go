package usecase_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/kayacancode/voice-network/pkg/domain/model"
)

// mockExtractor is a mock extraction.Service with call counting
type mockExtractor struct {
	extractFn    func(ctx context.Context, text string) (*model.Extraction, error)
	personNameFn func(ctx context.Context, query string, state *model.ConversationState) string

	extractCalls    atomic.Int32
	personNameCalls atomic.Int32
}

func (m *mockExtractor) Extract(ctx context.Context, text string) (*model.Extraction, error) {
	m.extractCalls.Add(1)
	if m.extractFn != nil {
		return m.extractFn(ctx, text)
	}
	return nil, nil
}

func (m *mockExtractor) ExtractPersonName(ctx context.Context, query string, state *model.ConversationState) string {
	m.personNameCalls.Add(1)
	if m.personNameFn != nil {
		return m.personNameFn(ctx, query, state)
	}
	return ""
}

// extractorReturning always extracts the given fact
func extractorReturning(person, details string, confidence float64) *mockExtractor {
	return &mockExtractor{
		extractFn: func(ctx context.Context, text string) (*model.Extraction, error) {
			return &model.Extraction{Person: person, Details: details, Confidence: confidence}, nil
		},
	}
}

// mockEmbedder is a mock embedding.Service with call counting
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)

	mu     sync.Mutex
	inputs []string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, text)
	m.mu.Unlock()

	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return axisVector(0), nil
}

func (m *mockEmbedder) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}

// axisVector returns a unit vector along the given axis
func axisVector(axis int) []float32 {
	v := make([]float32, model.EmbeddingDimension)
	v[axis%model.EmbeddingDimension] = 1
	return v
}

// keywordEmbedder puts every text mentioning a keyword on that keyword's
// axis, so texts sharing a keyword are identical and all others orthogonal
func keywordEmbedder(keywords ...string) *mockEmbedder {
	return &mockEmbedder{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			lower := strings.ToLower(text)
			for i, kw := range keywords {
				if strings.Contains(lower, strings.ToLower(kw)) {
					return axisVector(i), nil
				}
			}
			return axisVector(len(keywords)), nil
		},
	}
}

// mockMemoryStore is a mock interfaces.MemoryStore with call counting
type mockMemoryStore struct {
	upsertFn func(ctx context.Context, memory *model.Memory) error
	queryFn  func(ctx context.Context, embedding []float32, filter model.MemoryFilter, topK int) ([]*model.RecallMatch, error)
	getFn    func(ctx context.Context, id model.MemoryID) (*model.Memory, error)
	deleteFn func(ctx context.Context, id model.MemoryID) error

	mu       sync.Mutex
	upserted []*model.Memory
	filters  []model.MemoryFilter
}

func (m *mockMemoryStore) Upsert(ctx context.Context, memory *model.Memory) error {
	m.mu.Lock()
	m.upserted = append(m.upserted, memory)
	m.mu.Unlock()

	if m.upsertFn != nil {
		return m.upsertFn(ctx, memory)
	}
	return nil
}

func (m *mockMemoryStore) Query(ctx context.Context, embedding []float32, filter model.MemoryFilter, topK int) ([]*model.RecallMatch, error) {
	m.mu.Lock()
	m.filters = append(m.filters, filter)
	m.mu.Unlock()

	if m.queryFn != nil {
		return m.queryFn(ctx, embedding, filter, topK)
	}
	return nil, nil
}

func (m *mockMemoryStore) Get(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.ErrNotFound
}

func (m *mockMemoryStore) Delete(ctx context.Context, id model.MemoryID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockContactStore is a mock interfaces.ContactStore recording query arguments
type mockContactStore struct {
	upsertFn func(ctx context.Context, contact *model.Contact) error
	queryFn  func(ctx context.Context, embedding []float32, userID string, topK int) ([]*model.ContactMatch, error)

	mu      sync.Mutex
	userIDs []string
	topKs   []int
}

func (m *mockContactStore) Upsert(ctx context.Context, contact *model.Contact) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, contact)
	}
	return nil
}

func (m *mockContactStore) Query(ctx context.Context, embedding []float32, userID string, topK int) ([]*model.ContactMatch, error) {
	m.mu.Lock()
	m.userIDs = append(m.userIDs, userID)
	m.topKs = append(m.topKs, topK)
	m.mu.Unlock()

	if m.queryFn != nil {
		return m.queryFn(ctx, embedding, userID, topK)
	}
	return nil, nil
}

// mockRepository wraps mock stores as interfaces.Repository
type mockRepository struct {
	store    *mockMemoryStore
	contacts *mockContactStore
}

func (r *mockRepository) Memory() interfaces.MemoryStore {
	return r.store
}

func (r *mockRepository) Contact() interfaces.ContactStore {
	if r.contacts == nil {
		return &mockContactStore{}
	}
	return r.contacts
}

func (r *mockRepository) Close() error {
	return nil
}

// storeReturning returns a repository whose queries yield matches with the given scores
func storeReturning(scores ...float64) *mockRepository {
	return &mockRepository{
		store: &mockMemoryStore{
			queryFn: func(ctx context.Context, embedding []float32, filter model.MemoryFilter, topK int) ([]*model.RecallMatch, error) {
				matches := make([]*model.RecallMatch, 0, len(scores))
				for i, score := range scores {
					matches = append(matches, &model.RecallMatch{
						Memory: &model.Memory{
							ID:            model.MemoryID(string(rune('a' + i))),
							PersonKey:     "sarah",
							PersonDisplay: "Sarah",
							Details:       detailsForScore(score),
							UserID:        filter.UserID,
							Timestamp:     "2026-01-01T00:00:00Z",
							Confidence:    0.9,
						},
						Score: score,
					})
				}
				return matches, nil
			},
		},
	}
}

func detailsForScore(score float64) string {
	switch {
	case score >= 0.9:
		return "works at Google"
	case score >= 0.6:
		return "likes climbing"
	default:
		return "lives in Denver"
	}
}
