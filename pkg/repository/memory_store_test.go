package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/repository/chromem"
	"github.com/kayacancode/voice-network/pkg/repository/firestore"
	"github.com/kayacancode/voice-network/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

// unitEmbedding returns an embedding with the given leading components
func unitEmbedding(values ...float32) []float32 {
	emb := make([]float32, model.EmbeddingDimension)
	copy(emb, values)
	return emb
}

func newTestMemory(userID, person, details string, embedding []float32) *model.Memory {
	return &model.Memory{
		ID:            model.NewMemoryID(),
		PersonKey:     model.PersonKey(person),
		PersonDisplay: person,
		Details:       details,
		OriginalText:  fmt.Sprintf("I met %s, %s", person, details),
		UserID:        userID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Confidence:    0.9,
		Context:       "test",
		Embedding:     embedding,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) ||
		errors.Is(err, firestore.ErrNotFound) ||
		errors.Is(err, chromem.ErrNotFound)
}

func runMemoryStoreTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	// unique user per subtest keeps backends with shared state isolated
	newUserID := func() string {
		return fmt.Sprintf("user-%d", time.Now().UnixNano())
	}

	t.Run("Upsert then Get returns the memory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mem := newTestMemory(newUserID(), "Sarah", "works at Google as a software engineer", unitEmbedding(1, 0.2))
		gt.NoError(t, repo.Memory().Upsert(ctx, mem)).Required()

		got, err := repo.Memory().Get(ctx, mem.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, got.ID).Equal(mem.ID)
		gt.Value(t, got.PersonKey).Equal("sarah")
		gt.Value(t, got.PersonDisplay).Equal("Sarah")
		gt.Value(t, got.Details).Equal("works at Google as a software engineer")
		gt.Value(t, got.OriginalText).Equal(mem.OriginalText)
		gt.Value(t, got.UserID).Equal(mem.UserID)
		gt.Value(t, got.Timestamp).Equal(mem.Timestamp)
		gt.Value(t, got.Confidence).Equal(0.9)
		gt.Value(t, got.Context).Equal("test")
		gt.Array(t, got.Embedding).Length(model.EmbeddingDimension)
	})

	t.Run("Upsert rejects wrong embedding dimension", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mem := newTestMemory(newUserID(), "Sarah", "works at Google", []float32{0.1, 0.2, 0.3})
		gt.Error(t, repo.Memory().Upsert(ctx, mem)).Is(model.ErrEmbeddingDimension)
	})

	t.Run("Upsert rejects memory without person", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mem := newTestMemory(newUserID(), "", "works at Google", unitEmbedding(1))
		gt.Error(t, repo.Memory().Upsert(ctx, mem)).Is(model.ErrInvalidMemory)
	})

	t.Run("Get returns error for non-existent memory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Memory().Get(ctx, model.NewMemoryID())
		gt.Value(t, err).NotNil()
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("Delete removes existing memory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mem := newTestMemory(newUserID(), "John", "is a product manager at Microsoft", unitEmbedding(0, 1))
		gt.NoError(t, repo.Memory().Upsert(ctx, mem)).Required()
		gt.NoError(t, repo.Memory().Delete(ctx, mem.ID)).Required()

		_, err := repo.Memory().Get(ctx, mem.ID)
		gt.Value(t, err).NotNil()
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("Delete returns error for non-existent memory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Memory().Delete(ctx, model.NewMemoryID())
		gt.Value(t, err).NotNil()
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("Query returns matches ordered by score", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := newUserID()

		similar := newTestMemory(userID, "Sarah", "works at Google", unitEmbedding(0.9, 0.1))
		dissimilar := newTestMemory(userID, "John", "lives in Paris", unitEmbedding(0, 0.9, 0.1))
		mostSimilar := newTestMemory(userID, "Maria", "is a designer at Apple", unitEmbedding(1))
		for _, m := range []*model.Memory{similar, dissimilar, mostSimilar} {
			gt.NoError(t, repo.Memory().Upsert(ctx, m)).Required()
		}

		matches, err := repo.Memory().Query(ctx, unitEmbedding(1), model.MemoryFilter{UserID: userID}, 2)
		gt.NoError(t, err).Required()

		gt.Array(t, matches).Length(2).Required()
		gt.Value(t, matches[0].Memory.ID).Equal(mostSimilar.ID)
		gt.Value(t, matches[1].Memory.ID).Equal(similar.ID)
		gt.Bool(t, matches[0].Score >= matches[1].Score).True()
		gt.Bool(t, matches[0].Score > 0.99).True()
	})

	t.Run("Query filters by person key", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := newUserID()

		sarah := newTestMemory(userID, "Sarah", "works at Google", unitEmbedding(0.5, 0.5))
		john := newTestMemory(userID, "John", "works at Microsoft", unitEmbedding(1))
		gt.NoError(t, repo.Memory().Upsert(ctx, sarah)).Required()
		gt.NoError(t, repo.Memory().Upsert(ctx, john)).Required()

		matches, err := repo.Memory().Query(ctx, unitEmbedding(1), model.MemoryFilter{UserID: userID, PersonKey: "sarah"}, 5)
		gt.NoError(t, err).Required()

		gt.Array(t, matches).Length(1).Required()
		gt.Value(t, matches[0].Memory.ID).Equal(sarah.ID)
	})

	t.Run("Query isolates users", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mine := newTestMemory(newUserID(), "Sarah", "works at Google", unitEmbedding(1))
		gt.NoError(t, repo.Memory().Upsert(ctx, mine)).Required()

		matches, err := repo.Memory().Query(ctx, unitEmbedding(1), model.MemoryFilter{UserID: "someone-else"}, 5)
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(0)
	})

	t.Run("Query respects topK", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := newUserID()

		for i := 0; i < 5; i++ {
			mem := newTestMemory(userID, fmt.Sprintf("Person%d", i), "attended the meetup", unitEmbedding(float32(i+1)*0.1, 0.5))
			gt.NoError(t, repo.Memory().Upsert(ctx, mem)).Required()
		}

		matches, err := repo.Memory().Query(ctx, unitEmbedding(0.4, 0.5), model.MemoryFilter{UserID: userID}, 3)
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(3)
	})

	t.Run("Query returns empty for unknown user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		matches, err := repo.Memory().Query(ctx, unitEmbedding(1), model.MemoryFilter{UserID: newUserID()}, 5)
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(0)
	})

	t.Run("Query rejects wrong embedding dimension", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Memory().Query(ctx, []float32{1, 0}, model.MemoryFilter{UserID: newUserID()}, 5)
		gt.Error(t, err).Is(model.ErrEmbeddingDimension)
	})

	t.Run("Upsert twice with distinct IDs keeps both", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := newUserID()

		first := newTestMemory(userID, "Sarah", "works at Google", unitEmbedding(1))
		second := newTestMemory(userID, "Sarah", "works at Google", unitEmbedding(1))
		gt.NoError(t, repo.Memory().Upsert(ctx, first)).Required()
		gt.NoError(t, repo.Memory().Upsert(ctx, second)).Required()

		matches, err := repo.Memory().Query(ctx, unitEmbedding(1), model.MemoryFilter{UserID: userID}, 5)
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(2)
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix("test_"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestMemoryMemoryStore(t *testing.T) {
	runMemoryStoreTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestChromemMemoryStore(t *testing.T) {
	runMemoryStoreTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := chromem.New("")
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestChromemPersistentMemoryStore(t *testing.T) {
	runMemoryStoreTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := chromem.New(t.TempDir())
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestFirestoreMemoryStore(t *testing.T) {
	runMemoryStoreTest(t, newFirestoreRepository)
}
