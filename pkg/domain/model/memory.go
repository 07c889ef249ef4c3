package model

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oklog/ulid/v2"
)

// EmbeddingDimension is the dimension of every embedding written to or queried
// from the vector index. OpenAI text-embedding-3-small produces 1536 dimensions.
const EmbeddingDimension = 1536

// RecordType discriminates record kinds that share one vector index
type RecordType string

const (
	// RecordTypeMemory tags records written by the capture pipeline
	RecordTypeMemory RecordType = "memory"
	// RecordTypeContact tags imported network contacts
	RecordTypeContact RecordType = "contact"
)

// DefaultUserID is the owner used when a request does not name one
const DefaultUserID = "default-user"

// MemoryID is a ULID-based identifier for Memory (time-ordered with random suffix)
type MemoryID string

// NewMemoryID generates a new MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String())
}

func (x MemoryID) String() string {
	return string(x)
}

// Memory is a persisted fact about a person. It is written once by the
// capture pipeline and only read afterwards.
type Memory struct {
	ID            MemoryID
	PersonKey     string // lowercase PersonDisplay, exact-match filter dimension
	PersonDisplay string
	Details       string
	OriginalText  string
	UserID        string
	SessionID     string
	Timestamp     string // RFC3339
	Confidence    float64
	Context       string
	Embedding     []float32
}

// PersonKey normalizes a person's name into the filter key
func PersonKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EmbeddingText returns the text embedded for a memory about person
func EmbeddingText(person, details string) string {
	return fmt.Sprintf("%s: %s", person, details)
}

// CreatedAt parses Timestamp
func (m *Memory) CreatedAt() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, m.Timestamp)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid memory timestamp", goerr.V(MemoryIDKey, m.ID), goerr.V("timestamp", m.Timestamp))
	}
	return t, nil
}

// Validate checks the invariants a Memory must satisfy before it is stored
func (m *Memory) Validate() error {
	if m.ID == "" {
		return goerr.Wrap(ErrInvalidMemory, "memory ID is empty")
	}
	if m.PersonDisplay == "" || m.PersonKey == "" {
		return goerr.Wrap(ErrInvalidMemory, "person is empty", goerr.V(MemoryIDKey, m.ID))
	}
	if m.PersonKey != PersonKey(m.PersonDisplay) {
		return goerr.Wrap(ErrInvalidMemory, "person key does not match display name",
			goerr.V(MemoryIDKey, m.ID),
			goerr.V("person_key", m.PersonKey),
			goerr.V("person_display", m.PersonDisplay),
		)
	}
	if m.Details == "" {
		return goerr.Wrap(ErrInvalidMemory, "details are empty", goerr.V(MemoryIDKey, m.ID))
	}
	if m.UserID == "" {
		return goerr.Wrap(ErrInvalidMemory, "user ID is empty", goerr.V(MemoryIDKey, m.ID))
	}
	if len(m.Embedding) != EmbeddingDimension {
		return goerr.Wrap(ErrEmbeddingDimension, "memory embedding has wrong dimension",
			goerr.V(MemoryIDKey, m.ID),
			goerr.V("expected", EmbeddingDimension),
			goerr.V("actual", len(m.Embedding)),
		)
	}
	return nil
}

// Copy returns a deep copy of the memory
func (m *Memory) Copy() *Memory {
	copied := *m
	if m.Embedding != nil {
		copied.Embedding = make([]float32, len(m.Embedding))
		copy(copied.Embedding, m.Embedding)
	}
	return &copied
}
