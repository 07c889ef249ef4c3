package model

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oklog/ulid/v2"
)

// ContactID identifies an imported contact
type ContactID string

// NewContactID generates a new ContactID
func NewContactID() ContactID {
	return ContactID(ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String())
}

func (x ContactID) String() string {
	return string(x)
}

// Contact is a person from the user's imported network. Contacts share the
// vector index with memories under RecordTypeContact.
type Contact struct {
	ID        ContactID
	Name      string
	Title     string
	Company   string
	Location  string
	Industry  string
	UserID    string
	Embedding []float32
}

// ProfileText returns the text embedded for a contact
func (c *Contact) ProfileText() string {
	parts := []string{c.Name}
	for _, v := range []string{c.Title, c.Company, c.Location, c.Industry} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// Validate checks the invariants a Contact must satisfy before it is stored
func (c *Contact) Validate() error {
	if c.ID == "" {
		return goerr.Wrap(ErrInvalidContact, "contact ID is empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return goerr.Wrap(ErrInvalidContact, "contact name is empty", goerr.V(ContactIDKey, c.ID))
	}
	if c.UserID == "" {
		return goerr.Wrap(ErrInvalidContact, "user ID is empty", goerr.V(ContactIDKey, c.ID))
	}
	if len(c.Embedding) != EmbeddingDimension {
		return goerr.Wrap(ErrEmbeddingDimension, "contact embedding has wrong dimension",
			goerr.V(ContactIDKey, c.ID),
			goerr.V("expected", EmbeddingDimension),
			goerr.V("actual", len(c.Embedding)),
		)
	}
	return nil
}

// Copy returns a deep copy of the contact
func (c *Contact) Copy() *Contact {
	copied := *c
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	return &copied
}

// ContactMatch is a contact found by a network search together with its
// cosine similarity and the query variation that found it
type ContactMatch struct {
	Contact *Contact
	Score   float64
	Query   string
}

// ContactSearchInput is a spoken search over the user's network
type ContactSearchInput struct {
	Query  string
	UserID string
}

// ContactSearchResult is the outcome of a network search. Contacts are
// ordered by descending score with one entry per name.
type ContactSearchResult struct {
	Success  bool
	Message  string
	SSML     string
	Contacts []*ContactMatch
}
