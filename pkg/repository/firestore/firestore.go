package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// defaultCollection is shared with other record kinds (e.g. imported contacts)
const defaultCollection = "records"

type Firestore struct {
	client  *firestore.Client
	memory  *memoryStore
	contact *contactStore
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes the records collection name, e.g. for test isolation
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.memory.collectionPrefix = prefix
		f.contact.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var (
		client *firestore.Client
		err    error
	)
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:  client,
		memory:  newMemoryStore(client),
		contact: newContactStore(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Memory() interfaces.MemoryStore {
	return f.memory
}

func (f *Firestore) Contact() interfaces.ContactStore {
	return f.contact
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
