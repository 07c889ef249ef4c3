package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// contactDoc is the Firestore document representation of model.Contact
type contactDoc struct {
	Type      model.RecordType   `firestore:"type"`
	Name      string             `firestore:"name"`
	Title     string             `firestore:"title"`
	Company   string             `firestore:"company"`
	Location  string             `firestore:"location"`
	Industry  string             `firestore:"industry"`
	UserID    string             `firestore:"userId"`
	Embedding firestore.Vector32 `firestore:"embedding"`
}

func toContactDoc(c *model.Contact) *contactDoc {
	return &contactDoc{
		Type:      model.RecordTypeContact,
		Name:      c.Name,
		Title:     c.Title,
		Company:   c.Company,
		Location:  c.Location,
		Industry:  c.Industry,
		UserID:    c.UserID,
		Embedding: firestore.Vector32(c.Embedding),
	}
}

func fromContactDoc(id string, d *contactDoc) *model.Contact {
	c := &model.Contact{
		ID:       model.ContactID(id),
		Name:     d.Name,
		Title:    d.Title,
		Company:  d.Company,
		Location: d.Location,
		Industry: d.Industry,
		UserID:   d.UserID,
	}
	if len(d.Embedding) > 0 {
		c.Embedding = []float32(d.Embedding)
	}
	return c
}

type contactStore struct {
	client           *firestore.Client
	collectionPrefix string
}

func newContactStore(client *firestore.Client) *contactStore {
	return &contactStore{client: client}
}

func (r *contactStore) records() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + defaultCollection)
}

func (r *contactStore) Upsert(ctx context.Context, contact *model.Contact) error {
	if err := contact.Validate(); err != nil {
		return goerr.Wrap(err, "refusing to store invalid contact")
	}

	if _, err := r.records().Doc(contact.ID.String()).Set(ctx, toContactDoc(contact)); err != nil {
		return goerr.Wrap(err, "failed to upsert contact", goerr.V(model.ContactIDKey, contact.ID))
	}
	return nil
}

// Query shares the (type, userId, embedding) vector index with memories.
func (r *contactStore) Query(ctx context.Context, embedding []float32, userID string, topK int) ([]*model.ContactMatch, error) {
	if err := checkQuery(embedding, topK); err != nil {
		return nil, err
	}

	vq := r.records().
		Where("type", "==", string(model.RecordTypeContact)).
		Where("userId", "==", userID).
		FindNearest("embedding", firestore.Vector32(embedding), topK, firestore.DistanceMeasureCosine,
			&firestore.FindNearestOptions{DistanceResultField: distanceField})

	iter := vq.Documents(ctx)
	defer iter.Stop()

	matches := make([]*model.ContactMatch, 0, topK)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate contact vector search results", goerr.V(model.UserIDKey, userID))
		}

		var d contactDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal contact from vector search", goerr.V(model.ContactIDKey, doc.Ref.ID))
		}

		score, err := similarity(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid contact vector search result", goerr.V(model.ContactIDKey, doc.Ref.ID))
		}

		matches = append(matches, &model.ContactMatch{
			Contact: fromContactDoc(doc.Ref.ID, &d),
			Score:   score,
		})
	}

	return matches, nil
}
