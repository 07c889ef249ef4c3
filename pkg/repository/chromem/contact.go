package chromem

import (
	"context"

	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	chromem "github.com/philippgille/chromem-go"
)

// Metadata keys of a contact record; type and userId are shared with memories
const (
	keyName     = "name"
	keyTitle    = "title"
	keyCompany  = "company"
	keyLocation = "location"
	keyIndustry = "industry"
)

type contactStore struct {
	idx *index
}

func toContactMetadata(c *model.Contact) map[string]string {
	return map[string]string{
		keyType:     string(model.RecordTypeContact),
		keyName:     c.Name,
		keyTitle:    c.Title,
		keyCompany:  c.Company,
		keyLocation: c.Location,
		keyIndustry: c.Industry,
		keyUserID:   c.UserID,
	}
}

func fromContactMetadata(id string, md map[string]string, embedding []float32) *model.Contact {
	return &model.Contact{
		ID:        model.ContactID(id),
		Name:      md[keyName],
		Title:     md[keyTitle],
		Company:   md[keyCompany],
		Location:  md[keyLocation],
		Industry:  md[keyIndustry],
		UserID:    md[keyUserID],
		Embedding: embedding,
	}
}

func (r *contactStore) Upsert(ctx context.Context, contact *model.Contact) error {
	if err := contact.Validate(); err != nil {
		return goerr.Wrap(err, "refusing to store invalid contact")
	}

	embedding := make([]float32, len(contact.Embedding))
	copy(embedding, contact.Embedding)

	doc := chromem.Document{
		ID:        contact.ID.String(),
		Metadata:  toContactMetadata(contact),
		Embedding: embedding,
		Content:   contact.ProfileText(),
	}

	if err := r.idx.add(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to upsert contact", goerr.V(model.ContactIDKey, contact.ID))
	}
	return nil
}

func (r *contactStore) Query(ctx context.Context, embedding []float32, userID string, topK int) ([]*model.ContactMatch, error) {
	if err := checkQuery(embedding, topK); err != nil {
		return nil, err
	}

	where := map[string]string{
		keyType:   string(model.RecordTypeContact),
		keyUserID: userID,
	}

	results, err := r.idx.query(ctx, embedding, where, topK)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query chromem collection for contacts", goerr.V(model.UserIDKey, userID))
	}

	matches := make([]*model.ContactMatch, 0, len(results))
	for _, res := range results {
		matches = append(matches, &model.ContactMatch{
			Contact: fromContactMetadata(res.ID, res.Metadata, res.Embedding),
			Score:   float64(res.Similarity),
		})
	}
	return matches, nil
}
