package firestore

import (
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/fireconf"
)

// IndexConfig returns the composite vector indexes required by
// memoryStore.Query and contactStore.Query. The person clause is optional,
// so both prefilter shapes need their own index; contacts reuse the one
// without person.
func IndexConfig(collectionPrefix string) *fireconf.Config {
	vector := fireconf.IndexField{
		Path: "embedding",
		Vector: &fireconf.VectorConfig{
			Dimension: model.EmbeddingDimension,
		},
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: collectionPrefix + defaultCollection,
				Indexes: []fireconf.Index{
					// Query without person and contact search: type, userId, embedding
					{
						Fields: []fireconf.IndexField{
							{Path: "type", Order: fireconf.OrderAscending},
							{Path: "userId", Order: fireconf.OrderAscending},
							vector,
						},
					},
					// Query with person: type, userId, person, embedding
					{
						Fields: []fireconf.IndexField{
							{Path: "type", Order: fireconf.OrderAscending},
							{Path: "userId", Order: fireconf.OrderAscending},
							{Path: "person", Order: fireconf.OrderAscending},
							vector,
						},
					},
				},
			},
		},
	}
}
