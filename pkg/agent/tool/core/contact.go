package core

import (
	"context"
	"fmt"

	"github.com/kayacancode/voice-network/pkg/agent/tool"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const searchFailedMessage = "I had trouble searching your network. Could you try again?"

// searchContactsTool finds people in the user's imported network
type searchContactsTool struct {
	contact ContactUseCase
	session *Session
}

func (t *searchContactsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "search_contacts",
		Description: "Search your network for people matching the query; returns a conversational summary. Use this for questions like 'Who do I know that is a designer?' or 'Find engineers at Stripe'.",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "The role, company, location or industry the user is looking for",
				Required:    true,
			},
		},
	}
}

func (t *searchContactsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	tool.Update(ctx, fmt.Sprintf("Searching network: %s", query))

	result, err := t.contact.Search(ctx, model.ContactSearchInput{
		Query:  query,
		UserID: t.session.UserID,
	})
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "search_contacts failed"), "failed to search contacts")
		return map[string]any{"found": false, "message": searchFailedMessage}, nil
	}

	t.session.record(query, result.Message)

	items := make([]map[string]any, len(result.Contacts))
	for i, m := range result.Contacts {
		items[i] = map[string]any{
			"name":     m.Contact.Name,
			"title":    m.Contact.Title,
			"company":  m.Contact.Company,
			"location": m.Contact.Location,
			"industry": m.Contact.Industry,
			"score":    m.Score,
		}
	}
	return map[string]any{
		"found":    result.Success,
		"message":  result.Message,
		"contacts": items,
	}, nil
}
