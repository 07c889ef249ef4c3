package http

import (
	"net/http"

	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/utils/errutil"
)

type searchContactsRequest struct {
	Query  string `json:"query"`
	UserID string `json:"userId"`
}

type contactMatchResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Title    string  `json:"title,omitempty"`
	Company  string  `json:"company,omitempty"`
	Location string  `json:"location,omitempty"`
	Industry string  `json:"industry,omitempty"`
	Score    float64 `json:"score"`
}

type searchContactsResponse struct {
	Success  bool                   `json:"success"`
	Message  string                 `json:"message"`
	SSML     string                 `json:"ssml"`
	Contacts []contactMatchResponse `json:"contacts"`
}

func (s *Server) searchContactsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req searchContactsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	result, err := s.contact.Search(ctx, model.ContactSearchInput{
		Query:  req.Query,
		UserID: req.UserID,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	resp := searchContactsResponse{
		Success:  result.Success,
		Message:  result.Message,
		SSML:     result.SSML,
		Contacts: make([]contactMatchResponse, 0, len(result.Contacts)),
	}
	for _, m := range result.Contacts {
		resp.Contacts = append(resp.Contacts, contactMatchResponse{
			ID:       m.Contact.ID.String(),
			Name:     m.Contact.Name,
			Title:    m.Contact.Title,
			Company:  m.Contact.Company,
			Location: m.Contact.Location,
			Industry: m.Contact.Industry,
			Score:    m.Score,
		})
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
