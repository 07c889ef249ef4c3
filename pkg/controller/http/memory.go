package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/usecase"
	"github.com/kayacancode/voice-network/pkg/utils/errutil"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/kayacancode/voice-network/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

var errInvalidBody = errors.New("request body must be a JSON object")

type captureRequest struct {
	Text      string `json:"text"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
	SessionID string `json:"sessionId"`
}

type captureResponse struct {
	Success             bool    `json:"success"`
	MemoryID            string  `json:"memoryId,omitempty"`
	Person              string  `json:"person,omitempty"`
	Details             string  `json:"details,omitempty"`
	Confidence          float64 `json:"confidence"`
	ConfirmationMessage string  `json:"confirmationMessage,omitempty"`
	Message             string  `json:"message,omitempty"`
	SSML                string  `json:"ssml"`
}

type recallRequest struct {
	Query        string                   `json:"query"`
	UserID       string                   `json:"userId"`
	PersonFilter string                   `json:"personFilter"`
	Conversation *model.ConversationState `json:"conversation"`
}

type recallMatchResponse struct {
	ID         string  `json:"id"`
	Person     string  `json:"person"`
	Details    string  `json:"details"`
	Timestamp  string  `json:"timestamp"`
	Confidence float64 `json:"confidence"`
	Score      float64 `json:"score"`
}

type recallResponse struct {
	Success  bool                  `json:"success"`
	Message  string                `json:"message"`
	SSML     string                `json:"ssml"`
	Memories []recallMatchResponse `json:"memories"`
	Person   string                `json:"person,omitempty"`
	Details  string                `json:"details,omitempty"`
}

type memoryView struct {
	ID           string  `json:"id"`
	Person       string  `json:"person"`
	Details      string  `json:"details"`
	OriginalText string  `json:"originalText"`
	UserID       string  `json:"userId"`
	SessionID    string  `json:"sessionId,omitempty"`
	Timestamp    string  `json:"timestamp"`
	Confidence   float64 `json:"confidence"`
	Context      string  `json:"context,omitempty"`
}

type memoryResponse struct {
	Success bool        `json:"success"`
	Memory  *memoryView `json:"memory,omitempty"`
}

func (s *Server) captureMemoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req captureRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	result, err := s.capture.Capture(ctx, model.CaptureInput{
		Text:      req.Text,
		UserID:    req.UserID,
		Timestamp: req.Timestamp,
		SessionID: req.SessionID,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	resp := captureResponse{
		Success:    result.Success,
		Confidence: result.Confidence,
		SSML:       result.SSML,
	}
	if result.Success && result.Memory != nil {
		resp.MemoryID = result.Memory.ID.String()
		resp.Person = result.Memory.PersonDisplay
		resp.Details = result.Memory.Details
		resp.ConfirmationMessage = result.Message
	} else {
		resp.Message = result.Message
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

func (s *Server) recallMemoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req recallRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	result, err := s.recall.Recall(ctx, model.RecallInput{
		Query:        req.Query,
		UserID:       req.UserID,
		PersonFilter: req.PersonFilter,
		Conversation: req.Conversation,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	resp := recallResponse{
		Success:  result.Success,
		Message:  result.Message,
		SSML:     result.SSML,
		Memories: make([]recallMatchResponse, 0, len(result.Matches)),
	}
	for _, m := range result.Matches {
		resp.Memories = append(resp.Memories, recallMatchResponse{
			ID:         m.Memory.ID.String(),
			Person:     m.Memory.PersonDisplay,
			Details:    m.Memory.Details,
			Timestamp:  m.Memory.Timestamp,
			Confidence: m.Memory.Confidence,
			Score:      m.Score,
		})
	}
	if result.Success && result.Best != nil {
		resp.Person = result.Best.Memory.PersonDisplay
		resp.Details = result.Best.Memory.Details
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

func (s *Server) getMemoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := model.MemoryID(chi.URLParam(r, "id"))

	memory, err := s.memory.GetMemory(ctx, id)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	writeJSON(ctx, w, http.StatusOK, memoryResponse{
		Success: true,
		Memory: &memoryView{
			ID:           memory.ID.String(),
			Person:       memory.PersonDisplay,
			Details:      memory.Details,
			OriginalText: memory.OriginalText,
			UserID:       memory.UserID,
			SessionID:    memory.SessionID,
			Timestamp:    memory.Timestamp,
			Confidence:   memory.Confidence,
			Context:      memory.Context,
		},
	})
}

func (s *Server) deleteMemoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := model.MemoryID(chi.URLParam(r, "id"))

	if err := s.memory.DeleteMemory(ctx, id); err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	logging.From(ctx).Info("memory deleted", "memory_id", id)
	writeJSON(ctx, w, http.StatusOK, memoryResponse{Success: true})
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrEmptyText),
		errors.Is(err, usecase.ErrTextTooShort),
		errors.Is(err, usecase.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrMemoryNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return goerr.Wrap(errInvalidBody, "failed to decode request body", goerr.V("cause", err.Error()))
	}
	return nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}
