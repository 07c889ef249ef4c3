package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpctrl "github.com/kayacancode/voice-network/pkg/controller/http"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type mockCapture struct {
	captureFn func(ctx context.Context, input model.CaptureInput) (*model.CaptureResult, error)
	calls     int
}

func (m *mockCapture) Capture(ctx context.Context, input model.CaptureInput) (*model.CaptureResult, error) {
	m.calls++
	return m.captureFn(ctx, input)
}

type mockRecall struct {
	recallFn func(ctx context.Context, input model.RecallInput) (*model.RecallResult, error)
}

func (m *mockRecall) Recall(ctx context.Context, input model.RecallInput) (*model.RecallResult, error) {
	return m.recallFn(ctx, input)
}

type mockMemory struct {
	getFn    func(ctx context.Context, id model.MemoryID) (*model.Memory, error)
	deleteFn func(ctx context.Context, id model.MemoryID) error
}

func (m *mockMemory) GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	return m.getFn(ctx, id)
}

func (m *mockMemory) DeleteMemory(ctx context.Context, id model.MemoryID) error {
	return m.deleteFn(ctx, id)
}

var sarah = &model.Memory{
	ID:            "01JABCDEF0000000000000000",
	PersonKey:     "sarah",
	PersonDisplay: "Sarah",
	Details:       "works at Google as a software engineer",
	OriginalText:  "I met Sarah today, she works at Google as a software engineer",
	UserID:        "user-1",
	Timestamp:     "2026-03-10T12:00:00Z",
	Confidence:    0.95,
}

func doRequest(t *testing.T, s *httpctrl.Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var resp map[string]any
	if rec.Body.Len() > 0 {
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	}
	return rec, resp
}

func TestCaptureMemory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		capture := &mockCapture{
			captureFn: func(ctx context.Context, input model.CaptureInput) (*model.CaptureResult, error) {
				gt.Value(t, input).Equal(model.CaptureInput{
					Text:      "I met Sarah today, she works at Google as a software engineer",
					UserID:    "user-1",
					Timestamp: "2026-03-10T12:00:00Z",
					SessionID: "s-1",
				})
				return &model.CaptureResult{
					Success:    true,
					Memory:     sarah,
					Confidence: 0.95,
					Message:    "Got it — saved that Sarah works at Google as a software engineer.",
					SSML:       "<speak>ok</speak>",
				}, nil
			},
		}
		s := httpctrl.New(capture, &mockRecall{}, &mockMemory{})

		rec, resp := doRequest(t, s, http.MethodPost, "/api/capture-memory",
			`{"text":"I met Sarah today, she works at Google as a software engineer","userId":"user-1","timestamp":"2026-03-10T12:00:00Z","sessionId":"s-1"}`)

		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, resp["success"]).Equal(true)
		gt.Value(t, resp["memoryId"]).Equal(sarah.ID.String())
		gt.Value(t, resp["person"]).Equal("Sarah")
		gt.Value(t, resp["details"]).Equal("works at Google as a software engineer")
		gt.String(t, resp["confirmationMessage"].(string)).Contains("Got it")
		gt.Value(t, resp["ssml"]).Equal("<speak>ok</speak>")
	})

	t.Run("low confidence is a soft failure", func(t *testing.T) {
		capture := &mockCapture{
			captureFn: func(ctx context.Context, input model.CaptureInput) (*model.CaptureResult, error) {
				return &model.CaptureResult{Success: false, Confidence: 0.4, Message: "be more specific", SSML: "<speak>be more specific</speak>"}, nil
			},
		}
		s := httpctrl.New(capture, &mockRecall{}, &mockMemory{})

		rec, resp := doRequest(t, s, http.MethodPost, "/api/capture-memory", `{"text":"something vague happened"}`)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, resp["success"]).Equal(false)
		gt.Value(t, resp["confidence"]).Equal(0.4)
		gt.Value(t, resp["message"]).Equal("be more specific")
		_, hasMemoryID := resp["memoryId"]
		gt.Bool(t, hasMemoryID).False()
	})

	t.Run("validation failure", func(t *testing.T) {
		capture := &mockCapture{
			captureFn: func(ctx context.Context, input model.CaptureInput) (*model.CaptureResult, error) {
				return nil, goerr.Wrap(usecase.ErrTextTooShort, "capture text is too short")
			},
		}
		s := httpctrl.New(capture, &mockRecall{}, &mockMemory{})

		rec, resp := doRequest(t, s, http.MethodPost, "/api/capture-memory", `{"text":"hi"}`)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		gt.Value(t, resp["success"]).Equal(false)
		gt.Value(t, resp["error"]).Equal(usecase.ErrTextTooShort.Error())
	})

	t.Run("malformed body never reaches the use case", func(t *testing.T) {
		capture := &mockCapture{}
		s := httpctrl.New(capture, &mockRecall{}, &mockMemory{})

		rec, resp := doRequest(t, s, http.MethodPost, "/api/capture-memory", `{"text":`)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		gt.Value(t, resp["success"]).Equal(false)
		gt.Value(t, capture.calls).Equal(0)
	})

	t.Run("hard failure hides details", func(t *testing.T) {
		capture := &mockCapture{
			captureFn: func(ctx context.Context, input model.CaptureInput) (*model.CaptureResult, error) {
				return nil, goerr.Wrap(errors.New("quota exceeded for project 1234"), "failed to embed memory")
			},
		}
		s := httpctrl.New(capture, &mockRecall{}, &mockMemory{})

		rec, resp := doRequest(t, s, http.MethodPost, "/api/capture-memory", `{"text":"I met Sarah today"}`)
		gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
		gt.Value(t, resp["error"]).Equal("internal server error")
		gt.Bool(t, strings.Contains(rec.Body.String(), "quota")).False()
	})
}

func TestRecallMemory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		recall := &mockRecall{
			recallFn: func(ctx context.Context, input model.RecallInput) (*model.RecallResult, error) {
				gt.Value(t, input.Query).Equal("Where does she work?")
				gt.Value(t, input.PersonFilter).Equal("Sarah")
				gt.Value(t, input.Conversation).NotNil()
				gt.Array(t, input.Conversation.PriorQueries).Length(1)

				match := &model.RecallMatch{Memory: sarah, Score: 0.87}
				return &model.RecallResult{
					Success:      true,
					PersonFilter: "Sarah",
					Message:      "You mentioned Sarah works at Google as a software engineer, recently.",
					SSML:         "<speak>ok</speak>",
					Best:         match,
					Matches:      []*model.RecallMatch{match},
				}, nil
			},
		}
		s := httpctrl.New(&mockCapture{}, recall, &mockMemory{})

		rec, resp := doRequest(t, s, http.MethodPost, "/api/recall-memory",
			`{"query":"Where does she work?","personFilter":"Sarah","conversation":{"priorQueries":["Who is Sarah?"],"priorResults":["Sarah is a friend."]}}`)

		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, resp["success"]).Equal(true)
		gt.Value(t, resp["person"]).Equal("Sarah")
		gt.Value(t, resp["details"]).Equal("works at Google as a software engineer")
		gt.String(t, resp["message"].(string)).Contains("works at Google")

		memories, ok := resp["memories"].([]any)
		gt.Bool(t, ok).True()
		gt.Array(t, memories).Length(1).Required()
		first := memories[0].(map[string]any)
		gt.Value(t, first["person"]).Equal("Sarah")
		gt.Value(t, first["timestamp"]).Equal("2026-03-10T12:00:00Z")
		gt.Value(t, first["confidence"]).Equal(0.95)
		gt.Value(t, first["score"]).Equal(0.87)
	})

	t.Run("no results", func(t *testing.T) {
		recall := &mockRecall{
			recallFn: func(ctx context.Context, input model.RecallInput) (*model.RecallResult, error) {
				return &model.RecallResult{
					Success: false,
					Message: "I don't have any memories about Zorblax.",
					SSML:    "<speak>none</speak>",
					Matches: []*model.RecallMatch{},
				}, nil
			},
		}
		s := httpctrl.New(&mockCapture{}, recall, &mockMemory{})

		rec, resp := doRequest(t, s, http.MethodPost, "/api/recall-memory", `{"query":"Where does Zorblax live?"}`)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, resp["success"]).Equal(false)
		gt.String(t, resp["message"].(string)).Contains("don't have any memories about Zorblax")
		gt.Value(t, resp["memories"]).Equal([]any{})
	})

	t.Run("missing query", func(t *testing.T) {
		recall := &mockRecall{
			recallFn: func(ctx context.Context, input model.RecallInput) (*model.RecallResult, error) {
				return nil, goerr.Wrap(usecase.ErrEmptyQuery, "recall query is empty")
			},
		}
		s := httpctrl.New(&mockCapture{}, recall, &mockMemory{})

		rec, _ := doRequest(t, s, http.MethodPost, "/api/recall-memory", `{}`)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestMemoryEndpoints(t *testing.T) {
	memory := &mockMemory{
		getFn: func(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
			if id == sarah.ID {
				return sarah, nil
			}
			return nil, goerr.Wrap(usecase.ErrMemoryNotFound, "memory not found")
		},
		deleteFn: func(ctx context.Context, id model.MemoryID) error {
			if id == sarah.ID {
				return nil
			}
			return goerr.Wrap(usecase.ErrMemoryNotFound, "memory not found")
		},
	}
	s := httpctrl.New(&mockCapture{}, &mockRecall{}, memory)

	t.Run("get", func(t *testing.T) {
		rec, resp := doRequest(t, s, http.MethodGet, "/api/memories/"+sarah.ID.String(), "")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		view := resp["memory"].(map[string]any)
		gt.Value(t, view["person"]).Equal("Sarah")
		gt.Value(t, view["originalText"]).Equal(sarah.OriginalText)
		_, hasEmbedding := view["embedding"]
		gt.Bool(t, hasEmbedding).False()
	})

	t.Run("get unknown", func(t *testing.T) {
		rec, resp := doRequest(t, s, http.MethodGet, "/api/memories/unknown", "")
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
		gt.Value(t, resp["error"]).Equal(usecase.ErrMemoryNotFound.Error())
	})

	t.Run("delete", func(t *testing.T) {
		rec, resp := doRequest(t, s, http.MethodDelete, "/api/memories/"+sarah.ID.String(), "")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, resp["success"]).Equal(true)
	})

	t.Run("delete unknown", func(t *testing.T) {
		rec, _ := doRequest(t, s, http.MethodDelete, "/api/memories/unknown", "")
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestHealth(t *testing.T) {
	s := httpctrl.New(&mockCapture{}, &mockRecall{}, &mockMemory{})
	rec, resp := doRequest(t, s, http.MethodGet, "/health", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, resp["status"]).Equal("ok")
}
