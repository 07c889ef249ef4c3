package core

import (
	"context"
	"sync"

	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/gollem"
)

// CaptureUseCase stores facts about people from transcribed speech
type CaptureUseCase interface {
	Capture(ctx context.Context, input model.CaptureInput) (*model.CaptureResult, error)
}

// RecallUseCase answers questions about stored memories
type RecallUseCase interface {
	Recall(ctx context.Context, input model.RecallInput) (*model.RecallResult, error)
}

// MemoryUseCase removes individual memories
type MemoryUseCase interface {
	DeleteMemory(ctx context.Context, id model.MemoryID) error
}

// ContactUseCase searches the user's imported network
type ContactUseCase interface {
	Search(ctx context.Context, input model.ContactSearchInput) (*model.ContactSearchResult, error)
}

// Session is the identity and recall history shared by the tools of one
// conversation
type Session struct {
	UserID    string
	SessionID string

	mu    sync.Mutex
	state model.ConversationState
}

// NewSession creates a session for the user
func NewSession(userID, sessionID string) *Session {
	return &Session{
		UserID:    userID,
		SessionID: sessionID,
	}
}

// Conversation returns a snapshot of the recall history
func (s *Session) Conversation() *model.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &model.ConversationState{
		PriorQueries: append([]string(nil), s.state.PriorQueries...),
		PriorResults: append([]string(nil), s.state.PriorResults...),
		Context:      s.state.Context,
	}
}

func (s *Session) record(query, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Record(query, result)
}

// New builds the memory and network tools the voice assistant calls during
// a conversation
func New(capture CaptureUseCase, recall RecallUseCase, memory MemoryUseCase, contact ContactUseCase, session *Session) []gollem.Tool {
	return []gollem.Tool{
		&saveMemoryTool{capture: capture, session: session},
		&recallMemoryTool{recall: recall, session: session},
		&forgetMemoryTool{memory: memory},
		&searchContactsTool{contact: contact, session: session},
	}
}
