package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kayacancode/voice-network/pkg/agent/tool"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Spoken fallbacks when a pipeline fails
const (
	saveFailedMessage   = "I had trouble saving that memory. Could you try rephrasing it?"
	recallFailedMessage = "I had trouble looking that up. Could you ask again?"
)

// saveMemoryTool stores a fact about a person the user met
type saveMemoryTool struct {
	capture CaptureUseCase
	session *Session
}

func (t *saveMemoryTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "save_memory",
		Description: "Save a memory about a person you met or learned about. Use this when the user mentions meeting someone or learning facts about them. For example: 'I met Sarah today, she works at Google as a software engineer.'",
		Parameters: map[string]*gollem.Parameter{
			"memory_text": {
				Type:        gollem.TypeString,
				Description: "What the user said about the person, as close to verbatim as possible",
				Required:    true,
			},
		},
	}
}

func (t *saveMemoryTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	text, _ := args["memory_text"].(string)
	if text == "" {
		return nil, fmt.Errorf("memory_text is required")
	}

	tool.Update(ctx, "Saving memory...")

	result, err := t.capture.Capture(ctx, model.CaptureInput{
		Text:      text,
		UserID:    t.session.UserID,
		SessionID: t.session.SessionID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		if errors.Is(err, model.ErrEmptyText) || errors.Is(err, model.ErrTextTooShort) {
			return map[string]any{"saved": false, "message": model.LowConfidenceMessage}, nil
		}
		errutil.Handle(ctx, goerr.Wrap(err, "save_memory failed"), "failed to save memory")
		return map[string]any{"saved": false, "message": saveFailedMessage}, nil
	}

	out := map[string]any{
		"saved":      result.Success,
		"message":    result.Message,
		"confidence": result.Confidence,
	}
	if result.Success && result.Memory != nil {
		out["memory_id"] = result.Memory.ID.String()
		out["person"] = result.Memory.PersonDisplay
		out["details"] = result.Memory.Details
	}
	return out, nil
}

// recallMemoryTool answers questions about people from stored memories
type recallMemoryTool struct {
	recall  RecallUseCase
	session *Session
}

func (t *recallMemoryTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "recall_memory",
		Description: "Recall stored memories about people. Use this when the user asks questions like 'Where does Sarah work?' or 'What do I know about John?'",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "The user's question about a person",
				Required:    true,
			},
		},
	}
}

func (t *recallMemoryTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	tool.Update(ctx, fmt.Sprintf("Recalling: %s", query))

	result, err := t.recall.Recall(ctx, model.RecallInput{
		Query:        query,
		UserID:       t.session.UserID,
		Conversation: t.session.Conversation(),
	})
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "recall_memory failed"), "failed to recall memory")
		return map[string]any{"found": false, "message": recallFailedMessage}, nil
	}

	t.session.record(query, result.Message)

	items := make([]map[string]any, len(result.Matches))
	for i, m := range result.Matches {
		items[i] = map[string]any{
			"id":        m.Memory.ID.String(),
			"person":    m.Memory.PersonDisplay,
			"details":   m.Memory.Details,
			"timestamp": m.Memory.Timestamp,
			"score":     m.Score,
		}
	}
	return map[string]any{
		"found":    result.Success,
		"message":  result.Message,
		"memories": items,
	}, nil
}

// forgetMemoryTool deletes a memory the user no longer wants kept
type forgetMemoryTool struct {
	memory MemoryUseCase
}

func (t *forgetMemoryTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "forget_memory",
		Description: "Delete a stored memory by its ID. Only use an ID returned by save_memory or recall_memory, and only when the user asks to forget it.",
		Parameters: map[string]*gollem.Parameter{
			"memory_id": {
				Type:        gollem.TypeString,
				Description: "The ID of the memory to delete",
				Required:    true,
			},
		},
	}
}

func (t *forgetMemoryTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	memoryID, _ := args["memory_id"].(string)
	if memoryID == "" {
		return nil, fmt.Errorf("memory_id is required")
	}

	tool.Update(ctx, fmt.Sprintf("Forgetting memory %s...", memoryID))

	if err := t.memory.DeleteMemory(ctx, model.MemoryID(memoryID)); err != nil {
		return nil, goerr.Wrap(err, "failed to delete memory",
			goerr.V(model.MemoryIDKey, memoryID),
		)
	}

	return map[string]any{"deleted": true}, nil
}
