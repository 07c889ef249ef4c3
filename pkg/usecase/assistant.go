package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/kayacancode/voice-network/pkg/agent/tool/core"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/assistant_system.md
var assistantSystemPromptTmpl string

var assistantSystemPrompt = template.Must(template.New("assistant_system").Parse(assistantSystemPromptTmpl))

// assistantPromptData holds all data for the assistant system prompt template
type assistantPromptData struct {
	UserID string
	Today  string
}

// AssistantUseCase runs the conversational assistant that decides when to
// save and recall memories
type AssistantUseCase struct {
	llmClient gollem.LLMClient
	capture   *CaptureUseCase
	recall    *RecallUseCase
	memory    *MemoryUseCase
	contact   *ContactUseCase
	now       func() time.Time
}

func NewAssistantUseCase(llmClient gollem.LLMClient, capture *CaptureUseCase, recall *RecallUseCase, memory *MemoryUseCase, contact *ContactUseCase, now func() time.Time) *AssistantUseCase {
	return &AssistantUseCase{
		llmClient: llmClient,
		capture:   capture,
		recall:    recall,
		memory:    memory,
		contact:   contact,
		now:       now,
	}
}

// Conversation is one assistant session. The agent keeps the dialogue
// history between turns and the tool session keeps the recall history.
type Conversation struct {
	ID      string
	agent   *gollem.Agent
	session *core.Session
}

// Start opens a new conversation for the user
func (uc *AssistantUseCase) Start(userID string, opts ...gollem.Option) (*Conversation, error) {
	if uc.llmClient == nil {
		return nil, goerr.New("LLM client is required for the assistant")
	}

	systemPrompt, err := uc.buildSystemPrompt(userID)
	if err != nil {
		return nil, err
	}

	session := core.NewSession(userID, uuid.NewString())
	tools := core.New(uc.capture, uc.recall, uc.memory, uc.contact, session)

	agentOpts := append([]gollem.Option{
		gollem.WithSystemPrompt(systemPrompt),
		gollem.WithTools(tools...),
	}, opts...)

	return &Conversation{
		ID:      session.SessionID,
		agent:   gollem.New(uc.llmClient, agentOpts...),
		session: session,
	}, nil
}

// Send passes one user utterance to the agent and returns its reply
func (c *Conversation) Send(ctx context.Context, text string) (string, error) {
	resp, err := c.agent.Execute(ctx, gollem.Text(text))
	if err != nil {
		return "", goerr.Wrap(err, "failed to execute assistant", goerr.V("session_id", c.ID))
	}
	if resp == nil {
		return "", nil
	}
	return strings.Join(resp.Texts, "\n"), nil
}

func (uc *AssistantUseCase) buildSystemPrompt(userID string) (string, error) {
	var buf bytes.Buffer
	data := assistantPromptData{
		UserID: userID,
		Today:  uc.now().Format("Monday, January 2, 2006"),
	}
	if err := assistantSystemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render assistant system prompt")
	}
	return buf.String(), nil
}
