package model

// Spoken replies for outcomes that store or find nothing
const (
	LowConfidenceMessage = "I couldn't find clear information about a specific person in what you said. Could you be more specific about who and what you learned about them?"
	NoMemoriesMessage    = "I don't have any memories that match your query."
)

// CaptureInput is a transcribed statement to remember
type CaptureInput struct {
	Text   string
	UserID string
	// Timestamp is an optional RFC3339 time the statement was made
	Timestamp string
	SessionID string
}

// RecallInput is a natural-language question about stored memories
type RecallInput struct {
	Query  string
	UserID string
	// PersonFilter skips person-name extraction when set
	PersonFilter string
	// Conversation carries earlier turns for resolving follow-up questions
	Conversation *ConversationState
}

// CaptureResult is the outcome of a capture request. A result with Success
// false is a normal negative outcome: nothing was stored and Message tells
// the speaker why.
type CaptureResult struct {
	Success    bool
	Memory     *Memory
	Confidence float64
	Message    string
	SSML       string
}

// RecallResult is the outcome of a recall request. Best is the top ranked
// match and Matches holds every match that passed the relevance threshold,
// ordered by descending score.
type RecallResult struct {
	Success bool
	// PersonFilter is the person name the search was narrowed to, if any
	PersonFilter string
	Message      string
	SSML         string
	Best         *RecallMatch
	Matches      []*RecallMatch
}
