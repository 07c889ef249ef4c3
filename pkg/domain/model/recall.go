package model

// Extraction is the structured fact a language model pulled out of free text
type Extraction struct {
	Person     string
	Details    string
	Confidence float64
	Context    string
}

// Complete reports whether both a person and details were extracted
func (e *Extraction) Complete() bool {
	return e != nil && e.Person != "" && e.Details != ""
}

// MemoryFilter narrows a vector query. Record type is always "memory";
// PersonKey is only applied when non-empty.
type MemoryFilter struct {
	UserID    string
	PersonKey string
}

// RecallMatch is a memory returned from a single query together with its
// cosine similarity. It is never persisted.
type RecallMatch struct {
	Memory *Memory
	Score  float64
}

// maxConversationTurns bounds how much history a ConversationState keeps
const maxConversationTurns = 10

// ConversationState carries prior turns so a follow-up query can be
// interpreted with history. It is advisory only and never searched.
type ConversationState struct {
	PriorQueries []string `json:"priorQueries,omitempty"`
	PriorResults []string `json:"priorResults,omitempty"`
	Context      string   `json:"context,omitempty"`
}

// Record appends a finished turn, keeping only the most recent turns
func (x *ConversationState) Record(query, result string) {
	x.PriorQueries = appendBounded(x.PriorQueries, query)
	x.PriorResults = appendBounded(x.PriorResults, result)
}

// IsEmpty reports whether the state carries any history
func (x *ConversationState) IsEmpty() bool {
	return x == nil || (len(x.PriorQueries) == 0 && len(x.PriorResults) == 0 && x.Context == "")
}

func appendBounded(list []string, v string) []string {
	list = append(list, v)
	if len(list) > maxConversationTurns {
		list = list[len(list)-maxConversationTurns:]
	}
	return list
}
