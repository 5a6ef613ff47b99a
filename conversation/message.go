package conversation

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn in a session. Messages are append-only; trimming only
// removes from the oldest end.
type Message struct {
	Id        string         `json:"id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Stats is a read-only view of one session.
type Stats struct {
	MessageCount    int       `json:"message_count"`
	EstimatedTokens int       `json:"estimated_tokens"`
	CreatedAt       time.Time `json:"created_at"`
	LastAccessed    time.Time `json:"last_accessed"`
}

// Config holds the two process-wide trimming tunables.
type Config struct {
	MaxContextLength int `json:"max_context_length"`
	MaxTokens        int `json:"max_tokens"`
}
