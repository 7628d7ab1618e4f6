package entity

import "time"

// Role identifies the author of a chat turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is a single immutable entry of a conversation
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TurnState is a step of the per-turn pipeline
type TurnState string

const (
	TurnAwaitingQuestion TurnState = "awaiting_question"
	TurnReformulating    TurnState = "reformulating"
	TurnRetrieving       TurnState = "retrieving"
	TurnAssembling       TurnState = "assembling"
	TurnGenerating       TurnState = "generating"
	TurnCompleted        TurnState = "completed"
	TurnFailed           TurnState = "failed"
)

// CategoryAll disables the category filter
const CategoryAll = "ALL"

// SessionSettings is the session-scoped configuration of a conversation
type SessionSettings struct {
	Model          ModelID `json:"model"`
	Category       string  `json:"category"`
	HistoryEnabled bool    `json:"history_enabled"`
	Debug          bool    `json:"debug"`
}

// DefaultSessionSettings returns the settings a new session starts with
func DefaultSessionSettings() SessionSettings {
	return SessionSettings{
		Model:          DefaultModel,
		Category:       CategoryAll,
		HistoryEnabled: true,
	}
}

// Answer is the outcome of a completed turn
type Answer struct {
	Text      string     `json:"answer"`
	Citations []string   `json:"citations"`
	Debug     *TurnDebug `json:"debug,omitempty"`
}

// TurnDebug exposes intermediate pipeline values of a turn
type TurnDebug struct {
	SearchQuery   string          `json:"search_query"`
	Reformulated  bool            `json:"reformulated"`
	Chunks        []DocumentChunk `json:"chunks"`
	HistoryUsed   int             `json:"history_used"`
	HistoryDrops  int             `json:"history_dropped"`
	PromptTokens  int             `json:"prompt_tokens"`
	ElapsedMillis int64           `json:"elapsed_ms"`
}

// SessionInfo describes a live session
type SessionInfo struct {
	ID        string          `json:"session_id"`
	Settings  SessionSettings `json:"settings"`
	Turns     int             `json:"turns"`
	CreatedAt time.Time       `json:"created_at"`
}
