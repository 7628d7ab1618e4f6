package chat

import (
	"sync"
	"time"

	"github.com/futig/docchat/internal/conversation"
	"github.com/futig/docchat/internal/entity"
)

// Session is one user's conversation together with its settings.
// Turns on the same session are serialized by mu.
type Session struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	settings  entity.SessionSettings
	state     *conversation.State
}

func NewSession(id string, settings entity.SessionSettings) *Session {
	return &Session{
		id:        id,
		createdAt: time.Now().UTC(),
		settings:  settings,
		state:     conversation.New(),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Info() entity.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return entity.SessionInfo{
		ID:        s.id,
		Settings:  s.settings,
		Turns:     s.state.Len(),
		CreatedAt: s.createdAt,
	}
}

func (s *Session) Settings() entity.SessionSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Transcript returns every turn in order
func (s *Session) Transcript() []entity.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Transcript()
}

// Reset clears the conversation. Settings are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
}

func (s *Session) updateSettings(fn func(*entity.SessionSettings)) entity.SessionSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.settings)
	return s.settings
}
