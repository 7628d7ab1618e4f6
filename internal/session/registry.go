// Package session keeps live chat sessions in memory and expires idle ones.
package session

import (
	"time"

	"github.com/futig/docchat/internal/entity"
	"github.com/futig/docchat/internal/usecase/chat"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Registry stores sessions with a sliding idle TTL
type Registry struct {
	sessions *cache.Cache
	logger   *zap.Logger
}

func NewRegistry(idleTTL, cleanupInterval time.Duration, logger *zap.Logger) *Registry {
	r := &Registry{
		sessions: cache.New(idleTTL, cleanupInterval),
		logger:   logger,
	}
	r.sessions.OnEvicted(func(id string, _ interface{}) {
		r.logger.Debug("session evicted",
			zap.String("session_id", id),
			zap.Int("live_sessions", r.Count()),
		)
	})
	return r
}

func (r *Registry) Add(s *chat.Session) {
	r.sessions.SetDefault(s.ID(), s)
	r.logger.Debug("session stored",
		zap.String("session_id", s.ID()),
		zap.Int("live_sessions", r.Count()),
	)
}

// Get returns the session and restarts its idle timer
func (r *Registry) Get(id string) (*chat.Session, error) {
	item, ok := r.sessions.Get(id)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}

	s := item.(*chat.Session)
	r.sessions.SetDefault(id, s)
	return s, nil
}

func (r *Registry) Delete(id string) error {
	if _, ok := r.sessions.Get(id); !ok {
		return entity.ErrSessionNotFound
	}
	r.sessions.Delete(id)
	return nil
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	return r.sessions.ItemCount()
}
