package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/branch-search/source"
	"github.com/yourorg/branch-search/widget"
	"go.uber.org/zap"
)

// Session is one browser's widget: its controller and the markup it last
// rendered.
type Session struct {
	ID         string
	Controller *widget.Controller
	View       *widget.Buffer
	lastSeen   time.Time
}

// Sessions keeps widget sessions in memory and forgets idle ones.
type Sessions struct {
	src  source.Adapter
	idle time.Duration
	log  *zap.Logger
	now  func() time.Time

	mu    sync.Mutex
	items map[string]*Session
}

func NewSessions(src source.Adapter, idle time.Duration, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Sessions{src: src, idle: idle, log: log, now: time.Now, items: map[string]*Session{}}
}

// Get returns a live session and marks it as used.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

func (s *Sessions) Create() *Session {
	buf := &widget.Buffer{}
	sess := &Session{
		ID:         uuid.NewString(),
		Controller: widget.New(s.src, buf, s.log),
		View:       buf,
	}
	s.mu.Lock()
	sess.lastSeen = s.now()
	s.items[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops sessions idle for longer than the configured TTL.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.idle)
	n := 0
	for id, sess := range s.items {
		if sess.lastSeen.Before(cutoff) {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// Run sweeps periodically until ctx is done.
func (s *Sessions) Run(ctx context.Context) {
	ticker := time.NewTicker(s.idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug("swept idle widget sessions", zap.Int("count", n))
			}
		}
	}
}
