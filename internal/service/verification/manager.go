package verification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"signup-gateway/internal/service"
	"signup-gateway/pkg/errors"
	"signup-gateway/pkg/logger"
)

// Options configures new sessions
type Options struct {
	ResendWindow   time.Duration
	MaxAttempts    int
	SimulatedDelay time.Duration
	SessionTTL     time.Duration
	TickInterval   time.Duration
	Clock          Clock
	Generator      CodeGenerator
}

func (o Options) withDefaults() Options {
	if o.ResendWindow <= 0 {
		o.ResendWindow = 30 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 15 * time.Minute
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Generator == nil {
		o.Generator = RandomCode
	}
	return o
}

// Manager owns the live verification sessions, keyed by id.
type Manager struct {
	opts      Options
	deliverer service.CodeDeliverer
	logger    *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager
func NewManager(deliverer service.CodeDeliverer, logger *logger.Logger, opts Options) *Manager {
	return &Manager{
		opts:      opts.withDefaults(),
		deliverer: deliverer,
		logger:    logger.Named("verification"),
		sessions:  make(map[string]*Session),
	}
}

// Create starts a new session in AwaitingEmail.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	log := m.logger.WithField("session_id", id)

	countdown := NewCountdown(m.opts.ResendWindow, m.opts.TickInterval, m.opts.Clock)
	countdown.Observe(nil, func() {
		log.Debug("Resend window expired")
	})

	s := &Session{
		id:          id,
		maxAttempts: m.opts.MaxAttempts,
		delay:       m.opts.SimulatedDelay,
		generate:    m.opts.Generator,
		deliverer:   m.deliverer,
		countdown:   countdown,
		clock:       m.opts.Clock,
		logger:      log,
		state:       StateIdle,
	}
	s.Begin()

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.Debug("Verification session created")
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("Verification session not found")
	}
	return s, nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than the TTL and returns how many went.
func (m *Manager) Sweep() int {
	cutoff := m.opts.Clock.Now().Add(-m.opts.SessionTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			s.countdown.Stop()
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.WithField("removed", removed).Debug("Swept expired verification sessions")
	}
	return removed
}

// Run sweeps on every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
