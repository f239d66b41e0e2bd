package verification

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"signup-gateway/internal/service"
	"signup-gateway/pkg/errors"
	"signup-gateway/pkg/logger"
	"signup-gateway/pkg/utils"
)

// State of a verification session
type State string

const (
	StateIdle          State = "idle"
	StateAwaitingEmail State = "awaiting_email"
	StateCodeSent      State = "code_sent"
	StateVerifying     State = "verifying"
	StateVerified      State = "verified"
	StateLocked        State = "locked"
)

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	ID                string `json:"sessionId"`
	State             State  `json:"state"`
	Email             string `json:"email,omitempty"`
	Attempts          int    `json:"attempts"`
	AttemptsRemaining int    `json:"attemptsRemaining"`
	ResendIn          int    `json:"resendInSeconds"`
	ResendAvailable   bool   `json:"resendAvailable"`
}

// Session is one mock email-code flow. All of its state lives here; the
// HTTP layer only holds the session id.
type Session struct {
	id          string
	maxAttempts int
	delay       time.Duration
	generate    CodeGenerator
	deliverer   service.CodeDeliverer
	countdown   *Countdown
	clock       Clock
	logger      *logger.Logger

	mu         sync.Mutex
	state      State
	email      string
	code       string
	attempts   int
	pending    bool
	lastActive time.Time
}

// Begin moves a new session from Idle to AwaitingEmail.
func (s *Session) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		s.state = StateAwaitingEmail
		s.touchLocked()
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Start validates email and delivers a new code. On any failure the session
// stays in AwaitingEmail.
func (s *Session) Start(ctx context.Context, email string) (*Snapshot, error) {
	email = strings.TrimSpace(email)

	s.mu.Lock()
	if err := s.beginOpLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.state != StateAwaitingEmail {
		s.mu.Unlock()
		return nil, errors.NewValidationError("A verification code has already been requested", nil)
	}
	if !utils.IsValidEmail(email) {
		s.mu.Unlock()
		return nil, errors.NewValidationError("Please enter a valid email address", map[string]interface{}{"field": "email"})
	}
	code, err := s.generate()
	if err != nil {
		s.mu.Unlock()
		return nil, errors.NewInternalError("Failed to generate verification code", err)
	}
	s.pending = true
	s.mu.Unlock()

	err = s.simulateDelay(ctx)
	if err == nil {
		err = s.deliverer.DeliverCode(ctx, email, code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.touchLocked()

	if err != nil {
		s.logger.WithError(err).Info("Verification code delivery failed")
		return nil, err
	}

	s.email = email
	s.code = code
	s.attempts = 0
	s.state = StateCodeSent
	s.countdown.Start()
	s.logger.WithEmail(email).Info("Verification code sent")
	s.logger.WithField("code", code).Debug("Verification code")

	return s.snapshotLocked(), nil
}

// Submit checks entered against the current code. A locked session rejects
// the attempt without looking at the code.
func (s *Session) Submit(ctx context.Context, entered string) (*Snapshot, error) {
	s.mu.Lock()
	if err := s.beginOpLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	switch s.state {
	case StateLocked:
		s.mu.Unlock()
		return nil, s.lockedError()
	case StateCodeSent:
	default:
		s.mu.Unlock()
		return nil, errors.NewValidationError("No verification code is pending", nil)
	}
	s.state = StateVerifying
	s.pending = true
	s.mu.Unlock()

	delayErr := s.simulateDelay(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.touchLocked()

	if delayErr != nil {
		s.state = StateCodeSent
		return nil, errors.NewInternalError("Verification failed. Please try again.", delayErr)
	}

	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(entered)), []byte(s.code)) == 1 {
		s.state = StateVerified
		s.countdown.Stop()
		s.logger.WithEmail(s.email).Info("Verification succeeded")
		return s.snapshotLocked(), nil
	}

	s.attempts++
	if s.attempts >= s.maxAttempts {
		s.state = StateLocked
		s.logger.WithEmail(s.email).Info("Verification session locked")
		return nil, s.lockedError()
	}

	s.state = StateCodeSent
	remaining := s.maxAttempts - s.attempts
	return nil, errors.NewValidationError(
		fmt.Sprintf("Invalid code. %d attempts remaining.", remaining),
		map[string]interface{}{"attemptsRemaining": remaining},
	)
}

// Resend issues and delivers a new code once the window has expired,
// resetting attempts and clearing any lock. While the window is active it
// does nothing and reports resent=false.
func (s *Session) Resend(ctx context.Context) (snap *Snapshot, resent bool, err error) {
	s.mu.Lock()
	if err := s.beginOpLocked(); err != nil {
		s.mu.Unlock()
		return nil, false, err
	}
	if s.state != StateCodeSent && s.state != StateLocked {
		s.mu.Unlock()
		return nil, false, errors.NewValidationError("No verification code to resend", nil)
	}
	if s.countdown.Active() {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, false, nil
	}
	code, err := s.generate()
	if err != nil {
		s.mu.Unlock()
		return nil, false, errors.NewInternalError("Failed to generate verification code", err)
	}
	email := s.email
	s.pending = true
	s.mu.Unlock()

	err = s.deliverer.DeliverCode(ctx, email, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.touchLocked()

	if err != nil {
		s.logger.WithError(err).Info("Verification code redelivery failed")
		return nil, false, err
	}

	s.code = code
	s.attempts = 0
	s.state = StateCodeSent
	s.countdown.Start()
	s.logger.WithEmail(email).Info("Verification code resent")
	s.logger.WithField("code", code).Debug("Verification code")

	return s.snapshotLocked(), true, nil
}

// Snapshot returns the current view of the session
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) beginOpLocked() error {
	if s.pending {
		return errors.NewConflictError("Please wait for the current request to finish")
	}
	return nil
}

func (s *Session) lockedError() error {
	return errors.NewLockedError("Maximum attempts reached. Please request a new code.")
}

func (s *Session) simulateDelay(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Session) touchLocked() {
	s.lastActive = s.clock.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return s.clock.Now()
	}
	return s.lastActive
}

func (s *Session) snapshotLocked() *Snapshot {
	remaining := s.maxAttempts - s.attempts
	if remaining < 0 {
		remaining = 0
	}
	resendIn := s.countdown.Remaining()
	canResend := (s.state == StateCodeSent || s.state == StateLocked) && resendIn == 0
	return &Snapshot{
		ID:                s.id,
		State:             s.state,
		Email:             s.email,
		Attempts:          s.attempts,
		AttemptsRemaining: remaining,
		ResendIn:          resendIn,
		ResendAvailable:   canResend,
	}
}
