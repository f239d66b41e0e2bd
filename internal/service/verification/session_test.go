package verification

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup-gateway/pkg/errors"
	"signup-gateway/pkg/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type codeSink struct {
	mu      sync.Mutex
	codes   []string
	err     error
	gate    chan struct{}
	started chan struct{}
}

func (c *codeSink) DeliverCode(ctx context.Context, email, code string) error {
	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.codes = append(c.codes, code)
	return nil
}

func (c *codeSink) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.codes) == 0 {
		return ""
	}
	return c.codes[len(c.codes)-1]
}

func (c *codeSink) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.codes)
}

func sequentialCodes() CodeGenerator {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%06d", 100000+n), nil
	}
}

func newTestManager(sink *codeSink, clock *fakeClock) *Manager {
	return NewManager(sink, logger.NewNop(), Options{
		ResendWindow: 30 * time.Second,
		MaxAttempts:  3,
		SessionTTL:   15 * time.Minute,
		Clock:        clock,
		Generator:    sequentialCodes(),
	})
}

func startedSession(t *testing.T, m *Manager) *Session {
	t.Helper()
	s := m.Create()
	snap, err := s.Start(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Equal(t, StateCodeSent, snap.State)
	return s
}

func TestCreate_AwaitsEmail(t *testing.T) {
	m := newTestManager(&codeSink{}, newFakeClock())
	s := m.Create()

	snap := s.Snapshot()
	assert.Equal(t, StateAwaitingEmail, snap.State)
	assert.NotEmpty(t, snap.ID)
	assert.False(t, snap.ResendAvailable)

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestGet_Unknown(t *testing.T) {
	m := newTestManager(&codeSink{}, newFakeClock())
	_, err := m.Get("missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestStart(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		sinkErr   error
		wantErr   errors.ErrorType
		wantState State
	}{
		{name: "valid email", email: " a@b.com ", wantState: StateCodeSent},
		{name: "invalid email", email: "nope", wantErr: errors.ErrorTypeValidation, wantState: StateAwaitingEmail},
		{name: "not on the allow-list", email: "x@blocked.com", sinkErr: errors.NewAuthorizationError(), wantErr: errors.ErrorTypeAuthorization, wantState: StateAwaitingEmail},
		{name: "webhook down", email: "a@b.com", sinkErr: errors.NewSubmissionError("down", 502, "Bad Gateway", nil), wantErr: errors.ErrorTypeSubmission, wantState: StateAwaitingEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &codeSink{err: tt.sinkErr}
			s := newTestManager(sink, newFakeClock()).Create()

			snap, err := s.Start(context.Background(), tt.email)
			if tt.wantErr != "" {
				assert.True(t, errors.IsType(err, tt.wantErr), "got %v", err)
				assert.Nil(t, snap)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "a@b.com", snap.Email)
				assert.Equal(t, 3, snap.AttemptsRemaining)
				assert.Equal(t, 30, snap.ResendIn)
				assert.False(t, snap.ResendAvailable)
			}
			assert.Equal(t, tt.wantState, s.Snapshot().State)
		})
	}
}

func TestStart_Twice(t *testing.T) {
	s := startedSession(t, newTestManager(&codeSink{}, newFakeClock()))
	_, err := s.Start(context.Background(), "a@b.com")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestSubmit_CorrectCodeVerifiesOnce(t *testing.T) {
	sink := &codeSink{}
	s := startedSession(t, newTestManager(sink, newFakeClock()))

	snap, err := s.Submit(context.Background(), sink.Last())
	require.NoError(t, err)
	assert.Equal(t, StateVerified, snap.State)
	assert.Equal(t, 0, snap.ResendIn)

	_, err = s.Submit(context.Background(), sink.Last())
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "verified is terminal")
	assert.Equal(t, StateVerified, s.Snapshot().State)
}

func TestSubmit_WrongCodesLock(t *testing.T) {
	sink := &codeSink{}
	s := startedSession(t, newTestManager(sink, newFakeClock()))
	correct := sink.Last()

	_, err := s.Submit(context.Background(), "000000")
	appErr := errors.AsAppError(err)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "Invalid code. 2 attempts remaining.", appErr.Message)
	assert.Equal(t, 2, appErr.Details["attemptsRemaining"])

	_, err = s.Submit(context.Background(), "000000")
	assert.Equal(t, "Invalid code. 1 attempts remaining.", errors.AsAppError(err).Message)

	_, err = s.Submit(context.Background(), "000000")
	appErr = errors.AsAppError(err)
	assert.Equal(t, errors.ErrorTypeLocked, appErr.Type)
	assert.Equal(t, "Maximum attempts reached. Please request a new code.", appErr.Message)

	// the correct code no longer helps
	_, err = s.Submit(context.Background(), correct)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLocked))

	snap := s.Snapshot()
	assert.Equal(t, StateLocked, snap.State)
	assert.Equal(t, 3, snap.Attempts)
	assert.Equal(t, 0, snap.AttemptsRemaining)
}

func TestResend_NoOpWhileWindowActive(t *testing.T) {
	sink := &codeSink{}
	clock := newFakeClock()
	s := startedSession(t, newTestManager(sink, clock))
	first := sink.Last()

	clock.Advance(29 * time.Second)
	snap, resent, err := s.Resend(context.Background())
	require.NoError(t, err)
	assert.False(t, resent)
	assert.Equal(t, 1, snap.ResendIn)
	assert.Equal(t, 1, sink.Count())
	assert.Equal(t, first, sink.Last())
}

func TestResend_AfterWindowIssuesNewCode(t *testing.T) {
	sink := &codeSink{}
	clock := newFakeClock()
	s := startedSession(t, newTestManager(sink, clock))
	first := sink.Last()

	_, err := s.Submit(context.Background(), "000000")
	require.Error(t, err)

	clock.Advance(30 * time.Second)
	assert.True(t, s.Snapshot().ResendAvailable)

	snap, resent, err := s.Resend(context.Background())
	require.NoError(t, err)
	assert.True(t, resent)
	assert.Equal(t, 3, snap.AttemptsRemaining)
	assert.Equal(t, 30, snap.ResendIn)
	assert.NotEqual(t, first, sink.Last())

	_, err = s.Submit(context.Background(), first)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "old code is invalid")

	snap, err = s.Submit(context.Background(), sink.Last())
	require.NoError(t, err)
	assert.Equal(t, StateVerified, snap.State)
}

func TestResend_UnlocksLockedSession(t *testing.T) {
	sink := &codeSink{}
	clock := newFakeClock()
	s := startedSession(t, newTestManager(sink, clock))

	for i := 0; i < 3; i++ {
		_, _ = s.Submit(context.Background(), "000000")
	}
	require.Equal(t, StateLocked, s.Snapshot().State)

	clock.Advance(31 * time.Second)
	snap, resent, err := s.Resend(context.Background())
	require.NoError(t, err)
	assert.True(t, resent)
	assert.Equal(t, StateCodeSent, snap.State)
	assert.Equal(t, 0, snap.Attempts)
}

func TestResend_DeliveryFailureLeavesSessionUnchanged(t *testing.T) {
	sink := &codeSink{}
	clock := newFakeClock()
	s := startedSession(t, newTestManager(sink, clock))
	first := sink.Last()

	clock.Advance(time.Minute)
	sink.err = errors.NewSubmissionError("down", 500, "Internal Server Error", nil)
	_, resent, err := s.Resend(context.Background())
	assert.False(t, resent)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSubmission))

	sink.err = nil
	snap, err := s.Submit(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, StateVerified, snap.State)
}

func TestResend_BeforeStart(t *testing.T) {
	s := newTestManager(&codeSink{}, newFakeClock()).Create()
	_, _, err := s.Resend(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestSession_ConflictWhilePending(t *testing.T) {
	sink := &codeSink{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	s := newTestManager(sink, newFakeClock()).Create()

	done := make(chan error, 1)
	go func() {
		_, err := s.Start(context.Background(), "a@b.com")
		done <- err
	}()
	<-sink.started

	_, err := s.Start(context.Background(), "a@b.com")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
	_, err = s.Submit(context.Background(), "123456")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))

	close(sink.gate)
	require.NoError(t, <-done)
	assert.Equal(t, StateCodeSent, s.Snapshot().State)
}

func TestSimulatedDelayHonoursContext(t *testing.T) {
	m := NewManager(&codeSink{}, logger.NewNop(), Options{
		SimulatedDelay: time.Hour,
		Clock:          newFakeClock(),
		Generator:      sequentialCodes(),
	})
	s := m.Create()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Start(ctx, "a@b.com")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateAwaitingEmail, s.Snapshot().State)
}

func TestSweep(t *testing.T) {
	clock := newFakeClock()
	m := newTestManager(&codeSink{}, clock)
	old := m.Create()

	clock.Advance(10 * time.Minute)
	fresh := m.Create()

	clock.Advance(6 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	_, err := m.Get(old.ID())
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	_, err = m.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestRandomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := RandomCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
