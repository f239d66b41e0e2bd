package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"signup-gateway/internal/domain"
	"signup-gateway/internal/service"
	"signup-gateway/internal/service/provider"
	"signup-gateway/pkg/errors"
	"signup-gateway/pkg/logger"
	"signup-gateway/pkg/utils"
)

// Stage names the step a submission reached. Stages only move forward.
type Stage string

const (
	StageCollect   Stage = "collect"
	StageValidate  Stage = "validate"
	StageAuthorize Stage = "authorize"
	StageNormalize Stage = "normalize"
	StageSubmit    Stage = "submit"
	StageComplete  Stage = "complete"
)

// flightTimeout bounds one shared delivery, matching the router timeout.
const flightTimeout = 60 * time.Second

// Settings is applied in the configure phase.
type Settings struct {
	DashboardURL  string
	RedirectDelay time.Duration
}

// Outcome is the result of a completed submission.
type Outcome struct {
	Profile       *domain.UserProfile
	Ack           domain.Ack
	RedirectURL   string
	RedirectAfter time.Duration
}

// Pipeline turns provider output into a delivered profile:
// collect, validate, authorize, normalize, submit, complete.
// It refuses work until Configure and MarkReady have both run.
type Pipeline struct {
	policy    service.EmailPolicy
	deliverer service.ProfileDeliverer
	lock      Lock
	logger    *logger.Logger
	now       func() time.Time

	mu         sync.RWMutex
	settings   Settings
	configured bool
	ready      atomic.Bool

	inflight singleflight.Group
}

// Option customises a Pipeline
type Option func(*Pipeline)

// WithLock adds a cross-instance submission lock.
func WithLock(lock Lock) Option {
	return func(p *Pipeline) {
		if lock != nil {
			p.lock = lock
		}
	}
}

// WithClock replaces time.Now for profile timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates an unconfigured pipeline
func New(policy service.EmailPolicy, deliverer service.ProfileDeliverer, logger *logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		policy:    policy,
		deliverer: deliverer,
		lock:      nopLock{},
		logger:    logger.Named("pipeline"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configure applies settings. It may be called again before MarkReady.
func (p *Pipeline) Configure(s Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = s
	p.configured = true
	p.logger.WithFields(map[string]interface{}{
		"dashboard_url":  s.DashboardURL,
		"redirect_delay": s.RedirectDelay.String(),
	}).Info("Pipeline configured")
}

// MarkReady opens the pipeline for submissions.
func (p *Pipeline) MarkReady() error {
	p.mu.RLock()
	configured := p.configured
	p.mu.RUnlock()

	if !configured {
		return errors.NewConfigurationError("Pipeline must be configured before it is ready")
	}
	p.ready.Store(true)
	p.logger.Info("Pipeline ready")
	return nil
}

// Ready reports whether submissions are accepted.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// RedirectURL returns the configured dashboard URL.
func (p *Pipeline) RedirectURL() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.DashboardURL
}

// Submit runs one adapter's output through every stage. Failures before
// StageSubmit never touch the network. Nothing is retried.
func (p *Pipeline) Submit(ctx context.Context, adapter provider.Adapter) (*Outcome, error) {
	if !p.Ready() {
		return nil, errors.NewConfigurationError("Authentication is not ready yet. Please try again shortly.")
	}

	method := adapter.Method()
	log := p.logger.WithField("auth_method", method)

	identity, err := adapter.Identity()
	if err != nil {
		log.WithError(err).WithField("stage", StageCollect).Warn("Provider data could not be read")
		return nil, errors.NewValidationError("Could not read the sign-in response. Please try again.", nil)
	}

	profile, err := BuildProfile(p.policy, method, identity, p.now())
	if err != nil {
		stage := StageValidate
		if errors.IsType(err, errors.ErrorTypeAuthorization) {
			stage = StageAuthorize
			log.WithEmail(identity.Email).Info("Unauthorized email attempt")
		}
		log.WithError(err).WithField("stage", stage).Debug("Submission halted")
		return nil, err
	}

	// The shared delivery outlives any single caller; each caller only
	// stops waiting on its own cancellation.
	key := string(method) + ":" + utils.NormalizeEmail(profile.Email)
	ch := p.inflight.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		return p.deliver(flightCtx, profile)
	})

	select {
	case <-ctx.Done():
		log.WithError(ctx.Err()).Info("Caller left before delivery finished")
		return nil, errors.NewSubmissionError("Submission was cancelled", 0, "", ctx.Err())
	case res := <-ch:
		if res.Shared {
			log.Debug("Joined an in-flight submission")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Outcome), nil
	}
}

// DeliverCode sends an SSO verification code through the webhook. The
// address goes through the same validation and allow-list as every
// other path.
func (p *Pipeline) DeliverCode(ctx context.Context, email, code string) error {
	if !p.Ready() {
		return errors.NewConfigurationError("Authentication is not ready yet. Please try again shortly.")
	}

	profile, err := BuildProfile(p.policy, domain.AuthMethodSSO, &domain.Identity{Email: email}, p.now())
	if err != nil {
		return err
	}
	profile.VerificationCode = code

	_, err = p.deliverer.Deliver(ctx, profile)
	return err
}

func (p *Pipeline) deliver(ctx context.Context, profile *domain.UserProfile) (*Outcome, error) {
	log := p.logger.WithField("auth_method", profile.AuthMethod)

	release, err := p.lock.Acquire(ctx, string(profile.AuthMethod), utils.NormalizeEmail(profile.Email))
	if err != nil {
		return nil, err
	}
	defer release()

	log.WithField("stage", StageSubmit).Debug("Delivering profile")
	ack, err := p.deliverer.Deliver(ctx, profile)
	if err != nil {
		log.WithError(err).WithField("stage", StageSubmit).Error("Profile delivery failed")
		return nil, err
	}

	p.mu.RLock()
	settings := p.settings
	p.mu.RUnlock()

	log.WithField("stage", StageComplete).Info("Submission completed")
	return &Outcome{
		Profile:       profile,
		Ack:           ack,
		RedirectURL:   settings.DashboardURL,
		RedirectAfter: settings.RedirectDelay,
	}, nil
}
