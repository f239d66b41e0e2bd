package container

import (
	"net/http"

	"signup-gateway/internal/config"
	"signup-gateway/internal/service/authz"
	"signup-gateway/internal/service/pipeline"
	"signup-gateway/internal/service/provider"
	"signup-gateway/internal/service/verification"
	"signup-gateway/internal/service/webhook"
	"signup-gateway/pkg/logger"
	"signup-gateway/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	RedisClient  *redis.Client
	Policy       *authz.Policy
	Webhook      *webhook.Client
	Pipeline     *pipeline.Pipeline
	Verification *verification.Manager
	Providers    *provider.OAuthConfigs
}

// New creates a new dependency injection container. The pipeline is
// configured and marked ready before it is returned.
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without submission lock")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without submission lock")
	}

	policy := authz.NewPolicy(cfg.AuthorizedEmails, logger)
	hook := webhook.NewClient(cfg.WebhookURL, &http.Client{}, logger)

	var opts []pipeline.Option
	if redisClient != nil {
		opts = append(opts, pipeline.WithLock(pipeline.NewRedisLock(redisClient, cfg.SubmissionLockTTL, logger)))
	}
	p := pipeline.New(policy, hook, logger, opts...)
	p.Configure(pipeline.Settings{
		DashboardURL:  cfg.DashboardURL,
		RedirectDelay: cfg.RedirectDelay,
	})
	if err := p.MarkReady(); err != nil {
		return nil, err
	}

	manager := verification.NewManager(p, logger, verification.Options{
		ResendWindow:   cfg.SSOResendWindow,
		MaxAttempts:    cfg.SSOMaxAttempts,
		SimulatedDelay: cfg.SSOSimulatedDelay,
		SessionTTL:     cfg.SSOSessionTTL,
	})

	providers := provider.NewOAuthConfigs(provider.Settings{
		GoogleClientID:         cfg.GoogleClientID,
		MicrosoftClientID:      cfg.MicrosoftClientID,
		MicrosoftTenant:        cfg.MicrosoftTenant,
		MicrosoftRedirectURI:   cfg.MicrosoftRedirectURI,
		MicrosoftCacheLocation: cfg.MicrosoftCacheLocation,
	})

	return &Container{
		Config:       cfg,
		Logger:       logger,
		RedisClient:  redisClient,
		Policy:       policy,
		Webhook:      hook,
		Pipeline:     p,
		Verification: manager,
		Providers:    providers,
	}, nil
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Summary is the startup report logged once the container is built.
func (c *Container) Summary() map[string]interface{} {
	providers := c.Providers.Configured()
	return map[string]interface{}{
		"environment":          c.Config.Environment,
		"dashboard_url":        c.Config.DashboardURL,
		"webhook_configured":   c.Webhook.Configured(),
		"google_configured":    providers["google"],
		"microsoft_configured": providers["microsoft"],
		"authorized_emails":    c.Policy.Size(),
		"submission_lock":      c.HasRedis(),
	}
}
