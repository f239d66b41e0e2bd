package container

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup-gateway/internal/config"
	"signup-gateway/pkg/logger"
)

func baseConfig() *config.Config {
	return &config.Config{
		Environment:       "test",
		WebhookURL:        "https://hook.example.com/abc",
		DashboardURL:      "https://example.com/going.html",
		AuthorizedEmails:  []string{"a@b.com"},
		GoogleClientID:    "google-client",
		MicrosoftTenant:   "common",
		SubmissionLockTTL: 30 * time.Second,
		RedirectDelay:     time.Second,
		SSOResendWindow:   30 * time.Second,
		SSOMaxAttempts:    3,
		SSOSessionTTL:     15 * time.Minute,
	}
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name        string
		redisURL    string
		expectRedis bool
	}{
		{
			name:        "Container with Redis configured",
			redisURL:    "redis://" + mr.Addr(),
			expectRedis: true,
		},
		{
			name:        "Container without Redis configured",
			redisURL:    "",
			expectRedis: false,
		},
		{
			name:        "Container with invalid Redis URL",
			redisURL:    "invalid://redis-url",
			expectRedis: false, // Redis client initialization fails but container creation succeeds
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.RedisURL = tt.redisURL

			c, err := New(cfg, logger.NewNop())
			require.NoError(t, err)
			require.NotNil(t, c)
			if c.RedisClient != nil {
				defer c.RedisClient.Close()
			}

			assert.Equal(t, tt.expectRedis, c.HasRedis())
			assert.True(t, c.Pipeline.Ready())
			assert.Equal(t, "https://example.com/going.html", c.Pipeline.RedirectURL())
			assert.NotNil(t, c.Verification)
			assert.Same(t, cfg, c.GetConfig())
		})
	}
}

func TestSummary(t *testing.T) {
	c, err := New(baseConfig(), logger.NewNop())
	require.NoError(t, err)

	summary := c.Summary()
	assert.Equal(t, true, summary["webhook_configured"])
	assert.Equal(t, true, summary["google_configured"])
	assert.Equal(t, false, summary["microsoft_configured"])
	assert.Equal(t, 1, summary["authorized_emails"])
	assert.Equal(t, false, summary["submission_lock"])
}
