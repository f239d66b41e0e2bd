package handler

import (
	"net/http"

	"signup-gateway/internal/container"
	"signup-gateway/internal/service/formstate"
	"signup-gateway/internal/service/provider"
	"signup-gateway/pkg/utils"
)

// ConfigHandler serves the public settings the sign-in pages load on start.
type ConfigHandler struct {
	container *container.Container
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(container *container.Container) *ConfigHandler {
	return &ConfigHandler{
		container: container,
	}
}

// PublicConfig holds no secrets
type PublicConfig struct {
	Providers         provider.ClientConfig `json:"providers"`
	DashboardURL      string                `json:"dashboardUrl"`
	Ready             bool                  `json:"ready"`
	RedirectDelayMs   int64                 `json:"redirectDelayMs"`
	ResendWindowSecs  int                   `json:"resendWindowSeconds"`
	MaxAttempts       int                   `json:"maxAttempts"`
	MinPasswordLength int                   `json:"minPasswordLength"`
}

// Get handles GET /api/config
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg := h.container.GetConfig()

	writeSuccess(w, formstate.Editable(), PublicConfig{
		Providers:         h.container.Providers.ClientConfig(),
		DashboardURL:      h.container.Pipeline.RedirectURL(),
		Ready:             h.container.Pipeline.Ready(),
		RedirectDelayMs:   cfg.RedirectDelay.Milliseconds(),
		ResendWindowSecs:  int(cfg.SSOResendWindow.Seconds()),
		MaxAttempts:       cfg.SSOMaxAttempts,
		MinPasswordLength: utils.MinPasswordLength,
	}, h.container.GetLogger())
}
