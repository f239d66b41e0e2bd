package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"signup-gateway/internal/container"
	"signup-gateway/internal/domain"
	"signup-gateway/internal/service/formstate"
	"signup-gateway/internal/service/verification"
	"signup-gateway/pkg/errors"
)

const ssoMethod = domain.AuthMethodSSO

// SSOHandler drives the mock email-code verification flow.
type SSOHandler struct {
	container *container.Container
}

// NewSSOHandler creates a new SSO handler
func NewSSOHandler(container *container.Container) *SSOHandler {
	return &SSOHandler{
		container: container,
	}
}

// RegisterRoutes registers the session routes under the given router
func (h *SSOHandler) RegisterRoutes(r chi.Router) {
	r.Route("/sso/sessions", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Post("/start", h.Start)
			r.Post("/verify", h.Verify)
			r.Post("/resend", h.Resend)
		})
	})
}

type startRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

// Create handles POST /api/sso/sessions
func (h *SSOHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := h.container.Verification.Create()
	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		View:    formstate.Editable(),
		Data:    session.Snapshot(),
	}, h.container.GetLogger())
}

// Get handles GET /api/sso/sessions/{sessionId}
func (h *SSOHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	snap := session.Snapshot()
	writeSuccess(w, h.viewFor(snap), snap, h.container.GetLogger())
}

// Start handles POST /api/sso/sessions/{sessionId}/start
func (h *SSOHandler) Start(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorResponse(w, r, ssoMethod, err, logger)
		return
	}

	snap, err := session.Start(r.Context(), req.Email)
	if err != nil {
		writeErrorResponse(w, r, ssoMethod, err, logger)
		return
	}

	view := formstate.Editable()
	view.Message = fmt.Sprintf("Verification code sent to %s", snap.Email)
	writeSuccess(w, view, snap, logger)
}

// Verify handles POST /api/sso/sessions/{sessionId}/verify
func (h *SSOHandler) Verify(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorResponse(w, r, ssoMethod, err, logger)
		return
	}

	snap, err := session.Submit(r.Context(), req.Code)
	if err != nil {
		writeErrorResponse(w, r, ssoMethod, err, logger)
		return
	}

	view := formstate.Success(ssoMethod, h.container.Pipeline.RedirectURL(), h.container.GetConfig().SSORedirectDelay)
	writeSuccess(w, view, snap, logger)
}

// Resend handles POST /api/sso/sessions/{sessionId}/resend. While the
// countdown runs it answers 200 with resent=false and nothing is sent.
func (h *SSOHandler) Resend(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	snap, resent, err := session.Resend(r.Context())
	if err != nil {
		writeErrorResponse(w, r, ssoMethod, err, logger)
		return
	}

	view := formstate.Editable()
	if resent {
		view.Message = "A new verification code has been sent."
	} else {
		view.Message = fmt.Sprintf("Please wait %d seconds before requesting a new code.", snap.ResendIn)
	}
	writeSuccess(w, view, map[string]interface{}{
		"session": snap,
		"resent":  resent,
	}, logger)
}

func (h *SSOHandler) session(w http.ResponseWriter, r *http.Request) (*verification.Session, bool) {
	session, err := h.container.Verification.Get(chi.URLParam(r, "sessionId"))
	if err != nil {
		writeErrorResponse(w, r, ssoMethod, err, h.container.GetLogger())
		return nil, false
	}
	return session, true
}

func (h *SSOHandler) viewFor(snap *verification.Snapshot) formstate.View {
	switch snap.State {
	case verification.StateVerified:
		return formstate.Success(ssoMethod, h.container.Pipeline.RedirectURL(), h.container.GetConfig().SSORedirectDelay)
	case verification.StateLocked:
		return formstate.Failed(ssoMethod, errors.NewLockedError("Maximum attempts reached. Please request a new code."))
	case verification.StateVerifying:
		return formstate.Loading()
	default:
		return formstate.Editable()
	}
}
