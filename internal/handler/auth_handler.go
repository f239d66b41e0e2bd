package handler

import (
	"net/http"

	"github.com/google/uuid"

	"signup-gateway/internal/container"
	"signup-gateway/internal/domain"
	"signup-gateway/internal/service/formstate"
	"signup-gateway/internal/service/provider"
)

// AuthHandler accepts provider results and manual forms and runs them
// through the submission pipeline.
type AuthHandler struct {
	container *container.Container
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(container *container.Container) *AuthHandler {
	return &AuthHandler{
		container: container,
	}
}

// SubmissionResponse is the data of a successful submission
type SubmissionResponse struct {
	Profile *domain.UserProfile `json:"profile"`
	Ack     domain.Ack          `json:"ack"`
}

// Google handles POST /api/auth/google
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var payload provider.GoogleCredential
	h.submit(w, r, &payload)
}

// Microsoft handles POST /api/auth/microsoft
func (h *AuthHandler) Microsoft(w http.ResponseWriter, r *http.Request) {
	var payload provider.MicrosoftAccount
	h.submit(w, r, &payload)
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload provider.SignupForm
	h.submit(w, r, &payload)
}

// Signin handles POST /api/auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var payload provider.SigninForm
	h.submit(w, r, &payload)
}

// MicrosoftLoginURL handles GET /api/auth/microsoft/login-url. It is the
// redirect fallback for browsers that block the login popup.
func (h *AuthHandler) MicrosoftLoginURL(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	state := uuid.NewString()
	nonce := uuid.NewString()

	writeSuccess(w, formstate.Editable(), map[string]string{
		"url":   h.container.Providers.MicrosoftLoginURL(state, nonce),
		"state": state,
		"nonce": nonce,
	}, logger)
}

func (h *AuthHandler) submit(w http.ResponseWriter, r *http.Request, adapter provider.Adapter) {
	logger := h.container.GetLogger()
	method := adapter.Method()

	if err := decodeBody(r, adapter); err != nil {
		writeErrorResponse(w, r, method, err, logger)
		return
	}

	outcome, err := h.container.Pipeline.Submit(r.Context(), adapter)
	if err != nil {
		writeErrorResponse(w, r, method, err, logger)
		return
	}

	writeSuccess(w,
		formstate.Success(method, outcome.RedirectURL, outcome.RedirectAfter),
		SubmissionResponse{Profile: outcome.Profile, Ack: outcome.Ack},
		logger,
	)
}

