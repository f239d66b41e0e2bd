package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"signup-gateway/internal/domain"
	"signup-gateway/internal/middleware"
	"signup-gateway/internal/service/formstate"
	"signup-gateway/pkg/errors"
	"signup-gateway/pkg/logger"
)

// maxBodyBytes bounds request bodies; ID tokens are the largest payload.
const maxBodyBytes = 64 << 10

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                  `json:"success"`
	View    formstate.View        `json:"view"`
	Data    interface{}           `json:"data,omitempty"`
	Error   *errors.ErrorResponse `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeSuccess(w http.ResponseWriter, view formstate.View, data interface{}, log *logger.Logger) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, View: view, Data: data}, log)
}

// writeErrorResponse maps err onto its status code and the failed view
// for method. Internal details never reach the client.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, method domain.AuthMethod, err error, log *logger.Logger) {
	appErr := errors.AsAppError(err)

	entry := log.WithError(err).WithFields(map[string]interface{}{
		"request_id":  middleware.GetRequestID(r.Context()),
		"auth_method": method,
		"error_type":  appErr.Type,
	})
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Info("Request rejected")
	}

	writeJSON(w, appErr.StatusCode, Envelope{
		Success: false,
		View:    formstate.Failed(method, appErr),
		Error: &errors.ErrorResponse{
			Type:      appErr.Type,
			Message:   formstate.Message(method, appErr),
			Details:   appErr.Details,
			RequestID: middleware.GetRequestID(r.Context()),
			Timestamp: domain.FormatTimestamp(time.Now()),
		},
	}, log)
}

// decodeBody reads a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil && err != io.EOF {
		return errors.NewValidationError("Invalid request body", map[string]interface{}{"reason": err.Error()})
	}
	return nil
}
