package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"signup-gateway/internal/domain"
	"signup-gateway/pkg/errors"
	"signup-gateway/pkg/logger"
)

// maxAckBytes bounds how much of the acknowledgment body is read.
const maxAckBytes = 1 << 20

// Client delivers user profiles to the workflow-automation webhook.
// It makes exactly one attempt per call.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a webhook client. An empty url is accepted; Deliver
// then fails with a configuration error without touching the network.
func NewClient(url string, httpClient *http.Client, logger *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		url:        url,
		httpClient: httpClient,
		logger:     logger.Named("webhook"),
	}
}

// Configured reports whether an endpoint URL is set.
func (c *Client) Configured() bool {
	return c.url != ""
}

// Deliver POSTs profile as JSON. Any non-2xx status is a submission error.
// A 2xx response with an empty or non-JSON body is a successful {"success": true}.
func (c *Client) Deliver(ctx context.Context, profile *domain.UserProfile) (domain.Ack, error) {
	if !c.Configured() {
		c.logger.Error("Webhook URL is not configured")
		return nil, errors.NewConfigurationError("Webhook URL is not configured")
	}

	body, err := json.Marshal(profile)
	if err != nil {
		return nil, errors.NewInternalError("Failed to encode profile", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.logger.WithError(err).Error("Failed to create webhook request")
		return nil, errors.NewConfigurationError("Webhook URL is invalid")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log := c.logger.WithField("auth_method", profile.AuthMethod).WithEmail(profile.Email)
	log.Debug("Sending profile to webhook")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Error("Webhook request failed")
		return nil, errors.NewSubmissionError("Failed to reach the registration service", 0, "", err)
	}
	defer resp.Body.Close()

	statusText := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	log = log.WithField("status_code", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status_text", statusText).Error("Webhook returned non-success status")
		return nil, errors.NewSubmissionError(
			fmt.Sprintf("Webhook returned status %d: %s", resp.StatusCode, statusText),
			resp.StatusCode,
			statusText,
			nil,
		)
	}

	ack := parseAck(resp.Body)
	log.WithField("ack", ack).Debug("Webhook accepted profile")
	return ack, nil
}

// parseAck reads the body as a JSON object, falling back to {"success": true}.
func parseAck(r io.Reader) domain.Ack {
	raw, err := io.ReadAll(io.LimitReader(r, maxAckBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return domain.Ack{"success": true}
	}

	var ack domain.Ack
	if err := json.Unmarshal(raw, &ack); err != nil || ack == nil {
		return domain.Ack{"success": true}
	}
	return ack
}
