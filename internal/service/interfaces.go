package service

import (
	"context"

	"signup-gateway/internal/domain"
)

// EmailPolicy decides whether an address may complete authentication
type EmailPolicy interface {
	IsAuthorized(email string) bool
}

// ProfileDeliverer hands a finished profile to the external webhook
type ProfileDeliverer interface {
	Deliver(ctx context.Context, profile *domain.UserProfile) (domain.Ack, error)
}

// CodeDeliverer sends a verification code through the mock delivery channel
type CodeDeliverer interface {
	DeliverCode(ctx context.Context, email, code string) error
}
