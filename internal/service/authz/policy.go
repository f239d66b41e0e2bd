package authz

import (
	"signup-gateway/pkg/logger"
	"signup-gateway/pkg/utils"
)

// Policy decides whether an email may complete authentication. The set is
// fixed at construction; there is no update path.
type Policy struct {
	allowed map[string]struct{}
	logger  *logger.Logger
}

// NewPolicy builds a policy from the configured allow-list. Entries are
// compared case-insensitively.
func NewPolicy(emails []string, logger *logger.Logger) *Policy {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if n := utils.NormalizeEmail(e); n != "" {
			allowed[n] = struct{}{}
		}
	}
	return &Policy{allowed: allowed, logger: logger.Named("authz")}
}

// IsAuthorized trims and lower-cases email before checking membership.
// An empty address is never authorized.
func (p *Policy) IsAuthorized(email string) bool {
	normalized := utils.NormalizeEmail(email)
	if normalized == "" {
		return false
	}

	_, ok := p.allowed[normalized]
	if !ok {
		p.logger.WithEmail(email).Info("Authorization check failed")
	}
	return ok
}

// Size returns the number of distinct authorized addresses.
func (p *Policy) Size() int {
	return len(p.allowed)
}
