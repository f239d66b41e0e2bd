package redis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "local" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// KeySubmissionLock returns the lock key for one (method, email) pair.
// The email is hashed so addresses never appear in key space.
func (kb *KeyBuilder) KeySubmissionLock(authMethod, normalizedEmail string) string {
	sum := sha256.Sum256([]byte(normalizedEmail))
	return kb.BuildKey(fmt.Sprintf(KeySubmissionLock, authMethod, hex.EncodeToString(sum[:8])))
}
