package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// API keys are 48 hex chars (24 random bytes). Uniqueness is enforced at
// the repository level, not here.
const apiKeyBytes = 24

// NewAPIKey generates a random per-account API key.
func NewAPIKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
