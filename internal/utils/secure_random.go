package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const portalAccessIDBytes = 16

// GeneratePortalAccessID returns an unguessable hex token for a client portal link.
func GeneratePortalAccessID() (string, error) {
	b := make([]byte, portalAccessIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
