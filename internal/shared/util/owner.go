package util

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var ownerKeyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// OwnerKey maps a user ID to the path segment its staged exports live under.
// Blank and padded IDs map to the same key.
func OwnerKey(userID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(userID)))
	return hex.EncodeToString(sum[:])
}

// IsOwnerKey reports whether s has the shape OwnerKey produces.
func IsOwnerKey(s string) bool {
	return ownerKeyPattern.MatchString(s)
}
