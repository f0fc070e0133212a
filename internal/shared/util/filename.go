package util

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFileNameBytes caps export file names; most filesystems stop at 255.
const MaxFileNameBytes = 200

var ErrInvalidFileName = errors.New("invalid file name")

// SafeFileName returns name with path separators and control characters
// replaced by underscores. Traversal patterns, hidden names and names over
// MaxFileNameBytes are rejected. Non-ASCII letters and the en dash are kept.
func SafeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || strings.Contains(s, "..") || strings.HasPrefix(s, ".") {
		return "", ErrInvalidFileName
	}
	if !utf8.ValidString(s) || len(s) > MaxFileNameBytes {
		return "", ErrInvalidFileName
	}
	s = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, s)
	return s, nil
}

// IsSafeFileName reports whether name would pass SafeFileName unchanged.
func IsSafeFileName(name string) bool {
	clean, err := SafeFileName(name)
	return err == nil && clean == name
}
