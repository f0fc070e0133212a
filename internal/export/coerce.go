package export

import (
	"strings"

	"advisory-backend/internal/records"
)

// CoerceEnum returns the allowed value matching raw, ignoring case and
// surrounding whitespace, or def when nothing matches.
func CoerceEnum[T ~string](raw string, allowed []T, def T) T {
	v := strings.TrimSpace(raw)
	for _, a := range allowed {
		if strings.EqualFold(v, string(a)) {
			return a
		}
	}
	return def
}

// Recommendation strengths.
const (
	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
)

var strengths = []string{StrengthStrong, StrengthModerate, StrengthWeak}

var roles = []string{records.RoleStudent, records.RoleEmployee, records.RoleAdmin}

// RoleOf is the profile's role; unknown or blank roles are treated as student.
func RoleOf(p records.Profile) string {
	return CoerceEnum(p.Role, roles, records.RoleStudent)
}

// IsStaff reports whether role may export other users' documents.
func IsStaff(role string) bool {
	return role == records.RoleEmployee || role == records.RoleAdmin
}
