package records

import "context"

// Store is the read-only record lookup used by document exports.
// Single-row lookups return ErrNotFound when no row matches; list lookups
// return an empty slice and entries ordered by start date ascending.
type Store interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	GetCVResponse(ctx context.Context, userID string) (CVResponse, error)
	ListEducation(ctx context.Context, userID string) ([]EducationEntry, error)
	ListWorkExperience(ctx context.Context, userID string) ([]WorkExperienceEntry, error)
	GetSOPResponse(ctx context.Context, userID string) (SOPResponse, error)
	GetLORResponse(ctx context.Context, userID string) (LORResponse, error)
}
