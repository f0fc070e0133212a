package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"advisory-backend/internal/records"
)

// Records is everything read for one export.
type Records struct {
	Kind      Kind
	Profile   records.Profile
	CV        *records.CVResponse
	Education []records.EducationEntry
	Work      []records.WorkExperienceEntry
	SOP       *records.SOPResponse
	LOR       *records.LORResponse
}

// Fetcher loads the records an export needs. It never writes.
type Fetcher struct {
	Store      records.Store
	RetryDelay time.Duration
}

// Fetch returns the profile and primary response for kind, plus the ordered
// education and work collections for CV. The CV reads run concurrently.
func (f *Fetcher) Fetch(ctx context.Context, userID string, kind Kind) (Records, error) {
	if strings.TrimSpace(userID) == "" {
		return Records{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	var out Records
	err := withFetchRetry(ctx, f.RetryDelay, userID, kind, func(ctx context.Context) error {
		recs, err := f.fetchOnce(ctx, userID, kind)
		if err != nil {
			return err
		}
		out = recs
		return nil
	})
	if err != nil {
		return Records{}, err
	}
	return out, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, userID string, kind Kind) (Records, error) {
	out := Records{Kind: kind}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := f.Store.GetProfile(gctx, userID)
		if err != nil {
			return mapStoreErr(err, "profile", userID)
		}
		out.Profile = p
		return nil
	})

	switch kind {
	case KindCV:
		g.Go(func() error {
			cv, err := f.Store.GetCVResponse(gctx, userID)
			if err != nil {
				return mapStoreErr(err, "cv response", userID)
			}
			out.CV = &cv
			return nil
		})
		g.Go(func() error {
			entries, err := f.Store.ListEducation(gctx, userID)
			if err != nil {
				return fmt.Errorf("list education: %w", err)
			}
			out.Education = entries
			return nil
		})
		g.Go(func() error {
			entries, err := f.Store.ListWorkExperience(gctx, userID)
			if err != nil {
				return fmt.Errorf("list work experience: %w", err)
			}
			out.Work = entries
			return nil
		})
	case KindSOP:
		g.Go(func() error {
			sop, err := f.Store.GetSOPResponse(gctx, userID)
			if err != nil {
				return mapStoreErr(err, "sop response", userID)
			}
			out.SOP = &sop
			return nil
		})
	case KindLOR:
		g.Go(func() error {
			lor, err := f.Store.GetLORResponse(gctx, userID)
			if err != nil {
				return mapStoreErr(err, "lor response", userID)
			}
			out.LOR = &lor
			return nil
		})
	default:
		return Records{}, fmt.Errorf("%w: unknown document kind %q", ErrInvalidInput, kind)
	}

	if err := g.Wait(); err != nil {
		return Records{}, err
	}
	return out, nil
}

func mapStoreErr(err error, what, userID string) error {
	if errors.Is(err, records.ErrNotFound) {
		return fmt.Errorf("%w: %s for user %s", ErrNotFound, what, userID)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
