package records

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in process memory. It backs dev mode and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	profiles  map[string]Profile
	cvs       map[string]CVResponse
	education map[string][]EducationEntry
	work      map[string][]WorkExperienceEntry
	sops      map[string]SOPResponse
	lors      map[string]LORResponse
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:  make(map[string]Profile),
		cvs:       make(map[string]CVResponse),
		education: make(map[string][]EducationEntry),
		work:      make(map[string][]WorkExperienceEntry),
		sops:      make(map[string]SOPResponse),
		lors:      make(map[string]LORResponse),
	}
}

func (s *MemoryStore) PutProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := s.profiles[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profiles[p.ID] = p
}

func (s *MemoryStore) PutCVResponse(cv CVResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cvs[cv.UserID] = cv
}

func (s *MemoryStore) AddEducation(entry EducationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.education[entry.UserID] = append(s.education[entry.UserID], entry)
}

func (s *MemoryStore) AddWorkExperience(entry WorkExperienceEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.work[entry.UserID] = append(s.work[entry.UserID], entry)
}

func (s *MemoryStore) PutSOPResponse(sop SOPResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sops[sop.UserID] = sop
}

func (s *MemoryStore) PutLORResponse(lor LORResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lors[lor.UserID] = lor
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) GetCVResponse(ctx context.Context, userID string) (CVResponse, error) {
	if err := ctx.Err(); err != nil {
		return CVResponse{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cv, ok := s.cvs[userID]
	if !ok {
		return CVResponse{}, ErrNotFound
	}
	return cv, nil
}

func (s *MemoryStore) ListEducation(ctx context.Context, userID string) ([]EducationEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := append([]EducationEntry(nil), s.education[userID]...)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return startsBefore(out[i].StartDate, out[i].ID, out[j].StartDate, out[j].ID)
	})
	return out, nil
}

func (s *MemoryStore) ListWorkExperience(ctx context.Context, userID string) ([]WorkExperienceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := append([]WorkExperienceEntry(nil), s.work[userID]...)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return startsBefore(out[i].StartDate, out[i].ID, out[j].StartDate, out[j].ID)
	})
	return out, nil
}

func (s *MemoryStore) GetSOPResponse(ctx context.Context, userID string) (SOPResponse, error) {
	if err := ctx.Err(); err != nil {
		return SOPResponse{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sop, ok := s.sops[userID]
	if !ok {
		return SOPResponse{}, ErrNotFound
	}
	return sop, nil
}

func (s *MemoryStore) GetLORResponse(ctx context.Context, userID string) (LORResponse, error) {
	if err := ctx.Err(); err != nil {
		return LORResponse{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	lor, ok := s.lors[userID]
	if !ok {
		return LORResponse{}, ErrNotFound
	}
	return lor, nil
}

// startsBefore mirrors the SQL ordering: undated entries last, then ISO date, then id.
func startsBefore(startA, idA, startB, idB string) bool {
	if (startA == "") != (startB == "") {
		return startB == ""
	}
	if startA != startB {
		return startA < startB
	}
	return idA < idB
}

var _ Store = (*MemoryStore)(nil)
