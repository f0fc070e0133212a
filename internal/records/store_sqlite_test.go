package records_test

import (
	"context"
	"errors"
	"testing"

	"advisory-backend/internal/records"
	"advisory-backend/internal/shared/storage/db"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	database, err := db.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if err := db.RunMigrations(ctx, database, db.DialectSQLite); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	seed := []string{
		`INSERT INTO profiles (id, full_name, phone, role) VALUES ('user-1', 'Jane Q. Doe', '+1-555-0100', 'student')`,
		`INSERT INTO cv_responses (id, user_id, professional_summary) VALUES ('cv-1', 'user-1', 'Physicist turned data scientist.')`,
		`INSERT INTO work_experience_entries (id, cv_response_id, user_id, company, position, start_date, end_date)
		 VALUES ('w-2', 'cv-1', 'user-1', 'Lab Two', 'Researcher', '2021-01-01', NULL),
		        ('w-1', 'cv-1', 'user-1', 'Lab One', 'Assistant', '2019-07-01', '2020-12-31')`,
		`INSERT INTO sop_responses (id, user_id, has_thesis, thesis_details) VALUES ('sop-1', 'user-1', 1, 'Quantum sensing')`,
	}
	for _, stmt := range seed {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	store := &records.SQLStore{DB: database, Dialect: records.DialectSQLite}

	profile, err := store.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.FullName != "Jane Q. Doe" {
		t.Fatalf("unexpected name %q", profile.FullName)
	}

	work, err := store.ListWorkExperience(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListWorkExperience: %v", err)
	}
	if len(work) != 2 || work[0].ID != "w-1" || work[1].ID != "w-2" {
		t.Fatalf("expected entries ordered by start date, got %+v", work)
	}
	if work[1].EndDate != "" {
		t.Fatalf("expected NULL end date to be empty, got %q", work[1].EndDate)
	}
	if work[0].StartDate != "2019-07-01" {
		t.Fatalf("unexpected start date %q", work[0].StartDate)
	}

	sop, err := store.GetSOPResponse(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSOPResponse: %v", err)
	}
	if !sop.HasThesis || sop.ThesisDetails != "Quantum sensing" {
		t.Fatalf("unexpected sop: %+v", sop)
	}

	education, err := store.ListEducation(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListEducation: %v", err)
	}
	if len(education) != 0 {
		t.Fatalf("expected no education entries, got %d", len(education))
	}

	if _, err := store.GetLORResponse(ctx, "user-1"); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing LOR, got %v", err)
	}
}
