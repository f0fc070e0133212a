package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
)

// SQL dialects understood by SQLStore.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// SQLStore reads records through database/sql. Queries are written with
// Postgres placeholders and rebound for SQLite.
type SQLStore struct {
	DB      *sql.DB
	Dialect string
}

const profileQuery = `
SELECT id, full_name, email, phone, target_program, target_university, consultation_status, role
FROM profiles
WHERE id = $1
LIMIT 1`

const cvQuery = `
SELECT id, user_id, full_name, email, phone, address, linkedin_url, professional_summary,
  education_history, work_experience, technical_skills, soft_skills, languages,
  certifications, extracurricular_activities, photo_url
FROM cv_responses
WHERE user_id = $1
LIMIT 1`

const educationQuery = `
SELECT id, cv_response_id, user_id, institution, degree, field_of_study, location,
  CAST(start_date AS TEXT), CAST(end_date AS TEXT), gpa, description
FROM education_entries
WHERE user_id = $1
ORDER BY start_date IS NULL, start_date ASC, id ASC`

const workQuery = `
SELECT id, cv_response_id, user_id, company, position, location,
  CAST(start_date AS TEXT), CAST(end_date AS TEXT), responsibilities, achievements
FROM work_experience_entries
WHERE user_id = $1
ORDER BY start_date IS NULL, start_date ASC, id ASC`

const sopQuery = `
SELECT id, user_id, full_name, email, phone, nationality, current_education, target_program,
  target_university, intended_intake, academic_background, program_motivation,
  university_motivation, short_term_goals, long_term_goals, has_thesis, thesis_details,
  work_experience, personal_qualities, additional_info
FROM sop_responses
WHERE user_id = $1
LIMIT 1`

const lorQuery = `
SELECT id, user_id, student_name, target_program, target_university, recommender_name,
  recommender_title, recommender_institution, recommender_email, recommender_phone,
  relationship, relationship_duration, courses_taught, academic_performance, key_strengths,
  notable_achievements, areas_for_growth, additional_comments, recommendation_strength
FROM lor_responses
WHERE user_id = $1
LIMIT 1`

func (s *SQLStore) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	row := s.DB.QueryRowContext(ctx, s.bind(profileQuery), userID)
	err := scanNullable(row,
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.TargetProgram,
		&p.TargetUniversity, &p.ConsultationStatus, &p.Role,
	)
	if err != nil {
		return Profile{}, notFound(err, "profile")
	}
	return p, nil
}

func (s *SQLStore) GetCVResponse(ctx context.Context, userID string) (CVResponse, error) {
	var cv CVResponse
	row := s.DB.QueryRowContext(ctx, s.bind(cvQuery), userID)
	err := scanNullable(row,
		&cv.ID, &cv.UserID, &cv.FullName, &cv.Email, &cv.Phone, &cv.Address, &cv.LinkedIn,
		&cv.ProfessionalSummary, &cv.EducationHistory, &cv.WorkExperience, &cv.TechnicalSkills,
		&cv.SoftSkills, &cv.Languages, &cv.Certifications, &cv.Extracurriculars, &cv.PhotoURL,
	)
	if err != nil {
		return CVResponse{}, notFound(err, "cv response")
	}
	return cv, nil
}

func (s *SQLStore) ListEducation(ctx context.Context, userID string) ([]EducationEntry, error) {
	rows, err := s.DB.QueryContext(ctx, s.bind(educationQuery), userID)
	if err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	defer rows.Close()

	out := []EducationEntry{}
	for rows.Next() {
		var e EducationEntry
		if err := scanNullable(rows,
			&e.ID, &e.CVResponseID, &e.UserID, &e.Institution, &e.Degree, &e.FieldOfStudy,
			&e.Location, &e.StartDate, &e.EndDate, &e.GPA, &e.Description,
		); err != nil {
			return nil, fmt.Errorf("scan education: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	return out, nil
}

func (s *SQLStore) ListWorkExperience(ctx context.Context, userID string) ([]WorkExperienceEntry, error) {
	rows, err := s.DB.QueryContext(ctx, s.bind(workQuery), userID)
	if err != nil {
		return nil, fmt.Errorf("list work experience: %w", err)
	}
	defer rows.Close()

	out := []WorkExperienceEntry{}
	for rows.Next() {
		var e WorkExperienceEntry
		if err := scanNullable(rows,
			&e.ID, &e.CVResponseID, &e.UserID, &e.Company, &e.Position, &e.Location,
			&e.StartDate, &e.EndDate, &e.Responsibilities, &e.Achievements,
		); err != nil {
			return nil, fmt.Errorf("scan work experience: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list work experience: %w", err)
	}
	return out, nil
}

func (s *SQLStore) GetSOPResponse(ctx context.Context, userID string) (SOPResponse, error) {
	var sop SOPResponse
	row := s.DB.QueryRowContext(ctx, s.bind(sopQuery), userID)
	err := scanNullable(row,
		&sop.ID, &sop.UserID, &sop.FullName, &sop.Email, &sop.Phone, &sop.Nationality,
		&sop.CurrentEducation, &sop.TargetProgram, &sop.TargetUniversity, &sop.IntendedIntake,
		&sop.AcademicBackground, &sop.ProgramMotivation, &sop.UniversityMotivation,
		&sop.ShortTermGoals, &sop.LongTermGoals, &sop.HasThesis, &sop.ThesisDetails,
		&sop.WorkExperience, &sop.PersonalQualities, &sop.AdditionalInfo,
	)
	if err != nil {
		return SOPResponse{}, notFound(err, "sop response")
	}
	return sop, nil
}

func (s *SQLStore) GetLORResponse(ctx context.Context, userID string) (LORResponse, error) {
	var lor LORResponse
	row := s.DB.QueryRowContext(ctx, s.bind(lorQuery), userID)
	err := scanNullable(row,
		&lor.ID, &lor.UserID, &lor.StudentName, &lor.TargetProgram, &lor.TargetUniversity,
		&lor.RecommenderName, &lor.RecommenderTitle, &lor.RecommenderInstitution,
		&lor.RecommenderEmail, &lor.RecommenderPhone, &lor.Relationship,
		&lor.RelationshipDuration, &lor.CoursesTaught, &lor.AcademicPerformance,
		&lor.KeyStrengths, &lor.NotableAchievements, &lor.AreasForGrowth,
		&lor.AdditionalComments, &lor.RecommendationStrength,
	)
	if err != nil {
		return LORResponse{}, notFound(err, "lor response")
	}
	return lor, nil
}

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

func (s *SQLStore) bind(query string) string {
	if s.Dialect == DialectSQLite {
		return placeholderPattern.ReplaceAllString(query, "?$1")
	}
	return query
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanNullable scans into plain strings and bools, treating NULL as the zero value.
func scanNullable(row rowScanner, dests ...any) error {
	args := make([]any, len(dests))
	for i, d := range dests {
		switch d.(type) {
		case *string:
			args[i] = new(sql.NullString)
		case *bool:
			args[i] = new(sql.NullBool)
		default:
			args[i] = d
		}
	}
	if err := row.Scan(args...); err != nil {
		return err
	}
	for i, d := range dests {
		switch dst := d.(type) {
		case *string:
			if ns := args[i].(*sql.NullString); ns.Valid {
				*dst = ns.String
			}
		case *bool:
			if nb := args[i].(*sql.NullBool); nb.Valid {
				*dst = nb.Bool
			}
		}
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}

var _ Store = (*SQLStore)(nil)
