package export

import (
	"strings"
	"time"
)

// NotProvided replaces every absent value in an export.
const NotProvided = "Not provided"

// Present marks an open-ended date range.
const Present = "Present"

// Field keys of a resolved bundle.
const (
	FieldFullName         = "full_name"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldAddress          = "address"
	FieldLinkedIn         = "linkedin"
	FieldTargetProgram    = "target_program"
	FieldTargetUniversity = "target_university"

	FieldProfessionalSummary = "professional_summary"
	FieldEducationHistory    = "education_history"
	FieldWorkExperience      = "work_experience"
	FieldTechnicalSkills     = "technical_skills"
	FieldSoftSkills          = "soft_skills"
	FieldLanguages           = "languages"
	FieldCertifications      = "certifications"
	FieldExtracurriculars    = "extracurriculars"

	FieldNationality          = "nationality"
	FieldCurrentEducation     = "current_education"
	FieldIntendedIntake       = "intended_intake"
	FieldAcademicBackground   = "academic_background"
	FieldProgramMotivation    = "program_motivation"
	FieldUniversityMotivation = "university_motivation"
	FieldShortTermGoals       = "short_term_goals"
	FieldLongTermGoals        = "long_term_goals"
	FieldThesisDetails        = "thesis_details"
	FieldPersonalQualities    = "personal_qualities"
	FieldAdditionalInfo       = "additional_info"

	FieldRecommenderName        = "recommender_name"
	FieldRecommenderTitle       = "recommender_title"
	FieldRecommenderInstitution = "recommender_institution"
	FieldRecommenderEmail       = "recommender_email"
	FieldRecommenderPhone       = "recommender_phone"
	FieldRelationship           = "relationship"
	FieldRelationshipDuration   = "relationship_duration"
	FieldCoursesTaught          = "courses_taught"
	FieldAcademicPerformance    = "academic_performance"
	FieldKeyStrengths           = "key_strengths"
	FieldNotableAchievements    = "notable_achievements"
	FieldAreasForGrowth         = "areas_for_growth"
	FieldAdditionalComments     = "additional_comments"
)

// Bundle is the resolved, render-ready view of one export. Every value in
// Fields and in the entry slices is non-empty.
type Bundle struct {
	Kind        Kind
	GeneratedAt time.Time
	// DisplayName is the name used in file names; it is never "Not provided".
	DisplayName string
	Fields      map[string]string
	Education   []EducationFields
	Work        []WorkFields
	// IncludeThesis is true only for SOPs whose student wrote a thesis.
	IncludeThesis bool
	// Strength is the coerced recommendation strength, upper-cased.
	Strength string
}

// Field returns a resolved value, falling back to NotProvided for unknown keys.
func (b Bundle) Field(key string) string {
	if v, ok := b.Fields[key]; ok {
		return v
	}
	return NotProvided
}

type EducationFields struct {
	Institution  string
	Degree       string
	FieldOfStudy string
	Location     string
	Period       string
	GPA          string
	Description  string
}

type WorkFields struct {
	Company          string
	Position         string
	Location         string
	Period           string
	Responsibilities string
	Achievements     string
}

const defaultDisplayName = "Student"

// Resolve turns raw records into display values. It is pure: the same
// records and time always give the same bundle.
func Resolve(recs Records, generatedAt time.Time) Bundle {
	b := Bundle{
		Kind:        recs.Kind,
		GeneratedAt: generatedAt,
		Fields:      map[string]string{},
	}
	p := recs.Profile
	set := func(key string, values ...string) {
		b.Fields[key] = firstProvided(values...)
	}

	var questionnaireName string
	switch recs.Kind {
	case KindCV:
		cv := derefOrZero(recs.CV)
		questionnaireName = cv.FullName
		set(FieldFullName, cv.FullName, p.FullName)
		set(FieldEmail, cv.Email, p.Email)
		set(FieldPhone, cv.Phone, p.Phone)
		set(FieldAddress, cv.Address)
		set(FieldLinkedIn, cv.LinkedIn)
		set(FieldTargetProgram, p.TargetProgram)
		set(FieldTargetUniversity, p.TargetUniversity)
		set(FieldProfessionalSummary, cv.ProfessionalSummary)
		set(FieldEducationHistory, cv.EducationHistory)
		set(FieldWorkExperience, cv.WorkExperience)
		set(FieldTechnicalSkills, cv.TechnicalSkills)
		set(FieldSoftSkills, cv.SoftSkills)
		set(FieldLanguages, cv.Languages)
		set(FieldCertifications, cv.Certifications)
		set(FieldExtracurriculars, cv.Extracurriculars)
		for _, e := range recs.Education {
			b.Education = append(b.Education, EducationFields{
				Institution:  firstProvided(e.Institution),
				Degree:       firstProvided(e.Degree),
				FieldOfStudy: firstProvided(e.FieldOfStudy),
				Location:     firstProvided(e.Location),
				Period:       DateRange(e.StartDate, e.EndDate),
				GPA:          firstProvided(e.GPA),
				Description:  firstProvided(e.Description),
			})
		}
		for _, w := range recs.Work {
			b.Work = append(b.Work, WorkFields{
				Company:          firstProvided(w.Company),
				Position:         firstProvided(w.Position),
				Location:         firstProvided(w.Location),
				Period:           DateRange(w.StartDate, w.EndDate),
				Responsibilities: firstProvided(w.Responsibilities),
				Achievements:     firstProvided(w.Achievements),
			})
		}
	case KindSOP:
		sop := derefOrZero(recs.SOP)
		questionnaireName = sop.FullName
		set(FieldFullName, sop.FullName, p.FullName)
		set(FieldEmail, sop.Email, p.Email)
		set(FieldPhone, sop.Phone, p.Phone)
		set(FieldNationality, sop.Nationality)
		set(FieldCurrentEducation, sop.CurrentEducation)
		set(FieldTargetProgram, sop.TargetProgram, p.TargetProgram)
		set(FieldTargetUniversity, sop.TargetUniversity, p.TargetUniversity)
		set(FieldIntendedIntake, sop.IntendedIntake)
		set(FieldAcademicBackground, sop.AcademicBackground)
		set(FieldProgramMotivation, sop.ProgramMotivation)
		set(FieldUniversityMotivation, sop.UniversityMotivation)
		set(FieldShortTermGoals, sop.ShortTermGoals)
		set(FieldLongTermGoals, sop.LongTermGoals)
		set(FieldWorkExperience, sop.WorkExperience)
		set(FieldPersonalQualities, sop.PersonalQualities)
		set(FieldAdditionalInfo, sop.AdditionalInfo)
		if sop.HasThesis {
			b.IncludeThesis = true
			set(FieldThesisDetails, sop.ThesisDetails)
		}
	case KindLOR:
		lor := derefOrZero(recs.LOR)
		questionnaireName = lor.StudentName
		set(FieldFullName, lor.StudentName, p.FullName)
		set(FieldPhone, p.Phone)
		set(FieldTargetProgram, lor.TargetProgram, p.TargetProgram)
		set(FieldTargetUniversity, lor.TargetUniversity, p.TargetUniversity)
		set(FieldRecommenderName, lor.RecommenderName)
		set(FieldRecommenderTitle, lor.RecommenderTitle)
		set(FieldRecommenderInstitution, lor.RecommenderInstitution)
		set(FieldRecommenderEmail, lor.RecommenderEmail)
		set(FieldRecommenderPhone, lor.RecommenderPhone)
		set(FieldRelationship, lor.Relationship)
		set(FieldRelationshipDuration, lor.RelationshipDuration)
		set(FieldCoursesTaught, lor.CoursesTaught)
		set(FieldAcademicPerformance, lor.AcademicPerformance)
		set(FieldKeyStrengths, lor.KeyStrengths)
		set(FieldNotableAchievements, lor.NotableAchievements)
		set(FieldAreasForGrowth, lor.AreasForGrowth)
		set(FieldAdditionalComments, lor.AdditionalComments)
		b.Strength = strings.ToUpper(CoerceEnum(lor.RecommendationStrength, strengths, StrengthModerate))
	}

	b.DisplayName = defaultDisplayName
	if name := firstProvided(questionnaireName, p.FullName); name != NotProvided {
		b.DisplayName = name
	}
	return b
}

// DateRange renders "start – end", using Present for a missing end.
func DateRange(start, end string) string {
	s := firstProvided(start)
	e := strings.TrimSpace(end)
	if e == "" {
		e = Present
	}
	return s + " – " + e
}

// firstProvided returns the first value that is not blank, trimmed, or NotProvided.
func firstProvided(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return NotProvided
}

func derefOrZero[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
