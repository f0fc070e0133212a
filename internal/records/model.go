package records

import "time"

// Roles a profile may carry.
const (
	RoleStudent  = "student"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Profile is the account-level record for a portal user.
type Profile struct {
	ID                 string    `json:"id"`
	FullName           string    `json:"fullName"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	TargetProgram      string    `json:"targetProgram"`
	TargetUniversity   string    `json:"targetUniversity"`
	ConsultationStatus string    `json:"consultationStatus"`
	Role               string    `json:"role"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CVResponse holds a student's answers to the CV questionnaire.
type CVResponse struct {
	ID                  string `json:"id"`
	UserID              string `json:"userId"`
	FullName            string `json:"fullName"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	LinkedIn            string `json:"linkedIn"`
	ProfessionalSummary string `json:"professionalSummary"`
	// EducationHistory and WorkExperience are free-text summaries shown when
	// no structured entries exist.
	EducationHistory string `json:"educationHistory"`
	WorkExperience   string `json:"workExperience"`
	TechnicalSkills  string `json:"technicalSkills"`
	SoftSkills       string `json:"softSkills"`
	Languages        string `json:"languages"`
	Certifications   string `json:"certifications"`
	Extracurriculars string `json:"extracurriculars"`
	PhotoURL         string `json:"photoUrl"`
}

// EducationEntry is one structured education row attached to a CV response.
type EducationEntry struct {
	ID           string `json:"id"`
	CVResponseID string `json:"cvResponseId"`
	UserID       string `json:"userId"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	Location     string `json:"location"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"` // empty means ongoing
	GPA          string `json:"gpa"`
	Description  string `json:"description"`
}

// WorkExperienceEntry is one structured employment row attached to a CV response.
type WorkExperienceEntry struct {
	ID               string `json:"id"`
	CVResponseID     string `json:"cvResponseId"`
	UserID           string `json:"userId"`
	Company          string `json:"company"`
	Position         string `json:"position"`
	Location         string `json:"location"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"` // empty means ongoing
	Responsibilities string `json:"responsibilities"`
	Achievements     string `json:"achievements"`
}

// SOPResponse holds a student's answers to the statement of purpose questionnaire.
type SOPResponse struct {
	ID                   string `json:"id"`
	UserID               string `json:"userId"`
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Nationality          string `json:"nationality"`
	CurrentEducation     string `json:"currentEducation"`
	TargetProgram        string `json:"targetProgram"`
	TargetUniversity     string `json:"targetUniversity"`
	IntendedIntake       string `json:"intendedIntake"`
	AcademicBackground   string `json:"academicBackground"`
	ProgramMotivation    string `json:"programMotivation"`
	UniversityMotivation string `json:"universityMotivation"`
	ShortTermGoals       string `json:"shortTermGoals"`
	LongTermGoals        string `json:"longTermGoals"`
	HasThesis            bool   `json:"hasThesis"`
	// ThesisDetails is only meaningful when HasThesis is set.
	ThesisDetails     string `json:"thesisDetails"`
	WorkExperience    string `json:"workExperience"`
	PersonalQualities string `json:"personalQualities"`
	AdditionalInfo    string `json:"additionalInfo"`
}

// LORResponse holds the recommender questionnaire for a student.
type LORResponse struct {
	ID                     string `json:"id"`
	UserID                 string `json:"userId"`
	StudentName            string `json:"studentName"`
	TargetProgram          string `json:"targetProgram"`
	TargetUniversity       string `json:"targetUniversity"`
	RecommenderName        string `json:"recommenderName"`
	RecommenderTitle       string `json:"recommenderTitle"`
	RecommenderInstitution string `json:"recommenderInstitution"`
	RecommenderEmail       string `json:"recommenderEmail"`
	RecommenderPhone       string `json:"recommenderPhone"`
	Relationship           string `json:"relationship"`
	RelationshipDuration   string `json:"relationshipDuration"`
	CoursesTaught          string `json:"coursesTaught"`
	AcademicPerformance    string `json:"academicPerformance"`
	KeyStrengths           string `json:"keyStrengths"`
	NotableAchievements    string `json:"notableAchievements"`
	AreasForGrowth         string `json:"areasForGrowth"`
	AdditionalComments     string `json:"additionalComments"`
	// RecommendationStrength is strong, moderate or weak; other values are
	// coerced when rendered.
	RecommendationStrength string `json:"recommendationStrength"`
}
