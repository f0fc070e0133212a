package records

// SeedSample stores a complete demo student under userID: a profile, a CV
// with two education rows and two jobs, an SOP with a thesis and an LOR.
func SeedSample(s *MemoryStore, userID string) {
	s.PutProfile(Profile{
		ID:                 userID,
		FullName:           "Jane Q. Doe",
		Email:              "jane.doe@example.com",
		Phone:              "+1-555-0100",
		TargetProgram:      "MSc Computer Science",
		TargetUniversity:   "University of Toronto",
		ConsultationStatus: "in_progress",
		Role:               RoleStudent,
	})
	s.PutCVResponse(CVResponse{
		ID:                  userID + "-cv",
		UserID:              userID,
		FullName:            "Jane Q. Doe",
		Email:               "jane.doe@example.com",
		Phone:               "+1-555-0100",
		Address:             "12 King Street, Toronto, ON",
		LinkedIn:            "https://www.linkedin.com/in/janeqdoe",
		ProfessionalSummary: "Software engineer with four years of experience building data pipelines and internal tooling for logistics teams.",
		TechnicalSkills:     "Go, Python, PostgreSQL, Kubernetes",
		SoftSkills:          "Mentoring, technical writing",
		Languages:           "English (native), French (B2)",
		Certifications:      "AWS Certified Developer - Associate",
		Extracurriculars:    "Volunteer tutor at Code Club Toronto",
	})
	s.AddEducation(EducationEntry{
		ID:           userID + "-edu-2",
		CVResponseID: userID + "-cv",
		UserID:       userID,
		Institution:  "University of Waterloo",
		Degree:       "BASc",
		FieldOfStudy: "Computer Engineering",
		Location:     "Waterloo, ON",
		StartDate:    "2015-09-01",
		EndDate:      "2020-04-30",
		GPA:          "3.7",
		Description:  "Graduated with distinction.",
	})
	s.AddEducation(EducationEntry{
		ID:           userID + "-edu-1",
		CVResponseID: userID + "-cv",
		UserID:       userID,
		Institution:  "Lycée Pasteur",
		Degree:       "Baccalauréat",
		FieldOfStudy: "Sciences",
		Location:     "Paris, France",
		StartDate:    "2012-09-01",
		EndDate:      "2015-06-30",
	})
	s.AddWorkExperience(WorkExperienceEntry{
		ID:               userID + "-work-1",
		CVResponseID:     userID + "-cv",
		UserID:           userID,
		Company:          "Northwind Logistics",
		Position:         "Software Engineer",
		Location:         "Toronto, ON",
		StartDate:        "2020-06-01",
		EndDate:          "2022-08-31",
		Responsibilities: "Built shipment tracking services and nightly reconciliation jobs.",
		Achievements:     "Cut reconciliation time from four hours to twenty minutes.",
	})
	s.AddWorkExperience(WorkExperienceEntry{
		ID:               userID + "-work-2",
		CVResponseID:     userID + "-cv",
		UserID:           userID,
		Company:          "Contoso Freight",
		Position:         "Senior Software Engineer",
		Location:         "Remote",
		StartDate:        "2022-09-01",
		Responsibilities: "Lead the routing platform team.",
	})
	s.PutSOPResponse(SOPResponse{
		ID:                   userID + "-sop",
		UserID:               userID,
		FullName:             "Jane Q. Doe",
		Email:                "jane.doe@example.com",
		Nationality:          "Canadian",
		CurrentEducation:     "BASc Computer Engineering",
		TargetProgram:        "MSc Computer Science",
		TargetUniversity:     "University of Toronto",
		IntendedIntake:       "Fall 2025",
		AcademicBackground:   "Four years of computer engineering with a focus on distributed systems.",
		ProgramMotivation:    "I want to study the theory behind the scheduling problems I meet at work.",
		UniversityMotivation: "The systems group publishes on exactly the routing problems I work on.",
		ShortTermGoals:       "Complete a research thesis on vehicle routing heuristics.",
		LongTermGoals:        "Lead an applied research team in logistics optimisation.",
		HasThesis:            true,
		ThesisDetails:        "Undergraduate thesis on fault-tolerant message queues.",
		WorkExperience:       "Four years as a software engineer in logistics.",
		PersonalQualities:    "Curious, methodical and persistent.",
	})
	s.PutLORResponse(LORResponse{
		ID:                     userID + "-lor",
		UserID:                 userID,
		StudentName:            "Jane Q. Doe",
		TargetProgram:          "MSc Computer Science",
		TargetUniversity:       "University of Toronto",
		RecommenderName:        "Dr. Alan Smith",
		RecommenderTitle:       "Associate Professor",
		RecommenderInstitution: "University of Waterloo",
		RecommenderEmail:       "alan.smith@example.edu",
		Relationship:           "Thesis supervisor",
		RelationshipDuration:   "Two years",
		CoursesTaught:          "ECE 454 Distributed Computing",
		AcademicPerformance:    "Top five percent of her cohort.",
		KeyStrengths:           "Independent research, clear writing.",
		NotableAchievements:    "Best undergraduate thesis award, 2020.",
		RecommendationStrength: "Strong",
	})
}
