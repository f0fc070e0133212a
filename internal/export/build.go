package export

import (
	"fmt"

	"advisory-backend/document/model"
)

const generatedDateLayout = "January 2, 2006"

// Build produces the document specification for a resolved bundle. Section
// order is fixed: information table, kind-specific sections, then the LOR
// strength statement.
func Build(b Bundle) (model.Document, error) {
	doc := model.Document{
		Kind:          string(b.Kind),
		Title:         b.Kind.Title(),
		Subject:       b.Field(FieldFullName),
		GeneratedLine: "Generated on " + b.GeneratedAt.UTC().Format(generatedDateLayout),
		GeneratedAt:   b.GeneratedAt.UTC(),
	}
	switch b.Kind {
	case KindCV:
		doc.Sections = cvSections(b)
	case KindSOP:
		doc.Sections = sopSections(b)
	case KindLOR:
		doc.Sections = lorSections(b)
		doc.Closing = &model.Pair{Label: "Recommendation Strength", Value: b.Strength}
	default:
		return model.Document{}, fmt.Errorf("%w: unknown document kind %q", ErrInvalidInput, b.Kind)
	}
	return doc, nil
}

func cvSections(b Bundle) []model.Section {
	sections := []model.Section{
		keyValue("Personal Information", b,
			"Full Name", FieldFullName,
			"Email", FieldEmail,
			"Phone", FieldPhone,
			"Address", FieldAddress,
			"LinkedIn", FieldLinkedIn,
			"Target Program", FieldTargetProgram,
			"Target University", FieldTargetUniversity,
		),
		prose("Professional Summary", b, FieldProfessionalSummary),
	}

	if len(b.Education) > 0 {
		table := &model.Table{Columns: []string{"Institution", "Location", "Degree", "Field of Study", "Period", "GPA", "Description"}}
		for _, e := range b.Education {
			table.Rows = append(table.Rows, []string{e.Institution, e.Location, e.Degree, e.FieldOfStudy, e.Period, e.GPA, e.Description})
		}
		sections = append(sections, model.Section{Heading: "Education", Body: model.BodyTable, Table: table})
	} else {
		sections = append(sections, prose("Education", b, FieldEducationHistory))
	}

	if len(b.Work) > 0 {
		blocks := make([]model.Block, 0, len(b.Work))
		for _, w := range b.Work {
			blocks = append(blocks, model.Block{
				Title:    w.Position + " at " + w.Company,
				Subtitle: w.Period,
				Pairs: []model.Pair{
					{Label: "Location", Value: w.Location},
					{Label: "Responsibilities", Value: w.Responsibilities},
					{Label: "Achievements", Value: w.Achievements},
				},
			})
		}
		sections = append(sections, model.Section{Heading: "Work Experience", Body: model.BodyBlocks, Blocks: blocks})
	} else {
		sections = append(sections, prose("Work Experience", b, FieldWorkExperience))
	}

	sections = append(sections,
		keyValue("Skills", b,
			"Technical Skills", FieldTechnicalSkills,
			"Soft Skills", FieldSoftSkills,
			"Languages", FieldLanguages,
		),
		prose("Certifications", b, FieldCertifications),
		detail(prose("Extracurricular Activities", b, FieldExtracurriculars)),
	)
	return sections
}

func sopSections(b Bundle) []model.Section {
	sections := []model.Section{
		keyValue("Student Information", b,
			"Full Name", FieldFullName,
			"Email", FieldEmail,
			"Phone", FieldPhone,
			"Nationality", FieldNationality,
			"Current Education", FieldCurrentEducation,
			"Target Program", FieldTargetProgram,
			"Target University", FieldTargetUniversity,
			"Intended Intake", FieldIntendedIntake,
		),
		prose("Academic Background", b, FieldAcademicBackground),
		prose("Why This Program", b, FieldProgramMotivation),
		detail(prose("Why This University", b, FieldUniversityMotivation)),
		prose("Short-term Goals", b, FieldShortTermGoals),
		prose("Long-term Goals", b, FieldLongTermGoals),
	}
	if b.IncludeThesis {
		sections = append(sections, prose("Thesis Details", b, FieldThesisDetails))
	}
	sections = append(sections,
		detail(prose("Work Experience", b, FieldWorkExperience)),
		detail(prose("Personal Qualities", b, FieldPersonalQualities)),
		detail(prose("Additional Information", b, FieldAdditionalInfo)),
	)
	return sections
}

func lorSections(b Bundle) []model.Section {
	return []model.Section{
		keyValue("Student Information", b,
			"Student Name", FieldFullName,
			"Phone", FieldPhone,
			"Target Program", FieldTargetProgram,
			"Target University", FieldTargetUniversity,
		),
		keyValue("Recommender Information", b,
			"Name", FieldRecommenderName,
			"Title", FieldRecommenderTitle,
			"Institution", FieldRecommenderInstitution,
			"Email", FieldRecommenderEmail,
			"Phone", FieldRecommenderPhone,
		),
		keyValue("Relationship", b,
			"Relationship", FieldRelationship,
			"Duration", FieldRelationshipDuration,
			"Courses Taught", FieldCoursesTaught,
		),
		prose("Academic Performance", b, FieldAcademicPerformance),
		prose("Key Strengths", b, FieldKeyStrengths),
		detail(prose("Notable Achievements", b, FieldNotableAchievements)),
		detail(prose("Areas for Growth", b, FieldAreasForGrowth)),
		detail(prose("Additional Comments", b, FieldAdditionalComments)),
	}
}

func prose(heading string, b Bundle, key string) model.Section {
	return model.Section{Heading: heading, Body: model.BodyProse, Paragraphs: []string{b.Field(key)}}
}

// keyValue takes alternating label, field key arguments.
func keyValue(heading string, b Bundle, labelsAndKeys ...string) model.Section {
	pairs := make([]model.Pair, 0, len(labelsAndKeys)/2)
	for i := 0; i+1 < len(labelsAndKeys); i += 2 {
		pairs = append(pairs, model.Pair{Label: labelsAndKeys[i], Value: b.Field(labelsAndKeys[i+1])})
	}
	return model.Section{Heading: heading, Body: model.BodyKeyValue, Pairs: pairs}
}

func detail(s model.Section) model.Section {
	s.Detail = true
	return s
}
