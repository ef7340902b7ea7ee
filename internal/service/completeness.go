package service

import "researchhub/internal/model"

// MissingField is one unpopulated required profile field, with the
// human-readable label shown by the onboarding UI.
type MissingField struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

var studentRequired = []struct {
	field string
	label string
	get   func(*model.StudentProfile) string
}{
	{"student_id", "Student ID", func(p *model.StudentProfile) string { return p.StudentID }},
	{"university", "University", func(p *model.StudentProfile) string { return p.University }},
	{"major", "Major", func(p *model.StudentProfile) string { return p.Major }},
	{"phone", "Phone number", func(p *model.StudentProfile) string { return p.Phone }},
}

var lecturerRequired = []struct {
	field string
	label string
	get   func(*model.LecturerProfile) string
}{
	{"lecturer_id", "Lecturer ID", func(p *model.LecturerProfile) string { return p.LecturerID }},
	{"university", "University", func(p *model.LecturerProfile) string { return p.University }},
	{"department", "Department", func(p *model.LecturerProfile) string { return p.Department }},
	{"degree", "Degree", func(p *model.LecturerProfile) string { return string(p.Degree) }},
	{"research_interests", "Research interests", func(p *model.LecturerProfile) string { return p.ResearchInterests }},
	{"phone", "Phone number", func(p *model.LecturerProfile) string { return p.Phone }},
}

// StudentMissingFields lists the required student fields that are empty.
// A nil profile means everything is missing. NULL columns arrive as ""
// so both count as missing.
func StudentMissingFields(p *model.StudentProfile) []MissingField {
	missing := make([]MissingField, 0, len(studentRequired))
	for _, f := range studentRequired {
		if p == nil || f.get(p) == "" {
			missing = append(missing, MissingField{Field: f.field, Label: f.label})
		}
	}
	return missing
}

// LecturerMissingFields lists the required lecturer fields that are empty.
func LecturerMissingFields(p *model.LecturerProfile) []MissingField {
	missing := make([]MissingField, 0, len(lecturerRequired))
	for _, f := range lecturerRequired {
		if p == nil || f.get(p) == "" {
			missing = append(missing, MissingField{Field: f.field, Label: f.label})
		}
	}
	return missing
}

// EvaluateCompleteness decides whether the role's profile has every
// required field populated, returning the fields still missing.
func EvaluateCompleteness(role model.Role, student *model.StudentProfile, lecturer *model.LecturerProfile) (bool, []MissingField) {
	var missing []MissingField
	switch role {
	case model.RoleStudent:
		missing = StudentMissingFields(student)
	case model.RoleLecturer:
		missing = LecturerMissingFields(lecturer)
	default:
		missing = []MissingField{{Field: "role", Label: "Role"}}
	}
	return len(missing) == 0, missing
}
