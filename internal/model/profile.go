package model

import "time"

// Degree is a lecturer's academic degree.
type Degree string

const (
	DegreeBachelor      Degree = "bachelor"
	DegreeMaster        Degree = "master"
	DegreePhD           Degree = "phd"
	DegreeAssociateProf Degree = "associate_prof"
	DegreeProfessor     Degree = "professor"
)

// StudentProfile holds the role-specific profile row for student users.
// Created lazily on the first profile write.
type StudentProfile struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	StudentID         string    `json:"student_id" gorm:"size:50"`
	University        string    `json:"university" gorm:"size:255"`
	Major             string    `json:"major" gorm:"size:255"`
	AcademicYear      string    `json:"academic_year" gorm:"size:20"`
	Phone             string    `json:"phone" gorm:"size:20"`
	Bio               string    `json:"bio" gorm:"type:text"`
	ResearchInterests string    `json:"research_interests" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// LecturerProfile holds the role-specific profile row for lecturer users.
type LecturerProfile struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	UserID                uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	LecturerID            string    `json:"lecturer_id" gorm:"size:50"`
	University            string    `json:"university" gorm:"size:255"`
	Department            string    `json:"department" gorm:"size:255"`
	Degree                Degree    `json:"degree" gorm:"size:30;default:'bachelor'"`
	ResearchInterests     string    `json:"research_interests" gorm:"type:text"`
	Phone                 string    `json:"phone" gorm:"size:20"`
	Bio                   string    `json:"bio" gorm:"type:text"`
	OfficeLocation        string    `json:"office_location" gorm:"size:255"`
	PublicationsCount     int       `json:"publications_count" gorm:"default:0"`
	AvailableForMentoring bool      `json:"available_for_mentoring" gorm:"default:true"`
	MaxStudents           int       `json:"max_students" gorm:"default:5"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ProfileUpdate is a partial profile write. Nil fields are omitted and
// retain their stored value; unknown JSON keys are dropped at bind time.
type ProfileUpdate struct {
	Role *string `json:"role" validate:"omitempty,oneof=student lecturer"`

	// Shared fields.
	Phone             *string `json:"phone" validate:"omitempty,max=20"`
	University        *string `json:"university"`
	Bio               *string `json:"bio"`
	ResearchInterests *string `json:"research_interests"`

	// Student fields.
	StudentID    *string `json:"student_id"`
	Major        *string `json:"major"`
	AcademicYear *string `json:"academic_year"`

	// Lecturer fields.
	LecturerID            *string `json:"lecturer_id"`
	Department            *string `json:"department"`
	Degree                *string `json:"degree" validate:"omitempty,oneof=bachelor master phd associate_prof professor"`
	OfficeLocation        *string `json:"office_location"`
	PublicationsCount     *int    `json:"publications_count" validate:"omitempty,min=0"`
	AvailableForMentoring *bool   `json:"available_for_mentoring"`
	MaxStudents           *int    `json:"max_students" validate:"omitempty,min=0"`
}
