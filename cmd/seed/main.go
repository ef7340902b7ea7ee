package main

import (
	"log"

	"gorm.io/gorm"

	"researchhub/internal/config"
	"researchhub/internal/db"
	"researchhub/internal/model"
)

type seedUser struct {
	user     model.User
	student  *model.StudentProfile
	lecturer *model.LecturerProfile
}

func demoUsers() []seedUser {
	return []seedUser{
		{
			user: model.User{
				ExternalUID:      "demo-student-1",
				Email:            "sara.ahmed@demo.test",
				DisplayName:      "Sara Ahmed",
				Role:             model.RoleStudent,
				ProfileCompleted: true,
				Phone:            "0501234567",
				AuthProvider:     "password",
				EmailVerified:    true,
				IsActive:         true,
			},
			student: &model.StudentProfile{
				StudentID:         "443201234",
				University:        "King Saud University",
				Major:             "Computer Science",
				AcademicYear:      "4",
				Phone:             "0501234567",
				ResearchInterests: "machine learning, information retrieval",
			},
		},
		{
			user: model.User{
				ExternalUID:   "demo-student-2",
				Email:         "omar.khalid@demo.test",
				DisplayName:   "Omar Khalid",
				Role:          model.RoleStudent,
				AuthProvider:  "password",
				EmailVerified: true,
				IsActive:      true,
			},
			// Incomplete on purpose, exercises the onboarding gate.
			student: &model.StudentProfile{
				StudentID: "443205678",
			},
		},
		{
			user: model.User{
				ExternalUID:      "demo-lecturer-1",
				Email:            "dr.huda@demo.test",
				DisplayName:      "Dr. Huda Al-Rashid",
				Role:             model.RoleLecturer,
				ProfileCompleted: true,
				Phone:            "0559876543",
				AuthProvider:     "password",
				EmailVerified:    true,
				IsActive:         true,
			},
			lecturer: &model.LecturerProfile{
				LecturerID:            "L-1001",
				University:            "King Saud University",
				Department:            "Computer Science",
				Degree:                model.DegreePhD,
				ResearchInterests:     "natural language processing, academic search",
				Phone:                 "0559876543",
				PublicationsCount:     42,
				AvailableForMentoring: true,
				MaxStudents:           5,
			},
		},
	}
}

func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.StudentProfile{},
		&model.LecturerProfile{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	for _, seed := range demoUsers() {
		if err := seedOne(gormDB, seed); err != nil {
			log.Fatalf("seed %s: %v", seed.user.Email, err)
		}
		log.Printf("seeded %s (%s)", seed.user.Email, seed.user.Role)
	}
	log.Println("done")
}

func seedOne(gormDB *gorm.DB, seed seedUser) error {
	return gormDB.Transaction(func(tx *gorm.DB) error {
		user := seed.user
		if err := tx.Where(model.User{ExternalUID: user.ExternalUID}).
			FirstOrCreate(&user).Error; err != nil {
			return err
		}

		if seed.student != nil {
			profile := *seed.student
			profile.UserID = user.ID
			if err := tx.Where(model.StudentProfile{UserID: user.ID}).
				FirstOrCreate(&profile).Error; err != nil {
				return err
			}
		}
		if seed.lecturer != nil {
			profile := *seed.lecturer
			profile.UserID = user.ID
			if err := tx.Where(model.LecturerProfile{UserID: user.ID}).
				FirstOrCreate(&profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
