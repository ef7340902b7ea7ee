package model

import "time"

// Role is the user's persona in the system. It is set at most once
// from the unset default and never changed afterwards.
type Role string

const (
	RoleUnset    Role = ""
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
)

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleLecturer
}

// User represents an account synced from the external identity provider.
// Exactly one of StudentProfile/LecturerProfile exists per user once a
// role is set; a user with an unset role has neither.
type User struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	ExternalUID      string     `json:"external_uid" gorm:"uniqueIndex;size:128;not null"`
	Email            string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	DisplayName      string     `json:"display_name" gorm:"size:255"`
	Role             Role       `json:"role" gorm:"size:20;default:'';index"`
	ProfileCompleted bool       `json:"profile_completed" gorm:"default:false"`
	Phone            string     `json:"phone" gorm:"size:20"`
	AuthProvider     string     `json:"auth_provider" gorm:"size:50"`
	EmailVerified    bool       `json:"email_verified" gorm:"default:false"`
	IsActive         bool       `json:"is_active" gorm:"default:true"`
	LastLogin        *time.Time `json:"last_login"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
