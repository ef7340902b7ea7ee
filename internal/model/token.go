package model

import "time"

// AuthToken stores OAuth access/refresh tokens issued for a user by the
// identity provider. One row per user, updated in place on refresh.
type AuthToken struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	AccessToken  string    `json:"-" gorm:"type:text"`
	RefreshToken string    `json:"-" gorm:"type:text"`
	Scope        string    `json:"scope" gorm:"size:512"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
