package model

import "time"

// InteractionType classifies how a user interacted with a paper.
type InteractionType string

const (
	InteractionView InteractionType = "view"
	InteractionSave InteractionType = "save"
	InteractionCite InteractionType = "cite"
)

// SearchLog records one search performed by a user.
type SearchLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Query        string    `json:"query" gorm:"size:512;not null"`
	ResultsCount int       `json:"results_count" gorm:"default:0"`
	Source       string    `json:"source" gorm:"size:50"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

// PaperInteraction records a view/save/cite of a paper plus time spent on it.
type PaperInteraction struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	PaperID         string          `json:"paper_id" gorm:"size:100"`
	PaperTitle      string          `json:"paper_title" gorm:"size:512"`
	PaperAuthors    string          `json:"paper_authors" gorm:"size:512"`
	PaperYear       string          `json:"paper_year" gorm:"size:10"`
	InteractionType InteractionType `json:"interaction_type" gorm:"size:20;not null"`
	TimeSpent       int             `json:"time_spent" gorm:"default:0"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index"`
}

// TeamActivity is one entry in a project team's activity feed.
type TeamActivity struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	ActivityType string    `json:"activity_type" gorm:"size:50;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

// TableName keeps the legacy table name.
func (TeamActivity) TableName() string {
	return "team_activity_feed"
}
