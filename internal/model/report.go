package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SupervisorReport is a persisted AI-generated progress report for a student.
type SupervisorReport struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	StudentID       uint            `json:"student_id" gorm:"not null;index"`
	ReportType      string          `json:"report_type" gorm:"size:30;default:'progress'"`
	TimePeriodEnd   time.Time       `json:"time_period_end"`
	Summary         string          `json:"summary" gorm:"type:text"`
	ResearchFocus   string          `json:"research_focus" gorm:"type:text"`
	Strengths       datatypes.JSON  `json:"strengths"`
	Concerns        datatypes.JSON  `json:"concerns"`
	Recommendations datatypes.JSON  `json:"recommendations"`
	OverallScore    decimal.Decimal `json:"overall_score" gorm:"type:decimal(5,2);default:0"`
	AIModel         string          `json:"ai_model" gorm:"size:100"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *SupervisorReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
