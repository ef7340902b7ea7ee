package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"researchhub/internal/model"
)

// ReportRepository defines persistence for supervisor reports.
type ReportRepository interface {
	Create(ctx context.Context, report *model.SupervisorReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SupervisorReport, error)
	ListByStudent(ctx context.Context, studentID uint, limit int) ([]model.SupervisorReport, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.SupervisorReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SupervisorReport, error) {
	var report model.SupervisorReport
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) ListByStudent(ctx context.Context, studentID uint, limit int) ([]model.SupervisorReport, error) {
	var reports []model.SupervisorReport
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
