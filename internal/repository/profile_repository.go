package repository

import (
	"context"

	"gorm.io/gorm"

	"researchhub/internal/model"
)

// ProfileRepository groups the persistence operations touched by a single
// profile write: the user's role/phone/completed flag and the role-specific
// profile row. WithTransaction yields a repository bound to one transaction
// so a profile upsert is all-or-nothing.
type ProfileRepository interface {
	FindUserByExternalUID(ctx context.Context, uid string) (*model.User, error)
	SetUserRole(ctx context.Context, userID uint, role model.Role) error
	SetUserPhone(ctx context.Context, userID uint, phone string) error
	SetProfileCompleted(ctx context.Context, userID uint, complete bool) error

	StudentByUserID(ctx context.Context, userID uint) (*model.StudentProfile, error)
	CreateStudent(ctx context.Context, profile *model.StudentProfile) error
	UpdateStudentFields(ctx context.Context, userID uint, fields map[string]interface{}) error

	LecturerByUserID(ctx context.Context, userID uint) (*model.LecturerProfile, error)
	CreateLecturer(ctx context.Context, profile *model.LecturerProfile) error
	UpdateLecturerFields(ctx context.Context, userID uint, fields map[string]interface{}) error

	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ProfileRepository) error) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindUserByExternalUID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("external_uid = ?", uid).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *profileRepository) SetUserRole(ctx context.Context, userID uint, role model.Role) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}

func (r *profileRepository) SetUserPhone(ctx context.Context, userID uint, phone string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("phone", phone).Error
}

func (r *profileRepository) SetProfileCompleted(ctx context.Context, userID uint, complete bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("profile_completed", complete).Error
}

func (r *profileRepository) StudentByUserID(ctx context.Context, userID uint) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) CreateStudent(ctx context.Context, profile *model.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// UpdateStudentFields applies a partial update: only the given columns
// change, everything else keeps its stored value.
func (r *profileRepository) UpdateStudentFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.StudentProfile{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}

func (r *profileRepository) LecturerByUserID(ctx context.Context, userID uint) (*model.LecturerProfile, error) {
	var profile model.LecturerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) CreateLecturer(ctx context.Context, profile *model.LecturerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) UpdateLecturerFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.LecturerProfile{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}

// WithTransaction executes fn within a database transaction.
func (r *profileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ProfileRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &profileRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
