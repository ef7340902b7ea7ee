package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"researchhub/internal/cache"
	apperrors "researchhub/internal/errors"
	"researchhub/internal/model"
	"researchhub/internal/repository"
)

const (
	profileCacheKeyPrefix = "profile:"
	profileCacheTTL       = 5 * time.Minute
)

// CompletenessResult is the outcome of a profile completeness check.
type CompletenessResult struct {
	Complete         bool           `json:"complete"`
	ProfileCompleted bool           `json:"profile_completed"`
	ProfileExists    bool           `json:"profile_exists"`
	Role             model.Role     `json:"role"`
	MissingFields    []MissingField `json:"missing_fields"`
	Message          string         `json:"message"`
}

// FullProfile bundles the user row with its role-specific profile.
type FullProfile struct {
	User            *model.User            `json:"user"`
	StudentProfile  *model.StudentProfile  `json:"student_profile,omitempty"`
	LecturerProfile *model.LecturerProfile `json:"lecturer_profile,omitempty"`
}

// ProfileService handles profile reads and the role-onboarding write path.
type ProfileService interface {
	UpsertProfile(ctx context.Context, externalUID string, req *model.ProfileUpdate) (bool, error)
	CheckComplete(ctx context.Context, externalUID string) (*CompletenessResult, error)
	GetProfile(ctx context.Context, externalUID string) (*FullProfile, error)
}

type profileService struct {
	repo  repository.ProfileRepository
	cache *cache.Client
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.ProfileRepository, cache *cache.Client) ProfileService {
	return &profileService{repo: repo, cache: cache}
}

func profileCacheKey(externalUID string) string {
	return profileCacheKeyPrefix + externalUID
}

// UpsertProfile applies a partial profile write for the user identified by
// externalUID and returns the recomputed completeness flag.
//
// Role is written once: when the user's role is unset it must be supplied;
// once set, a differing role in a later request is silently ignored. The
// role assignment, phone mirror, profile upsert, and completed flag all
// commit in one transaction.
func (s *profileService) UpsertProfile(ctx context.Context, externalUID string, req *model.ProfileUpdate) (bool, error) {
	user, err := s.repo.FindUserByExternalUID(ctx, externalUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}

	if req.Role != nil && !model.Role(*req.Role).Valid() {
		return false, apperrors.ErrInvalidRole
	}

	role := user.Role
	assignRole := false
	if role == model.RoleUnset {
		if req.Role == nil {
			return false, apperrors.ErrRoleNotSet
		}
		role = model.Role(*req.Role)
		assignRole = true
	}

	var complete bool
	err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.ProfileRepository) error {
		if assignRole {
			if err := tx.SetUserRole(ctx, user.ID, role); err != nil {
				return fmt.Errorf("set role: %w", err)
			}
		}
		if req.Phone != nil && *req.Phone != "" {
			if err := tx.SetUserPhone(ctx, user.ID, *req.Phone); err != nil {
				return fmt.Errorf("set phone: %w", err)
			}
		}

		switch role {
		case model.RoleStudent:
			profile, err := s.upsertStudent(ctx, tx, user.ID, req)
			if err != nil {
				return err
			}
			complete, _ = EvaluateCompleteness(role, profile, nil)
		case model.RoleLecturer:
			profile, err := s.upsertLecturer(ctx, tx, user.ID, req)
			if err != nil {
				return err
			}
			complete, _ = EvaluateCompleteness(role, nil, profile)
		}

		return tx.SetProfileCompleted(ctx, user.ID, complete)
	})
	if err != nil {
		return false, err
	}

	_ = s.cache.Delete(ctx, profileCacheKey(externalUID))
	return complete, nil
}

func (s *profileService) upsertStudent(ctx context.Context, tx repository.ProfileRepository, userID uint, req *model.ProfileUpdate) (*model.StudentProfile, error) {
	_, err := tx.StudentByUserID(ctx, userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile := &model.StudentProfile{
			UserID:            userID,
			StudentID:         strVal(req.StudentID),
			University:        strVal(req.University),
			Major:             strVal(req.Major),
			AcademicYear:      strVal(req.AcademicYear),
			Phone:             strVal(req.Phone),
			Bio:               strVal(req.Bio),
			ResearchInterests: strVal(req.ResearchInterests),
		}
		if err := tx.CreateStudent(ctx, profile); err != nil {
			return nil, fmt.Errorf("create student profile: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load student profile: %w", err)
	default:
		if err := tx.UpdateStudentFields(ctx, userID, studentFields(req)); err != nil {
			return nil, fmt.Errorf("update student profile: %w", err)
		}
	}
	return tx.StudentByUserID(ctx, userID)
}

func (s *profileService) upsertLecturer(ctx context.Context, tx repository.ProfileRepository, userID uint, req *model.ProfileUpdate) (*model.LecturerProfile, error) {
	_, err := tx.LecturerByUserID(ctx, userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile := &model.LecturerProfile{
			UserID:                userID,
			LecturerID:            strVal(req.LecturerID),
			University:            strVal(req.University),
			Department:            strVal(req.Department),
			Degree:                model.Degree(strValDefault(req.Degree, string(model.DegreeBachelor))),
			ResearchInterests:     strVal(req.ResearchInterests),
			Phone:                 strVal(req.Phone),
			Bio:                   strVal(req.Bio),
			OfficeLocation:        strVal(req.OfficeLocation),
			PublicationsCount:     intValDefault(req.PublicationsCount, 0),
			AvailableForMentoring: boolValDefault(req.AvailableForMentoring, true),
			MaxStudents:           intValDefault(req.MaxStudents, 5),
		}
		if err := tx.CreateLecturer(ctx, profile); err != nil {
			return nil, fmt.Errorf("create lecturer profile: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load lecturer profile: %w", err)
	default:
		if err := tx.UpdateLecturerFields(ctx, userID, lecturerFields(req)); err != nil {
			return nil, fmt.Errorf("update lecturer profile: %w", err)
		}
	}
	return tx.LecturerByUserID(ctx, userID)
}

// CheckComplete evaluates completeness for the user and reconciles the
// persisted flag when it drifted from the computed value.
func (s *profileService) CheckComplete(ctx context.Context, externalUID string) (*CompletenessResult, error) {
	user, err := s.repo.FindUserByExternalUID(ctx, externalUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.Role == model.RoleUnset {
		return &CompletenessResult{
			Complete:         false,
			ProfileCompleted: false,
			Role:             model.RoleUnset,
			MissingFields:    []MissingField{{Field: "role", Label: "Role"}},
			Message:          "Please choose a role (student or lecturer)",
		}, nil
	}

	var (
		student  *model.StudentProfile
		lecturer *model.LecturerProfile
		exists   bool
	)
	switch user.Role {
	case model.RoleStudent:
		student, err = s.repo.StudentByUserID(ctx, user.ID)
	case model.RoleLecturer:
		lecturer, err = s.repo.LecturerByUserID(ctx, user.ID)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	exists = err == nil

	complete, missing := EvaluateCompleteness(user.Role, student, lecturer)

	if complete != user.ProfileCompleted {
		if err := s.repo.SetProfileCompleted(ctx, user.ID, complete); err != nil {
			return nil, fmt.Errorf("reconcile completed flag: %w", err)
		}
	}

	message := "Profile is complete"
	if !complete {
		message = "Please fill in the remaining profile fields in Settings"
	}

	return &CompletenessResult{
		Complete:         complete,
		ProfileCompleted: complete,
		ProfileExists:    exists,
		Role:             user.Role,
		MissingFields:    missing,
		Message:          message,
	}, nil
}

// GetProfile returns the user with its role-specific profile, served from
// the short-lived redis cache when possible.
func (s *profileService) GetProfile(ctx context.Context, externalUID string) (*FullProfile, error) {
	key := profileCacheKey(externalUID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached FullProfile
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindUserByExternalUID(ctx, externalUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	full := &FullProfile{User: user}
	switch user.Role {
	case model.RoleStudent:
		profile, err := s.repo.StudentByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load student profile: %w", err)
		}
		full.StudentProfile = profile
	case model.RoleLecturer:
		profile, err := s.repo.LecturerByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load lecturer profile: %w", err)
		}
		full.LecturerProfile = profile
	}

	if payload, err := json.Marshal(full); err == nil {
		_ = s.cache.Set(ctx, key, payload, profileCacheTTL)
	}
	return full, nil
}

// studentFields collects the student columns present in the request.
// Omitted fields stay untouched.
func studentFields(req *model.ProfileUpdate) map[string]interface{} {
	fields := map[string]interface{}{}
	setStr(fields, "student_id", req.StudentID)
	setStr(fields, "university", req.University)
	setStr(fields, "major", req.Major)
	setStr(fields, "academic_year", req.AcademicYear)
	setStr(fields, "phone", req.Phone)
	setStr(fields, "bio", req.Bio)
	setStr(fields, "research_interests", req.ResearchInterests)
	return fields
}

// lecturerFields collects the lecturer columns present in the request.
func lecturerFields(req *model.ProfileUpdate) map[string]interface{} {
	fields := map[string]interface{}{}
	setStr(fields, "lecturer_id", req.LecturerID)
	setStr(fields, "university", req.University)
	setStr(fields, "department", req.Department)
	setStr(fields, "degree", req.Degree)
	setStr(fields, "research_interests", req.ResearchInterests)
	setStr(fields, "phone", req.Phone)
	setStr(fields, "bio", req.Bio)
	setStr(fields, "office_location", req.OfficeLocation)
	if req.PublicationsCount != nil {
		fields["publications_count"] = *req.PublicationsCount
	}
	if req.AvailableForMentoring != nil {
		fields["available_for_mentoring"] = *req.AvailableForMentoring
	}
	if req.MaxStudents != nil {
		fields["max_students"] = *req.MaxStudents
	}
	return fields
}

func setStr(fields map[string]interface{}, column string, value *string) {
	if value != nil {
		fields[column] = *value
	}
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strValDefault(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

func intValDefault(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func boolValDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
