package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apperrors "researchhub/internal/errors"
	"researchhub/internal/model"
	"researchhub/internal/repository"
)

// fakeProfileRepository is an in-memory ProfileRepository. It keeps the
// same lazy-profile and partial-update behavior the MySQL implementation
// has, so service semantics can be exercised without a database.
type fakeProfileRepository struct {
	users     map[string]*model.User
	students  map[uint]*model.StudentProfile
	lecturers map[uint]*model.LecturerProfile
}

func newFakeProfileRepository() *fakeProfileRepository {
	return &fakeProfileRepository{
		users:     map[string]*model.User{},
		students:  map[uint]*model.StudentProfile{},
		lecturers: map[uint]*model.LecturerProfile{},
	}
}

func (f *fakeProfileRepository) addUser(user *model.User) {
	f.users[user.ExternalUID] = user
}

func (f *fakeProfileRepository) userByID(id uint) *model.User {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeProfileRepository) FindUserByExternalUID(_ context.Context, uid string) (*model.User, error) {
	user, ok := f.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeProfileRepository) SetUserRole(_ context.Context, userID uint, role model.Role) error {
	f.userByID(userID).Role = role
	return nil
}

func (f *fakeProfileRepository) SetUserPhone(_ context.Context, userID uint, phone string) error {
	f.userByID(userID).Phone = phone
	return nil
}

func (f *fakeProfileRepository) SetProfileCompleted(_ context.Context, userID uint, complete bool) error {
	f.userByID(userID).ProfileCompleted = complete
	return nil
}

func (f *fakeProfileRepository) StudentByUserID(_ context.Context, userID uint) (*model.StudentProfile, error) {
	p, ok := f.students[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepository) CreateStudent(_ context.Context, profile *model.StudentProfile) error {
	copied := *profile
	f.students[profile.UserID] = &copied
	return nil
}

func (f *fakeProfileRepository) UpdateStudentFields(_ context.Context, userID uint, fields map[string]interface{}) error {
	p := f.students[userID]
	for column, value := range fields {
		s, _ := value.(string)
		switch column {
		case "student_id":
			p.StudentID = s
		case "university":
			p.University = s
		case "major":
			p.Major = s
		case "academic_year":
			p.AcademicYear = s
		case "phone":
			p.Phone = s
		case "bio":
			p.Bio = s
		case "research_interests":
			p.ResearchInterests = s
		}
	}
	return nil
}

func (f *fakeProfileRepository) LecturerByUserID(_ context.Context, userID uint) (*model.LecturerProfile, error) {
	p, ok := f.lecturers[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepository) CreateLecturer(_ context.Context, profile *model.LecturerProfile) error {
	copied := *profile
	f.lecturers[profile.UserID] = &copied
	return nil
}

func (f *fakeProfileRepository) UpdateLecturerFields(_ context.Context, userID uint, fields map[string]interface{}) error {
	p := f.lecturers[userID]
	for column, value := range fields {
		switch column {
		case "lecturer_id":
			p.LecturerID, _ = value.(string)
		case "university":
			p.University, _ = value.(string)
		case "department":
			p.Department, _ = value.(string)
		case "degree":
			s, _ := value.(string)
			p.Degree = model.Degree(s)
		case "research_interests":
			p.ResearchInterests, _ = value.(string)
		case "phone":
			p.Phone, _ = value.(string)
		case "bio":
			p.Bio, _ = value.(string)
		case "office_location":
			p.OfficeLocation, _ = value.(string)
		case "publications_count":
			p.PublicationsCount, _ = value.(int)
		case "available_for_mentoring":
			p.AvailableForMentoring, _ = value.(bool)
		case "max_students":
			p.MaxStudents, _ = value.(int)
		}
	}
	return nil
}

func (f *fakeProfileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.ProfileRepository) error) error {
	return fn(ctx, f)
}

func strPtr(s string) *string { return &s }

func TestProfileService_UpsertProfile(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		svc := NewProfileService(newFakeProfileRepository(), nil)
		_, err := svc.UpsertProfile(context.Background(), "ghost", &model.ProfileUpdate{})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("role required on first write", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1"})
		svc := NewProfileService(repo, nil)

		_, err := svc.UpsertProfile(context.Background(), "u1", &model.ProfileUpdate{
			University: strPtr("KSU"),
		})
		assert.ErrorIs(t, err, apperrors.ErrRoleNotSet)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1"})
		svc := NewProfileService(repo, nil)

		_, err := svc.UpsertProfile(context.Background(), "u1", &model.ProfileUpdate{
			Role: strPtr("admin"),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})

	t.Run("complete student profile in one write", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1"})
		svc := NewProfileService(repo, nil)

		complete, err := svc.UpsertProfile(context.Background(), "u1", &model.ProfileUpdate{
			Role:       strPtr("student"),
			StudentID:  strPtr("S1"),
			University: strPtr("X"),
			Major:      strPtr("CS"),
			Phone:      strPtr("0123456789"),
		})
		assert.NoError(t, err)
		assert.True(t, complete)

		user := repo.userByID(1)
		assert.Equal(t, model.RoleStudent, user.Role)
		assert.True(t, user.ProfileCompleted)
		assert.Equal(t, "0123456789", user.Phone)
	})

	t.Run("partial write leaves the rest untouched", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1", Role: model.RoleStudent})
		repo.students[1] = &model.StudentProfile{
			UserID: 1, StudentID: "S1", University: "X", Major: "CS", Phone: "0123456789",
		}
		svc := NewProfileService(repo, nil)

		complete, err := svc.UpsertProfile(context.Background(), "u1", &model.ProfileUpdate{
			Major: strPtr("Data Science"),
		})
		assert.NoError(t, err)
		assert.True(t, complete)
		assert.Equal(t, "Data Science", repo.students[1].Major)
		assert.Equal(t, "S1", repo.students[1].StudentID)
		assert.Equal(t, "X", repo.students[1].University)
	})

	t.Run("role change is silently ignored", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1", Role: model.RoleStudent})
		repo.students[1] = &model.StudentProfile{
			UserID: 1, StudentID: "S1", University: "X", Major: "CS", Phone: "0123456789",
		}
		svc := NewProfileService(repo, nil)

		complete, err := svc.UpsertProfile(context.Background(), "u1", &model.ProfileUpdate{
			Role: strPtr("lecturer"),
		})
		assert.NoError(t, err)
		assert.True(t, complete)
		assert.Equal(t, model.RoleStudent, repo.userByID(1).Role)
		assert.Empty(t, repo.lecturers)
	})

	t.Run("lecturer insert applies defaults", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 2, ExternalUID: "u2"})
		svc := NewProfileService(repo, nil)

		complete, err := svc.UpsertProfile(context.Background(), "u2", &model.ProfileUpdate{
			Role:       strPtr("lecturer"),
			LecturerID: strPtr("L-1"),
		})
		assert.NoError(t, err)
		assert.False(t, complete)

		p := repo.lecturers[2]
		assert.Equal(t, model.DegreeBachelor, p.Degree)
		assert.True(t, p.AvailableForMentoring)
		assert.Equal(t, 5, p.MaxStudents)
	})

	t.Run("empty phone does not overwrite the user phone", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1", Role: model.RoleStudent, Phone: "0123456789"})
		repo.students[1] = &model.StudentProfile{
			UserID: 1, StudentID: "S1", University: "X", Major: "CS", Phone: "0123456789",
		}
		svc := NewProfileService(repo, nil)

		_, err := svc.UpsertProfile(context.Background(), "u1", &model.ProfileUpdate{
			Phone: strPtr(""),
			Bio:   strPtr("hello"),
		})
		assert.NoError(t, err)
		assert.Equal(t, "0123456789", repo.userByID(1).Phone)
	})

	t.Run("idempotent repeat write", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1"})
		svc := NewProfileService(repo, nil)

		req := &model.ProfileUpdate{
			Role:       strPtr("student"),
			StudentID:  strPtr("S1"),
			University: strPtr("X"),
			Major:      strPtr("CS"),
			Phone:      strPtr("0123456789"),
		}
		first, err := svc.UpsertProfile(context.Background(), "u1", req)
		assert.NoError(t, err)
		second, err := svc.UpsertProfile(context.Background(), "u1", req)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Len(t, repo.students, 1)
	})
}

func TestProfileService_CheckComplete(t *testing.T) {
	t.Run("no role yet", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1"})
		svc := NewProfileService(repo, nil)

		result, err := svc.CheckComplete(context.Background(), "u1")
		assert.NoError(t, err)
		assert.False(t, result.Complete)
		assert.Equal(t, []MissingField{{Field: "role", Label: "Role"}}, result.MissingFields)
	})

	t.Run("student with no profile row", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1", Role: model.RoleStudent})
		svc := NewProfileService(repo, nil)

		result, err := svc.CheckComplete(context.Background(), "u1")
		assert.NoError(t, err)
		assert.False(t, result.Complete)
		assert.False(t, result.ProfileExists)
		assert.Len(t, result.MissingFields, 4)
	})

	t.Run("drifted flag is reconciled", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1", Role: model.RoleStudent, ProfileCompleted: true})
		repo.students[1] = &model.StudentProfile{UserID: 1, StudentID: "S1"}
		svc := NewProfileService(repo, nil)

		result, err := svc.CheckComplete(context.Background(), "u1")
		assert.NoError(t, err)
		assert.False(t, result.Complete)
		assert.False(t, repo.userByID(1).ProfileCompleted)
	})

	t.Run("complete profile reports complete", func(t *testing.T) {
		repo := newFakeProfileRepository()
		repo.addUser(&model.User{ID: 1, ExternalUID: "u1", Role: model.RoleStudent, ProfileCompleted: true})
		repo.students[1] = &model.StudentProfile{
			UserID: 1, StudentID: "S1", University: "X", Major: "CS", Phone: "0123456789",
		}
		svc := NewProfileService(repo, nil)

		result, err := svc.CheckComplete(context.Background(), "u1")
		assert.NoError(t, err)
		assert.True(t, result.Complete)
		assert.True(t, result.ProfileExists)
		assert.Empty(t, result.MissingFields)
	})
}
