package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "researchhub/internal/errors"
	"researchhub/internal/model"
)

type fakeUserRepository struct {
	users map[uint]*model.User
}

func (f *fakeUserRepository) Create(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) FindByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) FindByExternalUID(_ context.Context, uid string) (*model.User, error) {
	for _, u := range f.users {
		if u.ExternalUID == uid {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) Upsert(_ context.Context, user *model.User) (*model.User, error) {
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepository) UpdateLastLogin(_ context.Context, _ uint) error {
	return nil
}

type fakeReportRepository struct {
	reports []model.SupervisorReport
}

func (f *fakeReportRepository) Create(_ context.Context, report *model.SupervisorReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeReportRepository) FindByID(_ context.Context, id uuid.UUID) (*model.SupervisorReport, error) {
	for i := range f.reports {
		if f.reports[i].ID == id {
			return &f.reports[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReportRepository) ListByStudent(_ context.Context, studentID uint, limit int) ([]model.SupervisorReport, error) {
	var out []model.SupervisorReport
	for _, r := range f.reports {
		if r.StudentID == studentID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

// MockChatClient is a mock implementation of ChatClient.
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) Chat(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func (m *MockChatClient) Model() string {
	args := m.Called()
	return args.String(0)
}

func reportFixtures() (*fakeUserRepository, *fakeProfileRepository, *fakeActivityRepository, *fakeReportRepository) {
	userRepo := &fakeUserRepository{users: map[uint]*model.User{
		1: {ID: 1, ExternalUID: "u1", DisplayName: "Sara Ahmed", Role: model.RoleStudent},
	}}
	profileRepo := newFakeProfileRepository()
	profileRepo.students[1] = &model.StudentProfile{
		UserID: 1, StudentID: "S1", University: "KSU", Major: "CS",
	}
	activityRepo := newFakeActivityRepository()
	now := time.Now()
	activityRepo.searchLogs = []model.SearchLog{
		{UserID: 1, Query: "transformers", CreatedAt: now.Add(-24 * time.Hour)},
		{UserID: 1, Query: "attention mechanisms", CreatedAt: now.Add(-48 * time.Hour)},
	}
	activityRepo.interactions = []model.PaperInteraction{
		{ID: 1, UserID: 1, PaperTitle: "Attention Is All You Need", InteractionType: model.InteractionView, TimeSpent: 120, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: 2, UserID: 1, PaperTitle: "BERT", InteractionType: model.InteractionSave, TimeSpent: 60, CreatedAt: now.Add(-36 * time.Hour)},
	}
	return userRepo, profileRepo, activityRepo, &fakeReportRepository{}
}

func TestReportService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown student", func(t *testing.T) {
		userRepo, profileRepo, activityRepo, reportRepo := reportFixtures()
		llm := new(MockChatClient)
		svc := NewReportService(userRepo, profileRepo, activityRepo, reportRepo, llm)

		_, err := svc.Generate(ctx, 99, PeriodLast7Days)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("successful analysis is parsed and persisted", func(t *testing.T) {
		userRepo, profileRepo, activityRepo, reportRepo := reportFixtures()
		llm := new(MockChatClient)
		llm.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return(
			`Here is the analysis: {"summary":"solid progress","research_focus":"transformers","strengths":["consistent reading"],"concerns":[],"progress_score":78,"next_steps":["read BERT follow-ups"]} hope it helps`, nil)
		llm.On("Model").Return("test-model")

		svc := NewReportService(userRepo, profileRepo, activityRepo, reportRepo, llm)
		out, err := svc.Generate(ctx, 1, PeriodLast7Days)
		assert.NoError(t, err)

		assert.Equal(t, "Sara Ahmed", out.Student.Name)
		assert.Equal(t, "CS", out.Student.Major)
		assert.Equal(t, "solid progress", out.Report["summary"])
		assert.Equal(t, 2, out.ActivityStats.SearchesCount)
		assert.Equal(t, 1, out.ActivityStats.PapersViewed)
		assert.Equal(t, 1, out.ActivityStats.PapersSaved)
		assert.Equal(t, 180, out.ActivityStats.TotalTimeSpent)

		assert.Len(t, reportRepo.reports, 1)
		saved := reportRepo.reports[0]
		assert.Equal(t, out.ReportID, saved.ID)
		assert.Equal(t, "solid progress", saved.Summary)
		assert.Equal(t, "transformers", saved.ResearchFocus)
		assert.Equal(t, "test-model", saved.AIModel)
		assert.Equal(t, "78", saved.OverallScore.String())
		llm.AssertExpectations(t)
	})

	t.Run("provider failure falls back to stats", func(t *testing.T) {
		userRepo, profileRepo, activityRepo, reportRepo := reportFixtures()
		llm := new(MockChatClient)
		llm.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("boom"))
		llm.On("Model").Return("test-model")

		svc := NewReportService(userRepo, profileRepo, activityRepo, reportRepo, llm)
		out, err := svc.Generate(ctx, 1, PeriodLast30Days)
		assert.NoError(t, err)
		assert.Equal(t, "AI API failed", out.Report["error"])
		assert.Contains(t, out.Report["summary"], "Basic stats only")
		assert.Len(t, reportRepo.reports, 1)
	})

	t.Run("prompt carries activity sections", func(t *testing.T) {
		userRepo, profileRepo, activityRepo, reportRepo := reportFixtures()
		var prompt string
		llm := new(MockChatClient)
		llm.On("Chat", mock.Anything, reportSystemPrompt, mock.MatchedBy(func(p string) bool {
			prompt = p
			return true
		})).Return(`{"summary":"ok"}`, nil)
		llm.On("Model").Return("test-model")

		svc := NewReportService(userRepo, profileRepo, activityRepo, reportRepo, llm)
		_, err := svc.Generate(ctx, 1, PeriodLast7Days)
		assert.NoError(t, err)

		assert.Contains(t, prompt, "Student: Sara Ahmed")
		assert.Contains(t, prompt, "Major: CS")
		assert.Contains(t, prompt, "SEARCH HISTORY (2 searches)")
		assert.Contains(t, prompt, "transformers")
		assert.Contains(t, prompt, "PAPERS INTERACTED (2 papers)")
		assert.Contains(t, prompt, "Attention Is All You Need")
		assert.Contains(t, prompt, "progress_score")
	})

	t.Run("student without a profile row still gets a report", func(t *testing.T) {
		userRepo, profileRepo, activityRepo, reportRepo := reportFixtures()
		delete(profileRepo.students, 1)
		llm := new(MockChatClient)
		llm.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return(`{"summary":"ok"}`, nil)
		llm.On("Model").Return("test-model")

		svc := NewReportService(userRepo, profileRepo, activityRepo, reportRepo, llm)
		out, err := svc.Generate(ctx, 1, PeriodAllTime)
		assert.NoError(t, err)
		assert.Empty(t, out.Student.Major)
	})
}

func TestPeriodDays(t *testing.T) {
	assert.Equal(t, 7, periodDays(PeriodLast7Days))
	assert.Equal(t, 30, periodDays(PeriodLast30Days))
	assert.Equal(t, 365, periodDays(PeriodAllTime))
	assert.Equal(t, 7, periodDays("whatever"))
}

func TestParseReportJSON(t *testing.T) {
	t.Run("object embedded in prose", func(t *testing.T) {
		out := parseReportJSON(`Sure! {"summary":"good","progress_score":80} Let me know.`)
		assert.Equal(t, "good", out["summary"])
		assert.Equal(t, float64(80), out["progress_score"])
	})

	t.Run("bare object", func(t *testing.T) {
		out := parseReportJSON(`{"summary":"good"}`)
		assert.Equal(t, "good", out["summary"])
	})

	t.Run("no JSON keeps raw text", func(t *testing.T) {
		out := parseReportJSON("the model rambled instead")
		assert.Equal(t, "the model rambled instead", out["summary"])
		assert.Equal(t, "the model rambled instead", out["ai_raw_response"])
	})

	t.Run("broken JSON keeps raw text", func(t *testing.T) {
		out := parseReportJSON(`{"summary": unterminated`)
		assert.Contains(t, out, "ai_raw_response")
	})
}
