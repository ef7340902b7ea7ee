package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "researchhub/internal/errors"
	"researchhub/internal/model"
	"researchhub/internal/repository"
)

const (
	reportSystemPrompt = "You are an AI research supervisor. Analyze student progress and generate a comprehensive report in JSON format."

	maxPromptSearches = 20
	maxPromptPapers   = 15
	maxRawActivities  = 50
)

// Report periods accepted by Generate.
const (
	PeriodLast7Days  = "last_7_days"
	PeriodLast30Days = "last_30_days"
	PeriodAllTime    = "all_time"
)

// ChatClient is the external LLM provider used for report generation.
type ChatClient interface {
	Chat(ctx context.Context, system, user string) (string, error)
	Model() string
}

// ReportStudent identifies the student a report covers.
type ReportStudent struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Major      string `json:"major"`
	University string `json:"university"`
}

// ActivityStats are the aggregate counts for the report window.
type ActivityStats struct {
	SearchesCount  int `json:"searches_count"`
	PapersViewed   int `json:"papers_viewed"`
	PapersSaved    int `json:"papers_saved"`
	TotalTimeSpent int `json:"total_time_spent"`
}

// ReportRawData carries the activity rows the report was built from.
type ReportRawData struct {
	Searches   []model.SearchLog        `json:"searches"`
	Papers     []model.PaperInteraction `json:"papers"`
	Activities []model.TeamActivity     `json:"activities"`
}

// GeneratedReport is the full report payload returned to the caller.
type GeneratedReport struct {
	ReportID      uuid.UUID              `json:"report_id"`
	Student       ReportStudent          `json:"student"`
	Period        string                 `json:"period"`
	ActivityStats ActivityStats          `json:"activity_stats"`
	Report        map[string]interface{} `json:"report"`
	RawData       ReportRawData          `json:"raw_data"`
}

// ReportService generates and persists AI progress reports.
type ReportService interface {
	Generate(ctx context.Context, studentID uint, period string) (*GeneratedReport, error)
}

type reportService struct {
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	activityRepo repository.ActivityRepository
	reportRepo   repository.ReportRepository
	llm          ChatClient
}

// NewReportService creates a new report service.
func NewReportService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	activityRepo repository.ActivityRepository,
	reportRepo repository.ReportRepository,
	llm ChatClient,
) ReportService {
	return &reportService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		activityRepo: activityRepo,
		reportRepo:   reportRepo,
		llm:          llm,
	}
}

func periodDays(period string) int {
	switch period {
	case PeriodLast30Days:
		return 30
	case PeriodAllTime:
		return 365
	default:
		return 7
	}
}

// Generate aggregates the student's recent activity, asks the LLM provider
// for an analysis, and persists the result. Provider failures degrade to a
// stats-only report instead of failing the request.
func (s *reportService) Generate(ctx context.Context, studentID uint, period string) (*GeneratedReport, error) {
	user, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	profile, err := s.profileRepo.StudentByUserID(ctx, studentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load student profile: %w", err)
	}

	since := time.Now().AddDate(0, 0, -periodDays(period))
	searches, err := s.activityRepo.SearchLogsSince(ctx, studentID, since)
	if err != nil {
		return nil, fmt.Errorf("load search logs: %w", err)
	}
	papers, err := s.activityRepo.PaperInteractionsSince(ctx, studentID, since)
	if err != nil {
		return nil, fmt.Errorf("load paper interactions: %w", err)
	}
	activities, err := s.activityRepo.TeamActivitiesSince(ctx, studentID, since, maxRawActivities)
	if err != nil {
		return nil, fmt.Errorf("load team activities: %w", err)
	}

	stats := computeActivityStats(searches, papers)

	prompt := buildReportPrompt(user, profile, searches, papers, period)
	var report map[string]interface{}
	content, err := s.llm.Chat(ctx, reportSystemPrompt, prompt)
	if err != nil {
		report = fallbackReport(stats)
	} else {
		report = parseReportJSON(content)
	}

	record := &model.SupervisorReport{
		StudentID:       studentID,
		ReportType:      "progress",
		TimePeriodEnd:   time.Now(),
		Summary:         stringField(report, "summary"),
		ResearchFocus:   stringField(report, "research_focus"),
		Strengths:       jsonField(report, "strengths"),
		Concerns:        jsonField(report, "concerns"),
		Recommendations: jsonField(report, "next_steps"),
		OverallScore:    scoreField(report, "progress_score"),
		AIModel:         s.llm.Model(),
	}
	if err := s.reportRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	result := &GeneratedReport{
		ReportID: record.ID,
		Student: ReportStudent{
			ID:   studentID,
			Name: user.DisplayName,
		},
		Period:        period,
		ActivityStats: stats,
		Report:        report,
		RawData: ReportRawData{
			Searches:   searches,
			Papers:     papers,
			Activities: activities,
		},
	}
	if profile != nil {
		result.Student.Major = profile.Major
		result.Student.University = profile.University
	}
	return result, nil
}

func computeActivityStats(searches []model.SearchLog, papers []model.PaperInteraction) ActivityStats {
	stats := ActivityStats{SearchesCount: len(searches)}
	for _, p := range papers {
		switch p.InteractionType {
		case model.InteractionView:
			stats.PapersViewed++
		case model.InteractionSave:
			stats.PapersSaved++
		}
		stats.TotalTimeSpent += p.TimeSpent
	}
	return stats
}

func buildReportPrompt(user *model.User, profile *model.StudentProfile, searches []model.SearchLog, papers []model.PaperInteraction, period string) string {
	var b strings.Builder

	b.WriteString("=== STUDENT RESEARCH PROGRESS ANALYSIS ===\n\n")
	fmt.Fprintf(&b, "Student: %s\n", user.DisplayName)
	if profile != nil {
		fmt.Fprintf(&b, "Major: %s\n", profile.Major)
		fmt.Fprintf(&b, "University: %s\n", profile.University)
	}
	fmt.Fprintf(&b, "Period: %s\n\n", period)

	fmt.Fprintf(&b, "=== SEARCH HISTORY (%d searches) ===\n", len(searches))
	for i, search := range searches {
		if i >= maxPromptSearches {
			break
		}
		fmt.Fprintf(&b, "%d. %q - %s\n", i+1, search.Query, search.CreatedAt.Format(time.RFC3339))
	}

	fmt.Fprintf(&b, "\n=== PAPERS INTERACTED (%d papers) ===\n", len(papers))
	for i, paper := range papers {
		if i >= maxPromptPapers {
			break
		}
		fmt.Fprintf(&b, "%d. %q\n", i+1, paper.PaperTitle)
		fmt.Fprintf(&b, "   Authors: %s, Year: %s\n", paper.PaperAuthors, paper.PaperYear)
		fmt.Fprintf(&b, "   Action: %s, Time: %ds\n", paper.InteractionType, paper.TimeSpent)
	}

	b.WriteString("\n=== PROVIDE ANALYSIS (JSON FORMAT) ===\n")
	b.WriteString("Return JSON with:\n")
	b.WriteString(`{
  "summary": "overview of progress and research direction",
  "research_focus": "what topic is the student focused on?",
  "strengths": ["strength 1", "strength 2"],
  "concerns": [{"severity": "high/medium/low", "issue": "", "recommendation": ""}],
  "knowledge_gaps": [{"gap": "", "priority": "high/medium/low", "papers_missing": []}],
  "warnings": [{"type": "methodology/direction", "message": "", "action": ""}],
  "must_read_papers": [{"title": "", "reason": "", "priority": "critical/high/medium"}],
  "progress_score": 0-100,
  "next_steps": ["step 1", "step 2"]
}
`)
	return b.String()
}

// parseReportJSON extracts the first JSON object from the model reply.
// Replies that contain no parsable object are kept verbatim as summary.
func parseReportJSON(content string) map[string]interface{} {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err == nil {
			return parsed
		}
	}
	return map[string]interface{}{
		"summary":         content,
		"ai_raw_response": content,
	}
}

func fallbackReport(stats ActivityStats) map[string]interface{} {
	return map[string]interface{}{
		"summary": "AI report generation failed. Basic stats only.",
		"activity_stats": map[string]int{
			"searches": stats.SearchesCount,
			"papers":   stats.PapersViewed + stats.PapersSaved,
		},
		"error": "AI API failed",
	}
}

func stringField(report map[string]interface{}, key string) string {
	if v, ok := report[key].(string); ok {
		return v
	}
	return ""
}

func jsonField(report map[string]interface{}, key string) datatypes.JSON {
	v, ok := report[key]
	if !ok {
		return datatypes.JSON("[]")
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(payload)
}

func scoreField(report map[string]interface{}, key string) decimal.Decimal {
	if v, ok := report[key].(float64); ok {
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}
