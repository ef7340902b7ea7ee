package service

import (
	"context"
	"fmt"
	"time"

	"researchhub/internal/model"
	"researchhub/internal/repository"
)

// ActivitySummary aggregates a user's recent activity.
type ActivitySummary struct {
	Days           int `json:"days"`
	SearchesCount  int `json:"searches_count"`
	PapersViewed   int `json:"papers_viewed"`
	PapersSaved    int `json:"papers_saved"`
	TotalTimeSpent int `json:"total_time_spent"`
	TeamActivities int `json:"team_activities"`
}

// ActivityService records and summarizes user activity.
type ActivityService interface {
	LogSearch(ctx context.Context, userID uint, query string, resultsCount int, source string) error
	LogPaperInteraction(ctx context.Context, interaction *model.PaperInteraction) (uint, error)
	AddTimeSpent(ctx context.Context, interactionID uint, seconds int) error
	LogTeamActivity(ctx context.Context, userID uint, activityType, description string) error
	Summary(ctx context.Context, userID uint, days int) (*ActivitySummary, error)
}

type activityService struct {
	repo repository.ActivityRepository
}

// NewActivityService creates a new activity service.
func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) LogSearch(ctx context.Context, userID uint, query string, resultsCount int, source string) error {
	return s.repo.CreateSearchLog(ctx, &model.SearchLog{
		UserID:       userID,
		Query:        query,
		ResultsCount: resultsCount,
		Source:       source,
	})
}

func (s *activityService) LogPaperInteraction(ctx context.Context, interaction *model.PaperInteraction) (uint, error) {
	if interaction.InteractionType == "" {
		interaction.InteractionType = model.InteractionView
	}
	if err := s.repo.CreatePaperInteraction(ctx, interaction); err != nil {
		return 0, fmt.Errorf("log paper interaction: %w", err)
	}
	return interaction.ID, nil
}

func (s *activityService) AddTimeSpent(ctx context.Context, interactionID uint, seconds int) error {
	if seconds <= 0 {
		return nil
	}
	return s.repo.AddTimeSpent(ctx, interactionID, seconds)
}

func (s *activityService) LogTeamActivity(ctx context.Context, userID uint, activityType, description string) error {
	return s.repo.CreateTeamActivity(ctx, &model.TeamActivity{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
	})
}

func (s *activityService) Summary(ctx context.Context, userID uint, days int) (*ActivitySummary, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	searches, err := s.repo.SearchLogsSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load search logs: %w", err)
	}
	papers, err := s.repo.PaperInteractionsSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load paper interactions: %w", err)
	}
	activities, err := s.repo.TeamActivitiesSince(ctx, userID, since, maxRawActivities)
	if err != nil {
		return nil, fmt.Errorf("load team activities: %w", err)
	}

	stats := computeActivityStats(searches, papers)
	return &ActivitySummary{
		Days:           days,
		SearchesCount:  stats.SearchesCount,
		PapersViewed:   stats.PapersViewed,
		PapersSaved:    stats.PapersSaved,
		TotalTimeSpent: stats.TotalTimeSpent,
		TeamActivities: len(activities),
	}, nil
}
