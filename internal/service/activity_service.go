package service

import (
	"context"
	"log/slog"
	"time"

	"swarmfeedback/internal/auth"
	"swarmfeedback/internal/metrics"
	"swarmfeedback/internal/model"
	"swarmfeedback/internal/repository"
)

// ActivityService records and reads the per-user audit trail.
type ActivityService interface {
	// Record appends an entry. Failures are logged and never returned.
	Record(ctx context.Context, userID, action string, details map[string]any)
	ListMine(ctx context.Context, p auth.Principal) ([]model.ActivityLog, error)
	ListForUser(ctx context.Context, p auth.Principal, userID string) ([]model.ActivityLog, error)
}

type activityService struct {
	repo    repository.ActivityRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewActivityService creates a new activity service. m may be nil.
func NewActivityService(repo repository.ActivityRepository, m *metrics.Metrics) ActivityService {
	return &activityService{repo: repo, metrics: m, now: time.Now}
}

func (s *activityService) Record(ctx context.Context, userID, action string, details map[string]any) {
	entry := &model.ActivityLog{
		UserID:     userID,
		ActionType: action,
		Details:    details,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		slog.WarnContext(ctx, "activity log append failed", "user_id", userID, "action", action, "error", err)
		s.metrics.ActivityDropped()
	}
}

func (s *activityService) ListMine(ctx context.Context, p auth.Principal) ([]model.ActivityLog, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, p.UserID)
}

func (s *activityService) ListForUser(ctx context.Context, p auth.Principal, userID string) ([]model.ActivityLog, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, userID)
}
