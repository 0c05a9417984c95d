package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swarmfeedback/internal/auth"
	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/metrics"
	"swarmfeedback/internal/model"
	"swarmfeedback/internal/repository"
)

// CreateSubmissionInput is a new submission request.
type CreateSubmissionInput struct {
	Title       string
	Description string
	FileURLs    []string
	Tags        []string
}

// SubmissionService implements the submission workflow and its visibility rules.
type SubmissionService interface {
	Create(ctx context.Context, p auth.Principal, in CreateSubmissionInput) (*model.Submission, error)
	// List returns everything to admins, otherwise approved submissions plus the caller's own.
	List(ctx context.Context, p auth.Principal) ([]model.Submission, error)
	ListMine(ctx context.Context, p auth.Principal) ([]model.Submission, error)
	Get(ctx context.Context, p auth.Principal, id string) (*model.Submission, error)
	UpdateStatus(ctx context.Context, p auth.Principal, id, status string) (*model.Submission, error)
}

type submissionService struct {
	repo     repository.SubmissionRepository
	activity ActivityService
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewSubmissionService creates a new submission service.
func NewSubmissionService(repo repository.SubmissionRepository, activity ActivityService, m *metrics.Metrics) SubmissionService {
	return &submissionService{repo: repo, activity: activity, metrics: m, now: time.Now}
}

func (s *submissionService) Create(ctx context.Context, p auth.Principal, in CreateSubmissionInput) (*model.Submission, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apperrors.ErrFieldsRequired
	}

	submission := &model.Submission{
		OwnerUserID: p.UserID,
		Title:       title,
		Description: description,
		FileURLs:    nonNil(in.FileURLs),
		Tags:        nonNil(in.Tags),
		Status:      model.StatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.metrics.SubmissionCreated(string(submission.Status))
	s.activity.Record(ctx, p.UserID, model.ActionCreateSubmission, map[string]any{
		"submissionId": submission.ID,
		"title":        submission.Title,
	})
	return submission, nil
}

func (s *submissionService) List(ctx context.Context, p auth.Principal) ([]model.Submission, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if p.IsAdmin() {
		return s.repo.List(ctx)
	}
	return s.repo.ListApprovedOrOwnedBy(ctx, p.UserID)
}

func (s *submissionService) ListMine(ctx context.Context, p auth.Principal) ([]model.Submission, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.repo.FindByOwner(ctx, p.UserID)
}

// Get hides submissions the caller may not see behind ErrSubmissionNotFound.
func (s *submissionService) Get(ctx context.Context, p auth.Principal, id string) (*model.Submission, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrSubmissionNotFound)
	}
	if !submission.VisibleTo(p.UserID, p.IsAdmin()) {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return submission, nil
}

// UpdateStatus lets an admin move a submission to any settable status.
func (s *submissionService) UpdateStatus(ctx context.Context, p auth.Principal, id, status string) (*model.Submission, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	next, ok := model.ParseStatus(status)
	if !ok {
		return nil, apperrors.ErrInvalidStatus
	}

	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrSubmissionNotFound)
	}
	now := s.now()
	submission.Status = next
	submission.UpdatedAt = &now
	if err := s.repo.Update(ctx, submission); err != nil {
		return nil, notFound(err, apperrors.ErrSubmissionNotFound)
	}

	s.metrics.StatusChanged("submission", string(next))
	s.activity.Record(ctx, p.UserID, model.ActionUpdateSubmissionStatus, map[string]any{
		"submissionId": submission.ID,
		"status":       string(next),
	})
	return submission, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
