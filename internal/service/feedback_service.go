package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"swarmfeedback/internal/auth"
	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/metrics"
	"swarmfeedback/internal/model"
	"swarmfeedback/internal/repository"
)

// CreateFeedbackInput is a new review of a submission.
type CreateFeedbackInput struct {
	SubmissionID string
	Comments     string
	Rating       int
}

// UpdateFeedbackInput carries an admin edit. Nil fields stay unchanged.
type UpdateFeedbackInput struct {
	Comments        *string
	Rating          *int
	Status          *string
	RejectionReason *string
}

// FeedbackOptions configures moderation policy.
type FeedbackOptions struct {
	// AutoApproveAdmin creates feedback written by admins as APPROVED.
	AutoApproveAdmin bool
}

// FeedbackService implements the feedback workflow.
type FeedbackService interface {
	Create(ctx context.Context, p auth.Principal, in CreateFeedbackInput) (*model.Feedback, error)
	List(ctx context.Context, p auth.Principal) ([]model.Feedback, error)
	// ListMine returns feedback the caller wrote plus feedback on the caller's submissions.
	ListMine(ctx context.Context, p auth.Principal) ([]model.Feedback, error)
	ListForSubmission(ctx context.Context, p auth.Principal, submissionID string) ([]model.Feedback, error)
	Update(ctx context.Context, p auth.Principal, id string, in UpdateFeedbackInput) (*model.Feedback, error)
	UpdateStatus(ctx context.Context, p auth.Principal, id, status, rejectionReason string) (*model.Feedback, error)
	Reply(ctx context.Context, p auth.Principal, id, reply string) (*model.Feedback, error)
}

type feedbackService struct {
	feedback    repository.FeedbackRepository
	submissions repository.SubmissionRepository
	users       UserService
	activity    ActivityService
	metrics     *metrics.Metrics
	opts        FeedbackOptions
	now         func() time.Time
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(
	store *repository.Store,
	users UserService,
	activity ActivityService,
	m *metrics.Metrics,
	opts FeedbackOptions,
) FeedbackService {
	return &feedbackService{
		feedback:    store.Feedback,
		submissions: store.Submissions,
		users:       users,
		activity:    activity,
		metrics:     m,
		opts:        opts,
		now:         time.Now,
	}
}

// Create accepts feedback from authenticated and anonymous callers.
func (s *feedbackService) Create(ctx context.Context, p auth.Principal, in CreateFeedbackInput) (*model.Feedback, error) {
	if !model.ValidRating(in.Rating) {
		return nil, apperrors.ErrInvalidRating
	}
	if _, err := s.submissions.FindByID(ctx, in.SubmissionID); err != nil {
		return nil, notFound(err, apperrors.ErrSubmissionNotFound)
	}

	reviewer := model.AnonymousReviewer
	if p.IsAuthenticated() {
		reviewer = p.UserID
	}
	status := model.StatusPending
	if s.opts.AutoApproveAdmin && p.IsAdmin() {
		status = model.StatusApproved
	}

	feedback := &model.Feedback{
		SubmissionID:   in.SubmissionID,
		ReviewerUserID: reviewer,
		Comments:       in.Comments,
		Rating:         in.Rating,
		Status:         status,
		CreatedAt:      s.now(),
	}
	award := claimAward(feedback)
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	if award {
		s.award(ctx, feedback.ReviewerUserID)
	}

	s.metrics.FeedbackCreated(string(status))
	if p.IsAuthenticated() {
		if p.IsReviewer() {
			if err := s.users.RecordReviewGiven(ctx, p.UserID); err != nil {
				slog.WarnContext(ctx, "count review failed", "user_id", p.UserID, "error", err)
			}
		}
		s.activity.Record(ctx, p.UserID, model.ActionGiveFeedback, map[string]any{
			"feedbackId":   feedback.ID,
			"submissionId": feedback.SubmissionID,
			"rating":       feedback.Rating,
		})
	}
	return feedback, nil
}

func (s *feedbackService) List(ctx context.Context, p auth.Principal) ([]model.Feedback, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if p.IsAdmin() {
		return s.feedback.List(ctx)
	}
	// Approved feedback on a hidden submission stays hidden with it.
	visible, err := s.submissions.ListApprovedOrOwnedBy(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(visible))
	for _, sub := range visible {
		ids[sub.ID] = true
	}
	approved, err := s.feedback.ListByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, err
	}
	out := make([]model.Feedback, 0, len(approved))
	for _, f := range approved {
		if ids[f.SubmissionID] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *feedbackService) ListMine(ctx context.Context, p auth.Principal) ([]model.Feedback, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	authored, err := s.feedback.FindByReviewer(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	owned, err := s.submissions.FindByOwner(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(owned))
	for _, sub := range owned {
		ids = append(ids, sub.ID)
	}
	received, err := s.feedback.FindBySubmissionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(authored)+len(received))
	out := make([]model.Feedback, 0, len(authored)+len(received))
	for _, f := range authored {
		seen[f.ID] = true
		out = append(out, f)
	}
	for _, f := range received {
		if seen[f.ID] || (!p.IsAdmin() && f.Status != model.StatusApproved) {
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	slices.SortStableFunc(out, func(a, b model.Feedback) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *feedbackService) ListForSubmission(ctx context.Context, p auth.Principal, submissionID string) ([]model.Feedback, error) {
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrSubmissionNotFound)
	}
	if !submission.VisibleTo(p.UserID, p.IsAdmin()) {
		return nil, apperrors.ErrSubmissionNotFound
	}
	all, err := s.feedback.FindBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if p.IsAdmin() || (p.IsAuthenticated() && submission.OwnerUserID == p.UserID) {
		return all, nil
	}
	approved := make([]model.Feedback, 0, len(all))
	for _, f := range all {
		if f.Status == model.StatusApproved {
			approved = append(approved, f)
		}
	}
	return approved, nil
}

// Update applies an admin edit to comments, rating, status or rejection reason.
func (s *feedbackService) Update(ctx context.Context, p auth.Principal, id string, in UpdateFeedbackInput) (*model.Feedback, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if in.Rating != nil && !model.ValidRating(*in.Rating) {
		return nil, apperrors.ErrInvalidRating
	}
	var status model.Status
	if in.Status != nil {
		parsed, ok := model.ParseStatus(*in.Status)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		status = parsed
	}

	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Comments != nil {
		feedback.Comments = *in.Comments
	}
	if in.Rating != nil {
		feedback.Rating = *in.Rating
	}
	if in.RejectionReason != nil {
		feedback.RejectionReason = *in.RejectionReason
	}
	if status != "" {
		feedback.Status = status
	}

	if err := s.save(ctx, feedback); err != nil {
		return nil, err
	}
	if status != "" {
		s.metrics.StatusChanged("feedback", string(status))
	}
	s.activity.Record(ctx, p.UserID, model.ActionUpdateFeedback, map[string]any{
		"feedbackId": feedback.ID,
		"status":     string(feedback.Status),
	})
	return feedback, nil
}

// UpdateStatus moves feedback to a settable status. The rejection reason is
// kept only while the feedback is rejected.
func (s *feedbackService) UpdateStatus(ctx context.Context, p auth.Principal, id, status, rejectionReason string) (*model.Feedback, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	next, ok := model.ParseStatus(status)
	if !ok {
		return nil, apperrors.ErrInvalidStatus
	}

	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	feedback.Status = next
	if next == model.StatusRejected {
		feedback.RejectionReason = strings.TrimSpace(rejectionReason)
	} else {
		feedback.RejectionReason = ""
	}

	if err := s.save(ctx, feedback); err != nil {
		return nil, err
	}
	s.metrics.StatusChanged("feedback", string(next))
	s.activity.Record(ctx, p.UserID, model.ActionUpdateFeedbackStatus, map[string]any{
		"feedbackId": feedback.ID,
		"status":     string(next),
	})
	return feedback, nil
}

// Reply lets the owner of the reviewed submission answer the feedback.
func (s *feedbackService) Reply(ctx context.Context, p auth.Principal, id, reply string) (*model.Feedback, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, apperrors.ErrFieldsRequired
	}

	feedback, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	submission, err := s.submissions.FindByID(ctx, feedback.SubmissionID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrSubmissionNotFound)
	}
	if submission.OwnerUserID != p.UserID {
		return nil, apperrors.ErrForbidden
	}

	now := s.now()
	feedback.SubmitterReply = reply
	feedback.SubmitterRepliedAt = &now
	if err := s.save(ctx, feedback); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, p.UserID, model.ActionReplyFeedback, map[string]any{
		"feedbackId":   feedback.ID,
		"submissionId": feedback.SubmissionID,
	})
	return feedback, nil
}

func (s *feedbackService) find(ctx context.Context, id string) (*model.Feedback, error) {
	feedback, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrFeedbackNotFound)
	}
	return feedback, nil
}

func (s *feedbackService) save(ctx context.Context, feedback *model.Feedback) error {
	now := s.now()
	feedback.UpdatedAt = &now
	award := claimAward(feedback)
	if err := s.feedback.Update(ctx, feedback); err != nil {
		if award {
			feedback.PointsAwarded = false
		}
		return notFound(err, apperrors.ErrFeedbackNotFound)
	}
	if award {
		s.award(ctx, feedback.ReviewerUserID)
	}
	return nil
}

// claimAward marks feedback approved for the first time as rewarded, so the
// flag is persisted by the same write that stores the approval. Anonymous
// feedback earns nothing.
func claimAward(feedback *model.Feedback) bool {
	if feedback.Status != model.StatusApproved || feedback.PointsAwarded || feedback.ReviewerUserID == model.AnonymousReviewer {
		return false
	}
	feedback.PointsAwarded = true
	return true
}

// award credits the reviewer once the feedback write has landed. A failure
// loses the points rather than risking a second award on retry.
func (s *feedbackService) award(ctx context.Context, reviewerID string) {
	if err := s.users.AwardApprovedReview(ctx, reviewerID); err != nil {
		slog.WarnContext(ctx, "award review points failed", "user_id", reviewerID, "error", err)
	}
}
