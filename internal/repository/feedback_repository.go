package repository

import (
	"context"

	"gorm.io/gorm"

	"swarmfeedback/internal/model"
)

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	return wrapError(r.db.WithContext(ctx).Create(feedback).Error)
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *model.Feedback) error {
	return wrapError(r.db.WithContext(ctx).Save(feedback).Error)
}

func (r *feedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&feedback).Error; err != nil {
		return nil, wrapError(err)
	}
	return &feedback, nil
}

func (r *feedbackRepository) List(ctx context.Context) ([]model.Feedback, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *feedbackRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Feedback, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", status))
}

func (r *feedbackRepository) FindBySubmission(ctx context.Context, submissionID string) ([]model.Feedback, error) {
	return r.find(r.db.WithContext(ctx).Where("submission_id = ?", submissionID))
}

func (r *feedbackRepository) FindByReviewer(ctx context.Context, reviewerID string) ([]model.Feedback, error) {
	return r.find(r.db.WithContext(ctx).Where("reviewer_user_id = ?", reviewerID))
}

func (r *feedbackRepository) FindBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]model.Feedback, error) {
	if len(submissionIDs) == 0 {
		return []model.Feedback{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("submission_id IN ?", submissionIDs))
}

func (r *feedbackRepository) find(q *gorm.DB) ([]model.Feedback, error) {
	var feedback []model.Feedback
	if err := q.Order(newestFirst).Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}
