package repository

import (
	"context"

	"gorm.io/gorm"

	"swarmfeedback/internal/model"
)

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	return wrapError(r.db.WithContext(ctx).Create(submission).Error)
}

func (r *submissionRepository) Update(ctx context.Context, submission *model.Submission) error {
	return wrapError(r.db.WithContext(ctx).Save(submission).Error)
}

func (r *submissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, wrapError(err)
	}
	return &submission, nil
}

func (r *submissionRepository) List(ctx context.Context) ([]model.Submission, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *submissionRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.Submission, error) {
	return r.find(r.db.WithContext(ctx).Where("owner_user_id = ?", ownerID))
}

// ListApprovedOrOwnedBy returns approved submissions plus every submission owned by userID.
func (r *submissionRepository) ListApprovedOrOwnedBy(ctx context.Context, userID string) ([]model.Submission, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ? OR owner_user_id = ?", model.StatusApproved, userID))
}

func (r *submissionRepository) find(q *gorm.DB) ([]model.Submission, error) {
	var submissions []model.Submission
	if err := q.Order(newestFirst).Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}
