package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"swarmfeedback/internal/model"
)

type feedbackRepository struct {
	col *mongo.Collection
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	ensureID(&feedback.ID)
	return insertOne(ctx, r.col, feedback)
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *model.Feedback) error {
	return replaceByID(ctx, r.col, feedback.ID, feedback)
}

func (r *feedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	return findByID[model.Feedback](ctx, r.col, id)
}

func (r *feedbackRepository) List(ctx context.Context) ([]model.Feedback, error) {
	return r.find(ctx, bson.D{})
}

func (r *feedbackRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Feedback, error) {
	return r.find(ctx, bson.D{{Key: "status", Value: status}})
}

func (r *feedbackRepository) FindBySubmission(ctx context.Context, submissionID string) ([]model.Feedback, error) {
	return r.find(ctx, bson.D{{Key: "submission_id", Value: submissionID}})
}

func (r *feedbackRepository) FindByReviewer(ctx context.Context, reviewerID string) ([]model.Feedback, error) {
	return r.find(ctx, bson.D{{Key: "reviewer_user_id", Value: reviewerID}})
}

func (r *feedbackRepository) FindBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]model.Feedback, error) {
	if len(submissionIDs) == 0 {
		return []model.Feedback{}, nil
	}
	return r.find(ctx, bson.D{{Key: "submission_id", Value: bson.D{{Key: "$in", Value: submissionIDs}}}})
}

func (r *feedbackRepository) find(ctx context.Context, filter bson.D) ([]model.Feedback, error) {
	return findMany[model.Feedback](ctx, r.col, filter, options.Find().SetSort(newestFirst))
}
