package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"swarmfeedback/internal/model"
)

type submissionRepository struct {
	col *mongo.Collection
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	ensureID(&submission.ID)
	return insertOne(ctx, r.col, submission)
}

func (r *submissionRepository) Update(ctx context.Context, submission *model.Submission) error {
	return replaceByID(ctx, r.col, submission.ID, submission)
}

func (r *submissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	return findByID[model.Submission](ctx, r.col, id)
}

func (r *submissionRepository) List(ctx context.Context) ([]model.Submission, error) {
	return r.find(ctx, bson.D{})
}

func (r *submissionRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.Submission, error) {
	return r.find(ctx, bson.D{{Key: "owner_user_id", Value: ownerID}})
}

func (r *submissionRepository) ListApprovedOrOwnedBy(ctx context.Context, userID string) ([]model.Submission, error) {
	return r.find(ctx, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "status", Value: model.StatusApproved}},
		bson.D{{Key: "owner_user_id", Value: userID}},
	}}})
}

func (r *submissionRepository) find(ctx context.Context, filter bson.D) ([]model.Submission, error) {
	return findMany[model.Submission](ctx, r.col, filter, options.Find().SetSort(newestFirst))
}
