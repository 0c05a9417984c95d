package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"swarmfeedback/internal/model"
)

type activityRepository struct {
	col *mongo.Collection
}

func (r *activityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	ensureID(&entry.ID)
	return insertOne(ctx, r.col, entry)
}

func (r *activityRepository) FindByUser(ctx context.Context, userID string) ([]model.ActivityLog, error) {
	return findMany[model.ActivityLog](ctx, r.col, bson.D{{Key: "user_id", Value: userID}}, options.Find().SetSort(newestFirst))
}
