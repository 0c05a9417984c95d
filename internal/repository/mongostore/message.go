package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"swarmfeedback/internal/model"
)

type messageRepository struct {
	col *mongo.Collection
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	ensureID(&message.ID)
	return insertOne(ctx, r.col, message)
}

func (r *messageRepository) Update(ctx context.Context, message *model.Message) error {
	return replaceByID(ctx, r.col, message.ID, message)
}

func (r *messageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	return findByID[model.Message](ctx, r.col, id)
}

func (r *messageRepository) List(ctx context.Context) ([]model.Message, error) {
	return findMany[model.Message](ctx, r.col, bson.D{}, options.Find().SetSort(newestFirst))
}
