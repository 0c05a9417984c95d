package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"swarmfeedback/internal/model"
)

type userRepository struct {
	col *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ensureID(&user.ID)
	return insertOne(ctx, r.col, user)
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return replaceByID(ctx, r.col, user.ID, user)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return findByID[model.User](ctx, r.col, id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return findOne[model.User](ctx, r.col, bson.D{{Key: "username", Value: username}})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, r.col, bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	return findOne[model.User](ctx, r.col, bson.D{{Key: "reset_password_token", Value: token}})
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(ctx, r.col, bson.D{{Key: "username", Value: username}})
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.col, bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	return findMany[model.User](ctx, r.col, bson.D{}, options.Find().SetSort(newestFirst))
}

func (r *userRepository) TopByPoints(ctx context.Context, limit int) ([]model.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}, {Key: "username", Value: 1}}).
		SetLimit(int64(limit))
	return findMany[model.User](ctx, r.col, bson.D{}, opts)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}
