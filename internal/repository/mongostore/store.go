// Package mongostore implements the repository interfaces on MongoDB.
//
// Documents are encoded through the bson tags of the model structs. Collection
// names and indexes are declared in one place, in ensureIndexes.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"swarmfeedback/internal/repository"
)

// Collection names.
const (
	ColUsers       = "users"
	ColSubmissions = "submissions"
	ColFeedback    = "feedback"
	ColMessages    = "messages"
	ColActivity    = "activity_logs"
)

// Store is the MongoDB backend.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to uri and selects dbName, e.g. "mongodb://localhost:27017" and "swarm".
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		slog.Warn("mongostore: ensure indexes failed", "error", err)
	}
	return s, nil
}

// Repositories returns the repository bundle served by this store.
func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Users:       &userRepository{col: s.col(ColUsers)},
		Submissions: &submissionRepository{col: s.col(ColSubmissions)},
		Feedback:    &feedbackRepository{col: s.col(ColFeedback)},
		Messages:    &messageRepository{col: s.col(ColMessages)},
		Activity:    &activityRepository{col: s.col(ColActivity)},
		Ping: func(ctx context.Context) error {
			return s.client.Ping(ctx, nil)
		},
		Close: func(ctx context.Context) error {
			return s.client.Disconnect(ctx)
		},
	}
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "username", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "reset_password_token", Value: 1}}, false},
		{ColUsers, bson.D{{Key: "points", Value: -1}}, false},

		{ColSubmissions, bson.D{{Key: "owner_user_id", Value: 1}}, false},
		{ColSubmissions, bson.D{{Key: "status", Value: 1}}, false},
		{ColSubmissions, bson.D{{Key: "created_at", Value: -1}}, false},

		{ColFeedback, bson.D{{Key: "submission_id", Value: 1}}, false},
		{ColFeedback, bson.D{{Key: "reviewer_user_id", Value: 1}}, false},
		{ColFeedback, bson.D{{Key: "status", Value: 1}}, false},

		{ColMessages, bson.D{{Key: "created_at", Value: -1}}, false},

		{ColActivity, bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}
