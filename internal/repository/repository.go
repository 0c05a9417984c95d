package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"swarmfeedback/internal/db"
	"swarmfeedback/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key already exists.
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	TopByPoints(ctx context.Context, limit int) ([]model.User, error)
	Delete(ctx context.Context, id string) error
}

// SubmissionRepository defines submission persistence operations.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	Update(ctx context.Context, submission *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	List(ctx context.Context) ([]model.Submission, error)
	FindByOwner(ctx context.Context, ownerID string) ([]model.Submission, error)
	ListApprovedOrOwnedBy(ctx context.Context, userID string) ([]model.Submission, error)
}

// FeedbackRepository defines feedback persistence operations.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	Update(ctx context.Context, feedback *model.Feedback) error
	FindByID(ctx context.Context, id string) (*model.Feedback, error)
	List(ctx context.Context) ([]model.Feedback, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.Feedback, error)
	FindBySubmission(ctx context.Context, submissionID string) ([]model.Feedback, error)
	FindByReviewer(ctx context.Context, reviewerID string) ([]model.Feedback, error)
	FindBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]model.Feedback, error)
}

// MessageRepository defines message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	Update(ctx context.Context, message *model.Message) error
	FindByID(ctx context.Context, id string) (*model.Message, error)
	List(ctx context.Context) ([]model.Message, error)
}

// ActivityRepository appends and reads activity log entries.
type ActivityRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	FindByUser(ctx context.Context, userID string) ([]model.ActivityLog, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Users       UserRepository
	Submissions SubmissionRepository
	Feedback    FeedbackRepository
	Messages    MessageRepository
	Activity    ActivityRepository
	// Ping checks backend connectivity for health probes.
	Ping func(ctx context.Context) error
	// Close releases backend connections.
	Close func(ctx context.Context) error
}

// NewGormStore builds a Store backed by a relational database.
func NewGormStore(gormDB *gorm.DB) *Store {
	return &Store{
		Users:       NewUserRepository(gormDB),
		Submissions: NewSubmissionRepository(gormDB),
		Feedback:    NewFeedbackRepository(gormDB),
		Messages:    NewMessageRepository(gormDB),
		Activity:    NewActivityRepository(gormDB),
		Ping: func(ctx context.Context) error {
			return db.Ping(ctx, gormDB)
		},
		Close: func(context.Context) error {
			return db.Close(gormDB)
		},
	}
}

// wrapError converts gorm errors into repository errors.
func wrapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

const newestFirst = "created_at DESC"
