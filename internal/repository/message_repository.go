package repository

import (
	"context"

	"gorm.io/gorm"

	"swarmfeedback/internal/model"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return wrapError(r.db.WithContext(ctx).Create(message).Error)
}

func (r *messageRepository) Update(ctx context.Context, message *model.Message) error {
	return wrapError(r.db.WithContext(ctx).Save(message).Error)
}

func (r *messageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&message).Error; err != nil {
		return nil, wrapError(err)
	}
	return &message, nil
}

// List returns all messages newest first.
func (r *messageRepository) List(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
