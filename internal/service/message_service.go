package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swarmfeedback/internal/auth"
	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/model"
	"swarmfeedback/internal/repository"
)

// SendMessageInput is a message addressed to the administrators.
type SendMessageInput struct {
	Subject     string
	Description string
	MediaURL    string
}

// MessageService handles the admin inbox.
type MessageService interface {
	Send(ctx context.Context, p auth.Principal, in SendMessageInput) (*model.Message, error)
	List(ctx context.Context, p auth.Principal) ([]model.Message, error)
	MarkRead(ctx context.Context, p auth.Principal, id string) (*model.Message, error)
}

type messageService struct {
	repo repository.MessageRepository
	now  func() time.Time
}

// NewMessageService creates a new message service.
func NewMessageService(repo repository.MessageRepository) MessageService {
	return &messageService{repo: repo, now: time.Now}
}

func (s *messageService) Send(ctx context.Context, p auth.Principal, in SendMessageInput) (*model.Message, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Subject) == "" {
		return nil, apperrors.ErrFieldsRequired
	}
	message := &model.Message{
		SenderID:       p.UserID,
		SenderUsername: p.Username,
		Subject:        strings.TrimSpace(in.Subject),
		Description:    in.Description,
		MediaURL:       in.MediaURL,
		CreatedAt:      s.now(),
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}

func (s *messageService) List(ctx context.Context, p auth.Principal) ([]model.Message, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *messageService) MarkRead(ctx context.Context, p auth.Principal, id string) (*model.Message, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrMessageNotFound)
	}
	message.Read = true
	if err := s.repo.Update(ctx, message); err != nil {
		return nil, notFound(err, apperrors.ErrMessageNotFound)
	}
	return message, nil
}
