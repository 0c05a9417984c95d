package router

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"swarmfeedback/internal/auth"
	"swarmfeedback/internal/model"
	"swarmfeedback/internal/service"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Signin(ctx context.Context, username, password string) (*service.SigninResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SigninResult), args.Error(1)
}

func (m *MockAuthService) Signout(ctx context.Context, p auth.Principal) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

func (m *MockAuthService) EnsureSysadmin(ctx context.Context, password string) (bool, error) {
	args := m.Called(ctx, password)
	return args.Bool(0), args.Error(1)
}

type MockSubmissionService struct{ mock.Mock }

func (m *MockSubmissionService) Create(ctx context.Context, p auth.Principal, in service.CreateSubmissionInput) (*model.Submission, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionService) List(ctx context.Context, p auth.Principal) ([]model.Submission, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]model.Submission), args.Error(1)
}

func (m *MockSubmissionService) ListMine(ctx context.Context, p auth.Principal) ([]model.Submission, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]model.Submission), args.Error(1)
}

func (m *MockSubmissionService) Get(ctx context.Context, p auth.Principal, id string) (*model.Submission, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionService) UpdateStatus(ctx context.Context, p auth.Principal, id, status string) (*model.Submission, error) {
	args := m.Called(ctx, p, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

type MockFeedbackService struct{ mock.Mock }

func (m *MockFeedbackService) Create(ctx context.Context, p auth.Principal, in service.CreateFeedbackInput) (*model.Feedback, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Feedback), args.Error(1)
}

func (m *MockFeedbackService) List(ctx context.Context, p auth.Principal) ([]model.Feedback, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]model.Feedback), args.Error(1)
}

func (m *MockFeedbackService) ListMine(ctx context.Context, p auth.Principal) ([]model.Feedback, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]model.Feedback), args.Error(1)
}

func (m *MockFeedbackService) ListForSubmission(ctx context.Context, p auth.Principal, submissionID string) ([]model.Feedback, error) {
	args := m.Called(ctx, p, submissionID)
	return args.Get(0).([]model.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Update(ctx context.Context, p auth.Principal, id string, in service.UpdateFeedbackInput) (*model.Feedback, error) {
	args := m.Called(ctx, p, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Feedback), args.Error(1)
}

func (m *MockFeedbackService) UpdateStatus(ctx context.Context, p auth.Principal, id, status, rejectionReason string) (*model.Feedback, error) {
	args := m.Called(ctx, p, id, status, rejectionReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Reply(ctx context.Context, p auth.Principal, id, reply string) (*model.Feedback, error) {
	args := m.Called(ctx, p, id, reply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Feedback), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) GetMe(ctx context.Context, p auth.Principal) (*service.Profile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Profile), args.Error(1)
}

func (m *MockUserService) UpdateMe(ctx context.Context, p auth.Principal, in service.UpdateProfileInput) (*model.User, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) SetProfilePicture(ctx context.Context, p auth.Principal, url string) (*model.User, error) {
	args := m.Called(ctx, p, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, p auth.Principal) ([]model.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) Leaderboard(ctx context.Context) ([]service.LeaderboardEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]service.LeaderboardEntry), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, p auth.Principal, id string) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockUserService) RecordReviewGiven(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserService) AwardApprovedReview(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockActivityService struct{ mock.Mock }

func (m *MockActivityService) Record(ctx context.Context, userID, action string, details map[string]any) {
	m.Called(ctx, userID, action, details)
}

func (m *MockActivityService) ListMine(ctx context.Context, p auth.Principal) ([]model.ActivityLog, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

func (m *MockActivityService) ListForUser(ctx context.Context, p auth.Principal, userID string) ([]model.ActivityLog, error) {
	args := m.Called(ctx, p, userID)
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

type MockMessageService struct{ mock.Mock }

func (m *MockMessageService) Send(ctx context.Context, p auth.Principal, in service.SendMessageInput) (*model.Message, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageService) List(ctx context.Context, p auth.Principal) ([]model.Message, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageService) MarkRead(ctx context.Context, p auth.Principal, id string) (*model.Message, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

// memCache backs the real token store in tests.
type memCache struct{ data map[string][]byte }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) { return c.data[key], nil }

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

var (
	_ service.AuthService       = (*MockAuthService)(nil)
	_ service.SubmissionService = (*MockSubmissionService)(nil)
	_ service.FeedbackService   = (*MockFeedbackService)(nil)
	_ service.UserService       = (*MockUserService)(nil)
	_ service.ActivityService   = (*MockActivityService)(nil)
	_ service.MessageService    = (*MockMessageService)(nil)
)
