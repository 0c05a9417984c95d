package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"swarmfeedback/internal/auth"
	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/model"
	"swarmfeedback/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// Gamification rules.
const (
	PointsPerApprovedReview = 10
	TopReviewerApprovals    = 10
	BadgeFirstReview        = "FIRST_REVIEW"
	BadgeTopReviewer        = "TOP_REVIEWER"
	leaderboardSize         = 10
)

// Profile is the caller's user record plus the rating average computed on read.
type Profile struct {
	model.User
	Ratings *float64 `json:"ratings"`
}

// UpdateProfileInput carries the editable profile fields. Nil fields stay unchanged.
type UpdateProfileInput struct {
	Name       *string
	Bio        *string
	Age        *int
	RegNumber  *string
	ProfilePic *string
	Skills     []string
}

// LeaderboardEntry is the public view of a ranked user.
type LeaderboardEntry struct {
	Username   string `json:"username"`
	Points     int    `json:"points"`
	Level      string `json:"level"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// UserService exposes profile, admin and gamification operations.
type UserService interface {
	GetMe(ctx context.Context, p auth.Principal) (*Profile, error)
	UpdateMe(ctx context.Context, p auth.Principal, in UpdateProfileInput) (*model.User, error)
	SetProfilePicture(ctx context.Context, p auth.Principal, url string) (*model.User, error)
	ListUsers(ctx context.Context, p auth.Principal) ([]model.User, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	DeleteUser(ctx context.Context, p auth.Principal, id string) error

	// RecordReviewGiven counts a review written by userID.
	RecordReviewGiven(ctx context.Context, userID string) error
	// AwardApprovedReview credits userID for a review that got approved.
	AwardApprovedReview(ctx context.Context, userID string) error
}

type userService struct {
	users       repository.UserRepository
	submissions repository.SubmissionRepository
	feedback    repository.FeedbackRepository
	cache       Cache
	opts        UserOptions
	now         func() time.Time
}

// UserOptions configures account removal.
type UserOptions struct {
	// Tokens revokes the bearer tokens of deleted users. Nil skips revocation.
	Tokens auth.TokenStoreInterface
	// TokenTTL is how long a revocation lasts; the JWT lifetime.
	TokenTTL time.Duration
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(store *repository.Store, cache Cache, opts UserOptions) UserService {
	return &userService{
		users:       store.Users,
		submissions: store.Submissions,
		feedback:    store.Feedback,
		cache:       cache,
		opts:        opts,
		now:         time.Now,
	}
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// cachedUser is a read-through lookup. The cached copy has no credentials,
// so it must never be saved back.
func (s *userService) cachedUser(ctx context.Context, id string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// save persists the user and drops its cached copy.
func (s *userService) save(ctx context.Context, user *model.User) error {
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))
	return nil
}

func (s *userService) load(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) GetMe(ctx context.Context, p auth.Principal) (*Profile, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	user, err := s.cachedUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingsFor(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("compute ratings: %w", err)
	}
	return &Profile{User: *user, Ratings: ratings}, nil
}

// ratingsFor averages the ratings a reviewer gave, or the approved ratings
// everyone else received on their submissions. Nil when there is nothing to average.
func (s *userService) ratingsFor(ctx context.Context, user *model.User) (*float64, error) {
	var ratings []int
	if user.HasRole(model.RoleReviewer) {
		given, err := s.feedback.FindByReviewer(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		for _, f := range given {
			ratings = append(ratings, f.Rating)
		}
		return average(ratings), nil
	}

	owned, err := s.submissions.FindByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(owned))
	for _, sub := range owned {
		ids = append(ids, sub.ID)
	}
	received, err := s.feedback.FindBySubmissionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, f := range received {
		if f.Status == model.StatusApproved {
			ratings = append(ratings, f.Rating)
		}
	}
	return average(ratings), nil
}

func average(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))
	return &avg
}

func (s *userService) UpdateMe(ctx context.Context, p auth.Principal, in UpdateProfileInput) (*model.User, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Age != nil {
		user.Age = in.Age
	}
	if in.RegNumber != nil {
		user.RegNumber = *in.RegNumber
	}
	if in.ProfilePic != nil {
		user.ProfilePic = *in.ProfilePic
	}
	if in.Skills != nil {
		user.Skills = in.Skills
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) SetProfilePicture(ctx context.Context, p auth.Principal, url string) (*model.User, error) {
	return s.UpdateMe(ctx, p, UpdateProfileInput{ProfilePic: &url})
}

func (s *userService) ListUsers(ctx context.Context, p auth.Principal) ([]model.User, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
		users[i].ResetPasswordToken = nil
	}
	return users, nil
}

func (s *userService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	top, err := s.users.TopByPoints(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(top))
	for _, u := range top {
		entries = append(entries, LeaderboardEntry{
			Username:   u.Username,
			Points:     u.Points,
			Level:      u.Level,
			ProfilePic: u.ProfilePic,
		})
	}
	return entries, nil
}

// DeleteUser removes the account and revokes its tokens. Its submissions and
// feedback are left in place.
func (s *userService) DeleteUser(ctx context.Context, p auth.Principal, id string) error {
	if err := auth.RequireAdmin(p); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	if s.opts.Tokens != nil {
		if err := s.opts.Tokens.RevokeUser(ctx, id, s.opts.TokenTTL); err != nil {
			slog.WarnContext(ctx, "revoke deleted user tokens failed", "user_id", id, "error", err)
		}
	}
	return nil
}

func (s *userService) RecordReviewGiven(ctx context.Context, userID string) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	user.ReviewsGiven++
	return s.save(ctx, user)
}

func (s *userService) AwardApprovedReview(ctx context.Context, userID string) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	user.Points += PointsPerApprovedReview
	user.Level = model.LevelForPoints(user.Points)
	if !user.HasBadge(BadgeFirstReview) {
		user.Badges = append(user.Badges, BadgeFirstReview)
	}
	if user.Points >= TopReviewerApprovals*PointsPerApprovedReview && !user.HasBadge(BadgeTopReviewer) {
		user.Badges = append(user.Badges, BadgeTopReviewer)
	}
	return s.save(ctx, user)
}
