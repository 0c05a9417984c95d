package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"swarmfeedback/internal/auth"
	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/mail"
	"swarmfeedback/internal/metrics"
	"swarmfeedback/internal/model"
	"swarmfeedback/internal/repository"
)

const bcryptCost = 10

// Sysadmin account created on first start.
const (
	SysadminUsername = "sysadmin"
	SysadminEmail    = "sysadmin@swarm.com"
)

// SignupInput is a registration request.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// SigninResult is returned on successful authentication.
type SigninResult struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// AuthOptions configures password reset links.
type AuthOptions struct {
	ResetTokenExpiry time.Duration
	FrontendURL      string
}

// AuthService handles registration, sign in and password recovery.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	Signin(ctx context.Context, username, password string) (*SigninResult, error)
	Signout(ctx context.Context, p auth.Principal) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	// EnsureSysadmin creates the sysadmin account holding every role when missing.
	EnsureSysadmin(ctx context.Context, password string) (bool, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	activity   ActivityService
	mailer     mail.Mailer
	cache      Cache
	metrics    *metrics.Metrics
	opts       AuthOptions
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	activity ActivityService,
	mailer mail.Mailer,
	cache Cache,
	m *metrics.Metrics,
	opts AuthOptions,
) AuthService {
	if opts.ResetTokenExpiry <= 0 {
		opts.ResetTokenExpiry = 15 * time.Minute
	}
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		activity:   activity,
		mailer:     mailer,
		cache:      cache,
		metrics:    m,
		opts:       opts,
		now:        time.Now,
	}
}

// ResolveRoles maps requested role names onto the closed role set.
// Admin cannot be self-assigned, unknown names fall back to submitter and
// an empty request yields {submitter}.
func ResolveRoles(requested []string) ([]model.Role, error) {
	var roles []model.Role
	seen := map[model.Role]bool{}
	add := func(r model.Role) {
		if !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	for _, name := range requested {
		role, ok := model.ParseRole(name)
		switch {
		case ok && role == model.RoleAdmin:
			return nil, apperrors.ErrAdminRoleNotAllowed
		case ok:
			add(role)
		default:
			add(model.RoleSubmitter)
		}
	}
	if len(roles) == 0 {
		add(model.RoleSubmitter)
	}
	return roles, nil
}

// Signup creates a new user with hashed password.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	roles, err := ResolveRoles(in.Roles)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}
	taken, err = s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	user, err := s.newUser(in.Username, in.Email, in.Password, roles)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.AuthEvent("signup", true)
	s.activity.Record(ctx, user.ID, model.ActionSignup, map[string]any{"username": user.Username})
	return user, nil
}

func (s *authService) newUser(username, email, password string, roles []model.Role) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	return &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Roles:        roles,
		Level:        model.LevelBronze,
		Badges:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// dummyHash is compared against when the username is unknown.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("swarm-feedback-unknown-user"), bcryptCost)
	if err != nil {
		panic(err)
	}
	return h
})

// Signin authenticates a user and returns a bearer token.
func (s *authService) Signin(ctx context.Context, username, password string) (*SigninResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same bcrypt work as a wrong password so timing does not reveal usernames.
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			s.metrics.AuthEvent("signin", false)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.AuthEvent("signin", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))

	token, _, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.metrics.AuthEvent("signin", true)
	s.activity.Record(ctx, user.ID, model.ActionLogin, map[string]any{"username": user.Username})

	return &SigninResult{
		Token:    token,
		Type:     "Bearer",
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    model.RoleStrings(user.Roles),
	}, nil
}

// Signout revokes the presented token until it would have expired.
func (s *authService) Signout(ctx context.Context, p auth.Principal) error {
	if err := auth.RequireAuthenticated(p); err != nil {
		return err
	}
	if err := s.tokenStore.RevokeToken(ctx, p.TokenID, time.Until(p.ExpiresAt)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.metrics.AuthEvent("signout", true)
	return nil
}

// ForgotPassword stores a reset token and mails the reset link.
// Mail delivery failures are logged only.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}

	token := uuid.NewString()
	expiry := s.now().Add(s.opts.ResetTokenExpiry)
	user.ResetPasswordToken = &token
	user.ResetPasswordTokenExpiry = &expiry
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := strings.TrimRight(s.opts.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
	body := "To reset your password, open the link below. It expires in " +
		s.opts.ResetTokenExpiry.String() + ".\n\n" + link + "\n"
	if err := s.mailer.Send(ctx, user.Email, "Password Reset Request", body); err != nil {
		slog.ErrorContext(ctx, "password reset mail failed", "user_id", user.ID, "error", err)
		s.metrics.MailFailed()
	}
	return nil
}

// ResetPassword sets a new password for the holder of a valid reset token.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		return notFound(err, apperrors.ErrInvalidResetToken)
	}
	if user.ResetPasswordTokenExpiry == nil || s.now().After(*user.ResetPasswordTokenExpiry) {
		return apperrors.ErrResetTokenExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	user.ResetPasswordToken = nil
	user.ResetPasswordTokenExpiry = nil
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *authService) EnsureSysadmin(ctx context.Context, password string) (bool, error) {
	exists, err := s.users.ExistsByUsername(ctx, SysadminUsername)
	if err != nil {
		return false, fmt.Errorf("check sysadmin: %w", err)
	}
	if exists {
		return false, nil
	}
	user, err := s.newUser(SysadminUsername, SysadminEmail, password,
		[]model.Role{model.RoleAdmin, model.RoleReviewer, model.RoleSubmitter})
	if err != nil {
		return false, err
	}
	user.Name = "System Administrator"
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("create sysadmin: %w", err)
	}
	return true, nil
}
