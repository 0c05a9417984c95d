package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"swarmfeedback/internal/auth"
	"swarmfeedback/internal/cache"
	"swarmfeedback/internal/config"
	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/logging"
	"swarmfeedback/internal/mail"
	"swarmfeedback/internal/service"
	"swarmfeedback/internal/storage"
)

// SeedUser is one demo account in the seed file.
type SeedUser struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

var defaultUsers = []SeedUser{
	{Username: "reviewer", Email: "reviewer@swarm.com", Password: "reviewer123", Roles: []string{"reviewer"}},
	{Username: "submitter", Email: "submitter@swarm.com", Password: "submitter123", Roles: []string{"submitter"}},
}

func main() {
	source := flag.String("users", os.Getenv("SEED_USERS"), "JSON file or http(s) URL with demo users; built-in demo users when empty")
	withDemo := flag.Bool("demo", true, "create demo reviewer and submitter accounts")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		slog.Error("refusing to start with default secrets", "error", err)
		os.Exit(1)
	}
	if keys := cfg.InsecureDefaults(); len(keys) > 0 {
		slog.Warn("using development default secrets", "keys", keys)
	}
	slog.Info("starting seed", "store", cfg.StoreDriver)

	store, err := storage.Open(cfg)
	if err != nil {
		slog.Error("store init failed", "error", err)
		os.Exit(1)
	}
	ctx := context.Background()
	defer storage.Close(ctx, store)

	// No cache or revocation is needed to create accounts.
	var noCache *cache.Client
	activity := service.NewActivityService(store.Activity, nil)
	authService := service.NewAuthService(store.Users, auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry),
		auth.NewTokenStore(noCache), activity, mail.LogMailer{}, noCache, nil,
		service.AuthOptions{ResetTokenExpiry: cfg.ResetTokenExpiry, FrontendURL: cfg.FrontendURL})

	created, err := authService.EnsureSysadmin(ctx, cfg.SysadminPassword)
	if err != nil {
		slog.Error("sysadmin bootstrap failed", "error", err)
		os.Exit(1)
	}
	slog.Info("sysadmin ready", "username", service.SysadminUsername, "created", created)

	if !*withDemo {
		return
	}
	users := defaultUsers
	if *source != "" {
		users, err = loadUsers(*source)
		if err != nil {
			slog.Error("load seed users failed", "source", *source, "error", err)
			os.Exit(1)
		}
	}

	seeded, skipped, err := seedUsers(ctx, authService, users)
	if err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed completed", "created", seeded, "skipped", skipped, "total", len(users))
}

// loadUsers reads demo users from a local file or an http(s) URL.
func loadUsers(source string) ([]SeedUser, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch seed users: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		r = f
	}
	defer r.Close()

	var users []SeedUser
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("parse seed users: %w", err)
	}
	return users, nil
}

// seedUsers signs up every user, skipping ones that already exist.
func seedUsers(ctx context.Context, authService service.AuthService, users []SeedUser) (seeded, skipped int, err error) {
	for _, u := range users {
		_, err := authService.Signup(ctx, service.SignupInput{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			Roles:    u.Roles,
		})
		switch {
		case err == nil:
			seeded++
		case errors.Is(err, apperrors.ErrUsernameTaken), errors.Is(err, apperrors.ErrEmailTaken), errors.Is(err, apperrors.ErrUserExists):
			slog.Info("user exists, skipping", "username", u.Username)
			skipped++
		default:
			return seeded, skipped, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	return seeded, skipped, nil
}
