package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"swarmfeedback/internal/auth"
	"swarmfeedback/internal/model"
	"swarmfeedback/internal/repository"
)

// In-memory repositories. They hand out copies so unsaved changes do not leak,
// the way a real database behaves.

type memUsers struct {
	mu   sync.Mutex
	rows map[string]model.User
}

func (r *memUsers) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = "user-" + u.Username
	}
	for _, existing := range r.rows {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	r.rows[u.ID] = *u
	return nil
}

func (r *memUsers) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.rows[u.ID] = *u
	return nil
}

func (r *memUsers) find(match func(model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if match(u) {
			c := u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r *memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username })
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r *memUsers) FindByResetToken(_ context.Context, token string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ResetPasswordToken != nil && *u.ResetPasswordToken == token })
}

func (r *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *memUsers) List(context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.rows))
	for _, u := range r.rows {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUsers) TopByPoints(ctx context.Context, limit int) ([]model.User, error) {
	all, _ := r.List(ctx)
	slices.SortFunc(all, func(a, b model.User) int {
		if a.Points != b.Points {
			return b.Points - a.Points
		}
		if a.Username < b.Username {
			return -1
		}
		return 1
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memUsers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// memTable is an insertion-ordered table shared by the other fakes.
type memTable[T any] struct {
	mu    sync.Mutex
	order []string
	rows  map[string]T
	seq   int
}

func newTable[T any]() *memTable[T] {
	return &memTable[T]{rows: map[string]T{}}
}

func (t *memTable[T]) insert(id *string, prefix string, row func() T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if *id == "" {
		t.seq++
		*id = fmt.Sprintf("%s-%d", prefix, t.seq)
	}
	t.order = append(t.order, *id)
	t.rows[*id] = row()
}

func (t *memTable[T]) put(id string, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	t.rows[id] = row
	return nil
}

func (t *memTable[T]) get(id string) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

// filter returns matching rows newest first.
func (t *memTable[T]) filter(match func(T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := []T{}
	for i := len(t.order) - 1; i >= 0; i-- {
		row := t.rows[t.order[i]]
		if match(row) {
			out = append(out, row)
		}
	}
	return out
}

func all[T any](T) bool { return true }

type memSubmissions struct{ t *memTable[model.Submission] }

func (r *memSubmissions) Create(_ context.Context, s *model.Submission) error {
	r.t.insert(&s.ID, "sub", func() model.Submission { return *s })
	return nil
}

func (r *memSubmissions) Update(_ context.Context, s *model.Submission) error {
	return r.t.put(s.ID, *s)
}

func (r *memSubmissions) FindByID(_ context.Context, id string) (*model.Submission, error) {
	return r.t.get(id)
}

func (r *memSubmissions) List(context.Context) ([]model.Submission, error) {
	return r.t.filter(all[model.Submission]), nil
}

func (r *memSubmissions) FindByOwner(_ context.Context, ownerID string) ([]model.Submission, error) {
	return r.t.filter(func(s model.Submission) bool { return s.OwnerUserID == ownerID }), nil
}

func (r *memSubmissions) ListApprovedOrOwnedBy(_ context.Context, userID string) ([]model.Submission, error) {
	return r.t.filter(func(s model.Submission) bool {
		return s.Status == model.StatusApproved || s.OwnerUserID == userID
	}), nil
}

type memFeedback struct {
	t *memTable[model.Feedback]
	// err fails every write when set.
	err error
}

func (r *memFeedback) Create(_ context.Context, f *model.Feedback) error {
	if r.err != nil {
		return r.err
	}
	r.t.insert(&f.ID, "fb", func() model.Feedback { return *f })
	return nil
}

func (r *memFeedback) Update(_ context.Context, f *model.Feedback) error {
	if r.err != nil {
		return r.err
	}
	return r.t.put(f.ID, *f)
}

func (r *memFeedback) FindByID(_ context.Context, id string) (*model.Feedback, error) {
	return r.t.get(id)
}

func (r *memFeedback) List(context.Context) ([]model.Feedback, error) {
	return r.t.filter(all[model.Feedback]), nil
}

func (r *memFeedback) ListByStatus(_ context.Context, status model.Status) ([]model.Feedback, error) {
	return r.t.filter(func(f model.Feedback) bool { return f.Status == status }), nil
}

func (r *memFeedback) FindBySubmission(_ context.Context, submissionID string) ([]model.Feedback, error) {
	return r.t.filter(func(f model.Feedback) bool { return f.SubmissionID == submissionID }), nil
}

func (r *memFeedback) FindByReviewer(_ context.Context, reviewerID string) ([]model.Feedback, error) {
	return r.t.filter(func(f model.Feedback) bool { return f.ReviewerUserID == reviewerID }), nil
}

func (r *memFeedback) FindBySubmissionIDs(_ context.Context, ids []string) ([]model.Feedback, error) {
	return r.t.filter(func(f model.Feedback) bool { return slices.Contains(ids, f.SubmissionID) }), nil
}

type memMessages struct{ t *memTable[model.Message] }

func (r *memMessages) Create(_ context.Context, m *model.Message) error {
	r.t.insert(&m.ID, "msg", func() model.Message { return *m })
	return nil
}

func (r *memMessages) Update(_ context.Context, m *model.Message) error {
	return r.t.put(m.ID, *m)
}

func (r *memMessages) FindByID(_ context.Context, id string) (*model.Message, error) {
	return r.t.get(id)
}

func (r *memMessages) List(context.Context) ([]model.Message, error) {
	return r.t.filter(all[model.Message]), nil
}

type memActivity struct {
	t   *memTable[model.ActivityLog]
	err error
}

func (r *memActivity) Create(_ context.Context, l *model.ActivityLog) error {
	if r.err != nil {
		return r.err
	}
	r.t.insert(&l.ID, "log", func() model.ActivityLog { return *l })
	return nil
}

func (r *memActivity) FindByUser(_ context.Context, userID string) ([]model.ActivityLog, error) {
	return r.t.filter(func(l model.ActivityLog) bool { return l.UserID == userID }), nil
}

func (r *memActivity) actions(userID string) []string {
	var out []string
	for _, l := range r.t.filter(func(l model.ActivityLog) bool { return l.UserID == userID }) {
		out = append(out, l.ActionType)
	}
	return out
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// fixture wires every service against in-memory storage.
type fixture struct {
	store    *repository.Store
	users    *memUsers
	feedback *memFeedback
	activity *memActivity
	cache    *memCache
	tokens   *auth.TokenStore

	activitySvc   ActivityService
	userSvc       UserService
	submissionSvc SubmissionService
	feedbackSvc   FeedbackService
	messageSvc    MessageService
}

func newFixture() *fixture {
	f := &fixture{
		users:    &memUsers{rows: map[string]model.User{}},
		activity: &memActivity{t: newTable[model.ActivityLog]()},
		cache:    &memCache{data: map[string][]byte{}},
		feedback: &memFeedback{t: newTable[model.Feedback]()},
	}
	f.store = &repository.Store{
		Users:       f.users,
		Submissions: &memSubmissions{t: newTable[model.Submission]()},
		Feedback:    f.feedback,
		Messages:    &memMessages{t: newTable[model.Message]()},
		Activity:    f.activity,
	}
	f.activitySvc = NewActivityService(f.store.Activity, nil)
	f.tokens = auth.NewTokenStore(f.cache)
	f.userSvc = NewUserService(f.store, f.cache, UserOptions{Tokens: f.tokens, TokenTTL: time.Hour})
	f.submissionSvc = NewSubmissionService(f.store.Submissions, f.activitySvc, nil)
	f.feedbackSvc = NewFeedbackService(f.store, f.userSvc, f.activitySvc, nil, FeedbackOptions{AutoApproveAdmin: true})
	f.messageSvc = NewMessageService(f.store.Messages)
	return f
}

// addUser stores a user and returns its principal.
func (f *fixture) addUser(username string, roles ...model.Role) auth.Principal {
	u := &model.User{
		ID:        "id-" + username,
		Username:  username,
		Email:     username + "@example.com",
		Roles:     roles,
		Level:     model.LevelBronze,
		CreatedAt: time.Now(),
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return auth.Principal{UserID: u.ID, Username: username, Roles: roles}
}
