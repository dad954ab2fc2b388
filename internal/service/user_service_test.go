package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	dom "Pulse/internal/domain"
	"Pulse/internal/notify"
	"Pulse/internal/workflow"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memUserRepo enforces username uniqueness the way Postgres does: the insert
// itself fails with a 23505 error on conflict.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]dom.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]dom.User)}
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) Create(_ context.Context, username, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[username]; exists {
		return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	}
	r.nextID++
	u := dom.User{ID: r.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.users[username] = u
	return u, nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type stubNotifier struct{}

func (stubNotifier) Notify(_ context.Context, _ string, userID int64) (dom.NotificationResult, error) {
	return dom.NotificationResult{Sent: true, MessageID: "msg_test"}, nil
}

func newTestUserService() (*UserService, *memUserRepo, *memPostRepo) {
	users := newMemUserRepo()
	posts := newMemPostRepo()
	hasher := workflow.BcryptHasher{Cost: bcrypt.MinCost}
	var n notify.Notifier = stubNotifier{}
	engine := workflow.NewEngine(hasher, users, posts, n)
	return NewUserService(users, posts, engine), users, posts
}

func TestRegisterRejectsBadShapes(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ab", "s3cret1")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Register(ctx, strings.Repeat("a", 21), "s3cret1")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Register(ctx, "alice", "short")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestRegisterEndToEnd(t *testing.T) {
	svc, users, posts := newTestUserService()
	ctx := context.Background()

	res, err := svc.Register(ctx, "alice", "s3cret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "Welcome alice!", res.WelcomePost.Title)
	assert.Equal(t, res.User.ID, res.WelcomePost.AuthorID)
	assert.Zero(t, res.WelcomePost.LikeCount)

	n, _ := users.Count(ctx)
	assert.Equal(t, int64(1), n)
	stored, err := posts.ListByAuthor(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// The stored hash verifies against the original password.
	u, err := svc.ValidateCredentials(ctx, "alice", "s3cret1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, u.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "s3cret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other-password")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

// racyUserRepo simulates losing the uniqueness race: the advisory pre-check
// sees no user, but the insert hits the unique constraint.
type racyUserRepo struct {
	*memUserRepo
}

func (racyUserRepo) GetByUsername(context.Context, string) (dom.User, error) {
	return dom.User{}, pgx.ErrNoRows
}

func TestRegisterUniqueViolationOnInsert(t *testing.T) {
	users := newMemUserRepo()
	posts := newMemPostRepo()
	racy := racyUserRepo{users}
	engine := workflow.NewEngine(workflow.BcryptHasher{Cost: bcrypt.MinCost}, racy, posts, stubNotifier{})
	svc := NewUserService(racy, posts, engine)
	ctx := context.Background()

	_, err := users.Create(ctx, "alice", "whatever")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "s3cret1")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestValidateCredentials(t *testing.T) {
	svc, users, _ := newTestUserService()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret1"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.Create(ctx, "bob", string(hash))
	require.NoError(t, err)

	_, err = svc.ValidateCredentials(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ValidateCredentials(ctx, "ghost", "s3cret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := svc.ValidateCredentials(ctx, "bob", "s3cret1")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
}

func TestProfileReturnsUserWithPosts(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	res, err := svc.Register(ctx, "alice", "s3cret1")
	require.NoError(t, err)

	u, userPosts, err := svc.Profile(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	require.Len(t, userPosts, 1)
	assert.Equal(t, "Welcome alice!", userPosts[0].Title)

	_, _, err = svc.Profile(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
