package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Pulse/internal/auth"
	dom "Pulse/internal/domain"
	"Pulse/internal/notify"
	"Pulse/internal/repo"
	"Pulse/internal/service"
	"Pulse/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// fakeSessions is an in-memory auth.Sessions.
type fakeSessions struct {
	mu sync.Mutex
	n  int
	m  map[string]int64
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{m: make(map[string]int64)}
}

func (s *fakeSessions) Create(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	id := fmt.Sprintf("sess-%d", s.n)
	s.m[id] = userID
	return id, nil
}

func (s *fakeSessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

func (s *fakeSessions) GetUserID(_ context.Context, id string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.m[id]
	return userID, ok
}

// memUserRepo fails inserts with a 23505 error on username conflict, like
// the users table's unique constraint.
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
		return dom.User{}, &pgconn.PgError{Code: "23505"}
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

// memPostRepo applies like mutations atomically under a mutex.
type memPostRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]dom.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[int64]dom.Post)}
}

func (r *memPostRepo) Create(_ context.Context, p dom.Post) (dom.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.posts[p.ID] = p
	return p, nil
}

func (r *memPostRepo) GetByID(_ context.Context, id int64) (dom.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return dom.Post{}, pgx.ErrNoRows
	}
	return p, nil
}

func (r *memPostRepo) ListWithAuthors(_ context.Context) ([]dom.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dom.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	return out, nil
}

func (r *memPostRepo) ListByAuthor(_ context.Context, authorID int64) ([]dom.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPostRepo) Update(_ context.Context, id, authorID int64, patch dom.Post) (dom.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.AuthorID != authorID {
		return dom.Post{}, pgx.ErrNoRows
	}
	p.Title = patch.Title
	p.Content = patch.Content
	r.posts[id] = p
	return p, nil
}

func (r *memPostRepo) Delete(_ context.Context, id, authorID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.AuthorID != authorID {
		return pgx.ErrNoRows
	}
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) MutateLikeCount(_ context.Context, id int64, dir dom.LikeDirection) (dom.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return dom.Post{}, pgx.ErrNoRows
	}
	if dir == dom.Like {
		p.LikeCount++
	} else if p.LikeCount > 0 {
		p.LikeCount--
	}
	r.posts[id] = p
	return p, nil
}

func (r *memPostRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.posts)), nil
}

func (r *memPostRepo) TotalLikes(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		n += p.LikeCount
	}
	return n, nil
}

type testEnv struct {
	router   *gin.Engine
	sessions *fakeSessions
	users    *memUserRepo
	posts    *memPostRepo
}

// newTestEnv wires the real handlers/services over in-memory repos and a
// deterministic notifier (zero latency, given failure rate).
func newTestEnv(notifyFailureRate float64) *testEnv {
	gin.SetMode(gin.TestMode)

	sessions := newFakeSessions()
	users := newMemUserRepo()
	posts := newMemPostRepo()

	var userRepo repo.UserRepo = users
	var postRepo repo.PostRepo = posts

	notifier := notify.NewWelcomeNotifier(0, notifyFailureRate)
	engine := workflow.NewEngine(workflow.BcryptHasher{Cost: bcrypt.MinCost}, userRepo, postRepo, notifier)
	userSvc := service.NewUserService(userRepo, postRepo, engine)
	postSvc := service.NewPostService(postRepo, nil)
	dashSvc := service.NewDashboardService(userRepo, postRepo, nil)

	authHandler := NewAuthHandler(sessions, userSvc)
	postHandler := NewPostHandler(postSvc)
	dashHandler := NewDashboardHandler(dashSvc)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	protected := api.Group("", auth.RequireSession(sessions))
	protected.POST("/posts", postHandler.Create)
	protected.GET("/posts", postHandler.List)
	protected.PATCH("/posts/:id", postHandler.Update)
	protected.DELETE("/posts/:id", postHandler.Delete)
	protected.POST("/posts/:id/like", postHandler.Like)
	protected.GET("/dashboard/stats", dashHandler.Stats)
	protected.GET("/users/me", authHandler.Me)

	return &testEnv{router: r, sessions: sessions, users: users, posts: posts}
}
