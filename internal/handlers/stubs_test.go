package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/RicardoValus/tasks-project/internal/services"
	"github.com/RicardoValus/tasks-project/internal/store"
	"github.com/RicardoValus/tasks-project/types"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[int]types.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int]types.User{}}
}

func (r *memUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

type memTokenRepo struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]types.Token
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: map[string]types.Token{}}
}

func (r *memTokenRepo) Create(ctx context.Context, token types.Token) (types.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = r.seq
	r.tokens[token.Token] = token
	return token, nil
}

func (r *memTokenRepo) GetByValue(ctx context.Context, value string) (types.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[value]; ok {
		return t, nil
	}
	return types.Token{}, store.ErrNotFound
}

type memTaskRepo struct {
	mu    sync.Mutex
	seq   int
	tasks map[int]types.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: map[int]types.Task{}}
}

func (r *memTaskRepo) ListByUser(ctx context.Context, userID, offset, limit int) ([]types.Task, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := make([]types.Task, 0)
	for _, t := range r.tasks {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	total := len(owned)
	if offset >= total {
		return []types.Task{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (r *memTaskRepo) GetByIDAndUser(ctx context.Context, id, userID int) (types.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok && t.UserID == userID {
		return t, nil
	}
	return types.Task{}, store.ErrNotFound
}

func (r *memTaskRepo) Create(ctx context.Context, task types.Task) (types.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	task.ID = r.seq
	task.CreatedAt = time.Now()
	r.tasks[task.ID] = task
	return task, nil
}

func (r *memTaskRepo) UpdateScoped(ctx context.Context, task types.Task) (types.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return types.Task{}, store.ErrNotFound
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Status = task.Status
	r.tasks[task.ID] = existing
	return existing, nil
}

func (r *memTaskRepo) DeleteScoped(ctx context.Context, id, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok && t.UserID == userID {
		delete(r.tasks, id)
		return nil
	}
	return store.ErrNotFound
}

// testEnv wires the handlers onto an in-memory backend with a controllable
// clock.
type testEnv struct {
	users  *memUserRepo
	tokens *memTokenRepo
	tasks  *memTaskRepo
	clock  time.Time
	router *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:  newMemUserRepo(),
		tokens: newMemTokenRepo(),
		tasks:  newMemTaskRepo(),
		clock:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	authService := services.NewAuthService(env.users, env.tokens, func() time.Time { return env.clock }, services.DefaultTokenTTL)
	userService := services.NewUserService(env.users)
	taskService := services.NewTaskService(env.tasks)

	authHandler := NewAuthHandler(authService, log)
	userHandler := NewUserHandler(userService, log)
	taskHandler := NewTaskHandler(taskService, log)

	router := chi.NewRouter()
	router.NotFound(NotFound)
	router.MethodNotAllowed(MethodNotAllowed)
	AuthRouter(router, authHandler, nil)
	router.Route("/users", func(r chi.Router) {
		UserRouter(r, userHandler)
	})
	router.Route("/tasks", func(r chi.Router) {
		TaskRouter(r, taskHandler, authHandler.Authenticate)
	})

	env.router = router
	return env
}

func (e *testEnv) seedUser(t *testing.T, name, email, password string) types.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := e.users.Create(context.Background(), types.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) seedToken(t *testing.T, userID int, expiresAt time.Time) string {
	t.Helper()

	token, err := e.tokens.Create(context.Background(), types.Token{
		UserID:    userID,
		Token:     fmt.Sprintf("seeded-token-%d", e.tokens.seq+1),
		ExpiresAt: expiresAt,
		CreatedAt: e.clock,
	})
	require.NoError(t, err)
	return token.Token
}
