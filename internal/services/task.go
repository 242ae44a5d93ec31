package services

import (
	"context"

	"github.com/RicardoValus/tasks-project/types"
)

// PageSize is the fixed page size for task listings.
const PageSize = 25

// TaskRepository defines persistence operations for tasks. Every operation
// is scoped by the owning user's id.
type TaskRepository interface {
	ListByUser(ctx context.Context, userID, offset, limit int) ([]types.Task, int, error)
	GetByIDAndUser(ctx context.Context, id, userID int) (types.Task, error)
	Create(ctx context.Context, task types.Task) (types.Task, error)
	UpdateScoped(ctx context.Context, task types.Task) (types.Task, error)
	DeleteScoped(ctx context.Context, id, userID int) error
}

// TaskService encapsulates task use-cases for a single authenticated user.
type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) List(ctx context.Context, userID, page int) ([]types.Task, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize
	return s.repo.ListByUser(ctx, userID, offset, PageSize)
}

func (s *TaskService) Get(ctx context.Context, id, userID int) (types.Task, error) {
	return s.repo.GetByIDAndUser(ctx, id, userID)
}

// Create inserts a task owned by userID and returns the freshly fetched row.
// Ownership and creation time are assigned here regardless of the input.
func (s *TaskService) Create(ctx context.Context, userID int, task types.Task) (types.Task, error) {
	task.UserID = userID
	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return types.Task{}, err
	}
	return s.repo.GetByIDAndUser(ctx, created.ID, userID)
}

// Update rewrites the writable fields of a task owned by userID and returns
// the freshly fetched row.
func (s *TaskService) Update(ctx context.Context, userID int, task types.Task) (types.Task, error) {
	task.UserID = userID
	if _, err := s.repo.UpdateScoped(ctx, task); err != nil {
		return types.Task{}, err
	}
	return s.repo.GetByIDAndUser(ctx, task.ID, userID)
}

func (s *TaskService) Delete(ctx context.Context, id, userID int) error {
	return s.repo.DeleteScoped(ctx, id, userID)
}
