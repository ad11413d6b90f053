package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService struct {
	taskRepo repository.TaskStore
	logger   *zap.Logger
}

func NewTaskService(taskRepo repository.TaskStore, logger *zap.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, logger: logger}
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, req *dto.TaskRequest) (*models.Task, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	now := time.Now().UTC()
	t := &models.Task{ID: uuid.New(), UserID: userID, CreatedAt: now}
	applyTask(t, req, now)
	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, storeErr(err)
	}
	return t, nil
}

func applyTask(t *models.Task, req *dto.TaskRequest, now time.Time) {
	t.Title = cleanText(req.Title)
	t.Description = cleanText(req.Description)
	t.DueDate = req.DueDate.Ptr()
	t.Priority = models.TaskPriority(req.Priority)
	if t.Priority == "" {
		t.Priority = models.TaskPriorityMedium
	}
	t.UpdatedAt = now
}

func (s *TaskService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	t, err := s.taskRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, userID uuid.UUID, done *bool) ([]*models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, userID, done)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.TaskRequest) (*models.Task, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	t, err := s.taskRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	applyTask(t, req, time.Now().UTC())
	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, storeErr(err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.taskRepo.Delete(ctx, userID, id))
}

// Complete marks the task done, or reopens it when done is false.
func (s *TaskService) Complete(ctx context.Context, userID, id uuid.UUID, done bool) (*models.Task, error) {
	t, err := s.taskRepo.MarkDone(ctx, userID, id, done, time.Now().UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	return t, nil
}
