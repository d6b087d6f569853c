package service

import (
	"context"
	"time"

	"taskvision/internal/model"
	"taskvision/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title            string
	Description      string
	BlockID          *string
	Date             *model.Date
	Deadline         *time.Time
	ReminderSettings *model.ReminderSettings
	RepeatSettings   *model.RepeatSettings
}

// TaskService wraps task lifecycle logic. Instances are created only
// by the recurrence engine; this service handles user-created tasks.
type TaskService struct {
	taskRepo  *repository.TaskRepository
	blockRepo *repository.BlockRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, blockRepo *repository.BlockRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, blockRepo: blockRepo}
}

// CreateTask validates input and persists a new parent or plain task.
// Settings are checked here so a malformed rule is rejected at save
// time instead of surfacing during expansion.
func (s *TaskService) CreateTask(ctx context.Context, owner *model.User, input TaskInput) (*model.Task, error) {
	task := model.Task{
		OwnerID:          owner.ID,
		Title:            input.Title,
		Description:      input.Description,
		BlockID:          input.BlockID,
		Date:             input.Date,
		Status:           model.StatusOpen,
		Deadline:         input.Deadline,
		ReminderSettings: input.ReminderSettings,
		RepeatSettings:   input.RepeatSettings,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if input.BlockID != nil {
		if _, err := s.blockRepo.GetByID(ctx, *input.BlockID); err != nil {
			return nil, err
		}
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

func (s *TaskService) ListByDate(ctx context.Context, owner *model.User, date model.Date) ([]model.Task, error) {
	return s.taskRepo.ListByOwnerAndDate(ctx, owner.ID, date)
}

// UpdateTask re-validates and saves. Callers changing reminder
// settings, block assignment or deadline must follow up with
// ReminderScheduler.RescheduleAll.
func (s *TaskService) UpdateTask(ctx context.Context, task *model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return s.taskRepo.Update(ctx, task)
}

// CompleteTask marks a task done. Completing an instance never touches
// its parent or sibling instances.
func (s *TaskService) CompleteTask(ctx context.Context, owner *model.User, taskID string, doneAt time.Time) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.MarkDone(ctx, task, doneAt); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task. Deleting a parent leaves already-generated
// instances untouched; they are independent once created.
func (s *TaskService) DeleteTask(ctx context.Context, owner *model.User, taskID string) error {
	return s.taskRepo.Delete(ctx, owner.ID, taskID)
}
