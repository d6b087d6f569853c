package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskvision/internal/model"
)

// TaskRepository handles CRUD for tasks and generated instances.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return storageErr("create task", r.db.WithContext(ctx).Create(task).Error)
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, storageErr("get task", err)
	}
	return &task, nil
}

func (r *TaskRepository) ListByOwnerAndDate(ctx context.Context, ownerID string, date model.Date) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND date = ?", ownerID, date).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, storageErr("list tasks by date", err)
	}
	return tasks, nil
}

// ListParentsWithRepeatEnabled returns the owner's parent tasks whose
// recurrence rule is switched on. The enabled flag lives inside the
// JSON settings column, so rows are prefiltered in SQL and the flag is
// checked here.
func (r *TaskRepository) ListParentsWithRepeatEnabled(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND repeat_settings IS NOT NULL AND parent_task_id IS NULL", ownerID).
		Find(&tasks).Error; err != nil {
		return nil, storageErr("list repeating parents", err)
	}
	enabled := tasks[:0]
	for _, task := range tasks {
		if task.RepeatEnabled() {
			enabled = append(enabled, task)
		}
	}
	return enabled, nil
}

// ListWithReminderSettings returns the owner's tasks that carry any
// reminder configuration, for periodic rescheduling.
func (r *TaskRepository) ListWithReminderSettings(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND reminder_settings IS NOT NULL", ownerID).
		Find(&tasks).Error; err != nil {
		return nil, storageErr("list tasks with reminders", err)
	}
	withAny := tasks[:0]
	for _, task := range tasks {
		if task.ReminderSettings != nil && task.ReminderSettings.Any() {
			withAny = append(withAny, task)
		}
	}
	return withAny, nil
}

// InstanceExists reports whether an instance generated from the parent
// for the given original occurrence date is already persisted. This is
// the dedup key that keeps repeated expansion idempotent.
func (r *TaskRepository) InstanceExists(ctx context.Context, parentTaskID string, originalDate model.Date) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("parent_task_id = ? AND original_date = ?", parentTaskID, originalDate).
		Count(&count).Error; err != nil {
		return false, storageErr("check instance", err)
	}
	return count > 0, nil
}

// CreateInstance persists a generated instance.
func (r *TaskRepository) CreateInstance(ctx context.Context, instance *model.Task) error {
	return storageErr("create instance", r.db.WithContext(ctx).Create(instance).Error)
}

func (r *TaskRepository) MarkDone(ctx context.Context, task *model.Task, doneAt time.Time) error {
	task.Status = model.StatusDone
	task.UpdatedAt = doneAt
	return storageErr("complete task", r.db.WithContext(ctx).Save(task).Error)
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return storageErr("update task", r.db.WithContext(ctx).Save(task).Error)
}

// Delete removes a task for the given owner. Deleting a parent leaves
// already-generated instances in place; they live independently.
func (r *TaskRepository) Delete(ctx context.Context, ownerID, taskID string) error {
	return storageErr("delete task", r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, taskID).
		Delete(&model.Task{}).Error)
}
