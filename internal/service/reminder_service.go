package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskvision/internal/logger"
	"taskvision/internal/model"
	"taskvision/internal/repository"
)

// NotifyFunc delivers a single reminder. Failures belong to the sink;
// the scheduler never retries on its own.
type NotifyFunc func(reminder model.Reminder)

// ReminderHandle cancels one scheduled reminder. Cancel is safe to
// call repeatedly and after the timer has already fired.
type ReminderHandle struct {
	once  sync.Once
	timer *time.Timer
}

func (h *ReminderHandle) Cancel() {
	h.once.Do(func() {
		if h.timer != nil {
			h.timer.Stop()
		}
	})
}

// ReminderScheduler computes reminder fire times for tasks and owns
// the registry of live timers, keyed by task ID, so lifecycle events
// have a single teardown point.
type ReminderScheduler struct {
	taskRepo  *repository.TaskRepository
	blockRepo *repository.BlockRepository
	log       *logger.Logger
	loc       *time.Location
	now       func() time.Time

	mu      sync.Mutex
	handles map[string][]*ReminderHandle
}

func NewReminderScheduler(taskRepo *repository.TaskRepository, blockRepo *repository.BlockRepository, log *logger.Logger, loc *time.Location) *ReminderScheduler {
	return &ReminderScheduler{
		taskRepo:  taskRepo,
		blockRepo: blockRepo,
		log:       log.WithComponent("reminders"),
		loc:       loc,
		now:       time.Now,
		handles:   make(map[string][]*ReminderHandle),
	}
}

// ComputeFireTimes derives the reminders of a task from its settings
// and, for block reminders, the resolved block. Each rule is
// independent; reminders whose fire time is not strictly in the future
// of now are dropped, never fired late. A deadline reminder with no
// deadline set is simply absent.
func (s *ReminderScheduler) ComputeFireTimes(task *model.Task, block *model.Block, now time.Time) []model.Reminder {
	if task.ReminderSettings == nil {
		return nil
	}
	settings := task.ReminderSettings
	var reminders []model.Reminder

	if block != nil && task.Date != nil && !task.Date.IsZero() {
		if settings.EnableBlockStartReminder {
			if ref, err := block.StartOn(*task.Date, s.loc); err == nil {
				fireAt := ref.Add(-time.Duration(settings.BlockStartReminderMinutes) * time.Minute)
				if fireAt.After(now) {
					reminders = append(reminders, model.Reminder{
						TaskID:  task.ID,
						Kind:    model.ReminderBlockStart,
						FireAt:  fireAt,
						Message: fmt.Sprintf("%s: %s starts at %s", task.Title, block.Name, ref.Format("15:04")),
						BlockID: block.ID,
					})
				}
			}
		}
		if settings.EnableBlockEndReminder {
			if ref, err := block.EndOn(*task.Date, s.loc); err == nil {
				fireAt := ref.Add(-time.Duration(settings.BlockEndReminderMinutes) * time.Minute)
				if fireAt.After(now) {
					reminders = append(reminders, model.Reminder{
						TaskID:  task.ID,
						Kind:    model.ReminderBlockEnd,
						FireAt:  fireAt,
						Message: fmt.Sprintf("%s: %s ends at %s", task.Title, block.Name, ref.Format("15:04")),
						BlockID: block.ID,
					})
				}
			}
		}
	}

	if settings.EnableDeadlineReminder && task.Deadline != nil {
		deadline := task.Deadline.In(s.loc)
		fireAt := deadline.Add(-time.Duration(settings.DeadlineReminderMinutes) * time.Minute)
		if fireAt.After(now) {
			reminders = append(reminders, model.Reminder{
				TaskID:  task.ID,
				Kind:    model.ReminderTaskDeadline,
				FireAt:  fireAt,
				Message: fmt.Sprintf("%s is due at %s", task.Title, deadline.Format("15:04, Jan 2")),
			})
		}
	}

	return reminders
}

// Schedule starts a single-shot timer for the reminder. A reminder
// whose fire time has already passed yields an inert handle and never
// fires.
func (s *ReminderScheduler) Schedule(reminder model.Reminder, notify NotifyFunc) *ReminderHandle {
	delay := reminder.FireAt.Sub(s.now())
	if delay <= 0 {
		return &ReminderHandle{}
	}
	return &ReminderHandle{
		timer: time.AfterFunc(delay, func() {
			notify(reminder)
		}),
	}
}

// RescheduleAll cancels any timers tracked for the task, recomputes
// its reminders and schedules the fresh set. Call it whenever reminder
// settings, block assignment or deadline change. Tracked timers remove
// themselves from the registry once they fire, so dead handles do not
// pile up between periodic checks.
func (s *ReminderScheduler) RescheduleAll(task *model.Task, block *model.Block, notify NotifyFunc) []*ReminderHandle {
	s.CancelAll(task.ID)

	now := s.now()
	reminders := s.ComputeFireTimes(task, block, now)
	handles := make([]*ReminderHandle, 0, len(reminders))

	// Register under the lock: a timer firing mid-loop blocks in
	// forget until its handle is actually in the registry.
	s.mu.Lock()
	for _, reminder := range reminders {
		h := &ReminderHandle{}
		handles = append(handles, h)
		delay := reminder.FireAt.Sub(now)
		if delay <= 0 {
			continue
		}
		h.timer = time.AfterFunc(delay, func() {
			notify(reminder)
			s.forget(task.ID, h)
		})
	}
	if len(handles) > 0 {
		s.handles[task.ID] = handles
	}
	s.mu.Unlock()
	return handles
}

// forget drops one fired handle from the task's tracked set.
func (s *ReminderScheduler) forget(taskID string, handle *ReminderHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tracked := s.handles[taskID]
	live := tracked[:0]
	for _, h := range tracked {
		if h != handle {
			live = append(live, h)
		}
	}
	if len(live) == 0 {
		delete(s.handles, taskID)
	} else {
		s.handles[taskID] = live
	}
}

// CancelAll cancels and forgets every timer tracked for the task.
func (s *ReminderScheduler) CancelAll(taskID string) {
	s.mu.Lock()
	handles := s.handles[taskID]
	delete(s.handles, taskID)
	s.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
}

// Shutdown cancels every tracked timer. The single teardown point for
// app stop or owner logout.
func (s *ReminderScheduler) Shutdown() {
	s.mu.Lock()
	all := s.handles
	s.handles = make(map[string][]*ReminderHandle)
	s.mu.Unlock()

	for _, handles := range all {
		for _, h := range handles {
			h.Cancel()
		}
	}
}

// PeriodicCheck re-derives and reschedules reminders for all of the
// owner's tasks that carry reminder settings, recovering from missed
// wall-clock ticks. Delivery is at-least-once: the sink must tolerate
// duplicates. Per-task failures are logged and joined; the loop
// continues.
func (s *ReminderScheduler) PeriodicCheck(ctx context.Context, ownerID string, notify NotifyFunc) error {
	tasks, err := s.taskRepo.ListWithReminderSettings(ctx, ownerID)
	if err != nil {
		return err
	}

	var errs []error
	for i := range tasks {
		task := &tasks[i]
		var block *model.Block
		if task.BlockID != nil {
			block, err = s.blockRepo.GetByID(ctx, *task.BlockID)
			if err != nil {
				s.log.Error("resolve block for reminders",
					"task_id", task.ID, "block_id", *task.BlockID, "error", err)
				errs = append(errs, fmt.Errorf("task %s: %w", task.ID, err))
				continue
			}
		}
		s.RescheduleAll(task, block, notify)
	}
	return errors.Join(errs...)
}
