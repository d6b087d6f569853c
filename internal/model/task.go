package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus is the completion state of a task.
type TaskStatus string

const (
	StatusOpen TaskStatus = "open"
	StatusDone TaskStatus = "done"
)

// Task represents a single item in the planner. A task is exactly one
// of: a parent (carries RepeatSettings, never ParentTaskID), an
// instance generated from a parent (carries ParentTaskID, never its
// own RepeatSettings), or a plain one-off task (neither).
type Task struct {
	ID               string            `gorm:"primaryKey" json:"id"`
	OwnerID          string            `gorm:"index" json:"ownerId"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	BlockID          *string           `gorm:"index" json:"blockId,omitempty"`
	Date             *Date             `json:"date,omitempty"`
	Status           TaskStatus        `gorm:"default:open" json:"status"`
	Deadline         *time.Time        `json:"deadline,omitempty"`
	ReminderSettings *ReminderSettings `gorm:"serializer:json" json:"reminderSettings,omitempty"`
	RepeatSettings   *RepeatSettings   `gorm:"serializer:json" json:"repeatSettings,omitempty"`
	ParentTaskID     *string           `gorm:"index:idx_task_parent_original,unique" json:"parentTaskId,omitempty"`
	OriginalDate     *Date             `gorm:"index:idx_task_parent_original,unique" json:"originalDate,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// BeforeCreate assigns an opaque identifier if none was provided.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Task) IsParent() bool {
	return t.RepeatSettings != nil && t.ParentTaskID == nil
}

func (t *Task) IsInstance() bool {
	return t.ParentTaskID != nil
}

// RepeatEnabled reports whether the task is a parent with an active
// recurrence rule.
func (t *Task) RepeatEnabled() bool {
	return t.IsParent() && t.RepeatSettings.Enabled
}

// Validate checks the parent/instance exclusivity rule and the embedded
// settings structures.
func (t *Task) Validate() error {
	if t.Title == "" {
		return configErr("title", "is required")
	}
	if t.RepeatSettings != nil && t.ParentTaskID != nil {
		return configErr("repeatSettings", "a generated instance cannot carry its own recurrence rule")
	}
	if t.ParentTaskID != nil && t.OriginalDate == nil {
		return configErr("originalDate", "is required on a generated instance")
	}
	if t.RepeatSettings != nil {
		if err := t.RepeatSettings.Validate(); err != nil {
			return err
		}
	}
	if t.ReminderSettings != nil {
		if err := t.ReminderSettings.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AnchorDate is the date recurrence expansion counts from: the task's
// own date when set, else the calendar date the task was created.
func (t *Task) AnchorDate() (Date, bool) {
	if t.Date != nil && !t.Date.IsZero() {
		return *t.Date, true
	}
	if !t.CreatedAt.IsZero() {
		return DateOf(t.CreatedAt), true
	}
	return Date{}, false
}
