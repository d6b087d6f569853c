package model

import "time"

// ReminderKind identifies which instant a reminder is anchored to.
type ReminderKind string

const (
	ReminderBlockStart   ReminderKind = "block_start"
	ReminderBlockEnd     ReminderKind = "block_end"
	ReminderTaskDeadline ReminderKind = "task_deadline"
)

// ReminderSettings enables up to three independent reminders on a
// task, each with its own lead time in minutes.
type ReminderSettings struct {
	EnableBlockStartReminder  bool `json:"enableBlockStartReminder"`
	BlockStartReminderMinutes int  `json:"blockStartReminderMinutes"`
	EnableBlockEndReminder    bool `json:"enableBlockEndReminder"`
	BlockEndReminderMinutes   int  `json:"blockEndReminderMinutes"`
	EnableDeadlineReminder    bool `json:"enableDeadlineReminder"`
	DeadlineReminderMinutes   int  `json:"deadlineReminderMinutes"`
}

// Validate rejects negative lead times.
func (s *ReminderSettings) Validate() error {
	if s.BlockStartReminderMinutes < 0 {
		return configErr("blockStartReminderMinutes", "must not be negative")
	}
	if s.BlockEndReminderMinutes < 0 {
		return configErr("blockEndReminderMinutes", "must not be negative")
	}
	if s.DeadlineReminderMinutes < 0 {
		return configErr("deadlineReminderMinutes", "must not be negative")
	}
	return nil
}

// Any reports whether at least one reminder kind is enabled.
func (s *ReminderSettings) Any() bool {
	return s.EnableBlockStartReminder || s.EnableBlockEndReminder || s.EnableDeadlineReminder
}

// Reminder is a derived, unpersisted notification: recomputation fully
// replaces any previously derived set for the same task.
type Reminder struct {
	TaskID  string
	Kind    ReminderKind
	FireAt  time.Time
	Message string
	BlockID string // set for block_start and block_end
}

// Tag identifies the reminder for the notification sink so duplicate
// deliveries can be collapsed by its presentation layer.
func (r Reminder) Tag() string {
	return r.TaskID + ":" + string(r.Kind)
}
