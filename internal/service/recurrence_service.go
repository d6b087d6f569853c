package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/teambition/rrule-go"

	"taskvision/internal/logger"
	"taskvision/internal/model"
	"taskvision/internal/repository"
)

// DefaultCatchUpWindowDays is how far ahead the daily catch-up pass
// materializes instances.
const DefaultCatchUpWindowDays = 14

// RecurrenceEngine expands a parent task's recurrence rule into
// concrete task instances. Expand is pure; CatchUp persists.
type RecurrenceEngine struct {
	taskRepo   *repository.TaskRepository
	log        *logger.Logger
	windowDays int
}

// NewRecurrenceEngine builds an engine; windowDays <= 0 falls back to
// the default catch-up window.
func NewRecurrenceEngine(taskRepo *repository.TaskRepository, log *logger.Logger, windowDays int) *RecurrenceEngine {
	if windowDays <= 0 {
		windowDays = DefaultCatchUpWindowDays
	}
	return &RecurrenceEngine{
		taskRepo:   taskRepo,
		log:        log.WithComponent("recurrence"),
		windowDays: windowDays,
	}
}

// index 0 = Sunday, matching the persisted daysOfWeek contract.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// Expand enumerates the occurrences of the parent's recurrence rule
// whose effective date falls within [windowStart, windowEnd] and
// materializes each as an unsaved instance. Exceptions are applied
// per occurrence: skip removes it, reschedule substitutes the new
// date (and block) while preserving the original date for dedup.
//
// Expand is stateless: it always returns the full candidate set for
// the window. Deduplication against already-persisted instances is the
// caller's job, keyed on (parentTaskId, originalDate).
func (e *RecurrenceEngine) Expand(parent *model.Task, windowStart, windowEnd model.Date) ([]model.Task, error) {
	if !parent.RepeatEnabled() {
		return nil, &model.ConfigurationError{Field: "repeatSettings", Reason: "recurrence is not enabled"}
	}
	settings := parent.RepeatSettings
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if windowEnd.Before(windowStart) {
		return nil, &model.ConfigurationError{
			Field:  "window",
			Reason: fmt.Sprintf("start %s is after end %s", windowStart, windowEnd),
		}
	}
	anchor, ok := parent.AnchorDate()
	if !ok {
		return nil, &model.ConfigurationError{Field: "date", Reason: "no anchor date: task has neither a date nor a creation time"}
	}

	rule, err := buildRule(settings, anchor)
	if err != nil {
		return nil, err
	}

	// Candidates start at the later of anchor and windowStart; the
	// rule itself enforces occurrence counts and the end date, counted
	// from the anchor so window slicing cannot shift them.
	lower := anchor
	if windowStart.After(lower) {
		lower = windowStart
	}

	var instances []model.Task
	for _, candidate := range rule.Between(lower.UTC(), windowEnd.UTC(), true) {
		originalDate := model.DateOf(candidate)
		effectiveDate := originalDate
		blockID := parent.BlockID

		if ex, found := settings.ExceptionFor(originalDate); found {
			if ex.Action == model.ExceptionSkip {
				continue
			}
			effectiveDate = *ex.NewDate
			if ex.NewBlockID != nil {
				blockID = ex.NewBlockID
			}
		}

		if effectiveDate.Before(windowStart) || effectiveDate.After(windowEnd) {
			continue
		}

		instances = append(instances, newInstance(parent, blockID, effectiveDate, originalDate))
	}
	return instances, nil
}

func newInstance(parent *model.Task, blockID *string, effectiveDate, originalDate model.Date) model.Task {
	inst := model.Task{
		OwnerID:      parent.OwnerID,
		Title:        parent.Title,
		Description:  parent.Description,
		Status:       model.StatusOpen,
		ParentTaskID: &parent.ID,
	}
	date := effectiveDate
	inst.Date = &date
	original := originalDate
	inst.OriginalDate = &original
	if blockID != nil {
		id := *blockID
		inst.BlockID = &id
	}
	if parent.ReminderSettings != nil {
		settings := *parent.ReminderSettings
		inst.ReminderSettings = &settings
	}
	return inst
}

func buildRule(s *model.RepeatSettings, anchor model.Date) (*rrule.RRule, error) {
	opt := rrule.ROption{Dtstart: anchor.UTC()}

	switch s.Type {
	case model.RepeatDaily, model.RepeatCustom:
		opt.Freq = rrule.DAILY
		opt.Interval = s.Frequency
	case model.RepeatWeekdays:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
	case model.RepeatWeekly:
		// Weekly is a fixed one-week cadence; frequency is not consulted.
		opt.Freq = rrule.WEEKLY
		for _, d := range s.DaysOfWeek {
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[d])
		}
	case model.RepeatMonthly:
		// Months shorter than dayOfMonth contribute no occurrence.
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{s.DayOfMonth}
	}

	switch s.EndType {
	case model.EndAfter:
		opt.Count = s.Occurrences
	case model.EndOnDate:
		opt.Until = s.EndDate.UTC()
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, &model.ConfigurationError{Field: "repeatSettings", Reason: fmt.Sprintf("build rule: %v", err)}
	}
	return rule, nil
}

// CatchUp expands every repeat-enabled parent owned by ownerID over a
// fixed forward window from asOf and persists instances that do not
// exist yet. One parent failing does not stop the others; all failures
// are joined into the returned error.
func (e *RecurrenceEngine) CatchUp(ctx context.Context, ownerID string, asOf model.Date) error {
	windowEnd := asOf.AddDays(e.windowDays)

	parents, err := e.taskRepo.ListParentsWithRepeatEnabled(ctx, ownerID)
	if err != nil {
		return err
	}

	var errs []error
	for i := range parents {
		parent := &parents[i]
		if err := e.catchUpParent(ctx, parent, asOf, windowEnd); err != nil {
			e.log.Error("catch-up failed for task",
				"task_id", parent.ID, "owner_id", ownerID, "error", err)
			errs = append(errs, fmt.Errorf("task %s: %w", parent.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (e *RecurrenceEngine) catchUpParent(ctx context.Context, parent *model.Task, windowStart, windowEnd model.Date) error {
	instances, err := e.Expand(parent, windowStart, windowEnd)
	if err != nil {
		return err
	}
	for i := range instances {
		inst := &instances[i]
		exists, err := e.taskRepo.InstanceExists(ctx, parent.ID, *inst.OriginalDate)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := e.taskRepo.CreateInstance(ctx, inst); err != nil {
			return err
		}
		e.log.Debug("generated instance",
			"task_id", parent.ID, "date", inst.Date.String(), "original_date", inst.OriginalDate.String())
	}
	return nil
}
