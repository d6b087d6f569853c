package model

// RepeatType selects the recurrence rule family.
type RepeatType string

const (
	RepeatDaily    RepeatType = "daily"
	RepeatWeekdays RepeatType = "weekdays"
	RepeatWeekly   RepeatType = "weekly"
	RepeatMonthly  RepeatType = "monthly"
	RepeatCustom   RepeatType = "custom"
)

// RepeatEndType selects how a recurrence rule terminates.
type RepeatEndType string

const (
	EndNever  RepeatEndType = "never"
	EndAfter  RepeatEndType = "after"
	EndOnDate RepeatEndType = "on_date"
)

// ExceptionAction is the per-date override applied during expansion.
type ExceptionAction string

const (
	ExceptionSkip       ExceptionAction = "skip"
	ExceptionReschedule ExceptionAction = "reschedule"
)

// RepeatException overrides a single occurrence of a recurrence rule,
// keyed by the originally-scheduled date.
type RepeatException struct {
	Date       Date            `json:"date"`
	Action     ExceptionAction `json:"action"`
	NewDate    *Date           `json:"newDate,omitempty"`
	NewBlockID *string         `json:"newBlockId,omitempty"`
}

// RepeatSettings describes a parent task's recurrence rule. Field
// names and enum values are the serialization contract shared with
// other clients reading the same records.
type RepeatSettings struct {
	Enabled     bool              `json:"enabled"`
	Type        RepeatType        `json:"type"`
	Frequency   int               `json:"frequency,omitempty"`
	DaysOfWeek  []int             `json:"daysOfWeek,omitempty"` // 0 = Sunday
	DayOfMonth  int               `json:"dayOfMonth,omitempty"`
	EndType     RepeatEndType     `json:"endType"`
	Occurrences int               `json:"occurrences,omitempty"`
	EndDate     *Date             `json:"endDate,omitempty"`
	Exceptions  []RepeatException `json:"exceptions,omitempty"`
}

// Validate checks the per-type and per-end-type required fields so a
// bad rule is rejected when it is saved rather than when it expands.
func (s *RepeatSettings) Validate() error {
	switch s.Type {
	case RepeatDaily, RepeatCustom:
		if s.Frequency < 1 {
			return configErr("frequency", "must be a positive number of days for %s repeat", s.Type)
		}
	case RepeatWeekdays:
		// No extra fields; frequency is ignored.
	case RepeatWeekly:
		if len(s.DaysOfWeek) == 0 {
			return configErr("daysOfWeek", "must not be empty for weekly repeat")
		}
		seen := map[int]bool{}
		for _, d := range s.DaysOfWeek {
			if d < 0 || d > 6 {
				return configErr("daysOfWeek", "weekday index %d out of range 0-6", d)
			}
			if seen[d] {
				return configErr("daysOfWeek", "duplicate weekday index %d", d)
			}
			seen[d] = true
		}
	case RepeatMonthly:
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return configErr("dayOfMonth", "must be 1-31, got %d", s.DayOfMonth)
		}
	default:
		return configErr("type", "unknown repeat type %q", s.Type)
	}

	switch s.EndType {
	case EndNever:
	case EndAfter:
		if s.Occurrences < 1 {
			return configErr("occurrences", "must be positive when endType is %q", EndAfter)
		}
	case EndOnDate:
		if s.EndDate == nil || s.EndDate.IsZero() {
			return configErr("endDate", "is required when endType is %q", EndOnDate)
		}
	default:
		return configErr("endType", "unknown end type %q", s.EndType)
	}

	seen := map[string]bool{}
	for _, ex := range s.Exceptions {
		if ex.Date.IsZero() {
			return configErr("exceptions", "exception date is required")
		}
		key := ex.Date.String()
		if seen[key] {
			return configErr("exceptions", "duplicate exception for %s", key)
		}
		seen[key] = true
		switch ex.Action {
		case ExceptionSkip:
		case ExceptionReschedule:
			if ex.NewDate == nil || ex.NewDate.IsZero() {
				return configErr("exceptions", "reschedule for %s needs a newDate", key)
			}
		default:
			return configErr("exceptions", "unknown action %q for %s", ex.Action, key)
		}
	}
	return nil
}

// ExceptionFor returns the exception keyed on the given occurrence
// date, if any.
func (s *RepeatSettings) ExceptionFor(date Date) (RepeatException, bool) {
	for _, ex := range s.Exceptions {
		if ex.Date.Equal(date) {
			return ex, true
		}
	}
	return RepeatException{}, false
}
