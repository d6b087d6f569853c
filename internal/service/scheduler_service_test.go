package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleDailyValidatesTime(t *testing.T) {
	s := NewSchedulerService(time.UTC, testLogger())

	_, err := s.ScheduleDaily("07:30", "ok", func() {})
	assert.NoError(t, err)

	for _, bad := range []string{"7", "24:00", "12:60", ""} {
		_, err := s.ScheduleDaily(bad, "bad", func() {})
		assert.Error(t, err, bad)
	}
}

func TestScheduleIntervalValidatesDuration(t *testing.T) {
	s := NewSchedulerService(time.UTC, testLogger())

	_, err := s.ScheduleInterval(0, "bad", func() {})
	require.Error(t, err)
	_, err = s.ScheduleInterval(100*time.Millisecond, "bad", func() {})
	require.Error(t, err)

	_, err = s.ScheduleInterval(15*time.Minute, "ok", func() {})
	assert.NoError(t, err)
}

func TestScheduleIntervalRuns(t *testing.T) {
	s := NewSchedulerService(time.UTC, testLogger())
	ran := make(chan struct{}, 1)

	_, err := s.ScheduleInterval(time.Second, "tick", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("interval job did not run")
	}
}
