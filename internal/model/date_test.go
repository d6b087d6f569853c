package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", d.String())
	assert.Equal(t, time.Monday, d.Weekday())

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-02"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))
}

func TestDateAt(t *testing.T) {
	d := NewDate(2025, 6, 2)
	at := d.At(9, 30, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), at)
	assert.True(t, d.AddDays(1).After(d))
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	for _, bad := range []string{"9", "24:00", "12:60", "a:b", ""} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestTaskAnchorDate(t *testing.T) {
	d := NewDate(2025, 1, 10)
	withDate := Task{Date: &d}
	anchor, ok := withDate.AnchorDate()
	require.True(t, ok)
	assert.True(t, anchor.Equal(d))

	created := Task{CreatedAt: time.Date(2025, 2, 1, 15, 4, 0, 0, time.UTC)}
	anchor, ok = created.AnchorDate()
	require.True(t, ok)
	assert.Equal(t, "2025-02-01", anchor.String())

	var bare Task
	_, ok = bare.AnchorDate()
	assert.False(t, ok)
}
