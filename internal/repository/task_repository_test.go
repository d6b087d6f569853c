package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"taskvision/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A shared in-memory database exists per connection.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Block{}, &model.Task{}))
	return db
}

func seedParent(t *testing.T, repo *TaskRepository, ownerID string, enabled bool) *model.Task {
	t.Helper()
	d := model.NewDate(2025, 1, 1)
	parent := &model.Task{
		OwnerID: ownerID,
		Title:   "Water the plants",
		Date:    &d,
		RepeatSettings: &model.RepeatSettings{
			Enabled: enabled, Type: model.RepeatDaily, Frequency: 1, EndType: model.EndNever,
		},
	}
	require.NoError(t, repo.Create(context.Background(), parent))
	return parent
}

func TestTaskSettingsRoundTrip(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	end := model.NewDate(2025, 3, 1)
	newDate := model.NewDate(2025, 1, 6)
	d := model.NewDate(2025, 1, 1)
	deadline := time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC)

	task := &model.Task{
		OwnerID:  "owner-1",
		Title:    "Quarterly report",
		Date:     &d,
		Deadline: &deadline,
		RepeatSettings: &model.RepeatSettings{
			Enabled: true, Type: model.RepeatWeekly, DaysOfWeek: []int{1, 3, 5},
			EndType: model.EndOnDate, EndDate: &end,
			Exceptions: []model.RepeatException{
				{Date: model.NewDate(2025, 1, 3), Action: model.ExceptionReschedule, NewDate: &newDate},
			},
		},
		ReminderSettings: &model.ReminderSettings{
			EnableBlockStartReminder: true, BlockStartReminderMinutes: 10,
		},
	}
	require.NoError(t, repo.Create(ctx, task))
	require.NotEmpty(t, task.ID)

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RepeatSettings)
	assert.Equal(t, model.RepeatWeekly, got.RepeatSettings.Type)
	assert.Equal(t, []int{1, 3, 5}, got.RepeatSettings.DaysOfWeek)
	require.NotNil(t, got.RepeatSettings.EndDate)
	assert.Equal(t, "2025-03-01", got.RepeatSettings.EndDate.String())
	require.Len(t, got.RepeatSettings.Exceptions, 1)
	assert.Equal(t, "2025-01-06", got.RepeatSettings.Exceptions[0].NewDate.String())
	require.NotNil(t, got.ReminderSettings)
	assert.True(t, got.ReminderSettings.EnableBlockStartReminder)
	assert.Equal(t, "2025-01-01", got.Date.String())
}

func TestInstanceExistsDedupKey(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	parent := seedParent(t, repo, "owner-1", true)

	orig := model.NewDate(2025, 1, 2)
	instDate := orig
	inst := &model.Task{
		OwnerID:      "owner-1",
		Title:        parent.Title,
		Date:         &instDate,
		ParentTaskID: &parent.ID,
		OriginalDate: &orig,
	}
	require.NoError(t, repo.CreateInstance(ctx, inst))

	exists, err := repo.InstanceExists(ctx, parent.ID, orig)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.InstanceExists(ctx, parent.ID, model.NewDate(2025, 1, 3))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.InstanceExists(ctx, "other-parent", orig)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListParentsWithRepeatEnabled(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	enabled := seedParent(t, repo, "owner-1", true)
	seedParent(t, repo, "owner-1", false)
	require.NoError(t, repo.Create(ctx, &model.Task{OwnerID: "owner-1", Title: "plain task"}))
	seedParent(t, repo, "owner-2", true)

	parents, err := repo.ListParentsWithRepeatEnabled(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, enabled.ID, parents[0].ID)
}

func TestListWithReminderSettings(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	withReminders := &model.Task{
		OwnerID: "owner-1",
		Title:   "with reminders",
		ReminderSettings: &model.ReminderSettings{
			EnableDeadlineReminder: true, DeadlineReminderMinutes: 15,
		},
	}
	require.NoError(t, repo.Create(ctx, withReminders))

	allDisabled := &model.Task{
		OwnerID:          "owner-1",
		Title:            "settings present, all off",
		ReminderSettings: &model.ReminderSettings{},
	}
	require.NoError(t, repo.Create(ctx, allDisabled))
	require.NoError(t, repo.Create(ctx, &model.Task{OwnerID: "owner-1", Title: "no settings"}))

	tasks, err := repo.ListWithReminderSettings(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, withReminders.ID, tasks[0].ID)
}

func TestListByOwnerAndDate(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	d1 := model.NewDate(2025, 1, 2)
	d2 := model.NewDate(2025, 1, 3)
	require.NoError(t, repo.Create(ctx, &model.Task{OwnerID: "owner-1", Title: "a", Date: &d1}))
	require.NoError(t, repo.Create(ctx, &model.Task{OwnerID: "owner-1", Title: "b", Date: &d2}))
	require.NoError(t, repo.Create(ctx, &model.Task{OwnerID: "owner-2", Title: "c", Date: &d1}))

	tasks, err := repo.ListByOwnerAndDate(ctx, "owner-1", d1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a", tasks[0].Title)
}

func TestDeleteParentKeepsInstances(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	parent := seedParent(t, repo, "owner-1", true)
	orig := model.NewDate(2025, 1, 2)
	instDate := orig
	inst := &model.Task{
		OwnerID:      "owner-1",
		Title:        parent.Title,
		Date:         &instDate,
		ParentTaskID: &parent.ID,
		OriginalDate: &orig,
	}
	require.NoError(t, repo.CreateInstance(ctx, inst))

	require.NoError(t, repo.Delete(ctx, "owner-1", parent.ID))

	_, err := repo.GetByID(ctx, parent.ID)
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)

	kept, err := repo.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, *kept.ParentTaskID)
}

func TestBlockRepository(t *testing.T) {
	repo := NewBlockRepository(newTestDB(t))
	ctx := context.Background()

	morning := &model.Block{OwnerID: "owner-1", Name: "Morning", StartTime: "09:00", EndTime: "12:00", Order: 1}
	evening := &model.Block{OwnerID: "owner-1", Name: "Evening", StartTime: "18:00", EndTime: "21:00", Order: 2}
	require.NoError(t, repo.Create(ctx, evening))
	require.NoError(t, repo.Create(ctx, morning))

	var cfgErr *model.ConfigurationError
	err := repo.Create(ctx, &model.Block{OwnerID: "owner-1", Name: "Bad", StartTime: "25:00", EndTime: "26:00", Order: 3})
	require.ErrorAs(t, err, &cfgErr)

	blocks, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Morning", blocks[0].Name)
	assert.Equal(t, "Evening", blocks[1].Name)
}
