package services

import (
	"context"
	"testing"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/cheikhabdou2024/Dakar-cut/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardOverview(t *testing.T) {
	mem := store.NewMemoryStore(nil)
	ctx := context.Background()
	seedAppt := func(date, tm string, status models.AppointmentStatus, cost int64, duration int) {
		require.NoError(t, mem.Append(ctx, &models.Appointment{
			SalonID: "1", Date: date, Time: tm, Status: status, Cost: cost, Duration: duration,
		}))
	}

	seedAppt("2026-10-16", "14:00", models.StatusUpcoming, 5000, 30)
	seedAppt("2026-10-16", "09:00", models.StatusCompleted, 15000, 90)
	seedAppt("2026-10-16", "10:30", models.StatusCancelled, 20000, 240)
	seedAppt("2026-10-14", "09:00", models.StatusCompleted, 5000, 30)
	seedAppt("2026-10-01", "09:00", models.StatusCompleted, 12000, 120)
	require.NoError(t, mem.Append(ctx, &models.Appointment{SalonID: "2", Date: "2026-10-16", Time: "09:00", Status: models.StatusCompleted, Cost: 99999, Duration: 60}))

	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)
	overview, err := NewDashboardService(mem).Overview(ctx, "1", now)
	require.NoError(t, err)

	assert.Equal(t, "2026-10-16", overview.Date)
	assert.Equal(t, int64(15000), overview.TodayRevenue)
	assert.Equal(t, 2, overview.TodayBookings)
	assert.Equal(t, 3, overview.CompletedCount)
	assert.Equal(t, 80, overview.AverageServiceMinutes)

	require.Len(t, overview.TodaySchedule, 2)
	assert.Equal(t, "09:00", overview.TodaySchedule[0].Time)

	require.Len(t, overview.WeeklyRevenue, 7)
	assert.Equal(t, "2026-10-10", overview.WeeklyRevenue[0].Date)
	assert.Equal(t, DailyRevenue{Date: "2026-10-14", Revenue: 5000}, overview.WeeklyRevenue[4])
	assert.Equal(t, DailyRevenue{Date: "2026-10-16", Revenue: 15000}, overview.WeeklyRevenue[6])

	require.Len(t, overview.WeekSchedule, 6)
	assert.Equal(t, ScheduleDay{Date: "2026-10-12", Weekday: "Monday", Booked: []string{}}, overview.WeekSchedule[0])
	assert.Equal(t, []string{"09:00"}, overview.WeekSchedule[2].Booked)
	assert.Equal(t, ScheduleDay{Date: "2026-10-16", Weekday: "Friday", Booked: []string{"09:00", "14:00"}}, overview.WeekSchedule[4])
	assert.Equal(t, "Saturday", overview.WeekSchedule[5].Weekday)
}

func TestDashboardRoundsAverageServiceTime(t *testing.T) {
	mem := store.NewMemoryStore(nil)
	ctx := context.Background()
	for _, d := range []int{30, 30, 31} {
		require.NoError(t, mem.Append(ctx, &models.Appointment{SalonID: "1", Date: "2026-10-12", Time: "09:00", Status: models.StatusCompleted, Duration: d}))
	}
	require.NoError(t, mem.Append(ctx, &models.Appointment{SalonID: "1", Date: "2026-10-12", Time: "09:00", Status: models.StatusUpcoming, Duration: 30}))

	// A Sunday belongs to the week that started the Monday before.
	overview, err := NewDashboardService(mem).Overview(ctx, "1", time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 30, overview.AverageServiceMinutes)
	assert.Equal(t, "2026-10-12", overview.WeekSchedule[0].Date)
	assert.Equal(t, []string{"09:00"}, overview.WeekSchedule[0].Booked)

	require.NoError(t, mem.Append(ctx, &models.Appointment{SalonID: "1", Date: "2026-10-13", Time: "09:00", Status: models.StatusCompleted, Duration: 31}))
	overview, err = NewDashboardService(mem).Overview(ctx, "1", time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 31, overview.AverageServiceMinutes) // 30.5 rounds up
}

func TestDashboardOverviewEmpty(t *testing.T) {
	overview, err := NewDashboardService(store.NewMemoryStore(nil)).Overview(context.Background(), "1", time.Now())
	require.NoError(t, err)
	assert.Zero(t, overview.AverageServiceMinutes)
	assert.Empty(t, overview.TodaySchedule)
	assert.Len(t, overview.WeekSchedule, 6)
	assert.Len(t, overview.WeeklyRevenue, 7)
}
