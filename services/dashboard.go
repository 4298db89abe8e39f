package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/cheikhabdou2024/Dakar-cut/store"
	"github.com/cheikhabdou2024/Dakar-cut/utils"
)

type DashboardOverview struct {
	Date                  string               `json:"date"`
	TodayRevenue          int64                `json:"todayRevenue"`
	TodayBookings         int                  `json:"todayBookings"`
	CompletedCount        int                  `json:"completedCount"`
	AverageServiceMinutes int                  `json:"averageServiceMinutes"`
	TodaySchedule         []models.Appointment `json:"todaySchedule"`
	WeeklyRevenue         []DailyRevenue       `json:"weeklyRevenue"`
	WeekSchedule          []ScheduleDay        `json:"weekSchedule"`
}

// ScheduleDay lists the booked start times of one working day, Monday to
// Saturday of the current week.
type ScheduleDay struct {
	Date    string   `json:"date"`
	Weekday string   `json:"weekday"`
	Booked  []string `json:"booked"`
}

const workingDays = 6

type DailyRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

type DashboardService struct {
	appointments store.AppointmentStore
}

func NewDashboardService(appointments store.AppointmentStore) *DashboardService {
	return &DashboardService{appointments: appointments}
}

// Overview summarizes a salon's bookings as of now. Revenue only counts
// completed appointments; bookings count everything not cancelled.
func (s *DashboardService) Overview(ctx context.Context, salonID string, now time.Time) (DashboardOverview, error) {
	appts, err := s.appointments.ListBySalon(ctx, salonID)
	if err != nil {
		return DashboardOverview{}, &StorageError{Op: "list appointments", Err: err}
	}

	today := utils.BeginningOfDay(now)
	overview := DashboardOverview{
		Date:          today.Format(models.DateLayout),
		TodaySchedule: []models.Appointment{},
	}

	weekly := make(map[string]int64, 7)
	for i := 6; i >= 0; i-- {
		weekly[today.AddDate(0, 0, -i).Format(models.DateLayout)] = 0
	}

	monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	overview.WeekSchedule = make([]ScheduleDay, 0, workingDays)
	week := make(map[string]int, workingDays)
	for i := 0; i < workingDays; i++ {
		day := monday.AddDate(0, 0, i)
		week[day.Format(models.DateLayout)] = i
		overview.WeekSchedule = append(overview.WeekSchedule, ScheduleDay{
			Date:    day.Format(models.DateLayout),
			Weekday: day.Weekday().String(),
			Booked:  []string{},
		})
	}

	var completedMinutes int
	for _, a := range appts {
		if i, ok := week[a.Date]; ok && a.Status != models.StatusCancelled {
			overview.WeekSchedule[i].Booked = append(overview.WeekSchedule[i].Booked, a.Time)
		}
		if a.Status == models.StatusCompleted {
			overview.CompletedCount++
			completedMinutes += a.Duration
			if _, ok := weekly[a.Date]; ok {
				weekly[a.Date] += a.Cost
			}
		}
		if a.Date != overview.Date {
			continue
		}
		if a.Status != models.StatusCancelled {
			overview.TodayBookings++
			overview.TodaySchedule = append(overview.TodaySchedule, a)
		}
		if a.Status == models.StatusCompleted {
			overview.TodayRevenue += a.Cost
		}
	}
	if overview.CompletedCount > 0 {
		overview.AverageServiceMinutes = int(math.Round(float64(completedMinutes) / float64(overview.CompletedCount)))
	}
	for i := range overview.WeekSchedule {
		overview.WeekSchedule[i].Booked = uniqueSorted(overview.WeekSchedule[i].Booked)
	}

	sort.SliceStable(overview.TodaySchedule, func(i, j int) bool {
		return overview.TodaySchedule[i].Time < overview.TodaySchedule[j].Time
	})
	for i := 6; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format(models.DateLayout)
		overview.WeeklyRevenue = append(overview.WeeklyRevenue, DailyRevenue{Date: key, Revenue: weekly[key]})
	}
	return overview, nil
}

func uniqueSorted(times []string) []string {
	sort.Strings(times)
	out := times[:0]
	for _, t := range times {
		if len(out) == 0 || t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}
