package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// IncompleteDay is a past day with a clock-in but no clock-out.
type IncompleteDay struct {
	StaffID string
	Date    time.Time
	ClockIn time.Time
}

type AttendanceJobs struct {
	punchRepo     attendance.PunchRepository
	reconstructor *attendance.Reconstructor
	location      *time.Location
	lookbackDays  int
	now           func() time.Time
}

func NewAttendanceJobs(
	punchRepo attendance.PunchRepository,
	reconstructor *attendance.Reconstructor,
	location *time.Location,
	lookbackDays int,
) *AttendanceJobs {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceJobs{
		punchRepo:     punchRepo,
		reconstructor: reconstructor,
		location:      location,
		lookbackDays:  max(1, lookbackDays),
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("flag_incomplete_days", interval, j.FlagIncompleteDays)
}

// FlagIncompleteDays logs past days left open by a missing clock-out. It
// never modifies punches.
func (j *AttendanceJobs) FlagIncompleteDays(ctx context.Context) error {
	days, err := j.FindIncompleteDays(ctx)
	if err != nil {
		return err
	}

	for _, d := range days {
		slog.Warn("Cron: incomplete attendance day",
			"staff_id", d.StaffID,
			"date", d.Date.Format("2006-01-02"),
			"clock_in", d.ClockIn.Format(time.RFC3339),
		)
	}

	slog.Info("Cron: incomplete day scan finished", "lookback_days", j.lookbackDays, "flagged", len(days))
	return nil
}

// FindIncompleteDays scans the lookback window, which ends at the start of
// today in the venue location. Today is skipped because shifts may still be open.
func (j *AttendanceJobs) FindIncompleteDays(ctx context.Context) ([]IncompleteDay, error) {
	nowLocal := j.now().In(j.location)
	to := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, j.location)
	from := to.AddDate(0, 0, -j.lookbackDays)

	staffIDs, err := j.punchRepo.ListStaffIDs(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff with punches: %w", err)
	}

	var result []IncompleteDay
	for _, staffID := range staffIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		punches, err := j.punchRepo.ListByStaff(ctx, staffID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to list punches for %s: %w", staffID, err)
		}

		for _, day := range j.reconstructor.Reconstruct(punches) {
			if day.InProgress() {
				result = append(result, IncompleteDay{
					StaffID: staffID,
					Date:    day.Date,
					ClockIn: *day.ClockIn,
				})
			}
		}
	}

	return result, nil
}
