package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo attendance.PunchRepository, id, staffID string, typ attendance.PunchType, ts time.Time) {
	t.Helper()
	_, err := repo.Create(context.Background(), attendance.PunchEvent{ID: id, StaffID: staffID, Type: typ, Timestamp: ts})
	require.NoError(t, err)
}

func TestFindIncompleteDays(t *testing.T) {
	repo := memory.NewPunchRepository()
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	// staff-1 forgot to clock out yesterday
	seed(t, repo, "1", "staff-1", attendance.PunchIn, yesterday.Add(9*time.Hour))
	// staff-2 completed yesterday
	seed(t, repo, "2", "staff-2", attendance.PunchIn, yesterday.Add(9*time.Hour))
	seed(t, repo, "3", "staff-2", attendance.PunchOut, yesterday.Add(17*time.Hour))
	// staff-3 is still on shift today
	seed(t, repo, "4", "staff-3", attendance.PunchIn, now.Add(-time.Hour))
	// staff-4 left open outside the lookback window
	seed(t, repo, "5", "staff-4", attendance.PunchIn, yesterday.AddDate(0, 0, -5))

	jobs := NewAttendanceJobs(repo, attendance.NewReconstructor(attendance.DefaultOvertimeRule(), time.UTC), time.UTC, 2)
	jobs.now = func() time.Time { return now }

	days, err := jobs.FindIncompleteDays(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "staff-1", days[0].StaffID)
	assert.Equal(t, yesterday, days[0].Date)

	assert.NoError(t, jobs.FlagIncompleteDays(context.Background()))
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()

	var calls []string
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "ok")
		return nil
	})
	s.AddJob("fails", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "fails")
		return errors.New("boom")
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fails: boom")
	assert.Equal(t, []string{"ok", "fails"}, calls)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()

	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
