package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestPunchRepository_CreateReturnsCopy(t *testing.T) {
	repo := NewPunchRepository()
	ctx := context.Background()

	punch := attendance.PunchEvent{
		ID:          "p-1",
		StaffID:     "staff-1",
		Type:        attendance.PunchIn,
		Timestamp:   testDay,
		Coordinates: &geo.Coordinate{Latitude: 1, Longitude: 2},
	}
	created, err := repo.Create(ctx, punch)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	created.Coordinates.Latitude = 50
	punch.Coordinates.Latitude = 60

	got, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Coordinates.Latitude)
}

func TestPunchRepository_ListByStaff(t *testing.T) {
	repo := NewPunchRepository()
	ctx := context.Background()

	for _, p := range []attendance.PunchEvent{
		{ID: "b", StaffID: "staff-1", Type: attendance.PunchOut, Timestamp: testDay.Add(17 * time.Hour)},
		{ID: "a", StaffID: "staff-1", Type: attendance.PunchIn, Timestamp: testDay.Add(9 * time.Hour)},
		{ID: "c", StaffID: "staff-1", Type: attendance.PunchIn, Timestamp: testDay.Add(24 * time.Hour)},
		{ID: "d", StaffID: "staff-2", Type: attendance.PunchIn, Timestamp: testDay.Add(9 * time.Hour)},
	} {
		_, err := repo.Create(ctx, p)
		require.NoError(t, err)
	}

	punches, err := repo.ListByStaff(ctx, "staff-1", testDay, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, punches, 2)
	assert.Equal(t, "a", punches[0].ID)
	assert.Equal(t, "b", punches[1].ID)

	staffIDs, err := repo.ListStaffIDs(ctx, testDay, testDay.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"staff-1", "staff-2"}, staffIDs)
}

func TestPunchRepository_Delete(t *testing.T) {
	repo := NewPunchRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, attendance.PunchEvent{ID: "p-1", StaffID: "staff-1", Type: attendance.PunchIn, Timestamp: testDay})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "p-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "p-1"), attendance.ErrPunchNotFound)

	_, err = repo.GetByID(ctx, "p-1")
	assert.ErrorIs(t, err, attendance.ErrPunchNotFound)
}

func TestPunchRepository_ConcurrentCreate(t *testing.T) {
	repo := NewPunchRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.Create(ctx, attendance.PunchEvent{
				ID:        time.Duration(i).String(),
				StaffID:   "staff-1",
				Type:      attendance.PunchIn,
				Timestamp: testDay.Add(time.Duration(i) * time.Minute),
			})
		}(i)
	}
	wg.Wait()

	punches, err := repo.ListByStaff(ctx, "staff-1", testDay, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, punches, 50)
}
