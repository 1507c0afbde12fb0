// Package memory holds a process-local punch store for development and tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type PunchRepository struct {
	mu      sync.RWMutex
	punches []attendance.PunchEvent
	now     func() time.Time
}

func NewPunchRepository() *PunchRepository {
	return &PunchRepository{now: time.Now}
}

var _ attendance.PunchRepository = (*PunchRepository)(nil)

func (r *PunchRepository) Create(ctx context.Context, punch attendance.PunchEvent) (attendance.PunchEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	punch.CreatedAt = r.now().UTC()
	r.punches = append(r.punches, clonePunch(punch))
	return clonePunch(punch), nil
}

func (r *PunchRepository) GetByID(ctx context.Context, id string) (attendance.PunchEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.punches {
		if p.ID == id {
			return clonePunch(p), nil
		}
	}
	return attendance.PunchEvent{}, attendance.ErrPunchNotFound
}

func (r *PunchRepository) ListByStaff(ctx context.Context, staffID string, from, to time.Time) ([]attendance.PunchEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]attendance.PunchEvent, 0)
	for _, p := range r.punches {
		if p.StaffID == staffID && inWindow(p.Timestamp, from, to) {
			out = append(out, clonePunch(p))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PunchRepository) ListStaffIDs(ctx context.Context, from, to time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, p := range r.punches {
		if inWindow(p.Timestamp, from, to) && !slices.Contains(out, p.StaffID) {
			out = append(out, p.StaffID)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (r *PunchRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.punches {
		if p.ID == id {
			r.punches = slices.Delete(r.punches, i, i+1)
			return nil
		}
	}
	return attendance.ErrPunchNotFound
}

func inWindow(ts, from, to time.Time) bool {
	return !ts.Before(from) && ts.Before(to)
}

// clonePunch copies the pointer fields so callers cannot mutate stored events.
func clonePunch(p attendance.PunchEvent) attendance.PunchEvent {
	if p.Coordinates != nil {
		c := *p.Coordinates
		p.Coordinates = &c
	}
	if p.DistanceMeters != nil {
		d := *p.DistanceMeters
		p.DistanceMeters = &d
	}
	return p
}
