package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
)

// Times are stored as unix milliseconds in UTC.
type punchRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPunchRepository(db *sql.DB) attendance.PunchRepository {
	return &punchRepository{db: db, now: time.Now}
}

const punchColumns = `
	id, staff_id, punch_type, punched_at_ms,
	latitude, longitude, is_within_geofence, distance_meters,
	created_at_ms
`

type scanner interface {
	Scan(dest ...any) error
}

func scanPunch(row scanner) (attendance.PunchEvent, error) {
	var (
		p                      attendance.PunchEvent
		punchType              string
		punchedAtMs, createdMs int64
		lat, lon, distance     sql.NullFloat64
		within                 int64
	)

	err := row.Scan(
		&p.ID, &p.StaffID, &punchType, &punchedAtMs,
		&lat, &lon, &within, &distance,
		&createdMs,
	)
	if err != nil {
		return attendance.PunchEvent{}, err
	}

	p.Type, err = attendance.ParsePunchType(punchType)
	if err != nil {
		return attendance.PunchEvent{}, fmt.Errorf("punch %s: %w", p.ID, err)
	}

	p.Timestamp = time.UnixMilli(punchedAtMs).UTC()
	p.CreatedAt = time.UnixMilli(createdMs).UTC()
	p.IsWithinGeofence = within != 0

	if lat.Valid && lon.Valid {
		p.Coordinates = &geo.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if distance.Valid {
		d := distance.Float64
		p.DistanceMeters = &d
	}

	return p, nil
}

func (r *punchRepository) Create(ctx context.Context, punch attendance.PunchEvent) (attendance.PunchEvent, error) {
	var lat, lon, distance sql.NullFloat64
	if punch.Coordinates != nil {
		lat = sql.NullFloat64{Float64: punch.Coordinates.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: punch.Coordinates.Longitude, Valid: true}
	}
	if punch.DistanceMeters != nil {
		distance = sql.NullFloat64{Float64: *punch.DistanceMeters, Valid: true}
	}

	within := 0
	if punch.IsWithinGeofence {
		within = 1
	}

	createdAt := r.now().UTC().Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO punch_events (
			id, staff_id, punch_type, punched_at_ms,
			latitude, longitude, is_within_geofence, distance_meters,
			created_at_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		punch.ID,
		punch.StaffID,
		string(punch.Type),
		punch.Timestamp.UnixMilli(),
		lat,
		lon,
		within,
		distance,
		createdAt.UnixMilli(),
	)
	if err != nil {
		return attendance.PunchEvent{}, fmt.Errorf("failed to create punch event: %w", err)
	}

	punch.CreatedAt = createdAt
	return punch, nil
}

func (r *punchRepository) GetByID(ctx context.Context, id string) (attendance.PunchEvent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+punchColumns+` FROM punch_events WHERE id = ?`, id)

	punch, err := scanPunch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.PunchEvent{}, attendance.ErrPunchNotFound
		}
		return attendance.PunchEvent{}, fmt.Errorf("failed to get punch event by ID: %w", err)
	}

	return punch, nil
}

func (r *punchRepository) ListByStaff(ctx context.Context, staffID string, from, to time.Time) ([]attendance.PunchEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+punchColumns+`
		FROM punch_events
		WHERE staff_id = ?
		  AND punched_at_ms >= ?
		  AND punched_at_ms < ?
		ORDER BY punched_at_ms ASC, id ASC`,
		staffID, from.UnixMilli(), to.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query punch events: %w", err)
	}
	defer rows.Close()

	punches := make([]attendance.PunchEvent, 0)
	for rows.Next() {
		punch, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch event: %w", err)
		}
		punches = append(punches, punch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punch events: %w", err)
	}

	return punches, nil
}

func (r *punchRepository) ListStaffIDs(ctx context.Context, from, to time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT staff_id
		FROM punch_events
		WHERE punched_at_ms >= ?
		  AND punched_at_ms < ?
		ORDER BY staff_id`,
		from.UnixMilli(), to.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff IDs: %w", err)
	}
	defer rows.Close()

	staffIDs := make([]string, 0)
	for rows.Next() {
		var staffID string
		if err := rows.Scan(&staffID); err != nil {
			return nil, fmt.Errorf("failed to scan staff ID: %w", err)
		}
		staffIDs = append(staffIDs, staffID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff IDs: %w", err)
	}

	return staffIDs, nil
}

func (r *punchRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM punch_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete punch event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete punch event: %w", err)
	}
	if n == 0 {
		return attendance.ErrPunchNotFound
	}

	return nil
}
