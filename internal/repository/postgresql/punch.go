package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/jackc/pgx/v5"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepository{db: db}
}

const punchColumns = `
	id, staff_id, punch_type, punched_at,
	latitude, longitude, is_within_geofence, distance_meters,
	created_at
`

// scanPunch maps a row onto a PunchEvent, rejecting unknown punch types.
func scanPunch(row pgx.Row) (attendance.PunchEvent, error) {
	var (
		p         attendance.PunchEvent
		punchType string
		lat, lon  *float64
	)

	err := row.Scan(
		&p.ID, &p.StaffID, &punchType, &p.Timestamp,
		&lat, &lon, &p.IsWithinGeofence, &p.DistanceMeters,
		&p.CreatedAt,
	)
	if err != nil {
		return attendance.PunchEvent{}, err
	}

	p.Type, err = attendance.ParsePunchType(punchType)
	if err != nil {
		return attendance.PunchEvent{}, fmt.Errorf("punch %s: %w", p.ID, err)
	}

	if lat != nil && lon != nil {
		p.Coordinates = &geo.Coordinate{Latitude: *lat, Longitude: *lon}
	}

	return p, nil
}

// Create implements attendance.PunchRepository.
func (r *punchRepository) Create(ctx context.Context, punch attendance.PunchEvent) (attendance.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	var lat, lon *float64
	if punch.Coordinates != nil {
		lat = &punch.Coordinates.Latitude
		lon = &punch.Coordinates.Longitude
	}

	query := `
		INSERT INTO punch_events (
			id, staff_id, punch_type, punched_at,
			latitude, longitude, is_within_geofence, distance_meters
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		punch.ID,
		punch.StaffID,
		string(punch.Type),
		punch.Timestamp,
		lat,
		lon,
		punch.IsWithinGeofence,
		punch.DistanceMeters,
	).Scan(&punch.CreatedAt)

	if err != nil {
		return attendance.PunchEvent{}, fmt.Errorf("failed to create punch event: %w", err)
	}

	return punch, nil
}

// GetByID implements attendance.PunchRepository.
func (r *punchRepository) GetByID(ctx context.Context, id string) (attendance.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + punchColumns + ` FROM punch_events WHERE id = $1`

	punch, err := scanPunch(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.PunchEvent{}, attendance.ErrPunchNotFound
		}
		return attendance.PunchEvent{}, fmt.Errorf("failed to get punch event by ID: %w", err)
	}

	return punch, nil
}

// ListByStaff implements attendance.PunchRepository.
func (r *punchRepository) ListByStaff(ctx context.Context, staffID string, from, to time.Time) ([]attendance.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchColumns + `
		FROM punch_events
		WHERE staff_id = $1
		  AND punched_at >= $2
		  AND punched_at < $3
		ORDER BY punched_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, staffID, from, to)
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

// ListStaffIDs implements attendance.PunchRepository.
func (r *punchRepository) ListStaffIDs(ctx context.Context, from, to time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT staff_id
		FROM punch_events
		WHERE punched_at >= $1
		  AND punched_at < $2
		ORDER BY staff_id
	`

	rows, err := q.Query(ctx, query, from, to)
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

// Delete implements attendance.PunchRepository.
func (r *punchRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM punch_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete punch event: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrPunchNotFound
	}

	return nil
}
