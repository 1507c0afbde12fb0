package attendance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout = "2006-01-02"

	// defaultRangeDays is the window used when a request names no dates.
	defaultRangeDays = 30

	// maxFutureSkew tolerates device clocks that run slightly ahead.
	maxFutureSkew = 5 * time.Minute

	// teamConcurrency bounds per-staff reconstruction in team reports.
	teamConcurrency = 8
)

// Config carries the venue settings the service hands to the core.
type Config struct {
	VenueName string
	Geofence  attendance.VenueGeofence
	Location  *time.Location
	Overtime  attendance.OvertimeRule

	// Transactor groups read-then-write corrections. Defaults to attendance.NoTransaction.
	Transactor attendance.Transactor
}

type AttendanceServiceImpl struct {
	attendance.PunchRepository
	tx            attendance.Transactor
	reconstructor *attendance.Reconstructor
	cfg           Config
	now           func() time.Time
}

func NewAttendanceService(punchRepo attendance.PunchRepository, cfg Config) attendance.AttendanceService {
	return newAttendanceService(punchRepo, cfg)
}

func newAttendanceService(punchRepo attendance.PunchRepository, cfg Config) *AttendanceServiceImpl {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Transactor == nil {
		cfg.Transactor = attendance.NoTransaction
	}
	return &AttendanceServiceImpl{
		PunchRepository: punchRepo,
		tx:              cfg.Transactor,
		reconstructor:   attendance.NewReconstructor(cfg.Overtime, cfg.Location),
		cfg:             cfg,
		now:             time.Now,
	}
}

// RecordPunch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordPunch(ctx context.Context, req attendance.RecordPunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	punchType, err := attendance.ParsePunchType(req.Type)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	nowUTC := s.now().UTC()
	timestamp := nowUTC
	if req.Timestamp != nil && *req.Timestamp != "" {
		parsed, _ := validator.IsValidDateTime(*req.Timestamp)
		timestamp = parsed.UTC()
	}

	if timestamp.After(nowUTC.Add(maxFutureSkew)) {
		return attendance.PunchResponse{}, attendance.ErrPunchInFuture
	}

	var coords *geo.Coordinate
	if req.Latitude != nil && req.Longitude != nil {
		coords = &geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}
	fence := attendance.Annotate(coords, s.cfg.Geofence)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to generate punch ID: %w", err)
	}

	punch, err := s.PunchRepository.Create(ctx, attendance.PunchEvent{
		ID:               id.String(),
		StaffID:          req.StaffID,
		Type:             punchType,
		Timestamp:        timestamp,
		Coordinates:      coords,
		IsWithinGeofence: fence.IsWithinGeofence,
		DistanceMeters:   fence.DistanceMeters,
	})
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to record punch: %w", err)
	}

	slog.Info("punch recorded",
		"punch_id", punch.ID,
		"staff_id", punch.StaffID,
		"type", punch.Type,
		"within_geofence", punch.IsWithinGeofence,
	)

	return s.toPunchResponse(punch), nil
}

// EvaluateLocation implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EvaluateLocation(ctx context.Context, req attendance.EvaluateLocationRequest) (attendance.GeofenceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.GeofenceResponse{}, err
	}

	result := attendance.Evaluate(geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}, s.cfg.Geofence)

	return attendance.GeofenceResponse{
		VenueName:        s.cfg.VenueName,
		IsWithinGeofence: result.IsWithinGeofence,
		DistanceMeters:   *result.DistanceMeters,
		RadiusMeters:     s.cfg.Geofence.RadiusMeters,
	}, nil
}

// ListPunches implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListPunches(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListPunchResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListPunchResponse{}, err
	}

	start, end, err := s.resolveRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return attendance.ListPunchResponse{}, err
	}

	punches, err := s.listPunches(ctx, filter.StaffID, start, end)
	if err != nil {
		return attendance.ListPunchResponse{}, err
	}

	responses := make([]attendance.PunchResponse, 0, len(punches))
	for _, p := range punches {
		responses = append(responses, s.toPunchResponse(p))
	}

	return attendance.ListPunchResponse{
		StaffID:    filter.StaffID,
		StartDate:  start.Format(dateLayout),
		EndDate:    end.Format(dateLayout),
		TotalCount: len(responses),
		Punches:    responses,
	}, nil
}

// DeletePunch implements attendance.AttendanceService. The removed punch is
// logged and returned so administrative corrections leave an audit trail.
func (s *AttendanceServiceImpl) DeletePunch(ctx context.Context, id string) (attendance.PunchResponse, error) {
	if validator.IsEmpty(id) {
		return attendance.PunchResponse{}, attendance.ErrPunchNotFound
	}

	var removed attendance.PunchEvent
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		punch, err := s.PunchRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.PunchRepository.Delete(txCtx, id); err != nil {
			return err
		}
		removed = punch
		return nil
	})
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	slog.Info("punch deleted",
		"punch_id", removed.ID,
		"staff_id", removed.StaffID,
		"type", removed.Type,
		"timestamp", removed.Timestamp.Format(time.RFC3339),
	)

	return s.toPunchResponse(removed), nil
}

// GetDailyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDailyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListDailyAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListDailyAttendanceResponse{}, err
	}

	start, end, err := s.resolveRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return attendance.ListDailyAttendanceResponse{}, err
	}

	days, err := s.reconstruct(ctx, filter.StaffID, start, end)
	if err != nil {
		return attendance.ListDailyAttendanceResponse{}, err
	}

	return attendance.ListDailyAttendanceResponse{
		StaffID:   filter.StaffID,
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Days:      s.toDailyResponses(days),
	}, nil
}

// GetMonthlySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, req attendance.MonthlySummaryRequest) (attendance.MonthlySummaryResponse, error) {
	nowLocal := s.now().In(s.cfg.Location)
	if req.Month == 0 {
		req.Month = int(nowLocal.Month())
	}
	if req.Year == 0 {
		req.Year = nowLocal.Year()
	}

	if err := req.Validate(nowLocal); err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}

	start := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, s.cfg.Location)
	end := start.AddDate(0, 1, -1)

	days, err := s.reconstruct(ctx, req.StaffID, start, end)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}

	return attendance.MonthlySummaryResponse{
		StaffID:     req.StaffID,
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: start.Format(dateLayout),
		PeriodEnd:   end.Format(dateLayout),
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Summary:     toSummaryResponse(attendance.Summarize(days)),
		Days:        s.toDailyResponses(days),
	}, nil
}

// GetTeamAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTeamAttendance(ctx context.Context, filter attendance.TeamAttendanceFilter) (attendance.TeamAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.TeamAttendanceResponse{}, err
	}

	start, end, err := s.resolveRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return attendance.TeamAttendanceResponse{}, err
	}

	from, to := s.window(start, end)
	staffIDs, err := s.PunchRepository.ListStaffIDs(ctx, from, to)
	if err != nil {
		return attendance.TeamAttendanceResponse{}, fmt.Errorf("failed to list staff with punches: %w", err)
	}

	staff := make([]attendance.StaffAttendanceResponse, len(staffIDs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(teamConcurrency)

	for i, staffID := range staffIDs {
		g.Go(func() error {
			days, err := s.reconstruct(gCtx, staffID, start, end)
			if err != nil {
				return err
			}
			staff[i] = attendance.StaffAttendanceResponse{
				StaffID: staffID,
				Summary: toSummaryResponse(attendance.Summarize(days)),
				Days:    s.toDailyResponses(days),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return attendance.TeamAttendanceResponse{}, err
	}

	return attendance.TeamAttendanceResponse{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Staff:     staff,
	}, nil
}

// ExportTeamAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportTeamAttendance(ctx context.Context, filter attendance.TeamAttendanceFilter, w io.Writer) error {
	team, err := s.GetTeamAttendance(ctx, filter)
	if err != nil {
		return err
	}

	if err := writeTeamWorkbook(team, w); err != nil {
		return fmt.Errorf("failed to write attendance workbook: %w", err)
	}

	slog.Info("team attendance exported",
		"start_date", team.StartDate,
		"end_date", team.EndDate,
		"staff_count", len(team.Staff),
	)
	return nil
}

func (s *AttendanceServiceImpl) listPunches(ctx context.Context, staffID string, start, end time.Time) ([]attendance.PunchEvent, error) {
	from, to := s.window(start, end)
	punches, err := s.PunchRepository.ListByStaff(ctx, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	return punches, nil
}

func (s *AttendanceServiceImpl) reconstruct(ctx context.Context, staffID string, start, end time.Time) ([]attendance.DailyAttendance, error) {
	punches, err := s.listPunches(ctx, staffID, start, end)
	if err != nil {
		return nil, err
	}
	return s.reconstructor.Reconstruct(punches), nil
}

// window converts inclusive local dates into the half-open instant range
// [start 00:00, end+1 00:00) in the venue location.
func (s *AttendanceServiceImpl) window(start, end time.Time) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.cfg.Location)
	to := time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, s.cfg.Location)
	return from, to
}

// resolveRange fills missing dates relative to today in the venue location.
func (s *AttendanceServiceImpl) resolveRange(startDate, endDate *string) (time.Time, time.Time, error) {
	nowLocal := s.now().In(s.cfg.Location)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, s.cfg.Location)

	var start, end time.Time
	hasStart := startDate != nil && *startDate != ""
	hasEnd := endDate != nil && *endDate != ""

	if hasEnd {
		end = s.parseLocalDate(*endDate)
	} else {
		end = today
	}

	if hasStart {
		start = s.parseLocalDate(*startDate)
		if !hasEnd && end.Before(start) {
			end = start
		}
	} else {
		start = end.AddDate(0, 0, -(defaultRangeDays - 1))
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, attendance.ErrInvalidDateRange
	}
	if end.Sub(start) >= attendance.MaxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, attendance.ErrDateRangeTooLarge
	}

	return start, end, nil
}

func (s *AttendanceServiceImpl) parseLocalDate(value string) time.Time {
	t, _ := time.ParseInLocation(dateLayout, value, s.cfg.Location)
	return t
}

func (s *AttendanceServiceImpl) formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(s.cfg.Location).Format(time.RFC3339)
	return &formatted
}

func (s *AttendanceServiceImpl) toPunchResponse(p attendance.PunchEvent) attendance.PunchResponse {
	resp := attendance.PunchResponse{
		ID:               p.ID,
		StaffID:          p.StaffID,
		Type:             string(p.Type),
		Timestamp:        p.Timestamp.In(s.cfg.Location).Format(time.RFC3339),
		IsWithinGeofence: p.IsWithinGeofence,
		DistanceMeters:   p.DistanceMeters,
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.Coordinates != nil {
		lat, lon := p.Coordinates.Latitude, p.Coordinates.Longitude
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

func (s *AttendanceServiceImpl) toDailyResponses(days []attendance.DailyAttendance) []attendance.DailyAttendanceResponse {
	responses := make([]attendance.DailyAttendanceResponse, 0, len(days))
	for _, d := range days {
		responses = append(responses, attendance.DailyAttendanceResponse{
			Date:             d.Date.Format(dateLayout),
			ClockIn:          s.formatInstant(d.ClockIn),
			ClockOut:         s.formatInstant(d.ClockOut),
			BreakMinutes:     d.BreakMinutes,
			TotalMinutes:     d.TotalMinutes,
			OvertimeMinutes:  d.OvertimeMinutes,
			IsWithinGeofence: d.IsWithinGeofence,
			InProgress:       d.InProgress(),
		})
	}
	return responses
}

func toSummaryResponse(sum attendance.Summary) attendance.SummaryResponse {
	return attendance.SummaryResponse{
		DaysRecorded:         sum.DaysRecorded,
		DaysWorked:           sum.DaysWorked,
		InProgressDays:       sum.InProgressDays,
		OffSiteDays:          sum.OffSiteDays,
		TotalMinutes:         sum.TotalMinutes,
		TotalBreakMinutes:    sum.TotalBreakMinutes,
		TotalOvertimeMinutes: sum.TotalOvertimeMinutes,
		TotalWorkHours:       math.Round(float64(sum.TotalMinutes)/60*100) / 100,
	}
}
