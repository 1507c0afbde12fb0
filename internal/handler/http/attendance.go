package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler interface {
	RecordPunch(w http.ResponseWriter, r *http.Request)
	ListPunches(w http.ResponseWriter, r *http.Request)
	DeletePunch(w http.ResponseWriter, r *http.Request)
	EvaluateLocation(w http.ResponseWriter, r *http.Request)
	GetDailyAttendance(w http.ResponseWriter, r *http.Request)
	GetMonthlySummary(w http.ResponseWriter, r *http.Request)
	GetTeamAttendance(w http.ResponseWriter, r *http.Request)
	ExportTeamAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// resolveStaffID returns the {staffID} path parameter when present, else the
// caller's own staff ID. Staff may only address themselves.
func resolveStaffID(r *http.Request) (string, error) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		return "", err
	}

	staffID := chi.URLParam(r, "staffID")
	if staffID == "" {
		return identity.StaffID, nil
	}

	if !identity.CanAccessStaff(staffID) {
		return "", attendance.ErrUnauthorizedStaffID
	}
	return staffID, nil
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// RecordPunch implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordPunch(w http.ResponseWriter, r *http.Request) {
	staffID, err := resolveStaffID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.RecordPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode punch request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.StaffID = staffID

	result, err := h.attendanceService.RecordPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded", result)
}

// ListPunches implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListPunches(w http.ResponseWriter, r *http.Request) {
	staffID, err := resolveStaffID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListPunches(r.Context(), attendance.AttendanceFilter{
		StaffID:   staffID,
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Punches, &response.Meta{
		TotalItems: int64(result.TotalCount),
		StartDate:  result.StartDate,
		EndDate:    result.EndDate,
	})
}

// DeletePunch implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeletePunch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.attendanceService.DeletePunch(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch deleted", removed)
}

// EvaluateLocation implements AttendanceHandler.
func (h *attendanceHandlerImpl) EvaluateLocation(w http.ResponseWriter, r *http.Request) {
	var req attendance.EvaluateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.EvaluateLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDailyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetDailyAttendance(w http.ResponseWriter, r *http.Request) {
	staffID, err := resolveStaffID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetDailyAttendance(r.Context(), attendance.AttendanceFilter{
		StaffID:   staffID,
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlySummary implements AttendanceHandler. Missing month or year are
// resolved by the service against the venue calendar.
func (h *attendanceHandlerImpl) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	staffID, err := resolveStaffID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := attendance.MonthlySummaryRequest{StaffID: staffID}

	var errs validator.ValidationErrors
	if m := r.URL.Query().Get("month"); m != "" {
		if req.Month, err = strconv.Atoi(m); err != nil {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
		}
	}
	if y := r.URL.Query().Get("year"); y != "" {
		if req.Year, err = strconv.Atoi(y); err != nil {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
		}
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.attendanceService.GetMonthlySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTeamAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetTeamAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetTeamAttendance(r.Context(), attendance.TeamAttendanceFilter{
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportTeamAttendance implements AttendanceHandler. The workbook is rendered
// fully before any byte is written so failures still produce a JSON error.
func (h *attendanceHandlerImpl) ExportTeamAttendance(w http.ResponseWriter, r *http.Request) {
	filter := attendance.TeamAttendanceFilter{
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
	}

	var buf bytes.Buffer
	if err := h.attendanceService.ExportTeamAttendance(r.Context(), filter, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", time.Now().Format("20060102"))
	response.Attachment(w, filename, xlsxContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write attendance export", "error", err)
	}
}
