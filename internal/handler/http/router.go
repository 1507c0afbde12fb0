package http

import (
	"io"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewLogger builds the JSON logger shared by request logging and services.
func NewLogger(w io.Writer, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", env),
	)
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, attendanceHandler AttendanceHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/geofence/evaluate", attendanceHandler.EvaluateLocation)

				// Own records
				r.Route("/my", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).
						Post("/punches", attendanceHandler.RecordPunch)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
						r.Get("/punches", attendanceHandler.ListPunches)
						r.Get("/daily", attendanceHandler.GetDailyAttendance)
						r.Get("/summary", attendanceHandler.GetMonthlySummary)
					})
				})

				// A named staff member; staff may only address themselves
				r.Route("/staff/{staffID}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).
						Post("/punches", attendanceHandler.RecordPunch)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
						r.Get("/punches", attendanceHandler.ListPunches)
						r.Get("/daily", attendanceHandler.GetDailyAttendance)
						r.Get("/summary", attendanceHandler.GetMonthlySummary)
					})
				})

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).
						Delete("/punches/{id}", attendanceHandler.DeletePunch)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).
						Get("/team", attendanceHandler.GetTeamAttendance)
					r.With(middleware.RequirePermission(user.PermissionAttendanceExport)).
						Get("/team/export", attendanceHandler.ExportTeamAttendance)
				})
			})
		})
	})
	return r
}
