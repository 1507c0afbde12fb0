package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.App.Env, cfg.LogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	punchRepo, transactor, closeStore, err := openPunchRepository(ctx, cfg)
	if err != nil {
		slog.Error("Error opening punch store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	location := cfg.VenueLocation()
	attendanceSvc := attendanceService.NewAttendanceService(punchRepo, attendanceService.Config{
		VenueName:  cfg.Venue.Name,
		Geofence:   cfg.VenueGeofence(),
		Location:   location,
		Overtime:   cfg.OvertimeRule(),
		Transactor: transactor,
	})

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, jwtService, attendanceHandler)

	scheduler := cron.NewScheduler()
	if cfg.Jobs.Enabled {
		reconstructor := attendance.NewReconstructor(cfg.OvertimeRule(), location)
		attendanceJobs := cron.NewAttendanceJobs(punchRepo, reconstructor, location, cfg.Jobs.LookbackDays)
		attendanceJobs.RegisterJobs(scheduler, cfg.Jobs.Interval)
		scheduler.Start(ctx)
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Server starting",
		"addr", server.Addr,
		"driver", cfg.Database.Driver,
		"venue", cfg.Venue.Name,
		"timezone", location.String(),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
	}
}

// openPunchRepository selects the punch store for cfg.Database.Driver.
func openPunchRepository(ctx context.Context, cfg *config.Config) (attendance.PunchRepository, attendance.Transactor, func(), error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, nil, nil, err
		}
		return postgresql.NewPunchRepository(db), postgresql.NewTransactor(db), db.Close, nil
	case "sqlite":
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return sqlite.NewPunchRepository(db), attendance.NoTransaction, func() { _ = db.Close() }, nil
	case "memory":
		slog.Warn("Using in-memory punch store; punches are lost on restart")
		return memory.NewPunchRepository(), attendance.NoTransaction, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}
