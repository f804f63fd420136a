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

	"github.com/cmlabs-hris/timebank-backend-go/internal/app"
	"github.com/cmlabs-hris/timebank-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timebank-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	app.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	locker, closeLocker, err := app.NewLocker(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeLocker()

	clk, err := app.NewClock(cfg)
	if err != nil {
		return err
	}

	services := app.NewServices(db, locker, clk, cfg.Detection.Workers)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	router := appHTTP.NewRouter(cfg.App, JWTService, appHTTP.Handlers{
		Punch:         appHTTP.NewPunchHandler(services.Punch, clk),
		TimeBank:      appHTTP.NewTimeBankHandler(services.TimeBank, clk),
		Absence:       appHTTP.NewAbsenceHandler(services.Absence),
		Justification: appHTTP.NewJustificationHandler(services.Justification),
	})

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler(clk.Location())
		absenceJobs := cron.NewAbsenceJobs(services.Companies, services.Absence, clk)
		if err := absenceJobs.RegisterJobs(scheduler, cfg.Cron.AbsenceDetectionSpec); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", clk.Location().String())
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
