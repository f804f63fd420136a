package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/timebank-backend-go/internal/config"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Punch         PunchHandler
	TimeBank      TimeBankHandler
	Absence       AbsenceHandler
	Justification JustificationHandler
}

func NewRouter(app config.AppConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: logFormat,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.RequireCompany)

			r.Route("/punches", func(r chi.Router) {
				r.Get("/", h.Punch.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.With(middleware.RequirePermission(user.PermissionPunchRegister)).Post("/", h.Punch.Register)
					r.Get("/last", h.Punch.Last)
					r.Get("/today", h.Punch.Today)
				})
			})

			r.Get("/time-bank", h.TimeBank.Get)

			r.Route("/absences", func(r chi.Router) {
				r.Get("/", h.Absence.List)
				r.Get("/{id}", h.Absence.Get)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.With(middleware.RequirePermission(user.PermissionAbsenceManage)).Post("/", h.Absence.Register)
					r.With(middleware.RequirePermission(user.PermissionAbsenceManage)).Delete("/{id}", h.Absence.Delete)
					r.With(middleware.RequirePermission(user.PermissionAbsenceApprove)).Post("/{id}/approve", h.Absence.Approve)
					r.With(middleware.RequirePermission(user.PermissionAbsenceApprove)).Post("/{id}/reject", h.Absence.Reject)
					r.With(middleware.RequirePermission(user.PermissionAbsenceDetect)).Post("/detect", h.Absence.Detect)
					r.With(middleware.RequirePermission(user.PermissionAbsenceDetect)).Post("/detect-range", h.Absence.DetectRange)
				})
			})

			r.Route("/justifications", func(r chi.Router) {
				r.Get("/", h.Justification.List)
				r.With(middleware.RequireEmployee).Post("/", h.Justification.Create)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/stats", h.Justification.Stats)
					r.With(middleware.RequirePermission(user.PermissionJustificationApprove)).Post("/{id}/approve", h.Justification.Approve)
					r.With(middleware.RequirePermission(user.PermissionJustificationApprove)).Post("/{id}/reject", h.Justification.Reject)
				})

				r.Get("/{id}", h.Justification.Get)
			})
		})
	})
	return r
}
