package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kantorkita/presensi-backend-go/internal/handler/http/middleware"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	AppName        string
	Env            string
	AllowedOrigins []string
	APIKeyHash     string
}

func NewRouter(cfg RouterConfig, jwtService jwt.Service, engineHandler EngineHandler, calendarHandler CalendarHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Machine-to-machine hooks from the leave management surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.APIKeyHash))
			r.Post("/hooks/leave-revoked", engineHandler.LeaveRevoked)
		})

		// Operator surface, admin token required
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
			r.Use(middleware.AdminOnly)

			r.Route("/admin/engine", func(r chi.Router) {
				r.Post("/generate", engineHandler.TriggerGenerate)
				r.Post("/finalize", engineHandler.TriggerFinalize)
				r.Post("/reconcile", engineHandler.TriggerReconcile)
				r.Post("/leave-revoked", engineHandler.LeaveRevoked)
				r.Get("/status", engineHandler.Status)
			})

			r.Get("/admin/calendar/resolve", calendarHandler.Resolve)
		})
	})

	return r
}
