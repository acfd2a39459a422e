package http

import (
	"log/slog"
	"net/http"

	"github.com/besti-sekretariat/besti-backend-go/internal/handler/http/middleware"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger      *slog.Logger
	FrontendURL string
	// Uploads serves stored proof photos under /uploads when set.
	Uploads http.Handler
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	personHandler PersonHandler,
	inventoryHandler InventoryHandler,
	rosterHandler RosterHandler,
	attendanceHandler AttendanceHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.Uploads != nil {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", opts.Uploads))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", authHandler.Login)

		// Authenticated by the short-lived token in the query string
		r.Get("/roster/events", rosterHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/people", func(r chi.Router) {
				r.Get("/", personHandler.List)
				r.Get("/{id}", personHandler.Get)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", inventoryHandler.List)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", inventoryHandler.Create)
					r.Put("/{id}", inventoryHandler.Update)
					r.Delete("/{id}", inventoryHandler.Delete)
				})
			})

			r.Route("/roster", func(r chi.Router) {
				r.Get("/", rosterHandler.Get)
				r.Get("/available", rosterHandler.Available)
				r.Post("/events/token", rosterHandler.StreamToken)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/generate", rosterHandler.Generate)
					r.Post("/assignments", rosterHandler.AddAssignment)
					r.Delete("/days/{day}/assignments/{personID}", rosterHandler.RemoveAssignment)
					r.Post("/save", rosterHandler.Save)
					r.Post("/reload", rosterHandler.Reload)
					r.Delete("/", rosterHandler.Clear)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/today", attendanceHandler.Today)
				r.Get("/me", attendanceHandler.MyHistory)
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Put("/{id}/checklist", attendanceHandler.SubmitChecklist)
				r.Post("/{id}/check-out", attendanceHandler.CheckOut)
				r.Get("/{id}", attendanceHandler.Get)

				// Admin only
				r.With(middleware.AdminOnly).Get("/", attendanceHandler.DailyReport)
			})
		})
	})
	return r
}
