package api

import (
	"database/sql"
	"net/http"

	"github.com/devcheck/devcheck-be/internal/api/handlers"
	"github.com/devcheck/devcheck-be/internal/auth"
	"github.com/devcheck/devcheck-be/internal/config"
	"github.com/devcheck/devcheck-be/internal/logger"
	"github.com/devcheck/devcheck-be/internal/monitoring"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles the providers the router needs.
type Services struct {
	Users    services.UserServiceProvider
	Projects services.ProjectServiceProvider
	Pages    services.PageServiceProvider
	Sections services.SectionServiceProvider
	Tasks    services.TaskServiceProvider
	Issues   services.IssueServiceProvider
}

// NewServices builds the SQLite-backed services over db.
func NewServices(db *sql.DB) Services {
	return Services{
		Users:    services.NewUserService(db),
		Projects: services.NewProjectService(db),
		Pages:    services.NewPageService(db),
		Sections: services.NewSectionService(db),
		Tasks:    services.NewTaskService(db),
		Issues:   services.NewIssueService(db),
	}
}

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, svc Services) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(monitoring.Middleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(svc.Users, tokens, cfg.AccessTokenTTL, cfg.IsProduction())
	projectHandler := handlers.NewProjectHandler(svc.Projects)
	pageHandler := handlers.NewPageHandler(svc.Pages)
	sectionHandler := handlers.NewSectionHandler(svc.Sections)
	taskHandler := handlers.NewTaskHandler(svc.Tasks)
	issueHandler := handlers.NewIssueHandler(svc.Issues)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/hello", handlers.Hello)
		r.Post("/users/register", userHandler.Register)
		r.Post("/token", userHandler.Token)
		r.Post("/token/refresh", userHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens, svc.Users))

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", userHandler.GetMe)
				r.Put("/", userHandler.UpdateMe)
				r.Patch("/", userHandler.UpdateMe)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.GetAll)
				r.Post("/", projectHandler.Create)
				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", projectHandler.Get)
					r.Delete("/", projectHandler.Delete)
					r.Get("/detail", projectHandler.Detail)
					r.Put("/detail", projectHandler.Update)
					r.Patch("/detail", projectHandler.Update)
					r.Get("/pages", pageHandler.GetAll)
					r.Post("/pages", pageHandler.Create)
				})
			})

			r.Route("/pages/{pageID}", func(r chi.Router) {
				r.Get("/", pageHandler.Get)
				r.Put("/", pageHandler.Update)
				r.Patch("/", pageHandler.Update)
				r.Delete("/", pageHandler.Delete)
				r.Get("/sections", sectionHandler.GetAll)
				r.Post("/sections", sectionHandler.Create)
			})

			r.Route("/sections/{sectionID}", func(r chi.Router) {
				r.Get("/", sectionHandler.Get)
				r.Put("/", sectionHandler.Update)
				r.Patch("/", sectionHandler.Update)
				r.Delete("/", sectionHandler.Delete)
				r.Get("/tasks", taskHandler.GetAll)
				r.Post("/tasks", taskHandler.Create)
			})

			r.Route("/tasks/{taskID}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Put("/", taskHandler.Update)
				r.Patch("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
			})

			r.Post("/issues", issueHandler.Create)
		})
	})

	return r
}
