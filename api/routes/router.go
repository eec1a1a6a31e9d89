package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rootline/rootline-backend/api/controllers"
	"github.com/rootline/rootline-backend/api/middleware"
	"github.com/rootline/rootline-backend/internal/admin"
	"github.com/rootline/rootline-backend/internal/auth"
	"github.com/rootline/rootline-backend/internal/events"
	"github.com/rootline/rootline-backend/internal/genealogies"
	"github.com/rootline/rootline-backend/internal/persons"
	"github.com/rootline/rootline-backend/internal/relationships"
	"github.com/rootline/rootline-backend/pkg/auth/session"
	"github.com/rootline/rootline-backend/pkg/config"
	"github.com/rootline/rootline-backend/pkg/db"
	"github.com/rootline/rootline-backend/pkg/enums"
	"github.com/rootline/rootline-backend/pkg/logger"
	"github.com/rootline/rootline-backend/pkg/metrics"
	"github.com/rootline/rootline-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager *session.Manager
	StatusChecker  middleware.AccountStatusChecker
	Metrics        *metrics.HTTPMetrics
	MetricsHandler http.Handler

	AuthService         auth.Service
	RegisterService     auth.RegisterService
	AdminService        admin.Service
	GenealogyService    genealogies.Service
	PersonService       persons.Service
	RelationshipService relationships.Service
	EventService        events.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	// A nil *session.Manager must not become a non-nil AccessSessionChecker
	// inside the middleware, so the conversion happens behind a concrete check.
	var sessions session.AccessSessionChecker
	if p.SessionManager != nil {
		sessions = p.SessionManager
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})

	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).
			Post("/register", controllers.AuthRegister(p.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
			Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
			Post("/forgot-password", controllers.AuthForgotPassword(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(p.AuthService, logg))
		r.Get("/verify-email", controllers.AuthVerifyEmail(p.AuthService, logg))
		r.Get("/status", controllers.AuthStatus(p.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, p.StatusChecker, logg))
			r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
			r.Get("/me", controllers.AuthMe(p.AuthService, logg))
			r.Put("/profile", controllers.AuthUpdateProfile(p.AuthService, logg))
			r.Put("/password", controllers.AuthChangePassword(p.AuthService, logg))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, p.StatusChecker, logg))
		r.Use(middleware.RateLimit(cfg.RateLimit, p.Redis, logg))

		r.Route("/genealogies", func(r chi.Router) {
			r.Get("/", controllers.GenealogyList(p.GenealogyService, logg))
			r.Post("/", controllers.GenealogyCreate(p.GenealogyService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GenealogyGet(p.GenealogyService, logg))
				r.Put("/", controllers.GenealogyUpdate(p.GenealogyService, logg))
				r.Delete("/", controllers.GenealogyDelete(p.GenealogyService, logg))
				r.Get("/persons", controllers.GenealogyPersons(p.PersonService, logg))
			})
		})

		r.Route("/persons", func(r chi.Router) {
			r.Get("/", controllers.PersonList(p.PersonService, logg))
			r.Post("/", controllers.PersonCreate(p.PersonService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.PersonGet(p.PersonService, logg))
				r.Put("/", controllers.PersonUpdate(p.PersonService, logg))
				r.Delete("/", controllers.PersonDelete(p.PersonService, logg))

				r.Route("/relationships", func(r chi.Router) {
					r.Get("/", controllers.RelationshipList(p.RelationshipService, logg))
					r.Post("/", controllers.RelationshipCreate(p.RelationshipService, logg))
					r.Delete("/{relationshipId}", controllers.RelationshipDelete(p.RelationshipService, logg))
				})

				r.Route("/events", func(r chi.Router) {
					r.Get("/", controllers.EventList(p.EventService, logg))
					r.Post("/", controllers.EventCreate(p.EventService, logg))
					r.Put("/{eventId}", controllers.EventUpdate(p.EventService, logg))
					r.Delete("/{eventId}", controllers.EventDelete(p.EventService, logg))
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Put("/users/{id}/status", controllers.AdminUpdateUserStatus(p.AdminService, logg))
		})
	})

	return r
}
