package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shipment-tracker/internal/http/handlers"
)

// Deps are the handlers and middlewares mounted by New. Nil middlewares are skipped.
type Deps struct {
	Base       *handlers.Handlers
	Shipments  *handlers.ShipmentHandler
	Auth       *handlers.AuthHandler
	Warehouses *handlers.WarehouseHandler

	Authenticate  func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
	Observability func(http.Handler) http.Handler
	Metrics       http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	use(r, d.Observability)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	r.NotFound(d.Base.NotFound)
	r.MethodNotAllowed(d.Base.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		use(r, d.RateLimit)
		r.Post("/auth/login", d.Auth.Login)
	})

	r.Group(func(r chi.Router) {
		use(r, d.Authenticate)
		use(r, d.RateLimit)

		r.Post("/auth/logout", d.Auth.Logout)
		r.Get("/warehouses", d.Warehouses.List)

		r.Route("/shipments", func(r chi.Router) {
			r.Post("/", d.Shipments.Create)
			r.Get("/", d.Shipments.List)
			r.Get("/{id}", d.Shipments.Get)
			r.Patch("/{id}", d.Shipments.Update)
		})
	})

	return r
}

func use(r chi.Router, mw func(http.Handler) http.Handler) {
	if mw != nil {
		r.Use(mw)
	}
}
