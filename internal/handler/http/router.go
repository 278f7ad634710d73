package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salamchy/furniture/internal/auth"
	"github.com/salamchy/furniture/pkg/health"
	"github.com/salamchy/furniture/pkg/middleware"
)

// RouterConfig collects everything the router wires together.
type RouterConfig struct {
	UserHandler    *UserHandler
	ProductHandler *ProductHandler
	PostHandler    *PostHandler
	BannerHandler  *BannerHandler
	CartHandler    *CartHandler
	HealthHandler  *health.Handler
	JWTManager     *auth.JWTManager
	CORSOrigins    []string
	SecureCookies  bool
	Logger         *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	logger := cfg.Logger

	// Global middleware
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.CORSOrigins}))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Tracing("furniture-store"))

	// Health check and metrics endpoints
	r.Get("/health/live", cfg.HealthHandler.Liveness)
	r.Get("/health/ready", cfg.HealthHandler.Readiness)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authenticate := auth.Authenticate(cfg.JWTManager, logger)
	adminOnly := auth.RequireRole(auth.RoleAdmin, logger)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", cfg.UserHandler.Register)
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/logout", cfg.UserHandler.Logout)

		r.With(authenticate, adminOnly).Delete("/{id}", cfg.UserHandler.Delete)
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", cfg.ProductHandler.List)

		// Registered before /{id} so the path segment is not taken for an id.
		r.Get("/product-of-the-week", cfg.ProductHandler.GetProductOfTheWeek)
		r.With(authenticate, adminOnly, ContentTypeJSON).
			Put("/product-of-the-week", cfg.ProductHandler.SetProductOfTheWeek)

		r.Get("/{id}", cfg.ProductHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)

			r.Post("/", cfg.ProductHandler.Create)
			r.Put("/{id}", cfg.ProductHandler.Update)
			r.Delete("/{id}", cfg.ProductHandler.Delete)
		})
	})

	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Get("/", cfg.PostHandler.List)
		r.Get("/{id}", cfg.PostHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)

			r.Post("/", cfg.PostHandler.Create)
			r.Put("/{id}", cfg.PostHandler.Update)
			r.Delete("/{id}", cfg.PostHandler.Delete)
		})
	})

	r.Route("/api/v1/banners", func(r chi.Router) {
		r.Get("/", cfg.BannerHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)

			r.Post("/", cfg.BannerHandler.Create)
			r.Delete("/{id}", cfg.BannerHandler.Delete)
		})
	})

	// The cart is keyed by its own cookie, not the authenticated user, so
	// it carries across login and logout.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(CartID(cfg.SecureCookies))
		r.Use(ContentTypeJSON)

		r.Get("/", cfg.CartHandler.Get)
		r.Delete("/", cfg.CartHandler.Clear)

		r.Post("/items", cfg.CartHandler.AddItem)
		r.Put("/items/{itemId}", cfg.CartHandler.UpdateQuantity)
		r.Post("/items/{itemId}/increment", cfg.CartHandler.IncrementQuantity)
		r.Post("/items/{itemId}/decrement", cfg.CartHandler.DecrementQuantity)
		r.Delete("/items/{itemId}", cfg.CartHandler.RemoveItem)
	})

	return r
}
