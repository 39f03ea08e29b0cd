package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eximroyals/storefront/internal/config"
	"github.com/eximroyals/storefront/internal/domain"
	"github.com/eximroyals/storefront/internal/session"
	"github.com/eximroyals/storefront/internal/view"
	"github.com/eximroyals/storefront/pkg/health"
	pkgmiddleware "github.com/eximroyals/storefront/pkg/middleware"
)

const serviceName = "storefront"

// staticMaxAge is the browser cache lifetime of embedded assets, in seconds.
const staticMaxAge = 86400

// NewRouter creates a chi router with the global middleware stack, health
// and metrics endpoints, the public site and the admin console. ctx bounds
// the rate limiter's background eviction.
func NewRouter(
	ctx context.Context,
	cfg *config.Config,
	guest *GuestHandler,
	admin *AdminHandler,
	sessions *session.Manager,
	views *view.Renderer,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack (applied in order).
	r.Use(pkgmiddleware.Recovery(logger, views.ErrorPage(http.StatusInternalServerError, "Something went wrong. Please try again shortly.")))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(pkgmiddleware.RequestLogging(logger, "/static/", "/health/", "/metrics"))
	r.Use(pkgmiddleware.PrometheusMetrics(serviceName))
	r.Use(pkgmiddleware.Tracing(serviceName))
	r.Use(pkgmiddleware.RequestLogger(logger))
	r.Use(sessions.Load)

	// Health check endpoints.
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	// Metrics endpoint with IP allowlist protection.
	r.With(pkgmiddleware.IPAllowlist(cfg.MetricsAllowedCIDRs, logger)).Handle("/metrics", promhttp.Handler())

	if cfg.PprofEnabled {
		pkgmiddleware.RegisterPprof(r, cfg.MetricsAllowedCIDRs, logger)
	}

	r.With(pkgmiddleware.CacheControl(staticMaxAge)).
		Handle("/static/*", http.StripPrefix("/static/", view.Static()))

	// Form posts share one per-IP budget.
	formLimit := pkgmiddleware.RateLimit(ctx, pkgmiddleware.RateLimitConfig{
		PerMinute:      cfg.FormRatePerMinute,
		Burst:          cfg.FormRateBurst,
		TrustedProxies: cfg.TrustedProxyCIDRs,
	}, logger)

	// Public site
	r.Get("/", guest.Home)
	r.Get("/products", guest.Products)
	r.Get("/products/category/{id}", guest.Products)
	r.Get("/about", guest.StaticPage(domain.PageAboutUs))
	r.Get("/why-choose-us", guest.StaticPage(domain.PageWhyChooseUs))
	r.Get("/contact", guest.Contact)
	r.With(formLimit, pkgmiddleware.NoStore).Post("/contact", guest.SubmitContact)
	r.Get("/contact/sent", guest.ContactSent)

	// Admin console
	r.Route("/admin", func(r chi.Router) {
		r.Use(pkgmiddleware.NoStore)

		r.Get("/login", admin.LoginForm)
		r.With(formLimit).Post("/login", admin.Login)
		r.Post("/logout", admin.Logout)

		r.Group(func(r chi.Router) {
			r.Use(pkgmiddleware.RequireAdmin(session.HasSession, loginPath))

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
			})
			r.Get("/dashboard", admin.Dashboard)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.ListCategories)
				r.Get("/new", admin.NewCategory)
				r.Post("/new", admin.CreateCategory)
				r.Get("/{id}/edit", admin.EditCategory)
				r.Post("/{id}/edit", admin.UpdateCategory)
				r.Post("/{id}/delete", admin.DeleteCategory)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", admin.ListProducts)
				r.Get("/new", admin.NewProduct)
				r.Post("/new", admin.CreateProduct)
				r.Get("/{id}/edit", admin.EditProduct)
				r.Post("/{id}/edit", admin.UpdateProduct)
				r.Post("/{id}/delete", admin.DeleteProduct)
			})

			r.Get("/enquiries", admin.ListEnquiries)
			r.Get("/pages/{key}/edit", admin.EditPage)
			r.Post("/pages/{key}/edit", admin.UpdatePage)
		})
	})

	r.NotFound(guest.NotFound)

	return r
}
