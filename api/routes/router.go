package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasferraz/ordersys-backend/api/controllers"
	"github.com/lucasferraz/ordersys-backend/api/middleware"
	"github.com/lucasferraz/ordersys-backend/internal/customers"
	"github.com/lucasferraz/ordersys-backend/internal/orders"
	"github.com/lucasferraz/ordersys-backend/internal/products"
	"github.com/lucasferraz/ordersys-backend/pkg/config"
	"github.com/lucasferraz/ordersys-backend/pkg/logger"
	"github.com/lucasferraz/ordersys-backend/pkg/metrics"
	pkgredis "github.com/lucasferraz/ordersys-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on. Metrics and
// the idempotency store are optional; the services are not.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *pkgredis.Client
	Registry *prometheus.Registry

	Products  products.Service
	Customers customers.Service
	Orders    orders.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(),
	)

	if p.Registry != nil {
		httpMetrics := metrics.NewHTTPMetrics(p.Registry)
		r.Use(middleware.Metrics(httpMetrics))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, map[string]controllers.Pinger{
			"database": p.DB,
			"redis":    redisPinger(p.Redis),
		}))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if p.Redis != nil {
			if p.Config != nil {
				policy := middleware.NewRateLimitPolicy("api", p.Config.RateLimit.Window, p.Config.RateLimit.Limit)
				r.Use(middleware.RateLimit(policy, p.Redis, p.Logger))
			}
			r.Use(middleware.Idempotency(p.Redis, p.Logger))
		}

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(p.Products, p.Logger))
			r.Get("/", controllers.ListProducts(p.Products, p.Logger))
			r.Get("/{id}", controllers.GetProduct(p.Products, p.Logger))
			r.Put("/{id}", controllers.UpdateProduct(p.Products, p.Logger))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(p.Customers, p.Logger))
			r.Get("/", controllers.ListCustomers(p.Customers, p.Logger))
			r.Get("/{id}", controllers.GetCustomer(p.Customers, p.Logger))
			r.Put("/{id}", controllers.UpdateCustomer(p.Customers, p.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.AddOrder(p.Orders, p.Logger))
			r.Get("/", controllers.ListOrders(p.Orders, p.Logger))
			r.Get("/{id}", controllers.GetOrder(p.Orders, p.Logger))
			r.Put("/{id}", controllers.EditOrder(p.Orders, p.Logger))
			r.Post("/{id}/charge", controllers.ChargeOrder(p.Orders, p.Logger))
			r.Post("/{id}/cancel", controllers.CancelOrder(p.Orders, p.Logger))
		})
	})

	return r
}

// redisPinger avoids handing a typed-nil *Client to the health check.
func redisPinger(c *pkgredis.Client) controllers.Pinger {
	if c == nil {
		return nil
	}
	return c
}
