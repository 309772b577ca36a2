package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calibano/stockroom-backend/api/controllers"
	"github.com/calibano/stockroom-backend/api/middleware"
	"github.com/calibano/stockroom-backend/internal/auth"
	inventorysvc "github.com/calibano/stockroom-backend/internal/inventory"
	ordersvc "github.com/calibano/stockroom-backend/internal/orders"
	"github.com/calibano/stockroom-backend/pkg/auth/session"
	"github.com/calibano/stockroom-backend/pkg/config"
	"github.com/calibano/stockroom-backend/pkg/logger"
	"github.com/calibano/stockroom-backend/pkg/metrics"
	pkgredis "github.com/calibano/stockroom-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Params carries everything the router needs to wire the API surface.
type Params struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               controllers.Pinger
	Redis            *pkgredis.Client
	SessionManager   sessionManager
	AuthService      auth.Service
	RegisterService  auth.RegisterService
	InventoryService inventorysvc.Service
	OrderService     ordersvc.Service
	HTTPMetrics      *metrics.HTTPMetrics
	MetricsRegistry  *prometheus.Registry
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	var idemStore pkgredis.IdempotencyStore
	pingers := map[string]controllers.Pinger{"database": p.DB}
	if p.Redis != nil {
		idemStore = p.Redis
		pingers["redis"] = p.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if p.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.Idempotency(idemStore, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListInventory(p.InventoryService, logg))
			r.Post("/", controllers.CreateInventory(p.InventoryService, logg))
			r.Get("/after/{date}", controllers.ListInventoryCreatedAfter(p.InventoryService, logg))
			lookups := []struct {
				path string
				kind inventorysvc.LookupKind
				list http.HandlerFunc
			}{
				{"/types", inventorysvc.LookupType, controllers.ListInventoryTypes(p.InventoryService, logg)},
				{"/languages", inventorysvc.LookupLanguage, controllers.ListInventoryLanguages(p.InventoryService, logg)},
				{"/tags", inventorysvc.LookupTag, controllers.ListInventoryTags(p.InventoryService, logg)},
			}
			for _, lookup := range lookups {
				kind := lookup.kind
				r.Route(lookup.path, func(r chi.Router) {
					r.Get("/", lookup.list)
					r.Post("/", controllers.CreateInventoryLookup(p.InventoryService, kind, logg))
					r.Get("/{lookupId}", controllers.GetInventoryLookup(p.InventoryService, kind, logg))
					r.Put("/{lookupId}", controllers.UpdateInventoryLookup(p.InventoryService, kind, logg))
					r.Patch("/{lookupId}", controllers.UpdateInventoryLookup(p.InventoryService, kind, logg))
					r.Delete("/{lookupId}", controllers.DeleteInventoryLookup(p.InventoryService, kind, logg))
				})
			}
			r.Get("/{inventoryId}", controllers.GetInventory(p.InventoryService, logg))
			r.Put("/{inventoryId}", controllers.UpdateInventory(p.InventoryService, logg))
			r.Patch("/{inventoryId}", controllers.UpdateInventory(p.InventoryService, logg))
			r.Delete("/{inventoryId}", controllers.DeleteInventory(p.InventoryService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(p.OrderService, logg))
			r.Post("/", controllers.CreateOrder(p.OrderService, logg))
			r.Get("/between/{startDate}/{embargoDate}", controllers.ListOrdersBetween(p.OrderService, logg))
			r.Get("/by-tag/{tag}", controllers.ListOrdersByTag(p.OrderService, logg))
			r.Get("/tags", controllers.ListAllOrderTags(p.OrderService, logg))
			r.Post("/tags", controllers.CreateOrderTag(p.OrderService, logg))
			r.Get("/{orderId}", controllers.GetOrder(p.OrderService, logg))
			r.Put("/{orderId}", controllers.UpdateOrder(p.OrderService, logg))
			r.Patch("/{orderId}", controllers.UpdateOrder(p.OrderService, logg))
			r.Delete("/{orderId}", controllers.DeleteOrder(p.OrderService, logg))
			r.Get("/{orderId}/tags", controllers.ListOrderTags(p.OrderService, logg))
			r.Post("/{orderId}/deactivate", controllers.DeactivateOrder(p.OrderService, logg))
		})
	})

	return r
}
