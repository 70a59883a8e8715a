package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tiendalopez/pos-backend/api/controllers"
	"github.com/tiendalopez/pos-backend/api/middleware"
	"github.com/tiendalopez/pos-backend/internal/audit"
	authsvc "github.com/tiendalopez/pos-backend/internal/auth"
	"github.com/tiendalopez/pos-backend/internal/branches"
	"github.com/tiendalopez/pos-backend/internal/cart"
	"github.com/tiendalopez/pos-backend/internal/catalog"
	checkoutsvc "github.com/tiendalopez/pos-backend/internal/checkout"
	"github.com/tiendalopez/pos-backend/internal/reports"
	"github.com/tiendalopez/pos-backend/internal/sales"
	"github.com/tiendalopez/pos-backend/internal/subscription"
	"github.com/tiendalopez/pos-backend/internal/users"
	"github.com/tiendalopez/pos-backend/pkg/auth/session"
	"github.com/tiendalopez/pos-backend/pkg/config"
	"github.com/tiendalopez/pos-backend/pkg/db"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	"github.com/tiendalopez/pos-backend/pkg/logger"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Sessions *session.Manager

	Catalog      *catalog.Repository
	Users        *users.Repository
	Branches     *branches.Service
	Auth         *authsvc.Service
	Cart         *cart.Service
	Checkout     *checkoutsvc.Service
	Sales        *sales.Service
	Reports      *reports.Service
	Subscription *subscription.Service
	Audit        *audit.Service

	Metrics prometheus.Gatherer
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.Catalog, logg))
			r.Get("/categories", controllers.ProductCategories(logg))
			r.Get("/barcode/{code}", controllers.ProductByBarcode(deps.Catalog, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.RoleOwner), string(enums.RoleAdmin)))
				r.Post("/", controllers.ProductCreate(deps.Catalog, logg))
				r.Put("/{productID}", controllers.ProductUpdate(deps.Catalog, logg))
				r.Post("/{productID}/active", controllers.ProductSetActive(deps.Catalog, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Post("/items/barcode", controllers.CartAddByBarcode(deps.Cart, logg))
			r.Post("/items/weighed", controllers.CartAddWeighed(deps.Cart, logg))
			r.Patch("/items/{productID}", controllers.CartChangeQuantity(deps.Cart, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Post("/discount", controllers.CartApplyDiscount(deps.Cart, deps.Users, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutPay(deps.Checkout, deps.Users, logg))
			r.Get("/status", controllers.CheckoutStatus(deps.Checkout, logg))
			r.Post("/cancel", controllers.CheckoutCancel(deps.Checkout, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(deps.Sales, logg))
			r.Get("/{saleID}", controllers.SaleGet(deps.Sales, logg))
			r.Get("/{saleID}/receipt", controllers.SaleReceipt(deps.Sales, cfg.Business, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.RoleOwner), string(enums.RoleAdmin)))
				r.Post("/{saleID}/cancel", controllers.SaleCancel(deps.Sales, deps.Users, logg))
				r.Post("/{saleID}/refund", controllers.SaleRefund(deps.Sales, deps.Users, logg))
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.RoleOwner), string(enums.RoleAdmin)))
			r.Get("/daily", controllers.ReportsDaily(deps.Reports, logg))
			r.Get("/weekly", controllers.ReportsWeekly(deps.Reports, logg))
		})

		r.Route("/branches", func(r chi.Router) {
			r.Get("/", controllers.BranchesList(deps.Branches, logg))
			r.With(middleware.RequireRole(logg, string(enums.RoleOwner))).
				Post("/{branchID}/active", controllers.BranchSetActive(deps.Branches, deps.Users, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.RoleOwner), string(enums.RoleAdmin)))
			r.Get("/", controllers.UsersList(deps.Users, logg))
		})

		r.Route("/subscription", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.RoleOwner), string(enums.RoleAdmin)))
			r.Get("/", controllers.SubscriptionGet(deps.Subscription, logg))
			r.Get("/payments", controllers.SubscriptionPayments(deps.Subscription, logg))
		})

		r.Route("/audit", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.RoleOwner), string(enums.RoleAdmin)))
			r.Get("/", controllers.AuditList(deps.Audit, logg))
		})
	})

	return r
}
