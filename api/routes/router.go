package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/leadquote-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/leadquote-backend/api/controllers/cart"
	"github.com/angelmondragon/leadquote-backend/api/middleware"
	"github.com/angelmondragon/leadquote-backend/pkg/config"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

// Deps are the services the HTTP surface is built from. DB and Redis may be nil.
type Deps struct {
	DB        controllers.Pinger
	Redis     controllers.Pinger
	Carts     cartcontrollers.Registry
	Discounts cartcontrollers.DiscountIndexer
	Pricing   cartcontrollers.PricingService
	Gatherer  prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/leads/{leadId}", func(r chi.Router) {
		r.Use(middleware.LeadContext(logg))

		r.Post("/convert", cartcontrollers.LeadConvert(deps.Carts, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(deps.Carts, deps.Discounts, logg))

			r.Post("/items", cartcontrollers.ItemAdd(deps.Carts, logg))
			r.Route("/items/{itemId}", func(r chi.Router) {
				r.Put("/", cartcontrollers.ItemReplace(deps.Carts, logg))
				r.Patch("/", cartcontrollers.ItemInlineEdit(deps.Carts, logg))
				r.Delete("/", cartcontrollers.ItemRemove(deps.Carts, logg))
				r.Post("/pricing", cartcontrollers.ItemPricingCalculate(deps.Carts, deps.Pricing, logg))
				r.Post("/pricing/apply", cartcontrollers.ItemPricingApply(deps.Carts, deps.Pricing, logg))
			})

			r.Post("/pricing/calculate-all", cartcontrollers.PricingCalculateAll(deps.Carts, deps.Pricing, logg))
			r.Post("/pricing/apply-all", cartcontrollers.PricingApplyAll(deps.Carts, deps.Pricing, logg))

			r.Post("/stock/refresh", cartcontrollers.StockRefresh(deps.Carts, logg))
			r.Get("/stock/issues", cartcontrollers.StockIssues(deps.Carts, logg))
		})
	})

	return r
}
