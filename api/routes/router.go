package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emiliocantu/stockroom-backend/api/controllers"
	"github.com/emiliocantu/stockroom-backend/api/middleware"
	"github.com/emiliocantu/stockroom-backend/internal/editor"
	"github.com/emiliocantu/stockroom-backend/internal/options"
	product "github.com/emiliocantu/stockroom-backend/internal/products"
	"github.com/emiliocantu/stockroom-backend/pkg/config"
	"github.com/emiliocantu/stockroom-backend/pkg/logger"
	"github.com/emiliocantu/stockroom-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db controllers.Pinger,
	cache controllers.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	optionsService options.Service,
	productService product.Service,
	editorService editor.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, db, cache))
	})

	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.StoreContext(logg))

		r.Route("/option-groups", func(r chi.Router) {
			r.Get("/", controllers.ListOptionGroups(optionsService, logg))
			r.Post("/", controllers.CreateOptionGroup(optionsService, logg))
			r.Get("/{groupId}", controllers.GetOptionGroup(optionsService, logg))
			r.Put("/{groupId}", controllers.UpdateOptionGroup(optionsService, logg))
			r.Delete("/{groupId}", controllers.DeleteOptionGroup(optionsService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/{productId}", controllers.GetProduct(productService, logg))
			r.Put("/{productId}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(productService, logg))
		})

		r.Route("/editor/sessions", func(r chi.Router) {
			r.Post("/", controllers.OpenEditorSession(editorService, logg))

			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.GetEditorSession(editorService, logg))
				r.Delete("/", controllers.CloseEditorSession(editorService, logg))
				r.Patch("/base", controllers.UpdateEditorBase(editorService, logg))
				r.Post("/product-type", controllers.SetEditorProductType(editorService, logg))
				r.Post("/submit", controllers.SubmitEditorSession(editorService, logg))

				r.Route("/option-groups", func(r chi.Router) {
					r.Post("/", controllers.AddEditorOptionGroup(editorService, logg))
					r.Delete("/", controllers.ClearEditorOptionGroups(editorService, logg))
					r.Delete("/{index}", controllers.RemoveEditorOptionGroup(editorService, logg))
				})

				r.Route("/variants", func(r chi.Router) {
					r.Post("/generate", controllers.GenerateEditorVariants(editorService, logg))
					r.Post("/toggle-all", controllers.ToggleAllEditorVariants(editorService, logg))
					r.Patch("/{index}", controllers.UpdateEditorVariant(editorService, logg))
					r.Post("/{index}/toggle", controllers.ToggleEditorVariant(editorService, logg))
					r.Delete("/{index}", controllers.RemoveEditorVariant(editorService, logg))
				})

				r.Route("/bundle", func(r chi.Router) {
					r.Get("/search", controllers.SearchEditorComponents(editorService, logg))
					r.Route("/components", func(r chi.Router) {
						r.Post("/", controllers.AddEditorBundleComponent(editorService, logg))
						r.Patch("/{productId}", controllers.UpdateEditorBundleQuantity(editorService, logg))
						r.Delete("/{productId}", controllers.RemoveEditorBundleComponent(editorService, logg))
					})
				})
			})
		})
	})

	return r
}
