package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/user/site-cloner/internal/delivery/http/handler"
	"github.com/user/site-cloner/internal/delivery/http/middleware"
	"github.com/user/site-cloner/pkg/metrics"
	"go.uber.org/zap"
)

// New builds the service router. requestTimeout bounds every request and must
// cover a full scrape plus generation.
func New(h *handler.Handler, logger *zap.Logger, requestTimeout time.Duration) http.Handler {
	metrics.Init()
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.Metrics)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/api/health", h.HandleHealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Get("/", h.HandleRoot)
		r.Post("/clone", h.HandleClone)

		r.Route("/api", func(r chi.Router) {
			r.Get("/history", h.HandleHistory)
			r.Route("/clones/{id}", func(r chi.Router) {
				r.Get("/", h.HandleGetClone)
				r.Get("/preview", h.HandlePreview)
				r.Get("/code", h.HandleCode)
			})
		})
	})

	return r
}
