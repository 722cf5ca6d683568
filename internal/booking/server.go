package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"savvycal/pkg/middleware"
)

const serviceName = "booking-demo"

// Handler builds the HTTP handler with routes and middleware.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(a.Log))
	r.Use(middleware.Tracing(serviceName))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/.well-known/openapi.json", Routes.ServeHandler("SavvyCal booking demo", "v1", a.PublicURL))

	r.Group(func(br chi.Router) {
		br.Use(middleware.CORS(a.CORSOrigins))
		br.Options("/services/*", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		br.Get("/services/{service_id}/earliest", a.getEarliest)
		br.Get("/services/{service_id}/slots", a.getSlots)
		br.Post("/services/{service_id}/appointments", a.createAppointment)
	})
	return r
}
