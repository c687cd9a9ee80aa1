// Package api exposes the ledger over HTTP as a JSON API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitledger/internal/service"
)

// NewRouter constructs the HTTP handler with all endpoints registered.
func NewRouter(svc *service.LedgerService) http.Handler {
	h := newHandler(svc)
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/people", h.addPerson)
		r.Get("/people", h.listPeople)
		r.Delete("/people/{name}", h.removePerson)
		r.Post("/expenses", h.addExpense)
		r.Get("/expenses", h.listExpenses)
		r.Delete("/expenses/{id}", h.removeExpense)
		r.Get("/balances", h.balances)
		r.Get("/settlements", h.settlements)
	})

	return r
}
