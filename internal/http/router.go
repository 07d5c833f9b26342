package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hqnguyen/remitd/internal/http/notification"
	"github.com/hqnguyen/remitd/internal/http/payment"
	"github.com/hqnguyen/remitd/internal/http/statement"
	"github.com/hqnguyen/remitd/internal/http/transaction"
	"github.com/hqnguyen/remitd/internal/http/webhook"
)

func New(
	notificationsV1 *notification.Handler,
	transactionsV1 *transaction.Handler,
	statementsV1 *statement.Handler,
	paymentsV1 *payment.Handler,
	webhookV1 *webhook.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-KEY"},
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Post("/webhook/tax-invoice/{companyUUID}", webhookV1.TaxInvoice)
	router.Get("/download/bulk-transfer", paymentsV1.Download)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/notifications", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			notificationsV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/statements", statementsV1.Routes)

		r.Route("/payments", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			paymentsV1.Routes(r)
		})
	})

	return router
}
