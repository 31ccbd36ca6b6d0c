package routers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/partycurrency/payment-service/internal/di"
	http2 "github.com/partycurrency/payment-service/internal/infrastructure/api/http"
	"github.com/partycurrency/payment-service/internal/infrastructure/api/middlewares"
)

func NewRouter(container *di.Container) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{container.FrontendBaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticated := middlewares.AuthMiddleware(container.TokenIssuer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			ah := container.AuthHandler
			r.Post("/signup", ah.Signup)
			r.Post("/login", ah.Login)
		})

		r.Route("/events", func(r chi.Router) {
			eh := container.EventHandler
			r.Get(fmt.Sprintf("/{%s}", http2.EventIDParam), eh.Get)
			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/", eh.Create)
				r.Get("/", eh.List)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			ph := container.PaymentHandler
			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/transactions", ph.CreateTransaction)
			})
			r.Post("/initialize", ph.InitializeTransaction)
			r.Get("/callback", ph.Callback)
			r.Group(func(r chi.Router) {
				r.Use(middlewares.WebhookSignatureMiddleware(container.WebhookSecret))
				r.Post("/webhook", ph.Webhook)
			})
		})

		r.Route("/merchant", func(r chi.Router) {
			r.Use(authenticated)
			mh := container.MerchantHandler
			r.Post("/reserved-accounts", mh.CreateReservedAccount)
			r.Delete(fmt.Sprintf("/reserved-accounts/{%s}", http2.AccountReferenceParam), mh.DeleteReservedAccount)
			r.Get("/transactions", mh.ListAccountTransactions)
		})

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return router
}
