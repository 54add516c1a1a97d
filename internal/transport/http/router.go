package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/telos-kitchen/account-service/internal/application/account"
	"github.com/telos-kitchen/account-service/internal/config"
	"github.com/telos-kitchen/account-service/internal/transport/http/handler"
	appmiddleware "github.com/telos-kitchen/account-service/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the mutating endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	accountSvc := account.NewService(deps.GrantRepo, deps.Ledger, deps.SMSSender, config.AllowDeleteNumber)

	healthH := handler.NewHealthHandler()
	regH := handler.NewRegistrationHandler(accountSvc, deps.Reporter)
	keygenH := handler.NewKeygenHandler(accountSvc, deps.Reporter)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/registrations", regH.Create)
		r.Get("/registrations/check", regH.Check)
		r.With(sensitiveRL.Limit).Delete("/registrations", regH.Delete)

		r.Get("/keygen", keygenH.Generate)
	})

	return r
}
