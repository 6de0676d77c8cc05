// Package api mounts the HTTP surface of the billing service: identity
// endpoints, the plan catalog, and the subscription/invoice operations
// of the billing orchestrator.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shieldstack/billing/pkg/logger"
	"github.com/shieldstack/billing/svc/billing"
	"github.com/shieldstack/billing/svc/plan"
	"github.com/shieldstack/billing/svc/user"
)

// Deps collects the services the API exposes. Health checks are keyed by
// dependency name and reported individually by the health endpoint.
type Deps struct {
	Users   *user.Service
	Tokens  *user.TokenIssuer
	Plans   *plan.Service
	Billing *billing.Service
	Health  map[string]func(context.Context) error
	Logger  *slog.Logger
}

// NewRouter builds the HTTP router. All billing operations require a
// bearer token; plan listing, registration, login, and health do not.
func NewRouter(deps Deps) http.Handler {
	if deps.Users == nil || deps.Tokens == nil || deps.Plans == nil || deps.Billing == nil {
		panic("api.NewRouter: nil dependency")
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	h := &handlers{
		users:   deps.Users,
		tokens:  deps.Tokens,
		plans:   deps.Plans,
		billing: deps.Billing,
		health:  deps.Health,
		log:     log.With(logger.Component("api")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.healthcheck)
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Get("/plans", h.listPlans)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Post("/plans", h.createPlan)
		r.Post("/subscriptions", h.subscribe)
		r.Put("/subscriptions/{subscriptionID}/cancel", h.cancelSubscription)
		r.Post("/subscriptions/{subscriptionID}/simulate-failure", h.simulateFailure)
		r.Get("/users/{userID}/subscriptions", h.listSubscriptions)
		r.Get("/users/{userID}/invoices", h.listInvoices)
		r.Post("/invoices/{invoiceID}/pay", h.payInvoice)
	})

	return r
}

type handlers struct {
	users   *user.Service
	tokens  *user.TokenIssuer
	plans   *plan.Service
	billing *billing.Service
	health  map[string]func(context.Context) error
	log     *slog.Logger
}
