/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RequestLogger: logrus line per request (method, path, status, duration)
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests for the web client

ROUTE GROUPS:
  /api/transactions/*   Ledger entries
  /api/budgets          Category budgets
  /api/categories       Known categories
  /api/summary          30-day overview
  /api/ai-advice        Rule-based advice
  /api/analytics        Weekly series and category trends
  /api/scenarios/*      Demo ledgers
  /api/reset            Database reset (dev only)
  /healthz              Liveness and store connectivity

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/advisor/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions tunes the router around the handlers.
type RouterOptions struct {
	// AllowedOrigins for CORS. Empty means "*".
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		r.Get("/budgets", h.ListBudgets)
		r.Post("/budgets", h.SetBudget)

		r.Get("/categories", h.ListCategories)
		r.Post("/categories", h.CreateCategory)

		r.Get("/summary", h.GetSummary)
		r.Get("/ai-advice", h.GetAdvice)
		r.Get("/analytics", h.GetAnalytics)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
