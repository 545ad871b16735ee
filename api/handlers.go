/*
handlers.go - HTTP API handlers for the finance advisor

PURPOSE:
  Exposes the ledger, the analytics engine and the advice engine via a
  REST API. Handles HTTP request/response, JSON serialization, and
  delegates to domain logic.

ENDPOINTS:
  Transactions:
    GET    /api/transactions?days=&limit=  Most recent first
    POST   /api/transactions               Record income or expense
    DELETE /api/transactions/{id}          Remove one entry

  Budgets:
    GET    /api/budgets                    List budgets
    POST   /api/budgets                    Set (replace) a category budget

  Categories:
    GET    /api/categories
    POST   /api/categories

  Insights:
    GET    /api/summary?days=              Totals, category spend, budgets
    GET    /api/ai-advice                  Ordered advice items
    GET    /api/analytics?weeks=&days=     Weekly series and category trends

  Scenarios:
    GET    /api/scenarios                  List demo scenarios
    GET    /api/scenarios/current
    POST   /api/scenarios/load             Reset and load a demo ledger

  Admin:
    POST   /api/reset                      Clear all data (dev only)
    GET    /healthz

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid windows, malformed bodies
  - 404: Transaction not found
  - 500: Store failures

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/warp/finance-advisor/advice"
	"github.com/warp/finance-advisor/analytics"
	"github.com/warp/finance-advisor/ledger"
)

const (
	defaultSummaryDays   = 30
	defaultAnalyticsDays = 30
	defaultWeeks         = 4
)

// Store is everything the handlers need from persistence.
type Store interface {
	ledger.AdminStore
	ledger.CategoryStore
}

// pinger is implemented by stores that can report connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     Store
	Analytics *analytics.Engine
	Advisor   *advice.Engine
	Logger    *logrus.Logger

	mu              sync.Mutex
	currentScenario string
}

// NewHandler wires the engines over store. opts configure the analytics
// engine (tests pin the clock with analytics.WithClock).
func NewHandler(store Store, cfg advice.Config, logger *logrus.Logger, opts ...analytics.Option) *Handler {
	engine := analytics.NewEngine(store, opts...)
	return &Handler{
		Store:     store,
		Analytics: engine,
		Advisor:   advice.NewEngine(engine, cfg),
		Logger:    logger,
	}
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns transactions, most recent first.
// GET /api/transactions?days=&limit=
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var filter ledger.Filter

	days, ok, err := queryInt(r, "days")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
		return
	}
	if ok {
		if err := ledger.CheckWindow(days, "days"); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
			return
		}
		since := h.Analytics.Now().Add(-analytics.Days(days))
		filter.MinTimestamp = &since
	}

	limit, ok, err := queryInt(r, "limit")
	if err != nil || (ok && limit < 0) {
		writeError(w, http.StatusBadRequest, "Invalid limit parameter", err)
		return
	}
	filter.Limit = limit

	txs, err := h.Store.QueryTransactions(r.Context(), filter)
	if err != nil {
		h.writeDomainError(w, r, "Failed to list transactions", err)
		return
	}

	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTransaction records an income or expense.
// POST /api/transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind, err := ledger.ParseKind(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction type", err)
		return
	}
	at := h.Analytics.Now()
	if req.Date != nil {
		at = *req.Date
	}

	tx, err := ledger.NewTransaction(req.Amount, req.Category, req.Description, kind, at)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction", err)
		return
	}
	if err := h.Store.AppendTransaction(r.Context(), tx); err != nil {
		h.writeDomainError(w, r, "Failed to add transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{
		Success: true,
		Message: fmt.Sprintf("%s of $%s added successfully!", capitalize(string(kind)), tx.Amount.StringFixed(2)),
		ID:      string(tx.ID),
	})
}

// DeleteTransaction removes a single transaction.
// DELETE /api/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.TransactionID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteTransaction(r.Context(), id); err != nil {
		h.writeDomainError(w, r, "Failed to delete transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Transaction deleted",
		ID:      string(id),
	})
}

// =============================================================================
// BUDGET HANDLERS
// =============================================================================

// ListBudgets returns budgets ordered by category.
// GET /api/budgets
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.Store.QueryBudgets(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to list budgets", err)
		return
	}

	dtos := make([]BudgetDTO, len(budgets))
	for i, b := range budgets {
		dtos[i] = toBudgetDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SetBudget sets or replaces the monthly budget for a category.
// POST /api/budgets
func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	var req SetBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	budget, err := ledger.NewBudget(req.Category, req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid budget", err)
		return
	}
	budget.CreatedAt = h.Analytics.Now()
	if err := h.Store.SetBudget(r.Context(), budget); err != nil {
		h.writeDomainError(w, r, "Failed to set budget", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Budget set: $%s for %s", budget.MonthlyAmount.StringFixed(2), budget.Category),
	})
}

// =============================================================================
// CATEGORY HANDLERS
// =============================================================================

// GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	names, err := h.Store.ListCategories(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to list categories", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// POST /api/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Store.AddCategory(r.Context(), req.Name); err != nil {
		h.writeDomainError(w, r, "Failed to add category", err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Category added: %s", strings.TrimSpace(req.Name)),
	})
}

// =============================================================================
// INSIGHT HANDLERS
// =============================================================================

// GetSummary returns totals, category spend and budget status.
// GET /api/summary?days=
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	days, err := queryIntDefault(r, "days", defaultSummaryDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
		return
	}

	summary, err := h.Analytics.Summary(r.Context(), days)
	if err != nil {
		h.writeDomainError(w, r, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// GetAdvice returns the ordered advice list. Never empty.
// GET /api/ai-advice
func (h *Handler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	items, err := h.Advisor.Generate(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to generate advice", err)
		return
	}
	writeJSON(w, http.StatusOK, toAdviceDTOs(items))
}

// GetAnalytics returns the weekly expense series and category trends,
// both computed from one snapshot.
// GET /api/analytics?weeks=&days=
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	weeks, err := queryIntDefault(r, "weeks", defaultWeeks)
	if err == nil {
		err = ledger.CheckWindow(weeks, "weeks")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid weeks parameter", err)
		return
	}
	days, err := queryIntDefault(r, "days", defaultAnalyticsDays)
	if err == nil {
		err = ledger.CheckWindow(days, "days")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
		return
	}

	horizon := analytics.Weeks(weeks)
	if d := analytics.Days(days); d > horizon {
		horizon = d
	}
	snap, err := h.Analytics.Snapshot(r.Context(), horizon)
	if err != nil {
		h.writeDomainError(w, r, "Failed to load analytics", err)
		return
	}

	series, err := analytics.WeeklySeries(snap, weeks)
	if err != nil {
		h.writeDomainError(w, r, "Failed to compute weekly spending", err)
		return
	}
	trends, err := analytics.SpendingByCategory(snap, days)
	if err != nil {
		h.writeDomainError(w, r, "Failed to compute category trends", err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyticsResponse{
		WeeklySpending: toWeeklyDTOs(series),
		CategoryTrends: toSpendingMap(trends),
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all transactions and budgets.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.writeDomainError(w, r, "Failed to reset database", err)
		return
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	h.Logger.WithField("component", "api").Warn("database reset")

	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Database reset"})
}

// Health reports whether the store is reachable.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps ledger errors to a status and logs server faults.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.WithFields(logrus.Fields{
			"component":  "api",
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
		}).WithError(err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) (value int, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, &ledger.ValidationError{Field: name, Value: raw, Err: err}
	}
	return value, true, nil
}

func queryIntDefault(r *http.Request, name string, def int) (int, error) {
	value, ok, err := queryInt(r, name)
	if err != nil || !ok {
		return def, err
	}
	return value, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
