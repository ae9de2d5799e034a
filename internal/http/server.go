// Package http is the JSON API over the budget engine. The client owns the
// month cursor and passes it as a query parameter; the server owns "today".
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"finanzas/internal/backup"
	"finanzas/internal/cache"
	"finanzas/internal/records"
	"finanzas/internal/services"
)

const rateLimitPerMinute = 60

type Server struct {
	http.Server

	store        records.Store
	transactions *services.TransactionService
	ledger       *services.ObligationLedger
	planner      *services.BudgetPlanner
	dashboard    *services.Dashboard
	categories   *services.CategoryService
	backups      *backup.Manager

	horizon     int
	limiter     *rateLimiter
	reportCache *cache.LRUCache[services.BudgetReport]

	now func() time.Time
}

func NewServer(port string, store records.Store, horizon int) *Server {
	s := &Server{
		store:        store,
		transactions: services.NewTransactionService(store),
		ledger:       services.NewObligationLedger(store, store),
		planner:      services.NewBudgetPlanner(store),
		dashboard:    services.NewDashboard(store),
		categories:   services.NewCategoryService(store),
		backups:      backup.NewManager(store),
		horizon:      horizon,
		limiter:      newRateLimiter(rateLimitPerMinute),
		reportCache:  cache.NewLRUCache[services.BudgetReport](24, 5*time.Minute),
		now:          time.Now,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(securityHeaders)
	r.Use(s.limiter.middleware)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Route("/api", func(r chi.Router) {
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleAddExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})
		r.Route("/income", func(r chi.Router) {
			r.Get("/", s.handleListIncome)
			r.Post("/", s.handleAddIncome)
			r.Delete("/{id}", s.handleDeleteIncome)
		})
		r.Route("/loans", func(r chi.Router) {
			r.Get("/", s.handleListLoans)
			r.Post("/", s.handleCreateLoan)
			r.Get("/overdue", s.handleOverdue)
			r.Post("/{id}/returns", s.handleReturnUpdate)
			r.Post("/{id}/installments/{seq}/pay", s.handlePayInstallment)
			r.Delete("/{id}", s.handleDeleteLoan)
		})
		r.Route("/credits", func(r chi.Router) {
			r.Get("/", s.handleListCredits)
			r.Post("/", s.handleCreateCredit)
			r.Post("/{id}/payments", s.handleCreditPayment)
			r.Delete("/{id}", s.handleDeleteCredit)
		})
		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Put("/", s.handleSaveBudget)
			r.Get("/report", s.handleBudgetReport)
		})
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/forecast", s.handleForecast)
		r.Get("/dashboard", s.handleDashboard)
		r.Route("/charts", func(r chi.Router) {
			r.Get("/categories", s.handleChartCategories)
			r.Get("/budget", s.handleChartBudget)
			r.Get("/flows", s.handleChartFlows)
			r.Get("/forecast", s.handleChartForecast)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleAddCategory)
			r.Put("/{key}", s.handleUpdateCategory)
			r.Delete("/{key}", s.handleRemoveCategory)
		})
		r.Route("/backup", func(r chi.Router) {
			r.Get("/", s.handleExport)
			r.Post("/", s.handleImport)
			r.Delete("/", s.handleClearAll)
		})
		r.Get("/export/xlsx", s.handleExportXLSX)
	})

	s.Server = http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Shutdown stops the limiter cleanup goroutine and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.Server.Shutdown(ctx)
}

// invalidateReports drops memoized month reports after any write.
func (s *Server) invalidateReports() {
	s.reportCache.Purge()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	// Readiness means the record store answers.
	if _, err := s.store.LoadRegistry(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
