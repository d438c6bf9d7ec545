package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rplan/retirement-planner/internal/calculation"
	"github.com/rplan/retirement-planner/internal/store"
)

// NewRouter builds the HTTP API router.
func NewRouter(st *store.Store, engine *calculation.Engine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{store: st, engine: engine, logger: logger}

	r.Get("/api/health", h.health)

	// Accounts and holdings
	r.Get("/api/accounts", h.listAccounts)
	r.Post("/api/accounts", h.createAccount)
	r.Get("/api/accounts/{id}", h.getAccount)
	r.Put("/api/accounts/{id}", h.updateAccount)
	r.Delete("/api/accounts/{id}", h.deleteAccount)
	r.Get("/api/holdings", h.listHoldings)
	r.Post("/api/holdings", h.createHolding)
	r.Put("/api/holdings/{id}", h.updateHolding)
	r.Delete("/api/holdings/{id}", h.deleteHolding)

	// Profile singletons
	r.Get("/api/social-security", h.getSocialSecurity)
	r.Put("/api/social-security", h.setSocialSecurity)
	r.Get("/api/planned-spending", h.getPlannedSpending)
	r.Put("/api/planned-spending", h.setPlannedSpending)
	r.Get("/api/tax-config", h.getTaxConfig)
	r.Put("/api/tax-config", h.setTaxConfig)

	// Other income streams
	r.Get("/api/other-income", h.listOtherIncomes)
	r.Post("/api/other-income", h.createOtherIncome)
	r.Put("/api/other-income/{id}", h.updateOtherIncome)
	r.Delete("/api/other-income/{id}", h.deleteOtherIncome)

	// Profile-level fixed expenses
	r.Get("/api/planned-expenses", h.listPlannedExpenses)
	r.Post("/api/planned-expenses", h.createPlannedExpense)
	r.Delete("/api/planned-expenses/{id}", h.deletePlannedExpense)

	// Scenarios and projections
	r.Get("/api/scenarios", h.listScenarios)
	r.Post("/api/scenarios", h.createScenario)
	r.Post("/api/scenarios/default", h.synthesizeDefaultScenario)
	r.Post("/api/scenarios/project", h.projectAdHoc)
	r.Post("/api/scenarios/compare", h.compareScenarios)
	r.Get("/api/scenarios/{id}", h.getScenario)
	r.Put("/api/scenarios/{id}", h.updateScenario)
	r.Delete("/api/scenarios/{id}", h.deleteScenario)
	r.Post("/api/scenarios/{id}/project", h.projectScenario)
	r.Post("/api/scenarios/{id}/duplicate", h.duplicateScenario)
	r.Post("/api/projections/simple", h.projectSimple)

	// Reference tables
	r.Get("/api/tax-tables/us-federal", h.federalTaxTable)
	r.Get("/api/tax-tables/colorado", h.coloradoTaxTable)
	r.Get("/api/tax-tables/standard-deductions/{year}", h.standardDeductions)
	r.Post("/api/tax/senior-deduction", h.seniorDeduction)
	r.Get("/api/returns/{source}", h.returnTable)

	return r
}

type handler struct {
	store  *store.Store
	engine *calculation.Engine
	logger *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps missing rows to 404 and everything else to 500.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
