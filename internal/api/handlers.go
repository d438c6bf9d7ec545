package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rplan/retirement-planner/internal/calculation"
	"github.com/rplan/retirement-planner/internal/config"
	"github.com/rplan/retirement-planner/internal/domain"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var account domain.Account
	if err := decodeJSON(r, &account); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.CreateAccount(&account); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *handler) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.store.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	var account domain.Account
	if err := decodeJSON(r, &account); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	account.ID = chi.URLParam(r, "id")
	if err := account.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.UpdateAccount(&account); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAccount(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listHoldings(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	var (
		holdings []domain.Holding
		err      error
	)
	if accountID != "" {
		holdings, err = h.store.ListHoldings(accountID)
	} else {
		holdings, err = h.store.ListAllHoldings()
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, holdings)
}

func (h *handler) createHolding(w http.ResponseWriter, r *http.Request) {
	var holding domain.Holding
	if err := decodeJSON(r, &holding); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.CreateHolding(&holding); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, holding)
}

func (h *handler) updateHolding(w http.ResponseWriter, r *http.Request) {
	var holding domain.Holding
	if err := decodeJSON(r, &holding); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	holding.ID = chi.URLParam(r, "id")
	if err := holding.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.UpdateHolding(&holding); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, holding)
}

func (h *handler) deleteHolding(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteHolding(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getSocialSecurity(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.GetSocialSecurity()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *handler) setSocialSecurity(w http.ResponseWriter, r *http.Request) {
	var cfg domain.SocialSecurityConfig
	if err := decodeJSON(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.SetSocialSecurity(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *handler) getPlannedSpending(w http.ResponseWriter, r *http.Request) {
	spending, err := h.store.GetPlannedSpending()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spending)
}

func (h *handler) setPlannedSpending(w http.ResponseWriter, r *http.Request) {
	var spending domain.PlannedSpending
	if err := decodeJSON(r, &spending); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.SetPlannedSpending(&spending); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, spending)
}

func (h *handler) getTaxConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.GetTaxConfig()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *handler) setTaxConfig(w http.ResponseWriter, r *http.Request) {
	var cfg domain.TaxConfig
	if err := decodeJSON(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.SetTaxConfig(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *handler) listOtherIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.store.ListOtherIncomes()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, incomes)
}

func (h *handler) createOtherIncome(w http.ResponseWriter, r *http.Request) {
	var income domain.OtherIncome
	if err := decodeJSON(r, &income); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.CreateOtherIncome(&income); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, income)
}

func (h *handler) updateOtherIncome(w http.ResponseWriter, r *http.Request) {
	var income domain.OtherIncome
	if err := decodeJSON(r, &income); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	income.ID = chi.URLParam(r, "id")
	if err := income.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.UpdateOtherIncome(&income); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, income)
}

func (h *handler) deleteOtherIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteOtherIncome(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listPlannedExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.ListPlannedFixedExpenses()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *handler) createPlannedExpense(w http.ResponseWriter, r *http.Request) {
	var expense domain.PlannedFixedExpense
	if err := decodeJSON(r, &expense); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.CreatePlannedFixedExpense(&expense); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *handler) deletePlannedExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeletePlannedFixedExpense(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.store.ListScenarios()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *handler) createScenario(w http.ResponseWriter, r *http.Request) {
	var scenario domain.SavedScenario
	if err := decodeJSON(r, &scenario); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.CreateScenario(&scenario); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, scenario)
}

func (h *handler) getScenario(w http.ResponseWriter, r *http.Request) {
	scenario, err := h.store.GetScenario(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scenario)
}

func (h *handler) updateScenario(w http.ResponseWriter, r *http.Request) {
	var scenario domain.SavedScenario
	if err := decodeJSON(r, &scenario); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	scenario.ID = chi.URLParam(r, "id")
	if err := scenario.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.UpdateScenario(&scenario); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scenario)
}

func (h *handler) deleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteScenario(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type duplicatePayload struct {
	Name string `json:"name"`
}

func (h *handler) duplicateScenario(w http.ResponseWriter, r *http.Request) {
	var payload duplicatePayload
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	dup, err := h.store.DuplicateScenario(chi.URLParam(r, "id"), payload.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}

// synthesizeDefaultScenario builds a baseline scenario from the stored
// profile and persists it, replacing any previous default.
func (h *handler) synthesizeDefaultScenario(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.store.Snapshot()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	scenario, err := config.SynthesizeDefaultScenario(snapshot, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.store.ListScenarios()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	for _, sc := range existing {
		if sc.Name == config.DefaultScenarioName {
			scenario.ID = sc.ID
			if err := h.store.UpdateScenario(scenario); err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, scenario)
			return
		}
	}
	if err := h.store.CreateScenario(scenario); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, scenario)
}

func (h *handler) projectScenario(w http.ResponseWriter, r *http.Request) {
	scenario, err := h.store.GetScenario(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	snapshot, err := h.store.Snapshot()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	result, err := h.engine.Project(calculation.ProjectionInput{
		Scenario: scenario,
		Snapshot: snapshot,
		Now:      time.Now(),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type adHocProjectPayload struct {
	Scenario domain.SavedScenario `json:"scenario"`
	Snapshot *domain.Snapshot     `json:"snapshot,omitempty"`
}

// projectAdHoc runs a projection without persisting the scenario. When the
// payload omits a snapshot the stored profile is used.
func (h *handler) projectAdHoc(w http.ResponseWriter, r *http.Request) {
	var payload adHocProjectPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snapshot := payload.Snapshot
	if snapshot == nil {
		stored, err := h.store.Snapshot()
		if err != nil {
			writeStoreError(w, err)
			return
		}
		snapshot = stored
	}
	result, err := h.engine.Project(calculation.ProjectionInput{
		Scenario: &payload.Scenario,
		Snapshot: snapshot,
		Now:      time.Now(),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type comparePayload struct {
	ScenarioIDs []string `json:"scenario_ids"`
}

func (h *handler) compareScenarios(w http.ResponseWriter, r *http.Request) {
	var payload comparePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(payload.ScenarioIDs) == 0 {
		writeError(w, http.StatusBadRequest, "scenario_ids is required")
		return
	}
	scenarios := make([]domain.SavedScenario, 0, len(payload.ScenarioIDs))
	for _, id := range payload.ScenarioIDs {
		scenario, err := h.store.GetScenario(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		scenarios = append(scenarios, *scenario)
	}
	snapshot, err := h.store.Snapshot()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	result, err := h.engine.Compare(scenarios, snapshot, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) projectSimple(w http.ResponseWriter, r *http.Request) {
	var scenario domain.SimpleScenario
	if err := decodeJSON(r, &scenario); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.engine.ProjectSimple(&scenario)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) federalTaxTable(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	year := calculation.NearestTaxYear(time.Now().Year())
	if raw := query.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	status := domain.FilingSingle
	if raw := query.Get("status"); raw != "" {
		status = domain.FilingStatus(raw)
	}
	brackets, err := calculation.FederalBrackets(year, status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deduction, err := calculation.StandardDeduction(year, status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tax_year":           year,
		"filing_status":      status,
		"brackets":           brackets,
		"standard_deduction": deduction,
	})
}

func (h *handler) coloradoTaxTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":     "CO",
		"flat_rate": calculation.ColoradoFlatRate,
	})
}

func (h *handler) standardDeductions(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	deductions := make(map[domain.FilingStatus]decimal.Decimal, len(domain.FilingStatuses))
	for _, status := range domain.FilingStatuses {
		deduction, err := calculation.StandardDeduction(year, status)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		deductions[status] = deduction
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tax_year":   year,
		"deductions": deductions,
	})
}

type seniorDeductionPayload struct {
	FilingStatus domain.FilingStatus `json:"filing_status"`
	PrimaryAge   *int                `json:"primary_age,omitempty"`
	SpouseAge    *int                `json:"spouse_age,omitempty"`
	AnnualIncome *decimal.Decimal    `json:"annual_income,omitempty"`
	TaxYear      int                 `json:"tax_year"`
}

func (h *handler) seniorDeduction(w http.ResponseWriter, r *http.Request) {
	var payload seniorDeductionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.TaxYear == 0 {
		payload.TaxYear = calculation.NearestTaxYear(time.Now().Year())
	}
	taxes := calculation.NewTaxCalculator(nil)
	breakdown, err := taxes.SeniorDeduction(payload.FilingStatus, payload.PrimaryAge, payload.SpouseAge, payload.AnnualIncome, payload.TaxYear)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *handler) returnTable(w http.ResponseWriter, r *http.Request) {
	source := domain.ReturnSource(chi.URLParam(r, "source"))
	table, err := calculation.ReturnsFor(source)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source":  source,
		"returns": table,
	})
}
