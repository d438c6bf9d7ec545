package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rplan/retirement-planner/internal/domain"
)

// CreateScenario inserts a scenario and its fixed expenses in one
// transaction.
func (s *Store) CreateScenario(sc *domain.SavedScenario) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sc.CreatedAt = now
	sc.UpdatedAt = now

	allocation, err := json.Marshal(sc.AssetAllocation)
	if err != nil {
		return fmt.Errorf("encoding asset allocation: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO saved_scenarios (id, name, description, ss_start_age_years, ss_start_age_months,
			monthly_spending, annual_lump_spending, inflation_adjusted_percent, spending_reduction_percent,
			spending_reduction_start_year, projection_years, asset_allocation, return_source,
			custom_return_percent, inflation_rate, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sc.ID, sc.Name, sc.Description, sc.SSStartAgeYears, sc.SSStartAgeMonths,
		sc.MonthlySpending.String(), sc.AnnualLumpSpending.String(),
		sc.InflationAdjustedPercent.String(), sc.SpendingReductionPercent.String(),
		nullInt(sc.SpendingReductionStartYear), sc.ProjectionYears, string(allocation),
		string(sc.ReturnSource), nullDecimal(sc.CustomReturnPercent), sc.InflationRate.String(),
		now, now)
	if err != nil {
		return err
	}

	for i := range sc.FixedExpenses {
		fe := &sc.FixedExpenses[i]
		if fe.ID == "" {
			fe.ID = uuid.NewString()
		}
		fe.ScenarioID = sc.ID
		if err := insertFixedExpense(tx, fe); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetScenario returns one scenario with its fixed expenses, or ErrNotFound.
func (s *Store) GetScenario(id string) (*domain.SavedScenario, error) {
	row := s.db.QueryRow(`
		SELECT id, name, description, ss_start_age_years, ss_start_age_months,
			monthly_spending, annual_lump_spending, inflation_adjusted_percent, spending_reduction_percent,
			spending_reduction_start_year, projection_years, asset_allocation, return_source,
			custom_return_percent, inflation_rate, created_at, updated_at
		FROM saved_scenarios WHERE id = ?
	`, id)
	sc, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scenario %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if sc.FixedExpenses, err = s.listFixedExpenses(id); err != nil {
		return nil, err
	}
	return sc, nil
}

// ListScenarios returns all scenarios with their fixed expenses, ordered by
// name.
func (s *Store) ListScenarios() ([]domain.SavedScenario, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, ss_start_age_years, ss_start_age_months,
			monthly_spending, annual_lump_spending, inflation_adjusted_percent, spending_reduction_percent,
			spending_reduction_start_year, projection_years, asset_allocation, return_source,
			custom_return_percent, inflation_rate, created_at, updated_at
		FROM saved_scenarios ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []domain.SavedScenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range scenarios {
		if scenarios[i].FixedExpenses, err = s.listFixedExpenses(scenarios[i].ID); err != nil {
			return nil, err
		}
	}
	return scenarios, nil
}

// UpdateScenario rewrites a scenario and replaces its fixed expense rows.
func (s *Store) UpdateScenario(sc *domain.SavedScenario) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	sc.UpdatedAt = time.Now().UTC()

	allocation, err := json.Marshal(sc.AssetAllocation)
	if err != nil {
		return fmt.Errorf("encoding asset allocation: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE saved_scenarios SET name = ?, description = ?, ss_start_age_years = ?, ss_start_age_months = ?,
			monthly_spending = ?, annual_lump_spending = ?, inflation_adjusted_percent = ?,
			spending_reduction_percent = ?, spending_reduction_start_year = ?, projection_years = ?,
			asset_allocation = ?, return_source = ?, custom_return_percent = ?, inflation_rate = ?, updated_at = ?
		WHERE id = ?
	`, sc.Name, sc.Description, sc.SSStartAgeYears, sc.SSStartAgeMonths,
		sc.MonthlySpending.String(), sc.AnnualLumpSpending.String(),
		sc.InflationAdjustedPercent.String(), sc.SpendingReductionPercent.String(),
		nullInt(sc.SpendingReductionStartYear), sc.ProjectionYears, string(allocation),
		string(sc.ReturnSource), nullDecimal(sc.CustomReturnPercent), sc.InflationRate.String(),
		sc.UpdatedAt, sc.ID)
	if err != nil {
		return err
	}
	if err := requireRow(res, sc.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM fixed_expenses WHERE scenario_id = ?`, sc.ID); err != nil {
		return err
	}
	for i := range sc.FixedExpenses {
		fe := &sc.FixedExpenses[i]
		if fe.ID == "" {
			fe.ID = uuid.NewString()
		}
		fe.ScenarioID = sc.ID
		if err := insertFixedExpense(tx, fe); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteScenario removes a scenario. Its fixed expense rows go with it via
// the foreign key cascade.
func (s *Store) DeleteScenario(id string) error {
	res, err := s.db.Exec(`DELETE FROM saved_scenarios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// DuplicateScenario deep-copies a scenario under a new name and returns the
// copy. Fixed expenses get fresh ids so the copies diverge independently.
func (s *Store) DuplicateScenario(id, newName string) (*domain.SavedScenario, error) {
	src, err := s.GetScenario(id)
	if err != nil {
		return nil, err
	}
	dup := *src
	dup.ID = ""
	if newName != "" {
		dup.Name = newName
	} else {
		dup.Name = src.Name + " (copy)"
	}
	dup.FixedExpenses = make([]domain.FixedExpense, len(src.FixedExpenses))
	for i, fe := range src.FixedExpenses {
		fe.ID = ""
		fe.ScenarioID = ""
		dup.FixedExpenses[i] = fe
	}
	if err := s.CreateScenario(&dup); err != nil {
		return nil, err
	}
	return &dup, nil
}

func insertFixedExpense(tx *sql.Tx, fe *domain.FixedExpense) error {
	_, err := tx.Exec(`
		INSERT INTO fixed_expenses (id, scenario_id, name, monthly_amount, start_year, end_year, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, fe.ID, fe.ScenarioID, fe.Name, fe.MonthlyAmount.String(), fe.StartYear, nullInt(fe.EndYear), fe.Notes)
	return err
}

func (s *Store) listFixedExpenses(scenarioID string) ([]domain.FixedExpense, error) {
	rows, err := s.db.Query(`
		SELECT id, scenario_id, name, monthly_amount, start_year, end_year, notes
		FROM fixed_expenses WHERE scenario_id = ? ORDER BY start_year, name
	`, scenarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.FixedExpense
	for rows.Next() {
		var fe domain.FixedExpense
		var amount string
		var endYear sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&fe.ID, &fe.ScenarioID, &fe.Name, &amount, &fe.StartYear, &endYear, &notes); err != nil {
			return nil, err
		}
		if fe.MonthlyAmount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		fe.EndYear = intPtr(endYear)
		fe.Notes = notes.String
		expenses = append(expenses, fe)
	}
	return expenses, rows.Err()
}

func scanScenario(row rowScanner) (*domain.SavedScenario, error) {
	var sc domain.SavedScenario
	var description sql.NullString
	var monthly, lump, inflationAdjusted, reduction, allocation, source, inflationRate string
	var reductionStart sql.NullInt64
	var customReturn sql.NullString
	err := row.Scan(&sc.ID, &sc.Name, &description, &sc.SSStartAgeYears, &sc.SSStartAgeMonths,
		&monthly, &lump, &inflationAdjusted, &reduction, &reductionStart, &sc.ProjectionYears,
		&allocation, &source, &customReturn, &inflationRate, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sc.Description = description.String
	if sc.MonthlySpending, err = scanDecimal(monthly); err != nil {
		return nil, err
	}
	if sc.AnnualLumpSpending, err = scanDecimal(lump); err != nil {
		return nil, err
	}
	if sc.InflationAdjustedPercent, err = scanDecimal(inflationAdjusted); err != nil {
		return nil, err
	}
	if sc.SpendingReductionPercent, err = scanDecimal(reduction); err != nil {
		return nil, err
	}
	sc.SpendingReductionStartYear = intPtr(reductionStart)
	if err = json.Unmarshal([]byte(allocation), &sc.AssetAllocation); err != nil {
		return nil, fmt.Errorf("decoding asset allocation for scenario %s: %w", sc.ID, err)
	}
	sc.ReturnSource = domain.ReturnSource(source)
	if sc.CustomReturnPercent, err = scanNullDecimal(customReturn); err != nil {
		return nil, err
	}
	if sc.InflationRate, err = scanDecimal(inflationRate); err != nil {
		return nil, err
	}
	return &sc, nil
}
