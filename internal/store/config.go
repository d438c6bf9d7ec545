package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rplan/retirement-planner/internal/domain"
)

// Singleton config rows share a fixed id so upserts stay trivial.
const singletonID = "singleton"

// GetSocialSecurity returns the Social Security config, or ErrNotFound when
// it has not been set up.
func (s *Store) GetSocialSecurity() (*domain.SocialSecurityConfig, error) {
	var c domain.SocialSecurityConfig
	var amount string
	err := s.db.QueryRow(`
		SELECT id, birth_date, fra_monthly_amount, created_at, updated_at
		FROM social_security_config WHERE id = ?
	`, singletonID).Scan(&c.ID, &c.BirthDate, &amount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("social security config: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if c.FRAMonthlyAmount, err = scanDecimal(amount); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetSocialSecurity creates or replaces the Social Security config.
func (s *Store) SetSocialSecurity(c *domain.SocialSecurityConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.ID = singletonID
	c.UpdatedAt = time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO social_security_config (id, birth_date, fra_monthly_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			birth_date = excluded.birth_date,
			fra_monthly_amount = excluded.fra_monthly_amount,
			updated_at = excluded.updated_at
	`, c.ID, c.BirthDate, c.FRAMonthlyAmount.String(), c.UpdatedAt, c.UpdatedAt)
	return err
}

// GetPlannedSpending returns the spending config, or ErrNotFound.
func (s *Store) GetPlannedSpending() (*domain.PlannedSpending, error) {
	var p domain.PlannedSpending
	var monthly, lump string
	err := s.db.QueryRow(`
		SELECT id, monthly_spending, annual_lump_spending, created_at, updated_at
		FROM planned_spending WHERE id = ?
	`, singletonID).Scan(&p.ID, &monthly, &lump, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("planned spending: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if p.MonthlySpending, err = scanDecimal(monthly); err != nil {
		return nil, err
	}
	if p.AnnualLumpSpending, err = scanDecimal(lump); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPlannedSpending creates or replaces the spending config.
func (s *Store) SetPlannedSpending(p *domain.PlannedSpending) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.ID = singletonID
	p.UpdatedAt = time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO planned_spending (id, monthly_spending, annual_lump_spending, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			monthly_spending = excluded.monthly_spending,
			annual_lump_spending = excluded.annual_lump_spending,
			updated_at = excluded.updated_at
	`, p.ID, p.MonthlySpending.String(), p.AnnualLumpSpending.String(), p.UpdatedAt, p.UpdatedAt)
	return err
}

// GetTaxConfig returns the tax profile, or ErrNotFound.
func (s *Store) GetTaxConfig() (*domain.TaxConfig, error) {
	var c domain.TaxConfig
	var status, deductions string
	var primaryAge, spouseAge sql.NullInt64
	var annualIncome sql.NullString
	err := s.db.QueryRow(`
		SELECT id, filing_status, total_deductions, primary_age, spouse_age, annual_income, created_at, updated_at
		FROM tax_config WHERE id = ?
	`, singletonID).Scan(&c.ID, &status, &deductions, &primaryAge, &spouseAge, &annualIncome, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tax config: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	c.FilingStatus = domain.FilingStatus(status)
	if c.TotalDeductions, err = scanDecimal(deductions); err != nil {
		return nil, err
	}
	c.PrimaryAge = intPtr(primaryAge)
	c.SpouseAge = intPtr(spouseAge)
	if c.AnnualIncome, err = scanNullDecimal(annualIncome); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetTaxConfig creates or replaces the tax profile.
func (s *Store) SetTaxConfig(c *domain.TaxConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.ID = singletonID
	c.UpdatedAt = time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO tax_config (id, filing_status, total_deductions, primary_age, spouse_age, annual_income, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filing_status = excluded.filing_status,
			total_deductions = excluded.total_deductions,
			primary_age = excluded.primary_age,
			spouse_age = excluded.spouse_age,
			annual_income = excluded.annual_income,
			updated_at = excluded.updated_at
	`, c.ID, string(c.FilingStatus), c.TotalDeductions.String(),
		nullInt(c.PrimaryAge), nullInt(c.SpouseAge), nullDecimal(c.AnnualIncome), c.UpdatedAt, c.UpdatedAt)
	return err
}

// CreateOtherIncome inserts a new income stream.
func (s *Store) CreateOtherIncome(oi *domain.OtherIncome) error {
	if err := oi.Validate(); err != nil {
		return err
	}
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	oi.CreatedAt = now
	oi.UpdatedAt = now
	_, err := s.db.Exec(`
		INSERT INTO other_income (id, name, income_type, monthly_amount, start_year, start_month,
			end_year, end_month, cola_rate, is_taxable, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, oi.ID, oi.Name, string(oi.IncomeType), oi.MonthlyAmount.String(),
		oi.StartYear, oi.StartMonth, nullInt(oi.EndYear), nullInt(oi.EndMonth),
		oi.COLARate.String(), oi.IsTaxable, oi.Notes, now, now)
	return err
}

// ListOtherIncomes returns all income streams ordered by start.
func (s *Store) ListOtherIncomes() ([]domain.OtherIncome, error) {
	rows, err := s.db.Query(`
		SELECT id, name, income_type, monthly_amount, start_year, start_month,
			end_year, end_month, cola_rate, is_taxable, notes, created_at, updated_at
		FROM other_income ORDER BY start_year, start_month, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incomes []domain.OtherIncome
	for rows.Next() {
		var oi domain.OtherIncome
		var incomeType, amount, cola string
		var endYear, endMonth sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&oi.ID, &oi.Name, &incomeType, &amount, &oi.StartYear, &oi.StartMonth,
			&endYear, &endMonth, &cola, &oi.IsTaxable, &notes, &oi.CreatedAt, &oi.UpdatedAt); err != nil {
			return nil, err
		}
		oi.IncomeType = domain.IncomeType(incomeType)
		if oi.MonthlyAmount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		if oi.COLARate, err = scanDecimal(cola); err != nil {
			return nil, err
		}
		oi.EndYear = intPtr(endYear)
		oi.EndMonth = intPtr(endMonth)
		oi.Notes = notes.String
		incomes = append(incomes, oi)
	}
	return incomes, rows.Err()
}

// UpdateOtherIncome rewrites an existing income stream.
func (s *Store) UpdateOtherIncome(oi *domain.OtherIncome) error {
	if err := oi.Validate(); err != nil {
		return err
	}
	oi.UpdatedAt = time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE other_income SET name = ?, income_type = ?, monthly_amount = ?, start_year = ?,
			start_month = ?, end_year = ?, end_month = ?, cola_rate = ?, is_taxable = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, oi.Name, string(oi.IncomeType), oi.MonthlyAmount.String(), oi.StartYear, oi.StartMonth,
		nullInt(oi.EndYear), nullInt(oi.EndMonth), oi.COLARate.String(), oi.IsTaxable, oi.Notes,
		oi.UpdatedAt, oi.ID)
	if err != nil {
		return err
	}
	return requireRow(res, oi.ID)
}

// DeleteOtherIncome removes one income stream.
func (s *Store) DeleteOtherIncome(id string) error {
	res, err := s.db.Exec(`DELETE FROM other_income WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// CreatePlannedFixedExpense inserts a new profile-level expense.
func (s *Store) CreatePlannedFixedExpense(pe *domain.PlannedFixedExpense) error {
	if err := pe.Validate(); err != nil {
		return err
	}
	if pe.ID == "" {
		pe.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	pe.CreatedAt = now
	pe.UpdatedAt = now
	_, err := s.db.Exec(`
		INSERT INTO planned_fixed_expenses (id, name, monthly_amount, start_year, end_year, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, pe.ID, pe.Name, pe.MonthlyAmount.String(), pe.StartYear, nullInt(pe.EndYear), pe.Notes, now, now)
	return err
}

// ListPlannedFixedExpenses returns all profile-level expenses.
func (s *Store) ListPlannedFixedExpenses() ([]domain.PlannedFixedExpense, error) {
	rows, err := s.db.Query(`
		SELECT id, name, monthly_amount, start_year, end_year, notes, created_at, updated_at
		FROM planned_fixed_expenses ORDER BY start_year, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.PlannedFixedExpense
	for rows.Next() {
		var pe domain.PlannedFixedExpense
		var amount string
		var endYear sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&pe.ID, &pe.Name, &amount, &pe.StartYear, &endYear, &notes, &pe.CreatedAt, &pe.UpdatedAt); err != nil {
			return nil, err
		}
		if pe.MonthlyAmount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		pe.EndYear = intPtr(endYear)
		pe.Notes = notes.String
		expenses = append(expenses, pe)
	}
	return expenses, rows.Err()
}

// DeletePlannedFixedExpense removes one profile-level expense.
func (s *Store) DeletePlannedFixedExpense(id string) error {
	res, err := s.db.Exec(`DELETE FROM planned_fixed_expenses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// Snapshot assembles the full profile state the projection engine consumes.
// Missing singleton configs become nil fields, not errors.
func (s *Store) Snapshot() (*domain.Snapshot, error) {
	accounts, err := s.ListAccounts()
	if err != nil {
		return nil, err
	}
	holdings, err := s.ListAllHoldings()
	if err != nil {
		return nil, err
	}
	incomes, err := s.ListOtherIncomes()
	if err != nil {
		return nil, err
	}
	expenses, err := s.ListPlannedFixedExpenses()
	if err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{
		Accounts:             accounts,
		Holdings:             holdings,
		OtherIncomes:         incomes,
		PlannedFixedExpenses: expenses,
	}

	if ss, err := s.GetSocialSecurity(); err == nil {
		snapshot.SocialSecurity = ss
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if spending, err := s.GetPlannedSpending(); err == nil {
		snapshot.PlannedSpending = spending
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if tax, err := s.GetTaxConfig(); err == nil {
		snapshot.TaxConfig = tax
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return snapshot, nil
}
