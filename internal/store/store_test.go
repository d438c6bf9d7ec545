package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rplan/retirement-planner/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intp(v int) *int { return &v }

func TestAccountCRUD(t *testing.T) {
	s := newTestStore(t)

	account := &domain.Account{
		Name:      "Vanguard Brokerage",
		Type:      domain.AccountTaxable,
		Balance:   dec("500000"),
		CostBasis: decPtr("320000"),
	}
	require.NoError(t, s.CreateAccount(account))
	require.NotEmpty(t, account.ID)

	got, err := s.GetAccount(account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vanguard Brokerage", got.Name)
	assert.Equal(t, domain.AccountTaxable, got.Type)
	assert.True(t, got.Balance.Equal(dec("500000")))
	require.NotNil(t, got.CostBasis)
	assert.True(t, got.CostBasis.Equal(dec("320000")))

	got.Balance = dec("510000")
	require.NoError(t, s.UpdateAccount(got))
	updated, err := s.GetAccount(account.ID)
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(dec("510000")))

	accounts, err := s.ListAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	require.NoError(t, s.DeleteAccount(account.ID))
	_, err = s.GetAccount(account.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetAccount("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteAccount("no-such-id"), ErrNotFound)
	assert.ErrorIs(t, s.UpdateAccount(&domain.Account{
		ID:      "no-such-id",
		Name:    "Ghost",
		Type:    domain.AccountCash,
		Balance: dec("1"),
	}), ErrNotFound)
}

func TestHoldingCascadeDelete(t *testing.T) {
	s := newTestStore(t)

	account := &domain.Account{Name: "401k", Type: domain.AccountPretax, Balance: dec("800000")}
	require.NoError(t, s.CreateAccount(account))

	for _, class := range []domain.AssetClass{domain.ClassTotalUSStock, domain.ClassBonds} {
		require.NoError(t, s.CreateHolding(&domain.Holding{
			AccountID:  account.ID,
			AssetClass: class,
			Amount:     dec("400000"),
		}))
	}

	holdings, err := s.ListHoldings(account.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	require.NoError(t, s.DeleteAccount(account.ID))
	holdings, err = s.ListAllHoldings()
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestHoldingRequiresAccount(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateHolding(&domain.Holding{
		AccountID:  "no-such-account",
		AssetClass: domain.ClassCash,
		Amount:     dec("1000"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSingletonConfigs(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSocialSecurity()
	assert.ErrorIs(t, err, ErrNotFound)

	ss := &domain.SocialSecurityConfig{
		BirthDate:        time.Date(1962, 4, 20, 0, 0, 0, 0, time.UTC),
		FRAMonthlyAmount: dec("3200"),
	}
	require.NoError(t, s.SetSocialSecurity(ss))
	got, err := s.GetSocialSecurity()
	require.NoError(t, err)
	assert.True(t, got.FRAMonthlyAmount.Equal(dec("3200")))
	assert.Equal(t, 1962, got.BirthDate.Year())

	// Setting again replaces rather than duplicating.
	ss.FRAMonthlyAmount = dec("3350")
	require.NoError(t, s.SetSocialSecurity(ss))
	got, err = s.GetSocialSecurity()
	require.NoError(t, err)
	assert.True(t, got.FRAMonthlyAmount.Equal(dec("3350")))

	spending := &domain.PlannedSpending{
		MonthlySpending:    dec("8500"),
		AnnualLumpSpending: dec("5000"),
	}
	require.NoError(t, s.SetPlannedSpending(spending))
	gotSpending, err := s.GetPlannedSpending()
	require.NoError(t, err)
	assert.True(t, gotSpending.MonthlySpending.Equal(dec("8500")))
	assert.True(t, gotSpending.AnnualLumpSpending.Equal(dec("5000")))

	tax := &domain.TaxConfig{
		FilingStatus:    domain.FilingMarriedJoint,
		TotalDeductions: dec("30000"),
		PrimaryAge:      intp(66),
		SpouseAge:       intp(64),
		AnnualIncome:    decPtr("120000"),
	}
	require.NoError(t, s.SetTaxConfig(tax))
	gotTax, err := s.GetTaxConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.FilingMarriedJoint, gotTax.FilingStatus)
	require.NotNil(t, gotTax.PrimaryAge)
	assert.Equal(t, 66, *gotTax.PrimaryAge)
	require.NotNil(t, gotTax.SpouseAge)
	assert.Equal(t, 64, *gotTax.SpouseAge)
	require.NotNil(t, gotTax.AnnualIncome)
	assert.True(t, gotTax.AnnualIncome.Equal(dec("120000")))
}

func TestOtherIncomeCRUD(t *testing.T) {
	s := newTestStore(t)

	pension := &domain.OtherIncome{
		Name:          "State pension",
		IncomeType:    domain.IncomePension,
		MonthlyAmount: dec("1500"),
		StartYear:     2027,
		StartMonth:    1,
		COLARate:      dec("0.02"),
		IsTaxable:     true,
	}
	require.NoError(t, s.CreateOtherIncome(pension))

	rental := &domain.OtherIncome{
		Name:          "Rental duplex",
		IncomeType:    domain.IncomeRental,
		MonthlyAmount: dec("2200"),
		StartYear:     2026,
		StartMonth:    6,
		EndYear:       intp(2035),
		EndMonth:      intp(12),
		COLARate:      dec("0"),
		IsTaxable:     true,
		Notes:         "sell around 2035",
	}
	require.NoError(t, s.CreateOtherIncome(rental))

	incomes, err := s.ListOtherIncomes()
	require.NoError(t, err)
	require.Len(t, incomes, 2)
	// Ordered by start: the rental begins first.
	assert.Equal(t, "Rental duplex", incomes[0].Name)
	require.NotNil(t, incomes[0].EndYear)
	assert.Equal(t, 2035, *incomes[0].EndYear)
	assert.Equal(t, "sell around 2035", incomes[0].Notes)
	assert.Nil(t, incomes[1].EndYear)

	pension.MonthlyAmount = dec("1600")
	require.NoError(t, s.UpdateOtherIncome(pension))
	incomes, err = s.ListOtherIncomes()
	require.NoError(t, err)
	assert.True(t, incomes[1].MonthlyAmount.Equal(dec("1600")))

	require.NoError(t, s.DeleteOtherIncome(rental.ID))
	incomes, err = s.ListOtherIncomes()
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.ErrorIs(t, s.DeleteOtherIncome(rental.ID), ErrNotFound)
}

func TestPlannedFixedExpenseCRUD(t *testing.T) {
	s := newTestStore(t)

	mortgage := &domain.PlannedFixedExpense{
		Name:          "Mortgage",
		MonthlyAmount: dec("2100"),
		StartYear:     2026,
		EndYear:       intp(2031),
	}
	require.NoError(t, s.CreatePlannedFixedExpense(mortgage))

	expenses, err := s.ListPlannedFixedExpenses()
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Mortgage", expenses[0].Name)
	require.NotNil(t, expenses[0].EndYear)
	assert.Equal(t, 2031, *expenses[0].EndYear)

	require.NoError(t, s.DeletePlannedFixedExpense(mortgage.ID))
	expenses, err = s.ListPlannedFixedExpenses()
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func sampleScenario() *domain.SavedScenario {
	allocation := domain.AssetAllocation{}
	allocation.Set(domain.ClassTotalUSStock, dec("60"))
	allocation.Set(domain.ClassBonds, dec("40"))
	return &domain.SavedScenario{
		Name:                     "Claim at FRA",
		Description:              "Baseline plan",
		SSStartAgeYears:          67,
		SSStartAgeMonths:         0,
		MonthlySpending:          dec("8500"),
		AnnualLumpSpending:       dec("5000"),
		InflationAdjustedPercent: dec("70"),
		SpendingReductionPercent: dec("0"),
		ProjectionYears:          30,
		AssetAllocation:          allocation,
		ReturnSource:             domain.ReturnTenYearProjections,
		InflationRate:            dec("2.5"),
		FixedExpenses: []domain.FixedExpense{
			{Name: "Mortgage", MonthlyAmount: dec("2100"), StartYear: 1, EndYear: intp(6)},
		},
	}
}

func TestScenarioCRUD(t *testing.T) {
	s := newTestStore(t)

	sc := sampleScenario()
	require.NoError(t, s.CreateScenario(sc))
	require.NotEmpty(t, sc.ID)
	require.NotEmpty(t, sc.FixedExpenses[0].ID)

	got, err := s.GetScenario(sc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Claim at FRA", got.Name)
	assert.Equal(t, 67, got.SSStartAgeYears)
	assert.Equal(t, domain.ReturnTenYearProjections, got.ReturnSource)
	assert.True(t, got.AssetAllocation.Weight(domain.ClassTotalUSStock).Equal(dec("60")))
	assert.True(t, got.AssetAllocation.Weight(domain.ClassBonds).Equal(dec("40")))
	require.Len(t, got.FixedExpenses, 1)
	assert.Equal(t, "Mortgage", got.FixedExpenses[0].Name)
	require.NotNil(t, got.FixedExpenses[0].EndYear)
	assert.Equal(t, 6, *got.FixedExpenses[0].EndYear)

	// Update replaces the expense rows wholesale.
	got.FixedExpenses = []domain.FixedExpense{
		{Name: "Travel budget", MonthlyAmount: dec("800"), StartYear: 1, EndYear: intp(10)},
		{Name: "Mortgage", MonthlyAmount: dec("2100"), StartYear: 1, EndYear: intp(6)},
	}
	got.MonthlySpending = dec("9000")
	require.NoError(t, s.UpdateScenario(got))

	updated, err := s.GetScenario(sc.ID)
	require.NoError(t, err)
	assert.True(t, updated.MonthlySpending.Equal(dec("9000")))
	require.Len(t, updated.FixedExpenses, 2)

	require.NoError(t, s.DeleteScenario(sc.ID))
	_, err = s.GetScenario(sc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScenarioCustomReturn(t *testing.T) {
	s := newTestStore(t)

	sc := sampleScenario()
	sc.Name = "Flat five percent"
	sc.ReturnSource = domain.ReturnCustom
	sc.CustomReturnPercent = decPtr("5")
	require.NoError(t, s.CreateScenario(sc))

	got, err := s.GetScenario(sc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnCustom, got.ReturnSource)
	require.NotNil(t, got.CustomReturnPercent)
	assert.True(t, got.CustomReturnPercent.Equal(dec("5")))
}

func TestDuplicateScenario(t *testing.T) {
	s := newTestStore(t)

	sc := sampleScenario()
	require.NoError(t, s.CreateScenario(sc))

	dup, err := s.DuplicateScenario(sc.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Claim at FRA (copy)", dup.Name)
	assert.NotEqual(t, sc.ID, dup.ID)
	require.Len(t, dup.FixedExpenses, 1)
	assert.NotEqual(t, sc.FixedExpenses[0].ID, dup.FixedExpenses[0].ID)

	// Editing the copy leaves the original untouched.
	dup.MonthlySpending = dec("12000")
	dup.FixedExpenses = nil
	require.NoError(t, s.UpdateScenario(dup))

	original, err := s.GetScenario(sc.ID)
	require.NoError(t, err)
	assert.True(t, original.MonthlySpending.Equal(dec("8500")))
	require.Len(t, original.FixedExpenses, 1)

	named, err := s.DuplicateScenario(sc.ID, "Aggressive variant")
	require.NoError(t, err)
	assert.Equal(t, "Aggressive variant", named.Name)

	scenarios, err := s.ListScenarios()
	require.NoError(t, err)
	assert.Len(t, scenarios, 3)
}

func TestSnapshotAssembly(t *testing.T) {
	s := newTestStore(t)

	// Empty store still produces a usable snapshot.
	snapshot, err := s.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snapshot.Accounts)
	assert.Nil(t, snapshot.SocialSecurity)
	assert.Nil(t, snapshot.PlannedSpending)
	assert.Nil(t, snapshot.TaxConfig)

	account := &domain.Account{Name: "IRA", Type: domain.AccountPretax, Balance: dec("600000")}
	require.NoError(t, s.CreateAccount(account))
	require.NoError(t, s.CreateHolding(&domain.Holding{
		AccountID:  account.ID,
		AssetClass: domain.ClassTotalUSStock,
		Amount:     dec("600000"),
	}))
	require.NoError(t, s.SetSocialSecurity(&domain.SocialSecurityConfig{
		BirthDate:        time.Date(1960, 6, 15, 0, 0, 0, 0, time.UTC),
		FRAMonthlyAmount: dec("2900"),
	}))
	require.NoError(t, s.SetPlannedSpending(&domain.PlannedSpending{
		MonthlySpending:    dec("7000"),
		AnnualLumpSpending: dec("3000"),
	}))
	require.NoError(t, s.SetTaxConfig(&domain.TaxConfig{
		FilingStatus:    domain.FilingSingle,
		TotalDeductions: dec("15000"),
	}))
	require.NoError(t, s.CreateOtherIncome(&domain.OtherIncome{
		Name:          "Pension",
		IncomeType:    domain.IncomePension,
		MonthlyAmount: dec("1000"),
		StartYear:     2027,
		StartMonth:    1,
		COLARate:      dec("0"),
		IsTaxable:     true,
	}))
	require.NoError(t, s.CreatePlannedFixedExpense(&domain.PlannedFixedExpense{
		Name:          "Mortgage",
		MonthlyAmount: dec("1800"),
		StartYear:     2026,
		EndYear:       intp(2030),
	}))

	snapshot, err = s.Snapshot()
	require.NoError(t, err)
	require.Len(t, snapshot.Accounts, 1)
	require.Len(t, snapshot.Holdings, 1)
	require.NotNil(t, snapshot.SocialSecurity)
	require.NotNil(t, snapshot.PlannedSpending)
	require.NotNil(t, snapshot.TaxConfig)
	require.Len(t, snapshot.OtherIncomes, 1)
	require.Len(t, snapshot.PlannedFixedExpenses, 1)

	balances := snapshot.Balances()
	assert.True(t, balances.Pretax.Equal(dec("600000")))
	assert.True(t, balances.Total().Equal(dec("600000")))
}

func TestOpenCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "nested", "data", "planner.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestValidationRejectedBeforeWrite(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateAccount(&domain.Account{Name: "", Type: domain.AccountCash, Balance: dec("1")})
	assert.Error(t, err)

	sc := sampleScenario()
	sc.SSStartAgeYears = 75
	assert.Error(t, s.CreateScenario(sc))

	scenarios, err := s.ListScenarios()
	require.NoError(t, err)
	assert.Empty(t, scenarios)
}
