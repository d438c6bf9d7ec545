package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rplan/retirement-planner/internal/domain"
)

func newTestBalances(pretax, roth, taxable, cash int64, basis *int64) domain.BalancesByType {
	b := domain.BalancesByType{
		Pretax:  decimal.NewFromInt(pretax),
		Roth:    decimal.NewFromInt(roth),
		Taxable: decimal.NewFromInt(taxable),
		Cash:    decimal.NewFromInt(cash),
	}
	if basis != nil {
		d := decimal.NewFromInt(*basis)
		b.TaxableCostBasis = &d
	}
	return b
}

func TestResolveFollowsDefaultOrder(t *testing.T) {
	resolver, err := NewWithdrawalResolver(nil, nil)
	require.NoError(t, err)

	basis := int64(10_000)
	balances := newTestBalances(100_000, 50_000, 20_000, 10_000, &basis)

	result := resolver.Resolve(decimal.NewFromInt(50_000), balances)

	assert.True(t, decimal.NewFromInt(20_000).Equal(result.ByType[domain.AccountTaxable]))
	assert.True(t, decimal.NewFromInt(10_000).Equal(result.ByType[domain.AccountCash]))
	assert.True(t, decimal.NewFromInt(20_000).Equal(result.ByType[domain.AccountPretax]))
	assert.True(t, result.ByType[domain.AccountRoth].IsZero(), "roth must be drawn last")

	assert.True(t, decimal.NewFromInt(50_000).Equal(result.Total))
	assert.True(t, result.Shortfall.IsZero())

	// Taxable draw realizes half as gain (basis 10k of 20k), pretax is
	// fully taxable: 10k + 20k.
	assert.True(t, decimal.NewFromInt(30_000).Equal(result.TaxableIncome), "got %s", result.TaxableIncome)

	assert.True(t, result.Remaining.Taxable.IsZero())
	assert.True(t, result.Remaining.Cash.IsZero())
	assert.True(t, decimal.NewFromInt(80_000).Equal(result.Remaining.Pretax))
	assert.True(t, decimal.NewFromInt(50_000).Equal(result.Remaining.Roth))
}

func TestResolveUnknownBasisIsFullyTaxable(t *testing.T) {
	resolver, err := NewWithdrawalResolver(nil, nil)
	require.NoError(t, err)

	balances := newTestBalances(0, 0, 15_000, 0, nil)
	result := resolver.Resolve(decimal.NewFromInt(10_000), balances)

	assert.True(t, decimal.NewFromInt(10_000).Equal(result.TaxableIncome),
		"a taxable account without basis is treated as fully taxable, got %s", result.TaxableIncome)
}

func TestResolveRothNeverTaxable(t *testing.T) {
	resolver, err := NewWithdrawalResolver(nil, nil)
	require.NoError(t, err)

	balances := newTestBalances(0, 40_000, 0, 0, nil)
	result := resolver.Resolve(decimal.NewFromInt(25_000), balances)

	assert.True(t, decimal.NewFromInt(25_000).Equal(result.ByType[domain.AccountRoth]))
	assert.True(t, result.TaxableIncome.IsZero())
}

func TestResolveShortfall(t *testing.T) {
	resolver, err := NewWithdrawalResolver(nil, nil)
	require.NoError(t, err)

	balances := newTestBalances(5_000, 5_000, 5_000, 5_000, nil)
	result := resolver.Resolve(decimal.NewFromInt(30_000), balances)

	assert.True(t, decimal.NewFromInt(20_000).Equal(result.Total))
	assert.True(t, decimal.NewFromInt(10_000).Equal(result.Shortfall))
	assert.True(t, result.Remaining.Total().IsZero())
}

func TestResolveZeroNeed(t *testing.T) {
	resolver, err := NewWithdrawalResolver(nil, nil)
	require.NoError(t, err)

	balances := newTestBalances(10_000, 0, 0, 0, nil)
	result := resolver.Resolve(decimal.Zero, balances)

	assert.True(t, result.Total.IsZero())
	assert.Empty(t, result.ByType)
	assert.True(t, decimal.NewFromInt(10_000).Equal(result.Remaining.Pretax))
}

func TestResolveBasisScalesWithPrincipal(t *testing.T) {
	resolver, err := NewWithdrawalResolver(nil, nil)
	require.NoError(t, err)

	basis := int64(40_000)
	balances := newTestBalances(0, 0, 100_000, 0, &basis)
	result := resolver.Resolve(decimal.NewFromInt(50_000), balances)

	require.NotNil(t, result.Remaining.TaxableCostBasis)
	assert.True(t, decimal.NewFromInt(20_000).Equal(*result.Remaining.TaxableCostBasis),
		"basis should halve with the balance, got %s", result.Remaining.TaxableCostBasis)
}

func TestWithdrawalOrderValidate(t *testing.T) {
	assert.NoError(t, DefaultWithdrawalOrder.Validate())

	short := WithdrawalOrder{domain.AccountPretax}
	assert.Error(t, short.Validate())

	duplicated := WithdrawalOrder{
		domain.AccountPretax, domain.AccountPretax, domain.AccountRoth, domain.AccountCash,
	}
	assert.Error(t, duplicated.Validate())

	_, err := NewWithdrawalResolver(short, nil)
	assert.Error(t, err)
}
