package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rplan/retirement-planner/internal/domain"
)

// Expected annual return percentages per asset class. The ten-year table
// reflects current forward-looking estimates; the historical table reflects
// long-run averages. Ten-year rates apply to the first ten projection years,
// after which blended projections fall back to the historical table.
var (
	TenYearReturns = map[domain.AssetClass]decimal.Decimal{
		domain.ClassTotalUSStock:           decimal.NewFromFloat(7.5),
		domain.ClassTotalForeignStock:      decimal.NewFromFloat(7.0),
		domain.ClassUSSmallCapValue:        decimal.NewFromFloat(8.5),
		domain.ClassIntlSmallCapValue:      decimal.NewFromFloat(8.0),
		domain.ClassDevelopedMarkets:       decimal.NewFromFloat(6.5),
		domain.ClassEmergingMarkets:        decimal.NewFromFloat(8.0),
		domain.ClassREITs:                  decimal.NewFromFloat(9.5),
		domain.ClassBonds:                  decimal.NewFromFloat(4.5),
		domain.ClassShortTermTreasuries:    decimal.NewFromFloat(4.0),
		domain.ClassIntermediateTreasuries: decimal.NewFromFloat(4.2),
		domain.ClassMunicipalBonds:         decimal.NewFromFloat(3.5),
		domain.ClassCash:                   decimal.NewFromFloat(3.5),
		domain.ClassOther:                  decimal.NewFromFloat(5.0),
	}

	HistoricalReturns = map[domain.AssetClass]decimal.Decimal{
		domain.ClassTotalUSStock:           decimal.NewFromFloat(10.0),
		domain.ClassTotalForeignStock:      decimal.NewFromFloat(8.5),
		domain.ClassUSSmallCapValue:        decimal.NewFromFloat(13.0),
		domain.ClassIntlSmallCapValue:      decimal.NewFromFloat(10.5),
		domain.ClassDevelopedMarkets:       decimal.NewFromFloat(8.0),
		domain.ClassEmergingMarkets:        decimal.NewFromFloat(9.0),
		domain.ClassREITs:                  decimal.NewFromFloat(9.35),
		domain.ClassBonds:                  decimal.NewFromFloat(4.5),
		domain.ClassShortTermTreasuries:    decimal.NewFromFloat(4.0),
		domain.ClassIntermediateTreasuries: decimal.NewFromFloat(4.5),
		domain.ClassMunicipalBonds:         decimal.NewFromFloat(4.0),
		domain.ClassCash:                   decimal.NewFromFloat(3.31),
		domain.ClassOther:                  decimal.NewFromFloat(5.0),
	}
)

// TenYearHorizon is the last projection year the ten-year table applies to.
const TenYearHorizon = 10

// ReturnsFor returns the class-level return table for the given source, or an
// error for sources that carry no table.
func ReturnsFor(source domain.ReturnSource) (map[domain.AssetClass]decimal.Decimal, error) {
	switch source {
	case domain.ReturnTenYearProjections:
		return TenYearReturns, nil
	case domain.ReturnHistoricalAverage:
		return HistoricalReturns, nil
	case domain.ReturnCustom:
		return nil, fmt.Errorf("custom return source has no asset-class table")
	}
	return nil, fmt.Errorf("unknown return source %q", source)
}

// ReturnModel resolves the annual portfolio return percent for each
// projection year, either from a fixed custom rate or by blending per-class
// expected returns with the scenario's allocation.
type ReturnModel struct {
	source     domain.ReturnSource
	custom     decimal.Decimal
	allocation domain.AssetAllocation
}

// NewReturnModel validates the inputs and builds a model. Non-custom sources
// require an allocation summing to 100 within tolerance.
func NewReturnModel(source domain.ReturnSource, allocation domain.AssetAllocation, customPercent *decimal.Decimal) (*ReturnModel, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("unknown return source %q", source)
	}
	m := &ReturnModel{source: source, allocation: allocation}
	if source == domain.ReturnCustom {
		if customPercent == nil {
			return nil, fmt.Errorf("custom return source requires a return percent")
		}
		m.custom = *customPercent
		return m, nil
	}
	if err := allocation.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// RateForYear returns the annual return percent for the given projection
// year (1-based). Blended sources use the ten-year table through year 10 and
// the historical table afterward; historical_average and custom rates are
// constant across years.
func (m *ReturnModel) RateForYear(yearNum int) decimal.Decimal {
	switch m.source {
	case domain.ReturnCustom:
		return m.custom
	case domain.ReturnHistoricalAverage:
		return m.blend(HistoricalReturns)
	default:
		if yearNum <= TenYearHorizon {
			return m.blend(TenYearReturns)
		}
		return m.blend(HistoricalReturns)
	}
}

func (m *ReturnModel) blend(table map[domain.AssetClass]decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	blended := decimal.Zero
	for _, class := range domain.AssetClasses {
		weight := m.allocation.Weight(class)
		if weight.IsZero() {
			continue
		}
		blended = blended.Add(weight.Div(hundred).Mul(table[class]))
	}
	return blended
}
