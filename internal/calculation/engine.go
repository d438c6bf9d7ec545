package calculation

import (
	"fmt"
	"time"

	"github.com/rplan/retirement-planner/internal/domain"
)

// Engine is the top-level entry point for projections: retirement scenarios,
// simple accumulation scenarios, and side-by-side comparisons.
type Engine struct {
	projector *Projector
	simple    *SimpleProjector
	logger    Logger
}

// NewEngine creates an engine with the default withdrawal order.
func NewEngine(logger Logger) *Engine {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Engine{
		projector: NewProjector(nil, logger),
		simple:    NewSimpleProjector(logger),
		logger:    logger,
	}
}

// NewEngineWithOrder creates an engine with a custom withdrawal order.
func NewEngineWithOrder(order WithdrawalOrder, logger Logger) (*Engine, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	resolver, err := NewWithdrawalResolver(order, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{
		projector: NewProjector(resolver, logger),
		simple:    NewSimpleProjector(logger),
		logger:    logger,
	}, nil
}

// Project runs a retirement scenario against a profile snapshot.
func (e *Engine) Project(in ProjectionInput) (*domain.ScenarioProjectionResult, error) {
	return e.projector.Project(in)
}

// ProjectSimple runs an accumulation scenario.
func (e *Engine) ProjectSimple(scenario *domain.SimpleScenario) (*domain.SimpleResult, error) {
	return e.simple.Project(scenario)
}

// Compare projects each scenario against the same snapshot and summarizes
// the outcomes side by side, keyed by scenario name.
func (e *Engine) Compare(scenarios []domain.SavedScenario, snapshot *domain.Snapshot, now time.Time) (*domain.ScenarioComparisonResult, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("at least one scenario is required")
	}
	e.logger.Infof("Comparing %d scenarios", len(scenarios))
	result := &domain.ScenarioComparisonResult{
		Scenarios:         make([]domain.ScenarioProjectionResult, 0, len(scenarios)),
		ComparisonSummary: make(map[string]domain.ComparisonSummary, len(scenarios)),
	}
	for i := range scenarios {
		projected, err := e.Project(ProjectionInput{
			Scenario: &scenarios[i],
			Snapshot: snapshot,
			Now:      now,
		})
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenarios[i].Name, err)
		}
		result.Scenarios = append(result.Scenarios, *projected)
		result.ComparisonSummary[projected.ScenarioName] = domain.ComparisonSummary{
			FinalPortfolio:      projected.FinalPortfolio,
			YearsUntilDepletion: projected.YearsUntilDepletion,
			TotalSSReceived:     projected.TotalSSReceived,
			TotalSpending:       projected.TotalSpending,
			TotalWithdrawals:    projected.TotalWithdrawals,
			SSStartAge:          projected.SSStartAge,
		}
	}
	return result, nil
}
