package output

import (
	"encoding/json"

	"github.com/rplan/retirement-planner/internal/domain"
)

// JSONFormatter serializes the projection result as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.ScenarioProjectionResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
