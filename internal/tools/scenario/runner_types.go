package scenario

import (
	centerservice "github.com/laneworks/laneworks/internal/services/center/service"
)

// scenarioState tracks entities created while a scenario runs.
type scenarioState struct {
	currentCenterID string
	centers         map[string]string
	configured      map[string]bool
	stagedRanges    []centerservice.RangeInput
}
