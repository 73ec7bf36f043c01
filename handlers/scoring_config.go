package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"steelbid/services"
)

// HandleScoringConfig exposes the active scoring configuration so clients
// can show which weights and thresholds produced a score.
func HandleScoringConfig(cfg services.ScoringConfig) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, cfg)
	}
}
