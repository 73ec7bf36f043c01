package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"steelbid/services"
)

func TestHandleScoringConfig_ReturnsActiveConfig(t *testing.T) {
	cfg := services.DefaultScoringConfig()

	req := httptest.NewRequest(http.MethodGet, "/api/scoring-config", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec)

	if err := HandleScoringConfig(cfg)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got services.ScoringConfig
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("could not decode config: %v", err)
	}
	if got.Version != cfg.Version {
		t.Errorf("Version = %q, want %q", got.Version, cfg.Version)
	}
	if got.Weights.PriceInBand != cfg.Weights.PriceInBand {
		t.Errorf("PriceInBand = %v, want %v", got.Weights.PriceInBand, cfg.Weights.PriceInBand)
	}
	if len(got.Baselines) != len(cfg.Baselines) {
		t.Errorf("len(Baselines) = %d, want %d", len(got.Baselines), len(cfg.Baselines))
	}
}
