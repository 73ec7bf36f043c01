package services

import (
	"math"
	"testing"
)

func TestInBandScore(t *testing.T) {
	tests := []struct {
		name     string
		position float64
		expect   float64
	}{
		{"at median", 50, 1.0},
		{"at low extreme", 0, 0.0},
		{"at high extreme", 100, 0.0},
		{"quarter off median", 25, 0.5},
		{"clamp position 1", 1, 0.02},
		{"clamp position 99", 99, 0.02},
		{"beyond range stays at zero", 140, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InBandScore(tt.position)
			if math.Abs(got-tt.expect) > 0.001 {
				t.Errorf("InBandScore(%v) = %v, want %v", tt.position, got, tt.expect)
			}
		})
	}
}

func TestComputeScoreIdealPoint(t *testing.T) {
	w := DefaultScoringConfig().Weights
	full := Coverage{Weight: 1, Labor: 1, Rate: 1, Coating: 1}

	got := ComputeScore(50, 50, full, 0, w)
	if math.Abs(got-100) > 0.001 {
		t.Errorf("ideal point score = %v, want 100", got)
	}
}

func TestComputeScoreBounded(t *testing.T) {
	w := DefaultScoringConfig().Weights

	cases := []struct {
		costPos, hoursPos float64
		coverage          Coverage
		concentration     float64
	}{
		{50, 50, Coverage{1, 1, 1, 1}, 0},
		{1, 99, Coverage{}, 100},
		{99, 1, Coverage{0.5, 0.5, 0.5, 0.5}, 80},
		{0, 0, Coverage{}, 0},
		{100, 100, Coverage{1, 1, 1, 1}, 100},
		{-20, 250, Coverage{1, 0, 1, 0}, 55},
	}

	for _, c := range cases {
		got := ComputeScore(c.costPos, c.hoursPos, c.coverage, c.concentration, w)
		if got < 0 || got > 100 {
			t.Errorf("score out of bounds: ComputeScore(%v, %v, %+v, %v) = %v",
				c.costPos, c.hoursPos, c.coverage, c.concentration, got)
		}
	}
}

func TestComputeScoreBlendWeights(t *testing.T) {
	w := DefaultScoringConfig().Weights

	// Median positions with zero coverage isolates the two in-band terms.
	got := ComputeScore(50, 50, Coverage{}, 0, w)
	if math.Abs(got-70) > 0.001 {
		t.Errorf("score = %v, want 70 (price 38 + labor 32)", got)
	}

	// Full coverage with both positions at the extremes isolates coverage.
	got = ComputeScore(0, 100, Coverage{1, 1, 1, 1}, 0, w)
	if math.Abs(got-30) > 0.001 {
		t.Errorf("score = %v, want 30 (coverage only)", got)
	}
}

func TestComputeScoreConcentrationPenalty(t *testing.T) {
	w := DefaultScoringConfig().Weights
	full := Coverage{Weight: 1, Labor: 1, Rate: 1, Coating: 1}

	tests := []struct {
		name          string
		concentration float64
		expect        float64
	}{
		{"below penalty start", 55, 100},
		{"midway to full concentration", 77.5, 87.5},
		{"full concentration takes max penalty", 100, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeScore(50, 50, full, tt.concentration, w)
			if math.Abs(got-tt.expect) > 0.001 {
				t.Errorf("score at %v%% concentration = %v, want %v",
					tt.concentration, got, tt.expect)
			}
		})
	}
}

func TestComputeScoreEmptyBidDoesNotPanic(t *testing.T) {
	cfg := DefaultScoringConfig()
	m := Aggregate(nil)
	cov := ComputeCoverage(nil)
	concentration, _ := CategoryConcentration(nil)
	baseline, _ := cfg.ResolveBaseline("commercial", m.Tons)

	costPos := PercentilePosition(m.CostPerTon, baseline.CostPerTon)
	hoursPos := PercentilePosition(m.HoursPerTon, baseline.HoursPerTon)

	got := ComputeScore(costPos, hoursPos, cov, concentration, cfg.Weights)
	if got < 0 || got > 100 {
		t.Fatalf("empty bid score out of bounds: %v", got)
	}
	// Neutral positions with zero coverage land at the blend of the two
	// in-band weights.
	if math.Abs(got-70) > 0.001 {
		t.Errorf("empty bid score = %v, want 70", got)
	}
}
