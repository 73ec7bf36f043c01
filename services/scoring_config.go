package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds holds every alert cutoff in one place so tuning changes are
// auditable and testable apart from the rule logic.
type Thresholds struct {
	// PositionLow and PositionHigh bound the acceptable percentile band
	// for cost-per-ton and hours-per-ton positions.
	PositionLow  float64 `yaml:"position_low" json:"position_low"`
	PositionHigh float64 `yaml:"position_high" json:"position_high"`

	// CostDeviationPct and HoursDeviationPct are the absolute percent
	// deviations from the baseline median that trigger a warning.
	CostDeviationPct  float64 `yaml:"cost_deviation_pct" json:"cost_deviation_pct"`
	HoursDeviationPct float64 `yaml:"hours_deviation_pct" json:"hours_deviation_pct"`

	// Concentration cutoffs for the top-3 category share of direct cost.
	ConcentrationWarnPct float64 `yaml:"concentration_warn_pct" json:"concentration_warn_pct"`
	ConcentrationInfoPct float64 `yaml:"concentration_info_pct" json:"concentration_info_pct"`

	// Coverage cutoffs, as ratios in (0, 1].
	CoverageWarn float64 `yaml:"coverage_warn" json:"coverage_warn"`
	CoverageInfo float64 `yaml:"coverage_info" json:"coverage_info"`

	// Schedule cutoffs in whole days until the bid due date.
	DueWarnDays int `yaml:"due_warn_days" json:"due_warn_days"`
	DueInfoDays int `yaml:"due_info_days" json:"due_info_days"`

	// DivergencePts flags inconsistent movement between the cost and
	// hours deviations, in percentage points.
	DivergencePts float64 `yaml:"divergence_pts" json:"divergence_pts"`

	// MaterialMixDriftPts flags a material cost mix far from the
	// baseline's expected share, in percentage points.
	MaterialMixDriftPts float64 `yaml:"material_mix_drift_pts" json:"material_mix_drift_pts"`
}

// ScoreWeights holds the health score blend. The three blend weights must
// sum to 1.
type ScoreWeights struct {
	PriceInBand float64 `yaml:"price_in_band" json:"price_in_band"`
	LaborInBand float64 `yaml:"labor_in_band" json:"labor_in_band"`
	Coverage    float64 `yaml:"coverage" json:"coverage"`

	// ConcentrationPenaltyMax is the largest fraction shaved off the
	// blended score; the penalty ramps linearly from
	// ConcentrationPenaltyStartPct to 100% concentration.
	ConcentrationPenaltyMax      float64 `yaml:"concentration_penalty_max" json:"concentration_penalty_max"`
	ConcentrationPenaltyStartPct float64 `yaml:"concentration_penalty_start_pct" json:"concentration_penalty_start_pct"`
}

// BaselineBin is one tonnage band of a project type's historical
// distributions. MaxTons of 0 marks the open-ended top bin.
type BaselineBin struct {
	Name             string  `yaml:"name" json:"name"`
	MaxTons          float64 `yaml:"max_tons" json:"max_tons"`
	CostPerTon       Fivenum `yaml:"cost_per_ton" json:"cost_per_ton"`
	HoursPerTon      Fivenum `yaml:"hours_per_ton" json:"hours_per_ton"`
	MaterialSharePct float64 `yaml:"material_share_pct" json:"material_share_pct"`
}

// Baseline is the resolved reference distribution for one bid: the bin of
// its project type that covers its tonnage.
type Baseline struct {
	ProjectType      string  `json:"project_type"`
	Bin              string  `json:"bin"`
	CostPerTon       Fivenum `json:"cost_per_ton"`
	HoursPerTon      Fivenum `json:"hours_per_ton"`
	MaterialSharePct float64 `json:"material_share_pct"`
}

// Label returns a short identity for display, e.g. "commercial/medium".
func (b Baseline) Label() string {
	return b.ProjectType + "/" + b.Bin
}

// ScoringConfig is the versioned configuration for the whole health engine:
// alert thresholds, score weights and the baseline book keyed by project
// type.
type ScoringConfig struct {
	Version    string                   `yaml:"version" json:"version"`
	Thresholds Thresholds               `yaml:"thresholds" json:"thresholds"`
	Weights    ScoreWeights             `yaml:"weights" json:"weights"`
	Baselines  map[string][]BaselineBin `yaml:"baselines" json:"baselines"`
}

// DefaultScoringConfig returns the tuned configuration shipped with the
// binary. The percentile sub-ranges, blend weights and penalty constants are
// product-tuned values; change them only through a versioned config file.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Version: "2026.2",
		Thresholds: Thresholds{
			PositionLow:          20,
			PositionHigh:         80,
			CostDeviationPct:     15,
			HoursDeviationPct:    20,
			ConcentrationWarnPct: 65,
			ConcentrationInfoPct: 55,
			CoverageWarn:         0.80,
			CoverageInfo:         0.95,
			DueWarnDays:          3,
			DueInfoDays:          7,
			DivergencePts:        30,
			MaterialMixDriftPts:  15,
		},
		Weights: ScoreWeights{
			PriceInBand:                  0.38,
			LaborInBand:                  0.32,
			Coverage:                     0.30,
			ConcentrationPenaltyMax:      0.25,
			ConcentrationPenaltyStartPct: 55,
		},
		Baselines: map[string][]BaselineBin{
			"commercial": {
				bin("small", 50, fv(3200, 3800, 4400, 5100, 6200), fv(12, 15, 18, 22, 28), 42),
				bin("medium", 200, fv(2600, 3100, 3600, 4200, 5200), fv(10, 13, 16, 19, 24), 45),
				bin("large", 500, fv(2300, 2800, 3200, 3700, 4600), fv(9, 11, 14, 17, 21), 48),
				bin("major", 0, fv(2100, 2500, 2900, 3400, 4200), fv(8, 10, 12, 15, 19), 50),
			},
			"industrial": {
				bin("small", 50, fv(3600, 4300, 5000, 5800, 7000), fv(14, 18, 22, 27, 34), 40),
				bin("medium", 200, fv(3000, 3600, 4200, 4900, 6000), fv(12, 15, 19, 23, 29), 43),
				bin("large", 500, fv(2700, 3200, 3700, 4300, 5300), fv(10, 13, 16, 20, 25), 45),
				bin("major", 0, fv(2400, 2900, 3400, 3900, 4800), fv(9, 12, 15, 18, 23), 47),
			},
			"bridge": {
				bin("small", 50, fv(4200, 5000, 5800, 6800, 8200), fv(16, 20, 25, 31, 39), 38),
				bin("medium", 200, fv(3600, 4300, 5000, 5800, 7100), fv(14, 17, 21, 26, 33), 40),
				bin("large", 500, fv(3200, 3800, 4400, 5100, 6300), fv(12, 15, 19, 23, 29), 42),
				bin("major", 0, fv(2900, 3400, 4000, 4600, 5700), fv(11, 14, 17, 21, 26), 44),
			},
			"institutional": {
				bin("small", 50, fv(3400, 4000, 4700, 5400, 6600), fv(13, 16, 20, 24, 30), 41),
				bin("medium", 200, fv(2800, 3300, 3900, 4500, 5500), fv(11, 14, 17, 21, 26), 44),
				bin("large", 500, fv(2500, 3000, 3500, 4000, 4900), fv(10, 12, 15, 18, 23), 46),
				bin("major", 0, fv(2200, 2700, 3100, 3600, 4400), fv(9, 11, 13, 16, 20), 48),
			},
		},
	}
}

func bin(name string, maxTons float64, costPerTon, hoursPerTon Fivenum, materialSharePct float64) BaselineBin {
	return BaselineBin{
		Name:             name,
		MaxTons:          maxTons,
		CostPerTon:       costPerTon,
		HoursPerTon:      hoursPerTon,
		MaterialSharePct: materialSharePct,
	}
}

func fv(min, p25, p50, p75, max float64) Fivenum {
	return Fivenum{Min: min, P25: p25, P50: p50, P75: p75, Max: max}
}

// LoadScoringConfig reads and validates a YAML config file.
func LoadScoringConfig(path string) (ScoringConfig, error) {
	var cfg ScoringConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse scoring config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid scoring config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for internal consistency. It is called on every
// file load and should be called on hand-built configs before use.
func (c ScoringConfig) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}

	t := c.Thresholds
	if t.PositionLow <= 0 || t.PositionHigh >= 100 || t.PositionLow >= t.PositionHigh {
		return fmt.Errorf("position band [%v, %v] must satisfy 0 < low < high < 100",
			t.PositionLow, t.PositionHigh)
	}
	if t.CostDeviationPct <= 0 || t.HoursDeviationPct <= 0 {
		return fmt.Errorf("deviation thresholds must be positive")
	}
	if t.ConcentrationInfoPct <= 0 || t.ConcentrationInfoPct > t.ConcentrationWarnPct {
		return fmt.Errorf("concentration cutoffs need 0 < info <= warn, got info %v warn %v",
			t.ConcentrationInfoPct, t.ConcentrationWarnPct)
	}
	if t.CoverageWarn <= 0 || t.CoverageWarn > t.CoverageInfo || t.CoverageInfo > 1 {
		return fmt.Errorf("coverage cutoffs need 0 < warn <= info <= 1, got warn %v info %v",
			t.CoverageWarn, t.CoverageInfo)
	}
	if t.DueWarnDays < 0 || t.DueWarnDays > t.DueInfoDays {
		return fmt.Errorf("due-day cutoffs need 0 <= warn <= info, got warn %d info %d",
			t.DueWarnDays, t.DueInfoDays)
	}
	if t.DivergencePts <= 0 || t.MaterialMixDriftPts <= 0 {
		return fmt.Errorf("divergence and material mix thresholds must be positive")
	}

	w := c.Weights
	sum := w.PriceInBand + w.LaborInBand + w.Coverage
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("blend weights must sum to 1, got %v", sum)
	}
	if w.PriceInBand <= 0 || w.LaborInBand <= 0 || w.Coverage <= 0 {
		return fmt.Errorf("blend weights must be positive")
	}
	if w.ConcentrationPenaltyMax < 0 || w.ConcentrationPenaltyMax >= 1 {
		return fmt.Errorf("concentration penalty max %v must be in [0, 1)", w.ConcentrationPenaltyMax)
	}
	if w.ConcentrationPenaltyStartPct <= 0 || w.ConcentrationPenaltyStartPct >= 100 {
		return fmt.Errorf("concentration penalty start %v must be in (0, 100)", w.ConcentrationPenaltyStartPct)
	}

	if len(c.Baselines) == 0 {
		return fmt.Errorf("baselines are required")
	}
	known := make(map[string]bool, len(ProjectTypeOptions))
	for _, pt := range ProjectTypeOptions {
		known[pt] = true
	}
	for pt, bins := range c.Baselines {
		if !known[pt] {
			return fmt.Errorf("unknown project type %q in baselines", pt)
		}
		if err := validateBins(pt, bins); err != nil {
			return err
		}
	}
	for _, pt := range ProjectTypeOptions {
		if _, ok := c.Baselines[pt]; !ok {
			return fmt.Errorf("baselines missing project type %q", pt)
		}
	}
	return nil
}

func validateBins(projectType string, bins []BaselineBin) error {
	if len(bins) == 0 {
		return fmt.Errorf("project type %q has no baseline bins", projectType)
	}
	prevMax := 0.0
	for i, b := range bins {
		if b.Name == "" {
			return fmt.Errorf("%s bin %d has no name", projectType, i)
		}
		last := i == len(bins)-1
		if last {
			if b.MaxTons != 0 {
				return fmt.Errorf("%s: last bin %q must be open-ended (max_tons 0)",
					projectType, b.Name)
			}
		} else {
			if b.MaxTons <= prevMax {
				return fmt.Errorf("%s: bins must be sorted by max_tons, %q is out of order",
					projectType, b.Name)
			}
			prevMax = b.MaxTons
		}
		if !b.CostPerTon.Usable() || !fivenumOrdered(b.CostPerTon) {
			return fmt.Errorf("%s/%s: cost_per_ton summary is not an ordered distribution",
				projectType, b.Name)
		}
		if !b.HoursPerTon.Usable() || !fivenumOrdered(b.HoursPerTon) {
			return fmt.Errorf("%s/%s: hours_per_ton summary is not an ordered distribution",
				projectType, b.Name)
		}
		if b.MaterialSharePct <= 0 || b.MaterialSharePct >= 100 {
			return fmt.Errorf("%s/%s: material_share_pct %v must be in (0, 100)",
				projectType, b.Name, b.MaterialSharePct)
		}
	}
	return nil
}

func fivenumOrdered(f Fivenum) bool {
	return f.Min <= f.P25 && f.P25 <= f.P50 && f.P50 <= f.P75 && f.P75 <= f.Max
}

// ResolveBaseline picks the baseline bin covering the given tonnage for a
// project type. The last bin of each type is open-ended. Returns false when
// the project type has no baselines.
func (c ScoringConfig) ResolveBaseline(projectType string, tons float64) (Baseline, bool) {
	bins := c.Baselines[projectType]
	if len(bins) == 0 {
		return Baseline{}, false
	}

	chosen := bins[len(bins)-1]
	for _, bin := range bins {
		if bin.MaxTons > 0 && tons <= bin.MaxTons {
			chosen = bin
			break
		}
	}
	return Baseline{
		ProjectType:      projectType,
		Bin:              chosen.Name,
		CostPerTon:       chosen.CostPerTon,
		HoursPerTon:      chosen.HoursPerTon,
		MaterialSharePct: chosen.MaterialSharePct,
	}, true
}
