package services

import "math"

// Fivenum is a five-number summary of a historical distribution, used as the
// anchor set for percentile positioning.
type Fivenum struct {
	Min float64 `yaml:"min" json:"min"`
	P25 float64 `yaml:"p25" json:"p25"`
	P50 float64 `yaml:"p50" json:"p50"`
	P75 float64 `yaml:"p75" json:"p75"`
	Max float64 `yaml:"max" json:"max"`
}

// Usable reports whether the summary can anchor an interpolation: all five
// points finite and a non-empty min..max range.
func (f Fivenum) Usable() bool {
	for _, v := range [5]float64{f.Min, f.P25, f.P50, f.P75, f.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return f.Max > f.Min
}

// PercentilePosition places value within the baseline distribution and
// returns an approximate percentile in [1, 99].
//
// Values at or below min clamp to 1, values at or above max clamp to 99.
// Between anchors the value maps linearly onto fixed sub-ranges:
// min..p25 onto 10..25, p25..p50 onto 25..50, p50..p75 onto 50..75 and
// p75..max onto 75..90. Non-positive or non-finite values, and unusable
// baselines, return the neutral position 50.
func PercentilePosition(value float64, baseline Fivenum) float64 {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 50
	}
	if !baseline.Usable() {
		return 50
	}

	switch {
	case value <= baseline.Min:
		return 1
	case value >= baseline.Max:
		return 99
	case value <= baseline.P25:
		return mapToRange(value, baseline.Min, baseline.P25, 10, 25)
	case value <= baseline.P50:
		return mapToRange(value, baseline.P25, baseline.P50, 25, 50)
	case value <= baseline.P75:
		return mapToRange(value, baseline.P50, baseline.P75, 50, 75)
	default:
		return mapToRange(value, baseline.P75, baseline.Max, 75, 90)
	}
}

// mapToRange linearly maps v from [lo, hi] onto [posLo, posHi]. A degenerate
// or inverted anchor pair returns the upper position rather than dividing by
// zero.
func mapToRange(v, lo, hi, posLo, posHi float64) float64 {
	span := hi - lo
	if span <= 0 {
		return posHi
	}
	return posLo + (v-lo)/span*(posHi-posLo)
}

// DeviationFromMedian returns the percent deviation of value from the
// baseline median. The second return is false when the deviation is
// undefined (non-positive or non-finite value or median).
func DeviationFromMedian(value, median float64) (float64, bool) {
	if value <= 0 || median <= 0 ||
		math.IsNaN(value) || math.IsInf(value, 0) ||
		math.IsNaN(median) || math.IsInf(median, 0) {
		return 0, false
	}
	return (value - median) / median * 100, true
}
