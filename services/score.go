package services

import "math"

// InBandScore transforms a percentile position into a closeness-to-median
// score: 1.0 at the median, falling linearly to 0.0 at either extreme.
func InBandScore(position float64) float64 {
	s := 1 - math.Abs(position-50)/50
	if s < 0 {
		return 0
	}
	return s
}

// ComputeScore blends the cost and hours in-band scores with mean data
// coverage, applies the concentration penalty and clamps to [0, 100].
func ComputeScore(costPosition, hoursPosition float64, coverage Coverage, concentrationPct float64, w ScoreWeights) float64 {
	blend := w.PriceInBand*InBandScore(costPosition) +
		w.LaborInBand*InBandScore(hoursPosition) +
		w.Coverage*coverage.Mean()

	score := blend * 100

	if concentrationPct > w.ConcentrationPenaltyStartPct {
		span := 100 - w.ConcentrationPenaltyStartPct
		frac := 1.0
		if span > 0 {
			frac = (concentrationPct - w.ConcentrationPenaltyStartPct) / span
			if frac > 1 {
				frac = 1
			}
		}
		score *= 1 - w.ConcentrationPenaltyMax*frac
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
