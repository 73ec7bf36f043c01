package services

import "github.com/pocketbase/pocketbase/core"

func CalcLaborCost(hours, rate float64) float64 {
	return hours * rate
}

func CalcMaterialTotalWeight(qty, unitWeightLbs float64) float64 {
	return qty * unitWeightLbs
}

func CalcCoatingCost(pricePerTon, totalWeightLbs float64) float64 {
	return pricePerTon * totalWeightLbs / PoundsPerTon
}

// ApplyLineDerivations fills the computed fields on an estimate_lines record.
// Material lines with a qty and unit weight get their total weight recomputed,
// lines with both hours and rate get labor cost recomputed, and a coating
// price fills an absent coating cost off the line weight. Explicit values on
// lines missing the input factors are left alone.
func ApplyLineDerivations(record *core.Record) {
	qty := record.GetFloat("qty")
	unitWeight := record.GetFloat("unit_weight_lbs")
	if record.GetString("kind") == string(KindMaterial) && qty > 0 && unitWeight > 0 {
		record.Set("total_weight_lbs", CalcMaterialTotalWeight(qty, unitWeight))
	}

	hours := record.GetFloat("labor_hours")
	rate := record.GetFloat("labor_rate")
	if hours > 0 && rate > 0 {
		record.Set("labor_cost", CalcLaborCost(hours, rate))
	}

	price := record.GetFloat("coating_price")
	weight := record.GetFloat("total_weight_lbs")
	if price > 0 && weight > 0 && record.GetFloat("coating_cost") == 0 {
		record.Set("coating_cost", CalcCoatingCost(price, weight))
	}
}
