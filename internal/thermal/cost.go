package thermal

import "math"

// UncoveredPenalty multiplies flow to stand in for the pressure of a slot
// that has customers and nobody to serve them. It keeps arithmetic finite.
const UncoveredPenalty = 10.0

// CostParams are the exponents of the cost functional.
type CostParams struct {
	// AlphaNormal is the pressure exponent for ordinary slots.
	AlphaNormal float64
	// AlphaHotspot is the exponent for slots at or above the hotspot threshold.
	AlphaHotspot float64
	// HotspotMultiplier times the average pressure is the hotspot threshold.
	HotspotMultiplier float64
}

// DefaultCostParams uses the quadratic base exponent and a 1.3x threshold.
func DefaultCostParams(alphaHotspot float64) CostParams {
	return CostParams{AlphaNormal: 2.0, AlphaHotspot: alphaHotspot, HotspotMultiplier: 1.3}
}

// CostSummary is the result of a full cost evaluation.
type CostSummary struct {
	Total        float64
	AvgPressure  float64
	HotspotCount int
}

// SlotPressure is flow over coverage, with UncoveredPenalty standing in when
// coverage is zero.
func SlotPressure(flow float64, cov int) float64 {
	if flow <= 0 {
		return 0
	}
	if cov <= 0 {
		return flow * UncoveredPenalty
	}
	return flow / float64(cov)
}

// AveragePressure is total flow over total coverage, both taken only where
// flow is positive. It is 0 when there is no staffed flow.
func AveragePressure(cov *CoverageVector, flow *FlowVector) float64 {
	sumFlow, sumCov := 0.0, 0
	for i := 0; i < TotalSlots; i++ {
		if flow[i] <= 0 {
			continue
		}
		sumFlow += flow[i]
		sumCov += cov[i]
	}
	if sumCov == 0 {
		return 0
	}
	return sumFlow / float64(sumCov)
}

// ExponentialCost sums pressure^alpha * flow * weight over slots with flow.
// Slots at or above AvgPressure*HotspotMultiplier use AlphaHotspot.
func ExponentialCost(cov *CoverageVector, flow *FlowVector, weight *WeightVector, p CostParams) CostSummary {
	avg := AveragePressure(cov, flow)
	m := CostModel{Flow: flow, Weight: weight, Params: p, AvgPressure: avg, Threshold: avg * p.HotspotMultiplier}
	total, hot := m.total(cov)
	return CostSummary{Total: total, AvgPressure: avg, HotspotCount: hot}
}

// ── Phase-calibrated model ──────────────────────────────────────────

// CostModel evaluates cost against a hotspot threshold frozen at the start of
// a search phase, so a single break move only touches its eight slots.
type CostModel struct {
	Flow        *FlowVector
	Weight      *WeightVector
	Params      CostParams
	AvgPressure float64
	Threshold   float64
}

// Calibrate freezes the average pressure and hotspot threshold of cov.
func Calibrate(cov *CoverageVector, flow *FlowVector, weight *WeightVector, p CostParams) CostModel {
	avg := AveragePressure(cov, flow)
	return CostModel{Flow: flow, Weight: weight, Params: p, AvgPressure: avg, Threshold: avg * p.HotspotMultiplier}
}

func (m *CostModel) slotCost(i, cov int) float64 {
	f := m.Flow[i]
	if f <= 0 {
		return 0
	}
	p := SlotPressure(f, cov)
	alpha := m.Params.AlphaNormal
	if p >= m.Threshold {
		alpha = m.Params.AlphaHotspot
	}
	return math.Pow(p, alpha) * f * m.Weight[i]
}

func (m *CostModel) total(cov *CoverageVector) (float64, int) {
	total, hot := 0.0, 0
	for i := 0; i < TotalSlots; i++ {
		if m.Flow[i] <= 0 {
			continue
		}
		if SlotPressure(m.Flow[i], cov[i]) >= m.Threshold {
			hot++
		}
		total += m.slotCost(i, cov[i])
	}
	return total, hot
}

// Total is the full cost of cov under the frozen threshold.
func (m *CostModel) Total(cov *CoverageVector) float64 {
	t, _ := m.total(cov)
	return t
}

// Delta is the cost change of moving one break from oldBreak to newBreak,
// evaluated only over the affected slots. cov is not modified.
func (m *CostModel) Delta(cov *CoverageVector, oldBreak, newBreak int) float64 {
	if oldBreak == newBreak {
		return 0
	}
	delta := 0.0
	visit := func(i int) {
		if i < 0 || i >= TotalSlots || m.Flow[i] <= 0 {
			return
		}
		before := cov[i]
		after := before
		if inBreak(oldBreak, i) {
			after++
		}
		if inBreak(newBreak, i) {
			after--
		}
		if after == before {
			return
		}
		delta += m.slotCost(i, after) - m.slotCost(i, before)
	}
	if oldBreak != NoSlot {
		for k := 0; k < BreakSlots; k++ {
			visit(oldBreak + k)
		}
	}
	if newBreak != NoSlot {
		for k := 0; k < BreakSlots; k++ {
			i := newBreak + k
			if inBreak(oldBreak, i) {
				continue // already visited
			}
			visit(i)
		}
	}
	return delta
}

func inBreak(start, i int) bool {
	return start != NoSlot && i >= start && i < start+BreakSlots
}

// IncrementalCostDelta is Delta on a model built from the given parameters
// and a previously captured average pressure.
func IncrementalCostDelta(cov *CoverageVector, flow *FlowVector, weight *WeightVector, oldBreak, newBreak int, p CostParams, avgPressure float64) float64 {
	m := CostModel{Flow: flow, Weight: weight, Params: p, AvgPressure: avgPressure, Threshold: avgPressure * p.HotspotMultiplier}
	return m.Delta(cov, oldBreak, newBreak)
}
