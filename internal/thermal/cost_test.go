package thermal

import (
	"math"
	"testing"
)

func peakFlow() []HourlyFlow {
	return []HourlyFlow{
		{Hour: 10, Flow: 50}, {Hour: 11, Flow: 80}, {Hour: 12, Flow: 150},
		{Hour: 13, Flow: 80}, {Hour: 14, Flow: 60}, {Hour: 15, Flow: 60},
		{Hour: 16, Flow: 70}, {Hour: 17, Flow: 100}, {Hour: 18, Flow: 120},
	}
}

func unitWeights() WeightVector {
	var w WeightVector
	for i := range w {
		w[i] = 1
	}
	return w
}

func TestAveragePressure(t *testing.T) {
	fv := BuildFlowVector([]HourlyFlow{{Hour: 10, Flow: 40}, {Hour: 11, Flow: 80}})
	cov := BuildCoverageVector([]Span{{Entry: 0, Exit: 96, Break: NoSlot}, {Entry: 40, Exit: 44, Break: NoSlot}})
	// flow 120 over (4*2 + 4*1) person-slots
	if got := AveragePressure(&cov, &fv); math.Abs(got-10) > 1e-12 {
		t.Errorf("avg pressure %v, want 10", got)
	}

	var empty FlowVector
	if got := AveragePressure(&cov, &empty); got != 0 {
		t.Errorf("avg pressure without flow = %v", got)
	}
	var none CoverageVector
	if got := AveragePressure(&none, &fv); got != 0 {
		t.Errorf("avg pressure without coverage = %v", got)
	}
}

func TestSlotPressureUncovered(t *testing.T) {
	if got := SlotPressure(5, 0); got != 50 {
		t.Errorf("uncovered pressure %v, want 50", got)
	}
	if got := SlotPressure(0, 0); got != 0 {
		t.Errorf("zero-flow pressure %v", got)
	}
}

func TestExponentialCostHotspotExponent(t *testing.T) {
	fv := BuildFlowVector([]HourlyFlow{{Hour: 10, Flow: 40}, {Hour: 11, Flow: 120}})
	cov := BuildCoverageVector([]Span{{Entry: 40, Exit: 48, Break: NoSlot}})
	w := unitWeights()
	p := DefaultCostParams(3)

	got := ExponentialCost(&cov, &fv, &w, p)
	// avg = 160/8 = 20, threshold 26: hour 10 pressure 10 (normal), hour 11 pressure 30 (hot)
	want := 4*(math.Pow(10, 2)*10) + 4*(math.Pow(30, 3)*30)
	if math.Abs(got.Total-want) > 1e-6 {
		t.Errorf("cost %v, want %v", got.Total, want)
	}
	if got.AvgPressure != 20 || got.HotspotCount != 4 {
		t.Errorf("avg %v hotspots %d", got.AvgPressure, got.HotspotCount)
	}
}

func TestDeltaMatchesFullRecomputation(t *testing.T) {
	spans := []Span{
		{Entry: 40, Exit: 76, Break: 48},
		{Entry: 40, Exit: 76, Break: 48},
		{Entry: 44, Exit: 80, Break: 52},
	}
	fv := BuildFlowVector(peakFlow())
	w := BuildWeightVector(peakFlow())
	cov := BuildCoverageVector(spans)
	m := Calibrate(&cov, &fv, &w, DefaultCostParams(3.5))
	base := m.Total(&cov)

	for _, s := range spans {
		lo, hi, _ := s.BreakWindow()
		for c := lo; c <= hi; c++ {
			next := cov
			ApplyBreakMove(&next, s.Break, c)
			want := m.Total(&next) - base
			got := m.Delta(&cov, s.Break, c)
			if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(base)) {
				t.Fatalf("move %d->%d: delta %v, full %v", s.Break, c, got, want)
			}
		}
	}
	if d := m.Delta(&cov, 48, 48); d != 0 {
		t.Errorf("no-op move delta %v", d)
	}
}

func TestIncrementalCostDeltaUsesFrozenThreshold(t *testing.T) {
	spans := []Span{{Entry: 40, Exit: 76, Break: 48}, {Entry: 40, Exit: 76, Break: 56}}
	fv := BuildFlowVector(peakFlow())
	w := unitWeights()
	cov := BuildCoverageVector(spans)
	p := DefaultCostParams(3)
	m := Calibrate(&cov, &fv, &w, p)

	got := IncrementalCostDelta(&cov, &fv, &w, 48, 60, p, m.AvgPressure)
	if want := m.Delta(&cov, 48, 60); got != want {
		t.Errorf("IncrementalCostDelta %v, CostModel.Delta %v", got, want)
	}
	full := ExponentialCost(&cov, &fv, &w, p)
	if math.Abs(full.Total-m.Total(&cov)) > 1e-9 {
		t.Errorf("calibrated total %v differs from full cost %v", m.Total(&cov), full.Total)
	}
}
