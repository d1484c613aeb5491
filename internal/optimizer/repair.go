package optimizer

import (
	"sort"

	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

// ── Hotspot repair ("tiger roar") ───────────────────────────────────
//
// Greedy pass run before the beam: each round targets the worst slots and
// moves one break that overlaps them, if that lowers total cost.

type hotSlot struct {
	slot     int
	pressure float64
}

// hotSlots lists slots whose pressure exceeds threshold, worst first.
func (o *Optimizer) hotSlots(threshold float64) []hotSlot {
	var out []hotSlot
	for i := 0; i < thermal.TotalSlots; i++ {
		if o.flow[i] <= 0 {
			continue
		}
		if p := thermal.SlotPressure(o.flow[i], o.cov[i]); p > threshold {
			out = append(out, hotSlot{i, p})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].pressure > out[b].pressure })
	return out
}

type breakMove struct {
	mi     int // movable index
	target int
	delta  float64
}

func (o *Optimizer) hotspotRepair() PhaseStats {
	model := thermal.Calibrate(&o.cov, &o.flow, &o.weight, o.params)
	st := PhaseStats{Name: "repair", StartCost: model.Total(&o.cov), Stop: "rounds"}
	cost := st.StartCost
	threshold := model.AvgPressure * o.tuning.RepairMultiplier

	for round := 0; round < o.profile.ExplorationRounds; round++ {
		hot := o.hotSlots(threshold)
		if len(hot) > o.tuning.RepairTopSlots {
			hot = hot[:o.tuning.RepairTopSlots]
		}
		if len(hot) == 0 {
			st.Stop = "no hotspots"
			break
		}

		best := breakMove{mi: -1}
		for _, h := range hot {
			for mi, b := range o.breaks {
				if h.slot < b || h.slot >= b+thermal.BreakSlots {
					continue
				}
				lo, hi := o.window(mi)
				for c := lo; c <= hi; c++ {
					if c == b {
						continue
					}
					if d := model.Delta(&o.cov, b, c); d < best.delta {
						best = breakMove{mi: mi, target: c, delta: d}
					}
				}
			}
		}
		if best.mi < 0 {
			st.Stop = "no improving move"
			break
		}
		o.moveBreak(best.mi, best.target)
		cost += best.delta
		st.Steps++
	}
	st.EndCost = cost
	return st
}
