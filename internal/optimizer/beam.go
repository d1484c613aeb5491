package optimizer

import (
	"cmp"
	"slices"

	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

// ── Beam search ─────────────────────────────────────────────────────

// beamNode is a complete break assignment. Nodes are never mutated after
// creation; children copy breaks and coverage.
type beamNode struct {
	cost   float64
	breaks []int
	cov    thermal.CoverageVector
}

// candidate is a child described by its parent and move, so only the
// survivors of a depth get materialized.
type candidate struct {
	parent int
	mi     int
	target int
	cost   float64
}

func (o *Optimizer) compareCandidates(a, b candidate) int {
	if d := a.cost - b.cost; d < -o.tuning.TieEpsilon {
		return -1
	} else if d > o.tuning.TieEpsilon {
		return 1
	}
	if c := cmp.Compare(a.mi, b.mi); c != 0 {
		return c
	}
	if c := cmp.Compare(a.target, b.target); c != 0 {
		return c
	}
	return cmp.Compare(a.parent, b.parent)
}

func (o *Optimizer) expand(beam []beamNode, model *thermal.CostModel) []candidate {
	var cands []candidate
	for pi := range beam {
		n := &beam[pi]
		for mi, b := range n.breaks {
			lo, hi := o.window(mi)
			for c := lo; c <= hi; c++ {
				if c == b {
					continue
				}
				cands = append(cands, candidate{
					parent: pi,
					mi:     mi,
					target: c,
					cost:   n.cost + model.Delta(&n.cov, b, c),
				})
			}
		}
	}
	return cands
}

func (o *Optimizer) beamSearch() PhaseStats {
	model := thermal.Calibrate(&o.cov, &o.flow, &o.weight, o.params)
	root := beamNode{
		cost:   model.Total(&o.cov),
		breaks: slices.Clone(o.breaks),
		cov:    o.cov,
	}
	st := PhaseStats{Name: "beam", StartCost: root.cost, Stop: "max depth"}

	best := root
	beam := []beamNode{root}
	stale := 0

	for depth := 0; depth < o.profile.MaxDepth; depth++ {
		if o.timedOut() {
			st.Stop = "timeout"
			break
		}
		cands := o.expand(beam, &model)
		if len(cands) == 0 {
			st.Stop = "no candidates"
			break
		}
		slices.SortFunc(cands, o.compareCandidates)

		next := make([]beamNode, 0, o.profile.BeamWidth)
		seen := make(map[string]bool, o.profile.BeamWidth)
		for _, c := range cands {
			if len(next) == o.profile.BeamWidth {
				break
			}
			parent := &beam[c.parent]
			child := beamNode{
				cost:   c.cost,
				breaks: slices.Clone(parent.breaks),
				cov:    parent.cov,
			}
			thermal.ApplyBreakMove(&child.cov, child.breaks[c.mi], c.target)
			child.breaks[c.mi] = c.target

			fp := breaksFingerprint(child.breaks)
			if seen[fp] {
				continue
			}
			seen[fp] = true
			next = append(next, child)
		}
		beam = next
		st.Steps++

		if beam[0].cost < best.cost-o.tuning.TieEpsilon {
			best = beam[0]
			stale = 0
			continue
		}
		stale++
		if stale >= o.tuning.Patience {
			st.Stop = "no improvement"
			break
		}
	}

	o.setBreaks(best.breaks)
	st.EndCost = best.cost
	return st
}

// breaksFingerprint packs an assignment into a map key.
func breaksFingerprint(breaks []int) string {
	buf := make([]byte, 0, len(breaks)*2)
	for _, b := range breaks {
		buf = append(buf, byte(b>>8), byte(b))
	}
	return string(buf)
}
