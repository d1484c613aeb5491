package thermal

// Span is one employee's working day in slot units. Break is NoSlot when the
// employee has no break.
type Span struct {
	Entry int
	Exit  int
	Break int
}

// BreakWindow returns the first and last legal break starts: at least two
// hours worked on each side of the one-hour break. ok is false when the
// shift is too short to hold a break.
func (s Span) BreakWindow() (lo, hi int, ok bool) {
	lo = s.Entry + MinWorkBeforeBreak
	hi = s.Exit - MinWorkAfterBreak - BreakSlots
	if hi > TotalSlots-BreakSlots {
		hi = TotalSlots - BreakSlots
	}
	if lo < 0 {
		lo = 0
	}
	return lo, hi, lo <= hi
}

// BreakInside reports whether the current break lies entirely within the
// worked interval, which is what makes incremental coverage updates exact.
func (s Span) BreakInside() bool {
	return s.Break != NoSlot && s.Break >= s.Entry && s.Break+BreakSlots <= s.Exit && s.Break+BreakSlots <= TotalSlots
}

// WorkedSlots is the number of slots the span contributes to coverage.
func (s Span) WorkedSlots() int {
	n := 0
	end := min(s.Exit, TotalSlots)
	for i := max(s.Entry, 0); i < end; i++ {
		if !s.onBreak(i) {
			n++
		}
	}
	return n
}

func (s Span) onBreak(i int) bool {
	return s.Break != NoSlot && i >= s.Break && i < s.Break+BreakSlots
}

// BuildCoverageVector counts, per slot, the spans present and not on break.
func BuildCoverageVector(spans []Span) CoverageVector {
	var cov CoverageVector
	for _, s := range spans {
		if s.Entry == NoSlot || s.Exit == NoSlot {
			continue
		}
		end := min(s.Exit, TotalSlots)
		for i := max(s.Entry, 0); i < end; i++ {
			if !s.onBreak(i) {
				cov[i]++
			}
		}
	}
	return cov
}

// ApplyBreakMove restores presence on the old break slots and removes it from
// the new ones. Either argument may be NoSlot.
func ApplyBreakMove(cov *CoverageVector, oldBreak, newBreak int) {
	if oldBreak == newBreak {
		return
	}
	if oldBreak != NoSlot {
		for k := 0; k < BreakSlots && oldBreak+k < TotalSlots; k++ {
			cov[oldBreak+k]++
		}
	}
	if newBreak != NoSlot {
		for k := 0; k < BreakSlots && newBreak+k < TotalSlots; k++ {
			cov[newBreak+k]--
		}
	}
}

// PersonSlots is the summed coverage over the day.
func (cov *CoverageVector) PersonSlots() int {
	n := 0
	for _, c := range cov {
		n += c
	}
	return n
}
