package optimizer

import (
	"strings"

	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

// Shift is one employee's scheduled day as collaborators exchange it. Times
// are "HH:MM"; Entry may be "FOLGA" or empty for a day off.
type Shift struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Day   string `json:"day"`
	Entry string `json:"entry"`
	Exit  string `json:"exit"`
	Break string `json:"break"`
}

// Weekdays is the canonical week, Monday first.
var Weekdays = []string{"SEGUNDA", "TERÇA", "QUARTA", "QUINTA", "SEXTA", "SÁBADO", "DOMINGO"}

// SameDay compares day labels ignoring case and surrounding space.
func SameDay(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// dayShift is a shift of the target day converted to slot units.
type dayShift struct {
	idx       int // position in the caller's slice
	span      thermal.Span
	movable   bool
	lo, hi    int // legal break starts when movable
	overnight bool
}

// normalizeDay converts the working shifts of day into slot spans. Days off,
// unparseable entry or exit times and zero-length shifts are skipped. Exit
// before entry is an overnight shift and is clamped to the end of the day.
func normalizeDay(shifts []Shift, day string) []dayShift {
	var out []dayShift
	for i := range shifts {
		s := &shifts[i]
		if !SameDay(s.Day, day) {
			continue
		}
		entry, ok := thermal.ToSlot(s.Entry)
		if !ok || entry >= thermal.TotalSlots {
			continue
		}
		exit, ok := thermal.ToSlot(s.Exit)
		if !ok {
			continue
		}
		ds := dayShift{idx: i}
		if exit < entry {
			// TODO: wrap into the next day's grid once product decides how
			// post-midnight coverage should be accounted.
			exit = thermal.TotalSlots
			ds.overnight = true
		}
		if exit == entry {
			continue
		}
		brk, ok := thermal.ToSlot(s.Break)
		if !ok {
			brk = thermal.NoSlot
		}
		ds.span = thermal.Span{Entry: entry, Exit: exit, Break: brk}
		if lo, hi, ok := ds.span.BreakWindow(); ok && ds.span.BreakInside() {
			ds.movable, ds.lo, ds.hi = true, lo, hi
		}
		out = append(out, ds)
	}
	return out
}

func spansOf(staff []dayShift) []thermal.Span {
	spans := make([]thermal.Span, len(staff))
	for i := range staff {
		spans[i] = staff[i].span
	}
	return spans
}
