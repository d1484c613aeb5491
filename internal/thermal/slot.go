// Package thermal models a store day as a 96-slot grid and measures how well
// staff coverage follows customer flow.
package thermal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	SlotMinutes  = 15
	SlotsPerHour = 60 / SlotMinutes
	TotalSlots   = 24 * SlotsPerHour

	// BreakSlots is the fixed break length (one hour).
	BreakSlots = 4
	// MinWorkBeforeBreak and MinWorkAfterBreak are two hours each.
	MinWorkBeforeBreak = 8
	MinWorkAfterBreak  = 8

	// NoSlot marks an absent time (day off, empty cell, no break).
	NoSlot = -1
)

// DayOff is the spreadsheet marker for an employee who does not work that day.
const DayOff = "FOLGA"

// FlowVector holds customer flow per slot.
type FlowVector [TotalSlots]float64

// WeightVector holds the strictly positive cost multiplier per slot.
type WeightVector [TotalSlots]float64

// CoverageVector holds the number of staff present and not on break per slot.
type CoverageVector [TotalSlots]int

// HourlyFlow is one hour of reported customer flow. Conversion is a
// percentage; zero means it was not reported.
type HourlyFlow struct {
	Hour       int     `json:"hour"`
	Flow       float64 `json:"flow"`
	Conversion float64 `json:"conversion,omitempty"`
}

// ── Time conversion ─────────────────────────────────────────────────

// ToSlot parses "HH:MM" (seconds are ignored) or a fractional-day number such
// as an Excel time cell ("0.5" is 12:00) and rounds down to the slot grid.
// "24:00" maps to TotalSlots so it can be used as an exit time. Empty values,
// FOLGA and anything unparseable return NoSlot, false.
func ToSlot(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, DayOff) {
		return NoSlot, false
	}
	if !strings.Contains(s, ":") {
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return NoSlot, false
		}
		return DayFractionToSlot(f)
	}

	parts := strings.Split(s, ":")
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return NoSlot, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return NoSlot, false
	}
	if h < 0 || m < 0 || m >= 60 {
		return NoSlot, false
	}
	total := h*60 + m
	if total > 24*60 {
		return NoSlot, false
	}
	return total / SlotMinutes, true
}

// DayFractionToSlot converts a fraction of a day (Excel serial time) to a
// slot. The integer part of the serial (the date) is discarded.
func DayFractionToSlot(f float64) (int, bool) {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return NoSlot, false
	}
	minutes := int(math.Round(f*24*60)) % (24 * 60)
	return minutes / SlotMinutes, true
}

// DayFractionToClock renders an Excel serial time as "HH:MM".
func DayFractionToClock(f float64) (string, bool) {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	minutes := int(math.Round(f*24*60)) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), true
}

// FromSlot renders a slot as "HH:MM". Negative slots render as "".
func FromSlot(slot int) string {
	if slot < 0 {
		return ""
	}
	total := slot * SlotMinutes
	return fmt.Sprintf("%02d:%02d", (total/60)%24, total%60)
}

// ── Demand vectors ──────────────────────────────────────────────────

// BuildFlowVector spreads each hour's flow evenly over its four slots.
// Hours outside [0,24) are ignored, repeated hours accumulate and negative
// flow counts as zero.
func BuildFlowVector(hours []HourlyFlow) FlowVector {
	var fv FlowVector
	for _, h := range hours {
		if h.Hour < 0 || h.Hour >= 24 || h.Flow <= 0 {
			continue
		}
		perSlot := h.Flow / SlotsPerHour
		start := h.Hour * SlotsPerHour
		for k := 0; k < SlotsPerHour; k++ {
			fv[start+k] += perSlot
		}
	}
	return fv
}

// idealConversion is the conversion percentage at which an hour carries no
// lost-opportunity premium.
const idealConversion = 15.0

// OpportunityWeight is 1 plus the flow-scaled conversion shortfall. It is
// never below 1.
func OpportunityWeight(flow, conversion float64) float64 {
	if flow <= 0 {
		return 1
	}
	penalty := math.Max(0, (idealConversion-conversion)/idealConversion)
	return 1 + (flow/100)*penalty
}

// BuildWeightVector returns 1.0 everywhere except for hours that report a
// conversion rate, which get their OpportunityWeight.
func BuildWeightVector(hours []HourlyFlow) WeightVector {
	var wv WeightVector
	for i := range wv {
		wv[i] = 1
	}
	for _, h := range hours {
		if h.Hour < 0 || h.Hour >= 24 || h.Conversion <= 0 {
			continue
		}
		w := OpportunityWeight(h.Flow, h.Conversion)
		start := h.Hour * SlotsPerHour
		for k := 0; k < SlotsPerHour; k++ {
			wv[start+k] = w
		}
	}
	return wv
}

// Total returns the summed flow.
func (fv *FlowVector) Total() float64 {
	t := 0.0
	for _, f := range fv {
		t += f
	}
	return t
}
