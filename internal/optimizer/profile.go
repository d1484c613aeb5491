package optimizer

import (
	"strings"
	"time"
)

// Profile sizes the search. Larger stores and poorly balanced days get wider
// and deeper searches.
type Profile struct {
	Name string `json:"name"`
	// BeamWidth is the number of states kept per depth, across all parents.
	BeamWidth int `json:"beamWidth"`
	// MaxDepth caps the number of single-break moves chained by the beam.
	MaxDepth int `json:"maxDepth"`
	// ExplorationRounds caps the hotspot repair iterations.
	ExplorationRounds int `json:"explorationRounds"`
	// AlphaHotspot is the cost exponent for hotspot slots.
	AlphaHotspot float64 `json:"alphaHotspot"`
	// Timeout is the wall-clock budget for one day, checked once per beam
	// depth. Zero disables it.
	Timeout time.Duration `json:"timeout"`
}

var (
	ProfileSmall = Profile{
		Name:              "SMALL",
		BeamWidth:         3,
		MaxDepth:          8,
		ExplorationRounds: 5,
		AlphaHotspot:      3.0,
		Timeout:           100 * time.Millisecond,
	}
	ProfileMedium = Profile{
		Name:              "MEDIUM",
		BeamWidth:         5,
		MaxDepth:          10,
		ExplorationRounds: 15,
		AlphaHotspot:      3.5,
		Timeout:           200 * time.Millisecond,
	}
	ProfileLarge = Profile{
		Name:              "LARGE",
		BeamWidth:         50,
		MaxDepth:          30,
		ExplorationRounds: 100,
		AlphaHotspot:      5.0,
		Timeout:           1000 * time.Millisecond,
	}
)

const (
	smallStaffLimit  = 10
	mediumStaffLimit = 20
	largeBelowScore  = 75
	smallAboveScore  = 80
)

// SelectProfile picks LARGE for more than 20 staff or a score under 75, SMALL
// for at most 10 staff scoring above 80, and MEDIUM otherwise.
func SelectProfile(staffCount int, currentScore float64) Profile {
	switch {
	case staffCount > mediumStaffLimit || currentScore < largeBelowScore:
		return ProfileLarge
	case staffCount <= smallStaffLimit && currentScore > smallAboveScore:
		return ProfileSmall
	default:
		return ProfileMedium
	}
}

// Tuning holds the constants shared by every profile. Adjust these to trade
// speed for solution quality.
type Tuning struct {
	// AlphaNormal is the cost exponent for ordinary slots.
	AlphaNormal float64
	// HotspotMultiplier times the average pressure marks a cost hotspot.
	HotspotMultiplier float64
	// RepairMultiplier times the average pressure marks a slot for repair.
	RepairMultiplier float64
	// RepairTopSlots is how many of the worst slots each repair round targets.
	RepairTopSlots int
	// Patience stops the beam after this many depths without a new best.
	Patience int
	// TieEpsilon is the cost difference below which two candidates tie.
	TieEpsilon float64
}

// DefaultTuning returns the standard constants.
func DefaultTuning() Tuning {
	return Tuning{
		AlphaNormal:       2.0,
		HotspotMultiplier: 1.3,
		RepairMultiplier:  1.2,
		RepairTopSlots:    5,
		Patience:          3,
		TieEpsilon:        1e-4,
	}
}

// withDefaults fills zero fields so a partially specified Tuning still works.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.AlphaNormal <= 0 {
		t.AlphaNormal = d.AlphaNormal
	}
	if t.HotspotMultiplier <= 0 {
		t.HotspotMultiplier = d.HotspotMultiplier
	}
	if t.RepairMultiplier <= 0 {
		t.RepairMultiplier = d.RepairMultiplier
	}
	if t.RepairTopSlots <= 0 {
		t.RepairTopSlots = d.RepairTopSlots
	}
	if t.Patience <= 0 {
		t.Patience = d.Patience
	}
	if t.TieEpsilon <= 0 {
		t.TieEpsilon = d.TieEpsilon
	}
	return t
}

// ProfileByName looks up a built-in profile, ignoring case.
func ProfileByName(name string) (Profile, bool) {
	for _, p := range []Profile{ProfileSmall, ProfileMedium, ProfileLarge} {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Profile{}, false
}
