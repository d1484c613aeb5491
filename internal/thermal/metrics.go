package thermal

import (
	"math"
	"sort"
)

// Badge bands on the thermal index. Bands are half-open and contiguous.
const (
	HotThreshold       = 1.20
	AttentionThreshold = 1.05
	BalancedThreshold  = 0.95
	SlackThreshold     = 0.80

	// CriticalPressureFactor times mu is the pressure above which demand is
	// counted as lost.
	CriticalPressureFactor = 1.3

	// Sentinel replaces an infinite pressure or index in reported rows.
	Sentinel = 999.0

	spotLimit = 3
)

// Badge classifies one hour.
type Badge string

const (
	BadgeNoCoverage Badge = "no coverage"
	BadgeNoFlow     Badge = "no flow"
	BadgeHot        Badge = "hot"
	BadgeAttention  Badge = "attention"
	BadgeBalanced   Badge = "balanced"
	BadgeSlack      Badge = "slack"
	BadgeCold       Badge = "cold"
)

// Severity groups badges for display.
func (b Badge) Severity() string {
	switch b {
	case BadgeNoCoverage:
		return "critical"
	case BadgeNoFlow:
		return "neutral"
	case BadgeHot, BadgeAttention:
		return "warning"
	case BadgeBalanced:
		return "ok"
	default:
		return "info"
	}
}

// Classify picks the badge for an hour. Zero-coverage-with-flow and zero flow
// take priority over the index bands.
func Classify(flow, activeStaff, thermalIndex float64) Badge {
	switch {
	case activeStaff <= 0 && flow > 0:
		return BadgeNoCoverage
	case flow <= 0:
		return BadgeNoFlow
	case thermalIndex >= HotThreshold:
		return BadgeHot
	case thermalIndex >= AttentionThreshold:
		return BadgeAttention
	case thermalIndex >= BalancedThreshold:
		return BadgeBalanced
	case thermalIndex >= SlackThreshold:
		return BadgeSlack
	default:
		return BadgeCold
	}
}

// HourlySample is the reporter's input: one hour of flow and the staff
// actively serving it.
type HourlySample struct {
	Hour        int     `json:"hour"`
	Flow        float64 `json:"flow"`
	ActiveStaff float64 `json:"activeStaff"`
}

// HourRow is one reported hour. Pressure and ThermalIndex are Sentinel for an
// hour with flow and no staff.
type HourRow struct {
	Hour         int     `json:"hour"`
	Flow         float64 `json:"flow"`
	ActiveStaff  float64 `json:"activeStaff"`
	Pressure     float64 `json:"pressure"`
	ThermalIndex float64 `json:"thermalIndex"`
	FlowSharePct float64 `json:"flowSharePct"`
	Badge        Badge   `json:"badge"`
}

func (r HourRow) uncovered() bool { return r.Flow > 0 && r.ActiveStaff <= 0 }

// Metrics is the day summary shown to managers.
type Metrics struct {
	Mu              float64   `json:"mu"`
	Score           int       `json:"score"`
	Adherence       int       `json:"adherence"`
	LostOpportunity int       `json:"lostOpportunity"`
	Rows            []HourRow `json:"rows"`
	Hotspots        []HourRow `json:"hotspots"`
	Coldspots       []HourRow `json:"coldspots"`
}

// ThermalMetrics summarizes any hourly (flow, staff) series. It is read-only
// and independent of the optimizer's internal cost. Degenerate series (empty,
// zero flow, zero staff) yield mu=0 and score=0.
func ThermalMetrics(series []HourlySample) Metrics {
	out := Metrics{Rows: []HourRow{}, Hotspots: []HourRow{}, Coldspots: []HourRow{}}
	if len(series) == 0 {
		return out
	}

	totalFlow, totalStaff := 0.0, 0.0
	for _, h := range series {
		totalFlow += math.Max(h.Flow, 0)
		totalStaff += math.Max(h.ActiveStaff, 0)
	}
	mu := 0.0
	if totalStaff > 0 {
		mu = totalFlow / totalStaff
	}
	out.Mu = mu

	rows := make([]HourRow, len(series))
	for i, h := range series {
		flow := math.Max(h.Flow, 0)
		staff := math.Max(h.ActiveStaff, 0)
		r := HourRow{Hour: h.Hour, Flow: flow, ActiveStaff: staff}
		if totalFlow > 0 {
			r.FlowSharePct = flow / totalFlow * 100
		}
		switch {
		case flow <= 0:
		case staff <= 0:
			r.Pressure, r.ThermalIndex = Sentinel, Sentinel
		default:
			r.Pressure = flow / staff
			if mu > 0 {
				r.ThermalIndex = r.Pressure / mu
			}
		}
		r.Badge = Classify(flow, staff, r.ThermalIndex)
		rows[i] = r
	}
	out.Rows = rows

	if totalFlow <= 0 || mu <= 0 {
		return out
	}

	out.Score = balanceScore(rows, totalFlow)
	out.Adherence = adherence(rows, totalFlow, totalStaff)
	out.LostOpportunity = lostOpportunity(rows, mu)
	out.Hotspots, out.Coldspots = spots(rows)
	return out
}

// balanceScore is 100 minus the flow-weighted mean deviation of the thermal
// index from 1, floored at 0. Uncovered hours carry a sentinel index and are
// left out of the deviation.
func balanceScore(rows []HourRow, totalFlow float64) int {
	dev := 0.0
	for _, r := range rows {
		if r.Flow <= 0 || r.uncovered() {
			continue
		}
		dev += math.Abs(r.ThermalIndex-1) * r.Flow
	}
	score := int(math.Round(100 * (1 - dev/totalFlow)))
	return clampPct(score)
}

// adherence compares the shape of the flow and staffing distributions: 100
// minus half their L1 distance, as a percentage.
func adherence(rows []HourRow, totalFlow, totalStaff float64) int {
	dist := 0.0
	for _, r := range rows {
		dist += math.Abs(r.Flow/totalFlow - r.ActiveStaff/totalStaff)
	}
	return clampPct(int(math.Round(100 * (1 - dist/2))))
}

// lostOpportunity counts customers beyond what each hour's staff could serve
// at the critical pressure. Uncovered hours lose their whole flow.
func lostOpportunity(rows []HourRow, mu float64) int {
	critical := CriticalPressureFactor * mu
	lost := 0.0
	for _, r := range rows {
		if r.Flow <= 0 {
			continue
		}
		if r.uncovered() {
			lost += r.Flow
			continue
		}
		if r.Pressure > critical {
			lost += math.Max(0, r.Flow-r.ActiveStaff*critical)
		}
	}
	return int(math.Round(lost))
}

func spots(rows []HourRow) (hot, cold []HourRow) {
	valid := make([]HourRow, 0, len(rows))
	for _, r := range rows {
		if r.Flow > 0 && !r.uncovered() {
			valid = append(valid, r)
		}
	}
	byIndex := func(desc bool) []HourRow {
		s := append([]HourRow(nil), valid...)
		sort.SliceStable(s, func(i, j int) bool {
			if s[i].ThermalIndex != s[j].ThermalIndex {
				if desc {
					return s[i].ThermalIndex > s[j].ThermalIndex
				}
				return s[i].ThermalIndex < s[j].ThermalIndex
			}
			return s[i].Hour < s[j].Hour
		})
		if len(s) > spotLimit {
			s = s[:spotLimit]
		}
		return s
	}
	return byIndex(true), byIndex(false)
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// HourlySamples derives the reporter's series from slot vectors: for every
// hour present in hours, active staff is the mean coverage of its four slots.
// Hours outside [0,24) are dropped.
func HourlySamples(hours []HourlyFlow, cov *CoverageVector) []HourlySample {
	out := make([]HourlySample, 0, len(hours))
	for _, h := range hours {
		if h.Hour < 0 || h.Hour >= 24 {
			continue
		}
		sum := 0
		for k := 0; k < SlotsPerHour; k++ {
			sum += cov[h.Hour*SlotsPerHour+k]
		}
		out = append(out, HourlySample{
			Hour:        h.Hour,
			Flow:        h.Flow,
			ActiveStaff: float64(sum) / SlotsPerHour,
		})
	}
	return out
}
