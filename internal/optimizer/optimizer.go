// Package optimizer repositions employee breaks so that staff coverage
// follows customer flow. Entry and exit times are never changed.
package optimizer

import (
	"time"

	"go.uber.org/zap"

	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

// Options tune one optimization call. The zero value is ready to use.
type Options struct {
	// CurrentScore biases profile selection. When nil the day's own score
	// before optimization is used.
	CurrentScore *float64
	// Profile forces a search profile instead of selecting one.
	Profile *Profile
	Tuning  Tuning
	Logger  *zap.Logger
}

func (opts Options) logger() *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}

// BreakMove records one employee whose break changed.
type BreakMove struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	From string `json:"from"`
	To   string `json:"to"`
}

// PhaseStats reports the cost trajectory of one search phase, measured
// against the hotspot threshold frozen at the start of that phase.
type PhaseStats struct {
	Name      string  `json:"name"`
	StartCost float64 `json:"startCost"`
	EndCost   float64 `json:"endCost"`
	// Steps is accepted moves for repair and completed depths for the beam.
	Steps int    `json:"steps"`
	Stop  string `json:"stop"`
}

// DayResult is the outcome of OptimizeDay.
type DayResult struct {
	Day string `json:"day"`
	// Shifts is the caller's full list with revised breaks for the day.
	Shifts      []Shift         `json:"shifts"`
	Profile     Profile         `json:"profile"`
	Staff       int             `json:"staff"`
	Movable     int             `json:"movable"`
	InitialCost float64         `json:"initialCost"`
	FinalCost   float64         `json:"finalCost"`
	Phases      []PhaseStats    `json:"phases"`
	Moves       []BreakMove     `json:"moves"`
	Overnight   []string        `json:"overnight,omitempty"`
	Before      thermal.Metrics `json:"before"`
	After       thermal.Metrics `json:"after"`
	Elapsed     time.Duration   `json:"elapsedNs"`
}

// ── Optimizer ───────────────────────────────────────────────────────

// Optimizer holds the working state for one day. It is not safe for
// concurrent use; run one per goroutine.
type Optimizer struct {
	profile Profile
	tuning  Tuning
	params  thermal.CostParams
	log     *zap.Logger

	flow   thermal.FlowVector
	weight thermal.WeightVector

	staff   []dayShift
	movable []int // indices into staff

	// working state
	breaks []int // current break per movable shift
	cov    thermal.CoverageVector

	deadline time.Time
}

func newOptimizer(staff []dayShift, hourly []thermal.HourlyFlow, profile Profile, tuning Tuning, log *zap.Logger) *Optimizer {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Optimizer{
		profile: profile,
		tuning:  tuning,
		params: thermal.CostParams{
			AlphaNormal:       tuning.AlphaNormal,
			AlphaHotspot:      profile.AlphaHotspot,
			HotspotMultiplier: tuning.HotspotMultiplier,
		},
		log:    log,
		flow:   thermal.BuildFlowVector(hourly),
		weight: thermal.BuildWeightVector(hourly),
		staff:  staff,
	}
	for i := range staff {
		if staff[i].movable {
			o.movable = append(o.movable, i)
			o.breaks = append(o.breaks, staff[i].span.Break)
		}
	}
	o.cov = thermal.BuildCoverageVector(spansOf(staff))
	return o
}

func (o *Optimizer) window(mi int) (lo, hi int) {
	ds := &o.staff[o.movable[mi]]
	return ds.lo, ds.hi
}

func (o *Optimizer) fullCost() float64 {
	return thermal.ExponentialCost(&o.cov, &o.flow, &o.weight, o.params).Total
}

// moveBreak applies a committed move to the working state.
func (o *Optimizer) moveBreak(mi, to int) {
	thermal.ApplyBreakMove(&o.cov, o.breaks[mi], to)
	o.breaks[mi] = to
}

func (o *Optimizer) setBreaks(breaks []int) {
	for mi, b := range breaks {
		if b != o.breaks[mi] {
			o.moveBreak(mi, b)
		}
	}
}

func (o *Optimizer) timedOut() bool {
	return !o.deadline.IsZero() && time.Now().After(o.deadline)
}

// run executes hotspot repair followed by beam search.
func (o *Optimizer) run(start time.Time) []PhaseStats {
	if o.profile.Timeout > 0 {
		o.deadline = start.Add(o.profile.Timeout)
	}
	o.log.Debug("[init]",
		zap.String("profile", o.profile.Name),
		zap.Int("staff", len(o.staff)),
		zap.Int("movable", len(o.movable)))

	repair := o.hotspotRepair()
	o.log.Debug("[repair]",
		zap.Float64("start", repair.StartCost),
		zap.Float64("end", repair.EndCost),
		zap.Int("moves", repair.Steps))

	beam := o.beamSearch()
	o.log.Debug("[beam]",
		zap.Float64("start", beam.StartCost),
		zap.Float64("end", beam.EndCost),
		zap.Int("depths", beam.Steps),
		zap.String("stop", beam.Stop))

	o.log.Debug("[done]", zap.Float64("cost", o.fullCost()), zap.Bool("timed_out", o.timedOut()))
	return []PhaseStats{repair, beam}
}

// ── Day / week orchestration ────────────────────────────────────────

// OptimizeDay revises the breaks of every shift on day. Shifts of other days,
// days off and shifts too short for a legal break pass through unchanged.
// Degenerate input (no staff, no flow) returns the shifts unchanged.
func OptimizeDay(shifts []Shift, day string, hourly []thermal.HourlyFlow, opts Options) DayResult {
	start := time.Now()
	log := opts.logger().With(zap.String("day", day))
	tuning := opts.Tuning.withDefaults()

	res := DayResult{
		Day:    day,
		Shifts: append([]Shift(nil), shifts...),
		Phases: []PhaseStats{},
		Moves:  []BreakMove{},
	}

	staff := normalizeDay(shifts, day)
	res.Staff = len(staff)
	for _, ds := range staff {
		if ds.movable {
			res.Movable++
		}
		if ds.overnight {
			res.Overnight = append(res.Overnight, shifts[ds.idx].ID)
			log.Warn("overnight shift clamped to end of day",
				zap.String("id", shifts[ds.idx].ID),
				zap.String("entry", shifts[ds.idx].Entry),
				zap.String("exit", shifts[ds.idx].Exit))
		}
	}

	res.Before = metricsOf(staff, hourly)
	res.After = res.Before

	score := float64(res.Before.Score)
	if opts.CurrentScore != nil {
		score = *opts.CurrentScore
	}
	res.Profile = SelectProfile(res.Staff, score)
	if opts.Profile != nil {
		res.Profile = *opts.Profile
	}

	flow := thermal.BuildFlowVector(hourly)
	if res.Movable == 0 || flow.Total() <= 0 {
		log.Debug("nothing to optimize", zap.Int("staff", res.Staff), zap.Float64("flow", flow.Total()))
		res.Elapsed = time.Since(start)
		return res
	}

	o := newOptimizer(staff, hourly, res.Profile, tuning, log)
	res.InitialCost = o.fullCost()
	res.Phases = o.run(start)
	res.FinalCost = o.fullCost()

	for mi, si := range o.movable {
		ds := &staff[si]
		if o.breaks[mi] == ds.span.Break {
			continue
		}
		orig := shifts[ds.idx]
		res.Shifts[ds.idx].Break = thermal.FromSlot(o.breaks[mi])
		res.Moves = append(res.Moves, BreakMove{
			ID:   orig.ID,
			Name: orig.Name,
			From: orig.Break,
			To:   res.Shifts[ds.idx].Break,
		})
	}
	res.After = thermal.ThermalMetrics(thermal.HourlySamples(hourly, &o.cov))
	res.Elapsed = time.Since(start)

	log.Info("day optimized",
		zap.String("profile", res.Profile.Name),
		zap.Int("staff", res.Staff),
		zap.Int("moved", len(res.Moves)),
		zap.Int("score_before", res.Before.Score),
		zap.Int("score_after", res.After.Score),
		zap.Duration("elapsed", res.Elapsed))
	return res
}

// DayMetrics reports the metrics of day's schedule as given, without moving
// any break.
func DayMetrics(shifts []Shift, day string, hourly []thermal.HourlyFlow) thermal.Metrics {
	return metricsOf(normalizeDay(shifts, day), hourly)
}

func metricsOf(staff []dayShift, hourly []thermal.HourlyFlow) thermal.Metrics {
	cov := thermal.BuildCoverageVector(spansOf(staff))
	return thermal.ThermalMetrics(thermal.HourlySamples(hourly, &cov))
}

// DefaultFlowCurve is the typical retail day used when a day has no flow data.
func DefaultFlowCurve() []thermal.HourlyFlow {
	return []thermal.HourlyFlow{
		{Hour: 10, Flow: 50}, {Hour: 11, Flow: 70}, {Hour: 12, Flow: 100}, {Hour: 13, Flow: 80},
		{Hour: 14, Flow: 90}, {Hour: 15, Flow: 85}, {Hour: 16, Flow: 95}, {Hour: 17, Flow: 110},
		{Hour: 18, Flow: 120}, {Hour: 19, Flow: 100}, {Hour: 20, Flow: 80}, {Hour: 21, Flow: 50},
	}
}

// WeekResult is the outcome of OptimizeWeek.
type WeekResult struct {
	Shifts  []Shift       `json:"shifts"`
	Days    []DayResult   `json:"days"`
	Elapsed time.Duration `json:"elapsedNs"`
}

// FlowFor looks up a day's flow ignoring label case.
func FlowFor(flowByDay map[string][]thermal.HourlyFlow, day string) ([]thermal.HourlyFlow, bool) {
	if h, ok := flowByDay[day]; ok {
		return h, true
	}
	for k, h := range flowByDay {
		if SameDay(k, day) {
			return h, true
		}
	}
	return nil, false
}

// OptimizeWeek runs OptimizeDay for each weekday in order, feeding each day's
// revised list into the next. Days are optimized independently.
func OptimizeWeek(shifts []Shift, flowByDay map[string][]thermal.HourlyFlow, opts Options) WeekResult {
	start := time.Now()
	log := opts.logger()
	current := append([]Shift(nil), shifts...)
	out := WeekResult{Days: make([]DayResult, 0, len(Weekdays))}
	for _, day := range Weekdays {
		hourly, ok := FlowFor(flowByDay, day)
		if !ok {
			log.Info("no flow for day, using default curve", zap.String("day", day))
			hourly = DefaultFlowCurve()
		}
		r := OptimizeDay(current, day, hourly, opts)
		current = r.Shifts
		out.Days = append(out.Days, r)
	}
	out.Shifts = current
	out.Elapsed = time.Since(start)
	return out
}
