// Package api exposes the optimizer over HTTP (gin) and AWS Lambda
// Function URLs. Both transports share Service.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Lob0Garou/Escala-que-Converte/internal/optimizer"
	"github.com/Lob0Garou/Escala-que-Converte/internal/roster"
	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

// ErrBadRequest marks errors caused by the request body.
var ErrBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// Service runs optimization requests. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	tuning optimizer.Tuning
	log    *zap.Logger
}

// NewService returns a Service using tuning for every request. A nil logger
// discards output.
func NewService(tuning optimizer.Tuning, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{tuning: tuning, log: log}
}

func (s *Service) options(req gjson.Result) (optimizer.Options, error) {
	opts := optimizer.Options{Tuning: s.tuning, Logger: s.log}
	if v := req.Get("currentScore"); v.Exists() && v.Type != gjson.Null {
		if v.Type != gjson.Number {
			return opts, badRequest("currentScore must be a number")
		}
		score := v.Float()
		opts.CurrentScore = &score
	}
	if v := req.Get("profile"); v.Exists() && v.String() != "" {
		p, ok := optimizer.ProfileByName(v.String())
		if !ok {
			return opts, badRequest("unknown profile %q", v.String())
		}
		opts.Profile = &p
	}
	return opts, nil
}

func parse(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, badRequest("body is not valid JSON")
	}
	req := gjson.ParseBytes(body)
	if !req.IsObject() {
		return gjson.Result{}, badRequest("body must be a JSON object")
	}
	return req, nil
}

func shiftsOf(req gjson.Result) ([]optimizer.Shift, error) {
	v := req.Get("shifts")
	if !v.Exists() {
		return nil, badRequest("missing shifts")
	}
	shifts, err := roster.ShiftsFromResult(v)
	if err != nil {
		return nil, fmt.Errorf("%w: shifts: %w", ErrBadRequest, err)
	}
	return shifts, nil
}

// OptimizeDay handles {"day", "shifts", "flow", "currentScore"?, "profile"?}.
func (s *Service) OptimizeDay(body []byte) (optimizer.DayResult, error) {
	req, err := parse(body)
	if err != nil {
		return optimizer.DayResult{}, err
	}
	day := strings.TrimSpace(req.Get("day").String())
	if day == "" {
		return optimizer.DayResult{}, badRequest("missing day")
	}
	if d, ok := roster.CanonicalDay(day); ok {
		day = d
	}
	shifts, err := shiftsOf(req)
	if err != nil {
		return optimizer.DayResult{}, err
	}
	flow := optimizer.DefaultFlowCurve()
	if v := req.Get("flow"); v.Exists() {
		if flow, err = roster.HourlyFromResult(v); err != nil {
			return optimizer.DayResult{}, fmt.Errorf("%w: flow: %w", ErrBadRequest, err)
		}
	}
	opts, err := s.options(req)
	if err != nil {
		return optimizer.DayResult{}, err
	}
	return optimizer.OptimizeDay(shifts, day, flow, opts), nil
}

// OptimizeWeek handles {"shifts", "flow"?: {DAY: hourly}, "currentScore"?}.
// Days without flow use the default curve.
func (s *Service) OptimizeWeek(body []byte) (optimizer.WeekResult, error) {
	req, err := parse(body)
	if err != nil {
		return optimizer.WeekResult{}, err
	}
	shifts, err := shiftsOf(req)
	if err != nil {
		return optimizer.WeekResult{}, err
	}
	var flow map[string][]thermal.HourlyFlow
	if v := req.Get("flow"); v.Exists() {
		if flow, err = roster.FlowFromResult(v); err != nil {
			return optimizer.WeekResult{}, fmt.Errorf("%w: flow: %w", ErrBadRequest, err)
		}
	}
	opts, err := s.options(req)
	if err != nil {
		return optimizer.WeekResult{}, err
	}
	return optimizer.OptimizeWeek(shifts, flow, opts), nil
}

// Metrics handles either {"series": [{hour, flow, activeStaff}]} or a day
// schedule {"day", "shifts", "flow"} whose active staff is derived from
// coverage.
func (s *Service) Metrics(body []byte) (thermal.Metrics, error) {
	req, err := parse(body)
	if err != nil {
		return thermal.Metrics{}, err
	}
	if v := req.Get("series"); v.Exists() {
		if !v.IsArray() {
			return thermal.Metrics{}, badRequest("series must be an array")
		}
		var series []thermal.HourlySample
		v.ForEach(func(_, e gjson.Result) bool {
			series = append(series, thermal.HourlySample{
				Hour:        int(e.Get("hour").Int()),
				Flow:        e.Get("flow").Float(),
				ActiveStaff: e.Get("activeStaff").Float(),
			})
			return true
		})
		return thermal.ThermalMetrics(series), nil
	}

	return dayMetrics(req)
}

// dayMetrics reports a day schedule's metrics without moving breaks.
func dayMetrics(req gjson.Result) (thermal.Metrics, error) {
	day := strings.TrimSpace(req.Get("day").String())
	if day == "" {
		return thermal.Metrics{}, badRequest("missing series or day")
	}
	if d, ok := roster.CanonicalDay(day); ok {
		day = d
	}
	shifts, err := shiftsOf(req)
	if err != nil {
		return thermal.Metrics{}, err
	}
	flow, err := roster.HourlyFromResult(req.Get("flow"))
	if err != nil {
		return thermal.Metrics{}, fmt.Errorf("%w: flow: %w", ErrBadRequest, err)
	}
	return optimizer.DayMetrics(shifts, day, flow), nil
}

// Status maps an error to its HTTP status.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, roster.ErrInvalidJSON),
		errors.Is(err, roster.ErrNoRows),
		errors.Is(err, roster.ErrBadHeader):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
