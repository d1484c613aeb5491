package roster

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Lob0Garou/Escala-que-Converte/internal/optimizer"
	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

// Accepted key spellings, compared after fold.
var (
	idKeys    = []string{"id"}
	nameKeys  = []string{"name", "nome"}
	dayKeys   = []string{"day", "dia", "dia da semana"}
	entryKeys = []string{"entry", "entrada"}
	exitKeys  = []string{"exit", "saida"}
	breakKeys = []string{"break", "intervalo", "inter"}

	hourKeys = []string{"hour", "hora", "cod_hora_entrada"}
	flowKeys = []string{"flow", "fluxo", "qtd_entrante"}
	convKeys = []string{"conversion", "conversao", "% conversao"}
	cupKeys  = []string{"qtd_cupom", "cupons"}

	shiftListKeys = []string{"shifts", "escala"}
	flowListKeys  = []string{"flow", "fluxo", "flowbyday", "hourly"}
)

// field returns the first member of obj whose key folds to one of names.
func field(obj gjson.Result, names ...string) gjson.Result {
	var out gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		key := fold(k.String())
		for _, n := range names {
			if key == n {
				out = v
				return false
			}
		}
		return true
	})
	return out
}

// timeText renders a scalar as a time-or-label string. Numbers are Excel day
// fractions; null and missing are empty.
func timeText(v gjson.Result) string {
	switch v.Type {
	case gjson.Number:
		if c, ok := thermal.DayFractionToClock(v.Float()); ok {
			return c
		}
		return ""
	case gjson.String:
		return clockCell(v.String())
	}
	return ""
}

func validate(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ErrInvalidJSON
	}
	return gjson.ParseBytes(data), nil
}

// ParseShiftsJSON reads a shift list: either a bare array or an object with
// a "shifts" (or "escala") array. Keys may be English or Portuguese in any
// case.
func ParseShiftsJSON(data []byte) ([]optimizer.Shift, error) {
	root, err := validate(data)
	if err != nil {
		return nil, err
	}
	return ShiftsFromResult(root)
}

// ShiftsFromResult is ParseShiftsJSON over an already parsed document.
func ShiftsFromResult(root gjson.Result) ([]optimizer.Shift, error) {
	if root.IsObject() {
		root = field(root, shiftListKeys...)
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: shifts must be an array", ErrInvalidJSON)
	}

	var shifts []optimizer.Shift
	var bad error
	root.ForEach(func(i, v gjson.Result) bool {
		if !v.IsObject() {
			bad = fmt.Errorf("%w: shift %d is not an object", ErrInvalidJSON, i.Int())
			return false
		}
		shifts = append(shifts, optimizer.Shift{
			ID:    strings.TrimSpace(field(v, idKeys...).String()),
			Name:  strings.TrimSpace(field(v, nameKeys...).String()),
			Day:   dayOrRaw(field(v, dayKeys...).String()),
			Entry: timeText(field(v, entryKeys...)),
			Exit:  timeText(field(v, exitKeys...)),
			Break: timeText(field(v, breakKeys...)),
		})
		return true
	})
	if bad != nil {
		return nil, bad
	}
	if len(shifts) == 0 {
		return nil, ErrNoRows
	}
	fillIDs(shifts)
	return shifts, nil
}

// ParseHourlyJSON reads one day's hourly flow: an array of objects
// ({"hour":10,"flow":120,"conversion":12}) or of [hour, flow, conversion?]
// tuples.
func ParseHourlyJSON(data []byte) ([]thermal.HourlyFlow, error) {
	root, err := validate(data)
	if err != nil {
		return nil, err
	}
	return HourlyFromResult(root)
}

// HourlyFromResult is ParseHourlyJSON over an already parsed value.
func HourlyFromResult(v gjson.Result) ([]thermal.HourlyFlow, error) {
	if v.IsObject() {
		v = field(v, flowListKeys...)
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: hourly flow must be an array", ErrInvalidJSON)
	}
	hours := []thermal.HourlyFlow{}
	v.ForEach(func(_, e gjson.Result) bool {
		if h, ok := hourlyEntry(e); ok {
			hours = append(hours, h)
		}
		return true
	})
	return hours, nil
}

// hourlyEntry reads one hour; entries without a usable hour are skipped,
// which drops "Total" rows.
func hourlyEntry(e gjson.Result) (thermal.HourlyFlow, bool) {
	var hour, flow, conv, cups gjson.Result
	switch {
	case e.IsArray():
		a := e.Array()
		if len(a) < 2 {
			return thermal.HourlyFlow{}, false
		}
		hour, flow = a[0], a[1]
		if len(a) > 2 {
			conv = a[2]
		}
	case e.IsObject():
		hour = field(e, hourKeys...)
		flow = field(e, flowKeys...)
		conv = field(e, convKeys...)
		cups = field(e, cupKeys...)
	default:
		return thermal.HourlyFlow{}, false
	}

	h, ok := parseHour(hour.String())
	if !ok {
		return thermal.HourlyFlow{}, false
	}
	f, _ := parseNumber(flow.String())
	out := thermal.HourlyFlow{Hour: h, Flow: f, Conversion: parseConversion(conv.String())}
	if out.Conversion == 0 && f > 0 {
		if c, ok := parseNumber(cups.String()); ok && c > 0 {
			out.Conversion = c / f * 100
		}
	}
	return out, true
}

// ParseFlowJSON reads a week of flow keyed by canonical day. Accepted forms:
// an object of day → hourly array, or a flat array of rows each naming its
// day (the spreadsheet export shape). Either may be wrapped in {"flow": ...}.
func ParseFlowJSON(data []byte) (map[string][]thermal.HourlyFlow, error) {
	root, err := validate(data)
	if err != nil {
		return nil, err
	}
	return FlowFromResult(root)
}

// FlowFromResult is ParseFlowJSON over an already parsed value.
func FlowFromResult(root gjson.Result) (map[string][]thermal.HourlyFlow, error) {
	if root.IsObject() {
		if inner := field(root, flowListKeys...); inner.Exists() {
			root = inner
		}
	}

	out := make(map[string][]thermal.HourlyFlow)
	switch {
	case root.IsObject():
		var bad error
		root.ForEach(func(k, v gjson.Result) bool {
			hours, err := HourlyFromResult(v)
			if err != nil {
				bad = fmt.Errorf("day %q: %w", k.String(), err)
				return false
			}
			day := dayOrRaw(k.String())
			out[day] = append(out[day], hours...)
			return true
		})
		if bad != nil {
			return nil, bad
		}
	case root.IsArray():
		root.ForEach(func(_, e gjson.Result) bool {
			if !e.IsObject() {
				return true
			}
			h, ok := hourlyEntry(e)
			if !ok {
				return true
			}
			day := dayOrRaw(field(e, dayKeys...).String())
			out[day] = append(out[day], h)
			return true
		})
	default:
		return nil, fmt.Errorf("%w: flow must be an object or array", ErrInvalidJSON)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}
