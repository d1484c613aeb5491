// Package roster converts collaborator files (JSON documents and
// spreadsheets) to and from the optimizer's shift and flow types.
package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Lob0Garou/Escala-que-Converte/internal/optimizer"
	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

var (
	ErrNoRows      = errors.New("roster: no data rows")
	ErrBadHeader   = errors.New("roster: missing required columns")
	ErrInvalidJSON = errors.New("roster: invalid JSON")
)

// idSpace namespaces the ids generated for rows that carry none.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Lob0Garou/Escala-que-Converte/shift"))

// StableID derives a deterministic id from a row's content and position, so
// repeated imports of the same file agree.
func StableID(row int, s optimizer.Shift) string {
	key := fmt.Sprintf("%d|%s|%s|%s|%s", row, s.Name, s.Day, s.Entry, s.Exit)
	return uuid.NewSHA1(idSpace, []byte(key)).String()
}

// dayPrefixes maps the first three folded letters of a day label.
var dayPrefixes = map[string]string{
	"seg": "SEGUNDA",
	"ter": "TERÇA",
	"qua": "QUARTA",
	"qui": "QUINTA",
	"sex": "SEXTA",
	"sab": "SÁBADO",
	"dom": "DOMINGO",
}

// CanonicalDay maps day labels such as "segunda", "Terca", "6. Sab" or
// "DOM" to the canonical week names.
func CanonicalDay(label string) (string, bool) {
	s := fold(label)
	s = strings.TrimLeft(s, "0123456789. -")
	if len(s) < 3 {
		return "", false
	}
	day, ok := dayPrefixes[s[:3]]
	return day, ok
}

// dayOrRaw canonicalizes label when it is recognized and otherwise keeps it
// trimmed, so unknown labels simply match no weekday.
func dayOrRaw(label string) string {
	if d, ok := CanonicalDay(label); ok {
		return d
	}
	return strings.TrimSpace(label)
}

var accents = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

// fold lower-cases s and strips Portuguese diacritics.
func fold(s string) string {
	return accents.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// clockCell normalizes a time cell: "HH:MM[:SS]" keeps hours and minutes,
// a number is read as an Excel fraction of a day, and FOLGA or empty pass
// through. Anything else is kept as is and later ignored by the optimizer.
func clockCell(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || strings.EqualFold(s, thermal.DayOff):
		return s
	case strings.Contains(s, ":"):
		if parts := strings.Split(s, ":"); len(parts) == 3 {
			return parts[0] + ":" + parts[1]
		}
		return s
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return s
	}
	if c, ok := thermal.DayFractionToClock(f); ok {
		return c
	}
	return s
}

// parseNumber reads counts that may carry thousands separators ("1,234").
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// parseConversion reads a conversion percentage. Fractions below 1 are
// scaled to percent; a trailing % is allowed.
func parseConversion(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || f <= 0 {
		return 0
	}
	if f < 1 {
		return f * 100
	}
	return f
}

// parseHour reads an hour code: "10", "10.0" or "10:00".
func parseHour(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f >= 24 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// fillIDs assigns stable ids to shifts read without one.
func fillIDs(shifts []optimizer.Shift) {
	for i := range shifts {
		if shifts[i].ID == "" {
			shifts[i].ID = StableID(i, shifts[i])
		}
	}
}
