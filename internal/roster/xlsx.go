package roster

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Lob0Garou/Escala-que-Converte/internal/optimizer"
	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

// ReadShiftsXLSX reads the first sheet of a schedule workbook. The header row
// must name DIA, ENTRADA and SAIDA; ID, NOME and INTER are optional.
func ReadShiftsXLSX(r io.Reader) ([]optimizer.Shift, error) {
	rows, err := firstSheetRows(r)
	if err != nil {
		return nil, err
	}
	col := headerIndex(rows[0], map[string][]string{
		"id":    idKeys,
		"name":  append([]string{"colaborador"}, nameKeys...),
		"day":   dayKeys,
		"entry": entryKeys,
		"break": breakKeys,
		"exit":  exitKeys,
	})
	if col["day"] < 0 || col["entry"] < 0 || col["exit"] < 0 {
		return nil, ErrBadHeader
	}

	var shifts []optimizer.Shift
	for _, row := range rows[1:] {
		s := optimizer.Shift{
			ID:    cellAt(row, col["id"]),
			Name:  cellAt(row, col["name"]),
			Day:   dayOrRaw(cellAt(row, col["day"])),
			Entry: clockCell(cellAt(row, col["entry"])),
			Exit:  clockCell(cellAt(row, col["exit"])),
			Break: clockCell(cellAt(row, col["break"])),
		}
		if s.Day == "" && s.Entry == "" && s.Exit == "" {
			continue
		}
		shifts = append(shifts, s)
	}
	if len(shifts) == 0 {
		return nil, ErrNoRows
	}
	fillIDs(shifts)
	return shifts, nil
}

// ReadFlowXLSX reads hourly customer flow per day from the first sheet.
// Required columns are "Dia da Semana", cod_hora_entrada and qtd_entrante;
// "% Conversão" or qtd_cupom supply the conversion when present. Total rows
// and rows without a numeric hour are skipped.
func ReadFlowXLSX(r io.Reader) (map[string][]thermal.HourlyFlow, error) {
	rows, err := firstSheetRows(r)
	if err != nil {
		return nil, err
	}
	col := headerIndex(rows[0], map[string][]string{
		"day":  dayKeys,
		"hour": hourKeys,
		"flow": flowKeys,
		"conv": convKeys,
		"cups": cupKeys,
	})
	if col["day"] < 0 || col["hour"] < 0 || col["flow"] < 0 {
		return nil, ErrBadHeader
	}

	out := make(map[string][]thermal.HourlyFlow)
	for _, row := range rows[1:] {
		h, ok := parseHour(cellAt(row, col["hour"]))
		if !ok {
			continue
		}
		flow, _ := parseNumber(cellAt(row, col["flow"]))
		entry := thermal.HourlyFlow{Hour: h, Flow: flow, Conversion: parseConversion(cellAt(row, col["conv"]))}
		if entry.Conversion == 0 && flow > 0 {
			if c, ok := parseNumber(cellAt(row, col["cups"])); ok && c > 0 {
				entry.Conversion = c / flow * 100
			}
		}
		day := dayOrRaw(cellAt(row, col["day"]))
		out[day] = append(out[day], entry)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

func firstSheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	// raw values keep time cells as day fractions regardless of display format
	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}
	return rows, nil
}

// headerIndex maps each logical column to its position, -1 when absent.
func headerIndex(header []string, aliases map[string][]string) map[string]int {
	idx := make(map[string]int, len(aliases))
	for name := range aliases {
		idx[name] = -1
	}
	for i, h := range header {
		key := fold(h)
		for name, names := range aliases {
			if idx[name] >= 0 {
				continue
			}
			for _, n := range names {
				if key == n {
					idx[name] = i
				}
			}
		}
	}
	return idx
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ── Export ──────────────────────────────────────────────────────────

const (
	scheduleSheet = "Escala"
	summarySheet  = "Resumo"
)

// WriteShiftsXLSX writes the schedule to w as a workbook with an "Escala"
// sheet. Breaks listed in the days' moves are highlighted, and when days are
// given a "Resumo" sheet compares each day before and after optimization.
func WriteShiftsXLSX(w io.Writer, shifts []optimizer.Shift, days ...optimizer.DayResult) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(scheduleSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	movedStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#C6EFCE"}, Pattern: 1},
	})

	moved := make(map[string]bool)
	for _, d := range days {
		for _, m := range d.Moves {
			moved[d.Day+"|"+m.ID] = true
		}
	}

	f.SetColWidth(scheduleSheet, "A", "A", 38)
	f.SetColWidth(scheduleSheet, "B", "B", 24)
	f.SetColWidth(scheduleSheet, "C", "F", 12)
	for i, h := range []string{"ID", "NOME", "DIA", "ENTRADA", "INTER", "SAIDA"} {
		c, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(scheduleSheet, c, h)
	}
	f.SetCellStyle(scheduleSheet, "A1", "F1", headerStyle)

	for i, s := range shifts {
		row := i + 2
		for j, v := range []string{s.ID, s.Name, s.Day, s.Entry, s.Break, s.Exit} {
			c, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(scheduleSheet, c, v)
		}
		if moved[s.Day+"|"+s.ID] {
			c, _ := excelize.CoordinatesToCellName(5, row)
			f.SetCellStyle(scheduleSheet, c, c, movedStyle)
		}
	}

	if len(days) > 0 {
		if err := writeSummary(f, days, headerStyle); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, days []optimizer.DayResult, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetColWidth(summarySheet, "A", "A", 12)
	f.SetColWidth(summarySheet, "B", "I", 14)
	header := []string{"DIA", "PERFIL", "EQUIPE", "SCORE ANTES", "SCORE DEPOIS",
		"ADERÊNCIA ANTES", "ADERÊNCIA DEPOIS", "PERDA ANTES", "PERDA DEPOIS"}
	for i, h := range header {
		c, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, c, h)
	}
	f.SetCellStyle(summarySheet, "A1", "I1", headerStyle)

	for i, d := range days {
		values := []any{d.Day, d.Profile.Name, d.Staff,
			d.Before.Score, d.After.Score,
			d.Before.Adherence, d.After.Adherence,
			d.Before.LostOpportunity, d.After.LostOpportunity}
		for j, v := range values {
			c, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(summarySheet, c, v)
		}
	}
	return nil
}
