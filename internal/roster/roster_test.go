package roster

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Lob0Garou/Escala-que-Converte/internal/optimizer"
	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

func TestCanonicalDay(t *testing.T) {
	cases := map[string]string{
		"SEGUNDA": "SEGUNDA",
		"terça":   "TERÇA",
		"Terca":   "TERÇA",
		"3. Qua":  "QUARTA",
		"4. Qui":  "QUINTA",
		" sexta ": "SEXTA",
		"6. Sab":  "SÁBADO",
		"Sábado":  "SÁBADO",
		"7. Dom":  "DOMINGO",
		"domingo": "DOMINGO",
	}
	for in, want := range cases {
		if got, ok := CanonicalDay(in); !ok || got != want {
			t.Errorf("CanonicalDay(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "xx", "Total", "monday"} {
		if got, ok := CanonicalDay(in); ok {
			t.Errorf("CanonicalDay(%q) = %q, want no match", in, got)
		}
	}
}

func TestClockCell(t *testing.T) {
	cases := map[string]string{
		"10:00":               "10:00",
		"09:30:00":            "09:30",
		"FOLGA":               "FOLGA",
		"":                    "",
		"0.5":                 "12:00",
		"0.41666666666666669": "10:00",
		"0,75":                "18:00",
	}
	for in, want := range cases {
		if got := clockCell(in); got != want {
			t.Errorf("clockCell(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseHelpers(t *testing.T) {
	if f, ok := parseNumber("1,234"); !ok || f != 1234 {
		t.Errorf("parseNumber thousands = %v, %v", f, ok)
	}
	if _, ok := parseNumber(""); ok {
		t.Error("empty number parsed")
	}
	if got := parseConversion("0.12"); got != 12 {
		t.Errorf("fraction conversion %v", got)
	}
	if got := parseConversion("14,5%"); got != 14.5 {
		t.Errorf("percent conversion %v", got)
	}
	if h, ok := parseHour("10:00"); !ok || h != 10 {
		t.Errorf("parseHour clock %d %v", h, ok)
	}
	for _, bad := range []string{"Total", "", "24", "9.5"} {
		if _, ok := parseHour(bad); ok {
			t.Errorf("parseHour(%q) accepted", bad)
		}
	}
}

func TestStableID(t *testing.T) {
	s := optimizer.Shift{Name: "Ana", Day: "SEGUNDA", Entry: "10:00", Exit: "19:00"}
	if StableID(0, s) != StableID(0, s) {
		t.Error("id not deterministic")
	}
	if StableID(0, s) == StableID(1, s) {
		t.Error("row position ignored")
	}
}

func TestParseShiftsJSON(t *testing.T) {
	doc := `{"escala": [
		{"ID": "a1", "NOME": "Ana", "DIA": "segunda", "ENTRADA": "10:00", "INTER": "12:00", "SAÍDA": "19:00"},
		{"name": "Bruno", "day": "2. Ter", "entry": 0.375, "break": "13:00:00", "exit": 0.75},
		{"nome": "Caio", "dia": "QUARTA", "entrada": "FOLGA", "saida": null, "intervalo": null}
	]}`
	shifts, err := ParseShiftsJSON([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(shifts) != 3 {
		t.Fatalf("%d shifts", len(shifts))
	}
	want0 := optimizer.Shift{ID: "a1", Name: "Ana", Day: "SEGUNDA", Entry: "10:00", Exit: "19:00", Break: "12:00"}
	if shifts[0] != want0 {
		t.Errorf("shift 0 = %+v", shifts[0])
	}
	b := shifts[1]
	if b.Day != "TERÇA" || b.Entry != "09:00" || b.Exit != "18:00" || b.Break != "13:00" {
		t.Errorf("shift 1 = %+v", b)
	}
	if b.ID == "" || b.ID == shifts[2].ID {
		t.Errorf("generated ids %q %q", b.ID, shifts[2].ID)
	}
	if shifts[2].Entry != "FOLGA" || shifts[2].Exit != "" {
		t.Errorf("day off = %+v", shifts[2])
	}
}

func TestParseShiftsJSONErrors(t *testing.T) {
	cases := []struct {
		doc  string
		want error
	}{
		{`{not json`, ErrInvalidJSON},
		{`{"shifts": 3}`, ErrInvalidJSON},
		{`[1, 2]`, ErrInvalidJSON},
		{`[]`, ErrNoRows},
	}
	for _, c := range cases {
		if _, err := ParseShiftsJSON([]byte(c.doc)); !errors.Is(err, c.want) {
			t.Errorf("%s: err %v, want %v", c.doc, err, c.want)
		}
	}
}

func TestParseHourlyJSON(t *testing.T) {
	hours, err := ParseHourlyJSON([]byte(`[[10, 50], [11, "1,200", 0.1], {"hora": "12:00", "fluxo": 90, "% Conversão": 12}, {"cod_hora_entrada": "Total", "qtd_entrante": 999}]`))
	if err != nil {
		t.Fatal(err)
	}
	want := []thermal.HourlyFlow{
		{Hour: 10, Flow: 50},
		{Hour: 11, Flow: 1200, Conversion: 10},
		{Hour: 12, Flow: 90, Conversion: 12},
	}
	if len(hours) != len(want) {
		t.Fatalf("got %+v", hours)
	}
	for i := range want {
		if hours[i] != want[i] {
			t.Errorf("hour %d = %+v, want %+v", i, hours[i], want[i])
		}
	}
}

func TestParseFlowJSON(t *testing.T) {
	byDay, err := ParseFlowJSON([]byte(`{"segunda": [[10, 50]], "TERÇA": [{"hour": 11, "flow": 70}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(byDay["SEGUNDA"]) != 1 || len(byDay["TERÇA"]) != 1 || byDay["TERÇA"][0].Flow != 70 {
		t.Errorf("object form = %+v", byDay)
	}

	rows, err := ParseFlowJSON([]byte(`{"flow": [
		{"Dia da Semana": "1. Seg", "cod_hora_entrada": "10", "qtd_entrante": "40", "qtd_cupom": "4"},
		{"Dia da Semana": "1. Seg", "cod_hora_entrada": "Total", "qtd_entrante": "40"},
		{"Dia da Semana": "7. Dom", "cod_hora_entrada": 15, "qtd_entrante": 25}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := rows["SEGUNDA"]; len(got) != 1 || got[0].Conversion != 10 {
		t.Errorf("row form monday = %+v", got)
	}
	if got := rows["DOMINGO"]; len(got) != 1 || got[0].Hour != 15 {
		t.Errorf("row form sunday = %+v", got)
	}

	if _, err := ParseFlowJSON([]byte(`"x"`)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("scalar flow err %v", err)
	}
	if _, err := ParseFlowJSON([]byte(`{"segunda": 5}`)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("bad day value err %v", err)
	}
}

// workbook builds an in-memory xlsx with one sheet of rows.
func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestReadShiftsXLSX(t *testing.T) {
	buf := workbook(t, [][]any{
		{"NOME", "DIA", "ENTRADA", "INTER", "SAÍDA"},
		{"Ana", "SEGUNDA", "10:00", "12:00", "19:00"},
		{"Bruno", "SEGUNDA", 0.375, 0.5, 0.75},
		{},
		{"Caio", "TERÇA", "FOLGA", "", ""},
	})
	shifts, err := ReadShiftsXLSX(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(shifts) != 3 {
		t.Fatalf("%d shifts: %+v", len(shifts), shifts)
	}
	if s := shifts[1]; s.Entry != "09:00" || s.Break != "12:00" || s.Exit != "18:00" {
		t.Errorf("fractional times = %+v", s)
	}
	if shifts[2].Entry != "FOLGA" || shifts[2].Day != "TERÇA" {
		t.Errorf("day off = %+v", shifts[2])
	}
	for _, s := range shifts {
		if s.ID == "" {
			t.Errorf("missing id for %s", s.Name)
		}
	}
}

func TestReadShiftsXLSXErrors(t *testing.T) {
	if _, err := ReadShiftsXLSX(workbook(t, [][]any{{"NOME", "DIA"}, {"Ana", "SEGUNDA"}})); !errors.Is(err, ErrBadHeader) {
		t.Errorf("bad header err %v", err)
	}
	if _, err := ReadShiftsXLSX(workbook(t, [][]any{{"DIA", "ENTRADA", "SAIDA"}})); !errors.Is(err, ErrNoRows) {
		t.Errorf("no rows err %v", err)
	}
	if _, err := ReadShiftsXLSX(bytes.NewReader([]byte("not a zip"))); err == nil {
		t.Error("garbage accepted")
	}
}

func TestReadFlowXLSX(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Dia da Semana", "cod_hora_entrada", "qtd_entrante", "% Conversão"},
		{"1. Seg", "10", "1,050", 0.12},
		{"1. Seg", "11", "80", "15"},
		{"1. Seg", "Total", "1,130", ""},
		{"6. Sab", 14, 60, ""},
	})
	byDay, err := ReadFlowXLSX(buf)
	if err != nil {
		t.Fatal(err)
	}
	mon := byDay["SEGUNDA"]
	if len(mon) != 2 {
		t.Fatalf("monday rows %+v", mon)
	}
	if mon[0].Flow != 1050 || mon[0].Conversion != 12 || mon[1].Conversion != 15 {
		t.Errorf("monday = %+v", mon)
	}
	if sat := byDay["SÁBADO"]; len(sat) != 1 || sat[0].Hour != 14 || sat[0].Flow != 60 {
		t.Errorf("saturday = %+v", sat)
	}
}

func TestWriteShiftsXLSXRoundTrip(t *testing.T) {
	shifts := []optimizer.Shift{
		{ID: "a", Name: "Ana", Day: "SEGUNDA", Entry: "10:00", Exit: "19:00", Break: "13:00"},
		{ID: "b", Name: "Bruno", Day: "SEGUNDA", Entry: "FOLGA"},
	}
	day := optimizer.DayResult{
		Day:     "SEGUNDA",
		Profile: optimizer.ProfileSmall,
		Moves:   []optimizer.BreakMove{{ID: "a", From: "12:00", To: "13:00"}},
	}
	buf := new(bytes.Buffer)
	if err := WriteShiftsXLSX(buf, shifts, day); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != 2 || got[0] != "Escala" || got[1] != "Resumo" {
		t.Errorf("sheets %v", got)
	}
	if v, _ := f.GetCellValue("Resumo", "B2"); v != "SMALL" {
		t.Errorf("summary profile %q", v)
	}

	back, err := ReadShiftsXLSX(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || back[0] != shifts[0] || back[1] != shifts[1] {
		t.Errorf("round trip = %+v", back)
	}
}
