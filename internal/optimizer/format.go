package optimizer

import (
	"fmt"
	"strings"

	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

// FormatDay renders a plain-text report of one optimized day.
func FormatDay(r DayResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dia: %s  perfil=%s  equipe=%d  otimizáveis=%d  %.0fms\n",
		r.Day, r.Profile.Name, r.Staff, r.Movable, float64(r.Elapsed.Microseconds())/1000)
	if r.InitialCost > 0 {
		gain := (r.InitialCost - r.FinalCost) / r.InitialCost * 100
		fmt.Fprintf(&b, "Custo: %.0f -> %.0f (%.1f%%)\n", r.InitialCost, r.FinalCost, gain)
	}
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  fase %-6s %.0f -> %.0f  passos=%d  parada=%s\n",
			p.Name, p.StartCost, p.EndCost, p.Steps, p.Stop)
	}
	fmt.Fprintf(&b, "Score: %d -> %d  aderência: %d%% -> %d%%  oportunidade perdida: %d -> %d\n",
		r.Before.Score, r.After.Score, r.Before.Adherence, r.After.Adherence,
		r.Before.LostOpportunity, r.After.LostOpportunity)

	for _, id := range r.Overnight {
		fmt.Fprintf(&b, "  aviso: turno %s atravessa a meia-noite (saída limitada a 24:00)\n", id)
	}

	if len(r.Moves) > 0 {
		b.WriteString("Intervalos alterados:\n")
		for _, m := range r.Moves {
			label := m.ID
			if m.Name != "" {
				label = m.Name
			}
			fmt.Fprintf(&b, "  %-24s %s -> %s\n", label, m.From, m.To)
		}
	}

	b.WriteString(FormatRows(r.After))
	return b.String()
}

// FormatRows renders the per-hour table of a metrics summary.
func FormatRows(m thermal.Metrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %8s %7s %9s %7s  %s\n", "Hora", "Fluxo", "Equipe", "Pressão", "Índice", "Faixa")
	for _, r := range m.Rows {
		fmt.Fprintf(&b, "%02dh   %8.0f %7.2f %9.2f %7.2f  %s\n",
			r.Hour, r.Flow, r.ActiveStaff, r.Pressure, r.ThermalIndex, r.Badge)
	}
	if len(m.Hotspots) > 0 {
		fmt.Fprintf(&b, "Quentes: %s\n", spotList(m.Hotspots))
	}
	if len(m.Coldspots) > 0 {
		fmt.Fprintf(&b, "Frios:   %s\n", spotList(m.Coldspots))
	}
	return b.String()
}

func spotList(rows []thermal.HourRow) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprintf("%02dh(%.2f)", r.Hour, r.ThermalIndex)
	}
	return strings.Join(parts, "; ")
}
