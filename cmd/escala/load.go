//go:build !lambda

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lob0Garou/Escala-que-Converte/internal/optimizer"
	"github.com/Lob0Garou/Escala-que-Converte/internal/roster"
	"github.com/Lob0Garou/Escala-que-Converte/internal/thermal"
)

func isSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func loadShifts(path string) ([]optimizer.Shift, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isSpreadsheet(path) {
		return roster.ReadShiftsXLSX(bytes.NewReader(data))
	}
	return roster.ParseShiftsJSON(data)
}

// loadFlow reads a week of flow. A JSON file holding a single day's hourly
// array is accepted when day is set.
func loadFlow(path, day string) (map[string][]thermal.HourlyFlow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isSpreadsheet(path) {
		return roster.ReadFlowXLSX(bytes.NewReader(data))
	}
	byDay, err := roster.ParseFlowJSON(data)
	if err == nil || day == "" {
		return byDay, err
	}
	hours, herr := roster.ParseHourlyJSON(data)
	if herr != nil || len(hours) == 0 {
		return nil, err
	}
	return map[string][]thermal.HourlyFlow{day: hours}, nil
}

func writeSchedule(path string, shifts []optimizer.Shift, days []optimizer.DayResult) error {
	var buf bytes.Buffer
	if err := roster.WriteShiftsXLSX(&buf, shifts, days...); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
