//go:build !lambda

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/Lob0Garou/Escala-que-Converte/internal/config"
	"github.com/Lob0Garou/Escala-que-Converte/internal/logger"
	"github.com/Lob0Garou/Escala-que-Converte/internal/optimizer"
	"github.com/Lob0Garou/Escala-que-Converte/internal/roster"
)

const usage = `Usage: escala [flags] <shifts.json|shifts.xlsx> <flow.json|flow.xlsx>
       escala -serve [-config file]

Positional arguments:
  shifts   Schedule with ID, NOME, DIA, ENTRADA, INTER, SAIDA
  flow     Hourly customer flow per day

Flags:
`

func main() {
	day := flag.String("day", "", "Optimize a single day (empty = whole week)")
	score := flag.String("score", "", "Current thermal score, biases profile selection")
	jsonOut := flag.Bool("json", false, "Output results as JSON")
	outPath := flag.String("out", "", "Write the revised schedule to this .xlsx file")
	cfgPath := flag.String("config", "", "Configuration file (default ./config/config.yaml or ./config.yaml)")
	verbose := flag.Bool("verbose", false, "Log search progress to stderr")
	serve := flag.Bool("serve", false, "Run the HTTP API instead of a one-off optimization")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Format = "console"
	}
	log, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *serve {
		runServer(cfg, log)
		return
	}

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	opts := optimizer.Options{Tuning: cfg.Optimizer.Tuning(), Logger: log}
	if *score != "" {
		v, err := strconv.ParseFloat(*score, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: invalid score %q\n", *score)
			os.Exit(1)
		}
		opts.CurrentScore = &v
	}

	shifts, err := loadShifts(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", args[0], err)
		os.Exit(1)
	}
	target := ""
	if *day != "" {
		target = *day
		if d, ok := roster.CanonicalDay(target); ok {
			target = d
		}
	}
	flow, err := loadFlow(args[1], target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", args[1], err)
		os.Exit(1)
	}
	log.Debug("inputs loaded", zap.Int("shifts", len(shifts)), zap.Int("flow_days", len(flow)))

	var (
		days    []optimizer.DayResult
		revised []optimizer.Shift
		result  any
	)
	if target != "" {
		hourly, ok := optimizer.FlowFor(flow, target)
		if !ok {
			log.Info("no flow for day, using default curve", zap.String("day", target))
			hourly = optimizer.DefaultFlowCurve()
		}
		r := optimizer.OptimizeDay(shifts, target, hourly, opts)
		days, revised, result = []optimizer.DayResult{r}, r.Shifts, r
	} else {
		w := optimizer.OptimizeWeek(shifts, flow, opts)
		days, revised, result = w.Days, w.Shifts, w
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
	} else {
		for _, d := range days {
			if d.Staff == 0 {
				continue
			}
			fmt.Println(optimizer.FormatDay(d))
		}
		printSummary(days)
	}

	if *outPath != "" {
		if err := writeSchedule(*outPath, revised, days); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *outPath)
	}
}

func printSummary(days []optimizer.DayResult) {
	fmt.Printf("%-10s %-7s %6s %6s %7s %7s %8s\n", "Dia", "Perfil", "Equipe", "Trocas", "Score", "Antes", "Tempo")
	fmt.Printf("%-10s %-7s %6s %6s %7s %7s %8s\n", "----------", "-------", "------", "------", "-------", "-------", "--------")
	for _, d := range days {
		fmt.Printf("%-10s %-7s %6d %6d %7d %7d %7.0fms\n",
			d.Day, d.Profile.Name, d.Staff, len(d.Moves), d.After.Score, d.Before.Score,
			float64(d.Elapsed.Microseconds())/1000)
	}
}
