// Package main provides the probability table generator: it estimates, for
// every skill and difficulty in the configured grid, how often a skill's dice
// pool meets the difficulty, and writes the table as delimited text.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/poolprob/internal/config"
	"github.com/cory-johannsen/poolprob/internal/game/dice"
	"github.com/cory-johannsen/poolprob/internal/game/pool"
	"github.com/cory-johannsen/poolprob/internal/observability"
	"github.com/cory-johannsen/poolprob/internal/report"
	"github.com/cory-johannsen/poolprob/internal/sim"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/poolprob.yaml", "path to configuration file; empty = defaults and environment only")
	printConfig := flag.Bool("print-config", false, "print the effective configuration as YAML and exit")
	trace := flag.Int("trace", 0, "roll a single pool at this skill, print its audit line and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if *printConfig {
		out, err := cfg.YAML()
		if err != nil {
			log.Fatalf("rendering config: %v", err)
		}
		os.Stdout.Write(out)
		return
	}

	baseLogger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer baseLogger.Sync()
	logger, runID := observability.WithRun(baseLogger, cfg.Simulation)

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed, err = dice.NewSeed()
		if err != nil {
			logger.Fatal("drawing seed", zap.Error(err))
		}
	}

	if *trace > 0 {
		src := dice.NewCryptoSource()
		if cfg.Simulation.Seed != 0 {
			src = dice.NewSeededSource(seed)
		}
		fmt.Println(pool.Roll(*trace, dice.NewLoggedRoller(src, logger)))
		return
	}

	logger.Info("starting probability table",
		zap.Int64("seed", seed),
		zap.Int("skill_min", cfg.Simulation.SkillMin),
		zap.Int("skill_max", cfg.Simulation.SkillMax),
		zap.Float64("difficulty_min", cfg.Simulation.DifficultyMin),
		zap.Float64("difficulty_max", cfg.Simulation.DifficultyMax),
	)

	var est sim.Estimator
	switch cfg.Simulation.Mode {
	case config.ModeExact:
		est = sim.NewExact(logger)
	default:
		roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), logger)
		est = sim.NewMonteCarlo(roller, cfg.Simulation.Attempts)
	}

	table := report.Build(report.GridFrom(cfg.Simulation), est, logger)

	path := filepath.Join(cfg.Output.Dir, report.FileName(cfg.Simulation))
	if err := report.WriteFile(path, table, cfg.Output.Comma()); err != nil {
		logger.Fatal("writing table", zap.Error(err))
	}

	elapsed := time.Since(start)
	logger.Info("table written",
		zap.String("path", path),
		zap.Duration("elapsed", elapsed),
	)
	fmt.Printf("run %s wrote %s in %s\n", runID, path, elapsed.Round(time.Millisecond))
}
