// Package main is the entry point for duelband.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/samdwyer/duelband/internal/game"
	"github.com/samdwyer/duelband/internal/telemetry"
)

// flags holds command-line overrides. Only flags the user set replace config values.
type flags struct {
	envFile     string
	seed        int64
	tickRate    int
	pause       time.Duration
	rosterFile  string
	dialogue    string
	p1, p2      string
	logFile     string
	logLevel    string
	noTelemetry bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&flags{})
}

func buildRootCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duelband",
		Short: "Two-player hot-seat duel in the terminal",
		Long: `duelband is a turn-based duel for two players sharing one keyboard.
Player one picks moves with a s d f, player two with j k l ;. Both pick in
secret, then the moves resolve together. Space continues, q quits.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return play(cmd.Context(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.envFile, "env-file", ".env", "dotenv file to read settings from")
	pf.StringVar(&f.rosterFile, "roster", "", "YAML or JSON roster file (default: built-in rosters)")

	fl := cmd.Flags()
	fl.Int64Var(&f.seed, "seed", 0, "random seed; 0 picks one from the clock")
	fl.IntVar(&f.tickRate, "tick", game.DefaultTickRate, "simulation ticks per second")
	fl.DurationVar(&f.pause, "pause", game.DefaultPauseDuration, "pause before each round's report")
	fl.StringVar(&f.dialogue, "dialogue", "", "banter file (default: built-in lines)")
	fl.StringVar(&f.p1, "p1", "", "roster ID for player one")
	fl.StringVar(&f.p2, "p2", "", "roster ID for player two")
	fl.StringVar(&f.logFile, "log-file", game.DefaultLogFile, "file to write logs to")
	fl.StringVar(&f.logLevel, "log-level", game.DefaultLogLevel, "debug, info, warn or error")
	fl.BoolVar(&f.noTelemetry, "no-telemetry", false, "disable trace export")

	cmd.AddCommand(newRosterCmd(f))
	return cmd
}

// loadConfig reads the env file and environment, then applies flags the user set.
func loadConfig(cmd *cobra.Command, f *flags) (game.Config, error) {
	cfg, err := game.LoadConfig(f.envFile)
	if err != nil {
		return game.Config{}, err
	}

	set := cmd.Flags().Changed
	if set("seed") {
		cfg.Seed = f.seed
	}
	if set("tick") {
		cfg.TickRate = f.tickRate
	}
	if set("pause") {
		cfg.PauseDuration = f.pause
	}
	if set("roster") {
		cfg.RosterPath = f.rosterFile
	}
	if set("dialogue") {
		cfg.DialoguePath = f.dialogue
	}
	if set("p1") {
		cfg.Rosters[0] = f.p1
	}
	if set("p2") {
		cfg.Rosters[1] = f.p2
	}
	if set("log-file") {
		cfg.LogFile = f.logFile
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if f.noTelemetry {
		cfg.Telemetry = false
	}

	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

func play(ctx context.Context, cfg game.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	if cfg.Telemetry {
		telemetry.HoneycombEnv(cfg.HoneycombAPIKey, cfg.HoneycombDataset)
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			// Not fatal: the game runs without observability
			log.Printf("Warning: telemetry setup failed: %v", err)
			telemetry.Disable()
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error("telemetry shutdown failed", "error", err)
				}
			}()
		}
	} else {
		telemetry.Disable()
	}

	g, err := game.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize game: %w", err)
	}
	return g.Run(ctx)
}

// openLogger writes structured logs to the configured file; the terminal
// belongs to the game while it runs.
func openLogger(cfg game.Config) (*slog.Logger, func(), error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
