package game

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned when configuration values are out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Defaults used when neither the environment nor flags set a value.
const (
	DefaultTickRate      = 60
	DefaultPauseDuration = time.Second
	DefaultLogFile       = "duelband.log"
	DefaultLogLevel      = "info"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible arenas and rolls.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	TickRate      int           // simulation ticks per second
	PauseDuration time.Duration // pause before each round's report

	RosterPath   string    // YAML or JSON catalogue; empty uses the embedded one
	DialoguePath string    // banter file; empty uses the embedded one
	Rosters      [2]string // roster IDs per player; empty picks by position

	LogFile  string
	LogLevel string

	Telemetry        bool
	HoneycombAPIKey  string
	HoneycombDataset string
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		TickRate:      DefaultTickRate,
		PauseDuration: DefaultPauseDuration,
		LogFile:       DefaultLogFile,
		LogLevel:      DefaultLogLevel,
		Telemetry:     true,
	}
}

// LoadConfig reads settings from envFile (if it exists) and the DUELBAND_*
// environment variables, which take precedence over the file.
func LoadConfig(envFile string) (Config, error) {
	file := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			file = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}

	cfg := DefaultConfig()
	var err error
	if v, ok := lookup("DUELBAND_SEED"); ok {
		if cfg.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Config{}, fmt.Errorf("%w: DUELBAND_SEED: %v", ErrInvalidConfig, err)
		}
	}
	if v, ok := lookup("DUELBAND_TICK_RATE"); ok {
		if cfg.TickRate, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("%w: DUELBAND_TICK_RATE: %v", ErrInvalidConfig, err)
		}
	}
	if v, ok := lookup("DUELBAND_PAUSE"); ok {
		if cfg.PauseDuration, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("%w: DUELBAND_PAUSE: %v", ErrInvalidConfig, err)
		}
	}
	if v, ok := lookup("DUELBAND_TELEMETRY"); ok {
		if cfg.Telemetry, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("%w: DUELBAND_TELEMETRY: %v", ErrInvalidConfig, err)
		}
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"DUELBAND_ROSTER_FILE", &cfg.RosterPath},
		{"DUELBAND_DIALOGUE_FILE", &cfg.DialoguePath},
		{"DUELBAND_P1", &cfg.Rosters[0]},
		{"DUELBAND_P2", &cfg.Rosters[1]},
		{"DUELBAND_LOG_FILE", &cfg.LogFile},
		{"DUELBAND_LOG_LEVEL", &cfg.LogLevel},
		{"HONEYCOMB_DUELBAND_API_KEY", &cfg.HoneycombAPIKey},
		{"HONEYCOMB_DUELBAND_DATASET", &cfg.HoneycombDataset},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	return cfg, nil
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if c.TickRate <= 0 || c.TickRate > 1000 {
		return fmt.Errorf("%w: tick rate %d must be in 1..1000", ErrInvalidConfig, c.TickRate)
	}
	if c.PauseDuration < 0 {
		return fmt.Errorf("%w: pause %v is negative", ErrInvalidConfig, c.PauseDuration)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. Empty means info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}

// TickInterval returns the wall time between ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
