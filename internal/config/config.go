// Package config handles simulator configuration
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/joshuapare/memfit/internal/logger"
	"github.com/joshuapare/memfit/internal/workload"
	"github.com/joshuapare/memfit/mem/alloc"
)

// DefaultEnvFile is loaded when no explicit env file is given. Missing is fine.
const DefaultEnvFile = ".env"

// Config holds the simulator configuration
type Config struct {
	// Units in the memory region
	Capacity int

	// Steps per strategy run
	Steps int

	// Workload seed; 0 picks one from the clock at run time
	Seed int64

	// Strategies to run, in order
	Strategies []alloc.Kind

	// Processes the workload draws from
	Processes []workload.Process

	// Check engine invariants after every step
	Verify bool

	// Log level: debug, info, warn, error
	LogLevel string

	// Optional CSV step trace path
	TracePath string

	// Optional Prometheus textfile path
	MetricsPath string
}

// Default returns the reference configuration: a 32-unit region, 30 steps,
// all five strategies and the default process list.
func Default() *Config {
	return &Config{
		Capacity:   32,
		Steps:      30,
		Strategies: alloc.Kinds(),
		Processes:  workload.DefaultProcesses(),
		Verify:     true,
		LogLevel:   "info",
	}
}

// Load reads configuration from an env file and environment variables.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := Default()
	var err error

	if cfg.Capacity, err = getEnvInt("MEMSIM_CAPACITY", cfg.Capacity); err != nil {
		return nil, err
	}
	if cfg.Steps, err = getEnvInt("MEMSIM_STEPS", cfg.Steps); err != nil {
		return nil, err
	}
	if v := os.Getenv("MEMSIM_SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("MEMSIM_SEED: %w", err)
		}
	}
	if v := os.Getenv("MEMSIM_STRATEGIES"); v != "" {
		if cfg.Strategies, err = ParseStrategies(v); err != nil {
			return nil, fmt.Errorf("MEMSIM_STRATEGIES: %w", err)
		}
	}
	if v := os.Getenv("MEMSIM_PROCESSES"); v != "" {
		if cfg.Processes, err = workload.Parse(v); err != nil {
			return nil, fmt.Errorf("MEMSIM_PROCESSES: %w", err)
		}
	}
	if v := os.Getenv("MEMSIM_VERIFY"); v != "" {
		if cfg.Verify, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("MEMSIM_VERIFY: %w", err)
		}
	}
	cfg.LogLevel = getEnv("MEMSIM_LOG_LEVEL", cfg.LogLevel)
	cfg.TracePath = getEnv("MEMSIM_TRACE", cfg.TracePath)
	cfg.MetricsPath = getEnv("MEMSIM_METRICS", cfg.MetricsPath)

	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the simulator cannot run with.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	if len(c.Strategies) == 0 {
		return errors.New("at least one strategy is required")
	}
	if len(c.Processes) == 0 {
		return errors.New("at least one process is required")
	}
	for _, p := range c.Processes {
		if p.Size <= 0 {
			return fmt.Errorf("process %s: size must be positive, got %d", p.ID, p.Size)
		}
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseStrategies reads a comma-separated strategy list, or "all".
func ParseStrategies(s string) ([]alloc.Kind, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return alloc.Kinds(), nil
	}
	var kinds []alloc.Kind
	for field := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(field) == "" {
			continue
		}
		k, err := alloc.ParseKind(field)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: empty list", alloc.ErrUnknownKind)
	}
	return kinds, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		err := godotenv.Load(DefaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", DefaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
