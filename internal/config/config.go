package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rag-nar1/dhbloom/filter"
	"github.com/sirupsen/logrus"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Filter     FilterConfig     `json:"filter"`
	Experiment ExperimentConfig `json:"experiment"`
	Log        LogConfig        `json:"log"`
}

// FilterConfig sizes the filter. Explicit M and K win over the
// ExpectedItems/FPRate estimate.
type FilterConfig struct {
	M             uint64  `json:"m"`
	K             uint64  `json:"k"`
	ExpectedItems uint64  `json:"expected_items"`
	FPRate        float64 `json:"fp_rate"`
	Hash          string  `json:"hash"` // murmur3, xxh3, metro, city
}

type ExperimentConfig struct {
	Items      int   `json:"items"`
	Probes     int   `json:"probes"`
	MaxLen     int   `json:"max_len"`
	Partitions int   `json:"partitions"`
	Seed       int64 `json:"seed"` // 0 picks a time based seed
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // text, json
}

func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			ExpectedItems: 1_000_000,
			FPRate:        0.01,
			Hash:          filter.Murmur3.String(),
		},
		Experiment: ExperimentConfig{
			Items:      1_000_000,
			Probes:     1_000_000,
			MaxLen:     1000,
			Partitions: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a JSON config from path on top of DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := filter.ParseAlgorithm(c.Filter.Hash); err != nil {
		return fmt.Errorf("%w: filter.hash: %v", ErrInvalid, err)
	}
	if (c.Filter.M == 0) != (c.Filter.K == 0) {
		return fmt.Errorf("%w: filter.m and filter.k must be set together", ErrInvalid)
	}
	if c.Filter.M == 0 {
		if c.Filter.ExpectedItems == 0 {
			return fmt.Errorf("%w: filter.expected_items must be positive", ErrInvalid)
		}
		if c.Filter.FPRate <= 0 || c.Filter.FPRate >= 1 {
			return fmt.Errorf("%w: filter.fp_rate %v out of (0, 1)", ErrInvalid, c.Filter.FPRate)
		}
	}
	if c.Experiment.Items < 0 || c.Experiment.Probes < 0 {
		return fmt.Errorf("%w: experiment item and probe counts must not be negative", ErrInvalid)
	}
	if c.Experiment.MaxLen < 1 {
		return fmt.Errorf("%w: experiment.max_len must be positive", ErrInvalid)
	}
	if c.Experiment.Partitions < 1 {
		return fmt.Errorf("%w: experiment.partitions must be positive", ErrInvalid)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// Params returns the filter dimensions and hash algorithm. Call Validate first.
func (c *Config) Params() (m, k uint64, alg filter.Algorithm, err error) {
	alg, err = filter.ParseAlgorithm(c.Filter.Hash)
	if err != nil {
		return 0, 0, 0, err
	}
	if c.Filter.M != 0 {
		return c.Filter.M, c.Filter.K, alg, nil
	}
	m, k = filter.OptimalParams(c.Filter.ExpectedItems, c.Filter.FPRate)
	return m, k, alg, nil
}

// Logger builds a logrus logger from the log section.
func (c *Config) Logger() (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetLevel(lvl)
	if c.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}
