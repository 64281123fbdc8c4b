// Package config loads idefix's static YAML configuration into the
// core asterix.Option values, the CLI's --config flag counterpart to its
// individual command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-asterix/gobelix/asterix"
)

// Encapsulation mirrors asterix.Encapsulation as a YAML-friendly string so
// config files read "pcap"/"hdlc" rather than a bare integer.
type Encapsulation string

const (
	EncapsulationRaw  Encapsulation = "raw"
	EncapsulationPcap Encapsulation = "pcap"
	EncapsulationHdlc Encapsulation = "hdlc"
	EncapsulationFinal Encapsulation = "final"
	EncapsulationGps  Encapsulation = "gps"
)

func (e Encapsulation) toAsterix() (asterix.Encapsulation, error) {
	switch e {
	case "", EncapsulationRaw:
		return asterix.Raw, nil
	case EncapsulationPcap:
		return asterix.Pcap, nil
	case EncapsulationHdlc:
		return asterix.Hdlc, nil
	case EncapsulationFinal:
		return asterix.Final, nil
	case EncapsulationGps:
		return asterix.Gps, nil
	default:
		return 0, fmt.Errorf("invalid encapsulation %q (must be raw, pcap, hdlc, final, or gps)", e)
	}
}

// LogLevel mirrors good-listener's LogLevel string enum, adapted to the
// slog levels idefix actually uses.
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (l LogLevel) toSlog() (slog.Level, error) {
	switch l {
	case "", LogLevelInfo:
		return slog.LevelInfo, nil
	case LogLevelDebug:
		return slog.LevelDebug, nil
	case LogLevelWarn:
		return slog.LevelWarn, nil
	case LogLevelError:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q (must be DEBUG, INFO, WARN, or ERROR)", l)
	}
}

// Config is idefix's on-disk YAML configuration, the static counterpart to
// its per-invocation command-line flags.
type Config struct {
	Encapsulation    Encapsulation `yaml:"encapsulation"`
	MaxMessageSize   int           `yaml:"max_message_size,omitempty"`
	MaxBlocksPerCall int           `yaml:"max_blocks_per_call,omitempty"`
	Verbose          bool          `yaml:"verbose,omitempty"`
	LogLevel         LogLevel      `yaml:"log_level,omitempty"`
	JSONLogs         bool          `yaml:"json_logs,omitempty"`
	Descriptions     []string      `yaml:"descriptions,omitempty"`
}

// Load reads and parses the YAML configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &c, nil
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if _, err := c.Encapsulation.toAsterix(); err != nil {
		return err
	}
	if _, err := c.LogLevel.toSlog(); err != nil {
		return err
	}
	if c.MaxMessageSize < 0 {
		return fmt.Errorf("max_message_size must not be negative: %d", c.MaxMessageSize)
	}
	if c.MaxBlocksPerCall < 0 {
		return fmt.Errorf("max_blocks_per_call must not be negative: %d", c.MaxBlocksPerCall)
	}
	return nil
}

// Options translates the configuration into asterix.Option values for
// asterix.New.
func (c *Config) Options(logger *slog.Logger) ([]asterix.Option, error) {
	encap, err := c.Encapsulation.toAsterix()
	if err != nil {
		return nil, err
	}

	opts := []asterix.Option{
		asterix.WithEncapsulation(encap),
		asterix.WithVerbose(c.Verbose),
	}
	if c.MaxMessageSize > 0 {
		opts = append(opts, asterix.WithMaxMessageSize(c.MaxMessageSize))
	}
	if c.MaxBlocksPerCall > 0 {
		opts = append(opts, asterix.WithMaxBlocksPerCall(c.MaxBlocksPerCall))
	}
	if logger != nil {
		opts = append(opts, asterix.WithLogger(logger))
	}
	return opts, nil
}

// SlogLevel returns the configured log/slog level.
func (c *Config) SlogLevel() slog.Level {
	lvl, _ := c.LogLevel.toSlog() // validated at Load time
	return lvl
}
