// Package config loads the simulator's tunable parameters from an
// optional YAML/JSON file and the environment, using viper the way
// niceyeti-tabular and billglover-go-adsb-console load their server
// configuration. Command-line flags (parsed by the caller with the
// standard flag package) take final precedence over anything loaded
// here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable parameter the simulator's subsystems need:
// fleet/command bounds, the airspace volume, separation minima, the
// periodic cadences, registry retry policy, and file paths.
type Config struct {
	MaxFleet    int `mapstructure:"max_fleet"`
	MaxCommands int `mapstructure:"max_commands"`

	AirspaceMinX               float64 `mapstructure:"airspace_min_x"`
	AirspaceMaxX               float64 `mapstructure:"airspace_max_x"`
	AirspaceMinY, AirspaceMaxY float64
	AirspaceMinZ, AirspaceMaxZ float64

	MinHorizontalSeparation float64 `mapstructure:"min_horizontal_separation"`
	MinVerticalSeparation   float64 `mapstructure:"min_vertical_separation"`
	CongestionHorizonSec    float64 `mapstructure:"congestion_horizon_seconds"`

	ViolationPeriod   time.Duration `mapstructure:"violation_period"`
	OperatorPeriod    time.Duration `mapstructure:"operator_period"`
	GridPeriod        time.Duration `mapstructure:"grid_period"`
	FileLogPeriod     time.Duration `mapstructure:"file_log_period"`
	AirspaceLogPeriod time.Duration `mapstructure:"airspace_log_period"`

	RegistryRetryAttempts int           `mapstructure:"registry_retry_attempts"`
	RegistryRetryInterval time.Duration `mapstructure:"registry_retry_interval"`

	FleetFile string `mapstructure:"fleet_file"`
	LogDir    string `mapstructure:"log_dir"`
	LogLevel  string `mapstructure:"log_level"`
}

// Default returns the simulator's out-of-the-box tuning.
func Default() Config {
	return Config{
		MaxFleet:    10,
		MaxCommands: 10,

		AirspaceMinX: 0, AirspaceMaxX: 100000,
		AirspaceMinY: 0, AirspaceMaxY: 100000,
		AirspaceMinZ: 0, AirspaceMaxZ: 25000,

		MinHorizontalSeparation: 3000,
		MinVerticalSeparation:   1000,
		CongestionHorizonSec:    120,

		ViolationPeriod:   time.Second,
		OperatorPeriod:    time.Second,
		GridPeriod:        5 * time.Second,
		FileLogPeriod:     20 * time.Second,
		AirspaceLogPeriod: 20 * time.Second,

		RegistryRetryAttempts: 30,
		RegistryRetryInterval: time.Second,

		LogDir:   "atc-sim-logs",
		LogLevel: "info",
	}
}

// Load reads an optional config file at path (YAML or JSON, detected by
// viper from its extension) layered on top of Default. An ATCSIM_-prefixed
// environment variable (ATCSIM_<KEY>) overrides a key only when the file
// also sets that key; keys absent from the file keep their Default values.
// A missing file is not an error; a malformed one is fatal; the caller
// should exit.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("ATCSIM")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("config: reading %s: %w", path, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}

	return cfg, nil
}
