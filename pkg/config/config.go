// Package config provides configuration loading and management for ctscan.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"ctscan/pkg/radon"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Scan geometry. Angles are given in degrees here and converted by
	// ScanConfig.
	Scan struct {
		// StartRotation is the scanner rotation at the first step
		StartRotation float64 `yaml:"startRotation"`

		// Emitters is the number of emitter/detector pairs
		Emitters int `yaml:"emitters"`

		// AngularSpan is the arc covered by the emitters
		AngularSpan float64 `yaml:"angularSpan"`

		// RotationStep is the rotation between two steps
		RotationStep float64 `yaml:"rotationStep"`

		// UseFilter applies the ramp filter before backprojection
		UseFilter bool `yaml:"useFilter"`

		// ReconstructionWidth and ReconstructionHeight size the output image,
		// 0 keeps the input size
		ReconstructionWidth  int `yaml:"reconstructionWidth"`
		ReconstructionHeight int `yaml:"reconstructionHeight"`
	} `yaml:"scan"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for parallel processing
		NumCores int `yaml:"numCores"`

		// BatchSize is the number of rotation steps per advance call
		BatchSize int `yaml:"batchSize"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// SaveIntermediaryResults writes sinogram and reconstruction frames
		// while the scan progresses
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// IntermediaryDir is where the frames go
		IntermediaryDir string `yaml:"intermediaryDir"`

		// SnapshotEvery is the number of advance calls between two frames
		SnapshotEvery int `yaml:"snapshotEvery"`

		// FrameScale enlarges saved frames by an integer factor
		FrameScale int `yaml:"frameScale"`

		// ConvergencePlot is the path of the RMSE plot, empty to skip it
		ConvergencePlot string `yaml:"convergencePlot"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// LogLevel is one of debug, info, warn, error
		LogLevel string `yaml:"logLevel"`
	} `yaml:"output"`

	// Storage parameters
	Storage struct {
		// DatabasePath is the SQLite file holding the run history, empty
		// to disable it
		DatabasePath string `yaml:"databasePath"`
	} `yaml:"storage"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// 10 emitters over a quarter turn, 5 degree steps
	cfg.Scan.StartRotation = 0
	cfg.Scan.Emitters = 10
	cfg.Scan.AngularSpan = 90
	cfg.Scan.RotationStep = 5
	cfg.Scan.UseFilter = false

	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Processing.BatchSize = 1

	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"
	cfg.Output.SnapshotEvery = 6
	cfg.Output.FrameScale = 1
	cfg.Output.ConvergencePlot = ""
	cfg.Output.Verbose = true
	cfg.Output.LogLevel = "info"

	cfg.Storage.DatabasePath = ""

	return cfg
}

// ScanConfig converts the scan section into a radon.ScanConfig, with the
// angles in radians. The result is not validated.
func (c *Config) ScanConfig() radon.ScanConfig {
	return radon.ScanConfig{
		StartRotation:        c.Scan.StartRotation * math.Pi / 180,
		Emitters:             c.Scan.Emitters,
		AngularSpan:          c.Scan.AngularSpan * math.Pi / 180,
		RotationStep:         c.Scan.RotationStep * math.Pi / 180,
		UseFilter:            c.Scan.UseFilter,
		ReconstructionWidth:  c.Scan.ReconstructionWidth,
		ReconstructionHeight: c.Scan.ReconstructionHeight,
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
