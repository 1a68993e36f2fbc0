// Package config provides configuration types and defaults for planview.
package config

import "time"

// Config holds all configuration for planview.
type Config struct {
	API         APIConfig         `yaml:"api" mapstructure:"api"`
	Graph       GraphConfig       `yaml:"graph" mapstructure:"graph"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
	Project     int64             `yaml:"project" mapstructure:"project"` // Active project id (0 = none)
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GraphConfig holds sizing for the graph pane's banded layout.
type GraphConfig struct {
	NodeWidth  int `yaml:"node_width" mapstructure:"node_width"`
	NodeHeight int `yaml:"node_height" mapstructure:"node_height"`
	RowGap     int `yaml:"row_gap" mapstructure:"row_gap"`
	ColGap     int `yaml:"col_gap" mapstructure:"col_gap"`
	SidePad    int `yaml:"side_pad" mapstructure:"side_pad"`
}

// PathsConfig holds file paths for logs.
type PathsConfig struct {
	LogDir string `yaml:"log_dir" mapstructure:"log_dir"`
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Graph: GraphConfig{
			NodeWidth:  26,
			NodeHeight: 1,
			RowGap:     1,
			ColGap:     2,
			SidePad:    2,
		},
		Paths: PathsConfig{
			LogDir: ".planview",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
