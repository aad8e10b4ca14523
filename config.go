package lidar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings that are not part of a tile identifier.
type Config struct {
	Output           string
	Concurrency      uint
	Timeout          time.Duration
	BaseURL          string
	UserAgent        string
	CoordinateSystem CoordinateSystem
}

// yamlConfig is the file form, durations and enums as strings.
type yamlConfig struct {
	Output           string `yaml:"output"`
	Concurrency      uint   `yaml:"concurrency"`
	Timeout          string `yaml:"timeout"`
	BaseURL          string `yaml:"base_url"`
	UserAgent        string `yaml:"user_agent"`
	CoordinateSystem string `yaml:"coordinate_system"`
}

// DefaultConfig returns the built in settings.
func DefaultConfig() Config {
	return Config{
		Output:           DefaultDir,
		Concurrency:      DefaultConcurrency,
		BaseURL:          DefaultBaseURL,
		UserAgent:        DefaultUserAgent,
		CoordinateSystem: D96TM,
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the file
// keep their default.
func LoadConfig(path string) (Config, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig is LoadConfig for in memory YAML.
func ParseConfig(data []byte) (Config, error) {

	var yc yamlConfig

	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := DefaultConfig()

	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.Concurrency != 0 {
		cfg.Concurrency = yc.Concurrency
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.BaseURL != "" {
		cfg.BaseURL = yc.BaseURL
	}
	if yc.UserAgent != "" {
		cfg.UserAgent = yc.UserAgent
	}
	if yc.CoordinateSystem != "" {
		cs, err := ParseCoordinateSystem(yc.CoordinateSystem)
		if err != nil {
			return Config{}, fmt.Errorf("parse coordinate_system: %w", err)
		}
		cfg.CoordinateSystem = cs
	}

	return cfg, nil
}

// Fetcher returns an HTTPFetcher configured from c.
func (c Config) Fetcher() *HTTPFetcher {

	f := NewHTTPFetcher(nil, c.Timeout)

	if c.UserAgent != "" && c.UserAgent != DefaultUserAgent {
		f.Header = append(f.Header, Header{"User-Agent", c.UserAgent})
	}

	return f
}
