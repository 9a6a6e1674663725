package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DataPathEnv names the only environment variable the program reads.
const DataPathEnv = "BAROMETRE_DATA"

// Config holds runtime settings. Precedence: defaults, then the YAML file,
// then the environment (.env included), then command-line flags applied by
// the caller.
type Config struct {
	DataPath   string          `yaml:"data_path"`
	ListenAddr string          `yaml:"listen_addr"`
	Log        LogConfig       `yaml:"log"`
	Dashboard  DashboardConfig `yaml:"dashboard"`
	Sessions   SessionConfig   `yaml:"sessions"`
}

// LogConfig mirrors logger.InitLogger's arguments.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// SessionConfig bounds the store of per-visitor selections. Idle sessions
// expire after TTL; past MaxSessions the least recently used is dropped.
type SessionConfig struct {
	MaxSessions int           `yaml:"max_sessions"`
	TTL         time.Duration `yaml:"ttl"`
}

// DashboardConfig fixes the parameters of the focused pages.
type DashboardConfig struct {
	ScienceTopic      string `yaml:"science_topic"`
	EconomyTopic      string `yaml:"economy_topic"`
	FocusChannel      string `yaml:"focus_channel"`
	CompareYears      [2]int `yaml:"compare_years"`
	EventWindowMonths int    `yaml:"event_window_months"`
	RollingWindow     int    `yaml:"rolling_window"`
	TopChannels       int    `yaml:"top_channels"`
	TopTopics         int    `yaml:"top_topics"`
	Precision         int    `yaml:"precision"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataPath:   "data/barometre.csv",
		ListenAddr: ":8501",
		Log:        LogConfig{Level: "info"},
		Dashboard:  DefaultDashboard(),
		Sessions:   SessionConfig{MaxSessions: 10000, TTL: 12 * time.Hour},
	}
}

// DefaultDashboard returns the page parameters used when nothing overrides them.
func DefaultDashboard() DashboardConfig {
	return DashboardConfig{
		ScienceTopic:      "Sciences et techniques",
		EconomyTopic:      "Economie",
		FocusChannel:      "TF1",
		CompareYears:      [2]int{2000, 2020},
		EventWindowMonths: 6,
		RollingWindow:     3,
		TopChannels:       5,
		TopTopics:         10,
		Precision:         2,
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		// precision 0 is meaningful, so absence is marked with -1
		fileCfg := Config{Dashboard: DashboardConfig{Precision: -1}}
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()
	if v := os.Getenv(DataPathEnv); v != "" {
		cfg.DataPath = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the pages cannot work with.
func (c Config) Validate() error {
	d := c.Dashboard
	switch {
	case d.EventWindowMonths < 1:
		return fmt.Errorf("dashboard.event_window_months must be >= 1, got %d", d.EventWindowMonths)
	case d.RollingWindow < 1:
		return fmt.Errorf("dashboard.rolling_window must be >= 1, got %d", d.RollingWindow)
	case d.TopChannels < 1 || d.TopTopics < 1:
		return fmt.Errorf("dashboard top-N cutoffs must be >= 1")
	case d.Precision < 0 || d.Precision > 6:
		return fmt.Errorf("dashboard.precision must be within [0, 6], got %d", d.Precision)
	case c.Sessions.MaxSessions < 1:
		return fmt.Errorf("sessions.max_sessions must be >= 1, got %d", c.Sessions.MaxSessions)
	case c.Sessions.TTL <= 0:
		return fmt.Errorf("sessions.ttl must be positive, got %s", c.Sessions.TTL)
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.DataPath != "" {
		base.DataPath = override.DataPath
	}
	if override.ListenAddr != "" {
		base.ListenAddr = override.ListenAddr
	}
	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		base.Log.File = override.Log.File
	}

	d := override.Dashboard
	if d.ScienceTopic != "" {
		base.Dashboard.ScienceTopic = d.ScienceTopic
	}
	if d.EconomyTopic != "" {
		base.Dashboard.EconomyTopic = d.EconomyTopic
	}
	if d.FocusChannel != "" {
		base.Dashboard.FocusChannel = d.FocusChannel
	}
	if d.CompareYears != [2]int{} {
		base.Dashboard.CompareYears = d.CompareYears
	}
	if d.EventWindowMonths != 0 {
		base.Dashboard.EventWindowMonths = d.EventWindowMonths
	}
	if d.RollingWindow != 0 {
		base.Dashboard.RollingWindow = d.RollingWindow
	}
	if d.TopChannels != 0 {
		base.Dashboard.TopChannels = d.TopChannels
	}
	if d.TopTopics != 0 {
		base.Dashboard.TopTopics = d.TopTopics
	}
	if d.Precision >= 0 {
		base.Dashboard.Precision = d.Precision
	}

	if override.Sessions.MaxSessions != 0 {
		base.Sessions.MaxSessions = override.Sessions.MaxSessions
	}
	if override.Sessions.TTL != 0 {
		base.Sessions.TTL = override.Sessions.TTL
	}
	return base
}
