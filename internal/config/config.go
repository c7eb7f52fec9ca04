package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpggio/readtrail/internal/domain/activity"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Heatmap   HeatmapConfig   `yaml:"heatmap"`
	Flomo     FlomoConfig     `yaml:"flomo"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AuthConfig struct {
	Token string `yaml:"token"`
}

// TrackingConfig tunes the classifier's close and focus triggers.
type TrackingConfig struct {
	CloseEvents    []string `yaml:"close_events"`
	CloseSentinels []string `yaml:"close_sentinels"`
	FocusEvents    []string `yaml:"focus_events"`
	QueueSize      int      `yaml:"queue_size"`
}

type HeatmapConfig struct {
	Days     int    `yaml:"days"`
	Timezone string `yaml:"timezone"`
}

type FlomoConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	SourceTag  string `yaml:"source_tag"`
}

// Default returns the built-in configuration.
func Default() Config {
	policy := activity.DefaultClosePolicy()
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 23119,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "readtrail.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracking: TrackingConfig{
			CloseEvents:    typeNames(policy.CloseTypes),
			CloseSentinels: policy.CloseSentinels,
			FocusEvents:    typeNames(policy.FocusTypes),
			QueueSize:      1024,
		},
		Heatmap: HeatmapConfig{
			Days: 365,
		},
		Flomo: FlomoConfig{
			SourceTag: "readtrail",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, a .env file
// and environment variables, later sources winning.
func Load() (Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit YAML path. An empty path falls back to
// READTRAIL_CONFIG_PATH.
func LoadFrom(path string) (Config, error) {
	// A missing .env is fine; variables already set are not overridden.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("READTRAIL_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("READTRAIL_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("READTRAIL_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid READTRAIL_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("READTRAIL_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("READTRAIL_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("READTRAIL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("READTRAIL_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if token := os.Getenv("READTRAIL_AUTH_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}
	if v := os.Getenv("READTRAIL_CLOSE_EVENTS"); v != "" {
		cfg.Tracking.CloseEvents = splitList(v)
	}
	if v := os.Getenv("READTRAIL_CLOSE_SENTINELS"); v != "" {
		cfg.Tracking.CloseSentinels = splitList(v)
	}
	if v := os.Getenv("READTRAIL_FOCUS_EVENTS"); v != "" {
		cfg.Tracking.FocusEvents = splitList(v)
	}
	if v := os.Getenv("READTRAIL_QUEUE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid READTRAIL_QUEUE_SIZE: %w", err)
		}
		cfg.Tracking.QueueSize = n
	}
	if v := os.Getenv("READTRAIL_HEATMAP_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid READTRAIL_HEATMAP_DAYS: %w", err)
		}
		cfg.Heatmap.Days = n
	}
	if tz := os.Getenv("READTRAIL_TIMEZONE"); tz != "" {
		cfg.Heatmap.Timezone = tz
	}
	if url := os.Getenv("READTRAIL_FLOMO_WEBHOOK_URL"); url != "" {
		cfg.Flomo.WebhookURL = url
	}
	if tag := os.Getenv("READTRAIL_FLOMO_SOURCE_TAG"); tag != "" {
		cfg.Flomo.SourceTag = tag
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Transport.Mode != "stdio" && c.Transport.Mode != "http" {
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Heatmap.Days <= 0 {
		return fmt.Errorf("invalid heatmap days %d", c.Heatmap.Days)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	for _, name := range append(append([]string{}, c.Tracking.CloseEvents...), c.Tracking.FocusEvents...) {
		if !activity.ActivityType(name).Valid() {
			return fmt.Errorf("invalid tracking event %q", name)
		}
	}
	return nil
}

// Location resolves the heatmap timezone, defaulting to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Heatmap.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Heatmap.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Heatmap.Timezone, err)
	}
	return loc, nil
}

// Policy builds the classifier close policy from the tracking section.
func (t TrackingConfig) Policy() activity.ClosePolicy {
	return activity.ClosePolicy{
		CloseTypes:     activityTypes(t.CloseEvents),
		CloseSentinels: t.CloseSentinels,
		FocusTypes:     activityTypes(t.FocusEvents),
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func typeNames(types []activity.ActivityType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

func activityTypes(names []string) []activity.ActivityType {
	types := make([]activity.ActivityType, len(names))
	for i, n := range names {
		types[i] = activity.ActivityType(n)
	}
	return types
}
