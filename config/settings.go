package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed defaults.toml
var defaultSettings string

// Timeouts holds a per-service request timeout.
type Timeouts struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Sampling holds the controls of one kind of chat call.
type Sampling struct {
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// Enrich contains pacing for the enricher.
type Enrich struct {
	PaceMs int `toml:"pace_ms"`
}

// Output contains formatting of the written document.
type Output struct {
	Indent string `toml:"indent"`
}

// Redis contains naming for the Redis export.
type Redis struct {
	KeyPrefix string `toml:"key_prefix"`
	Channel   string `toml:"channel"`
	TTLHours  int    `toml:"ttl_hours"`
}

// Minio contains naming for the object storage export.
type Minio struct {
	ObjectPrefix string `toml:"object_prefix"`
}

// Archive contains options for the MySQL archive.
type Archive struct {
	AutoMigrate bool `toml:"auto_migrate"`
}

// Settings are the tuning knobs decoded from TOML.
type Settings struct {
	Lastfm         Timeouts `toml:"lastfm"`
	OpenAI         Timeouts `toml:"openai"`
	Synthesis      Sampling `toml:"synthesis"`
	Recommendation Sampling `toml:"recommendation"`
	Enrich         Enrich   `toml:"enrich"`
	Output         Output   `toml:"output"`
	Redis          Redis    `toml:"redis"`
	Minio          Minio    `toml:"minio"`
	Archive        Archive  `toml:"archive"`
}

// DefaultSettings decodes the embedded defaults.
func DefaultSettings() Settings {
	var s Settings
	if err := toml.Unmarshal([]byte(defaultSettings), &s); err != nil {
		panic(fmt.Sprintf("config: embedded defaults.toml is invalid: %v", err))
	}
	return s
}

// SampleSettings returns the embedded defaults document.
func SampleSettings() string {
	return defaultSettings
}

// LoadSettings decodes path over the defaults. An empty path returns the
// defaults unchanged; a missing file is an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	path = strings.TrimSpace(path)
	if path == "" {
		return s, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: open settings: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("config: parse settings: %w", err)
	}
	return s, s.Validate()
}

// Validate rejects values the pipeline cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.Lastfm.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("lastfm.timeout_seconds must be positive"))
	}
	if s.OpenAI.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("openai.timeout_seconds must be positive"))
	}
	if s.Enrich.PaceMs < 0 {
		errs = append(errs, errors.New("enrich.pace_ms must not be negative"))
	}
	if s.Synthesis.MaxTokens < 0 || s.Recommendation.MaxTokens < 0 {
		errs = append(errs, errors.New("max_tokens must not be negative"))
	}
	if s.Redis.TTLHours < 0 {
		errs = append(errs, errors.New("redis.ttl_hours must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// Pace is the enricher's per-item delay.
func (s Settings) Pace() time.Duration {
	return time.Duration(s.Enrich.PaceMs) * time.Millisecond
}

// RedisTTL is the expiry of exported documents; zero means no expiry.
func (s Settings) RedisTTL() time.Duration {
	return time.Duration(s.Redis.TTLHours) * time.Hour
}
