package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

//go:embed profile.json
var defaultProfile []byte

// DefaultOutputPath is where the finished document is written.
const DefaultOutputPath = "enhanced_recommendations.json"

// Config stores the application configuration. It is built once by Load
// and passed to constructors; nothing reads it from a global.
type Config struct {
	// OpenAI-compatible chat endpoint
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Last.fm
	LastfmAPIKey  string
	LastfmBaseURL string

	ProfilePath  string
	SettingsPath string
	OutputPath   string

	LogLevel string
	LogFile  string

	// MinIO 配置，MinioEndpoint 为空时不启用
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	// Redis配置，RedisHost 为空时不启用
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MySQL 归档配置，DBHost 为空时不启用
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Profile is the compact user profile document sent to the model.
	Profile []byte

	Settings Settings

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load reads configuration from the environment (via .env when present),
// the settings file and the profile document.
func Load() (*Config, error) {
	// godotenv.Load() will not override existing env vars.
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4"),
		LastfmAPIKey:  getEnv("LASTFM_API_KEY", ""),
		LastfmBaseURL: getEnv("LASTFM_BASE_URL", "https://ws.audioscrobbler.com/2.0/"),
		ProfilePath:   getEnv("PROFILE_PATH", ""),
		SettingsPath:  getEnv("SETTINGS_PATH", ""),
		OutputPath:    getEnv("OUTPUT_PATH", DefaultOutputPath),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "lyricrec"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""), // 默认无密码
		RedisDB:       getEnvInt("REDIS_DB", 0),     // 默认使用0号数据库

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "lyricrec"),

		EnvFileLoaded: envLoaded,
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}

	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings

	profile, err := loadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	cfg.Profile = profile

	return cfg, nil
}

// loadProfile returns the profile document in compact form. An empty
// path selects the built-in profile.
func loadProfile(path string) ([]byte, error) {
	raw := defaultProfile
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read profile: %w", err)
		}
		raw = data
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("config: profile must be a JSON object")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, fmt.Errorf("config: parse profile: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks what every service-calling command needs.
func (c *Config) Validate() error {
	var missing []string
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.LastfmAPIKey == "" {
		missing = append(missing, "LASTFM_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return c.Settings.Validate()
}

// MinioEnabled reports whether the object storage export is configured.
func (c *Config) MinioEnabled() bool { return c.MinioEndpoint != "" }

// RedisEnabled reports whether the Redis export is configured.
func (c *Config) RedisEnabled() bool { return c.RedisHost != "" }

// ArchiveEnabled reports whether the MySQL archive is configured.
func (c *Config) ArchiveEnabled() bool { return c.DBHost != "" }

// LastfmTimeout is the per-request timeout for Last.fm.
func (c *Config) LastfmTimeout() time.Duration {
	return time.Duration(c.Settings.Lastfm.TimeoutSeconds) * time.Second
}

// OpenAITimeout is the per-request timeout for chat completions.
func (c *Config) OpenAITimeout() time.Duration {
	return time.Duration(c.Settings.OpenAI.TimeoutSeconds) * time.Second
}
