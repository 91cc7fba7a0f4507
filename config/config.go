package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config files or the environment.
type AppConfig struct {
	AppPort        string
	JWTSecret      string
	JWTIssuer      string
	AllowedOrigins []string
	SanitizeHTML   bool
	// Rate limiting of mutating routes; negative disables it
	RateLimitPerMinute int
	// Database
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	// Redis backs the shared rate limiter when RedisHost is set
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// fileConfig mirrors the grouped layout of config/config.{json,yaml}.
type fileConfig struct {
	App struct {
		AppPort            string   `json:"AppPort" yaml:"AppPort"`
		JWTSecret          string   `json:"JWTSecret" yaml:"JWTSecret"`
		JWTIssuer          string   `json:"JWTIssuer" yaml:"JWTIssuer"`
		AllowedOrigins     []string `json:"AllowedOrigins" yaml:"AllowedOrigins"`
		SanitizeHTML       *bool    `json:"SanitizeHTML" yaml:"SanitizeHTML"`
		RateLimitPerMinute int      `json:"RateLimitPerMinute" yaml:"RateLimitPerMinute"`
	} `json:"app" yaml:"app"`
	Database struct {
		Driver      string `json:"Driver" yaml:"Driver"`
		DatabaseURI string `json:"DatabaseURI" yaml:"DatabaseURI"`
		DBHost      string `json:"DBHost" yaml:"DBHost"`
		DBPort      string `json:"DBPort" yaml:"DBPort"`
		DBUser      string `json:"DBUser" yaml:"DBUser"`
		DBPassword  string `json:"DBPassword" yaml:"DBPassword"`
		DBName      string `json:"DBName" yaml:"DBName"`
		SSLMode     string `json:"SSLMode" yaml:"SSLMode"`
	} `json:"database" yaml:"database"`
	Redis struct {
		RedisHost     string `json:"RedisHost" yaml:"RedisHost"`
		RedisPort     int    `json:"RedisPort" yaml:"RedisPort"`
		RedisDB       int    `json:"RedisDB" yaml:"RedisDB"`
		RedisPassword string `json:"RedisPassword" yaml:"RedisPassword"`
	} `json:"redis" yaml:"redis"`
	Log struct {
		Level      string `json:"Level" yaml:"Level"`
		Path       string `json:"Path" yaml:"Path"`
		GinMode    string `json:"GinMode" yaml:"GinMode"`
		GinPath    string `json:"GinPath" yaml:"GinPath"`
		MaxSizeMB  int    `json:"MaxSizeMB" yaml:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups" yaml:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays" yaml:"MaxAgeDays"`
		Compress   bool   `json:"Compress" yaml:"Compress"`
	} `json:"log" yaml:"log"`
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}

	c, err := LoadFrom(configFile())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if c.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.Lock()
	ok := loaded
	mu.Unlock()
	if !ok {
		return Load()
	}
	return cfg
}

// LoadFrom builds a configuration with precedence file -> defaults -> environment.
// A missing file is not an error.
func LoadFrom(path string) (AppConfig, error) {
	c := AppConfig{SanitizeHTML: true}
	if path != "" {
		if err := loadFileConfig(path, &c); err != nil {
			return AppConfig{}, err
		}
	}
	applyDefaults(&c)
	applyEnvOverrides(&c)
	return c, nil
}

// configFile picks CONFIG_FILE, then config/config.yaml, then config/config.json.
func configFile() string {
	if p := getEnv("CONFIG_FILE", ""); p != "" {
		return p
	}
	for _, p := range []string{filepath.Join("config", "config.yaml"), filepath.Join("config", "config.yml")} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join("config", "config.json")
}

// loadFileConfig reads a JSON or YAML file into out. Returns error only for invalid content.
func loadFileConfig(path string, out *AppConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil // silently ignore missing file
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &fc)
	default:
		err = json.Unmarshal(raw, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	out.AppPort = fc.App.AppPort
	out.JWTSecret = fc.App.JWTSecret
	out.JWTIssuer = fc.App.JWTIssuer
	out.AllowedOrigins = fc.App.AllowedOrigins
	if fc.App.SanitizeHTML != nil {
		out.SanitizeHTML = *fc.App.SanitizeHTML
	}
	out.RateLimitPerMinute = fc.App.RateLimitPerMinute

	out.DBDriver = fc.Database.Driver
	out.DatabaseURI = fc.Database.DatabaseURI
	out.DBHost = fc.Database.DBHost
	out.DBPort = fc.Database.DBPort
	out.DBUser = fc.Database.DBUser
	out.DBPassword = fc.Database.DBPassword
	out.DBName = fc.Database.DBName
	out.DBSSLMode = fc.Database.SSLMode

	out.RedisHost = fc.Redis.RedisHost
	out.RedisPort = fc.Redis.RedisPort
	out.RedisDB = fc.Redis.RedisDB
	out.RedisPassword = fc.Redis.RedisPassword

	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.GinMode = fc.Log.GinMode
	out.GinPath = fc.Log.GinPath
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "aiblog"
	}
	if c.DBSSLMode == "" {
		c.DBSSLMode = "disable"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("JWT_SECRET", ""); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("JWT_ISSUER", ""); v != "" {
		c.JWTIssuer = v
	}
	if v := getEnv("SANITIZE_HTML", ""); v != "" {
		c.SanitizeHTML = parseBool(v, c.SanitizeHTML)
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	c.AllowedOrigins = readListEnv("ALLOWED_ORIGINS", c.AllowedOrigins)
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = v
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("DB_SSLMODE", ""); v != "" {
		c.DBSSLMode = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = parseBool(v, c.LogCompress)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		log.Printf("invalid integer value %q, using 0", val)
		return 0
	}
	return i
}

func parseBool(val string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return def
	}
	return b
}

func readListEnv(key string, defaults []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaults
	}
	return splitAndTrim(raw)
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
