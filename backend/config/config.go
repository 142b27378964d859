package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Minio    MinioConfig    `yaml:"minio"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Workflow WorkflowConfig `yaml:"workflow"`
	MockAPI  MockAPIConfig  `yaml:"mockapi"`
	Users    []User         `yaml:"users"`
}

type ServerConfig struct {
	Port           int `yaml:"port"`
	RateLimit      int `yaml:"rate_limit"`       // requests per minute per IP
	RateLimitBurst int `yaml:"rate_limit_burst"` // bucket size
}

// BackendConfig points at the REST server of record
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type MinioConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WorkflowConfig struct {
	DebounceMs        int `yaml:"debounce_ms"`
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
	MaxSessions       int `yaml:"max_sessions"`
}

func (w WorkflowConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

func (w WorkflowConfig) SessionTTL() time.Duration {
	return time.Duration(w.SessionTTLMinutes) * time.Minute
}

type MockAPIConfig struct {
	Port int `yaml:"port"`
}

// User is a técnico account allowed to sign in
type User struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	IDTecnico string `yaml:"id_tecnico"`
	Nombre    string `yaml:"nombre"`
	DNI       string `yaml:"dni"`
}

var GlobalConfig *Config

// Load reads the YAML file, then applies .env and BACKOFFICE_* overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.setDefaults()

	GlobalConfig = &cfg
	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 100
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = 20
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://localhost:8081"
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = 30
	}
	if c.Minio.ExpireDays == 0 {
		c.Minio.ExpireDays = 7
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Workflow.DebounceMs == 0 {
		c.Workflow.DebounceMs = 300
	}
	if c.Workflow.SessionTTLMinutes == 0 {
		c.Workflow.SessionTTLMinutes = 60
	}
	if c.Workflow.MaxSessions == 0 {
		c.Workflow.MaxSessions = 500
	}
	if c.MockAPI.Port == 0 {
		c.MockAPI.Port = 8081
	}
}

func (c *Config) applyEnv() {
	envString("BACKOFFICE_BACKEND_URL", &c.Backend.BaseURL)
	envString("BACKOFFICE_JWT_SECRET", &c.Auth.JWTSecret)
	envString("BACKOFFICE_LOG_LEVEL", &c.Log.Level)
	envString("BACKOFFICE_LOG_FORMAT", &c.Log.Format)
	envString("BACKOFFICE_MINIO_ENDPOINT", &c.Minio.Endpoint)
	envString("BACKOFFICE_MINIO_ACCESS_KEY", &c.Minio.AccessKey)
	envString("BACKOFFICE_MINIO_SECRET_KEY", &c.Minio.SecretKey)
	envString("BACKOFFICE_MINIO_BUCKET", &c.Minio.Bucket)
	envInt("BACKOFFICE_PORT", &c.Server.Port)
	envInt("BACKOFFICE_MOCKAPI_PORT", &c.MockAPI.Port)
	envInt("BACKOFFICE_DEBOUNCE_MS", &c.Workflow.DebounceMs)
	if v, ok := os.LookupEnv("BACKOFFICE_MINIO_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Minio.Enabled = b
		}
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
