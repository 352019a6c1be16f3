package config

import (
	"flag"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	defaultDatabaseDSN = "file:gotodo.db?_pragma=foreign_keys(1)&_time_format=sqlite"
	defaultAuthSecret  = "dev-secret-key"
	defaultBaseURL     = "localhost:8081"
)

type Config struct {
	// Storage
	DatabaseDSN string `env:"DATABASE_URI"`
	UploadDir   string `env:"UPLOAD_DIR"`

	// Auth
	AuthSecret  string        `env:"AUTH_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER"`
	JWTAudience string        `env:"JWT_AUDIENCE"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"`

	// Server
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
	ServerURL   string `env:"-"`

	// Items
	AttachmentMaxSizeMB int  `env:"ATTACHMENT_MAX_MB"`
	MaxTreeDepth        int  `env:"MAX_TREE_DEPTH"`
	SeedDemo            bool `env:"SEED_DEMO"`
}

// NewConfig собирает конфигурацию сервера: .env, переменные окружения, затем флаги.
func NewConfig() *Config {
	cfg := load()

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.UploadDir, "uploads", cfg.UploadDir, "каталог для вложений")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера в формате host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "включить HTTPS")
	flag.IntVar(&cfg.MaxTreeDepth, "max-depth", cfg.MaxTreeDepth, "максимальная глубина дерева элементов")
	flag.BoolVar(&cfg.SeedDemo, "seed", cfg.SeedDemo, "заполнить пустую БД демо-данными")

	flag.Parse()

	applyDefaults(cfg)
	return cfg
}

// FromEnv читает конфигурацию без разбора флагов (для todoctl).
func FromEnv() *Config {
	cfg := load()
	applyDefaults(cfg)
	return cfg
}

func load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = defaultDatabaseDSN
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = defaultAuthSecret
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "gotodo"
	}
	if cfg.JWTAudience == "" {
		cfg.JWTAudience = "gotodo-api"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.AttachmentMaxSizeMB <= 0 {
		cfg.AttachmentMaxSizeMB = 10
	}
	if cfg.MaxTreeDepth <= 0 {
		cfg.MaxTreeDepth = 64
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
}
