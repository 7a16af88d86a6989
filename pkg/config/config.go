package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ordersys"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ORDERSYS_DB_DSN"
	EnvDBHost = "ORDERSYS_DB_HOST"
	EnvDBUser = "ORDERSYS_DB_USER"
	EnvDBName = "ORDERSYS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	Stock        StockConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ORDERSYS_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERSYS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORDERSYS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERSYS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ORDERSYS_DB_DSN"`
	Driver string `envconfig:"ORDERSYS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ORDERSYS_DB_HOST"`
	LegacyPort     int    `envconfig:"ORDERSYS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORDERSYS_DB_USER"`
	LegacyPassword string `envconfig:"ORDERSYS_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORDERSYS_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORDERSYS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORDERSYS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERSYS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERSYS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERSYS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERSYS_REDIS_URL"`
	Address      string        `envconfig:"ORDERSYS_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERSYS_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERSYS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERSYS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERSYS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERSYS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERSYS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERSYS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RateLimitConfig caps API request throughput per client IP. A zero
// window or limit disables throttling.
type RateLimitConfig struct {
	Window time.Duration `envconfig:"ORDERSYS_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"ORDERSYS_RATE_LIMIT_LIMIT" default:"120"`
}

// StockConfig controls how stock adjustments treat quantities that would
// drive a product below zero.
type StockConfig struct {
	// AllowNegative restores the legacy unguarded relative update in which
	// stock may go negative (overselling tracked elsewhere). When false,
	// consuming deltas are rejected once stock runs out.
	AllowNegative bool `envconfig:"ORDERSYS_STOCK_ALLOW_NEGATIVE" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ORDERSYS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"ORDERSYS_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"ORDERSYS_PUBSUB_ORDERS_TOPIC" default:"order-events"`
}

type OutboxConfig struct {
	BatchSize    int           `envconfig:"ORDERSYS_OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval time.Duration `envconfig:"ORDERSYS_OUTBOX_POLL_INTERVAL" default:"500ms"`
	MaxAttempts  int           `envconfig:"ORDERSYS_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
