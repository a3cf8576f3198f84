package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Store        StoreConfig
	Geocode      GeocodeConfig
	ImageHost    ImageHostConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"BOLLEQUEST_APP_ENV" required:"true"`
	Port         string `envconfig:"BOLLEQUEST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BOLLEQUEST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOLLEQUEST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BOLLEQUEST_DB_DSN"`
	Driver string `envconfig:"BOLLEQUEST_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BOLLEQUEST_DB_HOST"`
	LegacyPort     int    `envconfig:"BOLLEQUEST_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BOLLEQUEST_DB_USER"`
	LegacyPassword string `envconfig:"BOLLEQUEST_DB_PASSWORD"`
	LegacyName     string `envconfig:"BOLLEQUEST_DB_NAME"`
	LegacySSLMode  string `envconfig:"BOLLEQUEST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BOLLEQUEST_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"BOLLEQUEST_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"BOLLEQUEST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOLLEQUEST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BOLLEQUEST_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BOLLEQUEST_REDIS_ADDR"`
	Password     string        `envconfig:"BOLLEQUEST_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOLLEQUEST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOLLEQUEST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOLLEQUEST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOLLEQUEST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOLLEQUEST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOLLEQUEST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StoreConfig tunes the activity row store adapter.
type StoreConfig struct {
	// SnapshotTTL bounds how stale a cached FetchAll snapshot may be.
	SnapshotTTL    time.Duration `envconfig:"BOLLEQUEST_STORE_SNAPSHOT_TTL" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"BOLLEQUEST_STORE_READ_TIMEOUT" default:"10s"`
	WriteTimeout   time.Duration `envconfig:"BOLLEQUEST_STORE_WRITE_TIMEOUT" default:"10s"`
	IdempotencyTTL time.Duration `envconfig:"BOLLEQUEST_STORE_IDEMPOTENCY_TTL" default:"24h"`
}

type GeocodeConfig struct {
	BaseURL     string        `envconfig:"BOLLEQUEST_GEOCODE_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent   string        `envconfig:"BOLLEQUEST_GEOCODE_USER_AGENT" default:"bollequest/1.0"`
	Timeout     time.Duration `envconfig:"BOLLEQUEST_GEOCODE_TIMEOUT" default:"10s"`
	CountryCode string        `envconfig:"BOLLEQUEST_GEOCODE_COUNTRY" default:"dk"`
}

type ImageHostConfig struct {
	BaseURL     string        `envconfig:"BOLLEQUEST_IMAGEHOST_BASE_URL" default:"https://api.imgbb.com/1"`
	APIKey      string        `envconfig:"BOLLEQUEST_IMAGEHOST_API_KEY"`
	Timeout     time.Duration `envconfig:"BOLLEQUEST_IMAGEHOST_TIMEOUT" default:"30s"`
	MaxUploadMB int           `envconfig:"BOLLEQUEST_IMAGEHOST_MAX_UPLOAD_MB" default:"10"`
}

type RateLimitConfig struct {
	WriteWindow time.Duration `envconfig:"BOLLEQUEST_RATE_LIMIT_WRITE_WINDOW" default:"1m"`
	WriteLimit  int           `envconfig:"BOLLEQUEST_RATE_LIMIT_WRITE_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BOLLEQUEST_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BOLLEQUEST_AUTO_MIGRATE" default:"false"`
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
