package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	Password PasswordConfig
	Payment  PaymentConfig
	Business BusinessConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POS_APP_ENV" default:"dev"`
	Port         string `envconfig:"POS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"POS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// Path is the sqlite file backing sales history and the audit log.
	// ":memory:" keeps the demo fully in-process.
	Path        string `envconfig:"POS_DB_PATH" default:"pos.db"`
	AutoMigrate bool   `envconfig:"POS_DB_AUTO_MIGRATE" default:"true"`
}

func (db DBConfig) DSN() string {
	if db.Path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	return db.Path
}

type JWTConfig struct {
	Secret            string `envconfig:"POS_JWT_SECRET" default:"demo-secret-change-me"`
	Issuer            string `envconfig:"POS_JWT_ISSUER" default:"pos-backend"`
	ExpirationMinutes int    `envconfig:"POS_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"POS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"POS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"POS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"POS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"POS_ARGON_KEY_LEN" default:"32"`
}

type PaymentConfig struct {
	// GatewayTimeout bounds the Processing phase; expiry surfaces as a
	// retryable payment error.
	GatewayTimeout time.Duration `envconfig:"POS_PAYMENT_GATEWAY_TIMEOUT" default:"15s"`
	// SimulatedSuccessRate drives the demo gateway in [0,1].
	SimulatedSuccessRate float64       `envconfig:"POS_PAYMENT_SIMULATED_SUCCESS_RATE" default:"0.9"`
	SimulatedLatency     time.Duration `envconfig:"POS_PAYMENT_SIMULATED_LATENCY" default:"800ms"`
}

type BusinessConfig struct {
	Name         string `envconfig:"POS_BUSINESS_NAME" default:"Tienda López"`
	TicketPrefix string `envconfig:"POS_TICKET_PREFIX" default:"T"`
}
