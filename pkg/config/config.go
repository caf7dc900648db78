package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Engine  EngineConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
	Outbox  OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Engine.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PASARLOKAL_APP_ENV" required:"true"`
	Port         string `envconfig:"PASARLOKAL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PASARLOKAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PASARLOKAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PASARLOKAL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PASARLOKAL_DB_DSN"`
	Driver string `envconfig:"PASARLOKAL_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PASARLOKAL_DB_HOST"`
	Port     int    `envconfig:"PASARLOKAL_DB_PORT" default:"5432"`
	User     string `envconfig:"PASARLOKAL_DB_USER"`
	Password string `envconfig:"PASARLOKAL_DB_PASSWORD"`
	Name     string `envconfig:"PASARLOKAL_DB_NAME"`
	SSLMode  string `envconfig:"PASARLOKAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PASARLOKAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PASARLOKAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PASARLOKAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PASARLOKAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"PASARLOKAL_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PASARLOKAL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PASARLOKAL_REDIS_ADDR"`
	Password     string        `envconfig:"PASARLOKAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PASARLOKAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PASARLOKAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PASARLOKAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PASARLOKAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PASARLOKAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PASARLOKAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PASARLOKAL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PASARLOKAL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PASARLOKAL_JWT_EXPIRATION_MINUTES" default:"60"`
}

// EngineConfig carries the order/settlement engine tunables: SLA windows,
// withdrawal floors per role, and the courier operating-balance floor.
type EngineConfig struct {
	UnpaidSLA                  time.Duration `envconfig:"PASARLOKAL_ENGINE_UNPAID_SLA" default:"15m"`
	PackingSLA                 time.Duration `envconfig:"PASARLOKAL_ENGINE_PACKING_SLA" default:"30m"`
	CourierMinOperatingCents   int64         `envconfig:"PASARLOKAL_ENGINE_COURIER_MIN_OPERATING" default:"25000"`
	CourierMinWithdrawalCents  int64         `envconfig:"PASARLOKAL_ENGINE_COURIER_MIN_WITHDRAWAL" default:"20000"`
	MerchantMinWithdrawalCents int64         `envconfig:"PASARLOKAL_ENGINE_MERCHANT_MIN_WITHDRAWAL" default:"50000"`
	PlatformAccountID          string        `envconfig:"PASARLOKAL_ENGINE_PLATFORM_ACCOUNT_ID" required:"true"`
}

func (e EngineConfig) validate() error {
	if _, err := uuid.Parse(e.PlatformAccountID); err != nil {
		return fmt.Errorf("invalid platform account id: %w", err)
	}
	if e.UnpaidSLA <= 0 || e.PackingSLA <= 0 {
		return fmt.Errorf("SLA windows must be positive")
	}
	return nil
}

// PlatformAccount returns the parsed platform wallet owner id.
func (e EngineConfig) PlatformAccount() uuid.UUID {
	id, _ := uuid.Parse(e.PlatformAccountID)
	return id
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PASARLOKAL_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PASARLOKAL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PASARLOKAL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic        string `envconfig:"PASARLOKAL_PUBSUB_NOTIFICATION_TOPIC" default:"pl-notification-events"`
	NotificationSubscription string `envconfig:"PASARLOKAL_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"pl-notification-events-sub"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PASARLOKAL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PASARLOKAL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PASARLOKAL_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
