package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "roastery"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv    = "ROASTERY_APP_ENV"
	EnvDBDSN     = "ROASTERY_DB_DSN"
	EnvDBHost    = "ROASTERY_DB_HOST"
	EnvDBUser    = "ROASTERY_DB_USER"
	EnvDBName    = "ROASTERY_DB_NAME"
	EnvJWTIssuer = "ROASTERY_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	SMTP          SMTPConfig
	AuthRateLimit AuthRateLimitConfig
	Invoice       InvoiceConfig
	Checkout      CheckoutConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"ROASTERY_APP_ENV" required:"true"`
	Port         string `envconfig:"ROASTERY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROASTERY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROASTERY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ROASTERY_DB_DSN"`
	Driver string `envconfig:"ROASTERY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROASTERY_DB_HOST"`
	LegacyPort     int    `envconfig:"ROASTERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROASTERY_DB_USER"`
	LegacyPassword string `envconfig:"ROASTERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROASTERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROASTERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROASTERY_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"ROASTERY_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"ROASTERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROASTERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROASTERY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ROASTERY_REDIS_ADDR"`
	Password     string        `envconfig:"ROASTERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROASTERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROASTERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROASTERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROASTERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROASTERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROASTERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ROASTERY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ROASTERY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ROASTERY_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ROASTERY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ROASTERY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ROASTERY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ROASTERY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ROASTERY_ARGON_KEY_LEN" default:"32"`
}

type SMTPConfig struct {
	Host     string `envconfig:"ROASTERY_SMTP_HOST"`
	Port     int    `envconfig:"ROASTERY_SMTP_PORT" default:"587"`
	Username string `envconfig:"ROASTERY_SMTP_USERNAME"`
	Password string `envconfig:"ROASTERY_SMTP_PASSWORD"`
	From     string `envconfig:"ROASTERY_SMTP_FROM" default:"orders@everbean.coffee"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ROASTERY_LOGIN_RATE_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"ROASTERY_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"ROASTERY_LOGIN_RATE_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"ROASTERY_REGISTER_RATE_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"ROASTERY_REGISTER_RATE_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"ROASTERY_REGISTER_RATE_EMAIL_LIMIT" default:"3"`
}

type InvoiceConfig struct {
	CompanyName    string `envconfig:"ROASTERY_INVOICE_COMPANY_NAME" default:"Everbean Roastery"`
	CompanyAddress string `envconfig:"ROASTERY_INVOICE_COMPANY_ADDRESS" default:"12 Harbour Lane, Rotterdam"`
}

type CheckoutConfig struct {
	// DeliveryOptionID is stamped on every order placed through the
	// storefront checkout.
	DeliveryOptionID uint `envconfig:"ROASTERY_CHECKOUT_DELIVERY_OPTION_ID" default:"1"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ROASTERY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ROASTERY_AUTO_MIGRATE" default:"false"`
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
