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
	JWT          JWTConfig
	Password     PasswordConfig
	Notify       NotifyConfig
	Documents    DocumentsConfig
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
	Env          string `envconfig:"SAKANI_APP_ENV" required:"true"`
	Port         string `envconfig:"SAKANI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SAKANI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAKANI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SAKANI_DB_DSN"`
	Driver string `envconfig:"SAKANI_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SAKANI_DB_HOST"`
	Port     int    `envconfig:"SAKANI_DB_PORT" default:"5432"`
	User     string `envconfig:"SAKANI_DB_USER"`
	Password string `envconfig:"SAKANI_DB_PASSWORD"`
	Name     string `envconfig:"SAKANI_DB_NAME"`
	SSLMode  string `envconfig:"SAKANI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAKANI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAKANI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAKANI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAKANI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAKANI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SAKANI_REDIS_ADDR"`
	Password     string        `envconfig:"SAKANI_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAKANI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAKANI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAKANI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAKANI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAKANI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAKANI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SAKANI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SAKANI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SAKANI_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SAKANI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SAKANI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SAKANI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SAKANI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SAKANI_ARGON_KEY_LEN" default:"32"`
}

type NotifyConfig struct {
	FirebaseCredentialsJSON string `envconfig:"SAKANI_FIREBASE_CREDENTIALS_JSON"`
	FirebaseProjectID       string `envconfig:"SAKANI_FIREBASE_PROJECT_ID"`
	SendgridAPIKey          string `envconfig:"SAKANI_SENDGRID_API_KEY"`
	SendgridFromEmail       string `envconfig:"SAKANI_SENDGRID_FROM_EMAIL" default:"noreply@sakani.app"`
	SendgridFromName        string `envconfig:"SAKANI_SENDGRID_FROM_NAME" default:"Sakani Housing"`
}

// PushEnabled reports whether push delivery is configured.
func (n NotifyConfig) PushEnabled() bool {
	return strings.TrimSpace(n.FirebaseCredentialsJSON) != ""
}

// EmailEnabled reports whether email delivery is configured.
func (n NotifyConfig) EmailEnabled() bool {
	return strings.TrimSpace(n.SendgridAPIKey) != ""
}

type DocumentsConfig struct {
	OutputDir string `envconfig:"SAKANI_DOCUMENTS_OUTPUT_DIR" default:"uploads/pdf"`
	OrgName   string `envconfig:"SAKANI_DOCUMENTS_ORG_NAME" default:"Sakani Worker Housing"`
	OrgLine   string `envconfig:"SAKANI_DOCUMENTS_ORG_LINE" default:"123 Main Street, Riyadh, Saudi Arabia"`
	Currency  string `envconfig:"SAKANI_DOCUMENTS_CURRENCY" default:"SAR"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SAKANI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SAKANI_AUTO_MIGRATE" default:"false"`
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
