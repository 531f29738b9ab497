package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "SAKANI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "SAKANI_APP_ENV"
	EnvPort      = "SAKANI_APP_PORT"
	EnvRedisURL  = "SAKANI_REDIS_URL"
	EnvJWTSecret = "SAKANI_JWT_SECRET"
	EnvJWTIssuer = "SAKANI_JWT_ISSUER"

	EnvDBDSN  = "SAKANI_DB_DSN"
	EnvDBHost = "SAKANI_DB_HOST"
	EnvDBUser = "SAKANI_DB_USER"
	EnvDBName = "SAKANI_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
