package config

// EnvPrefix is the envconfig prefix for every PasarLokal variable.
const EnvPrefix = "pasarlokal"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error
// messages).
const (
	EnvAppEnv   = "PASARLOKAL_APP_ENV"
	EnvPort     = "PASARLOKAL_APP_PORT"
	EnvDBDSN    = "PASARLOKAL_DB_DSN"
	EnvDBHost   = "PASARLOKAL_DB_HOST"
	EnvDBUser   = "PASARLOKAL_DB_USER"
	EnvDBName   = "PASARLOKAL_DB_NAME"
	EnvRedisURL = "PASARLOKAL_REDIS_URL"

	EnvJWTSecret = "PASARLOKAL_JWT_SECRET"
	EnvJWTIssuer = "PASARLOKAL_JWT_ISSUER"

	EnvPlatformAccountID = "PASARLOKAL_ENGINE_PLATFORM_ACCOUNT_ID"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
