package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "ALTIPLANO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv          = "ALTIPLANO_APP_ENV"
	EnvPort            = "ALTIPLANO_APP_PORT"
	EnvDBDSN           = "ALTIPLANO_DB_DSN"
	EnvDBHost          = "ALTIPLANO_DB_HOST"
	EnvDBUser          = "ALTIPLANO_DB_USER"
	EnvDBName          = "ALTIPLANO_DB_NAME"
	EnvRedisURL        = "ALTIPLANO_REDIS_URL"
	EnvCartTokenSecret = "ALTIPLANO_CART_TOKEN_SECRET"
	EnvCartTokenIssuer = "ALTIPLANO_CART_TOKEN_ISSUER"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
