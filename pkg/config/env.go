package config

// EnvPrefix namespaces every BolleQuest environment variable.
const EnvPrefix = "BOLLEQUEST"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "BOLLEQUEST_APP_ENV"
	EnvPort     = "BOLLEQUEST_APP_PORT"
	EnvRedisURL = "BOLLEQUEST_REDIS_URL"

	EnvDBDSN  = "BOLLEQUEST_DB_DSN"
	EnvDBHost = "BOLLEQUEST_DB_HOST"
	EnvDBUser = "BOLLEQUEST_DB_USER"
	EnvDBName = "BOLLEQUEST_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
