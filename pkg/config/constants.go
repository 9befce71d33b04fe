package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "SKILLEARN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SKILLEARN_DB_DSN"
	EnvDBHost = "SKILLEARN_DB_HOST"
	EnvDBUser = "SKILLEARN_DB_USER"
	EnvDBName = "SKILLEARN_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
