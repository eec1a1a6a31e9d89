package config

// EnvPrefix is the envconfig namespace for every setting.
const EnvPrefix = "ROOTLINE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "ROOTLINE_DB_DSN"
	EnvDBHost = "ROOTLINE_DB_HOST"
	EnvDBUser = "ROOTLINE_DB_USER"
	EnvDBName = "ROOTLINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
