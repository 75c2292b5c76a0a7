package config

// EnvPrefix is passed to envconfig; explicit tags on every field keep the
// variable names stable regardless of struct layout.
const EnvPrefix = "novalux"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "NOVALUX_DB_DSN"
	EnvDBHost = "NOVALUX_DB_HOST"
	EnvDBUser = "NOVALUX_DB_USER"
	EnvDBName = "NOVALUX_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
