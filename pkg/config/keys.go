package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:storefront.db?_foreign_keys=on"
)

const (
	ServiceKindAll       = "all"
	ServiceKindCustomers = "customers"
	ServiceKindInventory = "inventory"
	ServiceKindSales     = "sales"
	ServiceKindReviews   = "reviews"
)

var defaultPorts = map[string]string{
	ServiceKindAll:       "8080",
	ServiceKindCustomers: "5001",
	ServiceKindInventory: "5002",
	ServiceKindSales:     "5003",
	ServiceKindReviews:   "5004",
}

const (
	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvServiceKind  = "STOREFRONT_SERVICE_KIND"
	EnvDBDSN        = "STOREFRONT_DB_DSN"
	EnvDBDriver     = "STOREFRONT_DB_DRIVER"
	EnvDBHost       = "STOREFRONT_DB_HOST"
	EnvDBUser       = "STOREFRONT_DB_USER"
	EnvDBName       = "STOREFRONT_DB_NAME"
	EnvRedisURL     = "STOREFRONT_REDIS_URL"
	EnvJWTSecret    = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer    = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins   = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvCacheTTL     = "STOREFRONT_CACHE_TTL"
	EnvAdminUsers   = "STOREFRONT_ADMIN_USERNAMES"
	EnvOtelEndpoint = "STOREFRONT_OTEL_ENDPOINT"

	EnvRefreshTokenTTLMinutes = "STOREFRONT_REFRESH_TOKEN_TTL_MINUTES"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
