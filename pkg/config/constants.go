package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvGatewayBaseURL = "STOREFRONT_GATEWAY_BASE_URL"
)
