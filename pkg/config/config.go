package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	Gateway     GatewayConfig
	Cart        CartConfig
	MockGateway MockGatewayConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	// The gateway url may still arrive from a profile file; callers that
	// need it run ValidateGateway after the overlay.
	if cfg.Gateway.BaseURL != "" {
		if err := cfg.Gateway.validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// ValidateGateway checks that a usable gateway url ended up configured,
// whether from the environment or a profile overlay.
func (c *Config) ValidateGateway() error {
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("no gateway url configured: set %s_GATEWAY_BASE_URL or gateway_url in the profile", EnvPrefix)
	}
	return c.Gateway.validate()
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type GatewayConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_GATEWAY_BASE_URL"`
	RequestTimeout time.Duration `envconfig:"STOREFRONT_GATEWAY_REQUEST_TIMEOUT" default:"10s"`
	RetryAttempts  uint64        `envconfig:"STOREFRONT_GATEWAY_RETRY_ATTEMPTS" default:"3"`
	RetryBackoff   time.Duration `envconfig:"STOREFRONT_GATEWAY_RETRY_BACKOFF" default:"200ms"`
}

func (g GatewayConfig) validate() error {
	parsed, err := url.Parse(g.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid gateway base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("gateway base url must be http(s), got %q", g.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("gateway base url is missing a host: %q", g.BaseURL)
	}
	return nil
}

type CartConfig struct {
	DebounceWindow   time.Duration `envconfig:"STOREFRONT_CART_DEBOUNCE_WINDOW" default:"700ms"`
	QuantityMax      int           `envconfig:"STOREFRONT_CART_QUANTITY_MAX" default:"99"`
	ShippingFeeCents int64         `envconfig:"STOREFRONT_CART_SHIPPING_FEE_CENTS" default:"0"`
	Currency         string        `envconfig:"STOREFRONT_CART_CURRENCY" default:"USD"`
}

type MockGatewayConfig struct {
	Port         string `envconfig:"STOREFRONT_MOCK_GATEWAY_PORT" default:"9180"`
	SeedFixtures bool   `envconfig:"STOREFRONT_MOCK_GATEWAY_SEED" default:"true"`
}
