// Package config loads service configuration from the environment so main stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures all runtime configuration for the service.
type Config struct {
	Addr        string `env:"SITEFLOW_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"SITEFLOW_METRICS_ADDR" envDefault:":9090"`
	Environment string `env:"SITEFLOW_ENV" envDefault:"development"`

	// AdminToken guards the /admin surface. Empty disables admin routes.
	AdminToken string `env:"SITEFLOW_ADMIN_TOKEN"`

	// DatabaseURL selects the Postgres stores; empty runs on in-memory stores.
	DatabaseURL string `env:"SITEFLOW_DATABASE_URL"`

	// MaxBodyBytes limits request body size before JSON decoding.
	MaxBodyBytes int64 `env:"SITEFLOW_MAX_BODY_BYTES" envDefault:"65536"`

	RequestTimeout time.Duration `env:"SITEFLOW_REQUEST_TIMEOUT" envDefault:"15s"`

	// TracingEnabled emits workflow spans through the global OpenTelemetry
	// tracer provider.
	TracingEnabled bool `env:"SITEFLOW_TRACING" envDefault:"false"`

	Site  SiteConfig
	SMTP  SMTPConfig
	Admin NotifyConfig
}

// SiteConfig controls how a requested name maps onto a provisioned site address.
type SiteConfig struct {
	// BaseDomain is the domain new sites hang off, e.g. "example.com"
	// yields "myblog.example.com" for the request name "myblog".
	BaseDomain string `env:"SITEFLOW_BASE_DOMAIN" envDefault:"example.test"`

	// Subdirectory switches to path-based addressing: sites become
	// "example.com/myblog/" instead of subdomains.
	Subdirectory bool `env:"SITEFLOW_SUBDIRECTORY" envDefault:"false"`
}

// SMTPConfig configures the outbound mail transport. Empty host selects the
// log-only notifier.
type SMTPConfig struct {
	Host string `env:"SITEFLOW_SMTP_HOST"`
	Port int    `env:"SITEFLOW_SMTP_PORT" envDefault:"587"`
	User string `env:"SITEFLOW_SMTP_USER"`
	Pass string `env:"SITEFLOW_SMTP_PASS"`
	From string `env:"SITEFLOW_SMTP_FROM" envDefault:"noreply@example.test"`
}

// NotifyConfig holds workflow notification settings.
type NotifyConfig struct {
	// NotifyAddress receives new-request notifications.
	NotifyAddress string `env:"SITEFLOW_ADMIN_EMAIL" envDefault:"admin@example.test"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
