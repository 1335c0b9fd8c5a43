package config

import "github.com/caarlos0/env/v11"

type RefreshConfig struct {
	// Cron specs use the six-field form (seconds first).
	RefreshCronSpec string `env:"REFRESH_CRON_SPEC" envDefault:"0 0 * * * *"`
	PricingCronSpec string `env:"PRICING_CRON_SPEC" envDefault:"0 30 3 * * *"`

	CronEnabled    bool `env:"REFRESH_CRON_ENABLED" envDefault:"true"`
	MaxParallelism int  `env:"REFRESH_MAX_PARALLELISM" envDefault:"4"`
	IngestLimit    int  `env:"REFRESH_INGEST_LIMIT" envDefault:"100"`

	LeetifyBaseURL   string `env:"LEETIFY_BASE_URL" envDefault:"https://api-public.cs-prod.leetify.com"`
	LeetifyTimeoutMS int    `env:"LEETIFY_TIMEOUT_MS" envDefault:"20000"`
}

func LoadRefresh() (RefreshConfig, error) {
	var cfg RefreshConfig
	err := env.Parse(&cfg)
	return cfg, err
}
