package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	InitialBudget    int64 `env:"INITIAL_BUDGET" envDefault:"25000"`
	TransfersPerWeek int   `env:"TRANSFERS_PER_WEEK" envDefault:"1"`
	RosterCapacity   int   `env:"ROSTER_CAPACITY" envDefault:"5"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
