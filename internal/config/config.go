package config

import (
	"em27-metadata/internal/config/components"
	"em27-metadata/internal/interfaces"
	"fmt"
	"github.com/joho/godotenv"
)

type Config struct {
	Logger   components.LoggerConfigImpl   `json:"logger"`
	Source   components.SourceConfigImpl   `json:"source"`
	Postgres components.PostgresConfigImpl `json:"postgres"`
	Influx   components.InfluxConfigImpl   `json:"influx"`
	MQTT     components.MQTTConfigImpl     `json:"mqtt"`
	Service  components.ServiceConfigImpl  `json:"service"`
}

// Load reads the environment, after merging a .env file when present. Only the components every command
// needs are validated here; the backends check their own component when a command connects to them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	for _, component := range cfg.components() {
		component.Load()
		component.SetDefaults()
	}

	for _, component := range []interfaces.Config{&cfg.Logger, &cfg.Source, &cfg.Service} {
		if err := component.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

func (c *Config) components() []interfaces.Config {
	return []interfaces.Config{
		&c.Logger,
		&c.Source,
		&c.Postgres,
		&c.Influx,
		&c.MQTT,
		&c.Service,
	}
}
