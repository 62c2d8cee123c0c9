package config

import (
	"github.com/spf13/viper"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Env      string `mapstructure:"APP_ENV"` // development | production
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Persistence
	DBPath   string `mapstructure:"DB_PATH"`
	StateKey string `mapstructure:"STATE_KEY"`

	// Presentation
	Currency   string `mapstructure:"CURRENCY"`
	ExportPath string `mapstructure:"EXPORT_PATH"`

	// Empty disables the metrics listener.
	MetricsAddr   string `mapstructure:"METRICS_ADDR"`
	MetricsPrefix string `mapstructure:"METRICS_PREFIX"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables and an optional .env file in
// the working directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with the .env file looked up in dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PATH", "stockroom.db")
	v.SetDefault("STATE_KEY", "stockroom")
	v.SetDefault("CURRENCY", "$")
	v.SetDefault("EXPORT_PATH", "stockroom.xlsx")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("METRICS_PREFIX", "stockroom")

	// missing .env is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
