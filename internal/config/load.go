package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// STOREKEEPER_WAREHOUSE_API_URL for warehouse.api_url.
const EnvPrefix = "STOREKEEPER"

var defaults = map[string]any{
	"server.port":      8080,
	"server.log_level": "info",

	"warehouse.api_url":         "https://api.moysklad.ru/api/remap/1.2/",
	"warehouse.organization_id": "",
	"warehouse.counterparty_id": "",
	"warehouse.store_id":        "",
	"warehouse.main_store_id":    "",
	"warehouse.partner_group_id": "",
	"warehouse.batch_size":       3,
	"warehouse.timeout_seconds":  30,
	"warehouse.max_clients":      64,

	"competitors.base_url":                 "",
	"competitors.results_selector":         ".digi-main__results",
	"competitors.products_selector":        ".digi-products",
	"competitors.selector_timeout_seconds": 30,
	"competitors.headless":                 true,
	"competitors.executable_path":          "",

	"partners.base_url":        "",
	"partners.timeout_seconds": 30,

	"llm.provider":            "openai",
	"llm.api_key":             "",
	"llm.base_url":            "",
	"llm.model":               "gpt-4o-mini",
	"llm.timeout_seconds":     60,
	"llm.max_retries":         2,
	"llm.retry_delay_seconds": 1,

	"task.worker_count":    2,
	"task.queue_size":      100,
	"task.timeout_minutes": 60,
}

// Load configuration from a .env file, an optional config.yaml and
// environment variables. Environment variables take precedence over values
// from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
