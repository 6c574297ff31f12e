package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"      validate:"required"`
	Warehouse   WarehouseConfig   `mapstructure:"warehouse"   validate:"required"`
	Competitors CompetitorsConfig `mapstructure:"competitors" validate:"required"`
	Partners    PartnersConfig    `mapstructure:"partners"`
	LLM         LLMConfig         `mapstructure:"llm"         validate:"required"`
	Task        TaskConfig        `mapstructure:"task"        validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// WarehouseConfig contains the warehouse API endpoint and the entity IDs
// that demands and stock reports are scoped to.
type WarehouseConfig struct {
	APIURL         string `mapstructure:"api_url"         validate:"required,url"`
	OrganizationID string `mapstructure:"organization_id" validate:"required"`
	CounterpartyID string `mapstructure:"counterparty_id" validate:"required"`
	// StoreID receives imported demands.
	StoreID string `mapstructure:"store_id" validate:"required"`
	// MainStoreID is the store whose stock is compared against competitors.
	MainStoreID string `mapstructure:"main_store_id" validate:"required"`
	// PartnerGroupID is the product folder looked up in the partner catalog.
	PartnerGroupID string `mapstructure:"partner_group_id"`
	BatchSize      int    `mapstructure:"batch_size"      validate:"gte=1,lte=20"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
	// MaxClients bounds the per-credential client cache.
	MaxClients int `mapstructure:"max_clients" validate:"gte=1"`
}

// Timeout returns the per-request HTTP timeout.
func (c WarehouseConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CompetitorsConfig contains the competitor site and browser settings.
type CompetitorsConfig struct {
	BaseURL                string `mapstructure:"base_url"                 validate:"required,url"`
	ResultsSelector        string `mapstructure:"results_selector"         validate:"required"`
	ProductsSelector       string `mapstructure:"products_selector"        validate:"required"`
	SelectorTimeoutSeconds int    `mapstructure:"selector_timeout_seconds" validate:"gte=1,lte=120"`
	Headless               bool   `mapstructure:"headless"`
	// ExecutablePath overrides the bundled Chromium, e.g. /usr/bin/chromium in containers.
	ExecutablePath string `mapstructure:"executable_path"`
}

// SelectorTimeout returns how long a search waits for results to render.
func (c CompetitorsConfig) SelectorTimeout() time.Duration {
	return time.Duration(c.SelectorTimeoutSeconds) * time.Second
}

// PartnersConfig contains the partner catalog settings. The partner lookup
// is off unless both BaseURL and warehouse.partner_group_id are set.
type PartnersConfig struct {
	BaseURL        string `mapstructure:"base_url"        validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
}

// Timeout returns the per-request timeout of the catalog search.
func (c PartnersConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PartnerLookupEnabled reports whether the partner lookup is configured.
func (c *Config) PartnerLookupEnabled() bool {
	return c.Partners.BaseURL != "" && c.Warehouse.PartnerGroupID != ""
}

// LLMConfig contains the extraction endpoint settings.
type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	APIKey   string `mapstructure:"api_key"  validate:"required"`
	// BaseURL points the openai provider at any OpenAI-compatible endpoint.
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	Model          string `mapstructure:"model"    validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
	// MaxRetries bounds retries of transient endpoint failures.
	MaxRetries        int `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
}

// Timeout returns the per-completion timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TaskConfig contains the background runner settings.
type TaskConfig struct {
	WorkerCount    int `mapstructure:"worker_count"    validate:"gte=1"`
	QueueSize      int `mapstructure:"queue_size"      validate:"gte=1"`
	TimeoutMinutes int `mapstructure:"timeout_minutes" validate:"gte=0"`
}
