package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requiredEnv is the minimal environment for a valid configuration.
func requiredEnv() map[string]string {
	return map[string]string{
		"STOREKEEPER_WAREHOUSE_ORGANIZATION_ID": "org-1",
		"STOREKEEPER_WAREHOUSE_COUNTERPARTY_ID": "agent-1",
		"STOREKEEPER_WAREHOUSE_STORE_ID":        "store-1",
		"STOREKEEPER_WAREHOUSE_MAIN_STORE_ID":   "store-main",
		"STOREKEEPER_COMPETITORS_BASE_URL":      "https://shop.example/",
		"STOREKEEPER_LLM_API_KEY":               "test-api-key",
	}
}

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for name, value := range env {
		t.Setenv(name, value)
	}
}

// TestLoadDefaults verifies that the Load function sets the expected default
// values when only required variables are present.
func TestLoadDefaults(t *testing.T) {
	setEnv(t, requiredEnv())

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "https://api.moysklad.ru/api/remap/1.2/", cfg.Warehouse.APIURL)
	assert.Equal(t, 3, cfg.Warehouse.BatchSize)
	assert.Equal(t, ".digi-main__results", cfg.Competitors.ResultsSelector)
	assert.Equal(t, ".digi-products", cfg.Competitors.ProductsSelector)
	assert.True(t, cfg.Competitors.Headless)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 2, cfg.Task.WorkerCount)
	assert.Equal(t, 100, cfg.Task.QueueSize)
	assert.Equal(t, 64, cfg.Warehouse.MaxClients)
	assert.Equal(t, 30, cfg.Partners.TimeoutSeconds)
	assert.False(t, cfg.PartnerLookupEnabled())
}

// TestLoadFromEnv verifies that environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	env := requiredEnv()
	env["STOREKEEPER_SERVER_PORT"] = "9090"
	env["STOREKEEPER_SERVER_LOG_LEVEL"] = "debug"
	env["STOREKEEPER_WAREHOUSE_BATCH_SIZE"] = "5"
	env["STOREKEEPER_LLM_PROVIDER"] = "gemini"
	env["STOREKEEPER_LLM_MODEL"] = "gemini-2.0-flash"
	env["STOREKEEPER_COMPETITORS_HEADLESS"] = "false"
	env["STOREKEEPER_TASK_WORKER_COUNT"] = "4"
	env["STOREKEEPER_PARTNERS_BASE_URL"] = "https://partner.example/"
	env["STOREKEEPER_WAREHOUSE_PARTNER_GROUP_ID"] = "android"
	setEnv(t, env)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 5, cfg.Warehouse.BatchSize)
	assert.Equal(t, "store-main", cfg.Warehouse.MainStoreID)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.False(t, cfg.Competitors.Headless)
	assert.Equal(t, 4, cfg.Task.WorkerCount)
	assert.Equal(t, "https://partner.example/", cfg.Partners.BaseURL)
	assert.Equal(t, "android", cfg.Warehouse.PartnerGroupID)
	assert.True(t, cfg.PartnerLookupEnabled())
}

func TestPartnerLookupEnabled(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.False(t, cfg.PartnerLookupEnabled())

	cfg.Partners.BaseURL = "https://partner.example/"
	assert.False(t, cfg.PartnerLookupEnabled(), "group id is still missing")

	cfg.Warehouse.PartnerGroupID = "android"
	assert.True(t, cfg.PartnerLookupEnabled())
}

// TestLoadValidationErrors verifies that the Load function rejects invalid configuration.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(env map[string]string)
	}{
		{
			name:   "missing llm api key",
			mutate: func(env map[string]string) { env["STOREKEEPER_LLM_API_KEY"] = "" },
		},
		{
			name:   "missing main store",
			mutate: func(env map[string]string) { env["STOREKEEPER_WAREHOUSE_MAIN_STORE_ID"] = "" },
		},
		{
			name:   "invalid port number",
			mutate: func(env map[string]string) { env["STOREKEEPER_SERVER_PORT"] = "999999" },
		},
		{
			name:   "invalid log level",
			mutate: func(env map[string]string) { env["STOREKEEPER_SERVER_LOG_LEVEL"] = "invalid-level" },
		},
		{
			name:   "unknown llm provider",
			mutate: func(env map[string]string) { env["STOREKEEPER_LLM_PROVIDER"] = "claude" },
		},
		{
			name:   "partner url is not a url",
			mutate: func(env map[string]string) { env["STOREKEEPER_PARTNERS_BASE_URL"] = "not a url" },
		},
		{
			name:   "zero client cache",
			mutate: func(env map[string]string) { env["STOREKEEPER_WAREHOUSE_MAX_CLIENTS"] = "0" },
		},
		{
			name:   "competitor url is not a url",
			mutate: func(env map[string]string) { env["STOREKEEPER_COMPETITORS_BASE_URL"] = "not a url" },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := requiredEnv()
			tc.mutate(env)
			setEnv(t, env)

			cfg, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg)
		})
	}
}
