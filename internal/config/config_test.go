package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, 5, cfg.Analysis.MaxTurns)
	assert.Equal(t, []string{"data dictionary"}, cfg.Analysis.ExcludeSheets)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATAQC_LLM_PROVIDER", "mock")
	t.Setenv("DATAQC_ANALYSIS_MAX_TURNS", "9")
	t.Setenv("DATAQC_ANALYSIS_EXCLUDE_SHEETS", "Notes,Lookup")
	t.Setenv("DATAQC_SERVER_REQUEST_TIMEOUT", "30s")
	t.Setenv("DATAQC_SERVER_MAX_CONCURRENT", "2")
	t.Setenv("DATAQC_LOG_LEVEL", "debug")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 9, cfg.Analysis.MaxTurns)
	assert.Equal(t, []string{"Notes", "Lookup"}, cfg.Analysis.ExcludeSheets)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.EqualValues(t, 2, cfg.Server.MaxConcurrent)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DATAQC_ANALYSIS_MAX_TURNS=12\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DATAQC_ANALYSIS_MAX_TURNS") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Analysis.MaxTurns)
}

func TestLoad_ProviderAPIKey(t *testing.T) {
	t.Setenv("DATAQC_LLM_PROVIDER", "anthropic")
	t.Setenv("DATAQC_LLM_MODEL", "claude-3-5-haiku-latest")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)

	t.Setenv("DATAQC_LLM_API_KEY", "explicit")
	cfg, err = Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestApplyProvider(t *testing.T) {
	t.Run("Should resolve the key and model of a provider switched after Load", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("ANTHROPIC_API_KEY", "sk-anthropic")

		cfg, err := Load(missingEnvFile(t))
		require.NoError(t, err)
		assert.Equal(t, "sk-openai", cfg.LLM.APIKey)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)

		cfg.LLM.Provider = "anthropic"
		ApplyProvider(cfg)
		assert.Equal(t, "sk-anthropic", cfg.LLM.APIKey)
		assert.Equal(t, "claude-3-5-haiku-latest", cfg.LLM.Model)
		require.NoError(t, Validate(cfg))

		cfg.LLM.Provider = "ollama"
		ApplyProvider(cfg)
		assert.Empty(t, cfg.LLM.APIKey)
		assert.Equal(t, "llama3.1", cfg.LLM.Model)
	})

	t.Run("Should keep an explicit model and key across a provider switch", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("ANTHROPIC_API_KEY", "sk-anthropic")
		t.Setenv("DATAQC_LLM_MODEL", "custom-model")
		t.Setenv("DATAQC_LLM_API_KEY", "explicit")

		cfg, err := Load(missingEnvFile(t))
		require.NoError(t, err)

		cfg.LLM.Provider = "anthropic"
		ApplyProvider(cfg)
		assert.Equal(t, "custom-model", cfg.LLM.Model)
		assert.Equal(t, "explicit", cfg.LLM.APIKey)
	})

	t.Run("Should leave the model empty for the mock provider", func(t *testing.T) {
		cfg := Default()
		cfg.LLM.Provider = "mock"
		ApplyProvider(cfg)
		assert.Empty(t, cfg.LLM.Model)
		assert.NoError(t, Validate(cfg))
	})
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown provider":   {"DATAQC_LLM_PROVIDER": "carrier-pigeon"},
		"zero turns":         {"DATAQC_ANALYSIS_MAX_TURNS": "0"},
		"bad base url":       {"DATAQC_LLM_BASE_URL": "not a url"},
		"unknown log level":  {"DATAQC_LOG_LEVEL": "chatty"},
		"bad duration":       {"DATAQC_SERVER_REQUEST_TIMEOUT": "soon"},
		"non-numeric tokens": {"DATAQC_LLM_MAX_TOKENS": "many"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, Validate(cfg), "defaults have no model until the provider is applied")

	ApplyProvider(cfg)
	require.NoError(t, Validate(cfg))

	cfg.LLM.Model = ""
	assert.Error(t, Validate(cfg), "a real provider needs a model")

	cfg.LLM.Provider = "mock"
	assert.NoError(t, Validate(cfg))
}

func TestTransformEnvKey(t *testing.T) {
	assert.Equal(t, "analysis.max_turns", transformEnvKey("ANALYSIS_MAX_TURNS"))
	assert.Equal(t, "llm.api_key", transformEnvKey("LLM_API_KEY"))
	assert.Equal(t, "server.addr", transformEnvKey("SERVER_ADDR"))
	assert.Equal(t, "debug", transformEnvKey("DEBUG"))
	assert.Equal(t, "", transformEnvKey(""))
}
