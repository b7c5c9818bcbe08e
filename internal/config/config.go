// Package config loads application settings from defaults, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "DATAQC_"

type Config struct {
	LLM      LLMConfig      `koanf:"llm"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Log      LogConfig      `koanf:"log"`
	Server   ServerConfig   `koanf:"server"`
}

type LLMConfig struct {
	Provider    string  `koanf:"provider"    validate:"required,oneof=openai anthropic googleai ollama mock"`
	Model       string  `koanf:"model"       validate:"required_unless=Provider mock"`
	APIKey      string  `koanf:"api_key"`
	BaseURL     string  `koanf:"base_url"    validate:"omitempty,url"`
	Temperature float64 `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `koanf:"max_tokens"  validate:"gte=0"`

	// Set when Model or APIKey were filled in by ApplyProvider.
	modelDefaulted bool
	keyDefaulted   bool
}

type AnalysisConfig struct {
	MaxTurns      int      `koanf:"max_turns"      validate:"min=1,max=50"`
	ExcludeSheets []string `koanf:"exclude_sheets"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

type ServerConfig struct {
	Addr           string        `koanf:"addr"            validate:"required"`
	MaxConcurrent  int64         `koanf:"max_concurrent"  validate:"min=1"`
	MaxUploadMB    int64         `koanf:"max_upload_mb"   validate:"min=1"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
		},
		Analysis: AnalysisConfig{
			MaxTurns:      5,
			ExcludeSheets: []string{"data dictionary"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxConcurrent:  4,
			MaxUploadMB:    32,
			RequestTimeout: 5 * time.Minute,
		},
	}
}

// Load builds the configuration. envFile is loaded first when it exists;
// an empty envFile means ".env" in the working directory. Variables already
// set in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return transformEnvKey(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	ApplyProvider(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyProvider fills an unset model and API key from the provider's
// defaults. Values it filled earlier are replaced, so it must run again
// whenever the provider changes after Load.
func ApplyProvider(cfg *Config) {
	llm := &cfg.LLM
	if llm.Model == "" || llm.modelDefaulted {
		llm.Model = DefaultModel(llm.Provider)
		llm.modelDefaulted = llm.Model != ""
	}
	if llm.APIKey == "" || llm.keyDefaulted {
		llm.APIKey = providerAPIKey(llm.Provider)
		llm.keyDefaulted = llm.APIKey != ""
	}
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "anthropic":
		return "claude-3-5-haiku-latest"
	case "googleai":
		return "gemini-1.5-flash"
	case "ollama":
		return "llama3.1"
	default:
		return ""
	}
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// transformEnvKey converts variable names to koanf paths.
// For example: ANALYSIS_MAX_TURNS -> analysis.max_turns
func transformEnvKey(s string) string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_'
	})
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return parts[0] + "." + strings.Join(parts[1:], "_")
}

// providerAPIKey reads the provider's conventional key variable.
func providerAPIKey(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "googleai":
		return os.Getenv("GOOGLE_API_KEY")
	default:
		return ""
	}
}
