package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/dataqc-go/internal/config"
	"github.com/ukaji3/dataqc-go/internal/logger"
	"github.com/ukaji3/dataqc-go/pkg/dataqc"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/reasoning"
)

// llmFlags are the flags that override the llm section of the config.
type llmFlags struct {
	provider string
	model    string
	maxTurns int
}

func (f *llmFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider: openai, anthropic, googleai, ollama, mock")
	cmd.Flags().StringVar(&f.model, "model", "", "LLM model name")
	cmd.Flags().IntVar(&f.maxTurns, "max-turns", 0, "Maximum reasoning turns")
}

// loadConfig loads the configuration and installs the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = logJSON
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     cmd.ErrOrStderr(),
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
	logger.SetDefault(log)
	return cfg, log, nil
}

// applyFlags overrides the config with flag values. Provider defaults are
// resolved again after a provider switch so a key or model meant for the
// configured provider is not sent to another one.
func applyFlags(cfg *config.Config, flags llmFlags) error {
	if flags.provider != "" && flags.provider != cfg.LLM.Provider {
		cfg.LLM.Provider = flags.provider
		config.ApplyProvider(cfg)
	}
	if flags.model != "" {
		cfg.LLM.Model = flags.model
	}
	if flags.maxTurns > 0 {
		cfg.Analysis.MaxTurns = flags.maxTurns
	}
	return config.Validate(cfg)
}

// newAnalyzer builds an Analyzer from the config with flag overrides applied.
func newAnalyzer(ctx context.Context, cfg *config.Config, flags llmFlags) (*dataqc.Analyzer, error) {
	if err := applyFlags(cfg, flags); err != nil {
		return nil, err
	}

	model, err := reasoning.NewModel(ctx, reasoning.ProviderConfig{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM model: %w", err)
	}

	agent := reasoning.NewAgent(model,
		reasoning.WithTemperature(cfg.LLM.Temperature),
		reasoning.WithMaxTokens(cfg.LLM.MaxTokens),
	)
	return dataqc.NewAnalyzer(agent,
		dataqc.WithOptions(dataqc.Options{ExcludeSheets: cfg.Analysis.ExcludeSheets}),
		dataqc.WithMaxTurns(cfg.Analysis.MaxTurns),
	), nil
}
