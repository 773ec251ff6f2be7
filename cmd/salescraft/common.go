package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/sales-assistant/internal/config"
	"github.com/jonathan/sales-assistant/internal/llm"
	"github.com/jonathan/sales-assistant/internal/observability"
	"github.com/jonathan/sales-assistant/internal/pipeline"
	"github.com/jonathan/sales-assistant/internal/prompt"
)

// loadRuntimeConfig merges flags over the config file, the environment,
// and the defaults, in that priority order, then validates the result.
func loadRuntimeConfig() (config.Config, error) {
	cfg := config.Config{
		DataDir:   flagDataDir,
		OutputDir: flagOutputDir,
		APIKey:    flagAPIKey,
		Model:     flagModel,
		Verbose:   flagVerbose,
	}

	if flagConfigPath != "" {
		fileCfg, err := config.LoadConfig(flagConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(config.FromEnv())
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newPrinter mutes progress output unless --verbose is set. Warnings
// always reach stderr: a dropped optional input must leave a trace even
// in a quiet run.
func newPrinter(cfg config.Config) *observability.Printer {
	return observability.NewPrinter(progressWriter(cfg), os.Stderr)
}

func progressWriter(cfg config.Config) io.Writer {
	if cfg.Verbose {
		return os.Stdout
	}
	return io.Discard
}

// runGenerate drives one generation request end to end and prints the
// artifact path on success.
func runGenerate(ctx context.Context, mode prompt.Mode, inputs map[prompt.Role]string, opts prompt.Options) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return usageErrorf("API key required: set GEMINI_API_KEY or pass --api-key")
	}

	client, err := llm.NewGeminiClient(ctx, &llm.Config{
		Model:           cfg.Model,
		Temperature:     0.1,
		MaxOutputTokens: 4096,
	}, cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	orch := pipeline.New(cfg, client, newPrinter(cfg))
	artifact, err := orch.Run(ctx, pipeline.Request{Mode: mode, Inputs: inputs, Options: opts})
	if err != nil {
		return err
	}

	fmt.Printf("输出文件: %s\n", artifact.OutputPath)
	return nil
}
