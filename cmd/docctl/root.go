package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kirillkom/dossier/internal/config"
	"github.com/kirillkom/dossier/internal/observability/logging"
)

// newRootCmd builds the command tree; flags override env through viper.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "docctl",
		Short:         "Classify and tag personal documents from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Logs go to stderr so tables on stdout stay clean.
			slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "docctl", v.GetString("log-level")))
		},
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newIngestCmd(v),
		newClassifyCmd(),
		newSeedCmd(),
	)
	return root
}

// loadConfig applies viper-bound overrides on top of the env config.
func loadConfig(v *viper.Viper) config.Config {
	cfg := config.Load()
	if p := v.GetString("provider"); p != "" {
		cfg.ExtractionProvider = p
	}
	if m := v.GetString("model"); m != "" {
		switch strings.ToLower(cfg.ExtractionProvider) {
		case "ollama":
			cfg.OllamaModel = m
		case "openai":
			cfg.OpenAIModel = m
		default:
			cfg.GeminiModel = m
		}
	}
	cfg.LogLevel = v.GetString("log-level")
	return cfg
}
