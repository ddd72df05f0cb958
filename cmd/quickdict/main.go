package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grisov/quickdict/internal/cli"
	"github.com/grisov/quickdict/internal/config"
)

var (
	configFile string
	service    string
	fromLang   string
	intoLang   string
)

func main() {
	var debugMode bool
	rootCommand := cobra.Command{
		Use:           "quickdict",
		Short:         "Look up a word or phrase in an online dictionary",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	rootCommand.PersistentFlags().StringVar(&service, "service", "", "dictionary service to query (yandex or lexicala)")
	rootCommand.PersistentFlags().StringVar(&fromLang, "from", "", "source language code")
	rootCommand.PersistentFlags().StringVar(&intoLang, "into", "", "target language code")

	rootCommand.AddCommand(
		newLookupCommand(),
		newSwapCommand(),
		newLanguagesCommand(),
		newUsageCommand(),
		newStatsCommand(),
	)
	if err := rootCommand.Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func newApp() (*cli.App, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load > %w", err)
	}
	if service != "" {
		cfg.Active = service
	}
	applyLanguageFlags(cfg)
	return cli.New(cfg, os.Stdout, os.Stderr), nil
}

func applyLanguageFlags(cfg *config.Config) {
	if fromLang != "" {
		cfg.Yandex.From = fromLang
		cfg.Lexicala.From = fromLang
	}
	if intoLang != "" {
		cfg.Yandex.Into = intoLang
		cfg.Lexicala.Into = intoLang
	}
}

func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [word or phrase]",
		Short: "Retrieve a dictionary entry for a word or phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.Lookup(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func newSwapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "swap [word or phrase]",
		Short: "Swap the languages and retrieve a dictionary entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.Swap(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func newLanguagesCommand() *cobra.Command {
	var refresh bool
	command := &cobra.Command{
		Use:   "languages",
		Short: "List the language pairs supported by the active service",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.Languages(cmd.Context(), refresh)
		},
	}
	command.Flags().BoolVar(&refresh, "refresh", false, "update the language list from the service")
	return command
}

func newUsageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show the request quota of the active service",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.Usage(cmd.Context())
		},
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show response cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.Stats()
		},
	}
}
