// Package main implements the entry point for the Gemini proxy server, which
// forwards browser generation requests to the Gemini API using server-side
// credentials.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/gemini-proxy/internal/config"
	"github.com/phrazzld/gemini-proxy/internal/platform/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. Running the root command without a
// subcommand is the same as running serve.
func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "gemini-proxy",
		Short:         "HTTP proxy for the Gemini generative-language API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cmd.Flags(), configFile)
		},
	}

	root.PersistentFlags().Int("port", 5000, "port to listen on")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the proxy server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cmd.Flags(), configFile)
		},
	})

	return root
}

// runServe loads configuration, wires the application and blocks until the
// server shuts down.
func runServe(ctx context.Context, flags *pflag.FlagSet, configFile string) error {
	cfg, err := loadAppConfig(flags, configFile)
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"default_model", cfg.LLM.DefaultModel,
		"allowed_origins", cfg.Server.Origins())
	l.Debug("Auth configuration", "internal_key_present", cfg.Auth.AuthEnabled())

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// loadAppConfig loads the configuration, honouring explicitly set flags and
// an optional config file path.
func loadAppConfig(flags *pflag.FlagSet, configFile string) (*config.Config, error) {
	opts := []config.Option{config.WithFlags(flags)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Debug("configuration sources resolved", "config_file", configFile)
	return cfg, nil
}
