// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesaworks/smartpost/internal/config"
	"github.com/mesaworks/smartpost/internal/observability"
)

// app carries the resolved configuration from the root command's
// PersistentPreRunE into the subcommands.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

// NewRootCommand builds a fresh command tree. Each invocation gets its own
// viper instance so flag state never leaks between executions.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "smartpost",
		Short: "Smartpost automates job postings on the placement portal.",
		// Version is dynamically set at build time. See cmd/version.go.
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// This function runs before any command, setting up config and logging.
			if err := a.loadConfig(cfgFile); err != nil {
				// Initialize a fallback logger so the failure is still visible.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "smartpost"})
				return err
			}

			observability.InitializeLogger(a.cfg.Logger)
			observability.GetLogger().Info("Starting smartpost", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newPostCmd(a))
	rootCmd.AddCommand(newExtractCmd(a))

	return rootCmd
}

// Execute runs the command tree under a signal-aware context.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Use the logger if available, otherwise fall back to stderr.
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	return nil
}

// loadConfig reads the config file (if any), applies defaults and
// environment overrides, and validates the result.
func (a *app) loadConfig(cfgFile string) error {
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	config.SetDefaults(a.v)
	config.BindEnv(a.v)

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}

	cfg, err := config.NewConfigFromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
