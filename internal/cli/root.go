// Package cli wires the cvpctl commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvptools/cvpctl/internal/config"
	"github.com/cvptools/cvpctl/internal/cvp"
	"github.com/cvptools/cvpctl/internal/logging"
	"github.com/cvptools/cvpctl/internal/version"
)

var (
	flagUsername string
	flagPassword string
	flagHost     string
	flagLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "cvpctl",
	Short: "Drive CloudVision Portal provisioning from task files",
	Long: `cvpctl executes provisioning task files against an Arista CloudVision
Portal server: containers, configlets and change controls, with the
asynchronous tasks each change spawns polled to completion.

Connection settings come from the environment (CVP_HOST, CVP_USER,
CVP_PASS, ...), a .env file in the working directory, or flags.`,
	Version: version.String(),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUsername, "username", "u", "", "CVP username (overrides CVP_USER)")
	rootCmd.PersistentFlags().StringVarP(&flagPassword, "password", "p", "", "CVP password (overrides CVP_PASS)")
	rootCmd.PersistentFlags().StringVarP(&flagHost, "cvp", "s", "", "CVP host name or address (overrides CVP_HOST)")
	rootCmd.PersistentFlags().StringVarP(&flagLevel, "debug_level", "d", "", "log level: debug, info, warning, error or critical (overrides LOG_LEVEL)")
	// Registering the flag here gives the built-in version handling a -v
	// shorthand, which cobra does not add on its own.
	rootCmd.Flags().BoolP("version", "v", false, "print the version and exit")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(configletCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the environment configuration and applies flag
// overrides on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagHost != "" {
		cfg.Host = flagHost
	}
	if flagUsername != "" {
		cfg.User = flagUsername
	}
	if flagPassword != "" {
		cfg.Pass = flagPassword
	}
	if flagLevel != "" {
		cfg.LogLevel = flagLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.LogLevel)
}

// connect validates the configuration and opens a CVP session.
func connect(ctx context.Context, cfg *config.Config) (*cvp.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := cvp.New(cfg.Endpoint(), cfg.User, cfg.Pass, cvp.WithTLSVerification(cfg.VerifyTLS))
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}
