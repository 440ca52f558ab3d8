// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/marketlink/marketlink/internal/config"
	"github.com/marketlink/marketlink/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Directory of main.toml and .env (default ./etc/)")
}

var (
	configPath string // Path to the configuration directory
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "marketlink",
		Short: "marketlink is the login and onboarding service of the marketlink marketplace",
		Long: `marketlink authenticates users with email and password or an OpenID Connect
provider, keeps one user record per email and routes every session through
user type selection and onboarding to the dashboard.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// loadConfig reads the configuration and initializes the global logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error
	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
