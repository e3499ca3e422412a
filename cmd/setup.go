package cmd

import (
	"fmt"
	"os"

	"foreman/pkg/config"
	"foreman/pkg/log"
	"foreman/pkg/system"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var setupEnvFile string

// setupCmd persists the credential payload from the environment to the
// marker file. Dispatch only ever checks the marker's existence; this is
// the one place that writes it.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Installs the remote-execution credential marker from the environment",
	Long: `The setup command reads the credential payload from the configured
environment variable and persists it to the marker path. When the variable
is unset the command is a no-op: forks build without remote execution.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cmd.Context().Value("logger").(log.Logger)

		if setupEnvFile != "" {
			if err := godotenv.Load(setupEnvFile); err != nil {
				return fmt.Errorf("loading env file %s: %w", setupEnvFile, err)
			}
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		payload := os.Getenv(cfg.Credential.Env)
		if payload == "" {
			logger.Warn("credential variable not set, building without remote execution", "env", cfg.Credential.Env)
			return nil
		}

		path, err := system.ExpandHome(cfg.Credential.Path)
		if err != nil {
			return err
		}
		if err := system.InstallCredential(path, payload); err != nil {
			return err
		}
		logger.Info("credential installed", "path", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().StringVar(&setupEnvFile, "env-file", "", "Optional dotenv file to load before reading the environment")
}
