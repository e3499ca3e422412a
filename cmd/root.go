package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"foreman/pkg/dispatch"
	"foreman/pkg/log"
	"foreman/pkg/model"
	"foreman/pkg/system"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logger    log.Logger
	cmdRunner system.CommandRunner = &system.LiveCommandRunner{}
	rootCmd                        = &cobra.Command{
		Use:   "foreman",
		Short: "foreman is a CI helper for credential-aware build dispatch",
		Long: `A small CI helper that dispatches build commands (appending a
remote-execution flag when the credential marker file is present) and keeps
commit pins of inter-repository bazel dependencies in sync.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return err
			}
			writer := cmd.ErrOrStderr()
			logger = log.NewSlogLogger(level, writer)
			ctx := context.WithValue(cmd.Context(), "logger", logger)
			cmd.SetContext(ctx)
			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). A failed dispatch exits with the
// subprocess's own exit code so the CI runner sees it unmodified.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var exitErr *dispatch.NonZeroExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func parseLogLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", levelStr)
	}
}

// newDispatcher builds the dispatcher for the loaded pipeline, resolving a
// leading ~ in the marker path.
func newDispatcher(cfg *model.Pipeline) (*dispatch.Dispatcher, error) {
	path, err := system.ExpandHome(cfg.Credential.Path)
	if err != nil {
		return nil, err
	}
	return &dispatch.Dispatcher{
		CredentialPath: path,
		RemoteExecFlag: cfg.Credential.RemoteExecFlag,
		Runner:         cmdRunner,
	}, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./pipeline.yaml", "pipeline file (default is ./pipeline.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
