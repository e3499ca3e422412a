package cmd

import (
	"foreman/pkg/config"
	"foreman/pkg/system"

	"github.com/spf13/cobra"
)

// execCmd dispatches a raw command line without looking it up in the
// pipeline file. The credential-aware flag decision still applies. Arguments
// are shell-quoted so their boundaries survive `sh -c`.
var execCmd = &cobra.Command{
	Use:   "exec -- <command> [args...]",
	Short: "Dispatches a raw command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		dispatcher, err := newDispatcher(cfg)
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		_, err = dispatcher.Dispatch(system.QuoteCommand(args))
		return err
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
