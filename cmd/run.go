package cmd

import (
	"fmt"
	"strings"

	"foreman/pkg/config"

	"github.com/spf13/cobra"
)

var runShow bool

// runCmd dispatches a named command from the pipeline file.
var runCmd = &cobra.Command{
	Use:   "run <command>",
	Short: "Dispatches a named command from the pipeline file",
	Long: `The run command looks up a named command in the pipeline file and
executes it. When the credential marker file exists, the remote-execution
flag is appended to the command line before execution. The subprocess's exit
status is surfaced unmodified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		spec, ok := cfg.FindCommand(args[0])
		if !ok {
			return fmt.Errorf("unknown command %q, available: %s", args[0], strings.Join(cfg.CommandNames(), ", "))
		}

		dispatcher, err := newDispatcher(cfg)
		if err != nil {
			return err
		}

		if runShow {
			line, err := dispatcher.CommandLine(spec.Run)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		}

		cmd.SilenceUsage = true
		_, err = dispatcher.Dispatch(spec.Run)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runShow, "show", false, "Print the final command line without executing it")
}
