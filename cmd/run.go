package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errSnippetFailed reports a fault that was already printed as a trace
var errSnippetFailed = errors.New("snippet failed")

var quietRun bool

var runCmd = &cobra.Command{
	Use:   "run [slot]",
	Short: "Run a slot without opening the editor",
	Long: `Run the code stored in a slot (default 1) in a fresh interpreter.

The snippet's output goes to stdout. If it faults, nothing it printed is
shown; the trace goes to stderr and the exit status is 1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := slotArg(args, 0)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		code, _ := a.manager.SelectSlot(slot)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		res := a.engine.Run(ctx, a.engine.Language().FileName(slot), code)
		if res.Failed {
			formatTrace(cmd.ErrOrStderr(), slot, res)
			return errSnippetFailed
		}

		fmt.Fprint(cmd.OutOrStdout(), res.Output)
		if !quietRun {
			formatRunFooter(cmd.ErrOrStderr(), slot, res)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVarP(&quietRun, "quiet", "q", false, "Print only the snippet's output")
	runCmd.Flags().Int("timeout", 0, "Cancel the run after this many seconds (0 = no timeout)")
	_ = viper.BindPFlag("runner.timeout_seconds", runCmd.Flags().Lookup("timeout"))

	rootCmd.AddCommand(runCmd)
}
