package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const listPreviewWidth = 60

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the slots that hold code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		populated := a.manager.Populated()
		if len(populated) == 0 {
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("No saved slots in %s", a.cfg.Store.Path)))
			return nil
		}

		for _, n := range populated {
			fmt.Fprintf(out, "%s  %s\n",
				titleStyle.Render(fmt.Sprintf("%3d", n)),
				firstLine(a.manager.Get(n), listPreviewWidth),
			)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <slot>",
	Short: "Print the code stored in a slot",
	Args:  cobra.ExactArgs(1),
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

		fmt.Fprint(cmd.OutOrStdout(), a.manager.Get(slot))
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <slot>",
	Short: "Replace a slot's code with standard input",
	Long: `Read standard input and store it in a slot, replacing what was there.
Empty input clears the slot.

  echo 'print("hello")' | codeslots set 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := slotArg(args, 0)
		if err != nil {
			return err
		}

		code, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}

		return storeSlot(cmd, slot, string(code))
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <slot>",
	Short: "Empty a slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := slotArg(args, 0)
		if err != nil {
			return err
		}
		return storeSlot(cmd, slot, "")
	},
}

func storeSlot(cmd *cobra.Command, slot int, code string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.manager.Set(slot, code); err != nil {
		return err
	}
	a.logger.Debug("slot written from command line", "slot", slot, "bytes", len(code))

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Saved")+" "+dimStyle.Render(fmt.Sprintf("slot %d", slot)))
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd, setCmd, clearCmd)
}
