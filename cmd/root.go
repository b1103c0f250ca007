package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/itsmostafa/codeslots/internal/config"
	"github.com/itsmostafa/codeslots/internal/tui"
	"github.com/itsmostafa/codeslots/internal/version"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var startSlot int

var rootCmd = &cobra.Command{
	Use:   "codeslots",
	Short: "Keep 100 code snippets in numbered slots and run them",
	Long: `codeslots is a scratchpad for short programs. It keeps 100 numbered slots
in a JSON file, saves every keystroke, and runs the current slot in a fresh
interpreter, showing either what it printed or the trace of what went wrong.

Run without a subcommand to open the editor.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the editor owns the terminal, so nothing is mirrored to stderr
		a, err := openApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := tui.Options{
			Manager:         a.manager,
			Engine:          a.engine,
			Logger:          a.logger.Logger,
			InitialSlot:     startSlot,
			ShowLineNumbers: a.cfg.TUI.ShowLineNumbers,
		}
		if a.cfg.TUI.WatchStore {
			w, err := a.store.Watch()
			if err != nil {
				// editing still works without reloads
				a.logger.Warn("store watch unavailable", "error", err)
			} else {
				defer w.Close()
				opts.Changes = w.Changes()
			}
		}

		a.logger.Info("editor started", "store", a.cfg.Store.Path, "slot", startSlot)
		return tui.Run(opts)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("codeslots %s\n", version.String()))
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/codeslots/config.yaml)")
	rootCmd.PersistentFlags().String("store", "", "slot document path (default my_code_slots.json)")
	rootCmd.PersistentFlags().String("lang", "", "snippet language (starlark, javascript, tengo)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("runner.language", rootCmd.PersistentFlags().Lookup("lang"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.Flags().IntVarP(&startSlot, "slot", "s", 1, "slot to open")
}

func initConfig() {
	// A missing .env is the common case
	_ = godotenv.Load()

	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/codeslots")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CODESLOTS")
	// CODESLOTS_RUNNER_TIMEOUT_SECONDS for runner.timeout_seconds
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSnippetFailed) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error:")+" "+err.Error())
		}
		os.Exit(1)
	}
}
