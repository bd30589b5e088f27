package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
	assumeYes  bool
	noInput    bool
)

// rootCmd installs the job when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cronreg",
	Short: "cronreg - idempotent crontab entry registrar",
	Long: `cronreg installs the crontab entry of a scheduled job.

Entries of the same job are recognized by a marker (the script name by
default). When one already exists you are asked whether to replace it;
all matching entries are then removed and the new one is appended.
Running cronreg again with the same configuration leaves exactly one entry.`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInstall,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: ./cronreg.toml, $CRONREG_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Replace existing entries without asking")
	rootCmd.PersistentFlags().BoolVar(&noInput, "no-input", false, "Never prompt; keep existing entries")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
