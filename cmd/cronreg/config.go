package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronreg/internal/constants"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Load the configuration (defaults included) and check it for errors.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, explicit := resolveConfigPath()
		if len(args) > 0 {
			path, explicit = args[0], true
		}

		cfg, _, err := loadConfig(path, explicit)
		if err != nil {
			return err
		}
		if errs := cfg.Validate(); len(errs) > 0 {
			return printValidation(cmd, errs)
		}

		entry, err := cfg.EntrySpec().Build()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, constants.MsgConfigValid)
		fmt.Fprintf(out, "   Entry:  %s\n   Marker: %q (%s)\n", entry, cfg.Job.Marker, cfg.Job.Match)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, explicit := resolveConfigPath()
		cfg, _, err := loadConfig(path, explicit)
		if err != nil {
			return err
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
