package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronreg/internal/constants"
	"github.com/aatumaykin/cronreg/internal/registrar"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the crontab from the latest backup",
	Long: `Replace the whole crontab with the most recent backup taken by cronreg.
The current crontab is backed up first, so a restore can be undone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.registrar.Restore(a.context(cmd))
		if err != nil {
			return fmt.Errorf("failed to restore crontab: %w", err)
		}

		out := cmd.OutOrStdout()
		if result.Outcome == registrar.OutcomeDeclined {
			fmt.Fprint(out, constants.MsgDeclined)
			return nil
		}
		fmt.Fprintf(out, constants.MsgRestored, len(result.Table))
		if result.Backup != "" {
			fmt.Fprintf(out, constants.MsgBackupSaved, result.Backup)
		}
		return nil
	},
}
