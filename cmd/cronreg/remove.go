package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronreg/internal/constants"
	"github.com/aatumaykin/cronreg/internal/registrar"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove all entries of the job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.registrar.Remove(a.context(cmd))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		marker := a.cfg.Job.Marker
		switch result.Outcome {
		case registrar.OutcomeNotFound:
			fmt.Fprintf(out, constants.MsgNothingToRemove, marker)
		case registrar.OutcomeDeclined:
			fmt.Fprint(out, constants.MsgDeclined)
		default:
			fmt.Fprintf(out, constants.MsgRemoved, len(result.Removed), marker)
			if result.Backup != "" {
				fmt.Fprintf(out, constants.MsgBackupSaved, result.Backup)
			}
		}
		return nil
	},
}
