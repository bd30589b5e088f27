package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronreg/internal/constants"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installed entries of the job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		status := a.registrar.Status(a.context(cmd))
		if status.LoadErr != nil {
			return fmt.Errorf("crontab is unreadable: %w", status.LoadErr)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, constants.MsgStatusHeader, status.Store, status.Marker, len(status.Entries), status.Total)
		if len(status.Entries) == 0 {
			fmt.Fprintln(out, constants.MsgStatusNotInstalled)
			return nil
		}

		now := time.Now()
		for _, e := range status.Entries {
			fmt.Fprintf(out, constants.MsgStatusEntry, e, formatNextRun(e, now))
		}
		return nil
	},
}
