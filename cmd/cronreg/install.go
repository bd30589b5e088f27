package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronreg/internal/constants"
	"github.com/aatumaykin/cronreg/internal/registrar"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install or replace the job's crontab entry",
	Long: `Install the crontab entry described by the [job] section.

Existing entries containing the marker are listed and, after confirmation,
all of them are replaced by the new entry. Declining leaves the crontab
untouched and exits successfully.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	entry, err := a.cfg.EntrySpec().Build()
	if err != nil {
		return fmt.Errorf("failed to build cron entry: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, constants.MsgInstalling, entry)

	result, err := a.registrar.Install(a.context(cmd), entry)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case registrar.OutcomeDeclined:
		fmt.Fprint(out, constants.MsgDeclined)
		return nil
	case registrar.OutcomeReplaced:
		fmt.Fprintf(out, constants.MsgReplaced, len(result.Removed))
	default:
		fmt.Fprint(out, constants.MsgInstalled)
	}

	fmt.Fprintf(out, constants.MsgNextRun, formatNextRun(entry, time.Now()))
	if result.Backup != "" {
		fmt.Fprintf(out, constants.MsgBackupSaved, result.Backup)
	}
	return nil
}
