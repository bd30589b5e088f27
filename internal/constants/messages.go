package constants

// Package messages contains the text printed by the cronreg CLI.

// Install messages
const (
	// MsgInstalling announces the entry about to be registered.
	MsgInstalling = "📅 Registering cron entry:\n   %s\n"

	// MsgInstalled is printed when the entry was appended to an empty slot.
	MsgInstalled = "✅ Cron entry installed\n"

	// MsgReplaced is printed when old entries were swapped for the new one.
	MsgReplaced = "✅ Cron entry replaced (%d old entr(y/ies) removed)\n"

	// MsgDeclined is printed when the user keeps the current table.
	MsgDeclined = "Keeping existing crontab unchanged\n"

	// MsgNextRun shows the next activation of the installed entry.
	MsgNextRun = "   Next run: %s\n"

	// MsgBackupSaved shows where the previous table was saved.
	MsgBackupSaved = "   Backup:   %s\n"
)

// Remove and restore messages
const (
	// MsgRemoved is printed after matching entries were deleted.
	MsgRemoved = "✅ Removed %d entr(y/ies) matching %q\n"

	// MsgNothingToRemove is printed when no entry matches the marker.
	MsgNothingToRemove = "No entries matching %q found\n"

	// MsgRestored is printed after the table was replaced by a backup.
	MsgRestored = "✅ Crontab restored (%d line(s))\n"
)

// Status messages
const (
	// MsgStatusHeader is the header of the status output.
	MsgStatusHeader = "Store:   %s\nMarker:  %q\nEntries: %d of %d line(s)\n"

	// MsgStatusEntry is one matching entry with its next run.
	MsgStatusEntry = "  %s\n    next run: %s\n"

	// MsgStatusNotInstalled is printed when nothing matches the marker.
	MsgStatusNotInstalled = "Job is not installed"

	// MsgNextRunUnknown replaces the next run time when it cannot be computed.
	MsgNextRunUnknown = "unknown"
)

// Config messages
const (
	// MsgConfigValidationError is the message when configuration validation fails.
	MsgConfigValidationError = "❌ Configuration validation failed:\n"

	// MsgConfigValidatePrefix is the prefix for configuration validation errors.
	MsgConfigValidatePrefix = "  - %v\n"

	// MsgConfigDefaults notes that no config file was found.
	MsgConfigDefaults = "No config file at %s, using built-in defaults"

	// MsgConfigValid is printed by "config validate" on success.
	MsgConfigValid = "✅ Configuration is valid\n"

	// MsgErrorFormat is the prefix for formatting fatal errors.
	MsgErrorFormat = "❌ Error: %v\n"
)
