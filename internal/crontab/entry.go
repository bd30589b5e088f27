package crontab

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts the classic five-field format and @descriptors,
// the same set crontab(5) understands (except @reboot, handled separately).
var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule validates a timing spec and returns its cron.Schedule.
func ParseSchedule(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("invalid cron expression: empty schedule")
	}
	if spec == "@reboot" {
		return rebootSchedule{}, nil
	}
	if strings.HasPrefix(spec, "@every") {
		return nil, fmt.Errorf("invalid cron expression: %s is not supported by crontab", spec)
	}
	sched, err := scheduleParser.Parse(normalizeDow(spec))
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return sched, nil
}

// normalizeDow rewrites Sunday written as 7 (accepted by crontab(5)) to 0,
// the only form the parser knows. "7", "5-7" and lists of them are handled;
// stepped ranges ending in 7 are left for the parser to reject.
func normalizeDow(spec string) string {
	fields := strings.Fields(spec)
	if len(fields) != 5 {
		return spec
	}

	var items []string
	for _, item := range strings.Split(fields[4], ",") {
		switch {
		case item == "7", item == "7-7":
			items = append(items, "0")
		case strings.HasSuffix(item, "-7") && !strings.Contains(item, "/"):
			items = append(items, strings.TrimSuffix(item, "-7")+"-6", "0")
		default:
			items = append(items, item)
		}
	}
	fields[4] = strings.Join(items, ",")
	return strings.Join(fields, " ")
}

// rebootSchedule never fires on the clock; cron runs it once at daemon start.
type rebootSchedule struct{}

func (rebootSchedule) Next(time.Time) time.Time {
	return time.Time{}
}

// EntrySpec describes the line to install. Command, each argument and
// LogPath are rendered as single shell words, quoted when they contain
// spaces or shell metacharacters.
type EntrySpec struct {
	Schedule string   // Timing spec, e.g. "0 2 * * *" or "@daily"
	Command  string   // Executable path
	Args     []string // Fixed arguments
	LogPath  string   // stdout/stderr are appended here; empty disables the redirect
}

// Build validates the schedule and command and renders the crontab line.
func (s EntrySpec) Build() (Entry, error) {
	if _, err := ParseSchedule(s.Schedule); err != nil {
		return "", err
	}
	if strings.TrimSpace(s.Command) == "" {
		return "", fmt.Errorf("command cannot be empty")
	}

	parts := []string{strings.TrimSpace(s.Schedule), shellQuote(strings.TrimSpace(s.Command))}
	for _, arg := range s.Args {
		if arg = strings.TrimSpace(arg); arg != "" {
			parts = append(parts, shellQuote(arg))
		}
	}
	if s.LogPath != "" {
		parts = append(parts, ">>", shellQuote(s.LogPath), "2>&1")
	}

	line := strings.Join(parts, " ")
	if strings.ContainsAny(line, "\r\n") {
		return "", fmt.Errorf("entry cannot contain line breaks")
	}
	// Неэкранированный % в crontab превращается в перевод строки.
	for i := 0; i < len(line); i++ {
		if line[i] == '%' && (i == 0 || line[i-1] != '\\') {
			return "", fmt.Errorf("entry contains unescaped %%: %s", line)
		}
	}

	return Entry(line), nil
}

// shellQuote makes s a single /bin/sh word. Plain paths are returned as is;
// anything else is wrapped in single quotes. A leading "~/" stays outside the
// quotes so the shell still expands it.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, isShellUnsafe) < 0 {
		return s
	}
	prefix := ""
	if rest, ok := strings.CutPrefix(s, "~/"); ok {
		prefix, s = "~/", rest
	}
	return prefix + "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellUnsafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("_@%+=:,./~-", r):
		return false
	}
	return true
}

// NextRun returns the next activation time of the entry's schedule after t.
// The schedule is taken from the leading fields of the line; zero time is
// returned when it cannot be parsed.
func NextRun(e Entry, t time.Time) time.Time {
	fields := strings.Fields(string(e))
	if len(fields) == 0 || e.IsComment() {
		return time.Time{}
	}

	spec := fields[0]
	if !strings.HasPrefix(spec, "@") {
		if len(fields) < 5 {
			return time.Time{}
		}
		spec = strings.Join(fields[:5], " ")
	}

	sched, err := ParseSchedule(spec)
	if err != nil {
		return time.Time{}
	}
	return sched.Next(t)
}
