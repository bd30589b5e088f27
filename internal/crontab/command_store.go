package crontab

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/aatumaykin/cronreg/internal/logger"
)

// DefaultCrontabBinary is the crontab(1) executable looked up in PATH.
const DefaultCrontabBinary = "crontab"

// CommandStore reads and replaces a user's crontab through crontab(1).
// "crontab -" installs the new table in one step, which is the atomic
// replace the registrar relies on.
type CommandStore struct {
	binary string
	user   string
	logger *logger.Logger
}

// NewCommandStore creates a store backed by the crontab binary.
// An empty user targets the invoking user's crontab.
func NewCommandStore(binary, user string, log *logger.Logger) *CommandStore {
	if binary == "" {
		binary = DefaultCrontabBinary
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CommandStore{
		binary: binary,
		user:   user,
		logger: log,
	}
}

func (s *CommandStore) Name() string {
	return "crontab"
}

func (s *CommandStore) args(extra ...string) []string {
	var args []string
	if s.user != "" {
		args = append(args, "-u", s.user)
	}
	return append(args, extra...)
}

// Load runs "crontab -l". A user without a crontab gets an empty table.
func (s *CommandStore) Load(ctx context.Context) (Table, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, s.args("-l")...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(strings.ToLower(msg), "no crontab for") {
			s.logger.Debug("no crontab installed yet",
				logger.Field{Key: "user", Value: s.user})
			return Table{}, nil
		}
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, readError(s.Name(), err)
	}

	table := ParseTable(stdout.Bytes())
	s.logger.Debug("crontab loaded",
		logger.Field{Key: "entries", Value: len(table)},
		logger.Field{Key: "user", Value: s.user})
	return table, nil
}

// Save pipes the table into "crontab -".
func (s *CommandStore) Save(ctx context.Context, t Table) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, s.args("-")...)
	cmd.Stdin = bytes.NewReader(t.Bytes())
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		s.logger.Error("failed to install crontab", err,
			logger.Field{Key: "user", Value: s.user})
		return writeError(s.Name(), err)
	}

	s.logger.Debug("crontab installed",
		logger.Field{Key: "entries", Value: len(t)},
		logger.Field{Key: "user", Value: s.user})
	return nil
}
