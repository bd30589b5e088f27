// Package registrar installs, replaces and removes the crontab entry of a
// managed job.
//
// The registrar reads the whole table once, decides on the change in memory
// and writes the table back once. If the user declines a replacement nothing
// is written. After a successful install the table holds exactly one entry
// matching the job marker.
package registrar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aatumaykin/cronreg/internal/backup"
	"github.com/aatumaykin/cronreg/internal/crontab"
	"github.com/aatumaykin/cronreg/internal/logger"
	"github.com/aatumaykin/cronreg/internal/metrics"
)

// Outcome describes how a run ended.
type Outcome string

const (
	OutcomeInstalled Outcome = "installed" // no prior entry, new entry appended
	OutcomeReplaced  Outcome = "replaced"  // prior entries removed, new entry appended
	OutcomeDeclined  Outcome = "declined"  // user said no, table untouched
	OutcomeRemoved   Outcome = "removed"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeRestored  Outcome = "restored"
)

// Result is returned by every mutating operation.
type Result struct {
	Outcome   Outcome
	Installed crontab.Entry   // set by Install unless declined
	Removed   []crontab.Entry // entries dropped from the table
	Existing  []crontab.Entry // entries matching the marker before the change
	Table     crontab.Table   // table after the run (unchanged when declined)
	Backup    string          // backup file written before the commit, if any
	RunID     string
}

// Registrar applies changes to a crontab store.
type Registrar struct {
	store    crontab.Store
	matcher  crontab.Matcher
	prompter Prompter
	backups  *backup.Manager
	metrics  *metrics.Metrics
	logger   *logger.Logger
	job      string
}

// Option configures optional collaborators.
type Option func(*Registrar)

// WithBackups snapshots the previous table before each commit.
func WithBackups(m *backup.Manager) Option {
	return func(r *Registrar) {
		r.backups = m
	}
}

// WithMetrics records each run.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registrar) {
		r.metrics = m
	}
}

// WithJobName adds the job name to every log line of a run.
func WithJobName(name string) Option {
	return func(r *Registrar) {
		r.job = name
	}
}

// New creates a Registrar.
func New(store crontab.Store, matcher crontab.Matcher, prompter Prompter, log *logger.Logger, opts ...Option) *Registrar {
	if log == nil {
		log = logger.Nop()
	}
	r := &Registrar{
		store:    store,
		matcher:  matcher,
		prompter: prompter,
		logger:   log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Install registers entry. Prior entries matching the marker are replaced
// after confirmation; a decline returns OutcomeDeclined and a nil error.
func (r *Registrar) Install(ctx context.Context, entry crontab.Entry) (Result, error) {
	run := r.begin("install")

	table := r.load(ctx, run.log)
	result := Result{Table: table, RunID: run.id}

	var next crontab.Table
	if !table.HasMatch(r.matcher) {
		next = table.Append(entry)
		result.Outcome = OutcomeInstalled
	} else {
		existing := table.Matching(r.matcher)
		result.Existing = existing
		run.log.Info("existing entries found", logger.Field{Key: "count", Value: len(existing)})

		question := Question{Text: fmt.Sprintf("Replace with %q?", entry), Header: HeaderExisting, Entries: existing}
		if !r.confirm(ctx, run.log, question) {
			result.Outcome = OutcomeDeclined
			r.finish(run, result, nil)
			return result, nil
		}
		next = table.RemoveMatching(r.matcher).Append(entry)
		result.Outcome = OutcomeReplaced
		result.Removed = existing
	}

	backupPath, err := r.commit(ctx, run.log, table, next)
	if err != nil {
		r.finish(run, result, err)
		return Result{RunID: run.id}, err
	}

	result.Installed = entry
	result.Table = next
	result.Backup = backupPath
	r.finish(run, result, nil)
	return result, nil
}

// Remove deletes every entry matching the marker after confirmation.
func (r *Registrar) Remove(ctx context.Context) (Result, error) {
	run := r.begin("remove")

	table := r.load(ctx, run.log)
	result := Result{Table: table, RunID: run.id}

	if !table.HasMatch(r.matcher) {
		result.Outcome = OutcomeNotFound
		r.finish(run, result, nil)
		return result, nil
	}

	existing := table.Matching(r.matcher)
	result.Existing = existing
	question := Question{Text: "Remove these entries?", Header: HeaderExisting, Entries: existing}
	if !r.confirm(ctx, run.log, question) {
		result.Outcome = OutcomeDeclined
		r.finish(run, result, nil)
		return result, nil
	}

	next := table.RemoveMatching(r.matcher)
	backupPath, err := r.commit(ctx, run.log, table, next)
	if err != nil {
		r.finish(run, result, err)
		return Result{RunID: run.id}, err
	}

	result.Outcome = OutcomeRemoved
	result.Removed = existing
	result.Table = next
	result.Backup = backupPath
	r.finish(run, result, nil)
	return result, nil
}

// Restore replaces the table with the most recent backup. The current table
// is backed up first, so a restore can itself be undone.
func (r *Registrar) Restore(ctx context.Context) (Result, error) {
	run := r.begin("restore")

	if r.backups == nil {
		err := errors.New("backups are disabled")
		r.finish(run, Result{}, err)
		return Result{RunID: run.id}, err
	}

	restored, path, err := r.backups.LoadLatest()
	if err != nil {
		r.finish(run, Result{}, err)
		return Result{RunID: run.id}, err
	}

	table := r.load(ctx, run.log)
	result := Result{Existing: table.Matching(r.matcher), Table: table, RunID: run.id}

	question := Question{
		Text:    fmt.Sprintf("Replace the current crontab (%d lines) with backup %s?", len(table), path),
		Header:  HeaderBackup,
		Entries: restored,
	}
	if !r.confirm(ctx, run.log, question) {
		result.Outcome = OutcomeDeclined
		r.finish(run, result, nil)
		return result, nil
	}

	backupPath, err := r.commit(ctx, run.log, table, restored)
	if err != nil {
		r.finish(run, result, err)
		return Result{RunID: run.id}, err
	}

	run.log.Info("crontab restored from backup", logger.Field{Key: "file", Value: path})
	result.Outcome = OutcomeRestored
	result.Table = restored
	result.Backup = backupPath
	r.finish(run, result, nil)
	return result, nil
}

// Status reports the entries currently matching the marker.
type Status struct {
	Store   string
	Marker  string
	Entries []crontab.Entry
	Total   int
	LoadErr error // set when the store could not be read
}

// Status reads the table without modifying it.
func (r *Registrar) Status(ctx context.Context) Status {
	status := Status{Store: r.store.Name(), Marker: r.matcher.Marker()}

	table, err := r.store.Load(ctx)
	if err != nil {
		status.LoadErr = err
		return status
	}
	status.Entries = table.Matching(r.matcher)
	status.Total = len(table)
	return status
}

type runInfo struct {
	id      string
	command string
	started time.Time
	log     *logger.Logger
}

func (r *Registrar) begin(command string) runInfo {
	id := uuid.NewString()
	fields := []logger.Field{
		{Key: "run_id", Value: id},
		{Key: "command", Value: command},
		{Key: "marker", Value: r.matcher.Marker()},
		{Key: "store", Value: r.store.Name()},
	}
	if r.job != "" {
		fields = append(fields, logger.Field{Key: "job", Value: r.job})
	}
	return runInfo{
		id:      id,
		command: command,
		started: time.Now(),
		log:     r.logger.With(fields...),
	}
}

func (r *Registrar) finish(run runInfo, result Result, err error) {
	outcome := string(result.Outcome)
	if err != nil {
		outcome = "error"
		run.log.Error("run failed", err)
	} else {
		run.log.Info("run finished",
			logger.Field{Key: "outcome", Value: outcome},
			logger.Field{Key: "removed", Value: len(result.Removed)})
	}

	if r.metrics != nil {
		managed := len(result.Table.Matching(r.matcher))
		r.metrics.RecordRun(run.command, outcome, managed, len(result.Table), time.Since(run.started))
	}
}

// load reads the table. An unreadable store is treated as empty, matching
// "crontab -l 2>/dev/null" semantics.
func (r *Registrar) load(ctx context.Context, log *logger.Logger) crontab.Table {
	table, err := r.store.Load(ctx)
	if err != nil {
		log.Warn("crontab unreadable, continuing with an empty table",
			logger.Field{Key: "error", Value: err.Error()})
		return crontab.Table{}
	}
	log.Debug("crontab loaded", logger.Field{Key: "entries", Value: len(table)})
	return table
}

func (r *Registrar) confirm(ctx context.Context, log *logger.Logger, q Question) bool {
	ok, err := r.prompter.Confirm(ctx, q)
	if err != nil {
		log.Warn("confirmation interrupted, treating as decline",
			logger.Field{Key: "error", Value: err.Error()})
		return false
	}
	return ok
}

// commit backs up prev (when non-empty) and atomically replaces the store
// content with next. A failed backup is logged and does not block the write.
func (r *Registrar) commit(ctx context.Context, log *logger.Logger, prev, next crontab.Table) (string, error) {
	var backupPath string
	if r.backups != nil && len(prev) > 0 {
		path, err := r.backups.Save(prev)
		if err != nil {
			log.Warn("failed to back up crontab", logger.Field{Key: "error", Value: err.Error()})
		} else {
			backupPath = path
		}
	}

	if err := r.store.Save(ctx, next); err != nil {
		return "", fmt.Errorf("failed to write crontab: %w", err)
	}
	log.Debug("crontab written", logger.Field{Key: "entries", Value: len(next)})

	if r.backups != nil {
		pruned, err := r.backups.Prune()
		if err != nil {
			log.Warn("failed to prune backups", logger.Field{Key: "error", Value: err.Error()})
		}
		if r.metrics != nil && pruned > 0 {
			r.metrics.AddPrunedBackups(pruned)
		}
	}

	return backupPath, nil
}
