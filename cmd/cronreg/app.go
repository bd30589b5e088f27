package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronreg/internal/backup"
	"github.com/aatumaykin/cronreg/internal/config"
	"github.com/aatumaykin/cronreg/internal/constants"
	"github.com/aatumaykin/cronreg/internal/crontab"
	"github.com/aatumaykin/cronreg/internal/logger"
	"github.com/aatumaykin/cronreg/internal/metrics"
	"github.com/aatumaykin/cronreg/internal/registrar"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	metrics   *metrics.Metrics
	registrar *registrar.Registrar
}

// resolveConfigPath returns the config path and whether the user asked for it
// explicitly. An explicit path must exist; the default one is optional.
func resolveConfigPath() (string, bool) {
	if configPath != "" {
		return configPath, true
	}
	if p := os.Getenv(constants.EnvConfigPath); p != "" {
		return p, true
	}
	return constants.DefaultConfigPath, false
}

func loadConfig(path string, explicit bool) (*config.Config, bool, error) {
	if err := config.LoadEnvOptional(constants.DefaultEnvPath); err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", constants.DefaultEnvPath, err)
	}

	if explicit {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load configuration: %w", err)
		}
		return cfg, true, nil
	}

	cfg, found, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, found, nil
}

// printValidation writes validation errors and returns the error to exit with.
func printValidation(cmd *cobra.Command, errs []error) error {
	out := cmd.ErrOrStderr()
	fmt.Fprint(out, constants.MsgConfigValidationError)
	for _, e := range errs {
		fmt.Fprintf(out, constants.MsgConfigValidatePrefix, e)
	}
	return fmt.Errorf("invalid configuration: %d error(s)", len(errs))
}

func newApp(cmd *cobra.Command) (*app, error) {
	if assumeYes && noInput {
		return nil, errors.New("--yes and --no-input cannot be used together")
	}

	path, explicit := resolveConfigPath()
	cfg, found, err := loadConfig(path, explicit)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, printValidation(cmd, errs)
	}

	if debug {
		cfg.Logging.Level = "debug"
	}
	log, err := newLogger(cmd, cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)

	if found {
		log.Debug("configuration loaded", logger.Field{Key: "path", Value: path})
	} else {
		log.Debug(fmt.Sprintf(constants.MsgConfigDefaults, path))
	}

	matcher, err := cfg.Matcher()
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(cfg.Metrics.Namespace),
	}

	opts := []registrar.Option{
		registrar.WithMetrics(a.metrics),
		registrar.WithJobName(cfg.Job.Name),
	}
	if cfg.Backup.Enabled {
		opts = append(opts, registrar.WithBackups(backup.NewManager(cfg.Backup.Dir, cfg.Backup.RetentionDays, log)))
	}
	a.registrar = registrar.New(newStore(cfg.Crontab, log), matcher, newPrompter(cmd, cfg.Job.Replace), log, opts...)

	return a, nil
}

// newLogger пишет stdout/stderr в потоки команды, чтобы их можно было перехватить
func newLogger(cmd *cobra.Command, cfg config.LoggingConfig) (*logger.Logger, error) {
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		return logger.NewWithWriter(cmd.OutOrStdout(), cfg.Level, cfg.Format)
	case "stderr":
		return logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Level, cfg.Format)
	default:
		return logger.New(logger.Config{
			Level:  cfg.Level,
			Format: cfg.Format,
			Output: cfg.Output,
		})
	}
}

func newStore(cfg config.CrontabConfig, log *logger.Logger) crontab.Store {
	if cfg.Driver == config.DriverFile {
		return crontab.NewFileStore(cfg.Path, log)
	}
	return crontab.NewCommandStore(cfg.Binary, cfg.User, log)
}

// newPrompter: флаги командной строки важнее job.replace
func newPrompter(cmd *cobra.Command, policy string) registrar.Prompter {
	switch {
	case assumeYes:
		return registrar.StaticPrompter{Answer: true}
	case noInput:
		return registrar.StaticPrompter{Answer: false}
	}

	switch policy {
	case config.ReplaceAlways:
		return registrar.StaticPrompter{Answer: true}
	case config.ReplaceNever:
		return registrar.StaticPrompter{Answer: false}
	default:
		return registrar.NewTerminalPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// close flushes metrics and releases the log file.
func (a *app) close() {
	if path := a.cfg.Metrics.TextfilePath; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.log.Warn("failed to write metrics", logger.Field{Key: "error", Value: err.Error()})
		}
	}
	_ = a.log.Close()
}

func formatNextRun(e crontab.Entry, now time.Time) string {
	next := crontab.NextRun(e, now)
	if next.IsZero() {
		return constants.MsgNextRunUnknown
	}
	return next.Format("2006-01-02 15:04 MST")
}
