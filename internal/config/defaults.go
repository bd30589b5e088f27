package config

import (
	"path"

	"github.com/aatumaykin/cronreg/internal/crontab"
)

// Default returns the configuration used when no config file exists:
// a nightly run of the OTT movie data updater.
func Default() *Config {
	cfg := seed()
	applyDefaults(cfg)
	expandEnvVars(cfg)
	deriveMarker(cfg)
	return cfg
}

// seed holds the values a config file overrides field by field. Everything
// that can be derived from other fields is left to applyDefaults.
func seed() *Config {
	return &Config{
		Job: JobConfig{
			Args: []string{"~/ott-release-backend/auto_update.py"},
		},
		Backup: BackupConfig{
			Enabled:       true,
			RetentionDays: 30, // 0 в файле отключает удаление старых копий
		},
	}
}

// applyDefaults применяет значения по умолчанию
func applyDefaults(c *Config) {
	if c.Job.Name == "" {
		c.Job.Name = "ott-movie-update"
	}
	if c.Job.Schedule == "" {
		c.Job.Schedule = "0 2 * * *"
	}
	if c.Job.Command == "" {
		c.Job.Command = "/usr/bin/python3"
	}
	if c.Job.LogPath == "" {
		c.Job.LogPath = "~/ott-release-backend/logs/cron.log"
	}
	if c.Job.Match == "" {
		c.Job.Match = string(crontab.MatchSubstring)
	}
	if c.Job.Replace == "" {
		c.Job.Replace = ReplaceAsk
	}

	if c.Crontab.Driver == "" {
		c.Crontab.Driver = DriverCommand
	}
	if c.Crontab.Binary == "" {
		c.Crontab.Binary = crontab.DefaultCrontabBinary
	}

	if c.Backup.Dir == "" {
		c.Backup.Dir = "~/.cronreg/backups"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "cronreg"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
}

// deriveMarker берёт имя скрипта из первого аргумента, если маркер не задан.
// Вызывается после раскрытия переменных окружения.
func deriveMarker(c *Config) {
	if c.Job.Marker != "" || len(c.Job.Args) == 0 {
		return
	}
	c.Job.Marker = path.Base(c.Job.Args[0])
}
