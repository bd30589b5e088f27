// Package config provides configuration loading and validation for cronreg.
// It supports TOML (default) and YAML configuration files with environment
// variable expansion, default values, and validation.
//
// Configuration structure:
//   - [job]: the crontab entry to install and how prior entries are recognized
//   - [crontab]: where the schedule table lives (crontab(1) or a plain file)
//   - [backup]: snapshots of the table taken before each write
//   - [metrics]: Prometheus textfile export
//   - [logging]: Logging level, format, and output
//
// Environment variables:
// Path-like values can reference variables using ${VAR} or ${VAR:default} syntax.
// For example: command = "${OTT_PYTHON:/usr/bin/python3}"
package config

// Config represents the main application configuration.
type Config struct {
	Job     JobConfig     `toml:"job" yaml:"job"`
	Crontab CrontabConfig `toml:"crontab" yaml:"crontab"`
	Backup  BackupConfig  `toml:"backup" yaml:"backup"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// JobConfig описывает устанавливаемую запись crontab
type JobConfig struct {
	Name     string   `toml:"name" yaml:"name"`
	Schedule string   `toml:"schedule" yaml:"schedule"`
	Command  string   `toml:"command" yaml:"command"`
	Args     []string `toml:"args" yaml:"args"`
	LogPath  string   `toml:"log_path" yaml:"log_path"`
	Marker   string   `toml:"marker" yaml:"marker"`   // по умолчанию имя файла первого аргумента
	Match    string   `toml:"match" yaml:"match"`     // substring, field, regexp
	Replace  string   `toml:"replace" yaml:"replace"` // ask, always, never
}

// Replace policies.
const (
	ReplaceAsk    = "ask"
	ReplaceAlways = "always"
	ReplaceNever  = "never"
)

// CrontabConfig описывает хранилище таблицы
type CrontabConfig struct {
	Driver string `toml:"driver" yaml:"driver"` // command, file
	Binary string `toml:"binary" yaml:"binary"`
	User   string `toml:"user" yaml:"user"`
	Path   string `toml:"path" yaml:"path"` // только для driver = "file"
}

// Crontab drivers.
const (
	DriverCommand = "command"
	DriverFile    = "file"
)

// BackupConfig представляет конфигурацию резервных копий таблицы
type BackupConfig struct {
	Enabled       bool   `toml:"enabled" yaml:"enabled"`
	Dir           string `toml:"dir" yaml:"dir"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"` // 0 = хранить все копии
}

// MetricsConfig представляет конфигурацию метрик
type MetricsConfig struct {
	TextfilePath string `toml:"textfile_path" yaml:"textfile_path"` // пусто = выключено
	Namespace    string `toml:"namespace" yaml:"namespace"`
}

// LoggingConfig представляет конфигурацию логирования
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"`
}
