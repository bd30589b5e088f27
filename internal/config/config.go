package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aatumaykin/cronreg/internal/crontab"
)

// Load загружает конфигурацию из TOML или YAML файла (по расширению)
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := seed()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(cfg)
	expandEnvVars(cfg)
	deriveMarker(cfg)

	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default() when the file does not
// exist. Any other read or parse error is returned.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	return nil, false, err
}

// Validate проверяет валидность конфигурации
func (c *Config) Validate() []error {
	var errors []error

	// Проверка job
	if _, err := crontab.ParseSchedule(c.Job.Schedule); err != nil {
		errors = append(errors, fmt.Errorf("job.schedule: %w", err))
	}
	if strings.TrimSpace(c.Job.Command) == "" {
		errors = append(errors, fmt.Errorf("job.command is required"))
	}

	if !slices.Contains(crontab.MatchModes, crontab.MatchMode(c.Job.Match)) {
		errors = append(errors, fmt.Errorf("invalid job.match: %s (expected: %s)", c.Job.Match, crontab.MatchModeList()))
	} else if matcher, err := c.Matcher(); err != nil {
		errors = append(errors, fmt.Errorf("job.marker: %w", err))
	} else if entry, err := c.EntrySpec().Build(); err != nil {
		errors = append(errors, fmt.Errorf("job: %w", err))
	} else if !matcher.Match(entry) {
		// Иначе каждый запуск будет добавлять дубликат
		errors = append(errors, fmt.Errorf("job.marker %q does not match the generated entry: %s", c.Job.Marker, entry))
	}

	switch c.Job.Replace {
	case ReplaceAsk, ReplaceAlways, ReplaceNever:
	default:
		errors = append(errors, fmt.Errorf("invalid job.replace: %s (expected: ask, always, never)", c.Job.Replace))
	}

	// Проверка crontab
	switch c.Crontab.Driver {
	case DriverCommand:
		if c.Crontab.Binary == "" {
			errors = append(errors, fmt.Errorf("crontab.binary is required when driver is 'command'"))
		}
	case DriverFile:
		if c.Crontab.Path == "" {
			errors = append(errors, fmt.Errorf("crontab.path is required when driver is 'file'"))
		} else if err := validatePath(c.Crontab.Path, "crontab.path"); err != nil {
			errors = append(errors, err)
		}
	default:
		errors = append(errors, fmt.Errorf("invalid crontab.driver: %s (expected: command, file)", c.Crontab.Driver))
	}

	// Проверка backup
	if c.Backup.Enabled {
		if err := validatePath(c.Backup.Dir, "backup.dir"); err != nil {
			errors = append(errors, err)
		}
		if c.Backup.RetentionDays < 0 {
			errors = append(errors, fmt.Errorf("invalid backup.retention_days: %d (expected 0 to keep all, or a positive number of days)", c.Backup.RetentionDays))
		}
	}

	// Проверка logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}
	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	return errors
}

// EntrySpec returns the crontab entry described by the [job] section.
func (c *Config) EntrySpec() crontab.EntrySpec {
	return crontab.EntrySpec{
		Schedule: c.Job.Schedule,
		Command:  c.Job.Command,
		Args:     c.Job.Args,
		LogPath:  c.Job.LogPath,
	}
}

// Matcher returns the matcher recognizing entries of the managed job.
func (c *Config) Matcher() (crontab.Matcher, error) {
	return crontab.NewMatcher(crontab.MatchMode(c.Job.Match), c.Job.Marker)
}

func validatePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains potentially dangerous path traversal sequence", fieldName)
	}

	return nil
}

// expandEnvVars расширяет переменные окружения в конфигурации
func expandEnvVars(c *Config) {
	c.Job.Command = expandHome(expandEnv(c.Job.Command))
	for i, arg := range c.Job.Args {
		c.Job.Args[i] = expandHome(expandEnv(arg))
	}
	c.Job.LogPath = expandHome(expandEnv(c.Job.LogPath))

	c.Crontab.User = expandEnv(c.Crontab.User)
	c.Crontab.Path = expandHome(expandEnv(c.Crontab.Path))

	c.Backup.Dir = expandHome(expandEnv(c.Backup.Dir))
	c.Metrics.TextfilePath = expandHome(expandEnv(c.Metrics.TextfilePath))
}

// expandEnv расширяет переменные окружения формата ${VAR} и ${VAR:default}
// в любом месте строки
func expandEnv(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			b.WriteString(s)
			return b.String()
		}
		end += start

		b.WriteString(s[:start])
		content := s[start+2 : end]
		if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
			if val := os.Getenv(parts[0]); val != "" {
				b.WriteString(val)
			} else {
				b.WriteString(parts[1])
			}
		} else {
			b.WriteString(os.Getenv(content))
		}
		s = s[end+1:]
	}
}

// expandHome расширяет ~ в пути
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
