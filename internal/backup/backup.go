// Package backup keeps timestamped copies of the schedule table so a bad
// install can be rolled back with "cronreg restore".
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aatumaykin/cronreg/internal/crontab"
	"github.com/aatumaykin/cronreg/internal/logger"
)

const (
	filePrefix = "crontab_backup_"
	fileSuffix = ".txt"
	timeLayout = "20060102_150405"
)

// ErrNoBackups is returned when the backup directory holds no backups.
var ErrNoBackups = errors.New("no backups found")

// Manager writes, lists and prunes backups in a single directory.
type Manager struct {
	dir       string
	retention time.Duration // 0 = хранить всё
	now       func() time.Time
	logger    *logger.Logger
}

// NewManager creates a Manager. retentionDays <= 0 disables pruning.
func NewManager(dir string, retentionDays int, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	var retention time.Duration
	if retentionDays > 0 {
		retention = time.Duration(retentionDays) * 24 * time.Hour
	}
	return &Manager{
		dir:       dir,
		retention: retention,
		now:       time.Now,
		logger:    log,
	}
}

// Save writes t to a new backup file and returns its path.
func (m *Manager) Save(t crontab.Table) (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	base := filePrefix + m.now().Format(timeLayout)
	path := filepath.Join(m.dir, base+fileSuffix)
	// Суффикс дополнен нулями, чтобы имена сортировались по порядку создания
	for i := 2; fileExists(path); i++ {
		path = filepath.Join(m.dir, fmt.Sprintf("%s_%03d%s", base, i, fileSuffix))
	}

	// crontab может содержать секреты в переменных окружения
	if err := os.WriteFile(path, t.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	m.logger.Info("crontab backup created",
		logger.Field{Key: "file", Value: path},
		logger.Field{Key: "entries", Value: len(t)})
	return path, nil
}

// List returns backup paths, oldest first.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(m.dir, name))
	}
	// Имя содержит время создания
	sort.Strings(paths)
	return paths, nil
}

// Latest returns the most recent backup path.
func (m *Manager) Latest() (string, error) {
	paths, err := m.List()
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", ErrNoBackups
	}
	return paths[len(paths)-1], nil
}

// LoadLatest reads the most recent backup.
func (m *Manager) LoadLatest() (crontab.Table, string, error) {
	path, err := m.Latest()
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read backup: %w", err)
	}
	return crontab.ParseTable(data), path, nil
}

// Prune removes backups last modified before the retention window and
// returns how many were deleted. Failures on single files are logged and skipped.
func (m *Manager) Prune() (int, error) {
	if m.retention <= 0 {
		return 0, nil
	}

	paths, err := m.List()
	if err != nil {
		return 0, err
	}

	cutoff := m.now().Add(-m.retention)
	deleted := 0
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			m.logger.Warn("failed to stat backup",
				logger.Field{Key: "file", Value: path},
				logger.Field{Key: "error", Value: err.Error()})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			m.logger.Error("failed to delete old backup", err,
				logger.Field{Key: "file", Value: path})
			continue
		}
		deleted++
		m.logger.Debug("deleted old backup", logger.Field{Key: "file", Value: path})
	}

	if deleted > 0 {
		m.logger.Info("old backups pruned",
			logger.Field{Key: "count", Value: deleted},
			logger.Field{Key: "retention_days", Value: int(m.retention.Hours() / 24)})
	}
	return deleted, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
