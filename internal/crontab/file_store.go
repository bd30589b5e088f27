package crontab

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aatumaykin/cronreg/internal/logger"
)

// FileStore keeps the table in a plain file, e.g. an /etc/cron.d drop-in.
type FileStore struct {
	filePath string         // Full path to the crontab file
	mode     os.FileMode    // Permissions of a newly written file
	logger   *logger.Logger // Logger instance for storage operations
}

// NewFileStore creates a FileStore for filePath.
func NewFileStore(filePath string, log *logger.Logger) *FileStore {
	if log == nil {
		log = logger.Nop()
	}
	return &FileStore{
		filePath: filePath,
		mode:     0644,
		logger:   log,
	}
}

func (s *FileStore) Name() string {
	return "file"
}

// Load reads the file. A missing file is an empty table.
func (s *FileStore) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, readError(s.Name(), err)
	}

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return Table{}, nil
	}
	if err != nil {
		s.logger.Error("failed to read crontab file", err,
			logger.Field{Key: "file", Value: s.filePath})
		return nil, readError(s.Name(), err)
	}

	return ParseTable(data), nil
}

// Save writes the table using atomic write.
// A temporary file is created first, then renamed to the actual file.
func (s *FileStore) Save(ctx context.Context, t Table) error {
	if err := ctx.Err(); err != nil {
		return writeError(s.Name(), err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		s.logger.Error("failed to create crontab directory", err,
			logger.Field{Key: "dir", Value: filepath.Dir(s.filePath)})
		return writeError(s.Name(), err)
	}

	tmpPath := s.filePath + ".tmp"

	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, s.mode)
	if err != nil {
		s.logger.Error("failed to create temporary crontab file", err,
			logger.Field{Key: "file", Value: tmpPath})
		return writeError(s.Name(), err)
	}
	defer file.Close()

	if _, err := file.Write(t.Bytes()); err != nil {
		s.logger.Error("failed to write temporary crontab file", err,
			logger.Field{Key: "file", Value: tmpPath})
		_ = os.Remove(tmpPath)
		return writeError(s.Name(), err)
	}

	// Ensure all data is written to disk
	if err := file.Sync(); err != nil {
		s.logger.Error("failed to sync temporary crontab file", err,
			logger.Field{Key: "file", Value: tmpPath})
		_ = os.Remove(tmpPath)
		return writeError(s.Name(), err)
	}

	// Atomically rename temporary file to actual file
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		s.logger.Error("failed to rename temporary crontab file", err,
			logger.Field{Key: "from", Value: tmpPath},
			logger.Field{Key: "to", Value: s.filePath})
		_ = os.Remove(tmpPath)
		return writeError(s.Name(), err)
	}

	s.logger.Debug("crontab file saved",
		logger.Field{Key: "entries", Value: len(t)},
		logger.Field{Key: "file", Value: s.filePath})

	return nil
}
