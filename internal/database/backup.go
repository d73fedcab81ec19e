package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shareit/internal/config"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

const (
	backupPrefix     = "shareit_"
	backupTimeLayout = "20060102_150405"
)

// BackupService periodically snapshots the sqlite database file into the
// configured storage directory and prunes snapshots past retention.
type BackupService struct {
	dbPath string
	cfg    config.BackupConfig
	logger *zerolog.Logger
}

func NewBackupService(dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	return &BackupService{
		dbPath: dbPath,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *BackupService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("Backup service is disabled")
		return
	}

	interval := s.interval()
	s.logger.Info().Dur("interval", interval).Msg("Backup service started")

	// First snapshot right away, then on schedule
	s.runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *BackupService) interval() time.Duration {
	d, err := time.ParseDuration(s.cfg.Schedule)
	if err != nil || d <= 0 {
		if s.cfg.Schedule != "" {
			s.logger.Warn().Str("schedule", s.cfg.Schedule).Msg("Failed to parse backup schedule, using default 24h")
		}
		return 24 * time.Hour
	}
	return d
}

func (s *BackupService) runOnce() {
	if err := s.Snapshot(); err != nil {
		s.logger.Error().Err(err).Msg("Backup failed")
	}
	s.PruneOldSnapshots()
}

// Snapshot writes a consistent copy of the database using VACUUM INTO,
// falling back to a plain file copy when VACUUM fails.
func (s *BackupService) Snapshot() error {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := backupPrefix + time.Now().Format(backupTimeLayout) + ".db"
	target := filepath.Join(s.cfg.StoragePath, name)

	s.logger.Info().Str("path", target).Msg("Writing database snapshot")

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(fmt.Sprintf("VACUUM INTO '%s'", target)); err != nil {
		s.logger.Warn().Err(err).Msg("VACUUM INTO failed, falling back to file copy")
		return s.copySnapshot(target)
	}

	return nil
}

func (s *BackupService) copySnapshot(target string) error {
	source, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(target)
	if err != nil {
		return err
	}
	defer destination.Close()

	// io.Copy is not atomic for sqlite; a concurrent write can corrupt the copy
	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	s.logger.Info().Str("path", target).Msg("Fallback snapshot written")
	return nil
}

// PruneOldSnapshots deletes snapshots older than the retention window.
func (s *BackupService) PruneOldSnapshots() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read backup directory for cleanup")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)

	for _, file := range files {
		if file.IsDir() || !strings.HasPrefix(file.Name(), backupPrefix) {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("Deleting old snapshot")
			os.Remove(filepath.Join(s.cfg.StoragePath, file.Name()))
		}
	}
}
