package store

import (
	"embed"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded migrations for the store's driver.
func (s *Store) Migrate() error {
	return s.MigrateFS(migrationsFS, path.Join("migrations", s.driver))
}

// MigrateFS runs all .sql files in dir in lexical order, recording each one in
// schema_migrations so it is applied once.
func (s *Store) MigrateFS(fsys fs.FS, dir string) error {
	// 1. Create migrations table if not exists to track applied migrations
	_, err := s.DB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return errors.Wrap(err, "create schema_migrations table")
	}

	// 2. Read migration files
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return errors.Wrap(err, "read migrations directory")
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files) // 001, 002, ...

	// 3. Apply new migrations
	for _, file := range files {
		if s.isApplied(file) {
			slog.Debug("Skipping already applied migration", "file", file)
			continue
		}

		slog.Info("Applying migration", "file", file)
		content, err := fs.ReadFile(fsys, path.Join(dir, file))
		if err != nil {
			return errors.Wrapf(err, "read migration file %s", file)
		}

		tx, err := s.DB.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			// A column added by hand before the migration existed is fine.
			if !strings.Contains(err.Error(), "duplicate column name") {
				return errors.Wrapf(err, "execute migration %s", file)
			}
			slog.Warn("Column likely already exists, marking as applied", "file", file)
		} else if err := tx.Commit(); err != nil {
			return err
		}

		if _, err := s.DB.Exec(s.rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), file); err != nil {
			return errors.Wrapf(err, "record migration %s", file)
		}
	}

	return nil
}

func (s *Store) isApplied(version string) bool {
	var exists int
	err := s.DB.QueryRow(s.rebind(`SELECT 1 FROM schema_migrations WHERE version = ?`), version).Scan(&exists)
	return err == nil
}
