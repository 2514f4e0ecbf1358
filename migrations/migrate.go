// Package migrations applies the versioned postgres schema embedded in this package.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Migration is one numbered schema file
type Migration struct {
	ID       int
	Filename string
	Content  string
}

// Applied is called after each migration commits.
type Applied func(m Migration)

// Run applies every embedded migration newer than the recorded version, each in its own
// transaction. It returns the number of migrations applied.
func Run(db *sql.DB, onApplied Applied) (int, error) {
	if err := createMigrationsTable(db); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	current, err := currentVersion(db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	all, err := Load()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range all {
		if m.ID <= current {
			continue
		}
		if err := runMigration(db, m); err != nil {
			return applied, fmt.Errorf("migration %d (%s): %w", m.ID, m.Filename, err)
		}
		applied++
		if onApplied != nil {
			onApplied(m)
		}
	}
	return applied, nil
}

// Load returns the embedded migrations ordered by ID.
func Load() ([]Migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}

	var out []Migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		// "001_initial_schema.sql" -> 1
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		content, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, Migration{ID: id, Filename: name, Content: string(content)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func createMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			filename VARCHAR(255) NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	return err
}

func currentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

func runMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.Content); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, filename) VALUES ($1, $2)",
		m.ID, m.Filename,
	); err != nil {
		return fmt.Errorf("record version: %w", err)
	}
	return tx.Commit()
}
