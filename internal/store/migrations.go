package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// migration is one versioned schema change, named NNN_name.sql on disk.
type migration struct {
	version int
	name    string
	sql     string
}

func (m migration) String() string {
	return fmt.Sprintf("%03d_%s", m.version, m.name)
}

// migrator applies the SQL files in src that are not yet recorded in
// schema_migrations, lowest version first.
type migrator struct {
	db  *sql.DB
	src fs.FS
}

func newMigrator(db *sql.DB) *migrator {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err) // the directory is compiled in
	}
	return &migrator{db: db, src: sub}
}

// migrate brings the schema up to date and returns the migrations it applied.
func (m *migrator) migrate(ctx context.Context) ([]migration, error) {
	pending, err := m.pending(ctx)
	if err != nil {
		return nil, err
	}

	applied := make([]migration, 0, len(pending))
	for _, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return applied, err
		}
		applied = append(applied, mig)
	}
	return applied, nil
}

// pending lists the migrations in src whose version is not recorded yet.
func (m *migrator) pending(ctx context.Context) ([]migration, error) {
	if _, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	all, err := readMigrations(m.src)
	if err != nil {
		return nil, err
	}

	done, err := m.versions(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(all, func(mig migration) bool { return done[mig.version] }), nil
}

func (m *migrator) versions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		done[v] = true
	}
	return done, rows.Err()
}

// apply runs mig and records it in one transaction.
func (m *migrator) apply(ctx context.Context, mig migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", mig, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.sql); err != nil {
		return fmt.Errorf("failed to apply migration %s: %w", mig, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, mig.version, mig.name); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", mig, err)
	}
	return tx.Commit()
}

// readMigrations parses every .sql file at the root of src, sorted by version.
func readMigrations(src fs.FS) ([]migration, error) {
	files, err := fs.Glob(src, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	byVersion := make(map[int]string, len(files))
	out := make([]migration, 0, len(files))
	for _, file := range files {
		version, name, err := parseMigrationFilename(file)
		if err != nil {
			return nil, err
		}
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, prev, file)
		}
		byVersion[version] = file

		body, err := fs.ReadFile(src, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		out = append(out, migration{version: version, name: name, sql: string(body)})
	}

	slices.SortFunc(out, func(a, b migration) int { return a.version - b.version })
	return out, nil
}

func parseMigrationFilename(filename string) (int, string, error) {
	versionPart, name, ok := strings.Cut(strings.TrimSuffix(filename, path.Ext(filename)), "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename %q: expected '<version>_<name>.sql'", filename)
	}

	version, err := strconv.Atoi(versionPart)
	if err != nil {
		return 0, "", fmt.Errorf("invalid migration version in %q: %w", filename, err)
	}
	return version, name, nil
}
