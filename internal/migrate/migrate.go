// Package migrate applies the embedded schema migrations for the local
// report cache.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Run brings the report cache schema up to date. Migration files are named
// <version>_<description>.sql and applied in version order; applied versions
// are tracked in schema_migrations. Each file runs as one statement batch,
// so the DSN needs multiStatements=true.
func Run(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("report cache unreachable: %w", err)
	}

	if err := ensureVersionTable(ctx, db); err != nil {
		return err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	files, err := fs.Glob(migrationsFS, "sql/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	pending := 0
	for _, f := range files {
		name := filepath.Base(f)
		ver, err := versionOf(name)
		if err != nil {
			return fmt.Errorf("bad migration filename %q: %w", name, err)
		}
		if applied[ver] {
			continue
		}
		if err := apply(ctx, db, log, f, ver); err != nil {
			return err
		}
		pending++
	}
	if pending == 0 {
		log.Debug("report cache schema up to date")
	}
	return nil
}

func apply(ctx context.Context, db *sql.DB, log *slog.Logger, file string, version int) error {
	ddl, err := fs.ReadFile(migrationsFS, file)
	if err != nil {
		return err
	}
	start := time.Now()
	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("migration %s failed: %w", filepath.Base(file), err)
	}
	if err := markApplied(ctx, db, version); err != nil {
		return err
	}
	log.Info("applied cache migration",
		slog.Int("version", version),
		slog.String("file", filepath.Base(file)),
		slog.Duration("dur", time.Since(start)),
	)
	return nil
}

func ensureVersionTable(ctx context.Context, db *sql.DB) error {
	const ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		applied_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB;`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	versions := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions[v] = true
	}
	return versions, rows.Err()
}

func markApplied(ctx context.Context, db *sql.DB, version int) error {
	_, err := db.ExecContext(ctx, "INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)", version, time.Now().UTC())
	return err
}

// versionOf extracts the numeric prefix of a migration filename.
func versionOf(name string) (int, error) {
	i := strings.IndexByte(name, '_')
	if i <= 0 {
		return 0, fmt.Errorf("missing version prefix")
	}
	return strconv.Atoi(name[:i])
}
