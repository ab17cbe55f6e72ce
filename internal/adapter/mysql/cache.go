package mysql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"harvestql/internal/domain"
)

// Client is a local report cache backed by MySQL. It implements
// ports.EntrySink for writes and ports.EntryFetcher for cached reads, so
// reports can be evaluated offline against previously synced entries.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	// Conservative pool defaults; can be adjusted via env later.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, log: log}, nil
}

// SyncEntries upserts entries into the cache table.
func (c *Client) SyncEntries(ctx context.Context, entries []domain.TimeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	// Use ON DUPLICATE KEY UPDATE to perform upserts.
	const q = `
INSERT INTO harvest_time_entries
  (id, spent_date, hours, project_id, project_name, task_id, task_name, notes, running)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  spent_date=VALUES(spent_date),
  hours=VALUES(hours),
  project_id=VALUES(project_id),
  project_name=VALUES(project_name),
  task_id=VALUES(task_id),
  task_name=VALUES(task_name),
  notes=VALUES(notes),
  running=VALUES(running);
`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(
			ctx,
			e.ID,
			e.SpentDate.String(),
			e.Hours,
			e.Project.ID,
			e.Project.Name,
			e.Task.ID,
			e.Task.Name,
			e.Notes,
			e.Running,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info("mysql cache upserted entries", slog.Int("count", len(entries)))
	return nil
}

// ListTimeEntries reads cached entries with spent_date in [from, to],
// ordered by spent_date then id so repeated reads render identically.
func (c *Client) ListTimeEntries(ctx context.Context, from, to domain.Date) ([]domain.TimeEntry, error) {
	const q = `
SELECT id, spent_date, hours, project_id, project_name, task_id, task_name, notes, running
FROM harvest_time_entries
WHERE spent_date BETWEEN ? AND ?
ORDER BY spent_date, id;
`
	rows, err := c.db.QueryContext(ctx, q, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TimeEntry
	for rows.Next() {
		var (
			e     domain.TimeEntry
			spent time.Time
		)
		if err := rows.Scan(
			&e.ID,
			&spent,
			&e.Hours,
			&e.Project.ID,
			&e.Project.Name,
			&e.Task.ID,
			&e.Task.Name,
			&e.Notes,
			&e.Running,
		); err != nil {
			return nil, err
		}
		e.SpentDate = domain.DateOf(spent)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying DB. Not wired via interface to keep ports minimal.
func (c *Client) Close() error { return c.db.Close() }
