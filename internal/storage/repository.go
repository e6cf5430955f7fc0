package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"spesedesk/internal/core"
	"spesedesk/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the record snapshot in a SQLite database file.
type SQLiteRepository struct {
	db     *sql.DB
	path   string
	schema uint
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath == "" {
		return nil, &core.ConfigurationError{Setting: "sqlite path", Message: "must not be blank"}
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, &core.ConfigurationError{Setting: "sqlite path", Message: err.Error()}
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", abs)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(abs)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: abs, schema: version}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Path returns the database file location.
func (r *SQLiteRepository) Path() string {
	return r.path
}

// Exists reports whether the database file is present.
func (r *SQLiteRepository) Exists() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// SchemaVersion returns the migration version applied at open.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.schema
}

// Load returns all records in their saved order.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount, date FROM records ORDER BY position`)
	if err != nil {
		return nil, r.fail("load", fmt.Errorf("query records: %w", err))
	}
	defer rows.Close()

	records := []core.Record{}
	for rows.Next() {
		var id, desc, amount, date string
		if err := rows.Scan(&id, &desc, &amount, &date); err != nil {
			return nil, r.fail("load", fmt.Errorf("scan record: %w", err))
		}
		rec := core.Record{ID: id, Description: desc}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, r.fail("load", fmt.Errorf("record %s amount %q: %w", id, amount, err))
		}
		if date != "" {
			if rec.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
				return nil, r.fail("load", fmt.Errorf("record %s date %q: %w", id, date, err))
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail("load", fmt.Errorf("iterate records: %w", err))
	}
	return records, nil
}

// Save replaces the stored snapshot with records in a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.fail("save", fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return r.fail("save", fmt.Errorf("clear records: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (id, position, description, amount, date) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return r.fail("save", fmt.Errorf("prepare insert: %w", err))
	}
	defer stmt.Close()

	for i, rec := range records {
		date := ""
		if !rec.Date.IsZero() {
			date = rec.Date.Format(time.RFC3339Nano)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, i, rec.Description, rec.Amount.String(), date); err != nil {
			return r.fail("save", fmt.Errorf("insert record %s: %w", rec.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return r.fail("save", fmt.Errorf("commit: %w", err))
	}

	slog.DebugContext(ctx, "Records saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldCount, len(records),
		log.FieldPath, r.path)
	return nil
}

func (r *SQLiteRepository) fail(op string, err error) error {
	return &core.PersistenceError{Op: op, Path: r.path, Err: err}
}
