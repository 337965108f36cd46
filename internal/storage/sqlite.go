package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"paybot/internal/core"

	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO
)

var _ Store = (*SQLiteStore)(nil)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and runs
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Registry references from queued_payments are hard references here,
	// unlike the legacy soft ones. The pragma rides the DSN so every pooled
	// connection enforces it, not just whichever one ran a PRAGMA statement.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) AppendPayment(ctx context.Context, rec core.PaymentRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO queued_payments (creator_name, app_name, discord_user, amount, payment_info, note, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.CreatorName, rec.AppName, rec.Submitter, rec.Amount, rec.PaymentInfo, rec.Note, rec.Date.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("payment insert id: %w", err)
	}

	slog.InfoContext(ctx, "Payment saved",
		"id", id,
		"creator", rec.CreatorName,
		"app", rec.AppName,
		"submitter", rec.Submitter,
		"amount", rec.Amount,
		"date", rec.Date.String())

	return id, nil
}

func (s *SQLiteStore) GetPayment(ctx context.Context, id int64) (core.PaymentRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, creator_name, app_name, discord_user, amount, payment_info, note, date
		 FROM queued_payments WHERE id = ?`, id)

	rec, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.PaymentRecord{}, fmt.Errorf("payment %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.PaymentRecord{}, fmt.Errorf("get payment: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) QueryPayments(ctx context.Context, start, end core.Date, userFilter, appFilter string) ([]core.PaymentRecord, error) {
	query := `SELECT id, creator_name, app_name, discord_user, amount, payment_info, note, date
	          FROM queued_payments WHERE date >= ? AND date < ?`
	args := []any{start.String(), end.String()}

	if userFilter != "" {
		query += ` AND instr(lower(discord_user), lower(?)) > 0`
		args = append(args, userFilter)
	}
	if appFilter != "" {
		query += ` AND instr(lower(app_name), lower(?)) > 0`
		args = append(args, appFilter)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var records []core.PaymentRecord
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) EnsureCreator(ctx context.Context, name string) (bool, error) {
	return s.ensureName(ctx, "creator_names", "creator_name", name)
}

func (s *SQLiteStore) EnsureApp(ctx context.Context, name string) (bool, error) {
	return s.ensureName(ctx, "app_names", "app_name", name)
}

func (s *SQLiteStore) ensureName(ctx context.Context, table, column, name string) (bool, error) {
	if name == "" {
		return false, core.ErrEmptyName
	}
	// INSERT OR IGNORE swallows the uniqueness conflict, so two concurrent
	// ensures of the same name never surface an error.
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (?)", table, column), name)
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", table, err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListCreators(ctx context.Context) ([]string, error) {
	return s.listNames(ctx, "SELECT creator_name FROM creator_names ORDER BY creator_name ASC")
}

func (s *SQLiteStore) ListApps(ctx context.Context) ([]string, error) {
	return s.listNames(ctx, "SELECT app_name FROM app_names ORDER BY app_name ASC")
}

func (s *SQLiteStore) listNames(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return names, nil
}

func (s *SQLiteStore) ListUnmirrored(ctx context.Context, limit int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM queued_payments WHERE mirrored = 0 ORDER BY id ASC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list unmirrored: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unmirrored id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unmirrored: %w", err)
	}
	return ids, nil
}

func (s *SQLiteStore) MarkMirrored(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE queued_payments SET mirrored = 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark mirrored: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (core.PaymentRecord, error) {
	var rec core.PaymentRecord
	var date string
	err := row.Scan(&rec.ID, &rec.CreatorName, &rec.AppName, &rec.Submitter,
		&rec.Amount, &rec.PaymentInfo, &rec.Note, &date)
	if err != nil {
		return core.PaymentRecord{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.PaymentRecord{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	rec.Date = d
	return rec, nil
}
