package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"depenses/internal/core"
	"depenses/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is a local ledger backend with the same contract as the
// remote store: full snapshot reads, row appends, whole-row deletes. It is
// used when running without the Sheets system of record, and as the local
// side of the sync pipeline.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Ledger = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReadAll implements store.SnapshotReader. Rows come back in insertion order
// so the tuple-delete tie-break matches the remote store's row order.
func (r *SQLiteRepository) ReadAll(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entry_date, description, amount_cents, payer, payer_share, other_share, periodic
		FROM entries
		ORDER BY rowid_alias ASC`)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		var (
			e        core.Entry
			dateStr  string
			payer    string
			periodic int64
		)
		if err := rows.Scan(&e.ID, &dateStr, &e.Description, &e.Amount.Cents,
			&payer, &e.PayerShare.Cents, &e.OtherShare.Cents, &periodic); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if t, perr := time.Parse(store.DateLayout, dateStr); perr == nil {
			e.Date = core.Date{Time: t}
		}
		e.Payer = core.Participant(payer)
		e.Periodic = periodic != 0
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

// Append implements store.EntryAppender.
func (r *SQLiteRepository) Append(ctx context.Context, e core.Entry) (string, error) {
	periodic := 0
	if e.Periodic {
		periodic = 1
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (id, entry_date, description, amount_cents, payer, payer_share, other_share, periodic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.Format(store.DateLayout), e.Description, e.Amount.Cents,
		string(e.Payer), e.PayerShare.Cents, e.OtherShare.Cents, periodic)
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"row", rowID,
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents)

	return fmt.Sprintf("sqlite:%d", rowID), nil
}

// AppendBatch inserts entries one by one and reports how many made it.
func (r *SQLiteRepository) AppendBatch(ctx context.Context, entries []core.Entry) (int, error) {
	for i, e := range entries {
		if _, err := r.Append(ctx, e); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

// Delete implements store.EntryDeleter: exact row when the request has an ID,
// first matching (description, amount) row otherwise.
func (r *SQLiteRepository) Delete(ctx context.Context, req store.DeleteRequest) error {
	var (
		res sql.Result
		err error
	)
	if req.ID != "" {
		res, err = r.db.ExecContext(ctx, `
			DELETE FROM entries WHERE rowid_alias IN (
				SELECT rowid_alias FROM entries WHERE id = ? ORDER BY rowid_alias ASC LIMIT 1
			)`, req.ID)
	} else {
		res, err = r.db.ExecContext(ctx, `
			DELETE FROM entries WHERE rowid_alias IN (
				SELECT rowid_alias FROM entries
				WHERE description = ? AND amount_cents = ?
				ORDER BY rowid_alias ASC LIMIT 1
			)`, req.Description, req.AmountCents)
	}
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrEntryNotFound
	}
	return nil
}

// GetByID fetches a single entry by its stable identifier. The sync worker
// uses this to materialize AMQP messages into sheet rows.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, entry_date, description, amount_cents, payer, payer_share, other_share, periodic
		FROM entries WHERE id = ? ORDER BY rowid_alias ASC LIMIT 1`, id)

	var (
		e        core.Entry
		dateStr  string
		payer    string
		periodic int64
	)
	err := row.Scan(&e.ID, &dateStr, &e.Description, &e.Amount.Cents,
		&payer, &e.PayerShare.Cents, &e.OtherShare.Cents, &periodic)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, store.ErrEntryNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	if t, perr := time.Parse(store.DateLayout, dateStr); perr == nil {
		e.Date = core.Date{Time: t}
	}
	e.Payer = core.Participant(payer)
	e.Periodic = periodic != 0
	return e, nil
}
