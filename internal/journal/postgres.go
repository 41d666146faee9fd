package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Schema creates the journal table. Applied by the serve command on
// startup when a database is configured.
const Schema = `
CREATE TABLE IF NOT EXISTS journal_trades (
	id          BIGSERIAL PRIMARY KEY,
	symbol      TEXT NOT NULL,
	side        TEXT NOT NULL,
	qty         DOUBLE PRECISION NOT NULL,
	entry_price DOUBLE PRECISION NOT NULL,
	stop_loss   DOUBLE PRECISION NOT NULL DEFAULT 0,
	exit_price  DOUBLE PRECISION NOT NULL DEFAULT 0,
	notes       TEXT NOT NULL DEFAULT '',
	opened_at   TIMESTAMPTZ NOT NULL,
	closed_at   TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS journal_trades_symbol_idx ON journal_trades (symbol, opened_at DESC);
`

// PostgresStore is the durable Store backed by PostgreSQL.
type PostgresStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPostgresStore connects and applies the schema.
func NewPostgresStore(dsn string, timeout time.Duration) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}

	return &PostgresStore{db: db, timeout: timeout}, nil
}

// Insert adds a validated entry and fills its ID and CreatedAt.
func (s *PostgresStore) Insert(ctx context.Context, trade *Trade) error {
	if err := trade.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if trade.OpenedAt.IsZero() {
		trade.OpenedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO journal_trades (symbol, side, qty, entry_price, stop_loss, exit_price, notes, opened_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		trade.Symbol, trade.Side, trade.Quantity, trade.EntryPrice,
		trade.StopLoss, trade.ExitPrice, trade.Notes, trade.OpenedAt, trade.ClosedAt).
		Scan(&trade.ID, &trade.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("journal: duplicate trade: %w", err)
		}
		return fmt.Errorf("journal: insert trade: %w", err)
	}

	return nil
}

// Close records the exit for an open trade.
func (s *PostgresStore) Close(ctx context.Context, id int64, exitPrice float64, closedAt time.Time) error {
	if exitPrice <= 0 {
		return errExitPrice
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE journal_trades SET exit_price = $1, closed_at = $2 WHERE id = $3`,
		exitPrice, closedAt, id)
	if err != nil {
		return fmt.Errorf("journal: close trade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("journal: close trade: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves one trade by ID.
func (s *PostgresStore) Get(ctx context.Context, id int64) (*Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var trade Trade
	err := s.db.GetContext(ctx, &trade,
		`SELECT * FROM journal_trades WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("journal: get trade: %w", err)
	}
	return &trade, nil
}

// List returns the most recent trades, newest first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]Trade, error) {
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var trades []Trade
	err := s.db.SelectContext(ctx, &trades,
		`SELECT * FROM journal_trades ORDER BY opened_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list trades: %w", err)
	}
	return trades, nil
}

// Delete removes a trade by ID.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM journal_trades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("journal: delete trade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("journal: delete trade: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Shutdown closes the connection pool.
func (s *PostgresStore) Shutdown() error {
	return s.db.Close()
}
