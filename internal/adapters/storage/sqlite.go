package storage

// sqlite.go — persistencia del portfolio de paper trading.
//
// Estrategia:
//   - `portfolio`: una única fila con settings (JSON) y next_trade_id.
//   - `trades`: el histórico completo. En cada save se reescribe entero
//     dentro de una transacción: el estado persiste como unidad, nunca
//     parcialmente (un portfolio tiene decenas de trades, no millones).
//   - `cycles`: una fila ligera por ciclo de scan, como histórico de
//     operación. Prune automático al arrancar (> 30 días).

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Flxry/weather-bot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS portfolio (
    id            INTEGER PRIMARY KEY CHECK (id = 1),
    settings      TEXT    NOT NULL,
    next_trade_id INTEGER NOT NULL DEFAULT 1,
    updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
    id           INTEGER PRIMARY KEY,
    opened_at    DATETIME NOT NULL,
    event_title  TEXT,
    city         TEXT NOT NULL,
    target_date  DATETIME,
    bucket_id    TEXT NOT NULL,
    bucket_label TEXT,
    side         TEXT NOT NULL,
    entry_price  REAL NOT NULL,
    shares       REAL NOT NULL,
    cost         REAL NOT NULL,
    model_prob   REAL NOT NULL DEFAULT 0,
    market_price REAL NOT NULL DEFAULT 0,
    edge         REAL NOT NULL DEFAULT 0,
    confidence   TEXT,
    status       TEXT NOT NULL DEFAULT 'OPEN',
    exit_price   REAL NOT NULL DEFAULT 0,
    exit_reason  TEXT,
    exit_at      DATETIME,
    pnl          REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS cycles (
    id             TEXT PRIMARY KEY,
    scanned_at     DATETIME NOT NULL,
    markets        INTEGER  NOT NULL DEFAULT 0,
    active_markets INTEGER  NOT NULL DEFAULT 0,
    signals        INTEGER  NOT NULL DEFAULT 0,
    trades_opened  INTEGER  NOT NULL DEFAULT 0,
    trades_closed  INTEGER  NOT NULL DEFAULT 0,
    duration_ms    INTEGER  NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);
CREATE INDEX IF NOT EXISTS idx_cycles_at     ON cycles(scanned_at DESC);
`

const retentionCycles = 30 * 24 * time.Hour

// SQLiteStorage implementa ports.PortfolioStorage usando SQLite (pure Go,
// sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada, aplica el
// schema y limpia ciclos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// LoadPortfolio carga el estado completo. found=false en el primer arranque.
func (s *SQLiteStorage) LoadPortfolio(ctx context.Context) (domain.Portfolio, bool, error) {
	var settingsJSON string
	var nextID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT settings, next_trade_id FROM portfolio WHERE id = 1`,
	).Scan(&settingsJSON, &nextID)
	if err == sql.ErrNoRows {
		return domain.Portfolio{}, false, nil
	}
	if err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("storage.LoadPortfolio: query portfolio: %w", err)
	}

	pf := domain.Portfolio{NextTradeID: nextID, Settings: domain.DefaultSettings()}
	if err := json.Unmarshal([]byte(settingsJSON), &pf.Settings); err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("storage.LoadPortfolio: parse settings: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, opened_at, event_title, city, target_date, bucket_id, bucket_label,
		       side, entry_price, shares, cost, model_prob, market_price, edge,
		       confidence, status, exit_price, exit_reason, exit_at, pnl
		FROM trades ORDER BY id
	`)
	if err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("storage.LoadPortfolio: query trades: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.Trade
		var targetDate, exitAt sql.NullTime
		var confidence, exitReason sql.NullString
		var side, status string

		if err := rows.Scan(
			&t.ID, &t.OpenedAt, &t.EventTitle, &t.City, &targetDate,
			&t.BucketID, &t.BucketLabel, &side, &t.EntryPrice, &t.Shares,
			&t.Cost, &t.ModelProbAtEntry, &t.MarketPriceAtEntry, &t.EdgeAtEntry,
			&confidence, &status, &t.ExitPrice, &exitReason, &exitAt, &t.PnL,
		); err != nil {
			return domain.Portfolio{}, false, fmt.Errorf("storage.LoadPortfolio: scan trade: %w", err)
		}

		t.Side = domain.Side(side)
		t.Status = domain.TradeStatus(status)
		if targetDate.Valid {
			t.TargetDate = targetDate.Time.UTC()
		}
		if confidence.Valid {
			t.ConfidenceAtEntry = domain.Confidence(confidence.String)
		}
		if exitReason.Valid {
			t.ExitReason = domain.ExitReason(exitReason.String)
		}
		if exitAt.Valid {
			at := exitAt.Time.UTC()
			t.ExitAt = &at
		}
		pf.Trades = append(pf.Trades, t)
	}
	if err := rows.Err(); err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("storage.LoadPortfolio: rows: %w", err)
	}
	return pf, true, nil
}

// SavePortfolio reescribe el estado completo en una transacción.
func (s *SQLiteStorage) SavePortfolio(ctx context.Context, pf domain.Portfolio) error {
	settingsJSON, err := json.Marshal(pf.Settings)
	if err != nil {
		return fmt.Errorf("storage.SavePortfolio: marshal settings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SavePortfolio: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO portfolio (id, settings, next_trade_id, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			settings      = excluded.settings,
			next_trade_id = excluded.next_trade_id,
			updated_at    = excluded.updated_at
	`, string(settingsJSON), pf.NextTradeID, time.Now().UTC()); err != nil {
		return fmt.Errorf("storage.SavePortfolio: upsert portfolio: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return fmt.Errorf("storage.SavePortfolio: clear trades: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
			(id, opened_at, event_title, city, target_date, bucket_id, bucket_label,
			 side, entry_price, shares, cost, model_prob, market_price, edge,
			 confidence, status, exit_price, exit_reason, exit_at, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SavePortfolio: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range pf.Trades {
		var targetDate, exitAt any
		if !t.TargetDate.IsZero() {
			targetDate = t.TargetDate.UTC()
		}
		if t.ExitAt != nil {
			exitAt = t.ExitAt.UTC()
		}

		if _, err := stmt.ExecContext(ctx,
			t.ID, t.OpenedAt.UTC(), t.EventTitle, t.City, targetDate,
			t.BucketID, t.BucketLabel, string(t.Side), t.EntryPrice, t.Shares,
			t.Cost, t.ModelProbAtEntry, t.MarketPriceAtEntry, t.EdgeAtEntry,
			string(t.ConfidenceAtEntry), string(t.Status), t.ExitPrice,
			string(t.ExitReason), exitAt, t.PnL,
		); err != nil {
			return fmt.Errorf("storage.SavePortfolio: insert trade %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SavePortfolio: commit: %w", err)
	}
	return nil
}

// SaveCycle registra el resumen de un ciclo.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, c domain.CycleSummary) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles (id, scanned_at, markets, active_markets, signals, trades_opened, trades_closed, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.ScannedAt.UTC(), c.Markets, c.ActiveMarkets, c.Signals,
		c.TradesOpened, c.TradesClosed, c.Duration.Milliseconds(),
	); err != nil {
		return fmt.Errorf("storage.SaveCycle: insert: %w", err)
	}
	return nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina ciclos antiguos para mantener la DB ligera. Los trades no
// se podan nunca: el histórico es append-only y solo un reset explícito lo
// vacía.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionCycles)
	s.db.ExecContext(ctx, `DELETE FROM cycles WHERE scanned_at < ?`, cutoff)
}
