package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"MarketSentinel/internal/model"
)

var log = logrus.WithField("component", "recorder")

// SQLiteRecorder keeps one snapshot row per instrument and as-of date.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
// Missing parent directories are created.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so readers do not block the daily write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			instrument      TEXT NOT NULL,
			as_of_date      TEXT NOT NULL,
			recorded_at     INTEGER NOT NULL,
			close           REAL NOT NULL,
			open            REAL NOT NULL,
			high            REAL NOT NULL,
			low             REAL NOT NULL,
			volume          INTEGER NOT NULL,
			bb_ma           REAL,
			bb_upper        REAL,
			bb_lower        REAL,
			rsi             REAL,
			macd_line       REAL,
			macd_signal     REAL,
			macd_hist       REAL,
			cmf             REAL,
			obv             REAL,
			support_hint    REAL,
			resistance_hint REAL,
			hv_proxy        REAL,
			hv_note         TEXT,
			UNIQUE (instrument, as_of_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_date ON snapshots(as_of_date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Record upserts the snapshot; a rerun on the same day replaces the row.
func (r *SQLiteRecorder) Record(ctx context.Context, snap *model.Snapshot, _ *model.Enriched) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ind := snap.Indicators
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots
		(instrument, as_of_date, recorded_at, close, open, high, low, volume,
		 bb_ma, bb_upper, bb_lower, rsi, macd_line, macd_signal, macd_hist, cmf, obv,
		 support_hint, resistance_hint, hv_proxy, hv_note)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (instrument, as_of_date) DO UPDATE SET
		 recorded_at=excluded.recorded_at, close=excluded.close, open=excluded.open,
		 high=excluded.high, low=excluded.low, volume=excluded.volume,
		 bb_ma=excluded.bb_ma, bb_upper=excluded.bb_upper, bb_lower=excluded.bb_lower,
		 rsi=excluded.rsi, macd_line=excluded.macd_line, macd_signal=excluded.macd_signal,
		 macd_hist=excluded.macd_hist, cmf=excluded.cmf, obv=excluded.obv,
		 support_hint=excluded.support_hint, resistance_hint=excluded.resistance_hint,
		 hv_proxy=excluded.hv_proxy, hv_note=excluded.hv_note`,
		snap.Instrument, snap.AsOfDate, time.Now().Unix(),
		snap.Price.Close, snap.Price.Open, snap.Price.High, snap.Price.Low, snap.Price.Volume,
		ind.Bollinger.MA, ind.Bollinger.Upper, ind.Bollinger.Lower, ind.RSI,
		ind.MACD.Line, ind.MACD.Signal, ind.MACD.Hist, ind.CMF, ind.OBV,
		snap.Levels.SupportHint, snap.Levels.ResistanceHint,
		snap.Volatility.Proxy, snap.Volatility.Note,
	)
	if err != nil {
		return fmt.Errorf("record snapshot %s %s: %w", snap.Instrument, snap.AsOfDate, err)
	}
	return nil
}

// LatestSnapshot reads back the most recent snapshot of instrument.
// It returns sql.ErrNoRows if none was recorded.
func (r *SQLiteRecorder) LatestSnapshot(ctx context.Context, instrument string) (*model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := &model.Snapshot{Instrument: instrument}
	ind := &snap.Indicators
	err := r.db.QueryRowContext(ctx, `SELECT as_of_date, close, open, high, low, volume,
		 bb_ma, bb_upper, bb_lower, rsi, macd_line, macd_signal, macd_hist, cmf, obv,
		 support_hint, resistance_hint, hv_proxy, hv_note
		FROM snapshots WHERE instrument = ? ORDER BY as_of_date DESC LIMIT 1`, instrument).Scan(
		&snap.AsOfDate, &snap.Price.Close, &snap.Price.Open, &snap.Price.High, &snap.Price.Low, &snap.Price.Volume,
		&ind.Bollinger.MA, &ind.Bollinger.Upper, &ind.Bollinger.Lower, &ind.RSI,
		&ind.MACD.Line, &ind.MACD.Signal, &ind.MACD.Hist, &ind.CMF, &ind.OBV,
		&snap.Levels.SupportHint, &snap.Levels.ResistanceHint,
		&snap.Volatility.Proxy, &snap.Volatility.Note,
	)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
