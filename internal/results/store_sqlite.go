// internal/results/store_sqlite.go
package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/xkilldash9x/phosim/internal/sweep"

	_ "modernc.org/sqlite"
)

// Store persists scenario and AUC tables to an embedded SQLite database and
// loads them back. One run maps to one row in runs plus its dependent
// roc_points and auc_values rows.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewStore creates a store for the given database path. Init must be called
// before any other method.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init opens the database and creates the schema if needed.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			run_id     TEXT PRIMARY KEY,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE IF NOT EXISTS roc_points (
			run_id      TEXT NOT NULL,
			n           INTEGER NOT NULL,
			k           INTEGER NOT NULL,
			noise_idx   INTEGER NOT NULL,
			pnp         REAL NOT NULL,
			ppp         REAL NOT NULL,
			fpr         REAL,
			tpr         REAL,
			PRIMARY KEY (run_id, n, k, noise_idx)
		);
		CREATE TABLE IF NOT EXISTS auc_values (
			run_id TEXT NOT NULL,
			n      INTEGER NOT NULL,
			k      INTEGER NOT NULL,
			auc    REAL NOT NULL,
			PRIMARY KEY (run_id, n, k)
		);
	`)
	return err
}

// SaveRun persists one run's scenario and AUC tables in a single
// transaction. Undefined rates are stored as NULL.
func (s *Store) SaveRun(ctx context.Context, runID string, st ScenarioTable, at AUCTable) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id) VALUES (?)`, runID); err != nil {
		return err
	}

	for _, key := range st.SortedKeys() {
		for i, p := range st[key] {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO roc_points
					(run_id, n, k, noise_idx, pnp, ppp, fpr, tpr)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, runID, key.N, key.K, i, p.PNP, p.PPP, rateValue(p.FPR), rateValue(p.TPR)); err != nil {
				return fmt.Errorf("persist roc point %s[%d]: %w", key, i, err)
			}
		}
	}

	for _, key := range at.SortedKeys() {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO auc_values (run_id, n, k, auc) VALUES (?, ?, ?, ?)
		`, runID, key.N, key.K, at[key]); err != nil {
			return fmt.Errorf("persist auc %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// LoadAUCTable reads back the AUC table for a run.
func (s *Store) LoadAUCTable(ctx context.Context, runID string) (AUCTable, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT n, k, auc FROM auc_values WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := make(AUCTable)
	for rows.Next() {
		var key sweep.Key
		var auc float64
		if err := rows.Scan(&key.N, &key.K, &auc); err != nil {
			return nil, err
		}
		table[key] = auc
	}
	return table, rows.Err()
}

// LoadScenarioTable reads back the scenario table for a run, reconstructing
// undefined rates from NULL columns.
func (s *Store) LoadScenarioTable(ctx context.Context, runID string) (ScenarioTable, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT n, k, pnp, ppp, fpr, tpr
		FROM roc_points WHERE run_id = ?
		ORDER BY n, k, noise_idx
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := make(ScenarioTable)
	for rows.Next() {
		var key sweep.Key
		var point sweep.ScenarioPoint
		var fpr, tpr sql.NullFloat64
		if err := rows.Scan(&key.N, &key.K, &point.PNP, &point.PPP, &fpr, &tpr); err != nil {
			return nil, err
		}
		if fpr.Valid {
			point.FPR = sweep.DefinedRate(fpr.Float64)
		}
		if tpr.Valid {
			point.TPR = sweep.DefinedRate(tpr.Float64)
		}
		table[key] = append(table[key], point)
	}
	return table, rows.Err()
}

func rateValue(r sweep.Rate) any {
	if !r.Defined {
		return nil
	}
	return r.Value
}
