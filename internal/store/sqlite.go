package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fincast-dev/fincast/internal/model"
)

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) and migrates the database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const (
	insertSnapshot = `INSERT INTO snapshots
		(scenario, idx, month, balances, undistributed, net_worth, liquid, income, tax, spending, interest_cost, net_cashflow)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	selectSnapshots = `SELECT scenario, idx, month, balances, undistributed, net_worth, liquid, income, tax, spending, interest_cost, net_cashflow
		FROM snapshots`
)

func (s *SQLite) Put(ctx context.Context, name string, snaps []model.Snapshot) (err error) {
	if err := checkName(name); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM snapshots WHERE scenario = ?`, name); err != nil {
		return fmt.Errorf("clear snapshots of %q: %w", name, err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO scenarios (name, months, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET months = excluded.months, updated_at = excluded.updated_at`,
		name, len(snaps), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upsert scenario %q: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSnapshot)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, snap := range snaps {
		balances, mErr := json.Marshal(snap.Balances)
		if mErr != nil {
			return fmt.Errorf("encoding balances for %s: %w", snap.Month, mErr)
		}
		if _, err = stmt.ExecContext(ctx, name, snap.Index, snap.Month, string(balances),
			snap.Undistributed, snap.NetWorth, snap.Liquid, snap.Income, snap.Tax,
			snap.Spending, snap.InterestCost, snap.NetCashflow); err != nil {
			return fmt.Errorf("insert snapshot %s of %q: %w", snap.Month, name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit scenario %q: %w", name, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, name string) ([]model.Snapshot, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scenarios WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("look up scenario %q: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	byName, err := s.query(ctx, selectSnapshots+` WHERE scenario = ? ORDER BY idx`, name)
	if err != nil {
		return nil, err
	}
	snaps := byName[name]
	if snaps == nil {
		snaps = []model.Snapshot{}
	}
	return snaps, nil
}

func (s *SQLite) All(ctx context.Context) (map[string][]model.Snapshot, error) {
	byName, err := s.query(ctx, selectSnapshots+` ORDER BY scenario, idx`)
	if err != nil {
		return nil, err
	}
	names, err := s.Names(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if _, ok := byName[name]; !ok {
			byName[name] = []model.Snapshot{}
		}
	}
	return byName, nil
}

func (s *SQLite) query(ctx context.Context, query string, args ...any) (map[string][]model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.Snapshot)
	for rows.Next() {
		var (
			scenario string
			balances string
			snap     model.Snapshot
		)
		if err := rows.Scan(&scenario, &snap.Index, &snap.Month, &balances,
			&snap.Undistributed, &snap.NetWorth, &snap.Liquid, &snap.Income, &snap.Tax,
			&snap.Spending, &snap.InterestCost, &snap.NetCashflow); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(balances), &snap.Balances); err != nil {
			return nil, fmt.Errorf("decoding balances for %s %s: %w", scenario, snap.Month, err)
		}
		out[scenario] = append(out[scenario], snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

func (s *SQLite) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM scenarios ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan scenario name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, name string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM scenarios WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete scenario %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM snapshots WHERE scenario = ?`, name); err != nil {
		return fmt.Errorf("delete snapshots of %q: %w", name, err)
	}
	return tx.Commit()
}

func (s *SQLite) Clear(ctx context.Context) error {
	for _, table := range []string{"snapshots", "scenarios"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
