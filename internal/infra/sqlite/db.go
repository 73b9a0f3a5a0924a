// Package sqlite is the entity store for GridMesh. Every marketplace
// operation is a single atomic transaction against this store: it reads a
// bounded set of records, validates preconditions, and commits all writes
// or none. WAL mode plus a single-writer pool serializes concurrent
// transactions touching the same record.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Network aggregate — singleton row, id pinned to 1
		`CREATE TABLE IF NOT EXISTS network_state (
			id                       INTEGER PRIMARY KEY CHECK (id = 1),
			authority                TEXT NOT NULL,
			total_devices            INTEGER NOT NULL DEFAULT 0,
			total_tasks_completed    INTEGER NOT NULL DEFAULT 0,
			total_tokens_distributed INTEGER NOT NULL DEFAULT 0,
			network_utilization      INTEGER NOT NULL DEFAULT 0,
			created_at               INTEGER NOT NULL
		)`,

		// Registered devices — keyed by caller-chosen device identifier
		`CREATE TABLE IF NOT EXISTS devices (
			device_id             TEXT PRIMARY KEY,
			owner                 TEXT NOT NULL,
			cpu_cores             INTEGER NOT NULL,
			ram_gb                INTEGER NOT NULL,
			storage_gb            INTEGER NOT NULL,
			gpu_available         BOOLEAN NOT NULL DEFAULT 0,
			network_speed         INTEGER NOT NULL DEFAULT 0,
			is_active             BOOLEAN NOT NULL DEFAULT 1,
			current_load          INTEGER NOT NULL DEFAULT 0,
			reputation            INTEGER NOT NULL,
			total_tasks_completed INTEGER NOT NULL DEFAULT 0,
			total_tokens_earned   INTEGER NOT NULL DEFAULT 0,
			last_active           INTEGER NOT NULL,
			tier                  TEXT NOT NULL,
			staked_amount         INTEGER NOT NULL DEFAULT 0,
			stake_timestamp       INTEGER,
			total_verifications   INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_devices_owner ON devices(owner)`,
		`CREATE INDEX IF NOT EXISTS idx_devices_active ON devices(is_active)`,

		// Submitted tasks — keyed by caller-chosen task identifier
		`CREATE TABLE IF NOT EXISTS tasks (
			task_id             TEXT PRIMARY KEY,
			submitter           TEXT NOT NULL,
			task_type           TEXT NOT NULL,
			cpu_cores_required  INTEGER NOT NULL,
			ram_gb_required     INTEGER NOT NULL,
			storage_gb_required INTEGER NOT NULL,
			gpu_required        BOOLEAN NOT NULL DEFAULT 0,
			estimated_duration  INTEGER NOT NULL,
			reward_amount       INTEGER NOT NULL,
			status              TEXT NOT NULL,
			assigned_device     TEXT,
			result_hash         TEXT,
			created_at          INTEGER NOT NULL,
			assigned_at         INTEGER,
			completed_at        INTEGER,
			expires_at          INTEGER,
			verifications       INTEGER NOT NULL DEFAULT 0,
			valid_verifications INTEGER NOT NULL DEFAULT 0,
			is_verified         BOOLEAN NOT NULL DEFAULT 0,
			finalized           BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_device ON tasks(assigned_device)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_expires ON tasks(expires_at)`,

		// Token custody ledger — double-entry bookkeeping
		`CREATE TABLE IF NOT EXISTS token_ledger (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			type        TEXT NOT NULL,
			entry_type  TEXT NOT NULL,
			account     TEXT NOT NULL,
			amount      INTEGER NOT NULL,
			ref_id      TEXT,
			description TEXT,
			balance     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_ts ON token_ledger(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_account ON token_ledger(account)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Transactions ───────────────────────────────────────────────────────────

// Tx is a transaction-scoped view of the entity store. All accessors on Tx
// see uncommitted writes made earlier in the same transaction.
type Tx struct {
	tx *sql.Tx
}

// Update runs fn inside a write transaction. The transaction commits iff fn
// returns nil; any error rolls back every write, so a precondition failure
// leaves no partial state behind.
func (d *DB) Update(fn func(tx *Tx) error) error {
	sqlTx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// View runs fn inside a read-only transaction.
func (d *DB) View(fn func(tx *Tx) error) error {
	sqlTx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	return fn(&Tx{tx: sqlTx})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
