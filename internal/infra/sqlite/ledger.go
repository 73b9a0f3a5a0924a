package sqlite

import (
	"database/sql"
	"time"

	"github.com/gridmesh-network/gridmesh/internal/domain"
)

// ─── Token Ledger ───────────────────────────────────────────────────────────

// InsertLedgerEntry adds one half of a double-entry token movement.
func (t *Tx) InsertLedgerEntry(entry domain.LedgerEntry) (int64, error) {
	result, err := t.tx.Exec(
		`INSERT INTO token_ledger (timestamp, type, entry_type, account, amount, ref_id, description, balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.Unix(), string(entry.Type), string(entry.EntryType),
		entry.Account, entry.Amount, nullStr(entry.RefID),
		nullStr(entry.Description), entry.Balance,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AccountBalance returns the running balance for an account within the
// transaction (0 for an account with no entries yet).
func (t *Tx) AccountBalance(account string) (int64, error) {
	var balance sql.NullInt64
	err := t.tx.QueryRow(
		`SELECT balance FROM token_ledger WHERE account = ? ORDER BY id DESC LIMIT 1`,
		account,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance.Int64, nil
}

// Balance returns the current balance for an account.
func (d *DB) Balance(account string) (int64, error) {
	var bal int64
	err := d.View(func(tx *Tx) error {
		var err error
		bal, err = tx.AccountBalance(account)
		return err
	})
	return bal, err
}

// LedgerEntries returns recent ledger entries for an account, newest first.
func (d *DB) LedgerEntries(account string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := d.db.Query(
		`SELECT id, timestamp, type, entry_type, account, amount, ref_id, description, balance
		 FROM token_ledger WHERE account = ? ORDER BY id DESC LIMIT ?`,
		account, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var ts int64
		var refID, desc sql.NullString
		err := rows.Scan(&e.ID, &ts, &e.Type, &e.EntryType, &e.Account,
			&e.Amount, &refID, &desc, &e.Balance)
		if err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(ts, 0)
		if refID.Valid {
			e.RefID = refID.String
		}
		if desc.Valid {
			e.Description = desc.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
