// Package escrow implements the double-entry token custody ledger.
// Every token movement creates matched DEBIT/CREDIT entries, so
// SUM(debits) == SUM(credits) is an invariant. Stakes live in the
// stake_pool account, reward bounties in reward_pool; owner accounts are
// keyed by the opaque owner identity.
package escrow

import (
	"fmt"
	"math"
	"time"

	"github.com/gridmesh-network/gridmesh/internal/domain"
	"github.com/gridmesh-network/gridmesh/internal/infra/sqlite"
)

// Ledger exposes custody balances and movement history.
type Ledger struct {
	db *sqlite.DB
}

// NewLedger creates a ledger view over the entity store.
func NewLedger(db *sqlite.DB) *Ledger {
	return &Ledger{db: db}
}

// Balance returns the current balance of an account.
func (l *Ledger) Balance(account string) (int64, error) {
	return l.db.Balance(account)
}

// History returns recent ledger entries for an account.
func (l *Ledger) History(account string, limit int) ([]domain.LedgerEntry, error) {
	return l.db.LedgerEntries(account, limit)
}

// Move records a token movement from one account to another inside the
// caller's transaction, writing the matched DEBIT/CREDIT pair. The movement
// commits or rolls back together with the state transition that caused it.
func Move(tx *sqlite.Tx, typ domain.TxType, from, to string, amount uint64, refID, reason string, now time.Time) error {
	if amount > math.MaxInt64 {
		return domain.ErrMathOverflow
	}
	amt := int64(amount)

	fromBal, err := tx.AccountBalance(from)
	if err != nil {
		return fmt.Errorf("get %s balance: %w", from, err)
	}
	toBal, err := tx.AccountBalance(to)
	if err != nil {
		return fmt.Errorf("get %s balance: %w", to, err)
	}

	// DEBIT the source
	_, err = tx.InsertLedgerEntry(domain.LedgerEntry{
		Timestamp:   now,
		Type:        typ,
		EntryType:   domain.EntryDebit,
		Account:     from,
		Amount:      amt,
		RefID:       refID,
		Description: reason,
		Balance:     fromBal - amt,
	})
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}

	// CREDIT the destination
	_, err = tx.InsertLedgerEntry(domain.LedgerEntry{
		Timestamp:   now,
		Type:        typ,
		EntryType:   domain.EntryCredit,
		Account:     to,
		Amount:      amt,
		RefID:       refID,
		Description: reason,
		Balance:     toBal + amt,
	})
	if err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}
	return nil
}
