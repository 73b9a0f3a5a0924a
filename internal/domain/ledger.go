package domain

import "time"

// TxType classifies a token movement.
type TxType string

const (
	TxStake   TxType = "STAKE"
	TxUnstake TxType = "UNSTAKE"
	TxEscrow  TxType = "ESCROW" // Reward bounty locked at submission
	TxReward  TxType = "REWARD" // Adjusted reward paid at completion
)

// EntryType marks one side of a double-entry pair.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// Custody accounts. Owner accounts use the owner identity directly.
const (
	AccountStakePool  = "stake_pool"
	AccountRewardPool = "reward_pool"
)

// LedgerEntry is one half of a double-entry token movement. Every movement
// writes a matched DEBIT/CREDIT pair; SUM(debits) == SUM(credits) holds.
type LedgerEntry struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        TxType    `json:"type"`
	EntryType   EntryType `json:"entry_type"`
	Account     string    `json:"account"`
	Amount      int64     `json:"amount"`
	RefID       string    `json:"ref_id,omitempty"` // Task or device the movement belongs to
	Description string    `json:"description,omitempty"`
	Balance     int64     `json:"balance"` // Running balance after this entry
}
