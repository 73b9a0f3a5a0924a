// Package staking moves tokens in and out of stake custody and keeps each
// device's tier in sync with its staked balance.
package staking

import (
	"fmt"
	"math"
	"time"

	"github.com/gridmesh-network/gridmesh/internal/app/escrow"
	"github.com/gridmesh-network/gridmesh/internal/domain"
	"github.com/gridmesh-network/gridmesh/internal/infra/metrics"
	"github.com/gridmesh-network/gridmesh/internal/infra/sqlite"
)

// LockPeriod is how long a stake deposit locks the whole staked balance.
// Every deposit restarts the clock; withdrawals do not.
const LockPeriod = 7 * 24 * time.Hour

// Engine performs stake deposits and withdrawals.
type Engine struct {
	db *sqlite.DB

	// Injectable clock
	now func() time.Time
}

// NewEngine creates a staking engine.
func NewEngine(db *sqlite.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// Stake moves tokens from the owner's account into stake custody, adds them
// to the device's staked balance, restarts the lock clock, and recomputes
// the tier. The caller identity must match the device's owner.
func (e *Engine) Stake(deviceID, owner string, amount uint64) (*domain.Device, error) {
	now := e.now()
	var updated domain.Device

	err := e.db.Update(func(tx *sqlite.Tx) error {
		dev, err := tx.GetDevice(deviceID)
		if err != nil {
			return err
		}
		if dev == nil {
			return domain.ErrDeviceNotFound
		}
		if dev.Owner != owner {
			return domain.ErrNotDeviceOwner
		}
		if dev.StakedAmount > math.MaxUint64-amount {
			return domain.ErrMathOverflow
		}

		err = escrow.Move(tx, domain.TxStake, owner, domain.AccountStakePool,
			amount, deviceID, fmt.Sprintf("stake deposit for device %s", deviceID), now)
		if err != nil {
			return err
		}

		dev.StakedAmount += amount
		dev.StakeTimestamp = now
		dev.Tier = domain.TierForStake(dev.StakedAmount)

		updated = *dev
		return tx.UpdateDevice(*dev)
	})
	if err != nil {
		return nil, err
	}

	metrics.TokensStaked.Add(float64(amount))
	return &updated, nil
}

// Unstake returns tokens from stake custody to the owner once the lock has
// elapsed, and recomputes the tier. A withdrawal at exactly the lock
// boundary succeeds. Partial withdrawals leave the lock clock untouched.
func (e *Engine) Unstake(deviceID, owner string, amount uint64) (*domain.Device, error) {
	now := e.now()
	var updated domain.Device

	err := e.db.Update(func(tx *sqlite.Tx) error {
		dev, err := tx.GetDevice(deviceID)
		if err != nil {
			return err
		}
		if dev == nil {
			return domain.ErrDeviceNotFound
		}
		if dev.Owner != owner {
			return domain.ErrNotDeviceOwner
		}
		if amount > dev.StakedAmount {
			return domain.ErrInsufficientStake
		}
		if now.Sub(dev.StakeTimestamp) < LockPeriod {
			return domain.ErrStakingPeriodNotMet
		}

		err = escrow.Move(tx, domain.TxUnstake, domain.AccountStakePool, owner,
			amount, deviceID, fmt.Sprintf("stake withdrawal for device %s", deviceID), now)
		if err != nil {
			return err
		}

		dev.StakedAmount -= amount
		dev.Tier = domain.TierForStake(dev.StakedAmount)

		updated = *dev
		return tx.UpdateDevice(*dev)
	})
	if err != nil {
		return nil, err
	}

	metrics.TokensUnstaked.Add(float64(amount))
	return &updated, nil
}
