package staking

import (
	"testing"
	"time"

	"github.com/gridmesh-network/gridmesh/internal/domain"
	"github.com/gridmesh-network/gridmesh/internal/infra/sqlite"
)

var t0 = time.Unix(1_700_000_000, 0)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestEngine(t *testing.T, db *sqlite.DB, now time.Time) *Engine {
	t.Helper()
	e := NewEngine(db)
	e.now = func() time.Time { return now }
	return e
}

func seedDevice(t *testing.T, db *sqlite.DB, id, owner string) {
	t.Helper()
	err := db.Update(func(tx *sqlite.Tx) error {
		return tx.InsertDevice(domain.Device{
			ID:              id,
			Owner:           owner,
			IsActive:        true,
			ReputationScore: domain.InitialReputation,
			LastActive:      t0,
			Tier:            domain.TierBronze,
		})
	})
	if err != nil {
		t.Fatalf("seed device: %v", err)
	}
}

func TestStakeRaisesTier(t *testing.T) {
	db := newTestDB(t)
	seedDevice(t, db, "dev-1", "alice")
	e := newTestEngine(t, db, t0)

	dev, err := e.Stake("dev-1", "alice", 1_500)
	if err != nil {
		t.Fatalf("Stake() error: %v", err)
	}
	if dev.StakedAmount != 1_500 {
		t.Errorf("StakedAmount = %d, want 1500", dev.StakedAmount)
	}
	if dev.Tier != domain.TierSilver {
		t.Errorf("Tier = %s, want SILVER", dev.Tier)
	}
	if !dev.StakeTimestamp.Equal(t0) {
		t.Errorf("StakeTimestamp = %v, want %v", dev.StakeTimestamp, t0)
	}
}

func TestStakeMovesTokensToCustody(t *testing.T) {
	db := newTestDB(t)
	seedDevice(t, db, "dev-1", "alice")
	e := newTestEngine(t, db, t0)

	if _, err := e.Stake("dev-1", "alice", 500); err != nil {
		t.Fatalf("Stake() error: %v", err)
	}

	bal, _ := db.Balance(domain.AccountStakePool)
	if bal != 500 {
		t.Errorf("stake_pool balance = %d, want 500", bal)
	}
	bal, _ = db.Balance("alice")
	if bal != -500 {
		t.Errorf("alice balance = %d, want -500", bal)
	}
}

func TestStakeRestartsLockClock(t *testing.T) {
	db := newTestDB(t)
	seedDevice(t, db, "dev-1", "alice")

	e := newTestEngine(t, db, t0)
	if _, err := e.Stake("dev-1", "alice", 100); err != nil {
		t.Fatalf("Stake() error: %v", err)
	}

	later := t0.Add(5 * 24 * time.Hour)
	e2 := newTestEngine(t, db, later)
	dev, err := e2.Stake("dev-1", "alice", 100)
	if err != nil {
		t.Fatalf("second Stake() error: %v", err)
	}
	if !dev.StakeTimestamp.Equal(later) {
		t.Errorf("StakeTimestamp = %v, want %v (restarted)", dev.StakeTimestamp, later)
	}
}

func TestStakeWrongOwner(t *testing.T) {
	db := newTestDB(t)
	seedDevice(t, db, "dev-1", "alice")
	e := newTestEngine(t, db, t0)

	if _, err := e.Stake("dev-1", "mallory", 100); err != domain.ErrNotDeviceOwner {
		t.Errorf("err = %v, want ErrNotDeviceOwner", err)
	}
}

func TestUnstakeBeforeLockExpires(t *testing.T) {
	db := newTestDB(t)
	seedDevice(t, db, "dev-1", "alice")

	if _, err := newTestEngine(t, db, t0).Stake("dev-1", "alice", 1_500); err != nil {
		t.Fatalf("Stake() error: %v", err)
	}

	e := newTestEngine(t, db, t0.Add(3*24*time.Hour))
	if _, err := e.Unstake("dev-1", "alice", 500); err != domain.ErrStakingPeriodNotMet {
		t.Errorf("err = %v, want ErrStakingPeriodNotMet", err)
	}
}

func TestUnstakeAtExactLockBoundary(t *testing.T) {
	db := newTestDB(t)
	seedDevice(t, db, "dev-1", "alice")

	if _, err := newTestEngine(t, db, t0).Stake("dev-1", "alice", 1_500); err != nil {
		t.Fatalf("Stake() error: %v", err)
	}

	// Elapsed == lock period succeeds.
	e := newTestEngine(t, db, t0.Add(LockPeriod))
	dev, err := e.Unstake("dev-1", "alice", 1_000)
	if err != nil {
		t.Fatalf("Unstake() error: %v", err)
	}
	if dev.StakedAmount != 500 {
		t.Errorf("StakedAmount = %d, want 500", dev.StakedAmount)
	}
	if dev.Tier != domain.TierBronze {
		t.Errorf("Tier = %s, want BRONZE (recomputed down)", dev.Tier)
	}
}

func TestUnstakeDoesNotResetLock(t *testing.T) {
	db := newTestDB(t)
	seedDevice(t, db, "dev-1", "alice")

	if _, err := newTestEngine(t, db, t0).Stake("dev-1", "alice", 2_000); err != nil {
		t.Fatalf("Stake() error: %v", err)
	}

	after := t0.Add(LockPeriod)
	e := newTestEngine(t, db, after)
	dev, err := e.Unstake("dev-1", "alice", 500)
	if err != nil {
		t.Fatalf("first Unstake() error: %v", err)
	}
	if !dev.StakeTimestamp.Equal(t0) {
		t.Errorf("StakeTimestamp = %v, want %v (untouched)", dev.StakeTimestamp, t0)
	}

	// A second withdrawal right after still succeeds against the old clock.
	if _, err := e.Unstake("dev-1", "alice", 500); err != nil {
		t.Errorf("second Unstake() error: %v", err)
	}
}

func TestUnstakeMoreThanStaked(t *testing.T) {
	db := newTestDB(t)
	seedDevice(t, db, "dev-1", "alice")

	if _, err := newTestEngine(t, db, t0).Stake("dev-1", "alice", 100); err != nil {
		t.Fatalf("Stake() error: %v", err)
	}

	e := newTestEngine(t, db, t0.Add(LockPeriod))
	if _, err := e.Unstake("dev-1", "alice", 200); err != domain.ErrInsufficientStake {
		t.Errorf("err = %v, want ErrInsufficientStake", err)
	}
}

func TestUnstakeReturnsTokens(t *testing.T) {
	db := newTestDB(t)
	seedDevice(t, db, "dev-1", "alice")

	if _, err := newTestEngine(t, db, t0).Stake("dev-1", "alice", 300); err != nil {
		t.Fatalf("Stake() error: %v", err)
	}
	if _, err := newTestEngine(t, db, t0.Add(LockPeriod)).Unstake("dev-1", "alice", 300); err != nil {
		t.Fatalf("Unstake() error: %v", err)
	}

	if bal, _ := db.Balance("alice"); bal != 0 {
		t.Errorf("alice balance = %d, want 0", bal)
	}
	if bal, _ := db.Balance(domain.AccountStakePool); bal != 0 {
		t.Errorf("stake_pool balance = %d, want 0", bal)
	}
}

func TestStakeMissingDevice(t *testing.T) {
	db := newTestDB(t)
	e := newTestEngine(t, db, t0)

	if _, err := e.Stake("ghost", "alice", 100); err != domain.ErrDeviceNotFound {
		t.Errorf("err = %v, want ErrDeviceNotFound", err)
	}
}
