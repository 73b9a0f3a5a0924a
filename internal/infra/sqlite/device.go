package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gridmesh-network/gridmesh/internal/domain"
)

// ─── Device Repository ──────────────────────────────────────────────────────

const deviceColumns = `device_id, owner, cpu_cores, ram_gb, storage_gb, gpu_available, network_speed,
	is_active, current_load, reputation, total_tasks_completed, total_tokens_earned,
	last_active, tier, staked_amount, stake_timestamp, total_verifications`

// GetDevice retrieves a device by ID within the transaction, or nil if absent.
func (t *Tx) GetDevice(id string) (*domain.Device, error) {
	row := t.tx.QueryRow(
		`SELECT `+deviceColumns+` FROM devices WHERE device_id = ?`, id,
	)
	return scanDevice(row)
}

// InsertDevice creates a new device record.
func (t *Tx) InsertDevice(dev domain.Device) error {
	_, err := t.tx.Exec(
		`INSERT INTO devices (`+deviceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dev.ID, dev.Owner, dev.Specs.CPUCores, dev.Specs.RAMGB, dev.Specs.StorageGB,
		dev.Specs.GPUAvailable, dev.Specs.NetworkSpeed,
		dev.IsActive, dev.CurrentLoad, dev.ReputationScore,
		dev.TotalTasksCompleted, int64(dev.TotalTokensEarned),
		dev.LastActive.Unix(), string(dev.Tier), int64(dev.StakedAmount),
		nullableUnix(dev.StakeTimestamp), dev.TotalVerifications,
	)
	return err
}

// UpdateDevice writes back the full device record.
func (t *Tx) UpdateDevice(dev domain.Device) error {
	_, err := t.tx.Exec(
		`UPDATE devices SET owner = ?, cpu_cores = ?, ram_gb = ?, storage_gb = ?,
			gpu_available = ?, network_speed = ?, is_active = ?, current_load = ?,
			reputation = ?, total_tasks_completed = ?, total_tokens_earned = ?,
			last_active = ?, tier = ?, staked_amount = ?, stake_timestamp = ?,
			total_verifications = ?
		 WHERE device_id = ?`,
		dev.Owner, dev.Specs.CPUCores, dev.Specs.RAMGB, dev.Specs.StorageGB,
		dev.Specs.GPUAvailable, dev.Specs.NetworkSpeed, dev.IsActive, dev.CurrentLoad,
		dev.ReputationScore, dev.TotalTasksCompleted, int64(dev.TotalTokensEarned),
		dev.LastActive.Unix(), string(dev.Tier), int64(dev.StakedAmount),
		nullableUnix(dev.StakeTimestamp), dev.TotalVerifications,
		dev.ID,
	)
	return err
}

// Device retrieves a device by ID outside a write transaction.
func (d *DB) Device(id string) (*domain.Device, error) {
	var dev *domain.Device
	err := d.View(func(tx *Tx) error {
		var err error
		dev, err = tx.GetDevice(id)
		return err
	})
	return dev, err
}

// ListDevices returns all registered devices ordered by last_active descending.
func (d *DB) ListDevices() ([]domain.Device, error) {
	rows, err := d.db.Query(
		`SELECT ` + deviceColumns + ` FROM devices ORDER BY last_active DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		dev, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *dev)
	}
	return devices, rows.Err()
}

func scanDevice(s scanner) (*domain.Device, error) {
	var dev domain.Device
	var tokensEarned, stakedAmount int64
	var lastActive int64
	var stakeTS sql.NullInt64
	var tier string

	err := s.Scan(&dev.ID, &dev.Owner, &dev.Specs.CPUCores, &dev.Specs.RAMGB,
		&dev.Specs.StorageGB, &dev.Specs.GPUAvailable, &dev.Specs.NetworkSpeed,
		&dev.IsActive, &dev.CurrentLoad, &dev.ReputationScore,
		&dev.TotalTasksCompleted, &tokensEarned, &lastActive, &tier,
		&stakedAmount, &stakeTS, &dev.TotalVerifications)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan device: %w", err)
	}

	dev.TotalTokensEarned = uint64(tokensEarned)
	dev.StakedAmount = uint64(stakedAmount)
	dev.LastActive = time.Unix(lastActive, 0)
	dev.Tier = domain.Tier(tier)
	if stakeTS.Valid {
		dev.StakeTimestamp = time.Unix(stakeTS.Int64, 0)
	}
	return &dev, nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
