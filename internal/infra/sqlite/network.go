package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gridmesh-network/gridmesh/internal/domain"
)

// ─── Network State Repository ───────────────────────────────────────────────
// The network aggregate is a singleton row (id = 1) with the same atomicity
// guarantee as any other record.

// GetNetwork returns the network singleton, or nil if not yet initialized.
func (t *Tx) GetNetwork() (*domain.NetworkState, error) {
	row := t.tx.QueryRow(
		`SELECT authority, total_devices, total_tasks_completed, total_tokens_distributed, network_utilization, created_at
		 FROM network_state WHERE id = 1`,
	)

	var ns domain.NetworkState
	var createdAt int64
	err := row.Scan(&ns.Authority, &ns.TotalDevices, &ns.TotalTasksCompleted,
		&ns.TotalTokensDistributed, &ns.NetworkUtilization, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan network: %w", err)
	}
	ns.CreatedAt = time.Unix(createdAt, 0)
	return &ns, nil
}

// InsertNetwork creates the network singleton.
func (t *Tx) InsertNetwork(ns domain.NetworkState) error {
	_, err := t.tx.Exec(
		`INSERT INTO network_state (id, authority, total_devices, total_tasks_completed, total_tokens_distributed, network_utilization, created_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?)`,
		ns.Authority, ns.TotalDevices, ns.TotalTasksCompleted,
		int64(ns.TotalTokensDistributed), ns.NetworkUtilization, ns.CreatedAt.Unix(),
	)
	return err
}

// UpdateNetwork writes back the full network singleton.
func (t *Tx) UpdateNetwork(ns domain.NetworkState) error {
	_, err := t.tx.Exec(
		`UPDATE network_state SET authority = ?, total_devices = ?, total_tasks_completed = ?, total_tokens_distributed = ?, network_utilization = ?
		 WHERE id = 1`,
		ns.Authority, ns.TotalDevices, ns.TotalTasksCompleted,
		int64(ns.TotalTokensDistributed), ns.NetworkUtilization,
	)
	return err
}

// Network returns the network singleton outside a write transaction.
func (d *DB) Network() (*domain.NetworkState, error) {
	var ns *domain.NetworkState
	err := d.View(func(tx *Tx) error {
		var err error
		ns, err = tx.GetNetwork()
		return err
	})
	return ns, err
}
