// Package domain holds the pure marketplace types: network state, devices,
// tasks, tiers, and the token ledger. A Device offers compute capacity; a
// Task is a unit of submitted work; both coordinate only through the entity
// store, never by calling each other directly.
package domain

import (
	"math"
	"time"
)

// DeviceSpecs describes the hardware a device offers.
type DeviceSpecs struct {
	CPUCores     int  `json:"cpu_cores"`
	RAMGB        int  `json:"ram_gb"`
	StorageGB    int  `json:"storage_gb"`
	GPUAvailable bool `json:"gpu_available"`
	NetworkSpeed int  `json:"network_speed"` // Mbps
}

// Device is a registered compute provider. Created with reputation 100,
// tier Bronze, zero stake. Never deleted.
type Device struct {
	ID                  string      `json:"id"`
	Owner               string      `json:"owner"` // Opaque caller identity
	Specs               DeviceSpecs `json:"specs"`
	IsActive            bool        `json:"is_active"`
	CurrentLoad         uint8       `json:"current_load"` // 0–255
	ReputationScore     uint16      `json:"reputation_score"`
	TotalTasksCompleted int64       `json:"total_tasks_completed"`
	TotalTokensEarned   uint64      `json:"total_tokens_earned"`
	LastActive          time.Time   `json:"last_active"`
	Tier                Tier        `json:"tier"`
	StakedAmount        uint64      `json:"staked_amount"`
	StakeTimestamp      time.Time   `json:"stake_timestamp,omitempty"`
	TotalVerifications  int64       `json:"total_verifications"`
}

// InitialReputation is the score every device starts with. It doubles as
// the minimum reputation required to vote on verifications.
const InitialReputation uint16 = 100

// AddReputation raises the reputation score, saturating at the uint16
// ceiling. Reputation must never wrap.
func (d *Device) AddReputation(delta uint16) {
	if d.ReputationScore > math.MaxUint16-delta {
		d.ReputationScore = math.MaxUint16
		return
	}
	d.ReputationScore += delta
}

// SubReputation lowers the reputation score, saturating at zero.
func (d *Device) SubReputation(delta uint16) {
	if d.ReputationScore < delta {
		d.ReputationScore = 0
		return
	}
	d.ReputationScore -= delta
}
