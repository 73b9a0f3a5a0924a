package domain

import "time"

// NetworkState is the singleton aggregate for a deployment. It is an
// ordinary entity-store record with the same atomicity guarantee as any
// other, never process-wide mutable state.
type NetworkState struct {
	Authority              string    `json:"authority"`
	TotalDevices           int64     `json:"total_devices"`
	TotalTasksCompleted    int64     `json:"total_tasks_completed"`
	TotalTokensDistributed uint64    `json:"total_tokens_distributed"`
	NetworkUtilization     uint8     `json:"network_utilization"` // Reserved; never written
	CreatedAt              time.Time `json:"created_at"`
}
