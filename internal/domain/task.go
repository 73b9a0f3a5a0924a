package domain

import "time"

// TaskStatus tracks the task lifecycle. Transitions are monotonic:
// Pending → Assigned → Completed, Completed → Failed (failed verification),
// Assigned → Failed (expiry discovered at completion). Nothing else.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskAssigned   TaskStatus = "ASSIGNED"
	TaskInProgress TaskStatus = "IN_PROGRESS" // Reserved; no transition drives it
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
)

// TaskType categorizes the kind of computation a submitter wants.
type TaskType string

const (
	TaskDataProcessing   TaskType = "DATA_PROCESSING"
	TaskMLInference      TaskType = "ML_INFERENCE"
	TaskImageProcessing  TaskType = "IMAGE_PROCESSING"
	TaskVideoTranscoding TaskType = "VIDEO_TRANSCODING"
	TaskGeneralCompute   TaskType = "GENERAL_COMPUTE"
)

// ComputeRequirements are the submitter's minimums for eligible devices.
type ComputeRequirements struct {
	CPUCoresRequired  int   `json:"cpu_cores_required"`
	RAMGBRequired     int   `json:"ram_gb_required"`
	StorageGBRequired int   `json:"storage_gb_required"`
	GPURequired       bool  `json:"gpu_required"`
	EstimatedDuration int64 `json:"estimated_duration"` // Seconds
}

// Task is one submitted compute job. Never deleted.
type Task struct {
	ID                 string              `json:"id"`
	Submitter          string              `json:"submitter"`
	Type               TaskType            `json:"type"`
	Requirements       ComputeRequirements `json:"requirements"`
	RewardAmount       uint64              `json:"reward_amount"`
	Status             TaskStatus          `json:"status"`
	AssignedDevice     string              `json:"assigned_device,omitempty"` // Empty until assigned
	ResultHash         string              `json:"result_hash,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	AssignedAt         time.Time           `json:"assigned_at,omitempty"`
	CompletedAt        time.Time           `json:"completed_at,omitempty"`
	ExpiresAt          time.Time           `json:"expires_at,omitempty"`
	Verifications      int64               `json:"verifications"`
	ValidVerifications int64               `json:"valid_verifications"`
	IsVerified         bool                `json:"is_verified"`
	Finalized          bool                `json:"finalized"` // Quorum outcome applied exactly once
}

// IsTerminal returns true once a task can no longer change status.
// Completed is NOT terminal: a failed verification can still fail it.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskFailed
}
