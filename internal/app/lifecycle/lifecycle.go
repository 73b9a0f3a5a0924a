// Package lifecycle drives tasks through the marketplace state machine:
// Pending on submission, Assigned once matched to a device, then Completed
// with payment or Failed when the deadline has passed.
package lifecycle

import (
	"fmt"
	"math"
	"time"

	"github.com/gridmesh-network/gridmesh/internal/app/escrow"
	"github.com/gridmesh-network/gridmesh/internal/app/match"
	"github.com/gridmesh-network/gridmesh/internal/domain"
	"github.com/gridmesh-network/gridmesh/internal/infra/metrics"
	"github.com/gridmesh-network/gridmesh/internal/infra/sqlite"
)

const (
	// ExpirySlackFactor sizes the completion window relative to the
	// submitter's duration estimate.
	ExpirySlackFactor = 2

	// EarlyFinishRewardPct applies when a task finishes strictly under its
	// estimated duration; BaseRewardPct otherwise.
	EarlyFinishRewardPct = 110
	BaseRewardPct        = 100

	// CompletionReputationReward is credited to the device on a successful
	// completion; ExpiryReputationPenalty is charged when a completion
	// attempt arrives past the deadline.
	CompletionReputationReward = 5
	ExpiryReputationPenalty    = 10
)

// Machine performs task state transitions.
type Machine struct {
	db *sqlite.DB

	// Injectable clock
	now func() time.Time
}

// NewMachine creates a lifecycle machine.
func NewMachine(db *sqlite.DB) *Machine {
	return &Machine{db: db, now: time.Now}
}

// Submit creates a Pending task and escrows its reward from the submitter
// into the reward pool.
func (m *Machine) Submit(taskID, submitter string, tt domain.TaskType, req domain.ComputeRequirements, reward uint64) (*domain.Task, error) {
	now := m.now()
	task := domain.Task{
		ID:           taskID,
		Submitter:    submitter,
		Type:         tt,
		Requirements: req,
		RewardAmount: reward,
		Status:       domain.TaskPending,
		CreatedAt:    now,
	}

	err := m.db.Update(func(tx *sqlite.Tx) error {
		existing, err := tx.GetTask(taskID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrTaskExists
		}

		err = escrow.Move(tx, domain.TxEscrow, submitter, domain.AccountRewardPool,
			reward, taskID, fmt.Sprintf("reward escrow for task %s", taskID), now)
		if err != nil {
			return err
		}
		return tx.InsertTask(task)
	})
	if err != nil {
		return nil, err
	}

	metrics.TasksSubmitted.WithLabelValues(string(tt)).Inc()
	return &task, nil
}

// Assign matches a Pending task to an active device that passes the
// capability check and the tier gate, and starts the completion window:
// the deadline is twice the estimated duration from now.
func (m *Machine) Assign(taskID, deviceID string) (*domain.Task, error) {
	now := m.now()
	var updated domain.Task

	err := m.db.Update(func(tx *sqlite.Tx) error {
		task, err := tx.GetTask(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrTaskNotFound
		}
		if task.Status != domain.TaskPending {
			return domain.ErrTaskNotPending
		}

		dev, err := tx.GetDevice(deviceID)
		if err != nil {
			return err
		}
		if dev == nil {
			return domain.ErrDeviceNotFound
		}
		if !dev.IsActive {
			return domain.ErrDeviceNotActive
		}
		if err := match.Eligible(dev, task); err != nil {
			return err
		}

		task.Status = domain.TaskAssigned
		task.AssignedDevice = deviceID
		task.AssignedAt = now
		task.ExpiresAt = now.Add(time.Duration(ExpirySlackFactor*task.Requirements.EstimatedDuration) * time.Second)

		updated = *task
		return tx.UpdateTask(*task)
	})
	if err != nil {
		return nil, err
	}

	metrics.TasksAssigned.WithLabelValues(string(updated.Type)).Inc()
	return &updated, nil
}

// Complete records a completion attempt by the assigned device. On time it
// pays the (possibly boosted) reward from the reward pool to the device's
// owner and credits reputation. Past the deadline it commits the Failed
// transition and the reputation penalty, then reports ErrTaskExpired: the
// error means "this attempt failed", not "nothing happened".
func (m *Machine) Complete(taskID, deviceID, resultHash string) (*domain.Task, error) {
	now := m.now()
	var updated domain.Task
	var expired bool
	var payout uint64

	err := m.db.Update(func(tx *sqlite.Tx) error {
		task, err := tx.GetTask(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrTaskNotFound
		}
		if task.Status != domain.TaskAssigned {
			return domain.ErrTaskNotAssigned
		}
		if task.AssignedDevice != deviceID {
			return domain.ErrDeviceNotAssigned
		}

		dev, err := tx.GetDevice(deviceID)
		if err != nil {
			return err
		}
		if dev == nil {
			return domain.ErrDeviceNotFound
		}

		// Expiration is lazy: the deadline only takes effect when a
		// completion attempt observes it.
		if !now.Before(task.ExpiresAt) {
			expired = true
			task.Status = domain.TaskFailed
			dev.SubReputation(ExpiryReputationPenalty)

			updated = *task
			if err := tx.UpdateTask(*task); err != nil {
				return err
			}
			return tx.UpdateDevice(*dev)
		}

		timeTaken := int64(now.Sub(task.AssignedAt) / time.Second)
		payout, err = AdjustedReward(task.RewardAmount, timeTaken, task.Requirements.EstimatedDuration)
		if err != nil {
			return err
		}
		if dev.TotalTokensEarned > math.MaxUint64-payout {
			return domain.ErrMathOverflow
		}

		ns, err := tx.GetNetwork()
		if err != nil {
			return err
		}
		if ns == nil {
			return domain.ErrNetworkNotInitialized
		}

		err = escrow.Move(tx, domain.TxReward, domain.AccountRewardPool, dev.Owner,
			payout, taskID, fmt.Sprintf("reward payout for task %s", taskID), now)
		if err != nil {
			return err
		}

		task.Status = domain.TaskCompleted
		task.ResultHash = resultHash
		task.CompletedAt = now

		dev.TotalTasksCompleted++
		dev.TotalTokensEarned += payout
		dev.LastActive = now
		dev.AddReputation(CompletionReputationReward)

		ns.TotalTasksCompleted++
		ns.TotalTokensDistributed += payout

		updated = *task
		if err := tx.UpdateTask(*task); err != nil {
			return err
		}
		if err := tx.UpdateDevice(*dev); err != nil {
			return err
		}
		return tx.UpdateNetwork(*ns)
	})
	if err != nil {
		return nil, err
	}

	if expired {
		metrics.TasksExpired.Inc()
		return &updated, domain.ErrTaskExpired
	}
	metrics.TasksCompleted.WithLabelValues(string(updated.Type)).Inc()
	metrics.TokensDistributed.Add(float64(payout))
	return &updated, nil
}

// AdjustedReward computes the payout for a completion: 110% of the base
// reward when the task finished strictly under its estimate, 100%
// otherwise. Integer arithmetic throughout; the scaled product is checked
// against uint64 overflow before dividing.
func AdjustedReward(reward uint64, timeTaken, estimated int64) (uint64, error) {
	pct := uint64(BaseRewardPct)
	if timeTaken < estimated {
		pct = EarlyFinishRewardPct
	}
	if reward > 0 && reward > math.MaxUint64/pct {
		return 0, domain.ErrMathOverflow
	}
	return reward * pct / 100, nil
}

// Task returns a task record, or ErrTaskNotFound.
func (m *Machine) Task(id string) (*domain.Task, error) {
	task, err := m.db.Task(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// ListTasks returns tasks filtered by status ("" for all).
func (m *Machine) ListTasks(status domain.TaskStatus, limit int) ([]domain.Task, error) {
	return m.db.ListTasks(status, limit)
}
