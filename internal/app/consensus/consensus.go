// Package consensus tallies verification votes over completed tasks and
// finalizes a verdict once quorum is reached: a task is verified when at
// least two thirds of the votes say its result is valid.
package consensus

import (
	"time"

	"github.com/gridmesh-network/gridmesh/internal/domain"
	"github.com/gridmesh-network/gridmesh/internal/infra/metrics"
	"github.com/gridmesh-network/gridmesh/internal/infra/sqlite"
)

const (
	// QuorumFloor is the minimum vote count before a verdict may finalize.
	QuorumFloor = 3

	// MinVerifierReputation gates who may vote.
	MinVerifierReputation = 100

	// Reputation deltas applied at finalization (to the device that
	// completed the task) and per vote (to the verifier).
	VerifyPassReputationReward  = 2
	VerifyFailReputationPenalty = 20
	VerifierReputationReward    = 1
)

// Engine tallies verification votes.
type Engine struct {
	db *sqlite.DB

	// Injectable clock
	now func() time.Time
}

// NewEngine creates a consensus engine.
func NewEngine(db *sqlite.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// Verify records one vote on a completed task's result. The verdict
// finalizes exactly once, on the first vote that brings the tally to
// quorum; later votes still count toward the totals but never reopen the
// verdict. Votes are not deduplicated per verifier; Sybil resistance
// comes from the reputation gate, not vote bookkeeping.
func (e *Engine) Verify(taskID, verifierID string, valid bool) (*domain.Task, error) {
	now := e.now()
	var updated domain.Task
	var finalized, verdict bool

	err := e.db.Update(func(tx *sqlite.Tx) error {
		task, err := tx.GetTask(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrTaskNotFound
		}
		if task.Status != domain.TaskCompleted {
			return domain.ErrTaskNotCompleted
		}

		verifier, err := tx.GetDevice(verifierID)
		if err != nil {
			return err
		}
		if verifier == nil {
			return domain.ErrDeviceNotFound
		}
		if verifier.ReputationScore < MinVerifierReputation {
			return domain.ErrInsufficientReputation
		}

		task.Verifications++
		if valid {
			task.ValidVerifications++
		}

		// The completing device may itself be voting; share one struct so
		// its reputation updates don't clobber each other on write.
		worker := verifier
		if task.AssignedDevice != verifierID {
			worker, err = tx.GetDevice(task.AssignedDevice)
			if err != nil {
				return err
			}
			if worker == nil {
				return domain.ErrDeviceNotFound
			}
		}

		if !task.Finalized && task.Verifications >= QuorumFloor {
			task.Finalized = true
			finalized = true
			verdict = task.ValidVerifications*3 >= task.Verifications*2
			if verdict {
				task.IsVerified = true
				worker.AddReputation(VerifyPassReputationReward)
			} else {
				task.Status = domain.TaskFailed
				worker.SubReputation(VerifyFailReputationPenalty)
			}
		}

		verifier.TotalVerifications++
		verifier.AddReputation(VerifierReputationReward)
		verifier.LastActive = now

		updated = *task
		if err := tx.UpdateTask(*task); err != nil {
			return err
		}
		if err := tx.UpdateDevice(*verifier); err != nil {
			return err
		}
		if worker != verifier {
			return tx.UpdateDevice(*worker)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	vote := "invalid"
	if valid {
		vote = "valid"
	}
	metrics.VerificationVotes.WithLabelValues(vote).Inc()
	if finalized {
		outcome := "rejected"
		if verdict {
			outcome = "verified"
		}
		metrics.VerificationsFinalized.WithLabelValues(outcome).Inc()
	}
	return &updated, nil
}
