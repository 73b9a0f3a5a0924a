// Package match decides whether a device may be assigned a task. It is a
// pure predicate with no side effects, invoked during assignment: the
// capability clause compares hardware against the submitter's minimums and
// the tier gate compares the device's stake-derived tier against the task
// type's floor.
package match

import "github.com/gridmesh-network/gridmesh/internal/domain"

// Eligible reports whether the device satisfies both the capability check
// and the tier gate for the task. Each failing clause yields its specific
// error, never a generic failure.
func Eligible(dev *domain.Device, task *domain.Task) error {
	if err := MeetsCapabilities(dev.Specs, task.Requirements); err != nil {
		return err
	}
	return MeetsTier(dev.Tier, task.Type)
}

// MeetsCapabilities checks the hardware clause:
// cpu ≥ required ∧ ram ≥ required ∧ storage ≥ required ∧ (¬gpu_required ∨ gpu_available).
func MeetsCapabilities(specs domain.DeviceSpecs, req domain.ComputeRequirements) error {
	if specs.CPUCores < req.CPUCoresRequired ||
		specs.RAMGB < req.RAMGBRequired ||
		specs.StorageGB < req.StorageGBRequired ||
		(req.GPURequired && !specs.GPUAvailable) {
		return domain.ErrInsufficientCapabilities
	}
	return nil
}

// MeetsTier checks the tier gate against the task type's minimum tier.
func MeetsTier(tier domain.Tier, tt domain.TaskType) error {
	if !tier.AtLeast(domain.MinTierForTaskType(tt)) {
		return domain.ErrInsufficientTier
	}
	return nil
}
