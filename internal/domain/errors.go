package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency. Each one is a
// caller-visible validation failure: the store transaction that raised it
// commits nothing. ErrTaskExpired is the single exception, reported as an
// error AND committing the Failed transition (see lifecycle).

var (
	// Network errors
	ErrNetworkExists         = errors.New("network state already initialized")
	ErrNetworkNotInitialized = errors.New("network state not initialized")

	// Registration errors
	ErrDeviceExists   = errors.New("device already registered")
	ErrDeviceNotFound = errors.New("device not found")
	ErrNotDeviceOwner = errors.New("caller does not own this device")

	// Assignment errors
	ErrTaskNotPending           = errors.New("task is not in pending status")
	ErrDeviceNotActive          = errors.New("device is not active")
	ErrInsufficientCapabilities = errors.New("insufficient device capabilities")
	ErrInsufficientTier         = errors.New("device tier below task minimum")

	// Completion errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskExists        = errors.New("task already submitted")
	ErrTaskNotAssigned   = errors.New("task is not assigned")
	ErrDeviceNotAssigned = errors.New("device is not assigned to this task")
	ErrTaskExpired       = errors.New("task deadline passed before completion")
	ErrMathOverflow      = errors.New("arithmetic overflow in reward computation")

	// Staking errors
	ErrInsufficientStake   = errors.New("unstake amount exceeds staked balance")
	ErrStakingPeriodNotMet = errors.New("staking lock-up period has not elapsed")

	// Verification errors
	ErrTaskNotCompleted       = errors.New("task is not in completed status")
	ErrInsufficientReputation = errors.New("verifier reputation below voting threshold")
)
