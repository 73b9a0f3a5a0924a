package match

import (
	"testing"

	"github.com/gridmesh-network/gridmesh/internal/domain"
)

func testDevice() *domain.Device {
	return &domain.Device{
		ID:    "dev-1",
		Owner: "alice",
		Specs: domain.DeviceSpecs{
			CPUCores:     4,
			RAMGB:        8,
			StorageGB:    100,
			GPUAvailable: true,
		},
		Tier: domain.TierBronze,
	}
}

func testTask(req domain.ComputeRequirements, tt domain.TaskType) *domain.Task {
	return &domain.Task{ID: "task-1", Type: tt, Requirements: req}
}

func TestEligible(t *testing.T) {
	dev := testDevice()
	task := testTask(domain.ComputeRequirements{
		CPUCoresRequired:  2,
		RAMGBRequired:     4,
		StorageGBRequired: 10,
	}, domain.TaskDataProcessing)

	if err := Eligible(dev, task); err != nil {
		t.Errorf("Eligible() = %v, want nil", err)
	}
}

func TestCapabilityClauses(t *testing.T) {
	tests := []struct {
		name string
		req  domain.ComputeRequirements
		want error
	}{
		{"exact match", domain.ComputeRequirements{CPUCoresRequired: 4, RAMGBRequired: 8, StorageGBRequired: 100}, nil},
		{"cpu short", domain.ComputeRequirements{CPUCoresRequired: 8}, domain.ErrInsufficientCapabilities},
		{"ram short", domain.ComputeRequirements{RAMGBRequired: 16}, domain.ErrInsufficientCapabilities},
		{"storage short", domain.ComputeRequirements{StorageGBRequired: 200}, domain.ErrInsufficientCapabilities},
		{"gpu satisfied", domain.ComputeRequirements{GPURequired: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := testDevice()
			if got := MeetsCapabilities(dev.Specs, tt.req); got != tt.want {
				t.Errorf("MeetsCapabilities() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGPURequiredButMissing(t *testing.T) {
	dev := testDevice()
	dev.Specs.GPUAvailable = false
	err := MeetsCapabilities(dev.Specs, domain.ComputeRequirements{GPURequired: true})
	if err != domain.ErrInsufficientCapabilities {
		t.Errorf("err = %v, want ErrInsufficientCapabilities", err)
	}
}

func TestTierGate(t *testing.T) {
	if err := MeetsTier(domain.TierBronze, domain.TaskMLInference); err != domain.ErrInsufficientTier {
		t.Errorf("Bronze on ML inference: err = %v, want ErrInsufficientTier", err)
	}
	if err := MeetsTier(domain.TierSilver, domain.TaskMLInference); err != nil {
		t.Errorf("Silver on ML inference: err = %v, want nil", err)
	}
	if err := MeetsTier(domain.TierSilver, domain.TaskVideoTranscoding); err != domain.ErrInsufficientTier {
		t.Errorf("Silver on video transcoding: err = %v, want ErrInsufficientTier", err)
	}
	if err := MeetsTier(domain.TierPlatinum, domain.TaskVideoTranscoding); err != nil {
		t.Errorf("Platinum on video transcoding: err = %v, want nil", err)
	}
	if err := MeetsTier(domain.TierBronze, domain.TaskGeneralCompute); err != nil {
		t.Errorf("Bronze on general compute: err = %v, want nil", err)
	}
}

func TestTierCheckedEvenWhenCapabilitiesFail(t *testing.T) {
	// Capability failure wins: it is checked first.
	dev := testDevice()
	task := testTask(domain.ComputeRequirements{CPUCoresRequired: 64}, domain.TaskMLInference)
	if err := Eligible(dev, task); err != domain.ErrInsufficientCapabilities {
		t.Errorf("err = %v, want ErrInsufficientCapabilities", err)
	}
}
