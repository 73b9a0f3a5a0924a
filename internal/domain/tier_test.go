package domain

import "testing"

func TestTierForStake(t *testing.T) {
	tests := []struct {
		staked uint64
		want   Tier
	}{
		{0, TierBronze},
		{500, TierBronze},
		{1_000, TierBronze}, // Boundary: thresholds are exclusive
		{1_001, TierSilver},
		{5_000, TierSilver},
		{5_001, TierGold},
		{20_000, TierGold},
		{20_001, TierPlatinum},
		{1_000_000, TierPlatinum},
	}

	for _, tt := range tests {
		if got := TierForStake(tt.staked); got != tt.want {
			t.Errorf("TierForStake(%d) = %s, want %s", tt.staked, got, tt.want)
		}
	}
}

func TestTierAtLeast(t *testing.T) {
	if !TierGold.AtLeast(TierSilver) {
		t.Error("Gold should satisfy a Silver floor")
	}
	if !TierSilver.AtLeast(TierSilver) {
		t.Error("Silver should satisfy a Silver floor")
	}
	if TierBronze.AtLeast(TierSilver) {
		t.Error("Bronze should not satisfy a Silver floor")
	}
	if TierGold.AtLeast(TierPlatinum) {
		t.Error("Gold should not satisfy a Platinum floor")
	}
}

func TestMinTierForTaskType(t *testing.T) {
	tests := []struct {
		tt   TaskType
		want Tier
	}{
		{TaskDataProcessing, TierBronze},
		{TaskGeneralCompute, TierBronze},
		{TaskMLInference, TierSilver},
		{TaskImageProcessing, TierSilver},
		{TaskVideoTranscoding, TierGold},
	}

	for _, tt := range tests {
		if got := MinTierForTaskType(tt.tt); got != tt.want {
			t.Errorf("MinTierForTaskType(%s) = %s, want %s", tt.tt, got, tt.want)
		}
	}
}
