package domain

// Tier is an ordered capability class derived purely from a device's staked
// amount. It gates which task types a device may accept.
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// tierRank maps tiers to their ordinal position: Bronze < Silver < Gold < Platinum.
var tierRank = map[Tier]int{
	TierBronze:   0,
	TierSilver:   1,
	TierGold:     2,
	TierPlatinum: 3,
}

// AtLeast reports whether t is ordinally at or above min.
func (t Tier) AtLeast(min Tier) bool {
	return tierRank[t] >= tierRank[min]
}

// Tier threshold table. Closed and total: every staked amount maps to
// exactly one tier.
const (
	SilverStakeThreshold   uint64 = 1_000  // staked > 1000 → Silver
	GoldStakeThreshold     uint64 = 5_000  // staked > 5000 → Gold
	PlatinumStakeThreshold uint64 = 20_000 // staked > 20000 → Platinum
)

// TierForStake derives the tier for a staked amount. This is the single
// source of truth: a device's tier is recomputed from this function on every
// staking mutation, never set independently.
func TierForStake(staked uint64) Tier {
	switch {
	case staked > PlatinumStakeThreshold:
		return TierPlatinum
	case staked > GoldStakeThreshold:
		return TierGold
	case staked > SilverStakeThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// MinTierForTaskType returns the minimum tier required to accept a task type.
func MinTierForTaskType(tt TaskType) Tier {
	switch tt {
	case TaskMLInference, TaskImageProcessing:
		return TierSilver
	case TaskVideoTranscoding:
		return TierGold
	default: // DataProcessing, GeneralCompute
		return TierBronze
	}
}
