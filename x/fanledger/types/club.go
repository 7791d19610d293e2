package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/fanledger/pkg/timegate"
)

// ClubOwnership is the current owner of a club.
type ClubOwnership struct {
	ClubName       string      `json:"club_name"`
	Owner          string      `json:"owner"`
	StartTimestamp uint64      `json:"start_timestamp"`
	LockingPeriod  uint64      `json:"locking_period"`
	PricePaid      sdkmath.Int `json:"price_paid"`
}

// Lock returns the ownership lock of the club.
func (c ClubOwnership) Lock() timegate.FixedLock {
	return timegate.FixedLock{Duration: c.LockingPeriod}
}

// TransferableAt returns the first timestamp at which ownership may change hands.
func (c ClubOwnership) TransferableAt() uint64 {
	return c.Lock().ReleasedAt(c.StartTimestamp)
}

// ClubStake is a staking position of one staker in one club.
type ClubStake struct {
	ClubName       string      `json:"club_name"`
	Staker         string      `json:"staker"`
	StartTimestamp uint64      `json:"staking_start_timestamp"`
	StakedAmount   sdkmath.Int `json:"staked_amount"`
	Duration       uint64      `json:"staking_duration"`
	// RewardIndex is the reward per share at the time the position last settled.
	RewardIndex sdkmath.LegacyDec `json:"reward_index"`
	// PendingReward is reward settled into the position by merges.
	PendingReward sdkmath.Int `json:"pending_reward"`
	// Sequence is the arrival order among all stakes.
	Sequence uint64 `json:"sequence"`
}

// Position returns the principal of the stake as a time-gated position.
func (s ClubStake) Position() timegate.Position {
	return timegate.Position{
		Start:    s.StartTimestamp,
		Schedule: timegate.FixedLock{Duration: s.Duration},
		Total:    s.StakedAmount,
		Consumed: sdkmath.ZeroInt(),
	}
}

// AccruedReward returns the reward owed to the stake at the given reward per share.
func (s ClubStake) AccruedReward(rewardPerShare sdkmath.LegacyDec) sdkmath.Int {
	delta := rewardPerShare.Sub(s.RewardIndex)
	if !delta.IsPositive() {
		return s.PendingReward
	}
	return s.PendingReward.Add(delta.MulInt(s.StakedAmount).TruncateInt())
}

// Validate validates the stake record.
func (s ClubStake) Validate() error {
	if s.ClubName == "" {
		return errorsmod.Wrap(ErrInvalidInput, "club name cannot be empty")
	}
	if _, err := sdk.AccAddressFromBech32(s.Staker); err != nil {
		return errorsmod.Wrapf(ErrInvalidInput, "invalid staker address %s", s.Staker)
	}
	if s.StakedAmount.IsNil() || !s.StakedAmount.IsPositive() {
		return errorsmod.Wrap(ErrInvalidInput, "staked amount must be positive")
	}
	if s.Duration == 0 {
		return errorsmod.Wrap(ErrInvalidInput, "staking duration must be positive")
	}
	return nil
}

// RewardAccumulator tracks reward inflow shared by all stakes in proportion to stake.
type RewardAccumulator struct {
	RewardPerShare sdkmath.LegacyDec `json:"reward_per_share"`
	TotalStaked    sdkmath.Int       `json:"total_staked"`
	// Undistributed holds reward received while nothing was staked.
	Undistributed sdkmath.Int `json:"undistributed"`
	// Outstanding is reward credited to the index and not paid out yet, rounding dust included.
	Outstanding sdkmath.Int `json:"outstanding"`
}

// NewRewardAccumulator returns an empty accumulator.
func NewRewardAccumulator() RewardAccumulator {
	return RewardAccumulator{
		RewardPerShare: sdkmath.LegacyZeroDec(),
		TotalStaked:    sdkmath.ZeroInt(),
		Undistributed:  sdkmath.ZeroInt(),
		Outstanding:    sdkmath.ZeroInt(),
	}
}

// Held returns every reward token the accumulator is responsible for.
func (a RewardAccumulator) Held() sdkmath.Int {
	return a.Undistributed.Add(a.Outstanding)
}

// CustodyBalance is one entry of the custody wallet.
type CustodyBalance struct {
	Address string      `json:"address"`
	Amount  sdkmath.Int `json:"amount"`
}
