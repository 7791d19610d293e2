package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/fanledger/pkg/timegate"
)

// VestingSchedule is the vesting state of one beneficiary.
type VestingSchedule struct {
	Beneficiary     string      `json:"beneficiary"`
	StartTimestamp  uint64      `json:"vesting_start_timestamp"`
	InitialAmount   sdkmath.Int `json:"initial_vesting_count"`
	InitialConsumed sdkmath.Int `json:"initial_vesting_consumed"`
	Periodicity     uint64      `json:"vesting_periodicity"`
	AmountPerPeriod sdkmath.Int `json:"vesting_count_per_period"`
	TotalAmount     sdkmath.Int `json:"total_vesting_token_count"`
	TotalClaimed    sdkmath.Int `json:"total_claimed_tokens_till_now"`
	// LastClaimedTimestamp is zero until the first claim.
	LastClaimedTimestamp uint64 `json:"last_claimed_timestamp"`
	// AvailableToClaim is recomputed on every read and never used for claim arithmetic.
	AvailableToClaim sdkmath.Int `json:"tokens_available_to_claim"`
	CliffPeriod      uint64      `json:"cliff_period"`
	// ParentCategory links the schedule to its category for rollups. Set once at creation.
	ParentCategory            string `json:"parent_category_address,omitempty"`
	ShouldTransferImmediately bool   `json:"should_transfer_immediately"`
}

// Schedule returns the unlock schedule of the vesting.
func (v VestingSchedule) Schedule() timegate.CliffPeriodic {
	return timegate.CliffPeriodic{
		Initial:     v.InitialAmount,
		Cliff:       v.CliffPeriod,
		Periodicity: v.Periodicity,
		PerPeriod:   v.AmountPerPeriod,
	}
}

// Position returns the vesting as a time-gated position.
func (v VestingSchedule) Position() timegate.Position {
	return timegate.Position{
		Start:       v.StartTimestamp,
		Schedule:    v.Schedule(),
		Total:       v.TotalAmount,
		Consumed:    v.TotalClaimed,
		LastClaimed: v.LastClaimedTimestamp,
	}
}

// Claimable returns the amount the beneficiary may claim at now.
func (v VestingSchedule) Claimable(now uint64) sdkmath.Int {
	return v.Position().Claimable(now)
}

// Unclaimed returns the part of the total still held for the beneficiary.
func (v VestingSchedule) Unclaimed() sdkmath.Int {
	return v.TotalAmount.Sub(v.TotalClaimed)
}

// WithAvailable returns a copy with AvailableToClaim recomputed at now.
func (v VestingSchedule) WithAvailable(now uint64) VestingSchedule {
	v.AvailableToClaim = v.Claimable(now)
	return v
}

// ApplyClaim records a claim of amount at now.
func (v VestingSchedule) ApplyClaim(amount sdkmath.Int, now uint64) (VestingSchedule, error) {
	pos, err := v.Position().Consume(amount, now)
	if err != nil {
		return v, err
	}
	v.TotalClaimed = pos.Consumed
	v.LastClaimedTimestamp = pos.LastClaimed
	v.InitialConsumed = sdkmath.MinInt(v.InitialAmount, v.TotalClaimed)
	v.AvailableToClaim = v.Claimable(now)
	return v, nil
}

// ValidateBasic validates the schedule parameters.
func (v VestingSchedule) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(v.Beneficiary); err != nil {
		return errorsmod.Wrapf(ErrInvalidInput, "invalid beneficiary address %s", v.Beneficiary)
	}
	if v.ParentCategory != "" {
		if _, err := sdk.AccAddressFromBech32(v.ParentCategory); err != nil {
			return errorsmod.Wrapf(ErrInvalidInput, "invalid parent category address %s", v.ParentCategory)
		}
		if v.ParentCategory == v.Beneficiary {
			return errorsmod.Wrap(ErrInvalidInput, "schedule cannot be its own parent category")
		}
	}

	for _, field := range []struct {
		name   string
		amount sdkmath.Int
	}{
		{name: "initial amount", amount: v.InitialAmount},
		{name: "initial consumed", amount: v.InitialConsumed},
		{name: "amount per period", amount: v.AmountPerPeriod},
		{name: "total amount", amount: v.TotalAmount},
		{name: "total claimed", amount: v.TotalClaimed},
	} {
		if field.amount.IsNil() || field.amount.IsNegative() {
			return errorsmod.Wrapf(ErrInvalidInput, "%s must be non-negative", field.name)
		}
	}

	if !v.TotalAmount.IsPositive() {
		return errorsmod.Wrap(ErrInvalidInput, "total amount must be positive")
	}
	if v.InitialAmount.GT(v.TotalAmount) {
		return errorsmod.Wrap(ErrInvalidInput, "initial amount exceeds total amount")
	}
	if v.TotalClaimed.GT(v.TotalAmount) {
		return errorsmod.Wrap(ErrInvalidInput, "total claimed exceeds total amount")
	}
	if v.AmountPerPeriod.IsPositive() && v.Periodicity == 0 {
		return errorsmod.Wrap(ErrInvalidInput, "periodicity must be positive when amount per period is set")
	}
	return nil
}

// VestingRollup aggregates a category and all its descendants.
type VestingRollup struct {
	Category         string      `json:"category"`
	Descendants      uint64      `json:"descendants"`
	TotalAmount      sdkmath.Int `json:"total_amount"`
	TotalClaimed     sdkmath.Int `json:"total_claimed"`
	AvailableToClaim sdkmath.Int `json:"available_to_claim"`
	// Members lists the category followed by descendants in breadth-first order.
	Members []string `json:"members"`
}
