package keeper

import (
	"context"
	"sort"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/tokenize-x/fanledger/pkg/ledgerstore"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// TakeOwnership pulls payment from the bidder and makes the bidder the owner of the club.
func (k Keeper) TakeOwnership(ctx context.Context, clubName string, bidder sdk.AccAddress, payment sdkmath.Int) error {
	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if err := k.pull(ctx, params, bidder, payment); err != nil {
			return err
		}
		return k.takeOwnership(ctx, params, clubName, bidder, payment)
	})
}

// takeOwnership assumes payment is already held by the module account.
func (k Keeper) takeOwnership(
	ctx sdk.Context,
	params types.Params,
	clubName string,
	bidder sdk.AccAddress,
	payment sdkmath.Int,
) error {
	if clubName == "" {
		return errorsmod.Wrap(types.ErrInvalidInput, "club name cannot be empty")
	}
	if payment.IsNil() || !payment.IsPositive() {
		return errorsmod.Wrap(types.ErrInsufficientPayment, "payment must be positive")
	}

	now := blockTime(ctx)
	current, err := k.Clubs.Get(ctx, clubName)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		if payment.LT(params.MinClubPrice) {
			return errorsmod.Wrapf(types.ErrInsufficientPayment, "club %s costs at least %s, got %s",
				clubName, params.MinClubPrice, payment)
		}
	case err != nil:
		return err
	default:
		if current.Owner == bidder.String() {
			return errorsmod.Wrapf(types.ErrInvalidInput, "%s already owns club %s", bidder, clubName)
		}
		if now < current.TransferableAt() {
			return errorsmod.Wrapf(types.ErrTimingViolation, "club %s is locked until %d", clubName, current.TransferableAt())
		}
		if payment.LT(current.PricePaid) {
			return errorsmod.Wrapf(types.ErrInsufficientPayment, "club %s requires at least %s, got %s",
				clubName, current.PricePaid, payment)
		}

		priorOwner, err := k.parseAddress(current.Owner)
		if err != nil {
			return err
		}
		if err := k.subCustody(ctx, priorOwner, current.PricePaid); err != nil {
			return err
		}
		if err := k.pay(ctx, params, priorOwner, current.PricePaid, "club_refund"); err != nil {
			return err
		}
	}

	ownership := types.ClubOwnership{
		ClubName:       clubName,
		Owner:          bidder.String(),
		StartTimestamp: now,
		LockingPeriod:  params.ClubLockingPeriod,
		PricePaid:      payment,
	}
	if err := k.Clubs.Set(ctx, clubName, ownership); err != nil {
		return err
	}
	if err := k.addCustody(ctx, bidder, payment); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeClubOwnershipTaken,
		sdk.NewAttribute(types.AttributeKeyClubName, clubName),
		sdk.NewAttribute(types.AttributeKeyOwner, ownership.Owner),
		sdk.NewAttribute(types.AttributeKeyPriorOwner, current.Owner),
		sdk.NewAttribute(types.AttributeKeyPrice, payment.String()),
	))
	k.Logger(ctx).Info("club ownership taken",
		"club", clubName,
		"owner", ownership.Owner,
		"prior_owner", current.Owner,
		"price", payment.String(),
	)
	return nil
}

// Stake pulls amount from the staker and stakes it into the club for duration seconds.
func (k Keeper) Stake(
	ctx context.Context,
	clubName string,
	staker sdk.AccAddress,
	amount sdkmath.Int,
	duration uint64,
) error {
	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if err := k.pull(ctx, params, staker, amount); err != nil {
			return err
		}
		return k.stake(ctx, clubName, staker, amount, duration)
	})
}

// stake assumes amount is already held by the module account.
// Re-staking into the same club merges into the existing position: accrued
// reward is settled into PendingReward, the amount is added, the start resets
// and the longer of both durations applies.
func (k Keeper) stake(
	ctx sdk.Context,
	clubName string,
	staker sdk.AccAddress,
	amount sdkmath.Int,
	duration uint64,
) error {
	if amount.IsNil() || !amount.IsPositive() {
		return errorsmod.Wrap(types.ErrInvalidInput, "staked amount must be positive")
	}
	if duration == 0 {
		return errorsmod.Wrap(types.ErrInvalidInput, "staking duration must be positive")
	}
	has, err := k.Clubs.Has(ctx, clubName)
	if err != nil {
		return err
	}
	if !has {
		return errorsmod.Wrapf(types.ErrNotFound, "club %s", clubName)
	}

	acc, err := k.GetRewardAccumulator(ctx)
	if err != nil {
		return err
	}

	now := blockTime(ctx)
	key := collections.Join(clubName, staker)
	position, err := k.Stakes.Get(ctx, key)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		seq, err := k.StakeSequence.Next(ctx)
		if err != nil {
			return err
		}
		position = types.ClubStake{
			ClubName:       clubName,
			Staker:         staker.String(),
			StartTimestamp: now,
			StakedAmount:   amount,
			Duration:       duration,
			RewardIndex:    acc.RewardPerShare,
			PendingReward:  sdkmath.ZeroInt(),
			Sequence:       seq,
		}
	case err != nil:
		return err
	default:
		position.PendingReward = position.AccruedReward(acc.RewardPerShare)
		position.RewardIndex = acc.RewardPerShare
		position.StakedAmount = position.StakedAmount.Add(amount)
		position.StartTimestamp = now
		position.Duration = max(position.Duration, duration)
	}

	if err := k.Stakes.Set(ctx, key, position); err != nil {
		return err
	}
	acc.TotalStaked = acc.TotalStaked.Add(amount)
	if err := k.RewardAccumulator.Set(ctx, acc); err != nil {
		return err
	}
	if err := k.addCustody(ctx, staker, amount); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeStaked,
		sdk.NewAttribute(types.AttributeKeyClubName, clubName),
		sdk.NewAttribute(types.AttributeKeyStaker, position.Staker),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeyDuration, strconv.FormatUint(position.Duration, 10)),
	))
	return nil
}

// Unstake releases the stake of the staker in the club together with its reward.
// It returns the principal and the reward paid.
func (k Keeper) Unstake(
	ctx context.Context,
	clubName string,
	staker sdk.AccAddress,
) (principal, reward sdkmath.Int, err error) {
	defer telemetry.MeasureSince(telemetry.Now(), types.ModuleName, "unstake")

	err = ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		key := collections.Join(clubName, staker)
		position, err := k.Stakes.Get(ctx, key)
		if errors.Is(err, collections.ErrNotFound) {
			return errorsmod.Wrapf(types.ErrNotFound, "no stake of %s in club %s", staker, clubName)
		}
		if err != nil {
			return err
		}

		now := blockTime(ctx)
		principal = position.Position().Claimable(now)
		if principal.IsZero() {
			return errorsmod.Wrapf(types.ErrTimingViolation, "stake in club %s is locked until %d",
				clubName, position.StartTimestamp+position.Duration)
		}

		acc, err := k.GetRewardAccumulator(ctx)
		if err != nil {
			return err
		}
		reward = position.AccruedReward(acc.RewardPerShare)
		acc.TotalStaked = acc.TotalStaked.Sub(principal)
		acc.Outstanding = acc.Outstanding.Sub(reward)
		if err := k.RewardAccumulator.Set(ctx, acc); err != nil {
			return err
		}
		if err := k.Stakes.Remove(ctx, key); err != nil {
			return err
		}
		if err := k.subCustody(ctx, staker, principal); err != nil {
			return err
		}
		if err := k.pay(ctx, params, staker, principal, "unstake"); err != nil {
			return err
		}
		if err := k.pay(ctx, params, staker, reward, "staking_reward"); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeUnstaked,
			sdk.NewAttribute(types.AttributeKeyClubName, clubName),
			sdk.NewAttribute(types.AttributeKeyStaker, position.Staker),
			sdk.NewAttribute(types.AttributeKeyAmount, principal.String()),
			sdk.NewAttribute(types.AttributeKeyReward, reward.String()),
		))
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return principal, reward, nil
}

// DistributeReward pulls amount from the admin and shares it among all stakes
// present now in proportion to their staked amount.
func (k Keeper) DistributeReward(ctx context.Context, caller sdk.AccAddress, amount sdkmath.Int) error {
	defer telemetry.MeasureSince(telemetry.Now(), types.ModuleName, "distribute_reward")

	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.requireAdmin(ctx, caller)
		if err != nil {
			return err
		}
		if amount.IsNil() || !amount.IsPositive() {
			return errorsmod.Wrap(types.ErrInvalidInput, "reward amount must be positive")
		}
		if err := k.pull(ctx, params, caller, amount); err != nil {
			return err
		}

		acc, err := k.GetRewardAccumulator(ctx)
		if err != nil {
			return err
		}
		if acc.TotalStaked.IsZero() {
			acc.Undistributed = acc.Undistributed.Add(amount)
		} else {
			credited := amount.Add(acc.Undistributed)
			acc.RewardPerShare = acc.RewardPerShare.Add(sdkmath.LegacyNewDecFromInt(credited).QuoInt(acc.TotalStaked))
			acc.Outstanding = acc.Outstanding.Add(credited)
			acc.Undistributed = sdkmath.ZeroInt()
		}
		if err := k.RewardAccumulator.Set(ctx, acc); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeRewardDistributed,
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyRewardPerStk, acc.RewardPerShare.String()),
		))
		k.Logger(ctx).Info("distributed staking reward",
			"amount", amount.String(),
			"total_staked", acc.TotalStaked.String(),
			"reward_per_share", acc.RewardPerShare.String(),
		)
		return nil
	})
}

// ClaimStakingReward pays the reward accrued by the stake without unstaking it.
func (k Keeper) ClaimStakingReward(ctx context.Context, clubName string, staker sdk.AccAddress) (sdkmath.Int, error) {
	var reward sdkmath.Int
	err := ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		key := collections.Join(clubName, staker)
		position, err := k.Stakes.Get(ctx, key)
		if errors.Is(err, collections.ErrNotFound) {
			return errorsmod.Wrapf(types.ErrNotFound, "no stake of %s in club %s", staker, clubName)
		}
		if err != nil {
			return err
		}

		acc, err := k.GetRewardAccumulator(ctx)
		if err != nil {
			return err
		}
		reward = position.AccruedReward(acc.RewardPerShare)
		if !reward.IsPositive() {
			return errorsmod.Wrapf(types.ErrNothingToClaim, "no reward for %s in club %s", staker, clubName)
		}

		position.PendingReward = sdkmath.ZeroInt()
		position.RewardIndex = acc.RewardPerShare
		if err := k.Stakes.Set(ctx, key, position); err != nil {
			return err
		}
		acc.Outstanding = acc.Outstanding.Sub(reward)
		if err := k.RewardAccumulator.Set(ctx, acc); err != nil {
			return err
		}
		if err := k.pay(ctx, params, staker, reward, "staking_reward"); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeStakingRewardClaimed,
			sdk.NewAttribute(types.AttributeKeyClubName, clubName),
			sdk.NewAttribute(types.AttributeKeyStaker, position.Staker),
			sdk.NewAttribute(types.AttributeKeyReward, reward.String()),
		))
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return reward, nil
}

// GetClub returns the ownership record of the club.
func (k Keeper) GetClub(ctx context.Context, clubName string) (types.ClubOwnership, error) {
	club, err := k.Clubs.Get(ctx, clubName)
	if errors.Is(err, collections.ErrNotFound) {
		return types.ClubOwnership{}, errorsmod.Wrapf(types.ErrNotFound, "club %s", clubName)
	}
	return club, err
}

// GetAllClubs returns all clubs ordered by name.
func (k Keeper) GetAllClubs(ctx context.Context) ([]types.ClubOwnership, error) {
	iter, err := k.Clubs.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Values closes the iterator.
	return iter.Values()
}

// GetClubStakes returns the stakes of the club in the order they were first staked.
func (k Keeper) GetClubStakes(ctx context.Context, clubName string) ([]types.ClubStake, error) {
	iter, err := k.Stakes.Iterate(ctx, collections.NewPrefixedPairRange[string, sdk.AccAddress](clubName))
	if err != nil {
		return nil, err
	}
	stakes, err := iter.Values()
	if err != nil {
		return nil, err
	}
	sort.Slice(stakes, func(i, j int) bool {
		return stakes[i].Sequence < stakes[j].Sequence
	})
	return stakes, nil
}

// GetStakingReward returns the reward the stake could claim now.
func (k Keeper) GetStakingReward(ctx context.Context, clubName string, staker sdk.AccAddress) (sdkmath.Int, error) {
	position, err := k.Stakes.Get(ctx, collections.Join(clubName, staker))
	if errors.Is(err, collections.ErrNotFound) {
		return sdkmath.Int{}, errorsmod.Wrapf(types.ErrNotFound, "no stake of %s in club %s", staker, clubName)
	}
	if err != nil {
		return sdkmath.Int{}, err
	}
	acc, err := k.GetRewardAccumulator(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return position.AccruedReward(acc.RewardPerShare), nil
}
