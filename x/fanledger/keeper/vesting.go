package keeper

import (
	"context"
	"time"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/pkg/errors"

	"github.com/tokenize-x/fanledger/pkg/ledgerstore"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// CreateVestingSchedule pulls the total amount from the admin and opens a vesting schedule for the beneficiary.
func (k Keeper) CreateVestingSchedule(ctx context.Context, caller sdk.AccAddress, schedule types.VestingSchedule) error {
	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.requireAdmin(ctx, caller)
		if err != nil {
			return err
		}

		now := blockTime(ctx)
		if schedule.StartTimestamp == 0 {
			schedule.StartTimestamp = now
		}
		schedule.InitialConsumed = sdkmath.ZeroInt()
		schedule.TotalClaimed = sdkmath.ZeroInt()
		schedule.LastClaimedTimestamp = 0
		schedule.AvailableToClaim = sdkmath.ZeroInt()
		if err := schedule.ValidateBasic(); err != nil {
			return err
		}

		beneficiary, err := k.parseAddress(schedule.Beneficiary)
		if err != nil {
			return err
		}
		has, err := k.Vestings.Has(ctx, beneficiary)
		if err != nil {
			return err
		}
		if has {
			return errorsmod.Wrapf(types.ErrAlreadyExists, "vesting schedule of %s", schedule.Beneficiary)
		}

		// The parent link is written once here and never repointed, so the
		// category graph stays acyclic.
		if schedule.ParentCategory != "" {
			parent, err := k.parseAddress(schedule.ParentCategory)
			if err != nil {
				return err
			}
			has, err := k.Vestings.Has(ctx, parent)
			if err != nil {
				return err
			}
			if !has {
				return errorsmod.Wrapf(types.ErrNotFound, "parent category %s", schedule.ParentCategory)
			}
			if err := k.VestingChildren.Set(ctx, collections.Join(parent, beneficiary)); err != nil {
				return err
			}
		}

		if err := k.pull(ctx, params, caller, schedule.TotalAmount); err != nil {
			return err
		}
		if err := k.addCustody(ctx, beneficiary, schedule.TotalAmount); err != nil {
			return err
		}
		if err := k.Vestings.Set(ctx, beneficiary, schedule.WithAvailable(now)); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeVestingCreated,
			sdk.NewAttribute(types.AttributeKeyBeneficiary, schedule.Beneficiary),
			sdk.NewAttribute(types.AttributeKeyParent, schedule.ParentCategory),
			sdk.NewAttribute(types.AttributeKeyAmount, schedule.TotalAmount.String()),
		))
		return nil
	})
}

// Claim releases everything the beneficiary may claim now, either as a
// transfer or as a spend allowance out of the module account.
func (k Keeper) Claim(ctx context.Context, beneficiary sdk.AccAddress) (sdkmath.Int, error) {
	defer telemetry.MeasureSince(telemetry.Now(), types.ModuleName, "vesting_claim")

	var claimed sdkmath.Int
	err := ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		schedule, err := k.Vestings.Get(ctx, beneficiary)
		if errors.Is(err, collections.ErrNotFound) {
			return errorsmod.Wrapf(types.ErrNotFound, "vesting schedule of %s", beneficiary)
		}
		if err != nil {
			return err
		}

		now := blockTime(ctx)
		claimed = schedule.Claimable(now)
		if claimed.IsZero() {
			return errorsmod.Wrapf(types.ErrNothingToClaim, "nothing vested for %s", beneficiary)
		}
		schedule, err = schedule.ApplyClaim(claimed, now)
		if err != nil {
			return err
		}
		if err := k.Vestings.Set(ctx, beneficiary, schedule); err != nil {
			return err
		}
		if err := k.subCustody(ctx, beneficiary, claimed); err != nil {
			return err
		}

		mode := types.ClaimModeAllowance
		if schedule.ShouldTransferImmediately {
			mode = types.ClaimModeTransfer
			if err := k.pay(ctx, params, beneficiary, claimed, "vesting"); err != nil {
				return err
			}
		} else if err := k.grantAllowance(ctx, params, beneficiary, claimed); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeVestingClaimed,
			sdk.NewAttribute(types.AttributeKeyBeneficiary, schedule.Beneficiary),
			sdk.NewAttribute(types.AttributeKeyAmount, claimed.String()),
			sdk.NewAttribute(types.AttributeKeyMode, mode),
		))
		k.Logger(ctx).Info("vesting claimed",
			"beneficiary", schedule.Beneficiary,
			"amount", claimed.String(),
			"mode", mode,
			"total_claimed", schedule.TotalClaimed.String(),
		)
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return claimed, nil
}

// grantAllowance raises the beneficiary's send allowance over the module account by amount.
func (k Keeper) grantAllowance(ctx sdk.Context, params types.Params, grantee sdk.AccAddress, amount sdkmath.Int) error {
	granter := k.ModuleAddress()
	msgType := sdk.MsgTypeURL(&banktypes.MsgSend{})
	spendLimit := k.coins(params, amount)

	existing, _ := k.authzKeeper.GetAuthorization(ctx, grantee, granter, msgType)
	if sendAuth, ok := existing.(*banktypes.SendAuthorization); ok {
		spendLimit = spendLimit.Add(sendAuth.SpendLimit...)
	}

	var expiration *time.Time
	if params.AllowanceExpiry > 0 {
		exp := ctx.BlockTime().Add(time.Duration(params.AllowanceExpiry) * time.Second)
		expiration = &exp
	}

	authorization := banktypes.NewSendAuthorization(spendLimit, nil)
	if err := k.authzKeeper.SaveGrant(ctx, grantee, granter, authorization, expiration); err != nil {
		return errorsmod.Wrapf(types.ErrTransferFailed, "grant allowance of %s to %s: %s", spendLimit, grantee, err)
	}
	return nil
}

// UpdateVestingRewards pulls the entries' total from the admin and adds each
// entry to its beneficiary's vesting total.
func (k Keeper) UpdateVestingRewards(ctx context.Context, caller sdk.AccAddress, entries []types.VestingRewardEntry) error {
	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.requireAdmin(ctx, caller)
		if err != nil {
			return err
		}
		cmd := types.VestingRewardsCommand{Entries: entries}
		if err := cmd.Validate(); err != nil {
			return err
		}
		total := cmd.Total()
		if err := k.pull(ctx, params, caller, total); err != nil {
			return err
		}
		return k.updateVestingRewards(ctx, caller, total, entries)
	})
}

// updateVestingRewards assumes amount is already held by the module account.
func (k Keeper) updateVestingRewards(
	ctx sdk.Context,
	sender sdk.AccAddress,
	amount sdkmath.Int,
	entries []types.VestingRewardEntry,
) error {
	if _, err := k.requireAdmin(ctx, sender); err != nil {
		return err
	}
	cmd := types.VestingRewardsCommand{Entries: entries}
	if err := cmd.Validate(); err != nil {
		return err
	}
	if total := cmd.Total(); !total.Equal(amount) {
		return errorsmod.Wrapf(types.ErrInvalidInput, "entries sum to %s, received %s", total, amount)
	}

	now := blockTime(ctx)
	for _, entry := range entries {
		beneficiary, err := k.parseAddress(entry.Beneficiary)
		if err != nil {
			return err
		}
		schedule, err := k.Vestings.Get(ctx, beneficiary)
		if errors.Is(err, collections.ErrNotFound) {
			return errorsmod.Wrapf(types.ErrNotFound, "vesting schedule of %s", entry.Beneficiary)
		}
		if err != nil {
			return err
		}

		schedule.TotalAmount = schedule.TotalAmount.Add(entry.Amount)
		if err := k.Vestings.Set(ctx, beneficiary, schedule.WithAvailable(now)); err != nil {
			return err
		}
		if err := k.addCustody(ctx, beneficiary, entry.Amount); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeVestingRewardsAdded,
			sdk.NewAttribute(types.AttributeKeyBeneficiary, entry.Beneficiary),
			sdk.NewAttribute(types.AttributeKeyAmount, entry.Amount.String()),
		))
	}
	return nil
}

// GetVesting returns the vesting schedule of the beneficiary with AvailableToClaim evaluated now.
func (k Keeper) GetVesting(ctx context.Context, beneficiary sdk.AccAddress) (types.VestingSchedule, error) {
	schedule, err := k.Vestings.Get(ctx, beneficiary)
	if errors.Is(err, collections.ErrNotFound) {
		return types.VestingSchedule{}, errorsmod.Wrapf(types.ErrNotFound, "vesting schedule of %s", beneficiary)
	}
	if err != nil {
		return types.VestingSchedule{}, err
	}
	return schedule.WithAvailable(blockTime(ctx)), nil
}

// GetAllVestings returns every vesting schedule with AvailableToClaim evaluated now.
func (k Keeper) GetAllVestings(ctx context.Context) ([]types.VestingSchedule, error) {
	now := blockTime(ctx)
	var schedules []types.VestingSchedule
	err := k.Vestings.Walk(ctx, nil, func(_ sdk.AccAddress, schedule types.VestingSchedule) (bool, error) {
		schedules = append(schedules, schedule.WithAvailable(now))
		return false, nil
	})
	return schedules, err
}

// ReportRollup aggregates the category and all of its descendants.
func (k Keeper) ReportRollup(ctx context.Context, category sdk.AccAddress) (types.VestingRollup, error) {
	root, err := k.GetVesting(ctx, category)
	if err != nil {
		return types.VestingRollup{}, err
	}

	rollup := types.VestingRollup{
		Category:         root.Beneficiary,
		TotalAmount:      sdkmath.ZeroInt(),
		TotalClaimed:     sdkmath.ZeroInt(),
		AvailableToClaim: sdkmath.ZeroInt(),
	}
	members, err := k.vestingMembers(ctx, category)
	if err != nil {
		return types.VestingRollup{}, err
	}
	now := blockTime(ctx)
	for _, member := range members {
		member = member.WithAvailable(now)
		rollup.Members = append(rollup.Members, member.Beneficiary)
		rollup.TotalAmount = rollup.TotalAmount.Add(member.TotalAmount)
		rollup.TotalClaimed = rollup.TotalClaimed.Add(member.TotalClaimed)
		rollup.AvailableToClaim = rollup.AvailableToClaim.Add(member.AvailableToClaim)
	}
	rollup.Descendants = uint64(len(members) - 1)
	return rollup, nil
}

// vestingMembers walks the category tree breadth-first, the category itself
// comes first.
func (k Keeper) vestingMembers(
	ctx context.Context,
	category sdk.AccAddress,
) ([]types.VestingSchedule, error) {
	var members []types.VestingSchedule
	visited := make(map[string]struct{})
	queue := []sdk.AccAddress{category}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, seen := visited[current.String()]; seen {
			continue
		}
		visited[current.String()] = struct{}{}

		schedule, err := k.Vestings.Get(ctx, current)
		if errors.Is(err, collections.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		members = append(members, schedule)

		iter, err := k.VestingChildren.Iterate(ctx, collections.NewPrefixedPairRange[sdk.AccAddress, sdk.AccAddress](current))
		if err != nil {
			return nil, err
		}
		keys, err := iter.Keys()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			queue = append(queue, key.K2())
		}
	}
	return members, nil
}
