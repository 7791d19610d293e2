package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	deterministicmap "github.com/tokenize-x/fanledger/pkg/deterministic_map"
	"github.com/tokenize-x/fanledger/pkg/ledgerstore"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// SetPoolTypeParams creates or replaces a pool type. Pools already created keep their terms.
func (k Keeper) SetPoolTypeParams(ctx context.Context, caller sdk.AccAddress, poolType types.PoolType) error {
	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.requireAdmin(ctx, caller)
		if err != nil {
			return err
		}
		if err := poolType.Validate(params.PlatformFeeWallets); err != nil {
			return err
		}
		if err := k.PoolTypes.Set(ctx, poolType.PoolType, poolType); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypePoolTypeSet,
			sdk.NewAttribute(types.AttributeKeyPoolType, poolType.PoolType),
		))
		return nil
	})
}

// CreatePool opens a new pool of the given type and returns its id.
func (k Keeper) CreatePool(ctx context.Context, caller sdk.AccAddress, poolTypeName string) (uint64, error) {
	var poolID uint64
	err := ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		if _, err := k.requireAdmin(ctx, caller); err != nil {
			return err
		}
		poolType, err := k.GetPoolType(ctx, poolTypeName)
		if err != nil {
			return err
		}

		seq, err := k.PoolSequence.Next(ctx)
		if err != nil {
			return err
		}
		poolID = seq + 1

		pool := types.Pool{
			PoolID:      poolID,
			PoolType:    poolTypeName,
			State:       types.PoolStateOpen,
			TotalStake:  sdkmath.ZeroInt(),
			PlatformFee: sdkmath.ZeroInt(),
			CreatedAt:   blockTime(ctx),
			Terms:       poolType,
		}
		if err := k.Pools.Set(ctx, poolID, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypePoolCreated,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyPoolType, poolTypeName),
		))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return poolID, nil
}

// SubmitBid pulls amount from the gamer and enters the team into the pool.
func (k Keeper) SubmitBid(
	ctx context.Context,
	poolID uint64,
	gamer sdk.AccAddress,
	teamID, gameID string,
	amount sdkmath.Int,
) error {
	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if err := k.pull(ctx, params, gamer, amount); err != nil {
			return err
		}
		return k.submitBid(ctx, poolID, gamer, teamID, gameID, amount)
	})
}

// submitBid assumes amount is already held by the module account.
func (k Keeper) submitBid(
	ctx sdk.Context,
	poolID uint64,
	gamer sdk.AccAddress,
	teamID, gameID string,
	amount sdkmath.Int,
) error {
	if teamID == "" {
		return errorsmod.Wrap(types.ErrInvalidInput, "team id cannot be empty")
	}
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if pool.State != types.PoolStateOpen {
		return errorsmod.Wrapf(types.ErrInvalidState, "pool %d is %s", poolID, pool.State)
	}
	if amount.IsNil() || !amount.Equal(pool.Terms.PoolFee) {
		return errorsmod.Wrapf(types.ErrInsufficientPayment, "pool %d entry costs exactly %s, got %s",
			poolID, pool.Terms.PoolFee, amount)
	}

	key := collections.Join3(gamer, poolID, teamID)
	has, err := k.TeamEntries.Has(ctx, key)
	if err != nil {
		return err
	}
	if has {
		return errorsmod.Wrapf(types.ErrAlreadyExists, "team %s of %s in pool %d", teamID, gamer, poolID)
	}
	if pool.TeamCount >= pool.Terms.MaxTeamsPerPool {
		return errorsmod.Wrapf(types.ErrLimitExceeded, "pool %d is full (%d teams)", poolID, pool.TeamCount)
	}
	gamerTeams, err := k.countGamerTeams(ctx, gamer, poolID)
	if err != nil {
		return err
	}
	if gamerTeams >= pool.Terms.MaxTeamsPerGamer {
		return errorsmod.Wrapf(types.ErrLimitExceeded, "%s already has %d teams in pool %d", gamer, gamerTeams, poolID)
	}

	entry := types.TeamEntry{
		Gamer:        gamer.String(),
		PoolID:       poolID,
		TeamID:       teamID,
		GameID:       gameID,
		BidAmount:    amount,
		RewardAmount: sdkmath.ZeroInt(),
		RefundAmount: sdkmath.ZeroInt(),
	}
	if err := k.TeamEntries.Set(ctx, key, entry); err != nil {
		return err
	}
	if err := k.PoolTeams.Set(ctx, collections.Join3(poolID, gamer, teamID)); err != nil {
		return err
	}

	pool.TeamCount++
	pool.TotalStake = pool.TotalStake.Add(amount)
	if err := k.Pools.Set(ctx, poolID, pool); err != nil {
		return err
	}
	if err := k.addCustody(ctx, gamer, amount); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeBidSubmitted,
		sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
		sdk.NewAttribute(types.AttributeKeyGamer, entry.Gamer),
		sdk.NewAttribute(types.AttributeKeyTeamID, teamID),
		sdk.NewAttribute(types.AttributeKeyGameID, gameID),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))
	return nil
}

func (k Keeper) countGamerTeams(ctx context.Context, gamer sdk.AccAddress, poolID uint64) (uint32, error) {
	var count uint32
	err := k.TeamEntries.Walk(
		ctx,
		collections.NewSuperPrefixedTripleRange[sdk.AccAddress, uint64, string](gamer, poolID),
		func(_ collections.Triple[sdk.AccAddress, uint64, string], _ types.TeamEntry) (bool, error) {
			count++
			return false, nil
		},
	)
	return count, err
}

// LockGame closes the pool for new bids.
func (k Keeper) LockGame(ctx context.Context, caller sdk.AccAddress, poolID uint64) error {
	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		if _, err := k.requireAdmin(ctx, caller); err != nil {
			return err
		}
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return err
		}
		if pool.State != types.PoolStateOpen {
			return errorsmod.Wrapf(types.ErrInvalidState, "pool %d is %s", poolID, pool.State)
		}
		if pool.TeamCount < pool.Terms.MinTeams {
			return errorsmod.Wrapf(types.ErrLimitExceeded, "pool %d has %d teams, needs %d",
				poolID, pool.TeamCount, pool.Terms.MinTeams)
		}

		pool.State = types.PoolStateLocked
		if err := k.Pools.Set(ctx, poolID, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypePoolLocked,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
		))
		return nil
	})
}

// CancelGame cancels an open or locked pool and makes every bid refundable.
func (k Keeper) CancelGame(ctx context.Context, caller sdk.AccAddress, poolID uint64) error {
	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		if _, err := k.requireAdmin(ctx, caller); err != nil {
			return err
		}
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return err
		}
		if pool.State.IsTerminal() {
			return errorsmod.Wrapf(types.ErrInvalidState, "pool %d is %s", poolID, pool.State)
		}

		entries, err := k.GetPoolTeams(ctx, poolID)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			gamer, err := k.parseAddress(entry.Gamer)
			if err != nil {
				return err
			}
			entry.RefundAmount = entry.BidAmount
			if err := k.TeamEntries.Set(ctx, collections.Join3(gamer, poolID, entry.TeamID), entry); err != nil {
				return err
			}
		}

		pool.State = types.PoolStateCancelled
		pool.SettledAt = blockTime(ctx)
		if err := k.Pools.Set(ctx, poolID, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypePoolCancelled,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyTotalStake, pool.TotalStake.String()),
		))
		return nil
	})
}

// GamePoolRewardDistribute settles a locked pool. The platform fee plus any
// stake not assigned to a result is split over the pool's fee wallets, and
// each result's reward becomes claimable by its gamer.
func (k Keeper) GamePoolRewardDistribute(
	ctx context.Context,
	caller sdk.AccAddress,
	poolID uint64,
	results []types.GameResult,
) error {
	defer telemetry.MeasureSince(telemetry.Now(), types.ModuleName, "pool_distribute")

	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.requireAdmin(ctx, caller)
		if err != nil {
			return err
		}
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return err
		}
		switch pool.State {
		case types.PoolStateLocked:
		case types.PoolStateDistributed, types.PoolStateCancelled:
			return errorsmod.Wrapf(types.ErrAlreadySettled, "pool %d is %s", poolID, pool.State)
		default:
			return errorsmod.Wrapf(types.ErrInvalidState, "pool %d is %s, lock it first", poolID, pool.State)
		}
		if err := types.ValidateGameResults(results); err != nil {
			return err
		}

		fee := pool.Terms.PlatformFee(pool.TotalStake)
		rewards := sdkmath.ZeroInt()
		for _, result := range results {
			rewards = rewards.Add(result.RewardAmount)
		}
		distributable := pool.TotalStake.Sub(fee)
		if rewards.GT(distributable) {
			return errorsmod.Wrapf(types.ErrLimitExceeded, "rewards %s exceed distributable %s of pool %d",
				rewards, distributable, poolID)
		}
		fee = fee.Add(distributable.Sub(rewards))

		// Net custody change per gamer: bids leave, rewards arrive.
		custodyDelta := deterministicmap.New[string, sdkmath.Int]()
		addDelta := func(gamer string, amount sdkmath.Int) {
			custodyDelta.Update(gamer, func(current sdkmath.Int, found bool) sdkmath.Int {
				if !found {
					return amount
				}
				return current.Add(amount)
			})
		}

		entries, err := k.GetPoolTeams(ctx, poolID)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			addDelta(entry.Gamer, entry.BidAmount.Neg())
		}
		for _, result := range results {
			gamer, err := k.parseAddress(result.Gamer)
			if err != nil {
				return err
			}
			key := collections.Join3(gamer, poolID, result.TeamID)
			entry, err := k.TeamEntries.Get(ctx, key)
			if errors.Is(err, collections.ErrNotFound) {
				return errorsmod.Wrapf(types.ErrNotFound, "team %s of %s in pool %d", result.TeamID, result.Gamer, poolID)
			}
			if err != nil {
				return err
			}
			entry.RewardAmount = result.RewardAmount
			entry.TeamPoints = result.TeamPoints
			entry.TeamRank = result.TeamRank
			if err := k.TeamEntries.Set(ctx, key, entry); err != nil {
				return err
			}
			addDelta(entry.Gamer, result.RewardAmount)
		}

		var applyErr error
		custodyDelta.Range(func(gamer string, delta sdkmath.Int) bool {
			addr, err := k.parseAddress(gamer)
			if err != nil {
				applyErr = err
				return false
			}
			if delta.IsNegative() {
				applyErr = k.subCustody(ctx, addr, delta.Neg())
			} else {
				applyErr = k.addCustody(ctx, addr, delta)
			}
			return applyErr == nil
		})
		if applyErr != nil {
			return applyErr
		}

		if err := k.payPlatformFee(ctx, params, pool.Terms, fee); err != nil {
			return err
		}

		pool.State = types.PoolStateDistributed
		pool.PlatformFee = fee
		pool.SettledAt = blockTime(ctx)
		if err := k.Pools.Set(ctx, poolID, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypePoolRewardsDistributed,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyTotalStake, pool.TotalStake.String()),
			sdk.NewAttribute(types.AttributeKeyPlatformFee, fee.String()),
		))
		k.Logger(ctx).Info("distributed pool rewards",
			"pool_id", poolID,
			"total_stake", pool.TotalStake.String(),
			"rewards", rewards.String(),
			"platform_fee", fee.String(),
		)
		return nil
	})
}

// payPlatformFee splits fee over the wallets of the pool terms by the largest
// remainder method and pays every wallet address once.
func (k Keeper) payPlatformFee(ctx sdk.Context, params types.Params, terms types.PoolType, fee sdkmath.Int) error {
	shares, err := types.SplitByPercentages(fee, terms.Percentages())
	if err != nil {
		return err
	}

	payouts := deterministicmap.New[string, sdkmath.Int]()
	for i, wp := range terms.WalletPercentages {
		wallet, ok := params.FeeWallet(wp.WalletName)
		if !ok {
			return errorsmod.Wrapf(types.ErrInvalidConfiguration, "fee wallet %s is not configured", wp.WalletName)
		}
		share := shares[i]
		payouts.Update(wallet.Address, func(current sdkmath.Int, found bool) sdkmath.Int {
			if !found {
				return share
			}
			return current.Add(share)
		})
	}

	var payErr error
	payouts.Range(func(address string, amount sdkmath.Int) bool {
		addr, err := k.parseAddress(address)
		if err != nil {
			payErr = err
			return false
		}
		payErr = k.pay(ctx, params, addr, amount, "platform_fee")
		return payErr == nil
	})
	return payErr
}

// ClaimReward pays the gamer's unclaimed rewards across all distributed pools.
func (k Keeper) ClaimReward(ctx context.Context, gamer sdk.AccAddress) (sdkmath.Int, error) {
	return k.claimPoolPayout(ctx, gamer, types.PoolStateDistributed)
}

// ClaimRefund pays the gamer's unclaimed refunds across all cancelled pools.
func (k Keeper) ClaimRefund(ctx context.Context, gamer sdk.AccAddress) (sdkmath.Int, error) {
	return k.claimPoolPayout(ctx, gamer, types.PoolStateCancelled)
}

func (k Keeper) claimPoolPayout(ctx context.Context, gamer sdk.AccAddress, state types.PoolState) (sdkmath.Int, error) {
	kind, eventType := "pool_reward", types.EventTypePoolRewardClaimed
	if state == types.PoolStateCancelled {
		kind, eventType = "pool_refund", types.EventTypePoolRefundClaimed
	}

	total := sdkmath.ZeroInt()
	err := ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		entries, err := k.GetGamerTeams(ctx, gamer)
		if err != nil {
			return err
		}

		pools := deterministicmap.New[uint64, types.Pool]()
		for _, entry := range entries {
			pool, ok := pools.Get(entry.PoolID)
			if !ok {
				if pool, err = k.GetPool(ctx, entry.PoolID); err != nil {
					return err
				}
				pools.Set(entry.PoolID, pool)
			}
			if pool.State != state {
				continue
			}

			owed := entry.Owed(state)
			switch state {
			case types.PoolStateDistributed:
				if entry.ClaimedReward {
					continue
				}
				entry.ClaimedReward = true
			case types.PoolStateCancelled:
				if entry.ClaimedRefund {
					continue
				}
				entry.ClaimedRefund = true
			}
			if err := k.TeamEntries.Set(ctx, collections.Join3(gamer, entry.PoolID, entry.TeamID), entry); err != nil {
				return err
			}
			total = total.Add(owed)
		}

		if total.IsZero() {
			return errorsmod.Wrapf(types.ErrNothingToClaim, "no %s due to %s", kind, gamer)
		}
		if err := k.subCustody(ctx, gamer, total); err != nil {
			return err
		}
		if err := k.pay(ctx, params, gamer, total, kind); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyGamer, gamer.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, total.String()),
		))
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return total, nil
}

// GetPoolType returns the pool type.
func (k Keeper) GetPoolType(ctx context.Context, name string) (types.PoolType, error) {
	poolType, err := k.PoolTypes.Get(ctx, name)
	if errors.Is(err, collections.ErrNotFound) {
		return types.PoolType{}, errorsmod.Wrapf(types.ErrNotFound, "pool type %s", name)
	}
	return poolType, err
}

// GetAllPoolTypes returns all pool types ordered by name.
func (k Keeper) GetAllPoolTypes(ctx context.Context) ([]types.PoolType, error) {
	iter, err := k.PoolTypes.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return iter.Values()
}

// GetPool returns the pool.
func (k Keeper) GetPool(ctx context.Context, poolID uint64) (types.Pool, error) {
	pool, err := k.Pools.Get(ctx, poolID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Pool{}, errorsmod.Wrapf(types.ErrNotFound, "pool %d", poolID)
	}
	return pool, err
}

// GetAllPools returns all pools ordered by id.
func (k Keeper) GetAllPools(ctx context.Context) ([]types.Pool, error) {
	iter, err := k.Pools.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return iter.Values()
}

// GetPoolTeams returns the team entries of the pool ordered by gamer and team id.
func (k Keeper) GetPoolTeams(ctx context.Context, poolID uint64) ([]types.TeamEntry, error) {
	iter, err := k.PoolTeams.Iterate(ctx, collections.NewPrefixedTripleRange[uint64, sdk.AccAddress, string](poolID))
	if err != nil {
		return nil, err
	}
	keys, err := iter.Keys()
	if err != nil {
		return nil, err
	}

	entries := make([]types.TeamEntry, 0, len(keys))
	for _, key := range keys {
		entry, err := k.TeamEntries.Get(ctx, collections.Join3(key.K2(), key.K1(), key.K3()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetGamerTeams returns the team entries of the gamer across all pools.
func (k Keeper) GetGamerTeams(ctx context.Context, gamer sdk.AccAddress) ([]types.TeamEntry, error) {
	iter, err := k.TeamEntries.Iterate(ctx, collections.NewPrefixedTripleRange[sdk.AccAddress, uint64, string](gamer))
	if err != nil {
		return nil, err
	}
	return iter.Values()
}

// GetAllTeams returns every team entry.
func (k Keeper) GetAllTeams(ctx context.Context) ([]types.TeamEntry, error) {
	iter, err := k.TeamEntries.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return iter.Values()
}
