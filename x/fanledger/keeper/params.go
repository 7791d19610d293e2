package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/tokenize-x/fanledger/pkg/ledgerstore"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// GetParams returns the current fanledger module parameters.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if err != nil {
		return types.Params{}, err
	}
	return params, nil
}

// SetParams sets the fanledger module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.ValidateBasic(); err != nil {
		return err
	}
	return k.Params.Set(ctx, params)
}

// UpdateParams replaces the module parameters via governance.
func (k Keeper) UpdateParams(ctx context.Context, authority string, params types.Params) error {
	if k.authority != authority {
		return errors.Wrapf(types.ErrInvalidAuthority, "expected %s, got %s", k.authority, authority)
	}

	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		current, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if params.Denom != current.Denom {
			if err := k.requireNoCustody(ctx); err != nil {
				return errors.Wrapf(err, "can't change denom from %s to %s", current.Denom, params.Denom)
			}
		}
		if err := k.SetParams(ctx, params); err != nil {
			return err
		}
		return k.validateWalletReferences(ctx, params.PlatformFeeWallets)
	})
}

// SetPlatformFeeWallets replaces the named platform fee wallets.
func (k Keeper) SetPlatformFeeWallets(ctx context.Context, caller sdk.AccAddress, wallets []types.FeeWallet) error {
	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.requireAdmin(ctx, caller)
		if err != nil {
			return err
		}
		if err := types.ValidateFeeWallets(wallets); err != nil {
			return err
		}
		if err := k.validateWalletReferences(ctx, wallets); err != nil {
			return err
		}

		params.PlatformFeeWallets = wallets
		if err := k.SetParams(ctx, params); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeFeeWalletsSet,
			sdk.NewAttribute(types.AttributeKeyWalletCount, strconv.Itoa(len(wallets))),
		))
		return nil
	})
}

// requireAdmin returns the params when caller is the configured admin.
func (k Keeper) requireAdmin(ctx context.Context, caller sdk.AccAddress) (types.Params, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Params{}, err
	}
	if !params.IsAdmin(caller.String()) {
		return types.Params{}, errors.Wrapf(types.ErrUnauthorized, "%s is not the admin", caller)
	}
	return params, nil
}

// validateWalletReferences checks that every pool type and the terms of every
// unsettled pool only name wallets of the list.
func (k Keeper) validateWalletReferences(ctx context.Context, wallets []types.FeeWallet) error {
	err := k.PoolTypes.Walk(ctx, nil, func(_ string, poolType types.PoolType) (bool, error) {
		if err := poolType.Validate(wallets); err != nil {
			return true, errors.Wrapf(err, "pool type %s", poolType.PoolType)
		}
		return false, nil
	})
	if err != nil {
		return err
	}

	return k.Pools.Walk(ctx, nil, func(poolID uint64, pool types.Pool) (bool, error) {
		if pool.State.IsTerminal() {
			return false, nil
		}
		if err := pool.Terms.Validate(wallets); err != nil {
			return true, errors.Wrapf(err, "pool %d", poolID)
		}
		return false, nil
	})
}

// requireNoCustody fails while the module holds tokens for anyone.
func (k Keeper) requireNoCustody(ctx context.Context) error {
	iter, err := k.Custody.Iterate(ctx, nil)
	if err != nil {
		return err
	}
	defer iter.Close()
	if iter.Valid() {
		addr, err := iter.Key()
		if err != nil {
			return err
		}
		return errors.Wrapf(types.ErrInvalidState, "%s has custody", addr)
	}

	acc, err := k.GetRewardAccumulator(ctx)
	if err != nil {
		return err
	}
	if !acc.Held().IsZero() {
		return errors.Wrapf(types.ErrInvalidState, "staking reward %s is held", acc.Held())
	}
	return nil
}
