package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/fanledger/pkg/ledgerstore"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// Receive handles tokens sent to the ledger together with a tagged command.
// The amount is pulled from the sender first; the whole call fails and leaves
// nothing behind if the transfer or the command fails.
func (k Keeper) Receive(ctx context.Context, sender sdk.AccAddress, amount sdkmath.Int, msg []byte) error {
	cmd, err := types.ParseReceiveCommand(msg)
	if err != nil {
		return err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return errorsmod.Wrap(types.ErrInvalidInput, "received amount must be positive")
	}

	return ledgerstore.Atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if err := k.pull(ctx, params, sender, amount); err != nil {
			return err
		}

		switch {
		case cmd.Stake != nil:
			return k.stake(ctx, cmd.Stake.ClubName, sender, amount, cmd.Stake.Duration)
		case cmd.BuyClub != nil:
			return k.takeOwnership(ctx, params, cmd.BuyClub.ClubName, sender, amount)
		case cmd.VestingRewards != nil:
			return k.updateVestingRewards(ctx, sender, amount, cmd.VestingRewards.Entries)
		case cmd.SubmitBid != nil:
			return k.submitBid(ctx, cmd.SubmitBid.PoolID, sender, cmd.SubmitBid.TeamID, cmd.SubmitBid.GameID, amount)
		default:
			return errorsmod.Wrap(types.ErrUnsupportedCommand, "empty command")
		}
	})
}
