package simcmd

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

type action func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error

var actions = map[string]action{
	"take_ownership": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		club, err := a.String("club")
		if err != nil {
			return err
		}
		amount, err := a.Amount("amount")
		if err != nil {
			return err
		}
		return r.app.Keeper.TakeOwnership(ctx, club, sender, amount)
	},
	"stake": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		club, err := a.String("club")
		if err != nil {
			return err
		}
		amount, err := a.Amount("amount")
		if err != nil {
			return err
		}
		duration, err := a.Uint64("duration")
		if err != nil {
			return err
		}
		return r.app.Keeper.Stake(ctx, club, sender, amount, duration)
	},
	"unstake": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		club, err := a.String("club")
		if err != nil {
			return err
		}
		principal, reward, err := r.app.Keeper.Unstake(ctx, club, sender)
		if err != nil {
			return err
		}
		r.logger.Info("unstaked", "club", club, "principal", principal.String(), "reward", reward.String())
		return nil
	},
	"distribute_reward": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		amount, err := a.Amount("amount")
		if err != nil {
			return err
		}
		return r.app.Keeper.DistributeReward(ctx, sender, amount)
	},
	"claim_staking_reward": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		club, err := a.String("club")
		if err != nil {
			return err
		}
		reward, err := r.app.Keeper.ClaimStakingReward(ctx, club, sender)
		if err != nil {
			return err
		}
		r.logger.Info("claimed staking reward", "club", club, "reward", reward.String())
		return nil
	},
	"create_vesting": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		beneficiary, err := a.Account("beneficiary")
		if err != nil {
			return err
		}
		schedule := types.VestingSchedule{
			Beneficiary:               beneficiary.String(),
			ShouldTransferImmediately: a.Bool("transfer_immediately"),
		}
		if a.OptionalString("parent") != "" {
			parent, err := a.Account("parent")
			if err != nil {
				return err
			}
			schedule.ParentCategory = parent.String()
		}
		if schedule.InitialAmount, err = a.Amount("initial"); err != nil {
			return err
		}
		if schedule.AmountPerPeriod, err = a.Amount("per_period"); err != nil {
			return err
		}
		if schedule.TotalAmount, err = a.Amount("total"); err != nil {
			return err
		}
		if schedule.Periodicity, err = a.Uint64("periodicity"); err != nil {
			return err
		}
		if schedule.CliffPeriod, err = a.Uint64("cliff"); err != nil {
			return err
		}
		return r.app.Keeper.CreateVestingSchedule(ctx, sender, schedule)
	},
	"claim_vesting": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, _ args) error {
		claimed, err := r.app.Keeper.Claim(ctx, sender)
		if err != nil {
			return err
		}
		r.logger.Info("claimed vesting", "amount", claimed.String())
		return nil
	},
	"vesting_rewards": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		items, err := a.List("entries")
		if err != nil {
			return err
		}
		entries := make([]types.VestingRewardEntry, 0, len(items))
		for _, item := range items {
			beneficiary, err := item.Account("beneficiary")
			if err != nil {
				return err
			}
			amount, err := item.Amount("amount")
			if err != nil {
				return err
			}
			entries = append(entries, types.VestingRewardEntry{Beneficiary: beneficiary.String(), Amount: amount})
		}
		return r.app.Keeper.UpdateVestingRewards(ctx, sender, entries)
	},
	"set_fee_wallets": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		items, err := a.List("wallets")
		if err != nil {
			return err
		}
		wallets := make([]types.FeeWallet, 0, len(items))
		for _, item := range items {
			name, err := item.String("name")
			if err != nil {
				return err
			}
			wallet, err := item.Account("account")
			if err != nil {
				return err
			}
			wallets = append(wallets, types.FeeWallet{Name: name, Address: wallet.String()})
		}
		return r.app.Keeper.SetPlatformFeeWallets(ctx, sender, wallets)
	},
	"set_pool_type": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		// decoded as stored, so pool_fee must be a decimal string
		bz, err := json.Marshal(a.values)
		if err != nil {
			return err
		}
		var poolType types.PoolType
		if err := json.Unmarshal(bz, &poolType); err != nil {
			return errors.Wrap(err, "malformed pool type")
		}
		return r.app.Keeper.SetPoolTypeParams(ctx, sender, poolType)
	},
	"create_pool": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		poolType, err := a.String("pool_type")
		if err != nil {
			return err
		}
		poolID, err := r.app.Keeper.CreatePool(ctx, sender, poolType)
		if err != nil {
			return err
		}
		r.logger.Info("created pool", "pool_id", poolID, "pool_type", poolType)
		return nil
	},
	"submit_bid": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		poolID, err := a.Uint64("pool_id")
		if err != nil {
			return err
		}
		teamID, err := a.String("team_id")
		if err != nil {
			return err
		}
		amount, err := a.Amount("amount")
		if err != nil {
			return err
		}
		return r.app.Keeper.SubmitBid(ctx, poolID, sender, teamID, a.OptionalString("game_id"), amount)
	},
	"lock_game": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		poolID, err := a.Uint64("pool_id")
		if err != nil {
			return err
		}
		return r.app.Keeper.LockGame(ctx, sender, poolID)
	},
	"cancel_game": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		poolID, err := a.Uint64("pool_id")
		if err != nil {
			return err
		}
		return r.app.Keeper.CancelGame(ctx, sender, poolID)
	},
	"distribute_pool": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		poolID, err := a.Uint64("pool_id")
		if err != nil {
			return err
		}
		items, err := a.List("results")
		if err != nil {
			return err
		}
		results := make([]types.GameResult, 0, len(items))
		for _, item := range items {
			gamer, err := item.Account("gamer")
			if err != nil {
				return err
			}
			teamID, err := item.String("team_id")
			if err != nil {
				return err
			}
			reward, err := item.Amount("reward")
			if err != nil {
				return err
			}
			results = append(results, types.GameResult{
				Gamer:        gamer.String(),
				TeamID:       teamID,
				RewardAmount: reward,
				TeamPoints:   cast.ToUint64(item.values["team_points"]),
				TeamRank:     cast.ToUint32(item.values["team_rank"]),
			})
		}
		return r.app.Keeper.GamePoolRewardDistribute(ctx, sender, poolID, results)
	},
	"claim_reward": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, _ args) error {
		claimed, err := r.app.Keeper.ClaimReward(ctx, sender)
		if err != nil {
			return err
		}
		r.logger.Info("claimed pool reward", "amount", claimed.String())
		return nil
	},
	"claim_refund": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, _ args) error {
		refund, err := r.app.Keeper.ClaimRefund(ctx, sender)
		if err != nil {
			return err
		}
		r.logger.Info("claimed pool refund", "amount", refund.String())
		return nil
	},
	// receive sends amount with a tagged command, the command is passed through as is.
	"receive": func(r *Runner, ctx sdk.Context, sender sdk.AccAddress, a args) error {
		amount, err := a.Amount("amount")
		if err != nil {
			return err
		}
		cmd, err := a.raw("command")
		if err != nil {
			return err
		}
		msg, err := json.Marshal(cmd)
		if err != nil {
			return err
		}
		return r.app.Keeper.Receive(ctx, sender, amount, msg)
	},
}
