package keeper

import (
	"context"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := k.Params.Set(ctx, genState.Params); err != nil {
		return err
	}

	for _, club := range genState.Clubs {
		if err := k.Clubs.Set(ctx, club.ClubName, club); err != nil {
			return err
		}
	}
	for _, stake := range genState.Stakes {
		staker, err := k.parseAddress(stake.Staker)
		if err != nil {
			return err
		}
		if err := k.Stakes.Set(ctx, collections.Join(stake.ClubName, staker), stake); err != nil {
			return err
		}
	}
	if err := k.StakeSequence.Set(ctx, genState.NextStakeSequence); err != nil {
		return err
	}
	for _, balance := range genState.Custody {
		addr, err := k.parseAddress(balance.Address)
		if err != nil {
			return err
		}
		if err := k.Custody.Set(ctx, addr, balance.Amount); err != nil {
			return err
		}
	}
	if err := k.RewardAccumulator.Set(ctx, genState.RewardAccumulator); err != nil {
		return err
	}

	for _, schedule := range genState.VestingSchedules {
		beneficiary, err := k.parseAddress(schedule.Beneficiary)
		if err != nil {
			return err
		}
		if err := k.Vestings.Set(ctx, beneficiary, schedule); err != nil {
			return err
		}
		if schedule.ParentCategory == "" {
			continue
		}
		parent, err := k.parseAddress(schedule.ParentCategory)
		if err != nil {
			return err
		}
		if err := k.VestingChildren.Set(ctx, collections.Join(parent, beneficiary)); err != nil {
			return err
		}
	}

	for _, poolType := range genState.PoolTypes {
		if err := k.PoolTypes.Set(ctx, poolType.PoolType, poolType); err != nil {
			return err
		}
	}
	for _, pool := range genState.Pools {
		if err := k.Pools.Set(ctx, pool.PoolID, pool); err != nil {
			return err
		}
	}
	// Pool ids start at 1, the sequence stores the last id handed out.
	if err := k.PoolSequence.Set(ctx, genState.NextPoolID-1); err != nil {
		return err
	}
	for _, entry := range genState.TeamEntries {
		gamer, err := k.parseAddress(entry.Gamer)
		if err != nil {
			return err
		}
		if err := k.TeamEntries.Set(ctx, collections.Join3(gamer, entry.PoolID, entry.TeamID), entry); err != nil {
			return err
		}
		if err := k.PoolTeams.Set(ctx, collections.Join3(entry.PoolID, gamer, entry.TeamID)); err != nil {
			return err
		}
	}

	return nil
}

// ExportGenesis returns the module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	var err error

	genesis := types.DefaultGenesisState()
	genesis.Params, err = k.Params.Get(ctx)
	if err != nil {
		return nil, err
	}

	if genesis.Clubs, err = k.GetAllClubs(ctx); err != nil {
		return nil, err
	}
	if err := k.Stakes.Walk(ctx, nil, func(_ collections.Pair[string, sdk.AccAddress], stake types.ClubStake) (bool, error) {
		genesis.Stakes = append(genesis.Stakes, stake)
		return false, nil
	}); err != nil {
		return nil, err
	}
	if genesis.NextStakeSequence, err = k.StakeSequence.Peek(ctx); err != nil {
		return nil, err
	}
	if err := k.Custody.Walk(ctx, nil, func(addr sdk.AccAddress, amount sdkmath.Int) (bool, error) {
		genesis.Custody = append(genesis.Custody, types.CustodyBalance{Address: addr.String(), Amount: amount})
		return false, nil
	}); err != nil {
		return nil, err
	}
	if genesis.RewardAccumulator, err = k.GetRewardAccumulator(ctx); err != nil {
		return nil, err
	}

	if err := k.Vestings.Walk(ctx, nil, func(_ sdk.AccAddress, schedule types.VestingSchedule) (bool, error) {
		genesis.VestingSchedules = append(genesis.VestingSchedules, schedule)
		return false, nil
	}); err != nil {
		return nil, err
	}

	if genesis.PoolTypes, err = k.GetAllPoolTypes(ctx); err != nil {
		return nil, err
	}
	if genesis.Pools, err = k.GetAllPools(ctx); err != nil {
		return nil, err
	}
	lastPoolID, err := k.PoolSequence.Peek(ctx)
	if err != nil {
		return nil, err
	}
	genesis.NextPoolID = lastPoolID + 1
	if genesis.TeamEntries, err = k.GetAllTeams(ctx); err != nil {
		return nil, err
	}

	return genesis, nil
}
