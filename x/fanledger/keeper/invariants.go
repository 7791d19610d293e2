package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	deterministicmap "github.com/tokenize-x/fanledger/pkg/deterministic_map"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

const conservationRoute = "conservation"

// RegisterInvariants registers the module invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, conservationRoute, ConservationInvariant(k))
}

// ConservationInvariant checks that the custody of every address equals what
// the ledger records owe it, and that the module account holds at least the
// custody total plus the staking reward not paid out yet.
func ConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		msg, broken, err := k.checkConservation(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, conservationRoute, err.Error()), true
		}
		return sdk.FormatInvariant(types.ModuleName, conservationRoute, msg), broken
	}
}

func (k Keeper) checkConservation(ctx context.Context) (string, bool, error) {
	expected, err := k.expectedCustody(ctx)
	if err != nil {
		return "", false, err
	}

	actual := deterministicmap.New[string, sdkmath.Int]()
	if err := k.Custody.Walk(ctx, nil, func(addr sdk.AccAddress, amount sdkmath.Int) (bool, error) {
		actual.Set(addr.String(), amount)
		return false, nil
	}); err != nil {
		return "", false, err
	}

	var mismatches []string
	expected.Range(func(addr string, want sdkmath.Int) bool {
		got, ok := actual.Get(addr)
		if !ok {
			got = sdkmath.ZeroInt()
		}
		if !got.Equal(want) {
			mismatches = append(mismatches, fmt.Sprintf("%s: custody %s, owed %s", addr, got, want))
		}
		return true
	})
	custodyTotal := sdkmath.ZeroInt()
	actual.Range(func(addr string, got sdkmath.Int) bool {
		custodyTotal = custodyTotal.Add(got)
		if _, ok := expected.Get(addr); !ok && !got.IsZero() {
			mismatches = append(mismatches, fmt.Sprintf("%s: custody %s, owed 0", addr, got))
		}
		return true
	})
	if len(mismatches) > 0 {
		return fmt.Sprintf("custody mismatches: %v", mismatches), true, nil
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return "", false, err
	}
	acc, err := k.GetRewardAccumulator(ctx)
	if err != nil {
		return "", false, err
	}
	required := custodyTotal.Add(acc.Held())
	balance := k.bankKeeper.GetBalance(ctx, k.ModuleAddress(), params.Denom).Amount
	if balance.LT(required) {
		return fmt.Sprintf("module balance %s is below custody %s plus reward %s",
			balance, custodyTotal, acc.Held()), true, nil
	}

	return fmt.Sprintf("custody %s, reward %s, balance %s", custodyTotal, acc.Held(), balance), false, nil
}

// expectedCustody derives the custody of every address from the ledger records.
func (k Keeper) expectedCustody(ctx context.Context) (*deterministicmap.Map[string, sdkmath.Int], error) {
	owed := deterministicmap.New[string, sdkmath.Int]()
	add := func(addr string, amount sdkmath.Int) {
		if amount.IsZero() {
			return
		}
		owed.Update(addr, func(current sdkmath.Int, found bool) sdkmath.Int {
			if !found {
				return amount
			}
			return current.Add(amount)
		})
	}

	clubs, err := k.GetAllClubs(ctx)
	if err != nil {
		return nil, err
	}
	for _, club := range clubs {
		add(club.Owner, club.PricePaid)
	}

	iter, err := k.Stakes.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	stakes, err := iter.Values()
	if err != nil {
		return nil, err
	}
	for _, stake := range stakes {
		add(stake.Staker, stake.StakedAmount)
	}

	vestings, err := k.GetAllVestings(ctx)
	if err != nil {
		return nil, err
	}
	for _, vesting := range vestings {
		add(vesting.Beneficiary, vesting.Unclaimed())
	}

	pools := deterministicmap.New[uint64, types.PoolState]()
	allPools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, err
	}
	for _, pool := range allPools {
		pools.Set(pool.PoolID, pool.State)
	}
	teams, err := k.GetAllTeams(ctx)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		state, ok := pools.Get(team.PoolID)
		if !ok {
			return nil, fmt.Errorf("team %s references missing pool %d", team.TeamID, team.PoolID)
		}
		add(team.Gamer, team.Owed(state))
	}

	return owed, nil
}
