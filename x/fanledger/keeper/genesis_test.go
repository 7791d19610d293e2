package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/fanledger/testutil/simapp"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

var genesisCmpOpts = []cmp.Option{
	cmp.Comparer(func(a, b sdkmath.Int) bool { return a.String() == b.String() }),
	cmp.Comparer(func(a, b sdkmath.LegacyDec) bool { return a.String() == b.String() }),
	cmpopts.EquateEmpty(),
}

func TestDefaultGenesis(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()

	exported, err := app.Keeper.ExportGenesis(app.Context())
	requireT.NoError(err)
	requireT.NoError(exported.Validate())
	requireT.Equal(app.Admin.String(), exported.Params.AdminAddress)
	requireT.Equal(uint64(1), exported.NextPoolID)
	requireT.Zero(exported.NextStakeSequence)
	requireT.Empty(exported.Clubs)
}

func TestGenesis_ExportImport(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	k := app.Keeper
	setupPools(t, app)
	app.MintAndSendCoin(t, app.Admin, amt(10_000))

	owner := fundedAccount(t, app, 1_000)
	staker := fundedAccount(t, app, 1_000)
	requireT.NoError(k.TakeOwnership(app.Context(), "alpha", owner, amt(100)))
	requireT.NoError(k.Stake(app.Context(), "alpha", staker, amt(300), 60))
	requireT.NoError(k.DistributeReward(app.Context(), app.Admin, amt(90)))

	root := simapp.GenAccount()
	child := simapp.GenAccount()
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(root, nil, 2_000, true)))
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(child, root, 1_500, false)))
	_, err := k.Claim(app.Context(), child)
	requireT.NoError(err)

	openPool, err := k.CreatePool(app.Context(), app.Admin, "standard")
	requireT.NoError(err)
	fillPool(t, app, openPool, 3)
	cancelledPool, err := k.CreatePool(app.Context(), app.Admin, "standard")
	requireT.NoError(err)
	fillPool(t, app, cancelledPool, 2)
	requireT.NoError(k.CancelGame(app.Context(), app.Admin, cancelledPool))
	requireConserved(t, app)

	exported, err := k.ExportGenesis(app.Context())
	requireT.NoError(err)
	requireT.NoError(exported.Validate())
	requireT.Len(exported.Stakes, 1)
	requireT.Len(exported.VestingSchedules, 2)
	requireT.Len(exported.Pools, 2)
	requireT.Len(exported.TeamEntries, 5)
	requireT.Equal(uint64(3), exported.NextPoolID)
	requireT.Equal(uint64(1), exported.NextStakeSequence)

	imported := simapp.New(simapp.WithGenesis(*exported))
	reexported, err := imported.Keeper.ExportGenesis(imported.Context())
	requireT.NoError(err)
	if diff := cmp.Diff(exported, reexported, genesisCmpOpts...); diff != "" {
		t.Fatalf("genesis changed after import (-exported +reimported):\n%s", diff)
	}

	// indexes are rebuilt on import
	rollup, err := imported.Keeper.ReportRollup(imported.Context(), root)
	requireT.NoError(err)
	requireT.Equal(uint64(1), rollup.Descendants)
	teams, err := imported.Keeper.GetPoolTeams(imported.Context(), openPool)
	requireT.NoError(err)
	requireT.Len(teams, 3)

	admin := sdk.MustAccAddressFromBech32(exported.Params.AdminAddress)
	nextPool, err := imported.Keeper.CreatePool(imported.Context(), admin, "standard")
	requireT.NoError(err)
	requireT.Equal(uint64(3), nextPool)
}

func TestGenesis_InvalidRejected(t *testing.T) {
	requireT := require.New(t)

	genesis := types.DefaultGenesisState()
	genesis.Clubs = []types.ClubOwnership{{
		ClubName:      "alpha",
		Owner:         simapp.GenAccount().String(),
		LockingPeriod: types.DefaultClubLockingPeriod,
		PricePaid:     amt(0),
	}}
	requireT.Panics(func() {
		simapp.New(simapp.WithGenesis(*genesis))
	})
}
