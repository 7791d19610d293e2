package cli_test

import (
	"encoding/json"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/fanledger/testutil/simapp"
	"github.com/tokenize-x/fanledger/x/fanledger/client/cli"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

func TestStoreKeys(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	k := app.Keeper

	owner := simapp.GenAccount()
	app.MintAndSendCoin(t, owner, sdkmath.NewInt(1_000))
	app.MintAndSendCoin(t, app.Admin, sdkmath.NewInt(1_000))
	requireT.NoError(k.TakeOwnership(app.Context(), "alpha", owner, sdkmath.NewInt(100)))
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, types.VestingSchedule{
		Beneficiary:     owner.String(),
		InitialAmount:   sdkmath.NewInt(10),
		AmountPerPeriod: sdkmath.ZeroInt(),
		TotalAmount:     sdkmath.NewInt(10),
	}))

	store := app.LedgerStore()

	key, err := cli.ClubKey("alpha")
	requireT.NoError(err)
	var club types.ClubOwnership
	requireT.NoError(json.Unmarshal(store.Get(key), &club))
	requireT.Equal(owner.String(), club.Owner)

	key, err = cli.VestingKey(owner)
	requireT.NoError(err)
	var schedule types.VestingSchedule
	requireT.NoError(json.Unmarshal(store.Get(key), &schedule))
	requireT.Equal("10", schedule.TotalAmount.String())

	key, err = cli.CustodyKey(owner)
	requireT.NoError(err)
	custody, err := sdk.IntValue.Decode(store.Get(key))
	requireT.NoError(err)
	requireT.Equal("110", custody.String())

	key, err = cli.PoolKey(1)
	requireT.NoError(err)
	requireT.Nil(store.Get(key))

	var params types.Params
	requireT.NoError(json.Unmarshal(store.Get(types.ParamsKey.Bytes()), &params))
	requireT.Equal(app.Admin.String(), params.AdminAddress)
}

func TestGetQueryCmd(t *testing.T) {
	requireT := require.New(t)

	cmd := cli.GetQueryCmd()
	requireT.Equal(types.ModuleName, cmd.Use)
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	requireT.ElementsMatch([]string{"params", "club", "vesting", "pool", "custody"}, names)
}
