package fanledger_test

import (
	"encoding/json"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/fanledger/testutil/simapp"
	"github.com/tokenize-x/fanledger/x/fanledger"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

type invariantRegistry map[string]sdk.Invariant

func (r invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r[moduleName+"/"+route] = invar
}

func TestAppModule_Genesis(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	am := fanledger.NewAppModule(app.Keeper)

	requireT.NoError(am.ValidateGenesis(nil, nil, am.DefaultGenesis(nil)))
	requireT.Error(am.ValidateGenesis(nil, nil, json.RawMessage(`{"next_pool_id":`)))

	owner := simapp.GenAccount()
	app.MintAndSendCoin(t, owner, sdkmath.NewInt(500))
	requireT.NoError(app.Keeper.TakeOwnership(app.Context(), "alpha", owner, sdkmath.NewInt(100)))

	exported := am.ExportGenesis(app.Context(), nil)
	requireT.NoError(am.ValidateGenesis(nil, nil, exported))

	var genesis types.GenesisState
	requireT.NoError(json.Unmarshal(exported, &genesis))
	requireT.Len(genesis.Clubs, 1)

	imported := simapp.New()
	importedModule := fanledger.NewAppModule(imported.Keeper)
	importedModule.InitGenesis(imported.Context(), nil, exported)
	club, err := imported.Keeper.GetClub(imported.Context(), "alpha")
	requireT.NoError(err)
	requireT.Equal(owner.String(), club.Owner)

	requireT.Panics(func() {
		importedModule.InitGenesis(imported.Context(), nil, json.RawMessage(`not json`))
	})
}

func TestAppModule_RegisterInvariants(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	am := fanledger.NewAppModule(app.Keeper)

	registry := invariantRegistry{}
	am.RegisterInvariants(registry)
	invar, ok := registry[types.ModuleName+"/conservation"]
	requireT.True(ok)

	_, broken := invar(app.Context())
	requireT.False(broken)
}

func TestAppModule_QueryService(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	am := fanledger.NewAppModule(app.Keeper)

	res, err := am.QueryService().Params(app.Context(), &types.QueryParamsRequest{})
	requireT.NoError(err)
	requireT.Equal(types.DefaultDenom, res.Params.Denom)
	requireT.NotNil(am.GetQueryCmd())
	requireT.Nil(am.GetTxCmd())
	requireT.Equal(uint64(1), am.ConsensusVersion())
}
