package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/fanledger/testutil/simapp"
	"github.com/tokenize-x/fanledger/x/fanledger/keeper"
)

func amt(n int64) sdkmath.Int {
	return sdkmath.NewInt(n)
}

func fundedAccount(t *testing.T, app *simapp.App, amount int64) sdk.AccAddress {
	t.Helper()
	addr := simapp.GenAccount()
	app.MintAndSendCoin(t, addr, amt(amount))
	return addr
}

func requireConserved(t *testing.T, app *simapp.App) {
	t.Helper()
	msg, broken := keeper.ConservationInvariant(app.Keeper)(app.Context())
	require.False(t, broken, msg)
}

func requireBalance(t *testing.T, app *simapp.App, addr sdk.AccAddress, expected int64) {
	t.Helper()
	require.Equal(t, amt(expected).String(), app.Balance(addr).String(), "balance of %s", addr)
}

func requireCustody(t *testing.T, app *simapp.App, addr sdk.AccAddress, expected int64) {
	t.Helper()
	custody, err := app.Keeper.GetCustody(app.Context(), addr)
	require.NoError(t, err)
	require.Equal(t, amt(expected).String(), custody.String(), "custody of %s", addr)
}
