package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/fanledger/testutil/simapp"
	"github.com/tokenize-x/fanledger/x/fanledger/keeper"
)

func TestConservationInvariant(t *testing.T) {
	testCases := []struct {
		name    string
		corrupt func(t *testing.T, app *simapp.App)
		broken  bool
	}{
		{
			name:    "consistent",
			corrupt: func(*testing.T, *simapp.App) {},
		},
		{
			name: "custody_above_records",
			corrupt: func(t *testing.T, app *simapp.App) {
				owner := simapp.GenAccount()
				require.NoError(t, app.Keeper.Custody.Set(app.Context(), owner, amt(1)))
			},
			broken: true,
		},
		{
			name: "custody_below_records",
			corrupt: func(t *testing.T, app *simapp.App) {
				club, err := app.Keeper.GetClub(app.Context(), "alpha")
				require.NoError(t, err)
				club.PricePaid = club.PricePaid.AddRaw(1)
				require.NoError(t, app.Keeper.Clubs.Set(app.Context(), "alpha", club))
			},
			broken: true,
		},
		{
			name: "module_balance_short",
			corrupt: func(t *testing.T, app *simapp.App) {
				thief := simapp.GenAccount()
				require.NoError(t, app.BankKeeper.SendCoins(
					app.Context(), app.Keeper.ModuleAddress(), thief, sdk.NewCoins(sdk.NewCoin(app.Denom(), amt(1))),
				))
			},
			broken: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requireT := require.New(t)
			app := simapp.New()
			owner := fundedAccount(t, app, 1_000)
			requireT.NoError(app.Keeper.TakeOwnership(app.Context(), "alpha", owner, amt(100)))

			tc.corrupt(t, app)
			msg, broken := keeper.ConservationInvariant(app.Keeper)(app.Context())
			requireT.Equal(tc.broken, broken, msg)
		})
	}
}
