package keeper_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/fanledger/testutil/simapp"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

func TestReceive_Dispatch(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	k := app.Keeper

	owner := fundedAccount(t, app, 1_000)
	staker := fundedAccount(t, app, 1_000)

	buyClub, err := json.Marshal(types.ReceiveCommand{BuyClub: &types.BuyClubCommand{ClubName: "alpha"}})
	requireT.NoError(err)
	requireT.NoError(k.Receive(app.Context(), owner, amt(100), buyClub))

	club, err := k.GetClub(app.Context(), "alpha")
	requireT.NoError(err)
	requireT.Equal(owner.String(), club.Owner)
	requireT.Equal("100", club.PricePaid.String())

	stake := []byte(`{"stake":{"club_name":"alpha","duration":3600}}`)
	requireT.NoError(k.Receive(app.Context(), staker, amt(250), stake))
	stakes, err := k.GetClubStakes(app.Context(), "alpha")
	requireT.NoError(err)
	requireT.Len(stakes, 1)
	requireT.Equal("250", stakes[0].StakedAmount.String())
	requireT.Equal(uint64(3600), stakes[0].Duration)

	requireBalance(t, app, owner, 900)
	requireBalance(t, app, staker, 750)
	requireT.Equal("350", app.ModuleBalance().String())
	requireConserved(t, app)
}

func TestReceive_Rejected(t *testing.T) {
	testCases := []struct {
		name   string
		msg    string
		amount int64
		err    error
	}{
		{name: "not_json", msg: `stake`, amount: 10, err: types.ErrUnsupportedCommand},
		{name: "unknown_tag", msg: `{"burn":{}}`, amount: 10, err: types.ErrUnsupportedCommand},
		{name: "two_tags", msg: `{"stake":{"club_name":"alpha","duration":1},"buy_club":{"club_name":"alpha"}}`, amount: 10, err: types.ErrUnsupportedCommand},
		{name: "empty_object", msg: `{}`, amount: 10, err: types.ErrUnsupportedCommand},
		{name: "malformed_body", msg: `{"stake":{"duration":"soon"}}`, amount: 10, err: types.ErrInvalidInput},
		{name: "zero_amount", msg: `{"stake":{"club_name":"alpha","duration":1}}`, amount: 0, err: types.ErrInvalidInput},
		{name: "unknown_club", msg: `{"stake":{"club_name":"beta","duration":1}}`, amount: 10, err: types.ErrNotFound},
		{name: "insufficient_funds", msg: `{"stake":{"club_name":"alpha","duration":1}}`, amount: 10_000, err: types.ErrTransferFailed},
		{name: "unknown_pool", msg: `{"submit_bid":{"pool_id":7,"team_id":"t1","game_id":"g"}}`, amount: 10, err: types.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requireT := require.New(t)
			app := simapp.New()

			owner := fundedAccount(t, app, 1_000)
			requireT.NoError(app.Keeper.TakeOwnership(app.Context(), "alpha", owner, amt(100)))

			sender := fundedAccount(t, app, 1_000)
			err := app.Keeper.Receive(app.Context(), sender, amt(tc.amount), []byte(tc.msg))
			requireT.ErrorIs(err, tc.err)
			requireBalance(t, app, sender, 1_000)
			requireCustody(t, app, sender, 0)
			requireConserved(t, app)
		})
	}
}
