package keeper_test

import (
	"encoding/json"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/fanledger/testutil/simapp"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

const (
	cliff       = 2_592_000
	periodicity = 604_800
)

func newSchedule(beneficiary, parent sdk.AccAddress, total int64, transfer bool) types.VestingSchedule {
	schedule := types.VestingSchedule{
		Beneficiary:               beneficiary.String(),
		InitialAmount:             sdkmath.MinInt(amt(1_000), amt(total)),
		Periodicity:               periodicity,
		AmountPerPeriod:           amt(100),
		TotalAmount:               amt(total),
		CliffPeriod:               cliff,
		ShouldTransferImmediately: transfer,
	}
	if parent != nil {
		schedule.ParentCategory = parent.String()
	}
	return schedule
}

func TestVesting_CliffAndPeriods(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	k := app.Keeper
	app.MintAndSendCoin(t, app.Admin, amt(20_000))

	claimer := simapp.GenAccount()
	observer := simapp.GenAccount()
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(claimer, nil, 5_000, true)))
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(observer, nil, 5_000, true)))
	requireBalance(t, app, app.Admin, 10_000)
	requireCustody(t, app, claimer, 5_000)

	// only the initial amount is claimable before the cliff
	claimed, err := k.Claim(app.Context(), claimer)
	requireT.NoError(err)
	requireT.Equal("1000", claimed.String())
	requireBalance(t, app, claimer, 1_000)
	_, err = k.Claim(app.Context(), claimer)
	requireT.ErrorIs(err, types.ErrNothingToClaim)

	app.AdvanceTime(cliff - 1)
	_, err = k.Claim(app.Context(), claimer)
	requireT.ErrorIs(err, types.ErrNothingToClaim)

	app.AdvanceTime(1 + 2*periodicity)
	schedule, err := k.GetVesting(app.Context(), claimer)
	requireT.NoError(err)
	requireT.Equal("200", schedule.AvailableToClaim.String())
	schedule, err = k.GetVesting(app.Context(), observer)
	requireT.NoError(err)
	requireT.Equal("1200", schedule.AvailableToClaim.String())

	claimed, err = k.Claim(app.Context(), claimer)
	requireT.NoError(err)
	requireT.Equal("200", claimed.String())

	schedule, err = k.GetVesting(app.Context(), claimer)
	requireT.NoError(err)
	requireT.Equal("1200", schedule.TotalClaimed.String())
	requireT.Equal("1000", schedule.InitialConsumed.String())
	requireT.Equal(app.BlockTime(), schedule.LastClaimedTimestamp)
	requireT.True(schedule.AvailableToClaim.IsZero())
	requireBalance(t, app, claimer, 1_200)
	requireCustody(t, app, claimer, 3_800)
	requireConserved(t, app)
}

func TestVesting_ClaimedNeverExceedsTotal(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	k := app.Keeper
	app.MintAndSendCoin(t, app.Admin, amt(1_500))

	beneficiary := simapp.GenAccount()
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(beneficiary, nil, 1_450, true)))
	app.AdvanceTime(cliff)

	previous := sdkmath.ZeroInt()
	for i := 0; i < 10; i++ {
		_, err := k.Claim(app.Context(), beneficiary)
		if err != nil {
			requireT.ErrorIs(err, types.ErrNothingToClaim)
		}
		schedule, err := k.GetVesting(app.Context(), beneficiary)
		requireT.NoError(err)
		requireT.True(schedule.TotalClaimed.GTE(previous))
		requireT.True(schedule.TotalClaimed.LTE(schedule.TotalAmount))
		previous = schedule.TotalClaimed
		app.AdvanceTime(periodicity)
	}

	requireT.Equal("1450", previous.String())
	requireBalance(t, app, beneficiary, 1_450)
	requireCustody(t, app, beneficiary, 0)
	requireConserved(t, app)
}

func TestVesting_AllowanceMode(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	k := app.Keeper
	app.MintAndSendCoin(t, app.Admin, amt(5_000))

	beneficiary := simapp.GenAccount()
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(beneficiary, nil, 5_000, false)))

	claimed, err := k.Claim(app.Context(), beneficiary)
	requireT.NoError(err)
	requireT.Equal("1000", claimed.String())
	requireBalance(t, app, beneficiary, 0)
	requireT.Equal(
		sdk.NewCoins(sdk.NewCoin(app.Denom(), amt(1_000))).String(),
		app.AuthzKeeper.SpendLimit(app.Context(), beneficiary, k.ModuleAddress()).String(),
	)

	app.AdvanceTime(cliff + periodicity)
	claimed, err = k.Claim(app.Context(), beneficiary)
	requireT.NoError(err)
	requireT.Equal("100", claimed.String())
	requireT.Equal(
		sdk.NewCoins(sdk.NewCoin(app.Denom(), amt(1_100))).String(),
		app.AuthzKeeper.SpendLimit(app.Context(), beneficiary, k.ModuleAddress()).String(),
	)
	// the allowance is backed by the module balance
	requireT.Equal("5000", app.ModuleBalance().String())
	requireCustody(t, app, beneficiary, 3_900)
	requireConserved(t, app)
}

func TestCreateVestingSchedule_Validation(t *testing.T) {
	existing := simapp.GenAccount()

	testCases := []struct {
		name     string
		caller   func(app *simapp.App) sdk.AccAddress
		schedule func() types.VestingSchedule
		err      error
	}{
		{
			name:   "not_admin",
			caller: func(*simapp.App) sdk.AccAddress { return existing },
			schedule: func() types.VestingSchedule {
				return newSchedule(simapp.GenAccount(), nil, 1_000, true)
			},
			err: types.ErrUnauthorized,
		},
		{
			name: "duplicate_beneficiary",
			schedule: func() types.VestingSchedule {
				return newSchedule(existing, nil, 1_000, true)
			},
			err: types.ErrAlreadyExists,
		},
		{
			name: "unknown_parent",
			schedule: func() types.VestingSchedule {
				return newSchedule(simapp.GenAccount(), simapp.GenAccount(), 1_000, true)
			},
			err: types.ErrNotFound,
		},
		{
			name: "own_parent",
			schedule: func() types.VestingSchedule {
				addr := simapp.GenAccount()
				return newSchedule(addr, addr, 1_000, true)
			},
			err: types.ErrInvalidInput,
		},
		{
			name: "initial_above_total",
			schedule: func() types.VestingSchedule {
				schedule := newSchedule(simapp.GenAccount(), nil, 500, true)
				schedule.InitialAmount = amt(600)
				return schedule
			},
			err: types.ErrInvalidInput,
		},
		{
			name: "periodic_without_periodicity",
			schedule: func() types.VestingSchedule {
				schedule := newSchedule(simapp.GenAccount(), nil, 500, true)
				schedule.Periodicity = 0
				return schedule
			},
			err: types.ErrInvalidInput,
		},
		{
			name: "admin_cannot_fund",
			schedule: func() types.VestingSchedule {
				return newSchedule(simapp.GenAccount(), nil, 100_000, true)
			},
			err: types.ErrTransferFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requireT := require.New(t)
			app := simapp.New()
			app.MintAndSendCoin(t, app.Admin, amt(5_000))
			requireT.NoError(app.Keeper.CreateVestingSchedule(
				app.Context(), app.Admin, newSchedule(existing, nil, 1_000, true),
			))

			caller := app.Admin
			if tc.caller != nil {
				caller = tc.caller(app)
			}
			err := app.Keeper.CreateVestingSchedule(app.Context(), caller, tc.schedule())
			requireT.ErrorIs(err, tc.err)
			requireBalance(t, app, app.Admin, 4_000)
			requireConserved(t, app)
		})
	}
}

func TestReportRollup(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	k := app.Keeper
	app.MintAndSendCoin(t, app.Admin, amt(10_000))

	root := simapp.GenAccount()
	child1 := simapp.GenAccount()
	child2 := simapp.GenAccount()
	grandchild := simapp.GenAccount()
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(root, nil, 100, true)))
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(child1, root, 200, true)))
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(child2, root, 300, true)))
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(grandchild, child1, 400, true)))

	_, err := k.Claim(app.Context(), child2)
	requireT.NoError(err)

	rollup, err := k.ReportRollup(app.Context(), root)
	requireT.NoError(err)
	requireT.Equal(root.String(), rollup.Category)
	requireT.Equal(uint64(3), rollup.Descendants)
	requireT.Equal("1000", rollup.TotalAmount.String())
	requireT.Equal("300", rollup.TotalClaimed.String())
	requireT.Equal("700", rollup.AvailableToClaim.String())
	requireT.Len(rollup.Members, 4)
	requireT.Equal(root.String(), rollup.Members[0])
	requireT.Equal(grandchild.String(), rollup.Members[3])
	requireT.ElementsMatch([]string{child1.String(), child2.String()}, rollup.Members[1:3])

	rollup, err = k.ReportRollup(app.Context(), child1)
	requireT.NoError(err)
	requireT.Equal(uint64(1), rollup.Descendants)
	requireT.Equal("600", rollup.TotalAmount.String())

	rollup, err = k.ReportRollup(app.Context(), grandchild)
	requireT.NoError(err)
	requireT.Zero(rollup.Descendants)
	requireT.Equal([]string{grandchild.String()}, rollup.Members)

	_, err = k.ReportRollup(app.Context(), simapp.GenAccount())
	requireT.ErrorIs(err, types.ErrNotFound)
}

func TestUpdateVestingRewards(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	k := app.Keeper
	app.MintAndSendCoin(t, app.Admin, amt(10_000))

	b1 := simapp.GenAccount()
	b2 := simapp.GenAccount()
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(b1, nil, 1_000, true)))
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(b2, nil, 1_000, true)))

	entries := []types.VestingRewardEntry{
		{Beneficiary: b1.String(), Amount: amt(10)},
		{Beneficiary: b2.String(), Amount: amt(20)},
	}
	requireT.NoError(k.UpdateVestingRewards(app.Context(), app.Admin, entries))
	requireBalance(t, app, app.Admin, 7_970)

	schedule, err := k.GetVesting(app.Context(), b1)
	requireT.NoError(err)
	requireT.Equal("1010", schedule.TotalAmount.String())
	schedule, err = k.GetVesting(app.Context(), b2)
	requireT.NoError(err)
	requireT.Equal("1020", schedule.TotalAmount.String())
	requireCustody(t, app, b2, 1_020)

	requireT.ErrorIs(k.UpdateVestingRewards(app.Context(), b1, entries), types.ErrUnauthorized)
	requireT.ErrorIs(k.UpdateVestingRewards(app.Context(), app.Admin, []types.VestingRewardEntry{
		{Beneficiary: simapp.GenAccount().String(), Amount: amt(5)},
	}), types.ErrNotFound)
	requireBalance(t, app, app.Admin, 7_970)
	requireConserved(t, app)
}

func TestUpdateVestingRewards_ReceiveHook(t *testing.T) {
	requireT := require.New(t)
	app := simapp.New()
	k := app.Keeper
	app.MintAndSendCoin(t, app.Admin, amt(10_000))

	b1 := simapp.GenAccount()
	b2 := simapp.GenAccount()
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(b1, nil, 1_000, true)))
	requireT.NoError(k.CreateVestingSchedule(app.Context(), app.Admin, newSchedule(b2, nil, 1_000, true)))

	msg, err := json.Marshal(map[string]any{
		types.CommandVestingRewards: types.VestingRewardsCommand{Entries: []types.VestingRewardEntry{
			{Beneficiary: b1.String(), Amount: amt(10)},
			{Beneficiary: b2.String(), Amount: amt(20)},
		}},
	})
	requireT.NoError(err)

	// the received amount must match the entries
	requireT.ErrorIs(k.Receive(app.Context(), app.Admin, amt(31), msg), types.ErrInvalidInput)
	requireBalance(t, app, app.Admin, 8_000)

	requireT.NoError(k.Receive(app.Context(), app.Admin, amt(30), msg))
	requireBalance(t, app, app.Admin, 7_970)
	schedule, err := k.GetVesting(app.Context(), b2)
	requireT.NoError(err)
	requireT.Equal("1020", schedule.TotalAmount.String())

	outsider := fundedAccount(t, app, 100)
	requireT.ErrorIs(k.Receive(app.Context(), outsider, amt(30), msg), types.ErrUnauthorized)
	requireBalance(t, app, outsider, 100)
	requireConserved(t, app)
}
