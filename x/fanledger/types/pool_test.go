package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func testFeeWallets() []FeeWallet {
	return []FeeWallet{
		{Name: "treasury", Address: sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()},
		{Name: "ops", Address: sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()},
		{Name: "dev", Address: sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()},
	}
}

func validPoolType() PoolType {
	return PoolType{
		PoolType:           "weekly",
		PoolFee:            sdkmath.NewInt(50),
		PlatformFeePercent: 5,
		MinTeams:           2,
		MaxTeamsPerPool:    20,
		MaxTeamsPerGamer:   3,
		WalletPercentages: []WalletPercentage{
			{WalletName: "treasury", Percentage: 40},
			{WalletName: "ops", Percentage: 30},
			{WalletName: "dev", Percentage: 30},
		},
	}
}

func TestPoolType_Validate(t *testing.T) {
	wallets := testFeeWallets()

	testCases := []struct {
		name      string
		modify    func(p *PoolType)
		expectErr bool
		errMsg    string
	}{
		{
			name:   "valid",
			modify: func(p *PoolType) {},
		},
		{
			name: "percentages_below_100",
			modify: func(p *PoolType) {
				p.WalletPercentages[2].Percentage = 29
			},
			expectErr: true,
			errMsg:    "sum to 99",
		},
		{
			name: "unknown_wallet",
			modify: func(p *PoolType) {
				p.WalletPercentages[0].WalletName = "marketing"
			},
			expectErr: true,
			errMsg:    "unknown wallet",
		},
		{
			name: "duplicate_wallet",
			modify: func(p *PoolType) {
				p.WalletPercentages[1].WalletName = "treasury"
			},
			expectErr: true,
			errMsg:    "duplicate wallet",
		},
		{
			name: "min_teams_above_max",
			modify: func(p *PoolType) {
				p.MinTeams = 21
			},
			expectErr: true,
			errMsg:    "min teams",
		},
		{
			name: "zero_min_teams",
			modify: func(p *PoolType) {
				p.MinTeams = 0
			},
			expectErr: true,
			errMsg:    "min teams must be positive",
		},
		{
			name: "gamer_cap_above_pool_cap",
			modify: func(p *PoolType) {
				p.MaxTeamsPerGamer = 21
			},
			expectErr: true,
			errMsg:    "max teams for gamer",
		},
		{
			name: "fee_percent_above_100",
			modify: func(p *PoolType) {
				p.PlatformFeePercent = 101
			},
			expectErr: true,
			errMsg:    "exceeds 100",
		},
		{
			name: "zero_pool_fee",
			modify: func(p *PoolType) {
				p.PoolFee = sdkmath.ZeroInt()
			},
			expectErr: true,
			errMsg:    "pool fee must be positive",
		},
		{
			name: "no_wallets",
			modify: func(p *PoolType) {
				p.WalletPercentages = nil
			},
			expectErr: true,
			errMsg:    "cannot be empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requireT := require.New(t)
			poolType := validPoolType()
			tc.modify(&poolType)

			err := poolType.Validate(wallets)
			if tc.expectErr {
				requireT.ErrorIs(err, ErrInvalidConfiguration)
				requireT.Contains(err.Error(), tc.errMsg)
				return
			}
			requireT.NoError(err)
		})
	}
}

func TestPoolType_PlatformFee(t *testing.T) {
	requireT := require.New(t)
	poolType := validPoolType()

	// 20 teams at 50 each, 5% fee
	requireT.Equal("50", poolType.PlatformFee(sdkmath.NewInt(1000)).String())
	// floor(999 * 5 / 100) = 49
	requireT.Equal("49", poolType.PlatformFee(sdkmath.NewInt(999)).String())
}

func TestTeamEntry_Owed(t *testing.T) {
	requireT := require.New(t)
	entry := TeamEntry{
		BidAmount:    sdkmath.NewInt(50),
		RewardAmount: sdkmath.NewInt(120),
		RefundAmount: sdkmath.NewInt(50),
	}

	requireT.Equal("50", entry.Owed(PoolStateOpen).String())
	requireT.Equal("50", entry.Owed(PoolStateLocked).String())
	requireT.Equal("120", entry.Owed(PoolStateDistributed).String())
	requireT.Equal("50", entry.Owed(PoolStateCancelled).String())

	entry.ClaimedReward = true
	entry.ClaimedRefund = true
	requireT.True(entry.Owed(PoolStateDistributed).IsZero())
	requireT.True(entry.Owed(PoolStateCancelled).IsZero())
}

func TestValidateGameResults(t *testing.T) {
	requireT := require.New(t)
	gamer := sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()

	requireT.NoError(ValidateGameResults([]GameResult{
		{Gamer: gamer, TeamID: "t1", RewardAmount: sdkmath.NewInt(10)},
		{Gamer: gamer, TeamID: "t2", RewardAmount: sdkmath.ZeroInt()},
	}))

	err := ValidateGameResults([]GameResult{
		{Gamer: gamer, TeamID: "t1", RewardAmount: sdkmath.NewInt(10)},
		{Gamer: gamer, TeamID: "t1", RewardAmount: sdkmath.NewInt(5)},
	})
	requireT.ErrorIs(err, ErrInvalidInput)

	err = ValidateGameResults([]GameResult{
		{Gamer: gamer, TeamID: "t1", RewardAmount: sdkmath.NewInt(-1)},
	})
	requireT.ErrorIs(err, ErrInvalidInput)

	err = ValidateGameResults([]GameResult{
		{Gamer: "bad", TeamID: "t1", RewardAmount: sdkmath.NewInt(1)},
	})
	requireT.ErrorIs(err, ErrInvalidInput)
}
