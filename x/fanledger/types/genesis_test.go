package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestDefaultGenesisState(t *testing.T) {
	requireT := require.New(t)
	genesis := DefaultGenesisState()
	requireT.NoError(genesis.Validate())
	requireT.Equal(uint64(1), genesis.NextPoolID)
}

func newVesting(beneficiary, parent string) VestingSchedule {
	return VestingSchedule{
		Beneficiary:      beneficiary,
		InitialAmount:    sdkmath.NewInt(10),
		InitialConsumed:  sdkmath.ZeroInt(),
		Periodicity:      10,
		AmountPerPeriod:  sdkmath.NewInt(5),
		TotalAmount:      sdkmath.NewInt(100),
		TotalClaimed:     sdkmath.ZeroInt(),
		AvailableToClaim: sdkmath.ZeroInt(),
		ParentCategory:   parent,
	}
}

func TestGenesisState_Validate(t *testing.T) {
	addr1 := sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()
	addr2 := sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()
	addr3 := sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address()).String()

	testCases := []struct {
		name      string
		modify    func(g *GenesisState)
		expectErr bool
		errMsg    string
	}{
		{
			name:   "default",
			modify: func(g *GenesisState) {},
		},
		{
			name: "valid_club_and_stake",
			modify: func(g *GenesisState) {
				g.Clubs = []ClubOwnership{{
					ClubName: "alpha", Owner: addr1, LockingPeriod: 10, PricePaid: sdkmath.NewInt(100),
				}}
				g.Stakes = []ClubStake{{
					ClubName: "alpha", Staker: addr2, StakedAmount: sdkmath.NewInt(5), Duration: 1,
					RewardIndex: sdkmath.LegacyZeroDec(), PendingReward: sdkmath.ZeroInt(),
				}}
				g.NextStakeSequence = 1
				g.RewardAccumulator.TotalStaked = sdkmath.NewInt(5)
			},
		},
		{
			name: "stake_without_club",
			modify: func(g *GenesisState) {
				g.Stakes = []ClubStake{{
					ClubName: "alpha", Staker: addr2, StakedAmount: sdkmath.NewInt(5), Duration: 1,
					RewardIndex: sdkmath.LegacyZeroDec(), PendingReward: sdkmath.ZeroInt(),
				}}
				g.NextStakeSequence = 1
				g.RewardAccumulator.TotalStaked = sdkmath.NewInt(5)
			},
			expectErr: true,
			errMsg:    "club alpha",
		},
		{
			name: "total_staked_mismatch",
			modify: func(g *GenesisState) {
				g.RewardAccumulator.TotalStaked = sdkmath.NewInt(5)
			},
			expectErr: true,
			errMsg:    "total staked",
		},
		{
			name: "duplicate_club",
			modify: func(g *GenesisState) {
				club := ClubOwnership{ClubName: "alpha", Owner: addr1, PricePaid: sdkmath.NewInt(1)}
				g.Clubs = []ClubOwnership{club, club}
			},
			expectErr: true,
			errMsg:    "club alpha",
		},
		{
			name: "vesting_tree",
			modify: func(g *GenesisState) {
				g.VestingSchedules = []VestingSchedule{
					newVesting(addr1, ""),
					newVesting(addr2, addr1),
					newVesting(addr3, addr2),
				}
			},
		},
		{
			name: "vesting_missing_parent",
			modify: func(g *GenesisState) {
				g.VestingSchedules = []VestingSchedule{newVesting(addr2, addr1)}
			},
			expectErr: true,
			errMsg:    "parent category",
		},
		{
			name: "vesting_cycle",
			modify: func(g *GenesisState) {
				g.VestingSchedules = []VestingSchedule{
					newVesting(addr1, addr3),
					newVesting(addr2, addr1),
					newVesting(addr3, addr2),
				}
			},
			expectErr: true,
			errMsg:    "cycle",
		},
		{
			name: "pool_with_unknown_type",
			modify: func(g *GenesisState) {
				g.Pools = []Pool{{PoolID: 1, PoolType: "weekly", State: PoolStateOpen}}
				g.NextPoolID = 2
			},
			expectErr: true,
			errMsg:    "pool type weekly",
		},
		{
			name: "pool_id_not_below_next",
			modify: func(g *GenesisState) {
				g.Pools = []Pool{{PoolID: 1, PoolType: "weekly", State: PoolStateOpen}}
			},
			expectErr: true,
			errMsg:    "out of range",
		},
		{
			name: "negative_custody",
			modify: func(g *GenesisState) {
				g.Custody = []CustodyBalance{{Address: addr1, Amount: sdkmath.NewInt(-1)}}
			},
			expectErr: true,
			errMsg:    "non-negative",
		},
		{
			name: "zero_next_pool_id",
			modify: func(g *GenesisState) {
				g.NextPoolID = 0
			},
			expectErr: true,
			errMsg:    "next pool id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requireT := require.New(t)
			genesis := DefaultGenesisState()
			tc.modify(genesis)

			err := genesis.Validate()
			if tc.expectErr {
				requireT.Error(err)
				requireT.Contains(err.Error(), tc.errMsg)
				return
			}
			requireT.NoError(err)
		})
	}
}
