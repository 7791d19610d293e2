package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the full ledger state.
type GenesisState struct {
	Params            Params            `json:"params"`
	Clubs             []ClubOwnership   `json:"clubs"`
	Stakes            []ClubStake       `json:"stakes"`
	Custody           []CustodyBalance  `json:"custody"`
	RewardAccumulator RewardAccumulator `json:"reward_accumulator"`
	VestingSchedules  []VestingSchedule `json:"vesting_schedules"`
	PoolTypes         []PoolType        `json:"pool_types"`
	Pools             []Pool            `json:"pools"`
	TeamEntries       []TeamEntry       `json:"team_entries"`
	NextStakeSequence uint64            `json:"next_stake_sequence"`
	NextPoolID        uint64            `json:"next_pool_id"`
}

// DefaultGenesisState returns genesis state with default values.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params:            DefaultParams(),
		Clubs:             []ClubOwnership{},
		Stakes:            []ClubStake{},
		Custody:           []CustodyBalance{},
		RewardAccumulator: NewRewardAccumulator(),
		VestingSchedules:  []VestingSchedule{},
		PoolTypes:         []PoolType{},
		Pools:             []Pool{},
		TeamEntries:       []TeamEntry{},
		NextStakeSequence: 0,
		NextPoolID:        1,
	}
}

// Validate validates genesis state.
func (m *GenesisState) Validate() error {
	if err := m.Params.ValidateBasic(); err != nil {
		return err
	}
	if m.NextPoolID == 0 {
		return errorsmod.Wrap(ErrInvalidInput, "next pool id must be positive")
	}

	clubs := make(map[string]bool, len(m.Clubs))
	for i, club := range m.Clubs {
		if club.ClubName == "" {
			return errorsmod.Wrapf(ErrInvalidInput, "club %d: name cannot be empty", i)
		}
		if clubs[club.ClubName] {
			return errorsmod.Wrapf(ErrAlreadyExists, "club %s", club.ClubName)
		}
		clubs[club.ClubName] = true
		if _, err := sdk.AccAddressFromBech32(club.Owner); err != nil {
			return errorsmod.Wrapf(ErrInvalidInput, "club %s: invalid owner %s", club.ClubName, club.Owner)
		}
		if club.PricePaid.IsNil() || !club.PricePaid.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidInput, "club %s: price paid must be positive", club.ClubName)
		}
	}

	totalStaked := sdkmath.ZeroInt()
	stakes := make(map[string]bool, len(m.Stakes))
	for i, stake := range m.Stakes {
		if err := stake.Validate(); err != nil {
			return errorsmod.Wrapf(err, "stake %d", i)
		}
		if !clubs[stake.ClubName] {
			return errorsmod.Wrapf(ErrNotFound, "stake %d: club %s", i, stake.ClubName)
		}
		key := stake.ClubName + "/" + stake.Staker
		if stakes[key] {
			return errorsmod.Wrapf(ErrAlreadyExists, "stake %s", key)
		}
		stakes[key] = true
		if stake.Sequence >= m.NextStakeSequence {
			return errorsmod.Wrapf(ErrInvalidInput, "stake %s: sequence %d not below next sequence %d",
				key, stake.Sequence, m.NextStakeSequence)
		}
		totalStaked = totalStaked.Add(stake.StakedAmount)
	}

	acc := m.RewardAccumulator
	if acc.RewardPerShare.IsNil() || acc.TotalStaked.IsNil() || acc.Undistributed.IsNil() || acc.Outstanding.IsNil() {
		return errorsmod.Wrap(ErrInvalidInput, "reward accumulator is incomplete")
	}
	if !acc.TotalStaked.Equal(totalStaked) {
		return errorsmod.Wrapf(ErrInvalidInput, "reward accumulator total staked %s, stakes sum to %s",
			acc.TotalStaked, totalStaked)
	}

	custody := make(map[string]bool, len(m.Custody))
	for _, balance := range m.Custody {
		if _, err := sdk.AccAddressFromBech32(balance.Address); err != nil {
			return errorsmod.Wrapf(ErrInvalidInput, "invalid custody address %s", balance.Address)
		}
		if custody[balance.Address] {
			return errorsmod.Wrapf(ErrAlreadyExists, "custody %s", balance.Address)
		}
		custody[balance.Address] = true
		if balance.Amount.IsNil() || balance.Amount.IsNegative() {
			return errorsmod.Wrapf(ErrInvalidInput, "custody %s: amount must be non-negative", balance.Address)
		}
	}

	if err := validateVestingSchedules(m.VestingSchedules); err != nil {
		return err
	}

	poolTypes := make(map[string]bool, len(m.PoolTypes))
	for _, poolType := range m.PoolTypes {
		if poolTypes[poolType.PoolType] {
			return errorsmod.Wrapf(ErrAlreadyExists, "pool type %s", poolType.PoolType)
		}
		poolTypes[poolType.PoolType] = true
		if err := poolType.Validate(m.Params.PlatformFeeWallets); err != nil {
			return errorsmod.Wrapf(err, "pool type %s", poolType.PoolType)
		}
	}

	pools := make(map[uint64]Pool, len(m.Pools))
	for _, pool := range m.Pools {
		if pool.PoolID == 0 || pool.PoolID >= m.NextPoolID {
			return errorsmod.Wrapf(ErrInvalidInput, "pool id %d out of range 1..%d", pool.PoolID, m.NextPoolID-1)
		}
		if _, ok := pools[pool.PoolID]; ok {
			return errorsmod.Wrapf(ErrAlreadyExists, "pool %d", pool.PoolID)
		}
		if !poolTypes[pool.PoolType] {
			return errorsmod.Wrapf(ErrNotFound, "pool %d: pool type %s", pool.PoolID, pool.PoolType)
		}
		if !pool.State.IsValid() {
			return errorsmod.Wrapf(ErrInvalidInput, "pool %d: invalid state %q", pool.PoolID, pool.State)
		}
		pools[pool.PoolID] = pool
	}

	entries := make(map[string]bool, len(m.TeamEntries))
	teamCounts := make(map[uint64]uint32)
	for _, entry := range m.TeamEntries {
		if _, ok := pools[entry.PoolID]; !ok {
			return errorsmod.Wrapf(ErrNotFound, "team entry %s: pool %d", entry.TeamID, entry.PoolID)
		}
		if _, err := sdk.AccAddressFromBech32(entry.Gamer); err != nil {
			return errorsmod.Wrapf(ErrInvalidInput, "team entry %s: invalid gamer %s", entry.TeamID, entry.Gamer)
		}
		key := fmt.Sprintf("%s/%d/%s", entry.Gamer, entry.PoolID, entry.TeamID)
		if entries[key] {
			return errorsmod.Wrapf(ErrAlreadyExists, "team entry %s", key)
		}
		entries[key] = true
		teamCounts[entry.PoolID]++
	}
	for _, pool := range m.Pools {
		if teamCounts[pool.PoolID] != pool.TeamCount {
			return errorsmod.Wrapf(ErrInvalidInput, "pool %d: team count %d, entries %d",
				pool.PoolID, pool.TeamCount, teamCounts[pool.PoolID])
		}
	}

	return nil
}

func validateVestingSchedules(schedules []VestingSchedule) error {
	byBeneficiary := make(map[string]VestingSchedule, len(schedules))
	for _, schedule := range schedules {
		if err := schedule.ValidateBasic(); err != nil {
			return errorsmod.Wrapf(err, "vesting %s", schedule.Beneficiary)
		}
		if _, ok := byBeneficiary[schedule.Beneficiary]; ok {
			return errorsmod.Wrapf(ErrAlreadyExists, "vesting %s", schedule.Beneficiary)
		}
		byBeneficiary[schedule.Beneficiary] = schedule
	}

	// Parent links must resolve and must not loop.
	for _, schedule := range schedules {
		visited := map[string]bool{schedule.Beneficiary: true}
		parent := schedule.ParentCategory
		for parent != "" {
			if visited[parent] {
				return errorsmod.Wrapf(ErrInvalidConfiguration, "vesting %s: parent category cycle", schedule.Beneficiary)
			}
			visited[parent] = true
			next, ok := byBeneficiary[parent]
			if !ok {
				return errorsmod.Wrapf(ErrNotFound, "vesting %s: parent category %s", schedule.Beneficiary, parent)
			}
			parent = next.ParentCategory
		}
	}
	return nil
}
