package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/samber/lo"
)

// PoolState is the lifecycle state of a pool.
type PoolState string

// Pool states. Distributed and Cancelled are terminal.
const (
	PoolStateOpen        PoolState = "open"
	PoolStateLocked      PoolState = "locked"
	PoolStateDistributed PoolState = "distributed"
	PoolStateCancelled   PoolState = "cancelled"
)

// IsTerminal reports whether no further transition is possible.
func (s PoolState) IsTerminal() bool {
	return s == PoolStateDistributed || s == PoolStateCancelled
}

// IsValid reports whether s is a known state.
func (s PoolState) IsValid() bool {
	return lo.Contains([]PoolState{PoolStateOpen, PoolStateLocked, PoolStateDistributed, PoolStateCancelled}, s)
}

// WalletPercentage assigns a share of the platform fee to a named fee wallet.
type WalletPercentage struct {
	WalletName string `json:"wallet_name"`
	Percentage uint32 `json:"percentage"`
}

// PoolType is the template instantiated by pools.
type PoolType struct {
	PoolType string `json:"pool_type"`
	// PoolFee is the amount paid for one team entry.
	PoolFee sdkmath.Int `json:"pool_fee"`
	// PlatformFeePercent of the total stake is withheld for the fee wallets.
	PlatformFeePercent uint32             `json:"platform_fee_percent"`
	MinTeams           uint32             `json:"min_teams_for_pool"`
	MaxTeamsPerPool    uint32             `json:"max_teams_for_pool"`
	MaxTeamsPerGamer   uint32             `json:"max_teams_for_gamer"`
	WalletPercentages  []WalletPercentage `json:"wallet_percentages"`
}

// Percentages returns the wallet percentages in declaration order.
func (p PoolType) Percentages() []uint32 {
	return lo.Map(p.WalletPercentages, func(w WalletPercentage, _ int) uint32 {
		return w.Percentage
	})
}

// PlatformFee returns the fee withheld from totalStake.
func (p PoolType) PlatformFee(totalStake sdkmath.Int) sdkmath.Int {
	return totalStake.MulRaw(int64(p.PlatformFeePercent)).QuoRaw(100)
}

// Validate validates the pool type against the configured fee wallets.
func (p PoolType) Validate(wallets []FeeWallet) error {
	if p.PoolType == "" {
		return errorsmod.Wrap(ErrInvalidConfiguration, "pool type cannot be empty")
	}
	if p.PoolFee.IsNil() || !p.PoolFee.IsPositive() {
		return errorsmod.Wrap(ErrInvalidConfiguration, "pool fee must be positive")
	}
	if p.PlatformFeePercent > 100 {
		return errorsmod.Wrapf(ErrInvalidConfiguration, "platform fee percent %d exceeds 100", p.PlatformFeePercent)
	}
	if p.MinTeams == 0 {
		return errorsmod.Wrap(ErrInvalidConfiguration, "min teams must be positive")
	}
	if p.MinTeams > p.MaxTeamsPerPool {
		return errorsmod.Wrapf(
			ErrInvalidConfiguration, "min teams %d exceeds max teams for pool %d", p.MinTeams, p.MaxTeamsPerPool,
		)
	}
	if p.MaxTeamsPerGamer == 0 || p.MaxTeamsPerGamer > p.MaxTeamsPerPool {
		return errorsmod.Wrapf(
			ErrInvalidConfiguration, "max teams for gamer must be within 1..%d", p.MaxTeamsPerPool,
		)
	}

	if len(p.WalletPercentages) == 0 {
		return errorsmod.Wrap(ErrInvalidConfiguration, "wallet percentages cannot be empty")
	}
	walletNames := lo.Map(wallets, func(w FeeWallet, _ int) string { return w.Name })
	seen := make(map[string]bool)
	var sum uint64
	for i, wp := range p.WalletPercentages {
		if !lo.Contains(walletNames, wp.WalletName) {
			return errorsmod.Wrapf(ErrInvalidConfiguration, "wallet percentage %d: unknown wallet %q", i, wp.WalletName)
		}
		if seen[wp.WalletName] {
			return errorsmod.Wrapf(ErrInvalidConfiguration, "wallet percentage %d: duplicate wallet %q", i, wp.WalletName)
		}
		seen[wp.WalletName] = true
		sum += uint64(wp.Percentage)
	}
	if sum != 100 {
		return errorsmod.Wrapf(ErrInvalidConfiguration, "wallet percentages sum to %d, expected 100", sum)
	}
	return nil
}

// Pool is one game pool instance.
type Pool struct {
	PoolID      uint64      `json:"pool_id"`
	PoolType    string      `json:"pool_type"`
	State       PoolState   `json:"state"`
	TeamCount   uint32      `json:"team_count"`
	TotalStake  sdkmath.Int `json:"total_stake"`
	PlatformFee sdkmath.Int `json:"platform_fee"`
	CreatedAt   uint64      `json:"created_at"`
	SettledAt   uint64      `json:"settled_at"`
	// Terms is the pool type as it was when the pool was created.
	Terms PoolType `json:"terms"`
}

// TeamEntry is a gamer's team in a pool.
type TeamEntry struct {
	Gamer         string      `json:"gamer"`
	PoolID        uint64      `json:"pool_id"`
	TeamID        string      `json:"team_id"`
	GameID        string      `json:"game_id"`
	BidAmount     sdkmath.Int `json:"bid_amount"`
	RewardAmount  sdkmath.Int `json:"reward_amount"`
	ClaimedReward bool        `json:"claimed_reward"`
	RefundAmount  sdkmath.Int `json:"refund_amount"`
	ClaimedRefund bool        `json:"claimed_refund"`
	TeamPoints    uint64      `json:"team_points"`
	TeamRank      uint32      `json:"team_rank"`
}

// Owed returns what the ledger still holds for the entry in a pool with the given state.
func (e TeamEntry) Owed(state PoolState) sdkmath.Int {
	switch state {
	case PoolStateOpen, PoolStateLocked:
		return e.BidAmount
	case PoolStateDistributed:
		if e.ClaimedReward {
			return sdkmath.ZeroInt()
		}
		return e.RewardAmount
	case PoolStateCancelled:
		if e.ClaimedRefund {
			return sdkmath.ZeroInt()
		}
		return e.RefundAmount
	default:
		return sdkmath.ZeroInt()
	}
}

// GameResult declares the outcome of one team.
type GameResult struct {
	Gamer        string      `json:"gamer"`
	TeamID       string      `json:"team_id"`
	RewardAmount sdkmath.Int `json:"reward_amount"`
	TeamPoints   uint64      `json:"team_points"`
	TeamRank     uint32      `json:"team_rank"`
}

// ValidateGameResults checks results for malformed and duplicated entries.
func ValidateGameResults(results []GameResult) error {
	seen := make(map[string]bool)
	for i, result := range results {
		if _, err := sdk.AccAddressFromBech32(result.Gamer); err != nil {
			return errorsmod.Wrapf(ErrInvalidInput, "result %d: invalid gamer address %s", i, result.Gamer)
		}
		if result.TeamID == "" {
			return errorsmod.Wrapf(ErrInvalidInput, "result %d: team id cannot be empty", i)
		}
		if result.RewardAmount.IsNil() || result.RewardAmount.IsNegative() {
			return errorsmod.Wrapf(ErrInvalidInput, "result %d: reward must be non-negative", i)
		}
		key := result.Gamer + "/" + result.TeamID
		if seen[key] {
			return errorsmod.Wrapf(ErrInvalidInput, "result %d: duplicate team %s", i, key)
		}
		seen[key] = true
	}
	return nil
}
