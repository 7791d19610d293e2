package types

import (
	"encoding/json"
	"sort"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/samber/lo"
)

// Receive hook command tags.
const (
	CommandStake          = "stake"
	CommandBuyClub        = "buy_club"
	CommandVestingRewards = "vesting_rewards"
	CommandSubmitBid      = "submit_bid"
)

// StakeCommand stakes the received amount into a club.
type StakeCommand struct {
	ClubName string `json:"club_name"`
	Duration uint64 `json:"duration"`
}

// BuyClubCommand buys or takes over a club with the received amount.
type BuyClubCommand struct {
	ClubName string `json:"club_name"`
}

// VestingRewardEntry tops up one beneficiary.
type VestingRewardEntry struct {
	Beneficiary string      `json:"beneficiary"`
	Amount      sdkmath.Int `json:"amount"`
}

// VestingRewardsCommand spreads the received amount over many beneficiaries.
type VestingRewardsCommand struct {
	Entries []VestingRewardEntry `json:"entries"`
}

// Validate checks that there is at least one entry and every amount is positive.
func (c VestingRewardsCommand) Validate() error {
	if len(c.Entries) == 0 {
		return errorsmod.Wrap(ErrInvalidInput, "no vesting reward entries")
	}
	for i, entry := range c.Entries {
		if entry.Beneficiary == "" {
			return errorsmod.Wrapf(ErrInvalidInput, "entry %d: beneficiary cannot be empty", i)
		}
		if entry.Amount.IsNil() || !entry.Amount.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidInput, "entry %d: amount must be positive", i)
		}
	}
	return nil
}

// Total returns the sum of all entries. Call Validate first.
func (c VestingRewardsCommand) Total() sdkmath.Int {
	return lo.Reduce(c.Entries, func(acc sdkmath.Int, e VestingRewardEntry, _ int) sdkmath.Int {
		return acc.Add(e.Amount)
	}, sdkmath.ZeroInt())
}

// SubmitBidCommand enters a team into a pool with the received amount.
type SubmitBidCommand struct {
	PoolID uint64 `json:"pool_id"`
	TeamID string `json:"team_id"`
	GameID string `json:"game_id"`
}

// ReceiveCommand is the tagged command embedded in a receive hook. Exactly one field is set.
type ReceiveCommand struct {
	Stake          *StakeCommand          `json:"stake,omitempty"`
	BuyClub        *BuyClubCommand        `json:"buy_club,omitempty"`
	VestingRewards *VestingRewardsCommand `json:"vesting_rewards,omitempty"`
	SubmitBid      *SubmitBidCommand      `json:"submit_bid,omitempty"`
}

// ParseReceiveCommand decodes a tagged command. It fails with ErrUnsupportedCommand
// unless the payload carries exactly one known tag.
func ParseReceiveCommand(bz []byte) (ReceiveCommand, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(bz, &tagged); err != nil {
		return ReceiveCommand{}, errorsmod.Wrapf(ErrUnsupportedCommand, "malformed command: %s", err)
	}
	if len(tagged) != 1 {
		tags := lo.Keys(tagged)
		sort.Strings(tags)
		return ReceiveCommand{}, errorsmod.Wrapf(ErrUnsupportedCommand, "expected exactly one command tag, got %v", tags)
	}

	var (
		cmd ReceiveCommand
		dst any
	)
	tag := lo.Keys(tagged)[0]
	raw := tagged[tag]
	switch tag {
	case CommandStake:
		cmd.Stake = &StakeCommand{}
		dst = cmd.Stake
	case CommandBuyClub:
		cmd.BuyClub = &BuyClubCommand{}
		dst = cmd.BuyClub
	case CommandVestingRewards:
		cmd.VestingRewards = &VestingRewardsCommand{}
		dst = cmd.VestingRewards
	case CommandSubmitBid:
		cmd.SubmitBid = &SubmitBidCommand{}
		dst = cmd.SubmitBid
	default:
		return ReceiveCommand{}, errorsmod.Wrapf(ErrUnsupportedCommand, "unknown command %q", tag)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return ReceiveCommand{}, errorsmod.Wrapf(ErrInvalidInput, "malformed %s command: %s", tag, err)
	}
	return cmd, nil
}
