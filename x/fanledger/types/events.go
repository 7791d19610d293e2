package types

// Event types.
const (
	EventTypeClubOwnershipTaken     = "club_ownership_taken"
	EventTypeStaked                 = "staked"
	EventTypeUnstaked               = "unstaked"
	EventTypeStakingRewardClaimed   = "staking_reward_claimed"
	EventTypeRewardDistributed      = "staking_reward_distributed"
	EventTypeVestingCreated         = "vesting_schedule_created"
	EventTypeVestingClaimed         = "vesting_claimed"
	EventTypeVestingRewardsAdded    = "vesting_rewards_added"
	EventTypePoolTypeSet            = "pool_type_set"
	EventTypePoolCreated            = "pool_created"
	EventTypeBidSubmitted           = "bid_submitted"
	EventTypePoolLocked             = "pool_locked"
	EventTypePoolCancelled          = "pool_cancelled"
	EventTypePoolRewardsDistributed = "pool_rewards_distributed"
	EventTypePoolRewardClaimed      = "pool_reward_claimed"
	EventTypePoolRefundClaimed      = "pool_refund_claimed"
	EventTypeFeeWalletsSet          = "platform_fee_wallets_set"
)

// Event attributes.
const (
	AttributeKeyClubName     = "club_name"
	AttributeKeyOwner        = "owner"
	AttributeKeyPriorOwner   = "prior_owner"
	AttributeKeyPrice        = "price"
	AttributeKeyStaker       = "staker"
	AttributeKeyAmount       = "amount"
	AttributeKeyReward       = "reward"
	AttributeKeyDuration     = "duration"
	AttributeKeyBeneficiary  = "beneficiary"
	AttributeKeyParent       = "parent_category"
	AttributeKeyMode         = "mode"
	AttributeKeyPoolID       = "pool_id"
	AttributeKeyPoolType     = "pool_type"
	AttributeKeyGamer        = "gamer"
	AttributeKeyTeamID       = "team_id"
	AttributeKeyGameID       = "game_id"
	AttributeKeyPlatformFee  = "platform_fee"
	AttributeKeyTotalStake   = "total_stake"
	AttributeKeyWalletCount  = "wallet_count"
	AttributeKeyRewardPerStk = "reward_per_share"
)

// Vesting claim modes.
const (
	ClaimModeTransfer  = "transfer"
	ClaimModeAllowance = "allowance"
)
