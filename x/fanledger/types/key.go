package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name.
	ModuleName = "fanledger"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName
)

// KVStore keys.
var (
	ParamsKey            = collections.NewPrefix(0)
	ClubOwnershipKey     = collections.NewPrefix(1)
	ClubStakeKey         = collections.NewPrefix(2)
	StakeSequenceKey     = collections.NewPrefix(3)
	CustodyKey           = collections.NewPrefix(4)
	RewardAccumulatorKey = collections.NewPrefix(5)
	VestingScheduleKey   = collections.NewPrefix(6)
	VestingChildrenKey   = collections.NewPrefix(7)
	PoolTypeKey          = collections.NewPrefix(8)
	PoolKey              = collections.NewPrefix(9)
	PoolSequenceKey      = collections.NewPrefix(10)
	TeamEntryKey         = collections.NewPrefix(11)
	PoolTeamIndexKey     = collections.NewPrefix(12)
)
