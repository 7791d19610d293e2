package types

import sdkmath "cosmossdk.io/math"

// QueryParamsRequest is the request type for the Params query.
type QueryParamsRequest struct{}

// QueryParamsResponse is the response type for the Params query.
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryClubRequest is the request type for the Club query.
type QueryClubRequest struct {
	ClubName string `json:"club_name"`
}

// QueryClubResponse returns the ownership of a club and its stakes in arrival order.
type QueryClubResponse struct {
	Club   ClubOwnership `json:"club"`
	Stakes []ClubStake   `json:"stakes"`
}

// QueryClubsRequest is the request type for the Clubs query.
type QueryClubsRequest struct{}

// QueryClubsResponse is the response type for the Clubs query.
type QueryClubsResponse struct {
	Clubs []ClubOwnership `json:"clubs"`
}

// QueryStakingRewardRequest is the request type for the StakingReward query.
type QueryStakingRewardRequest struct {
	ClubName string `json:"club_name"`
	Staker   string `json:"staker"`
}

// QueryStakingRewardResponse is the response type for the StakingReward query.
type QueryStakingRewardResponse struct {
	Reward sdkmath.Int `json:"reward"`
}

// QueryVestingRequest is the request type for the Vesting query.
type QueryVestingRequest struct {
	Beneficiary string `json:"beneficiary"`
}

// QueryVestingResponse is the response type for the Vesting query.
type QueryVestingResponse struct {
	Vesting VestingSchedule `json:"vesting"`
}

// QueryRollupRequest is the request type for the Rollup query.
type QueryRollupRequest struct {
	Category string `json:"category"`
}

// QueryRollupResponse is the response type for the Rollup query.
type QueryRollupResponse struct {
	Rollup VestingRollup `json:"rollup"`
}

// QueryPoolTypesRequest is the request type for the PoolTypes query.
type QueryPoolTypesRequest struct{}

// QueryPoolTypesResponse is the response type for the PoolTypes query.
type QueryPoolTypesResponse struct {
	PoolTypes []PoolType `json:"pool_types"`
}

// QueryPoolRequest is the request type for the Pool query.
type QueryPoolRequest struct {
	PoolID uint64 `json:"pool_id"`
}

// QueryPoolResponse returns a pool with its teams.
type QueryPoolResponse struct {
	Pool  Pool        `json:"pool"`
	Teams []TeamEntry `json:"teams"`
}

// QueryPoolsRequest is the request type for the Pools query.
type QueryPoolsRequest struct{}

// QueryPoolsResponse is the response type for the Pools query.
type QueryPoolsResponse struct {
	Pools []Pool `json:"pools"`
}

// QueryTeamsRequest lists teams of one gamer, or all teams when Gamer is empty.
type QueryTeamsRequest struct {
	Gamer string `json:"gamer,omitempty"`
}

// QueryTeamsResponse is the response type for the Teams query.
type QueryTeamsResponse struct {
	Teams []TeamEntry `json:"teams"`
}

// QueryCustodyRequest is the request type for the Custody query.
type QueryCustodyRequest struct {
	Address string `json:"address"`
}

// QueryCustodyResponse is the response type for the Custody query.
type QueryCustodyResponse struct {
	Amount sdkmath.Int `json:"amount"`
}
