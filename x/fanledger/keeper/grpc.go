package keeper

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// QueryService serves read-only requests for the module.
type QueryService struct {
	keeper Keeper
}

// NewQueryService creates query service.
func NewQueryService(keeper Keeper) QueryService {
	return QueryService{
		keeper: keeper,
	}
}

// Params returns params of the module.
func (qs QueryService) Params(ctx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	params, err := qs.keeper.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryParamsResponse{
		Params: params,
	}, nil
}

// Club returns the ownership and the stakes of a club.
func (qs QueryService) Club(ctx context.Context, req *types.QueryClubRequest) (*types.QueryClubResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	club, err := qs.keeper.GetClub(ctx, req.ClubName)
	if err != nil {
		return nil, err
	}
	stakes, err := qs.keeper.GetClubStakes(ctx, req.ClubName)
	if err != nil {
		return nil, err
	}

	return &types.QueryClubResponse{
		Club:   club,
		Stakes: stakes,
	}, nil
}

// Clubs returns all clubs.
func (qs QueryService) Clubs(ctx context.Context, req *types.QueryClubsRequest) (*types.QueryClubsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	clubs, err := qs.keeper.GetAllClubs(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryClubsResponse{Clubs: clubs}, nil
}

// StakingReward returns the reward a stake could claim now.
func (qs QueryService) StakingReward(
	ctx context.Context,
	req *types.QueryStakingRewardRequest,
) (*types.QueryStakingRewardResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	staker, err := qs.keeper.parseAddress(req.Staker)
	if err != nil {
		return nil, err
	}
	reward, err := qs.keeper.GetStakingReward(ctx, req.ClubName, staker)
	if err != nil {
		return nil, err
	}
	return &types.QueryStakingRewardResponse{Reward: reward}, nil
}

// Vesting returns the vesting schedule of a beneficiary.
func (qs QueryService) Vesting(ctx context.Context, req *types.QueryVestingRequest) (*types.QueryVestingResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	beneficiary, err := qs.keeper.parseAddress(req.Beneficiary)
	if err != nil {
		return nil, err
	}
	vesting, err := qs.keeper.GetVesting(ctx, beneficiary)
	if err != nil {
		return nil, err
	}
	return &types.QueryVestingResponse{Vesting: vesting}, nil
}

// Rollup aggregates a vesting category with its descendants.
func (qs QueryService) Rollup(ctx context.Context, req *types.QueryRollupRequest) (*types.QueryRollupResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	category, err := qs.keeper.parseAddress(req.Category)
	if err != nil {
		return nil, err
	}
	rollup, err := qs.keeper.ReportRollup(ctx, category)
	if err != nil {
		return nil, err
	}
	return &types.QueryRollupResponse{Rollup: rollup}, nil
}

// PoolTypes returns all pool types.
func (qs QueryService) PoolTypes(ctx context.Context, req *types.QueryPoolTypesRequest) (*types.QueryPoolTypesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	poolTypes, err := qs.keeper.GetAllPoolTypes(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryPoolTypesResponse{PoolTypes: poolTypes}, nil
}

// Pool returns a pool with its teams.
func (qs QueryService) Pool(ctx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	pool, err := qs.keeper.GetPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	teams, err := qs.keeper.GetPoolTeams(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.QueryPoolResponse{Pool: pool, Teams: teams}, nil
}

// Pools returns all pools.
func (qs QueryService) Pools(ctx context.Context, req *types.QueryPoolsRequest) (*types.QueryPoolsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	pools, err := qs.keeper.GetAllPools(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryPoolsResponse{Pools: pools}, nil
}

// Teams returns the teams of a gamer, or all teams.
func (qs QueryService) Teams(ctx context.Context, req *types.QueryTeamsRequest) (*types.QueryTeamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	if req.Gamer == "" {
		teams, err := qs.keeper.GetAllTeams(ctx)
		if err != nil {
			return nil, err
		}
		return &types.QueryTeamsResponse{Teams: teams}, nil
	}

	gamer, err := qs.keeper.parseAddress(req.Gamer)
	if err != nil {
		return nil, err
	}
	teams, err := qs.keeper.GetGamerTeams(ctx, gamer)
	if err != nil {
		return nil, err
	}
	return &types.QueryTeamsResponse{Teams: teams}, nil
}

// Custody returns the custody balance of an address.
func (qs QueryService) Custody(ctx context.Context, req *types.QueryCustodyRequest) (*types.QueryCustodyResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	addr, err := qs.keeper.parseAddress(req.Address)
	if err != nil {
		return nil, err
	}
	amount, err := qs.keeper.GetCustody(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &types.QueryCustodyResponse{Amount: amount}, nil
}
