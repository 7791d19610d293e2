package keeper

import (
	"context"

	"cosmossdk.io/collections"
	addresscodec "cosmossdk.io/core/address"
	sdkstore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/tokenize-x/fanledger/pkg/ledgerstore"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// Keeper of the module.
type Keeper struct {
	storeService sdkstore.KVStoreService
	authority    string

	// codec
	addressCodec addresscodec.Codec

	// keepers
	accountKeeper types.AccountKeeper
	bankKeeper    types.BankKeeper
	authzKeeper   types.AuthzKeeper

	// collections
	Schema            collections.Schema
	Params            collections.Item[types.Params]
	Clubs             collections.Map[string, types.ClubOwnership]
	Stakes            collections.Map[collections.Pair[string, sdk.AccAddress], types.ClubStake]
	StakeSequence     collections.Sequence
	Custody           collections.Map[sdk.AccAddress, sdkmath.Int]
	RewardAccumulator collections.Item[types.RewardAccumulator]
	Vestings          collections.Map[sdk.AccAddress, types.VestingSchedule]
	VestingChildren   collections.KeySet[collections.Pair[sdk.AccAddress, sdk.AccAddress]] // parent -> child
	PoolTypes         collections.Map[string, types.PoolType]
	Pools             collections.Map[uint64, types.Pool]
	PoolSequence      collections.Sequence
	TeamEntries       collections.Map[collections.Triple[sdk.AccAddress, uint64, string], types.TeamEntry]
	PoolTeams         collections.KeySet[collections.Triple[uint64, sdk.AccAddress, string]] // pool -> gamer -> team
}

// NewKeeper returns a new keeper object providing storage options required by the module.
func NewKeeper(
	storeService sdkstore.KVStoreService,
	authority string,
	accountKeeper types.AccountKeeper,
	bankKeeper types.BankKeeper,
	authzKeeper types.AuthzKeeper,
	addressCodec addresscodec.Codec,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		storeService:  storeService,
		authority:     authority,
		addressCodec:  addressCodec,
		accountKeeper: accountKeeper,
		bankKeeper:    bankKeeper,
		authzKeeper:   authzKeeper,

		Params: collections.NewItem(
			sb,
			types.ParamsKey,
			"params",
			ledgerstore.JSONValue[types.Params](),
		),
		Clubs: collections.NewMap(
			sb,
			types.ClubOwnershipKey,
			"clubs",
			collections.StringKey,
			ledgerstore.JSONValue[types.ClubOwnership](),
		),
		Stakes: collections.NewMap(
			sb,
			types.ClubStakeKey,
			"club_stakes",
			collections.PairKeyCodec(collections.StringKey, sdk.AccAddressKey),
			ledgerstore.JSONValue[types.ClubStake](),
		),
		StakeSequence: collections.NewSequence(
			sb,
			types.StakeSequenceKey,
			"stake_sequence",
		),
		Custody: collections.NewMap(
			sb,
			types.CustodyKey,
			"custody",
			sdk.AccAddressKey,
			sdk.IntValue,
		),
		RewardAccumulator: collections.NewItem(
			sb,
			types.RewardAccumulatorKey,
			"reward_accumulator",
			ledgerstore.JSONValue[types.RewardAccumulator](),
		),
		Vestings: collections.NewMap(
			sb,
			types.VestingScheduleKey,
			"vesting_schedules",
			sdk.AccAddressKey,
			ledgerstore.JSONValue[types.VestingSchedule](),
		),
		VestingChildren: collections.NewKeySet(
			sb,
			types.VestingChildrenKey,
			"vesting_children",
			collections.PairKeyCodec(sdk.AccAddressKey, sdk.AccAddressKey),
		),
		PoolTypes: collections.NewMap(
			sb,
			types.PoolTypeKey,
			"pool_types",
			collections.StringKey,
			ledgerstore.JSONValue[types.PoolType](),
		),
		Pools: collections.NewMap(
			sb,
			types.PoolKey,
			"pools",
			collections.Uint64Key,
			ledgerstore.JSONValue[types.Pool](),
		),
		PoolSequence: collections.NewSequence(
			sb,
			types.PoolSequenceKey,
			"pool_sequence",
		),
		TeamEntries: collections.NewMap(
			sb,
			types.TeamEntryKey,
			"team_entries",
			collections.TripleKeyCodec(sdk.AccAddressKey, collections.Uint64Key, collections.StringKey),
			ledgerstore.JSONValue[types.TeamEntry](),
		),
		PoolTeams: collections.NewKeySet(
			sb,
			types.PoolTeamIndexKey,
			"pool_teams",
			collections.TripleKeyCodec(collections.Uint64Key, sdk.AccAddressKey, collections.StringKey),
		),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

// Logger returns the module logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetAuthority returns the governance authority of the module.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// ModuleAddress returns the address of the module account holding custody tokens.
func (k Keeper) ModuleAddress() sdk.AccAddress {
	return k.accountKeeper.GetModuleAddress(types.ModuleName)
}

func blockTime(ctx context.Context) uint64 {
	return uint64(sdk.UnwrapSDKContext(ctx).BlockTime().Unix())
}

func (k Keeper) coins(params types.Params, amount sdkmath.Int) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(params.Denom, amount))
}

// pull moves amount from the account into the module account.
func (k Keeper) pull(ctx context.Context, params types.Params, from sdk.AccAddress, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, from, types.ModuleName, k.coins(params, amount)); err != nil {
		return errorsmod.Wrapf(types.ErrTransferFailed, "pull %s%s from %s: %s", amount, params.Denom, from, err)
	}
	return nil
}

// pay moves amount from the module account to the recipient.
func (k Keeper) pay(ctx context.Context, params types.Params, to sdk.AccAddress, amount sdkmath.Int, kind string) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, k.coins(params, amount)); err != nil {
		return errorsmod.Wrapf(types.ErrTransferFailed, "pay %s%s to %s: %s", amount, params.Denom, to, err)
	}
	if amount.IsInt64() {
		telemetry.IncrCounterWithLabels(
			[]string{types.ModuleName, "paid"},
			float32(amount.Int64()),
			[]metrics.Label{telemetry.NewLabel("kind", kind)},
		)
	}
	return nil
}

// GetCustody returns the custody balance of the address.
func (k Keeper) GetCustody(ctx context.Context, addr sdk.AccAddress) (sdkmath.Int, error) {
	return ledgerstore.MapOrDefault(ctx, k.Custody, addr, sdkmath.ZeroInt())
}

func (k Keeper) addCustody(ctx context.Context, addr sdk.AccAddress, amount sdkmath.Int) error {
	balance, err := k.GetCustody(ctx, addr)
	if err != nil {
		return err
	}
	return k.Custody.Set(ctx, addr, balance.Add(amount))
}

func (k Keeper) subCustody(ctx context.Context, addr sdk.AccAddress, amount sdkmath.Int) error {
	balance, err := k.GetCustody(ctx, addr)
	if err != nil {
		return err
	}
	balance = balance.Sub(amount)
	if balance.IsNegative() {
		return errorsmod.Wrapf(types.ErrInvalidState, "custody of %s would drop below zero", addr)
	}
	if balance.IsZero() {
		return k.Custody.Remove(ctx, addr)
	}
	return k.Custody.Set(ctx, addr, balance)
}

// GetRewardAccumulator returns the staking reward accumulator.
func (k Keeper) GetRewardAccumulator(ctx context.Context) (types.RewardAccumulator, error) {
	return ledgerstore.ItemOrDefault(ctx, k.RewardAccumulator, types.NewRewardAccumulator())
}

func (k Keeper) parseAddress(addr string) (sdk.AccAddress, error) {
	bz, err := k.addressCodec.StringToBytes(addr)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidInput, "invalid address %s: %s", addr, err)
	}
	return bz, nil
}
