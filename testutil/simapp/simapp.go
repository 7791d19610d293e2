// Package simapp bootstraps the ledger keeper on an in-memory multistore.
package simapp

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/fanledger/x/fanledger/keeper"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

const (
	bankStoreKey  = "bank"
	authzStoreKey = "authz"
)

// Settings for the simapp initialization.
type Settings struct {
	db        dbm.DB
	logger    log.Logger
	startTime time.Time
	genesis   *types.GenesisState
}

// Option represents simapp customisations.
type Option func(settings Settings) Settings

// WithCustomDB returns the simapp Option to run with different DB.
func WithCustomDB(db dbm.DB) Option {
	return func(s Settings) Settings {
		s.db = db
		return s
	}
}

// WithCustomLogger returns the simapp Option to run with different logger.
func WithCustomLogger(logger log.Logger) Option {
	return func(s Settings) Settings {
		s.logger = logger
		return s
	}
}

// WithStartTime returns the simapp Option to run with different start time.
func WithStartTime(startTime time.Time) Option {
	return func(s Settings) Settings {
		s.startTime = startTime
		return s
	}
}

// WithGenesis returns the simapp Option to start from the given ledger genesis.
// The admin address of its params is replaced by the app admin unless set.
func WithGenesis(genesis types.GenesisState) Option {
	return func(s Settings) Settings {
		s.genesis = &genesis
		return s
	}
}

// App is the ledger keeper wired to in-memory collaborators.
type App struct {
	Keeper        keeper.Keeper
	BankKeeper    *BankKeeper
	AuthzKeeper   *AuthzKeeper
	AccountKeeper AccountKeeper
	// Admin is the address configured as the ledger admin.
	Admin sdk.AccAddress

	cms       storetypes.CommitMultiStore
	ctx       sdk.Context
	ledgerKey *storetypes.KVStoreKey
}

// New creates application instance with in-memory database and disabled logging.
func New(options ...Option) *App {
	settings := Settings{
		db:        dbm.NewMemDB(),
		logger:    log.NewNopLogger(),
		startTime: time.Unix(1_700_000_000, 0).UTC(),
	}

	for _, option := range options {
		settings = option(settings)
	}

	ledgerKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey(bankStoreKey)
	authzKey := storetypes.NewKVStoreKey(authzStoreKey)

	cms := store.NewCommitMultiStore(settings.db, settings.logger, storemetrics.NewNoOpMetrics())
	for _, key := range []*storetypes.KVStoreKey{ledgerKey, bankKey, authzKey} {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, settings.db)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		panic(errors.Wrap(err, "can't load multistore"))
	}

	app := &App{
		BankKeeper:  NewBankKeeper(runtime.NewKVStoreService(bankKey)),
		AuthzKeeper: NewAuthzKeeper(runtime.NewKVStoreService(authzKey)),
		Admin:       GenAccount(),
		cms:         cms,
		ledgerKey:   ledgerKey,
	}
	app.Keeper = keeper.NewKeeper(
		runtime.NewKVStoreService(ledgerKey),
		authtypes.NewModuleAddress(govtypes.ModuleName).String(),
		app.AccountKeeper,
		app.BankKeeper,
		app.AuthzKeeper,
		addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
	)
	app.ctx = sdk.NewContext(cms, tmproto.Header{
		Height: 1,
		Time:   settings.startTime,
	}, false, settings.logger)

	genesis := types.DefaultGenesisState()
	if settings.genesis != nil {
		genesis = settings.genesis
	}
	if genesis.Params.AdminAddress == "" {
		genesis.Params.AdminAddress = app.Admin.String()
	}
	if err := genesis.Validate(); err != nil {
		panic(errors.Wrap(err, "invalid genesis"))
	}
	if err := app.Keeper.InitGenesis(app.ctx, *genesis); err != nil {
		panic(errors.Wrap(err, "can't init genesis"))
	}

	return app
}

// Context returns the context of the current block.
func (a *App) Context() sdk.Context {
	return a.ctx
}

// BlockTime returns the current block time in unix seconds.
func (a *App) BlockTime() uint64 {
	return uint64(a.ctx.BlockTime().Unix())
}

// BeginNextBlockAtTime starts a new block at the given time.
func (a *App) BeginNextBlockAtTime(blockTime time.Time) sdk.Context {
	a.ctx = a.ctx.
		WithBlockHeight(a.ctx.BlockHeight() + 1).
		WithBlockTime(blockTime).
		WithEventManager(sdk.NewEventManager())
	return a.ctx
}

// AdvanceTime starts a new block the given number of seconds after the current one.
func (a *App) AdvanceTime(seconds uint64) sdk.Context {
	return a.BeginNextBlockAtTime(a.ctx.BlockTime().Add(time.Duration(seconds) * time.Second))
}

// Commit persists the current state as a new multistore version.
func (a *App) Commit() storetypes.CommitID {
	return a.cms.Commit()
}

// LedgerStore returns the raw ledger store of the current block.
func (a *App) LedgerStore() storetypes.KVStore {
	return a.ctx.KVStore(a.ledgerKey)
}

// Denom returns the ledger denom.
func (a *App) Denom() string {
	params, err := a.Keeper.GetParams(a.ctx)
	if err != nil {
		return types.DefaultDenom
	}
	return params.Denom
}

// FundAccount mints amount of the ledger denom to addr.
func (a *App) FundAccount(addr sdk.AccAddress, amount sdkmath.Int) error {
	return a.BankKeeper.MintCoins(a.ctx, addr, sdk.NewCoins(sdk.NewCoin(a.Denom(), amount)))
}

// MintAndSendCoin funds recipient and fails the test on error.
func (a *App) MintAndSendCoin(t testing.TB, recipient sdk.AccAddress, amount sdkmath.Int) {
	t.Helper()
	require.NoError(t, a.FundAccount(recipient, amount))
}

// Balance returns the ledger denom balance of addr.
func (a *App) Balance(addr sdk.AccAddress) sdkmath.Int {
	return a.BankKeeper.GetBalance(a.ctx, addr, a.Denom()).Amount
}

// ModuleBalance returns the ledger denom balance of the module account.
func (a *App) ModuleBalance() sdkmath.Int {
	return a.Balance(a.Keeper.ModuleAddress())
}

// GenAccount returns a fresh account address.
func GenAccount() sdk.AccAddress {
	return sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())
}
