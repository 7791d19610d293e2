package simapp

import (
	"context"

	"cosmossdk.io/collections"
	sdkstore "cosmossdk.io/core/store"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/pkg/errors"
)

// BankKeeper is a store-backed token ledger. Balances live in the multistore,
// so writes made inside a discarded cache context disappear with it.
type BankKeeper struct {
	balances collections.Map[collections.Pair[sdk.AccAddress, string], sdkmath.Int]
	blocked  map[string]bool
}

// NewBankKeeper returns a bank keeper storing balances under storeService.
func NewBankKeeper(storeService sdkstore.KVStoreService) *BankKeeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := &BankKeeper{
		balances: collections.NewMap(
			sb,
			collections.NewPrefix(0),
			"balances",
			collections.PairKeyCodec(sdk.AccAddressKey, collections.StringKey),
			sdk.IntValue,
		),
		blocked: map[string]bool{},
	}
	if _, err := sb.Build(); err != nil {
		panic(err)
	}
	return k
}

// BlockAddress makes every transfer to addr fail.
func (k *BankKeeper) BlockAddress(addr sdk.AccAddress) {
	k.blocked[addr.String()] = true
}

// UnblockAddress reverts BlockAddress.
func (k *BankKeeper) UnblockAddress(addr sdk.AccAddress) {
	delete(k.blocked, addr.String())
}

// MintCoins credits coins to addr out of thin air.
func (k *BankKeeper) MintCoins(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	for _, coin := range coins {
		if err := k.add(ctx, addr, coin); err != nil {
			return err
		}
	}
	return nil
}

// GetBalance returns the balance of addr in denom.
func (k *BankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	amount, err := k.balances.Get(ctx, collections.Join(addr, denom))
	if err != nil {
		amount = sdkmath.ZeroInt()
	}
	return sdk.NewCoin(denom, amount)
}

// SendCoins moves coins between two accounts.
func (k *BankKeeper) SendCoins(ctx context.Context, from, to sdk.AccAddress, coins sdk.Coins) error {
	if k.blocked[to.String()] {
		return errors.Wrapf(sdkerrors.ErrUnauthorized, "%s is not allowed to receive funds", to)
	}
	for _, coin := range coins {
		balance := k.GetBalance(ctx, from, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return errors.Wrapf(sdkerrors.ErrInsufficientFunds, "%s is smaller than %s", balance, coin)
		}
		if err := k.balances.Set(ctx, collections.Join(from, coin.Denom), balance.Amount.Sub(coin.Amount)); err != nil {
			return err
		}
		if err := k.add(ctx, to, coin); err != nil {
			return err
		}
	}
	return nil
}

// SendCoinsFromAccountToModule moves coins from an account to a module account.
func (k *BankKeeper) SendCoinsFromAccountToModule(
	ctx context.Context,
	senderAddr sdk.AccAddress,
	recipientModule string,
	amt sdk.Coins,
) error {
	return k.SendCoins(ctx, senderAddr, authtypes.NewModuleAddress(recipientModule), amt)
}

// SendCoinsFromModuleToAccount moves coins from a module account to an account.
func (k *BankKeeper) SendCoinsFromModuleToAccount(
	ctx context.Context,
	senderModule string,
	recipientAddr sdk.AccAddress,
	amt sdk.Coins,
) error {
	return k.SendCoins(ctx, authtypes.NewModuleAddress(senderModule), recipientAddr, amt)
}

func (k *BankKeeper) add(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) error {
	balance := k.GetBalance(ctx, addr, coin.Denom)
	return k.balances.Set(ctx, collections.Join(addr, coin.Denom), balance.Amount.Add(coin.Amount))
}

// AccountKeeper resolves module account addresses.
type AccountKeeper struct{}

// GetModuleAddress returns the address of the module account.
func (AccountKeeper) GetModuleAddress(moduleName string) sdk.AccAddress {
	return authtypes.NewModuleAddress(moduleName)
}
