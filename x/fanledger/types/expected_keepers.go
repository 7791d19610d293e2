package types

import (
	context "context"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/x/authz"
)

// BankKeeper moves the fungible token between accounts and the module account.
type BankKeeper interface {
	SendCoinsFromAccountToModule(
		ctx context.Context,
		senderAddr sdk.AccAddress,
		recipientModule string,
		amt sdk.Coins,
	) error
	SendCoinsFromModuleToAccount(
		ctx context.Context,
		senderModule string,
		recipientAddr sdk.AccAddress,
		amt sdk.Coins,
	) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// AuthzKeeper grants spend allowances out of the module account.
type AuthzKeeper interface {
	GetAuthorization(
		ctx context.Context,
		grantee sdk.AccAddress,
		granter sdk.AccAddress,
		msgType string,
	) (authz.Authorization, *time.Time)
	SaveGrant(
		ctx context.Context,
		grantee sdk.AccAddress,
		granter sdk.AccAddress,
		authorization authz.Authorization,
		expiration *time.Time,
	) error
}

// AccountKeeper interface.
type AccountKeeper interface {
	GetModuleAddress(moduleName string) sdk.AccAddress
}
