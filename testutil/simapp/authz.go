package simapp

import (
	"context"
	"time"

	"cosmossdk.io/collections"
	sdkstore "cosmossdk.io/core/store"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/x/authz"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/pkg/errors"

	"github.com/tokenize-x/fanledger/pkg/ledgerstore"
)

type sendGrant struct {
	SpendLimit sdk.Coins  `json:"spend_limit"`
	Expiration *time.Time `json:"expiration,omitempty"`
}

// AuthzKeeper records send allowances in the multistore. Only send
// authorizations are supported.
type AuthzKeeper struct {
	grants collections.Map[collections.Triple[sdk.AccAddress, sdk.AccAddress, string], sendGrant]
}

// NewAuthzKeeper returns an authz keeper storing grants under storeService.
func NewAuthzKeeper(storeService sdkstore.KVStoreService) *AuthzKeeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := &AuthzKeeper{
		grants: collections.NewMap(
			sb,
			collections.NewPrefix(0),
			"grants",
			collections.TripleKeyCodec(sdk.AccAddressKey, sdk.AccAddressKey, collections.StringKey),
			ledgerstore.JSONValue[sendGrant](),
		),
	}
	if _, err := sb.Build(); err != nil {
		panic(err)
	}
	return k
}

// GetAuthorization returns the live grant of granter to grantee for msgType.
func (k *AuthzKeeper) GetAuthorization(
	ctx context.Context,
	grantee sdk.AccAddress,
	granter sdk.AccAddress,
	msgType string,
) (authz.Authorization, *time.Time) {
	grant, err := k.grants.Get(ctx, collections.Join3(grantee, granter, msgType))
	if err != nil {
		return nil, nil
	}
	if grant.Expiration != nil && !grant.Expiration.After(sdk.UnwrapSDKContext(ctx).BlockTime()) {
		return nil, nil
	}
	return banktypes.NewSendAuthorization(grant.SpendLimit, nil), grant.Expiration
}

// SaveGrant stores the authorization, replacing any earlier one.
func (k *AuthzKeeper) SaveGrant(
	ctx context.Context,
	grantee sdk.AccAddress,
	granter sdk.AccAddress,
	authorization authz.Authorization,
	expiration *time.Time,
) error {
	sendAuth, ok := authorization.(*banktypes.SendAuthorization)
	if !ok {
		return errors.Errorf("unsupported authorization %T", authorization)
	}
	if err := sendAuth.ValidateBasic(); err != nil {
		return err
	}
	return k.grants.Set(ctx, collections.Join3(grantee, granter, sendAuth.MsgTypeURL()), sendGrant{
		SpendLimit: sendAuth.SpendLimit,
		Expiration: expiration,
	})
}

// SpendLimit returns the coins grantee may still send out of granter's account.
func (k *AuthzKeeper) SpendLimit(ctx context.Context, grantee, granter sdk.AccAddress) sdk.Coins {
	auth, _ := k.GetAuthorization(ctx, grantee, granter, sdk.MsgTypeURL(&banktypes.MsgSend{}))
	sendAuth, ok := auth.(*banktypes.SendAuthorization)
	if !ok {
		return sdk.NewCoins()
	}
	return sendAuth.SpendLimit
}
