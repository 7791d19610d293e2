package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// DefaultClubLockingPeriod is the ownership lock applied to newly purchased clubs (21 days).
	DefaultClubLockingPeriod uint64 = 21 * 24 * 60 * 60
)

// DefaultDenom is the denom used by default params.
var DefaultDenom = sdk.DefaultBondDenom

// FeeWallet is a named platform wallet receiving part of pool fees.
type FeeWallet struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Params is the module configuration.
type Params struct {
	// AdminAddress may run admin-only operations. Empty disables them.
	AdminAddress string `json:"admin_address"`
	// Denom of the custody token.
	Denom string `json:"denom"`
	// ClubLockingPeriod in seconds, applied to every ownership change.
	ClubLockingPeriod uint64 `json:"club_locking_period"`
	// MinClubPrice is the minimum payment for the first purchase of a club.
	MinClubPrice sdkmath.Int `json:"min_club_price"`
	// AllowanceExpiry in seconds for vesting allowances, zero means no expiry.
	AllowanceExpiry    uint64      `json:"allowance_expiry"`
	PlatformFeeWallets []FeeWallet `json:"platform_fee_wallets"`
}

// DefaultParams returns default module parameters.
func DefaultParams() Params {
	return Params{
		Denom:              DefaultDenom,
		ClubLockingPeriod:  DefaultClubLockingPeriod,
		MinClubPrice:       sdkmath.OneInt(),
		PlatformFeeWallets: []FeeWallet{},
	}
}

// IsAdmin reports whether addr is the configured admin.
func (p Params) IsAdmin(addr string) bool {
	return p.AdminAddress != "" && p.AdminAddress == addr
}

// FeeWallet returns the platform wallet with the given name.
func (p Params) FeeWallet(name string) (FeeWallet, bool) {
	for _, wallet := range p.PlatformFeeWallets {
		if wallet.Name == name {
			return wallet, true
		}
	}
	return FeeWallet{}, false
}

// ValidateBasic performs basic validation on module parameters.
func (p Params) ValidateBasic() error {
	if p.AdminAddress != "" {
		if _, err := sdk.AccAddressFromBech32(p.AdminAddress); err != nil {
			return errorsmod.Wrapf(ErrInvalidConfiguration, "invalid admin address %s: %s", p.AdminAddress, err)
		}
	}

	if err := sdk.ValidateDenom(p.Denom); err != nil {
		return errorsmod.Wrapf(ErrInvalidConfiguration, "invalid denom: %s", err)
	}

	if p.ClubLockingPeriod == 0 {
		return errorsmod.Wrap(ErrInvalidConfiguration, "club locking period must be positive")
	}

	if p.MinClubPrice.IsNil() || !p.MinClubPrice.IsPositive() {
		return errorsmod.Wrap(ErrInvalidConfiguration, "min club price must be positive")
	}

	return ValidateFeeWallets(p.PlatformFeeWallets)
}

// ValidateFeeWallets validates the platform fee wallet list.
func ValidateFeeWallets(wallets []FeeWallet) error {
	seen := make(map[string]bool)
	for i, wallet := range wallets {
		if wallet.Name == "" {
			return errorsmod.Wrapf(ErrInvalidConfiguration, "wallet %d: name cannot be empty", i)
		}
		if seen[wallet.Name] {
			return errorsmod.Wrapf(ErrInvalidConfiguration, "wallet %d: duplicate name %s", i, wallet.Name)
		}
		seen[wallet.Name] = true

		if _, err := sdk.AccAddressFromBech32(wallet.Address); err != nil {
			return errorsmod.Wrapf(ErrInvalidConfiguration, "wallet %d: invalid address %s", i, wallet.Address)
		}
	}
	return nil
}
