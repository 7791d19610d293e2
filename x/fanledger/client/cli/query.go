package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/version"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// GetQueryCmd returns the parent command for all CLI query commands. Records
// are read directly from the module store, so the node only needs to serve
// ABCI store queries.
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the fanledger module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(CmdQueryParams())
	cmd.AddCommand(CmdQueryClub())
	cmd.AddCommand(CmdQueryVesting())
	cmd.AddCommand(CmdQueryPool())
	cmd.AddCommand(CmdQueryCustody())

	return cmd
}

// CmdQueryParams implements a command to fetch fanledger parameters.
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: fmt.Sprintf("Query the current %s parameters", types.ModuleName),
		Args:  cobra.NoArgs,
		Long: strings.TrimSpace(
			fmt.Sprintf(`Query parameters for the %s module:

Example:
$ %[1]s query %s params
`,
				types.ModuleName, version.AppName, types.ModuleName,
			),
		),
		RunE: func(cmd *cobra.Command, args []string) error {
			return queryRecord(cmd, types.ParamsKey.Bytes(), "params")
		},
	}

	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

// CmdQueryClub implements a command to fetch the ownership of a club.
func CmdQueryClub() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "club [name]",
		Short: "Query the ownership of a club",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := ClubKey(args[0])
			if err != nil {
				return err
			}
			return queryRecord(cmd, key, "club "+args[0])
		},
	}

	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

// CmdQueryVesting implements a command to fetch the vesting schedule of a beneficiary.
func CmdQueryVesting() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vesting [address]",
		Short: "Query the vesting schedule of a beneficiary",
		Long: strings.TrimSpace(`Query the stored vesting schedule of a beneficiary.
The tokens_available_to_claim field is the value from the last write.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return errorsmod.Wrapf(types.ErrInvalidInput, "invalid address %s", args[0])
			}
			key, err := VestingKey(addr)
			if err != nil {
				return err
			}
			return queryRecord(cmd, key, "vesting schedule of "+args[0])
		},
	}

	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

// CmdQueryPool implements a command to fetch a pool.
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [id]",
		Short: "Query a game pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := cast.ToUint64E(args[0])
			if err != nil {
				return errorsmod.Wrapf(types.ErrInvalidInput, "invalid pool id %s", args[0])
			}
			key, err := PoolKey(poolID)
			if err != nil {
				return err
			}
			return queryRecord(cmd, key, "pool "+args[0])
		},
	}

	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

// CmdQueryCustody implements a command to fetch the custody balance of an address.
func CmdQueryCustody() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custody [address]",
		Short: "Query the custody balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}
			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return errorsmod.Wrapf(types.ErrInvalidInput, "invalid address %s", args[0])
			}
			key, err := CustodyKey(addr)
			if err != nil {
				return err
			}

			bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
			if err != nil {
				return err
			}
			res := types.QueryCustodyResponse{Amount: sdkmath.ZeroInt()}
			if len(bz) > 0 {
				if res.Amount, err = sdk.IntValue.Decode(bz); err != nil {
					return err
				}
			}
			out, err := json.Marshal(res)
			if err != nil {
				return err
			}
			return clientCtx.PrintRaw(out)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

// ClubKey returns the store key of the club ownership record.
func ClubKey(clubName string) ([]byte, error) {
	return storeKey(types.ClubOwnershipKey, collections.StringKey, clubName)
}

// VestingKey returns the store key of the vesting schedule of the beneficiary.
func VestingKey(beneficiary sdk.AccAddress) ([]byte, error) {
	return storeKey(types.VestingScheduleKey, sdk.AccAddressKey, beneficiary)
}

// PoolKey returns the store key of the pool.
func PoolKey(poolID uint64) ([]byte, error) {
	return storeKey(types.PoolKey, collections.Uint64Key, poolID)
}

// CustodyKey returns the store key of the custody balance of the address.
func CustodyKey(addr sdk.AccAddress) ([]byte, error) {
	return storeKey(types.CustodyKey, sdk.AccAddressKey, addr)
}

func storeKey[K any](prefix collections.Prefix, keyCodec collcodec.KeyCodec[K], key K) ([]byte, error) {
	return collections.EncodeKeyWithPrefix(prefix.Bytes(), keyCodec, key)
}

// queryRecord prints the JSON record stored under key.
func queryRecord(cmd *cobra.Command, key []byte, what string) error {
	clientCtx, err := client.GetClientQueryContext(cmd)
	if err != nil {
		return err
	}
	bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
	if err != nil {
		return err
	}
	if len(bz) == 0 {
		return errorsmod.Wrap(types.ErrNotFound, what)
	}
	return clientCtx.PrintRaw(bz)
}
