package simcmd

import (
	"encoding/json"
	"os"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// AdminAccount is the reserved account name resolving to the ledger admin.
const AdminAccount = "admin"

// Scenario is a scripted sequence of ledger operations.
type Scenario struct {
	// StartTime in unix seconds, zero keeps the simulator default.
	StartTime int64 `json:"start_time"`
	// Accounts maps account names to their initial funding.
	Accounts map[string]int64 `json:"accounts"`
	Steps    []Step           `json:"steps"`
}

// Step is one operation. Advance moves the block time forward before the action runs.
type Step struct {
	Advance uint64         `json:"advance"`
	Action  string         `json:"action"`
	Sender  string         `json:"sender"`
	Args    map[string]any `json:"args"`
	// ExpectError is the description of the module error the action must fail with.
	ExpectError string `json:"expect_error"`
}

// LoadScenario reads a scenario from a JSON file.
func LoadScenario(path string) (Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, errors.Wrapf(err, "can't read scenario %s", path)
	}
	return ParseScenario(bz)
}

// ParseScenario decodes a scenario.
func ParseScenario(bz []byte) (Scenario, error) {
	var scenario Scenario
	if err := json.Unmarshal(bz, &scenario); err != nil {
		return Scenario{}, errors.Wrap(err, "malformed scenario")
	}
	if _, ok := scenario.Accounts[AdminAccount]; !ok {
		if scenario.Accounts == nil {
			scenario.Accounts = map[string]int64{}
		}
		scenario.Accounts[AdminAccount] = 0
	}
	for i, step := range scenario.Steps {
		if step.Action == "" && step.Advance == 0 {
			return Scenario{}, errors.Errorf("step %d does nothing", i)
		}
		if step.Action != "" {
			if _, ok := actions[step.Action]; !ok {
				return Scenario{}, errors.Errorf("step %d: unknown action %q", i, step.Action)
			}
		}
		if step.ExpectError != "" {
			if _, ok := moduleError(step.ExpectError); !ok {
				return Scenario{}, errors.Errorf("step %d: unknown error %q", i, step.ExpectError)
			}
		}
	}
	return scenario, nil
}

var moduleErrors = []*errorsmod.Error{
	types.ErrUnauthorized,
	types.ErrNotFound,
	types.ErrTimingViolation,
	types.ErrLimitExceeded,
	types.ErrAlreadySettled,
	types.ErrInvalidConfiguration,
	types.ErrTransferFailed,
	types.ErrInsufficientPayment,
	types.ErrNothingToClaim,
	types.ErrUnsupportedCommand,
	types.ErrInvalidState,
	types.ErrAlreadyExists,
	types.ErrInvalidInput,
	types.ErrInvalidAuthority,
}

func moduleError(description string) (*errorsmod.Error, bool) {
	return lo.Find(moduleErrors, func(err *errorsmod.Error) bool {
		return err.Error() == description
	})
}

// args reads loosely typed step arguments.
type args struct {
	values   map[string]any
	accounts func(name string) (sdk.AccAddress, error)
}

func (a args) raw(key string) (any, error) {
	v, ok := a.values[key]
	if !ok {
		return nil, errors.Errorf("missing argument %q", key)
	}
	return v, nil
}

func (a args) String(key string) (string, error) {
	v, err := a.raw(key)
	if err != nil {
		return "", err
	}
	return cast.ToStringE(v)
}

func (a args) OptionalString(key string) string {
	return cast.ToString(a.values[key])
}

func (a args) Uint64(key string) (uint64, error) {
	v, err := a.raw(key)
	if err != nil {
		return 0, err
	}
	return cast.ToUint64E(v)
}

func (a args) Bool(key string) bool {
	return cast.ToBool(a.values[key])
}

// Amount accepts numbers and decimal strings.
func (a args) Amount(key string) (sdkmath.Int, error) {
	v, err := a.raw(key)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if f, ok := v.(float64); ok {
		return sdkmath.NewInt(int64(f)), nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return sdkmath.Int{}, err
	}
	amount, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.Int{}, errors.Errorf("argument %q is not an integer: %s", key, s)
	}
	return amount, nil
}

func (a args) Account(key string) (sdk.AccAddress, error) {
	name, err := a.String(key)
	if err != nil {
		return nil, err
	}
	return a.accounts(name)
}

func (a args) List(key string) ([]args, error) {
	v, err := a.raw(key)
	if err != nil {
		return nil, err
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, errors.Wrapf(err, "argument %q", key)
	}
	list := make([]args, 0, len(items))
	for i, item := range items {
		values, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q item %d", key, i)
		}
		list = append(list, args{values: values, accounts: a.accounts})
	}
	return list, nil
}
