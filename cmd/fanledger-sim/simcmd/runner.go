package simcmd

import (
	"context"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	deterministicmap "github.com/tokenize-x/fanledger/pkg/deterministic_map"
	"github.com/tokenize-x/fanledger/testutil/simapp"
	"github.com/tokenize-x/fanledger/x/fanledger/keeper"
	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// Runner executes scenario steps against an in-memory ledger.
type Runner struct {
	app             *simapp.App
	queries         keeper.QueryService
	logger          log.Logger
	accounts        *deterministicmap.Map[string, sdk.AccAddress]
	checkInvariants bool
}

// NewRunner creates the ledger and funds the scenario accounts in name order.
func NewRunner(scenario Scenario, logger log.Logger, checkInvariants bool) (*Runner, error) {
	options := []simapp.Option{simapp.WithCustomLogger(logger)}
	if scenario.StartTime != 0 {
		options = append(options, simapp.WithStartTime(time.Unix(scenario.StartTime, 0).UTC()))
	}
	app := simapp.New(options...)

	accounts := deterministicmap.New[string, sdk.AccAddress]()
	for _, name := range lo.Keys(scenario.Accounts) {
		if name == AdminAccount {
			accounts.Set(name, app.Admin)
			continue
		}
		accounts.Set(name, simapp.GenAccount())
	}

	r := &Runner{
		app:             app,
		queries:         keeper.NewQueryService(app.Keeper),
		logger:          logger.With("module", "fanledger-sim"),
		accounts:        accounts,
		checkInvariants: checkInvariants,
	}

	var err error
	accounts.Range(func(name string, addr sdk.AccAddress) bool {
		funding := scenario.Accounts[name]
		if funding < 0 {
			err = errors.Errorf("account %s has negative funding", name)
			return false
		}
		if funding == 0 {
			return true
		}
		if err = app.FundAccount(addr, sdkmath.NewInt(funding)); err != nil {
			err = errors.Wrapf(err, "can't fund account %s", name)
			return false
		}
		r.logger.Debug("funded account", "name", name, "address", addr.String(), "amount", funding)
		return true
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) account(name string) (sdk.AccAddress, error) {
	addr, ok := r.accounts.Get(name)
	if !ok {
		return nil, errors.Errorf("unknown account %q", name)
	}
	return addr, nil
}

// Run executes steps in order. A step expecting an error fails when the action
// succeeds or fails with a different error.
func (r *Runner) Run(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runStep(step); err != nil {
			return errors.Wrapf(err, "step %d (%s)", i, step.Action)
		}
	}
	return nil
}

func (r *Runner) runStep(step Step) error {
	if step.Advance > 0 {
		r.app.AdvanceTime(step.Advance)
	}
	if step.Action == "" {
		return nil
	}

	act, ok := actions[step.Action]
	if !ok {
		return errors.Errorf("unknown action %q", step.Action)
	}
	senderName := step.Sender
	if senderName == "" {
		senderName = AdminAccount
	}
	sender, err := r.account(senderName)
	if err != nil {
		return err
	}

	sdkCtx := r.app.Context()
	err = act(r, sdkCtx, sender, args{values: step.Args, accounts: r.account})
	if step.ExpectError != "" {
		expected, _ := moduleError(step.ExpectError)
		if err == nil {
			return errors.Errorf("expected error %q, got none", step.ExpectError)
		}
		if !errors.Is(err, expected) {
			return errors.Wrapf(err, "expected error %q", step.ExpectError)
		}
		r.logger.Info("step failed as expected", "action", step.Action, "sender", senderName, "err", err.Error())
	} else if err != nil {
		return err
	}

	if r.checkInvariants {
		msg, broken := keeper.ConservationInvariant(r.app.Keeper)(sdkCtx)
		if broken {
			return errors.Errorf("invariant broken: %s", msg)
		}
	}
	return nil
}

// AccountReport is the final position of one scenario account.
type AccountReport struct {
	Name    string      `json:"name"`
	Address string      `json:"address"`
	Balance sdkmath.Int `json:"balance"`
	Custody sdkmath.Int `json:"custody"`
}

// Report is the ledger state after a scenario.
type Report struct {
	BlockTime     uint64                    `json:"block_time"`
	ModuleBalance sdkmath.Int               `json:"module_balance"`
	Accounts      []AccountReport           `json:"accounts"`
	Clubs         []types.ClubOwnership     `json:"clubs"`
	Vestings      []types.VestingSchedule   `json:"vestings"`
	Pools         []types.QueryPoolResponse `json:"pools"`
}

// Report collects the ledger state through the query service.
func (r *Runner) Report() (Report, error) {
	ctx := r.app.Context()
	report := Report{
		BlockTime:     r.app.BlockTime(),
		ModuleBalance: r.app.ModuleBalance(),
	}

	var err error
	r.accounts.Range(func(name string, addr sdk.AccAddress) bool {
		var custody *types.QueryCustodyResponse
		custody, err = r.queries.Custody(ctx, &types.QueryCustodyRequest{Address: addr.String()})
		if err != nil {
			return false
		}
		report.Accounts = append(report.Accounts, AccountReport{
			Name:    name,
			Address: addr.String(),
			Balance: r.app.Balance(addr),
			Custody: custody.Amount,
		})

		var vesting *types.QueryVestingResponse
		vesting, err = r.queries.Vesting(ctx, &types.QueryVestingRequest{Beneficiary: addr.String()})
		if errors.Is(err, types.ErrNotFound) {
			err = nil
			return true
		}
		if err != nil {
			return false
		}
		report.Vestings = append(report.Vestings, vesting.Vesting)
		return true
	})
	if err != nil {
		return Report{}, err
	}

	clubs, err := r.queries.Clubs(ctx, &types.QueryClubsRequest{})
	if err != nil {
		return Report{}, err
	}
	report.Clubs = clubs.Clubs

	pools, err := r.queries.Pools(ctx, &types.QueryPoolsRequest{})
	if err != nil {
		return Report{}, err
	}
	for _, pool := range pools.Pools {
		res, err := r.queries.Pool(ctx, &types.QueryPoolRequest{PoolID: pool.PoolID})
		if err != nil {
			return Report{}, err
		}
		report.Pools = append(report.Pools, *res)
	}
	return report, nil
}
