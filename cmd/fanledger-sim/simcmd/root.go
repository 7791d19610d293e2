// Package simcmd implements the command line scenario simulator of the ledger.
package simcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/tokenize-x/fanledger/x/fanledger/types"
)

// EnvPrefix is the prefix of environment variables overriding flags.
const EnvPrefix = "FANLEDGER"

const (
	flagLogLevel        = "log-level"
	flagLogFormat       = "log-format"
	flagCheckInvariants = "check-invariants"
	flagParallel        = "parallel"

	logFormatJSON  = "json"
	logFormatPlain = "plain"
)

// NewRootCmd returns the root command of the simulator.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "fanledger-sim",
		Short:         "Run ledger scenarios against an in-memory chain state",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
	}
	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String(flagLogFormat, logFormatPlain, "log format (json|plain)")

	rootCmd.AddCommand(
		newRunCmd(v),
		newGenesisCmd(),
	)
	return rootCmd
}

// ScenarioReport is the outcome of one scenario file.
type ScenarioReport struct {
	File   string `json:"file"`
	Report Report `json:"report"`
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario-file...]",
		Short: "Run scenarios, each on its own ledger, and print the final ledger states",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(v.GetString(flagLogLevel), v.GetString(flagLogFormat))
			if err != nil {
				return err
			}

			parallel := v.GetInt(flagParallel)
			if parallel < 1 {
				return errors.Errorf("parallel must be positive, got %d", parallel)
			}

			reports := make([]ScenarioReport, len(args))
			group, ctx := errgroup.WithContext(cmd.Context())
			group.SetLimit(parallel)
			for i, file := range args {
				group.Go(func() error {
					report, err := runFile(ctx, file, logger.With("scenario", file), v.GetBool(flagCheckInvariants))
					if err != nil {
						return errors.Wrapf(err, "scenario %s", file)
					}
					reports[i] = ScenarioReport{File: file, Report: report}
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}
			return printJSON(cmd, reports)
		},
	}
	addRunFlags(cmd.Flags())
	return cmd
}

func addRunFlags(flags *pflag.FlagSet) {
	flags.Bool(flagCheckInvariants, false, "check custody conservation after every step")
	flags.Int(flagParallel, 4, "maximum number of scenarios run at once")
}

func runFile(ctx context.Context, file string, logger log.Logger, checkInvariants bool) (Report, error) {
	scenario, err := LoadScenario(file)
	if err != nil {
		return Report{}, err
	}
	runner, err := NewRunner(scenario, logger, checkInvariants)
	if err != nil {
		return Report{}, err
	}
	if err := runner.Run(ctx, scenario.Steps); err != nil {
		return Report{}, err
	}
	return runner.Report()
}

func newGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genesis",
		Short: "Print the default ledger genesis state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd, types.DefaultGenesisState())
		},
	}
}

func newLogger(level, format string) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}
	options := []log.Option{log.LevelOption(lvl)}
	switch format {
	case logFormatJSON:
		options = append(options, log.OutputJSONOption())
	case logFormatPlain:
		options = append(options, log.ColorOption(false))
	default:
		return nil, errors.Errorf("invalid log format %q", format)
	}
	return log.NewLogger(os.Stderr, options...), nil
}

func printJSON(cmd *cobra.Command, value any) error {
	bz, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrap(err, "can't encode output")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
