package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-lock-ledger/internal/config"
	"github.com/JoeShih716/go-lock-ledger/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	// 由 PersistentPreRunE 載入
	Config config.Config

	// now 測試時固定交易時間
	now func() time.Time
}

// NewRootCommand creates the root command for the ledger CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "In-memory account ledger with file persistence",
		Long: `A fixed-capacity account ledger with per-account locking.

Every mutating command appends one line to the transaction log and rewrites
the account snapshot, whether the operation succeeds or fails.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			if opts.Verbose {
				cfg.Log.Level = "debug"
			}
			opts.Config = cfg
			logger.Setup(cfg.Log)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "path to YAML config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	// Add subcommands
	cmd.AddCommand(newCreateCommand(opts))
	cmd.AddCommand(newBalanceCommand(opts))
	cmd.AddCommand(newDepositCommand(opts))
	cmd.AddCommand(newWithdrawCommand(opts))
	cmd.AddCommand(newTransferCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newAccountsCommand(opts))
	cmd.AddCommand(newMenuCommand(opts))
	cmd.AddCommand(newServeCommand(opts))

	return cmd
}

func (o *RootOptions) openLedger(ctx context.Context) (*usecase.CoreUseCase, error) {
	var ucOpts []usecase.Option
	if o.now != nil {
		ucOpts = append(ucOpts, usecase.WithClock(o.now))
	}
	return core.OpenLedger(ctx, o.Config, ucOpts...)
}

// withLedger 開啟帳本、執行 f，結束時存最後一次快照
func (o *RootOptions) withLedger(cmd *cobra.Command, f func(ctx context.Context, ledger *usecase.CoreUseCase) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ledger, err := o.openLedger(ctx)
	if err != nil {
		return err
	}
	runErr := f(ctx, ledger)
	if err := ledger.Close(ctx); err != nil && runErr == nil {
		return err
	}
	return runErr
}
