package cli

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
)

func newCreateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <initial_balance>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return opts.withLedger(cmd, func(ctx context.Context, ledger *usecase.CoreUseCase) error {
				_, rec, err := ledger.CreateAccount(ctx, amount)
				printRecord(cmd.OutOrStdout(), rec, err)
				return err
			})
		},
	}
}

func newBalanceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account_id>",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return opts.withLedger(cmd, func(ctx context.Context, ledger *usecase.CoreUseCase) error {
				balance, err := ledger.GetAccountBalance(ctx, id)
				printBalance(cmd.OutOrStdout(), id, balance, err)
				return err
			})
		},
	}
}

func newDepositCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <account_id> <amount>",
		Short: "Deposit into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, amount, err := parseIDAmount(args[0], args[1])
			if err != nil {
				return err
			}
			return opts.withLedger(cmd, func(ctx context.Context, ledger *usecase.CoreUseCase) error {
				_, rec, err := ledger.Deposit(ctx, id, amount)
				printRecord(cmd.OutOrStdout(), rec, err)
				return err
			})
		},
	}
}

func newWithdrawCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <account_id> <amount>",
		Short: "Withdraw from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, amount, err := parseIDAmount(args[0], args[1])
			if err != nil {
				return err
			}
			return opts.withLedger(cmd, func(ctx context.Context, ledger *usecase.CoreUseCase) error {
				_, rec, err := ledger.Withdraw(ctx, id, amount)
				printRecord(cmd.OutOrStdout(), rec, err)
				return err
			})
		},
	}
}

func newTransferCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from_account_id> <to_account_id> <amount>",
		Short: "Transfer between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseID(args[0])
			if err != nil {
				return err
			}
			to, amount, err := parseIDAmount(args[1], args[2])
			if err != nil {
				return err
			}
			return opts.withLedger(cmd, func(ctx context.Context, ledger *usecase.CoreUseCase) error {
				_, rec, err := ledger.Transfer(ctx, from, to, amount)
				printRecord(cmd.OutOrStdout(), rec, err)
				return err
			})
		},
	}
}

func newHistoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the transaction log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLedger(cmd, func(ctx context.Context, ledger *usecase.CoreUseCase) error {
				_, err := printHistory(cmd.OutOrStdout(), ledger.History(ctx))
				return err
			})
		},
	}
}

func newAccountsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLedger(cmd, func(ctx context.Context, ledger *usecase.CoreUseCase) error {
				printAccounts(cmd.OutOrStdout(), ledger.Accounts(ctx))
				return nil
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid account id %q", s)
	}
	return id, nil
}

func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

func parseIDAmount(id, amount string) (int64, float64, error) {
	accountID, err := parseID(id)
	if err != nil {
		return 0, 0, err
	}
	value, err := parseAmount(amount)
	if err != nil {
		return 0, 0, err
	}
	return accountID, value, nil
}
