package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
)

const menuText = `
1. Create Account
2. Check Balance
3. Deposit
4. Withdraw
5. Transfer Funds
6. Display Transaction History
7. Exit
Enter your choice: `

func newMenuCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive numbered menu",
		Long: `Run the interactive menu on stdin.

Input is read as whitespace separated tokens, so several answers may be
given on one line. Exit (7) or end of input saves the snapshot and quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLedger(cmd, func(ctx context.Context, ledger *usecase.CoreUseCase) error {
				m := newMenu(ledger, cmd.InOrStdin(), cmd.OutOrStdout())
				return m.run(ctx)
			})
		},
	}
}

// menu 互動選單，一次處理一個選項
type menu struct {
	ledger *usecase.CoreUseCase
	in     *bufio.Scanner
	out    io.Writer
}

func newMenu(ledger *usecase.CoreUseCase, in io.Reader, out io.Writer) *menu {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &menu{ledger: ledger, in: scanner, out: out}
}

// run 直到選擇 Exit 或輸入結束
func (m *menu) run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, menuText)
		choice, ok := m.token()
		if !ok {
			fmt.Fprintln(m.out)
			return nil
		}

		var err error
		switch choice {
		case "1":
			err = m.create(ctx)
		case "2":
			err = m.balance(ctx)
		case "3":
			err = m.deposit(ctx)
		case "4":
			err = m.withdraw(ctx)
		case "5":
			err = m.transfer(ctx)
		case "6":
			_, err = printHistory(m.out, m.ledger.History(ctx))
		case "7":
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice! Please try again.")
		}
		if err == errEndOfInput {
			fmt.Fprintln(m.out)
			return nil
		}
		if err != nil {
			fmt.Fprintf(m.out, "Warning: %v\n", err)
		}
	}
}

func (m *menu) create(ctx context.Context) error {
	fmt.Fprint(m.out, "Enter initial balance: ")
	amount, err := m.amount()
	if err != nil {
		return err
	}
	_, rec, err := m.ledger.CreateAccount(ctx, amount)
	return m.report(rec, err)
}

func (m *menu) balance(ctx context.Context) error {
	fmt.Fprint(m.out, "Enter account ID: ")
	id, err := m.id()
	if err != nil {
		return err
	}
	balance, err := m.ledger.GetAccountBalance(ctx, id)
	printBalance(m.out, id, balance, err)
	return nil
}

func (m *menu) deposit(ctx context.Context) error {
	fmt.Fprint(m.out, "Enter account ID and amount to deposit: ")
	id, err := m.id()
	if err != nil {
		return err
	}
	amount, err := m.amount()
	if err != nil {
		return err
	}
	_, rec, err := m.ledger.Deposit(ctx, id, amount)
	return m.report(rec, err)
}

func (m *menu) withdraw(ctx context.Context) error {
	fmt.Fprint(m.out, "Enter account ID and amount to withdraw: ")
	id, err := m.id()
	if err != nil {
		return err
	}
	amount, err := m.amount()
	if err != nil {
		return err
	}
	_, rec, err := m.ledger.Withdraw(ctx, id, amount)
	return m.report(rec, err)
}

func (m *menu) transfer(ctx context.Context) error {
	fmt.Fprint(m.out, "Enter from account ID, to account ID and amount to transfer: ")
	from, err := m.id()
	if err != nil {
		return err
	}
	to, err := m.id()
	if err != nil {
		return err
	}
	amount, err := m.amount()
	if err != nil {
		return err
	}
	_, rec, err := m.ledger.Transfer(ctx, from, to, amount)
	return m.report(rec, err)
}

// report 業務失敗已經印出訊息，只把持久化錯誤往上回報
func (m *menu) report(rec domain.TransactionRecord, err error) error {
	printRecord(m.out, rec, err)
	if rec.Succeeded() {
		return err
	}
	return nil
}

var errEndOfInput = io.EOF

func (m *menu) token() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *menu) id() (int64, error) {
	tok, ok := m.token()
	if !ok {
		return 0, errEndOfInput
	}
	id, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid account id %q", tok)
	}
	return id, nil
}

func (m *menu) amount() (float64, error) {
	tok, ok := m.token()
	if !ok {
		return 0, errEndOfInput
	}
	amount, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, errors.Errorf("invalid amount %q", tok)
	}
	return amount, nil
}
