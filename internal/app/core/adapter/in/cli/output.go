package cli

import (
	"fmt"
	"io"
	"iter"

	"github.com/pkg/errors"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
)

// printRecord 依交易紀錄輸出結果訊息
// 以紀錄的狀態判斷業務成敗，持久化錯誤另外由呼叫端回報
func printRecord(w io.Writer, rec domain.TransactionRecord, err error) {
	if !rec.Succeeded() {
		printFailure(w, rec, err)
		return
	}
	switch rec.Type {
	case domain.TransactionTypeCreate:
		fmt.Fprintf(w, "Account created: ID = %d, Balance = %.2f\n", rec.From, rec.Amount)
	case domain.TransactionTypeDeposit:
		fmt.Fprintf(w, "Deposited: %.2f to Account ID = %d\n", rec.Amount, rec.From)
	case domain.TransactionTypeWithdraw:
		fmt.Fprintf(w, "Withdrawn: %.2f from Account ID = %d\n", rec.Amount, rec.From)
	case domain.TransactionTypeTransfer:
		fmt.Fprintf(w, "Transferred: %.2f from Account ID = %d to Account ID = %d\n", rec.Amount, rec.From, rec.To)
	}
}

func printFailure(w io.Writer, rec domain.TransactionRecord, err error) {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		fmt.Fprintln(w, "Maximum account limit reached!")
	case errors.Is(err, domain.ErrInsufficientBalance):
		fmt.Fprintf(w, "Insufficient balance in Account ID = %d\n", rec.From)
	case errors.Is(err, domain.ErrInvalidAccountID):
		if rec.Type == domain.TransactionTypeTransfer {
			fmt.Fprintf(w, "Invalid account ID: from = %d, to = %d\n", rec.From, rec.To)
			return
		}
		fmt.Fprintf(w, "Invalid account ID = %d\n", rec.From)
	case errors.Is(err, domain.ErrInvalidAmount):
		fmt.Fprintf(w, "Invalid amount: %.2f\n", rec.Amount)
	default:
		fmt.Fprintf(w, "%s %s\n", rec.Type, rec.Status)
	}
}

func printBalance(w io.Writer, id int64, balance float64, err error) {
	if err != nil {
		fmt.Fprintf(w, "Invalid account ID = %d\n", id)
		return
	}
	fmt.Fprintf(w, "Balance: %.2f\n", balance)
}

// printHistory 輸出交易日誌，回傳輸出的行數
func printHistory(w io.Writer, lines iter.Seq2[string, error]) (int, error) {
	n := 0
	for line, err := range lines {
		if err != nil {
			return n, err
		}
		if n == 0 {
			fmt.Fprintln(w, "Transaction History:")
		}
		fmt.Fprintln(w, line)
		n++
	}
	if n == 0 {
		fmt.Fprintln(w, "No transaction log found.")
	}
	return n, nil
}

func printAccounts(w io.Writer, accounts []domain.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(w, "No accounts.")
		return
	}
	for _, account := range accounts {
		fmt.Fprintf(w, "Account ID = %d, Balance = %.2f\n", account.ID, account.Balance)
	}
}
