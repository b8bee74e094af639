package file

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
)

// EncodeSnapshot 輸出快照，一行一個帳戶 "<id> <balance>"，餘額取小數點後 2 位
func EncodeSnapshot(w io.Writer, accounts []domain.Account) error {
	for _, account := range accounts {
		if _, err := fmt.Fprintf(w, "%d %.2f\n", account.ID, account.Balance); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSnapshot 依檔案順序解析快照，略過空行
func DecodeSnapshot(r io.Reader) ([]domain.Account, error) {
	var accounts []domain.Account
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Wrapf(domain.ErrCorruptSnapshot, "line %d: %q", lineNo, line)
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrCorruptSnapshot, "line %d: bad id %q", lineNo, fields[0])
		}
		balance, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || !domain.ValidInitialBalance(balance) {
			return nil, errors.Wrapf(domain.ErrCorruptSnapshot, "line %d: bad balance %q", lineNo, fields[1])
		}
		accounts = append(accounts, domain.NewAccount(id, balance))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}
