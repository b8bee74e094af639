package domain

import "github.com/pkg/errors"

var (
	// ErrCapacityExceeded 帳戶數已達上限
	ErrCapacityExceeded = errors.New("maximum account limit reached")

	// ErrInvalidAccountID 帳戶 ID 不在目前範圍內 (或轉帳來源與目標相同)
	ErrInvalidAccountID = errors.New("invalid account id")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount 金額必須為正數 (初始餘額不得為負)
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrIO 快照或交易日誌無法讀寫
	ErrIO = errors.New("storage unavailable")

	// ErrCorruptSnapshot 快照內容無法解析
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// FailureReason 將業務錯誤轉成交易日誌裡 "Failed: <reason>" 的 reason
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return "Insufficient balance"
	case errors.Is(err, ErrInvalidAccountID):
		return "Invalid account id"
	case errors.Is(err, ErrCapacityExceeded):
		return "Maximum account limit reached"
	case errors.Is(err, ErrInvalidAmount):
		return "Invalid amount"
	default:
		return err.Error()
	}
}
