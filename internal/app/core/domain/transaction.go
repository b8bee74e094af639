package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeLayout 交易日誌的時間格式 (YYYY-MM-DD HH:MM:SS)
const TimeLayout = "2006-01-02 15:04:05"

// NoAccount 日誌中代表 "不適用" 的帳戶 ID
const NoAccount int64 = -1

// StatusSuccessful 成功交易的狀態文字
const StatusSuccessful = "Successful"

// TransactionType 交易類型
// 為了極致節省記憶體，使用 uint8
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdraw TransactionType = 2
	// 轉帳
	TransactionTypeTransfer TransactionType = 3
	// 開戶
	TransactionTypeCreate TransactionType = 4
)

// String 回傳日誌中的操作名稱
func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypeWithdraw:
		return "Withdraw"
	case TransactionTypeTransfer:
		return "Transfer"
	case TransactionTypeCreate:
		return "Create Account"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// TransactionRecord 一次操作嘗試的稽核紀錄，建立後不可變更
type TransactionRecord struct {
	// ID: 外部追蹤號 (UUID)，不出現在文字日誌
	ID     uuid.UUID
	Time   time.Time
	Amount float64
	// From, To: 帳戶 ID，NoAccount 代表不適用
	From   int64
	To     int64
	Status string
	Type   TransactionType
}

// NewRecord 依操作結果建立交易紀錄
//
// 參數:
//
//	id: 追蹤號
//	at: 交易時間
//	typ: 交易類型
//	amount: 金額
//	from, to: 帳戶 ID
//	result: 業務結果，nil 代表成功
func NewRecord(id uuid.UUID, at time.Time, typ TransactionType, amount float64, from, to int64, result error) TransactionRecord {
	status := StatusSuccessful
	if result != nil {
		status = "Failed: " + FailureReason(result)
	}
	return TransactionRecord{
		ID:     id,
		Time:   at,
		Amount: amount,
		From:   from,
		To:     to,
		Status: status,
		Type:   typ,
	}
}

// Succeeded 是否為成功紀錄
func (r TransactionRecord) Succeeded() bool {
	return r.Status == StatusSuccessful
}

// Line 以交易日誌格式輸出 (不含換行)
func (r TransactionRecord) Line() string {
	return fmt.Sprintf("Time: %s, Operation: %s, Amount: %.2f, From Account ID: %d, To Account ID: %d, Status: %s",
		r.Time.Format(TimeLayout), r.Type, r.Amount, r.From, r.To, r.Status)
}

// LockOrder 回傳兩個帳戶的上鎖順序 (小的 ID 先鎖)，確保不會死鎖
func LockOrder(a, b int64) (first, second int64) {
	if a < b {
		return a, b
	}
	return b, a
}
