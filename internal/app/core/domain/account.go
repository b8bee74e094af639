package domain

import "math"

// Account 帳戶的時間點快照 (ID 即 slot index)
type Account struct {
	ID      int64
	Balance float64
}

// NewAccount 建立帳戶快照
func NewAccount(id int64, balance float64) Account {
	return Account{
		ID:      id,
		Balance: balance,
	}
}

// ValidAmount 金額必須是有限的正數
func ValidAmount(amount float64) bool {
	return isFinite(amount) && amount > 0
}

// ValidInitialBalance 初始餘額必須是有限值且不得為負
func ValidInitialBalance(balance float64) bool {
	return isFinite(balance) && balance >= 0
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Deposit 存款，回傳存入後的餘額
func Deposit(balance, amount float64) (float64, error) {
	if !ValidAmount(amount) {
		return balance, ErrInvalidAmount
	}
	return balance + amount, nil
}

// Withdraw 提款，回傳扣款後的餘額；餘額不足時不變
func Withdraw(balance, amount float64) (float64, error) {
	if !ValidAmount(amount) {
		return balance, ErrInvalidAmount
	}
	if balance < amount {
		return balance, ErrInsufficientBalance
	}
	return balance - amount, nil
}
