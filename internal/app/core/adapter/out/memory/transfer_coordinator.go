package memory

import (
	"github.com/pkg/errors"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
)

// TransferCoordinator 負責兩個帳戶的上鎖協定
// 永遠先鎖 ID 小的帳戶，再鎖 ID 大的帳戶，這是唯一的防死鎖機制
type TransferCoordinator struct {
	store *AccountStore
}

// NewTransferCoordinator 建立綁定 store 的 TransferCoordinator
func NewTransferCoordinator(store *AccountStore) *TransferCoordinator {
	return &TransferCoordinator{
		store: store,
	}
}

// Transfer 轉帳
//
// 參數:
//
//	from, to: 帳戶 ID (不得相同)
//	amount: 金額 (必須為正數)
//
// 回傳:
//
//	float64: 轉帳後 from 的餘額 (失敗時為鎖內讀到的餘額，驗證失敗時為 0)
//	error: ErrInvalidAccountID / ErrInvalidAmount / ErrInsufficientBalance
func (c *TransferCoordinator) Transfer(from, to int64, amount float64) (float64, error) {
	if from == to {
		return 0, errors.Wrapf(domain.ErrInvalidAccountID, "transfer from account %d to itself", from)
	}
	src, err := c.store.lookup(from)
	if err != nil {
		return 0, err
	}
	dst, err := c.store.lookup(to)
	if err != nil {
		return 0, err
	}
	if !domain.ValidAmount(amount) {
		return 0, errors.Wrapf(domain.ErrInvalidAmount, "transfer amount %v", amount)
	}

	firstID, secondID := domain.LockOrder(from, to)
	first, second := &c.store.slots[firstID], &c.store.slots[secondID]
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	// 兩把鎖都在手上，檢查與扣款入帳對其他操作是原子的
	next, err := domain.Withdraw(src.balance, amount)
	if err != nil {
		return src.balance, errors.Wrapf(err, "account %d", from)
	}
	src.balance = next
	dst.balance += amount
	return next, nil
}

var _ usecase.TransferCoordinator = (*TransferCoordinator)(nil)
