package memory

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
)

// DefaultCapacity 預設帳戶上限
const DefaultCapacity = 10

// slot 帳戶格位，balance 只能在持有 mu 時讀寫
type slot struct {
	mu      sync.Mutex
	balance float64
}

// AccountStore 固定容量的帳戶 arena，ID 即 slot index
//
// 結構:
//
//	slots: 預先配置的帳戶格位，建立後長度不變 (ID 穩定，轉帳鎖順序依賴此特性)
//	count: 已發佈的帳戶數，[0, count) 內的 ID 皆有效
//	mu: 序列化 Create / Restore
type AccountStore struct {
	slots []slot
	count atomic.Int64
	mu    sync.Mutex
}

// NewAccountStore 建立一個新的 AccountStore 實例
//
// 參數:
//
//	capacity: 帳戶上限，<= 0 時使用 DefaultCapacity
//
// 回傳:
//
//	*AccountStore: AccountStore 實例
func NewAccountStore(capacity int) *AccountStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &AccountStore{
		slots: make([]slot, capacity),
	}
}

// Capacity 帳戶上限
func (s *AccountStore) Capacity() int {
	return len(s.slots)
}

// Count 目前帳戶數
func (s *AccountStore) Count() int {
	return int(s.count.Load())
}

// Create 開戶
//
// 參數:
//
//	initialBalance: 初始餘額 (不得為負)
//
// 回傳:
//
//	domain.Account: 新帳戶
//	error: ErrCapacityExceeded / ErrInvalidAmount
func (s *AccountStore) Create(initialBalance float64) (domain.Account, error) {
	if !domain.ValidInitialBalance(initialBalance) {
		return domain.Account{}, errors.Wrapf(domain.ErrInvalidAmount, "initial balance %.2f", initialBalance)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.count.Load()
	if n == int64(len(s.slots)) {
		return domain.Account{}, errors.Wrapf(domain.ErrCapacityExceeded, "capacity %d", len(s.slots))
	}

	// 初始化完成後才發佈 count，讀取端不會看到一半的帳戶
	sl := &s.slots[n]
	sl.mu.Lock()
	sl.balance = initialBalance
	sl.mu.Unlock()
	s.count.Store(n + 1)

	return domain.NewAccount(n, initialBalance), nil
}

// Balance 取得指定帳戶的當前餘額
func (s *AccountStore) Balance(id int64) (float64, error) {
	sl, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.balance, nil
}

// Mutate 持有帳戶鎖時套用 f，f 回傳 error 時餘額不變
//
// 參數:
//
//	id: 帳戶 ID
//	f: 輸入目前餘額，回傳新餘額
//
// 回傳:
//
//	float64: 套用後的餘額
//	error: ErrInvalidAccountID 或 f 的錯誤
func (s *AccountStore) Mutate(id int64, f func(balance float64) (float64, error)) (float64, error) {
	sl, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	next, err := f(sl.balance)
	if err != nil {
		return sl.balance, err
	}
	sl.balance = next
	return next, nil
}

// Snapshot 依 ID 遞增回傳所有帳戶 (每個帳戶各自在鎖內讀取)
func (s *AccountStore) Snapshot() []domain.Account {
	n := s.count.Load()
	accounts := make([]domain.Account, 0, n)
	for id := int64(0); id < n; id++ {
		sl := &s.slots[id]
		sl.mu.Lock()
		accounts = append(accounts, domain.NewAccount(id, sl.balance))
		sl.mu.Unlock()
	}
	return accounts
}

// Restore 啟動時由快照還原帳戶，只能在空的 store 上呼叫
// 快照 ID 必須剛好是 0..n-1
func (s *AccountStore) Restore(accounts []domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count.Load() != 0 {
		return errors.New("restore on a populated account store")
	}
	if len(accounts) > len(s.slots) {
		return errors.Wrapf(domain.ErrCapacityExceeded, "snapshot holds %d accounts, capacity %d", len(accounts), len(s.slots))
	}
	for i, account := range accounts {
		if account.ID != int64(i) {
			return errors.Wrapf(domain.ErrCorruptSnapshot, "account id %d at position %d", account.ID, i)
		}
	}
	for i, account := range accounts {
		sl := &s.slots[i]
		sl.mu.Lock()
		sl.balance = account.Balance
		sl.mu.Unlock()
	}
	s.count.Store(int64(len(accounts)))
	return nil
}

// lookup 驗證 ID 並回傳格位
func (s *AccountStore) lookup(id int64) (*slot, error) {
	if id < 0 || id >= s.count.Load() {
		return nil, errors.Wrapf(domain.ErrInvalidAccountID, "account %d", id)
	}
	return &s.slots[id], nil
}

var _ usecase.AccountStore = (*AccountStore)(nil)
