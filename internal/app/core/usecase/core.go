package usecase

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層 (對外的帳本操作介面)
//
// 結構:
//
//	store: 帳戶記憶體儲存
//	coordinator: 轉帳上鎖協定
//	gateway: 持久化 (快照 + 交易日誌)
//	now: 交易時間來源
//	newID: 交易追蹤號產生器
type CoreUseCase struct {
	store       AccountStore
	coordinator TransferCoordinator
	gateway     Gateway
	now         func() time.Time
	newID       func() uuid.UUID
	log         log15.Logger
}

// Option 定義了 CoreUseCase 的配置選項函數
type Option func(*CoreUseCase)

// WithClock 設定交易時間來源 (測試用固定時間)
func WithClock(now func() time.Time) Option {
	return func(c *CoreUseCase) {
		c.now = now
	}
}

// WithIDGenerator 設定交易追蹤號產生器
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(c *CoreUseCase) {
		c.newID = newID
	}
}

// WithLogger 設定 logger
func WithLogger(l log15.Logger) Option {
	return func(c *CoreUseCase) {
		c.log = l
	}
}

// NewCoreUseCase 組裝 CoreUseCase，不做任何 I/O
func NewCoreUseCase(store AccountStore, coordinator TransferCoordinator, gateway Gateway, opts ...Option) *CoreUseCase {
	c := &CoreUseCase{
		store:       store,
		coordinator: coordinator,
		gateway:     gateway,
		now:         time.Now,
		newID:       uuid.New,
		log:         log15.New("module", "core"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open 組裝 CoreUseCase 並由既有快照還原帳戶
//
// 回傳:
//
//	*CoreUseCase: CoreUseCase 實例
//	error: 快照讀取或還原錯誤
func Open(ctx context.Context, store AccountStore, coordinator TransferCoordinator, gateway Gateway, opts ...Option) (*CoreUseCase, error) {
	c := NewCoreUseCase(store, coordinator, gateway, opts...)
	accounts, err := gateway.LoadSnapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load snapshot")
	}
	if err := store.Restore(accounts); err != nil {
		return nil, errors.Wrap(err, "restore accounts")
	}
	if len(accounts) == 0 {
		c.log.Info("no existing account snapshot, starting fresh")
	} else {
		c.log.Info("accounts restored", "count", len(accounts))
	}
	return c, nil
}

// CreateAccount 開戶
//
// 參數:
//
//	ctx: 上下文
//	initialBalance: 初始餘額
//
// 回傳:
//
//	domain.Account: 新帳戶
//	domain.TransactionRecord: 本次操作的交易紀錄
//	error: ErrCapacityExceeded / ErrInvalidAmount / ErrIO
func (c *CoreUseCase) CreateAccount(ctx context.Context, initialBalance float64) (domain.Account, domain.TransactionRecord, error) {
	account, err := c.store.Create(initialBalance)
	from := domain.NoAccount
	if err == nil {
		from = account.ID
	}
	rec := c.record(domain.TransactionTypeCreate, initialBalance, from, domain.NoAccount, err)
	return account, rec, c.complete(ctx, rec, err)
}

// GetAccountBalance 取得帳戶餘額 (唯讀，不寫日誌也不存快照)
func (c *CoreUseCase) GetAccountBalance(ctx context.Context, accountID int64) (float64, error) {
	return c.store.Balance(accountID)
}

// Deposit 存款
//
// 回傳:
//
//	domain.Account: 帳戶在鎖內操作完成時的狀態
//	domain.TransactionRecord: 本次操作的交易紀錄
//	error: ErrInvalidAccountID / ErrInvalidAmount / ErrIO
func (c *CoreUseCase) Deposit(ctx context.Context, accountID int64, amount float64) (domain.Account, domain.TransactionRecord, error) {
	balance, err := c.store.Mutate(accountID, func(balance float64) (float64, error) {
		return domain.Deposit(balance, amount)
	})
	rec := c.record(domain.TransactionTypeDeposit, amount, accountID, domain.NoAccount, err)
	return domain.NewAccount(accountID, balance), rec, c.complete(ctx, rec, err)
}

// Withdraw 提款，回傳值同 Deposit
func (c *CoreUseCase) Withdraw(ctx context.Context, accountID int64, amount float64) (domain.Account, domain.TransactionRecord, error) {
	balance, err := c.store.Mutate(accountID, func(balance float64) (float64, error) {
		return domain.Withdraw(balance, amount)
	})
	rec := c.record(domain.TransactionTypeWithdraw, amount, accountID, domain.NoAccount, err)
	return domain.NewAccount(accountID, balance), rec, c.complete(ctx, rec, err)
}

// Transfer 轉帳，回傳的 domain.Account 是 from 帳戶
func (c *CoreUseCase) Transfer(ctx context.Context, from, to int64, amount float64) (domain.Account, domain.TransactionRecord, error) {
	balance, err := c.coordinator.Transfer(from, to, amount)
	rec := c.record(domain.TransactionTypeTransfer, amount, from, to, err)
	return domain.NewAccount(from, balance), rec, c.complete(ctx, rec, err)
}

// History 依寫入順序回傳交易日誌 (lazy，每次呼叫都從頭讀)
func (c *CoreUseCase) History(ctx context.Context) iter.Seq2[string, error] {
	return c.gateway.ReadLog(ctx)
}

// Accounts 回傳所有帳戶快照
func (c *CoreUseCase) Accounts(ctx context.Context) []domain.Account {
	return c.store.Snapshot()
}

// Close 結束前最後一次存快照並關閉 gateway
func (c *CoreUseCase) Close(ctx context.Context) error {
	saveErr := c.gateway.SaveSnapshot(ctx, c.store.Snapshot)
	if saveErr != nil {
		c.log.Error("final snapshot save failed", "err", saveErr)
	}
	if err := c.gateway.Close(); err != nil && saveErr == nil {
		return err
	}
	return saveErr
}

func (c *CoreUseCase) record(typ domain.TransactionType, amount float64, from, to int64, result error) domain.TransactionRecord {
	return domain.NewRecord(c.newID(), c.now(), typ, amount, from, to, result)
}

// complete 所有變更操作的收尾：不論成功與否都追加一筆紀錄並存一次快照
// 持久化失敗不會回滾記憶體內的變更
//
// 參數:
//
//	ctx: 上下文
//	rec: 本次操作的交易紀錄
//	result: 業務結果
//
// 回傳:
//
//	error: 業務錯誤優先；業務成功時回傳持久化錯誤
func (c *CoreUseCase) complete(ctx context.Context, rec domain.TransactionRecord, result error) error {
	var ioErr error
	if err := c.gateway.AppendLog(ctx, rec); err != nil {
		c.log.Error("append transaction log failed", "op", rec.Type.String(), "err", err)
		ioErr = err
	}
	if err := c.gateway.SaveSnapshot(ctx, c.store.Snapshot); err != nil {
		c.log.Error("save account snapshot failed", "op", rec.Type.String(), "err", err)
		if ioErr == nil {
			ioErr = err
		}
	}

	if result != nil {
		c.log.Debug("transaction failed", "op", rec.Type.String(), "from", rec.From, "to", rec.To, "amount", rec.Amount, "err", result)
		return result
	}
	c.log.Debug("transaction done", "op", rec.Type.String(), "from", rec.From, "to", rec.To, "amount", rec.Amount)
	return ioErr
}
