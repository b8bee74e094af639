package usecase

import (
	"context"
	"iter"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
)

// AccountStore 是帳戶記憶體儲存的介面
type AccountStore interface {
	// Create 開戶，ID 依序分配
	Create(initialBalance float64) (domain.Account, error)
	// Balance 取得帳戶餘額
	Balance(id int64) (float64, error)
	// Mutate 在帳戶鎖內套用 f
	Mutate(id int64, f func(balance float64) (float64, error)) (float64, error)
	// Snapshot 依 ID 遞增回傳所有帳戶
	Snapshot() []domain.Account
	// Restore 啟動時還原帳戶
	Restore(accounts []domain.Account) error
}

// TransferCoordinator 負責兩帳戶上鎖協定的轉帳
type TransferCoordinator interface {
	// Transfer 回傳鎖內計算出的 from 餘額
	Transfer(from, to int64, amount float64) (float64, error)
}

// SnapshotFunc 回傳當下的帳戶快照
type SnapshotFunc func() []domain.Account

// Gateway 是持久化的介面，寫入動作由單一序列化鎖保護
type Gateway interface {
	// SaveSnapshot 整份覆寫帳戶快照；snapshot 在序列化鎖內取得，最後寫入的必定是最新狀態
	SaveSnapshot(ctx context.Context, snapshot SnapshotFunc) error
	// AppendLog 追加一筆交易紀錄
	AppendLog(ctx context.Context, record domain.TransactionRecord) error
	// LoadSnapshot 讀取快照，不存在時回傳空結果
	LoadSnapshot(ctx context.Context) ([]domain.Account, error)
	// ReadLog 依寫入順序逐行讀取交易日誌，每次呼叫都從頭讀
	ReadLog(ctx context.Context) iter.Seq2[string, error]
	// Close 釋放資源
	Close() error
}
