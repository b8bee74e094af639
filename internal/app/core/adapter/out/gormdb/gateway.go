package gormdb

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-lock-ledger/pkg/sqldb"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	AccountID int64 `gorm:"uniqueIndex"`
	Balance   float64
	UpdatedAt int64 `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// sqlTransaction 對應資料庫的 transactions 表
type sqlTransaction struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	RefID         []byte `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 TransactionRecord.ID
	Operation     uint8
	Amount        float64
	FromAccountID int64
	ToAccountID   int64
	Status        string `gorm:"size:128"`
	OccurredAt    int64  // 交易時間 (UnixNano)
	CreatedAt     int64  `gorm:"autoCreateTime:milli"` // 自動寫入時間
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

func (t *sqlTransaction) record() domain.TransactionRecord {
	id, _ := uuid.FromBytes(t.RefID)
	return domain.TransactionRecord{
		ID:     id,
		Time:   time.Unix(0, t.OccurredAt),
		Amount: t.Amount,
		From:   t.FromAccountID,
		To:     t.ToAccountID,
		Status: t.Status,
		Type:   domain.TransactionType(t.Operation),
	}
}

// Gateway 以 GORM 持久化帳本 (MySQL 或 SQLite)
type Gateway struct {
	mu     sync.Mutex
	client *sqldb.Client
}

// NewGateway 建立 Gateway 並自動建表
func NewGateway(client *sqldb.Client) (*Gateway, error) {
	if err := client.DB().AutoMigrate(&sqlAccount{}, &sqlTransaction{}); err != nil {
		return nil, errors.Wrap(err, "migrate ledger tables")
	}
	return &Gateway{
		client: client,
	}, nil
}

// SaveSnapshot 以單一 upsert 覆寫所有帳戶餘額
func (g *Gateway) SaveSnapshot(ctx context.Context, snapshot usecase.SnapshotFunc) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	accounts := snapshot()
	if len(accounts) == 0 {
		return nil
	}
	rows := make([]sqlAccount, 0, len(accounts))
	for _, account := range accounts {
		rows = append(rows, sqlAccount{AccountID: account.ID, Balance: account.Balance})
	}
	err := g.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
		}).
		Create(&rows).Error
	if err != nil {
		return errors.Wrapf(domain.ErrIO, "save snapshot: %v", err)
	}
	return nil
}

// AppendLog 新增一筆交易紀錄
func (g *Gateway) AppendLog(ctx context.Context, record domain.TransactionRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tran := sqlTransaction{
		RefID:         record.ID[:],
		Operation:     uint8(record.Type),
		Amount:        record.Amount,
		FromAccountID: record.From,
		ToAccountID:   record.To,
		Status:        record.Status,
		OccurredAt:    record.Time.UnixNano(),
	}
	if err := g.client.DB().WithContext(ctx).Create(&tran).Error; err != nil {
		return errors.Wrapf(domain.ErrIO, "append transaction: %v", err)
	}
	return nil
}

// LoadSnapshot 依帳戶 ID 遞增讀取所有帳戶
func (g *Gateway) LoadSnapshot(ctx context.Context) ([]domain.Account, error) {
	var rows []sqlAccount
	if err := g.client.DB().WithContext(ctx).Order("account_id").Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(domain.ErrIO, "load snapshot: %v", err)
	}
	accounts := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, domain.NewAccount(row.AccountID, row.Balance))
	}
	return accounts, nil
}

// ReadLog 以 cursor 依寫入順序逐筆讀取，輸出與檔案日誌相同格式的行
func (g *Gateway) ReadLog(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		db := g.client.DB().WithContext(ctx)
		rows, err := db.Model(&sqlTransaction{}).Order("id").Rows()
		if err != nil {
			yield("", errors.Wrapf(domain.ErrIO, "read transactions: %v", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var tran sqlTransaction
			if err := db.ScanRows(rows, &tran); err != nil {
				yield("", errors.Wrapf(domain.ErrIO, "scan transaction: %v", err))
				return
			}
			if !yield(tran.record().Line(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield("", errors.Wrapf(domain.ErrIO, "read transactions: %v", err))
		}
	}
}

// Close 關閉資料庫連線
func (g *Gateway) Close() error {
	return g.client.Close()
}

var _ usecase.Gateway = (*Gateway)(nil)
