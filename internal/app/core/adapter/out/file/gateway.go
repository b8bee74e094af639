package file

import (
	"context"
	"io"
	"iter"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-lock-ledger/pkg/journal"
)

// Gateway 以兩個文字檔持久化帳本：帳戶快照 (整份覆寫) 與交易日誌 (只追加)
//
// 結構:
//
//	mu: 序列化鎖，所有寫檔動作都在鎖內，與帳戶鎖無關
//	accountsPath: 快照檔路徑
//	txLog: 交易日誌
type Gateway struct {
	mu           sync.Mutex
	accountsPath string
	txLog        *journal.Journal
}

// NewGateway 建立檔案 Gateway (不會建立檔案)
//
// 參數:
//
//	accountsPath: 快照檔路徑
//	logPath: 交易日誌路徑
//	opts: 交易日誌的選項
func NewGateway(accountsPath, logPath string, opts ...journal.Option) *Gateway {
	return &Gateway{
		accountsPath: accountsPath,
		txLog:        journal.New(logPath, opts...),
	}
}

// SaveSnapshot 整份覆寫快照
func (g *Gateway) SaveSnapshot(ctx context.Context, snapshot usecase.SnapshotFunc) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	accounts := snapshot()
	err := journal.Rewrite(g.accountsPath, func(w io.Writer) error {
		return EncodeSnapshot(w, accounts)
	})
	if err != nil {
		return errors.Wrapf(domain.ErrIO, "save snapshot %s: %v", g.accountsPath, err)
	}
	return nil
}

// AppendLog 追加一筆交易紀錄
func (g *Gateway) AppendLog(ctx context.Context, record domain.TransactionRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.txLog.Append(record.Line()); err != nil {
		return errors.Wrapf(domain.ErrIO, "append transaction log %s: %v", g.txLog.Path(), err)
	}
	return nil
}

// LoadSnapshot 讀取快照，檔案不存在時回傳空結果
func (g *Gateway) LoadSnapshot(ctx context.Context) ([]domain.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f, err := os.Open(g.accountsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(domain.ErrIO, "open snapshot %s: %v", g.accountsPath, err)
	}
	defer f.Close()
	return DecodeSnapshot(f)
}

// ReadLog 逐行讀取交易日誌 (唯讀，不持有序列化鎖)
func (g *Gateway) ReadLog(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for line, err := range g.txLog.Lines() {
			if err != nil {
				yield("", errors.Wrapf(domain.ErrIO, "read transaction log %s: %v", g.txLog.Path(), err))
				return
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}

// Close 檔案 Gateway 不持有任何 handle
func (g *Gateway) Close() error {
	return nil
}

var _ usecase.Gateway = (*Gateway)(nil)
