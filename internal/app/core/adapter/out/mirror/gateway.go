package mirror

import (
	"context"
	"iter"

	"github.com/inconshreveable/log15"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
)

// Gateway 將寫入依序送到 primary 與所有 replica，讀取只走 primary
// 每個 gateway 都會被嘗試，回傳第一個錯誤，其餘錯誤只記 log
type Gateway struct {
	primary  usecase.Gateway
	replicas []usecase.Gateway
	log      log15.Logger
}

// NewGateway 建立 mirror Gateway
func NewGateway(primary usecase.Gateway, replicas ...usecase.Gateway) *Gateway {
	return &Gateway{
		primary:  primary,
		replicas: replicas,
		log:      log15.New("module", "mirror"),
	}
}

func (g *Gateway) SaveSnapshot(ctx context.Context, snapshot usecase.SnapshotFunc) error {
	return g.each("save snapshot", func(gw usecase.Gateway) error {
		return gw.SaveSnapshot(ctx, snapshot)
	})
}

func (g *Gateway) AppendLog(ctx context.Context, record domain.TransactionRecord) error {
	return g.each("append log", func(gw usecase.Gateway) error {
		return gw.AppendLog(ctx, record)
	})
}

func (g *Gateway) LoadSnapshot(ctx context.Context) ([]domain.Account, error) {
	return g.primary.LoadSnapshot(ctx)
}

func (g *Gateway) ReadLog(ctx context.Context) iter.Seq2[string, error] {
	return g.primary.ReadLog(ctx)
}

func (g *Gateway) Close() error {
	return g.each("close", func(gw usecase.Gateway) error {
		return gw.Close()
	})
}

func (g *Gateway) each(op string, f func(gw usecase.Gateway) error) error {
	firstErr := f(g.primary)
	for i, replica := range g.replicas {
		err := f(replica)
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
			continue
		}
		g.log.Error("replica write failed", "op", op, "replica", i, "err", err)
	}
	return firstErr
}

var _ usecase.Gateway = (*Gateway)(nil)
