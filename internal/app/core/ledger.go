// Package core 依設定組裝帳本：記憶體 store、轉帳協定與持久化 gateway
package core

import (
	"context"

	"github.com/pkg/errors"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/adapter/out/file"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/adapter/out/gormdb"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/adapter/out/mirror"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-lock-ledger/internal/config"
	"github.com/JoeShih716/go-lock-ledger/pkg/journal"
	"github.com/JoeShih716/go-lock-ledger/pkg/sqldb"
)

// OpenLedger 建立帳本並由既有快照還原
//
// 參數:
//
//	ctx: 上下文
//	cfg: 設定
//	opts: CoreUseCase 選項
//
// 回傳:
//
//	*usecase.CoreUseCase: 帳本，結束時必須呼叫 Close
//	error: gateway 建立或快照還原錯誤
func OpenLedger(ctx context.Context, cfg config.Config, opts ...usecase.Option) (*usecase.CoreUseCase, error) {
	gateway, err := OpenGateway(cfg)
	if err != nil {
		return nil, err
	}
	store := memory.NewAccountStore(cfg.Ledger.Capacity)
	coordinator := memory.NewTransferCoordinator(store)

	ledger, err := usecase.Open(ctx, store, coordinator, gateway, opts...)
	if err != nil {
		gateway.Close()
		return nil, err
	}
	return ledger, nil
}

// OpenGateway 依 storage.driver 建立持久化 gateway
func OpenGateway(cfg config.Config) (usecase.Gateway, error) {
	switch cfg.Storage.Driver {
	case config.StorageFile:
		fileGateway := file.NewGateway(cfg.Storage.AccountsFile, cfg.Storage.LogFile, journal.WithSync(cfg.SyncLog()))
		if !cfg.Storage.Mirror {
			return fileGateway, nil
		}
		sqlGateway, err := openSQLGateway(cfg.SQL())
		if err != nil {
			return nil, err
		}
		return mirror.NewGateway(fileGateway, sqlGateway), nil
	case config.StorageMySQL, config.StorageSQLite:
		return openSQLGateway(cfg.SQL())
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openSQLGateway(cfg sqldb.Config) (usecase.Gateway, error) {
	client, err := sqldb.NewClient(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "open sql gateway")
	}
	gateway, err := gormdb.NewGateway(client)
	if err != nil {
		client.Close()
		return nil, err
	}
	return gateway, nil
}
