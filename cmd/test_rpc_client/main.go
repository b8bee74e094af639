package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	grpc_adapter "github.com/JoeShih716/go-lock-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	pkggrpc "github.com/JoeShih716/go-lock-ledger/pkg/grpc"
)

// 壓力測試：兩個帳戶之間雙向轉帳 (A->B 與 B->A)，驗證不會死鎖且總額不變
func main() {
	target := flag.String("target", "localhost:50051", "ledger gRPC address")
	total := flag.Int("n", 10000, "number of transfers")
	concurrency := flag.Int("c", 100, "concurrent requests")
	amount := flag.Float64("amount", 1, "amount per transfer")
	flag.Parse()

	log := log15.New("module", "test_rpc_client")
	pool := pkggrpc.NewPool(pkggrpc.WithInterceptor(pkggrpc.UnaryClientLogger(log)))
	defer pool.Close()

	conn, err := pool.GetConnection(*target)
	if err != nil {
		fatal(log, "did not connect", "err", err)
	}
	c := grpc_adapter.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	a, err := c.CreateAccount(ctx, 1000)
	if err != nil {
		fatal(log, "create account failed", "err", err)
	}
	b, err := c.CreateAccount(ctx, 1000)
	if err != nil {
		fatal(log, "create account failed", "err", err)
	}

	var wg sync.WaitGroup
	var ok, insufficient, failed atomic.Int64
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()

	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			from, to := a.ID, b.ID
			if idx%2 == 1 {
				from, to = to, from
			}
			_, err := c.Transfer(ctx, from, to, *amount)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientBalance):
				insufficient.Add(1)
			default:
				failed.Add(1)
				if idx%1000 == 0 {
					log.Warn("transfer failed", "idx", idx, "err", err)
				}
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	balanceA, errA := c.GetBalance(ctx, a.ID)
	balanceB, errB := c.GetBalance(ctx, b.ID)
	if errA != nil || errB != nil {
		fatal(log, "get balance failed", "errA", errA, "errB", errB)
	}

	fmt.Printf("Completed %d transfers in %v (ok=%d insufficient=%d failed=%d)\n", *total, elapsed, ok.Load(), insufficient.Load(), failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())
	fmt.Printf("Balances: %d=%.2f %d=%.2f sum=%.2f\n", a.ID, balanceA, b.ID, balanceB, balanceA+balanceB)
	if balanceA+balanceB != a.Balance+b.Balance {
		fmt.Println("total balance changed!")
		os.Exit(1)
	}
}

func fatal(log log15.Logger, msg string, ctx ...interface{}) {
	log.Crit(msg, ctx...)
	os.Exit(1)
}
