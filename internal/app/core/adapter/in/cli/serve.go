package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-lock-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
	pkggrpc "github.com/JoeShih716/go-lock-ledger/pkg/grpc"
)

func newServeCommand(opts *RootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = opts.Config.GRPC.Addr
			}
			return opts.withLedger(cmd, func(ctx context.Context, ledger *usecase.CoreUseCase) error {
				lis, err := net.Listen("tcp", addr)
				if err != nil {
					return errors.Wrapf(err, "listen %s", addr)
				}
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				return serve(ctx, lis, ledger)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config grpc.addr)")
	return cmd
}

// serve 直到 ctx 結束，之後 GracefulStop
func serve(ctx context.Context, lis net.Listener, ledger *usecase.CoreUseCase) error {
	log := log15.New("module", "grpc")
	s := grpc.NewServer(grpc.UnaryInterceptor(pkggrpc.UnaryServerLogger(log)))
	grpc_adapter.RegisterLedgerServiceServer(s, grpc_adapter.NewGrpcServer(ledger))
	reflection.Register(s) // 方便 gRPC Client 測試 (如 grpcurl)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting gRPC server", "addr", lis.Addr().String())
		errCh <- s.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")
	s.GracefulStop()
	log.Info("server exited")
	return nil
}
