package grpc

import (
	"context"
	"time"

	"github.com/inconshreveable/log15"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryServerLogger 記錄每個 unary 呼叫的 method、耗時與狀態碼
func UnaryServerLogger(log log15.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call", "method", info.FullMethod, "code", status.Code(err).String(), "elapsed", time.Since(start))
		return resp, err
	}
}

// UnaryClientLogger 記錄 client 端失敗的呼叫
func UnaryClientLogger(log log15.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil {
			log.Warn("grpc call failed", "method", method, "target", cc.Target(), "err", err)
		}
		return err
	}
}
