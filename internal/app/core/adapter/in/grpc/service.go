package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName gRPC 服務名稱
// 訊息一律使用 google.protobuf.Struct，不需要產生程式碼
const ServiceName = "ledger.v1.LedgerService"

const (
	MethodCreateAccount = "CreateAccount"
	MethodGetBalance    = "GetBalance"
	MethodDeposit       = "Deposit"
	MethodWithdraw      = "Withdraw"
	MethodTransfer      = "Transfer"
	MethodHistory       = "History"
)

// LedgerServiceServer 是 LedgerService 的 server 端介面
type LedgerServiceServer interface {
	CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Transfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv LedgerServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// FullMethod 回傳 "/ledger.v1.LedgerService/<method>"
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc LedgerService 的描述，手動註冊到 grpc.Server
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodCreateAccount,
			Handler: unaryHandler(MethodCreateAccount, func(srv LedgerServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.CreateAccount(ctx, req)
			}),
		},
		{
			MethodName: MethodGetBalance,
			Handler: unaryHandler(MethodGetBalance, func(srv LedgerServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.GetBalance(ctx, req)
			}),
		},
		{
			MethodName: MethodDeposit,
			Handler: unaryHandler(MethodDeposit, func(srv LedgerServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.Deposit(ctx, req)
			}),
		},
		{
			MethodName: MethodWithdraw,
			Handler: unaryHandler(MethodWithdraw, func(srv LedgerServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.Withdraw(ctx, req)
			}),
		},
		{
			MethodName: MethodTransfer,
			Handler: unaryHandler(MethodTransfer, func(srv LedgerServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.Transfer(ctx, req)
			}),
		},
		{
			MethodName: MethodHistory,
			Handler: unaryHandler(MethodHistory, func(srv LedgerServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.History(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger/v1/ledger.proto",
}

// RegisterLedgerServiceServer 註冊 LedgerService
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
